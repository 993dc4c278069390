package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"legalcase_app_go/models"
	"legalcase_app_go/services/docstore"

	"github.com/goccy/go-json"
	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"
)

// ImportBatchSize is the number of documents sent to one BulkIndex call
const ImportBatchSize = 500

// ResearchSheet is the worksheet holding research rows in an import workbook
const ResearchSheet = "Research"

// ResearchColumns is the header row of the import sheet, in column order.
// List columns take values separated by ";".
var ResearchColumns = []string{
	"citation", "title", "summary", "court", "jurisdiction", "decision_date",
	"docket_number", "judge", "relevance_score", "type", "source",
	"keywords", "topics", "practice_areas", "precedential_value",
}

// ImportResult contains the summary of the import process
type ImportResult struct {
	TotalProcessed        int
	SuccessCount          int
	FailedCount           int
	SkippedOverLimitCount int
	Errors                []string
}

// GenerateResearchTemplate builds an empty import workbook with an
// instructions sheet and the research header row
func GenerateResearchTemplate() (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", "Instructions")
	f.SetCellValue("Instructions", "A1", "Legal research import")
	f.SetCellValue("Instructions", "A3", "- One document per row in the "+ResearchSheet+" sheet.")
	f.SetCellValue("Instructions", "A4", "- citation and title are required.")
	f.SetCellValue("Instructions", "A5", "- decision_date uses YYYY-MM-DD.")
	f.SetCellValue("Instructions", "A6", "- relevance_score is a number between 0 and 1.")
	f.SetCellValue("Instructions", "A7", "- Separate keywords, topics and practice areas with ';'.")

	titleStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 12}})
	f.SetCellStyle("Instructions", "A1", "A1", titleStyle)

	if _, err := f.NewSheet(ResearchSheet); err != nil {
		return nil, fmt.Errorf("failed to create research sheet: %w", err)
	}
	headerStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	for i, col := range ResearchColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(ResearchSheet, cell, col)
		f.SetCellStyle(ResearchSheet, cell, cell, headerStyle)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write excel buffer: %w", err)
	}
	return buf, nil
}

// ParseResearchFile decodes research documents from a YAML, JSON or xlsx
// file, picked by the extension of name. Rows that fail validation are
// reported in the result and left out of the returned slice.
func ParseResearchFile(name string, r io.Reader) ([]models.LegalResearchDocument, *ImportResult, error) {
	var (
		docs []models.LegalResearchDocument
		err  error
	)

	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		err = yaml.NewDecoder(r).Decode(&docs)
		if err == io.EOF {
			err = nil
		}
	case ".json":
		err = json.NewDecoder(r).Decode(&docs)
	case ".xlsx":
		docs, err = parseResearchSheet(r)
	default:
		return nil, nil, fmt.Errorf("unsupported research file %q (want .yaml, .json or .xlsx)", name)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decode %s: %w", name, err)
	}

	result := &ImportResult{Errors: []string{}}
	valid := make([]models.LegalResearchDocument, 0, len(docs))
	for i := range docs {
		result.TotalProcessed++
		if err := validateResearch(&docs[i]); err != nil {
			result.FailedCount++
			result.Errors = append(result.Errors, fmt.Sprintf("document %d: %v", i+1, err))
			continue
		}
		valid = append(valid, docs[i])
	}
	return valid, result, nil
}

// ImportResearch indexes docs in batches. Documents past limit are skipped;
// a limit of 0 imports everything. A failed batch stops the import.
func ImportResearch(ctx context.Context, research docstore.ResearchStore, docs []models.LegalResearchDocument, limit int, result *ImportResult) error {
	if limit > 0 && len(docs) > limit {
		result.SkippedOverLimitCount += len(docs) - limit
		docs = docs[:limit]
	}

	for start := 0; start < len(docs); start += ImportBatchSize {
		end := min(start+ImportBatchSize, len(docs))
		if err := research.BulkIndex(ctx, docs[start:end]); err != nil {
			result.FailedCount += len(docs) - start
			result.Errors = append(result.Errors, fmt.Sprintf("documents %d-%d: %v", start+1, end, err))
			return err
		}
		result.SuccessCount += end - start
	}
	return nil
}

func validateResearch(doc *models.LegalResearchDocument) error {
	doc.Citation = strings.TrimSpace(doc.Citation)
	doc.Title = sanitizeText(doc.Title)
	doc.Summary = sanitizeText(doc.Summary)

	if doc.Citation == "" {
		return models.NewValidationError("citation", "is required")
	}
	if doc.Title == "" {
		return models.NewValidationError("title", "is required")
	}
	if doc.Type != "" && !models.IsValidLegalDocumentType(doc.Type) {
		return models.NewValidationError("type", "is not a valid legal document type")
	}
	if doc.RelevanceScore < 0 || doc.RelevanceScore > 1 {
		return models.NewValidationError("relevance_score", "must be between 0 and 1")
	}
	if v := doc.Metadata.PrecedentialValue; v != "" && !models.IsValidPrecedentialValue(v) {
		return models.NewValidationError("precedential_value", "is not a valid precedential value")
	}
	return nil
}

// parseResearchSheet reads the Research sheet. Blank rows are skipped; a
// malformed date or score is reported as a parse error of that row.
func parseResearchSheet(r io.Reader) ([]models.LegalResearchDocument, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open excel file: %w", err)
	}
	defer f.Close()

	if idx, _ := f.GetSheetIndex(ResearchSheet); idx < 0 {
		return nil, fmt.Errorf("invalid excel format: missing %s sheet", ResearchSheet)
	}
	rows, err := f.GetRows(ResearchSheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read research sheet: %w", err)
	}

	docs := []models.LegalResearchDocument{}
	for i, row := range rows {
		if i == 0 {
			continue
		} // Header
		if strings.TrimSpace(strings.Join(row, "")) == "" {
			continue
		}

		cell := func(col int) string {
			if col < len(row) {
				return strings.TrimSpace(row[col])
			}
			return ""
		}

		doc := models.LegalResearchDocument{
			Citation:     cell(0),
			Title:        cell(1),
			Summary:      cell(2),
			Court:        cell(3),
			Jurisdiction: cell(4),
			DocketNumber: cell(6),
			Judge:        cell(7),
			Type:         cell(9),
			Source:       cell(10),
			Metadata: models.LegalSearchMetadata{
				Keywords:          splitList(cell(11)),
				Topics:            splitList(cell(12)),
				PracticeAreas:     splitList(cell(13)),
				PrecedentialValue: cell(14),
			},
		}
		if v := cell(5); v != "" {
			decided, err := ParseDate("decision_date", v)
			if err != nil {
				return nil, fmt.Errorf("row %d: %w", i+1, err)
			}
			doc.DecisionDate = decided
		}
		if v := cell(8); v != "" {
			score, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, fmt.Errorf("row %d: relevance_score must be a number", i+1)
			}
			doc.RelevanceScore = score
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func splitList(v string) []string {
	if v == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(v, ";") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
