package services

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"legalcase_app_go/models"
	"legalcase_app_go/services/docstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const researchYAML = `
- citation: 384 U.S. 436
  title: Miranda v. Arizona
  court: Supreme Court
  jurisdiction: Federal
  decision_date: 1966-06-13T00:00:00Z
  relevance_score: 0.95
  type: CaseOpinion
  metadata:
    keywords: [interrogation, warnings]
    precedential_value: Binding
- citation: ""
  title: Missing citation
- citation: Cal. Penal Code 484
  title: Theft defined
  type: Pamphlet
`

func TestParseResearchFile_YAML(t *testing.T) {
	docs, result, err := ParseResearchFile("seed.yaml", strings.NewReader(researchYAML))
	require.NoError(t, err)

	require.Len(t, docs, 1)
	assert.Equal(t, "Miranda v. Arizona", docs[0].Title)
	assert.Equal(t, []string{"interrogation", "warnings"}, docs[0].Metadata.Keywords)
	assert.True(t, docs[0].DecisionDate.Equal(time.Date(1966, 6, 13, 0, 0, 0, 0, time.UTC)))

	assert.Equal(t, 3, result.TotalProcessed)
	assert.Equal(t, 2, result.FailedCount)
	require.Len(t, result.Errors, 2)
	assert.Contains(t, result.Errors[0], "document 2")
	assert.Contains(t, result.Errors[1], "type")
}

func TestParseResearchFile_JSON(t *testing.T) {
	body := `[{"citation":"372 U.S. 335","title":"<b>Gideon</b> v. Wainwright","relevance_score":1.5},
		{"citation":"18 U.S.C. 1343","title":"Wire fraud"}]`

	docs, result, err := ParseResearchFile("seed.JSON", strings.NewReader(body))
	require.NoError(t, err)

	require.Len(t, docs, 1)
	assert.Equal(t, "Wire fraud", docs[0].Title)
	assert.Equal(t, 1, result.FailedCount)
	assert.Contains(t, result.Errors[0], "relevance_score")
}

func TestParseResearchFile_Unsupported(t *testing.T) {
	_, _, err := ParseResearchFile("seed.csv", strings.NewReader(""))
	assert.ErrorContains(t, err, "unsupported")

	_, _, err = ParseResearchFile("broken.json", strings.NewReader("{"))
	assert.Error(t, err)
}

func TestGenerateResearchTemplate(t *testing.T) {
	buf, err := GenerateResearchTemplate()
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Instructions", ResearchSheet}, f.GetSheetList())
	rows, err := f.GetRows(ResearchSheet)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, ResearchColumns, rows[0])
}

func TestParseResearchFile_Excel(t *testing.T) {
	buf, err := GenerateResearchTemplate()
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow(ResearchSheet, "A2", &[]interface{}{
		"384 U.S. 436", "Miranda v. Arizona", "Warnings", "Supreme Court", "Federal", "1966-06-13",
		"759", "Warren", "0.95", "CaseOpinion", "", "interrogation; warnings", "", "Criminal", "Binding",
	}))
	require.NoError(t, f.SetSheetRow(ResearchSheet, "A4", &[]interface{}{"Cal. Penal Code 484", "Theft defined"}))
	out, err := f.WriteToBuffer()
	require.NoError(t, err)
	f.Close()

	docs, result, err := ParseResearchFile("seed.xlsx", out)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, 2, result.TotalProcessed)

	assert.Equal(t, "Warren", docs[0].Judge)
	assert.InDelta(t, 0.95, docs[0].RelevanceScore, 1e-9)
	assert.Equal(t, []string{"interrogation", "warnings"}, docs[0].Metadata.Keywords)
	assert.Equal(t, []string{"Criminal"}, docs[0].Metadata.PracticeAreas)
	assert.Equal(t, 1966, docs[0].DecisionDate.Year())
	assert.Equal(t, "Theft defined", docs[1].Title)
}

func TestParseResearchFile_ExcelBadDate(t *testing.T) {
	f := excelize.NewFile()
	f.SetSheetName("Sheet1", ResearchSheet)
	f.SetCellValue(ResearchSheet, "A2", "1 U.S. 1")
	f.SetCellValue(ResearchSheet, "B2", "Old case")
	f.SetCellValue(ResearchSheet, "F2", "June 1966")
	out, err := f.WriteToBuffer()
	require.NoError(t, err)

	_, _, err = ParseResearchFile("seed.xlsx", out)
	assert.ErrorContains(t, err, "row 2")
}

func TestImportResearch(t *testing.T) {
	ctx := context.Background()
	store := docstore.NewMemoryStore()
	docs := []models.LegalResearchDocument{
		{Citation: "a", Title: "A"},
		{Citation: "b", Title: "B"},
		{Citation: "c", Title: "C"},
	}

	result := &ImportResult{Errors: []string{}}
	require.NoError(t, ImportResearch(ctx, store.Research(), docs, 2, result))

	assert.Equal(t, 2, result.SuccessCount)
	assert.Equal(t, 1, result.SkippedOverLimitCount)
	count, err := store.Research().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestImportResearch_DuplicateStops(t *testing.T) {
	ctx := context.Background()
	store := docstore.NewMemoryStore()
	require.NoError(t, store.Research().Create(ctx, &models.LegalResearchDocument{ID: "dup", Citation: "x", Title: "X"}))

	result := &ImportResult{Errors: []string{}}
	err := ImportResearch(ctx, store.Research(), []models.LegalResearchDocument{
		{ID: "dup", Citation: "x", Title: "X"},
		{Citation: "y", Title: "Y"},
	}, 0, result)

	assert.ErrorIs(t, err, models.ErrDuplicateKey)
	assert.Equal(t, 0, result.SuccessCount)
	assert.Equal(t, 2, result.FailedCount)
}
