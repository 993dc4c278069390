package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"legalcase_app_go/logging"
	"legalcase_app_go/models"
	"legalcase_app_go/services/docstore"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Coordinator operation names used in partial-failure logs and metrics
const (
	OperationCreate  = "create"
	OperationDelete  = "delete"
	OperationRead    = "read"
	OperationAnalyze = "analyze"
)

// CreateCaseInput carries the fields accepted when opening a case
type CreateCaseInput struct {
	Title              string     `json:"title"`
	Description        *string    `json:"description,omitempty"`
	CaseNumber         string     `json:"case_number,omitempty"`
	Status             string     `json:"status,omitempty"`
	Type               string     `json:"type,omitempty"`
	Priority           string     `json:"priority,omitempty"`
	Court              *string    `json:"court,omitempty"`
	Judge              *string    `json:"judge,omitempty"`
	FiledDate          *time.Time `json:"filed_date,omitempty"`
	HearingDate        *time.Time `json:"hearing_date,omitempty"`
	TrialDate          *time.Time `json:"trial_date,omitempty"`
	SuccessProbability *float64   `json:"success_probability,omitempty"`
	EstimatedValue     *float64   `json:"estimated_value,omitempty"`
	OwnerID            string     `json:"owner_id"`
	Tags               []string   `json:"tags,omitempty"`
}

// AnalyzeInput names the document text to analyze for a case
type AnalyzeInput struct {
	DocumentID   string `json:"document_id,omitempty"`
	DocumentText string `json:"document_text"`
}

// CaseCoordinator keeps a case's relational row and its document aggregate
// in step. The relational store is authoritative; aggregate writes that fail
// after a relational write are logged and counted, not returned.
type CaseCoordinator struct {
	records    *CaseRecordStore
	aggregates docstore.CaseStore
	engine     AnalysisEngine
	log        zerolog.Logger
	now        func() time.Time
}

// NewCaseCoordinator wires the two stores and the analysis engine
func NewCaseCoordinator(records *CaseRecordStore, aggregates docstore.CaseStore, engine AnalysisEngine) *CaseCoordinator {
	return &CaseCoordinator{
		records:    records,
		aggregates: aggregates,
		engine:     engine,
		log:        logging.New("coordinator"),
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// CreateCase writes the relational case and then its initial aggregate
func (cc *CaseCoordinator) CreateCase(ctx context.Context, in CreateCaseInput) (*models.Case, error) {
	c := &models.Case{
		CaseNumber:         in.CaseNumber,
		Title:              in.Title,
		Description:        in.Description,
		Status:             in.Status,
		Type:               in.Type,
		Priority:           in.Priority,
		Court:              in.Court,
		Judge:              in.Judge,
		FiledDate:          in.FiledDate,
		HearingDate:        in.HearingDate,
		TrialDate:          in.TrialDate,
		SuccessProbability: in.SuccessProbability,
		EstimatedValue:     in.EstimatedValue,
		OwnerID:            strings.TrimSpace(in.OwnerID),
	}
	if err := validateCase(c); err != nil {
		return nil, err
	}
	if c.OwnerID == "" {
		return nil, models.NewValidationError("owner_id", "is required")
	}
	tags, err := NormalizeTags(in.Tags)
	if err != nil {
		return nil, err
	}

	if err := cc.records.Create(ctx, c); err != nil {
		return nil, err
	}

	doc := newAggregate(c, tags)
	if err := cc.aggregates.Create(ctx, doc); err != nil {
		cc.partialFailure(OperationCreate, c.ID, err)
	}
	return c, nil
}

// UpdateCase changes only the relational row
func (cc *CaseCoordinator) UpdateCase(ctx context.Context, c *models.Case) (*models.Case, error) {
	if strings.TrimSpace(c.ID) == "" {
		return nil, models.NewValidationError("id", "is required")
	}
	if err := validateCase(c); err != nil {
		return nil, err
	}
	return cc.records.Update(ctx, c)
}

// GetCase returns the relational case alone
func (cc *CaseCoordinator) GetCase(ctx context.Context, caseID string) (*models.Case, error) {
	return cc.records.GetByID(ctx, caseID)
}

// GetCaseWithDocuments reads both stores concurrently and merges them. A
// missing or unreadable aggregate yields empty lists.
func (cc *CaseCoordinator) GetCaseWithDocuments(ctx context.Context, caseID string) (*models.CaseWithDocuments, error) {
	var (
		c   *models.Case
		doc *models.CaseDocument
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		c, err = cc.records.GetByID(gctx, caseID)
		return err
	})
	g.Go(func() error {
		d, err := cc.aggregates.GetByID(gctx, caseID)
		switch {
		case err == nil:
			doc = d
		case errors.Is(err, models.ErrNotFound), gctx.Err() != nil:
		default:
			PartialFailures.WithLabelValues(OperationRead).Inc()
			cc.log.Warn().Err(err).
				Str("case_id", caseID).
				Str("operation", OperationRead).
				Str("store", models.StoreAggregate).
				Msg("aggregate read failed, returning case without documents")
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &models.CaseWithDocuments{
		Case:      *c,
		Documents: []models.DocumentInfo{},
		Analyses:  []models.AnalysisResult{},
		Tags:      []string{},
	}
	if doc != nil {
		doc.Normalize()
		result.Documents = doc.Documents
		result.Analyses = doc.Analyses
		result.Tags = doc.Tags
		result.Version = doc.Version
	}
	return result, nil
}

// DeleteCase soft-deletes the relational row, then removes the aggregate
func (cc *CaseCoordinator) DeleteCase(ctx context.Context, caseID string) error {
	if err := cc.records.SoftDelete(ctx, caseID); err != nil {
		return err
	}
	if err := cc.aggregates.Delete(ctx, caseID); err != nil {
		cc.partialFailure(OperationDelete, caseID, err)
	}
	return nil
}

// GetCasesByUser lists an owner's live cases from the relational store
func (cc *CaseCoordinator) GetCasesByUser(ctx context.Context, ownerID string) ([]models.Case, error) {
	return cc.records.ListByOwner(ctx, ownerID)
}

// SearchCases runs structured criteria against the aggregates
func (cc *CaseCoordinator) SearchCases(ctx context.Context, criteria models.CaseSearchCriteria) ([]models.CaseDocument, error) {
	return cc.aggregates.Search(ctx, criteria)
}

// GetAnalysisStats rolls up the analyses of a case. A case without an
// aggregate has zero-valued stats.
func (cc *CaseCoordinator) GetAnalysisStats(ctx context.Context, caseID string) (*models.CaseAnalysisStats, error) {
	doc, err := cc.aggregates.GetByID(ctx, caseID)
	if errors.Is(err, models.ErrNotFound) {
		stats := ComputeAnalysisStats(nil, nil)
		return &stats, nil
	}
	if err != nil {
		return nil, err
	}
	stats := ComputeAnalysisStats(doc.Analyses, doc.Metadata.LastAnalyzedAt)
	return &stats, nil
}

// AttachDocument records uploaded-document metadata on a case aggregate
func (cc *CaseCoordinator) AttachDocument(ctx context.Context, caseID string, info models.DocumentInfo) (*models.CaseDocument, error) {
	if err := validateDocumentInfo(&info); err != nil {
		return nil, err
	}
	if info.ID == "" {
		info.ID = uuid.New().String()
	}
	if info.UploadedAt.IsZero() {
		info.UploadedAt = cc.now()
	}

	doc, err := cc.aggregates.GetByID(ctx, caseID)
	if err != nil {
		return nil, err
	}
	doc.Documents = append(doc.Documents, info)
	if err := cc.aggregates.Update(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// SetTags replaces the tags of a case aggregate
func (cc *CaseCoordinator) SetTags(ctx context.Context, caseID string, tags []string) (*models.CaseDocument, error) {
	normalized, err := NormalizeTags(tags)
	if err != nil {
		return nil, err
	}

	doc, err := cc.aggregates.GetByID(ctx, caseID)
	if err != nil {
		return nil, err
	}
	doc.Tags = normalized
	doc.Metadata.Tags = append([]string(nil), normalized...)
	if err := cc.aggregates.Update(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// AnalyzeCase runs the analysis engine on a document and prepends the
// result to the case aggregate. Engine failures are stored as a Failed
// analysis. A missing aggregate is recreated from the relational row.
// Closed and dismissed cases are rejected.
func (cc *CaseCoordinator) AnalyzeCase(ctx context.Context, caseID string, in AnalyzeInput) (*models.AnalysisResult, error) {
	if strings.TrimSpace(in.DocumentText) == "" {
		return nil, models.NewValidationError("document_text", "is required")
	}

	c, err := cc.records.GetByID(ctx, caseID)
	if err != nil {
		return nil, err
	}
	if c.IsClosed() {
		return nil, models.NewValidationError("status", "case is "+strings.ToLower(c.Status)+" and takes no new analyses")
	}

	doc, err := cc.aggregates.GetByID(ctx, caseID)
	if errors.Is(err, models.ErrNotFound) {
		cc.log.Info().Str("case_id", caseID).Msg("recreating missing case aggregate")
		doc = newAggregate(c, nil)
		if err := cc.aggregates.Create(ctx, doc); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}

	if in.DocumentID != "" && !hasDocument(doc, in.DocumentID) {
		return nil, models.NewValidationError("document_id", "is not attached to the case")
	}

	started := cc.now()
	result := models.AnalysisResult{
		ID:                uuid.New().String(),
		DocumentID:        in.DocumentID,
		CreatedAt:         started,
		KeyLegalIssues:    []string{},
		PotentialDefenses: []string{},
		Recommendations:   []models.Recommendation{},
	}

	outcome, err := cc.engine.Analyze(ctx, in.DocumentText, caseContext(c))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		cc.log.Warn().Err(err).Str("case_id", caseID).Str("operation", OperationAnalyze).Msg("analysis engine failed")
		result.Status = models.AnalysisStatusFailed
		result.AnalysisText = err.Error()
	} else {
		result.Status = models.AnalysisStatusCompleted
		result.AnalysisText = outcome.AnalysisText
		result.ViabilityScore = outcome.ViabilityScore
		result.ConfidenceScore = outcome.ConfidenceScore
		if outcome.KeyLegalIssues != nil {
			result.KeyLegalIssues = outcome.KeyLegalIssues
		}
		if outcome.PotentialDefenses != nil {
			result.PotentialDefenses = outcome.PotentialDefenses
		}
		if outcome.Recommendations != nil {
			result.Recommendations = outcome.Recommendations
		}
	}

	finished := cc.now()
	result.ProcessingTimeMs = finished.Sub(started).Milliseconds()
	if result.Status == models.AnalysisStatusCompleted {
		result.CompletedAt = &finished
	}

	doc.Analyses = append([]models.AnalysisResult{result}, doc.Analyses...)
	doc.Metadata.LastAnalyzedAt = &finished
	if err := cc.aggregates.Update(ctx, doc); err != nil {
		return nil, err
	}
	return &result, nil
}

func (cc *CaseCoordinator) partialFailure(operation, caseID string, err error) {
	PartialFailures.WithLabelValues(operation).Inc()
	cc.log.Warn().Err(err).
		Str("case_id", caseID).
		Str("operation", operation).
		Str("store", models.StoreAggregate).
		Msg("aggregate write failed after relational write")
}

// newAggregate builds the initial aggregate mirroring a relational case
func newAggregate(c *models.Case, tags []string) *models.CaseDocument {
	if tags == nil {
		tags = []string{}
	}
	return &models.CaseDocument{
		CaseID:     c.ID,
		OwnerID:    c.OwnerID,
		Title:      c.Title,
		CaseNumber: c.CaseNumber,
		Status:     c.Status,
		Tags:       tags,
		Metadata: models.CaseMetadata{
			Tags: append([]string{}, tags...),
		},
	}
}

func hasDocument(doc *models.CaseDocument, documentID string) bool {
	for _, d := range doc.Documents {
		if d.ID == documentID {
			return true
		}
	}
	return false
}

func caseContext(c *models.Case) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Case %s: %s\nType: %s\nStatus: %s\n", c.CaseNumber, c.Title, c.Type, c.Status)
	if c.Court != nil {
		fmt.Fprintf(&b, "Court: %s\n", *c.Court)
	}
	if c.Description != nil {
		fmt.Fprintf(&b, "Description: %s\n", *c.Description)
	}
	return b.String()
}
