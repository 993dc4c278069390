package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"legalcase_app_go/config"
	"legalcase_app_go/models"
)

// AnalysisOutcome is what an engine reports for one document
type AnalysisOutcome struct {
	AnalysisText      string
	ViabilityScore    float64
	ConfidenceScore   float64
	KeyLegalIssues    []string
	PotentialDefenses []string
	Recommendations   []models.Recommendation
	Model             string
	ProcessingTime    time.Duration
}

// AnalysisEngine produces a legal analysis of a document in the context of a case
type AnalysisEngine interface {
	Analyze(ctx context.Context, documentText, caseContext string) (*AnalysisOutcome, error)
}

// NewAnalysisEngine selects the engine named in the configuration
func NewAnalysisEngine(cfg *config.Config) (AnalysisEngine, error) {
	switch cfg.AnalysisEngine {
	case config.AnalysisEngineMock, "":
		return &MockAnalysisEngine{}, nil
	}
	return nil, fmt.Errorf("unknown analysis engine %q", cfg.AnalysisEngine)
}

// MockAnalysisEngine returns a fixed analysis for development and tests
type MockAnalysisEngine struct{}

// Analyze returns a canned outcome that mentions the document length
func (MockAnalysisEngine) Analyze(ctx context.Context, documentText, caseContext string) (*AnalysisOutcome, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var b strings.Builder
	b.WriteString("# Mock Legal Document Analysis\n\n")
	fmt.Fprintf(&b, "Document length: %d characters\n", len(documentText))
	fmt.Fprintf(&b, "Context provided: %t\n\n", strings.TrimSpace(caseContext) != "")
	b.WriteString("Development environment response. No model was called.\n")

	return &AnalysisOutcome{
		AnalysisText:      b.String(),
		ViabilityScore:    72,
		ConfidenceScore:   0.82,
		KeyLegalIssues:    []string{"Sufficiency of evidence", "Procedural compliance"},
		PotentialDefenses: []string{"Lack of intent"},
		Recommendations: []models.Recommendation{
			{Action: "Review additional documentation", Priority: models.PriorityMedium, ImpactScore: 0.6},
			{Action: "Consult relevant case law", Priority: models.PriorityHigh, ImpactScore: 0.8},
		},
		Model: "mock-legal-model",
	}, nil
}
