package models

import "time"

// DefaultCaseSortBy is the aggregate field case searches sort on when the
// caller names none.
const DefaultCaseSortBy = "updatedAt"

// DefaultResearchSortBy is the default sort key for research searches
const DefaultResearchSortBy = "relevanceScore"

// CaseSearchCriteria selects case aggregates. Every non-nil (or non-empty)
// field adds one predicate; all predicates are AND-combined.
type CaseSearchCriteria struct {
	OwnerID           *string    `json:"owner_id,omitempty"`
	SearchText        *string    `json:"search_text,omitempty"`
	CreatedAfter      *time.Time `json:"created_after,omitempty"`
	CreatedBefore     *time.Time `json:"created_before,omitempty"`
	HasAnalysis       *bool      `json:"has_analysis,omitempty"`
	MinViabilityScore *float64   `json:"min_viability_score,omitempty"`
	Tags              []string   `json:"tags,omitempty"`
	DocumentTypes     []string   `json:"document_types,omitempty"`

	SortBy         *string `json:"sort_by,omitempty"`         // default "updatedAt"
	SortDescending *bool   `json:"sort_descending,omitempty"` // default true
	Skip           int     `json:"skip"`
	Take           int     `json:"take"` // <= 0 means unbounded
}

// LegalSearchQuery selects research documents with the same AND-of-present-fields rule
type LegalSearchQuery struct {
	FullTextQuery     *string    `json:"full_text_query,omitempty"`
	Jurisdiction      *string    `json:"jurisdiction,omitempty"`
	Court             *string    `json:"court,omitempty"`
	StartDate         *time.Time `json:"start_date,omitempty"`
	EndDate           *time.Time `json:"end_date,omitempty"`
	DocumentType      *string    `json:"document_type,omitempty"`
	MinRelevanceScore *float64   `json:"min_relevance_score,omitempty"`
	Keywords          []string   `json:"keywords,omitempty"`
	Topics            []string   `json:"topics,omitempty"`
	PracticeAreas     []string   `json:"practice_areas,omitempty"`
	PrecedentialValue *string    `json:"precedential_value,omitempty"`

	SortBy         *string `json:"sort_by,omitempty"`         // default "relevanceScore"
	SortDescending *bool   `json:"sort_descending,omitempty"` // default true
	Skip           int     `json:"skip"`
	Take           int     `json:"take"`
}

// CaseAnalysisStats is the rollup over one aggregate's analyses. Averages
// are nil when no analysis completed.
type CaseAnalysisStats struct {
	TotalAnalyses          int        `json:"total_analyses"`
	CompletedAnalyses      int        `json:"completed_analyses"`
	PendingAnalyses        int        `json:"pending_analyses"`
	FailedAnalyses         int        `json:"failed_analyses"`
	AverageViabilityScore  *float64   `json:"average_viability_score,omitempty"`
	AverageConfidenceScore *float64   `json:"average_confidence_score,omitempty"`
	TopLegalIssues         []string   `json:"top_legal_issues"`
	TopRecommendations     []string   `json:"top_recommendations"`
	LastAnalyzedAt         *time.Time `json:"last_analyzed_at,omitempty"`
}

// CaseWithDocuments is the merged read model of both stores
type CaseWithDocuments struct {
	Case      Case             `json:"case"`
	Documents []DocumentInfo   `json:"documents"`
	Analyses  []AnalysisResult `json:"analyses"`
	Tags      []string         `json:"tags"`
	Version   int              `json:"version"`
}
