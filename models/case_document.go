package models

import (
	"time"
)

// Analysis status constants
const (
	AnalysisStatusPending    = "Pending"
	AnalysisStatusProcessing = "Processing"
	AnalysisStatusCompleted  = "Completed"
	AnalysisStatusFailed     = "Failed"
)

// Document status constants
const (
	DocumentStatusUploaded  = "Uploaded"
	DocumentStatusProcessed = "Processed"
	DocumentStatusFailed    = "Failed"
)

// Document type constants
const (
	DocumentTypeComplaint      = "Complaint"
	DocumentTypeMotion         = "Motion"
	DocumentTypeBrief          = "Brief"
	DocumentTypeEvidence       = "Evidence"
	DocumentTypeTranscript     = "Transcript"
	DocumentTypeDeposition     = "Deposition"
	DocumentTypeContract       = "Contract"
	DocumentTypeCorrespondence = "Correspondence"
	DocumentTypeResearch       = "Research"
	DocumentTypeOther          = "Other"
)

// CaseDocument is the document-store aggregate holding the voluminous,
// frequently changing content of a case. CaseID equals Case.ID; neither
// engine enforces the link.
type CaseDocument struct {
	CaseID     string `json:"case_id"`
	OwnerID    string `json:"owner_id"`
	Title      string `json:"title"`
	CaseNumber string `json:"case_number"`
	Status     string `json:"status"`

	Tags      []string         `json:"tags"`
	Documents []DocumentInfo   `json:"documents"`
	Analyses  []AnalysisResult `json:"analyses"`
	Metadata  CaseMetadata     `json:"metadata"`

	// Version is bumped on every successful update. It is never compared
	// before a write, so concurrent updates are last-write-wins.
	Version   int       `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DocumentInfo is the metadata of one uploaded file. The bytes live elsewhere.
type DocumentInfo struct {
	ID               string    `json:"id"`
	FileName         string    `json:"file_name"`
	OriginalFileName string    `json:"original_file_name,omitempty"`
	FileType         string    `json:"file_type"`
	FileSize         int64     `json:"file_size"`
	StoragePath      string    `json:"storage_path,omitempty"`
	Type             string    `json:"type"`
	Status           string    `json:"status"`
	UploadedByID     string    `json:"uploaded_by_id,omitempty"`
	UploadedAt       time.Time `json:"uploaded_at"`
}

// AnalysisResult is one analysis run persisted inside the aggregate.
type AnalysisResult struct {
	ID                string           `json:"id"`
	DocumentID        string           `json:"document_id,omitempty"`
	Status            string           `json:"status"`
	ViabilityScore    float64          `json:"viability_score"`
	ConfidenceScore   float64          `json:"confidence_score"`
	AnalysisText      string           `json:"analysis_text"`
	KeyLegalIssues    []string         `json:"key_legal_issues"`
	PotentialDefenses []string         `json:"potential_defenses"`
	Recommendations   []Recommendation `json:"recommendations"`
	CreatedAt         time.Time        `json:"created_at"`
	CompletedAt       *time.Time       `json:"completed_at,omitempty"`
	ProcessingTimeMs  int64            `json:"processing_time_ms"`
}

// Recommendation priority constants
const (
	PriorityLow      = "Low"
	PriorityMedium   = "Medium"
	PriorityHigh     = "High"
	PriorityCritical = "Critical"
)

type Recommendation struct {
	Action      string  `json:"action"`
	Rationale   string  `json:"rationale,omitempty"`
	Priority    string  `json:"priority,omitempty"`
	ImpactScore float64 `json:"impact_score"`
}

type CaseMetadata struct {
	Tags           []string          `json:"tags"`
	CustomFields   map[string]string `json:"custom_fields,omitempty"`
	LastAnalyzedAt *time.Time        `json:"last_analyzed_at,omitempty"`
	SearchQueries  []string          `json:"search_queries"`
	Keywords       []string          `json:"keywords"`
	TotalDocuments int               `json:"total_documents"`
	TotalAnalyses  int               `json:"total_analyses"`
}

// HasAnalysis reports whether at least one analysis was recorded
func (d *CaseDocument) HasAnalysis() bool {
	return len(d.Analyses) > 0
}

// LatestAnalysis returns the newest analysis, or nil when none exist.
// Analyses are kept newest-first.
func (d *CaseDocument) LatestAnalysis() *AnalysisResult {
	if len(d.Analyses) == 0 {
		return nil
	}
	return &d.Analyses[0]
}

// RefreshTotals recomputes the derived counters in Metadata
func (d *CaseDocument) RefreshTotals() {
	d.Metadata.TotalDocuments = len(d.Documents)
	d.Metadata.TotalAnalyses = len(d.Analyses)
}

// Normalize replaces nil slices with empty ones so both engines store and
// query the same shapes.
func (d *CaseDocument) Normalize() {
	if d.Tags == nil {
		d.Tags = []string{}
	}
	if d.Documents == nil {
		d.Documents = []DocumentInfo{}
	}
	if d.Analyses == nil {
		d.Analyses = []AnalysisResult{}
	}
	if d.Metadata.Tags == nil {
		d.Metadata.Tags = []string{}
	}
	if d.Metadata.SearchQueries == nil {
		d.Metadata.SearchQueries = []string{}
	}
	if d.Metadata.Keywords == nil {
		d.Metadata.Keywords = []string{}
	}
	d.RefreshTotals()
}

// IsValidAnalysisStatus checks if the analysis status is valid
func IsValidAnalysisStatus(status string) bool {
	switch status {
	case AnalysisStatusPending, AnalysisStatusProcessing, AnalysisStatusCompleted, AnalysisStatusFailed:
		return true
	}
	return false
}

// IsValidDocumentType checks if the document type is valid
func IsValidDocumentType(docType string) bool {
	switch docType {
	case DocumentTypeComplaint, DocumentTypeMotion, DocumentTypeBrief, DocumentTypeEvidence,
		DocumentTypeTranscript, DocumentTypeDeposition, DocumentTypeContract,
		DocumentTypeCorrespondence, DocumentTypeResearch, DocumentTypeOther:
		return true
	}
	return false
}
