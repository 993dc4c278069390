package models

import "time"

// Legal document type constants
const (
	LegalDocCaseOpinion             = "CaseOpinion"
	LegalDocStatute                 = "Statute"
	LegalDocRegulation              = "Regulation"
	LegalDocOrdinance               = "Ordinance"
	LegalDocCourtRule               = "CourtRule"
	LegalDocConstitutionalProvision = "ConstitutionalProvision"
	LegalDocTreatyAgreement         = "TreatyAgreement"
	LegalDocOther                   = "Other"
)

// Precedential value constants
const (
	PrecedentialBinding       = "Binding"
	PrecedentialPersuasive    = "Persuasive"
	PrecedentialInformational = "Informational"
	PrecedentialSuperseded    = "Superseded"
	PrecedentialUnknown       = "Unknown"
)

// DefaultResearchSource is recorded when an indexed document names no source
const DefaultResearchSource = "CourtListener"

// LegalResearchDocument is an externally retrieved legal document indexed
// for search next to the case aggregates.
type LegalResearchDocument struct {
	ID             string              `json:"id" yaml:"id"`
	Citation       string              `json:"citation" yaml:"citation"`
	Title          string              `json:"title" yaml:"title"`
	Summary        string              `json:"summary,omitempty" yaml:"summary"`
	Court          string              `json:"court" yaml:"court"`
	Jurisdiction   string              `json:"jurisdiction" yaml:"jurisdiction"`
	DecisionDate   time.Time           `json:"decision_date" yaml:"decision_date"`
	DocketNumber   string              `json:"docket_number,omitempty" yaml:"docket_number"`
	Judge          string              `json:"judge,omitempty" yaml:"judge"`
	FullText       string              `json:"full_text,omitempty" yaml:"full_text"`
	RelevanceScore float64             `json:"relevance_score" yaml:"relevance_score"`
	Type           string              `json:"type" yaml:"type"`
	Source         string              `json:"source" yaml:"source"`
	Metadata       LegalSearchMetadata `json:"metadata" yaml:"metadata"`
	IndexedAt      time.Time           `json:"indexed_at" yaml:"-"`
	RetrievedAt    time.Time           `json:"retrieved_at" yaml:"retrieved_at"`
	LastUpdated    time.Time           `json:"last_updated" yaml:"-"`
}

type LegalSearchMetadata struct {
	Keywords          []string `json:"keywords" yaml:"keywords"`
	Topics            []string `json:"topics" yaml:"topics"`
	SearchQueries     []string `json:"search_queries" yaml:"search_queries"`
	CitedByCount      int      `json:"cited_by_count" yaml:"cited_by_count"`
	CitesCases        []string `json:"cites_cases" yaml:"cites_cases"`
	RelatedStatutes   []string `json:"related_statutes" yaml:"related_statutes"`
	PrecedentialValue string   `json:"precedential_value" yaml:"precedential_value"`
	PracticeAreas     []string `json:"practice_areas" yaml:"practice_areas"`
}

// Normalize fills defaults and replaces nil slices with empty ones
func (d *LegalResearchDocument) Normalize() {
	if d.Type == "" {
		d.Type = LegalDocOther
	}
	if d.Source == "" {
		d.Source = DefaultResearchSource
	}
	if d.Metadata.PrecedentialValue == "" {
		d.Metadata.PrecedentialValue = PrecedentialUnknown
	}
	for _, list := range []*[]string{
		&d.Metadata.Keywords,
		&d.Metadata.Topics,
		&d.Metadata.SearchQueries,
		&d.Metadata.CitesCases,
		&d.Metadata.RelatedStatutes,
		&d.Metadata.PracticeAreas,
	} {
		if *list == nil {
			*list = []string{}
		}
	}
}

// IsValidLegalDocumentType checks if the legal document type is valid
func IsValidLegalDocumentType(docType string) bool {
	switch docType {
	case LegalDocCaseOpinion, LegalDocStatute, LegalDocRegulation, LegalDocOrdinance,
		LegalDocCourtRule, LegalDocConstitutionalProvision, LegalDocTreatyAgreement, LegalDocOther:
		return true
	}
	return false
}

// IsValidPrecedentialValue checks if the precedential value is valid
func IsValidPrecedentialValue(value string) bool {
	switch value {
	case PrecedentialBinding, PrecedentialPersuasive, PrecedentialInformational,
		PrecedentialSuperseded, PrecedentialUnknown:
		return true
	}
	return false
}
