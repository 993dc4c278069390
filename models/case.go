package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Case status constants
const (
	CaseStatusDraft         = "Draft"
	CaseStatusNew           = "New"
	CaseStatusInvestigation = "Investigation"
	CaseStatusDiscovery     = "Discovery"
	CaseStatusPreTrial      = "PreTrial"
	CaseStatusTrial         = "Trial"
	CaseStatusSettlement    = "Settlement"
	CaseStatusClosed        = "Closed"
	CaseStatusAppealed      = "Appealed"
	CaseStatusDismissed     = "Dismissed"
)

// Case type constants
const (
	CaseTypeCriminal             = "Criminal"
	CaseTypeCivil                = "Civil"
	CaseTypeFamily               = "Family"
	CaseTypeCorporate            = "Corporate"
	CaseTypeImmigration          = "Immigration"
	CaseTypePersonalInjury       = "PersonalInjury"
	CaseTypeEmployment           = "Employment"
	CaseTypeRealEstate           = "RealEstate"
	CaseTypeIntellectualProperty = "IntellectualProperty"
	CaseTypeOther                = "Other"
)

// Case priority constants
const (
	CasePriorityLow    = "Low"
	CasePriorityMedium = "Medium"
	CasePriorityHigh   = "High"
	CasePriorityUrgent = "Urgent"
)

// Case is the authoritative relational record of a legal case.
// Its nested content (documents, analyses, tags) lives in the CaseDocument
// aggregate, linked only by equal ids.
type Case struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `gorm:"index:idx_case_owner_updated,priority:2" json:"updated_at"`

	// Case identification
	CaseNumber  string  `gorm:"size:50;not null;uniqueIndex" json:"case_number"`
	Title       string  `gorm:"size:200;not null" json:"title"`
	Description *string `gorm:"type:text" json:"description,omitempty"`

	// Workflow
	Status   string `gorm:"size:30;not null;default:New" json:"status"`
	Type     string `gorm:"size:30;not null;default:Criminal" json:"type"`
	Priority string `gorm:"size:20;not null;default:Medium" json:"priority"`

	Court *string `gorm:"size:100" json:"court,omitempty"`
	Judge *string `gorm:"size:100" json:"judge,omitempty"`

	FiledDate   *time.Time `json:"filed_date,omitempty"`
	HearingDate *time.Time `json:"hearing_date,omitempty"`
	TrialDate   *time.Time `json:"trial_date,omitempty"`

	// Money fields
	SuccessProbability *float64 `gorm:"type:decimal(5,2)" json:"success_probability,omitempty"`
	EstimatedValue     *float64 `gorm:"type:decimal(18,2)" json:"estimated_value,omitempty"`

	// Owner relationship
	OwnerID string `gorm:"type:uuid;not null;index:idx_case_owner_updated,priority:1" json:"owner_id"`
	Owner   *User  `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`

	// Soft delete tracking
	IsDeleted bool       `gorm:"not null;default:false;index" json:"is_deleted"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

// BeforeCreate hook to generate UUID and fill workflow defaults
func (c *Case) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.Status == "" {
		c.Status = CaseStatusNew
	}
	if c.Type == "" {
		c.Type = CaseTypeCriminal
	}
	if c.Priority == "" {
		c.Priority = CasePriorityMedium
	}
	return nil
}

// TableName specifies the table name for Case model
func (Case) TableName() string {
	return "cases"
}

// IsClosed checks if the case reached a terminal status
func (c *Case) IsClosed() bool {
	return c.Status == CaseStatusClosed || c.Status == CaseStatusDismissed
}

// IsValidCaseStatus checks if the status is valid
func IsValidCaseStatus(status string) bool {
	validStatuses := []string{
		CaseStatusDraft,
		CaseStatusNew,
		CaseStatusInvestigation,
		CaseStatusDiscovery,
		CaseStatusPreTrial,
		CaseStatusTrial,
		CaseStatusSettlement,
		CaseStatusClosed,
		CaseStatusAppealed,
		CaseStatusDismissed,
	}
	for _, s := range validStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// IsValidCaseType checks if the case type is valid
func IsValidCaseType(caseType string) bool {
	switch caseType {
	case CaseTypeCriminal, CaseTypeCivil, CaseTypeFamily, CaseTypeCorporate,
		CaseTypeImmigration, CaseTypePersonalInjury, CaseTypeEmployment,
		CaseTypeRealEstate, CaseTypeIntellectualProperty, CaseTypeOther:
		return true
	}
	return false
}

// IsValidCasePriority checks if the priority is valid
func IsValidCasePriority(priority string) bool {
	return priority == CasePriorityLow || priority == CasePriorityMedium ||
		priority == CasePriorityHigh || priority == CasePriorityUrgent
}
