package services

import (
	"html"
	"strings"
	"unicode/utf8"

	"legalcase_app_go/models"

	"github.com/microcosm-cc/bluemonday"
)

// Field limits mirrored from the cases table
const (
	MaxTitleLength      = 200
	MaxCaseNumberLength = 50
	MaxTagLength        = 50
	MaxCourtLength      = 100
)

var plainText = bluemonday.StrictPolicy()

// sanitizeText strips markup and surrounding whitespace from user input
func sanitizeText(s string) string {
	return strings.TrimSpace(html.UnescapeString(plainText.Sanitize(s)))
}

func sanitizeOptional(s *string) *string {
	if s == nil {
		return nil
	}
	clean := sanitizeText(*s)
	if clean == "" {
		return nil
	}
	return &clean
}

// NormalizeTags trims, lower-cases and de-duplicates tags, keeping the first
// occurrence order. Blank tags are dropped.
func NormalizeTags(tags []string) ([]string, error) {
	out := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, t := range tags {
		t = strings.ToLower(sanitizeText(t))
		if t == "" || seen[t] {
			continue
		}
		if utf8.RuneCountInString(t) > MaxTagLength {
			return nil, models.NewValidationError("tags", "entries must be at most 50 characters")
		}
		seen[t] = true
		out = append(out, t)
	}
	return out, nil
}

// validateCase sanitizes a case in place and checks its field rules
func validateCase(c *models.Case) error {
	c.Title = sanitizeText(c.Title)
	c.CaseNumber = strings.TrimSpace(c.CaseNumber)
	c.Description = sanitizeOptional(c.Description)
	c.Court = sanitizeOptional(c.Court)
	c.Judge = sanitizeOptional(c.Judge)

	if c.Title == "" {
		return models.NewValidationError("title", "is required")
	}
	if utf8.RuneCountInString(c.Title) > MaxTitleLength {
		return models.NewValidationError("title", "must be at most 200 characters")
	}
	if len(c.CaseNumber) > MaxCaseNumberLength {
		return models.NewValidationError("case_number", "must be at most 50 characters")
	}
	if c.Court != nil && utf8.RuneCountInString(*c.Court) > MaxCourtLength {
		return models.NewValidationError("court", "must be at most 100 characters")
	}
	if c.Status != "" && !models.IsValidCaseStatus(c.Status) {
		return models.NewValidationError("status", "is not a valid case status")
	}
	if c.Type != "" && !models.IsValidCaseType(c.Type) {
		return models.NewValidationError("type", "is not a valid case type")
	}
	if c.Priority != "" && !models.IsValidCasePriority(c.Priority) {
		return models.NewValidationError("priority", "is not a valid case priority")
	}
	if p := c.SuccessProbability; p != nil && (*p < 0 || *p > 100) {
		return models.NewValidationError("success_probability", "must be between 0 and 100")
	}
	if v := c.EstimatedValue; v != nil && *v < 0 {
		return models.NewValidationError("estimated_value", "must not be negative")
	}
	return nil
}

// validateDocumentInfo fills defaults on uploaded-document metadata
func validateDocumentInfo(info *models.DocumentInfo) error {
	info.FileName = sanitizeText(info.FileName)
	if info.FileName == "" {
		return models.NewValidationError("file_name", "is required")
	}
	if info.FileSize < 0 {
		return models.NewValidationError("file_size", "must not be negative")
	}
	if info.Type == "" {
		info.Type = models.DocumentTypeOther
	}
	if !models.IsValidDocumentType(info.Type) {
		return models.NewValidationError("type", "is not a valid document type")
	}
	if info.Status == "" {
		info.Status = models.DocumentStatusUploaded
	}
	return nil
}
