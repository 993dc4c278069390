package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"legalcase_app_go/models"

	"gorm.io/gorm"
)

// CaseNumberPrefix starts every generated case number
const CaseNumberPrefix = "CASE"

// CaseRecordStore owns the authoritative Case rows
type CaseRecordStore struct {
	db  *gorm.DB
	now func() time.Time
}

// NewCaseRecordStore wraps an open gorm connection
func NewCaseRecordStore(db *gorm.DB) *CaseRecordStore {
	return &CaseRecordStore{db: db, now: func() time.Time { return time.Now().UTC() }}
}

// Create inserts a case after checking its owner and case number inside one
// transaction. An empty case number is generated.
func (s *CaseRecordStore) Create(ctx context.Context, c *models.Case) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureActiveOwner(tx, c.OwnerID); err != nil {
			return err
		}

		if c.CaseNumber == "" {
			number, err := EnsureUniqueCaseNumber(tx, s.now().Year())
			if err != nil {
				return err
			}
			c.CaseNumber = number
		} else if taken, err := caseNumberTaken(tx, c.CaseNumber, ""); err != nil {
			return err
		} else if taken {
			return fmt.Errorf("case number %s: %w", c.CaseNumber, models.ErrDuplicateKey)
		}

		return tx.Create(c).Error
	})
	return relationalError("create case", err)
}

// GetByID returns a case that is not soft-deleted
func (s *CaseRecordStore) GetByID(ctx context.Context, id string) (*models.Case, error) {
	var c models.Case
	err := s.db.WithContext(ctx).
		Where("id = ? AND is_deleted = ?", id, false).
		First(&c).Error
	if err != nil {
		return nil, relationalError("get case", err)
	}
	return &c, nil
}

// Update writes the mutable fields of an existing case. Owner, creation time
// and deletion state are never changed here.
func (s *CaseRecordStore) Update(ctx context.Context, c *models.Case) (*models.Case, error) {
	var existing models.Case
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND is_deleted = ?", c.ID, false).First(&existing).Error; err != nil {
			return err
		}

		if c.CaseNumber != "" && c.CaseNumber != existing.CaseNumber {
			taken, err := caseNumberTaken(tx, c.CaseNumber, existing.ID)
			if err != nil {
				return err
			}
			if taken {
				return fmt.Errorf("case number %s: %w", c.CaseNumber, models.ErrDuplicateKey)
			}
			existing.CaseNumber = c.CaseNumber
		}

		existing.Title = c.Title
		existing.Description = c.Description
		existing.Status = c.Status
		existing.Type = c.Type
		existing.Priority = c.Priority
		existing.Court = c.Court
		existing.Judge = c.Judge
		existing.FiledDate = c.FiledDate
		existing.HearingDate = c.HearingDate
		existing.TrialDate = c.TrialDate
		existing.SuccessProbability = c.SuccessProbability
		existing.EstimatedValue = c.EstimatedValue

		return tx.Save(&existing).Error
	})
	if err != nil {
		return nil, relationalError("update case", err)
	}
	return &existing, nil
}

// SoftDelete marks a case deleted. The row and its case number are retained.
func (s *CaseRecordStore) SoftDelete(ctx context.Context, id string) error {
	now := s.now()
	result := s.db.WithContext(ctx).Model(&models.Case{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Updates(map[string]interface{}{
			"is_deleted": true,
			"deleted_at": now,
			"updated_at": now,
		})
	if result.Error != nil {
		return relationalError("delete case", result.Error)
	}
	if result.RowsAffected == 0 {
		return models.ErrNotFound
	}
	return nil
}

// ListByOwner returns an owner's live cases, most recently updated first
func (s *CaseRecordStore) ListByOwner(ctx context.Context, ownerID string) ([]models.Case, error) {
	var cases []models.Case
	err := s.db.WithContext(ctx).
		Where("owner_id = ? AND is_deleted = ?", ownerID, false).
		Order("updated_at DESC").
		Find(&cases).Error
	if err != nil {
		return nil, relationalError("list cases", err)
	}
	return cases, nil
}

// Ping checks the relational connection
func (s *CaseRecordStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return relationalError("ping", err)
	}
	return relationalError("ping", sqlDB.PingContext(ctx))
}

// GenerateCaseNumber generates the next case number for a year
// Format: CASE-{YEAR}-{SEQUENCE}
// Example: CASE-2026-00042
func GenerateCaseNumber(db *gorm.DB, year int) (string, error) {
	prefix := fmt.Sprintf("%s-%d-", CaseNumberPrefix, year)

	// Soft-deleted cases keep their numbers, so they are included
	var maxCase models.Case
	err := db.Where("case_number LIKE ?", prefix+"%").
		Order("case_number DESC").
		First(&maxCase).Error

	sequence := 1
	if err == nil {
		var parsedSeq int
		if _, scanErr := fmt.Sscanf(strings.TrimPrefix(maxCase.CaseNumber, prefix), "%d", &parsedSeq); scanErr == nil {
			sequence = parsedSeq + 1
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", fmt.Errorf("failed to query max case number: %w", err)
	}

	return fmt.Sprintf("%s%05d", prefix, sequence), nil
}

// EnsureUniqueCaseNumber generates a case number that no row holds yet
func EnsureUniqueCaseNumber(db *gorm.DB, year int) (string, error) {
	const maxRetries = 10

	for i := 0; i < maxRetries; i++ {
		caseNumber, err := GenerateCaseNumber(db, year)
		if err != nil {
			return "", err
		}

		taken, err := caseNumberTaken(db, caseNumber, "")
		if err != nil {
			return "", err
		}
		if !taken {
			return caseNumber, nil
		}
	}

	return "", fmt.Errorf("failed to generate unique case number after %d retries", maxRetries)
}

func caseNumberTaken(db *gorm.DB, caseNumber, exceptID string) (bool, error) {
	q := db.Model(&models.Case{}).Where("case_number = ?", caseNumber)
	if exceptID != "" {
		q = q.Where("id <> ?", exceptID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check case number uniqueness: %w", err)
	}
	return count > 0, nil
}

func ensureActiveOwner(db *gorm.DB, ownerID string) error {
	if ownerID == "" {
		return models.NewValidationError("owner_id", "is required")
	}
	var owner models.User
	err := db.Select("id", "is_active").Where("id = ?", ownerID).First(&owner).Error
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && !owner.IsActive) {
		return models.NewValidationError("owner_id", "must reference an active user")
	}
	return err
}

// relationalError maps gorm errors onto the shared persistence errors
func relationalError(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return models.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey), isUniqueViolation(err):
		return fmt.Errorf("%s: %w", op, models.ErrDuplicateKey)
	}
	return models.WrapStoreError(models.StoreRelational, op, err)
}

func isUniqueViolation(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}
