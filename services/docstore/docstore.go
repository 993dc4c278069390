// Package docstore persists case aggregates and legal research documents in
// a document engine. Two engines implement the same contracts: MemoryStore
// for tests and single-process deployments, SurrealStore for SurrealDB.
package docstore

import (
	"context"
	"fmt"
	"log"
	"slices"
	"strings"
	"time"
	"unicode"

	"legalcase_app_go/config"
	"legalcase_app_go/models"
	"legalcase_app_go/services/query"

	"github.com/google/uuid"
)

// Default limits for research lookups
const (
	DefaultResearchLimit = 100
	SimilarCandidates    = 50
	SimilarKeywords      = 10
)

// CaseStore persists one CaseDocument per case, keyed by case id
type CaseStore interface {
	GetByID(ctx context.Context, caseID string) (*models.CaseDocument, error)
	Create(ctx context.Context, doc *models.CaseDocument) error
	Update(ctx context.Context, doc *models.CaseDocument) error
	Delete(ctx context.Context, caseID string) error
	Exists(ctx context.Context, caseID string) (bool, error)
	GetByUserID(ctx context.Context, ownerID string) ([]models.CaseDocument, error)
	Search(ctx context.Context, criteria models.CaseSearchCriteria) ([]models.CaseDocument, error)
	GetPaged(ctx context.Context, page, size int) ([]models.CaseDocument, error)
	Count(ctx context.Context) (int64, error)
	CountByUser(ctx context.Context, ownerID string) (int64, error)
}

// ResearchStore indexes and searches legal research documents
type ResearchStore interface {
	GetByID(ctx context.Context, id string) (*models.LegalResearchDocument, error)
	GetByCitation(ctx context.Context, citation string) (*models.LegalResearchDocument, error)
	Create(ctx context.Context, doc *models.LegalResearchDocument) error
	Delete(ctx context.Context, id string) error
	BulkIndex(ctx context.Context, docs []models.LegalResearchDocument) error
	SearchText(ctx context.Context, text string, limit int) ([]models.LegalResearchDocument, error)
	SearchAdvanced(ctx context.Context, q models.LegalSearchQuery) ([]models.LegalResearchDocument, error)
	FindSimilar(ctx context.Context, caseText string, threshold float64) ([]models.LegalResearchDocument, error)
	GetByJurisdiction(ctx context.Context, jurisdiction string, limit int) ([]models.LegalResearchDocument, error)
	GetByCourt(ctx context.Context, court string, limit int) ([]models.LegalResearchDocument, error)
	GetByDateRange(ctx context.Context, start, end time.Time, limit int) ([]models.LegalResearchDocument, error)
	Count(ctx context.Context) (int64, error)
	GetStats(ctx context.Context) (map[string]int64, error)
}

// Store is a document engine holding both collections
type Store interface {
	Cases() CaseStore
	Research() ResearchStore
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// StatsTotalKey is the GetStats entry holding the unfiltered count
const StatsTotalKey = "Total"

// Open selects the document engine named in the configuration
func Open(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.DocumentStore {
	case config.DocumentStoreSurreal:
		store, err := NewSurrealStore(ctx, SurrealOptions{
			URL:       cfg.SurrealURL,
			Namespace: cfg.SurrealNamespace,
			Database:  cfg.SurrealDatabase,
			Username:  cfg.SurrealUser,
			Password:  cfg.SurrealPass,
		})
		if err != nil {
			return nil, err
		}
		if cfg.SurrealMigrate {
			if err := store.Migrate(ctx); err != nil {
				store.Close(ctx)
				return nil, err
			}
		}
		log.Printf("Document store connection established (SurrealDB - %s/%s)", cfg.SurrealNamespace, cfg.SurrealDatabase)
		return store, nil
	case config.DocumentStoreMemory, "":
		log.Println("Document store established (in-memory)")
		return NewMemoryStore(), nil
	}
	return nil, fmt.Errorf("unknown document store %q", cfg.DocumentStore)
}

// prepareCaseCreate stamps a new aggregate before its first write
func prepareCaseCreate(doc *models.CaseDocument, now time.Time) error {
	if strings.TrimSpace(doc.CaseID) == "" {
		return models.NewValidationError("case_id", "is required")
	}
	doc.Normalize()
	if doc.Version == 0 {
		doc.Version = 1
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = now
	}
	doc.UpdatedAt = now
	return nil
}

// prepareCaseUpdate bumps the version and timestamp of an aggregate. The
// version is not compared against the stored one.
func prepareCaseUpdate(doc *models.CaseDocument, now time.Time) error {
	if strings.TrimSpace(doc.CaseID) == "" {
		return models.NewValidationError("case_id", "is required")
	}
	doc.Normalize()
	doc.Version++
	doc.UpdatedAt = now
	return nil
}

// prepareResearch assigns an id and index timestamps to a research document
func prepareResearch(doc *models.LegalResearchDocument, now time.Time) {
	if doc.ID == "" {
		doc.ID = uuid.New().String()
	}
	doc.Normalize()
	doc.IndexedAt = now
	doc.LastUpdated = now
	if doc.RetrievedAt.IsZero() {
		doc.RetrievedAt = now
	}
}

// pageBounds converts a 1-based page into skip/take
func pageBounds(page, size int) (int, int, error) {
	if page < 1 {
		return 0, 0, models.NewValidationError("page", "must be at least 1")
	}
	if size < 1 {
		return 0, 0, models.NewValidationError("page_size", "must be at least 1")
	}
	return (page - 1) * size, size, nil
}

// textQuery is a full-text search over research documents by relevance
func textQuery(text string, limit int) (query.Query, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return query.Query{}, models.NewValidationError("query", "is required")
	}
	return query.Query{
		Predicates: []query.Predicate{{Field: query.TextField, Op: query.OpText, Value: text}},
		Sort:       query.LegalResearch.DefaultSort,
		Take:       limit,
	}, nil
}

func limitOrDefault(limit int) int {
	if limit <= 0 {
		return DefaultResearchLimit
	}
	return limit
}

// ExtractKeywords returns the distinct lower-cased words longer than three
// characters, in alphabetical order.
func ExtractKeywords(text string) []string {
	words := strings.FieldsFunc(text, func(r rune) bool {
		return unicode.IsSpace(r) || strings.ContainsRune(".,;:!?", r)
	})

	seen := make(map[string]bool, len(words))
	keywords := make([]string, 0, len(words))
	for _, w := range words {
		if len([]rune(w)) <= 3 {
			continue
		}
		w = strings.ToLower(w)
		if seen[w] {
			continue
		}
		seen[w] = true
		keywords = append(keywords, w)
	}
	slices.Sort(keywords)
	return keywords
}

func similarQuery(caseText string) string {
	keywords := ExtractKeywords(caseText)
	if len(keywords) > SimilarKeywords {
		keywords = keywords[:SimilarKeywords]
	}
	return strings.Join(keywords, " ")
}

func filterByRelevance(docs []models.LegalResearchDocument, threshold float64) []models.LegalResearchDocument {
	out := docs[:0]
	for _, d := range docs {
		if d.RelevanceScore >= threshold {
			out = append(out, d)
		}
	}
	return out
}
