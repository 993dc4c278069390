package docstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"legalcase_app_go/models"
	"legalcase_app_go/services/query"
)

// MemoryStore keeps both collections in process. Documents are held in their
// JSON-normalized form, so reads return independent copies and predicates are
// evaluated against the same shapes SurrealDB stores.
type MemoryStore struct {
	mu       sync.RWMutex
	cases    map[string]memEntry
	research map[string]memEntry
	seq      int64
	now      func() time.Time
}

type memEntry struct {
	doc map[string]any
	seq int64
}

// NewMemoryStore creates an empty in-memory document store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		cases:    make(map[string]memEntry),
		research: make(map[string]memEntry),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *MemoryStore) Cases() CaseStore { return memoryCaseStore{s} }

func (s *MemoryStore) Research() ResearchStore { return memoryResearchStore{s} }

func (s *MemoryStore) Ping(ctx context.Context) error { return ctx.Err() }

func (s *MemoryStore) Close(ctx context.Context) error { return nil }

// put stores doc under key; caller holds the write lock
func (s *MemoryStore) put(coll map[string]memEntry, key string, doc map[string]any) {
	seq := s.seq
	if existing, ok := coll[key]; ok {
		seq = existing.seq
	} else {
		s.seq++
	}
	coll[key] = memEntry{doc: doc, seq: seq}
}

// find runs q over coll and returns the matching documents in result order
func (s *MemoryStore) find(coll map[string]memEntry, c query.Collection, q query.Query) []map[string]any {
	s.mu.RLock()
	entries := make([]memEntry, 0, len(coll))
	for _, e := range coll {
		if query.Match(e.doc, q.Predicates, c.TextFields) {
			entries = append(entries, e)
		}
	}
	s.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool { return entries[i].seq < entries[j].seq })
	docs := make([]map[string]any, len(entries))
	for i, e := range entries {
		docs[i] = e.doc
	}

	order := q.Sort
	if order.Field == "" {
		order = c.DefaultSort
	}
	query.SortDocuments(docs, order)
	return query.Page(docs, q.Skip, q.Take)
}

func (s *MemoryStore) count(coll map[string]memEntry, c query.Collection, preds []query.Predicate) int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	for _, e := range coll {
		if query.Match(e.doc, preds, c.TextFields) {
			n++
		}
	}
	return n
}

type memoryCaseStore struct{ s *MemoryStore }

func (m memoryCaseStore) GetByID(ctx context.Context, caseID string) (*models.CaseDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.s.mu.RLock()
	e, ok := m.s.cases[caseID]
	m.s.mu.RUnlock()
	if !ok {
		return nil, models.ErrNotFound
	}

	var doc models.CaseDocument
	if err := fromDocument(e.doc, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (m memoryCaseStore) Create(ctx context.Context, doc *models.CaseDocument) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	next := *doc
	if err := prepareCaseCreate(&next, m.s.now()); err != nil {
		return err
	}
	stored, err := toDocument(&next)
	if err != nil {
		return err
	}

	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, exists := m.s.cases[next.CaseID]; exists {
		return models.ErrDuplicateKey
	}
	m.s.put(m.s.cases, next.CaseID, stored)
	*doc = next
	return nil
}

func (m memoryCaseStore) Update(ctx context.Context, doc *models.CaseDocument) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	next := *doc
	if err := prepareCaseUpdate(&next, m.s.now()); err != nil {
		return err
	}
	stored, err := toDocument(&next)
	if err != nil {
		return err
	}

	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, exists := m.s.cases[next.CaseID]; !exists {
		return models.ErrNotFound
	}
	m.s.put(m.s.cases, next.CaseID, stored)
	*doc = next
	return nil
}

func (m memoryCaseStore) Delete(ctx context.Context, caseID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, exists := m.s.cases[caseID]; !exists {
		return models.ErrNotFound
	}
	delete(m.s.cases, caseID)
	return nil
}

func (m memoryCaseStore) Exists(ctx context.Context, caseID string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	_, ok := m.s.cases[caseID]
	return ok, nil
}

func (m memoryCaseStore) GetByUserID(ctx context.Context, ownerID string) ([]models.CaseDocument, error) {
	return m.run(ctx, query.Eq("owner_id", ownerID, "updated_at", 0))
}

func (m memoryCaseStore) Search(ctx context.Context, criteria models.CaseSearchCriteria) ([]models.CaseDocument, error) {
	q, err := query.TranslateCaseCriteria(criteria)
	if err != nil {
		return nil, err
	}
	return m.run(ctx, q)
}

func (m memoryCaseStore) GetPaged(ctx context.Context, page, size int) ([]models.CaseDocument, error) {
	skip, take, err := pageBounds(page, size)
	if err != nil {
		return nil, err
	}
	return m.run(ctx, query.Query{Sort: query.CaseDocuments.DefaultSort, Skip: skip, Take: take})
}

func (m memoryCaseStore) Count(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return m.s.count(m.s.cases, query.CaseDocuments, nil), nil
}

func (m memoryCaseStore) CountByUser(ctx context.Context, ownerID string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	preds := []query.Predicate{{Field: "owner_id", Op: query.OpEq, Value: ownerID}}
	return m.s.count(m.s.cases, query.CaseDocuments, preds), nil
}

func (m memoryCaseStore) run(ctx context.Context, q query.Query) ([]models.CaseDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return decodeAll[models.CaseDocument](m.s.find(m.s.cases, query.CaseDocuments, q))
}

type memoryResearchStore struct{ s *MemoryStore }

func (m memoryResearchStore) GetByID(ctx context.Context, id string) (*models.LegalResearchDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.s.mu.RLock()
	e, ok := m.s.research[id]
	m.s.mu.RUnlock()
	if !ok {
		return nil, models.ErrNotFound
	}

	var doc models.LegalResearchDocument
	if err := fromDocument(e.doc, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (m memoryResearchStore) GetByCitation(ctx context.Context, citation string) (*models.LegalResearchDocument, error) {
	docs, err := m.run(ctx, query.Eq("citation", citation, "relevance_score", 1))
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, models.ErrNotFound
	}
	return &docs[0], nil
}

func (m memoryResearchStore) Create(ctx context.Context, doc *models.LegalResearchDocument) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	next := *doc
	prepareResearch(&next, m.s.now())
	stored, err := toDocument(&next)
	if err != nil {
		return err
	}

	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, exists := m.s.research[next.ID]; exists {
		return models.ErrDuplicateKey
	}
	m.s.put(m.s.research, next.ID, stored)
	*doc = next
	return nil
}

func (m memoryResearchStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, exists := m.s.research[id]; !exists {
		return models.ErrNotFound
	}
	delete(m.s.research, id)
	return nil
}

// BulkIndex inserts all documents in one locked batch. A duplicate id
// rejects the whole batch.
func (m memoryResearchStore) BulkIndex(ctx context.Context, docs []models.LegalResearchDocument) error {
	if len(docs) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	now := m.s.now()
	prepared := make([]models.LegalResearchDocument, len(docs))
	stored := make([]map[string]any, len(docs))
	for i := range docs {
		prepared[i] = docs[i]
		prepareResearch(&prepared[i], now)
		doc, err := toDocument(&prepared[i])
		if err != nil {
			return err
		}
		stored[i] = doc
	}

	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	seen := make(map[string]bool, len(prepared))
	for _, d := range prepared {
		if _, exists := m.s.research[d.ID]; exists || seen[d.ID] {
			return models.ErrDuplicateKey
		}
		seen[d.ID] = true
	}
	for i, d := range prepared {
		m.s.put(m.s.research, d.ID, stored[i])
	}
	copy(docs, prepared)
	return nil
}

func (m memoryResearchStore) SearchText(ctx context.Context, text string, limit int) ([]models.LegalResearchDocument, error) {
	q, err := textQuery(text, limit)
	if err != nil {
		return nil, err
	}
	return m.run(ctx, q)
}

func (m memoryResearchStore) SearchAdvanced(ctx context.Context, lq models.LegalSearchQuery) ([]models.LegalResearchDocument, error) {
	q, err := query.TranslateLegalQuery(lq)
	if err != nil {
		return nil, err
	}
	return m.run(ctx, q)
}

func (m memoryResearchStore) FindSimilar(ctx context.Context, caseText string, threshold float64) ([]models.LegalResearchDocument, error) {
	keywords := similarQuery(caseText)
	if keywords == "" {
		return []models.LegalResearchDocument{}, nil
	}
	docs, err := m.SearchText(ctx, keywords, SimilarCandidates)
	if err != nil {
		return nil, err
	}
	return filterByRelevance(docs, threshold), nil
}

func (m memoryResearchStore) GetByJurisdiction(ctx context.Context, jurisdiction string, limit int) ([]models.LegalResearchDocument, error) {
	return m.run(ctx, query.Eq("jurisdiction", jurisdiction, "decision_date", limitOrDefault(limit)))
}

func (m memoryResearchStore) GetByCourt(ctx context.Context, court string, limit int) ([]models.LegalResearchDocument, error) {
	return m.run(ctx, query.Eq("court", court, "decision_date", limitOrDefault(limit)))
}

func (m memoryResearchStore) GetByDateRange(ctx context.Context, start, end time.Time, limit int) ([]models.LegalResearchDocument, error) {
	return m.run(ctx, dateRangeQuery(start, end, limit))
}

func (m memoryResearchStore) Count(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return m.s.count(m.s.research, query.LegalResearch, nil), nil
}

func (m memoryResearchStore) GetStats(ctx context.Context) (map[string]int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.s.mu.RLock()
	defer m.s.mu.RUnlock()

	stats := map[string]int64{}
	for _, e := range m.s.research {
		t, _ := e.doc["type"].(string)
		if t == "" {
			t = models.LegalDocOther
		}
		stats[t]++
	}
	stats[StatsTotalKey] = int64(len(m.s.research))
	return stats, nil
}

func (m memoryResearchStore) run(ctx context.Context, q query.Query) ([]models.LegalResearchDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return decodeAll[models.LegalResearchDocument](m.s.find(m.s.research, query.LegalResearch, q))
}

func dateRangeQuery(start, end time.Time, limit int) query.Query {
	return query.Query{
		Predicates: []query.Predicate{
			{Field: "decision_date", Op: query.OpGte, Value: start.UTC()},
			{Field: "decision_date", Op: query.OpLte, Value: end.UTC()},
		},
		Sort: query.Sort{Field: "decision_date", Descending: true},
		Take: limitOrDefault(limit),
	}
}
