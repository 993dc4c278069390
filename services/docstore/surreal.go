package docstore

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"legalcase_app_go/logging"
	"legalcase_app_go/models"
	"legalcase_app_go/services/query"

	"github.com/rs/zerolog"
	"github.com/surrealdb/surrealdb.go"
)

// SurrealOptions locate and authenticate a SurrealDB database
type SurrealOptions struct {
	URL       string
	Namespace string
	Database  string
	Username  string
	Password  string
}

// SurrealStore implements Store on SurrealDB. Every statement is
// parameterized; values are never interpolated into SurrealQL.
type SurrealStore struct {
	db  *surrealdb.DB
	log zerolog.Logger
	now func() time.Time
}

// schema defines the full-text analyzer and the indexes the rendered
// searches rely on. Every statement is idempotent.
var schema = []string{
	"DEFINE ANALYZER IF NOT EXISTS legal_text TOKENIZERS blank, class, punct FILTERS lowercase, ascii, snowball(english)",

	"DEFINE INDEX IF NOT EXISTS case_documents_case_id ON case_documents FIELDS case_id UNIQUE",
	"DEFINE INDEX IF NOT EXISTS case_documents_owner ON case_documents FIELDS owner_id, updated_at",
	"DEFINE INDEX IF NOT EXISTS case_documents_tags ON case_documents FIELDS metadata.tags",
	"DEFINE INDEX IF NOT EXISTS case_documents_title_search ON case_documents FIELDS title SEARCH ANALYZER legal_text BM25",
	"DEFINE INDEX IF NOT EXISTS case_documents_number_search ON case_documents FIELDS case_number SEARCH ANALYZER legal_text BM25",
	"DEFINE INDEX IF NOT EXISTS case_documents_tags_search ON case_documents FIELDS tags SEARCH ANALYZER legal_text BM25",
	"DEFINE INDEX IF NOT EXISTS case_documents_keywords_search ON case_documents FIELDS metadata.keywords SEARCH ANALYZER legal_text BM25",

	"DEFINE INDEX IF NOT EXISTS legal_research_citation ON legal_research FIELDS citation",
	"DEFINE INDEX IF NOT EXISTS legal_research_jurisdiction ON legal_research FIELDS jurisdiction, decision_date",
	"DEFINE INDEX IF NOT EXISTS legal_research_court ON legal_research FIELDS court, decision_date",
	"DEFINE INDEX IF NOT EXISTS legal_research_title_search ON legal_research FIELDS title SEARCH ANALYZER legal_text BM25",
	"DEFINE INDEX IF NOT EXISTS legal_research_summary_search ON legal_research FIELDS summary SEARCH ANALYZER legal_text BM25",
	"DEFINE INDEX IF NOT EXISTS legal_research_full_text_search ON legal_research FIELDS full_text SEARCH ANALYZER legal_text BM25",
	"DEFINE INDEX IF NOT EXISTS legal_research_citation_search ON legal_research FIELDS citation SEARCH ANALYZER legal_text BM25",
}

// NewSurrealStore connects, signs in when credentials are given and selects
// the namespace and database.
func NewSurrealStore(ctx context.Context, opts SurrealOptions) (*SurrealStore, error) {
	endpoint, err := rpcEndpoint(opts.URL)
	if err != nil {
		return nil, err
	}

	db, err := surrealdb.FromEndpointURLString(ctx, endpoint)
	if err != nil {
		return nil, models.WrapStoreError(models.StoreAggregate, "connect", err)
	}

	if opts.Username != "" && opts.Password != "" {
		if _, err := db.SignIn(ctx, surrealdb.Auth{
			Username: opts.Username,
			Password: opts.Password,
		}); err != nil {
			db.Close(ctx)
			return nil, fmt.Errorf("failed to authenticate with SurrealDB: %w", err)
		}
	}

	if err := db.Use(ctx, opts.Namespace, opts.Database); err != nil {
		db.Close(ctx)
		return nil, fmt.Errorf("failed to use namespace/database: %w", err)
	}

	return &SurrealStore{
		db:  db,
		log: logging.New("surrealstore"),
		now: func() time.Time { return time.Now().UTC() },
	}, nil
}

// rpcEndpoint appends the /rpc path when the URL names only a host
func rpcEndpoint(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid SurrealDB URL %q: %w", raw, err)
	}
	if u.Path == "" || u.Path == "/" {
		u.Path = "/rpc"
	}
	return u.String(), nil
}

// Migrate defines the analyzer and indexes
func (s *SurrealStore) Migrate(ctx context.Context) error {
	sql := strings.Join(schema, ";\n") + ";"
	if _, err := surrealdb.Query[any](ctx, s.db, sql, nil); err != nil {
		return fmt.Errorf("failed to migrate SurrealDB schema: %w", err)
	}
	s.log.Info().Int("statements", len(schema)).Msg("document schema migrated")
	return nil
}

func (s *SurrealStore) Cases() CaseStore { return surrealCaseStore{s} }

func (s *SurrealStore) Research() ResearchStore { return surrealResearchStore{s} }

func (s *SurrealStore) Ping(ctx context.Context) error {
	if _, err := surrealdb.Query[any](ctx, s.db, "RETURN true", nil); err != nil {
		return models.WrapStoreError(models.StoreAggregate, "ping", err)
	}
	return nil
}

func (s *SurrealStore) Close(ctx context.Context) error {
	return s.db.Close(ctx)
}

// rows runs a statement and returns the rows of its (single) result set
func (s *SurrealStore) rows(ctx context.Context, op, sql string, vars map[string]any) ([]map[string]any, error) {
	res, err := surrealdb.Query[[]map[string]any](ctx, s.db, sql, vars)
	if err != nil {
		return nil, s.classify(op, err)
	}
	if res == nil || len(*res) == 0 {
		return nil, nil
	}

	result := (*res)[len(*res)-1].Result
	out := make([]map[string]any, 0, len(result))
	for _, row := range result {
		out = append(out, normalize(row).(map[string]any))
	}
	return out, nil
}

func (s *SurrealStore) count(ctx context.Context, op string, stmt query.Statement) (int64, error) {
	rows, err := s.rows(ctx, op, stmt.SQL, stmt.Vars)
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return toInt64(rows[0]["count"]), nil
}

// classify maps engine errors onto the shared persistence errors
func (s *SurrealStore) classify(op string, err error) error {
	msg := err.Error()
	if strings.Contains(msg, "already exists") || strings.Contains(msg, "already contains") {
		return fmt.Errorf("%s: %w", op, models.ErrDuplicateKey)
	}
	s.log.Debug().Err(err).Str("op", op).Msg("surreal query failed")
	return models.WrapStoreError(models.StoreAggregate, op, err)
}

type surrealCaseStore struct{ s *SurrealStore }

const caseTable = "case_documents"

func (c surrealCaseStore) GetByID(ctx context.Context, caseID string) (*models.CaseDocument, error) {
	rows, err := c.s.rows(ctx, "get case document",
		"SELECT * OMIT id FROM case_documents WHERE case_id = $case_id LIMIT 1",
		map[string]any{"case_id": caseID})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, models.ErrNotFound
	}

	var doc models.CaseDocument
	if err := fromDocument(rows[0], &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (c surrealCaseStore) Create(ctx context.Context, doc *models.CaseDocument) error {
	next := *doc
	if err := prepareCaseCreate(&next, c.s.now()); err != nil {
		return err
	}
	content, err := toDocument(&next)
	if err != nil {
		return err
	}

	if _, err := c.s.rows(ctx, "create case document",
		"CREATE type::thing($tb, $id) CONTENT $doc RETURN NONE",
		map[string]any{"tb": caseTable, "id": next.CaseID, "doc": content}); err != nil {
		return err
	}
	*doc = next
	return nil
}

func (c surrealCaseStore) Update(ctx context.Context, doc *models.CaseDocument) error {
	next := *doc
	if err := prepareCaseUpdate(&next, c.s.now()); err != nil {
		return err
	}
	content, err := toDocument(&next)
	if err != nil {
		return err
	}

	rows, err := c.s.rows(ctx, "update case document",
		"UPDATE case_documents CONTENT $doc WHERE case_id = $case_id RETURN case_id",
		map[string]any{"case_id": next.CaseID, "doc": content})
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return models.ErrNotFound
	}
	*doc = next
	return nil
}

func (c surrealCaseStore) Delete(ctx context.Context, caseID string) error {
	rows, err := c.s.rows(ctx, "delete case document",
		"DELETE case_documents WHERE case_id = $case_id RETURN BEFORE",
		map[string]any{"case_id": caseID})
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (c surrealCaseStore) Exists(ctx context.Context, caseID string) (bool, error) {
	stmt := query.RenderSurrealCount(query.CaseDocuments, []query.Predicate{
		{Field: "case_id", Op: query.OpEq, Value: caseID},
	})
	n, err := c.s.count(ctx, "case document exists", stmt)
	return n > 0, err
}

func (c surrealCaseStore) GetByUserID(ctx context.Context, ownerID string) ([]models.CaseDocument, error) {
	return c.run(ctx, "case documents by owner", query.Eq("owner_id", ownerID, "updated_at", 0))
}

func (c surrealCaseStore) Search(ctx context.Context, criteria models.CaseSearchCriteria) ([]models.CaseDocument, error) {
	q, err := query.TranslateCaseCriteria(criteria)
	if err != nil {
		return nil, err
	}
	return c.run(ctx, "search case documents", q)
}

func (c surrealCaseStore) GetPaged(ctx context.Context, page, size int) ([]models.CaseDocument, error) {
	skip, take, err := pageBounds(page, size)
	if err != nil {
		return nil, err
	}
	return c.run(ctx, "page case documents", query.Query{Sort: query.CaseDocuments.DefaultSort, Skip: skip, Take: take})
}

func (c surrealCaseStore) Count(ctx context.Context) (int64, error) {
	return c.s.count(ctx, "count case documents", query.RenderSurrealCount(query.CaseDocuments, nil))
}

func (c surrealCaseStore) CountByUser(ctx context.Context, ownerID string) (int64, error) {
	stmt := query.RenderSurrealCount(query.CaseDocuments, []query.Predicate{
		{Field: "owner_id", Op: query.OpEq, Value: ownerID},
	})
	return c.s.count(ctx, "count case documents by owner", stmt)
}

func (c surrealCaseStore) run(ctx context.Context, op string, q query.Query) ([]models.CaseDocument, error) {
	stmt := query.RenderSurrealQL(query.CaseDocuments, q)
	rows, err := c.s.rows(ctx, op, stmt.SQL, stmt.Vars)
	if err != nil {
		return nil, err
	}
	return decodeAll[models.CaseDocument](rows)
}

type surrealResearchStore struct{ s *SurrealStore }

const researchTable = "legal_research"

func (r surrealResearchStore) GetByID(ctx context.Context, id string) (*models.LegalResearchDocument, error) {
	rows, err := r.s.rows(ctx, "get research document",
		"SELECT *, record::id(id) AS id FROM type::thing($tb, $id)",
		map[string]any{"tb": researchTable, "id": id})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, models.ErrNotFound
	}

	var doc models.LegalResearchDocument
	if err := fromDocument(rows[0], &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r surrealResearchStore) GetByCitation(ctx context.Context, citation string) (*models.LegalResearchDocument, error) {
	docs, err := r.run(ctx, "research document by citation", query.Eq("citation", citation, "relevance_score", 1))
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, models.ErrNotFound
	}
	return &docs[0], nil
}

func (r surrealResearchStore) Create(ctx context.Context, doc *models.LegalResearchDocument) error {
	next := *doc
	prepareResearch(&next, r.s.now())
	content, err := toDocument(&next)
	if err != nil {
		return err
	}
	delete(content, "id")

	if _, err := r.s.rows(ctx, "create research document",
		"CREATE type::thing($tb, $id) CONTENT $doc RETURN NONE",
		map[string]any{"tb": researchTable, "id": next.ID, "doc": content}); err != nil {
		return err
	}
	*doc = next
	return nil
}

func (r surrealResearchStore) Delete(ctx context.Context, id string) error {
	rows, err := r.s.rows(ctx, "delete research document",
		"DELETE type::thing($tb, $id) RETURN BEFORE",
		map[string]any{"tb": researchTable, "id": id})
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return models.ErrNotFound
	}
	return nil
}

// BulkIndex inserts all documents with a single INSERT statement
func (r surrealResearchStore) BulkIndex(ctx context.Context, docs []models.LegalResearchDocument) error {
	if len(docs) == 0 {
		return nil
	}

	now := r.s.now()
	prepared := make([]models.LegalResearchDocument, len(docs))
	content := make([]map[string]any, len(docs))
	for i := range docs {
		prepared[i] = docs[i]
		prepareResearch(&prepared[i], now)
		doc, err := toDocument(&prepared[i])
		if err != nil {
			return err
		}
		content[i] = doc
	}

	if _, err := r.s.rows(ctx, "bulk index research documents",
		"INSERT INTO legal_research $docs RETURN NONE",
		map[string]any{"docs": content}); err != nil {
		return err
	}
	copy(docs, prepared)
	r.s.log.Info().Int("count", len(docs)).Msg("research documents indexed")
	return nil
}

func (r surrealResearchStore) SearchText(ctx context.Context, text string, limit int) ([]models.LegalResearchDocument, error) {
	q, err := textQuery(text, limit)
	if err != nil {
		return nil, err
	}
	return r.run(ctx, "search research text", q)
}

func (r surrealResearchStore) SearchAdvanced(ctx context.Context, lq models.LegalSearchQuery) ([]models.LegalResearchDocument, error) {
	q, err := query.TranslateLegalQuery(lq)
	if err != nil {
		return nil, err
	}
	return r.run(ctx, "search research", q)
}

func (r surrealResearchStore) FindSimilar(ctx context.Context, caseText string, threshold float64) ([]models.LegalResearchDocument, error) {
	keywords := similarQuery(caseText)
	if keywords == "" {
		return []models.LegalResearchDocument{}, nil
	}
	docs, err := r.SearchText(ctx, keywords, SimilarCandidates)
	if err != nil {
		return nil, err
	}
	return filterByRelevance(docs, threshold), nil
}

func (r surrealResearchStore) GetByJurisdiction(ctx context.Context, jurisdiction string, limit int) ([]models.LegalResearchDocument, error) {
	return r.run(ctx, "research by jurisdiction", query.Eq("jurisdiction", jurisdiction, "decision_date", limitOrDefault(limit)))
}

func (r surrealResearchStore) GetByCourt(ctx context.Context, court string, limit int) ([]models.LegalResearchDocument, error) {
	return r.run(ctx, "research by court", query.Eq("court", court, "decision_date", limitOrDefault(limit)))
}

func (r surrealResearchStore) GetByDateRange(ctx context.Context, start, end time.Time, limit int) ([]models.LegalResearchDocument, error) {
	return r.run(ctx, "research by date range", dateRangeQuery(start, end, limit))
}

func (r surrealResearchStore) Count(ctx context.Context) (int64, error) {
	return r.s.count(ctx, "count research documents", query.RenderSurrealCount(query.LegalResearch, nil))
}

func (r surrealResearchStore) GetStats(ctx context.Context) (map[string]int64, error) {
	rows, err := r.s.rows(ctx, "research stats",
		"SELECT type, count() AS count FROM legal_research GROUP BY type", nil)
	if err != nil {
		return nil, err
	}

	stats := make(map[string]int64, len(rows)+1)
	for _, row := range rows {
		t, _ := row["type"].(string)
		if t == "" {
			t = models.LegalDocOther
		}
		stats[t] += toInt64(row["count"])
	}

	total, err := r.Count(ctx)
	if err != nil {
		return nil, err
	}
	stats[StatsTotalKey] = total
	return stats, nil
}

func (r surrealResearchStore) run(ctx context.Context, op string, q query.Query) ([]models.LegalResearchDocument, error) {
	stmt := query.RenderSurrealQL(query.LegalResearch, q)
	rows, err := r.s.rows(ctx, op, stmt.SQL, stmt.Vars)
	if err != nil {
		return nil, err
	}
	return decodeAll[models.LegalResearchDocument](rows)
}
