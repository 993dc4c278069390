package query

import (
	"testing"
	"time"

	"legalcase_app_go/models"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderSurrealQL_CaseSearch(t *testing.T) {
	after := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	before := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)

	q, err := TranslateCaseCriteria(models.CaseSearchCriteria{
		OwnerID:           strPtr("u1"),
		SearchText:        strPtr("fraud"),
		CreatedAfter:      timePtr(after),
		CreatedBefore:     timePtr(before),
		HasAnalysis:       boolPtr(true),
		MinViabilityScore: floatPtr(60),
		Tags:              []string{"urgent"},
		DocumentTypes:     []string{"Motion", "Brief"},
		Skip:              5,
		Take:              10,
	})
	require.NoError(t, err)

	stmt := RenderSurrealQL(CaseDocuments, q)

	g := goldie.New(t)
	g.Assert(t, "case_search_all_fields", []byte(stmt.SQL+"\n"))

	assert.Equal(t, map[string]any{
		"p0":   "u1",
		"p1":   "fraud",
		"p2":   after,
		"p3":   before,
		"p4":   0,
		"p5":   60.0,
		"p6":   []string{"urgent"},
		"p7":   []string{"Motion", "Brief"},
		"take": 10,
		"skip": 5,
	}, stmt.Vars)
}

func TestRenderSurrealQL_EmptyCriteria(t *testing.T) {
	q, err := TranslateCaseCriteria(models.CaseSearchCriteria{})
	require.NoError(t, err)

	stmt := RenderSurrealQL(CaseDocuments, q)

	g := goldie.New(t)
	g.Assert(t, "case_search_empty", []byte(stmt.SQL+"\n"))
	assert.Empty(t, stmt.Vars)
}

func TestRenderSurrealQL_ResearchSearch(t *testing.T) {
	q, err := TranslateLegalQuery(models.LegalSearchQuery{
		Jurisdiction:      strPtr("Federal"),
		MinRelevanceScore: floatPtr(0.75),
		Take:              10,
	})
	require.NoError(t, err)

	stmt := RenderSurrealQL(LegalResearch, q)

	g := goldie.New(t)
	g.Assert(t, "research_search", []byte(stmt.SQL+"\n"))
	assert.Equal(t, map[string]any{"p0": "Federal", "p1": 0.75, "take": 10}, stmt.Vars)
}

func TestRenderSurrealQL_TimestampSortIsCast(t *testing.T) {
	q, err := TranslateLegalQuery(models.LegalSearchQuery{
		Court:          strPtr("Supreme Court"),
		SortBy:         strPtr("decisionDate"),
		SortDescending: boolPtr(false),
		Take:           10,
	})
	require.NoError(t, err)

	stmt := RenderSurrealQL(LegalResearch, q)

	g := goldie.New(t)
	g.Assert(t, "research_by_decision_date", []byte(stmt.SQL+"\n"))
	assert.Equal(t, map[string]any{"p0": "Supreme Court", "take": 10}, stmt.Vars)
}

func TestRenderSurrealQL_PlainSortIsNotCast(t *testing.T) {
	q, err := TranslateCaseCriteria(models.CaseSearchCriteria{SortBy: strPtr("title"), SortDescending: boolPtr(false)})
	require.NoError(t, err)

	stmt := RenderSurrealQL(CaseDocuments, q)
	assert.Equal(t, "SELECT * OMIT id FROM case_documents ORDER BY title ASC", stmt.SQL)
	assert.NotContains(t, stmt.SQL, OrderKey)
}

func TestRenderSurrealCount(t *testing.T) {
	stmt := RenderSurrealCount(CaseDocuments, []Predicate{{Field: "owner_id", Op: OpEq, Value: "u1"}})

	g := goldie.New(t)
	g.Assert(t, "case_count_by_owner", []byte(stmt.SQL+"\n"))
	assert.Equal(t, map[string]any{"p0": "u1"}, stmt.Vars)
}

func TestRenderSurrealQL_UnknownOperatorPanics(t *testing.T) {
	assert.Panics(t, func() {
		RenderSurrealQL(CaseDocuments, Query{Predicates: []Predicate{{Field: "x", Op: Op("regex"), Value: "y"}}})
	})
}
