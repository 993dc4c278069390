package query

import (
	"errors"
	"testing"
	"time"

	"legalcase_app_go/models"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool { return &b }
func floatPtr(f float64) *float64 { return &f }
func timePtr(t time.Time) *time.Time { return &t }

func TestTranslateCaseCriteria_Empty(t *testing.T) {
	q, err := TranslateCaseCriteria(models.CaseSearchCriteria{})
	require.NoError(t, err)

	assert.True(t, q.IsEmpty())
	assert.Equal(t, Sort{Field: "updated_at", Descending: true}, q.Sort)
	assert.Equal(t, 0, q.Skip)
	assert.Equal(t, 0, q.Take)
}

func TestTranslateCaseCriteria_AllFields(t *testing.T) {
	after := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	before := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)

	q, err := TranslateCaseCriteria(models.CaseSearchCriteria{
		OwnerID:           strPtr("u1"),
		SearchText:        strPtr("  fraud  "),
		CreatedAfter:      timePtr(after),
		CreatedBefore:     timePtr(before),
		HasAnalysis:       boolPtr(true),
		MinViabilityScore: floatPtr(60),
		Tags:              []string{"urgent", "appeal"},
		DocumentTypes:     []string{"Motion"},
		Skip:              5,
		Take:              10,
	})
	require.NoError(t, err)

	want := []Predicate{
		{Field: "owner_id", Op: OpEq, Value: "u1"},
		{Field: TextField, Op: OpText, Value: "fraud"},
		{Field: "created_at", Op: OpGte, Value: after},
		{Field: "created_at", Op: OpLte, Value: before},
		{Field: "analyses", Op: OpSizeGt, Value: 0},
		{Field: "analyses", Op: OpElemMatch, Sub: []Predicate{{Field: "viability_score", Op: OpGte, Value: 60.0}}},
		{Field: "metadata.tags", Op: OpAnyIn, Value: []string{"urgent", "appeal"}},
		{Field: "documents", Op: OpElemMatch, Sub: []Predicate{{Field: "type", Op: OpIn, Value: []string{"Motion"}}}},
	}
	if diff := cmp.Diff(want, q.Predicates); diff != "" {
		t.Errorf("predicates mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 5, q.Skip)
	assert.Equal(t, 10, q.Take)
}

func TestTranslateCaseCriteria_HasAnalysisFalse(t *testing.T) {
	q, err := TranslateCaseCriteria(models.CaseSearchCriteria{HasAnalysis: boolPtr(false)})
	require.NoError(t, err)

	want := []Predicate{{Field: "analyses", Op: OpSizeEq, Value: 0}}
	if diff := cmp.Diff(want, q.Predicates); diff != "" {
		t.Errorf("predicates mismatch (-want +got):\n%s", diff)
	}
}

func TestTranslateCaseCriteria_BlankTextIgnored(t *testing.T) {
	q, err := TranslateCaseCriteria(models.CaseSearchCriteria{SearchText: strPtr("   ")})
	require.NoError(t, err)
	assert.True(t, q.IsEmpty())
}

func TestTranslateCaseCriteria_TagsFolded(t *testing.T) {
	q, err := TranslateCaseCriteria(models.CaseSearchCriteria{Tags: []string{" Criminal", "THEFT", "criminal", "  "}})
	require.NoError(t, err)

	want := []Predicate{{Field: "metadata.tags", Op: OpAnyIn, Value: []string{"criminal", "theft"}}}
	if diff := cmp.Diff(want, q.Predicates); diff != "" {
		t.Errorf("predicates mismatch (-want +got):\n%s", diff)
	}
}

func TestTranslateCaseCriteria_BlankTagsIgnored(t *testing.T) {
	q, err := TranslateCaseCriteria(models.CaseSearchCriteria{Tags: []string{" ", ""}})
	require.NoError(t, err)
	assert.True(t, q.IsEmpty())
}

func TestTranslateCaseCriteria_Sort(t *testing.T) {
	tests := []struct {
		name    string
		sortBy  *string
		desc    *bool
		want    Sort
		wantErr bool
	}{
		{"default", nil, nil, Sort{Field: "updated_at", Descending: true}, false},
		{"camel case", strPtr("createdAt"), boolPtr(false), Sort{Field: "created_at"}, false},
		{"snake case", strPtr("case_number"), nil, Sort{Field: "case_number", Descending: true}, false},
		{"title ascending", strPtr("title"), boolPtr(false), Sort{Field: "title"}, false},
		{"unknown key", strPtr("owner_password"), nil, Sort{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := TranslateCaseCriteria(models.CaseSearchCriteria{SortBy: tt.sortBy, SortDescending: tt.desc})
			if tt.wantErr {
				assert.Error(t, err)
				assert.True(t, errors.Is(err, models.ErrValidation))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, q.Sort)
		})
	}
}

func TestTranslateCaseCriteria_NegativeSkip(t *testing.T) {
	_, err := TranslateCaseCriteria(models.CaseSearchCriteria{Skip: -1})
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestTranslateLegalQuery(t *testing.T) {
	start := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

	q, err := TranslateLegalQuery(models.LegalSearchQuery{
		FullTextQuery:     strPtr("search and seizure"),
		Jurisdiction:      strPtr("Federal"),
		Court:             strPtr("Supreme Court"),
		StartDate:         timePtr(start),
		DocumentType:      strPtr(models.LegalDocCaseOpinion),
		MinRelevanceScore: floatPtr(0.5),
		Keywords:          []string{"warrant"},
		Topics:            []string{"Fourth Amendment"},
		PracticeAreas:     []string{"Criminal"},
		PrecedentialValue: strPtr(models.PrecedentialBinding),
		Take:              25,
	})
	require.NoError(t, err)

	want := []Predicate{
		{Field: TextField, Op: OpText, Value: "search and seizure"},
		{Field: "jurisdiction", Op: OpEq, Value: "Federal"},
		{Field: "court", Op: OpEq, Value: "Supreme Court"},
		{Field: "decision_date", Op: OpGte, Value: start},
		{Field: "type", Op: OpEq, Value: "CaseOpinion"},
		{Field: "relevance_score", Op: OpGte, Value: 0.5},
		{Field: "metadata.keywords", Op: OpAnyIn, Value: []string{"warrant"}},
		{Field: "metadata.topics", Op: OpAnyIn, Value: []string{"Fourth Amendment"}},
		{Field: "metadata.practice_areas", Op: OpAnyIn, Value: []string{"Criminal"}},
		{Field: "metadata.precedential_value", Op: OpEq, Value: "Binding"},
	}
	if diff := cmp.Diff(want, q.Predicates); diff != "" {
		t.Errorf("predicates mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, Sort{Field: "relevance_score", Descending: true}, q.Sort)
	assert.Equal(t, 25, q.Take)
}
