package query

import (
	"strings"

	"legalcase_app_go/models"
)

// TranslateCaseCriteria converts case search criteria into a Query over the
// case_documents collection. Predicates come out in a fixed order so equal
// criteria always render the same statement.
func TranslateCaseCriteria(c models.CaseSearchCriteria) (Query, error) {
	var preds []Predicate

	if c.OwnerID != nil {
		preds = append(preds, Predicate{Field: "owner_id", Op: OpEq, Value: *c.OwnerID})
	}
	if c.SearchText != nil && strings.TrimSpace(*c.SearchText) != "" {
		preds = append(preds, Predicate{Field: TextField, Op: OpText, Value: strings.TrimSpace(*c.SearchText)})
	}
	if c.CreatedAfter != nil {
		preds = append(preds, Predicate{Field: "created_at", Op: OpGte, Value: c.CreatedAfter.UTC()})
	}
	if c.CreatedBefore != nil {
		preds = append(preds, Predicate{Field: "created_at", Op: OpLte, Value: c.CreatedBefore.UTC()})
	}
	if c.HasAnalysis != nil {
		if *c.HasAnalysis {
			preds = append(preds, Predicate{Field: "analyses", Op: OpSizeGt, Value: 0})
		} else {
			preds = append(preds, Predicate{Field: "analyses", Op: OpSizeEq, Value: 0})
		}
	}
	if c.MinViabilityScore != nil {
		preds = append(preds, Predicate{
			Field: "analyses",
			Op:    OpElemMatch,
			Sub:   []Predicate{{Field: "viability_score", Op: OpGte, Value: *c.MinViabilityScore}},
		})
	}
	if tags := searchTags(c.Tags); len(tags) > 0 {
		preds = append(preds, Predicate{Field: "metadata.tags", Op: OpAnyIn, Value: tags})
	}
	if len(c.DocumentTypes) > 0 {
		preds = append(preds, Predicate{
			Field: "documents",
			Op:    OpElemMatch,
			Sub:   []Predicate{{Field: "type", Op: OpIn, Value: c.DocumentTypes}},
		})
	}

	sort, err := resolveSort(CaseDocuments, c.SortBy, c.SortDescending)
	if err != nil {
		return Query{}, err
	}
	if c.Skip < 0 {
		return Query{}, models.NewValidationError("skip", "must not be negative")
	}

	return Query{Predicates: preds, Sort: sort, Skip: c.Skip, Take: c.Take}, nil
}

// TranslateLegalQuery converts an advanced research query into a Query over
// the legal_research collection.
func TranslateLegalQuery(q models.LegalSearchQuery) (Query, error) {
	var preds []Predicate

	if q.FullTextQuery != nil && strings.TrimSpace(*q.FullTextQuery) != "" {
		preds = append(preds, Predicate{Field: TextField, Op: OpText, Value: strings.TrimSpace(*q.FullTextQuery)})
	}
	if q.Jurisdiction != nil && *q.Jurisdiction != "" {
		preds = append(preds, Predicate{Field: "jurisdiction", Op: OpEq, Value: *q.Jurisdiction})
	}
	if q.Court != nil && *q.Court != "" {
		preds = append(preds, Predicate{Field: "court", Op: OpEq, Value: *q.Court})
	}
	if q.StartDate != nil {
		preds = append(preds, Predicate{Field: "decision_date", Op: OpGte, Value: q.StartDate.UTC()})
	}
	if q.EndDate != nil {
		preds = append(preds, Predicate{Field: "decision_date", Op: OpLte, Value: q.EndDate.UTC()})
	}
	if q.DocumentType != nil && *q.DocumentType != "" {
		preds = append(preds, Predicate{Field: "type", Op: OpEq, Value: *q.DocumentType})
	}
	if q.MinRelevanceScore != nil {
		preds = append(preds, Predicate{Field: "relevance_score", Op: OpGte, Value: *q.MinRelevanceScore})
	}
	if len(q.Keywords) > 0 {
		preds = append(preds, Predicate{Field: "metadata.keywords", Op: OpAnyIn, Value: q.Keywords})
	}
	if len(q.Topics) > 0 {
		preds = append(preds, Predicate{Field: "metadata.topics", Op: OpAnyIn, Value: q.Topics})
	}
	if len(q.PracticeAreas) > 0 {
		preds = append(preds, Predicate{Field: "metadata.practice_areas", Op: OpAnyIn, Value: q.PracticeAreas})
	}
	if q.PrecedentialValue != nil && *q.PrecedentialValue != "" {
		preds = append(preds, Predicate{Field: "metadata.precedential_value", Op: OpEq, Value: *q.PrecedentialValue})
	}

	sort, err := resolveSort(LegalResearch, q.SortBy, q.SortDescending)
	if err != nil {
		return Query{}, err
	}
	if q.Skip < 0 {
		return Query{}, models.NewValidationError("skip", "must not be negative")
	}

	return Query{Predicates: preds, Sort: sort, Skip: q.Skip, Take: q.Take}, nil
}

// Eq is a single-equality query sorted by the given field, used by the
// store's lookup helpers (by owner, by jurisdiction, ...).
func Eq(field string, value any, sortField string, take int) Query {
	return Query{
		Predicates: []Predicate{{Field: field, Op: OpEq, Value: value}},
		Sort:       Sort{Field: sortField, Descending: true},
		Take:       take,
	}
}

// searchTags folds tags the way they are stored: trimmed, lowercased and
// without duplicates
func searchTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

func resolveSort(c Collection, sortBy *string, descending *bool) (Sort, error) {
	sort := c.DefaultSort
	if sortBy != nil && strings.TrimSpace(*sortBy) != "" {
		field, ok := c.SortFields[strings.TrimSpace(*sortBy)]
		if !ok {
			return Sort{}, models.NewValidationError("sort_by", "unknown sort key "+*sortBy)
		}
		sort.Field = field
	}
	if descending != nil {
		sort.Descending = *descending
	}
	return sort, nil
}
