// Package query turns structured search criteria into a store-neutral list of
// AND-combined predicates, and renders that list for the engines that run it:
// SurrealQL for SurrealDB and a direct evaluator for the in-memory store.
package query

// Op is a predicate operator
type Op string

const (
	OpEq        Op = "eq"         // field equals value
	OpGte       Op = "gte"        // field >= value
	OpLte       Op = "lte"        // field <= value
	OpIn        Op = "in"         // field is one of value ([]string)
	OpText      Op = "text"       // any indexed text field matches value
	OpSizeGt    Op = "size_gt"    // len(array field) > value
	OpSizeEq    Op = "size_eq"    // len(array field) == value
	OpAnyIn     Op = "any_in"     // array field intersects value ([]string)
	OpElemMatch Op = "elem_match" // some element of array field satisfies Sub
)

// TextField is the pseudo field of OpText predicates. The collection decides
// which real fields it covers.
const TextField = "$text"

// Predicate is one condition on a document. Fields use the stored (snake
// case) names; dots walk into nested objects. Sub holds element conditions
// for OpElemMatch, with fields relative to the element.
type Predicate struct {
	Field string
	Op    Op
	Value any
	Sub   []Predicate
}

// Sort orders results by one stored field
type Sort struct {
	Field      string
	Descending bool
}

// Query is a translated search: predicates combined with AND, then sorted and
// paginated. Take <= 0 leaves the result unbounded.
type Query struct {
	Predicates []Predicate
	Sort       Sort
	Skip       int
	Take       int
}

// IsEmpty reports whether the query matches every document
func (q Query) IsEmpty() bool {
	return len(q.Predicates) == 0
}

// Collection describes a document collection to the translator and
// renderers. Fields and Omit make up the SurrealQL projection; SortFields
// maps the accepted sort keys (API and stored spellings) to stored fields.
// TimeFields are stored as RFC 3339 strings and must be cast before they
// compare or order as instants.
type Collection struct {
	Name        string
	Fields      string
	Omit        string
	TextFields  []string
	TimeFields  map[string]bool
	DefaultSort Sort
	SortFields  map[string]string
}

// CaseDocuments is the collection of case aggregates
var CaseDocuments = Collection{
	Name:        "case_documents",
	Fields:      "*",
	Omit:        "id",
	TextFields:  []string{"title", "case_number", "tags", "metadata.keywords"},
	TimeFields:  map[string]bool{"created_at": true, "updated_at": true},
	DefaultSort: Sort{Field: "updated_at", Descending: true},
	SortFields: map[string]string{
		"updatedAt":   "updated_at",
		"updated_at":  "updated_at",
		"createdAt":   "created_at",
		"created_at":  "created_at",
		"title":       "title",
		"version":     "version",
		"caseNumber":  "case_number",
		"case_number": "case_number",
	},
}

// LegalResearch is the collection of indexed research documents
var LegalResearch = Collection{
	Name:        "legal_research",
	Fields:      "*, record::id(id) AS id",
	TextFields:  []string{"title", "summary", "full_text", "citation"},
	TimeFields:  map[string]bool{"decision_date": true, "indexed_at": true},
	DefaultSort: Sort{Field: "relevance_score", Descending: true},
	SortFields: map[string]string{
		"relevanceScore":  "relevance_score",
		"relevance_score": "relevance_score",
		"decisionDate":    "decision_date",
		"decision_date":   "decision_date",
		"indexedAt":       "indexed_at",
		"indexed_at":      "indexed_at",
		"title":           "title",
		"citation":        "citation",
		"court":           "court",
	},
}
