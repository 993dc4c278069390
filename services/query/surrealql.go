package query

import (
	"fmt"
	"strings"
	"time"
)

// Statement is a rendered SurrealQL statement with its bind variables
type Statement struct {
	SQL  string
	Vars map[string]any
}

// OrderKey is the alias a timestamp sort field is projected under, cast to a
// datetime so the engine orders instants rather than strings.
const OrderKey = "order_key"

// RenderSurrealQL renders q as a parameterized SELECT over the collection.
// Values are never interpolated; each predicate value becomes $p0..$pn in
// the order the predicates are written.
func RenderSurrealQL(c Collection, q Query) Statement {
	r := renderer{vars: map[string]any{}, textFields: c.TextFields}

	sort := q.Sort
	if sort.Field == "" {
		sort = c.DefaultSort
	}
	fields, orderBy := c.Fields, sort.Field
	if c.TimeFields[sort.Field] {
		fields += ", <datetime> " + sort.Field + " AS " + OrderKey
		orderBy = OrderKey
	}

	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(fields)
	if c.Omit != "" {
		sb.WriteString(" OMIT ")
		sb.WriteString(c.Omit)
	}
	sb.WriteString(" FROM ")
	sb.WriteString(c.Name)

	if where := r.conjunction(q.Predicates); where != "" {
		sb.WriteString(" WHERE ")
		sb.WriteString(where)
	}

	sb.WriteString(" ORDER BY ")
	sb.WriteString(orderBy)
	if sort.Descending {
		sb.WriteString(" DESC")
	} else {
		sb.WriteString(" ASC")
	}

	if q.Take > 0 {
		sb.WriteString(" LIMIT $take")
		r.vars["take"] = q.Take
	}
	if q.Skip > 0 {
		sb.WriteString(" START $skip")
		r.vars["skip"] = q.Skip
	}

	return Statement{SQL: sb.String(), Vars: r.vars}
}

// RenderSurrealCount renders a count over the documents matching preds. The
// result is a single row {count: n}, or no row for an empty match.
func RenderSurrealCount(c Collection, preds []Predicate) Statement {
	r := renderer{vars: map[string]any{}, textFields: c.TextFields}

	sql := "SELECT count() AS count FROM " + c.Name
	if where := r.conjunction(preds); where != "" {
		sql += " WHERE " + where
	}
	sql += " GROUP ALL"

	return Statement{SQL: sql, Vars: r.vars}
}

type renderer struct {
	vars       map[string]any
	textFields []string
}

func (r *renderer) bind(v any) string {
	name := fmt.Sprintf("p%d", len(r.vars))
	r.vars[name] = v
	return "$" + name
}

func (r *renderer) conjunction(preds []Predicate) string {
	parts := make([]string, 0, len(preds))
	for _, p := range preds {
		parts = append(parts, r.predicate(p))
	}
	return strings.Join(parts, " AND ")
}

func (r *renderer) predicate(p Predicate) string {
	switch p.Op {
	case OpEq:
		return r.comparison(p.Field, "=", p.Value)
	case OpGte:
		return r.comparison(p.Field, ">=", p.Value)
	case OpLte:
		return r.comparison(p.Field, "<=", p.Value)
	case OpIn:
		return p.Field + " INSIDE " + r.bind(p.Value)
	case OpText:
		param := r.bind(p.Value)
		matches := make([]string, 0, len(r.textFields))
		for _, f := range r.textFields {
			matches = append(matches, f+" @@ "+param)
		}
		return "(" + strings.Join(matches, " OR ") + ")"
	case OpSizeGt:
		return "array::len(" + p.Field + ") > " + r.bind(p.Value)
	case OpSizeEq:
		return "array::len(" + p.Field + ") = " + r.bind(p.Value)
	case OpAnyIn:
		return p.Field + " CONTAINSANY " + r.bind(p.Value)
	case OpElemMatch:
		return "array::len(" + p.Field + "[WHERE " + r.conjunction(p.Sub) + "]) > 0"
	}
	panic(fmt.Sprintf("query: unknown operator %q", p.Op))
}

// comparison casts stored timestamps, which are kept as RFC 3339 strings, so
// they compare as datetimes against time values.
func (r *renderer) comparison(field, op string, v any) string {
	if _, ok := v.(time.Time); ok {
		return "<datetime> " + field + " " + op + " " + r.bind(v)
	}
	return field + " " + op + " " + r.bind(v)
}
