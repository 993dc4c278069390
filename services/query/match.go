package query

import (
	"sort"
	"strings"
	"time"
)

// Match evaluates preds against a JSON-normalized document (the shape
// encoding/json style decoding produces: map[string]any, []any, string,
// float64, bool, nil). All predicates must hold.
func Match(doc map[string]any, preds []Predicate, textFields []string) bool {
	for _, p := range preds {
		if !matchOne(doc, p, textFields) {
			return false
		}
	}
	return true
}

func matchOne(doc map[string]any, p Predicate, textFields []string) bool {
	if p.Op == OpText {
		return matchText(doc, p.Value, textFields)
	}

	v, _ := Lookup(doc, p.Field)

	switch p.Op {
	case OpEq:
		c, ok := compare(v, p.Value)
		return ok && c == 0
	case OpGte:
		c, ok := compare(v, p.Value)
		return ok && c >= 0
	case OpLte:
		c, ok := compare(v, p.Value)
		return ok && c <= 0
	case OpIn:
		for _, want := range stringList(p.Value) {
			if c, ok := compare(v, want); ok && c == 0 {
				return true
			}
		}
		return false
	case OpSizeGt:
		return len(asList(v)) > toInt(p.Value)
	case OpSizeEq:
		return len(asList(v)) == toInt(p.Value)
	case OpAnyIn:
		wanted := stringList(p.Value)
		for _, el := range asList(v) {
			for _, want := range wanted {
				if c, ok := compare(el, want); ok && c == 0 {
					return true
				}
			}
		}
		return false
	case OpElemMatch:
		for _, el := range asList(v) {
			m, ok := el.(map[string]any)
			if ok && Match(m, p.Sub, textFields) {
				return true
			}
		}
		return false
	}
	return false
}

// matchText is a case-insensitive match of any query term against any of the
// text fields (strings or lists of strings).
func matchText(doc map[string]any, value any, textFields []string) bool {
	text, _ := value.(string)
	terms := strings.Fields(strings.ToLower(text))
	if len(terms) == 0 {
		return true
	}

	for _, f := range textFields {
		v, _ := Lookup(doc, f)
		var candidates []string
		switch t := v.(type) {
		case string:
			candidates = []string{t}
		case []any:
			for _, el := range t {
				if s, ok := el.(string); ok {
					candidates = append(candidates, s)
				}
			}
		}
		for _, c := range candidates {
			lc := strings.ToLower(c)
			for _, term := range terms {
				if strings.Contains(lc, term) {
					return true
				}
			}
		}
	}
	return false
}

// Lookup resolves a dotted field path in a document
func Lookup(doc map[string]any, path string) (any, bool) {
	var cur any = doc
	for _, key := range strings.Split(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[key]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// SortDocuments orders docs by the sort field. Missing values sort first
// ascending; equal keys keep their input order.
func SortDocuments(docs []map[string]any, s Sort) {
	sort.SliceStable(docs, func(i, j int) bool {
		a, _ := Lookup(docs[i], s.Field)
		b, _ := Lookup(docs[j], s.Field)
		c := order(a, b)
		if s.Descending {
			return c > 0
		}
		return c < 0
	})
}

// Page applies skip and take to a sorted result; take <= 0 means no limit
func Page[T any](items []T, skip, take int) []T {
	if skip < 0 {
		skip = 0
	}
	if skip >= len(items) {
		return items[:0]
	}
	items = items[skip:]
	if take > 0 && take < len(items) {
		items = items[:take]
	}
	return items
}

// order is a total order for sorting: nil < everything, then compare.
func order(a, b any) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	if c, ok := compare(a, b); ok {
		return c
	}
	return 0
}

// compare orders a stored value against a predicate or stored value. Times
// are compared as instants, numbers numerically, strings lexically. ok is
// false when the two values are not comparable.
func compare(stored, want any) (int, bool) {
	if stored == nil {
		return 0, false
	}

	switch w := want.(type) {
	case time.Time:
		t, ok := asTime(stored)
		if !ok {
			return 0, false
		}
		return t.Compare(w), true
	case bool:
		s, ok := stored.(bool)
		if !ok {
			return 0, false
		}
		if s == w {
			return 0, true
		}
		if !s {
			return -1, true
		}
		return 1, true
	case string:
		s, ok := stored.(string)
		if !ok {
			return 0, false
		}
		if ta, okA := parseTime(s); okA {
			if tb, okB := parseTime(w); okB {
				return ta.Compare(tb), true
			}
		}
		return strings.Compare(s, w), true
	}

	wf, ok := toFloat(want)
	if !ok {
		return 0, false
	}
	sf, ok := toFloat(stored)
	if !ok {
		return 0, false
	}
	switch {
	case sf < wf:
		return -1, true
	case sf > wf:
		return 1, true
	}
	return 0, true
}

func asTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case string:
		return parseTime(t)
	}
	return time.Time{}, false
}

func parseTime(s string) (time.Time, bool) {
	if len(s) < len("2006-01-02T15:04:05Z") || s[4] != '-' {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	}
	return 0, false
}

func toInt(v any) int {
	f, _ := toFloat(v)
	return int(f)
}

func asList(v any) []any {
	l, _ := v.([]any)
	return l
}

func stringList(v any) []string {
	switch l := v.(type) {
	case []string:
		return l
	case []any:
		out := make([]string, 0, len(l))
		for _, el := range l {
			if s, ok := el.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case string:
		return []string{l}
	}
	return nil
}
