package main

// Predicate decides whether a decoded row should be yielded by a table
// scan. It is restricted to an AND-join of column/literal equality tests,
// matching the WHERE shapes the SQL layer accepts.
type Predicate struct {
	terms []predicateTerm
}

type predicateTerm struct {
	columnIndex int
	literal     Value
}

// alwaysTrue returns a predicate that matches every row, used for full
// table scans and schema traversal.
func alwaysTrue() *Predicate {
	return &Predicate{}
}

// newEqualityPredicate builds a predicate from column-index/literal pairs
// already resolved against a table's column list.
func newEqualityPredicate(terms []predicateTerm) *Predicate {
	return &Predicate{terms: terms}
}

// Matches evaluates the predicate against a row's projected values, which
// must be indexed the same way the predicate's column indices were
// resolved (i.e. against the full column list, rowid alias already
// substituted in).
func (p *Predicate) Matches(row []Value) bool {
	for _, term := range p.terms {
		if term.columnIndex < 0 || term.columnIndex >= len(row) {
			return false
		}
		if !valuesEqual(row[term.columnIndex], term.literal) {
			return false
		}
	}
	return true
}

// valuesEqual compares two values byte-wise after coercing the row value
// to the literal's kind, since literals parsed out of SQL text arrive as
// either integers or strings regardless of the column's storage class.
// NULL compares unequal to everything, including another NULL.
func valuesEqual(a, b Value) bool {
	if a.Kind == ValueKindNull || b.Kind == ValueKindNull {
		return false
	}
	switch b.Kind {
	case ValueKindInt:
		return coerceToInt(a) == b.Int
	case ValueKindText:
		return coerceToText(a) == b.Text
	default:
		return a.Kind == b.Kind && a.String() == b.String()
	}
}

func coerceToInt(v Value) int64 {
	if v.Kind == ValueKindInt {
		return v.Int
	}
	return 0
}

func coerceToText(v Value) string {
	if v.Kind == ValueKindText {
		return v.Text
	}
	return v.String()
}
