package filter

import "errors"

// Kind distinguishes condition types.
type Kind int

// Condition kinds.
const (
	// KindRange restricts a NUMERIC attribute to an inclusive range.
	KindRange Kind = iota
	// KindTag restricts a TAG attribute to one of a set of values.
	KindTag
)

// Expression is a conjunction of conditions applied to the index query
// before free-text matching.
type Expression struct {
	conditions []Condition
}

// And combines conditions into an expression. Zero-value conditions, open
// ranges and empty tag sets are skipped.
func And(conds ...Condition) Expression {
	kept := make([]Condition, 0, len(conds))
	for _, c := range conds {
		if c.field == "" || c.IsUnbounded() {
			continue
		}
		kept = append(kept, c)
	}
	return Expression{conditions: kept}
}

// Conditions returns the conditions in insertion order.
func (e Expression) Conditions() []Condition { return e.conditions }

// IsEmpty reports whether the expression has no conditions.
func (e Expression) IsEmpty() bool { return len(e.conditions) == 0 }

// Condition restricts one indexed attribute.
type Condition struct {
	kind   Kind
	field  string
	from   *int64
	to     *int64
	values []string
}

// Between creates an inclusive range condition on field.
// A nil bound leaves that side open.
func Between(field string, from, to *int64) (Condition, error) {
	if field == "" {
		return Condition{}, errors.New("filter field is required")
	}
	return Condition{kind: KindRange, field: field, from: from, to: to}, nil
}

// AnyOf creates a tag condition matching documents whose field holds any of values.
func AnyOf(field string, values ...string) (Condition, error) {
	if field == "" {
		return Condition{}, errors.New("filter field is required")
	}
	kept := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			kept = append(kept, v)
		}
	}
	return Condition{kind: KindTag, field: field, values: kept}, nil
}

// Kind returns the condition type.
func (c Condition) Kind() Kind { return c.kind }

// Field returns the indexed field name.
func (c Condition) Field() string { return c.field }

// From returns the inclusive lower bound, nil when open.
func (c Condition) From() *int64 { return c.from }

// To returns the inclusive upper bound, nil when open.
func (c Condition) To() *int64 { return c.to }

// Values returns the accepted tag values.
func (c Condition) Values() []string { return c.values }

// IsUnbounded reports whether the condition matches everything.
func (c Condition) IsUnbounded() bool {
	if c.kind == KindTag {
		return len(c.values) == 0
	}
	return c.from == nil && c.to == nil
}
