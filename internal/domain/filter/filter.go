package filter

import "slices"

// MaxConditions is the maximum number of conditions an expression may carry.
const MaxConditions = 32

// Expression is an immutable conjunction of tag conditions with optional negations.
// Builder methods return a new Expression and never modify the receiver.
type Expression struct {
	must    []Condition
	mustNot []Condition
	none    bool
}

// New returns an empty expression that matches every document.
func New() Expression { return Expression{} }

// Eq requires key to equal value. An empty value leaves the expression unchanged.
func (e Expression) Eq(key, value string) Expression {
	if key == "" || value == "" {
		return e
	}
	return e.with(Condition{key: key, values: []string{value}}, false)
}

// In requires key to equal any of values. With no values the expression matches nothing.
func (e Expression) In(key string, values ...string) Expression {
	if len(values) == 0 {
		out := e.clone()
		out.none = true
		return out
	}
	return e.with(Condition{key: key, values: slices.Clone(values)}, false)
}

// NotEq excludes documents where key equals value. An empty value is ignored.
func (e Expression) NotEq(key, value string) Expression {
	if key == "" || value == "" {
		return e
	}
	return e.with(Condition{key: key, values: []string{value}}, true)
}

// Must returns the required conditions.
func (e Expression) Must() []Condition { return e.must }

// MustNot returns the excluded conditions.
func (e Expression) MustNot() []Condition { return e.mustNot }

// IsEmpty reports whether the expression has no conditions.
func (e Expression) IsEmpty() bool {
	return len(e.must) == 0 && len(e.mustNot) == 0 && !e.none
}

// MatchesNone reports whether the expression can never match, e.g. an In with no values.
func (e Expression) MatchesNone() bool { return e.none }

// Len is the total number of conditions.
func (e Expression) Len() int { return len(e.must) + len(e.mustNot) }

func (e Expression) with(c Condition, negate bool) Expression {
	out := e.clone()
	if out.Len() >= MaxConditions {
		return out
	}
	if negate {
		out.mustNot = append(out.mustNot, c)
	} else {
		out.must = append(out.must, c)
	}
	return out
}

func (e Expression) clone() Expression {
	return Expression{
		must:    slices.Clone(e.must),
		mustNot: slices.Clone(e.mustNot),
		none:    e.none,
	}
}

// Condition is a single tag clause: key equals one of values.
type Condition struct {
	key    string
	values []string
}

// Key returns the field alias.
func (c Condition) Key() string { return c.key }

// Values returns the accepted values.
func (c Condition) Values() []string { return c.values }
