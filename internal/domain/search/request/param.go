package request

// Param is a parsed client parameter: either the value the client asked for,
// or a default substituted because the input was malformed.
type Param[T any] struct {
	value    T
	fallback bool
	reason   string
}

// Ok wraps a successfully parsed value.
func Ok[T any](v T) Param[T] {
	return Param[T]{value: v}
}

// FallbackTo wraps a default used in place of malformed input.
func FallbackTo[T any](def T, reason string) Param[T] {
	return Param[T]{value: def, fallback: true, reason: reason}
}

// Value returns the effective value.
func (p Param[T]) Value() T { return p.value }

// IsFallback reports whether the value is a substituted default.
func (p Param[T]) IsFallback() bool { return p.fallback }

// Reason explains why the input was rejected. Empty for Ok values.
func (p Param[T]) Reason() string { return p.reason }

// Collect returns the effective value, appending a Fallback to dst when the
// input was rejected.
func (p Param[T]) Collect(name, raw string, dst *[]Fallback) T {
	if p.fallback {
		*dst = append(*dst, Fallback{Name: name, Raw: raw, Reason: p.reason})
	}
	return p.value
}

// Fallback records a malformed parameter replaced by its default.
type Fallback struct {
	Name   string
	Raw    string
	Reason string
}
