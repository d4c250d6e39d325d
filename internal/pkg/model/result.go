package model

// DataSource tags whether a value came from upstream or is a documented
// placeholder substituted after a total upstream failure.
type DataSource string

const (
	SourceUpstream DataSource = "upstream"
	SourceFallback DataSource = "fallback"
)

// Sourced wraps a value with its provenance so callers can distinguish real
// data from a last-resort default instead of being handed a plausible-looking
// number.
type Sourced[T any] struct {
	Value  T
	Source DataSource
	Reason string
}

func Real[T any](v T) Sourced[T] {
	return Sourced[T]{Value: v, Source: SourceUpstream}
}

func Fallback[T any](v T, reason string) Sourced[T] {
	return Sourced[T]{Value: v, Source: SourceFallback, Reason: reason}
}

// IsFallback reports whether the value is a placeholder.
func (s Sourced[T]) IsFallback() bool {
	return s.Source == SourceFallback
}
