package types

// Enrichment is the result of a best-effort lookup. Value is always usable; Err records why it
// may be incomplete so callers can tell "nothing found" from "lookup failed".
type Enrichment[T any] struct {
	Value T
	Err   error
}

// Failed reports whether the lookup hit an error.
func (e Enrichment[T]) Failed() bool {
	return e.Err != nil
}
