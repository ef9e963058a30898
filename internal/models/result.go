package models

// SourceResult wraps one independently-optional sub-record of a profile.
// A failed result always has nil Data; the engine never invents values for
// a failed or unavailable source. Success with nil Data means the source
// was consulted and found nothing, which is a normal outcome.
type SourceResult[T any] struct {
	Success bool     `json:"success"`
	Data    *T       `json:"data"`
	Source  string   `json:"source"`
	Errors  []string `json:"errors,omitempty"`
}

// OK wraps a successful source result
func OK[T any](source string, data *T) SourceResult[T] {
	return SourceResult[T]{Success: true, Data: data, Source: source}
}

// Failed wraps a failed or unavailable source result
func Failed[T any](source string, errs ...string) SourceResult[T] {
	return SourceResult[T]{Success: false, Source: source, Errors: errs}
}
