// Package provider holds the shared contract between vendor clients and
// the gateway: the normalized result union and the transport plumbing.
package provider

import "errors"

// ErrNoMatch is returned by normalizers when a vendor responded 2xx but the
// payload carries no usable result (empty result set, missing fields,
// unknown enum values). Callers map it to a NotFound result.
var ErrNoMatch = errors.New("no usable match in vendor response")

// Status classifies a gateway call outcome.
type Status string

const (
	StatusOK          Status = "ok"
	StatusUnavailable Status = "unavailable"
	StatusNotFound    Status = "not_found"
)

// Result is the tagged union every gateway operation returns. Expected
// failure modes (vendor down, no match) never surface as errors.
type Result[T any] struct {
	Status Status
	Value  T
}

// OK wraps a successful value.
func OK[T any](value T) Result[T] {
	return Result[T]{Status: StatusOK, Value: value}
}

// Unavailable marks the vendor as unreachable or disabled.
func Unavailable[T any]() Result[T] {
	return Result[T]{Status: StatusUnavailable}
}

// NotFound marks a well-formed vendor response with no usable match.
func NotFound[T any]() Result[T] {
	return Result[T]{Status: StatusNotFound}
}

// IsOK reports whether the result carries a value.
func (r Result[T]) IsOK() bool {
	return r.Status == StatusOK
}
