package validation

import (
	"html"
	"math"
)

// NotANumber is the sentinel stored for integer fields that failed coercion
// or range checks. It always co-occurs with a validation error and must never
// be forwarded downstream as a real value.
const NotANumber int64 = math.MinInt64

func IsNotANumber(n int64) bool {
	return n == NotANumber
}

// Result carries one evaluation's outcome: the cleaned values used by the
// pipeline, the escaped values safe for redisplay, the coerced numerics, and
// the ordered error list.
type Result struct {
	values    map[string]string
	sanitized map[string]string
	ints      map[string]int64
	floats    map[string]float64
	errors    *Errors
}

func newResult() *Result {
	return &Result{
		values:    make(map[string]string),
		sanitized: make(map[string]string),
		ints:      make(map[string]int64),
		floats:    make(map[string]float64),
		errors:    &Errors{},
	}
}

func (r *Result) OK() bool {
	return r.errors.Len() == 0
}

func (r *Result) Errors() *Errors {
	return r.errors
}

// Value returns the trimmed, unescaped field value for processing (hashing,
// persistence). Secrets are only reachable through here.
func (r *Result) Value(name string) string {
	return r.values[name]
}

// Field returns the redisplay-safe, entity-escaped value. Secret fields are
// never present.
func (r *Result) Field(name string) string {
	return r.sanitized[name]
}

// Sanitized returns the full redisplay map. The map is the Result's own;
// callers hand it to the renderer and must not keep mutating it.
func (r *Result) Sanitized() map[string]string {
	return r.sanitized
}

// Int returns the coerced integer or NotANumber when the field was absent,
// unparsable, or out of range.
func (r *Result) Int(name string) int64 {
	if n, ok := r.ints[name]; ok {
		return n
	}
	return NotANumber
}

// Float returns the coerced float or NaN when coercion failed.
func (r *Result) Float(name string) float64 {
	if f, ok := r.floats[name]; ok {
		return f
	}
	return math.NaN()
}

// Escape entity-escapes a value for redisplay. Unescaping first makes the
// operation idempotent: resubmitting an already-sanitized value does not
// double-escape it. Handlers use it when pre-filling forms from stored rows.
func Escape(value string) string {
	return html.EscapeString(html.UnescapeString(value))
}
