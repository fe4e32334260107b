package validation

import (
	"context"
	"regexp"
	"strconv"
	"strings"
)

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// LookupFunc is a cross-field or cross-record check run against already
// collected values (earlier fields in the rule set are visible through the
// Result). It returns a validation message, or "" when the value passes. A
// non-nil error means the lookup itself failed; the engine folds that into
// the field's LookupFailureMessage instead of re-throwing.
type LookupFunc func(ctx context.Context, value string, r *Result) (string, error)

// Field is one declarative rule descriptor. Checks run in a fixed order:
// required, min/max length, pattern, custom check, numeric coercion, lookup.
// Evaluation never stops early across fields; every descriptor in a rule set
// runs and every failure is collected.
type Field struct {
	Name string

	// Sanitization. Values are always trimmed first.
	Lower     bool
	StripTags bool
	// Secret values (passwords) are checked but kept out of the sanitized
	// redisplay map.
	Secret bool

	Required        bool
	RequiredMessage string

	MinLen        int
	MinLenMessage string
	MaxLen        int
	MaxLenMessage string

	Pattern        *regexp.Regexp
	PatternMessage string

	// Check is a custom predicate returning a message, or "" when the value
	// passes. It only runs on non-empty values.
	Check func(value string) string

	// Integer coercion with an inclusive range.
	Int        bool
	IntMin     int64
	IntMax     int64
	IntMessage string

	// Float coercion; the value must be strictly greater than GreaterThan.
	Float        bool
	GreaterThan  float64
	FloatMessage string

	Lookup               LookupFunc
	LookupFailureMessage string
}

// Evaluate runs a rule set against raw untyped input. All fields are
// evaluated in slice order regardless of earlier failures; lookups may read
// earlier fields' coerced values from the Result.
func Evaluate(ctx context.Context, fields []Field, raw map[string]string) *Result {
	r := newResult()

	for _, f := range fields {
		evaluateField(ctx, f, raw[f.Name], r)
	}

	return r
}

func evaluateField(ctx context.Context, f Field, rawValue string, r *Result) {
	value := strings.TrimSpace(rawValue)
	if f.StripTags {
		value = strings.TrimSpace(tagPattern.ReplaceAllString(value, ""))
	}
	if f.Lower {
		value = strings.ToLower(value)
	}

	r.values[f.Name] = value
	if !f.Secret {
		r.sanitized[f.Name] = Escape(value)
	}

	if value == "" {
		if f.Required {
			r.errors.Add(f.RequiredMessage)
		}
		if f.Int {
			r.ints[f.Name] = NotANumber
			if !f.Required {
				r.errors.Add(f.IntMessage)
			}
		}
		if f.Float && !f.Required {
			r.errors.Add(f.FloatMessage)
		}
		return
	}

	shapeOK := true

	if f.MinLen > 0 && len(value) < f.MinLen {
		r.errors.Add(f.MinLenMessage)
		shapeOK = false
	}
	if f.MaxLen > 0 && len(value) > f.MaxLen {
		r.errors.Add(f.MaxLenMessage)
		shapeOK = false
	}
	if f.Pattern != nil && !f.Pattern.MatchString(value) {
		r.errors.Add(f.PatternMessage)
		shapeOK = false
	}
	if f.Check != nil {
		if msg := f.Check(value); msg != "" {
			r.errors.Add(msg)
			shapeOK = false
		}
	}

	if f.Int {
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil || n < f.IntMin || n > f.IntMax {
			// Out-of-range values are rejected, never clamped.
			r.errors.Add(f.IntMessage)
			r.ints[f.Name] = NotANumber
			shapeOK = false
		} else {
			r.ints[f.Name] = n
		}
	}

	if f.Float {
		fl, err := strconv.ParseFloat(value, 64)
		if err != nil || fl <= f.GreaterThan {
			r.errors.Add(f.FloatMessage)
			shapeOK = false
		} else {
			r.floats[f.Name] = fl
		}
	}

	// Lookups only run for values that passed their shape checks; a malformed
	// value would make the lookup meaningless.
	if f.Lookup != nil && shapeOK {
		msg, err := f.Lookup(ctx, value, r)
		if err != nil {
			r.errors.Add(f.LookupFailureMessage)
			return
		}
		if msg != "" {
			r.errors.Add(msg)
		}
	}
}
