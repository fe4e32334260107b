package validation

import (
	"context"
	"errors"
	"math"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var wordPattern = regexp.MustCompile(`^[A-Za-z]+$`)

// TestEvaluate_CollectsAllErrors verifies the engine never fails fast: every
// field's failures land in the error list, in rule order.
func TestEvaluate_CollectsAllErrors(t *testing.T) {
	fields := []Field{
		{Name: "first", Required: true, RequiredMessage: "first is required"},
		{Name: "last", Required: true, RequiredMessage: "last is required"},
		{Name: "age", Int: true, IntMin: 0, IntMax: 150, IntMessage: "age must be a number"},
	}

	res := Evaluate(context.Background(), fields, map[string]string{
		"first": "",
		"last":  "  ",
		"age":   "not-a-number",
	})

	assert.False(t, res.OK())
	assert.Equal(t, []string{
		"first is required",
		"last is required",
		"age must be a number",
	}, res.Errors().Messages())
}

func TestEvaluate_TrimAndEscape(t *testing.T) {
	fields := []Field{{Name: "name", Required: true, RequiredMessage: "required"}}

	res := Evaluate(context.Background(), fields, map[string]string{
		"name": `  <b>O'Brien</b> & Sons  `,
	})

	require.True(t, res.OK())
	assert.Equal(t, `<b>O'Brien</b> & Sons`, res.Value("name"))
	assert.Equal(t, `&lt;b&gt;O&#39;Brien&lt;/b&gt; &amp; Sons`, res.Field("name"))
}

// TestEvaluate_SanitizeIdempotent: resubmitting an already-sanitized value
// must sanitize to the same thing, never double-escape.
func TestEvaluate_SanitizeIdempotent(t *testing.T) {
	fields := []Field{{Name: "name", Required: true, RequiredMessage: "required"}}

	first := Evaluate(context.Background(), fields, map[string]string{"name": `Smith & Wesson <"dealer">`})
	second := Evaluate(context.Background(), fields, map[string]string{"name": first.Field("name")})

	assert.Equal(t, first.Field("name"), second.Field("name"))
}

func TestEvaluate_SecretsExcludedFromSanitized(t *testing.T) {
	fields := []Field{
		{Name: "email", Required: true, RequiredMessage: "required"},
		{Name: "password", Secret: true, Required: true, RequiredMessage: "required"},
	}

	res := Evaluate(context.Background(), fields, map[string]string{
		"email":    "a@b.com",
		"password": "Str0ng!Passw0rd123",
	})

	require.True(t, res.OK())
	_, present := res.Sanitized()["password"]
	assert.False(t, present, "secret must not be in the redisplay map")
	assert.Equal(t, "Str0ng!Passw0rd123", res.Value("password"))
}

func TestEvaluate_IntCoercion(t *testing.T) {
	fields := []Field{{Name: "rating", Int: true, IntMin: 1, IntMax: 5, IntMessage: "rating 1-5"}}

	t.Run("valid", func(t *testing.T) {
		res := Evaluate(context.Background(), fields, map[string]string{"rating": " 4 "})
		require.True(t, res.OK())
		assert.Equal(t, int64(4), res.Int("rating"))
	})

	t.Run("out of range is rejected, not clamped", func(t *testing.T) {
		res := Evaluate(context.Background(), fields, map[string]string{"rating": "9"})
		assert.False(t, res.OK())
		assert.True(t, IsNotANumber(res.Int("rating")))
	})

	t.Run("unparsable becomes the sentinel", func(t *testing.T) {
		res := Evaluate(context.Background(), fields, map[string]string{"rating": "four"})
		assert.False(t, res.OK())
		assert.True(t, IsNotANumber(res.Int("rating")))
	})

	t.Run("missing becomes the sentinel", func(t *testing.T) {
		res := Evaluate(context.Background(), fields, map[string]string{})
		assert.False(t, res.OK())
		assert.True(t, IsNotANumber(res.Int("rating")))
	})
}

func TestEvaluate_FloatCoercion(t *testing.T) {
	fields := []Field{{Name: "price", Float: true, GreaterThan: 0, FloatMessage: "price > 0"}}

	res := Evaluate(context.Background(), fields, map[string]string{"price": "19999.95"})
	require.True(t, res.OK())
	assert.Equal(t, 19999.95, res.Float("price"))

	res = Evaluate(context.Background(), fields, map[string]string{"price": "0"})
	assert.False(t, res.OK())

	res = Evaluate(context.Background(), fields, map[string]string{"price": "free"})
	assert.False(t, res.OK())
	assert.True(t, math.IsNaN(res.Float("price")))
}

func TestEvaluate_PatternAndCheck(t *testing.T) {
	fields := []Field{
		{Name: "word", Required: true, RequiredMessage: "required",
			Pattern: wordPattern, PatternMessage: "letters only"},
		{Name: "code", Check: func(v string) string {
			if v != "ok" {
				return "bad code"
			}
			return ""
		}},
	}

	res := Evaluate(context.Background(), fields, map[string]string{
		"word": "abc123",
		"code": "nope",
	})

	assert.Equal(t, []string{"letters only", "bad code"}, res.Errors().Messages())
}

func TestEvaluate_StripTags(t *testing.T) {
	fields := []Field{{Name: "comment", StripTags: true, Required: true, RequiredMessage: "comment required"}}

	res := Evaluate(context.Background(), fields, map[string]string{
		"comment": `<script>alert(1)</script>Great car!`,
	})
	require.True(t, res.OK())
	assert.Equal(t, "alert(1)Great car!", res.Value("comment"))

	// A comment that is nothing but markup counts as empty.
	res = Evaluate(context.Background(), fields, map[string]string{"comment": "<p></p>"})
	assert.False(t, res.OK())
	assert.Equal(t, []string{"comment required"}, res.Errors().Messages())
}

func TestEvaluate_LookupFoldsFailure(t *testing.T) {
	fields := []Field{{
		Name:     "email",
		Required: true, RequiredMessage: "required",
		Lookup: func(ctx context.Context, value string, _ *Result) (string, error) {
			return "", errors.New("connection refused")
		},
		LookupFailureMessage: "An unexpected error occurred while checking the email.",
	}}

	res := Evaluate(context.Background(), fields, map[string]string{"email": "a@b.com"})

	assert.False(t, res.OK())
	assert.Equal(t, []string{"An unexpected error occurred while checking the email."}, res.Errors().Messages())
}

func TestEvaluate_LookupReadsEarlierFields(t *testing.T) {
	var seenID int64
	fields := []Field{
		{Name: "account_id", Int: true, IntMin: 1, IntMax: 1 << 30, IntMessage: "bad id"},
		{Name: "email", Required: true, RequiredMessage: "required",
			Lookup: func(ctx context.Context, value string, r *Result) (string, error) {
				seenID = r.Int("account_id")
				return "", nil
			}},
	}

	res := Evaluate(context.Background(), fields, map[string]string{
		"account_id": "42",
		"email":      "a@b.com",
	})

	require.True(t, res.OK())
	assert.Equal(t, int64(42), seenID)
}

func TestEvaluate_LookupSkippedOnShapeFailure(t *testing.T) {
	called := false
	fields := []Field{{
		Name:     "email",
		Required: true, RequiredMessage: "A valid email is required.",
		Pattern: regexp.MustCompile(`@`), PatternMessage: "A valid email is required.",
		Lookup: func(ctx context.Context, value string, _ *Result) (string, error) {
			called = true
			return "", nil
		},
	}}

	res := Evaluate(context.Background(), fields, map[string]string{"email": "not-an-email"})

	assert.False(t, res.OK())
	assert.False(t, called, "lookup must not run on malformed values")
}

// TestEvaluate_Revalidation: a sanitized resubmission validates the same way
// the original submission did.
func TestEvaluate_Revalidation(t *testing.T) {
	fields := []Field{
		{Name: "make", Required: true, RequiredMessage: "make required"},
		{Name: "year", Int: true, IntMin: 1900, IntMax: 2100, IntMessage: "bad year"},
	}
	raw := map[string]string{"make": "  Ford & Co  ", "year": "1999"}

	first := Evaluate(context.Background(), fields, raw)
	require.True(t, first.OK())

	second := Evaluate(context.Background(), fields, first.Sanitized())
	assert.True(t, second.OK())
	assert.Equal(t, first.Field("make"), second.Field("make"))
	assert.Equal(t, first.Int("year"), second.Int("year"))
}
