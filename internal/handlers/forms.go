package handlers

import (
	"context"
	"errors"
	"math"
	"net/http"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/lgarzadev/dealercat/internal/repositories"
	"github.com/lgarzadev/dealercat/internal/validation"
)

var (
	emailPattern          = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	classificationPattern = regexp.MustCompile(`^[A-Za-z0-9]+$`)
)

const (
	emailExistsMessage     = "Email exists. Please log in or use different email"
	emailLookupFailMessage = "An unexpected error occurred while checking the email."
	weakPasswordMessage    = "Password does not meet requirements."
)

// formData collects the named POST fields into the raw map the validation
// engine consumes. Absent fields come through as empty strings.
func formData(r *http.Request, names ...string) map[string]string {
	_ = r.ParseForm()
	data := make(map[string]string, len(names))
	for _, name := range names {
		data[name] = r.PostFormValue(name)
	}
	return data
}

// strongPassword requires 12+ characters mixing lower, upper, digit, and
// symbol.
func strongPassword(value string) string {
	if len(value) < 12 {
		return weakPasswordMessage
	}
	var lower, upper, digit, symbol bool
	for _, r := range value {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		default:
			symbol = true
		}
	}
	if !lower || !upper || !digit || !symbol {
		return weakPasswordMessage
	}
	return ""
}

func registrationFields(accounts repositories.AccountRepository) []validation.Field {
	return []validation.Field{
		{
			Name:            "account_firstname",
			Required:        true,
			RequiredMessage: "Please provide a first name.",
		},
		{
			Name:            "account_lastname",
			Required:        true,
			RequiredMessage: "Please provide a last name.",
			MinLen:          2,
			MinLenMessage:   "Please provide a last name.",
		},
		{
			Name:            "account_email",
			Lower:           true,
			Required:        true,
			RequiredMessage: "A valid email is required.",
			Pattern:         emailPattern,
			PatternMessage:  "A valid email is required.",
			Lookup: func(ctx context.Context, value string, _ *validation.Result) (string, error) {
				exists, err := accounts.EmailExists(ctx, value)
				if err != nil {
					return "", err
				}
				if exists {
					return emailExistsMessage, nil
				}
				return "", nil
			},
			LookupFailureMessage: emailLookupFailMessage,
		},
		{
			Name:            "account_password",
			Secret:          true,
			Required:        true,
			RequiredMessage: weakPasswordMessage,
			Check:           strongPassword,
		},
	}
}

func loginFields() []validation.Field {
	return []validation.Field{
		{
			Name:            "account_email",
			Lower:           true,
			Required:        true,
			RequiredMessage: "A valid email is required.",
			Pattern:         emailPattern,
			PatternMessage:  "A valid email is required.",
		},
		{
			Name:            "account_password",
			Secret:          true,
			Required:        true,
			RequiredMessage: "Please provide a password.",
		},
	}
}

// updateAccountFields validates the profile form. The email uniqueness lookup
// reads the already-coerced account id from the Result so it can skip the
// check when the submitted email is the account's own current one.
func updateAccountFields(accounts repositories.AccountRepository) []validation.Field {
	return []validation.Field{
		{
			Name:            "account_firstname",
			Required:        true,
			RequiredMessage: "Please provide a first name.",
		},
		{
			Name:            "account_lastname",
			Required:        true,
			RequiredMessage: "Please provide a last name.",
			MinLen:          2,
			MinLenMessage:   "Please provide a last name.",
		},
		{
			Name:       "account_id",
			Int:        true,
			IntMin:     1,
			IntMax:     math.MaxInt32,
			IntMessage: "Account identifier is missing or invalid.",
		},
		{
			Name:            "account_email",
			Lower:           true,
			Required:        true,
			RequiredMessage: "A valid email is required.",
			Pattern:         emailPattern,
			PatternMessage:  "A valid email is required.",
			Lookup: func(ctx context.Context, value string, res *validation.Result) (string, error) {
				id := res.Int("account_id")
				if validation.IsNotANumber(id) {
					// The id already produced its own error.
					return "", nil
				}
				current, err := accounts.GetByID(ctx, int(id))
				if errors.Is(err, repositories.ErrNotFound) {
					return "Unable to locate the specified account.", nil
				}
				if err != nil {
					return "", err
				}
				if strings.EqualFold(current.Email, value) {
					return "", nil
				}
				exists, err := accounts.EmailExists(ctx, value)
				if err != nil {
					return "", err
				}
				if exists {
					return emailExistsMessage, nil
				}
				return "", nil
			},
			LookupFailureMessage: emailLookupFailMessage,
		},
	}
}

func passwordUpdateFields() []validation.Field {
	return []validation.Field{
		{
			Name:       "account_id",
			Int:        true,
			IntMin:     1,
			IntMax:     math.MaxInt32,
			IntMessage: "Account identifier is missing or invalid.",
		},
		{
			Name:            "account_password",
			Secret:          true,
			Required:        true,
			RequiredMessage: weakPasswordMessage,
			Check:           strongPassword,
		},
	}
}

func classificationFields() []validation.Field {
	return []validation.Field{
		{
			Name:            "classification_name",
			Required:        true,
			RequiredMessage: "Please provide a classification name.",
			Pattern:         classificationPattern,
			PatternMessage:  "Classification names must contain only letters and numbers (no spaces or symbols).",
		},
	}
}

func inventoryFields() []validation.Field {
	return []validation.Field{
		{
			Name:            "inv_make",
			Required:        true,
			RequiredMessage: "Please provide the vehicle make.",
		},
		{
			Name:            "inv_model",
			Required:        true,
			RequiredMessage: "Please provide the vehicle model.",
		},
		{
			Name:       "inv_year",
			Int:        true,
			IntMin:     1900,
			IntMax:     int64(time.Now().Year() + 1),
			IntMessage: "Please provide a valid model year.",
		},
		{
			Name:            "inv_description",
			Required:        true,
			RequiredMessage: "Please provide a description of at least 10 characters.",
			MinLen:          10,
			MinLenMessage:   "Please provide a description of at least 10 characters.",
		},
		{
			Name:            "inv_image",
			Required:        true,
			RequiredMessage: "Please provide an image path.",
		},
		{
			Name:            "inv_thumbnail",
			Required:        true,
			RequiredMessage: "Please provide a thumbnail image path.",
		},
		{
			Name:         "inv_price",
			Float:        true,
			GreaterThan:  0,
			FloatMessage: "Please provide a price greater than 0.",
		},
		{
			Name:       "inv_miles",
			Int:        true,
			IntMin:     0,
			IntMax:     math.MaxInt32,
			IntMessage: "Mileage must be a positive whole number.",
		},
		{
			Name:            "inv_color",
			Required:        true,
			RequiredMessage: "Please provide the exterior color.",
		},
		{
			Name:       "classification_id",
			Int:        true,
			IntMin:     1,
			IntMax:     math.MaxInt32,
			IntMessage: "Please choose a vehicle classification.",
		},
	}
}

func editInventoryFields() []validation.Field {
	return append([]validation.Field{
		{
			Name:       "inv_id",
			Int:        true,
			IntMin:     1,
			IntMax:     math.MaxInt32,
			IntMessage: "Vehicle identifier is missing or invalid.",
		},
	}, inventoryFields()...)
}

func reviewFields() []validation.Field {
	return []validation.Field{
		{
			Name:       "rating",
			Int:        true,
			IntMin:     1,
			IntMax:     5,
			IntMessage: "Please provide a rating between 1 and 5 stars.",
		},
		{
			Name:            "comment",
			StripTags:       true,
			Required:        true,
			RequiredMessage: "Please share a short comment about your experience.",
			MaxLen:          1000,
			MaxLenMessage:   "Comments must be 1,000 characters or fewer.",
		},
	}
}
