// Package service implements owner-scoped record management on top of the
// repositories: validation, presence-based partial updates and the budget
// overlap guard.
package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/abhishek991-rag/PFM-Backend/internal/models"
	"github.com/abhishek991-rag/PFM-Backend/internal/report"
)

// validate is shared by every service. Field names in errors are the JSON
// names.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("expense_category", func(fl validator.FieldLevel) bool {
		return models.Category(fl.Field().String()).ValidForExpense()
	})
	_ = v.RegisterValidation("budget_category", func(fl validator.FieldLevel) bool {
		return models.Category(fl.Field().String()).ValidForBudget()
	})
	_ = v.RegisterValidation("frequency", func(fl validator.FieldLevel) bool {
		return models.Frequency(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("currency", func(fl validator.FieldLevel) bool {
		_, ok := models.SupportedCurrencies[fl.Field().String()]
		return ok
	})
	return v
}

// validateStruct runs the tag rules on s and reports the first failure as a
// *models.ValidationError.
func validateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return models.NewValidationError(fe.Field(), "%s", describe(fe))
	}
	return fmt.Errorf("failed to validate input: %w", err)
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return fmt.Sprintf("cannot be more than %s characters", fe.Param())
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "email":
		return "must be a valid email address"
	case "expense_category", "budget_category":
		return fmt.Sprintf("%q is not a valid category", fe.Value())
	case "frequency":
		return "must be one of daily, weekly, monthly, yearly"
	case "currency":
		return fmt.Sprintf("%q is not a supported currency", fe.Value())
	}
	return "is invalid"
}

func requirePositive(field string, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return models.NewValidationError(field, "must be greater than 0")
	}
	return nil
}

func requireDate(field string, d Date) error {
	if d.IsZero() {
		return models.NewValidationError(field, "is required")
	}
	return nil
}

// normalizeCategory maps any casing of a known category to its canonical
// form. Unknown values are left for the validator to reject.
func normalizeCategory(c models.Category) models.Category {
	if parsed, err := models.ParseCategory(string(c)); err == nil {
		return parsed
	}
	return c
}

// recurrence keeps freq only for recurring records.
func recurrence(recurring bool, freq *models.Frequency) *models.Frequency {
	if !recurring || freq == nil || *freq == "" {
		return nil
	}
	f := *freq
	return &f
}

func applyFrequency(o models.Optional[models.Frequency], dst **models.Frequency) {
	switch {
	case !o.Set:
	case o.Null:
		*dst = nil
	default:
		f := o.Value
		*dst = &f
	}
}

// Date is a calendar date in a request body. It accepts YYYY-MM-DD or
// RFC 3339 and is stored in UTC.
type Date struct {
	time.Time
}

// DateOf wraps t.
func DateOf(t time.Time) Date {
	return Date{Time: t}
}

// UnmarshalJSON parses a date string. An empty string is the zero date.
func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return models.NewValidationError("date", "must be a date string")
	}
	if strings.TrimSpace(s) == "" {
		d.Time = time.Time{}
		return nil
	}
	t, err := report.ParseDate(s)
	if err != nil {
		return models.NewValidationError("date", "%q is not a valid date", s)
	}
	d.Time = t
	return nil
}
