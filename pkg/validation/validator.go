package validation

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
)

var (
	// validate is a singleton validator instance
	validate *validator.Validate

	// Bounds on graph queries served over HTTP
	MinYear = 1990
	MaxYear = 2100

	// period labels as they appear in artifact names
	periodPattern = regexp.MustCompile(`^(\d{4})(_(\d{4}))?$|^aggregate$`)
)

func init() {
	validate = validator.New()
}

// GraphRequest is a lookup of one assembled graph by drug and period label.
type GraphRequest struct {
	Drug   string `json:"drug" validate:"required,oneof=Cocaine Heroin Cannabis Amphetamine Ecstasy"`
	Period string `json:"period" validate:"required,max=16"`
}

// RunKeyRequest names one stored training run.
type RunKeyRequest struct {
	Drug   string `json:"drug" validate:"required,oneof=Cocaine Heroin Cannabis Amphetamine Ecstasy"`
	Period string `json:"period" validate:"required,max=16"`
	Model  string `json:"model" validate:"required,min=1,max=32"`
}

// Struct validates any value carrying validate tags.
func Struct(v any) error {
	if v == nil {
		return errors.New("value cannot be nil")
	}
	return formatValidationError(validate.Struct(v))
}

// ValidateGraphRequest validates a graph lookup
func ValidateGraphRequest(req *GraphRequest) error {
	if req == nil {
		return errors.New("graph request cannot be nil")
	}
	if err := validate.Struct(req); err != nil {
		return formatValidationError(err)
	}
	return ValidatePeriodLabel(req.Period)
}

// ValidateRunKeyRequest validates a run lookup
func ValidateRunKeyRequest(req *RunKeyRequest) error {
	if req == nil {
		return errors.New("run key request cannot be nil")
	}
	if err := validate.Struct(req); err != nil {
		return formatValidationError(err)
	}
	return ValidatePeriodLabel(req.Period)
}

// ValidatePeriodLabel accepts "2010", "2006_2017" or "aggregate".
func ValidatePeriodLabel(label string) error {
	m := periodPattern.FindStringSubmatch(label)
	if m == nil {
		return fmt.Errorf("period %q is invalid (want YYYY, YYYY_YYYY or aggregate)", label)
	}
	if m[1] == "" {
		return nil
	}
	start, end := atoi(m[1]), atoi(m[1])
	if m[3] != "" {
		end = atoi(m[3])
	}
	if err := ValidateYearRange(start, end); err != nil {
		return fmt.Errorf("period %q: %w", label, err)
	}
	return nil
}

// ValidateYearRange checks start <= end and that both lie in [MinYear, MaxYear].
func ValidateYearRange(start, end int) error {
	if start < MinYear || end > MaxYear {
		return fmt.Errorf("years must lie within [%d, %d], got %d..%d", MinYear, MaxYear, start, end)
	}
	if start > end {
		return fmt.Errorf("start year %d is after end year %d", start, end)
	}
	return nil
}

func atoi(s string) int {
	n := 0
	for _, c := range s {
		n = n*10 + int(c-'0')
	}
	return n
}

// formatValidationError converts validator errors to a more user-friendly format
func formatValidationError(err error) error {
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	for _, e := range validationErrs {
		field := e.Field()
		param := e.Param()

		switch e.Tag() {
		case "required":
			return fmt.Errorf("%s: field is required", field)
		case "min", "gte":
			return fmt.Errorf("%s: must be at least %s", field, param)
		case "max", "lte":
			return fmt.Errorf("%s: must not exceed %s", field, param)
		case "gt":
			return fmt.Errorf("%s: must be greater than %s", field, param)
		case "lt":
			return fmt.Errorf("%s: must be less than %s", field, param)
		case "oneof":
			return fmt.Errorf("%s: must be one of [%s]", field, param)
		default:
			return fmt.Errorf("%s: validation failed (%s)", field, e.Tag())
		}
	}

	return err
}
