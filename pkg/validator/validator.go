package validator

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldError describes one failed rule.
type FieldError struct {
	FailedField string
	Tag         string
	Value       string
}

func (e *FieldError) String() string {
	if e.Value != "" {
		return fmt.Sprintf("%s failed %s=%s", e.FailedField, e.Tag, e.Value)
	}
	return fmt.Sprintf("%s failed %s", e.FailedField, e.Tag)
}

var (
	validate = validator.New()
	digits   = regexp.MustCompile(`^\d+$`)
)

func init() {
	// digits_only accepts an empty string; pair it with required when needed.
	_ = validate.RegisterValidation("digits_only", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s == "" || digits.MatchString(s)
	})
}

// ValidateStruct runs the struct tags and returns one entry per failed field.
func ValidateStruct(data interface{}) []*FieldError {
	var out []*FieldError
	err := validate.Struct(data)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []*FieldError{{FailedField: "body", Tag: "invalid"}}
	}
	for _, fe := range verrs {
		out = append(out, &FieldError{
			FailedField: fe.Field(),
			Tag:         fe.Tag(),
			Value:       fe.Param(),
		})
	}
	return out
}

// Message joins field errors into one client-facing line.
func Message(errs []*FieldError) string {
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		parts = append(parts, e.String())
	}
	return strings.Join(parts, "; ")
}
