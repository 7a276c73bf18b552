package validator

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

var hhmmPattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

// EchoValidator adapts go-playground/validator to echo.Validator.
type EchoValidator struct {
	validate *validator.Validate
}

func New() *EchoValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	// "hhmm" accepts 24h wall-clock strings such as "09:00" or "17:30".
	_ = v.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
		return hhmmPattern.MatchString(fl.Field().String())
	})
	return &EchoValidator{validate: v}
}

func (v *EchoValidator) Validate(i any) error {
	return v.validate.Struct(i)
}
