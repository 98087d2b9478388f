package validator

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"eventstay/pkg/logger"
	"eventstay/pkg/model"

	"github.com/go-playground/validator/v10"
)

var (
	guestNameRegex = regexp.MustCompile(`^[\p{L}\p{M}][\p{L}\p{M} .'\-]*$`)
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

// Details renders the errors as field -> message for API responses.
func (v ValidationErrors) Details() map[string]any {
	details := make(map[string]any, len(v))
	for _, err := range v {
		details[err.Field] = err.Message
	}
	return details
}

type ReservationValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewReservationValidator(log *logger.Logger) *ReservationValidator {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	if err := v.RegisterValidation("guest_name", validateGuestName); err != nil {
		log.Fatal("Failed to register 'guest_name' validator",
			"error", err,
		)
	}

	log.Info("Reservation validator initialized successfully")

	return &ReservationValidator{
		validate: v,
		logger:   log,
	}
}

func validateGuestName(fl validator.FieldLevel) bool {
	return guestNameRegex.MatchString(fl.Field().String())
}

func (v *ReservationValidator) ValidateReservation(req *model.ReservationRequest) error {
	return v.check(req)
}

func (v *ReservationValidator) ValidateQuote(req *model.QuoteRequest) error {
	return v.check(req)
}

func (v *ReservationValidator) ValidateProperty(req *model.PropertyCreate) error {
	return v.check(req)
}

func (v *ReservationValidator) ValidateUnitsOverride(req *model.UnitsOverride) error {
	return v.check(req)
}

func (v *ReservationValidator) check(s any) error {
	if err := v.validate.Struct(s); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

func (v *ReservationValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
		case "oneof":
			message = fmt.Sprintf("%s must be one of: %s", err.Field(), err.Param())
		case "gtfield":
			message = fmt.Sprintf("%s must be after %s", err.Field(), jsonName(err.Param()))
		case "ltefield":
			message = fmt.Sprintf("%s must not exceed %s", err.Field(), jsonName(err.Param()))
		case "guest_name":
			message = fmt.Sprintf("%s may only contain letters, spaces, dots, apostrophes and hyphens", err.Field())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}

// jsonName maps the Go field names used as gtfield/ltefield params.
func jsonName(field string) string {
	switch field {
	case "CheckIn":
		return "check_in"
	case "TotalUnits":
		return "total_units"
	}
	return field
}
