package validator

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"homecare/pkg/logger"
	"homecare/pkg/model"
)

var hhmmRegex = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

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

type ScheduleValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewScheduleValidator(log *logger.Logger) *ScheduleValidator {
	v := validator.New()

	if err := v.RegisterValidation("hhmm_or_empty", validateHHMMOrEmpty); err != nil {
		log.Fatal("Failed to register 'hhmm_or_empty' validator", "error", err)
	}

	return &ScheduleValidator{
		validate: v,
		logger:   log,
	}
}

func validateHHMMOrEmpty(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	return s == "" || hhmmRegex.MatchString(s)
}

// Validate checks a fully resolved schedule: all seven weekdays present
// exactly once, windows either empty on both sides or well-formed with
// start before end.
func (v *ScheduleValidator) Validate(schedule *model.WorkSchedule) error {
	if err := v.validate.Struct(schedule); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return translateValidationErrors(validationErrs)
		}
		return err
	}

	return validateDayCoverage(schedule.Days)
}

func validateDayCoverage(days []model.DayWindow) error {
	seen := make(map[string]bool, len(model.Weekdays))
	var errs ValidationErrors

	for _, day := range days {
		if seen[day.Day] {
			errs = append(errs, ValidationError{
				Field:   "Days",
				Message: fmt.Sprintf("day %s appears more than once", day.Day),
			})
			continue
		}
		seen[day.Day] = true

		if (day.StartTime == "") != (day.EndTime == "") {
			errs = append(errs, ValidationError{
				Field:   day.Day,
				Message: "start_time and end_time must both be set or both be empty",
			})
			continue
		}
		if day.Working() && day.StartTime >= day.EndTime {
			errs = append(errs, ValidationError{
				Field:   day.Day,
				Message: "start_time must be before end_time",
			})
		}
	}

	for _, name := range model.Weekdays {
		if !seen[name] {
			errs = append(errs, ValidationError{
				Field:   "Days",
				Message: fmt.Sprintf("day %s is missing", name),
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ValidateInput checks the raw update payload before defaults are resolved.
func (v *ScheduleValidator) ValidateInput(inputs []model.DayWindowInput) error {
	var errs ValidationErrors

	if len(inputs) != len(model.Weekdays) {
		return ValidationErrors{
			ValidationError{
				Field:   "days",
				Message: fmt.Sprintf("exactly %d day entries are required, got %d", len(model.Weekdays), len(inputs)),
			},
		}
	}

	for _, in := range inputs {
		if err := v.validate.Struct(in); err != nil {
			var validationErrs validator.ValidationErrors
			if errors.As(err, &validationErrs) {
				errs = append(errs, translateValidationErrors(validationErrs)...)
				continue
			}
			return err
		}

		if in.StartTime != nil && *in.StartTime != "" && !hhmmRegex.MatchString(*in.StartTime) {
			errs = append(errs, ValidationError{
				Field:   in.Day,
				Message: "start_time must be in HH:MM format or empty",
			})
		}
		if in.EndTime != nil && *in.EndTime != "" && !hhmmRegex.MatchString(*in.EndTime) {
			errs = append(errs, ValidationError{
				Field:   in.Day,
				Message: "end_time must be in HH:MM format or empty",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "len":
			message = fmt.Sprintf("%s must have exactly %s entries", err.Field(), err.Param())
		case "mongodb":
			message = fmt.Sprintf("%s must be a valid MongoDB ObjectID", err.Field())
		case "oneof":
			message = fmt.Sprintf("%s must be one of: %s", err.Field(), err.Param())
		case "hhmm_or_empty":
			message = fmt.Sprintf("%s must be in HH:MM format or empty", err.Field())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
