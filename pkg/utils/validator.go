package utils

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	validate *validator.Validate

	phonePattern = regexp.MustCompile(`^[0-9]{10}$`)
	emailPattern = regexp.MustCompile(`^[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}$`)
)

// ReportStatuses are the values accepted by the report_status tag.
var ReportStatuses = []string{"Lost", "Found", "Returned"}

func init() {
	validate = validator.New()

	if err := validate.RegisterValidation("phone10", validatePhone); err != nil {
		panic(err)
	}
	if err := validate.RegisterValidation("report_status", validateReportStatus); err != nil {
		panic(err)
	}
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

// ValidationMessage turns validator errors into one human-readable line.
func ValidationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "invalid input"
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := lowerFirst(fe.Field())
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", field))
		case "email":
			msgs = append(msgs, fmt.Sprintf("%s must be a valid email", field))
		case "phone10":
			msgs = append(msgs, fmt.Sprintf("%s must be exactly 10 digits", field))
		case "report_status":
			msgs = append(msgs, fmt.Sprintf("%s must be one of %s", field, strings.Join(ReportStatuses, ", ")))
		case "min":
			msgs = append(msgs, fmt.Sprintf("%s must be at least %s characters", field, fe.Param()))
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s must be at most %s characters", field, fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid", field))
		}
	}

	return strings.Join(msgs, "; ")
}

func IsValidEmail(email string) bool {
	return emailPattern.MatchString(strings.TrimSpace(strings.ToLower(email)))
}

func IsValidPhone(phone string) bool {
	return phonePattern.MatchString(phone)
}

func IsValidReportStatus(status string) bool {
	for _, s := range ReportStatuses {
		if s == status {
			return true
		}
	}
	return false
}

func validatePhone(fl validator.FieldLevel) bool {
	return IsValidPhone(fl.Field().String())
}

func validateReportStatus(fl validator.FieldLevel) bool {
	return IsValidReportStatus(fl.Field().String())
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
