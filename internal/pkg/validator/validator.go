package validator

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()

	// Use JSON tag names in error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	registerCustomValidations()
}

func registerCustomValidations() {
	// Service category validation
	validate.RegisterValidation("service_category", func(fl validator.FieldLevel) bool {
		category := fl.Field().String()
		validCategories := []string{"photographer", "videographer"}
		for _, c := range validCategories {
			if category == c {
				return true
			}
		}
		return false
	})

	// Time slot validation
	validate.RegisterValidation("time_slot", func(fl validator.FieldLevel) bool {
		slot := fl.Field().String()
		validSlots := []string{"morning", "afternoon", "fullday"}
		for _, s := range validSlots {
			if slot == s {
				return true
			}
		}
		return false
	})

	// Calendar date key validation ("YYYY-MM-DD")
	validate.RegisterValidation("date_key", func(fl validator.FieldLevel) bool {
		key := fl.Field().String()
		if len(key) != 10 || key[4] != '-' || key[7] != '-' {
			return false
		}
		for i, ch := range key {
			if i == 4 || i == 7 {
				continue
			}
			if ch < '0' || ch > '9' {
				return false
			}
		}
		return true
	})
}

// Validate validates a struct and returns a map of field errors
func Validate(s interface{}) map[string]string {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	errors := make(map[string]string)
	for _, err := range err.(validator.ValidationErrors) {
		field := err.Field()
		switch err.Tag() {
		case "required":
			errors[field] = "This field is required"
		case "email":
			errors[field] = "Invalid email format"
		case "min":
			errors[field] = "Value is too short (min: " + err.Param() + ")"
		case "max":
			errors[field] = "Value is too long (max: " + err.Param() + ")"
		case "service_category":
			errors[field] = "Invalid service. Must be: photographer or videographer"
		case "time_slot":
			errors[field] = "Invalid slot. Must be: morning, afternoon or fullday"
		case "date_key":
			errors[field] = "Invalid date. Must be YYYY-MM-DD"
		default:
			errors[field] = "Invalid value"
		}
	}

	return errors
}

// ValidateVar validates a single variable
func ValidateVar(field interface{}, tag string) error {
	return validate.Var(field, tag)
}
