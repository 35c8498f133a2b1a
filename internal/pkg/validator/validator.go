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
	// Agent tier validation
	validate.RegisterValidation("tier", func(fl validator.FieldLevel) bool {
		tier := fl.Field().String()
		validTiers := []string{"free", "silver", "gold", "diamond"}
		for _, t := range validTiers {
			if tier == t {
				return true
			}
		}
		return false
	})

	// Payment currency validation
	validate.RegisterValidation("currency", func(fl validator.FieldLevel) bool {
		currency := fl.Field().String()
		validCurrencies := []string{"HSC", "HSD", "HSG", "LKR"}
		for _, c := range validCurrencies {
			if currency == c {
				return true
			}
		}
		return false
	})

	// Purchase type validation for discount quotes
	validate.RegisterValidation("purchase_type", func(fl validator.FieldLevel) bool {
		pt := fl.Field().String()
		validTypes := []string{"promo_purchase", "renewal", "advertisement", "booking"}
		for _, v := range validTypes {
			if pt == v {
				return true
			}
		}
		return false
	})

	// Earning source validation
	validate.RegisterValidation("earning_source", func(fl validator.FieldLevel) bool {
		src := fl.Field().String()
		validSources := []string{"referral", "monthly_ad", "daily_ad"}
		for _, s := range validSources {
			if src == s {
				return true
			}
		}
		return false
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
		case "gte":
			errors[field] = "Value must be at least " + err.Param()
		case "lte":
			errors[field] = "Value must be at most " + err.Param()
		case "gt":
			errors[field] = "Value must be greater than " + err.Param()
		case "tier":
			errors[field] = "Invalid tier. Must be: free, silver, gold, or diamond"
		case "currency":
			errors[field] = "Invalid currency. Must be: HSC, HSD, HSG, or LKR"
		case "purchase_type":
			errors[field] = "Invalid purchase type. Must be: promo_purchase, renewal, advertisement, or booking"
		case "earning_source":
			errors[field] = "Invalid earning source. Must be: referral, monthly_ad, or daily_ad"
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
