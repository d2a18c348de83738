// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	isoDateRegex = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	panRegex     = regexp.MustCompile(`^\d{13,19}$`)
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("iso_date", validateISODate)
		_ = v.RegisterValidation("pan", validatePAN)
		_ = v.RegisterValidation("deal_type", validateDealType)
		_ = v.RegisterValidation("billing_cycle", validateBillingCycle)
	}
}

func validateISODate(fl validator.FieldLevel) bool {
	return isoDateRegex.MatchString(fl.Field().String())
}

func validatePAN(fl validator.FieldLevel) bool {
	return panRegex.MatchString(fl.Field().String())
}

func validateDealType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "welcome", "perk", "category":
		return true
	}
	return false
}

func validateBillingCycle(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "monthly", "yearly":
		return true
	}
	return false
}
