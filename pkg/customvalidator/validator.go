package customvalidator

import (
	"regexp"

	"github.com/go-playground/validator/v10"

	"callcenter-crm/pkg/constants"
)

// RegisterCustomValidations registers all custom validation rules
// on the given validator instance.
func RegisterCustomValidations(v *validator.Validate) error {
	if err := v.RegisterValidation("outcome_status", isOutcomeStatus); err != nil {
		return err
	}
	if err := v.RegisterValidation("cz_phone", isCzechPhoneNumber); err != nil {
		return err
	}
	return nil
}

func isOutcomeStatus(fl validator.FieldLevel) bool {
	return constants.IsOutcomeStatus(fl.Field().String())
}

func isCzechPhoneNumber(fl validator.FieldLevel) bool {
	re := regexp.MustCompile(`^(\+420)?\d{9}$`)
	return re.MatchString(fl.Field().String())
}
