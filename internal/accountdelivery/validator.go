package accountdelivery

import (
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/NarwhalsOrg/BankingApp/internal/domain"
)

// ValidAccountType validates whether the account type is supported.
var ValidAccountType validator.Func = func(fl validator.FieldLevel) bool {
	if t, ok := fl.Field().Interface().(string); ok {
		return domain.AccountType(t).IsValid()
	}

	return false
}

// ValidAmount validates that the field is a positive decimal string with at
// most two fractional digits.
var ValidAmount validator.Func = func(fl validator.FieldLevel) bool {
	s, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}

	amount, err := decimal.NewFromString(s)
	if err != nil {
		return false
	}

	return amount.IsPositive() && amount.Exponent() >= -2
}
