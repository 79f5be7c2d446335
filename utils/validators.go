package utils

import (
	"unicode"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// InitValidator registers custom rules on gin's binding validator.
func InitValidator() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("password", ValidatePasswordRule)
	}
}

func ValidatePasswordRule(fl validator.FieldLevel) bool {
	return ValidatePassword(fl.Field().String())
}

// ValidatePassword enforces the minimum the identity provider would reject
// anyway, so obviously weak passwords fail before the provider round trip:
// at least 6 characters with at least one number.
func ValidatePassword(password string) bool {
	if len(password) < 6 {
		return false
	}

	for _, char := range password {
		if unicode.IsNumber(char) {
			return true
		}
	}
	return false
}
