// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"eosoracle/internal/models"
)

// Register registers all custom validators with the Gin binding engine.
// Field errors are reported under their json (or form) name.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(fieldName)
		_ = v.RegisterValidation("security_type", validateSecurityType)
		_ = v.RegisterValidation("price", validatePrice)
	}
}

func fieldName(field reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name := strings.SplitN(field.Tag.Get(tag), ",", 2)[0]
		if name != "" && name != "-" {
			return name
		}
	}
	return field.Name
}

func validateSecurityType(fl validator.FieldLevel) bool {
	return models.SecurityType(fl.Field().String()).IsValid()
}

// validatePrice accepts non-negative decimal strings. Zero is a valid write.
func validatePrice(fl validator.FieldLevel) bool {
	d, err := decimal.NewFromString(fl.Field().String())
	if err != nil {
		return false
	}
	return !d.IsNegative()
}
