package models

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/satheeshds/invoicing/money"
	"github.com/shopspring/decimal"
	"github.com/ttacon/libphonenumber"
)

// PhoneRegion is the region assumed for phone numbers written without a country code.
const PhoneRegion = "CN"

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// Decimals validate as their float value so gte/gt work on them.
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	_ = v.RegisterValidation("taxrate", func(fl validator.FieldLevel) bool {
		return money.IsSupportedTaxRate(decimal.NewFromFloat(fl.Field().Float()))
	})
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return validPhone(fl.Field().String())
	})
	return v
}

func validPhone(s string) bool {
	num, err := libphonenumber.Parse(s, PhoneRegion)
	if err != nil {
		return false
	}
	return libphonenumber.IsValidNumber(num)
}

// check runs struct validation and returns the first failure as a user-facing message,
// or "" when the input is valid.
func check(input any) string {
	err := validate.Struct(input)
	if err == nil {
		return ""
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err.Error()
	}
	return message(verrs[0])
}

func message(fe validator.FieldError) string {
	field := fe.Namespace()
	if i := strings.Index(field, "."); i >= 0 {
		field = field[i+1:]
	}
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "email":
		return field + " must be a valid email address"
	case "gte":
		return field + " must be non-negative"
	case "gt":
		return field + " must be greater than " + fe.Param()
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "taxrate":
		return field + " must be one of: 0, 0.01, 0.03, 0.06, 0.09, 0.13"
	case "phone":
		return field + " must be a valid phone number"
	case "uuid":
		return field + " must be a valid id"
	}
	return fmt.Sprintf("%s is invalid (%s)", field, fe.Tag())
}
