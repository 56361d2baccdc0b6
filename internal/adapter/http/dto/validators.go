package dto

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	ifscRe    = regexp.MustCompile(`^[A-Z]{4}0[A-Z0-9]{6}$`)
	inPhoneRe = regexp.MustCompile(`^[6-9][0-9]{9}$`)
)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("ifsc", validateIFSC)
		_ = v.RegisterValidation("in_phone", validateIndianPhone)
	}
}

// validateIFSC checks the RBI IFSC format: four letters, a literal zero,
// six alphanumerics. Lowercase input is accepted and uppercased later.
func validateIFSC(fl validator.FieldLevel) bool {
	return ifscRe.MatchString(strings.ToUpper(fl.Field().String()))
}

// validateIndianPhone checks a 10-digit Indian mobile number.
func validateIndianPhone(fl validator.FieldLevel) bool {
	return inPhoneRe.MatchString(fl.Field().String())
}

// SanitizeStruct trims whitespace on every exported string field
// (including *string) of a struct pointer. Values are not escaped:
// payout fields feed the gateway signature byte for byte, so any
// rewriting here would break it.
func SanitizeStruct(v interface{}) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr || rv.Elem().Kind() != reflect.Struct {
		return
	}
	sanitizeFields(rv.Elem())
}

func sanitizeFields(rv reflect.Value) {
	for i := 0; i < rv.NumField(); i++ {
		f := rv.Field(i)
		if !f.CanSet() {
			continue
		}
		switch f.Kind() {
		case reflect.String:
			f.SetString(strings.TrimSpace(f.String()))
		case reflect.Ptr:
			if f.IsNil() {
				continue
			}
			elem := f.Elem()
			if elem.Kind() == reflect.String {
				elem.SetString(strings.TrimSpace(elem.String()))
			}
		}
	}
}
