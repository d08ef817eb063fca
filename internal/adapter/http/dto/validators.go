package dto

import (
	"reflect"
	"regexp"
	"strings"

	"temple-receipt-service/internal/core/domain"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// e164ishRe accepts phone numbers loosely; the chat gateway adapter owns the
// strict normalisation to E.164.
var e164ishRe = regexp.MustCompile(`^\+?[0-9][0-9 \-().]{6,19}$`)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("e164ish", validateE164ish)
		_ = v.RegisterValidation("receipt_code", validateReceiptCode)
	}
}

// validateE164ish accepts digits with an optional + prefix and common
// separator characters.
func validateE164ish(fl validator.FieldLevel) bool {
	return e164ishRe.MatchString(fl.Field().String())
}

// validateReceiptCode matches the canonical PREFIX-DDMMYY-SEQ shape.
func validateReceiptCode(fl validator.FieldLevel) bool {
	return domain.ValidReceiptCode(fl.Field().String())
}

// SanitizeStruct trims whitespace from every exported string field of a
// struct pointer, descending into nested structs and struct pointers. Values
// land verbatim in chat messages and certificates, so no escaping is applied.
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
		case reflect.Struct:
			sanitizeFields(f)
		case reflect.Ptr:
			if f.IsNil() {
				continue
			}
			elem := f.Elem()
			switch elem.Kind() {
			case reflect.String:
				elem.SetString(strings.TrimSpace(elem.String()))
			case reflect.Struct:
				sanitizeFields(elem)
			}
		}
	}
}
