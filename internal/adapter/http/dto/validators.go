package dto

import (
	"reflect"
	"regexp"
	"strings"

	"supplier-payout-gateway/internal/core/domain"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var (
	safeStringRe = regexp.MustCompile(`^[a-zA-Z0-9_\-\.]+$`)
	ifscRe       = regexp.MustCompile(`^[A-Za-z]{4}0[A-Za-z0-9]{6}$`)
)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("safe_id", validateSafeID)
		_ = v.RegisterValidation("ifsc", validateIFSC)
		_ = v.RegisterValidation("decimal_gt0", validateDecimalGT0)
	}
}

// validateSafeID allows alphanumeric, underscore, dash, and dot.
func validateSafeID(fl validator.FieldLevel) bool {
	return safeStringRe.MatchString(fl.Field().String())
}

// validateIFSC checks the 11 character bank branch code: four letters, a
// zero, then six letters or digits.
func validateIFSC(fl validator.FieldLevel) bool {
	return ifscRe.MatchString(strings.TrimSpace(fl.Field().String()))
}

// validateDecimalGT0 accepts a positive amount with at most two decimals.
func validateDecimalGT0(fl validator.FieldLevel) bool {
	d, err := decimal.NewFromString(strings.TrimSpace(fl.Field().String()))
	if err != nil {
		return false
	}
	return domain.ValidAmount(d)
}

// TrimStrings trims surrounding whitespace from every exported string field
// of a struct pointer, descending into nested structs.
func TrimStrings(v interface{}) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr || rv.Elem().Kind() != reflect.Struct {
		return
	}
	trimFields(rv.Elem())
}

func trimFields(rv reflect.Value) {
	for i := 0; i < rv.NumField(); i++ {
		f := rv.Field(i)
		if !f.CanSet() {
			continue
		}
		switch f.Kind() {
		case reflect.String:
			f.SetString(strings.TrimSpace(f.String()))
		case reflect.Struct:
			trimFields(f)
		case reflect.Ptr:
			if f.IsNil() {
				continue
			}
			if elem := f.Elem(); elem.Kind() == reflect.String {
				elem.SetString(strings.TrimSpace(elem.String()))
			}
		}
	}
}
