package utils

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// vnPhone matches a ten digit Vietnamese phone number starting with 0.
var vnPhone = regexp.MustCompile(`^0\d{9}$`)

// DateLayout is the layout of date-of-birth and other calendar fields.
const DateLayout = "2006-01-02"

// Validator validates request payloads. It satisfies echo.Validator so it can
// be installed on the server and used through c.Validate.
type Validator struct {
	v   *validator.Validate
	now func() time.Time
}

// NewValidator returns a validator with the custom tags used by the back
// office forms registered:
//
//	vnphone  – ten digits starting with 0.
//	pastdate – a YYYY-MM-DD date strictly before today.
func NewValidator() *Validator {
	val := &Validator{v: validator.New(), now: time.Now}
	val.v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	_ = val.v.RegisterValidation("vnphone", func(fl validator.FieldLevel) bool {
		return vnPhone.MatchString(fl.Field().String())
	})
	_ = val.v.RegisterValidation("pastdate", func(fl validator.FieldLevel) bool {
		d, err := time.Parse(DateLayout, fl.Field().String())
		if err != nil {
			return false
		}
		y, m, day := val.now().Date()
		today := time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
		return d.Before(today)
	})
	return val
}

// Validate checks struct tags on i.
func (val *Validator) Validate(i interface{}) error {
	return val.v.Struct(i)
}

// ValidationMessages flattens a validation error into field → message pairs
// suitable for a JSON response. It returns nil for errors that are not
// validation errors.
func ValidationMessages(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		out[fe.Field()] = fieldMessage(fe)
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "vnphone":
		return "must be 10 digits starting with 0"
	case "pastdate":
		return "must be a YYYY-MM-DD date in the past"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "datetime":
		return "must use the layout " + fe.Param()
	default:
		if fe.Param() != "" {
			return "failed " + fe.Tag() + "=" + fe.Param()
		}
		return "failed " + fe.Tag()
	}
}
