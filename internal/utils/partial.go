package utils

import (
	"reflect"
	"strings"
)

// ValidatePartial validates only the fields of the struct i whose JSON names
// are listed in keys. It is used for PATCH bodies, where absent fields keep
// their stored value and must not trip required rules.
func (val *Validator) ValidatePartial(i interface{}, keys []string) error {
	t := reflect.TypeOf(i)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return val.v.Struct(i)
	}
	want := make(map[string]bool, len(keys))
	for _, k := range keys {
		want[k] = true
	}
	var fields []string
	for n := 0; n < t.NumField(); n++ {
		f := t.Field(n)
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" {
			name = f.Name
		}
		if want[name] {
			fields = append(fields, f.Name)
		}
	}
	if len(fields) == 0 {
		return nil
	}
	return val.v.StructPartial(i, fields...)
}
