// Package validate checks request structs against `validate` struct tags.
//
// Supported rules (comma-separated):
//
//	required     field must not be zero/empty (strings are trimmed first)
//	nullable     if empty, skip all remaining rules for this field
//	email        valid email address
//	phone        digits, spaces and + - ( ) only
//	min=N        string: min char length | number: min value
//	max=N        string: max char length | number: max value
//	gte=N        number >= N
//	lte=N        number <= N
//	dive         apply the rules after it to every slice element
//
// Example:
//
//	type RegisterInput struct {
//	    Name     string `json:"name"     validate:"required,max=100"`
//	    Email    string `json:"email"    validate:"required,email,max=255"`
//	    Phone    string `json:"phone"    validate:"nullable,phone,max=30"`
//	}
package validate

import (
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// FieldError is one failing rule.
type FieldError struct {
	Field   string
	Message string
}

// Struct validates every tagged field of v. Returns field → message; an empty
// map means v is valid.
func Struct(v any) map[string]string {
	errs := make(map[string]string)
	for _, fe := range check(v) {
		errs[fe.Field] = fe.Message
	}
	return errs
}

// First returns the message of the first failing field in declaration order,
// or "" when v is valid. The API reports one message per request.
func First(v any) string {
	if fes := check(v); len(fes) > 0 {
		return fes[0].Message
	}
	return ""
}

// HasErrors returns true when the errs map is non-empty.
func HasErrors(errs map[string]string) bool { return len(errs) > 0 }

func check(v any) []FieldError {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil
	}
	rt := rv.Type()

	var out []FieldError
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		tag := field.Tag.Get("validate")
		if tag == "" || !field.IsExported() {
			continue
		}

		name := jsonFieldName(field)
		if msg := applyRules(strings.Split(tag, ","), name, rv.Field(i)); msg != "" {
			out = append(out, FieldError{Field: name, Message: msg})
		}
	}
	return out
}

func applyRules(rules []string, name string, value reflect.Value) string {
	for value.Kind() == reflect.Ptr {
		if value.IsNil() {
			break
		}
		value = value.Elem()
	}

	if hasRule(rules, "nullable") && isEmpty(value) {
		return ""
	}

	for i, rule := range rules {
		rule = strings.TrimSpace(rule)
		switch rule {
		case "nullable", "":
			continue
		case "dive":
			if value.Kind() != reflect.Slice {
				return ""
			}
			for j := 0; j < value.Len(); j++ {
				if msg := applyRules(rules[i+1:], fmt.Sprintf("%s[%d]", name, j), value.Index(j)); msg != "" {
					return msg
				}
			}
			return ""
		}
		if msg := applyRule(rule, name, value); msg != "" {
			return msg
		}
	}
	return ""
}

func applyRule(rule, field string, v reflect.Value) string {
	key, param, _ := strings.Cut(rule, "=")

	switch key {
	case "required":
		if isEmpty(v) {
			return fmt.Sprintf("The %s field is required.", field)
		}
	case "email":
		if !emailRE.MatchString(strings.TrimSpace(asString(v))) {
			return fmt.Sprintf("The %s must be a valid email address.", field)
		}
	case "phone":
		if !phoneRE.MatchString(strings.TrimSpace(asString(v))) {
			return fmt.Sprintf("The %s must be a valid phone number.", field)
		}
	case "min":
		n := parseFloat(param)
		if isNumericKind(v) {
			if toFloat(v) < n {
				return fmt.Sprintf("The %s must be at least %s.", field, param)
			}
		} else if float64(utf8.RuneCountInString(asString(v))) < n {
			return fmt.Sprintf("The %s must be at least %s characters.", field, param)
		}
	case "max":
		n := parseFloat(param)
		if isNumericKind(v) {
			if toFloat(v) > n {
				return fmt.Sprintf("The %s must not be greater than %s.", field, param)
			}
		} else if float64(utf8.RuneCountInString(asString(v))) > n {
			return fmt.Sprintf("The %s must not exceed %s characters.", field, param)
		}
	case "gte":
		if toFloat(v) < parseFloat(param) {
			return fmt.Sprintf("The %s must be greater than or equal to %s.", field, param)
		}
	case "lte":
		if toFloat(v) > parseFloat(param) {
			return fmt.Sprintf("The %s must be less than or equal to %s.", field, param)
		}
	}

	return ""
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

var (
	emailRE = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	phoneRE = regexp.MustCompile(`^\+?[0-9 ()\-]{6,}$`)
)

func asString(v reflect.Value) string {
	if v.Kind() == reflect.String {
		return v.String()
	}
	if !v.IsValid() {
		return ""
	}
	return fmt.Sprintf("%v", v.Interface())
}

func isEmpty(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Invalid:
		return true
	case reflect.String:
		return strings.TrimSpace(v.String()) == ""
	case reflect.Slice, reflect.Map, reflect.Array:
		return v.Len() == 0
	case reflect.Ptr, reflect.Interface:
		return v.IsNil()
	case reflect.Bool:
		return false
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	}
	return false
}

func isNumericKind(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func toFloat(v reflect.Value) float64 {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(v.Uint())
	case reflect.Float32, reflect.Float64:
		return v.Float()
	}
	return parseFloat(asString(v))
}

func parseFloat(s string) float64 {
	f, _ := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return f
}

func jsonFieldName(f reflect.StructField) string {
	name := f.Tag.Get("json")
	if name == "" || name == "-" {
		return strings.ToLower(f.Name)
	}
	if idx := strings.Index(name, ","); idx != -1 {
		name = name[:idx]
	}
	return name
}

func hasRule(rules []string, target string) bool {
	for _, r := range rules {
		if strings.TrimSpace(r) == target {
			return true
		}
	}
	return false
}
