package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldMessages maps JSON field names to the message shown on the contact form.
// Every rule on a field reports the same message.
var FieldMessages = map[string]string{
	"firstName": "First name is required",
	"lastName":  "Last name is required",
	"email":     "Valid email required",
	"phone":     "Phone must be text",
	"subject":   "Subject is required",
	"message":   "Message is required",
}

// FirstMessage returns the message for the first violation only.
func FirstMessage(err error) string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) || len(validationErrors) == 0 {
		return "Validation error"
	}
	return MessageFor(validationErrors[0].Field())
}

// MessageFor returns the user-facing message for a JSON field name
func MessageFor(field string) string {
	if msg, ok := FieldMessages[field]; ok {
		return msg
	}
	return fmt.Sprintf("%s is invalid", formatCamelCase(field))
}

// formatCamelCase converts camelCase to a capitalised, spaced label
func formatCamelCase(s string) string {
	var result strings.Builder
	for i, r := range s {
		if i == 0 {
			result.WriteString(strings.ToUpper(string(r)))
			continue
		}
		if r >= 'A' && r <= 'Z' {
			result.WriteRune(' ')
			r += 'a' - 'A'
		}
		result.WriteRune(r)
	}
	return result.String()
}

// FirstViolation validates s and returns the message of its earliest failing
// field in declaration order, or "" when nothing fails. Fields listed in
// mistyped had a JSON value of the wrong type and count as failing at their
// own position.
func FirstViolation(v *validator.Validate, s interface{}, mistyped ...string) string {
	first := ""
	if err := v.Struct(s); err != nil {
		var validationErrors validator.ValidationErrors
		if !errors.As(err, &validationErrors) || len(validationErrors) == 0 {
			return "Validation error"
		}
		first = validationErrors[0].Field()
	}

	if len(mistyped) > 0 {
		rank := make(map[string]int)
		for i, name := range JSONFields(s) {
			rank[name] = i
		}
		position := func(field string) int {
			if i, ok := rank[field]; ok {
				return i
			}
			return len(rank)
		}
		for _, field := range mistyped {
			if first == "" || position(field) < position(first) {
				first = field
			}
		}
	}

	if first == "" {
		return ""
	}
	return MessageFor(first)
}
