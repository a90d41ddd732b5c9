package catalog

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// RawInput is a submitted field map. Values are strings, string slices or
// []any of scalars, as produced by form and JSON decoding.
type RawInput map[string]any

var validate = validator.New()

var dateLayouts = []string{"2006-01-02", time.RFC3339}

// Same character set as validator.js escape().
var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	`"`, "&quot;",
	"'", "&#x27;",
	"<", "&lt;",
	">", "&gt;",
	"/", "&#x2F;",
	`\`, "&#x5C;",
	"`", "&#96;",
)

// Submission is the outcome of running RawInput through a Schema: sanitized
// values for every declared field plus the ordered field errors.
type Submission struct {
	values map[string][]string
	dates  map[string]*time.Time
	Errors ValidationErrors
}

func (s *Submission) Valid() bool {
	return len(s.Errors) == 0
}

// Text returns the sanitized value of a scalar field.
func (s *Submission) Text(name string) string {
	if v := s.values[name]; len(v) > 0 {
		return v[0]
	}
	return ""
}

// List returns the sanitized values of a multi-valued field, never nil.
func (s *Submission) List(name string) []string {
	out := make([]string, len(s.values[name]))
	copy(out, s.values[name])
	return out
}

// Date returns the parsed value of a date field, nil when empty or invalid.
func (s *Submission) Date(name string) *time.Time {
	return s.dates[name]
}

// Validate normalizes, checks and sanitizes raw against schema. Field errors
// are collected in schema order; the sanitized values are always populated so
// a rejected submission can be echoed back.
func Validate(schema Schema, raw RawInput) *Submission {
	sub := &Submission{
		values: make(map[string][]string, len(schema.Fields)),
		dates:  make(map[string]*time.Time),
	}

	for _, field := range schema.Fields {
		values := normalize(raw[field.Name], field.Multi)

		sanitized := make([]string, 0, len(values))
		for _, v := range values {
			trimmed := strings.TrimSpace(v)
			if err := checkField(field, trimmed); err != nil {
				err.Value = htmlEscaper.Replace(trimmed)
				sub.Errors = append(sub.Errors, *err)
			} else if field.Type == FieldDate && trimmed != "" {
				d, _ := parseDate(trimmed)
				sub.dates[field.Name] = &d
			}
			sanitized = append(sanitized, htmlEscaper.Replace(trimmed))
		}
		if field.Required && !field.Multi && len(values) == 0 {
			sub.Errors = append(sub.Errors, ValidationError{Field: field.Name, Message: field.Message})
		}
		sub.values[field.Name] = sanitized
	}

	return sub
}

// normalize coerces a raw value to a sequence. Scalars become one element;
// for multi-valued fields blank elements are dropped, for scalar fields only
// the first element is kept.
func normalize(raw any, multi bool) []string {
	var values []string
	switch v := raw.(type) {
	case nil:
	case []string:
		values = append(values, v...)
	case []any:
		for _, item := range v {
			values = append(values, scalarString(item))
		}
	default:
		values = []string{scalarString(v)}
	}

	if !multi {
		if len(values) > 1 {
			values = values[:1]
		}
		return values
	}

	out := make([]string, 0, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out
}

func scalarString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case json.Number:
		return s.String()
	default:
		return fmt.Sprint(s)
	}
}

func checkField(field FieldSpec, value string) *ValidationError {
	if field.Required || value != "" {
		if min := field.minLen(); min > 0 {
			if err := validate.Var(value, fmt.Sprintf("min=%d", min)); err != nil {
				return &ValidationError{Field: field.Name, Message: field.Message}
			}
		}
		// values are stored escaped, so the bound applies to the escaped form
		if field.MaxLen > 0 {
			if err := validate.Var(htmlEscaper.Replace(value), fmt.Sprintf("max=%d", field.MaxLen)); err != nil {
				return &ValidationError{
					Field:   field.Name,
					Message: fmt.Sprintf("%s must be at most %d characters.", field.Name, field.MaxLen),
				}
			}
		}
	}

	if value == "" {
		return nil
	}

	switch field.Type {
	case FieldDate:
		if _, err := parseDate(value); err != nil {
			return &ValidationError{Field: field.Name, Message: field.FormatMessage}
		}
	case FieldEnum:
		if err := validate.Var(value, "oneof="+strings.Join(field.Options, " ")); err != nil {
			return &ValidationError{Field: field.Name, Message: field.FormatMessage}
		}
	}
	return nil
}

func parseDate(value string) (time.Time, error) {
	var lastErr error
	for _, layout := range dateLayouts {
		d, err := time.Parse(layout, value)
		if err == nil {
			return d.UTC(), nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
