package validation

import (
	"regexp"
	"strings"
)

type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

// First returns the violation for the first of the given fields that failed,
// formatted as "field: message". Map iteration order is random, so callers
// pass the order they validated in.
func (v Violations) First(fields ...string) string {
	for _, f := range fields {
		if msg, ok := v[f]; ok {
			return f + ": " + msg
		}
	}
	for f, msg := range v {
		return f + ": " + msg
	}
	return ""
}

var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Basic validators
func Required(field, value string, v Violations) {
	if strings.TrimSpace(value) == "" {
		v[field] = "required"
	}
}

// Email flags values that don't look like an address. Empty values are left
// to Required.
func Email(field, value string, v Violations) {
	if value != "" && !emailRe.MatchString(value) {
		v[field] = "invalid_email"
	}
}

func PositiveInt(field string, val int, v Violations) {
	if val <= 0 {
		v[field] = "must_be_positive"
	}
}

func MinInt(field string, val, minVal int, v Violations) {
	if val < minVal {
		v[field] = "below_minimum"
	}
}
