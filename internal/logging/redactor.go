package logging

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	redacted = "[REDACTED]"
	// maxValueLen bounds logged strings; buffer contents read from stdin
	// can be arbitrarily large.
	maxValueLen = 256
)

var keySeparators = regexp.MustCompile(`[^a-z0-9]+`)

// sensitiveWords mask a value when any separator-delimited segment of its
// key matches. Keystrokes sent to the editor are logged under "keys".
var sensitiveWords = map[string]struct{}{
	"secret": {}, "password": {}, "token": {}, "key": {}, "keys": {}, "auth": {}, "credential": {},
}

type redactor struct{}

func newRedactor() *redactor { return &redactor{} }

// redact returns a copy of the key-value pairs with sensitive values masked
// and long strings shortened.
func (r *redactor) redact(pairs []any) []any {
	if len(pairs) == 0 {
		return pairs
	}
	out := append([]any(nil), pairs...)
	for i := 0; i+1 < len(out); i += 2 {
		key, ok := out[i].(string)
		if !ok {
			continue
		}
		if r.isSensitive(key) {
			out[i+1] = redacted
			continue
		}
		if s, ok := out[i+1].(string); ok && len(s) > maxValueLen {
			out[i+1] = fmt.Sprintf("%s...(%d bytes)", s[:maxValueLen], len(s))
		}
	}
	return out
}

func (r *redactor) isSensitive(key string) bool {
	for _, segment := range keySeparators.Split(strings.ToLower(key), -1) {
		if _, ok := sensitiveWords[segment]; ok {
			return true
		}
	}
	return false
}
