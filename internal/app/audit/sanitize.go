package audit

import (
	"strings"

	"github.com/VictorCainj/doc-forge-audit/internal/domain"
)

// RedactionMarker replaces the value of every sensitive field.
const RedactionMarker = "[REDACTED]"

// sensitiveKeys is the denylist of field names whose values must never be
// persisted or logged. Matching is case-insensitive on the key name.
var sensitiveKeys = []string{
	"password",
	"token",
	"secret",
	"key",
	"credential",
	"auth",
	"authorization",
	"apikey",
	"privatekey",
	"refreshtoken",
}

// Sanitize returns a copy of the given payload with every sensitive value
// replaced by the redaction marker. Nested maps and slices of maps are
// sanitized as well. Nil payloads pass through unchanged, the input is never
// mutated and the function is idempotent.
func Sanitize(payload domain.Payload) domain.Payload {
	if payload == nil {
		return nil
	}

	sanitized := make(domain.Payload, len(payload))
	for key, value := range payload {
		if isSensitiveKey(key) {
			sanitized[key] = RedactionMarker
			continue
		}
		sanitized[key] = sanitizeValue(value)
	}

	return sanitized
}

func sanitizeValue(value any) any {
	switch v := value.(type) {
	case domain.Payload:
		return Sanitize(v)
	case map[string]any:
		return map[string]any(Sanitize(v))
	case []any:
		sanitized := make([]any, len(v))
		for i, item := range v {
			sanitized[i] = sanitizeValue(item)
		}
		return sanitized
	default:
		return value
	}
}

func isSensitiveKey(key string) bool {
	lowerKey := strings.ToLower(key)
	for _, sensitive := range sensitiveKeys {
		if strings.Contains(lowerKey, sensitive) {
			return true
		}
	}
	return false
}
