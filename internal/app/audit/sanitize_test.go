package audit

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/VictorCainj/doc-forge-audit/internal/domain"
)

func TestSanitize_RedactsSensitiveFields(t *testing.T) {
	payload := domain.Payload{
		"password":      "hunter2",
		"apiKey":        "abc-123",
		"refreshToken":  "rt-456",
		"Authorization": "Bearer xyz",
		"username":      "alice",
		"count":         42,
	}

	sanitized := Sanitize(payload)

	assert.Equal(t, RedactionMarker, sanitized["password"])
	assert.Equal(t, RedactionMarker, sanitized["apiKey"])
	assert.Equal(t, RedactionMarker, sanitized["refreshToken"])
	assert.Equal(t, RedactionMarker, sanitized["Authorization"])
	assert.Equal(t, "alice", sanitized["username"])
	assert.Equal(t, 42, sanitized["count"])
}

func TestSanitize_MatchesSubstrings(t *testing.T) {
	payload := domain.Payload{
		"userPassword":  "x",
		"sessionTokens": "y",
		"SECRET_VALUE":  "z",
		"monkeyBars":    "safe?",
	}

	sanitized := Sanitize(payload)

	assert.Equal(t, RedactionMarker, sanitized["userPassword"])
	assert.Equal(t, RedactionMarker, sanitized["sessionTokens"])
	assert.Equal(t, RedactionMarker, sanitized["SECRET_VALUE"])
	// "monkeyBars" contains "key", substring matching redacts it too
	assert.Equal(t, RedactionMarker, sanitized["monkeyBars"])
}

func TestSanitize_RecursesIntoNestedStructures(t *testing.T) {
	payload := domain.Payload{
		"profile": map[string]any{
			"name":     "bob",
			"password": "nested",
		},
		"entries": []any{
			map[string]any{"token": "t1", "id": 1},
			"plain string",
		},
	}

	sanitized := Sanitize(payload)

	profile := sanitized["profile"].(map[string]any)
	assert.Equal(t, "bob", profile["name"])
	assert.Equal(t, RedactionMarker, profile["password"])

	entries := sanitized["entries"].([]any)
	first := entries[0].(map[string]any)
	assert.Equal(t, RedactionMarker, first["token"])
	assert.Equal(t, 1, first["id"])
	assert.Equal(t, "plain string", entries[1])
}

func TestSanitize_DoesNotMutateInput(t *testing.T) {
	payload := domain.Payload{
		"password": "original",
		"nested":   map[string]any{"secret": "inner"},
	}

	_ = Sanitize(payload)

	assert.Equal(t, "original", payload["password"])
	assert.Equal(t, "inner", payload["nested"].(map[string]any)["secret"])
}

func TestSanitize_Idempotent(t *testing.T) {
	payload := domain.Payload{
		"password": "x",
		"name":     "y",
	}

	once := Sanitize(payload)
	twice := Sanitize(once)

	assert.Equal(t, once, twice)
}

func TestSanitize_NilPassesThrough(t *testing.T) {
	assert.Nil(t, Sanitize(nil))
}
