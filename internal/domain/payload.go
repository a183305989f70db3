package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Payload is an opaque structured value attached to audit events and security
// alerts. The schema is documented per event/alert type but not statically
// enforced. It is stored as a JSON column.
type Payload map[string]any

// Value implements the driver.Valuer interface, payloads are serialized as JSON.
func (p Payload) Value() (driver.Value, error) {
	if p == nil {
		return nil, nil
	}

	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	return string(data), nil
}

// Scan implements the sql.Scanner interface.
func (p *Payload) Scan(value any) error {
	if value == nil {
		*p = nil
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported payload column type: %T", value)
	}

	if len(data) == 0 {
		*p = nil
		return nil
	}

	if err := json.Unmarshal(data, p); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	return nil
}

// Clone returns a shallow copy of the payload. Nested maps are shared.
func (p Payload) Clone() Payload {
	if p == nil {
		return nil
	}

	clone := make(Payload, len(p))
	for k, v := range p {
		clone[k] = v
	}
	return clone
}
