package catalog

import (
	"encoding/json"
	"fmt"
	"strings"
)

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// ParseStatus folds the spellings found in legacy records ("1", "ACTIVO",
// "true", ...) into a Status.
func ParseStatus(raw string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "active", "activo", "activa", "1", "true", "t", "a":
		return StatusActive, nil
	case "inactive", "inactivo", "inactiva", "0", "false", "f", "i":
		return StatusInactive, nil
	}
	return "", fmt.Errorf("unknown status %q", raw)
}

func (s Status) IsActive() bool {
	return s == StatusActive
}

// UnmarshalJSON accepts booleans as well as any spelling ParseStatus knows.
func (s *Status) UnmarshalJSON(data []byte) error {
	var flag bool
	if err := json.Unmarshal(data, &flag); err == nil {
		if flag {
			*s = StatusActive
		} else {
			*s = StatusInactive
		}
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		var n json.Number
		if numErr := json.Unmarshal(data, &n); numErr != nil {
			return err
		}
		raw = n.String()
	}
	parsed, err := ParseStatus(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
