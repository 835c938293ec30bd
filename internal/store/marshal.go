package store

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/roach88/schemabind/internal/canon"
)

// timeLayout keeps fractional seconds so that lexical order of the stored
// text is chronological order.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func marshalTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func unmarshalTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("unmarshal time: %w", err)
	}
	return t, nil
}

// marshalLabels serializes labels to canonical JSON so identical label sets
// are stored as identical text.
func marshalLabels(labels map[string]string) (string, error) {
	if labels == nil {
		return "{}", nil
	}
	data, err := canon.Marshal(labels)
	if err != nil {
		return "", fmt.Errorf("marshal labels: %w", err)
	}
	return string(data), nil
}

func unmarshalLabels(data string) (map[string]string, error) {
	labels := map[string]string{}
	if err := json.Unmarshal([]byte(data), &labels); err != nil {
		return nil, fmt.Errorf("unmarshal labels: %w", err)
	}
	return labels, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
