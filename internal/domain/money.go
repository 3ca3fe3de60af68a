package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Money is an amount in the backend's currency. The backend serialises
// decimal columns as strings ("120.00") and computed totals as numbers, so
// both forms are accepted.
type Money float64

func (m *Money) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*m = 0
		return nil
	}
	if data[0] == '"' {
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
		if text == "" {
			*m = 0
			return nil
		}
		parsed, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return fmt.Errorf("money: %w", err)
		}
		*m = Money(parsed)
		return nil
	}
	var parsed float64
	if err := json.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("money: %w", err)
	}
	*m = Money(parsed)
	return nil
}

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatFloat(float64(m), 'f', 2, 64)), nil
}
