package model

import (
	"encoding/json"
	"fmt"
)

// RangeStatus places a position's configured tick range relative to the
// pool's current tick. The set is closed; NoRange is the defined default
// when no comparison matches (boundary ticks land here).
type RangeStatus int

const (
	NoRange RangeStatus = iota
	BelowRange
	InRange
	AboveRange
)

func (s RangeStatus) String() string {
	switch s {
	case BelowRange:
		return "BELOW_RANGE"
	case InRange:
		return "IN_RANGE"
	case AboveRange:
		return "ABOVE_RANGE"
	default:
		return "NO_RANGE"
	}
}

// MarshalJSON encodes the status by name.
func (s RangeStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON decodes a status from its name.
func (s *RangeStatus) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	switch name {
	case "BELOW_RANGE":
		*s = BelowRange
	case "IN_RANGE":
		*s = InRange
	case "ABOVE_RANGE":
		*s = AboveRange
	case "NO_RANGE":
		*s = NoRange
	default:
		return fmt.Errorf("unknown range status %q", name)
	}
	return nil
}
