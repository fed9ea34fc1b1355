package model

import (
	"encoding/json"
)

// LiquidationOutcome is the audit record written once per executed
// liquidation. On a failed submission the TransactionHash field carries the
// descriptive failure text instead of a hash; the line shape stays the same
// either way so the trail stays greppable.
type LiquidationOutcome struct {
	CurrentDate      string `json:"currentDate"`
	TokenID          string `json:"tokenId"`
	Percent          int    `json:"percent"`
	BeforeEthBalance string `json:"beforeEthBalance"`
	AfterEthBalance  string `json:"afterEthBalance"`
	Symbol0          string `json:"symbol0"`
	Symbol1          string `json:"symbol1"`
	Fee0             string `json:"fee0"`
	Fee1             string `json:"fee1"`
	TransactionHash  string `json:"transactionHash"`
}

// MarshalJSON ensures the outcome is encoded with stable field names.
func (o LiquidationOutcome) MarshalJSON() ([]byte, error) {
	type Alias LiquidationOutcome
	return json.Marshal(Alias(o))
}

// UnmarshalJSON decodes an outcome from JSON.
func (o *LiquidationOutcome) UnmarshalJSON(data []byte) error {
	type Alias LiquidationOutcome
	var a Alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*o = LiquidationOutcome(a)
	return nil
}
