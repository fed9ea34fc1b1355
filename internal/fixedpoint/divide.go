// Package fixedpoint renders large on-chain integer amounts as exact decimal
// strings. Token amounts routinely exceed the float64 safe-integer range, so
// everything here stays in big.Int and truncates rather than rounds.
package fixedpoint

import (
	"fmt"
	"math/big"
	"strings"
)

// CodeDivisionByZero identifies a zero-divisor fault.
const CodeDivisionByZero = "division-by-zero"

// NumericError is a numeric fault carrying a stable fault code.
type NumericError struct {
	Code string
	Op   string
}

func (e *NumericError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Code)
}

// Divide computes numerator/divisor to precision decimal digits, truncating.
// Both operands are base-10 big-integer strings. The result always carries
// exactly precision fractional digits, zero-padded on the left.
func Divide(numerator, divisor string, precision int) (string, error) {
	if precision < 0 {
		return "", fmt.Errorf("precision must be non-negative, got %d", precision)
	}

	num, ok := new(big.Int).SetString(numerator, 10)
	if !ok {
		return "", fmt.Errorf("invalid numerator %q", numerator)
	}
	div, ok := new(big.Int).SetString(divisor, 10)
	if !ok {
		return "", fmt.Errorf("invalid divisor %q", divisor)
	}
	if div.Sign() == 0 {
		return "", &NumericError{Code: CodeDivisionByZero, Op: "divide"}
	}

	negative := (num.Sign() < 0) != (div.Sign() < 0) && num.Sign() != 0
	num.Abs(num)
	div.Abs(div)

	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(precision)), nil)
	quotient := new(big.Int).Quo(num.Mul(num, scale), div)

	digits := quotient.String()
	if precision == 0 {
		if negative {
			return "-" + digits, nil
		}
		return digits, nil
	}

	if len(digits) < precision {
		digits = strings.Repeat("0", precision-len(digits)) + digits
	}
	intPart := digits[:len(digits)-precision]
	if intPart == "" {
		intPart = "0"
	}
	fracPart := digits[len(digits)-precision:]

	result := intPart + "." + fracPart
	if negative {
		result = "-" + result
	}
	return result, nil
}

// FormatUnits renders value scaled down by 10^decimals, keeping decimals
// fractional digits. Used for token and native-currency balances.
func FormatUnits(value *big.Int, decimals uint8) (string, error) {
	if value == nil {
		return "", fmt.Errorf("nil value")
	}
	divisor := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	return Divide(value.String(), divisor.String(), int(decimals))
}

// ParseAmount parses a base-10 integer amount. Malformed input reports
// ok=false instead of an error; display-path callers treat it as absent.
func ParseAmount(s string) (*big.Int, bool) {
	value, ok := new(big.Int).SetString(strings.TrimSpace(s), 10)
	if !ok {
		return nil, false
	}
	return value, true
}
