package utils

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseBigInt parses a base-10 integer string as returned by the Sui RPC for u64/u128 values.
func ParseBigInt(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("empty integer string")
	}
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("invalid integer string %q", s)
	}
	return v, nil
}

// ToDecimal scales a raw on-chain amount by 10^decimals.
// Example: amount=1234500000, decimals=9 => 1.2345
func ToDecimal(amount *big.Int, decimals uint8) decimal.Decimal {
	if amount == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(amount, -int32(decimals))
}

// FormatBigInt converts a raw amount to a human-readable string without trailing zeros.
func FormatBigInt(amount *big.Int, decimals uint8) string {
	return ToDecimal(amount, decimals).String()
}

// FormatFixed converts a raw amount to a string with exactly places decimal places.
func FormatFixed(amount *big.Int, decimals uint8, places int32) string {
	return ToDecimal(amount, decimals).StringFixed(places)
}
