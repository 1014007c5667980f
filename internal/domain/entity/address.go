package entity

import (
	"fmt"
	"strings"
)

const addressHexLength = 64

// NormalizeAddress validates a Sui address and returns it in canonical form:
// lower case, 0x prefix, left padded to 32 bytes.
func NormalizeAddress(raw string) (string, error) {
	addr := strings.ToLower(strings.TrimSpace(raw))
	if !strings.HasPrefix(addr, "0x") {
		return "", fmt.Errorf("%w: address %q must start with 0x", ErrInvalidInput, raw)
	}
	digits := addr[2:]
	if len(digits) == 0 || len(digits) > addressHexLength {
		return "", fmt.Errorf("%w: address %q must have 1 to %d hex digits", ErrInvalidInput, raw, addressHexLength)
	}
	for _, r := range digits {
		if !(r >= '0' && r <= '9' || r >= 'a' && r <= 'f') {
			return "", fmt.Errorf("%w: address %q contains non-hex character %q", ErrInvalidInput, raw, r)
		}
	}
	return "0x" + strings.Repeat("0", addressHexLength-len(digits)) + digits, nil
}

// ShortAddress renders an address as 0x1234...abcd for logs.
func ShortAddress(addr string) string {
	if len(addr) <= 12 {
		return addr
	}
	return addr[:6] + "..." + addr[len(addr)-4:]
}
