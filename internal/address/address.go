// Package address validates user-supplied Ethereum addresses before they are
// sent anywhere. The check is deliberately shallow: prefix and length only, no
// hex-alphabet or checksum validation, matching what the scoring service
// itself accepts.
package address

import (
	"errors"
	"strings"
)

// Validation errors carry the exact text shown to the user.
var (
	ErrEmptyAddress     = errors.New("Please enter an Ethereum address")
	ErrMalformedAddress = errors.New("Invalid Ethereum address format")
)

// Validate trims raw and checks it looks like an Ethereum address: a "0x"
// prefix and exactly 42 characters including the prefix. On success the
// trimmed string is returned unchanged.
func Validate(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", ErrEmptyAddress
	}
	if !strings.HasPrefix(trimmed, "0x") || len(trimmed) != 42 {
		return "", ErrMalformedAddress
	}
	return trimmed, nil
}
