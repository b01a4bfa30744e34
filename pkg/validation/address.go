package validation

import (
	"fmt"

	"github.com/mr-tron/base58"
)

const (
	// PubkeyLength is the byte length of a Solana public key.
	PubkeyLength = 32

	// Base58 text of a 32-byte key is between 32 and 44 characters.
	minAddressLength = 32
	maxAddressLength = 44
)

// ValidateAddress validates a Solana address: base58 text decoding to exactly 32 bytes.
func ValidateAddress(addr string) error {
	if addr == "" {
		return fmt.Errorf("address cannot be empty")
	}

	if len(addr) < minAddressLength || len(addr) > maxAddressLength {
		return fmt.Errorf("invalid address length: expected %d-%d characters, got %d", minAddressLength, maxAddressLength, len(addr))
	}

	raw, err := base58.Decode(addr)
	if err != nil {
		return fmt.Errorf("invalid base58 address: %w", err)
	}

	if len(raw) != PubkeyLength {
		return fmt.Errorf("invalid address: expected %d bytes, got %d", PubkeyLength, len(raw))
	}

	return nil
}
