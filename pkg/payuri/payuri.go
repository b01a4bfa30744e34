// Package payuri builds Solana Pay payment request URIs.
// Format: solana:<recipient>?amount=<sol>&reference=<key>&label=...&message=...
package payuri

import (
	"fmt"
	"net/url"
	"strings"
)

const LamportsPerSol = 1_000_000_000

// Request describes a payment request to encode.
type Request struct {
	Recipient string
	// AmountLamports is converted to a decimal SOL amount in the URI.
	// Zero means no amount parameter (open-ended transfer).
	AmountLamports int64
	Reference      string
	Label          string
	Message        string
}

// Encode returns the payment request as a scannable URI string.
func (r Request) Encode() string {
	params := url.Values{}
	if r.AmountLamports > 0 {
		params.Set("amount", FormatSol(r.AmountLamports))
	}
	if r.Reference != "" {
		params.Set("reference", r.Reference)
	}
	if r.Label != "" {
		params.Set("label", r.Label)
	}
	if r.Message != "" {
		params.Set("message", r.Message)
	}

	if len(params) == 0 {
		return "solana:" + r.Recipient
	}
	return "solana:" + r.Recipient + "?" + params.Encode()
}

// FormatSol renders lamports as a decimal SOL string without float rounding,
// trimming trailing zeros ("1.5", not "1.500000000").
func FormatSol(lamports int64) string {
	whole := lamports / LamportsPerSol
	frac := lamports % LamportsPerSol
	if frac == 0 {
		return fmt.Sprintf("%d", whole)
	}
	s := fmt.Sprintf("%d.%09d", whole, frac)
	return strings.TrimRight(s, "0")
}
