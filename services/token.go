package services

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// trackingTokenBytes gives 128 bits of entropy, rendered as 32 hex chars.
const trackingTokenBytes = 16

// NewTrackingToken generates the opaque capability token embedded in a
// project's public tracking link. Knowledge of the token is the only thing
// granting access, so the token comes straight from the CSPRNG.
func NewTrackingToken() (string, error) {
	buf := make([]byte, trackingTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate tracking token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
