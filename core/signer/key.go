package signer

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// generatedKeyBytes is the entropy of a generated key before encoding.
const generatedKeyBytes = 32

// LoadKey resolves the process-wide secret key. A non-empty configured value
// is used as-is; otherwise a fresh random key is generated and the second
// return value is true so the caller can log that previously issued links
// will not survive a restart.
//
// Generated keys are returned as URL-safe base64 text bytes so they can be
// displayed and re-supplied via SECRET_KEY verbatim.
func LoadKey(configured string) ([]byte, bool, error) {
	if configured != "" {
		return []byte(configured), false, nil
	}

	raw := make([]byte, generatedKeyBytes)
	if _, err := rand.Read(raw); err != nil {
		return nil, false, fmt.Errorf("generate secret key: %w", err)
	}

	return []byte(base64.RawURLEncoding.EncodeToString(raw)), true, nil
}
