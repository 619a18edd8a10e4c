package signer

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"strings"

	"github.com/mtlminiapps/runner/core/codec"
)

// Separator joins the token and signature segments. It is absent from the
// URL-safe base64 alphabet, so splitting on its last occurrence is
// unambiguous.
const Separator = "."

// Authenticator signs tokens and verifies signed payloads under a single
// immutable secret key. It is stateless apart from the key and safe for
// concurrent use.
type Authenticator struct {
	key   []byte
	codec *codec.Codec
}

// New creates an Authenticator for the given key. The codec is used to
// reconstruct content after successful verification; pass codec.New() unless
// a custom size ceiling is needed.
func New(key []byte, c *codec.Codec) (*Authenticator, error) {
	if len(key) == 0 {
		return nil, ErrEmptyKey
	}
	if c == nil {
		c = codec.New()
	}
	// Copy so later mutation of the caller's slice cannot change what
	// signatures verify against.
	k := make([]byte, len(key))
	copy(k, key)

	return &Authenticator{key: k, codec: c}, nil
}

// Sign computes the HMAC-SHA256 tag over the token bytes and returns
// token + "." + base64url(tag). Deterministic for the same token and key.
func (a *Authenticator) Sign(token string) string {
	return token + Separator + a.tag(token)
}

// Verify splits the payload into token and signature, recomputes the expected
// tag, and compares in constant time. Returns the verified token.
func (a *Authenticator) Verify(payload string) (string, error) {
	idx := strings.LastIndex(payload, Separator)
	if idx <= 0 {
		// Covers both a missing separator and an empty token segment.
		return "", ErrMalformedPayload
	}
	token, sig := payload[:idx], payload[idx+1:]

	// Compare the encoded representations so malformed signature text takes
	// the same path as a wrong signature.
	expected := a.tag(token)
	if subtle.ConstantTimeCompare([]byte(sig), []byte(expected)) != 1 {
		return "", ErrSignatureInvalid
	}

	return token, nil
}

// VerifyAndDecode verifies the payload signature and, on success,
// reconstructs the original content. Codec errors are surfaced unchanged.
func (a *Authenticator) VerifyAndDecode(payload string) (string, error) {
	token, err := a.Verify(payload)
	if err != nil {
		return "", err
	}
	return a.codec.Decode(token)
}

// GenerateLink encodes content and signs the resulting token, producing a
// URL-embeddable payload.
func (a *Authenticator) GenerateLink(content string) string {
	return a.Sign(a.codec.Encode(content))
}

// ResolveLink verifies a payload and reconstructs its content. Alias for
// VerifyAndDecode named for the generation/resolution pair.
func (a *Authenticator) ResolveLink(payload string) (string, error) {
	return a.VerifyAndDecode(payload)
}

func (a *Authenticator) tag(token string) string {
	mac := hmac.New(sha256.New, a.key)
	mac.Write([]byte(token))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
