package signer

import "errors"

var (
	// ErrMalformedPayload indicates the payload lacks the token.signature
	// structure: no separator, or an empty token segment.
	ErrMalformedPayload = errors.New("malformed payload structure")

	// ErrSignatureInvalid indicates the signature does not match the token
	// under the configured key, i.e. tampering or a key mismatch.
	ErrSignatureInvalid = errors.New("signature verification failed")

	// ErrEmptyKey indicates an Authenticator was constructed without a key.
	ErrEmptyKey = errors.New("secret key must not be empty")
)
