// Package signer binds URL-safe content tokens to a secret key with
// HMAC-SHA256 tags, producing tamper-evident payloads of the form:
//
//	<base64url-token>.<base64url-signature>
//
// A party without the key cannot produce a payload the verifier accepts, and
// any modification to a signed payload is detected. Tag comparison uses a
// constant-time check so verification latency leaks nothing about how many
// signature bytes matched.
//
// # Usage
//
//	key, generated, err := signer.LoadKey(os.Getenv("SECRET_KEY"))
//	if err != nil {
//		// Handle error
//	}
//	if generated {
//		// Links signed with a generated key become invalid on restart.
//	}
//
//	auth, err := signer.New(key, codec.New())
//	if err != nil {
//		// Handle error
//	}
//
//	payload := auth.GenerateLink("<h1>hi</h1>")
//
//	content, err := auth.ResolveLink(payload)
//	switch {
//	case errors.Is(err, signer.ErrMalformedPayload):
//		// missing separator or empty token segment
//	case errors.Is(err, signer.ErrSignatureInvalid):
//		// payload was tampered with or signed under a different key
//	}
//
// Codec errors after a valid signature are surfaced unchanged; they indicate
// a key shared across incompatible deployments or an encoding bug, not an
// attack, since the signature already covered the decoded bytes.
package signer
