package signer_test

import (
	"crypto/rand"
	"encoding/base64"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtlminiapps/runner/core/codec"
	"github.com/mtlminiapps/runner/core/signer"
)

func newAuthenticator(t *testing.T, key string) *signer.Authenticator {
	t.Helper()
	auth, err := signer.New([]byte(key), codec.New())
	require.NoError(t, err)
	return auth
}

func TestNew_EmptyKey(t *testing.T) {
	t.Parallel()

	_, err := signer.New(nil, codec.New())
	assert.ErrorIs(t, err, signer.ErrEmptyKey)

	_, err = signer.New([]byte{}, nil)
	assert.ErrorIs(t, err, signer.ErrEmptyKey)
}

func TestAuthenticator_SignDeterministic(t *testing.T) {
	t.Parallel()

	auth := newAuthenticator(t, "test-key")

	token := codec.New().Encode("<h1>app</h1>")
	assert.Equal(t, auth.Sign(token), auth.Sign(token))
}

func TestAuthenticator_RoundTrip(t *testing.T) {
	t.Parallel()

	auth := newAuthenticator(t, "test-key")

	content := `<html><body><script>console.log("hi")</script></body></html>`
	payload := auth.GenerateLink(content)

	resolved, err := auth.ResolveLink(payload)
	require.NoError(t, err)
	assert.Equal(t, content, resolved)
}

func TestAuthenticator_TamperDetection(t *testing.T) {
	t.Parallel()

	auth := newAuthenticator(t, "test-key")
	payload := auth.GenerateLink("<h1>hi</h1>")

	// Flipping any single character anywhere in the payload must fail
	// verification, never decode successfully.
	for i := range len(payload) {
		flipped := payload[:i] + flip(payload[i]) + payload[i+1:]

		_, err := auth.ResolveLink(flipped)
		require.Error(t, err, "position %d", i)
		assert.NotErrorIs(t, err, codec.ErrCorruptData, "position %d must fail before decode", i)
	}
}

// flip replaces a character with a different one from the same URL-safe
// alphabet so the mutation cannot be caught by encoding validation alone.
func flip(b byte) string {
	if b == 'A' {
		return "B"
	}
	if b == signer.Separator[0] {
		return "_"
	}
	return "A"
}

func TestAuthenticator_KeyIndependence(t *testing.T) {
	t.Parallel()

	for range 20 {
		k1 := make([]byte, 32)
		k2 := make([]byte, 32)
		_, err := rand.Read(k1)
		require.NoError(t, err)
		_, err = rand.Read(k2)
		require.NoError(t, err)

		a1, err := signer.New(k1, nil)
		require.NoError(t, err)
		a2, err := signer.New(k2, nil)
		require.NoError(t, err)

		payload := a1.GenerateLink("<p>cross-key</p>")

		_, err = a2.ResolveLink(payload)
		assert.ErrorIs(t, err, signer.ErrSignatureInvalid)
	}
}

func TestAuthenticator_MalformedPayloads(t *testing.T) {
	t.Parallel()

	auth := newAuthenticator(t, "test-key")

	tests := []struct {
		name    string
		payload string
		want    error
	}{
		{"empty string", "", signer.ErrMalformedPayload},
		{"no separator", "abcdef123", signer.ErrMalformedPayload},
		{"separator only", ".", signer.ErrMalformedPayload},
		{"empty token segment", ".signature", signer.ErrMalformedPayload},
		{"empty signature segment", "token.", signer.ErrSignatureInvalid},
		{"garbage signature", "token.!!!not-base64!!!", signer.ErrSignatureInvalid},
		{"multiple separators", "a.b.c.d", signer.ErrSignatureInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := auth.ResolveLink(tt.payload)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestAuthenticator_RandomInputNeverPanics(t *testing.T) {
	t.Parallel()

	auth := newAuthenticator(t, "test-key")

	for range 200 {
		n := make([]byte, 64)
		_, err := rand.Read(n)
		require.NoError(t, err)

		// Errors only, never a panic or a successful decode.
		_, err = auth.ResolveLink(string(n))
		assert.Error(t, err)
	}
}

func TestAuthenticator_CodecErrorAfterValidSignature(t *testing.T) {
	t.Parallel()

	auth := newAuthenticator(t, "test-key")

	// A signature over non-zlib token bytes is valid HMAC-wise; the failure
	// must surface as a codec error, not an auth error.
	badToken := base64.RawURLEncoding.EncodeToString([]byte("not a zlib stream"))
	payload := auth.Sign(badToken)

	_, err := auth.ResolveLink(payload)
	assert.ErrorIs(t, err, codec.ErrCorruptData)
}

func TestAuthenticator_WireFormat(t *testing.T) {
	t.Parallel()

	auth := newAuthenticator(t, "k")
	payload := auth.GenerateLink("<h1>hi</h1>")

	parts := strings.Split(payload, ".")
	require.Len(t, parts, 2)

	urlSafe := regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
	assert.Regexp(t, urlSafe, parts[0])
	assert.Regexp(t, urlSafe, parts[1])

	// HMAC-SHA256 tag is 32 bytes, 43 characters in padding-free base64.
	assert.Len(t, parts[1], 43)

	sig, err := base64.RawURLEncoding.DecodeString(parts[1])
	require.NoError(t, err)
	assert.Len(t, sig, 32)

	resolved, err := auth.ResolveLink(payload)
	require.NoError(t, err)
	assert.Equal(t, "<h1>hi</h1>", resolved)

	// Same payload with the last character changed fails verification.
	tampered := payload[:len(payload)-1] + flip(payload[len(payload)-1])
	_, err = auth.ResolveLink(tampered)
	assert.ErrorIs(t, err, signer.ErrSignatureInvalid)
}

func TestLoadKey(t *testing.T) {
	t.Parallel()

	t.Run("configured key used verbatim", func(t *testing.T) {
		t.Parallel()

		key, generated, err := signer.LoadKey("my-secret")
		require.NoError(t, err)
		assert.False(t, generated)
		assert.Equal(t, []byte("my-secret"), key)
	})

	t.Run("absent key generates random", func(t *testing.T) {
		t.Parallel()

		k1, generated, err := signer.LoadKey("")
		require.NoError(t, err)
		assert.True(t, generated)
		assert.NotEmpty(t, k1)

		// Generated keys are printable URL-safe text.
		_, err = base64.RawURLEncoding.DecodeString(string(k1))
		assert.NoError(t, err)

		k2, _, err := signer.LoadKey("")
		require.NoError(t, err)
		assert.NotEqual(t, k1, k2)
	})
}
