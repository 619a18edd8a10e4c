package codec

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"
)

// DefaultMaxDecodedSize is the default decompressed-size ceiling (10 MiB).
const DefaultMaxDecodedSize = 10 << 20

// Codec converts between text content and URL-safe tokens. The zero value is
// not usable; construct with New. Codec is stateless and safe for concurrent
// use.
type Codec struct {
	maxDecodedSize int64
}

// Option configures a Codec.
type Option func(*Codec)

// WithMaxDecodedSize sets the decompressed-size ceiling in bytes. Values
// below one byte are ignored.
func WithMaxDecodedSize(n int64) Option {
	return func(c *Codec) {
		if n > 0 {
			c.maxDecodedSize = n
		}
	}
}

// New creates a Codec with the default size ceiling.
func New(opts ...Option) *Codec {
	c := &Codec{maxDecodedSize: DefaultMaxDecodedSize}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Encode compresses content at the maximum compression level and encodes the
// result with padding-free URL-safe base64. Deterministic: identical content
// always yields an identical token. Empty content yields a minimal valid
// token, not an error.
func (c *Codec) Encode(content string) string {
	var buf bytes.Buffer

	// Level is a compile-time constant within the valid range, and
	// bytes.Buffer writes cannot fail, so neither error path is reachable.
	zw, _ := zlib.NewWriterLevel(&buf, zlib.BestCompression)
	_, _ = zw.Write([]byte(content))
	_ = zw.Close()

	return base64.RawURLEncoding.EncodeToString(buf.Bytes())
}

// Decode reverses Encode: URL-safe base64 decode, then zlib decompress.
// The decompressed output is capped at the configured ceiling; streams that
// would exceed it are rejected with ErrContentTooLarge before the oversized
// output is materialized.
func (c *Codec) Decode(token string) (string, error) {
	compressed, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidEncoding, err)
	}

	zr, err := zlib.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrCorruptData, err)
	}
	defer zr.Close()

	// Read one byte past the ceiling to detect overflow without buffering
	// more than maxDecodedSize+1 bytes.
	content, err := io.ReadAll(io.LimitReader(zr, c.maxDecodedSize+1))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrCorruptData, err)
	}
	if int64(len(content)) > c.maxDecodedSize {
		return "", fmt.Errorf("%w: limit %d bytes", ErrContentTooLarge, c.maxDecodedSize)
	}

	return string(content), nil
}
