// Package codec provides lossless, deterministic conversion between arbitrary
// text content and compact URL-safe tokens.
//
// Content is zlib-compressed at the maximum compression level and encoded
// with the padding-free URL-safe base64 alphabet, so the resulting token can
// be embedded directly in a URL query component without escaping. Encoding is
// deterministic: the same content always produces the same token, which makes
// signatures computed over tokens reproducible.
//
// # Usage
//
//	c := codec.New()
//
//	token := c.Encode("<h1>hi</h1>")
//
//	content, err := c.Decode(token)
//	switch {
//	case errors.Is(err, codec.ErrInvalidEncoding):
//		// token contains characters outside the URL-safe alphabet
//	case errors.Is(err, codec.ErrCorruptData):
//		// token is not a valid compressed stream
//	case errors.Is(err, codec.ErrContentTooLarge):
//		// decompressed output exceeds the configured ceiling
//	}
//
// Decoding input originates from untrusted URLs, so Decode enforces a
// decompressed-size ceiling (default 10 MiB, see WithMaxDecodedSize) and
// rejects oversized streams without materializing their output.
package codec
