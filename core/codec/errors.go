package codec

import "errors"

// Sentinel errors for programmatic handling. Callers can use errors.Is to
// distinguish malformed input (ErrInvalidEncoding, ErrCorruptData) from the
// resource guard (ErrContentTooLarge).
var (
	// ErrInvalidEncoding indicates the token contains characters outside the
	// URL-safe base64 alphabet.
	ErrInvalidEncoding = errors.New("token is not valid url-safe base64")

	// ErrCorruptData indicates the decoded bytes are not a valid zlib stream,
	// typically a truncated or corrupted token.
	ErrCorruptData = errors.New("corrupt compressed data")

	// ErrContentTooLarge indicates the decompressed output would exceed the
	// configured ceiling. This guards against decompression bombs.
	ErrContentTooLarge = errors.New("decompressed content exceeds size limit")
)
