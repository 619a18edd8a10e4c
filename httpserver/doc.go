// Package httpserver implements the runner's HTTP surface: the stateless
// runner endpoint, the persistent app routes, the management API, and the
// admin link-generator page.
//
// The package is a collaborator of the core codec and signer packages: it
// hands them content strings and payloads and maps their typed failures onto
// HTTP responses. All resolution failures produce the same generic "invalid
// or corrupted link" response regardless of which verification stage failed;
// the distinction is only logged.
package httpserver
