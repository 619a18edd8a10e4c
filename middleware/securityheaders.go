package middleware

import "net/http"

// SecurityHeadersConfig controls the security headers applied to responses.
type SecurityHeadersConfig struct {
	ContentTypeOptions      string
	FrameOptions            string
	ContentSecurityPolicy   string
	ReferrerPolicy          string
	StrictTransportSecurity string
}

// AdminSecurity locks down the management UI: same-origin only, inline
// script/style allowed because the admin form is a single self-contained
// page.
var AdminSecurity = SecurityHeadersConfig{
	ContentTypeOptions:    "nosniff",
	FrameOptions:          "DENY",
	ContentSecurityPolicy: "default-src 'self'; script-src 'self' 'unsafe-inline'; style-src 'self' 'unsafe-inline'; img-src 'self' data:",
	ReferrerPolicy:        "no-referrer",
}

// AppSecurity applies to executed user applications. Inline script and style
// are the whole point of the runner, so the policy only blocks framing by
// other origins and plugin content; everything else is left to the browser's
// own model.
var AppSecurity = SecurityHeadersConfig{
	ContentTypeOptions:    "nosniff",
	FrameOptions:          "SAMEORIGIN",
	ContentSecurityPolicy: "object-src 'none'; base-uri 'self'",
	ReferrerPolicy:        "strict-origin-when-cross-origin",
}

// SecurityHeaders applies the configured headers to every response. Empty
// fields are skipped so configs can selectively omit headers.
func SecurityHeaders(cfg SecurityHeadersConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			setIfPresent(h, "X-Content-Type-Options", cfg.ContentTypeOptions)
			setIfPresent(h, "X-Frame-Options", cfg.FrameOptions)
			setIfPresent(h, "Content-Security-Policy", cfg.ContentSecurityPolicy)
			setIfPresent(h, "Referrer-Policy", cfg.ReferrerPolicy)
			setIfPresent(h, "Strict-Transport-Security", cfg.StrictTransportSecurity)

			next.ServeHTTP(w, r)
		})
	}
}

func setIfPresent(h http.Header, key, value string) {
	if value != "" {
		h.Set(key, value)
	}
}
