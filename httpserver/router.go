package httpserver

import (
	"net/http"

	"github.com/mtlminiapps/runner/middleware"
)

// Handler assembles the full HTTP surface with per-route security policies.
func (s *Service) Handler() http.Handler {
	appSec := middleware.SecurityHeaders(middleware.AppSecurity)
	adminSec := middleware.SecurityHeaders(middleware.AdminSecurity)

	mux := http.NewServeMux()

	// Executed applications: relaxed CSP, the content is the app.
	mux.Handle("GET /{$}", appSec(http.HandlerFunc(s.handleRun)))
	mux.Handle("GET /p/", appSec(http.HandlerFunc(s.handleUserApp)))

	// Management surface: locked-down CSP.
	mux.Handle("GET /admin", adminSec(http.HandlerFunc(s.handleAdmin)))

	mux.HandleFunc("POST /api/generate", s.handleGenerate)
	mux.HandleFunc("GET /api/qr", s.handleQR)

	mux.HandleFunc("POST /api/apps", s.handleSaveApp)
	mux.HandleFunc("GET /api/apps", s.handleListApps)
	mux.HandleFunc("GET /api/apps/{slug}", s.handleGetApp)
	mux.HandleFunc("DELETE /api/apps/{slug}", s.handleDeleteApp)

	mux.HandleFunc("POST /api/users", s.handleCreateUser)
	mux.HandleFunc("GET /api/users", s.handleListUsers)

	mux.HandleFunc("GET /health", s.handleHealth)

	// /p5/game style paths have a numeric suffix fused to the segment, which
	// ServeMux patterns cannot express; route them from the fallback.
	mux.Handle("/", appSec(http.HandlerFunc(s.handleUserApp)))

	var h http.Handler = mux
	h = middleware.Logging(s.log)(h)
	h = middleware.RequestID()(h)
	return h
}
