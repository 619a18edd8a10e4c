package httpserver

import (
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"

	"github.com/zeebo/xxh3"

	"github.com/mtlminiapps/runner/core/logger"
	"github.com/mtlminiapps/runner/storage/pg"
)

// handleRun serves the stateless runner. The signed payload arrives in the
// "p" query parameter; the legacy "d"/"s" pair (token and signature as
// separate parameters) is accepted and joined into the canonical form.
// Without parameters it renders the landing page.
func (s *Service) handleRun(w http.ResponseWriter, r *http.Request) {
	payload := r.URL.Query().Get("p")
	if payload == "" {
		if d, sig := r.URL.Query().Get("d"), r.URL.Query().Get("s"); d != "" && sig != "" {
			payload = d + "." + sig
		}
	}

	if payload == "" {
		s.handleHome(w, r)
		return
	}

	content, ownerID, err := s.resolvePayload(r.Context(), payload)
	if err != nil {
		// Log the real failure kind; the client sees only the generic body.
		s.log.InfoContext(r.Context(), "link resolution failed", logger.Error(err))
		invalidLink(w)
		return
	}

	s.countView(r.Context(), ownerID, pg.MetricViewStateless)

	// Payloads are immutable: identical payload, identical content. A strong
	// ETag lets browsers revalidate without re-verifying on our side.
	etag := fmt.Sprintf(`"%x"`, xxh3.HashString(payload))
	w.Header().Set("ETag", etag)
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	serveApp(w, content)
}

// handleHome renders the landing page.
func (s *Service) handleHome(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplates.ExecuteTemplate(w, "home.html", nil); err != nil {
		s.log.Error("render home page", logger.Error(err))
	}
}

// handleAdmin renders the link-generator form.
func (s *Service) handleAdmin(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplates.ExecuteTemplate(w, "admin.html", adminPageData{Domain: s.cfg.Domain}); err != nil {
		s.log.Error("render admin page", logger.Error(err))
	}
}

// userAppPath matches /p<uid>/<slug> where a missing uid means the admin
// account, mirroring the original routing scheme (/p/game, /p5/game).
var userAppPath = regexp.MustCompile(`^/p(\d*)/([^/]+)$`)

// handleUserApp serves persistent apps addressed by owner and slug.
func (s *Service) handleUserApp(w http.ResponseWriter, r *http.Request) {
	m := userAppPath.FindStringSubmatch(r.URL.Path)
	if m == nil {
		http.NotFound(w, r)
		return
	}

	userID := s.adminID
	if m[1] != "" {
		id, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			http.NotFound(w, r)
			return
		}
		userID = id
	}

	slug := m[2]
	if !validSlug(slug) {
		http.NotFound(w, r)
		return
	}

	app, err := s.store.GetApp(r.Context(), userID, slug)
	if err != nil {
		if errors.Is(err, pg.ErrAppNotFound) {
			http.NotFound(w, r)
			return
		}
		s.log.ErrorContext(r.Context(), "get app", logger.Error(err), logger.UserID(userID))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	s.countView(r.Context(), userID, pg.MetricViewPersistent)
	serveApp(w, app.HTMLContent)
}

// serveApp writes application HTML for execution in the browser.
func serveApp(w http.ResponseWriter, content string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(content))
}
