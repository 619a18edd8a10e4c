package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/mtlminiapps/runner/core/logger"
	"github.com/mtlminiapps/runner/storage/pg"
)

type saveAppRequest struct {
	Key  string `json:"key"`
	Slug string `json:"slug"`
	HTML string `json:"html"`

	// OwnerID lets the admin create or update an app on behalf of another
	// user. Ignored for non-admin callers.
	OwnerID int64 `json:"owner_id,omitempty"`
}

type appSummary struct {
	Slug      string `json:"slug"`
	UpdatedAt string `json:"updated_at"`
}

// targetUser resolves which user's apps an authenticated request operates
// on. Admins may redirect the operation with target_user_id (query) or an
// explicit owner id; everyone else acts on their own account.
func (s *Service) targetUser(r *http.Request, caller *pg.User, ownerID int64) int64 {
	if !s.isAdmin(caller) {
		return caller.ID
	}
	if ownerID > 0 {
		return ownerID
	}
	if raw := r.URL.Query().Get("target_user_id"); raw != "" {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil && id > 0 {
			return id
		}
	}
	return caller.ID
}

// authenticate resolves the API key from a JSON body field or query
// parameter, writing the error response itself on failure.
func (s *Service) authenticate(w http.ResponseWriter, r *http.Request, key string) *pg.User {
	user, err := s.userForKey(r.Context(), key)
	if err != nil {
		if errors.Is(err, ErrInvalidAPIKey) {
			respondError(w, http.StatusForbidden, "invalid api key")
		} else {
			s.log.ErrorContext(r.Context(), "key lookup", logger.Error(err))
			respondError(w, http.StatusInternalServerError, "internal error")
		}
		return nil
	}
	return user
}

// handleSaveApp creates or updates a persistent app.
func (s *Service) handleSaveApp(w http.ResponseWriter, r *http.Request) {
	var req saveAppRequest
	if err := decodeJSON(r, &req); err != nil {
		respondDecodeError(w, err)
		return
	}

	caller := s.authenticate(w, r, req.Key)
	if caller == nil {
		return
	}

	if !validSlug(req.Slug) {
		respondError(w, http.StatusBadRequest, "invalid slug")
		return
	}
	if req.HTML == "" {
		respondError(w, http.StatusBadRequest, "html is required")
		return
	}

	userID := s.targetUser(r, caller, req.OwnerID)
	if err := s.store.SaveApp(r.Context(), userID, req.Slug, req.HTML); err != nil {
		s.log.ErrorContext(r.Context(), "save app", logger.Error(err), logger.UserID(userID))
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "ok", "slug": req.Slug})
}

// handleListApps lists the caller's apps (or the target user's, for admin).
func (s *Service) handleListApps(w http.ResponseWriter, r *http.Request) {
	caller := s.authenticate(w, r, r.URL.Query().Get("key"))
	if caller == nil {
		return
	}

	userID := s.targetUser(r, caller, 0)
	apps, err := s.store.ListApps(r.Context(), userID)
	if err != nil {
		s.log.ErrorContext(r.Context(), "list apps", logger.Error(err), logger.UserID(userID))
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	summaries := make([]appSummary, 0, len(apps))
	for _, a := range apps {
		summaries = append(summaries, appSummary{
			Slug:      a.Slug,
			UpdatedAt: a.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}
	respondJSON(w, http.StatusOK, summaries)
}

// handleGetApp returns one app including its content.
func (s *Service) handleGetApp(w http.ResponseWriter, r *http.Request) {
	caller := s.authenticate(w, r, r.URL.Query().Get("key"))
	if caller == nil {
		return
	}

	slug := r.PathValue("slug")
	if !validSlug(slug) {
		respondError(w, http.StatusBadRequest, "invalid slug")
		return
	}

	userID := s.targetUser(r, caller, 0)
	app, err := s.store.GetApp(r.Context(), userID, slug)
	if err != nil {
		if errors.Is(err, pg.ErrAppNotFound) {
			respondError(w, http.StatusNotFound, "app not found")
			return
		}
		s.log.ErrorContext(r.Context(), "get app", logger.Error(err), logger.UserID(userID))
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	respondJSON(w, http.StatusOK, app)
}

type deleteAppRequest struct {
	Key string `json:"key"`
}

// handleDeleteApp removes one app.
func (s *Service) handleDeleteApp(w http.ResponseWriter, r *http.Request) {
	var req deleteAppRequest
	if err := decodeJSON(r, &req); err != nil {
		respondDecodeError(w, err)
		return
	}

	caller := s.authenticate(w, r, req.Key)
	if caller == nil {
		return
	}

	slug := r.PathValue("slug")
	if !validSlug(slug) {
		respondError(w, http.StatusBadRequest, "invalid slug")
		return
	}

	userID := s.targetUser(r, caller, 0)
	if err := s.store.DeleteApp(r.Context(), userID, slug); err != nil {
		if errors.Is(err, pg.ErrAppNotFound) {
			respondError(w, http.StatusNotFound, "app not found")
			return
		}
		s.log.ErrorContext(r.Context(), "delete app", logger.Error(err), logger.UserID(userID))
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted", "slug": slug})
}
