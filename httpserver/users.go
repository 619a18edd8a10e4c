package httpserver

import (
	"errors"
	"net/http"

	"github.com/mtlminiapps/runner/core/logger"
	"github.com/mtlminiapps/runner/storage/pg"
)

type createUserRequest struct {
	AdminKey string `json:"admin_key"`
	Key      string `json:"key"`
	Comment  string `json:"comment"`
}

// handleCreateUser registers a new user key. Admin only.
func (s *Service) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := decodeJSON(r, &req); err != nil {
		respondDecodeError(w, err)
		return
	}

	caller := s.authenticate(w, r, req.AdminKey)
	if caller == nil {
		return
	}
	if !s.isAdmin(caller) {
		respondError(w, http.StatusForbidden, "admin key required")
		return
	}

	if req.Key == "" {
		respondError(w, http.StatusBadRequest, "key is required")
		return
	}

	user, err := s.store.CreateUser(r.Context(), req.Key, req.Comment)
	if err != nil {
		if errors.Is(err, pg.ErrDuplicateKey) {
			respondError(w, http.StatusConflict, "key already exists")
			return
		}
		s.log.ErrorContext(r.Context(), "create user", logger.Error(err))
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	respondJSON(w, http.StatusOK, user)
}

// handleListUsers returns all users with usage stats. Admin only.
func (s *Service) handleListUsers(w http.ResponseWriter, r *http.Request) {
	caller := s.authenticate(w, r, r.URL.Query().Get("key"))
	if caller == nil {
		return
	}
	if !s.isAdmin(caller) {
		respondError(w, http.StatusForbidden, "admin key required")
		return
	}

	users, err := s.store.ListUsers(r.Context())
	if err != nil {
		s.log.ErrorContext(r.Context(), "list users", logger.Error(err))
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	respondJSON(w, http.StatusOK, users)
}
