package httpserver

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/mtlminiapps/runner/core/logger"
	"github.com/mtlminiapps/runner/core/minify"
	"github.com/mtlminiapps/runner/core/signer"
	"github.com/mtlminiapps/runner/storage/pg"
)

type generateRequest struct {
	Key    string `json:"key"`
	Domain string `json:"domain"`
	HTML   string `json:"html"`
	Minify bool   `json:"minify"`
}

type generateResponse struct {
	URL     string `json:"url"`
	Payload string `json:"payload"`
	Bytes   int    `json:"bytes"`
}

// handleGenerate produces a signed runner link for the caller's key.
func (s *Service) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondDecodeError(w, err)
		return
	}

	user, err := s.userForKey(r.Context(), req.Key)
	if err != nil {
		if errors.Is(err, ErrInvalidAPIKey) {
			respondError(w, http.StatusForbidden, "invalid api key")
			return
		}
		s.log.ErrorContext(r.Context(), "key lookup", logger.Error(err))
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	if req.HTML == "" {
		respondError(w, http.StatusBadRequest, "html is required")
		return
	}

	content := req.HTML
	if req.Minify {
		content = minify.HTML(content)
	}

	// Sign with the caller's own key so the link attributes back to them.
	auth, err := signer.New([]byte(user.Key), s.codec)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	payload := auth.GenerateLink(content)

	domain := strings.TrimRight(req.Domain, "/")
	if domain == "" {
		domain = strings.TrimRight(s.cfg.Domain, "/")
	}
	url := fmt.Sprintf("%s/?p=%s", domain, payload)

	s.countView(r.Context(), user.ID, pg.MetricGenerated)

	respondJSON(w, http.StatusOK, generateResponse{
		URL:     url,
		Payload: payload,
		Bytes:   len(url),
	})
}

// qrSize is the pixel size of generated QR codes.
const qrSize = 256

// handleQR renders a QR code for a runner link so payloads can hop to a
// phone without retyping a multi-kilobyte URL.
func (s *Service) handleQR(w http.ResponseWriter, r *http.Request) {
	payload := r.URL.Query().Get("p")
	if payload == "" {
		respondError(w, http.StatusBadRequest, "missing payload")
		return
	}

	url := fmt.Sprintf("%s/?p=%s", strings.TrimRight(s.cfg.Domain, "/"), payload)

	png, err := qrcode.Encode(url, qrcode.Medium, qrSize)
	if err != nil {
		// Payloads beyond QR capacity land here; nothing actionable for us.
		respondError(w, http.StatusUnprocessableEntity, "payload too large for qr code")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(png)
}
