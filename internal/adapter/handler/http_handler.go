package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/logger"

	"github.com/rl1809/prize-roulette/internal/core/domain"
	"github.com/rl1809/prize-roulette/internal/core/service"
)

type HTTPHandler struct {
	roulette *service.RouletteService
}

type SpinHTTPRequest struct {
	ParticipantID string `json:"participant_id"`
}

type SpinHTTPResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Result  *SpinResult `json:"result,omitempty"`
}

type SpinResult struct {
	SpinID      string    `json:"spin_id"`
	Kind        string    `json:"kind"`
	Label       string    `json:"label"`
	Substituted bool      `json:"substituted"`
	SpunAt      time.Time `json:"spun_at"`
}

type PrizeView struct {
	Kind        string  `json:"kind"`
	Label       string  `json:"label"`
	Weight      int     `json:"weight"`
	Probability float64 `json:"probability"`
	Limited     bool    `json:"limited"`
	Remaining   int     `json:"remaining"`
	Fallback    bool    `json:"fallback"`
}

func NewHTTPHandler(roulette *service.RouletteService) *HTTPHandler {
	return &HTTPHandler{roulette: roulette}
}

// NewRouter registers the roulette endpoints on a chi router.
func NewRouter(h *HTTPHandler) http.Handler {
	r := chi.NewRouter()

	r.Get("/health", h.HealthCheck)
	r.Post("/api/spin", h.Spin)
	r.Get("/api/prizes", h.Prizes)
	r.Get("/api/prizes/{kind}", h.Prize)

	return r
}

func (h *HTTPHandler) Spin(w http.ResponseWriter, r *http.Request) {
	var req SpinHTTPRequest
	// an empty body is an anonymous spin
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, SpinHTTPResponse{
			Success: false,
			Message: "invalid request body",
		})
		return
	}

	result, err := h.roulette.Spin(r.Context(), req.ParticipantID)
	if err != nil {
		status, message := spinErrorStatus(err)
		if status == http.StatusInternalServerError || status == http.StatusServiceUnavailable {
			logger.Errorf("spin for %q failed: %v", req.ParticipantID, err)
		}
		writeJSON(w, status, SpinHTTPResponse{
			Success: false,
			Message: message,
		})
		return
	}

	writeJSON(w, http.StatusOK, SpinHTTPResponse{
		Success: true,
		Message: "spin completed",
		Result:  toSpinResult(result),
	})
}

func (h *HTTPHandler) Prizes(w http.ResponseWriter, r *http.Request) {
	prizes, err := h.roulette.Prizes(r.Context())
	if err != nil {
		logger.Errorf("list prizes failed: %v", err)
		status, message := spinErrorStatus(err)
		writeError(w, status, message)
		return
	}

	out := make([]PrizeView, 0, len(prizes))
	for _, p := range prizes {
		out = append(out, toPrizeResponse(p))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *HTTPHandler) Prize(w http.ResponseWriter, r *http.Request) {
	kind := chi.URLParam(r, "kind")

	prizes, err := h.roulette.Prizes(r.Context())
	if err != nil {
		logger.Errorf("list prizes failed: %v", err)
		status, message := spinErrorStatus(err)
		writeError(w, status, message)
		return
	}

	for _, p := range prizes {
		if string(p.Kind) == kind {
			writeJSON(w, http.StatusOK, toPrizeResponse(p))
			return
		}
	}
	writeError(w, http.StatusNotFound, "unknown prize")
}

func (h *HTTPHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func spinErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrAlreadySpun):
		return http.StatusConflict, "already spun"
	case errors.Is(err, service.ErrParticipantIDRequired):
		return http.StatusBadRequest, "participant_id is required"
	case errors.Is(err, service.ErrStockUnavailable):
		return http.StatusServiceUnavailable, "stock store unavailable"
	default:
		return http.StatusInternalServerError, "internal error"
	}
}

func toSpinResult(r domain.DrawResult) *SpinResult {
	return &SpinResult{
		SpinID:      r.SpinID,
		Kind:        string(r.Kind),
		Label:       r.Label,
		Substituted: r.Substituted,
		SpunAt:      r.SpunAt,
	}
}

func toPrizeResponse(p domain.PrizeStatus) PrizeView {
	return PrizeView{
		Kind:        string(p.Kind),
		Label:       p.Label,
		Weight:      p.BaseWeight,
		Probability: p.Probability,
		Limited:     p.Limited,
		Remaining:   p.Remaining,
		Fallback:    p.Fallback,
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Errorf("failed to encode JSON response: %v", err)
	}
}
