package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"dreambook/internal/dream"
	"dreambook/internal/http/respond"

	"go.uber.org/zap"
)

// RetryHinter tells a limited client how long to wait.
type RetryHinter interface {
	RetryAfter(key string) time.Duration
}

// DreamHandler serves the public endpoints.
type DreamHandler struct {
	Svc *dream.Service
	Log *zap.Logger
	// RetryAfter, when set, fills the Retry-After header on 429.
	RetryAfter RetryHinter
}

// submitReq keeps fields raw so a wrong JSON type fails validation for that
// field instead of rejecting the whole body.
type submitReq struct {
	Name          json.RawMessage `json:"name"`
	Gender        json.RawMessage `json:"gender"`
	MaritalStatus json.RawMessage `json:"maritalStatus"`
	Dream         json.RawMessage `json:"dream"`
}

// jsonString is raw's string value, or "" for any other JSON type.
func jsonString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

func (h *DreamHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req submitReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ip := clientIP(r)
	d, err := h.Svc.Submit(r.Context(), dream.SubmitInput{
		Name:          jsonString(req.Name),
		Gender:        jsonString(req.Gender),
		MaritalStatus: jsonString(req.MaritalStatus),
		Dream:         jsonString(req.Dream),
		ClientIP:      ip,
	})
	if err != nil {
		if errors.Is(err, dream.ErrRateLimited) && h.RetryAfter != nil {
			secs := int(h.RetryAfter.RetryAfter(ip).Seconds()) + 1
			w.Header().Set("Retry-After", strconv.Itoa(secs))
		}
		writeErr(w, h.Log, err, "Failed to submit dream interpretation")
		return
	}

	h.Log.Info("dream submitted", zap.String("id", d.ID.String()))
	respond.OK(w, http.StatusCreated, toDTO(d))
}

func (h *DreamHandler) Public(w http.ResponseWriter, r *http.Request) {
	ds, err := h.Svc.Public(r.Context())
	if err != nil {
		writeErr(w, h.Log, err, "Failed to fetch public dreams")
		return
	}
	respond.OK(w, http.StatusOK, toDTOs(ds, toPublicDTO))
}
