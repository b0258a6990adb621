package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"dreambook/internal/dream"
	"dreambook/internal/http/respond"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// AdminHandler serves the endpoints behind the admin gate.
type AdminHandler struct {
	Svc *dream.Service
	Log *zap.Logger
	// DefaultLimit is the page size when the caller sends none.
	DefaultLimit int
}

type listDTO struct {
	Dreams []dreamDTO    `json:"dreams"`
	Stats  *dream.Counts `json:"stats,omitempty"`
}

func (h *AdminHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	res, err := h.Svc.List(r.Context(), dream.ListInput{
		Page:          queryInt(r, "page"),
		Limit:         queryInt(r, "limit"),
		Gender:        q.Get("gender"),
		MaritalStatus: q.Get("maritalStatus"),
		Status:        q.Get("status"),
		Search:        q.Get("search"),
		SortBy:        q.Get("sortBy"),
		SortOrder:     q.Get("sortOrder"),
		IncludeStats:  q.Get("includeStats") == "true",
	}, h.DefaultLimit)
	if err != nil {
		writeErr(w, h.Log, err, "Failed to fetch dreams")
		return
	}

	respond.JSON(w, http.StatusOK, respond.Envelope{
		Success:    true,
		Data:       listDTO{Dreams: toDTOs(res.Dreams, toDTO), Stats: res.Stats},
		Pagination: &res.Pagination,
	})
}

func (h *AdminHandler) Get(w http.ResponseWriter, r *http.Request) {
	d, err := h.Svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, h.Log, err, "Failed to fetch dream")
		return
	}
	respond.OK(w, http.StatusOK, toDTO(d))
}

type interpretReq struct {
	ID             string   `json:"id"`
	Interpretation string   `json:"interpretation"`
	InterpretedBy  string   `json:"interpretedBy"`
	Tags           []string `json:"tags"`
	IsPublic       bool     `json:"isPublic"`
}

// Interpret takes the id from the path, or from the body on the legacy
// collection route.
func (h *AdminHandler) Interpret(w http.ResponseWriter, r *http.Request) {
	var req interpretReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		id = strings.TrimSpace(req.ID)
	}
	if id == "" {
		respond.Error(w, http.StatusBadRequest, "Dream ID is required")
		return
	}

	d, err := h.Svc.Interpret(r.Context(), dream.InterpretInput{
		ID:             id,
		Interpretation: req.Interpretation,
		InterpretedBy:  req.InterpretedBy,
		Tags:           req.Tags,
		IsPublic:       req.IsPublic,
	})
	if err != nil {
		writeErr(w, h.Log, err, "Failed to update dream interpretation")
		return
	}

	h.Log.Info("dream interpreted", zap.String("id", id))
	respond.OK(w, http.StatusOK, toDTO(d))
}

// Delete takes the id from the path, or from ?id= on the legacy collection
// route.
func (h *AdminHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		id = strings.TrimSpace(r.URL.Query().Get("id"))
	}
	if id == "" {
		respond.Error(w, http.StatusBadRequest, "Dream ID is required")
		return
	}

	if err := h.Svc.Delete(r.Context(), id); err != nil {
		writeErr(w, h.Log, err, "Failed to delete dream")
		return
	}

	h.Log.Info("dream deleted", zap.String("id", id))
	respond.JSON(w, http.StatusOK, respond.Envelope{Success: true})
}

func (h *AdminHandler) Archive(w http.ResponseWriter, r *http.Request) {
	d, err := h.Svc.Archive(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, h.Log, err, "Failed to archive dream")
		return
	}
	respond.OK(w, http.StatusOK, toDTO(d))
}

func (h *AdminHandler) TogglePublic(w http.ResponseWriter, r *http.Request) {
	d, err := h.Svc.TogglePublic(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, h.Log, err, "Failed to update dream")
		return
	}
	respond.OK(w, http.StatusOK, toDTO(d))
}

type tagsReq struct {
	Tags []string `json:"tags"`
}

func (h *AdminHandler) AddTags(w http.ResponseWriter, r *http.Request) {
	var req tagsReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	d, err := h.Svc.AddTags(r.Context(), chi.URLParam(r, "id"), req.Tags)
	if err != nil {
		writeErr(w, h.Log, err, "Failed to update dream")
		return
	}
	respond.OK(w, http.StatusOK, toDTO(d))
}

func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	c, err := h.Svc.Stats(r.Context())
	if err != nil {
		writeErr(w, h.Log, err, "Failed to fetch statistics")
		return
	}
	respond.OK(w, http.StatusOK, c)
}
