package handler

import (
	"errors"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"dreambook/internal/dream"
	"dreambook/internal/http/respond"

	"go.uber.org/zap"
)

type dreamDTO struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Gender         string     `json:"gender"`
	MaritalStatus  string     `json:"maritalStatus"`
	Dream          string     `json:"dream"`
	IPAddress      string     `json:"ipAddress,omitempty"`
	SubmittedAt    time.Time  `json:"submittedAt"`
	Interpretation *string    `json:"interpretation,omitempty"`
	InterpretedAt  *time.Time `json:"interpretedAt,omitempty"`
	InterpretedBy  *string    `json:"interpretedBy,omitempty"`
	Status         string     `json:"status"`
	Tags           []string   `json:"tags"`
	IsPublic       bool       `json:"isPublic"`
}

func toDTO(d dream.Dream) dreamDTO {
	tags := []string(d.Tags)
	if tags == nil {
		tags = []string{}
	}
	return dreamDTO{
		ID:             d.ID.String(),
		Name:           d.Name,
		Gender:         string(d.Gender),
		MaritalStatus:  string(d.MaritalStatus),
		Dream:          d.Dream,
		IPAddress:      d.IPAddress,
		SubmittedAt:    d.SubmittedAt,
		Interpretation: d.Interpretation,
		InterpretedAt:  d.InterpretedAt,
		InterpretedBy:  d.InterpretedBy,
		Status:         string(d.Status),
		Tags:           tags,
		IsPublic:       d.IsPublic,
	}
}

// toPublicDTO leaves out the submitter's address.
func toPublicDTO(d dream.Dream) dreamDTO {
	out := toDTO(d)
	out.IPAddress = ""
	return out
}

func toDTOs(ds []dream.Dream, conv func(dream.Dream) dreamDTO) []dreamDTO {
	out := make([]dreamDTO, 0, len(ds))
	for _, d := range ds {
		out = append(out, conv(d))
	}
	return out
}

// writeErr maps service errors to status codes. Store failures are logged
// and answered with fallback only.
func writeErr(w http.ResponseWriter, log *zap.Logger, err error, fallback string) {
	var ve *dream.ValidationError
	switch {
	case errors.As(err, &ve):
		respond.Error(w, http.StatusBadRequest, ve.Error())
	case errors.Is(err, dream.ErrNotFound):
		respond.Error(w, http.StatusNotFound, "Dream not found")
	case errors.Is(err, dream.ErrRateLimited):
		respond.Error(w, http.StatusTooManyRequests, "Too many requests. Please wait before submitting another dream.")
	default:
		log.Error(fallback, zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, fallback)
	}
}

// clientIP expects chi's RealIP middleware to have resolved forwarding
// headers into RemoteAddr.
func clientIP(r *http.Request) string {
	addr := strings.TrimSpace(r.RemoteAddr)
	if addr == "" {
		return dream.UnknownIP
	}
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return addr
}

func queryInt(r *http.Request, key string) int {
	n, err := strconv.Atoi(strings.TrimSpace(r.URL.Query().Get(key)))
	if err != nil {
		return 0
	}
	return n
}
