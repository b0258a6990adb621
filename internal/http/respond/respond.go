package respond

import (
	"encoding/json"
	"net/http"

	"dreambook/internal/dream"
)

// Envelope is the shape of every JSON response.
type Envelope struct {
	Success    bool              `json:"success"`
	Data       any               `json:"data,omitempty"`
	Error      string            `json:"error,omitempty"`
	Pagination *dream.Pagination `json:"pagination,omitempty"`
}

func JSON(w http.ResponseWriter, status int, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(env)
}

func OK(w http.ResponseWriter, status int, data any) {
	JSON(w, status, Envelope{Success: true, Data: data})
}

func Error(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, Envelope{Success: false, Error: msg})
}

// Unauthorized is the deny handler for the admin gate.
func Unauthorized(w http.ResponseWriter, _ *http.Request) {
	Error(w, http.StatusUnauthorized, "Unauthorized access")
}
