package health

import (
	"encoding/json"
	"net/http"
)

// Checker reports whether the pricing engines are wired and usable.
type Checker interface {
	Ready() error
}

// Handler exposes HTTP handlers for health endpoints.
type Handler struct {
	Checker Checker
}

// Live reports liveness status.
func (h Handler) Live(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// Ready reports readiness based on engine wiring.
func (h Handler) Ready(w http.ResponseWriter, _ *http.Request) {
	status := "ok"
	code := http.StatusOK
	if h.Checker == nil {
		status = "checker not configured"
		code = http.StatusServiceUnavailable
	} else if err := h.Checker.Ready(); err != nil {
		status = err.Error()
		code = http.StatusServiceUnavailable
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"pricing": status})
}
