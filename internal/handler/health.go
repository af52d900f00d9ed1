package handler

import (
	"encoding/json"
	"net/http"
)

// HandleHealthz reports liveness for load balancers and uptime checks.
// GET /healthz
// Response: 200 {"status":"ok","service":"bis-arena"}
func HandleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "ok",
		"service": "bis-arena",
	})
}
