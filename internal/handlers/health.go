package handlers

import "net/http"

// Health reports process liveness only. No upstream call, no rate-limit
// interaction.
func Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
