package handler

import "net/http"

// HandleHealthz reports process liveness. It deliberately touches nothing
// beyond the response writer, so it stays up even when the database is not.
func HandleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
