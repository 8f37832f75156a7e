package handlers

import (
	"net/http"
)

// Health is a liveness probe. It does not look at configuration.
func (a *App) Health(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]bool{"ok": true})
}
