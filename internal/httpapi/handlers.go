package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/dotchase/dot-chase-backend/internal/arena"
)

func Index(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("Multiplayer Dot Chase Server"))
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// State exposes the current world snapshot for debugging and monitoring.
// It reads through the arena loop, so it never races a mutation.
func State(a *arena.Arena) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reply := make(chan arena.View, 1)
		a.Inbox() <- arena.GetState{Reply: reply}

		select {
		case view := <-reply:
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(view.State)
		case <-r.Context().Done():
			http.Error(w, "request cancelled", http.StatusServiceUnavailable)
		}
	}
}
