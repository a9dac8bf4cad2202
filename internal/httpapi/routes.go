package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/dotchase/dot-chase-backend/internal/arena"
	"github.com/dotchase/dot-chase-backend/internal/ws"
)

func SetupRoutes(a *arena.Arena, log *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Get("/", Index)
	r.Get("/healthz", Healthz)
	r.Get("/state", State(a))
	r.Get("/ws", ws.Handler(a, log))
	return r
}
