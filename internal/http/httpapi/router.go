package httpapi

import (
	stdhttp "net/http"

	"relay/internal/http/handlers"
	"relay/internal/middleware"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

func NewRouter(app *handlers.App, log zerolog.Logger) stdhttp.Handler {
	r := chi.NewRouter()
	r.Use(middleware.CORS())
	r.Use(middleware.RequestID, chimw.RealIP, middleware.Logger(log), chimw.Recoverer)

	r.Get("/health", app.Health)
	r.Post("/remix", app.Remix)

	r.Get("/openapi.json", app.OpenAPIJSON)
	r.Get("/docs", app.OpenAPIDocs)

	return r
}
