package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"relay/internal/domain"
)

// Remixer is the capability the remix endpoint needs from the service layer.
type Remixer interface {
	CheckConfigured() error
	Remix(ctx context.Context, req domain.RemixRequest) (*domain.RemixResult, error)
}

type App struct {
	Remixer Remixer
	Log     zerolog.Logger
}

func NewApp(remixer Remixer, log zerolog.Logger) *App {
	return &App{Remixer: remixer, Log: log}
}

type errorResponse struct {
	Detail string `json:"detail"`
}

// logger returns the request-scoped logger set by middleware.Logger, or the
// app logger when the handler is called directly.
func (a *App) logger(r *http.Request) *zerolog.Logger {
	if l := zerolog.Ctx(r.Context()); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return &a.Log
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, detail string) {
	a.json(w, code, errorResponse{Detail: detail})
}

// fail writes err with the status code matching its kind. Misconfiguration,
// provider failures and unclassified errors are all server errors.
func (a *App) fail(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	if errors.Is(err, domain.ErrInvalidInput) {
		code = http.StatusBadRequest
	}
	a.error(w, code, domain.Detail(err))
}
