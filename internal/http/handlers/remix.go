package handlers

import (
	"errors"
	"io"
	"net/http"

	"relay/internal/domain"
)

// maxRemixBodyBytes caps the JSON body; the image itself is fetched by URL.
const maxRemixBodyBytes = 64 << 10

// Remix handles POST /remix. The credential check runs before the body is
// read so that a misconfigured server answers 500 for every request.
func (a *App) Remix(w http.ResponseWriter, r *http.Request) {
	log := a.logger(r)
	if err := a.Remixer.CheckConfigured(); err != nil {
		log.Error().Err(err).Msg("remix rejected: server misconfigured")
		a.fail(w, err)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRemixBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			a.error(w, http.StatusBadRequest, "request body too large")
			return
		}
		a.error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req, err := domain.DecodeRemixRequest(body)
	if err != nil {
		a.fail(w, err)
		return
	}

	res, err := a.Remixer.Remix(r.Context(), req)
	if err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, res)
}
