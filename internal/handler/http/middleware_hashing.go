package http

import (
	"bytes"
	"io"
	"net/http"

	"github.com/MKhiriev/go-board-sync/internal/logger"
	"github.com/MKhiriev/go-board-sync/internal/utils"
)

// verifyBodyHash checks the X-Body-Hash HMAC of the request body. It is a
// no-op when no hash key is configured.
func (h *Handler) verifyBodyHash(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.hashKey == "" {
			next.ServeHTTP(w, r)
			return
		}
		log := logger.FromRequest(r)

		log.Debug().Str("func", "*Handler.verifyBodyHash").Msg("checking hash begins")

		// read bytes from body
		body, err := io.ReadAll(r.Body)
		if err != nil {
			log.Err(err).Str("func", "*Handler.verifyBodyHash").Msg("failed to read request body")
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		// restore request body
		r.Body = io.NopCloser(bytes.NewReader(body))

		hashFromRequest := r.Header.Get(utils.BodyHashHeader)
		if !utils.VerifyBodyHash(body, h.hashKey, hashFromRequest) {
			log.Error().Str("func", "*Handler.verifyBodyHash").
				Str("hash from request", hashFromRequest).
				Int("body size", len(body)).
				Msg("hashes are not equal")
			writeErrorBody(w, ErrIntegrityCheckFailed.Error(), http.StatusBadRequest)
			return
		}

		next.ServeHTTP(w, r)
	})
}
