// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/go-board-sync/internal/logger"
	"github.com/MKhiriev/go-board-sync/internal/utils"
	"github.com/MKhiriev/go-board-sync/models"
)

// CheckHTTPMethod is registered as the router's MethodNotAllowed handler.
// A path that exists but does not accept the request method answers 404 with
// the usual JSON error body, so clients see one shape for unknown routes.
//
// Parameterised routes such as /api/cards/{id} are matched through
// [chi.Mux.Match], the same lookup the router itself uses.
func CheckHTTPMethod(router *chi.Mux) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if router.Match(chi.NewRouteContext(), r.Method, r.URL.Path) {
			router.ServeHTTP(w, r)
			return
		}

		log := logger.FromRequest(r)
		log.Debug().
			Str("func", "CheckHTTPMethod").
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("method not registered for route")

		utils.WriteJSON(w, models.ErrorResponse{Error: http.StatusText(http.StatusNotFound)}, http.StatusNotFound)
	}
}
