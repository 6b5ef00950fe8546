package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/go-board-sync/internal/app"
	"github.com/MKhiriev/go-board-sync/internal/logger"
	"github.com/MKhiriev/go-board-sync/internal/utils"
	"github.com/MKhiriev/go-board-sync/models"
)

const (
	kindList = models.KindList
	kindCard = models.KindCard
)

func (h *Handler) createEntity(kind models.EntityKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)

		var entity models.Entity
		if err := utils.ReadJSON(r, &entity); err != nil {
			log.Err(err).Str("func", "*Handler.createEntity").Msg("Invalid JSON was passed")
			writeErrorBody(w, "Invalid JSON was passed", http.StatusBadRequest)
			return
		}
		entity.Kind = kind

		created, err := h.services.BoardService.Create(r.Context(), entity)
		if err != nil {
			log.Err(err).
				Str("func", "*Handler.createEntity").
				Str("kind", string(kind)).
				Str("id", entity.ID).
				Msg("error creating entity")
			h.writeError(w, r, err)
			return
		}

		utils.WriteJSON(w, created, http.StatusCreated)
	}
}

func (h *Handler) updateEntity(kind models.EntityKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)
		id := chi.URLParam(r, "id")

		var patch models.EntityPatch
		if err := utils.ReadJSON(r, &patch); err != nil {
			log.Err(err).Str("func", "*Handler.updateEntity").Msg("Invalid JSON was passed")
			writeErrorBody(w, "Invalid JSON was passed", http.StatusBadRequest)
			return
		}

		updated, err := h.services.BoardService.Update(r.Context(), kind, id, patch)
		if err != nil {
			log.Err(err).
				Str("func", "*Handler.updateEntity").
				Str("kind", string(kind)).
				Str("id", id).
				Int64("version", patch.Version).
				Msg("error updating entity")
			h.writeError(w, r, err)
			return
		}

		utils.WriteJSON(w, updated, http.StatusOK)
	}
}

func (h *Handler) deleteEntity(kind models.EntityKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)
		id := chi.URLParam(r, "id")

		if err := h.services.BoardService.Delete(r.Context(), kind, id); err != nil {
			log.Err(err).
				Str("func", "*Handler.deleteEntity").
				Str("kind", string(kind)).
				Str("id", id).
				Msg("error deleting entity")
			h.writeError(w, r, err)
			return
		}

		utils.WriteJSON(w, models.DeleteResponse{Success: true, ID: id}, http.StatusOK)
	}
}

func (h *Handler) reorder(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	var req models.ReorderRequest
	if err := utils.ReadJSON(r, &req); err != nil {
		log.Err(err).Str("func", "*Handler.reorder").Msg("Invalid JSON was passed")
		writeErrorBody(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	if err := h.services.BoardService.Reorder(r.Context(), req); err != nil {
		log.Err(err).
			Str("func", "*Handler.reorder").
			Int("lists", len(req.Lists)).
			Int("cards", len(req.Cards)).
			Msg("error reordering")
		h.writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, models.MessageResponse{Message: app.MsgReordered}, http.StatusOK)
}
