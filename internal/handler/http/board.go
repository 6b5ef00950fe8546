package http

import (
	"net/http"
	"time"

	"github.com/MKhiriev/go-board-sync/internal/app"
	"github.com/MKhiriev/go-board-sync/internal/logger"
	"github.com/MKhiriev/go-board-sync/internal/utils"
	"github.com/MKhiriev/go-board-sync/internal/validators"
	"github.com/MKhiriev/go-board-sync/models"
)

func (h *Handler) getBoard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	board, err := h.services.BoardService.GetBoard(r.Context())
	if err != nil {
		log.Err(err).Str("func", "*Handler.getBoard").Msg("error reading board")
		h.writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, board, http.StatusOK)
}

func (h *Handler) reset(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	if err := h.services.BoardService.Reset(r.Context()); err != nil {
		log.Err(err).Str("func", "*Handler.reset").Msg("error resetting board")
		h.writeError(w, r, err)
		return
	}

	log.Info().Str("func", "*Handler.reset").Msg("board reset")
	utils.WriteJSON(w, models.MessageResponse{Message: app.MsgBoardReset}, http.StatusOK)
}

// setConfig updates fault injection. Omitted fields keep their value.
func (h *Handler) setConfig(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	var cfg models.RemoteConfig
	if err := utils.ReadJSON(r, &cfg); err != nil {
		log.Err(err).Str("func", "*Handler.setConfig").Msg("Invalid JSON was passed")
		writeErrorBody(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}
	if err := validators.NewEntityValidator().Validate(r.Context(), cfg); err != nil {
		writeErrorBody(w, err.Error(), http.StatusBadRequest)
		return
	}

	if cfg.Latency != nil {
		h.chaos.setLatency(time.Duration(*cfg.Latency) * time.Millisecond)
	}
	if cfg.FailureRate != nil {
		h.chaos.setFailureRate(*cfg.FailureRate)
	}

	latency, failureRate := h.chaos.settings()
	log.Info().
		Str("func", "*Handler.setConfig").
		Dur("latency", latency).
		Float64("failure_rate", failureRate).
		Msg("fault injection updated")

	utils.WriteJSON(w, currentConfig(latency, failureRate), http.StatusOK)
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	if err := h.services.BoardService.Ping(r.Context()); err != nil {
		logger.FromRequest(r).Err(err).Str("func", "*Handler.health").Msg("storage is unreachable")
		writeErrorBody(w, "storage unavailable", http.StatusServiceUnavailable)
		return
	}

	utils.WriteJSON(w, map[string]string{"status": app.MsgHealthOK}, http.StatusOK)
}

func currentConfig(latency time.Duration, failureRate float64) models.RemoteConfig {
	ms := int(latency / time.Millisecond)
	return models.RemoteConfig{Latency: &ms, FailureRate: &failureRate}
}
