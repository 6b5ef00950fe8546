package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/go-board-sync/internal/app"
	"github.com/MKhiriev/go-board-sync/internal/logger"
	"github.com/MKhiriev/go-board-sync/internal/service"
	"github.com/MKhiriev/go-board-sync/internal/store"
	"github.com/MKhiriev/go-board-sync/internal/utils"
	"github.com/MKhiriev/go-board-sync/models"
)

var errorStatusMap = map[error]int{
	service.ErrInvalidDataProvided: http.StatusBadRequest,

	store.ErrEntityNotFound:  http.StatusNotFound,
	store.ErrVersionConflict: http.StatusConflict,
	store.ErrInvalidKind:     http.StatusBadRequest,

	store.ErrBuildingSQLQuery:     http.StatusInternalServerError,
	store.ErrExecutingQuery:       http.StatusInternalServerError,
	store.ErrBeginningTransaction: http.StatusInternalServerError,
	store.ErrCommitingTransaction: http.StatusInternalServerError,
	store.ErrExecutingStatement:   http.StatusInternalServerError,
	store.ErrScanningRow:          http.StatusInternalServerError,
	store.ErrScanningRows:         http.StatusInternalServerError,
	store.ErrEncodingPayload:      http.StatusInternalServerError,
}

func statusFromError(err error) int {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}

// writeError writes err with its mapped status. A version conflict carries
// the stored entity so the client can merge against it.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var conflict *store.VersionConflictError
	if errors.As(err, &conflict) {
		utils.WriteJSON(w, models.ConflictResponse{
			Error:      app.MsgConflict,
			ServerItem: conflict.Current,
			Message:    app.MsgVersionMismatch,
		}, http.StatusConflict)
		return
	}

	status := statusFromError(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		// storage details stay in the log
		message = app.MsgInternalServerError
	}
	if _, writeErr := utils.WriteJSON(w, models.ErrorResponse{Error: message}, status); writeErr != nil {
		logger.FromRequest(r).Err(writeErr).Str("func", "*Handler.writeError").Msg("failed to write error response")
	}
}

func writeErrorBody(w http.ResponseWriter, message string, status int) {
	utils.WriteJSON(w, models.ErrorResponse{Error: message}, status)
}
