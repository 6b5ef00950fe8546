package adapter

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/MKhiriev/go-board-sync/models"
)

// mapHTTPError converts a non-2xx response into one of the package errors.
// kind is stamped onto the server entity of a conflict, since the wire body
// does not always carry it.
func mapHTTPError(resp *resty.Response, kind models.EntityKind) error {
	if resp.StatusCode() >= http.StatusOK && resp.StatusCode() < http.StatusMultipleChoices {
		return nil
	}

	body := strings.TrimSpace(string(resp.Body()))

	switch resp.StatusCode() {
	// 500 is the authority's own verdict on the operation and falls through
	// to ErrUnexpectedStatus, so the queue drops it instead of stalling.
	case http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return fmt.Errorf("%w: http %d: %s", ErrNetworkUnavailable, resp.StatusCode(), body)
	case http.StatusConflict:
		var cr models.ConflictResponse
		if err := json.Unmarshal(resp.Body(), &cr); err != nil || cr.ServerItem.ID == "" {
			return fmt.Errorf("%w: %s", ErrUnexpectedStatus, body)
		}
		if cr.ServerItem.Kind == "" {
			cr.ServerItem.Kind = kind
		}
		return &ConflictError{Server: cr.ServerItem, Message: cr.Message}
	case http.StatusBadRequest:
		return fmt.Errorf("%w: %s", ErrBadRequest, body)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, body)
	default:
		if body == "" {
			body = http.StatusText(resp.StatusCode())
		}
		return fmt.Errorf("%w: http %d: %s", ErrUnexpectedStatus, resp.StatusCode(), body)
	}
}

// mapTransportError wraps an error returned before any response arrived.
func mapTransportError(op string, err error) error {
	return fmt.Errorf("%s request: %w: %w", op, ErrNetworkUnavailable, err)
}
