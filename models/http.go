package models

// ConflictResponse is the body the remote authority sends with HTTP 409 when a
// write carries a stale version.
type ConflictResponse struct {
	Error      string `json:"error"`
	ServerItem Entity `json:"serverItem"`
	Message    string `json:"message"`
}

// ErrorResponse is the body of every other non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ReorderRequest is the body of POST /api/reorder. Either slice may be empty.
type ReorderRequest struct {
	Lists []PositionUpdate `json:"lists,omitempty"`
	Cards []PositionUpdate `json:"cards,omitempty"`
}

// DeleteResponse acknowledges a delete.
type DeleteResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
}

// RemoteConfig tunes the fault injection of the remote authority. Latency is
// in milliseconds; FailureRate is a probability in [0, 1].
type RemoteConfig struct {
	Latency     *int     `json:"latency,omitempty"`
	FailureRate *float64 `json:"failureRate,omitempty"`
}

// MessageResponse is a plain acknowledgement.
type MessageResponse struct {
	Message string `json:"message"`
}
