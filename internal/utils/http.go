package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// MaxJSONBody caps the request bodies [ReadJSON] will decode. A full board
// reorder stays far below it.
const MaxJSONBody = 1 << 20

// ErrTrailingJSON is returned by [ReadJSON] when the body holds more than one
// JSON value.
var ErrTrailingJSON = errors.New("unexpected data after JSON value")

// WriteJSON marshals data and writes it with statusCode and a JSON content
// type. When marshaling fails nothing of data is sent: the client gets a
// plain 500 and the error is returned for logging.
func WriteJSON(w http.ResponseWriter, data any, statusCode int) (int, error) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		http.Error(w, "error writing data to JSON", http.StatusInternalServerError)
		return 0, fmt.Errorf("error writing data to JSON: %w", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	return w.Write(jsonData)
}

// ReadJSON decodes exactly one JSON value from the request body into v,
// reading at most [MaxJSONBody] bytes.
func ReadJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, MaxJSONBody))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode JSON body: %w", err)
	}
	if dec.More() {
		return ErrTrailingJSON
	}
	return nil
}
