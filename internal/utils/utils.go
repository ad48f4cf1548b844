package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/snehitv/vidshare-server/internal/apperror"
)

type Envelope map[string]interface{}

func WriteJSON(w http.ResponseWriter, status int, data Envelope) {
	js, err := json.MarshalIndent(data, "", " ")
	if err != nil {
		fmt.Printf("error marshaling JSON: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	js = append(js, '\n')
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if _, err := w.Write(js); err != nil {
		fmt.Printf("error writing JSON response: %v", err)
	}
}

// ReadJSON decodes a request body into dst, rejecting bodies over 1MB and
// trailing garbage after the first JSON value.
func ReadJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("error decoding request body: %w", err)
	}

	if dec.More() {
		return errors.New("request body must contain a single JSON value")
	}

	return nil
}

// WriteError translates a domain error into a response. AppError kinds map
// to their status codes; everything else is a 500 with a generic message so
// store internals never reach the client.
func WriteError(w http.ResponseWriter, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, apperror.ErrBadRequest):
			status = http.StatusBadRequest
		case errors.Is(err, apperror.ErrNotFound):
			status = http.StatusNotFound
		case errors.Is(err, apperror.ErrConflict):
			status = http.StatusConflict
		case errors.Is(err, apperror.ErrForbidden):
			status = http.StatusForbidden
		case errors.Is(err, apperror.ErrUnauthorized):
			status = http.StatusUnauthorized
		}
		WriteJSON(w, status, Envelope{"message": appErr.Message})
		return
	}

	WriteJSON(w, http.StatusInternalServerError, Envelope{"message": "Internal Server Error"})
}
