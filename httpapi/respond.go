package httpapi

import (
	"encoding/json"
	"io"
	"net/http"
	"unicode"
	"unicode/utf8"

	"github.com/meikuraledutech/assistant"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const maxBodyBytes = 1 << 20

type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type errorBody struct {
	Error   string       `json:"error"`
	Details []fieldError `json:"details,omitempty"`
	Message string       `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("could not write response")
	}
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return &assistant.ValidationError{Field: "body", Reason: "is required"}
		}
		return &assistant.ValidationError{Field: "body", Reason: err.Error()}
	}
	return nil
}

func isInvalid(err error) bool {
	return errors.Is(err, assistant.ErrInvalidInput)
}

func writeInvalid(w http.ResponseWriter, msg string, err error) {
	body := errorBody{Error: msg}
	var ve *assistant.ValidationError
	if errors.As(err, &ve) {
		body.Details = []fieldError{{Field: ve.Field, Message: ve.Reason}}
	} else {
		body.Details = []fieldError{{Message: err.Error()}}
	}
	writeJSON(w, http.StatusBadRequest, body)
}

// writeError maps err onto a status code. Anything that is neither a missing
// entity nor invalid input is a 500 carrying the error text.
func writeError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	var nf *assistant.NotFoundError
	switch {
	case errors.As(err, &nf):
		writeJSON(w, http.StatusNotFound, errorBody{Error: capitalize(nf.Entity) + " not found"})
	case errors.Is(err, assistant.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody{Error: "Not found"})
	case isInvalid(err):
		writeInvalid(w, msg, err)
	default:
		zerolog.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg(msg)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: msg, Message: err.Error()})
	}
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
