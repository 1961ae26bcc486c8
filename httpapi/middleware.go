package httpapi

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	requestIDHeader = "X-Request-ID"
	maxLogLine      = 80
	// Only the start of a response body can end up in a log line.
	maxCapturedBody = 256
)

// withRequestID tags every request with an id and a logger carrying it.
func withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		w.Header().Set(requestIDHeader, id)

		logger := log.With().Str("request_id", id).Logger()
		next.ServeHTTP(w, r.WithContext(logger.WithContext(r.Context())))
	})
}

type recordingWriter struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func (rw *recordingWriter) WriteHeader(status int) {
	rw.status = status
	rw.ResponseWriter.WriteHeader(status)
}

func (rw *recordingWriter) Write(p []byte) (int, error) {
	if rw.status == 0 {
		rw.status = http.StatusOK
	}
	if room := maxCapturedBody - rw.body.Len(); room > 0 {
		if len(p) < room {
			room = len(p)
		}
		rw.body.Write(p[:room])
	}
	return rw.ResponseWriter.Write(p)
}

// logRequests writes one line per /api request: method, path, status,
// duration and the start of the JSON response.
func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &recordingWriter{ResponseWriter: w}
		next.ServeHTTP(rw, r)

		if !strings.HasPrefix(r.URL.Path, "/api") {
			return
		}
		status := rw.status
		if status == 0 {
			status = http.StatusOK
		}
		duration := time.Since(start)

		logger := zerolog.Ctx(r.Context())
		event := logger.Info()
		if status >= http.StatusInternalServerError {
			event = logger.Warn()
		}
		event.
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Dur("duration", duration).
			Msg(formatLogLine(r.Method, r.URL.Path, status, duration, rw.body.Bytes()))
	})
}

func formatLogLine(method, path string, status int, duration time.Duration, body []byte) string {
	line := fmt.Sprintf("%s %s %d in %dms", method, path, status, duration.Milliseconds())
	if body = bytes.TrimSpace(body); len(body) > 0 {
		line += " :: " + string(body)
	}
	if utf8.RuneCountInString(line) > maxLogLine {
		runes := []rune(line)
		line = string(runes[:maxLogLine-1]) + "…"
	}
	return line
}
