package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/hktitof/newsdigest"
)

// SummaryEnvelope is the success body of the summarize endpoint.
type SummaryEnvelope struct {
	Success         bool                     `json:"success"`
	Title           string                   `json:"title"`
	Summary         string                   `json:"summary"`
	OriginalContent string                   `json:"originalContent,omitempty"`
	ContentLength   int                      `json:"contentLength,omitempty"`
	JSONOutput      newsdigest.SummaryResult `json:"jsonOutput"`

	URL         string                  `json:"url,omitempty"`
	Method      newsdigest.RenderMethod `json:"method,omitempty"`
	Placeholder bool                    `json:"placeholder,omitempty"`
}

// NewSummaryEnvelope wraps a digest in the success envelope.
func NewSummaryEnvelope(d *newsdigest.Digest) SummaryEnvelope {
	return SummaryEnvelope{
		Success:         true,
		Title:           d.Title,
		Summary:         d.Summary,
		OriginalContent: d.OriginalContent,
		ContentLength:   d.ContentLength,
		JSONOutput:      d.SummaryResult,
		URL:             d.URL,
		Method:          d.Method,
		Placeholder:     d.Placeholder,
	}
}

// ErrorEnvelope is the body of every failed request.
type ErrorEnvelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// errorStatus maps error codes to HTTP status codes.
var errorStatus = map[string]int{
	newsdigest.EINVALID:      http.StatusBadRequest,
	newsdigest.ENOTFOUND:     http.StatusNotFound,
	newsdigest.EFORBIDDEN:    http.StatusForbidden,
	newsdigest.ECONFIG:       http.StatusInternalServerError,
	newsdigest.EINSUFFICIENT: http.StatusUnprocessableEntity,
	newsdigest.EFETCH:        http.StatusBadGateway,
	newsdigest.EUPSTREAM:     http.StatusBadGateway,
	newsdigest.EINTERNAL:     http.StatusInternalServerError,
}

// ErrorStatusCode returns the HTTP status for an error.
func ErrorStatusCode(err error) int {
	if code, ok := errorStatus[newsdigest.ErrorCode(err)]; ok {
		return code
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Headers are already sent.
		logger.Error("failed to encode JSON response", "status", code, "err", err)
	}
}

// writeError writes the error envelope. Internal errors are logged and
// reported to the client with a generic message.
func writeError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	code := ErrorStatusCode(err)
	if newsdigest.ErrorCode(err) == newsdigest.EINTERNAL {
		logger.Error("internal error", "path", r.URL.Path, "request_id", RequestIDFromContext(r.Context()), "err", err)
	}
	writeJSON(w, logger, code, ErrorEnvelope{Success: false, Error: newsdigest.ErrorMessage(err)})
}
