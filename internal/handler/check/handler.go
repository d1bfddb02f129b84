package check

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	checkService "github.com/zhouzirui/misinfo-check/backend/internal/service/check"
	"github.com/zhouzirui/misinfo-check/backend/pkg/utils"
)

const (
	// CheckIDHeader carries the id of the check that produced the response.
	CheckIDHeader = "X-Check-ID"

	msgNoText     = "No text provided"
	msgUnexpected = "An unexpected server error occurred"
)

// ErrMalformedBody is returned for request bodies that cannot be read as a check request.
var ErrMalformedBody = errors.New("malformed check request")

// Checker runs one misinformation check.
type Checker interface {
	Check(ctx context.Context, text string) (checkService.Result, error)
}

// Handler serves the check endpoint.
type Handler struct {
	checker Checker
}

// New creates a check handler.
func New(checker Checker) *Handler {
	return &Handler{checker: checker}
}

// RegisterRoutes mounts the check route.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/check-misinformation", h.handleCheck)
}

func (h *Handler) handleCheck(w http.ResponseWriter, r *http.Request) {
	text, err := DecodeText(r.Body)
	if err != nil {
		slog.ErrorContext(r.Context(), "decode check request", "error", err)
		utils.RespondError(w, http.StatusInternalServerError, msgUnexpected)
		return
	}

	res, err := h.checker.Check(r.Context(), text)
	if res.ID != "" {
		w.Header().Set(CheckIDHeader, res.ID)
	}
	if err != nil {
		status, message := StatusFor(err)
		utils.RespondError(w, status, message)
		return
	}

	utils.RespondJSON(w, http.StatusOK, res.Verdict)
}

// DecodeText reads the text field of a JSON object. A missing or null field yields "".
// Bodies that are not an object, and text values that are not strings, return ErrMalformedBody.
func DecodeText(body io.Reader) (string, error) {
	var payload map[string]json.RawMessage
	if err := json.NewDecoder(body).Decode(&payload); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedBody, err)
	}
	if payload == nil {
		return "", fmt.Errorf("%w: null body", ErrMalformedBody)
	}

	raw, ok := payload["text"]
	if !ok || string(raw) == "null" {
		return "", nil
	}
	var text string
	if err := json.Unmarshal(raw, &text); err != nil {
		return "", fmt.Errorf("%w: text is not a string", ErrMalformedBody)
	}
	return text, nil
}

// StatusFor maps a check failure to its HTTP status and fixed client message.
func StatusFor(err error) (int, string) {
	if checkService.KindOf(err) == checkService.KindValidation {
		return http.StatusBadRequest, msgNoText
	}
	return http.StatusInternalServerError, msgUnexpected
}

// ErrorMessage is the client-facing text for err.
func ErrorMessage(err error) string {
	_, message := StatusFor(err)
	return message
}
