package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/playperu/pickup/internal/pickup"
	"github.com/playperu/pickup/internal/store"
)

// ErrorResponse is returned for all error responses. Kind is set for game
// rule failures so clients can tell them apart without parsing Error.
type ErrorResponse struct {
	Error string      `json:"error"`
	Kind  pickup.Kind `json:"kind,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func readJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

func statusFor(err error) int {
	if errors.Is(err, store.ErrConflict) {
		return http.StatusConflict
	}
	switch pickup.KindOf(err) {
	case pickup.KindValidation:
		return http.StatusBadRequest
	case pickup.KindNotAuthorized, pickup.KindNotAMember:
		return http.StatusForbidden
	case pickup.KindNotFound:
		return http.StatusNotFound
	case pickup.KindGameFull, pickup.KindHostCannotLeave, pickup.KindInvalidTransition:
		return http.StatusConflict
	case pickup.KindRemote:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// writeFailure maps a game error to its status. Rule errors carry their own
// message; infrastructure detail is logged and kept out of the response.
func writeFailure(w http.ResponseWriter, logger *slog.Logger, err error) {
	status := statusFor(err)
	kind := pickup.KindOf(err)
	resp := ErrorResponse{Error: err.Error(), Kind: kind}

	switch {
	case errors.Is(err, store.ErrConflict):
		resp = ErrorResponse{Error: store.ErrConflict.Error(), Kind: "conflict"}
	case kind == pickup.KindRemote:
		logger.Error("game store failed", "error", err)
		resp.Error = pickup.ErrRemote.Error()
	case status == http.StatusInternalServerError:
		logger.Error("game request failed", "error", err)
		resp.Error = "internal error"
	}
	writeJSON(w, status, resp)
}
