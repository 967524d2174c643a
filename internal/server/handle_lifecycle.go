package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/playperu/pickup/internal/pickup"
)

type CheckInRequest struct {
	CheckedIn bool `json:"checkedIn"`
}

type StatusRequest struct {
	Status pickup.Status `json:"status"`
}

type RunsRequest struct {
	Started bool `json:"started"`
}

func (a *api) checkIn(w http.ResponseWriter, r *http.Request) {
	var req CheckInRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	g, err := a.games.ToggleCheckIn(r.Context(), chi.URLParam(r, "gameID"), userFrom(r).ID, req.CheckedIn)
	if err != nil {
		writeFailure(w, a.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

func (a *api) changeStatus(w http.ResponseWriter, r *http.Request) {
	var req StatusRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	g, err := a.games.ChangeStatus(r.Context(), chi.URLParam(r, "gameID"), userFrom(r).ID, req.Status)
	if err != nil {
		writeFailure(w, a.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

func (a *api) setRuns(w http.ResponseWriter, r *http.Request) {
	var req RunsRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	g, err := a.games.SetRunsStarted(r.Context(), chi.URLParam(r, "gameID"), userFrom(r).ID, req.Started)
	if err != nil {
		writeFailure(w, a.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}
