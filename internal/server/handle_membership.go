package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

type RespondRequest struct {
	Approve bool `json:"approve"`
}

func (a *api) join(w http.ResponseWriter, r *http.Request) {
	g, err := a.games.Join(r.Context(), chi.URLParam(r, "gameID"), userFrom(r).ID)
	if err != nil {
		writeFailure(w, a.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

func (a *api) leave(w http.ResponseWriter, r *http.Request) {
	g, err := a.games.Leave(r.Context(), chi.URLParam(r, "gameID"), userFrom(r).ID)
	if err != nil {
		writeFailure(w, a.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

func (a *api) respond(w http.ResponseWriter, r *http.Request) {
	var req RespondRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	g, err := a.games.RespondToRequest(r.Context(),
		chi.URLParam(r, "gameID"), userFrom(r).ID, chi.URLParam(r, "userID"), req.Approve)
	if err != nil {
		writeFailure(w, a.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}
