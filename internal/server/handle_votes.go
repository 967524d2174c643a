package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/playperu/pickup/internal/pickup"
)

type VotesRequest struct {
	Votes []pickup.Vote `json:"votes"`
}

type ResultsResponse struct {
	GameID  string                      `json:"gameId"`
	Status  pickup.Status               `json:"status"`
	Leaders []pickup.Leader             `json:"leaders"`
	Tally   pickup.Tally                `json:"tally"`
	Totals  map[pickup.VoteCategory]int `json:"totals"`
}

func (a *api) submitVotes(w http.ResponseWriter, r *http.Request) {
	var req VotesRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Votes) == 0 {
		writeError(w, http.StatusBadRequest, "votes are required")
		return
	}
	g, err := a.games.SubmitVotes(r.Context(), chi.URLParam(r, "gameID"), userFrom(r).ID, req.Votes)
	if err != nil {
		writeFailure(w, a.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

// results reports the vote leaders. ?category= narrows the response to
// one category.
func (a *api) results(w http.ResponseWriter, r *http.Request) {
	only := pickup.Categories
	if v := r.URL.Query().Get("category"); v != "" {
		c, err := pickup.ParseCategory(v)
		if err != nil {
			writeFailure(w, a.logger, err)
			return
		}
		only = []pickup.VoteCategory{c}
	}

	g, err := a.games.Get(r.Context(), chi.URLParam(r, "gameID"))
	if err != nil {
		writeFailure(w, a.logger, err)
		return
	}

	tally := make(pickup.Tally, len(only))
	totals := make(map[pickup.VoteCategory]int, len(only))
	for _, c := range only {
		tally[c] = g.PostGameVotes[c]
		if tally[c] == nil {
			tally[c] = map[string]int{}
		}
		totals[c] = g.PostGameVotes.Total(c)
	}
	leaders := pickup.Leaders(tally)
	if leaders == nil {
		leaders = []pickup.Leader{}
	}
	writeJSON(w, http.StatusOK, ResultsResponse{
		GameID:  g.ID,
		Status:  g.Status,
		Leaders: leaders,
		Tally:   tally,
		Totals:  totals,
	})
}
