package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/playperu/pickup/internal/games"
	"github.com/playperu/pickup/internal/pickup"
	"github.com/playperu/pickup/internal/store"
)

const maxPageSize = 100

type api struct {
	games     *games.Service
	xp        XPTotals
	publicURL string
	logger    *slog.Logger
}

type MeResponse struct {
	pickup.User
	XP int64 `json:"xp"`
}

func (a *api) me(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)
	resp := MeResponse{User: user}
	if a.xp != nil {
		total, err := a.xp.Total(r.Context(), user.ID)
		if err != nil {
			a.logger.Warn("xp total unavailable", "user_id", user.ID, "error", err)
		}
		resp.XP = total
	}
	writeJSON(w, http.StatusOK, resp)
}

// listFilter reads the query string. player=me and host=me stand for the
// caller.
func listFilter(r *http.Request) (store.ListFilter, error) {
	q := r.URL.Query()
	me := userFrom(r).ID
	self := func(v string) string {
		if v == "me" {
			return me
		}
		return v
	}

	f := store.ListFilter{
		Status:   pickup.Status(q.Get("status")),
		Sport:    q.Get("sport"),
		HostID:   self(q.Get("host")),
		PlayerID: self(q.Get("player")),
		Limit:    maxPageSize,
	}
	if v := q.Get("from"); v != "" {
		from, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return f, fmt.Errorf("%w: from must be an RFC 3339 timestamp", pickup.ErrValidation)
		}
		f.From = from
	}
	for name, dst := range map[string]*int{"limit": &f.Limit, "offset": &f.Offset} {
		v := q.Get(name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return f, fmt.Errorf("%w: %s must be a non-negative integer", pickup.ErrValidation, name)
		}
		*dst = n
	}
	if f.Limit == 0 || f.Limit > maxPageSize {
		f.Limit = maxPageSize
	}
	return f, nil
}

func (a *api) listGames(w http.ResponseWriter, r *http.Request) {
	f, err := listFilter(r)
	if err != nil {
		writeFailure(w, a.logger, err)
		return
	}
	list, err := a.games.List(r.Context(), f)
	if err != nil {
		writeFailure(w, a.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (a *api) createGame(w http.ResponseWriter, r *http.Request) {
	var req pickup.GameInput
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	g, err := a.games.Create(r.Context(), userFrom(r).ID, req)
	if err != nil {
		writeFailure(w, a.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, g)
}

func (a *api) getGame(w http.ResponseWriter, r *http.Request) {
	g, err := a.games.Get(r.Context(), chi.URLParam(r, "gameID"))
	if err != nil {
		writeFailure(w, a.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

func (a *api) updateGame(w http.ResponseWriter, r *http.Request) {
	var req pickup.GamePatch
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	g, err := a.games.Update(r.Context(), chi.URLParam(r, "gameID"), userFrom(r).ID, req)
	if err != nil {
		writeFailure(w, a.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}
