package server

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"

	"github.com/playperu/pickup/internal/pickup"
)

type GamePath struct {
	GameID string `path:"gameID"`
}

type resultsQuery struct {
	GameID   string `path:"gameID"`
	Category string `query:"category" enum:"best_shooter,best_passer,best_all_around,best_scorer,best_defender"`
}

type listQuery struct {
	Status string `query:"status" enum:"scheduled,live,finished"`
	Sport  string `query:"sport"`
	Host   string `query:"host" description:"Host id, or me."`
	Player string `query:"player" description:"Player id, or me."`
	From   string `query:"from" format:"date-time"`
	Limit  int    `query:"limit"`
	Offset int    `query:"offset"`
}

type updateGameRequest struct {
	GamePath
	pickup.GamePatch
}

type respondRequest struct {
	GamePath
	UserID string `path:"userID"`
	RespondRequest
}

type checkInRequest struct {
	GamePath
	CheckInRequest
}

type statusRequest struct {
	GamePath
	StatusRequest
}

type runsRequest struct {
	GamePath
	RunsRequest
}

type votesRequest struct {
	GamePath
	VotesRequest
}

type healthResponse map[string]struct {
	Status string `json:"status"`
}

// gameOp describes a route that acts on one game and answers with it.
type gameOp struct {
	method, path, summary, description string
	req                                any
	errors                             []int
}

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "Pickup API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Host, join and run pickup games. Game routes need a Bearer session token.")

	// GET /healthz
	getHealthz, _ := r.NewOperationContext(http.MethodGet, "/healthz")
	getHealthz.SetSummary("Health check")
	getHealthz.SetDescription("Returns the health status of backend dependencies.")
	getHealthz.AddRespStructure(healthResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getHealthz.AddRespStructure(healthResponse{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(getHealthz)

	// GET /api/me
	getMe, _ := r.NewOperationContext(http.MethodGet, "/api/me")
	getMe.SetSummary("Current user")
	getMe.SetDescription("Returns the caller's profile and XP total.")
	getMe.AddRespStructure(MeResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getMe.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(getMe)

	// GET /api/games
	listGames, _ := r.NewOperationContext(http.MethodGet, "/api/games")
	listGames.SetSummary("List games")
	listGames.SetDescription("Games ordered by start time, filtered by the query parameters.")
	listGames.AddReqStructure(listQuery{})
	listGames.AddRespStructure([]pickup.Game{}, openapi.WithHTTPStatus(http.StatusOK))
	listGames.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(listGames)

	// POST /api/games
	createGame, _ := r.NewOperationContext(http.MethodPost, "/api/games")
	createGame.SetSummary("Create game")
	createGame.SetDescription("Creates a scheduled game hosted by the caller.")
	createGame.AddReqStructure(pickup.GameInput{})
	createGame.AddRespStructure(pickup.Game{}, openapi.WithHTTPStatus(http.StatusCreated))
	createGame.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(createGame)

	ops := []gameOp{
		{http.MethodGet, "/api/games/{gameID}", "Get game", "Returns the game with host and players attached.",
			GamePath{}, []int{http.StatusNotFound}},
		{http.MethodPatch, "/api/games/{gameID}", "Edit game", "Host only. Fields left out are not changed.",
			updateGameRequest{}, []int{http.StatusBadRequest, http.StatusForbidden, http.StatusNotFound}},
		{http.MethodPost, "/api/games/{gameID}/join", "Join game", "Joins a public game or requests to join a private one. Repeating is a no-op.",
			GamePath{}, []int{http.StatusNotFound, http.StatusConflict}},
		{http.MethodPost, "/api/games/{gameID}/leave", "Leave game", "Leaves the game or withdraws a request. The host cannot leave.",
			GamePath{}, []int{http.StatusNotFound, http.StatusConflict}},
		{http.MethodPost, "/api/games/{gameID}/requests/{userID}", "Answer join request", "Host only. Approving checks capacity.",
			respondRequest{}, []int{http.StatusBadRequest, http.StatusForbidden, http.StatusConflict}},
		{http.MethodPost, "/api/games/{gameID}/check-in", "Check in", "Sets or clears the caller's check-in.",
			checkInRequest{}, []int{http.StatusForbidden, http.StatusNotFound}},
		{http.MethodPost, "/api/games/{gameID}/status", "Change status", "Host only. scheduled, live and finished, in that order.",
			statusRequest{}, []int{http.StatusBadRequest, http.StatusForbidden, http.StatusConflict}},
		{http.MethodPost, "/api/games/{gameID}/runs", "Toggle runs", "Host only, while the game is live.",
			runsRequest{}, []int{http.StatusForbidden, http.StatusConflict}},
		{http.MethodPost, "/api/games/{gameID}/votes", "Submit votes", "One vote per category per player once the game is finished. Re-votes are ignored.",
			votesRequest{}, []int{http.StatusBadRequest, http.StatusForbidden, http.StatusConflict}},
	}
	for _, op := range ops {
		oc, _ := r.NewOperationContext(op.method, op.path)
		oc.SetSummary(op.summary)
		oc.SetDescription(op.description)
		oc.AddReqStructure(op.req)
		oc.AddRespStructure(pickup.Game{}, openapi.WithHTTPStatus(http.StatusOK))
		oc.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
		for _, status := range op.errors {
			oc.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(status))
		}
		_ = r.AddOperation(oc)
	}

	// GET /api/games/{gameID}/results
	getResults, _ := r.NewOperationContext(http.MethodGet, "/api/games/{gameID}/results")
	getResults.SetSummary("Vote results")
	getResults.SetDescription("Leader per category, ties going to the lowest candidate id. category narrows the response to one category.")
	getResults.AddReqStructure(resultsQuery{})
	getResults.AddRespStructure(ResultsResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getResults.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	getResults.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getResults)

	// GET /api/games/{gameID}/invite.png
	getInvite, _ := r.NewOperationContext(http.MethodGet, "/api/games/{gameID}/invite.png")
	getInvite.SetSummary("Invite QR code")
	getInvite.SetDescription("PNG QR code of the game's share link. The link is also sent in X-Invite-Link.")
	getInvite.AddReqStructure(GamePath{})
	getInvite.AddRespStructure(nil, openapi.WithContentType("image/png"), openapi.WithHTTPStatus(http.StatusOK))
	getInvite.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getInvite)

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()
	data, _ := json.MarshalIndent(spec, "", "  ")

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}
