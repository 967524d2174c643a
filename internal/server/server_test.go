package server

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/playperu/pickup/internal/games"
)

func TestAccessLogRecordsRoute(t *testing.T) {
	f := setup(t)
	g := f.createGame(t, 4, false)

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	svc := games.NewService(f.store, f.store, nil, quietLogger())
	r := NewRouter(logger, Deps{Games: svc, Sessions: f.store})

	req := httptest.NewRequest(http.MethodGet, "/api/games/"+g.ID, nil)
	req.Header.Set("Authorization", "Bearer "+f.tokens["ana"])
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var line struct {
		Msg    string `json:"msg"`
		Status int    `json:"status"`
		Route  string `json:"route"`
		GameID string `json:"game_id"`
		Level  string `json:"level"`
	}
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("decoding log line %q: %v", buf.String(), err)
	}
	if line.Msg != "http request" || line.Status != http.StatusOK || line.Level != "INFO" {
		t.Errorf("unexpected log line: %+v", line)
	}
	if !strings.HasPrefix(line.Route, "/api/games/{gameID}") {
		t.Errorf("route = %q", line.Route)
	}
	if line.GameID != g.ID {
		t.Errorf("game_id = %q, want %q", line.GameID, g.ID)
	}
}
