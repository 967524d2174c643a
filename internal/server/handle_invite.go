package server

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	qrcode "github.com/skip2/go-qrcode"
)

const inviteSize = 256

// inviteLink is the shareable page address for a game.
func inviteLink(base, gameID string) string {
	return strings.TrimRight(base, "/") + "/games/" + url.PathEscape(gameID)
}

// invite renders the game's share link as a QR code. The link itself is
// returned in a header so clients can offer copy-to-clipboard too.
func (a *api) invite(w http.ResponseWriter, r *http.Request) {
	g, err := a.games.Get(r.Context(), chi.URLParam(r, "gameID"))
	if err != nil {
		writeFailure(w, a.logger, err)
		return
	}

	link := inviteLink(a.publicURL, g.ID)
	png, err := qrcode.Encode(link, qrcode.Medium, inviteSize)
	if err != nil {
		writeFailure(w, a.logger, fmt.Errorf("encoding invite: %w", err))
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "private, max-age=300")
	w.Header().Set("X-Invite-Link", link)
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}
