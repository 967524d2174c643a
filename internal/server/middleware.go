package server

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/playperu/pickup/internal/pickup"
	"github.com/playperu/pickup/internal/store"
)

type ctxKey int

const ctxKeyUser ctxKey = iota

func bearerToken(r *http.Request) string {
	token, found := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !found {
		return ""
	}
	return strings.TrimSpace(token)
}

func authMiddleware(sessions Sessions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				writeError(w, http.StatusUnauthorized, "invalid or missing session token")
				return
			}

			user, err := sessions.UserFromToken(r.Context(), token)
			if errors.Is(err, store.ErrNoSession) {
				writeError(w, http.StatusUnauthorized, "invalid or missing session token")
				return
			}
			if err != nil {
				writeError(w, http.StatusInternalServerError, "internal error")
				return
			}

			ctx := context.WithValue(r.Context(), ctxKeyUser, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func userFrom(r *http.Request) pickup.User {
	return r.Context().Value(ctxKeyUser).(pickup.User)
}
