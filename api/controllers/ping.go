package controllers

import (
	"net/http"

	"github.com/angelmondragon/sonumarket-core/api/middleware"
	"github.com/angelmondragon/sonumarket-core/api/responses"
)

func PublicPing() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]string{"scope": "public", "status": "ok"})
	}
}

// SessionPing echoes the session the request was bound to.
func SessionPing() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload := map[string]string{"scope": "session", "status": "ok"}
		if s := middleware.SessionFromContext(r.Context()); s != nil {
			payload["session_id"] = s.ID
		}
		responses.WriteSuccess(w, payload)
	}
}
