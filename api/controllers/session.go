package controllers

import (
	"net/http"

	"github.com/angelmondragon/sonumarket-core/api/middleware"
	"github.com/angelmondragon/sonumarket-core/api/responses"
	"github.com/angelmondragon/sonumarket-core/internal/session"
	pkgerrors "github.com/angelmondragon/sonumarket-core/pkg/errors"
	"github.com/angelmondragon/sonumarket-core/pkg/logger"
)

// requireSession writes an INTERNAL_ERROR when the Session middleware was not mounted.
func requireSession(w http.ResponseWriter, r *http.Request, logg *logger.Logger) (*session.Session, bool) {
	s := middleware.SessionFromContext(r.Context())
	if s == nil {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "session context missing"))
		return nil, false
	}
	return s, true
}
