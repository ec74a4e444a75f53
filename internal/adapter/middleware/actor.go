package middleware

import (
	"errors"
	"net/http"
	"strings"

	"backoffice-review/internal/domain/profile"
	"backoffice-review/pkg/id"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
)

const (
	HeaderActorID = "X-Actor-Id"
	actorCtxKey   = "review.actor"
)

// Actor resolves X-Actor-Id to a reviewer profile and stores it on the
// context. Authentication happens upstream; this only checks the role.
func Actor(profiles profile.Repository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := strings.TrimSpace(c.Request().Header.Get(HeaderActorID))
			if raw == "" {
				return abort(c, http.StatusUnauthorized, "missing "+HeaderActorID)
			}
			if !id.Valid(raw) {
				return abort(c, http.StatusUnauthorized, "invalid "+HeaderActorID)
			}
			p, err := profiles.GetByID(c.Request().Context(), raw)
			switch {
			case errors.Is(err, profile.ErrNotFound):
				return abort(c, http.StatusUnauthorized, "unknown actor")
			case err != nil:
				c.Logger().Errorj(log.JSON{"msg": "actor lookup failed", "actor_id": raw, "error": err.Error()})
				return abort(c, http.StatusInternalServerError, "actor lookup failed")
			}
			if !p.Role.CanReview() {
				return abort(c, http.StatusForbidden, "actor is not allowed to review applications")
			}
			c.Set(actorCtxKey, p)
			return next(c)
		}
	}
}

// ActorFrom returns the reviewer set by Actor, or nil.
func ActorFrom(c echo.Context) *profile.Profile {
	p, _ := c.Get(actorCtxKey).(*profile.Profile)
	return p
}

func actorIDFrom(c echo.Context) string {
	if p := ActorFrom(c); p != nil {
		return p.ID
	}
	raw := strings.ToLower(strings.TrimSpace(c.Request().Header.Get(HeaderActorID)))
	if !id.Valid(raw) {
		return ""
	}
	return raw
}
