package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"expense-approval-service/pkg/id"
)

// Header carrying the authenticated principal's public user id. Auth itself
// is an external collaborator; this core trusts the id as given.
const HeaderActingUser = "X-Acting-User"

// Identity requires a well-formed X-Acting-User header on every request and
// stashes it in the echo context for handlers.
func Identity() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			actor := strings.TrimSpace(c.Request().Header.Get(HeaderActingUser))
			if actor == "" {
				return c.JSON(http.StatusBadRequest, map[string]string{"error": "missing " + HeaderActingUser})
			}
			if !id.Valid(actor) {
				return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid " + HeaderActingUser})
			}
			c.Set("acting_user_id", actor)
			return next(c)
		}
	}
}
