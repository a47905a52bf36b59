package http

import (
	"strings"

	"github.com/labstack/echo/v4"
)

// Header carrying the authenticated principal's public user id. Set by the
// identity collaborator upstream; this core trusts it as given.
const HeaderActingUser = "X-Acting-User"

// ---- helpers ----

func actingUserID(c echo.Context) string {
	if v, ok := c.Get("acting_user_id").(string); ok && v != "" {
		return v
	}
	return strings.TrimSpace(c.Request().Header.Get(HeaderActingUser))
}

func containsFieldMsg(list []FieldError, field, substr string) bool {
	for _, e := range list {
		if e.Field == field && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}
