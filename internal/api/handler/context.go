package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/visioncare/clinic-system/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// ctxClaims extracts the verified claims injected by the Auth middleware.
// A present role proves the middleware ran; its absence means the route was
// wired without authentication by mistake, so fail closed.
func ctxClaims(c echo.Context) (email string, role domain.Role, err error) {
	role, _ = c.Get("role").(domain.Role)
	if role == "" {
		return "", "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	email, _ = c.Get("email").(string)
	return email, role, nil
}
