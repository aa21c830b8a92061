package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-seat-booking/internal/utils"
)

// Context keys set by the JWT middleware.
const (
	ctxClaims = "claims"
	ctxUserID = "user_id"
	ctxRole   = "role"
)

// JWTAuth returns an Echo middleware that requires a valid Bearer access
// token.  The verified claims are stored in the context so handlers can
// read the caller's identity with ClaimsFrom, and the subject and role are
// exposed under "user_id" and "role" for RequireRole and the rate limiter.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, ok := bearerToken(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			claims, err := utils.ParseAccessToken(secret, raw)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}
			setClaims(c, claims)
			return next(c)
		}
	}
}

// OptionalJWT is JWTAuth for routes open to guests: a missing header is
// fine and the request continues anonymously, but a header carrying a bad
// token is still rejected so a client never silently books as a guest.
func OptionalJWT(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, ok := bearerToken(c)
			if !ok {
				return next(c)
			}
			claims, err := utils.ParseAccessToken(secret, raw)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}
			setClaims(c, claims)
			return next(c)
		}
	}
}

// ClaimsFrom returns the verified claims of the request, if any.
func ClaimsFrom(c echo.Context) (utils.Claims, bool) {
	cl, ok := c.Get(ctxClaims).(utils.Claims)
	return cl, ok
}

func bearerToken(c echo.Context) (string, bool) {
	auth := c.Request().Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return "", false
	}
	raw := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	return raw, raw != ""
}

func setClaims(c echo.Context, claims utils.Claims) {
	c.Set(ctxClaims, claims)
	c.Set(ctxUserID, claims.Subject)
	c.Set(ctxRole, claims.Role)
}
