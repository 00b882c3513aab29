package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"warung-service/pkg/jwtutil"
	"warung-service/pkg/logger"
	"warung-service/prometheus"
)

// AuthMiddleware guards the admin-only routes with a bearer token.
// A missing or malformed header is 401; a token that fails validation
// is 403, matching the contract the admin panel relies on.
func AuthMiddleware(jwtUtil *jwtutil.JWTUtil) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			log := logger.FromContext(c)

			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				log.Warn("Missing Authorization header")
				prometheus.RecordAuthError("missing_token")
				return c.JSON(http.StatusUnauthorized, echo.Map{
					"success": false,
					"message": "Akses ditolak.",
				})
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				log.Warn("Invalid Authorization header format")
				prometheus.RecordAuthError("missing_token")
				return c.JSON(http.StatusUnauthorized, echo.Map{
					"success": false,
					"message": "Akses ditolak.",
				})
			}

			claims, err := jwtUtil.ValidateToken(parts[1])
			if err != nil || claims.Role != jwtutil.AdminRole {
				log.Warn("Invalid or expired token", zap.Error(err))
				prometheus.RecordAuthError("invalid_token")
				return c.JSON(http.StatusForbidden, echo.Map{
					"success": false,
					"message": "Token invalid.",
				})
			}

			c.Set("role", claims.Role)
			return next(c)
		}
	}
}
