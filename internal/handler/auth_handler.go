package handler

import (
	"crypto/subtle"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"warung-service/pkg/config"
	"warung-service/pkg/jwtutil"
	"warung-service/pkg/logger"
	"warung-service/prometheus"
)

// AuthHandler exchanges the shared admin password for a session token.
type AuthHandler struct {
	cfg *config.Config
	jwt *jwtutil.JWTUtil
}

func NewAuthHandler(cfg *config.Config, jwt *jwtutil.JWTUtil) *AuthHandler {
	return &AuthHandler{cfg: cfg, jwt: jwt}
}

// Login handles POST /api/login
func (h *AuthHandler) Login(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordLogin()

	var req struct {
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse login request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"success": false,
			"message": "Permintaan tidak valid",
		})
	}

	// An unset admin password locks the panel rather than opening it.
	adminPassword := h.cfg.Auth.AdminPassword
	if adminPassword == "" ||
		subtle.ConstantTimeCompare([]byte(req.Password), []byte(adminPassword)) != 1 {
		log.Warn("Admin login rejected", zap.String("ip", c.RealIP()))
		prometheus.RecordAuthError("wrong_password")
		return c.JSON(http.StatusUnauthorized, echo.Map{
			"success": false,
			"message": "Password salah!",
		})
	}

	token, err := h.jwt.GenerateAdminToken()
	if err != nil {
		log.Error("Failed to generate token", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success": false,
			"message": "Gagal membuat token",
		})
	}

	log.Info("Admin logged in", zap.String("ip", c.RealIP()))
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"token":   token,
	})
}
