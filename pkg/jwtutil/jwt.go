package jwtutil

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"warung-service/pkg/config"
)

// AdminRole is the only role issued by this service. There are no
// per-user accounts; the login endpoint exchanges the shared admin
// password for a token carrying this role.
const AdminRole = "admin"

// Claims represents the JWT claims for the admin session token
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// JWTUtil is a utility for JWT token operations
type JWTUtil struct {
	config *config.JWTConfig
}

// NewJWTUtil creates a new JWT utility with the given configuration
func NewJWTUtil(cfg *config.JWTConfig) *JWTUtil {
	return &JWTUtil{config: cfg}
}

// GenerateAdminToken creates a signed token for the store administrator
func (j *JWTUtil) GenerateAdminToken() (string, error) {
	if j.config == nil {
		return "", errors.New("JWT configuration not provided")
	}

	claims := Claims{
		Role: AdminRole,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Duration(j.config.ExpirationHours) * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.config.SigningKey))
}

// ValidateToken validates and parses the JWT token
func (j *JWTUtil) ValidateToken(tokenString string) (*Claims, error) {
	if j.config == nil {
		return nil, errors.New("JWT configuration not provided")
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(j.config.SigningKey), nil
	})
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, jwt.ErrSignatureInvalid
}
