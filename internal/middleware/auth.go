package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

var errMissingBearer = errors.New("authorization header format must be Bearer {token}")

// parseBearer validates the bearer token in header and returns its subject.
func parseBearer(header, jwtSecret string) (string, error) {
	parts := strings.Split(header, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return "", errMissingBearer
	}

	token, err := jwt.ParseWithClaims(parts[1], &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(jwtSecret), nil
	})
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid || claims.Subject == "" {
		return "", errors.New("invalid token claims")
	}
	return claims.Subject, nil
}

func authenticate(c *gin.Context, userID string) {
	logger := GetLoggerFromCtx(c.Request.Context()).With(slog.String("user_id", userID))
	ctx := WithLogger(WithUserID(c.Request.Context(), userID), logger)
	c.Request = c.Request.WithContext(ctx)
}

// AuthMiddleware creates a Gin middleware handler that requires a valid JWT.
// Tokens are issued elsewhere; this service only validates them.
func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := GetLoggerFromCtx(c.Request.Context())

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			logger.Warn("Authorization header missing")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		userID, err := parseBearer(authHeader, jwtSecret)
		if err != nil {
			logger.Warn("Invalid token", slog.String("error", err.Error()))
			msg := "Invalid token"
			switch {
			case errors.Is(err, errMissingBearer):
				msg = "Authorization header format must be Bearer {token}"
			case errors.Is(err, jwt.ErrTokenExpired):
				msg = "Token has expired"
			case errors.Is(err, jwt.ErrTokenNotValidYet):
				msg = "Token not valid yet"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
			return
		}

		authenticate(c, userID)
		c.Next()
	}
}

// OptionalAuthMiddleware authenticates the request when a valid token is present
// and lets anonymous requests through otherwise.
func OptionalAuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}
		userID, err := parseBearer(authHeader, jwtSecret)
		if err != nil {
			GetLoggerFromCtx(c.Request.Context()).Debug("Ignoring invalid optional token", slog.String("error", err.Error()))
			c.Next()
			return
		}
		authenticate(c, userID)
		c.Next()
	}
}
