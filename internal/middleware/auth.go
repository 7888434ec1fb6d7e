package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"

	"merchant-console/internal/models"
	"merchant-console/internal/storectx"
)

// Context keys set by the auth middlewares
const (
	KeyOwnerID      = "owner_id"
	KeyStoreID      = "store_id"
	KeyBackendToken = "backend_token"
)

// Claims are carried by console session tokens
type Claims struct {
	OwnerID      string `json:"owner_id"`
	StoreID      int64  `json:"store_id,omitempty"`
	BackendToken string `json:"backend_token,omitempty"`
	jwt.RegisteredClaims
}

// IssueToken signs a session token valid for ttl
func IssueToken(secret string, ttl time.Duration, ownerID string, storeID int64, backendToken string) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(ttl)
	claims := Claims{
		OwnerID:      ownerID,
		StoreID:      storeID,
		BackendToken: backendToken,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   ownerID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// ParseToken validates tokenString and returns its claims
func ParseToken(secret, tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.OwnerID == "" {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

// AuthMiddleware validates the console session token
func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.NewError("MISSING_TOKEN", "Authorization header is required"))
			return
		}

		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.NewError("INVALID_TOKEN_FORMAT", "Authorization header must be in format: Bearer <token>"))
			return
		}

		claims, err := ParseToken(jwtSecret, tokenParts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.NewError("INVALID_TOKEN", "Invalid or expired token"))
			return
		}

		c.Set(KeyOwnerID, claims.OwnerID)
		c.Set(KeyBackendToken, claims.BackendToken)
		if claims.StoreID > 0 {
			c.Set(KeyStoreID, claims.StoreID)
		}
		c.Next()
	}
}

// StoreMiddleware requires a registered store, taken from the token or
// else from the owner's store context
func StoreMiddleware(stores *storectx.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetStoreID(c) > 0 {
			c.Next()
			return
		}

		storeID, err := stores.StoreID(c.Request.Context(), GetOwnerID(c))
		if err != nil {
			if errors.Is(err, storectx.ErrNoStore) {
				c.AbortWithStatusJSON(http.StatusConflict, models.NewError("STORE_REQUIRED", "Register a store first"))
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, models.NewError("STORE_CONTEXT_ERROR", "Failed to load store context"))
			return
		}
		c.Set(KeyStoreID, storeID)
		c.Next()
	}
}

func GetOwnerID(c *gin.Context) string {
	return c.GetString(KeyOwnerID)
}

func GetStoreID(c *gin.Context) int64 {
	return c.GetInt64(KeyStoreID)
}

func GetBackendToken(c *gin.Context) string {
	return c.GetString(KeyBackendToken)
}
