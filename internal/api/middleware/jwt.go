package middleware

import (
	"crypto/ecdsa"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/chainchat/backend/internal/utils"
)

const privyIssuer = "privy.io"

type apiError struct {
	Code    utils.Code `json:"code"`
	Message string     `json:"message"`
}

type privyClaims struct {
	jwt.RegisteredClaims
	SessionID string `json:"sid"`
}

// ParsePrivyKey reads the ES256 verification key shown in the Privy
// dashboard. Keys pasted into env files often carry literal "\n".
func ParsePrivyKey(pem string) (*ecdsa.PublicKey, error) {
	pem = strings.ReplaceAll(strings.TrimSpace(pem), `\n`, "\n")
	if pem == "" {
		return nil, fmt.Errorf("PRIVY_VERIFICATION_KEY is not set")
	}
	return jwt.ParseECPublicKeyFromPEM([]byte(pem))
}

// PrivyAuth validates a Privy access token and sets "user_id" to its DID.
// A nil key rejects every request.
func PrivyAuth(appID string, key *ecdsa.PublicKey) gin.HandlerFunc {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodES256.Alg()}),
		jwt.WithIssuer(privyIssuer),
		jwt.WithExpirationRequired(),
	}
	if appID != "" {
		opts = append(opts, jwt.WithAudience(appID))
	}

	return func(c *gin.Context) {
		if key == nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, apiError{
				Code:    utils.CodeNotConfigured,
				Message: "PRIVY_VERIFICATION_KEY is not set",
			})
			return
		}

		auth := c.GetHeader("Authorization")
		raw := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
		if !strings.HasPrefix(auth, "Bearer ") || raw == "" {
			// Privy's browser SDK also ships the token as a cookie.
			raw, _ = c.Cookie("privy-token")
		}
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apiError{
				Code:    utils.CodeUnauthorized,
				Message: "missing bearer token",
			})
			return
		}

		claims := &privyClaims{}
		tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
			return key, nil
		}, opts...)
		if err != nil || tok == nil || !tok.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apiError{
				Code:    utils.CodeUnauthorized,
				Message: "invalid token",
			})
			return
		}

		userID := claims.Subject // did:privy:...
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apiError{
				Code:    utils.CodeUnauthorized,
				Message: "missing subject",
			})
			return
		}

		c.Set("user_id", userID)
		c.Set("session_id", claims.SessionID)
		c.Next()
	}
}
