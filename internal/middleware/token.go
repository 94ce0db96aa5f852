// token.go implements short-lived export download tokens.
//
// Browser downloads can't set an X-API-Key header, so a client first calls
// the download-token endpoint (with its API key) and receives a signed JWT
// scoped to one extraction. The export endpoint then accepts either the
// API key header or a ?token= query parameter carrying that JWT.
package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/Shimizu-Technology/payroll-extractor-api/internal/database"
	"github.com/Shimizu-Technology/payroll-extractor-api/internal/models"
)

// DownloadTokenTTL is how long a minted download token stays valid.
// Long enough for a browser to follow the link, short enough that a leaked
// URL goes stale quickly.
const DownloadTokenTTL = 15 * time.Minute

// DownloadClaims scope a token to a single extraction.
type DownloadClaims struct {
	ExtractionID string `json:"extraction_id"`
	jwt.RegisteredClaims
}

// GenerateDownloadToken creates a signed token authorizing downloads of one
// extraction.
func GenerateDownloadToken(extractionID, secret string) (string, time.Time, error) {
	expiresAt := time.Now().Add(DownloadTokenTTL)
	claims := DownloadClaims{
		ExtractionID: extractionID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Subject:   extractionID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// ParseDownloadToken validates a token string and returns its claims.
func ParseDownloadToken(tokenString, secret string) (*DownloadClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &DownloadClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*DownloadClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, jwt.ErrSignatureInvalid
}

// DownloadAuth returns middleware for the export endpoint. It accepts
// EITHER a valid X-API-Key header OR a ?token= query parameter whose claims
// match the :id route parameter. Tokens minted for one extraction cannot
// download another.
func DownloadAuth(db *database.DB, jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Try API key first — programmatic clients keep working unchanged.
		rawKey := c.GetHeader("X-API-Key")
		if rawKey != "" {
			keyHash := HashAPIKey(rawKey)
			apiKey, err := db.GetAPIKeyByHash(c.Request.Context(), keyHash)
			if err == nil {
				c.Set(string(apiKeyContextKey), apiKey)
				go db.UpdateAPIKeyLastUsed(context.Background(), apiKey.ID)
				c.Next()
				return
			}
		}

		// Try a download token
		if tokenString := c.Query("token"); tokenString != "" {
			claims, err := ParseDownloadToken(tokenString, jwtSecret)
			if err == nil && claims.ExtractionID == c.Param("id") {
				c.Next()
				return
			}
		}

		c.JSON(http.StatusUnauthorized, models.ErrorResponse{
			Error:   "unauthorized",
			Message: "Provide a valid X-API-Key header or a ?token= download token for this extraction",
			Code:    http.StatusUnauthorized,
		})
		c.Abort()
	}
}
