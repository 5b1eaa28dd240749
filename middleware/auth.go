package middleware

import (
	"errors"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const sessionUserKey = "UserID"

func jwtSecret() []byte {
	return []byte(os.Getenv("JWT_SECRET"))
}

// IssueToken signs a bearer token for the user, returned by login so
// non-browser clients can skip the session cookie.
func IssueToken(userID string) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret())
}

// JWTDecoder resolves the calling user's id from the session or from an
// Authorization bearer token.
func JWTDecoder(c *gin.Context) (string, error) {
	// The session middleware is optional; bearer-only clients skip it.
	if _, exists := c.Get(sessions.DefaultKey); exists {
		session := sessions.Default(c)
		if userID, ok := session.Get(sessionUserKey).(string); ok && userID != "" {
			return userID, nil
		}
	}

	header := c.GetHeader("Authorization")
	raw, found := strings.CutPrefix(header, "Bearer ")
	if !found || raw == "" {
		return "", errors.New("no session and no bearer token")
	}

	token, err := jwt.ParseWithClaims(raw, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return jwtSecret(), nil
	})
	if err != nil || !token.Valid {
		return "", errors.New("invalid token")
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", errors.New("token has no subject")
	}
	return claims.Subject, nil
}

// SetSessionUser records the logged-in user id on the session.
func SetSessionUser(c *gin.Context, userID string) error {
	session := sessions.Default(c)
	session.Set(sessionUserKey, userID)
	return session.Save()
}

// ClearSessionUser logs the session out. Reports whether there was a
// session to clear.
func ClearSessionUser(c *gin.Context) (bool, error) {
	session := sessions.Default(c)
	if session.Get(sessionUserKey) == nil {
		return false, nil
	}
	session.Delete(sessionUserKey)
	return true, session.Save()
}

// AuthRequired rejects requests without a valid session or bearer token.
func AuthRequired(c *gin.Context) {
	if _, err := JWTDecoder(c); err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	c.Next()
}
