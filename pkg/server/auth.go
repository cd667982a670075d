package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

type claims struct {
	Account string `json:"account"`
	jwt.RegisteredClaims
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// handleLogin checks the credential table and issues a signed token.
func (s *Server) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "bad_request")
		return
	}

	want, ok := s.users[req.Username]
	if !ok || want != req.Password {
		fail(c, http.StatusUnauthorized, "unauthenticated")
		return
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &claims{
		Account: req.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "scenemap",
		},
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		fail(c, http.StatusInternalServerError, "token_error")
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "token": signed, "username": req.Username})
}

// authRequired resolves the bearer token to an account and aborts with
// 401 otherwise.
func (s *Server) authRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		raw, found := strings.CutPrefix(header, "Bearer ")
		if !found || raw == "" {
			fail(c, http.StatusUnauthorized, "unauthenticated")
			c.Abort()
			return
		}

		parsed := &claims{}
		token, err := jwt.ParseWithClaims(raw, parsed, func(*jwt.Token) (interface{}, error) {
			return s.secret, nil
		})
		if err != nil || !token.Valid || parsed.Account == "" {
			fail(c, http.StatusUnauthorized, "unauthenticated")
			c.Abort()
			return
		}

		c.Set("account", parsed.Account)
		c.Next()
	}
}

func account(c *gin.Context) string {
	return c.GetString("account")
}
