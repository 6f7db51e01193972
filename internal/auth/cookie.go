package auth

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// CookieName carries the session token.
const CookieName = "token"

// SetSessionCookie writes the token as an httpOnly, sameSite=strict cookie.
// secure should be true in production.
func SetSessionCookie(c *gin.Context, token string, ttl time.Duration, secure bool) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(CookieName, token, int(ttl.Seconds()), "/", "", secure, true)
}

// ClearSessionCookie expires the session cookie on the client.
func ClearSessionCookie(c *gin.Context, secure bool) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(CookieName, "", -1, "/", "", secure, true)
}
