package httpapi

import (
	"net/http"
	"time"

	"lawfirm-cms/internal/audit"
	"lawfirm-cms/internal/auth"
	"lawfirm-cms/internal/session"
	"lawfirm-cms/pkg/logger"

	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type userView struct {
	Username    string   `json:"username"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
}

func viewOf(id auth.Identity) userView {
	perms := id.Permissions
	if perms == nil {
		perms = []string{}
	}
	return userView{Username: id.Username, Role: id.Role, Permissions: perms}
}

func (h *Handlers) Login(c *gin.Context) {
	var req loginRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.Sessions.Authenticate(c.Request.Context(), session.LoginRequest{
		Username: req.Username,
		Password: req.Password,
		Origin:   c.ClientIP(),
		Device:   session.DeviceType(c.Request.UserAgent()),
	})
	if err != nil {
		fail(c, err)
		return
	}
	auth.SetSessionCookie(c, res.Token, h.Tokens.TTL(), h.SecureCookies)
	c.Set(logger.ActorKey, res.Identity.Username)
	c.JSON(http.StatusOK, gin.H{"status": "success", "user": viewOf(res.Identity)})
}

// Logout always clears the cookie. The token itself stays valid until it
// expires; there is no server-side revocation list.
func (h *Handlers) Logout(c *gin.Context) {
	if tok, err := c.Cookie(auth.CookieName); err == nil && tok != "" {
		if claims, err := h.Tokens.Verify(tok, time.Now()); err == nil {
			h.Audit.Record(c.Request.Context(), claims.Username, audit.ActionLogout, "User logged out")
		}
	}
	auth.ClearSessionCookie(c, h.SecureCookies)
	success(c, "Logged out successfully")
}

func (h *Handlers) VerifyToken(c *gin.Context) {
	id, err := auth.IdentityFrom(c.Request.Context())
	if err != nil {
		fail(c, auth.ErrUnauthenticated)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "user": viewOf(id)})
}

func (h *Handlers) LoginActivity(c *gin.Context) {
	out, err := h.Audit.RecentLogins(c.Request.Context(), actor(c), 5)
	if err != nil {
		fail(c, err)
		return
	}
	if out == nil {
		out = []audit.LoginEntry{}
	}
	c.JSON(http.StatusOK, out)
}

type logActionRequest struct {
	Action  string `json:"action"`
	Details string `json:"details"`
}

// LogAction lets the client report an action. The username always comes from
// the verified session.
func (h *Handlers) LogAction(c *gin.Context) {
	var req logActionRequest
	if !bindJSON(c, &req) {
		return
	}
	err := h.Audit.Append(c.Request.Context(), audit.Entry{
		Username: actor(c),
		Action:   req.Action,
		Details:  req.Details,
	})
	if err != nil {
		fail(c, err)
		return
	}
	success(c, "")
}

func (h *Handlers) ActivityLogs(c *gin.Context) {
	limit := audit.MaxQueryLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := parsePositive(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Invalid limit"})
			return
		}
		limit = n
	}
	out, err := h.Audit.Query(c.Request.Context(), limit)
	if err != nil {
		fail(c, err)
		return
	}
	if out == nil {
		out = []audit.Entry{}
	}
	c.JSON(http.StatusOK, out)
}
