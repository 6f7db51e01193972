// Package httpapi is the JSON surface consumed by the SPA.
package httpapi

import (
	"log/slog"
	"net/http"
	"strconv"

	"lawfirm-cms/internal/assignment"
	"lawfirm-cms/internal/audit"
	"lawfirm-cms/internal/auth"
	"lawfirm-cms/internal/cases"
	"lawfirm-cms/internal/documents"
	"lawfirm-cms/internal/editors"
	"lawfirm-cms/internal/lawyers"
	"lawfirm-cms/internal/reporting"
	"lawfirm-cms/internal/session"
	"lawfirm-cms/internal/todos"

	"github.com/gin-gonic/gin"
)

// Handlers groups HTTP handlers for dependency injection.
// Keep these thin: parse input, call internal services, return JSON.
type Handlers struct {
	Tokens      *auth.Manager
	Sessions    *session.Issuer
	Editors     *editors.Service
	Lawyers     *lawyers.Service
	Cases       *cases.Service
	Assignments *assignment.Service
	Todos       *todos.Service
	Documents   *documents.Service
	Reports     *reporting.Service
	Audit       *audit.Service

	// SecureCookies marks the session cookie Secure. Set in production.
	SecureCookies bool
	Log           *slog.Logger
}

type idRequest struct {
	ID int64 `json:"id"`
}

type nicRequest struct {
	NIC string `json:"nic"`
}

func success(c *gin.Context, message string) {
	body := gin.H{"status": "success"}
	if message != "" {
		body["message"] = message
	}
	c.JSON(http.StatusOK, body)
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Invalid request body"})
		return false
	}
	return true
}

func actor(c *gin.Context) string {
	return auth.Username(c.Request.Context())
}

func paramID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Invalid id"})
		return 0, false
	}
	return id, true
}
