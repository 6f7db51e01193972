package httpapi

import (
	"fmt"
	"net/http"

	"lawfirm-cms/internal/audit"
	"lawfirm-cms/internal/auth"
	"lawfirm-cms/internal/editors"

	"github.com/gin-gonic/gin"
)

const msgAdminPassword = "Admin password can only be changed via server environment variables"

func (h *Handlers) ListEditors(c *gin.Context) {
	out, err := h.Editors.List(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, nonNil(out))
}

func (h *Handlers) AddEditor(c *gin.Context) {
	var req editors.CreateInput
	if !bindJSON(c, &req) {
		return
	}
	e, err := h.Editors.Create(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	h.Audit.Record(c.Request.Context(), actor(c), audit.ActionAddEditor, fmt.Sprintf("Added editor %s", e.Username))
	success(c, "Editor added successfully")
}

func (h *Handlers) DeleteEditor(c *gin.Context) {
	var req idRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.Editors.Delete(c.Request.Context(), req.ID); err != nil {
		fail(c, err)
		return
	}
	h.Audit.Record(c.Request.Context(), actor(c), audit.ActionDeleteEditor, fmt.Sprintf("Deleted editor #%d", req.ID))
	success(c, "Editor deleted successfully")
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (h *Handlers) ChangePassword(c *gin.Context) {
	id, err := auth.IdentityFrom(c.Request.Context())
	if err != nil {
		fail(c, auth.ErrUnauthenticated)
		return
	}
	if id.IsAdmin() {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"status": "error", "message": msgAdminPassword})
		return
	}
	var req changePasswordRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.Editors.ChangePassword(c.Request.Context(), id.Username, req.CurrentPassword, req.NewPassword); err != nil {
		fail(c, err)
		return
	}
	h.Audit.Record(c.Request.Context(), id.Username, audit.ActionChangePassword, "User changed their account password")
	success(c, "Password changed successfully")
}
