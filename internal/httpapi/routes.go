package httpapi

import (
	"lawfirm-cms/internal/auth"
	"lawfirm-cms/internal/rbac"

	"github.com/gin-gonic/gin"
)

// Register mounts every /api route on api. Each protected route re-checks
// the caller's capability on the server; the UI gate is never trusted alone.
func (h *Handlers) Register(api *gin.RouterGroup) {
	api.POST("/login", h.Login)
	api.POST("/logout", h.Logout)

	p := api.Group("")
	p.Use(auth.RequireSession(h.Tokens))

	p.GET("/verifyToken", h.VerifyToken)
	p.GET("/getLoginActivity", h.LoginActivity)
	p.POST("/logAction", h.LogAction)
	p.POST("/changePassword", h.ChangePassword)
	p.GET("/getActivityLogs", rbac.RequireAdmin(), h.ActivityLogs)

	p.GET("/getLawyers", rbac.RequirePermission(rbac.CapLawyers), h.ListLawyers)
	p.POST("/addLawyer", rbac.RequirePermission(rbac.CapAddLawyer), h.AddLawyer)
	p.POST("/deleteLawyer", rbac.RequirePermission(rbac.CapAddLawyer), h.DeleteLawyer)

	p.GET("/getUsers", rbac.RequirePermission(rbac.CapCases), h.ListCases)
	p.POST("/addUser", rbac.RequirePermission(rbac.CapAddUser), h.AddCase)
	p.POST("/deleteUser", rbac.RequirePermission(rbac.CapCases), h.DeleteCase)
	p.POST("/updateStatus", rbac.RequirePermission(rbac.CapCases), h.UpdateStatus)

	p.GET("/getUserCases", rbac.RequirePermission(rbac.CapAssign), h.ListCasesWithAssignments)
	p.POST("/assignLawyer", rbac.RequirePermission(rbac.CapAssign), h.AssignLawyer)

	p.POST("/uploadDocument", rbac.RequirePermission(rbac.CapCases), h.UploadDocument)
	p.GET("/getDocuments/:nic", rbac.RequirePermission(rbac.CapCases), h.ListDocuments)
	p.GET("/documents/:id/download", rbac.RequirePermission(rbac.CapCases), h.DownloadDocument)
	p.POST("/deleteDocument", rbac.RequirePermission(rbac.CapCases), h.DeleteDocument)

	p.GET("/getTodos", rbac.RequirePermission(rbac.CapDashboard), h.ListTodos)
	p.POST("/addTodo", rbac.RequirePermission(rbac.CapDashboard), h.AddTodo)
	p.POST("/deleteTodo", rbac.RequirePermission(rbac.CapDashboard), h.DeleteTodo)

	p.GET("/dashboard_counts", rbac.RequirePermission(rbac.CapDashboard), h.DashboardCounts)
	p.GET("/getCaseStats", rbac.RequirePermission(rbac.CapDashboard), h.CaseStats)
	p.GET("/getReportData", rbac.RequirePermission(rbac.CapReport), h.ReportData)

	p.GET("/getEditors", rbac.RequirePermission(rbac.CapAddEditor), h.ListEditors)
	p.POST("/addEditor", rbac.RequirePermission(rbac.CapAddEditor), h.AddEditor)
	p.POST("/deleteEditor", rbac.RequirePermission(rbac.CapAddEditor), h.DeleteEditor)
}
