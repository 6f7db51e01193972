package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"lawfirm-cms/internal/cases"
	"lawfirm-cms/internal/lawyers"
	"lawfirm-cms/internal/todos"
	"lawfirm-cms/pkg/utils"

	"github.com/gin-gonic/gin"
)

func parsePositive(raw string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, errors.New("not a positive integer")
	}
	return n, nil
}

// --- Lawyers ---

type lawyerRequest struct {
	Name   string `json:"name"`
	NIC    string `json:"nic"`
	Email  string `json:"email"`
	Number string `json:"number"`
	Note   string `json:"note"`
}

func (h *Handlers) ListLawyers(c *gin.Context) {
	page := utils.ParsePage(c.Query("page"), c.Query("limit"))
	out, p, err := h.Lawyers.List(c.Request.Context(), c.Query("search"), page)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": out, "pagination": p})
}

func (h *Handlers) AddLawyer(c *gin.Context) {
	var req lawyerRequest
	if !bindJSON(c, &req) {
		return
	}
	err := h.Lawyers.Create(c.Request.Context(), actor(c), lawyers.Lawyer{
		NIC:     req.NIC,
		Name:    req.Name,
		Email:   req.Email,
		Contact: req.Number,
		Note:    req.Note,
	})
	if err != nil {
		fail(c, err)
		return
	}
	success(c, "Lawyer added successfully")
}

func (h *Handlers) DeleteLawyer(c *gin.Context) {
	var req nicRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.Lawyers.Delete(c.Request.Context(), actor(c), req.NIC); err != nil {
		fail(c, err)
		return
	}
	success(c, "Lawyer deleted successfully")
}

// --- Cases ---

type caseRequest struct {
	Name     string `json:"name"`
	NIC      string `json:"nic"`
	Email    string `json:"email"`
	Number   string `json:"number"`
	Address  string `json:"address"`
	Lawyer1  string `json:"lawyer1"`
	Lawyer2  string `json:"lawyer2"`
	Lawyer3  string `json:"lawyer3"`
	Note     string `json:"note"`
	LastDate string `json:"ldate"`
	NextDate string `json:"ndate"`
	CaseType string `json:"casetype"`
}

func (h *Handlers) ListCases(c *gin.Context) {
	page := utils.ParsePage(c.Query("page"), c.Query("limit"))
	out, p, err := h.Cases.List(c.Request.Context(), c.Query("search"), page)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": out, "pagination": p})
}

func (h *Handlers) ListCasesWithAssignments(c *gin.Context) {
	out, err := h.Cases.ListWithAssignments(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, nonNil(out))
}

func (h *Handlers) AddCase(c *gin.Context) {
	var req caseRequest
	if !bindJSON(c, &req) {
		return
	}
	_, err := h.Cases.Create(c.Request.Context(), actor(c), cases.Case{
		CaseNumber: req.NIC,
		ClientName: req.Name,
		Email:      req.Email,
		Contact:    req.Number,
		Address:    req.Address,
		Lawyer1:    req.Lawyer1,
		Lawyer2:    req.Lawyer2,
		Lawyer3:    req.Lawyer3,
		Note:       req.Note,
		LastDate:   req.LastDate,
		NextDate:   req.NextDate,
		CaseType:   req.CaseType,
	})
	if err != nil {
		fail(c, err)
		return
	}
	success(c, "Case added successfully")
}

func (h *Handlers) DeleteCase(c *gin.Context) {
	var req nicRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.Cases.Delete(c.Request.Context(), actor(c), req.NIC); err != nil {
		fail(c, err)
		return
	}
	success(c, "Case deleted successfully")
}

type statusRequest struct {
	NIC    string `json:"nic"`
	Status string `json:"status"`
}

func (h *Handlers) UpdateStatus(c *gin.Context) {
	var req statusRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.Cases.UpdateStatus(c.Request.Context(), actor(c), req.NIC, req.Status); err != nil {
		fail(c, err)
		return
	}
	success(c, "Status updated")
}

// --- Todos ---

func (h *Handlers) ListTodos(c *gin.Context) {
	out, err := h.Todos.List(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, nonNil(out))
}

func (h *Handlers) AddTodo(c *gin.Context) {
	var req todos.Todo
	if !bindJSON(c, &req) {
		return
	}
	if err := h.Todos.Create(c.Request.Context(), actor(c), req); err != nil {
		fail(c, err)
		return
	}
	success(c, "Task added")
}

func (h *Handlers) DeleteTodo(c *gin.Context) {
	var req idRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.Todos.Delete(c.Request.Context(), actor(c), req.ID); err != nil {
		fail(c, err)
		return
	}
	success(c, "Task deleted")
}

// --- Reporting ---

func (h *Handlers) DashboardCounts(c *gin.Context) {
	out, err := h.Reports.Dashboard(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handlers) CaseStats(c *gin.Context) {
	out, err := h.Reports.CaseStats(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, nonNil(out))
}

func (h *Handlers) ReportData(c *gin.Context) {
	out, err := h.Reports.ReportData(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, nonNil(out))
}

// nonNil keeps empty lists encoded as [] rather than null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
