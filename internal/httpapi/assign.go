package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type assignRequest struct {
	CaseNumber string `json:"case_number"`
	LawyerName string `json:"lawyer_name"`
	Notify     bool   `json:"notify"`
}

// AssignLawyer records the assignment first. A failed email is reported in
// the message but never turns the response into an error.
func (h *Handlers) AssignLawyer(c *gin.Context) {
	var req assignRequest
	if !bindJSON(c, &req) {
		return
	}
	ack, err := h.Assignments.Assign(c.Request.Context(), actor(c), req.CaseNumber, req.LawyerName, req.Notify)
	if err != nil {
		fail(c, err)
		return
	}
	msg := "Lawyer assigned successfully"
	if ack.NotifyErr != nil {
		msg = "Lawyer assigned successfully, but the email notification could not be sent"
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "message": msg, "notified": ack.Notified})
}
