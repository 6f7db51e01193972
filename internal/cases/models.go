package cases

import "time"

// Case is a client matter. CaseNumber is the client's NIC in the UI.
type Case struct {
	CaseNumber string    `json:"nic"`
	ClientName string    `json:"name"`
	Email      string    `json:"email"`
	Contact    string    `json:"number"`
	Address    string    `json:"address"`
	Lawyer1    string    `json:"lawyer1"`
	Lawyer2    string    `json:"lawyer2"`
	Lawyer3    string    `json:"lawyer3"`
	Note       string    `json:"note"`
	LastDate   string    `json:"last_date"`
	NextDate   string    `json:"next_date"`
	CaseType   string    `json:"casetype"`
	Status     Status    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`

	// AssignedLawyer is filled only by ListWithAssignments.
	AssignedLawyer *string `json:"assigned_lawyer,omitempty"`
}

// dateLayout is the on-disk and wire format for court dates.
const dateLayout = "2006-01-02"
