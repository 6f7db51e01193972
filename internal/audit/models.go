package audit

import "time"

// Entry is an immutable, append-only audit log record.
//
// Invariants:
// - Entries are never updated or deleted.
// - Username is the verified caller, never a client-supplied value.
// - Writes are best-effort; do not block critical flows on audit failures.
type Entry struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Action    string    `json:"action"`
	Details   string    `json:"details"`
	Timestamp time.Time `json:"timestamp"`
}

// LoginEntry records one successful sign-in.
type LoginEntry struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Timestamp time.Time `json:"timestamp"`
	IPAddress string    `json:"ip_address"`
	Device    string    `json:"device_type"`
}

// Action tags written by the server. Clients may report others via logAction.
const (
	ActionLogin          = "Login"
	ActionLogout         = "Logout"
	ActionAssignLawyer   = "Assign Lawyer"
	ActionUpdateStatus   = "Update Status"
	ActionAddCase        = "Add Case"
	ActionDeleteCase     = "Delete Case"
	ActionAddLawyer      = "Add Lawyer"
	ActionDeleteLawyer   = "Delete Lawyer"
	ActionAddEditor      = "Add Editor"
	ActionDeleteEditor   = "Delete Editor"
	ActionChangePassword = "Change Password"
	ActionUploadDocument = "Upload Document"
	ActionDeleteDocument = "Delete Document"
	ActionAddTodo        = "Add Todo"
	ActionDeleteTodo     = "Delete Todo"
)

// MaxQueryLimit caps every audit query.
const MaxQueryLimit = 500
