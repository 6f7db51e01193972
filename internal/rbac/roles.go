package rbac

import "lawfirm-cms/internal/auth"

// Capability names. Keep these stable; they are stored in editor rows and
// embedded in session tokens.
const (
	CapDashboard = "dashboard"
	CapLawyers   = "lawyers"
	CapCases     = "cases"
	CapAssign    = "assign"
	CapAddLawyer = "addlawyer"
	CapAddUser   = "adduser"
	CapReport    = "report"
	CapAddEditor = "addeditor"
)

// All lists every capability in display order. The bootstrap admin carries it.
var All = []string{
	CapDashboard,
	CapLawyers,
	CapCases,
	CapAssign,
	CapAddLawyer,
	CapAddUser,
	CapReport,
	CapAddEditor,
}

func IsKnown(capability string) bool {
	for _, c := range All {
		if c == capability {
			return true
		}
	}
	return false
}

// HasPermission is true for every capability when the identity is an admin,
// otherwise only for the capabilities the identity lists.
func HasPermission(id auth.Identity, capability string) bool {
	return id.HasPermission(capability)
}
