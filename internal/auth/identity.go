package auth

// RoleAdmin is the bootstrap administrator. It holds every capability.
const RoleAdmin = "admin"

// RoleEditor is a stored account restricted to its permission list.
const RoleEditor = "editor"

// Identity is the authenticated principal attached to a request.
type Identity struct {
	Username    string   `json:"username"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
}

func (i Identity) IsAdmin() bool { return i.Role == RoleAdmin }

// HasPermission is true unconditionally for admins; otherwise true iff
// capability is listed in the identity's permissions.
func (i Identity) HasPermission(capability string) bool {
	if i.IsAdmin() {
		return true
	}
	for _, p := range i.Permissions {
		if p == capability {
			return true
		}
	}
	return false
}
