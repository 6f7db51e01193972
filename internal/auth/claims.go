package auth

import "github.com/golang-jwt/jwt/v5"

// Claims are the only supported JWT claims shape for this service.
// Role and permissions travel in the token so verification needs no
// database round-trip. Subject carries the username.
type Claims struct {
	jwt.RegisteredClaims

	Username    string   `json:"username"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
}

func (c Claims) Identity() Identity {
	return Identity{
		Username:    c.Username,
		Role:        c.Role,
		Permissions: append([]string(nil), c.Permissions...),
	}
}
