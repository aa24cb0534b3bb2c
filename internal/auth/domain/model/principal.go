package model

// Role identifies what a signed-in caller may do.
type Role string

const (
	// RoleAdmin may manage every catalog resource.
	RoleAdmin Role = "admin"
	// RoleUser is a visitor who left contact details.
	RoleUser Role = "user"
)

// Principal is the signed-in caller returned by the login endpoints.
type Principal struct {
	Role  Role   `json:"role"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
	Token string `json:"token,omitempty"`
}

// IsAdmin reports whether the principal holds the admin role.
func (p *Principal) IsAdmin() bool {
	return p != nil && p.Role == RoleAdmin
}
