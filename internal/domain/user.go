package domain

import "time"

type Role string

const (
	RoleOrgDelegate Role = "ORG_DELEGATE"
	RoleOrgManager  Role = "ORG_MANAGER"
	RoleDeveloper   Role = "DEVELOPER"
	RoleAdmin       Role = "ADMIN"
)

// User is a profile handed over by the identity federation layer after a
// successful SPID login. The email is the primary key across the system.
type User struct {
	Email      string    `json:"email"`
	FirstName  string    `json:"first_name"`
	FamilyName string    `json:"family_name"`
	FiscalCode string    `json:"fiscal_code"`
	Role       Role      `json:"role"`
	CreatedAt  time.Time `json:"created_at"`
}

// Identity is the authenticated caller attached to every API call. The role
// is immutable for the lifetime of a session.
type Identity struct {
	Email string `json:"email"`
	Role  Role   `json:"role"`
}
