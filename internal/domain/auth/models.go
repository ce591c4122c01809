package auth

import "time"

const (
	RoleAdmin    = "admin"
	RoleEmployee = "employee"
)

type Account struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"fullName"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// UserContext is the authenticated caller as carried through request context.
type UserContext struct {
	AccountID string
	Email     string
	Role      string
}

func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleEmployee
}
