package domain

import "strings"

// Role is the coarse permission tier carried in every session.
type Role string

const (
	RoleClient   Role = "Client"
	RoleEmployee Role = "Employee"
	RoleAdmin    Role = "Admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleClient, RoleEmployee, RoleAdmin:
		return true
	}
	return false
}

// ParseRole maps a stored account_type value to a Role.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.TrimSpace(s))
	return r, r.Valid()
}

// Account models a registered dealership account.
// PasswordHash is the bcrypt credential and is never serialised.
type Account struct {
	ID           int64  `json:"account_id"`
	FirstName    string `json:"account_firstname"`
	LastName     string `json:"account_lastname"`
	Email        string `json:"account_email"`
	PasswordHash string `json:"-"`
	Role         Role   `json:"account_type"`
}

// Claims returns the session claim set for the account. The credential is
// deliberately absent.
func (a *Account) Claims() Claims {
	return Claims{
		AccountID: a.ID,
		FirstName: a.FirstName,
		LastName:  a.LastName,
		Email:     a.Email,
		Role:      a.Role,
	}
}

// NormalizeEmail lower-cases and trims an email address so lookups and
// uniqueness checks agree with what registration stored.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
