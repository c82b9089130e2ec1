package view

import "github.com/csemotors/dealership/internal/core/domain"

// Page is the data handed to every template.
type Page struct {
	Title    string
	Identity domain.Identity
	Notices  []string
	Nav      []domain.Classification

	// Form holds submitted or prefilled values. It is never nil on form
	// pages and never carries a password.
	Form   any
	Errors map[string]string

	Data any
}

// Account returns the caller's claims, or nil for an anonymous visitor.
func (p Page) Account() *domain.Claims {
	c, ok := p.Identity.Claims()
	if !ok {
		return nil
	}
	return &c
}

// IsStaff reports whether the caller may reach inventory management.
func (p Page) IsStaff() bool {
	return p.Identity.HasRole(domain.RoleEmployee, domain.RoleAdmin)
}

// Err returns the message recorded for field, or "".
func (p Page) Err(field string) string {
	return p.Errors[field]
}

// ClassificationData backs the classification listing page.
type ClassificationData struct {
	Classification domain.Classification
	Vehicles       []domain.Vehicle
}

// DetailData backs the vehicle detail page. ViewerID is 0 for anonymous
// visitors and decides which comments show edit controls.
type DetailData struct {
	Vehicle  domain.Vehicle
	Comments []domain.Comment
	ViewerID int64
}

// ErrorData backs the error page.
type ErrorData struct {
	Status  int
	Message string
}
