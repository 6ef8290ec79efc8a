package domain

import "context"

// ContactRequest represents a contact form submission
type ContactRequest struct {
	FirstName string  `json:"firstName" validate:"required"`
	LastName  string  `json:"lastName" validate:"required"`
	Email     string  `json:"email" validate:"required,email"`
	Phone     *string `json:"phone,omitempty"`
	Subject   string  `json:"subject" validate:"required"`
	Message   string  `json:"message" validate:"required"`
}

// PhoneNumber returns the optional phone, empty when absent or null
func (r *ContactRequest) PhoneNumber() string {
	if r.Phone == nil {
		return ""
	}
	return *r.Phone
}

// ContactUsecase defines the interface for contact form operations
type ContactUsecase interface {
	// SendContactMessage validates the submission, then sends the internal
	// lead notification followed by the customer auto-reply
	SendContactMessage(ctx context.Context, req *ContactRequest) error
}
