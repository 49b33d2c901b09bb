package domain

// SubmitQuoteRequest carries the public quote form fields.
// Fields are trimmed before validation; field order determines the
// order of collected validation messages.
type SubmitQuoteRequest struct {
	FirstName   string `json:"first_name" validate:"required"`
	LastName    string `json:"last_name" validate:"required"`
	Email       string `json:"email" validate:"required,basicemail"`
	Description string `json:"description" validate:"required"`
	Phone       string `json:"phone"`
	Project     string `json:"project"`
}

// UpdateStatusRequest is the body of PATCH /api/quotes/{id}/status
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=new progress done archive"`
}

// LoginRequest is the body of POST /admin/login for programmatic callers.
// Browser form posts send the same field as form data.
type LoginRequest struct {
	Password string `json:"password" validate:"required"`
}

// SubmitQuoteResponse is returned to programmatic submitters
type SubmitQuoteResponse struct {
	Success bool     `json:"success"`
	Message string   `json:"message,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}

// QuoteResponse wraps a single mutated quote
type QuoteResponse struct {
	Success bool   `json:"success"`
	Quote   *Quote `json:"quote,omitempty"`
}

// SuccessResponse is the minimal acknowledgment body
type SuccessResponse struct {
	Success bool `json:"success"`
}
