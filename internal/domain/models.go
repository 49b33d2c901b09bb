package domain

// QuoteStatus represents the triage status of a quote request
type QuoteStatus string

const (
	QuoteStatusNew      QuoteStatus = "new"
	QuoteStatusProgress QuoteStatus = "progress"
	QuoteStatusDone     QuoteStatus = "done"
	QuoteStatusArchive  QuoteStatus = "archive"
)

// IsValid reports whether the status is one of the four known values.
// There is no transition graph: any status may follow any other.
func (s QuoteStatus) IsValid() bool {
	switch s {
	case QuoteStatusNew, QuoteStatusProgress, QuoteStatusDone, QuoteStatusArchive:
		return true
	}
	return false
}

// DateLayout is the creation timestamp format stored on a quote (local clock)
const DateLayout = "2006-01-02 15:04"

// Quote represents a stored customer project-estimate request.
// The JSON field names define the on-disk document format.
type Quote struct {
	ID          int         `json:"id"`
	FirstName   string      `json:"first_name"`
	LastName    string      `json:"last_name"`
	Email       string      `json:"email"`
	Phone       string      `json:"phone"`
	Project     string      `json:"project"`
	Description string      `json:"description"`
	Date        string      `json:"date"`
	Status      QuoteStatus `json:"status"`
}

// FullName returns the requester's display name
func (q *Quote) FullName() string {
	return q.FirstName + " " + q.LastName
}
