package models

// RequestType distinguishes purchases ahead of need from immediate burials.
type RequestType string

// Request types.
const (
	RequestPreNeed RequestType = "Pre-Need"
	RequestAtNeed  RequestType = "At-Need"
)

// RequestStatusPending is the only status a stored request ever carries;
// approved and rejected requests are deleted rather than retained.
const RequestStatusPending = "Pending"

// Request is a purchase or burial inquiry awaiting administrator action.
// JSON field names match the persisted ledger format.
type Request struct {
	ID               string      `json:"id"`
	Timestamp        string      `json:"timestamp"`
	RequestType      RequestType `json:"requestType"`
	FirstName        string      `json:"firstName"`
	LastName         string      `json:"lastName"`
	Email            string      `json:"email"`
	Phone            string      `json:"phone"`
	PlotID           string      `json:"plotId,omitempty"`
	PreferredSection string      `json:"preferredSection,omitempty"`
	Block            string      `json:"block,omitempty"`
	Lot              string      `json:"lot,omitempty"`
	DeceasedName     string      `json:"deceasedName,omitempty"`
	DeathDate        string      `json:"deathDate,omitempty"`
	Notes            string      `json:"notes"`
	Status           string      `json:"status"`
}
