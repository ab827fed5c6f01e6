package models

// Priority of a work order.
type Priority string

// Work order priorities.
const (
	PriorityLow      Priority = "Low"
	PriorityMedium   Priority = "Medium"
	PriorityHigh     Priority = "High"
	PriorityCritical Priority = "Critical"
)

// WorkOrderStatus tracks a grounds work order.
type WorkOrderStatus string

// Work order statuses.
const (
	WorkOrderOpen       WorkOrderStatus = "Open"
	WorkOrderInProgress WorkOrderStatus = "In Progress"
	WorkOrderResolved   WorkOrderStatus = "Resolved"
	WorkOrderClosed     WorkOrderStatus = "Closed"
)

// IsOpen reports whether the work order still needs attention.
func (s WorkOrderStatus) IsOpen() bool {
	return s != WorkOrderResolved && s != WorkOrderClosed
}

// IssueStatus tracks a field issue report.
type IssueStatus string

// Issue statuses.
const (
	IssueNew           IssueStatus = "New"
	IssueInvestigating IssueStatus = "Investigating"
	IssueResolved      IssueStatus = "Resolved"
)

// BurialStatus tracks a scheduled burial.
type BurialStatus string

// Burial statuses.
const (
	BurialScheduled BurialStatus = "Scheduled"
	BurialCompleted BurialStatus = "Completed"
	BurialCancelled BurialStatus = "Cancelled"
)

// WorkOrder is a grounds maintenance task, optionally linked to a plot.
type WorkOrder struct {
	ID          string          `json:"id"`
	PlotID      string          `json:"plotId,omitempty"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Status      WorkOrderStatus `json:"status"`
	Priority    Priority        `json:"priority"`
	AssignedTo  string          `json:"assignedTo,omitempty"`
	CreatedAt   string          `json:"createdAt"`
	UpdatedAt   string          `json:"updatedAt"`
	DueDate     string          `json:"dueDate,omitempty"`
}

// IssueReport is a field problem reported at a map location.
type IssueReport struct {
	ID          string      `json:"id"`
	Location    LatLng      `json:"location"`
	Description string      `json:"description"`
	PhotoURL    string      `json:"photoUrl,omitempty"`
	ReportedBy  string      `json:"reportedBy,omitempty"`
	Status      IssueStatus `json:"status"`
	ReportedAt  string      `json:"reportedAt"`
}

// BurialEvent is a scheduled interment.
type BurialEvent struct {
	ID            string       `json:"id"`
	PlotID        string       `json:"plotId"`
	DeceasedName  string       `json:"deceasedName"`
	ScheduledDate string       `json:"scheduledDate"`
	StartTime     string       `json:"startTime"`
	FuneralHome   string       `json:"funeralHome,omitempty"`
	ContactName   string       `json:"contactName,omitempty"`
	ContactPhone  string       `json:"contactPhone,omitempty"`
	Notes         string       `json:"notes,omitempty"`
	Status        BurialStatus `json:"status"`
}
