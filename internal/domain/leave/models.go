package leave

import "time"

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

type LeaveType struct {
	Name       string `json:"name"`
	AnnualDays int    `json:"annualDays"`
}

type Policy struct {
	ID            string      `json:"id"`
	Name          string      `json:"name"`
	Description   string      `json:"description,omitempty"`
	LeaveTypes    []LeaveType `json:"leaveTypes"`
	AssignedCount int         `json:"assignedCount"`
	CreatedAt     time.Time   `json:"createdAt"`
}

type Assignment struct {
	ID         string    `json:"id"`
	EmployeeID string    `json:"employeeId"`
	PolicyID   string    `json:"policyId"`
	CreatedAt  time.Time `json:"createdAt"`
}

type Request struct {
	ID         string    `json:"id"`
	EmployeeID string    `json:"employeeId"`
	LeaveType  string    `json:"leaveType"`
	StartDate  string    `json:"startDate"`
	EndDate    string    `json:"endDate"`
	Reason     string    `json:"reason"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"createdAt"`
}

type Balance struct {
	LeaveType string `json:"leaveType"`
	Allocated int    `json:"allocated"`
	Used      int    `json:"used"`
	Remaining int    `json:"remaining"`
}
