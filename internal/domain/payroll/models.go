package payroll

import "time"

type Component struct {
	Label  string  `json:"label"`
	Amount float64 `json:"amount"`
}

type Structure struct {
	ID            string      `json:"id"`
	Name          string      `json:"name"`
	Components    []Component `json:"components"`
	NetSalary     float64     `json:"netSalary"`
	PrintFormatID string      `json:"printFormatId,omitempty"`
	AssignedCount int         `json:"assignedCount"`
	CreatedAt     time.Time   `json:"createdAt"`
}

type Compensation struct {
	ID          string    `json:"id"`
	EmployeeID  string    `json:"employeeId"`
	StructureID string    `json:"structureId"`
	CreatedAt   time.Time `json:"createdAt"`
}

// CompensationDetail is a compensation with its structure resolved.
type CompensationDetail struct {
	Compensation
	Structure Structure `json:"structure"`
}

type Payslip struct {
	ID          string    `json:"id"`
	EmployeeID  string    `json:"employeeId"`
	Month       string    `json:"month"`
	Basic       float64   `json:"basic"`
	Allowances  float64   `json:"allowances"`
	Deductions  float64   `json:"deductions"`
	NetPay      float64   `json:"netPay"`
	GeneratedAt time.Time `json:"generatedAt"`
}
