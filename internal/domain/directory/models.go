package directory

import "time"

type Department struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

type Employee struct {
	ID           string    `json:"id"`
	EmployeeCode string    `json:"employeeCode"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	DepartmentID string    `json:"departmentId,omitempty"`
	JoiningDate  string    `json:"joiningDate"`
	ManagerID    string    `json:"managerId,omitempty"`
	AccountID    string    `json:"accountId,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// OrgNode is one employee in the manager-reports tree.
type OrgNode struct {
	Employee Employee  `json:"employee"`
	Reports  []OrgNode `json:"reports,omitempty"`
}
