package directory

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Service struct {
	Store *Store
}

func NewService(store *Store) *Service {
	return &Service{Store: store}
}

func (s *Service) CreateDepartment(ctx context.Context, name, description string) (Department, error) {
	dept := Department{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.Store.CreateDepartment(ctx, dept); err != nil {
		return Department{}, err
	}
	return dept, nil
}

func (s *Service) ListDepartments(ctx context.Context) ([]Department, error) {
	return s.Store.ListDepartments(ctx)
}

func (s *Service) UpdateDepartment(ctx context.Context, id, name, description string) (Department, error) {
	dept, err := s.Store.DepartmentByID(ctx, id)
	if err != nil {
		return Department{}, err
	}
	dept.Name = name
	dept.Description = description
	if err := s.Store.UpdateDepartment(ctx, dept); err != nil {
		return Department{}, err
	}
	return dept, nil
}

// DeleteDepartment refuses to delete while employees still reference it.
func (s *Service) DeleteDepartment(ctx context.Context, id string) error {
	count, err := s.Store.CountEmployeesInDepartment(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrDepartmentInUse
	}
	return s.Store.DeleteDepartment(ctx, id)
}

type EmployeeInput struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	DepartmentID string `json:"departmentId"`
	JoiningDate  string `json:"joiningDate"`
	ManagerID    string `json:"managerId"`
}

func (s *Service) CreateEmployee(ctx context.Context, input EmployeeInput) (Employee, error) {
	if input.DepartmentID != "" {
		if _, err := s.Store.DepartmentByID(ctx, input.DepartmentID); err != nil {
			return Employee{}, err
		}
	}
	if input.ManagerID != "" {
		exists, err := s.Store.EmployeeExists(ctx, input.ManagerID)
		if err != nil {
			return Employee{}, err
		}
		if !exists {
			return Employee{}, ErrManagerNotFound
		}
	}

	emp := Employee{
		ID:           uuid.NewString(),
		EmployeeCode: NewEmployeeCode(),
		Name:         input.Name,
		Email:        strings.TrimSpace(strings.ToLower(input.Email)),
		DepartmentID: input.DepartmentID,
		JoiningDate:  input.JoiningDate,
		ManagerID:    input.ManagerID,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.Store.CreateEmployee(ctx, emp); err != nil {
		return Employee{}, err
	}
	return emp, nil
}

func (s *Service) ListEmployees(ctx context.Context) ([]Employee, error) {
	return s.Store.ListEmployees(ctx)
}

func (s *Service) GetEmployee(ctx context.Context, id string) (Employee, error) {
	return s.Store.EmployeeByID(ctx, id)
}

func (s *Service) UpdateEmployee(ctx context.Context, id string, input EmployeeInput) (Employee, error) {
	emp, err := s.Store.EmployeeByID(ctx, id)
	if err != nil {
		return Employee{}, err
	}
	if input.DepartmentID != "" && input.DepartmentID != emp.DepartmentID {
		if _, err := s.Store.DepartmentByID(ctx, input.DepartmentID); err != nil {
			return Employee{}, err
		}
	}
	if input.ManagerID != "" && input.ManagerID != emp.ManagerID {
		exists, err := s.Store.EmployeeExists(ctx, input.ManagerID)
		if err != nil {
			return Employee{}, err
		}
		if !exists {
			return Employee{}, ErrManagerNotFound
		}
	}

	emp.Name = input.Name
	emp.Email = strings.TrimSpace(strings.ToLower(input.Email))
	emp.DepartmentID = input.DepartmentID
	emp.JoiningDate = input.JoiningDate
	emp.ManagerID = input.ManagerID
	if err := s.Store.UpdateEmployee(ctx, emp); err != nil {
		return Employee{}, err
	}
	return emp, nil
}

func (s *Service) DeleteEmployee(ctx context.Context, id string) error {
	return s.Store.DeleteEmployee(ctx, id)
}

func (s *Service) OrgTree(ctx context.Context) ([]OrgNode, error) {
	employees, err := s.Store.ListEmployees(ctx)
	if err != nil {
		return nil, err
	}
	return BuildOrgTree(employees)
}

// NewEmployeeCode produces a short human-readable code like EMP3F2A91BC.
func NewEmployeeCode() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "EMP" + strings.ToUpper(raw[:8])
}
