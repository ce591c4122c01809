package payroll

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

type Service struct {
	Store *Store
}

func NewService(store *Store) *Service {
	return &Service{Store: store}
}

type StructureInput struct {
	Name          string      `json:"name"`
	Components    []Component `json:"components"`
	PrintFormatID string      `json:"printFormatId"`
}

func (s *Service) CreateStructure(ctx context.Context, input StructureInput) (Structure, error) {
	structure := Structure{
		ID:            uuid.NewString(),
		Name:          input.Name,
		Components:    input.Components,
		PrintFormatID: input.PrintFormatID,
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.Store.CreateStructure(ctx, structure); err != nil {
		return Structure{}, err
	}
	structure.NetSalary = NetSalary(structure.Components)
	return structure, nil
}

func (s *Service) UpdateStructure(ctx context.Context, id string, input StructureInput) (Structure, error) {
	structure, err := s.Store.StructureByID(ctx, id)
	if err != nil {
		return Structure{}, err
	}
	structure.Name = input.Name
	structure.Components = input.Components
	structure.PrintFormatID = input.PrintFormatID
	if err := s.Store.UpdateStructure(ctx, structure); err != nil {
		return Structure{}, err
	}
	structure.NetSalary = NetSalary(structure.Components)
	return structure, nil
}

func (s *Service) DeleteStructure(ctx context.Context, id string) error {
	count, err := s.Store.CountCompensationsForStructure(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrStructureInUse
	}
	return s.Store.DeleteStructure(ctx, id)
}

func (s *Service) ListStructures(ctx context.Context) ([]Structure, error) {
	return s.Store.ListStructures(ctx)
}

// Assign points the employee's compensation at the structure, replacing any
// previous assignment in place.
func (s *Service) Assign(ctx context.Context, employeeID, structureID string) (Compensation, error) {
	exists, err := s.Store.EmployeeExists(ctx, employeeID)
	if err != nil {
		return Compensation{}, err
	}
	if !exists {
		return Compensation{}, ErrEmployeeNotFound
	}
	if _, err := s.Store.StructureByID(ctx, structureID); err != nil {
		return Compensation{}, err
	}

	return s.Store.UpsertCompensation(ctx, Compensation{
		ID:          uuid.NewString(),
		EmployeeID:  employeeID,
		StructureID: structureID,
		CreatedAt:   time.Now().UTC(),
	})
}

// GetPayroll returns nil without error when the employee has no compensation.
func (s *Service) GetPayroll(ctx context.Context, employeeID string) (*CompensationDetail, error) {
	comp, err := s.Store.CompensationByEmployee(ctx, employeeID)
	if errors.Is(err, ErrNoCompensation) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	structure, err := s.Store.StructureByID(ctx, comp.StructureID)
	if err != nil {
		return nil, err
	}
	return &CompensationDetail{Compensation: comp, Structure: structure}, nil
}

func (s *Service) GeneratePayslip(ctx context.Context, employeeID, month string) (Payslip, error) {
	exists, err := s.Store.EmployeeExists(ctx, employeeID)
	if err != nil {
		return Payslip{}, err
	}
	if !exists {
		return Payslip{}, ErrEmployeeNotFound
	}

	comp, err := s.Store.CompensationByEmployee(ctx, employeeID)
	if err != nil {
		return Payslip{}, err
	}
	structure, err := s.Store.StructureByID(ctx, comp.StructureID)
	if err != nil {
		return Payslip{}, err
	}
	if len(structure.Components) == 0 {
		return Payslip{}, ErrEmptyStructure
	}

	// Friendly pre-check; the unique index on (employee_id, month) is what
	// actually enforces the invariant under concurrency.
	taken, err := s.Store.PayslipExists(ctx, employeeID, month)
	if err != nil {
		return Payslip{}, err
	}
	if taken {
		return Payslip{}, ErrPayslipExists
	}

	amounts := Categorize(structure.Components)
	slip := Payslip{
		ID:          uuid.NewString(),
		EmployeeID:  employeeID,
		Month:       month,
		Basic:       amounts.Basic,
		Allowances:  amounts.Allowances,
		Deductions:  amounts.Deductions,
		NetPay:      amounts.Net,
		GeneratedAt: time.Now().UTC(),
	}
	if err := s.Store.InsertPayslip(ctx, slip); err != nil {
		return Payslip{}, err
	}
	return slip, nil
}

func (s *Service) ListPayslips(ctx context.Context, employeeID string) ([]Payslip, error) {
	return s.Store.ListPayslipsByEmployee(ctx, employeeID)
}

func (s *Service) GetPayslip(ctx context.Context, id string) (Payslip, error) {
	return s.Store.PayslipByID(ctx, id)
}
