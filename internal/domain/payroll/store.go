package payroll

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) CreateStructure(ctx context.Context, structure Structure) error {
	components, err := json.Marshal(structure.Components)
	if err != nil {
		return err
	}
	_, err = s.DB.Exec(ctx, `
    INSERT INTO payroll_structures (id, name, components, print_format_id, created_at)
    VALUES ($1,$2,$3,$4,$5)
  `, structure.ID, structure.Name, components, nullIfEmpty(structure.PrintFormatID), structure.CreatedAt)
	return err
}

func (s *Store) UpdateStructure(ctx context.Context, structure Structure) error {
	components, err := json.Marshal(structure.Components)
	if err != nil {
		return err
	}
	tag, err := s.DB.Exec(ctx, `
    UPDATE payroll_structures
    SET name = $1, components = $2, print_format_id = $3
    WHERE id = $4
  `, structure.Name, components, nullIfEmpty(structure.PrintFormatID), structure.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrStructureNotFound
	}
	return nil
}

func (s *Store) DeleteStructure(ctx context.Context, id string) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM payroll_structures WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrStructureNotFound
	}
	return nil
}

// ListStructures includes a live count of compensations referencing each
// structure; the count is never stored.
func (s *Store) ListStructures(ctx context.Context) ([]Structure, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT ps.id, ps.name, ps.components, COALESCE(ps.print_format_id, ''), ps.created_at,
           (SELECT COUNT(1) FROM compensations c WHERE c.structure_id = ps.id)
    FROM payroll_structures ps
    ORDER BY ps.name
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var structures []Structure
	for rows.Next() {
		var st Structure
		var components []byte
		if err := rows.Scan(&st.ID, &st.Name, &components, &st.PrintFormatID, &st.CreatedAt, &st.AssignedCount); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(components, &st.Components); err != nil {
			return nil, err
		}
		st.NetSalary = NetSalary(st.Components)
		structures = append(structures, st)
	}
	return structures, rows.Err()
}

func (s *Store) StructureByID(ctx context.Context, id string) (Structure, error) {
	var st Structure
	var components []byte
	err := s.DB.QueryRow(ctx, `
    SELECT id, name, components, COALESCE(print_format_id, ''), created_at
    FROM payroll_structures
    WHERE id = $1
  `, id).Scan(&st.ID, &st.Name, &components, &st.PrintFormatID, &st.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Structure{}, ErrStructureNotFound
	}
	if err != nil {
		return Structure{}, err
	}
	if err := json.Unmarshal(components, &st.Components); err != nil {
		return Structure{}, err
	}
	st.NetSalary = NetSalary(st.Components)
	return st, nil
}

func (s *Store) CountCompensationsForStructure(ctx context.Context, structureID string) (int, error) {
	var count int
	err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM compensations WHERE structure_id = $1", structureID).Scan(&count)
	return count, err
}

// UpsertCompensation keeps the one-compensation-per-employee invariant via the
// unique index on employee_id.
func (s *Store) UpsertCompensation(ctx context.Context, comp Compensation) (Compensation, error) {
	err := s.DB.QueryRow(ctx, `
    INSERT INTO compensations (id, employee_id, structure_id, created_at)
    VALUES ($1,$2,$3,$4)
    ON CONFLICT (employee_id) DO UPDATE SET structure_id = EXCLUDED.structure_id
    RETURNING id, employee_id, structure_id, created_at
  `, comp.ID, comp.EmployeeID, comp.StructureID, comp.CreatedAt).
		Scan(&comp.ID, &comp.EmployeeID, &comp.StructureID, &comp.CreatedAt)
	return comp, err
}

func (s *Store) CompensationByEmployee(ctx context.Context, employeeID string) (Compensation, error) {
	var comp Compensation
	err := s.DB.QueryRow(ctx, `
    SELECT id, employee_id, structure_id, created_at
    FROM compensations
    WHERE employee_id = $1
  `, employeeID).Scan(&comp.ID, &comp.EmployeeID, &comp.StructureID, &comp.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Compensation{}, ErrNoCompensation
	}
	return comp, err
}

func (s *Store) InsertPayslip(ctx context.Context, slip Payslip) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO payslips (id, employee_id, month, basic, allowances, deductions, net_pay, generated_at)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
  `, slip.ID, slip.EmployeeID, slip.Month, slip.Basic, slip.Allowances, slip.Deductions, slip.NetPay, slip.GeneratedAt)
	if isUniqueViolation(err) {
		return ErrPayslipExists
	}
	return err
}

func (s *Store) PayslipExists(ctx context.Context, employeeID, month string) (bool, error) {
	var count int
	err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM payslips WHERE employee_id = $1 AND month = $2", employeeID, month).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *Store) ListPayslipsByEmployee(ctx context.Context, employeeID string) ([]Payslip, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, employee_id, month, basic, allowances, deductions, net_pay, generated_at
    FROM payslips
    WHERE employee_id = $1
    ORDER BY month DESC
  `, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var slips []Payslip
	for rows.Next() {
		var p Payslip
		if err := rows.Scan(&p.ID, &p.EmployeeID, &p.Month, &p.Basic, &p.Allowances, &p.Deductions, &p.NetPay, &p.GeneratedAt); err != nil {
			return nil, err
		}
		slips = append(slips, p)
	}
	return slips, rows.Err()
}

func (s *Store) PayslipByID(ctx context.Context, id string) (Payslip, error) {
	var p Payslip
	err := s.DB.QueryRow(ctx, `
    SELECT id, employee_id, month, basic, allowances, deductions, net_pay, generated_at
    FROM payslips
    WHERE id = $1
  `, id).Scan(&p.ID, &p.EmployeeID, &p.Month, &p.Basic, &p.Allowances, &p.Deductions, &p.NetPay, &p.GeneratedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Payslip{}, ErrPayslipNotFound
	}
	return p, err
}

func (s *Store) EmployeeExists(ctx context.Context, id string) (bool, error) {
	var count int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM employees WHERE id = $1", id).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

func nullIfEmpty(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
