package directory

import (
	"context"
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

func (s *Store) CreateDepartment(ctx context.Context, dept Department) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO departments (id, name, description, created_at)
    VALUES ($1,$2,$3,$4)
  `, dept.ID, dept.Name, nullIfEmpty(dept.Description), dept.CreatedAt)
	return err
}

func (s *Store) ListDepartments(ctx context.Context) ([]Department, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, name, COALESCE(description, ''), created_at
    FROM departments
    ORDER BY name
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var departments []Department
	for rows.Next() {
		var d Department
		if err := rows.Scan(&d.ID, &d.Name, &d.Description, &d.CreatedAt); err != nil {
			return nil, err
		}
		departments = append(departments, d)
	}
	return departments, rows.Err()
}

func (s *Store) DepartmentByID(ctx context.Context, id string) (Department, error) {
	var d Department
	err := s.DB.QueryRow(ctx, `
    SELECT id, name, COALESCE(description, ''), created_at
    FROM departments
    WHERE id = $1
  `, id).Scan(&d.ID, &d.Name, &d.Description, &d.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Department{}, ErrDepartmentNotFound
	}
	return d, err
}

func (s *Store) UpdateDepartment(ctx context.Context, dept Department) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE departments SET name = $1, description = $2 WHERE id = $3
  `, dept.Name, nullIfEmpty(dept.Description), dept.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrDepartmentNotFound
	}
	return nil
}

func (s *Store) DeleteDepartment(ctx context.Context, id string) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM departments WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrDepartmentNotFound
	}
	return nil
}

func (s *Store) CountEmployeesInDepartment(ctx context.Context, departmentID string) (int, error) {
	var count int
	err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM employees WHERE department_id = $1", departmentID).Scan(&count)
	return count, err
}

func (s *Store) CreateEmployee(ctx context.Context, emp Employee) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO employees (id, employee_code, name, email, department_id, joining_date, manager_id, account_id, created_at)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
  `, emp.ID, emp.EmployeeCode, emp.Name, emp.Email, nullIfEmpty(emp.DepartmentID), emp.JoiningDate,
		nullIfEmpty(emp.ManagerID), nullIfEmpty(emp.AccountID), emp.CreatedAt)
	if isUniqueViolation(err) {
		return ErrEmailTaken
	}
	return err
}

const employeeColumns = `
    id, employee_code, name, email,
    COALESCE(department_id, ''), joining_date,
    COALESCE(manager_id, ''), COALESCE(account_id, ''), created_at`

func scanEmployee(row pgx.Row) (Employee, error) {
	var e Employee
	err := row.Scan(&e.ID, &e.EmployeeCode, &e.Name, &e.Email, &e.DepartmentID,
		&e.JoiningDate, &e.ManagerID, &e.AccountID, &e.CreatedAt)
	return e, err
}

func (s *Store) ListEmployees(ctx context.Context) ([]Employee, error) {
	rows, err := s.DB.Query(ctx, "SELECT "+employeeColumns+" FROM employees ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, e)
	}
	return employees, rows.Err()
}

func (s *Store) EmployeeByID(ctx context.Context, id string) (Employee, error) {
	e, err := scanEmployee(s.DB.QueryRow(ctx, "SELECT "+employeeColumns+" FROM employees WHERE id = $1", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Employee{}, ErrEmployeeNotFound
	}
	return e, err
}

func (s *Store) EmployeeExists(ctx context.Context, id string) (bool, error) {
	var count int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM employees WHERE id = $1", id).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *Store) UpdateEmployee(ctx context.Context, emp Employee) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE employees
    SET name = $1, email = $2, department_id = $3, joining_date = $4, manager_id = $5
    WHERE id = $6
  `, emp.Name, emp.Email, nullIfEmpty(emp.DepartmentID), emp.JoiningDate, nullIfEmpty(emp.ManagerID), emp.ID)
	if isUniqueViolation(err) {
		return ErrEmailTaken
	}
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrEmployeeNotFound
	}
	return nil
}

// DeleteEmployee removes the employee together with its compensation and leave
// policy assignment in one transaction. Payslips and leave requests are kept;
// they carry the employee id as history.
func (s *Store) DeleteEmployee(ctx context.Context, id string) error {
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, "DELETE FROM compensations WHERE employee_id = $1", id); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, "DELETE FROM leave_policy_assignments WHERE employee_id = $1", id); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, "UPDATE employees SET manager_id = NULL WHERE manager_id = $1", id); err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, "DELETE FROM employees WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrEmployeeNotFound
	}
	return tx.Commit(ctx)
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
