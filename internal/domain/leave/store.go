package leave

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) CreatePolicy(ctx context.Context, policy Policy) error {
	leaveTypes, err := json.Marshal(policy.LeaveTypes)
	if err != nil {
		return err
	}
	_, err = s.DB.Exec(ctx, `
    INSERT INTO leave_policies (id, name, description, leave_types, created_at)
    VALUES ($1,$2,$3,$4,$5)
  `, policy.ID, policy.Name, nullIfEmpty(policy.Description), leaveTypes, policy.CreatedAt)
	return err
}

func (s *Store) UpdatePolicy(ctx context.Context, policy Policy) error {
	leaveTypes, err := json.Marshal(policy.LeaveTypes)
	if err != nil {
		return err
	}
	tag, err := s.DB.Exec(ctx, `
    UPDATE leave_policies
    SET name = $1, description = $2, leave_types = $3
    WHERE id = $4
  `, policy.Name, nullIfEmpty(policy.Description), leaveTypes, policy.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrPolicyNotFound
	}
	return nil
}

func (s *Store) DeletePolicy(ctx context.Context, id string) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM leave_policies WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrPolicyNotFound
	}
	return nil
}

func (s *Store) ListPolicies(ctx context.Context) ([]Policy, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT lp.id, lp.name, COALESCE(lp.description, ''), lp.leave_types, lp.created_at,
           (SELECT COUNT(1) FROM leave_policy_assignments a WHERE a.policy_id = lp.id)
    FROM leave_policies lp
    ORDER BY lp.name
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var policies []Policy
	for rows.Next() {
		var p Policy
		var leaveTypes []byte
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &leaveTypes, &p.CreatedAt, &p.AssignedCount); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(leaveTypes, &p.LeaveTypes); err != nil {
			return nil, err
		}
		policies = append(policies, p)
	}
	return policies, rows.Err()
}

func (s *Store) PolicyByID(ctx context.Context, id string) (Policy, error) {
	var p Policy
	var leaveTypes []byte
	err := s.DB.QueryRow(ctx, `
    SELECT id, name, COALESCE(description, ''), leave_types, created_at
    FROM leave_policies
    WHERE id = $1
  `, id).Scan(&p.ID, &p.Name, &p.Description, &leaveTypes, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Policy{}, ErrPolicyNotFound
	}
	if err != nil {
		return Policy{}, err
	}
	if err := json.Unmarshal(leaveTypes, &p.LeaveTypes); err != nil {
		return Policy{}, err
	}
	return p, nil
}

func (s *Store) CountAssignmentsForPolicy(ctx context.Context, policyID string) (int, error) {
	var count int
	err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM leave_policy_assignments WHERE policy_id = $1", policyID).Scan(&count)
	return count, err
}

func (s *Store) UpsertAssignment(ctx context.Context, assignment Assignment) (Assignment, error) {
	err := s.DB.QueryRow(ctx, `
    INSERT INTO leave_policy_assignments (id, employee_id, policy_id, created_at)
    VALUES ($1,$2,$3,$4)
    ON CONFLICT (employee_id) DO UPDATE SET policy_id = EXCLUDED.policy_id
    RETURNING id, employee_id, policy_id, created_at
  `, assignment.ID, assignment.EmployeeID, assignment.PolicyID, assignment.CreatedAt).
		Scan(&assignment.ID, &assignment.EmployeeID, &assignment.PolicyID, &assignment.CreatedAt)
	return assignment, err
}

func (s *Store) AssignmentByEmployee(ctx context.Context, employeeID string) (Assignment, error) {
	var a Assignment
	err := s.DB.QueryRow(ctx, `
    SELECT id, employee_id, policy_id, created_at
    FROM leave_policy_assignments
    WHERE employee_id = $1
  `, employeeID).Scan(&a.ID, &a.EmployeeID, &a.PolicyID, &a.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Assignment{}, ErrNoAssignment
	}
	return a, err
}

func (s *Store) CreateRequest(ctx context.Context, req Request) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO leave_requests (id, employee_id, leave_type, start_date, end_date, reason, status, created_at)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
  `, req.ID, req.EmployeeID, req.LeaveType, req.StartDate, req.EndDate, req.Reason, req.Status, req.CreatedAt)
	return err
}

const requestColumns = "id, employee_id, leave_type, start_date, end_date, reason, status, created_at"

func (s *Store) ListRequests(ctx context.Context) ([]Request, error) {
	return s.queryRequests(ctx, "SELECT "+requestColumns+" FROM leave_requests ORDER BY created_at DESC")
}

func (s *Store) ListRequestsByEmployee(ctx context.Context, employeeID string) ([]Request, error) {
	return s.queryRequests(ctx, "SELECT "+requestColumns+" FROM leave_requests WHERE employee_id = $1 ORDER BY created_at DESC", employeeID)
}

func (s *Store) ListApprovedRequests(ctx context.Context, employeeID string) ([]Request, error) {
	return s.queryRequests(ctx, "SELECT "+requestColumns+" FROM leave_requests WHERE employee_id = $1 AND status = $2", employeeID, StatusApproved)
}

func (s *Store) queryRequests(ctx context.Context, sql string, args ...any) ([]Request, error) {
	rows, err := s.DB.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []Request
	for rows.Next() {
		var r Request
		if err := rows.Scan(&r.ID, &r.EmployeeID, &r.LeaveType, &r.StartDate, &r.EndDate, &r.Reason, &r.Status, &r.CreatedAt); err != nil {
			return nil, err
		}
		requests = append(requests, r)
	}
	return requests, rows.Err()
}

func (s *Store) UpdateRequestStatus(ctx context.Context, id, status string) (Request, error) {
	var r Request
	err := s.DB.QueryRow(ctx, `
    UPDATE leave_requests SET status = $1 WHERE id = $2
    RETURNING `+requestColumns,
		status, id).Scan(&r.ID, &r.EmployeeID, &r.LeaveType, &r.StartDate, &r.EndDate, &r.Reason, &r.Status, &r.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Request{}, ErrRequestNotFound
	}
	return r, err
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
