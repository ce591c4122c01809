package leave

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

type PolicyInput struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	LeaveTypes  []LeaveType `json:"leaveTypes"`
}

func (s *Service) CreatePolicy(ctx context.Context, input PolicyInput) (Policy, error) {
	policy := Policy{
		ID:          uuid.NewString(),
		Name:        input.Name,
		Description: input.Description,
		LeaveTypes:  input.LeaveTypes,
		CreatedAt:   time.Now().UTC(),
	}
	if policy.LeaveTypes == nil {
		policy.LeaveTypes = []LeaveType{}
	}
	if err := s.Store.CreatePolicy(ctx, policy); err != nil {
		return Policy{}, err
	}
	return policy, nil
}

func (s *Service) UpdatePolicy(ctx context.Context, id string, input PolicyInput) (Policy, error) {
	policy, err := s.Store.PolicyByID(ctx, id)
	if err != nil {
		return Policy{}, err
	}
	policy.Name = input.Name
	policy.Description = input.Description
	policy.LeaveTypes = input.LeaveTypes
	if policy.LeaveTypes == nil {
		policy.LeaveTypes = []LeaveType{}
	}
	if err := s.Store.UpdatePolicy(ctx, policy); err != nil {
		return Policy{}, err
	}
	return policy, nil
}

func (s *Service) DeletePolicy(ctx context.Context, id string) error {
	count, err := s.Store.CountAssignmentsForPolicy(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrPolicyInUse
	}
	return s.Store.DeletePolicy(ctx, id)
}

func (s *Service) ListPolicies(ctx context.Context) ([]Policy, error) {
	return s.Store.ListPolicies(ctx)
}

// Assign binds the employee to the policy, replacing any existing assignment.
func (s *Service) Assign(ctx context.Context, employeeID, policyID string) (Assignment, error) {
	exists, err := s.Store.EmployeeExists(ctx, employeeID)
	if err != nil {
		return Assignment{}, err
	}
	if !exists {
		return Assignment{}, ErrEmployeeNotFound
	}
	if _, err := s.Store.PolicyByID(ctx, policyID); err != nil {
		return Assignment{}, err
	}

	return s.Store.UpsertAssignment(ctx, Assignment{
		ID:         uuid.NewString(),
		EmployeeID: employeeID,
		PolicyID:   policyID,
		CreatedAt:  time.Now().UTC(),
	})
}

type RequestInput struct {
	LeaveType string `json:"leaveType"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Reason    string `json:"reason"`
}

// SubmitRequest files a pending leave request for the employee. The leave
// type must exist, by exact name, in the employee's assigned policy.
func (s *Service) SubmitRequest(ctx context.Context, employeeID string, input RequestInput) (Request, error) {
	assignment, err := s.Store.AssignmentByEmployee(ctx, employeeID)
	if err != nil {
		return Request{}, err
	}
	policy, err := s.Store.PolicyByID(ctx, assignment.PolicyID)
	if err != nil {
		return Request{}, err
	}

	found := false
	for _, lt := range policy.LeaveTypes {
		if lt.Name == input.LeaveType {
			found = true
			break
		}
	}
	if !found {
		return Request{}, ErrUnknownLeaveType
	}

	req := Request{
		ID:         uuid.NewString(),
		EmployeeID: employeeID,
		LeaveType:  input.LeaveType,
		StartDate:  input.StartDate,
		EndDate:    input.EndDate,
		Reason:     input.Reason,
		Status:     StatusPending,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.Store.CreateRequest(ctx, req); err != nil {
		return Request{}, err
	}
	return req, nil
}

func (s *Service) ListAllRequests(ctx context.Context) ([]Request, error) {
	return s.Store.ListRequests(ctx)
}

func (s *Service) ListEmployeeRequests(ctx context.Context, employeeID string) ([]Request, error) {
	return s.Store.ListRequestsByEmployee(ctx, employeeID)
}

// UpdateStatus moves a request to approved or rejected. Any request may be
// re-decided; there is no transition graph.
func (s *Service) UpdateStatus(ctx context.Context, id, status string) (Request, error) {
	if status != StatusApproved && status != StatusRejected {
		return Request{}, ErrInvalidStatus
	}
	return s.Store.UpdateRequestStatus(ctx, id, status)
}

// Balances computes remaining leave per type of the employee's assigned
// policy. No assignment means an empty result, not an error.
func (s *Service) Balances(ctx context.Context, employeeID string) ([]Balance, error) {
	assignment, err := s.Store.AssignmentByEmployee(ctx, employeeID)
	if errors.Is(err, ErrNoAssignment) {
		return []Balance{}, nil
	}
	if err != nil {
		return nil, err
	}
	policy, err := s.Store.PolicyByID(ctx, assignment.PolicyID)
	if err != nil {
		return nil, err
	}

	approved, err := s.Store.ListApprovedRequests(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	return ComputeBalances(policy.LeaveTypes, approved), nil
}
