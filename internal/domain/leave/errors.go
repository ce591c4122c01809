package leave

import "errors"

var (
	ErrPolicyNotFound   = errors.New("leave policy not found")
	ErrPolicyInUse      = errors.New("leave policy has employees assigned")
	ErrEmployeeNotFound = errors.New("employee not found")
	ErrNoAssignment     = errors.New("no leave policy assigned")
	ErrUnknownLeaveType = errors.New("leave type not in assigned policy")
	ErrRequestNotFound  = errors.New("leave request not found")
	ErrInvalidStatus    = errors.New("status must be approved or rejected")
)
