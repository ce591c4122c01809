package directory

import "errors"

var (
	ErrDepartmentNotFound = errors.New("department not found")
	ErrDepartmentInUse    = errors.New("department has employees assigned")
	ErrEmployeeNotFound   = errors.New("employee not found")
	ErrEmailTaken         = errors.New("employee email already exists")
	ErrManagerNotFound    = errors.New("reporting manager not found")
	ErrManagerCycle       = errors.New("manager chain contains a cycle")
)
