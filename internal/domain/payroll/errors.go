package payroll

import "errors"

var (
	ErrStructureNotFound = errors.New("payroll structure not found")
	ErrStructureInUse    = errors.New("payroll structure has employees assigned")
	ErrEmployeeNotFound  = errors.New("employee not found")
	ErrNoCompensation    = errors.New("no payroll assigned for employee")
	ErrEmptyStructure    = errors.New("payroll structure has no components")
	ErrPayslipExists     = errors.New("payslip already generated for this month")
	ErrPayslipNotFound   = errors.New("payslip not found")
)
