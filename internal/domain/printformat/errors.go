package printformat

import "errors"

var (
	ErrNotFound        = errors.New("print format not found")
	ErrInvalidTemplate = errors.New("template body failed validation")
	ErrFormatInUse     = errors.New("print format is referenced by a payroll structure")
)
