package service

import (
	"github.com/resolveapp/resolve/internal/calculator"
)

// validationErrorf builds a user-correctable error. The calculator's
// ValidationError is the module's single such type so handlers map one error
// kind to HTTP 400.
func validationErrorf(format string, args ...any) error {
	return calculator.Validationf(format, args...)
}
