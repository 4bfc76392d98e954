package invoicing

import (
	"errors"
	"fmt"
)

var (
	// ErrCompanyLimit is returned when creating a company would exceed models.MaxCompanies.
	ErrCompanyLimit = errors.New("company limit reached")

	// ErrInvalidTransition is returned for a status change the lifecycle does not allow.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrInvoiceVoid is returned for any status change out of void.
	ErrInvoiceVoid = errors.New("invoice is void")

	// ErrInvoiceLocked is returned when editing the contents of a paid or void invoice.
	ErrInvoiceLocked = errors.New("invoice can no longer be edited")

	// ErrPaidInvoiceDelete is returned when deleting a paid invoice; void it instead.
	ErrPaidInvoiceDelete = errors.New("paid invoices cannot be deleted, void them instead")

	// ErrConfirmationRequired is returned when deleting a non-draft invoice without confirmation.
	ErrConfirmationRequired = errors.New("deleting a non-draft invoice requires confirmation")
)

// ValidationError reports a failed guard on user input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// StateError reports an operation that is illegal in the invoice's current status.
type StateError struct {
	Err    error
	Status string
}

func (e *StateError) Error() string {
	if e.Status != "" {
		return fmt.Sprintf("%v (status: %s)", e.Err, e.Status)
	}
	return e.Err.Error()
}

func (e *StateError) Unwrap() error {
	return e.Err
}

// IsValidation reports whether err is a validation failure.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// IsState reports whether err is an illegal-state failure.
func IsState(err error) bool {
	var s *StateError
	return errors.As(err, &s)
}
