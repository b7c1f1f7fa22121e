package payroll

import "errors"

var (
	ErrPayrollRecordNotFound      = errors.New("payroll record not found")
	ErrPayrollRecordAlreadyExists = errors.New("payroll record already exists for this guard and period")
	ErrInvalidTransition          = errors.New("invalid payroll status transition")
	ErrPayrollRecordLocked        = errors.New("payroll record is locked, cannot modify")
	ErrPayrollRecordImmutable     = errors.New("cancelled payroll record cannot be modified")
	ErrConcurrentModification     = errors.New("payroll record was modified by another request, reload and retry")
	ErrRejectionReasonRequired    = errors.New("rejection reason is required")
	ErrInvalidPaymentMethod       = errors.New("invalid payment method")
	ErrTransactionRefRequired     = errors.New("transaction reference is required for bank transfer and UPI payments")
	ErrInvalidAdjustment          = errors.New("invalid payroll adjustment")
	ErrActorRequired              = errors.New("acting user is required")
)
