package payroll

import "context"

// PayrollRepository defines data access methods for payroll records.
type PayrollRepository interface {
	// NextPayrollSequence reserves the next number for a year-month. Numbers are never handed out twice.
	NextPayrollSequence(ctx context.Context, year, month int) (int, error)

	CreatePayrollRecord(ctx context.Context, record PayrollRecord) (PayrollRecord, error)
	GetPayrollRecordByID(ctx context.Context, id string) (PayrollRecord, error)
	GetPayrollRecordByGuardPeriod(ctx context.Context, guardID string, month, year int) (PayrollRecord, error)
	ListPayrollRecords(ctx context.Context, filter PayrollFilter) ([]PayrollRecord, int64, error)

	// SavePayrollRecord persists record if its stored version still equals record.Version
	// and returns the record with the incremented version. A stale version yields
	// ErrConcurrentModification.
	SavePayrollRecord(ctx context.Context, record PayrollRecord) (PayrollRecord, error)
	DeletePayrollRecord(ctx context.Context, id string, expectedVersion int) error

	GetPayrollSummary(ctx context.Context, month, year int) (PayrollSummaryResponse, error)
}

// Transactor runs fn inside a single storage transaction carried by ctx.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
