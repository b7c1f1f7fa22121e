package payroll

import "context"

type PayrollService interface {
	// Generation
	GeneratePayroll(ctx context.Context, req GeneratePayrollRequest) (PayrollRecordResponse, error)
	BulkGeneratePayroll(ctx context.Context, req BulkGeneratePayrollRequest) (BatchResult, error)

	// Records
	GetPayrollRecord(ctx context.Context, id string) (PayrollRecordResponse, error)
	ListPayrollRecords(ctx context.Context, filter PayrollFilter) (ListPayrollRecordResponse, error)
	UpdatePayrollRecord(ctx context.Context, req UpdatePayrollRecordRequest) (PayrollRecordResponse, error)
	AddAdjustment(ctx context.Context, req AddAdjustmentRequest) (PayrollRecordResponse, error)
	DeletePayrollRecord(ctx context.Context, req WorkflowActionRequest) error
	GetRevisionHistory(ctx context.Context, id string) ([]RevisionSnapshot, error)

	// Workflow
	VerifyPayroll(ctx context.Context, req WorkflowActionRequest) (PayrollRecordResponse, error)
	ApprovePayroll(ctx context.Context, req WorkflowActionRequest) (PayrollRecordResponse, error)
	RejectPayroll(ctx context.Context, req RejectPayrollRequest) (PayrollRecordResponse, error)
	PayPayroll(ctx context.Context, req PayPayrollRequest) (PayrollRecordResponse, error)
	BulkPayPayroll(ctx context.Context, req BulkPayPayrollRequest) (BatchResult, error)

	// Summary
	GetPayrollSummary(ctx context.Context, month, year int) (PayrollSummaryResponse, error)
}
