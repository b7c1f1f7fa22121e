package payroll

import (
	"github.com/sentryforce/guard-payroll/internal/domain/attendance"
	"github.com/sentryforce/guard-payroll/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========== OVERRIDES ==========

// EarningsOverride - caller-supplied earning components; nil means "compute"
type EarningsOverride struct {
	Basic     *decimal.Decimal `json:"basic_salary,omitempty"`
	HRA       *decimal.Decimal `json:"hra,omitempty"`
	Travel    *decimal.Decimal `json:"travel_allowance,omitempty"`
	Food      *decimal.Decimal `json:"food_allowance,omitempty"`
	Medical   *decimal.Decimal `json:"medical_allowance,omitempty"`
	Special   *decimal.Decimal `json:"special_allowance,omitempty"`
	Overtime  *decimal.Decimal `json:"overtime_pay,omitempty"`
	Bonus     *decimal.Decimal `json:"bonus,omitempty"`
	Incentive *decimal.Decimal `json:"incentive,omitempty"`
	Arrears   *decimal.Decimal `json:"arrears,omitempty"`
	Other     *decimal.Decimal `json:"other_earnings,omitempty"`
}

func (o EarningsOverride) fields() map[string]*decimal.Decimal {
	return map[string]*decimal.Decimal{
		"basic_salary":      o.Basic,
		"hra":               o.HRA,
		"travel_allowance":  o.Travel,
		"food_allowance":    o.Food,
		"medical_allowance": o.Medical,
		"special_allowance": o.Special,
		"overtime_pay":      o.Overtime,
		"bonus":             o.Bonus,
		"incentive":         o.Incentive,
		"arrears":           o.Arrears,
		"other_earnings":    o.Other,
	}
}

func (o EarningsOverride) applyTo(e *Earnings) {
	e.Basic = pick(o.Basic, e.Basic)
	e.HRA = pick(o.HRA, e.HRA)
	e.Travel = pick(o.Travel, e.Travel)
	e.Food = pick(o.Food, e.Food)
	e.Medical = pick(o.Medical, e.Medical)
	e.Special = pick(o.Special, e.Special)
	e.Overtime = pick(o.Overtime, e.Overtime)
	e.Bonus = pick(o.Bonus, e.Bonus)
	e.Incentive = pick(o.Incentive, e.Incentive)
	e.Arrears = pick(o.Arrears, e.Arrears)
	e.Other = pick(o.Other, e.Other)
}

// DeductionsOverride - caller-supplied deduction components; nil means "compute"
type DeductionsOverride struct {
	PF              *decimal.Decimal `json:"pf,omitempty"`
	ESI             *decimal.Decimal `json:"esi,omitempty"`
	ProfessionalTax *decimal.Decimal `json:"professional_tax,omitempty"`
	IncomeTax       *decimal.Decimal `json:"income_tax,omitempty"`
	Loan            *decimal.Decimal `json:"loan,omitempty"`
	Advance         *decimal.Decimal `json:"advance,omitempty"`
	Absence         *decimal.Decimal `json:"absent_deduction,omitempty"`
	Late            *decimal.Decimal `json:"late_deduction,omitempty"`
	Uniform         *decimal.Decimal `json:"uniform,omitempty"`
	Other           *decimal.Decimal `json:"other_deductions,omitempty"`
}

func (o DeductionsOverride) fields() map[string]*decimal.Decimal {
	return map[string]*decimal.Decimal{
		"pf":               o.PF,
		"esi":              o.ESI,
		"professional_tax": o.ProfessionalTax,
		"income_tax":       o.IncomeTax,
		"loan":             o.Loan,
		"advance":          o.Advance,
		"absent_deduction": o.Absence,
		"late_deduction":   o.Late,
		"uniform":          o.Uniform,
		"other_deductions": o.Other,
	}
}

func (o DeductionsOverride) applyTo(d *Deductions) {
	d.PF = pick(o.PF, d.PF)
	d.ESI = pick(o.ESI, d.ESI)
	d.ProfessionalTax = pick(o.ProfessionalTax, d.ProfessionalTax)
	d.IncomeTax = pick(o.IncomeTax, d.IncomeTax)
	d.Loan = pick(o.Loan, d.Loan)
	d.Advance = pick(o.Advance, d.Advance)
	d.Absence = pick(o.Absence, d.Absence)
	d.Late = pick(o.Late, d.Late)
	d.Uniform = pick(o.Uniform, d.Uniform)
	d.Other = pick(o.Other, d.Other)
}

func validateAmounts(prefix string, fields map[string]*decimal.Decimal) (errs validator.ValidationErrors, provided int) {
	for name, v := range fields {
		if v == nil {
			continue
		}
		provided++
		if v.IsNegative() {
			errs = append(errs, validator.ValidationError{Field: prefix + "." + name, Message: "must be non-negative"})
		}
	}
	return errs, provided
}

// ========== PAYROLL RECORD DTOs ==========

type GeneratePayrollRequest struct {
	GuardID     string             `json:"guard_id" validate:"required"`
	PeriodMonth int                `json:"period_month" validate:"min=1,max=12"`
	PeriodYear  int                `json:"period_year" validate:"min=2020,max=2100"`
	Earnings    EarningsOverride   `json:"earnings"`
	Deductions  DeductionsOverride `json:"deductions"`
	Remarks     *string            `json:"remarks,omitempty" validate:"omitempty,max=500"`
	ActorID     string             `json:"-"`
}

func (r *GeneratePayrollRequest) Validate() error {
	errs := validator.Struct(r)

	earningErrs, _ := validateAmounts("earnings", r.Earnings.fields())
	deductionErrs, _ := validateAmounts("deductions", r.Deductions.fields())
	errs = append(errs, earningErrs...)
	errs = append(errs, deductionErrs...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type BulkGeneratePayrollRequest struct {
	PeriodMonth int      `json:"period_month" validate:"min=1,max=12"`
	PeriodYear  int      `json:"period_year" validate:"min=2020,max=2100"`
	GuardIDs    []string `json:"guard_ids,omitempty" validate:"omitempty,dive,required"` // Empty = all active guards
	ActorID     string   `json:"-"`
}

func (r *BulkGeneratePayrollRequest) Validate() error {
	if errs := validator.Struct(r); len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdatePayrollRecordRequest struct {
	ID         string             `json:"-"`
	Earnings   EarningsOverride   `json:"earnings"`
	Deductions DeductionsOverride `json:"deductions"`
	Remarks    *string            `json:"remarks,omitempty" validate:"omitempty,max=500"`
	Reason     string             `json:"reason" validate:"max=500"`
	ActorID    string             `json:"-"`
}

func (r *UpdatePayrollRecordRequest) Validate() error {
	errs := validator.Struct(r)

	earningErrs, earningCount := validateAmounts("earnings", r.Earnings.fields())
	deductionErrs, deductionCount := validateAmounts("deductions", r.Deductions.fields())
	errs = append(errs, earningErrs...)
	errs = append(errs, deductionErrs...)

	if earningCount+deductionCount == 0 && r.Remarks == nil {
		errs = append(errs, validator.ValidationError{Field: "earnings", Message: "at least one earning, deduction or remarks change is required"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type AddAdjustmentRequest struct {
	ID       string          `json:"-"`
	Type     string          `json:"type" validate:"required,oneof=addition deduction"`
	Category string          `json:"category" validate:"required,max=100"`
	Amount   decimal.Decimal `json:"amount"`
	Reason   string          `json:"reason" validate:"required,max=500"`
	ActorID  string          `json:"-"`
}

func (r *AddAdjustmentRequest) Validate() error {
	errs := validator.Struct(r)

	if !r.Amount.IsPositive() {
		errs = append(errs, validator.ValidationError{Field: "amount", Message: "must be greater than zero"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// WorkflowActionRequest is used by verify and approve.
type WorkflowActionRequest struct {
	ID      string `json:"-"`
	ActorID string `json:"-"`
}

type RejectPayrollRequest struct {
	ID      string `json:"-"`
	Reason  string `json:"reason" validate:"required,notblank,max=500"`
	ActorID string `json:"-"`
}

func (r *RejectPayrollRequest) Validate() error {
	if errs := validator.Struct(r); len(errs) > 0 {
		return errs
	}
	return nil
}

type PayPayrollRequest struct {
	ID             string `json:"-"`
	PaymentMethod  string `json:"payment_method" validate:"required,oneof=cash cheque bank_transfer upi"`
	TransactionRef string `json:"transaction_ref" validate:"max=100"`
	ActorID        string `json:"-"`
}

func (r *PayPayrollRequest) Validate() error {
	errs := validator.Struct(r)
	errs = append(errs, validatePaymentReference(r.PaymentMethod, r.TransactionRef)...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// BulkPayPayrollRequest pays every listed record with the same payment method
// and transaction reference. Payments that need distinct references are made
// one at a time through PayPayrollRequest.
type BulkPayPayrollRequest struct {
	PayrollIDs     []string `json:"payroll_ids" validate:"required,min=1,dive,required"`
	PaymentMethod  string   `json:"payment_method" validate:"required,oneof=cash cheque bank_transfer upi"`
	TransactionRef string   `json:"transaction_ref" validate:"max=100"`
	ActorID        string   `json:"-"`
}

func (r *BulkPayPayrollRequest) Validate() error {
	errs := validator.Struct(r)
	errs = append(errs, validatePaymentReference(r.PaymentMethod, r.TransactionRef)...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validatePaymentReference(method, ref string) validator.ValidationErrors {
	if PaymentMethod(method).RequiresReference() && validator.IsEmpty(ref) {
		return validator.ValidationErrors{{Field: "transaction_ref", Message: "is required for bank_transfer and upi payments"}}
	}
	return nil
}

type PaymentResponse struct {
	Method         string  `json:"payment_method"`
	TransactionRef *string `json:"transaction_ref,omitempty"`
	PaidAt         string  `json:"paid_at"`
	PaidBy         string  `json:"paid_by"`
}

type PayrollRecordResponse struct {
	ID              string             `json:"id"`
	PayrollNumber   string             `json:"payroll_number"`
	GuardID         string             `json:"guard_id"`
	GuardName       string             `json:"guard_name,omitempty"`
	GuardCode       string             `json:"guard_code,omitempty"`
	PeriodMonth     int                `json:"period_month"`
	PeriodYear      int                `json:"period_year"`
	PeriodStart     string             `json:"period_start"`
	PeriodEnd       string             `json:"period_end"`
	Attendance      attendance.Summary `json:"attendance"`
	Earnings        Earnings           `json:"earnings"`
	Deductions      Deductions         `json:"deductions"`
	GrossSalary     decimal.Decimal    `json:"gross_salary"`
	TotalDeductions decimal.Decimal    `json:"total_deductions"`
	NetSalary       decimal.Decimal    `json:"net_salary"`
	Status          string             `json:"status"`
	VerifiedBy      *string            `json:"verified_by,omitempty"`
	VerifiedAt      *string            `json:"verified_at,omitempty"`
	ApprovedBy      *string            `json:"approved_by,omitempty"`
	ApprovedAt      *string            `json:"approved_at,omitempty"`
	RejectedBy      *string            `json:"rejected_by,omitempty"`
	RejectedAt      *string            `json:"rejected_at,omitempty"`
	RejectionReason *string            `json:"rejection_reason,omitempty"`
	Payment         *PaymentResponse   `json:"payment,omitempty"`
	Adjustments     []Adjustment       `json:"adjustments"`
	Revision        int                `json:"revision"`
	RevisionCount   int                `json:"revision_count"`
	IsLocked        bool               `json:"is_locked"`
	Remarks         *string            `json:"remarks,omitempty"`
	CreatedBy       string             `json:"created_by"`
	UpdatedBy       string             `json:"updated_by"`
	CreatedAt       string             `json:"created_at"`
	UpdatedAt       string             `json:"updated_at"`
}

type PayrollFilter struct {
	PeriodMonth *int    `json:"period_month,omitempty"`
	PeriodYear  *int    `json:"period_year,omitempty"`
	Status      *string `json:"status,omitempty"`
	GuardID     *string `json:"guard_id,omitempty"`
	Page        int     `json:"page"`
	Limit       int     `json:"limit"`
	SortBy      string  `json:"sort_by"`
	SortOrder   string  `json:"sort_order"`
}

func (f *PayrollFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.PeriodMonth != nil && (*f.PeriodMonth < 1 || *f.PeriodMonth > 12) {
		errs = append(errs, validator.ValidationError{Field: "period_month", Message: "must be between 1 and 12"})
	}
	if f.Status != nil && !PayrollStatus(*f.Status).IsValid() {
		errs = append(errs, validator.ValidationError{Field: "status", Message: "is not a valid payroll status"})
	}
	if f.GuardID != nil && !validator.IsUUID(*f.GuardID) {
		errs = append(errs, validator.ValidationError{Field: "guard_id", Message: "must be a valid UUID"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ListPayrollRecordResponse struct {
	Data       []PayrollRecordResponse `json:"data"`
	TotalCount int64                   `json:"total_count"`
	Page       int                     `json:"page"`
	Limit      int                     `json:"limit"`
}

type PayrollSummaryResponse struct {
	PeriodMonth        int             `json:"period_month"`
	PeriodYear         int             `json:"period_year"`
	TotalRecords       int             `json:"total_records"`
	TotalGrossSalary   decimal.Decimal `json:"total_gross_salary"`
	TotalDeductions    decimal.Decimal `json:"total_deductions"`
	TotalNetSalary     decimal.Decimal `json:"total_net_salary"`
	TotalPaidNetSalary decimal.Decimal `json:"total_paid_net_salary"`
	DraftCount         int             `json:"draft_count"`
	PendingCount       int             `json:"pending_count"`
	VerifiedCount      int             `json:"verified_count"`
	ApprovedCount      int             `json:"approved_count"`
	PaidCount          int             `json:"paid_count"`
	CancelledCount     int             `json:"cancelled_count"`
}

// ========== BATCH DTOs ==========

type BatchItemResult struct {
	GuardID       string `json:"guard_id,omitempty"`
	PayrollID     string `json:"payroll_id,omitempty"`
	PayrollNumber string `json:"payroll_number,omitempty"`
	Reason        string `json:"reason,omitempty"`
}

// BatchResult - every input item lands in exactly one of Success, Failed or Skipped
type BatchResult struct {
	Total        int               `json:"total"`
	SuccessCount int               `json:"success_count"`
	FailedCount  int               `json:"failed_count"`
	SkippedCount int               `json:"skipped_count"`
	Success      []BatchItemResult `json:"success"`
	Failed       []BatchItemResult `json:"failed"`
	Skipped      []BatchItemResult `json:"skipped"`
}

func NewBatchResult(total int) BatchResult {
	return BatchResult{
		Total:   total,
		Success: []BatchItemResult{},
		Failed:  []BatchItemResult{},
		Skipped: []BatchItemResult{},
	}
}

func (b *BatchResult) AddSuccess(item BatchItemResult) {
	b.Success = append(b.Success, item)
	b.SuccessCount++
}

func (b *BatchResult) AddFailed(item BatchItemResult) {
	b.Failed = append(b.Failed, item)
	b.FailedCount++
}

func (b *BatchResult) AddSkipped(item BatchItemResult) {
	b.Skipped = append(b.Skipped, item)
	b.SkippedCount++
}
