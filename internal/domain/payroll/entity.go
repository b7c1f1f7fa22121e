package payroll

import (
	"fmt"
	"time"

	"github.com/sentryforce/guard-payroll/internal/domain/attendance"
	"github.com/shopspring/decimal"
)

// PayrollStatus enum
type PayrollStatus string

const (
	PayrollStatusDraft     PayrollStatus = "draft"
	PayrollStatusPending   PayrollStatus = "pending"
	PayrollStatusVerified  PayrollStatus = "verified"
	PayrollStatusApproved  PayrollStatus = "approved"
	PayrollStatusPaid      PayrollStatus = "paid"
	PayrollStatusCancelled PayrollStatus = "cancelled"
)

func (s PayrollStatus) IsValid() bool {
	switch s {
	case PayrollStatusDraft, PayrollStatusPending, PayrollStatusVerified,
		PayrollStatusApproved, PayrollStatusPaid, PayrollStatusCancelled:
		return true
	}
	return false
}

// PaymentMethod enum
type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "cash"
	PaymentMethodCheque       PaymentMethod = "cheque"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
	PaymentMethodUPI          PaymentMethod = "upi"
)

func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCheque, PaymentMethodBankTransfer, PaymentMethodUPI:
		return true
	}
	return false
}

// RequiresReference reports whether the method settles electronically and
// therefore must carry a transaction reference.
func (m PaymentMethod) RequiresReference() bool {
	return m == PaymentMethodBankTransfer || m == PaymentMethodUPI
}

// Earnings - itemized earning components of a payroll record
type Earnings struct {
	Basic     decimal.Decimal `json:"basic_salary"`
	HRA       decimal.Decimal `json:"hra"`
	Travel    decimal.Decimal `json:"travel_allowance"`
	Food      decimal.Decimal `json:"food_allowance"`
	Medical   decimal.Decimal `json:"medical_allowance"`
	Special   decimal.Decimal `json:"special_allowance"`
	Overtime  decimal.Decimal `json:"overtime_pay"`
	Bonus     decimal.Decimal `json:"bonus"`
	Incentive decimal.Decimal `json:"incentive"`
	Arrears   decimal.Decimal `json:"arrears"`
	Other     decimal.Decimal `json:"other_earnings"`
}

func (e Earnings) Total() decimal.Decimal {
	return decimal.Sum(e.Basic, e.HRA, e.Travel, e.Food, e.Medical, e.Special,
		e.Overtime, e.Bonus, e.Incentive, e.Arrears, e.Other)
}

// Deductions - itemized deduction components of a payroll record
type Deductions struct {
	PF              decimal.Decimal `json:"pf"`
	ESI             decimal.Decimal `json:"esi"`
	ProfessionalTax decimal.Decimal `json:"professional_tax"`
	IncomeTax       decimal.Decimal `json:"income_tax"`
	Loan            decimal.Decimal `json:"loan"`
	Advance         decimal.Decimal `json:"advance"`
	Absence         decimal.Decimal `json:"absent_deduction"`
	Late            decimal.Decimal `json:"late_deduction"`
	Uniform         decimal.Decimal `json:"uniform"`
	Other           decimal.Decimal `json:"other_deductions"`
}

func (d Deductions) Total() decimal.Decimal {
	return decimal.Sum(d.PF, d.ESI, d.ProfessionalTax, d.IncomeTax, d.Loan,
		d.Advance, d.Absence, d.Late, d.Uniform, d.Other)
}

// AdjustmentType enum
type AdjustmentType string

const (
	AdjustmentTypeAddition  AdjustmentType = "addition"
	AdjustmentTypeDeduction AdjustmentType = "deduction"
)

// Adjustment - manual amount folded into other earnings or other deductions
type Adjustment struct {
	Type      AdjustmentType  `json:"type"`
	Category  string          `json:"category"`
	Amount    decimal.Decimal `json:"amount"`
	Reason    string          `json:"reason"`
	CreatedBy string          `json:"created_by"`
	CreatedAt time.Time       `json:"created_at"`
}

// RevisionSnapshot - financial state of a record before a post-generation edit
type RevisionSnapshot struct {
	Revision        int             `json:"revision"`
	Earnings        Earnings        `json:"earnings"`
	Deductions      Deductions      `json:"deductions"`
	GrossSalary     decimal.Decimal `json:"gross_salary"`
	TotalDeductions decimal.Decimal `json:"total_deductions"`
	NetSalary       decimal.Decimal `json:"net_salary"`
	ChangedBy       string          `json:"changed_by"`
	ChangedAt       time.Time       `json:"changed_at"`
	Reason          string          `json:"reason"`
}

// Payment - disbursement details stamped when a record is paid
type Payment struct {
	Method         PaymentMethod
	TransactionRef *string
	PaidAt         time.Time
	PaidBy         string
}

// PayrollRecord - one guard's salary for one calendar month
type PayrollRecord struct {
	ID            string
	PayrollNumber string
	GuardID       string
	PeriodMonth   int
	PeriodYear    int
	PeriodStart   time.Time
	PeriodEnd     time.Time

	Attendance attendance.Summary
	Earnings   Earnings
	Deductions Deductions

	// Derived from Earnings and Deductions by Recalculate.
	GrossSalary     decimal.Decimal
	TotalDeductions decimal.Decimal
	NetSalary       decimal.Decimal

	Status          PayrollStatus
	VerifiedBy      *string
	VerifiedAt      *time.Time
	ApprovedBy      *string
	ApprovedAt      *time.Time
	RejectedBy      *string
	RejectedAt      *time.Time
	RejectionReason *string
	Payment         *Payment

	Adjustments []Adjustment
	Revisions   []RevisionSnapshot
	Revision    int
	IsLocked    bool
	Remarks     *string

	CreatedBy string
	UpdatedBy string
	CreatedAt time.Time
	UpdatedAt time.Time

	// Storage row version for optimistic concurrency.
	Version int

	// Joined fields
	GuardName *string
	GuardCode *string
}

// Recalculate re-derives gross, total deductions and net from the itemized components.
func (r *PayrollRecord) Recalculate() {
	r.GrossSalary = r.Earnings.Total()
	r.TotalDeductions = r.Deductions.Total()
	r.NetSalary = r.GrossSalary.Sub(r.TotalDeductions)
}

// PeriodBounds returns the first and last calendar day of the month in UTC.
func PeriodBounds(month, year int) (time.Time, time.Time) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1)
	return start, end
}

// FormatPayrollNumber renders the human-readable identifier, e.g. PAY-202503-00042.
func FormatPayrollNumber(year, month, sequence int) string {
	return fmt.Sprintf("PAY-%d%02d-%05d", year, month, sequence)
}
