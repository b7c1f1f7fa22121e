package payroll

import (
	"fmt"
	"strings"
	"time"
)

func (r *PayrollRecord) transitionError(action string) error {
	return fmt.Errorf("%w: cannot %s payroll %s in %s status", ErrInvalidTransition, action, r.PayrollNumber, r.Status)
}

// Verify moves a pending record to verified.
func (r *PayrollRecord) Verify(actor string, now time.Time) error {
	if r.Status != PayrollStatusPending {
		return r.transitionError("verify")
	}
	if r.IsLocked {
		return ErrPayrollRecordLocked
	}

	r.Status = PayrollStatusVerified
	r.VerifiedBy = &actor
	r.VerifiedAt = &now
	r.touch(actor, now)
	return nil
}

// Approve moves a verified record to approved.
func (r *PayrollRecord) Approve(actor string, now time.Time) error {
	if r.Status != PayrollStatusVerified {
		return r.transitionError("approve")
	}
	if r.IsLocked {
		return ErrPayrollRecordLocked
	}

	r.Status = PayrollStatusApproved
	r.ApprovedBy = &actor
	r.ApprovedAt = &now
	r.touch(actor, now)
	return nil
}

// Reject cancels a record that has not been paid. Cancellation is final.
func (r *PayrollRecord) Reject(actor, reason string, now time.Time) error {
	switch r.Status {
	case PayrollStatusDraft, PayrollStatusPending, PayrollStatusVerified, PayrollStatusApproved:
	default:
		return r.transitionError("reject")
	}
	if r.IsLocked {
		return ErrPayrollRecordLocked
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return ErrRejectionReasonRequired
	}

	r.Status = PayrollStatusCancelled
	r.RejectedBy = &actor
	r.RejectedAt = &now
	r.RejectionReason = &reason
	r.touch(actor, now)
	return nil
}

// Pay settles an approved record and locks it.
func (r *PayrollRecord) Pay(actor string, method PaymentMethod, transactionRef string, now time.Time) error {
	if r.Status != PayrollStatusApproved {
		return r.transitionError("pay")
	}
	if r.IsLocked {
		return ErrPayrollRecordLocked
	}
	if !method.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidPaymentMethod, method)
	}

	transactionRef = strings.TrimSpace(transactionRef)
	if method.RequiresReference() && transactionRef == "" {
		return ErrTransactionRefRequired
	}

	var ref *string
	if transactionRef != "" {
		ref = &transactionRef
	}

	r.Status = PayrollStatusPaid
	r.Payment = &Payment{
		Method:         method,
		TransactionRef: ref,
		PaidAt:         now,
		PaidBy:         actor,
	}
	r.IsLocked = true
	r.touch(actor, now)
	return nil
}

// ApplyUpdate overrides individual components after snapshotting the current figures.
func (r *PayrollRecord) ApplyUpdate(actor, reason string, earnings EarningsOverride, deductions DeductionsOverride, remarks *string, now time.Time) error {
	if err := r.ensureMutable(); err != nil {
		return err
	}

	if reason == "" {
		reason = "manual update"
	}
	r.captureRevision(actor, reason, now)

	earnings.applyTo(&r.Earnings)
	deductions.applyTo(&r.Deductions)
	if remarks != nil {
		r.Remarks = remarks
	}

	r.Recalculate()
	r.touch(actor, now)
	return nil
}

// AddAdjustment folds a manual addition or deduction into the "other" components.
func (r *PayrollRecord) AddAdjustment(adj Adjustment) error {
	if err := r.ensureMutable(); err != nil {
		return err
	}
	if !adj.Amount.IsPositive() {
		return fmt.Errorf("%w: amount must be greater than zero", ErrInvalidAdjustment)
	}

	switch adj.Type {
	case AdjustmentTypeAddition, AdjustmentTypeDeduction:
	default:
		return fmt.Errorf("%w: unknown type %q", ErrInvalidAdjustment, adj.Type)
	}

	r.captureRevision(adj.CreatedBy, "adjustment: "+adj.Reason, adj.CreatedAt)

	if adj.Type == AdjustmentTypeAddition {
		r.Earnings.Other = r.Earnings.Other.Add(adj.Amount)
	} else {
		r.Deductions.Other = r.Deductions.Other.Add(adj.Amount)
	}
	r.Adjustments = append(r.Adjustments, adj)

	r.Recalculate()
	r.touch(adj.CreatedBy, adj.CreatedAt)
	return nil
}

// CanDelete reports whether the record may be removed from storage.
func (r *PayrollRecord) CanDelete() error {
	if r.IsLocked || r.Status == PayrollStatusPaid {
		return ErrPayrollRecordLocked
	}
	switch r.Status {
	case PayrollStatusDraft, PayrollStatusPending, PayrollStatusVerified, PayrollStatusCancelled:
		return nil
	}
	return fmt.Errorf("%w: payroll %s in %s status cannot be deleted", ErrPayrollRecordImmutable, r.PayrollNumber, r.Status)
}

func (r *PayrollRecord) ensureMutable() error {
	if r.IsLocked || r.Status == PayrollStatusPaid {
		return ErrPayrollRecordLocked
	}
	if r.Status == PayrollStatusCancelled {
		return ErrPayrollRecordImmutable
	}
	return nil
}

func (r *PayrollRecord) captureRevision(actor, reason string, now time.Time) {
	r.Revisions = append(r.Revisions, RevisionSnapshot{
		Revision:        r.Revision,
		Earnings:        r.Earnings,
		Deductions:      r.Deductions,
		GrossSalary:     r.GrossSalary,
		TotalDeductions: r.TotalDeductions,
		NetSalary:       r.NetSalary,
		ChangedBy:       actor,
		ChangedAt:       now,
		Reason:          reason,
	})
	r.Revision++
}

func (r *PayrollRecord) touch(actor string, now time.Time) {
	r.UpdatedBy = actor
	r.UpdatedAt = now
}
