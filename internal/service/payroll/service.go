package payroll

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/sentryforce/guard-payroll/internal/domain/attendance"
	"github.com/sentryforce/guard-payroll/internal/domain/audit"
	"github.com/sentryforce/guard-payroll/internal/domain/guard"
	"github.com/sentryforce/guard-payroll/internal/domain/payroll"
	"github.com/sentryforce/guard-payroll/internal/domain/setting"
	"github.com/sentryforce/guard-payroll/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// RateResolver supplies the payroll rates in effect.
type RateResolver interface {
	Resolve(ctx context.Context) (setting.Rates, error)
}

type PayrollServiceImpl struct {
	tx             payroll.Transactor
	payrollRepo    payroll.PayrollRepository
	guardRepo      guard.GuardRepository
	attendanceRepo attendance.AttendanceRepository
	rates          RateResolver
	auditRepo      audit.AuditRepository
	now            func() time.Time
}

func NewPayrollService(
	tx payroll.Transactor,
	payrollRepo payroll.PayrollRepository,
	guardRepo guard.GuardRepository,
	attendanceRepo attendance.AttendanceRepository,
	rates RateResolver,
	auditRepo audit.AuditRepository,
) payroll.PayrollService {
	return &PayrollServiceImpl{
		tx:             tx,
		payrollRepo:    payrollRepo,
		guardRepo:      guardRepo,
		attendanceRepo: attendanceRepo,
		rates:          rates,
		auditRepo:      auditRepo,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

func requireActor(actorID string) error {
	if validator.IsEmpty(actorID) {
		return payroll.ErrActorRequired
	}
	return nil
}

// ========== GENERATION ==========

func (s *PayrollServiceImpl) GeneratePayroll(ctx context.Context, req payroll.GeneratePayrollRequest) (payroll.PayrollRecordResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.PayrollRecordResponse{}, err
	}
	if err := requireActor(req.ActorID); err != nil {
		return payroll.PayrollRecordResponse{}, err
	}

	g, err := s.guardRepo.GetByID(ctx, req.GuardID)
	if err != nil {
		return payroll.PayrollRecordResponse{}, err
	}

	rates, err := s.rates.Resolve(ctx)
	if err != nil {
		return payroll.PayrollRecordResponse{}, err
	}

	created, err := s.generate(ctx, generateInput{
		guard:      g,
		month:      req.PeriodMonth,
		year:       req.PeriodYear,
		rates:      rates,
		earnings:   req.Earnings,
		deductions: req.Deductions,
		remarks:    req.Remarks,
		actor:      req.ActorID,
	})
	if err != nil {
		return payroll.PayrollRecordResponse{}, err
	}

	return mapToRecordResponse(created), nil
}

type generateInput struct {
	guard      guard.Guard
	month      int
	year       int
	rates      setting.Rates
	earnings   payroll.EarningsOverride
	deductions payroll.DeductionsOverride
	remarks    *string
	actor      string
}

// generate computes and persists one guard-month. The storage unique index is
// the authority on duplicates; the pre-check only avoids burning a payroll number.
func (s *PayrollServiceImpl) generate(ctx context.Context, in generateInput) (payroll.PayrollRecord, error) {
	_, err := s.payrollRepo.GetPayrollRecordByGuardPeriod(ctx, in.guard.ID, in.month, in.year)
	if err == nil {
		return payroll.PayrollRecord{}, fmt.Errorf("%w: guard %s, %02d/%d", payroll.ErrPayrollRecordAlreadyExists, in.guard.ID, in.month, in.year)
	}
	if !errors.Is(err, payroll.ErrPayrollRecordNotFound) {
		return payroll.PayrollRecord{}, fmt.Errorf("failed to check existing payroll record: %w", err)
	}

	periodStart, periodEnd := payroll.PeriodBounds(in.month, in.year)

	records, err := s.attendanceRepo.ListByGuardAndDateRange(ctx, in.guard.ID, periodStart, periodEnd)
	if err != nil {
		return payroll.PayrollRecord{}, fmt.Errorf("failed to load attendance: %w", err)
	}
	summary := attendance.Summarize(records)

	earnings, deductions := payroll.Compute(payroll.ComputeInput{
		Guard:      in.guard,
		Attendance: summary,
		Rates:      in.rates,
		Earnings:   in.earnings,
		Deductions: in.deductions,
	})

	id, err := uuid.NewV7()
	if err != nil {
		return payroll.PayrollRecord{}, fmt.Errorf("failed to generate payroll id: %w", err)
	}

	now := s.now()
	record := payroll.PayrollRecord{
		ID:          id.String(),
		GuardID:     in.guard.ID,
		PeriodMonth: in.month,
		PeriodYear:  in.year,
		PeriodStart: periodStart,
		PeriodEnd:   periodEnd,
		Attendance:  summary,
		Earnings:    earnings,
		Deductions:  deductions,
		Status:      payroll.PayrollStatusPending,
		Adjustments: []payroll.Adjustment{},
		Revisions:   []payroll.RevisionSnapshot{},
		Revision:    1,
		Remarks:     in.remarks,
		CreatedBy:   in.actor,
		UpdatedBy:   in.actor,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	record.Recalculate()

	var created payroll.PayrollRecord
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		seq, err := s.payrollRepo.NextPayrollSequence(ctx, in.year, in.month)
		if err != nil {
			return err
		}
		record.PayrollNumber = payroll.FormatPayrollNumber(in.year, in.month, seq)

		created, err = s.payrollRepo.CreatePayrollRecord(ctx, record)
		return err
	})
	if err != nil {
		return payroll.PayrollRecord{}, err
	}

	s.recordAudit(ctx, in.actor, audit.ActionCreate, created.ID,
		fmt.Sprintf("generated payroll %s for guard %s (%02d/%d)", created.PayrollNumber, in.guard.ID, in.month, in.year),
		nil, &created)

	slog.Info("payroll generated",
		"payroll_number", created.PayrollNumber,
		"guard_id", in.guard.ID,
		"net_salary", created.NetSalary.String(),
	)

	return created, nil
}

// ========== RECORDS ==========

func (s *PayrollServiceImpl) GetPayrollRecord(ctx context.Context, id string) (payroll.PayrollRecordResponse, error) {
	record, err := s.payrollRepo.GetPayrollRecordByID(ctx, id)
	if err != nil {
		return payroll.PayrollRecordResponse{}, err
	}

	return mapToRecordResponse(record), nil
}

func (s *PayrollServiceImpl) ListPayrollRecords(ctx context.Context, filter payroll.PayrollFilter) (payroll.ListPayrollRecordResponse, error) {
	if err := filter.Validate(); err != nil {
		return payroll.ListPayrollRecordResponse{}, err
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 20
	}

	records, totalCount, err := s.payrollRepo.ListPayrollRecords(ctx, filter)
	if err != nil {
		return payroll.ListPayrollRecordResponse{}, err
	}

	return payroll.ListPayrollRecordResponse{
		Data:       mapToRecordResponses(records),
		TotalCount: totalCount,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}, nil
}

func (s *PayrollServiceImpl) UpdatePayrollRecord(ctx context.Context, req payroll.UpdatePayrollRecordRequest) (payroll.PayrollRecordResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.PayrollRecordResponse{}, err
	}
	if err := requireActor(req.ActorID); err != nil {
		return payroll.PayrollRecordResponse{}, err
	}

	saved, err := s.mutate(ctx, req.ID, req.ActorID, audit.ActionUpdate, func(r *payroll.PayrollRecord, now time.Time) (string, error) {
		if err := r.ApplyUpdate(req.ActorID, req.Reason, req.Earnings, req.Deductions, req.Remarks, now); err != nil {
			return "", err
		}
		return fmt.Sprintf("updated payroll %s to revision %d", r.PayrollNumber, r.Revision), nil
	})
	if err != nil {
		return payroll.PayrollRecordResponse{}, err
	}

	return mapToRecordResponse(saved), nil
}

func (s *PayrollServiceImpl) AddAdjustment(ctx context.Context, req payroll.AddAdjustmentRequest) (payroll.PayrollRecordResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.PayrollRecordResponse{}, err
	}
	if err := requireActor(req.ActorID); err != nil {
		return payroll.PayrollRecordResponse{}, err
	}

	saved, err := s.mutate(ctx, req.ID, req.ActorID, audit.ActionAdjust, func(r *payroll.PayrollRecord, now time.Time) (string, error) {
		adj := payroll.Adjustment{
			Type:      payroll.AdjustmentType(req.Type),
			Category:  req.Category,
			Amount:    req.Amount,
			Reason:    req.Reason,
			CreatedBy: req.ActorID,
			CreatedAt: now,
		}
		if err := r.AddAdjustment(adj); err != nil {
			return "", err
		}
		return fmt.Sprintf("added %s adjustment of %s (%s) to payroll %s", adj.Type, adj.Amount.String(), adj.Category, r.PayrollNumber), nil
	})
	if err != nil {
		return payroll.PayrollRecordResponse{}, err
	}

	return mapToRecordResponse(saved), nil
}

func (s *PayrollServiceImpl) DeletePayrollRecord(ctx context.Context, req payroll.WorkflowActionRequest) error {
	if err := requireActor(req.ActorID); err != nil {
		return err
	}

	record, err := s.payrollRepo.GetPayrollRecordByID(ctx, req.ID)
	if err != nil {
		return err
	}
	if err := record.CanDelete(); err != nil {
		return err
	}

	if err := s.payrollRepo.DeletePayrollRecord(ctx, record.ID, record.Version); err != nil {
		return err
	}

	s.recordAudit(ctx, req.ActorID, audit.ActionDelete, record.ID,
		fmt.Sprintf("deleted payroll %s in %s status", record.PayrollNumber, record.Status),
		&record, nil)

	return nil
}

func (s *PayrollServiceImpl) GetRevisionHistory(ctx context.Context, id string) ([]payroll.RevisionSnapshot, error) {
	record, err := s.payrollRepo.GetPayrollRecordByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if record.Revisions == nil {
		return []payroll.RevisionSnapshot{}, nil
	}
	return record.Revisions, nil
}

// ========== WORKFLOW ==========

func (s *PayrollServiceImpl) VerifyPayroll(ctx context.Context, req payroll.WorkflowActionRequest) (payroll.PayrollRecordResponse, error) {
	if err := requireActor(req.ActorID); err != nil {
		return payroll.PayrollRecordResponse{}, err
	}

	saved, err := s.mutate(ctx, req.ID, req.ActorID, audit.ActionVerify, func(r *payroll.PayrollRecord, now time.Time) (string, error) {
		if err := r.Verify(req.ActorID, now); err != nil {
			return "", err
		}
		return fmt.Sprintf("verified payroll %s", r.PayrollNumber), nil
	})
	if err != nil {
		return payroll.PayrollRecordResponse{}, err
	}

	return mapToRecordResponse(saved), nil
}

func (s *PayrollServiceImpl) ApprovePayroll(ctx context.Context, req payroll.WorkflowActionRequest) (payroll.PayrollRecordResponse, error) {
	if err := requireActor(req.ActorID); err != nil {
		return payroll.PayrollRecordResponse{}, err
	}

	saved, err := s.mutate(ctx, req.ID, req.ActorID, audit.ActionApprove, func(r *payroll.PayrollRecord, now time.Time) (string, error) {
		if err := r.Approve(req.ActorID, now); err != nil {
			return "", err
		}
		return fmt.Sprintf("approved payroll %s", r.PayrollNumber), nil
	})
	if err != nil {
		return payroll.PayrollRecordResponse{}, err
	}

	return mapToRecordResponse(saved), nil
}

func (s *PayrollServiceImpl) RejectPayroll(ctx context.Context, req payroll.RejectPayrollRequest) (payroll.PayrollRecordResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.PayrollRecordResponse{}, err
	}
	if err := requireActor(req.ActorID); err != nil {
		return payroll.PayrollRecordResponse{}, err
	}

	saved, err := s.mutate(ctx, req.ID, req.ActorID, audit.ActionReject, func(r *payroll.PayrollRecord, now time.Time) (string, error) {
		if err := r.Reject(req.ActorID, req.Reason, now); err != nil {
			return "", err
		}
		return fmt.Sprintf("rejected payroll %s: %s", r.PayrollNumber, *r.RejectionReason), nil
	})
	if err != nil {
		return payroll.PayrollRecordResponse{}, err
	}

	return mapToRecordResponse(saved), nil
}

func (s *PayrollServiceImpl) PayPayroll(ctx context.Context, req payroll.PayPayrollRequest) (payroll.PayrollRecordResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.PayrollRecordResponse{}, err
	}
	if err := requireActor(req.ActorID); err != nil {
		return payroll.PayrollRecordResponse{}, err
	}

	saved, err := s.pay(ctx, req.ID, payroll.PaymentMethod(req.PaymentMethod), req.TransactionRef, req.ActorID)
	if err != nil {
		return payroll.PayrollRecordResponse{}, err
	}

	return mapToRecordResponse(saved), nil
}

func (s *PayrollServiceImpl) pay(ctx context.Context, id string, method payroll.PaymentMethod, ref, actor string) (payroll.PayrollRecord, error) {
	return s.mutate(ctx, id, actor, audit.ActionPay, func(r *payroll.PayrollRecord, now time.Time) (string, error) {
		if err := r.Pay(actor, method, ref, now); err != nil {
			return "", err
		}
		return fmt.Sprintf("paid payroll %s via %s, net %s", r.PayrollNumber, method, r.NetSalary.String()), nil
	})
}

// ========== SUMMARY ==========

func (s *PayrollServiceImpl) GetPayrollSummary(ctx context.Context, month, year int) (payroll.PayrollSummaryResponse, error) {
	var errs validator.ValidationErrors
	if month < 1 || month > 12 {
		errs = append(errs, validator.ValidationError{Field: "month", Message: "must be between 1 and 12"})
	}
	if year < 2020 {
		errs = append(errs, validator.ValidationError{Field: "year", Message: "must be at least 2020"})
	}
	if len(errs) > 0 {
		return payroll.PayrollSummaryResponse{}, errs
	}

	return s.payrollRepo.GetPayrollSummary(ctx, month, year)
}

// ========== HELPERS ==========

// mutate re-reads the record, applies fn and saves it against the version it read.
// fn returns the audit description.
func (s *PayrollServiceImpl) mutate(
	ctx context.Context,
	id, actor string,
	action audit.Action,
	fn func(r *payroll.PayrollRecord, now time.Time) (string, error),
) (payroll.PayrollRecord, error) {
	before, err := s.payrollRepo.GetPayrollRecordByID(ctx, id)
	if err != nil {
		return payroll.PayrollRecord{}, err
	}

	record := before
	description, err := fn(&record, s.now())
	if err != nil {
		return payroll.PayrollRecord{}, err
	}

	saved, err := s.payrollRepo.SavePayrollRecord(ctx, record)
	if err != nil {
		return payroll.PayrollRecord{}, err
	}

	s.recordAudit(ctx, actor, action, saved.ID, description, &before, &saved)

	return saved, nil
}

type auditSnapshot struct {
	PayrollNumber   string             `json:"payroll_number"`
	Status          string             `json:"status"`
	Earnings        payroll.Earnings   `json:"earnings"`
	Deductions      payroll.Deductions `json:"deductions"`
	GrossSalary     decimal.Decimal    `json:"gross_salary"`
	TotalDeductions decimal.Decimal    `json:"total_deductions"`
	NetSalary       decimal.Decimal    `json:"net_salary"`
	Revision        int                `json:"revision"`
	IsLocked        bool               `json:"is_locked"`
}

func snapshotJSON(r *payroll.PayrollRecord) json.RawMessage {
	if r == nil {
		return nil
	}
	data, err := json.Marshal(auditSnapshot{
		PayrollNumber:   r.PayrollNumber,
		Status:          string(r.Status),
		Earnings:        r.Earnings,
		Deductions:      r.Deductions,
		GrossSalary:     r.GrossSalary,
		TotalDeductions: r.TotalDeductions,
		NetSalary:       r.NetSalary,
		Revision:        r.Revision,
		IsLocked:        r.IsLocked,
	})
	if err != nil {
		return nil
	}
	return data
}

// recordAudit writes an audit entry. The mutation has already been committed,
// so a failed write is logged rather than returned.
func (s *PayrollServiceImpl) recordAudit(ctx context.Context, actor string, action audit.Action, entityID, description string, before, after *payroll.PayrollRecord) {
	id, err := uuid.NewV7()
	if err != nil {
		slog.Error("failed to generate audit id", "error", err)
		return
	}

	entry := audit.Entry{
		ID:          id.String(),
		ActorID:     actor,
		Action:      action,
		EntityType:  audit.EntityTypePayroll,
		EntityID:    entityID,
		Description: description,
		Before:      snapshotJSON(before),
		After:       snapshotJSON(after),
		CreatedAt:   s.now(),
	}

	if err := s.auditRepo.Create(ctx, entry); err != nil {
		slog.Error("failed to write audit entry",
			"action", string(action),
			"entity_id", entityID,
			"actor_id", actor,
			"error", err,
		)
	}
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	str := t.Format(time.RFC3339)
	return &str
}

func mapToRecordResponse(r payroll.PayrollRecord) payroll.PayrollRecordResponse {
	guardName := ""
	guardCode := ""
	if r.GuardName != nil {
		guardName = *r.GuardName
	}
	if r.GuardCode != nil {
		guardCode = *r.GuardCode
	}

	var payment *payroll.PaymentResponse
	if r.Payment != nil {
		payment = &payroll.PaymentResponse{
			Method:         string(r.Payment.Method),
			TransactionRef: r.Payment.TransactionRef,
			PaidAt:         r.Payment.PaidAt.Format(time.RFC3339),
			PaidBy:         r.Payment.PaidBy,
		}
	}

	adjustments := r.Adjustments
	if adjustments == nil {
		adjustments = []payroll.Adjustment{}
	}

	return payroll.PayrollRecordResponse{
		ID:              r.ID,
		PayrollNumber:   r.PayrollNumber,
		GuardID:         r.GuardID,
		GuardName:       guardName,
		GuardCode:       guardCode,
		PeriodMonth:     r.PeriodMonth,
		PeriodYear:      r.PeriodYear,
		PeriodStart:     r.PeriodStart.Format("2006-01-02"),
		PeriodEnd:       r.PeriodEnd.Format("2006-01-02"),
		Attendance:      r.Attendance,
		Earnings:        r.Earnings,
		Deductions:      r.Deductions,
		GrossSalary:     r.GrossSalary,
		TotalDeductions: r.TotalDeductions,
		NetSalary:       r.NetSalary,
		Status:          string(r.Status),
		VerifiedBy:      r.VerifiedBy,
		VerifiedAt:      formatTime(r.VerifiedAt),
		ApprovedBy:      r.ApprovedBy,
		ApprovedAt:      formatTime(r.ApprovedAt),
		RejectedBy:      r.RejectedBy,
		RejectedAt:      formatTime(r.RejectedAt),
		RejectionReason: r.RejectionReason,
		Payment:         payment,
		Adjustments:     adjustments,
		Revision:        r.Revision,
		RevisionCount:   len(r.Revisions),
		IsLocked:        r.IsLocked,
		Remarks:         r.Remarks,
		CreatedBy:       r.CreatedBy,
		UpdatedBy:       r.UpdatedBy,
		CreatedAt:       r.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       r.UpdatedAt.Format(time.RFC3339),
	}
}

func mapToRecordResponses(records []payroll.PayrollRecord) []payroll.PayrollRecordResponse {
	result := make([]payroll.PayrollRecordResponse, 0, len(records))
	for _, r := range records {
		result = append(result, mapToRecordResponse(r))
	}
	return result
}
