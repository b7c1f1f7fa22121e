package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sentryforce/guard-payroll/internal/domain/payroll"
	"github.com/sentryforce/guard-payroll/internal/pkg/database"
	"github.com/sentryforce/guard-payroll/internal/pkg/validator"
)

const uniqueGuardPeriodConstraint = "uk_payroll_guard_period"

type payrollRepository struct {
	db *database.DB
}

func NewPayrollRepository(db *database.DB) payroll.PayrollRepository {
	return &payrollRepository{db: db}
}

const payrollColumns = `
	pr.id, pr.payroll_number, pr.guard_id, pr.period_month, pr.period_year,
	pr.period_start, pr.period_end, pr.attendance, pr.earnings, pr.deductions,
	pr.gross_salary, pr.total_deductions, pr.net_salary, pr.status,
	pr.verified_by, pr.verified_at, pr.approved_by, pr.approved_at,
	pr.rejected_by, pr.rejected_at, pr.rejection_reason,
	pr.payment_method, pr.transaction_ref, pr.paid_at, pr.paid_by,
	pr.adjustments, pr.revisions, pr.revision, pr.is_locked, pr.remarks,
	pr.created_by, pr.updated_by, pr.created_at, pr.updated_at, pr.version,
	g.full_name, g.guard_code`

const payrollFrom = `
	FROM payroll_records pr
	JOIN guards g ON pr.guard_id = g.id`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPayrollRecord(row rowScanner) (payroll.PayrollRecord, error) {
	var (
		rec                   payroll.PayrollRecord
		status                string
		attendanceJSON        []byte
		earningsJSON          []byte
		deductionsJSON        []byte
		adjustmentsJSON       []byte
		revisionsJSON         []byte
		paymentMethod, paidBy *string
		transactionRef        *string
		paidAt                *time.Time
	)

	err := row.Scan(
		&rec.ID, &rec.PayrollNumber, &rec.GuardID, &rec.PeriodMonth, &rec.PeriodYear,
		&rec.PeriodStart, &rec.PeriodEnd, &attendanceJSON, &earningsJSON, &deductionsJSON,
		&rec.GrossSalary, &rec.TotalDeductions, &rec.NetSalary, &status,
		&rec.VerifiedBy, &rec.VerifiedAt, &rec.ApprovedBy, &rec.ApprovedAt,
		&rec.RejectedBy, &rec.RejectedAt, &rec.RejectionReason,
		&paymentMethod, &transactionRef, &paidAt, &paidBy,
		&adjustmentsJSON, &revisionsJSON, &rec.Revision, &rec.IsLocked, &rec.Remarks,
		&rec.CreatedBy, &rec.UpdatedBy, &rec.CreatedAt, &rec.UpdatedAt, &rec.Version,
		&rec.GuardName, &rec.GuardCode,
	)
	if err != nil {
		return payroll.PayrollRecord{}, err
	}

	rec.Status = payroll.PayrollStatus(status)

	if err := json.Unmarshal(attendanceJSON, &rec.Attendance); err != nil {
		return payroll.PayrollRecord{}, fmt.Errorf("failed to decode attendance summary: %w", err)
	}
	if err := json.Unmarshal(earningsJSON, &rec.Earnings); err != nil {
		return payroll.PayrollRecord{}, fmt.Errorf("failed to decode earnings: %w", err)
	}
	if err := json.Unmarshal(deductionsJSON, &rec.Deductions); err != nil {
		return payroll.PayrollRecord{}, fmt.Errorf("failed to decode deductions: %w", err)
	}
	if err := json.Unmarshal(adjustmentsJSON, &rec.Adjustments); err != nil {
		return payroll.PayrollRecord{}, fmt.Errorf("failed to decode adjustments: %w", err)
	}
	if err := json.Unmarshal(revisionsJSON, &rec.Revisions); err != nil {
		return payroll.PayrollRecord{}, fmt.Errorf("failed to decode revisions: %w", err)
	}

	if paidAt != nil && paymentMethod != nil {
		rec.Payment = &payroll.Payment{
			Method:         payroll.PaymentMethod(*paymentMethod),
			TransactionRef: transactionRef,
			PaidAt:         *paidAt,
		}
		if paidBy != nil {
			rec.Payment.PaidBy = *paidBy
		}
	}

	return rec, nil
}

// payrollDocuments encodes the JSONB columns of a record.
type payrollDocuments struct {
	attendance, earnings, deductions, adjustments, revisions []byte
}

func encodePayrollDocuments(rec payroll.PayrollRecord) (payrollDocuments, error) {
	var (
		docs payrollDocuments
		err  error
	)

	adjustments := rec.Adjustments
	if adjustments == nil {
		adjustments = []payroll.Adjustment{}
	}
	revisions := rec.Revisions
	if revisions == nil {
		revisions = []payroll.RevisionSnapshot{}
	}

	if docs.attendance, err = json.Marshal(rec.Attendance); err != nil {
		return docs, fmt.Errorf("failed to encode attendance summary: %w", err)
	}
	if docs.earnings, err = json.Marshal(rec.Earnings); err != nil {
		return docs, fmt.Errorf("failed to encode earnings: %w", err)
	}
	if docs.deductions, err = json.Marshal(rec.Deductions); err != nil {
		return docs, fmt.Errorf("failed to encode deductions: %w", err)
	}
	if docs.adjustments, err = json.Marshal(adjustments); err != nil {
		return docs, fmt.Errorf("failed to encode adjustments: %w", err)
	}
	if docs.revisions, err = json.Marshal(revisions); err != nil {
		return docs, fmt.Errorf("failed to encode revisions: %w", err)
	}
	return docs, nil
}

func paymentColumns(p *payroll.Payment) (method, ref *string, paidAt *time.Time, paidBy *string) {
	if p == nil {
		return nil, nil, nil, nil
	}
	m := string(p.Method)
	return &m, p.TransactionRef, &p.PaidAt, &p.PaidBy
}

func (r *payrollRepository) NextPayrollSequence(ctx context.Context, year, month int) (int, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payroll_number_sequences (period_year, period_month, last_value)
		VALUES ($1, $2, 1)
		ON CONFLICT (period_year, period_month)
		DO UPDATE SET last_value = payroll_number_sequences.last_value + 1
		RETURNING last_value
	`

	var seq int
	if err := q.QueryRow(ctx, query, year, month).Scan(&seq); err != nil {
		return 0, fmt.Errorf("failed to reserve payroll number: %w", err)
	}
	return seq, nil
}

func (r *payrollRepository) CreatePayrollRecord(ctx context.Context, record payroll.PayrollRecord) (payroll.PayrollRecord, error) {
	q := GetQuerier(ctx, r.db)

	docs, err := encodePayrollDocuments(record)
	if err != nil {
		return payroll.PayrollRecord{}, err
	}

	query := `
		INSERT INTO payroll_records (
			id, payroll_number, guard_id, period_month, period_year, period_start, period_end,
			attendance, earnings, deductions, gross_salary, total_deductions, net_salary,
			status, adjustments, revisions, revision, is_locked, remarks,
			created_by, updated_by, created_at, updated_at, version
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, 1)
	`

	_, err = q.Exec(ctx, query,
		record.ID, record.PayrollNumber, record.GuardID, record.PeriodMonth, record.PeriodYear,
		record.PeriodStart, record.PeriodEnd,
		docs.attendance, docs.earnings, docs.deductions,
		record.GrossSalary, record.TotalDeductions, record.NetSalary,
		string(record.Status), docs.adjustments, docs.revisions, record.Revision, record.IsLocked, record.Remarks,
		record.CreatedBy, record.UpdatedBy, record.CreatedAt, record.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == uniqueGuardPeriodConstraint {
			return payroll.PayrollRecord{}, payroll.ErrPayrollRecordAlreadyExists
		}
		return payroll.PayrollRecord{}, fmt.Errorf("failed to create payroll record: %w", err)
	}

	return r.GetPayrollRecordByID(ctx, record.ID)
}

func (r *payrollRepository) GetPayrollRecordByID(ctx context.Context, id string) (payroll.PayrollRecord, error) {
	// Record ids are UUIDv7; anything else cannot match and would fail the uuid cast.
	if !validator.IsValidUUID(id) {
		return payroll.PayrollRecord{}, payroll.ErrPayrollRecordNotFound
	}
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + payrollColumns + payrollFrom + ` WHERE pr.id = $1`

	rec, err := scanPayrollRecord(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.PayrollRecord{}, payroll.ErrPayrollRecordNotFound
		}
		return payroll.PayrollRecord{}, fmt.Errorf("failed to get payroll record: %w", err)
	}
	return rec, nil
}

func (r *payrollRepository) GetPayrollRecordByGuardPeriod(ctx context.Context, guardID string, month, year int) (payroll.PayrollRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + payrollColumns + payrollFrom + `
		WHERE pr.guard_id = $1 AND pr.period_month = $2 AND pr.period_year = $3`

	rec, err := scanPayrollRecord(q.QueryRow(ctx, query, guardID, month, year))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.PayrollRecord{}, payroll.ErrPayrollRecordNotFound
		}
		return payroll.PayrollRecord{}, fmt.Errorf("failed to get payroll record by guard period: %w", err)
	}
	return rec, nil
}

func (r *payrollRepository) ListPayrollRecords(ctx context.Context, filter payroll.PayrollFilter) ([]payroll.PayrollRecord, int64, error) {
	q := GetQuerier(ctx, r.db)

	baseQuery := payrollFrom + ` WHERE 1=1`
	args := []interface{}{}
	argIdx := 1

	if filter.PeriodMonth != nil {
		baseQuery += fmt.Sprintf(" AND pr.period_month = $%d", argIdx)
		args = append(args, *filter.PeriodMonth)
		argIdx++
	}
	if filter.PeriodYear != nil {
		baseQuery += fmt.Sprintf(" AND pr.period_year = $%d", argIdx)
		args = append(args, *filter.PeriodYear)
		argIdx++
	}
	if filter.Status != nil {
		baseQuery += fmt.Sprintf(" AND pr.status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.GuardID != nil {
		baseQuery += fmt.Sprintf(" AND pr.guard_id = $%d", argIdx)
		args = append(args, *filter.GuardID)
		argIdx++
	}

	var totalCount int64
	countQuery := "SELECT COUNT(*) " + baseQuery
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("failed to count payroll records: %w", err)
	}

	sortColumn := "pr.created_at"
	if filter.SortBy != "" {
		allowedColumns := map[string]string{
			"created_at":     "pr.created_at",
			"payroll_number": "pr.payroll_number",
			"guard_name":     "g.full_name",
			"net_salary":     "pr.net_salary",
		}
		if col, ok := allowedColumns[filter.SortBy]; ok {
			sortColumn = col
		}
	}
	sortOrder := "DESC"
	if filter.SortOrder == "asc" {
		sortOrder = "ASC"
	}

	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	offset := (filter.Page - 1) * filter.Limit

	selectQuery := fmt.Sprintf(`SELECT %s %s ORDER BY %s %s LIMIT $%d OFFSET $%d`,
		payrollColumns, baseQuery, sortColumn, sortOrder, argIdx, argIdx+1)
	args = append(args, filter.Limit, offset)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list payroll records: %w", err)
	}
	defer rows.Close()

	var records []payroll.PayrollRecord
	for rows.Next() {
		rec, err := scanPayrollRecord(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan payroll record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate payroll records: %w", err)
	}

	return records, totalCount, nil
}

func (r *payrollRepository) SavePayrollRecord(ctx context.Context, record payroll.PayrollRecord) (payroll.PayrollRecord, error) {
	q := GetQuerier(ctx, r.db)

	docs, err := encodePayrollDocuments(record)
	if err != nil {
		return payroll.PayrollRecord{}, err
	}
	method, ref, paidAt, paidBy := paymentColumns(record.Payment)

	query := `
		UPDATE payroll_records SET
			earnings = $3, deductions = $4,
			gross_salary = $5, total_deductions = $6, net_salary = $7,
			status = $8,
			verified_by = $9, verified_at = $10,
			approved_by = $11, approved_at = $12,
			rejected_by = $13, rejected_at = $14, rejection_reason = $15,
			payment_method = $16, transaction_ref = $17, paid_at = $18, paid_by = $19,
			adjustments = $20, revisions = $21, revision = $22, is_locked = $23, remarks = $24,
			updated_by = $25, updated_at = $26,
			version = version + 1
		WHERE id = $1 AND version = $2 AND is_locked = false
		RETURNING version
	`

	var newVersion int
	err = q.QueryRow(ctx, query,
		record.ID, record.Version,
		docs.earnings, docs.deductions,
		record.GrossSalary, record.TotalDeductions, record.NetSalary,
		string(record.Status),
		record.VerifiedBy, record.VerifiedAt,
		record.ApprovedBy, record.ApprovedAt,
		record.RejectedBy, record.RejectedAt, record.RejectionReason,
		method, ref, paidAt, paidBy,
		docs.adjustments, docs.revisions, record.Revision, record.IsLocked, record.Remarks,
		record.UpdatedBy, record.UpdatedAt,
	).Scan(&newVersion)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.PayrollRecord{}, payroll.ErrConcurrentModification
		}
		return payroll.PayrollRecord{}, fmt.Errorf("failed to save payroll record: %w", err)
	}

	record.Version = newVersion
	return record, nil
}

func (r *payrollRepository) DeletePayrollRecord(ctx context.Context, id string, expectedVersion int) error {
	q := GetQuerier(ctx, r.db)

	query := `DELETE FROM payroll_records WHERE id = $1 AND version = $2 AND is_locked = false`

	tag, err := q.Exec(ctx, query, id, expectedVersion)
	if err != nil {
		return fmt.Errorf("failed to delete payroll record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return payroll.ErrConcurrentModification
	}

	return nil
}

func (r *payrollRepository) GetPayrollSummary(ctx context.Context, month, year int) (payroll.PayrollSummaryResponse, error) {
	q := GetQuerier(ctx, r.db)

	// Money totals leave out cancelled records.
	query := `
		SELECT
			COUNT(*) AS total_records,
			COALESCE(SUM(gross_salary) FILTER (WHERE status <> 'cancelled'), 0) AS total_gross_salary,
			COALESCE(SUM(total_deductions) FILTER (WHERE status <> 'cancelled'), 0) AS total_deductions,
			COALESCE(SUM(net_salary) FILTER (WHERE status <> 'cancelled'), 0) AS total_net_salary,
			COALESCE(SUM(net_salary) FILTER (WHERE status = 'paid'), 0) AS total_paid_net_salary,
			COUNT(*) FILTER (WHERE status = 'draft') AS draft_count,
			COUNT(*) FILTER (WHERE status = 'pending') AS pending_count,
			COUNT(*) FILTER (WHERE status = 'verified') AS verified_count,
			COUNT(*) FILTER (WHERE status = 'approved') AS approved_count,
			COUNT(*) FILTER (WHERE status = 'paid') AS paid_count,
			COUNT(*) FILTER (WHERE status = 'cancelled') AS cancelled_count
		FROM payroll_records
		WHERE period_month = $1 AND period_year = $2
	`

	var summary payroll.PayrollSummaryResponse
	err := q.QueryRow(ctx, query, month, year).Scan(
		&summary.TotalRecords, &summary.TotalGrossSalary, &summary.TotalDeductions,
		&summary.TotalNetSalary, &summary.TotalPaidNetSalary,
		&summary.DraftCount, &summary.PendingCount, &summary.VerifiedCount,
		&summary.ApprovedCount, &summary.PaidCount, &summary.CancelledCount,
	)
	if err != nil {
		return payroll.PayrollSummaryResponse{}, fmt.Errorf("failed to get payroll summary: %w", err)
	}

	summary.PeriodMonth = month
	summary.PeriodYear = year

	return summary, nil
}
