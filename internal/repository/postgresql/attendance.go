package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/sentryforce/guard-payroll/internal/domain/attendance"
	"github.com/sentryforce/guard-payroll/internal/pkg/database"
)

type attendanceRepositoryImpl struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepositoryImpl{db: db}
}

// ListByGuardAndDateRange implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) ListByGuardAndDateRange(ctx context.Context, guardID string, from, to time.Time) ([]attendance.Attendance, error) {
	if to.Before(from) {
		return nil, attendance.ErrInvalidDateRange
	}

	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, guard_id, site_id, date, status, is_late,
			   worked_hours, overtime_hours, created_at, updated_at
		FROM attendances
		WHERE guard_id = $1 AND date BETWEEN $2 AND $3
		ORDER BY date ASC
	`

	rows, err := q.Query(ctx, query, guardID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendances: %w", err)
	}
	defer rows.Close()

	var records []attendance.Attendance
	for rows.Next() {
		var (
			a      attendance.Attendance
			status string
		)
		if err := rows.Scan(
			&a.ID, &a.GuardID, &a.SiteID, &a.Date, &status, &a.IsLate,
			&a.WorkedHours, &a.OvertimeHours, &a.CreatedAt, &a.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		a.Status = attendance.Status(status)
		records = append(records, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attendances: %w", err)
	}

	return records, nil
}
