package attendance

import (
	"context"
	"time"
)

// AttendanceRepository is the read side of the attendance store consumed by payroll.
type AttendanceRepository interface {
	// ListByGuardAndDateRange returns every record whose date falls within [from, to], inclusive.
	ListByGuardAndDateRange(ctx context.Context, guardID string, from, to time.Time) ([]Attendance, error)
}
