package attendance

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status values recorded by site supervisors for a guard's shift day.
type Status string

const (
	StatusPresent Status = "present"
	StatusAbsent  Status = "absent"
	StatusHalfDay Status = "half_day"
	StatusOnLeave Status = "on_leave"
)

// Attendance is one guard's record for one calendar day.
type Attendance struct {
	ID            string
	GuardID       string
	SiteID        *string
	Date          time.Time
	Status        Status
	IsLate        bool
	WorkedHours   decimal.Decimal
	OvertimeHours decimal.Decimal
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Summary aggregates a guard's attendance over a payroll period.
type Summary struct {
	TotalDays     int             `json:"total_days"`
	PresentDays   int             `json:"present_days"`
	AbsentDays    int             `json:"absent_days"`
	HalfDays      int             `json:"half_days"`
	LateDays      int             `json:"late_days"`
	LeaveDays     int             `json:"leave_days"`
	TotalHours    decimal.Decimal `json:"total_hours"`
	OvertimeHours decimal.Decimal `json:"overtime_hours"`
}
