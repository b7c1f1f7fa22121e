package attendance

import "github.com/shopspring/decimal"

// Summarize folds attendance records into period counts and hour totals.
// Every record counts toward TotalDays; lateness is read from IsLate, not Status.
func Summarize(records []Attendance) Summary {
	s := Summary{
		TotalHours:    decimal.Zero,
		OvertimeHours: decimal.Zero,
	}

	for _, rec := range records {
		s.TotalDays++

		switch rec.Status {
		case StatusPresent:
			s.PresentDays++
		case StatusAbsent:
			s.AbsentDays++
		case StatusHalfDay:
			s.HalfDays++
		case StatusOnLeave:
			s.LeaveDays++
		}

		if rec.IsLate {
			s.LateDays++
		}

		s.TotalHours = s.TotalHours.Add(rec.WorkedHours)
		s.OvertimeHours = s.OvertimeHours.Add(rec.OvertimeHours)
	}

	return s
}
