package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/sentryforce/guard-payroll/internal/domain/payroll"
	"github.com/sentryforce/guard-payroll/internal/domain/user"
)

type PayrollJobs struct {
	payrollService payroll.PayrollService
	now            func() time.Time
}

func NewPayrollJobs(payrollService payroll.PayrollService) *PayrollJobs {
	return &PayrollJobs{payrollService: payrollService, now: time.Now}
}

func (j *PayrollJobs) RegisterJobs(scheduler *Scheduler, interval time.Duration) {
	scheduler.AddJob("auto_generate_payroll", interval, j.AutoGeneratePreviousMonth)
}

// AutoGeneratePreviousMonth bulk-generates last month's payroll for every
// active guard. It only acts on the 1st of the month; repeated runs that day
// skip guards that already have a record.
func (j *PayrollJobs) AutoGeneratePreviousMonth(ctx context.Context) error {
	today := j.now().UTC()
	if today.Day() != 1 {
		return nil
	}

	prev := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -1, 0)

	result, err := j.payrollService.BulkGeneratePayroll(ctx, payroll.BulkGeneratePayrollRequest{
		PeriodMonth: int(prev.Month()),
		PeriodYear:  prev.Year(),
		ActorID:     user.SystemActor,
	})
	if err != nil {
		return fmt.Errorf("auto-generate payroll for %04d-%02d: %w", prev.Year(), prev.Month(), err)
	}
	if result.FailedCount > 0 {
		return fmt.Errorf("auto-generate payroll for %04d-%02d: %d of %d guards failed", prev.Year(), prev.Month(), result.FailedCount, result.Total)
	}
	return nil
}
