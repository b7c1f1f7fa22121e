package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sentryforce/guard-payroll/internal/domain/payroll"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPayrollService struct {
	payroll.PayrollService

	calls  []payroll.BulkGeneratePayrollRequest
	result payroll.BatchResult
	err    error
}

func (r *recordingPayrollService) BulkGeneratePayroll(_ context.Context, req payroll.BulkGeneratePayrollRequest) (payroll.BatchResult, error) {
	r.calls = append(r.calls, req)
	return r.result, r.err
}

func jobsAt(svc payroll.PayrollService, now time.Time) *PayrollJobs {
	j := NewPayrollJobs(svc)
	j.now = func() time.Time { return now }
	return j
}

func TestAutoGenerate_FirstOfMonthTargetsPreviousMonth(t *testing.T) {
	svc := &recordingPayrollService{result: payroll.NewBatchResult(0)}

	err := jobsAt(svc, time.Date(2025, 4, 1, 2, 0, 0, 0, time.UTC)).AutoGeneratePreviousMonth(context.Background())
	require.NoError(t, err)

	require.Len(t, svc.calls, 1)
	assert.Equal(t, 3, svc.calls[0].PeriodMonth)
	assert.Equal(t, 2025, svc.calls[0].PeriodYear)
	assert.Equal(t, "system", svc.calls[0].ActorID)
	assert.Empty(t, svc.calls[0].GuardIDs)
}

func TestAutoGenerate_JanuaryRollsBackYear(t *testing.T) {
	svc := &recordingPayrollService{result: payroll.NewBatchResult(0)}

	err := jobsAt(svc, time.Date(2026, 1, 1, 0, 30, 0, 0, time.UTC)).AutoGeneratePreviousMonth(context.Background())
	require.NoError(t, err)

	require.Len(t, svc.calls, 1)
	assert.Equal(t, 12, svc.calls[0].PeriodMonth)
	assert.Equal(t, 2025, svc.calls[0].PeriodYear)
}

func TestAutoGenerate_SkipsOtherDays(t *testing.T) {
	svc := &recordingPayrollService{}

	err := jobsAt(svc, time.Date(2025, 4, 2, 0, 0, 0, 0, time.UTC)).AutoGeneratePreviousMonth(context.Background())
	require.NoError(t, err)
	assert.Empty(t, svc.calls)
}

func TestAutoGenerate_ReportsFailures(t *testing.T) {
	result := payroll.NewBatchResult(2)
	result.AddSuccess(payroll.BatchItemResult{GuardID: "A"})
	result.AddFailed(payroll.BatchItemResult{GuardID: "B", Reason: "boom"})
	svc := &recordingPayrollService{result: result}

	err := jobsAt(svc, time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)).AutoGeneratePreviousMonth(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 guards failed")

	svc = &recordingPayrollService{err: errors.New("db down")}
	err = jobsAt(svc, time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)).AutoGeneratePreviousMonth(context.Background())
	assert.ErrorContains(t, err, "db down")
}

func TestScheduler_RunOnceAndStop(t *testing.T) {
	s := NewScheduler(nil)
	runs := make(chan struct{}, 4)
	s.AddJob("tick", time.Hour, func(context.Context) error {
		runs <- struct{}{}
		return nil
	})

	s.RunOnce(context.Background())
	assert.Len(t, runs, 1)

	s.Start(context.Background())
	select {
	case <-runs:
	case <-time.After(time.Second):
		t.Fatal("job did not run on start")
	}
	s.Stop()
	s.Stop()
}
