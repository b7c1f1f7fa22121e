package payroll

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/sentryforce/guard-payroll/internal/domain/guard"
	"github.com/sentryforce/guard-payroll/internal/domain/payroll"
	"github.com/sentryforce/guard-payroll/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func guardIDs(items []payroll.BatchItemResult) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.GuardID)
	}
	sort.Strings(out)
	return out
}

func TestBulkGenerate_PartialFailure(t *testing.T) {
	env := newTestEnv(testGuard("A"), testGuard("B"))
	generateMarch(t, env, "B")

	result, err := env.svc.BulkGeneratePayroll(context.Background(), payroll.BulkGeneratePayrollRequest{
		PeriodMonth: 3,
		PeriodYear:  2025,
		GuardIDs:    []string{"A", "B", "C"},
		ActorID:     manager,
	})
	require.NoError(t, err)

	assert.Equal(t, 3, result.Total)
	assert.Equal(t, []string{"A"}, guardIDs(result.Success))
	assert.Equal(t, []string{"B"}, guardIDs(result.Skipped))
	assert.Equal(t, []string{"C"}, guardIDs(result.Failed))
	assert.Equal(t, 1, result.SuccessCount)
	assert.Equal(t, 1, result.SkippedCount)
	assert.Equal(t, 1, result.FailedCount)
	assert.Contains(t, result.Failed[0].Reason, guard.ErrGuardNotFound.Error())
	assert.Equal(t, "PAY-202503-00002", result.Success[0].PayrollNumber)
	assert.Equal(t, 2, env.payrolls.count())
}

func TestBulkGenerate_AllActiveGuards(t *testing.T) {
	inactive := testGuard("D")
	inactive.EmploymentStatus = guard.EmploymentStatusTerminated
	env := newTestEnv(testGuard("A"), testGuard("B"), inactive)

	result, err := env.svc.BulkGeneratePayroll(context.Background(), payroll.BulkGeneratePayrollRequest{
		PeriodMonth: 3,
		PeriodYear:  2025,
		ActorID:     manager,
	})
	require.NoError(t, err)

	assert.Equal(t, 2, result.Total)
	assert.Equal(t, []string{"A", "B"}, guardIDs(result.Success))
	assert.Empty(t, result.Failed)
	assert.Empty(t, result.Skipped)
	assert.NotNil(t, result.Failed)
	assert.NotNil(t, result.Skipped)
}

func TestBulkGenerate_Validation(t *testing.T) {
	env := newTestEnv(testGuard("A"))

	_, err := env.svc.BulkGeneratePayroll(context.Background(), payroll.BulkGeneratePayrollRequest{
		PeriodMonth: 13,
		PeriodYear:  2025,
		ActorID:     manager,
	})

	var vErr validator.ValidationErrors
	require.True(t, errors.As(err, &vErr))
	assert.Zero(t, env.payrolls.count())
}

func TestBulkGenerate_EveryItemAccountedFor(t *testing.T) {
	env := newTestEnv(testGuard("A"))

	result, err := env.svc.BulkGeneratePayroll(context.Background(), payroll.BulkGeneratePayrollRequest{
		PeriodMonth: 3,
		PeriodYear:  2025,
		GuardIDs:    []string{"A", "A", "X"},
		ActorID:     manager,
	})
	require.NoError(t, err)

	assert.Equal(t, result.Total, result.SuccessCount+result.SkippedCount+result.FailedCount)
	assert.Equal(t, 1, result.SuccessCount)
	assert.Equal(t, 1, result.SkippedCount)
	assert.Equal(t, 1, result.FailedCount)
}

func TestBulkPay_PartialFailure(t *testing.T) {
	env := newTestEnv(testGuard("A"), testGuard("B"))
	a := generateMarch(t, env, "A")
	b := generateMarch(t, env, "B")
	approve(t, env, a.ID)

	result, err := env.svc.BulkPayPayroll(context.Background(), payroll.BulkPayPayrollRequest{
		PayrollIDs:     []string{a.ID, b.ID, "missing"},
		PaymentMethod:  "bank_transfer",
		TransactionRef: "NEFT-2025-03",
		ActorID:        owner,
	})
	require.NoError(t, err)

	assert.Equal(t, 3, result.Total)
	require.Len(t, result.Success, 1)
	assert.Equal(t, a.ID, result.Success[0].PayrollID)
	assert.Equal(t, "A", result.Success[0].GuardID)
	require.Len(t, result.Failed, 2)
	assert.Equal(t, b.ID, result.Failed[0].PayrollID)
	assert.Contains(t, result.Failed[0].Reason, "cannot pay")
	assert.Equal(t, "missing", result.Failed[1].PayrollID)
	assert.Empty(t, result.Skipped)

	paid, err := env.svc.GetPayrollRecord(context.Background(), a.ID)
	require.NoError(t, err)
	assert.True(t, paid.IsLocked)
	pending, err := env.svc.GetPayrollRecord(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, string(payroll.PayrollStatusPending), pending.Status)
}

func TestBulkPay_SharesReferenceAcrossBatch(t *testing.T) {
	env := newTestEnv(testGuard("A"), testGuard("B"))
	a := generateMarch(t, env, "A")
	b := generateMarch(t, env, "B")
	approve(t, env, a.ID)
	approve(t, env, b.ID)

	result, err := env.svc.BulkPayPayroll(context.Background(), payroll.BulkPayPayrollRequest{
		PayrollIDs:     []string{a.ID, b.ID},
		PaymentMethod:  "bank_transfer",
		TransactionRef: "NEFT-BATCH-07",
		ActorID:        owner,
	})
	require.NoError(t, err)
	require.Len(t, result.Success, 2)

	for _, id := range []string{a.ID, b.ID} {
		got, err := env.svc.GetPayrollRecord(context.Background(), id)
		require.NoError(t, err)
		require.NotNil(t, got.Payment)
		assert.Equal(t, "bank_transfer", got.Payment.Method)
		require.NotNil(t, got.Payment.TransactionRef)
		assert.Equal(t, "NEFT-BATCH-07", *got.Payment.TransactionRef)
	}
}

func TestBulkPay_RequiresReference(t *testing.T) {
	env := newTestEnv(testGuard("A"))
	a := generateMarch(t, env, "A")
	approve(t, env, a.ID)

	_, err := env.svc.BulkPayPayroll(context.Background(), payroll.BulkPayPayrollRequest{
		PayrollIDs:    []string{a.ID},
		PaymentMethod: "upi",
		ActorID:       owner,
	})

	var vErr validator.ValidationErrors
	require.True(t, errors.As(err, &vErr))
	got, err := env.svc.GetPayrollRecord(context.Background(), a.ID)
	require.NoError(t, err)
	assert.False(t, got.IsLocked)
}
