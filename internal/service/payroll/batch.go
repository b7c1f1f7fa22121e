package payroll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sentryforce/guard-payroll/internal/domain/guard"
	"github.com/sentryforce/guard-payroll/internal/domain/payroll"
)

// BulkGeneratePayroll generates one record per guard, sequentially. A guard
// that already has a record for the period is skipped; any other per-guard
// error is recorded as failed and the batch moves on.
func (s *PayrollServiceImpl) BulkGeneratePayroll(ctx context.Context, req payroll.BulkGeneratePayrollRequest) (payroll.BatchResult, error) {
	if err := req.Validate(); err != nil {
		return payroll.BatchResult{}, err
	}
	if err := requireActor(req.ActorID); err != nil {
		return payroll.BatchResult{}, err
	}

	rates, err := s.rates.Resolve(ctx)
	if err != nil {
		return payroll.BatchResult{}, err
	}

	guardIDs := req.GuardIDs
	preloaded := make(map[string]guard.Guard)
	if len(guardIDs) == 0 {
		active, err := s.guardRepo.ListActive(ctx)
		if err != nil {
			return payroll.BatchResult{}, fmt.Errorf("failed to list active guards: %w", err)
		}
		for _, g := range active {
			guardIDs = append(guardIDs, g.ID)
			preloaded[g.ID] = g
		}
	}

	result := payroll.NewBatchResult(len(guardIDs))

	for _, guardID := range guardIDs {
		if err := ctx.Err(); err != nil {
			result.AddFailed(payroll.BatchItemResult{GuardID: guardID, Reason: err.Error()})
			continue
		}

		g, ok := preloaded[guardID]
		if !ok {
			g, err = s.guardRepo.GetByID(ctx, guardID)
			if err != nil {
				result.AddFailed(payroll.BatchItemResult{GuardID: guardID, Reason: err.Error()})
				continue
			}
		}

		created, err := s.generate(ctx, generateInput{
			guard: g,
			month: req.PeriodMonth,
			year:  req.PeriodYear,
			rates: rates,
			actor: req.ActorID,
		})
		switch {
		case errors.Is(err, payroll.ErrPayrollRecordAlreadyExists):
			result.AddSkipped(payroll.BatchItemResult{GuardID: guardID, Reason: err.Error()})
		case err != nil:
			result.AddFailed(payroll.BatchItemResult{GuardID: guardID, Reason: err.Error()})
		default:
			result.AddSuccess(payroll.BatchItemResult{
				GuardID:       guardID,
				PayrollID:     created.ID,
				PayrollNumber: created.PayrollNumber,
			})
		}
	}

	slog.Info("payroll bulk generate finished",
		"month", req.PeriodMonth,
		"year", req.PeriodYear,
		"total", result.Total,
		"success", result.SuccessCount,
		"skipped", result.SkippedCount,
		"failed", result.FailedCount,
	)

	return result, nil
}

// BulkPayPayroll pays each listed record with the shared method and reference.
// Records that cannot be paid are reported as failed.
func (s *PayrollServiceImpl) BulkPayPayroll(ctx context.Context, req payroll.BulkPayPayrollRequest) (payroll.BatchResult, error) {
	if err := req.Validate(); err != nil {
		return payroll.BatchResult{}, err
	}
	if err := requireActor(req.ActorID); err != nil {
		return payroll.BatchResult{}, err
	}

	method := payroll.PaymentMethod(req.PaymentMethod)
	result := payroll.NewBatchResult(len(req.PayrollIDs))

	for _, id := range req.PayrollIDs {
		if err := ctx.Err(); err != nil {
			result.AddFailed(payroll.BatchItemResult{PayrollID: id, Reason: err.Error()})
			continue
		}

		paid, err := s.pay(ctx, id, method, req.TransactionRef, req.ActorID)
		if err != nil {
			result.AddFailed(payroll.BatchItemResult{PayrollID: id, Reason: err.Error()})
			continue
		}
		result.AddSuccess(payroll.BatchItemResult{
			GuardID:       paid.GuardID,
			PayrollID:     paid.ID,
			PayrollNumber: paid.PayrollNumber,
		})
	}

	slog.Info("payroll bulk pay finished",
		"method", req.PaymentMethod,
		"total", result.Total,
		"success", result.SuccessCount,
		"failed", result.FailedCount,
	)

	return result, nil
}
