package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/sentryforce/guard-payroll/internal/domain/guard"
	"github.com/sentryforce/guard-payroll/internal/domain/payroll"
	"github.com/sentryforce/guard-payroll/internal/domain/setting"
	"github.com/sentryforce/guard-payroll/internal/domain/user"
	"github.com/sentryforce/guard-payroll/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth
	case errors.Is(err, user.ErrInvalidToken), errors.Is(err, payroll.ErrActorRequired):
		Unauthorized(w, err.Error())
	case errors.Is(err, user.ErrInsufficientPermissions):
		Forbidden(w, err.Error())

	// Lookups
	case errors.Is(err, guard.ErrGuardNotFound):
		NotFound(w, "Guard not found")
	case errors.Is(err, payroll.ErrPayrollRecordNotFound):
		NotFound(w, "Payroll record not found")

	// Payroll state
	case errors.Is(err, payroll.ErrPayrollRecordAlreadyExists):
		Conflict(w, "Payroll record already exists for this guard and period")
	case errors.Is(err, payroll.ErrInvalidTransition):
		Conflict(w, err.Error())
	case errors.Is(err, payroll.ErrConcurrentModification):
		Conflict(w, "Payroll record was modified by another request, reload and retry")
	case errors.Is(err, payroll.ErrPayrollRecordLocked):
		InvalidState(w, "Payroll record is locked")
	case errors.Is(err, payroll.ErrPayrollRecordImmutable):
		InvalidState(w, "Cancelled payroll record cannot be modified")

	// Input rejected by domain rules rather than tags
	case errors.Is(err, payroll.ErrRejectionReasonRequired):
		ValidationError(w, map[string]string{"reason": "is required"})
	case errors.Is(err, payroll.ErrTransactionRefRequired):
		ValidationError(w, map[string]string{"transaction_ref": "is required for bank_transfer and upi payments"})
	case errors.Is(err, payroll.ErrInvalidPaymentMethod):
		ValidationError(w, map[string]string{"payment_method": "is invalid"})
	case errors.Is(err, payroll.ErrInvalidAdjustment), errors.Is(err, setting.ErrNegativeRate):
		BadRequest(w, err.Error(), nil)

	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
