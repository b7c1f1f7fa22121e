package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/sentryforce/guard-payroll/internal/domain/payroll"
	"github.com/sentryforce/guard-payroll/internal/handler/http/middleware"
	"github.com/sentryforce/guard-payroll/internal/handler/http/response"
)

type PayrollHandler interface {
	// Generation
	GeneratePayroll(w http.ResponseWriter, r *http.Request)
	BulkGeneratePayroll(w http.ResponseWriter, r *http.Request)

	// Records
	GetPayrollRecord(w http.ResponseWriter, r *http.Request)
	ListPayrollRecords(w http.ResponseWriter, r *http.Request)
	UpdatePayrollRecord(w http.ResponseWriter, r *http.Request)
	AddAdjustment(w http.ResponseWriter, r *http.Request)
	DeletePayrollRecord(w http.ResponseWriter, r *http.Request)
	GetRevisionHistory(w http.ResponseWriter, r *http.Request)

	// Workflow
	VerifyPayroll(w http.ResponseWriter, r *http.Request)
	ApprovePayroll(w http.ResponseWriter, r *http.Request)
	RejectPayroll(w http.ResponseWriter, r *http.Request)
	PayPayroll(w http.ResponseWriter, r *http.Request)
	BulkPayPayroll(w http.ResponseWriter, r *http.Request)

	// Summary
	GetPayrollSummary(w http.ResponseWriter, r *http.Request)
}

type payrollHandlerImpl struct {
	payrollService payroll.PayrollService
}

func NewPayrollHandler(payrollService payroll.PayrollService) PayrollHandler {
	return &payrollHandlerImpl{payrollService: payrollService}
}

// decodeBody reports false after writing a 400 when the body is not valid JSON.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return false
	}
	return true
}

// ========== GENERATION ==========

func (h *payrollHandlerImpl) GeneratePayroll(w http.ResponseWriter, r *http.Request) {
	var req payroll.GeneratePayrollRequest
	if !decodeBody(w, r, &req) {
		return
	}
	req.ActorID = middleware.ActorID(r.Context())

	result, err := h.payrollService.GeneratePayroll(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Payroll generated successfully", result)
}

func (h *payrollHandlerImpl) BulkGeneratePayroll(w http.ResponseWriter, r *http.Request) {
	var req payroll.BulkGeneratePayrollRequest
	if !decodeBody(w, r, &req) {
		return
	}
	req.ActorID = middleware.ActorID(r.Context())

	result, err := h.payrollService.BulkGeneratePayroll(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Bulk payroll generation completed", result)
}

// ========== RECORDS ==========

func (h *payrollHandlerImpl) GetPayrollRecord(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Record ID is required", nil)
		return
	}

	result, err := h.payrollService.GetPayrollRecord(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) ListPayrollRecords(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := payroll.PayrollFilter{
		Page:      1,
		Limit:     20,
		SortBy:    "created_at",
		SortOrder: "desc",
	}

	if pageStr := query.Get("page"); pageStr != "" {
		if page, err := strconv.Atoi(pageStr); err == nil && page > 0 {
			filter.Page = page
		}
	}
	if limitStr := query.Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil && limit > 0 {
			filter.Limit = limit
		}
	}
	if monthStr := query.Get("period_month"); monthStr != "" {
		if month, err := strconv.Atoi(monthStr); err == nil {
			filter.PeriodMonth = &month
		}
	}
	if yearStr := query.Get("period_year"); yearStr != "" {
		if year, err := strconv.Atoi(yearStr); err == nil {
			filter.PeriodYear = &year
		}
	}
	if status := query.Get("status"); status != "" {
		filter.Status = &status
	}
	if guardID := query.Get("guard_id"); guardID != "" {
		filter.GuardID = &guardID
	}
	if sortBy := query.Get("sort_by"); sortBy != "" {
		filter.SortBy = sortBy
	}
	if sortOrder := query.Get("sort_order"); sortOrder != "" {
		filter.SortOrder = sortOrder
	}

	result, err := h.payrollService.ListPayrollRecords(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result.Data, response.NewMeta(result.Page, result.Limit, result.TotalCount))
}

func (h *payrollHandlerImpl) UpdatePayrollRecord(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Record ID is required", nil)
		return
	}

	var req payroll.UpdatePayrollRecordRequest
	if !decodeBody(w, r, &req) {
		return
	}
	req.ID = id
	req.ActorID = middleware.ActorID(r.Context())

	result, err := h.payrollService.UpdatePayrollRecord(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) AddAdjustment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Record ID is required", nil)
		return
	}

	var req payroll.AddAdjustmentRequest
	if !decodeBody(w, r, &req) {
		return
	}
	req.ID = id
	req.ActorID = middleware.ActorID(r.Context())

	result, err := h.payrollService.AddAdjustment(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Adjustment added successfully", result)
}

func (h *payrollHandlerImpl) DeletePayrollRecord(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Record ID is required", nil)
		return
	}

	req := payroll.WorkflowActionRequest{ID: id, ActorID: middleware.ActorID(r.Context())}
	if err := h.payrollService.DeletePayrollRecord(r.Context(), req); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll record deleted successfully", nil)
}

func (h *payrollHandlerImpl) GetRevisionHistory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Record ID is required", nil)
		return
	}

	result, err := h.payrollService.GetRevisionHistory(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ========== WORKFLOW ==========

func (h *payrollHandlerImpl) VerifyPayroll(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	req := payroll.WorkflowActionRequest{ID: id, ActorID: middleware.ActorID(r.Context())}

	result, err := h.payrollService.VerifyPayroll(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll verified", result)
}

func (h *payrollHandlerImpl) ApprovePayroll(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	req := payroll.WorkflowActionRequest{ID: id, ActorID: middleware.ActorID(r.Context())}

	result, err := h.payrollService.ApprovePayroll(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll approved", result)
}

func (h *payrollHandlerImpl) RejectPayroll(w http.ResponseWriter, r *http.Request) {
	var req payroll.RejectPayrollRequest
	if !decodeBody(w, r, &req) {
		return
	}
	req.ID = chi.URLParam(r, "id")
	req.ActorID = middleware.ActorID(r.Context())

	result, err := h.payrollService.RejectPayroll(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll rejected", result)
}

func (h *payrollHandlerImpl) PayPayroll(w http.ResponseWriter, r *http.Request) {
	var req payroll.PayPayrollRequest
	if !decodeBody(w, r, &req) {
		return
	}
	req.ID = chi.URLParam(r, "id")
	req.ActorID = middleware.ActorID(r.Context())

	result, err := h.payrollService.PayPayroll(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll paid", result)
}

func (h *payrollHandlerImpl) BulkPayPayroll(w http.ResponseWriter, r *http.Request) {
	var req payroll.BulkPayPayrollRequest
	if !decodeBody(w, r, &req) {
		return
	}
	req.ActorID = middleware.ActorID(r.Context())

	result, err := h.payrollService.BulkPayPayroll(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Bulk payment completed", result)
}

// ========== SUMMARY ==========

func (h *payrollHandlerImpl) GetPayrollSummary(w http.ResponseWriter, r *http.Request) {
	monthStr := r.URL.Query().Get("period_month")
	yearStr := r.URL.Query().Get("period_year")

	if monthStr == "" || yearStr == "" {
		response.BadRequest(w, "period_month and period_year are required", nil)
		return
	}

	month, err := strconv.Atoi(monthStr)
	if err != nil {
		response.BadRequest(w, "Invalid period_month", nil)
		return
	}

	year, err := strconv.Atoi(yearStr)
	if err != nil {
		response.BadRequest(w, "Invalid period_year", nil)
		return
	}

	result, err := h.payrollService.GetPayrollSummary(r.Context(), month, year)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
