package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/mrson-dev/crm-ju-ai/api/transport"
	"github.com/mrson-dev/crm-ju-ai/domain"
	"github.com/mrson-dev/crm-ju-ai/pkg/httpcontext"
	"github.com/mrson-dev/crm-ju-ai/repository"
	billingUC "github.com/mrson-dev/crm-ju-ai/usecase/billing"
)

type BillingHandler struct {
	baseHandler
	uc *billingUC.UseCase
}

func NewBillingHandler(uc *billingUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *BillingHandler {
	return &BillingHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary List fees
// @Tags billing
// @Router /api/v1/fees [get]
func (h *BillingHandler) GetFees(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	filter := repository.FeeFilter{
		UserID:   userID,
		ClientID: string(ctx.QueryArgs().Peek("client_id")),
		CaseID:   string(ctx.QueryArgs().Peek("case_id")),
		Status:   domain.FeeStatus(ctx.QueryArgs().Peek("status")),
		Limit:    parseInt(string(ctx.QueryArgs().Peek("limit")), 50),
		Offset:   parseInt(string(ctx.QueryArgs().Peek("offset")), 0),
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	fees, err := h.uc.ListFees(stdCtx, filter)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, fees)
}

// @Summary Get a fee
// @Tags billing
// @Router /api/v1/fees/{id} [get]
func (h *BillingHandler) GetFee(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	id := pathParam(ctx, "id")
	if id == "" {
		h.respondInvalid(ctx, "missing fee id")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	fee, err := h.uc.GetFee(stdCtx, id, userID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, fee)
}

// @Summary Create fee
// @Tags billing
// @Router /api/v1/fees [post]
func (h *BillingHandler) CreateFee(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	fee, ok := h.parseFee(ctx, userID)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	created, err := h.uc.CreateFee(stdCtx, fee)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, created)
}

// @Summary Update fee
// @Tags billing
// @Router /api/v1/fees/{id} [put]
func (h *BillingHandler) UpdateFee(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	fee, ok := h.parseFee(ctx, userID)
	if !ok {
		return
	}
	if fee.ID == "" {
		fee.ID = pathParam(ctx, "id")
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	updated, err := h.uc.UpdateFee(stdCtx, fee)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, updated)
}

// @Summary Delete fee
// @Tags billing
// @Router /api/v1/fees/{id} [delete]
func (h *BillingHandler) DeleteFee(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	id := pathParam(ctx, "id")
	if id == "" {
		h.respondInvalid(ctx, "missing fee id")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.DeleteFee(stdCtx, id, userID); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusNoContent, nil)
}

// @Summary Register a fee payment
// @Tags billing
// @Router /api/v1/fees/{id}/payments [post]
func (h *BillingHandler) RegisterFeePayment(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	feeID := pathParam(ctx, "id")
	if feeID == "" {
		h.respondInvalid(ctx, "missing fee id")
		return
	}

	payment, ok := h.parsePayment(ctx, userID)
	if !ok {
		return
	}
	payment.FeeID = feeID

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	created, err := h.uc.RegisterFeePayment(stdCtx, payment)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, created)
}

// @Summary List fee payments
// @Tags billing
// @Router /api/v1/fees/{id}/payments [get]
func (h *BillingHandler) GetFeePayments(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	feeID := pathParam(ctx, "id")
	if feeID == "" {
		h.respondInvalid(ctx, "missing fee id")
		return
	}
	limit := parseInt(string(ctx.QueryArgs().Peek("limit")), 50)

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	payments, err := h.uc.ListFeePayments(stdCtx, feeID, userID, limit)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, payments)
}

// @Summary List expenses
// @Tags billing
// @Router /api/v1/expenses [get]
func (h *BillingHandler) GetExpenses(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	filter := repository.ExpenseFilter{
		UserID:   userID,
		Status:   domain.ExpenseStatus(ctx.QueryArgs().Peek("status")),
		Category: domain.ExpenseCategory(ctx.QueryArgs().Peek("category")),
		Limit:    parseInt(string(ctx.QueryArgs().Peek("limit")), 50),
		Offset:   parseInt(string(ctx.QueryArgs().Peek("offset")), 0),
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	expenses, err := h.uc.ListExpenses(stdCtx, filter)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, expenses)
}

// @Summary Get an expense
// @Tags billing
// @Router /api/v1/expenses/{id} [get]
func (h *BillingHandler) GetExpense(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	id := pathParam(ctx, "id")
	if id == "" {
		h.respondInvalid(ctx, "missing expense id")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	expense, err := h.uc.GetExpense(stdCtx, id, userID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, expense)
}

// @Summary Create expense
// @Tags billing
// @Router /api/v1/expenses [post]
func (h *BillingHandler) CreateExpense(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	expense, ok := h.parseExpense(ctx, userID)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	created, err := h.uc.CreateExpense(stdCtx, expense)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, created)
}

// @Summary Update expense
// @Tags billing
// @Router /api/v1/expenses/{id} [put]
func (h *BillingHandler) UpdateExpense(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	expense, ok := h.parseExpense(ctx, userID)
	if !ok {
		return
	}
	if expense.ID == "" {
		expense.ID = pathParam(ctx, "id")
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	updated, err := h.uc.UpdateExpense(stdCtx, expense)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, updated)
}

// @Summary Approve expense
// @Tags billing
// @Router /api/v1/expenses/{id}/approve [post]
func (h *BillingHandler) ApproveExpense(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	id := pathParam(ctx, "id")
	if id == "" {
		h.respondInvalid(ctx, "missing expense id")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	approved, err := h.uc.ApproveExpense(stdCtx, id, userID, userID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, approved)
}

// @Summary Delete expense
// @Tags billing
// @Router /api/v1/expenses/{id} [delete]
func (h *BillingHandler) DeleteExpense(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	id := pathParam(ctx, "id")
	if id == "" {
		h.respondInvalid(ctx, "missing expense id")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.DeleteExpense(stdCtx, id, userID); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusNoContent, nil)
}

// @Summary List invoices
// @Tags billing
// @Router /api/v1/invoices [get]
func (h *BillingHandler) GetInvoices(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	filter := repository.InvoiceFilter{
		UserID:   userID,
		ClientID: string(ctx.QueryArgs().Peek("client_id")),
		Status:   domain.InvoiceStatus(ctx.QueryArgs().Peek("status")),
		Limit:    parseInt(string(ctx.QueryArgs().Peek("limit")), 50),
		Offset:   parseInt(string(ctx.QueryArgs().Peek("offset")), 0),
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	invoices, err := h.uc.ListInvoices(stdCtx, filter)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, invoices)
}

// @Summary Get an invoice
// @Tags billing
// @Router /api/v1/invoices/{id} [get]
func (h *BillingHandler) GetInvoice(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	id := pathParam(ctx, "id")
	if id == "" {
		h.respondInvalid(ctx, "missing invoice id")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	invoice, err := h.uc.GetInvoice(stdCtx, id, userID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, invoice)
}

// @Summary Create invoice
// @Tags billing
// @Router /api/v1/invoices [post]
func (h *BillingHandler) CreateInvoice(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	var req transport.InvoiceRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondInvalid(ctx, "invalid payload")
		return
	}

	due, ok := transport.ParseTime(req.DueDate)
	if !ok {
		h.respondInvalid(ctx, "invalid due date")
		return
	}
	var dueDate time.Time
	if due != nil {
		dueDate = *due
	}

	invoice := &domain.Invoice{
		ID:       req.ID,
		UserID:   userID,
		ClientID: req.ClientID,
		CaseID:   req.CaseID,
		Items:    req.Items,
		DueDate:  dueDate,
		Notes:    req.Notes,
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	created, err := h.uc.CreateInvoice(stdCtx, invoice)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, created)
}

// @Summary Mark invoice as sent
// @Tags billing
// @Router /api/v1/invoices/{id}/send [post]
func (h *BillingHandler) SendInvoice(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	id := pathParam(ctx, "id")
	if id == "" {
		h.respondInvalid(ctx, "missing invoice id")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	sent, err := h.uc.SendInvoice(stdCtx, id, userID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, sent)
}

// @Summary Cancel invoice
// @Tags billing
// @Router /api/v1/invoices/{id}/cancel [post]
func (h *BillingHandler) CancelInvoice(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	id := pathParam(ctx, "id")
	if id == "" {
		h.respondInvalid(ctx, "missing invoice id")
		return
	}

	var req transport.CancelInvoiceRequest
	if body := ctx.PostBody(); len(body) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			h.respondInvalid(ctx, "invalid payload")
			return
		}
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	cancelled, err := h.uc.CancelInvoice(stdCtx, id, userID, req.Reason)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, cancelled)
}

// @Summary Register an invoice payment
// @Tags billing
// @Router /api/v1/invoices/{id}/payments [post]
func (h *BillingHandler) RegisterInvoicePayment(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	invoiceID := pathParam(ctx, "id")
	if invoiceID == "" {
		h.respondInvalid(ctx, "missing invoice id")
		return
	}

	payment, ok := h.parsePayment(ctx, userID)
	if !ok {
		return
	}
	payment.InvoiceID = invoiceID

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	created, err := h.uc.RegisterInvoicePayment(stdCtx, payment)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, created)
}

// @Summary List invoice payments
// @Tags billing
// @Router /api/v1/invoices/{id}/payments [get]
func (h *BillingHandler) GetInvoicePayments(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	invoiceID := pathParam(ctx, "id")
	if invoiceID == "" {
		h.respondInvalid(ctx, "missing invoice id")
		return
	}
	limit := parseInt(string(ctx.QueryArgs().Peek("limit")), 50)

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	payments, err := h.uc.ListInvoicePayments(stdCtx, invoiceID, userID, limit)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, payments)
}

func (h *BillingHandler) parseFee(ctx *fasthttp.RequestCtx, userID string) (*domain.Fee, bool) {
	var req transport.FeeRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondInvalid(ctx, "invalid payload")
		return nil, false
	}

	due, ok := transport.ParseTime(req.DueDate)
	if !ok {
		h.respondInvalid(ctx, "invalid due date")
		return nil, false
	}

	return &domain.Fee{
		ID:           req.ID,
		UserID:       userID,
		CaseID:       req.CaseID,
		ClientID:     req.ClientID,
		FeeType:      domain.FeeType(req.FeeType),
		AmountCents:  req.AmountCents,
		Description:  req.Description,
		DueDate:      due,
		Installments: req.Installments,
		CreatedBy:    userID,
	}, true
}

func (h *BillingHandler) parseExpense(ctx *fasthttp.RequestCtx, userID string) (*domain.Expense, bool) {
	var req transport.ExpenseRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondInvalid(ctx, "invalid payload")
		return nil, false
	}

	date, ok := transport.ParseTime(req.ExpenseDate)
	if !ok {
		h.respondInvalid(ctx, "invalid expense date")
		return nil, false
	}
	var expenseDate time.Time
	if date != nil {
		expenseDate = *date
	}

	return &domain.Expense{
		ID:           req.ID,
		UserID:       userID,
		CaseID:       req.CaseID,
		ClientID:     req.ClientID,
		Category:     domain.ExpenseCategory(req.Category),
		AmountCents:  req.AmountCents,
		Description:  req.Description,
		ExpenseDate:  expenseDate,
		Reimbursable: req.Reimbursable,
		ReceiptURL:   req.ReceiptURL,
		Notes:        req.Notes,
	}, true
}

func (h *BillingHandler) parsePayment(ctx *fasthttp.RequestCtx, userID string) (*domain.Payment, bool) {
	var req transport.PaymentRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondInvalid(ctx, "invalid payload")
		return nil, false
	}

	paymentDate, ok := transport.ParseTime(req.PaymentDate)
	if !ok {
		h.respondInvalid(ctx, "invalid payment date")
		return nil, false
	}
	date := ctx.Time()
	if paymentDate != nil {
		date = *paymentDate
	}

	return &domain.Payment{
		UserID:            userID,
		AmountCents:       req.AmountCents,
		Method:            domain.PaymentMethod(req.Method),
		PaymentDate:       date,
		InstallmentNumber: req.InstallmentNumber,
		Notes:             req.Notes,
	}, true
}
