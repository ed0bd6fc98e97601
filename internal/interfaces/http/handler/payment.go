package handler

import (
	"net/http"

	bankingapp "github.com/hospos/backend/internal/application/banking"
	"github.com/hospos/backend/internal/domain/banking"
	"github.com/hospos/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentHandler handles payment bridge API endpoints
type PaymentHandler struct {
	BaseHandler
	paymentService *bankingapp.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(paymentService *bankingapp.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
	}
}

// CreatePaymentRequest represents a request to register a payment
// @Description Request body for registering a payment
type CreatePaymentRequest struct {
	Kind           string              `json:"kind" binding:"required,oneof=COLLECTION DISBURSEMENT" example:"COLLECTION"`
	Method         string              `json:"method" binding:"required,min=1,max=50" example:"CARD"`
	Amount         float64             `json:"amount" binding:"required,gt=0" example:"89.50"`
	Currency       string              `json:"currency" binding:"required,len=3" example:"EUR"`
	IdempotencyKey string              `json:"idempotency_key" binding:"max=128" example:"pos-7-20260830-000412"`
	AccountID      *string             `json:"account_id" binding:"omitempty,uuid"`
	BankReference  string              `json:"bank_reference" binding:"max=200" example:"PSP-REF-99812"`
	Counterpart    *CounterpartRequest `json:"counterpart"`
	Description    string              `json:"description" binding:"max=500" example:"Table 12 dinner"`
}

// RefundPaymentRequest represents a request to refund a payment
// @Description Request body for refunding a confirmed payment
type RefundPaymentRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500" example:"Guest complaint, full refund"`
}

// ListPaymentsQuery carries the query filters for listing payments
type ListPaymentsQuery struct {
	Kind      string `form:"kind" binding:"omitempty,oneof=COLLECTION DISBURSEMENT"`
	Status    string `form:"status" binding:"omitempty,oneof=DRAFT CONFIRMED REFUNDED VOIDED"`
	Method    string `form:"method"`
	AccountID string `form:"account_id" binding:"omitempty,uuid"`
	Page      int    `form:"page"`
	PageSize  int    `form:"page_size"`
}

// Create godoc
// @ID           createPayment
// @Summary      Register a payment
// @Description  Register a draft payment. The idempotency key may come from the body or the Idempotency-Key header; replaying the same key returns the existing payment with HTTP 200 instead of 201.
// @Tags         bank-payments
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        Idempotency-Key header string false "Idempotency key (alternative to body field)"
// @Param        request body CreatePaymentRequest true "Payment registration request"
// @Success      200 {object} dto.Response
// @Success      201 {object} dto.Response
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /banking/payments [post]
func (h *PaymentHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	idempotencyKey := req.IdempotencyKey
	if idempotencyKey == "" {
		idempotencyKey = c.GetHeader("Idempotency-Key")
	}

	input := bankingapp.CreatePaymentInput{
		Kind:           req.Kind,
		Method:         req.Method,
		Amount:         decimal.NewFromFloat(req.Amount),
		Currency:       req.Currency,
		IdempotencyKey: idempotencyKey,
		BankReference:  req.BankReference,
		Description:    req.Description,
	}
	if req.AccountID != nil {
		id, err := uuid.Parse(*req.AccountID)
		if err != nil {
			h.BadRequest(c, "Invalid account ID")
			return
		}
		input.AccountID = &id
	}
	if req.Counterpart != nil {
		input.Counterpart = req.Counterpart.toDomain()
	}

	result, err := h.paymentService.CreatePayment(c.Request.Context(), tenantID, input)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	if result.Created {
		h.Created(c, result)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(result))
}

// GetByID godoc
// @ID           getPaymentById
// @Summary      Get payment by ID
// @Tags         bank-payments
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        id path string true "Payment ID" format(uuid)
// @Success      200 {object} dto.Response
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /banking/payments/{id} [get]
func (h *PaymentHandler) GetByID(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	id, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid payment ID")
		return
	}

	payment, err := h.paymentService.GetPayment(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, payment)
}

// List godoc
// @ID           listPayments
// @Summary      List payments
// @Tags         bank-payments
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        kind query string false "Payment kind" Enums(COLLECTION, DISBURSEMENT)
// @Param        status query string false "Payment status" Enums(DRAFT, CONFIRMED, REFUNDED, VOIDED)
// @Param        method query string false "Payment method"
// @Param        account_id query string false "Settlement account ID" format(uuid)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} dto.Response{meta=dto.Meta}
// @Security     BearerAuth
// @Router       /banking/payments [get]
func (h *PaymentHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var query ListPaymentsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter := banking.PaymentFilter{Method: query.Method}
	filter.Page = query.Page
	filter.PageSize = query.PageSize
	if query.Kind != "" {
		k := banking.PaymentKind(query.Kind)
		filter.Kind = &k
	}
	if query.Status != "" {
		st := banking.PaymentStatus(query.Status)
		filter.Status = &st
	}
	if query.AccountID != "" {
		id, err := uuid.Parse(query.AccountID)
		if err != nil {
			h.BadRequest(c, "Invalid account ID")
			return
		}
		filter.AccountID = &id
	}

	page, err := h.paymentService.ListPayments(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Confirm godoc
// @ID           confirmPayment
// @Summary      Confirm a payment
// @Description  Confirm a draft payment. When a settlement account is attached this books the ledger entry and moves the balance.
// @Tags         bank-payments
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        id path string true "Payment ID" format(uuid)
// @Success      200 {object} dto.Response
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /banking/payments/{id}/confirm [post]
func (h *PaymentHandler) Confirm(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	id, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid payment ID")
		return
	}

	payment, err := h.paymentService.ConfirmPayment(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, payment)
}

// Refund godoc
// @ID           refundPayment
// @Summary      Refund a payment
// @Description  Refund a confirmed payment. The ledger books a reversal entry; the original entry is never mutated.
// @Tags         bank-payments
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        id path string true "Payment ID" format(uuid)
// @Param        request body RefundPaymentRequest true "Refund request"
// @Success      200 {object} dto.Response
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /banking/payments/{id}/refund [post]
func (h *PaymentHandler) Refund(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	id, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid payment ID")
		return
	}

	var req RefundPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	payment, err := h.paymentService.RefundPayment(c.Request.Context(), tenantID, id, req.Reason)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, payment)
}

// Void godoc
// @ID           voidPayment
// @Summary      Void a draft payment
// @Description  Void a payment that was never confirmed. Confirmed payments must be refunded instead.
// @Tags         bank-payments
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        id path string true "Payment ID" format(uuid)
// @Success      200 {object} dto.Response
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /banking/payments/{id}/void [post]
func (h *PaymentHandler) Void(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	id, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid payment ID")
		return
	}

	payment, err := h.paymentService.VoidPayment(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, payment)
}
