package handler

import (
	bankingapp "github.com/hospos/backend/internal/application/banking"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransferHandler handles internal transfer API endpoints
type TransferHandler struct {
	BaseHandler
	transferService *bankingapp.TransferService
}

// NewTransferHandler creates a new TransferHandler
func NewTransferHandler(transferService *bankingapp.TransferService) *TransferHandler {
	return &TransferHandler{
		transferService: transferService,
	}
}

// CreateTransferRequest represents a request for an internal transfer
// @Description Request body for transferring between two accounts of the tenant
type CreateTransferRequest struct {
	FromAccountID string  `json:"from_account_id" binding:"required,uuid" example:"550e8400-e29b-41d4-a716-446655440000"`
	ToAccountID   string  `json:"to_account_id" binding:"required,uuid" example:"550e8400-e29b-41d4-a716-446655440001"`
	Amount        float64 `json:"amount" binding:"required,gt=0" example:"1500.00"`
	Description   string  `json:"description" binding:"required,min=1,max=500" example:"Payroll funding"`
	Reference     string  `json:"reference" binding:"max=200" example:"TRF-2026-031"`
}

// Create godoc
// @ID           createTransfer
// @Summary      Transfer between accounts
// @Description  Debit the source account and credit the destination atomically. Both accounts must be active and share the same currency.
// @Tags         bank-transfers
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        request body CreateTransferRequest true "Transfer request"
// @Success      201 {object} dto.Response
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /banking/transfers [post]
func (h *TransferHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req CreateTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	fromID, err := uuid.Parse(req.FromAccountID)
	if err != nil {
		h.BadRequest(c, "Invalid source account ID")
		return
	}
	toID, err := uuid.Parse(req.ToAccountID)
	if err != nil {
		h.BadRequest(c, "Invalid destination account ID")
		return
	}

	result, err := h.transferService.Transfer(c.Request.Context(), tenantID, bankingapp.TransferInput{
		FromAccountID: fromID,
		ToAccountID:   toID,
		Amount:        decimal.NewFromFloat(req.Amount),
		Description:   req.Description,
		Reference:     req.Reference,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, result)
}
