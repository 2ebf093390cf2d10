package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/debtkeeper/debtkeeper-server/internal/api/http/httpctx"
	"github.com/debtkeeper/debtkeeper-server/internal/logger"
	"github.com/debtkeeper/debtkeeper-server/internal/model"
	"github.com/debtkeeper/debtkeeper-server/internal/service"
)

// DebtService is the part of the debt service the handlers use.
type DebtService interface {
	Create(ctx context.Context, ownerUsername string, params service.DebtParams) (model.Debt, error)
	Get(ctx context.Context, username, debtID string) (model.Debt, error)
	List(ctx context.Context, username string) ([]model.Debt, error)
	Update(ctx context.Context, username, debtID string, params service.DebtParams) (model.Debt, error)
	Delete(ctx context.Context, username, debtID string) error
}

// Debt serves the debt CRUD endpoints. All routes sit behind the
// authentication middleware; ownership is enforced by the service.
type Debt struct {
	service DebtService
	logger  *logger.Logger
}

// NewDebt creates a new Debt handler.
func NewDebt(service DebtService, logger *logger.Logger) *Debt {
	return &Debt{service: service, logger: logger}
}

type debtRequest struct {
	Name             string     `json:"name" binding:"required"`
	Principal        string     `json:"principal" binding:"required"`
	InterestRate     string     `json:"interest_rate" binding:"required"`
	StartDate        time.Time  `json:"start_date" binding:"required"`
	EndDate          *time.Time `json:"end_date"`
	Description      string     `json:"description"`
	Creditor         string     `json:"creditor"`
	PaymentFrequency string     `json:"payment_frequency" binding:"required"`
	PaymentAmount    string     `json:"payment_amount"`
	MinimumPayment   string     `json:"minimum_payment"`
	CurrentBalance   string     `json:"current_balance"`
}

func (r debtRequest) toParams() service.DebtParams {
	return service.DebtParams{
		Name:             r.Name,
		Principal:        r.Principal,
		InterestRate:     r.InterestRate,
		StartDate:        r.StartDate,
		EndDate:          r.EndDate,
		Description:      r.Description,
		Creditor:         r.Creditor,
		PaymentFrequency: r.PaymentFrequency,
		PaymentAmount:    r.PaymentAmount,
		MinimumPayment:   r.MinimumPayment,
		CurrentBalance:   r.CurrentBalance,
	}
}

type debtResponse struct {
	ID               string     `json:"debt_id"`
	OwnerUsername    string     `json:"owner_username"`
	Name             string     `json:"name"`
	Principal        string     `json:"principal"`
	InterestRate     string     `json:"interest_rate"`
	StartDate        time.Time  `json:"start_date"`
	EndDate          *time.Time `json:"end_date,omitempty"`
	Description      string     `json:"description,omitempty"`
	Creditor         string     `json:"creditor,omitempty"`
	PaymentFrequency string     `json:"payment_frequency"`
	PaymentAmount    string     `json:"payment_amount,omitempty"`
	MinimumPayment   string     `json:"minimum_payment,omitempty"`
	CurrentBalance   string     `json:"current_balance,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

func toDebtResponse(d model.Debt) debtResponse {
	return debtResponse{
		ID:               d.ID,
		OwnerUsername:    d.OwnerUsername,
		Name:             d.Name,
		Principal:        d.Principal,
		InterestRate:     d.InterestRate,
		StartDate:        d.StartDate,
		EndDate:          d.EndDate,
		Description:      d.Description,
		Creditor:         d.Creditor,
		PaymentFrequency: d.PaymentFrequency,
		PaymentAmount:    d.PaymentAmount,
		MinimumPayment:   d.MinimumPayment,
		CurrentBalance:   d.CurrentBalance,
		CreatedAt:        d.CreatedAt,
		UpdatedAt:        d.UpdatedAt,
	}
}

func (h *Debt) identity(c *gin.Context) (model.Identity, bool) {
	ident, ok := httpctx.GetIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
	}
	return ident, ok
}

// Create handles POST /debts.
func (h *Debt) Create(c *gin.Context) {
	ident, ok := h.identity(c)
	if !ok {
		return
	}

	var req debtRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid debt payload"})
		return
	}

	debt, err := h.service.Create(c.Request.Context(), ident.Username, req.toParams())
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, toDebtResponse(debt))
}

// List handles GET /debts.
func (h *Debt) List(c *gin.Context) {
	ident, ok := h.identity(c)
	if !ok {
		return
	}

	debts, err := h.service.List(c.Request.Context(), ident.Username)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	resp := make([]debtResponse, 0, len(debts))
	for _, d := range debts {
		resp = append(resp, toDebtResponse(d))
	}

	c.JSON(http.StatusOK, gin.H{"debts": resp})
}

// Get handles GET /debts/:debt_id.
func (h *Debt) Get(c *gin.Context) {
	ident, ok := h.identity(c)
	if !ok {
		return
	}

	debt, err := h.service.Get(c.Request.Context(), ident.Username, c.Param("debt_id"))
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, toDebtResponse(debt))
}

// Update handles PUT /debts/:debt_id.
func (h *Debt) Update(c *gin.Context) {
	ident, ok := h.identity(c)
	if !ok {
		return
	}

	var req debtRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid debt payload"})
		return
	}

	debt, err := h.service.Update(c.Request.Context(), ident.Username, c.Param("debt_id"), req.toParams())
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, toDebtResponse(debt))
}

// Delete handles DELETE /debts/:debt_id.
func (h *Debt) Delete(c *gin.Context) {
	ident, ok := h.identity(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), ident.Username, c.Param("debt_id")); err != nil {
		handleError(c, h.logger, err)
		return
	}

	c.Status(http.StatusNoContent)
}
