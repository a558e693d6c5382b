package handler

import (
	"errors"
	"net/http"
	"time"

	"kuruma/internal/domain"
	"kuruma/internal/middleware"
	"kuruma/internal/models"
	"kuruma/internal/repository"

	"github.com/gin-gonic/gin"
)

type InvestmentHandler struct {
	investRepo *repository.InvestmentRepository
	walletRepo *repository.WalletRepository
}

func NewInvestmentHandler(investRepo *repository.InvestmentRepository, walletRepo *repository.WalletRepository) *InvestmentHandler {
	return &InvestmentHandler{investRepo: investRepo, walletRepo: walletRepo}
}

func (h *InvestmentHandler) ListPlans(c *gin.Context) {
	plans, err := h.investRepo.ListActivePlans()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list plans"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"plans": plans})
}

type createInvestmentRequest struct {
	PlanID    uint  `json:"plan_id" binding:"required"`
	AmountYen int64 `json:"amount_yen" binding:"required,min=1"`
}

// Create funds an investment from the wallet. The debit is conditional, so
// a short balance rejects without creating anything.
func (h *InvestmentHandler) Create(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req createInvestmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "plan_id and amount_yen required"})
		return
	}
	plan, err := h.investRepo.GetPlanByID(req.PlanID)
	if err != nil || !plan.Active {
		c.JSON(http.StatusNotFound, gin.H{"error": "plan not found"})
		return
	}
	amountCents := req.AmountYen * 100
	if amountCents < plan.MinAmountCents {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount below plan minimum"})
		return
	}
	reference := newReference("INV")
	if err := h.walletRepo.Debit(c.Request.Context(), userID, amountCents, domain.TxTypeInvestment, reference); err != nil {
		if errors.Is(err, repository.ErrInsufficientBalance) {
			c.JSON(http.StatusPaymentRequired, gin.H{"error": "insufficient wallet balance"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "funding failed"})
		return
	}
	inv := &models.Investment{
		UserID:      userID,
		PlanID:      plan.ID,
		AmountCents: amountCents,
		Status:      domain.InvestmentActive,
		StartedAt:   time.Now(),
	}
	if err := h.investRepo.Create(inv); err != nil {
		// Funding went through but the row failed; put the money back.
		_ = h.walletRepo.Credit(c.Request.Context(), userID, amountCents, domain.TxTypeInvestment, reference+"-REVERSAL")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create investment"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"investment": inv})
}

func (h *InvestmentHandler) ListMine(c *gin.Context) {
	userID := middleware.GetUserID(c)
	list, err := h.investRepo.ListByUser(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list investments"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"investments": list})
}
