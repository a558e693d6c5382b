package handler

import (
	"net/http"
	"strconv"
	"strings"

	"kuruma/internal/domain"
	"kuruma/internal/middleware"
	"kuruma/internal/models"
	"kuruma/internal/repository"
	"kuruma/internal/service"
	"kuruma/internal/workflow"
	"kuruma/pkg/cloudinary"

	"github.com/gin-gonic/gin"
)

type DepositHandler struct {
	depositRepo *repository.DepositRepository
	userRepo    *repository.UserRepository
	engine      *workflow.Engine
	settings    *service.SettingsService
	uploads     cloudinary.Client
}

func NewDepositHandler(
	depositRepo *repository.DepositRepository,
	userRepo *repository.UserRepository,
	engine *workflow.Engine,
	settings *service.SettingsService,
	uploads cloudinary.Client,
) *DepositHandler {
	return &DepositHandler{
		depositRepo: depositRepo,
		userRepo:    userRepo,
		engine:      engine,
		settings:    settings,
		uploads:     uploads,
	}
}

type createDepositRequest struct {
	AmountYen int64  `json:"amount_yen" binding:"required,min=1"`
	Rail      string `json:"rail" binding:"required"`
}

// Create opens a top-up and immediately routes it to the chosen rail. A
// deposit has no wallet path, so rail selection happens at creation.
func (h *DepositHandler) Create(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req createDepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount_yen and rail required"})
		return
	}
	u, err := h.userRepo.GetByID(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user lookup failed"})
		return
	}
	d := &models.Deposit{
		Reference:   newReference("DEP"),
		UserID:      userID,
		PayerName:   u.Name,
		PayerEmail:  u.Email,
		AmountCents: req.AmountYen * 100,
		Currency:    "JPY",
		Status:      domain.PaymentPending,
	}
	if err := h.depositRepo.Create(d); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create deposit"})
		return
	}
	snap := repository.DepositSnapshot(d)
	opts := h.settings.CheckoutOptions(workflow.KindDeposit)
	if _, err := h.engine.Fire(c.Request.Context(), opts, snap, workflow.ChooseAgentPay{Rail: strings.ToUpper(req.Rail)}); err != nil {
		workflowError(c, err)
		return
	}
	d, _ = h.depositRepo.GetByID(d.ID)
	c.JSON(http.StatusCreated, gin.H{"deposit": d})
}

// SubmitReceipt attaches payment proof and moves the deposit to verification.
func (h *DepositHandler) SubmitReceipt(c *gin.Context) {
	d, ok := h.ownDeposit(c)
	if !ok {
		return
	}
	url, err := receiptURL(c, h.uploads, "receipts/deposits")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	snap := repository.DepositSnapshot(d)
	opts := h.settings.CheckoutOptions(workflow.KindDeposit)
	if _, err := h.engine.Fire(c.Request.Context(), opts, snap, workflow.SubmitReceipt{ReceiptURL: url}); err != nil {
		workflowError(c, err)
		return
	}
	d, _ = h.depositRepo.GetByID(d.ID)
	c.JSON(http.StatusOK, gin.H{"deposit": d})
}

func (h *DepositHandler) ListMine(c *gin.Context) {
	userID := middleware.GetUserID(c)
	limit, offset := pagination(c)
	list, err := h.depositRepo.ListByUser(userID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list deposits"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deposits": list})
}

func (h *DepositHandler) Get(c *gin.Context) {
	d, ok := h.ownDeposit(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"deposit": d})
}

func (h *DepositHandler) ownDeposit(c *gin.Context) (*models.Deposit, bool) {
	userID := middleware.GetUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid deposit id"})
		return nil, false
	}
	d, err := h.depositRepo.GetByID(uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "deposit not found"})
		return nil, false
	}
	if d.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "not your deposit"})
		return nil, false
	}
	return d, true
}
