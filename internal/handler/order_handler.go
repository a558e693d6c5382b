package handler

import (
	"fmt"
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
	"github.com/google/uuid"
)

type OrderHandler struct {
	orderRepo   *repository.OrderRepository
	vehicleRepo *repository.VehicleRepository
	userRepo    *repository.UserRepository
	engine      *workflow.Engine
	settings    *service.SettingsService
	notifier    *service.NotificationService
	uploads     cloudinary.Client
}

func NewOrderHandler(
	orderRepo *repository.OrderRepository,
	vehicleRepo *repository.VehicleRepository,
	userRepo *repository.UserRepository,
	engine *workflow.Engine,
	settings *service.SettingsService,
	notifier *service.NotificationService,
	uploads cloudinary.Client,
) *OrderHandler {
	return &OrderHandler{
		orderRepo:   orderRepo,
		vehicleRepo: vehicleRepo,
		userRepo:    userRepo,
		engine:      engine,
		settings:    settings,
		notifier:    notifier,
		uploads:     uploads,
	}
}

func newReference(prefix string) string {
	return fmt.Sprintf("%s-%s", prefix, strings.ToUpper(uuid.NewString()[:12]))
}

type createOrderRequest struct {
	VehicleID         uint   `json:"vehicle_id" binding:"required"`
	PayerName         string `json:"payer_name"`
	PayerEmail        string `json:"payer_email"`
	InstallmentMonths int    `json:"installment_months"`
}

// Create opens a pending order at the vehicle's current list price. The
// price is snapshotted into the order so later catalog edits don't change
// what the customer owes.
func (h *OrderHandler) Create(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "vehicle_id required"})
		return
	}
	v, err := h.vehicleRepo.GetByID(req.VehicleID)
	if err != nil || !v.Published {
		c.JSON(http.StatusNotFound, gin.H{"error": "vehicle not found"})
		return
	}
	u, err := h.userRepo.GetByID(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user lookup failed"})
		return
	}
	payerName := req.PayerName
	if payerName == "" {
		payerName = u.Name
	}
	payerEmail := req.PayerEmail
	if payerEmail == "" {
		payerEmail = u.Email
	}
	if req.InstallmentMonths < 0 || req.InstallmentMonths > 60 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "installment_months out of range"})
		return
	}
	o := &models.Order{
		Reference:         newReference("ORD"),
		UserID:            userID,
		VehicleID:         v.ID,
		PayerName:         payerName,
		PayerEmail:        payerEmail,
		AmountCents:       v.PriceCents,
		Currency:          "JPY",
		Status:            domain.PaymentPending,
		InstallmentMonths: req.InstallmentMonths,
	}
	if err := h.orderRepo.Create(o); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create order"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"order": o})
}

// PayWallet settles the order from the wallet balance in one step.
func (h *OrderHandler) PayWallet(c *gin.Context) {
	o, ok := h.ownOrder(c)
	if !ok {
		return
	}
	snap := repository.OrderSnapshot(o)
	opts := h.settings.CheckoutOptions(workflow.KindOrder)
	if _, err := h.engine.Fire(c.Request.Context(), opts, snap, workflow.PayWithWallet{}); err != nil {
		workflowError(c, err)
		return
	}
	_ = h.notifier.NotifyOrderPaid(o.UserID, o.ID, o.AmountCents)
	o, _ = h.orderRepo.GetByID(o.ID)
	c.JSON(http.StatusOK, gin.H{"order": o})
}

// ChooseRail picks a bank, crypto or agent settlement path.
func (h *OrderHandler) ChooseRail(c *gin.Context) {
	o, ok := h.ownOrder(c)
	if !ok {
		return
	}
	var req struct {
		Rail string `json:"rail" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "rail required"})
		return
	}
	snap := repository.OrderSnapshot(o)
	opts := h.settings.CheckoutOptions(workflow.KindOrder)
	if _, err := h.engine.Fire(c.Request.Context(), opts, snap, workflow.ChooseAgentPay{Rail: strings.ToUpper(req.Rail)}); err != nil {
		workflowError(c, err)
		return
	}
	o, _ = h.orderRepo.GetByID(o.ID)
	c.JSON(http.StatusOK, gin.H{"order": o})
}

// SubmitReceipt attaches payment proof and moves the order to verification.
func (h *OrderHandler) SubmitReceipt(c *gin.Context) {
	o, ok := h.ownOrder(c)
	if !ok {
		return
	}
	url, err := receiptURL(c, h.uploads, "receipts/orders")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	snap := repository.OrderSnapshot(o)
	opts := h.settings.CheckoutOptions(workflow.KindOrder)
	if _, err := h.engine.Fire(c.Request.Context(), opts, snap, workflow.SubmitReceipt{ReceiptURL: url}); err != nil {
		workflowError(c, err)
		return
	}
	o, _ = h.orderRepo.GetByID(o.ID)
	c.JSON(http.StatusOK, gin.H{"order": o})
}

func (h *OrderHandler) ListMine(c *gin.Context) {
	userID := middleware.GetUserID(c)
	limit, offset := pagination(c)
	list, err := h.orderRepo.ListByUser(userID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list orders"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": list})
}

func (h *OrderHandler) Get(c *gin.Context) {
	o, ok := h.ownOrder(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": o})
}

// ownOrder loads the order from the path param and checks ownership.
func (h *OrderHandler) ownOrder(c *gin.Context) (*models.Order, bool) {
	userID := middleware.GetUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return nil, false
	}
	o, err := h.orderRepo.GetByID(uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return nil, false
	}
	if o.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "not your order"})
		return nil, false
	}
	return o, true
}
