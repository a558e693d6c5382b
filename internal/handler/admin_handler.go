package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"kuruma/internal/domain"
	"kuruma/internal/middleware"
	"kuruma/internal/models"
	"kuruma/internal/repository"
	"kuruma/internal/service"
	"kuruma/internal/workflow"

	"github.com/gin-gonic/gin"
)

// AdminHandler is the back office: verification queues, confirmations,
// winner marking, catalog management, settings and audit.
type AdminHandler struct {
	adminRepo    *repository.AdminRepository
	orderRepo    *repository.OrderRepository
	depositRepo  *repository.DepositRepository
	giveawayRepo *repository.GiveawayRepository
	investRepo   *repository.InvestmentRepository
	vehicleRepo  *repository.VehicleRepository
	settingRepo  *repository.SettingRepository
	auditRepo    *repository.AuditLogRepository

	orderEngine   *workflow.Engine
	depositEngine *workflow.Engine
	entryEngine   *workflow.Engine
	settings      *service.SettingsService
	notifier      *service.NotificationService
}

func NewAdminHandler(
	adminRepo *repository.AdminRepository,
	orderRepo *repository.OrderRepository,
	depositRepo *repository.DepositRepository,
	giveawayRepo *repository.GiveawayRepository,
	investRepo *repository.InvestmentRepository,
	vehicleRepo *repository.VehicleRepository,
	settingRepo *repository.SettingRepository,
	auditRepo *repository.AuditLogRepository,
	orderEngine *workflow.Engine,
	depositEngine *workflow.Engine,
	entryEngine *workflow.Engine,
	settings *service.SettingsService,
	notifier *service.NotificationService,
) *AdminHandler {
	return &AdminHandler{
		adminRepo:     adminRepo,
		orderRepo:     orderRepo,
		depositRepo:   depositRepo,
		giveawayRepo:  giveawayRepo,
		investRepo:    investRepo,
		vehicleRepo:   vehicleRepo,
		settingRepo:   settingRepo,
		auditRepo:     auditRepo,
		orderEngine:   orderEngine,
		depositEngine: depositEngine,
		entryEngine:   entryEngine,
		settings:      settings,
		notifier:      notifier,
	}
}

func (h *AdminHandler) audit(c *gin.Context, action, entity string, entityID uint, detail string) {
	_ = h.auditRepo.Create(&models.AuditLog{
		UserID:   middleware.GetUserID(c),
		Action:   action,
		Entity:   entity,
		EntityID: entityID,
		Detail:   detail,
		IP:       c.ClientIP(),
	})
}

func (h *AdminHandler) Dashboard(c *gin.Context) {
	stats, err := h.adminRepo.GetDashboardStats()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load stats"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"stats": stats})
}

// ---- verification queues ----

func (h *AdminHandler) ListOrders(c *gin.Context) {
	page, limit := pageParams(c)
	status := strings.ToUpper(c.Query("status"))
	list, total, err := h.orderRepo.ListByStatus(status, page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list orders"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": list, "total": total, "page": page})
}

func (h *AdminHandler) ListDeposits(c *gin.Context) {
	page, limit := pageParams(c)
	status := strings.ToUpper(c.Query("status"))
	list, total, err := h.depositRepo.ListByStatus(status, page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list deposits"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deposits": list, "total": total, "page": page})
}

func (h *AdminHandler) ListEntries(c *gin.Context) {
	giveawayID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid giveaway id"})
		return
	}
	page, limit := pageParams(c)
	status := strings.ToUpper(c.Query("status"))
	list, total, err := h.giveawayRepo.ListEntries(uint(giveawayID), status, page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list entries"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": list, "total": total, "page": page})
}

// ---- confirmations ----

// ConfirmOrder verifies a receipt and settles the order. A second confirm on
// the same order gets a 409, never a repeated fulfillment.
func (h *AdminHandler) ConfirmOrder(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}
	o, err := h.orderRepo.GetByID(uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}
	snap := repository.OrderSnapshot(o)
	opts := h.settings.CheckoutOptions(workflow.KindOrder)
	if _, err := h.orderEngine.Fire(c.Request.Context(), opts, snap, workflow.AdminConfirm{}); err != nil {
		workflowError(c, err)
		return
	}
	h.audit(c, "confirm_order", "order", o.ID, o.Reference)
	_ = h.notifier.NotifyOrderConfirmed(o.UserID, o.ID)
	o, _ = h.orderRepo.GetByID(o.ID)
	c.JSON(http.StatusOK, gin.H{"order": o})
}

// ConfirmDeposit verifies the receipt and credits the wallet. The credit and
// the status write commit together; a repeat confirm cannot double-credit.
func (h *AdminHandler) ConfirmDeposit(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid deposit id"})
		return
	}
	d, err := h.depositRepo.GetByID(uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "deposit not found"})
		return
	}
	snap := repository.DepositSnapshot(d)
	opts := h.settings.CheckoutOptions(workflow.KindDeposit)
	if _, err := h.depositEngine.Fire(c.Request.Context(), opts, snap, workflow.AdminConfirm{}); err != nil {
		workflowError(c, err)
		return
	}
	h.audit(c, "confirm_deposit", "deposit", d.ID, d.Reference)
	_ = h.notifier.NotifyDepositConfirmed(d.UserID, d.ID, d.AmountCents)
	d, _ = h.depositRepo.GetByID(d.ID)
	c.JSON(http.StatusOK, gin.H{"deposit": d})
}

func (h *AdminHandler) ConfirmEntry(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid entry id"})
		return
	}
	e, err := h.giveawayRepo.GetEntryByID(uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "entry not found"})
		return
	}
	snap := repository.EntrySnapshot(e)
	opts := h.settings.CheckoutOptions(workflow.KindGiveaway)
	if _, err := h.entryEngine.Fire(c.Request.Context(), opts, snap, workflow.AdminConfirm{}); err != nil {
		workflowError(c, err)
		return
	}
	h.audit(c, "confirm_entry", "giveaway_entry", e.ID, e.Reference)
	if e.UserID != nil {
		_ = h.notifier.NotifyEntryConfirmed(*e.UserID, e.ID)
	}
	e, _ = h.giveawayRepo.GetEntryByID(e.ID)
	c.JSON(http.StatusOK, gin.H{"entry": e})
}

// ---- giveaways ----

type giveawayRequest struct {
	Title       string `json:"title" binding:"required"`
	VehicleID   uint   `json:"vehicle_id" binding:"required"`
	EntryFeeYen int64  `json:"entry_fee_yen" binding:"required,min=1"`
	ClosesAt    string `json:"closes_at"` // RFC3339
}

func (h *AdminHandler) CreateGiveaway(c *gin.Context) {
	var req giveawayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title, vehicle_id and entry_fee_yen required"})
		return
	}
	if _, err := h.vehicleRepo.GetByID(req.VehicleID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "vehicle not found"})
		return
	}
	g := &models.Giveaway{
		Title:         req.Title,
		VehicleID:     req.VehicleID,
		EntryFeeCents: req.EntryFeeYen * 100,
		Currency:      "JPY",
		Active:        true,
	}
	if req.ClosesAt != "" {
		t, err := time.Parse(time.RFC3339, req.ClosesAt)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "closes_at must be RFC3339"})
			return
		}
		g.ClosesAt = t
	}
	if err := h.giveawayRepo.Create(g); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create giveaway"})
		return
	}
	h.audit(c, "create_giveaway", "giveaway", g.ID, g.Title)
	c.JSON(http.StatusCreated, gin.H{"giveaway": g})
}

func (h *AdminHandler) CloseGiveaway(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid giveaway id"})
		return
	}
	g, err := h.giveawayRepo.GetByID(uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "giveaway not found"})
		return
	}
	g.Active = false
	if err := h.giveawayRepo.Update(g); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to close giveaway"})
		return
	}
	h.audit(c, "close_giveaway", "giveaway", g.ID, g.Title)
	c.JSON(http.StatusOK, gin.H{"giveaway": g})
}

// MarkWinner flags a settled entry as the winner. Entries still pending
// payment or verification are rejected.
func (h *AdminHandler) MarkWinner(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid entry id"})
		return
	}
	e, err := h.giveawayRepo.GetEntryByID(uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "entry not found"})
		return
	}
	if err := h.giveawayRepo.MarkWinner(e.ID); err != nil {
		if err == repository.ErrEntryNotSettled {
			c.JSON(http.StatusConflict, gin.H{"error": "entry payment not settled"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to mark winner"})
		return
	}
	h.audit(c, "mark_winner", "giveaway_entry", e.ID, e.Reference)
	if e.UserID != nil {
		_ = h.notifier.NotifyWinner(*e.UserID, e.ID, e.Giveaway.Title)
	}
	e, _ = h.giveawayRepo.GetEntryByID(e.ID)
	c.JSON(http.StatusOK, gin.H{"entry": e})
}

// ---- investment plans ----

type planRequest struct {
	Name           string `json:"name" binding:"required"`
	MinAmountYen   int64  `json:"min_amount_yen" binding:"required,min=1"`
	MonthlyRateBps int    `json:"monthly_rate_bps" binding:"required,min=1"`
	DurationMonths int    `json:"duration_months" binding:"required,min=1"`
}

func (h *AdminHandler) CreatePlan(c *gin.Context) {
	var req planRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name, min_amount_yen, monthly_rate_bps and duration_months required"})
		return
	}
	p := &models.InvestmentPlan{
		Name:           req.Name,
		MinAmountCents: req.MinAmountYen * 100,
		MonthlyRateBps: req.MonthlyRateBps,
		DurationMonths: req.DurationMonths,
		Active:         true,
	}
	if err := h.investRepo.CreatePlan(p); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create plan"})
		return
	}
	h.audit(c, "create_plan", "investment_plan", p.ID, p.Name)
	c.JSON(http.StatusCreated, gin.H{"plan": p})
}

// ---- users, vehicles, transactions, settings, audit ----

func (h *AdminHandler) ListUsers(c *gin.Context) {
	page, limit := pageParams(c)
	list, total, err := h.adminRepo.ListUsers(c.Query("search"), strings.ToUpper(c.Query("role")), page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list users"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": list, "total": total, "page": page})
}

func (h *AdminHandler) GetUser(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}
	u, err := h.adminRepo.GetUserByID(uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u})
}

func (h *AdminHandler) UpdateUser(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}
	var req struct {
		Name *string `json:"name"`
		Role *string `json:"role"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	fields := map[string]interface{}{}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.Role != nil {
		role := strings.ToUpper(*req.Role)
		if role != domain.RoleCustomer && role != domain.RoleAdmin {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown role"})
			return
		}
		fields["role"] = role
	}
	if len(fields) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "nothing to update"})
		return
	}
	if err := h.adminRepo.UpdateUser(uint(id), fields); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	h.audit(c, "update_user", "user", uint(id), "")
	u, _ := h.adminRepo.GetUserByID(uint(id))
	c.JSON(http.StatusOK, gin.H{"user": u})
}

func (h *AdminHandler) ListVehicles(c *gin.Context) {
	page, limit := pageParams(c)
	list, total, err := h.vehicleRepo.ListAll(c.Query("search"), page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list vehicles"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"vehicles": list, "total": total, "page": page})
}

func (h *AdminHandler) ListTransactions(c *gin.Context) {
	page, limit := pageParams(c)
	list, total, err := h.adminRepo.ListTransactions(strings.ToUpper(c.Query("type")), page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list transactions"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": list, "total": total, "page": page})
}

func (h *AdminHandler) GetSettings(c *gin.Context) {
	list, err := h.settingRepo.GetAll()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load settings"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": list})
}

// UpdateSetting writes one key. Rail toggles take effect on the next
// checkout; in-flight transactions keep their chosen rail.
func (h *AdminHandler) UpdateSetting(c *gin.Context) {
	var req struct {
		Key   string `json:"key" binding:"required"`
		Value string `json:"value" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "key and value required"})
		return
	}
	if !domain.KnownSettingKey(req.Key) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown setting key"})
		return
	}
	if err := h.settingRepo.Set(req.Key, req.Value); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save setting"})
		return
	}
	h.audit(c, "update_setting", "setting", 0, req.Key+"="+req.Value)
	c.JSON(http.StatusOK, gin.H{"message": "setting saved"})
}

func (h *AdminHandler) ListAudit(c *gin.Context) {
	page, limit := pageParams(c)
	list, total, err := h.auditRepo.List(c.Query("action"), page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list audit logs"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"logs": list, "total": total, "page": page})
}
