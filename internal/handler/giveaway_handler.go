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

type GiveawayHandler struct {
	giveawayRepo *repository.GiveawayRepository
	userRepo     *repository.UserRepository
	engine       *workflow.Engine
	settings     *service.SettingsService
	notifier     *service.NotificationService
	uploads      cloudinary.Client
}

func NewGiveawayHandler(
	giveawayRepo *repository.GiveawayRepository,
	userRepo *repository.UserRepository,
	engine *workflow.Engine,
	settings *service.SettingsService,
	notifier *service.NotificationService,
	uploads cloudinary.Client,
) *GiveawayHandler {
	return &GiveawayHandler{
		giveawayRepo: giveawayRepo,
		userRepo:     userRepo,
		engine:       engine,
		settings:     settings,
		notifier:     notifier,
		uploads:      uploads,
	}
}

func (h *GiveawayHandler) ListActive(c *gin.Context) {
	list, err := h.giveawayRepo.ListActive()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list giveaways"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"giveaways": list})
}

func (h *GiveawayHandler) Get(c *gin.Context) {
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
	c.JSON(http.StatusOK, gin.H{"giveaway": g})
}

type enterGiveawayRequest struct {
	PayerName  string `json:"payer_name"`
	PayerEmail string `json:"payer_email"`
}

// Enter creates a pending entry. Guests enter with name and email only; for
// signed-in users both default from the account. Guest entries cannot use
// the wallet rail later because they have no wallet.
func (h *GiveawayHandler) Enter(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid giveaway id"})
		return
	}
	g, err := h.giveawayRepo.GetByID(uint(id))
	if err != nil || !g.Active {
		c.JSON(http.StatusNotFound, gin.H{"error": "giveaway not found"})
		return
	}
	var req enterGiveawayRequest
	_ = c.ShouldBindJSON(&req)

	userID := middleware.GetUserIDOptional(c)
	payerName := req.PayerName
	payerEmail := req.PayerEmail
	if userID != nil {
		if u, err := h.userRepo.GetByID(*userID); err == nil {
			if payerName == "" {
				payerName = u.Name
			}
			if payerEmail == "" {
				payerEmail = u.Email
			}
		}
	}
	if payerName == "" || payerEmail == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "payer_name and payer_email required"})
		return
	}

	fee := g.EntryFeeCents
	if fee == 0 {
		fee = h.settings.CheckoutOptions(workflow.KindGiveaway).FeeCents
	}
	e := &models.GiveawayEntry{
		Reference:    newReference("GWE"),
		GiveawayID:   g.ID,
		UserID:       userID,
		PayerName:    payerName,
		PayerEmail:   payerEmail,
		AmountCents:  fee,
		Currency:     "JPY",
		Status:       domain.PaymentPending,
		WinnerStatus: domain.WinnerNone,
	}
	if err := h.giveawayRepo.CreateEntry(e); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create entry"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"entry": e})
}

// PayWallet settles the entry fee from the wallet. Guest entries are
// rejected here because they have no wallet owner.
func (h *GiveawayHandler) PayWallet(c *gin.Context) {
	e, ok := h.accessibleEntry(c)
	if !ok {
		return
	}
	snap := repository.EntrySnapshot(e)
	opts := h.settings.CheckoutOptions(workflow.KindGiveaway)
	if _, err := h.engine.Fire(c.Request.Context(), opts, snap, workflow.PayWithWallet{}); err != nil {
		workflowError(c, err)
		return
	}
	if e.UserID != nil {
		_ = h.notifier.NotifyEntryConfirmed(*e.UserID, e.ID)
	}
	e, _ = h.giveawayRepo.GetEntryByID(e.ID)
	c.JSON(http.StatusOK, gin.H{"entry": e})
}

func (h *GiveawayHandler) ChooseRail(c *gin.Context) {
	e, ok := h.accessibleEntry(c)
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
	snap := repository.EntrySnapshot(e)
	opts := h.settings.CheckoutOptions(workflow.KindGiveaway)
	if _, err := h.engine.Fire(c.Request.Context(), opts, snap, workflow.ChooseAgentPay{Rail: strings.ToUpper(req.Rail)}); err != nil {
		workflowError(c, err)
		return
	}
	e, _ = h.giveawayRepo.GetEntryByID(e.ID)
	c.JSON(http.StatusOK, gin.H{"entry": e})
}

func (h *GiveawayHandler) SubmitReceipt(c *gin.Context) {
	e, ok := h.accessibleEntry(c)
	if !ok {
		return
	}
	url, err := receiptURL(c, h.uploads, "receipts/giveaways")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	snap := repository.EntrySnapshot(e)
	opts := h.settings.CheckoutOptions(workflow.KindGiveaway)
	if _, err := h.engine.Fire(c.Request.Context(), opts, snap, workflow.SubmitReceipt{ReceiptURL: url}); err != nil {
		workflowError(c, err)
		return
	}
	e, _ = h.giveawayRepo.GetEntryByID(e.ID)
	c.JSON(http.StatusOK, gin.H{"entry": e})
}

func (h *GiveawayHandler) MyEntries(c *gin.Context) {
	userID := middleware.GetUserID(c)
	limit, offset := pagination(c)
	list, err := h.giveawayRepo.ListEntriesByUser(userID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list entries"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": list})
}

// accessibleEntry loads an entry by reference. Account-owned entries require
// the owning user's token; guest entries are addressed by their reference
// alone, which acts as the claim secret.
func (h *GiveawayHandler) accessibleEntry(c *gin.Context) (*models.GiveawayEntry, bool) {
	ref := c.Param("reference")
	if ref == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "entry reference required"})
		return nil, false
	}
	e, err := h.giveawayRepo.GetEntryByReference(ref)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "entry not found"})
		return nil, false
	}
	if e.UserID != nil {
		userID := middleware.GetUserIDOptional(c)
		if userID == nil || *userID != *e.UserID {
			c.JSON(http.StatusForbidden, gin.H{"error": "not your entry"})
			return nil, false
		}
	}
	return e, true
}
