package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"kuruma/internal/domain"
	"kuruma/internal/models"
	"kuruma/internal/repository"
	"kuruma/internal/service"
	"kuruma/pkg/cloudinary"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type VehicleHandler struct {
	vehicleRepo *repository.VehicleRepository
	assistant   *service.AssistantService
	uploads     cloudinary.Client
}

func NewVehicleHandler(vehicleRepo *repository.VehicleRepository, assistant *service.AssistantService, uploads cloudinary.Client) *VehicleHandler {
	return &VehicleHandler{vehicleRepo: vehicleRepo, assistant: assistant, uploads: uploads}
}

// List returns the public catalog with optional type filter.
func (h *VehicleHandler) List(c *gin.Context) {
	page, limit := pageParams(c)
	vehicleType := strings.ToUpper(c.Query("type"))
	list, total, err := h.vehicleRepo.ListPublished(vehicleType, page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list vehicles"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"vehicles": list, "total": total, "page": page})
}

func (h *VehicleHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid vehicle id"})
		return
	}
	v, err := h.vehicleRepo.GetByID(uint(id))
	if err != nil || !v.Published {
		c.JSON(http.StatusNotFound, gin.H{"error": "vehicle not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"vehicle": v})
}

type vehicleRequest struct {
	Name        string                 `json:"name" binding:"required"`
	Type        string                 `json:"type" binding:"required"`
	PriceYen    int64                  `json:"price_yen" binding:"required,min=1"`
	Description string                 `json:"description"`
	Specs       map[string]interface{} `json:"specs"`
	Published   *bool                  `json:"published"`
}

// Create adds a vehicle to the catalog (admin).
func (h *VehicleHandler) Create(c *gin.Context) {
	var req vehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name, type and price_yen required"})
		return
	}
	vt := strings.ToUpper(req.Type)
	if !validVehicleType(vt) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown vehicle type"})
		return
	}
	specs := ""
	if req.Specs != nil {
		b, _ := json.Marshal(req.Specs)
		specs = string(b)
	}
	published := true
	if req.Published != nil {
		published = *req.Published
	}
	v := &models.Vehicle{
		Name:        req.Name,
		Type:        vt,
		PriceCents:  req.PriceYen * 100,
		Currency:    "JPY",
		Description: req.Description,
		Specs:       specs,
		Published:   published,
	}
	if err := h.vehicleRepo.Create(v); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create vehicle"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"vehicle": v})
}

// Update patches catalog fields (admin).
func (h *VehicleHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid vehicle id"})
		return
	}
	var req struct {
		Name        *string                `json:"name"`
		Type        *string                `json:"type"`
		PriceYen    *int64                 `json:"price_yen"`
		Description *string                `json:"description"`
		Specs       map[string]interface{} `json:"specs"`
		Published   *bool                  `json:"published"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	fields := map[string]interface{}{}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.Type != nil {
		vt := strings.ToUpper(*req.Type)
		if !validVehicleType(vt) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown vehicle type"})
			return
		}
		fields["type"] = vt
	}
	if req.PriceYen != nil {
		if *req.PriceYen < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "price_yen must be positive"})
			return
		}
		fields["price_cents"] = *req.PriceYen * 100
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.Specs != nil {
		b, _ := json.Marshal(req.Specs)
		fields["specs"] = string(b)
	}
	if req.Published != nil {
		fields["published"] = *req.Published
	}
	if len(fields) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "nothing to update"})
		return
	}
	if err := h.vehicleRepo.UpdateFields(uint(id), fields); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	v, err := h.vehicleRepo.GetByID(uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "vehicle not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"vehicle": v})
}

// Delete soft-deletes a catalog entry (admin). Existing orders keep their
// snapshotted price and vehicle reference.
func (h *VehicleHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid vehicle id"})
		return
	}
	if err := h.vehicleRepo.Delete(uint(id)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "vehicle deleted"})
}

// UploadImage uploads a catalog photo with eager optimization (admin).
func (h *VehicleHandler) UploadImage(c *gin.Context) {
	if h.uploads == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "uploads not configured"})
		return
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid vehicle id"})
		return
	}
	if _, err := h.vehicleRepo.GetByID(uint(id)); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "vehicle not found"})
		return
	}
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file required"})
		return
	}
	if fh.Size > maxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file too large"})
		return
	}
	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read file"})
		return
	}
	defer f.Close()
	publicID := fmt.Sprintf("v%d-%d-%s", id, time.Now().Unix(), uuid.NewString()[:8])
	url, thumb, err := h.uploads.UploadImage(c.Request.Context(), f, "vehicles", publicID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "upload failed"})
		return
	}
	if err := h.vehicleRepo.UpdateFields(uint(id), map[string]interface{}{"image_url": url}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save image"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"image_url": url, "thumbnail_url": thumb})
}

// Autofill drafts catalog fields from a vehicle name via the AI assistant
// (admin). The draft is returned for review, never stored directly.
func (h *VehicleHandler) Autofill(c *gin.Context) {
	if h.assistant == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "assistant not configured"})
		return
	}
	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name required"})
		return
	}
	draft, err := h.assistant.AutofillVehicle(c.Request.Context(), req.Name)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "autofill failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"draft": draft})
}

func validVehicleType(t string) bool {
	for _, v := range domain.VehicleTypes {
		if v == t {
			return true
		}
	}
	return false
}
