package handler

import (
	"fmt"
	"net/http"
	"time"

	"kuruma/internal/middleware"
	"kuruma/pkg/cloudinary"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const maxUploadBytes = 10 << 20 // 10 MB

type UploadHandler struct {
	uploads cloudinary.Client
}

func NewUploadHandler(uploads cloudinary.Client) *UploadHandler {
	return &UploadHandler{uploads: uploads}
}

// Receipt uploads a payment proof image and returns its URL. The caller then
// attaches the URL via the receipt submission endpoint.
func (h *UploadHandler) Receipt(c *gin.Context) {
	if h.uploads == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "uploads not configured"})
		return
	}
	userID := middleware.GetUserID(c)
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
	publicID := fmt.Sprintf("u%d-%d-%s", userID, time.Now().Unix(), uuid.NewString()[:8])
	url, err := h.uploads.UploadReceipt(c.Request.Context(), f, "receipts", publicID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "upload failed"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"url": url})
}

// receiptURL pulls a receipt from the request: either an uploaded file under
// "receipt" or a pre-uploaded URL in the JSON body. Returns "" when neither
// is present; the transition rejects that with ErrReceiptRequired.
func receiptURL(c *gin.Context, uploads cloudinary.Client, folder string) (string, error) {
	if fh, err := c.FormFile("receipt"); err == nil {
		if uploads == nil {
			return "", fmt.Errorf("uploads not configured")
		}
		if fh.Size > maxUploadBytes {
			return "", fmt.Errorf("file too large")
		}
		f, err := fh.Open()
		if err != nil {
			return "", err
		}
		defer f.Close()
		publicID := fmt.Sprintf("%d-%s", time.Now().Unix(), uuid.NewString()[:8])
		return uploads.UploadReceipt(c.Request.Context(), f, folder, publicID)
	}
	var req struct {
		ReceiptURL string `json:"receipt_url"`
	}
	_ = c.ShouldBindJSON(&req)
	return req.ReceiptURL, nil
}
