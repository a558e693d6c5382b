package handler

import (
	"errors"
	"net/http"

	"kuruma/internal/repository"
	"kuruma/internal/workflow"

	"github.com/gin-gonic/gin"
)

// workflowError maps state machine and ledger failures to HTTP responses.
// Conflicts are rejections, not silent no-ops, so the client always learns
// the write did not happen.
func workflowError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, workflow.ErrStateConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "already processed"})
	case errors.Is(err, workflow.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": "action not allowed in current status"})
	case errors.Is(err, workflow.ErrRailDisabled):
		c.JSON(http.StatusForbidden, gin.H{"error": "payment rail disabled"})
	case errors.Is(err, workflow.ErrUnknownRail):
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown payment rail"})
	case errors.Is(err, workflow.ErrReceiptRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": "receipt required"})
	case errors.Is(err, workflow.ErrNoWallet):
		c.JSON(http.StatusForbidden, gin.H{"error": "wallet rail requires an account"})
	case errors.Is(err, repository.ErrInsufficientBalance):
		c.JSON(http.StatusPaymentRequired, gin.H{"error": "insufficient wallet balance"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "payment processing failed"})
	}
}
