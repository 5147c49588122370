package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cvsaves/cvsaves-api/ledger"
	"github.com/cvsaves/cvsaves-api/middleware"
	"github.com/cvsaves/cvsaves-api/services"
	"github.com/cvsaves/cvsaves-api/utils"
)

// DataHandler wipes ledger data: one month or everything. Categories survive
// both operations.
type DataHandler struct {
	Store  *services.Store
	Ledger *ledger.Manager
	WS     *WSHandler
}

func (h *DataHandler) ClearMonth(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	monthKey := c.Param("month")
	if _, _, err := ledger.MonthBounds(monthKey); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "month must be YYYY-MM"})
		return
	}

	if err := h.Store.ClearMonth(c.Request.Context(), userID, monthKey); err != nil {
		utils.SafeError("Failed to clear month %s for user %s: %v", monthKey, utils.MaskID(userID), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear month"})
		return
	}

	h.Ledger.Invalidate(userID, monthKey)
	h.WS.NotifyUser(userID, "expenses_changed")
	h.WS.NotifyUser(userID, "meta_changed")
	c.JSON(http.StatusOK, gin.H{"message": "Month cleared"})
}

func (h *DataHandler) ClearAll(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.Store.ClearAll(c.Request.Context(), userID); err != nil {
		utils.SafeError("Failed to clear data for user %s: %v", utils.MaskID(userID), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear data"})
		return
	}

	h.Ledger.InvalidateUser(userID)
	h.WS.NotifyUser(userID, "expenses_changed")
	h.WS.NotifyUser(userID, "meta_changed")
	c.JSON(http.StatusOK, gin.H{"message": "All data cleared"})
}
