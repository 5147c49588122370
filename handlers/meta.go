package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cvsaves/cvsaves-api/ledger"
	"github.com/cvsaves/cvsaves-api/middleware"
	"github.com/cvsaves/cvsaves-api/models"
)

// MetaHandler serves the per-month income and budget figures. A month with
// no saved row reads back as zeros.
type MetaHandler struct {
	Ledger *ledger.Manager
	WS     *WSHandler
}

func (h *MetaHandler) session(c *gin.Context) (*ledger.Session, bool) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return nil, false
	}
	monthKey := c.Param("month")
	if _, _, err := ledger.MonthBounds(monthKey); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "month must be YYYY-MM"})
		return nil, false
	}
	s, err := h.Ledger.Get(c.Request.Context(), userID, monthKey)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load ledger"})
		return nil, false
	}
	return s, true
}

func (h *MetaHandler) Get(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, s.Meta())
}

func (h *MetaHandler) Upsert(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	var req models.UpsertMetaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	meta := models.MonthlyMeta{Income: req.Income, Budget: req.Budget}
	if err := s.SaveMeta(c.Request.Context(), meta); err != nil {
		writeError(c, err)
		return
	}

	h.WS.NotifyUser(s.UserID, "meta_changed")
	c.JSON(http.StatusOK, s.Meta())
}
