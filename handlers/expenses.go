package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cvsaves/cvsaves-api/ledger"
	"github.com/cvsaves/cvsaves-api/middleware"
	"github.com/cvsaves/cvsaves-api/models"
)

// ExpenseHandler routes expense CRUD through the per-(user, month) ledger
// session, so every mutation follows the optimistic apply / remote commit /
// rollback-on-failure contract.
type ExpenseHandler struct {
	Ledger *ledger.Manager
	WS     *WSHandler
}

// session resolves the ledger session for the month named in the query
// string (YYYY-MM). The month pins which snapshot the mutation patches, the
// same scope the dashboard view operates in.
func (h *ExpenseHandler) session(c *gin.Context) (*ledger.Session, bool) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return nil, false
	}
	monthKey := c.Query("month")
	if _, _, err := ledger.MonthBounds(monthKey); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "month query parameter must be YYYY-MM"})
		return nil, false
	}
	s, err := h.Ledger.Get(c.Request.Context(), userID, monthKey)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load ledger"})
		return nil, false
	}
	return s, true
}

func (h *ExpenseHandler) List(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, s.Expenses())
}

func (h *ExpenseHandler) Create(c *gin.Context) {
	var req models.CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := middleware.GetUserID(c)
	day, err := ledger.NormalizeDay(req.Date)
	if err != nil {
		writeError(c, err)
		return
	}
	// The expense lands in the session of its own calendar month.
	s, err := h.Ledger.Get(c.Request.Context(), userID, day[:7])
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load ledger"})
		return
	}

	exp, err := s.AddExpense(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}

	h.WS.NotifyUser(userID, "expenses_changed")
	c.JSON(http.StatusCreated, exp)
}

func (h *ExpenseHandler) Update(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	var req models.UpdateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	exp, err := h.Ledger.UpdateExpense(c.Request.Context(), s, c.Param("id"), req)
	if err != nil {
		writeError(c, err)
		return
	}

	h.WS.NotifyUser(s.UserID, "expenses_changed")
	c.JSON(http.StatusOK, exp)
}

func (h *ExpenseHandler) Delete(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	if err := s.DeleteExpense(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}

	h.WS.NotifyUser(s.UserID, "expenses_changed")
	c.JSON(http.StatusOK, gin.H{"message": "Expense deleted"})
}
