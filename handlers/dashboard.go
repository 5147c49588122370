package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/cvsaves/cvsaves-api/ledger"
	"github.com/cvsaves/cvsaves-api/middleware"
)

// DashboardHandler computes the monthly spending view: per-category totals,
// the overall sum, remaining budget, and percentage figures for the chart.
// Amounts are aggregated exactly and only rounded here, at the edge.
type DashboardHandler struct {
	Ledger *ledger.Manager
}

type dashboardCategory struct {
	Name    string          `json:"name"`
	Amount  decimal.Decimal `json:"amount"`
	Color   string          `json:"color"`
	Percent decimal.Decimal `json:"percent"`
}

type dashboardResponse struct {
	Month      string              `json:"month"`
	Mode       string              `json:"mode"`
	Categories []dashboardCategory `json:"categories"`
	Sum        decimal.Decimal     `json:"sum"`
	Remaining  decimal.Decimal     `json:"remaining"`
	Percent    decimal.Decimal     `json:"percent"`
	Income     decimal.Decimal     `json:"income"`
	Budget     decimal.Decimal     `json:"budget"`
}

// Get answers GET /dashboard?month=February&year=2026&mode=budget.
func (h *DashboardHandler) Get(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	monthName := c.Query("month")
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "year must be a number"})
		return
	}
	monthKey, err := ledger.MonthKey(monthName, year)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown month name"})
		return
	}
	mode := ledger.ParseMode(c.Query("mode"))

	s, err := h.Ledger.Get(c.Request.Context(), userID, monthKey)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load ledger"})
		return
	}

	meta := s.Meta()
	filtered := ledger.FilterToMonth(s.Expenses(), monthName, year)
	rows := ledger.AggregateByCategory(filtered, s.Categories())
	totals := ledger.Totals(filtered, meta.Budget, mode)

	cats := make([]dashboardCategory, 0, len(rows))
	for _, r := range rows {
		cats = append(cats, dashboardCategory{
			Name:    r.Name,
			Amount:  r.Amount.Round(2),
			Color:   r.Color,
			Percent: totals.Share(r.Amount).Mul(decimal.NewFromInt(100)).Round(2),
		})
	}

	modeName := "budget"
	if mode == ledger.ModeTracker {
		modeName = "tracker"
	}
	c.JSON(http.StatusOK, dashboardResponse{
		Month:      monthKey,
		Mode:       modeName,
		Categories: cats,
		Sum:        totals.Sum.Round(2),
		Remaining:  totals.Remaining.Round(2),
		Percent:    totals.Percent.Mul(decimal.NewFromInt(100)).Round(2),
		Income:     meta.Income,
		Budget:     meta.Budget,
	})
}
