package handlers

import (
	"fmt"
	"math/rand"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cvsaves/cvsaves-api/ledger"
	"github.com/cvsaves/cvsaves-api/middleware"
	"github.com/cvsaves/cvsaves-api/models"
	"github.com/cvsaves/cvsaves-api/services"
)

type CategoryHandler struct {
	Store  *services.Store
	Ledger *ledger.Manager
	WS     *WSHandler
}

// randomColor picks a display color for categories created without one.
func randomColor() string {
	return fmt.Sprintf("#%06x", rand.Intn(0x1000000))
}

// List returns the user's categories, seeding the default set on a first
// load that finds none.
func (h *CategoryHandler) List(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	seeded, err := h.Store.Categories.EnsureDefaults(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load categories"})
		return
	}
	if seeded {
		// Snapshots loaded before the first seed know no categories; drop
		// them so the next read picks up the defaults.
		h.Ledger.InvalidateUser(userID)
	}
	cats, err := h.Store.Categories.List(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load categories"})
		return
	}
	if cats == nil {
		cats = []models.Category{}
	}
	c.JSON(http.StatusOK, cats)
}

func (h *CategoryHandler) Create(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req models.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	color := req.Color
	if color == "" {
		color = randomColor()
	}

	cat, err := h.Ledger.AddCategory(c.Request.Context(), userID, req.Name, color)
	if err != nil {
		writeError(c, err)
		return
	}

	h.WS.NotifyUser(userID, "categories_changed")
	c.JSON(http.StatusCreated, cat)
}

// Rename runs the full cascade: the category record, then every expense
// still tagged with the old name.
func (h *CategoryHandler) Rename(c *gin.Context) {
	userID := middleware.GetUserID(c)
	categoryID := c.Param("id")

	var req models.RenameCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.Ledger.RenameCategory(c.Request.Context(), userID, categoryID, req.Name); err != nil {
		writeError(c, err)
		return
	}

	h.WS.NotifyUser(userID, "categories_changed")
	h.WS.NotifyUser(userID, "expenses_changed")
	c.JSON(http.StatusOK, gin.H{"message": "Category renamed"})
}

func (h *CategoryHandler) Recolor(c *gin.Context) {
	userID := middleware.GetUserID(c)
	categoryID := c.Param("id")

	var req models.RecolorCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.Ledger.RecolorCategory(c.Request.Context(), userID, categoryID, req.Color); err != nil {
		writeError(c, err)
		return
	}

	h.WS.NotifyUser(userID, "categories_changed")
	c.JSON(http.StatusOK, gin.H{"message": "Category recolored"})
}

// Delete refuses to remove the user's last category; expenses tagged with a
// deleted category stay and render with the fallback color.
func (h *CategoryHandler) Delete(c *gin.Context) {
	userID := middleware.GetUserID(c)
	categoryID := c.Param("id")

	count, err := h.Store.Categories.Count(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if count <= 1 {
		c.JSON(http.StatusConflict, gin.H{"error": "Cannot delete the last category"})
		return
	}

	if err := h.Ledger.DeleteCategory(c.Request.Context(), userID, categoryID); err != nil {
		writeError(c, err)
		return
	}

	h.WS.NotifyUser(userID, "categories_changed")
	c.JSON(http.StatusOK, gin.H{"message": "Category deleted"})
}
