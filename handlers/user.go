package handlers

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cvsaves/cvsaves-api/ledger"
	"github.com/cvsaves/cvsaves-api/middleware"
	"github.com/cvsaves/cvsaves-api/models"
	"github.com/cvsaves/cvsaves-api/utils"
)

type UserHandler struct {
	DB     *sql.DB
	Ledger *ledger.Manager
}

func (h *UserHandler) GetProfile(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var user models.User
	err := h.DB.QueryRow(`
		SELECT id, email, name, created_at, updated_at
		FROM users
		WHERE id = $1
	`, userID).Scan(&user.ID, &user.Email, &user.Name, &user.CreatedAt, &user.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, user)
}

// DeleteAccount removes the user and everything they own. The category,
// expense and meta rows go with the user row via FK cascade on postgres; the
// explicit deletes keep sqlite (no foreign_keys pragma by default) honest.
func (h *UserHandler) DeleteAccount(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	err := utils.WithTransaction(h.DB, func(tx *sql.Tx) error {
		for _, q := range []string{
			`DELETE FROM expenses WHERE user_id = $1`,
			`DELETE FROM monthly_meta WHERE user_id = $1`,
			`DELETE FROM user_categories WHERE user_id = $1`,
			`DELETE FROM users WHERE id = $1`,
		} {
			if _, err := tx.Exec(q, userID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		utils.SafeError("Account deletion failed for %s: %v", utils.MaskID(userID), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete account"})
		return
	}

	h.Ledger.InvalidateUser(userID)
	utils.SafeInfo("Account deleted: %s", utils.MaskID(userID))
	c.JSON(http.StatusOK, gin.H{"message": "Account deleted"})
}
