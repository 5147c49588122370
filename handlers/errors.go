package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cvsaves/cvsaves-api/ledger"
	"github.com/cvsaves/cvsaves-api/utils"
)

// writeError maps the ledger error taxonomy onto HTTP responses. A partial
// cascade gets its own body shape so clients can tell the user the stored
// data is inconsistent, not just that the call failed.
func writeError(c *gin.Context, err error) {
	var (
		validation *ledger.ValidationError
		partial    *ledger.PartialCascadeError
		remote     *ledger.RemoteWriteError
	)
	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, gin.H{"error": validation.Error()})
	case errors.As(err, &partial):
		utils.SafeError("Partial rename cascade: %v", partial)
		c.JSON(http.StatusBadGateway, gin.H{
			"error":   "Category renamed but some expenses may still show the old name",
			"partial": true,
		})
	case errors.As(err, &remote):
		utils.SafeError("Remote write failed: %v", remote)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Save failed, please try again"})
	default:
		utils.SafeError("Unexpected error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
	}
}
