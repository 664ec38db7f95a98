package handlers

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/01moynul/resellerhub-golang/internal/ledger"
	"github.com/01moynul/resellerhub-golang/internal/realtime"
	"github.com/gin-gonic/gin"
)

// Handlers struct holds all dependencies for our handlers.
type Handlers struct {
	DB  *sql.DB
	Hub *realtime.Hub
}

// businessErrors are user-correctable rule violations that map to 400
// with the message passed through.
var businessErrors = []error{
	ledger.ErrOrderNotFound,
	ledger.ErrProductNotFound,
	ledger.ErrOutOfStock,
	ledger.ErrPriceBelowFloor,
	ledger.ErrWithdrawalNotFound,
	ledger.ErrWithdrawalProcessed,
	ledger.ErrInsufficientBalance,
	ledger.ErrAmountBelowMinimum,
	ledger.ErrTrxIDRequired,
	ledger.ErrInvalidStatus,
}

// respondLedgerError writes 400 for business-rule violations and 500 for
// anything else. The enclosing transaction is already rolled back by the
// caller's deferred tx.Rollback(), so no partial ledger mutation persists.
func respondLedgerError(c *gin.Context, err error) {
	for _, be := range businessErrors {
		if errors.Is(err, be) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
}

// currentUserID reads the identity AuthMiddleware stored on the context.
func currentUserID(c *gin.Context) int64 {
	raw, _ := c.Get("userID")
	return raw.(int64)
}
