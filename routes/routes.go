package routes

import (
	"database/sql"

	"github.com/gin-gonic/gin"

	"github.com/cvsaves/cvsaves-api/handlers"
	"github.com/cvsaves/cvsaves-api/ledger"
	"github.com/cvsaves/cvsaves-api/services"
)

// SetupAuthRoutes sets up public authentication routes.
func SetupAuthRoutes(rg *gin.RouterGroup, db *sql.DB) {
	authHandler := &handlers.AuthHandler{DB: db}

	rg.POST("/auth/signup", authHandler.Signup)
	rg.POST("/auth/login", authHandler.Login)
}

// SetupLedgerRoutes sets up the protected expense, category, meta and
// dashboard routes, all backed by the ledger session manager.
func SetupLedgerRoutes(rg *gin.RouterGroup, store *services.Store, manager *ledger.Manager, ws *handlers.WSHandler) {
	categoryHandler := &handlers.CategoryHandler{Store: store, Ledger: manager, WS: ws}
	expenseHandler := &handlers.ExpenseHandler{Ledger: manager, WS: ws}
	metaHandler := &handlers.MetaHandler{Ledger: manager, WS: ws}
	dashboardHandler := &handlers.DashboardHandler{Ledger: manager}
	dataHandler := &handlers.DataHandler{Store: store, Ledger: manager, WS: ws}

	// Category routes
	rg.GET("/categories", categoryHandler.List)
	rg.POST("/categories", categoryHandler.Create)
	rg.PUT("/categories/:id", categoryHandler.Rename)
	rg.PUT("/categories/:id/color", categoryHandler.Recolor)
	rg.DELETE("/categories/:id", categoryHandler.Delete)

	// Expense routes (scoped to a month via ?month=YYYY-MM)
	rg.GET("/expenses", expenseHandler.List)
	rg.POST("/expenses", expenseHandler.Create)
	rg.PUT("/expenses/:id", expenseHandler.Update)
	rg.DELETE("/expenses/:id", expenseHandler.Delete)

	// Monthly income/budget figures
	rg.GET("/months/:month/meta", metaHandler.Get)
	rg.PUT("/months/:month/meta", metaHandler.Upsert)

	// Aggregated monthly view
	rg.GET("/dashboard", dashboardHandler.Get)

	// Data wipe routes
	rg.DELETE("/data", dataHandler.ClearAll)
	rg.DELETE("/data/month/:month", dataHandler.ClearMonth)
}

// SetupUserRoutes sets up protected user routes.
func SetupUserRoutes(rg *gin.RouterGroup, db *sql.DB, manager *ledger.Manager) {
	userHandler := &handlers.UserHandler{DB: db, Ledger: manager}

	rg.GET("/user/profile", userHandler.GetProfile)
	rg.DELETE("/user/account", userHandler.DeleteAccount)
}

// SetupWSRoutes sets up the protected websocket endpoint.
func SetupWSRoutes(rg *gin.RouterGroup, ws *handlers.WSHandler) {
	rg.GET("/ws/ledger", ws.HandleWS)
}
