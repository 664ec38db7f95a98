package routes

import (
	"net/http"
	"os"
	"time"

	"github.com/01moynul/resellerhub-golang/internal/auth"
	"github.com/01moynul/resellerhub-golang/internal/handlers"
	"github.com/01moynul/resellerhub-golang/internal/middleware"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func SetupRouter(h *handlers.Handlers) *gin.Engine {
	router := gin.Default()

	// The SPA runs on the Vite dev server and sends the session cookie,
	// so the origin must be explicit and credentials allowed.
	origin := os.Getenv("CORS_ORIGIN")
	if origin == "" {
		origin = "http://localhost:5173"
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{origin},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "online"})
	})

	api := router.Group("/api")
	{
		// --- Auth Routes (Public) ---
		api.POST("/auth/login", h.Login)
		api.POST("/auth/register", h.Register)
		api.POST("/auth/logout", h.Logout)
		api.GET("/auth/me", middleware.AuthMiddleware(), h.Me)

		// --- Admin Routes ---
		admin := api.Group("/admin")
		admin.Use(middleware.AuthMiddleware())
		admin.Use(middleware.RequireRole(auth.RoleAdmin))
		{
			admin.GET("/dashboard", h.GetAdminDashboard)
			admin.GET("/resellers", h.GetResellers)

			admin.GET("/products", h.GetProducts)
			admin.POST("/products", h.CreateProduct)
			admin.PUT("/products/:id", h.UpdateProduct)
			admin.DELETE("/products/:id", h.DeleteProduct)

			admin.GET("/orders", h.GetAllOrders)
			admin.PUT("/orders/:id/status", h.UpdateOrderStatus)

			admin.GET("/withdrawals", h.GetAllWithdrawals)
			admin.PUT("/withdrawals/:id/status", h.UpdateWithdrawalStatus)

			admin.GET("/settings", h.GetSettings)
			admin.PUT("/settings", h.UpdateSettings)

			admin.GET("/messages/conversations", h.GetConversations)
			admin.GET("/messages/:resellerID", h.GetConversation)
			admin.POST("/messages/:resellerID", h.SendAdminMessage)
			admin.PUT("/messages/:resellerID/read", h.MarkConversationRead)
		}

		// --- Reseller Routes ---
		reseller := api.Group("/reseller")
		reseller.Use(middleware.AuthMiddleware())
		reseller.Use(middleware.RequireRole(auth.RoleReseller))
		{
			reseller.GET("/dashboard", h.GetResellerDashboard)
			reseller.GET("/products", h.GetAvailableProducts)

			reseller.POST("/orders", h.PlaceOrder)
			reseller.GET("/orders", h.GetMyOrders)
			reseller.GET("/orders/:id", h.GetMyOrder)
			reseller.POST("/orders/:id/payment", h.SubmitOrderPayment)

			reseller.GET("/withdrawals", h.GetMyWithdrawals)
			reseller.POST("/withdrawals", h.RequestWithdrawal)

			reseller.GET("/transactions", h.GetMyTransactions)
			reseller.GET("/affiliate", h.GetAffiliateSummary)

			reseller.GET("/messages", h.GetMyMessages)
			reseller.POST("/messages", h.SendResellerMessage)
			reseller.PUT("/messages/read", h.MarkMyMessagesRead)
		}
	}

	// --- Realtime Refresh Channel ---
	router.GET("/ws", middleware.AuthMiddleware(), h.ServeWS)

	return router
}
