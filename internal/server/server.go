package server

import (
	"context"
	"net/http"
	"time"

	"gfuture/internal/auth"
	"gfuture/internal/catalog"
	"gfuture/internal/config"
	"gfuture/internal/offer"
	"gfuture/internal/order"
	"gfuture/internal/payment"
	"gfuture/internal/plan"
	"gfuture/internal/user"
	"gfuture/internal/wallet"

	"github.com/gin-gonic/gin"
)

// Handlers groups the per-domain HTTP handlers mounted by the server.
type Handlers struct {
	Wallet   *wallet.Handler
	Orders   *order.Handler
	Payments *payment.Handler
	Offers   *offer.Handler
	Catalog  *catalog.Handler
	Plans    *plan.Handler
	Users    *user.Handler
	// Queue feeds the email queue gauge on every scrape; optional.
	Queue QueueReporter
	// Ping backs the health check; optional.
	Ping func(ctx context.Context) error
}

type Server struct {
	router *gin.Engine
	http   *http.Server
}

func New(cfg *config.Config, h Handlers) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLoggingMiddleware())
	router.Use(MetricsMiddleware())
	router.Use(corsMiddleware(cfg.CORSOrigins))

	router.GET("/health", Health(h.Ping))
	router.GET("/metrics", Metrics(h.Queue))

	authMiddleware := auth.AuthMiddleware(cfg.JWTSecret)
	limited := RateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst)

	public := router.Group("/api")
	{
		public.GET("/services", h.Catalog.ListServices)
		public.GET("/services/:id", h.Catalog.GetService)
		public.GET("/categories", h.Catalog.ListCategories)
		public.GET("/offers", h.Offers.List)
		public.GET("/plans", h.Plans.List)
	}

	protected := router.Group("/api")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", h.Users.GetMe)

		w := protected.Group("/wallet")
		w.GET("", h.Wallet.GetBalance)
		w.GET("/transactions", h.Wallet.ListTransactions)
		w.POST("/add-funds", limited, h.Wallet.AddFunds)
		w.POST("/redeem-credits", limited, h.Wallet.RedeemCredits)
		w.POST("/pay", limited, h.Wallet.Pay)

		o := protected.Group("/orders")
		o.POST("", h.Orders.Create)
		o.GET("", h.Orders.List)
		o.GET("/:id", h.Orders.Get)
		o.PATCH("/:id/status", auth.RequireRole(auth.RoleProvider, auth.RoleAdmin), h.Orders.UpdateStatus)

		p := protected.Group("/payments")
		p.POST("/initiate", h.Payments.Initiate)
		p.POST("/verify", limited, h.Payments.Verify)
		p.GET("/:orderId", h.Payments.Get)

		protected.POST("/offers/apply", h.Offers.Apply)
		provider := protected.Group("/offers/provider")
		provider.Use(auth.RequireRole(auth.RoleProvider))
		provider.GET("", h.Offers.ListMine)
		provider.POST("", h.Offers.Create)
		provider.PUT("/:id", h.Offers.Update)
		provider.DELETE("/:id", h.Offers.Delete)

		plans := protected.Group("/plans")
		plans.GET("/my", h.Plans.Mine)
		plans.POST("/subscribe", h.Plans.Subscribe)
		plans.POST("/cancel", h.Plans.Cancel)
		plans.GET("/recommend", h.Plans.Recommend)
	}

	admin := router.Group("/api/admin")
	admin.Use(authMiddleware, auth.RequireRole(auth.RoleAdmin))
	{
		admin.GET("/wallets/:userId/audit", h.Wallet.Audit)
	}

	return &Server{
		router: router,
		http: &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Start() error {
	return s.http.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

// corsMiddleware allows the configured origins. A "*" entry allows any origin.
func corsMiddleware(origins []string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		allowed[o] = true
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		switch {
		case allowed["*"]:
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		case origin != "" && allowed[origin]:
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Writer.Header().Add("Vary", "Origin")
		}
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
