package router

import (
	"time"

	"inventra/internal/config"
	"inventra/internal/handler"
	"inventra/internal/infra"
	"inventra/internal/middleware"
	"inventra/internal/model"
	"inventra/internal/repository"
	"inventra/internal/service"
	"inventra/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Services is every business service the HTTP layer and the background jobs use.
type Services struct {
	Auth          service.AuthService
	Products      service.ProductService
	Notifications service.NotificationService
	Ledger        service.LedgerService
	Reports       service.ReportService
	Audits        service.AuditService
	Clerk         service.ClerkService
}

// BuildServices wires services over a repository set. rdb may be nil, which
// disables the per-product ledger lock and reorder emails.
func BuildServices(cfg *config.Config, repos repository.Set, rdb *redis.Client) Services {
	var (
		locker service.Locker
		mail   service.EmailQueue
	)
	if rdb != nil {
		locker = infra.NewRedisLocker(rdb)
		if cfg.MailEnabled() {
			mail = worker.NewDispatcher(rdb)
		}
	}

	notifications := service.NewNotificationService(repos.Notifications, repos.Users)
	return Services{
		Auth:          service.NewAuthService(repos.Users, cfg),
		Products:      service.NewProductService(repos.Products, locker),
		Notifications: notifications,
		Ledger:        service.NewLedgerService(repos.Products, repos.Transactions, notifications, locker),
		Reports:       service.NewReportService(repos.Products, repos.Transactions),
		Audits:        service.NewAuditService(repos.Audits, repos.Products, notifications),
		Clerk:         service.NewClerkService(repos.Products, repos.Transactions, repos.Users, notifications, mail),
	}
}

// New returns a configured Gin engine. db and rdb are only used by the health
// check and the dead letter endpoint and may be nil.
func New(cfg *config.Config, svc Services, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(svc.Auth)
	usersH := handler.NewUsersHandler(svc.Auth)
	productsH := handler.NewProductsHandler(svc.Products)
	managerH := handler.NewManagerHandler(svc.Ledger, svc.Reports)
	auditorH := handler.NewAuditorHandler(svc.Audits)
	clerkH := handler.NewClerkHandler(svc.Clerk)
	notificationsH := handler.NewNotificationsHandler(svc.Notifications)
	jobsH := handler.NewJobsHandler(rdb)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	api := r.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
	}

	// Protected routes; admin passes every RequireRole gate.
	v := api.Group("", middleware.JWTAuth(cfg.JWTSecret))
	{
		v.GET("/auth/me", authH.Me)

		manager := v.Group("/manager", middleware.RequireRole(model.RoleManager))
		{
			manager.POST("/stockIn", managerH.StockIn)
			manager.POST("/stockOut", managerH.StockOut)
			manager.GET("/validateStock", managerH.ValidateStock)
			manager.GET("/generateReport", managerH.GenerateReport)
			manager.GET("/transactions", managerH.Transactions)
		}

		auditor := v.Group("/auditor", middleware.RequireRole(model.RoleAuditor))
		{
			auditor.POST("/auditInventory", auditorH.AuditInventory)
			auditor.POST("/scheduleAudit", auditorH.ScheduleAudit)
			auditor.GET("/reports", auditorH.Reports)
			auditor.GET("/audits/:id", auditorH.Get)
			auditor.PUT("/audits/:id/start", auditorH.Start)
			auditor.PUT("/audits/:id/complete", auditorH.Complete)
			auditor.GET("/exportReport", auditorH.ExportReport)
		}

		clerk := v.Group("/clerk", middleware.RequireRole(model.RoleClerk))
		{
			clerk.GET("/lowStock", clerkH.LowStock)
			clerk.GET("/pendingOrders", clerkH.PendingOrders)
			clerk.POST("/orders", clerkH.CreateOrder)
			clerk.PUT("/orders/:id", clerkH.UpdateOrder)
			clerk.POST("/reorder", clerkH.Reorder)
		}

		notifications := v.Group("/notifications")
		{
			notifications.GET("", notificationsH.List)
			notifications.GET("/unread-count", notificationsH.UnreadCount)
			notifications.PUT("/read-all", notificationsH.MarkAllRead)
			notifications.PUT("/:id/read", notificationsH.MarkRead)
		}

		// Every role can read the catalog; writes are admin only.
		readers := middleware.RequireRole(model.RoleManager, model.RoleClerk, model.RoleAuditor)
		v.GET("/products", readers, productsH.List)
		v.GET("/products/:id", readers, productsH.Get)
		products := v.Group("/products", middleware.RequireRole(model.RoleAdmin))
		{
			products.POST("", productsH.Create)
			products.PUT("/:id", productsH.Update)
			products.DELETE("/:id", productsH.Delete)
		}

		admin := v.Group("/admin", middleware.RequireRole(model.RoleAdmin))
		{
			admin.POST("/users", usersH.Create)
			admin.GET("/users", usersH.List)
			admin.PUT("/users/:id", usersH.Update)
			admin.DELETE("/users/:id", usersH.Deactivate)
			admin.GET("/jobs/dead-letters", jobsH.DeadLetters)
		}
	}

	// Swagger UI, only enabled outside production
	if !cfg.IsProduction() {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
