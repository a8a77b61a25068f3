package router

import (
	"net/http"

	"subpay/config"
	"subpay/internal/domain"
	"subpay/internal/handler"
	"subpay/internal/middleware"
	"subpay/internal/notify"
	"subpay/internal/repository"
	"subpay/internal/service"
	"subpay/internal/webhook"
	"subpay/internal/ws"
	"subpay/pkg/proofstore"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Services groups the long-lived services the server loop needs outside
// of request handling (the expiry sweeper).
type Services struct {
	Payments      *service.PaymentService
	Subscriptions *service.SubscriptionService
}

func Setup(cfg *config.Config, db *gorm.DB, proofs proofstore.Client, logger *zap.Logger) (*gin.Engine, *Services) {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RateLimit(middleware.NewInMemoryRateLimiter(cfg.RateLimit)))

	// Repositories
	tenantRepo := repository.NewTenantRepository(db)
	userRepo := repository.NewUserRepository(db)
	planRepo := repository.NewPlanRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	subscriptionRepo := repository.NewSubscriptionRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)

	hub := ws.NewHub()

	// Channel adapters
	adapters := []notify.Adapter{
		notify.NewTelegramAdapter(cfg.Telegram),
		notify.NewEmailAdapter(cfg.SMTP),
		notify.NewInAppAdapter(hub),
	}

	// Services
	authSvc := service.NewAuthService(cfg, userRepo, tenantRepo)
	notifSvc := service.NewNotificationService(notificationRepo, adapters, cfg.Notify, logger)
	subSvc := service.NewSubscriptionService(subscriptionRepo, planRepo, logger)
	paymentSvc := service.NewPaymentService(paymentRepo, planRepo, userRepo, auditRepo, subSvc, notifSvc, cfg.Payment.PaymentExpiry, logger)

	// Webhook ingestion
	webhookRouter := webhook.NewRouter(logger)
	handler.RegisterGatewayHandlers(webhookRouter, paymentSvc, subSvc, cfg.Webhook, logger)

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc)
	paymentHandler := handler.NewPaymentHandler(paymentSvc, proofs)
	subscriptionHandler := handler.NewSubscriptionHandler(subSvc, subscriptionRepo)
	planHandler := handler.NewPlanHandler(planRepo)
	notificationHandler := handler.NewNotificationHandler(notificationRepo, notifSvc)
	auditHandler := handler.NewAuditHandler(auditRepo)
	webhookHandler := handler.NewWebhookHandler(webhookRouter)

	authMw := middleware.AuthRequired(&cfg.JWT)
	adminMw := middleware.RequireRole(domain.RoleAdmin)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/refresh", authHandler.Refresh)
			authGroup.POST("/change-password", authMw, authHandler.ChangePassword)
		}

		// Gateway callbacks authenticate by signature, not bearer token.
		api.POST("/webhooks", webhookHandler.Receive)

		plans := api.Group("/plans")
		{
			plans.GET("", planHandler.List)
			plans.GET("/:id", planHandler.Get)
			plans.POST("", authMw, adminMw, planHandler.Create)
			plans.PUT("/:id", authMw, adminMw, planHandler.Update)
		}

		payments := api.Group("/payments", authMw)
		{
			payments.POST("", paymentHandler.Create)
			payments.GET("", paymentHandler.List)
			payments.GET("/:id", paymentHandler.Get)
			payments.POST("/:id/proof", paymentHandler.UploadProof)
			payments.POST("/:id/confirm", adminMw, paymentHandler.Confirm)
			payments.POST("/:id/reject", adminMw, paymentHandler.Reject)
		}

		subscriptions := api.Group("/subscriptions", authMw)
		{
			subscriptions.GET("", subscriptionHandler.List)
			subscriptions.GET("/current", subscriptionHandler.Current)
			subscriptions.POST("/activate", adminMw, subscriptionHandler.Activate)
			subscriptions.POST("/cancel/:id", subscriptionHandler.Cancel)
			subscriptions.POST("/renew/:id", adminMw, subscriptionHandler.Renew)
		}

		notifications := api.Group("/notifications", authMw)
		{
			notifications.GET("", notificationHandler.List)
			notifications.POST("/read/:id", notificationHandler.MarkRead)
			notifications.GET("/channels", adminMw, notificationHandler.Channels)
		}

		api.GET("/audit-logs", authMw, adminMw, auditHandler.List)

		api.GET("/ws/notifications", handler.UpgradeNotifyWS(&cfg.JWT, hub))
	}

	return r, &Services{Payments: paymentSvc, Subscriptions: subSvc}
}
