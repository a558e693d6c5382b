package router

import (
	"log"
	"time"

	"kuruma/config"
	"kuruma/internal/handler"
	"kuruma/internal/middleware"
	"kuruma/internal/repository"
	"kuruma/internal/service"
	"kuruma/internal/workflow"
	"kuruma/pkg/cloudinary"
	"kuruma/pkg/genai"
	"kuruma/pkg/mailer"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func Setup(cfg *config.Config, db *gorm.DB, cloud cloudinary.Client) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	// Skip gin.Logger() to reduce log noise; use gin.Default() if you need request logging
	r.Use(middleware.RateLimit(middleware.NewInMemoryRateLimiter(100, 60*time.Second)))

	// Repositories
	userRepo := repository.NewUserRepository(db)
	walletRepo := repository.NewWalletRepository(db)
	vehicleRepo := repository.NewVehicleRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	depositRepo := repository.NewDepositRepository(db)
	giveawayRepo := repository.NewGiveawayRepository(db)
	investRepo := repository.NewInvestmentRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	settingRepo := repository.NewSettingRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)
	adminRepo := repository.NewAdminRepository(db)

	// Services
	authSvc := service.NewAuthService(cfg, userRepo)
	fcmSvc := service.NewFCMService(cfg.Firebase.ServiceAccountPath)
	if fcmSvc != nil {
		log.Printf("[FCM] Push notifications enabled")
	} else if cfg.Firebase.ServiceAccountPath != "" {
		log.Printf("[FCM] Push notifications disabled: failed to init (check service account file)")
	} else {
		log.Printf("[FCM] Push notifications disabled: set FIREBASE_SERVICE_ACCOUNT_PATH to enable")
	}
	notifSvc := service.NewNotificationService(notificationRepo, userRepo, fcmSvc)
	mailSvc := service.NewMailService(&cfg.Mail, mailer.NewClient(cfg.Mail.EndpointURL))

	var assistantSvc *service.AssistantService
	if cfg.GenAI.APIKey != "" {
		assistantSvc = service.NewAssistantService(genai.NewClient(cfg.GenAI.APIKey, cfg.GenAI.Model))
	} else {
		log.Printf("[GENAI] Assistant disabled: set GEMINI_API_KEY to enable")
	}

	settingsSvc := service.NewSettingsService(settingRepo)
	if err := settingsSvc.SeedDefaults(); err != nil {
		log.Printf("[SETTINGS] seed defaults: %v", err)
	}

	// Workflow engines, one per entity table
	orderEngine := workflow.NewEngine(repository.NewOrderUnitOfWork(db), mailSvc)
	depositEngine := workflow.NewEngine(repository.NewDepositUnitOfWork(db), mailSvc)
	entryEngine := workflow.NewEngine(repository.NewEntryUnitOfWork(db), mailSvc)

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc, auditRepo)
	googleOAuthHandler := handler.NewGoogleOAuthHandler(cfg, authSvc, auditRepo)
	meHandler := handler.NewMeHandler(userRepo)
	walletHandler := handler.NewWalletHandler(walletRepo)
	vehicleHandler := handler.NewVehicleHandler(vehicleRepo, assistantSvc, cloud)
	orderHandler := handler.NewOrderHandler(orderRepo, vehicleRepo, userRepo, orderEngine, settingsSvc, notifSvc, cloud)
	depositHandler := handler.NewDepositHandler(depositRepo, userRepo, depositEngine, settingsSvc, cloud)
	giveawayHandler := handler.NewGiveawayHandler(giveawayRepo, userRepo, entryEngine, settingsSvc, notifSvc, cloud)
	investmentHandler := handler.NewInvestmentHandler(investRepo, walletRepo)
	notificationHandler := handler.NewNotificationHandler(notificationRepo)
	uploadHandler := handler.NewUploadHandler(cloud)
	assistantHandler := handler.NewAssistantHandler(assistantSvc)
	adminHandler := handler.NewAdminHandler(
		adminRepo, orderRepo, depositRepo, giveawayRepo, investRepo,
		vehicleRepo, settingRepo, auditRepo,
		orderEngine, depositEngine, entryEngine, settingsSvc, notifSvc,
	)

	authMw := middleware.AuthRequired(&cfg.JWT)
	optionalMw := middleware.AuthOptional(&cfg.JWT)

	api := r.Group("/api/v1")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/refresh", authHandler.Refresh)
			authGroup.PATCH("/change-password", authMw, authHandler.ChangePassword)
			authGroup.GET("/google", googleOAuthHandler.Redirect)
			authGroup.GET("/google/callback", googleOAuthHandler.Callback)
			authGroup.POST("/google/token", googleOAuthHandler.Token)
		}

		// Public catalog and giveaways
		api.GET("/vehicles", vehicleHandler.List)
		api.GET("/vehicles/:id", vehicleHandler.Get)
		api.GET("/giveaways", giveawayHandler.ListActive)
		api.GET("/giveaways/:id", giveawayHandler.Get)

		// Giveaway entry and payment; guests allowed, entries addressed by
		// reference so a guest can come back with the link from their mail
		api.POST("/giveaways/:id/entries", optionalMw, giveawayHandler.Enter)
		api.POST("/giveaway-entries/:reference/pay-wallet", optionalMw, giveawayHandler.PayWallet)
		api.POST("/giveaway-entries/:reference/choose-rail", optionalMw, giveawayHandler.ChooseRail)
		api.POST("/giveaway-entries/:reference/receipt", optionalMw, giveawayHandler.SubmitReceipt)

		me := api.Group("/me")
		me.Use(authMw)
		{
			me.GET("/profile", meHandler.Get)
			me.PATCH("/profile", meHandler.Update)
			me.POST("/fcm-token", meHandler.UpdateFCMToken)
			me.GET("/wallet", walletHandler.GetBalance)
			me.GET("/wallet/transactions", walletHandler.ListTransactions)
			me.GET("/orders", orderHandler.ListMine)
			me.GET("/deposits", depositHandler.ListMine)
			me.GET("/giveaway-entries", giveawayHandler.MyEntries)
			me.GET("/investments", investmentHandler.ListMine)
			me.GET("/notifications", notificationHandler.List)
			me.PUT("/notifications/:id/read", notificationHandler.MarkRead)
		}

		orders := api.Group("/orders")
		orders.Use(authMw)
		{
			orders.POST("", orderHandler.Create)
			orders.GET("/:id", orderHandler.Get)
			orders.POST("/:id/pay-wallet", orderHandler.PayWallet)
			orders.POST("/:id/choose-rail", orderHandler.ChooseRail)
			orders.POST("/:id/receipt", orderHandler.SubmitReceipt)
		}

		deposits := api.Group("/deposits")
		deposits.Use(authMw)
		{
			deposits.POST("", depositHandler.Create)
			deposits.GET("/:id", depositHandler.Get)
			deposits.POST("/:id/receipt", depositHandler.SubmitReceipt)
		}

		api.GET("/investment-plans", investmentHandler.ListPlans)
		api.POST("/investments", authMw, investmentHandler.Create)

		api.POST("/assistant/chat", authMw, assistantHandler.Chat)
		api.POST("/uploads/receipt", authMw, uploadHandler.Receipt)

		admin := api.Group("/admin")
		admin.Use(authMw, middleware.AdminRequired())
		{
			admin.GET("/dashboard", adminHandler.Dashboard)
			admin.GET("/orders", adminHandler.ListOrders)
			admin.POST("/orders/:id/confirm", adminHandler.ConfirmOrder)
			admin.GET("/deposits", adminHandler.ListDeposits)
			admin.POST("/deposits/:id/confirm", adminHandler.ConfirmDeposit)
			admin.GET("/giveaways/:id/entries", adminHandler.ListEntries)
			admin.POST("/giveaway-entries/:id/confirm", adminHandler.ConfirmEntry)
			admin.POST("/giveaway-entries/:id/winner", adminHandler.MarkWinner)
			admin.POST("/giveaways", adminHandler.CreateGiveaway)
			admin.POST("/giveaways/:id/close", adminHandler.CloseGiveaway)
			admin.GET("/vehicles", adminHandler.ListVehicles)
			admin.POST("/vehicles", vehicleHandler.Create)
			admin.PATCH("/vehicles/:id", vehicleHandler.Update)
			admin.DELETE("/vehicles/:id", vehicleHandler.Delete)
			admin.POST("/vehicles/:id/image", vehicleHandler.UploadImage)
			admin.POST("/vehicles/autofill", vehicleHandler.Autofill)
			admin.POST("/investment-plans", adminHandler.CreatePlan)
			admin.GET("/users", adminHandler.ListUsers)
			admin.GET("/users/:id", adminHandler.GetUser)
			admin.PATCH("/users/:id", adminHandler.UpdateUser)
			admin.GET("/transactions", adminHandler.ListTransactions)
			admin.GET("/settings", adminHandler.GetSettings)
			admin.PUT("/settings", adminHandler.UpdateSetting)
			admin.GET("/audit", adminHandler.ListAudit)
		}
	}

	r.GET("/ws/assistant", handler.UpgradeAssistantWS(&cfg.JWT, assistantSvc))

	return r
}
