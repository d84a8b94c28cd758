package router

import (
	"net/http"
	"time"

	"redlink/config"
	"redlink/internal/domain"
	"redlink/internal/handler"
	"redlink/internal/middleware"
	"redlink/internal/repository"
	"redlink/internal/service"
	"redlink/internal/ws"
	"redlink/pkg/cloudinary"
	"redlink/pkg/messaging"
	"redlink/pkg/payment"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func Setup(cfg *config.Config, db *gorm.DB, cloud cloudinary.Client) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RateLimit(middleware.NewInMemoryRateLimiter(100, 60*time.Second)))

	// Repositories
	userRepo := repository.NewUserRepository(db)
	blockRepo := repository.NewBlockRepository(db)
	elementRepo := repository.NewPageElementRepository(db)
	appearanceRepo := repository.NewAppearanceRepository(db)
	purchaseRepo := repository.NewPurchaseRepository(db)
	affiliateRepo := repository.NewAffiliateRepository(db)
	referralRepo := repository.NewReferralRepository(db)
	balanceRepo := repository.NewBalanceRepository(db)
	visitRepo := repository.NewVisitRepository(db)
	settingRepo := repository.NewSettingRepository(db)

	eventHub := ws.NewEventHub()

	// External clients
	tripay := payment.NewTripayProvider(cfg.Tripay.BaseURL, cfg.Tripay.APIKey, cfg.Tripay.PrivateKey, cfg.Tripay.MerchantRef)
	fonnte := messaging.NewFonnteClient(cfg.Fonnte.BaseURL, cfg.Fonnte.Token)
	resend := messaging.NewResendClient(cfg.Resend.BaseURL, cfg.Resend.APIKey, cfg.Resend.From)

	// Services
	authSvc := service.NewAuthService(cfg, userRepo)
	referralSvc := service.NewReferralService(referralRepo, userRepo, settingRepo, balanceRepo)
	purchaseSvc := service.NewPurchaseService(
		tripay, purchaseRepo, blockRepo, userRepo, affiliateRepo, balanceRepo,
		referralSvc, fonnte, eventHub,
		cfg.Server.BaseURL+"/api/v1/webhooks/tripay",
	)
	broadcastSvc := service.NewBroadcastService(purchaseRepo, fonnte, resend)

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc, referralSvc, cfg)
	googleOAuthHandler := handler.NewGoogleOAuthHandler(cfg, authSvc, referralSvc)
	profileHandler := handler.NewProfileHandler(userRepo, blockRepo, elementRepo, appearanceRepo, visitRepo, eventHub)
	blockHandler := handler.NewBlockHandler(blockRepo)
	elementHandler := handler.NewElementHandler(elementRepo)
	appearanceHandler := handler.NewAppearanceHandler(appearanceRepo, cloud)
	purchaseHandler := handler.NewPurchaseHandler(purchaseSvc, purchaseRepo)
	upgradeHandler := handler.NewUpgradeHandler(purchaseSvc, userRepo)
	affiliateHandler := handler.NewAffiliateHandler(affiliateRepo, blockRepo, userRepo)
	referralHandler := handler.NewReferralHandler(referralSvc, cfg)
	statsHandler := handler.NewStatsHandler(balanceRepo, purchaseRepo, visitRepo)
	broadcastHandler := handler.NewBroadcastHandler(broadcastSvc)
	cmsHandler := handler.NewCMSHandler(&cfg.Webiny)
	webhookHandler := handler.NewTripayWebhookHandler(&cfg.Tripay, purchaseSvc)

	authMw := middleware.AuthRequired(&cfg.JWT)
	secure := cfg.Server.Env == "production"

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Public page. ?ref= on any public URL plants the referral cookie.
	public := r.Group("/p", middleware.ReferralCapture(&cfg.Referral, secure))
	{
		public.GET("/:username", profileHandler.PublicPage)
		public.POST("/:username/blocks/:id/buy", purchaseHandler.Buy)
	}

	api := r.Group("/api/v1")
	{
		authGroup := api.Group("/auth", middleware.ReferralCapture(&cfg.Referral, secure))
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/refresh", authHandler.Refresh)
			authGroup.PATCH("/change-password", authMw, authHandler.ChangePassword)
			authGroup.GET("/google", googleOAuthHandler.Redirect)
			authGroup.GET("/google/callback", googleOAuthHandler.Callback)
		}

		api.GET("/orders/:order_id/status", purchaseHandler.Status)
		api.GET("/qr", purchaseHandler.QR)

		me := api.Group("/me")
		me.Use(authMw)
		{
			me.GET("/profile", profileHandler.Me)
			me.PATCH("/profile", profileHandler.UpdateMe)
			me.GET("/dashboard", statsHandler.Dashboard)
			me.GET("/purchases", purchaseHandler.MyPurchases)
			me.GET("/orders", purchaseHandler.Orders)
			me.GET("/referrals", referralHandler.Stats)
			me.GET("/referrals/earnings", referralHandler.Earnings)
			me.GET("/commissions", affiliateHandler.Commissions)

			me.GET("/blocks", blockHandler.List)
			me.POST("/blocks", blockHandler.Create)
			me.PATCH("/blocks/:id", blockHandler.Update)
			me.DELETE("/blocks/:id", blockHandler.Delete)
			me.PUT("/blocks/reorder", blockHandler.Reorder)

			me.GET("/elements", elementHandler.List)
			me.POST("/elements", elementHandler.Create)
			me.PATCH("/elements/:id", elementHandler.Update)
			me.DELETE("/elements/:id", elementHandler.Delete)

			me.GET("/appearance", appearanceHandler.Get)
			me.PATCH("/appearance", appearanceHandler.Update)
			me.POST("/upload", appearanceHandler.UploadImage)

			me.POST("/upgrade", upgradeHandler.Checkout)

			me.GET("/affiliates", affiliateHandler.ListAssignments)
			me.POST("/affiliates", affiliateHandler.Assign)
			me.DELETE("/affiliates/:id", affiliateHandler.DeleteAssignment)
		}

		pro := api.Group("/me", authMw, middleware.RequirePlan(domain.PlanPro))
		{
			pro.POST("/broadcast/whatsapp", broadcastHandler.WhatsApp)
			pro.POST("/broadcast/email", broadcastHandler.Email)
		}

		api.POST("/cms/graphql", authMw, cmsHandler.Query)
		api.POST("/webhooks/tripay", webhookHandler.Callback)
	}

	r.GET("/ws/dashboard", ws.UpgradeDashboardWS(&cfg.JWT, eventHub))

	return r
}
