package router

import (
	"net/http"
	"time"

	"danakita/config"
	"danakita/internal/handler"
	"danakita/internal/middleware"
	"danakita/internal/repository"
	"danakita/internal/service"
	"danakita/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

func Setup(cfg *config.Config, db *gorm.DB, events chan service.DonationEvent) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RateLimit(middleware.NewRateLimiter(100, 60*time.Second)))

	// Repositories
	userRepo := repository.NewUserRepository(db)
	campaignRepo := repository.NewCampaignRepository(db)
	donationRepo := repository.NewDonationRepository(db)
	txRepo := repository.NewTransactionRepository(db)
	reportRepo := repository.NewReportRepository(db)
	ledgerStore := repository.NewLedgerStore(db)

	// Services
	ledgerSvc := service.NewLedgerService(ledgerStore, events, log.Logger)
	reportSvc := service.NewReportService(reportRepo, log.Logger)
	transparencySvc := service.NewTransparencyService(reportRepo, log.Logger)

	// Live donation feed
	feedHub := ws.NewFeedHub()
	go func() {
		for evt := range events {
			feedHub.Broadcast(gin.H{"type": "donation", "donation": evt})
		}
	}()

	// Handlers
	authHandler := handler.NewAuthHandler(cfg, userRepo)
	campaignHandler := handler.NewCampaignHandler(campaignRepo, donationRepo)
	donationHandler := handler.NewDonationHandler(cfg, campaignRepo, donationRepo, ledgerSvc)
	reportHandler := handler.NewFinancialReportHandler(reportSvc, transparencySvc, reportRepo)
	adminLedgerHandler := handler.NewAdminLedgerHandler(ledgerSvc, txRepo)
	webhookHandler := handler.NewPaymentWebhookHandler(cfg, donationRepo, ledgerSvc)

	authMw := middleware.AuthRequired(&cfg.JWT)

	api := r.Group("/api/v1")
	{
		api.POST("/auth/login", authHandler.Login)

		api.GET("/campaigns", campaignHandler.List)
		api.GET("/campaigns/:id", campaignHandler.Get)
		api.GET("/campaigns/:id/donations", campaignHandler.ListDonations)

		api.POST("/donations", donationHandler.Create)
		api.GET("/donations/:id", donationHandler.Get)

		reports := api.Group("/financial-reports")
		{
			reports.GET("", reportHandler.List)
			reports.GET("/transparency", reportHandler.Transparency)
			reports.GET("/monthly-trend", reportHandler.MonthlyTrend)
			reports.GET("/campaign-breakdown", reportHandler.CampaignBreakdown)
			reports.GET("/:id", reportHandler.Get)
		}

		admin := api.Group("/admin")
		admin.Use(authMw, middleware.AdminRequired())
		{
			admin.POST("/campaigns", campaignHandler.Create)
			admin.POST("/campaigns/:id/activate", campaignHandler.Activate)
			admin.POST("/disbursements", adminLedgerHandler.CreateDisbursement)
			admin.POST("/refunds", adminLedgerHandler.CreateRefund)
			admin.GET("/transactions", adminLedgerHandler.ListTransactions)
			admin.POST("/financial-reports/generate", reportHandler.Generate)
		}

		api.POST("/webhooks/payment", webhookHandler.Handle)
	}

	r.GET("/ws/donations", ws.ServeFeed(feedHub))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return r
}
