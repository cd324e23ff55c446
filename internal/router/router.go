// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/javajoker/farmdirect-backend/internal/config"
	"github.com/javajoker/farmdirect-backend/internal/handlers"
	"github.com/javajoker/farmdirect-backend/internal/ledger"
	"github.com/javajoker/farmdirect-backend/internal/middleware"
	"github.com/javajoker/farmdirect-backend/internal/services"
	"github.com/javajoker/farmdirect-backend/internal/utils"
)

type Services struct {
	Identity  *services.IdentityService
	Products  *services.ProductService
	Campaigns *services.CampaignService
	Transfers *services.TransferService
	Funding   *services.FundingService
	Media     *services.MediaService
	Journal   *services.JournalService
}

// NewServices wires every service over one store and clock. A nil gateway
// disables card top-ups.
func NewServices(db *gorm.DB, cfg *config.Config, clock ledger.Clock, gateway services.PaymentGateway) (*Services, error) {
	store := ledger.NewStore(db)

	mediaService, err := services.NewMediaService(cfg.AWS)
	if err != nil {
		return nil, err
	}

	journalService := services.NewJournalService(store)
	transferService := services.NewTransferService(store, clock, journalService)

	return &Services{
		Identity:  services.NewIdentityService(store, clock, journalService),
		Products:  services.NewProductService(store, clock, journalService, cfg.Ledger),
		Campaigns: services.NewCampaignService(store, clock, journalService, transferService, cfg.Ledger),
		Transfers: transferService,
		Funding:   services.NewFundingService(store, clock, journalService, transferService, gateway, cfg.Payment),
		Media:     mediaService,
		Journal:   journalService,
	}, nil
}

func Initialize(db *gorm.DB, cfg *config.Config) (*gin.Engine, error) {
	var gateway services.PaymentGateway
	if cfg.Payment.StripeSecretKey != "" {
		gateway = services.NewStripeGateway(cfg.Payment.StripeSecretKey)
	} else {
		logrus.Warn("STRIPE_SECRET_KEY not set, wallet top-ups disabled")
	}

	svc, err := NewServices(db, cfg, ledger.NewSystemClock(), gateway)
	if err != nil {
		return nil, err
	}
	if !svc.Media.Enabled() {
		logrus.Warn("AWS credentials not set, media upload URLs disabled")
	}

	return Setup(cfg, svc), nil
}

func Setup(cfg *config.Config, svc *Services) *gin.Engine {
	// Initialize handlers
	farmerHandler := handlers.NewFarmerHandler(svc.Identity, svc.Products)
	productHandler := handlers.NewProductHandler(svc.Products)
	campaignHandler := handlers.NewCampaignHandler(svc.Campaigns)
	walletHandler := handlers.NewWalletHandler(svc.Transfers, svc.Funding)
	mediaHandler := handlers.NewMediaHandler(svc.Media)
	journalHandler := handlers.NewJournalHandler(svc.Journal)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)
	utils.SetJWTIssuer(cfg.JWT.Issuer)

	rateLimited := cfg.Environment != "test"
	limit := func(h gin.HandlerFunc) gin.HandlerFunc {
		if !rateLimited {
			return func(c *gin.Context) { c.Next() }
		}
		return h
	}

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(cfg.Frontend.BaseURL))
	r.Use(middleware.I18nMiddleware())
	// Identity, when present, keys the limiters
	r.Use(middleware.OptionalAuth())
	r.Use(limit(middleware.GeneralRateLimit()))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	// API v1 routes
	v1 := r.Group("/v1")
	{
		// Identity registry
		farmers := v1.Group("/farmers")
		{
			farmers.POST("", middleware.AuthRequired(), farmerHandler.Register)
			farmers.GET("/:identity", farmerHandler.GetProfile)
			farmers.PATCH("/:identity", middleware.AuthRequired(), farmerHandler.UpdateProfile)
			farmers.GET("/:identity/products", farmerHandler.GetProducts)
		}

		// Product ledger
		products := v1.Group("/products")
		{
			products.GET("", productHandler.GetProducts)
			products.GET("/:address", productHandler.GetProduct)

			owned := products.Group("")
			owned.Use(middleware.AuthRequired())
			{
				owned.POST("", productHandler.CreateProduct)
				owned.POST("/:address/growth", productHandler.AddGrowthUpdate)
				owned.PUT("/:address/quantity", productHandler.SetActualQuantity)
				owned.POST("/:address/delivery", productHandler.AddDeliveryUpdate)
			}
		}

		// Campaign escrow
		campaigns := v1.Group("/campaigns")
		{
			campaigns.GET("", campaignHandler.GetCampaigns)
			campaigns.GET("/:address", campaignHandler.GetCampaign)
			campaigns.GET("/:address/contributions", campaignHandler.GetContributions)
			campaigns.GET("/:address/reconciliation", campaignHandler.Reconcile)
			campaigns.POST("", middleware.AuthRequired(), campaignHandler.CreateCampaign)
			campaigns.POST("/:address/contributions",
				middleware.AuthRequired(),
				limit(middleware.ContributionRateLimit()),
				campaignHandler.Contribute)
		}

		// Wallet
		wallet := v1.Group("/wallet")
		wallet.Use(middleware.AuthRequired())
		{
			wallet.GET("", walletHandler.GetWallet)
			wallet.POST("/top-ups", walletHandler.CreateTopUp)
			wallet.POST("/top-ups/confirm", walletHandler.ConfirmTopUp)
		}

		// Media
		media := v1.Group("/media")
		media.Use(middleware.AuthRequired(), limit(middleware.UploadRateLimit()))
		{
			media.POST("/upload-url", mediaHandler.CreateUploadURL)
		}

		// Provenance journal
		journal := v1.Group("/journal")
		{
			journal.GET("/verify", journalHandler.Verify)
			journal.GET("/records/:address", journalHandler.GetRecordHistory)
		}

		// Admin routes
		admin := v1.Group("/admin")
		admin.Use(middleware.AuthRequired(), middleware.AdminRequired())
		{
			admin.POST("/wallets/:identity/credit", walletHandler.AdminCredit)
		}
	}

	return r
}
