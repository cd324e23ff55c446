// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Common
	KeySuccess       = "success"
	KeyError         = "error"
	KeyInternalError = "error.internal"

	// Authentication
	KeyAuthRequired     = "auth.required"
	KeyAuthInvalidToken = "auth.invalid_token"
	KeyAuthTokenExpired = "auth.token_expired"

	// Ledger rejections, one per error kind
	KeyLedgerUnauthorized             = "ledger.unauthorized"
	KeyLedgerAlreadyExists            = "ledger.already_exists"
	KeyLedgerTransferFailed           = "ledger.transfer_failed"
	KeyLedgerNotFound                 = "ledger.not_found"
	KeyLedgerCampaignNotActive        = "ledger.campaign_not_active"
	KeyLedgerCampaignDeadlineExceeded = "ledger.campaign_deadline_exceeded"
	KeyLedgerInvalidAmount            = "ledger.invalid_amount"
	KeyLedgerRecordFull               = "ledger.record_full"
	KeyLedgerInvalidArgument          = "ledger.invalid_argument"

	// Farmers
	KeyFarmerRegistered = "farmer.registered"
	KeyFarmerUpdated    = "farmer.updated"

	// Products
	KeyProductCreated         = "product.created"
	KeyProductGrowthRecorded  = "product.growth_recorded"
	KeyProductQuantityUpdated = "product.quantity_updated"
	KeyProductDeliveryUpdated = "product.delivery_updated"

	// Campaigns
	KeyCampaignCreated     = "campaign.created"
	KeyCampaignContributed = "campaign.contributed"

	// Wallet
	KeyWalletCredited      = "wallet.credited"
	KeyWalletTopUpCreated  = "wallet.top_up_created"
	KeyWalletTopUpPending  = "wallet.top_up_pending"
	KeyPaymentsUnavailable = "wallet.payments_unavailable"

	// Media
	KeyMediaUnavailable = "media.unavailable"

	// Admin
	KeyAdminAccessDenied = "admin.access_denied"

	// Validation
	KeyValidationRequired = "validation.required"
	KeyValidationInvalid  = "validation.invalid"

	// Rate limiting
	KeyRateLimitExceeded = "rate_limit.exceeded"
)
