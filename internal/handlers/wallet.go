// internal/handlers/wallet.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/javajoker/farmdirect-backend/internal/i18n"
	"github.com/javajoker/farmdirect-backend/internal/models"
	"github.com/javajoker/farmdirect-backend/internal/services"
	"github.com/javajoker/farmdirect-backend/internal/utils"
)

type WalletHandler struct {
	transferService *services.TransferService
	fundingService  *services.FundingService
}

func NewWalletHandler(transferService *services.TransferService, fundingService *services.FundingService) *WalletHandler {
	return &WalletHandler{
		transferService: transferService,
		fundingService:  fundingService,
	}
}

// GET /wallet
func (h *WalletHandler) GetWallet(c *gin.Context) {
	identity, ok := callerIdentity(c)
	if !ok {
		return
	}

	wallet, err := h.transferService.Wallet(c.Request.Context(), identity)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, wallet)
}

// POST /wallet/top-ups
func (h *WalletHandler) CreateTopUp(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	identity, ok := callerIdentity(c)
	if !ok {
		return
	}

	var req services.CreateTopUpRequest
	if !bindJSON(c, &req) {
		return
	}

	topUp, err := h.fundingService.CreateTopUp(c.Request.Context(), identity, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyWalletTopUpCreated),
		"top_up":  topUp,
	})
}

// POST /wallet/top-ups/confirm
func (h *WalletHandler) ConfirmTopUp(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	identity, ok := callerIdentity(c)
	if !ok {
		return
	}

	var req services.ConfirmTopUpRequest
	if !bindJSON(c, &req) {
		return
	}

	topUp, err := h.fundingService.ConfirmTopUp(c.Request.Context(), identity, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	switch topUp.Status {
	case models.TopUpStatusPending:
		c.JSON(http.StatusAccepted, utils.APIResponse{
			Success: true,
			Data: gin.H{
				"message": i18n.T(lang, i18n.KeyWalletTopUpPending),
				"top_up":  topUp,
			},
		})
	default:
		utils.SuccessResponse(c, gin.H{"top_up": topUp})
	}
}

// POST /admin/wallets/:identity/credit
func (h *WalletHandler) AdminCredit(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	operator, ok := callerIdentity(c)
	if !ok {
		return
	}

	var req services.WalletCreditRequest
	if !bindJSON(c, &req) {
		return
	}

	wallet, err := h.transferService.Credit(c.Request.Context(), operator, c.Param("identity"), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyWalletCredited),
		"wallet":  wallet,
	})
}
