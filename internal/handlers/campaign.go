// internal/handlers/campaign.go
package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/javajoker/farmdirect-backend/internal/i18n"
	"github.com/javajoker/farmdirect-backend/internal/models"
	"github.com/javajoker/farmdirect-backend/internal/services"
	"github.com/javajoker/farmdirect-backend/internal/utils"
)

type CampaignHandler struct {
	campaignService *services.CampaignService
}

func NewCampaignHandler(campaignService *services.CampaignService) *CampaignHandler {
	return &CampaignHandler{
		campaignService: campaignService,
	}
}

// GET /campaigns
func (h *CampaignHandler) GetCampaigns(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	searchParams := services.CampaignSearchParams{
		PaginationParams: params,
		Farmer:           c.Query("farmer"),
	}

	if activeStr := c.Query("active"); activeStr != "" {
		if active, err := strconv.ParseBool(activeStr); err == nil {
			searchParams.Active = &active
		}
	}

	if typeStr := c.Query("campaign_type"); typeStr != "" {
		campaignType := models.CampaignType(typeStr)
		if campaignType.Valid() {
			searchParams.CampaignType = &campaignType
		}
	}

	campaigns, total, err := h.campaignService.ListCampaigns(c.Request.Context(), searchParams)
	if err != nil {
		respondError(c, err)
		return
	}

	result := utils.CreatePaginationResult(campaigns, total, params)
	utils.PaginatedResponse(c, result)
}

// POST /campaigns
func (h *CampaignHandler) CreateCampaign(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	identity, ok := callerIdentity(c)
	if !ok {
		return
	}

	var req services.CreateCampaignRequest
	if !bindJSON(c, &req) {
		return
	}

	campaign, err := h.campaignService.CreateCampaign(c.Request.Context(), identity, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message":  i18n.T(lang, i18n.KeyCampaignCreated),
		"campaign": campaign,
	})
}

// GET /campaigns/:address
func (h *CampaignHandler) GetCampaign(c *gin.Context) {
	campaign, err := h.campaignService.GetCampaign(c.Request.Context(), c.Param("address"))
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, campaign)
}

// POST /campaigns/:address/contributions
func (h *CampaignHandler) Contribute(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	identity, ok := callerIdentity(c)
	if !ok {
		return
	}

	var req services.ContributeRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.campaignService.Contribute(c.Request.Context(), identity, c.Param("address"), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message":     i18n.T(lang, i18n.KeyCampaignContributed),
		"campaign":    result.Campaign,
		"contributor": result.Contributor,
	})
}

// GET /campaigns/:address/contributions
func (h *CampaignHandler) GetContributions(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	contributors, total, err := h.campaignService.ListContributions(c.Request.Context(), c.Param("address"), params)
	if err != nil {
		respondError(c, err)
		return
	}

	result := utils.CreatePaginationResult(contributors, total, params)
	utils.PaginatedResponse(c, result)
}

// GET /campaigns/:address/reconciliation
func (h *CampaignHandler) Reconcile(c *gin.Context) {
	report, err := h.campaignService.Reconcile(c.Request.Context(), c.Param("address"))
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, report)
}
