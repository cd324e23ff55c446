// internal/handlers/farmer.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/javajoker/farmdirect-backend/internal/i18n"
	"github.com/javajoker/farmdirect-backend/internal/ledger"
	"github.com/javajoker/farmdirect-backend/internal/services"
	"github.com/javajoker/farmdirect-backend/internal/utils"
)

type FarmerHandler struct {
	identityService *services.IdentityService
	productService  *services.ProductService
}

func NewFarmerHandler(identityService *services.IdentityService, productService *services.ProductService) *FarmerHandler {
	return &FarmerHandler{
		identityService: identityService,
		productService:  productService,
	}
}

// POST /farmers
func (h *FarmerHandler) Register(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	identity, ok := callerIdentity(c)
	if !ok {
		return
	}

	var req services.RegisterFarmerRequest
	if !bindJSON(c, &req) {
		return
	}

	profile, err := h.identityService.Register(c.Request.Context(), identity, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyFarmerRegistered),
		"profile": profile,
	})
}

// GET /farmers/:identity
func (h *FarmerHandler) GetProfile(c *gin.Context) {
	profile, err := h.identityService.GetProfileByIdentity(c.Request.Context(), c.Param("identity"))
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, profile)
}

// PATCH /farmers/:identity
func (h *FarmerHandler) UpdateProfile(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	identity, ok := callerIdentity(c)
	if !ok {
		return
	}

	var req services.UpdateFarmerRequest
	if !bindJSON(c, &req) {
		return
	}

	profileAddress := ledger.ProfileAddress(c.Param("identity"))
	profile, err := h.identityService.Update(c.Request.Context(), identity, profileAddress, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyFarmerUpdated),
		"profile": profile,
	})
}

// GET /farmers/:identity/products
func (h *FarmerHandler) GetProducts(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	products, total, err := h.productService.ListFarmerProducts(c.Request.Context(), c.Param("identity"), params)
	if err != nil {
		respondError(c, err)
		return
	}

	result := utils.CreatePaginationResult(products, total, params)
	utils.PaginatedResponse(c, result)
}
