// internal/handlers/product.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/javajoker/farmdirect-backend/internal/i18n"
	"github.com/javajoker/farmdirect-backend/internal/services"
	"github.com/javajoker/farmdirect-backend/internal/utils"
)

type ProductHandler struct {
	productService *services.ProductService
}

func NewProductHandler(productService *services.ProductService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
	}
}

// GET /products
func (h *ProductHandler) GetProducts(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	searchParams := services.ProductSearchParams{
		PaginationParams: params,
		Farmer:           c.Query("farmer"),
	}

	products, total, err := h.productService.ListProducts(c.Request.Context(), searchParams)
	if err != nil {
		respondError(c, err)
		return
	}

	result := utils.CreatePaginationResult(products, total, params)
	utils.PaginatedResponse(c, result)
}

// POST /products
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	identity, ok := callerIdentity(c)
	if !ok {
		return
	}

	var req services.CreateProductRequest
	if !bindJSON(c, &req) {
		return
	}

	product, err := h.productService.CreateProduct(c.Request.Context(), identity, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyProductCreated),
		"product": product,
	})
}

// GET /products/:address
func (h *ProductHandler) GetProduct(c *gin.Context) {
	product, err := h.productService.GetProduct(c.Request.Context(), c.Param("address"))
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, product)
}

// POST /products/:address/growth
func (h *ProductHandler) AddGrowthUpdate(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	identity, ok := callerIdentity(c)
	if !ok {
		return
	}

	var req services.GrowthUpdateRequest
	if !bindJSON(c, &req) {
		return
	}

	product, err := h.productService.AppendGrowthUpdate(c.Request.Context(), identity, c.Param("address"), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyProductGrowthRecorded),
		"product": product,
	})
}

// PUT /products/:address/quantity
func (h *ProductHandler) SetActualQuantity(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	identity, ok := callerIdentity(c)
	if !ok {
		return
	}

	var req services.ActualQuantityRequest
	if !bindJSON(c, &req) {
		return
	}

	product, err := h.productService.SetActualQuantity(c.Request.Context(), identity, c.Param("address"), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyProductQuantityUpdated),
		"product": product,
	})
}

// POST /products/:address/delivery
func (h *ProductHandler) AddDeliveryUpdate(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	identity, ok := callerIdentity(c)
	if !ok {
		return
	}

	var req services.DeliveryUpdateRequest
	if !bindJSON(c, &req) {
		return
	}

	product, err := h.productService.AppendDeliveryUpdate(c.Request.Context(), identity, c.Param("address"), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyProductDeliveryUpdated),
		"product": product,
	})
}
