// internal/services/product_service.go
package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/javajoker/farmdirect-backend/internal/config"
	"github.com/javajoker/farmdirect-backend/internal/ledger"
	"github.com/javajoker/farmdirect-backend/internal/models"
	"github.com/javajoker/farmdirect-backend/internal/utils"
)

type ProductService struct {
	store   *ledger.Store
	clock   ledger.Clock
	journal *JournalService
	policy  config.LedgerConfig
}

type CreateProductRequest struct {
	// FarmerProfile defaults to the caller's own profile address.
	FarmerProfile        string   `json:"farmer_profile,omitempty" validate:"omitempty,record_address"`
	ProductName          string   `json:"product_name" validate:"name_len"`
	Category             string   `json:"category" validate:"category_len"`
	Description          string   `json:"description" validate:"description_len"`
	EstimatedHarvestDate int64    `json:"estimated_harvest_date"`
	EstimatedQuantity    uint64   `json:"estimated_quantity" validate:"amount"`
	MediaRefs            []string `json:"media_refs" validate:"media_refs,dive,url_len"`
}

type GrowthUpdateRequest struct {
	Stage     models.GrowthStage `json:"stage" validate:"required,growth_stage"`
	Notes     string             `json:"notes" validate:"notes_len"`
	MediaRefs []string           `json:"media_refs" validate:"media_refs,dive,url_len"`
}

type ActualQuantityRequest struct {
	Quantity uint64 `json:"quantity" validate:"amount"`
}

type DeliveryUpdateRequest struct {
	Status   models.DeliveryStatus `json:"status" validate:"required,delivery_status"`
	Notes    string                `json:"notes" validate:"notes_len"`
	Location *string               `json:"location,omitempty" validate:"omitempty,location_len"`
}

type ProductSearchParams struct {
	utils.PaginationParams
	Farmer string `json:"farmer,omitempty"`
}

var productSortFields = []string{"created_at", "updated_at", "estimated_harvest_date", "product_name"}

func NewProductService(store *ledger.Store, clock ledger.Clock, journal *JournalService, policy config.LedgerConfig) *ProductService {
	return &ProductService{
		store:   store,
		clock:   clock,
		journal: journal,
		policy:  policy,
	}
}

// CreateProduct opens a farming cycle under a profile the caller owns and
// bumps that profile's product counter in the same commit.
func (s *ProductService) CreateProduct(ctx context.Context, identity string, req *CreateProductRequest) (*models.ProductCycle, error) {
	if err := requireIdentity(identity); err != nil {
		return nil, err
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	profileAddress := req.FarmerProfile
	if profileAddress == "" {
		profileAddress = ledger.ProfileAddress(identity)
	}

	var product *models.ProductCycle
	err := s.store.Atomic(ctx, func(tx *ledger.Store) error {
		var profile models.FarmerProfile
		if err := tx.Load(&profile, profileAddress); err != nil {
			return err
		}
		if profile.FarmerIdentity != identity {
			return ledger.Unauthorized(profileAddress)
		}

		now := s.clock.Now()
		nonce, err := tx.NextNonce(identity)
		if err != nil {
			return err
		}
		productID := ledger.RecordID(identity, now, nonce)

		product = &models.ProductCycle{
			Address:              ledger.ProductAddress(identity, productID),
			ProductID:            productID,
			Farmer:               identity,
			ProductName:          req.ProductName,
			Category:             req.Category,
			Description:          req.Description,
			EstimatedHarvestDate: req.EstimatedHarvestDate,
			EstimatedQuantity:    req.EstimatedQuantity,
			MediaRefs:            stringList(req.MediaRefs),
			GrowthUpdates:        []models.GrowthUpdate{},
			DeliveryUpdates:      []models.DeliveryUpdate{},
			Timestamps:           models.Timestamps{CreatedAt: now, UpdatedAt: now},
		}
		if err := tx.CreateIfAbsent(product); err != nil {
			return err
		}

		profile.TotalProducts++
		profile.UpdatedAt = now
		if err := tx.Save(&profile); err != nil {
			return err
		}

		_, err = s.journal.Append(tx, OpCreateProduct, identity, product.Address, product, now)
		return err
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"identity": identity,
		"product":  product.Address,
	}).Info("Product cycle created")

	return product, nil
}

func (s *ProductService) AppendGrowthUpdate(ctx context.Context, identity, productAddress string, req *GrowthUpdateRequest) (*models.ProductCycle, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	return s.mutate(ctx, identity, productAddress, OpAddGrowthUpdate, func(product *models.ProductCycle, now int64) error {
		if len(product.GrowthUpdates) >= ledger.MaxGrowthUpdates {
			return ledger.RecordFull(product.Address, ledger.MaxGrowthUpdates)
		}
		if s.policy.EnforceGrowthOrder && len(product.GrowthUpdates) > 0 {
			last := product.GrowthUpdates[len(product.GrowthUpdates)-1]
			if req.Stage.Rank() < last.Stage.Rank() {
				return ledger.InvalidArgument("stage", fmt.Sprintf("cannot move back from %s to %s", last.Stage, req.Stage))
			}
		}

		product.GrowthUpdates = append(product.GrowthUpdates, models.GrowthUpdate{
			Stage:     req.Stage,
			Timestamp: now,
			Notes:     req.Notes,
			MediaRefs: stringList(req.MediaRefs),
		})
		return nil
	})
}

// SetActualQuantity overwrites the harvested quantity. Repeated calls are
// allowed and need not increase it.
func (s *ProductService) SetActualQuantity(ctx context.Context, identity, productAddress string, req *ActualQuantityRequest) (*models.ProductCycle, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	return s.mutate(ctx, identity, productAddress, OpUpdateActualQuantity, func(product *models.ProductCycle, now int64) error {
		product.ActualQuantity = req.Quantity
		return nil
	})
}

func (s *ProductService) AppendDeliveryUpdate(ctx context.Context, identity, productAddress string, req *DeliveryUpdateRequest) (*models.ProductCycle, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	return s.mutate(ctx, identity, productAddress, OpAddDeliveryUpdate, func(product *models.ProductCycle, now int64) error {
		if len(product.DeliveryUpdates) >= ledger.MaxDeliveryUpdates {
			return ledger.RecordFull(product.Address, ledger.MaxDeliveryUpdates)
		}

		update := models.DeliveryUpdate{
			Status:    req.Status,
			Timestamp: now,
			Notes:     req.Notes,
		}
		if req.Location != nil {
			location := *req.Location
			update.Location = &location
		}
		product.DeliveryUpdates = append(product.DeliveryUpdates, update)
		return nil
	})
}

// mutate loads a product, checks the caller owns it, applies fn and commits
// the result together with its journal entry.
func (s *ProductService) mutate(ctx context.Context, identity, productAddress, operation string, fn func(*models.ProductCycle, int64) error) (*models.ProductCycle, error) {
	if err := requireIdentity(identity); err != nil {
		return nil, err
	}

	var product models.ProductCycle
	err := s.store.Atomic(ctx, func(tx *ledger.Store) error {
		if err := tx.Load(&product, productAddress); err != nil {
			return err
		}
		if product.Farmer != identity {
			return ledger.Unauthorized(productAddress)
		}

		now := s.clock.Now()
		if err := fn(&product, now); err != nil {
			return err
		}
		product.UpdatedAt = now

		if err := tx.Save(&product); err != nil {
			return err
		}

		_, err := s.journal.Append(tx, operation, identity, product.Address, &product, now)
		return err
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"identity":  identity,
		"product":   productAddress,
		"operation": operation,
	}).Debug("Product cycle updated")

	return &product, nil
}

func (s *ProductService) GetProduct(ctx context.Context, address string) (*models.ProductCycle, error) {
	var product models.ProductCycle
	if err := s.store.Get(ctx, &product, address); err != nil {
		return nil, err
	}
	return &product, nil
}

// ListProducts pages through product cycles, optionally for one farmer.
func (s *ProductService) ListProducts(ctx context.Context, params ProductSearchParams) ([]models.ProductCycle, int64, error) {
	query := s.store.DB().WithContext(ctx).Model(&models.ProductCycle{})

	if params.Farmer != "" {
		query = query.Where("farmer = ?", params.Farmer)
	}
	if params.Category != "" {
		query = query.Where("category = ?", params.Category)
	}
	if params.Search != "" {
		searchTerm := "%" + strings.ToLower(params.Search) + "%"
		query = query.Where("LOWER(product_name) LIKE ? OR LOWER(description) LIKE ?", searchTerm, searchTerm)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	query = utils.ApplySort(query, params.PaginationParams, productSortFields)
	query = utils.ApplyPagination(query, params.PaginationParams)

	var products []models.ProductCycle
	if err := query.Find(&products).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}

	return products, total, nil
}

func (s *ProductService) ListFarmerProducts(ctx context.Context, identity string, params utils.PaginationParams) ([]models.ProductCycle, int64, error) {
	return s.ListProducts(ctx, ProductSearchParams{PaginationParams: params, Farmer: identity})
}
