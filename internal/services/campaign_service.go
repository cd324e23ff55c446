// internal/services/campaign_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/javajoker/farmdirect-backend/internal/config"
	"github.com/javajoker/farmdirect-backend/internal/ledger"
	"github.com/javajoker/farmdirect-backend/internal/models"
	"github.com/javajoker/farmdirect-backend/internal/utils"
)

type CampaignService struct {
	store     *ledger.Store
	clock     ledger.Clock
	journal   *JournalService
	transfers *TransferService
	policy    config.LedgerConfig
}

// CreateCampaignRequest accepts any goal and deadline, including a zero goal
// or a deadline already in the past.
type CreateCampaignRequest struct {
	Title        string              `json:"title" validate:"title_len"`
	Description  string              `json:"description" validate:"description_len"`
	GoalAmount   uint64              `json:"goal_amount" validate:"amount"`
	Deadline     int64               `json:"deadline"`
	CampaignType models.CampaignType `json:"campaign_type" validate:"required,campaign_type"`
	Milestones   []string            `json:"milestones" validate:"milestones,dive,label_len"`
}

type ContributeRequest struct {
	Amount uint64 `json:"amount"`
}

type CampaignSearchParams struct {
	utils.PaginationParams
	Farmer       string               `json:"farmer,omitempty"`
	Active       *bool                `json:"active,omitempty"`
	CampaignType *models.CampaignType `json:"campaign_type,omitempty"`
}

type ContributionResult struct {
	Campaign    *models.CrowdfundingCampaign `json:"campaign"`
	Contributor *models.Contributor          `json:"contributor"`
}

// Reconciliation compares the three views of a campaign's funds. They agree
// unless something outside contribute moved value.
type Reconciliation struct {
	Campaign         string `json:"campaign"`
	CustodyAddress   string `json:"custody_address"`
	CurrentAmount    uint64 `json:"current_amount"`
	ContributionsSum uint64 `json:"contributions_sum"`
	CustodyBalance   uint64 `json:"custody_balance"`
	ContributorCount uint64 `json:"contributor_count"`
	Balanced         bool   `json:"balanced"`
}

var campaignSortFields = []string{"created_at", "updated_at", "deadline", "goal_amount", "current_amount"}

func NewCampaignService(store *ledger.Store, clock ledger.Clock, journal *JournalService, transfers *TransferService, policy config.LedgerConfig) *CampaignService {
	return &CampaignService{
		store:     store,
		clock:     clock,
		journal:   journal,
		transfers: transfers,
		policy:    policy,
	}
}

// CreateCampaign opens a campaign and its custody account together.
func (s *CampaignService) CreateCampaign(ctx context.Context, identity string, req *CreateCampaignRequest) (*models.CrowdfundingCampaign, error) {
	if err := requireIdentity(identity); err != nil {
		return nil, err
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	var campaign *models.CrowdfundingCampaign
	err := s.store.Atomic(ctx, func(tx *ledger.Store) error {
		now := s.clock.Now()
		nonce, err := tx.NextNonce(identity)
		if err != nil {
			return err
		}
		campaignID := ledger.RecordID(identity, now, nonce)
		address := ledger.CampaignAddress(identity, campaignID)

		campaign = &models.CrowdfundingCampaign{
			Address:        address,
			CampaignID:     campaignID,
			Farmer:         identity,
			Title:          req.Title,
			Description:    req.Description,
			GoalAmount:     req.GoalAmount,
			Deadline:       req.Deadline,
			CampaignType:   req.CampaignType,
			Milestones:     stringList(req.Milestones),
			IsActive:       true,
			CustodyAddress: ledger.CustodyAddress(address),
			Timestamps:     models.Timestamps{CreatedAt: now, UpdatedAt: now},
		}
		if err := tx.CreateIfAbsent(campaign); err != nil {
			return err
		}
		if err := s.transfers.OpenCustody(tx, campaign.CustodyAddress, campaign.Address, now); err != nil {
			return err
		}

		_, err = s.journal.Append(tx, OpCreateCampaign, identity, campaign.Address, campaign, now)
		return err
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"identity": identity,
		"campaign": campaign.Address,
		"goal":     campaign.GoalAmount,
	}).Info("Campaign created")

	return campaign, nil
}

// Contribute moves amount from the caller's wallet into the campaign's
// custody account and records it. Transfer, contributor row and totals commit
// together or not at all. A campaign closes once it reaches its goal but keeps
// accepting contributions unless the active/deadline policies are enabled.
func (s *CampaignService) Contribute(ctx context.Context, identity, campaignAddress string, req *ContributeRequest) (*ContributionResult, error) {
	if err := requireIdentity(identity); err != nil {
		return nil, err
	}

	var (
		campaign    models.CrowdfundingCampaign
		contributor *models.Contributor
		closed      bool
	)
	err := s.store.Atomic(ctx, func(tx *ledger.Store) error {
		if err := tx.Load(&campaign, campaignAddress); err != nil {
			return err
		}

		now := s.clock.Now()
		if s.policy.EnforceCampaignActive && !campaign.IsActive {
			return ledger.CampaignNotActive(campaignAddress)
		}
		if s.policy.EnforceCampaignDeadline && now > campaign.Deadline {
			return ledger.CampaignDeadlineExceeded(campaignAddress)
		}

		if err := s.transfers.Transfer(tx, identity, campaign.CustodyAddress, req.Amount, now); err != nil {
			return err
		}
		if campaign.CurrentAmount > ledger.MaxAmount-req.Amount {
			return ledger.TransferFailed(campaignAddress, "campaign total overflow")
		}

		contributor = &models.Contributor{
			CampaignAddress: campaign.Address,
			Seq:             campaign.ContributorCount,
			Wallet:          identity,
			Amount:          req.Amount,
			Timestamp:       now,
		}
		if err := tx.DB().Create(contributor).Error; err != nil {
			return fmt.Errorf("failed to record contribution: %w", err)
		}

		campaign.ContributorCount++
		campaign.CurrentAmount += req.Amount
		if campaign.IsActive && campaign.CurrentAmount >= campaign.GoalAmount {
			campaign.IsActive = false
			closed = true
		}
		campaign.UpdatedAt = now

		if err := tx.Save(&campaign); err != nil {
			return err
		}

		_, err := s.journal.Append(tx, OpContribute, identity, campaign.Address, contributor, now)
		return err
	})
	if err != nil {
		return nil, err
	}

	entry := logrus.WithFields(logrus.Fields{
		"identity": identity,
		"campaign": campaignAddress,
		"amount":   req.Amount,
		"total":    campaign.CurrentAmount,
	})
	if closed {
		entry.Info("Campaign reached its goal")
	} else {
		entry.Debug("Contribution recorded")
	}

	return &ContributionResult{Campaign: &campaign, Contributor: contributor}, nil
}

// GetCampaign returns a campaign with its contributors in sequence order.
func (s *CampaignService) GetCampaign(ctx context.Context, address string) (*models.CrowdfundingCampaign, error) {
	var campaign models.CrowdfundingCampaign
	err := s.store.DB().WithContext(ctx).
		Preload("Contributors", func(db *gorm.DB) *gorm.DB {
			return db.Order("seq ASC")
		}).
		Where("address = ?", address).
		First(&campaign).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ledger.NotFound(address)
		}
		return nil, fmt.Errorf("failed to get campaign: %w", err)
	}
	return &campaign, nil
}

func (s *CampaignService) ListCampaigns(ctx context.Context, params CampaignSearchParams) ([]models.CrowdfundingCampaign, int64, error) {
	query := s.store.DB().WithContext(ctx).Model(&models.CrowdfundingCampaign{})

	if params.Farmer != "" {
		query = query.Where("farmer = ?", params.Farmer)
	}
	if params.Active != nil {
		query = query.Where("is_active = ?", *params.Active)
	}
	if params.CampaignType != nil {
		query = query.Where("campaign_type = ?", *params.CampaignType)
	}
	if params.Search != "" {
		searchTerm := "%" + strings.ToLower(params.Search) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", searchTerm, searchTerm)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count campaigns: %w", err)
	}

	query = utils.ApplySort(query, params.PaginationParams, campaignSortFields)
	query = utils.ApplyPagination(query, params.PaginationParams)

	var campaigns []models.CrowdfundingCampaign
	if err := query.Find(&campaigns).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list campaigns: %w", err)
	}

	return campaigns, total, nil
}

// ListContributions pages through a campaign's contributors in the order they
// were recorded.
func (s *CampaignService) ListContributions(ctx context.Context, campaignAddress string, params utils.PaginationParams) ([]models.Contributor, int64, error) {
	var campaign models.CrowdfundingCampaign
	if err := s.store.Get(ctx, &campaign, campaignAddress); err != nil {
		return nil, 0, err
	}

	query := s.store.DB().WithContext(ctx).Model(&models.Contributor{}).
		Where("campaign_address = ?", campaignAddress)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count contributions: %w", err)
	}

	var contributors []models.Contributor
	if err := utils.ApplyPagination(query.Order("seq ASC"), params).Find(&contributors).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list contributions: %w", err)
	}

	return contributors, total, nil
}

// Reconcile recomputes the contribution sum and reads the custody balance in
// one snapshot.
func (s *CampaignService) Reconcile(ctx context.Context, campaignAddress string) (*Reconciliation, error) {
	var report *Reconciliation
	err := s.store.Atomic(ctx, func(tx *ledger.Store) error {
		var campaign models.CrowdfundingCampaign
		if err := tx.Load(&campaign, campaignAddress); err != nil {
			return err
		}

		var sum struct {
			Total uint64
			Count uint64
		}
		if err := tx.DB().Model(&models.Contributor{}).
			Select("COALESCE(SUM(amount), 0) AS total, COUNT(*) AS count").
			Where("campaign_address = ?", campaignAddress).
			Scan(&sum).Error; err != nil {
			return fmt.Errorf("failed to sum contributions: %w", err)
		}

		var custody models.Account
		if err := tx.Load(&custody, campaign.CustodyAddress); err != nil {
			return err
		}

		report = &Reconciliation{
			Campaign:         campaign.Address,
			CustodyAddress:   custody.Address,
			CurrentAmount:    campaign.CurrentAmount,
			ContributionsSum: sum.Total,
			CustodyBalance:   custody.Balance,
			ContributorCount: sum.Count,
		}
		report.Balanced = report.CurrentAmount == report.ContributionsSum &&
			report.CurrentAmount == report.CustodyBalance &&
			report.ContributorCount == campaign.ContributorCount
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !report.Balanced {
		logrus.WithFields(logrus.Fields{
			"campaign":          report.Campaign,
			"current_amount":    report.CurrentAmount,
			"contributions_sum": report.ContributionsSum,
			"custody_balance":   report.CustodyBalance,
		}).Warn("Campaign funds out of balance")
	}

	return report, nil
}
