// internal/services/funding_service.go
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/javajoker/farmdirect-backend/internal/config"
	"github.com/javajoker/farmdirect-backend/internal/ledger"
	"github.com/javajoker/farmdirect-backend/internal/models"
)

var ErrPaymentsDisabled = errors.New("payment gateway not configured")

// FundingService tops up wallets from card payments. Each payment intent
// credits its wallet at most once.
type FundingService struct {
	store     *ledger.Store
	clock     ledger.Clock
	journal   *JournalService
	transfers *TransferService
	gateway   PaymentGateway
	currency  string
}

type CreateTopUpRequest struct {
	Amount uint64 `json:"amount" validate:"required,min=1,max=99999999"`
}

type ConfirmTopUpRequest struct {
	PaymentIntentID string `json:"payment_intent_id" validate:"required,max=255"`
}

type TopUpResponse struct {
	PaymentIntentID string             `json:"payment_intent_id"`
	ClientSecret    string             `json:"client_secret,omitempty"`
	Amount          uint64             `json:"amount"`
	Currency        string             `json:"currency"`
	Status          models.TopUpStatus `json:"status"`
	Wallet          *models.Account    `json:"wallet,omitempty"`
}

// NewFundingService takes a nil gateway when card payments are not configured.
func NewFundingService(store *ledger.Store, clock ledger.Clock, journal *JournalService, transfers *TransferService, gateway PaymentGateway, cfg config.PaymentConfig) *FundingService {
	return &FundingService{
		store:     store,
		clock:     clock,
		journal:   journal,
		transfers: transfers,
		gateway:   gateway,
		currency:  cfg.Currency,
	}
}

func (s *FundingService) CreateTopUp(ctx context.Context, identity string, req *CreateTopUpRequest) (*TopUpResponse, error) {
	if s.gateway == nil {
		return nil, ErrPaymentsDisabled
	}
	if err := requireIdentity(identity); err != nil {
		return nil, err
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	intent, err := s.gateway.CreateIntent(req.Amount, s.currency, map[string]string{
		"identity": identity,
		"wallet":   ledger.WalletAddress(identity),
	})
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	topUp := models.TopUp{
		PaymentIntentID: intent.ID,
		Identity:        identity,
		Amount:          req.Amount,
		Currency:        s.currency,
		Status:          models.TopUpStatusPending,
		Timestamps:      models.Timestamps{CreatedAt: now, UpdatedAt: now},
	}
	if err := s.store.DB().WithContext(ctx).Create(&topUp).Error; err != nil {
		return nil, fmt.Errorf("failed to record top-up: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"identity":          identity,
		"payment_intent_id": intent.ID,
		"amount":            req.Amount,
	}).Info("Top-up created")

	return &TopUpResponse{
		PaymentIntentID: intent.ID,
		ClientSecret:    intent.ClientSecret,
		Amount:          topUp.Amount,
		Currency:        topUp.Currency,
		Status:          topUp.Status,
	}, nil
}

// ConfirmTopUp checks the payment with the gateway and credits the wallet when
// it succeeded. Confirming an already settled top-up returns it unchanged.
func (s *FundingService) ConfirmTopUp(ctx context.Context, identity string, req *ConfirmTopUpRequest) (*TopUpResponse, error) {
	if s.gateway == nil {
		return nil, ErrPaymentsDisabled
	}
	if err := requireIdentity(identity); err != nil {
		return nil, err
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	topUp, err := s.getTopUp(s.store.DB().WithContext(ctx), req.PaymentIntentID)
	if err != nil {
		return nil, err
	}
	if topUp.Identity != identity {
		return nil, ledger.Unauthorized(req.PaymentIntentID)
	}
	if topUp.Status != models.TopUpStatusPending {
		return s.response(ctx, topUp)
	}

	intent, err := s.gateway.GetIntent(req.PaymentIntentID)
	if err != nil {
		return nil, err
	}

	var next models.TopUpStatus
	switch {
	case intent.Status == IntentSucceeded && intent.Amount == topUp.Amount &&
		intent.Currency == topUp.Currency && intent.Metadata["identity"] == identity:
		next = models.TopUpStatusCredited
	case intent.Status == IntentSucceeded, intent.Status == IntentCanceled:
		next = models.TopUpStatusFailed
	default:
		return s.response(ctx, topUp)
	}

	err = s.store.Atomic(ctx, func(tx *ledger.Store) error {
		now := s.clock.Now()

		// Only the transition out of pending may credit.
		result := tx.DB().Model(&models.TopUp{}).
			Where("payment_intent_id = ? AND status = ?", topUp.PaymentIntentID, models.TopUpStatusPending).
			Updates(map[string]interface{}{"status": next, "updated_at": now})
		if result.Error != nil {
			return fmt.Errorf("failed to settle top-up: %w", result.Error)
		}
		if result.RowsAffected == 0 || next != models.TopUpStatusCredited {
			return nil
		}

		wallet, err := s.transfers.CreditWallet(tx, identity, topUp.Amount, now)
		if err != nil {
			return err
		}
		_, err = s.journal.Append(tx, OpCreditWallet, identity, wallet.Address, topUp.PaymentIntentID, now)
		return err
	})
	if err != nil {
		return nil, err
	}

	if next == models.TopUpStatusFailed {
		logrus.WithFields(logrus.Fields{
			"identity":          identity,
			"payment_intent_id": topUp.PaymentIntentID,
			"intent_status":     intent.Status,
		}).Warn("Top-up rejected")
	}

	topUp, err = s.getTopUp(s.store.DB().WithContext(ctx), req.PaymentIntentID)
	if err != nil {
		return nil, err
	}
	return s.response(ctx, topUp)
}

func (s *FundingService) getTopUp(db *gorm.DB, paymentIntentID string) (*models.TopUp, error) {
	var topUp models.TopUp
	if err := db.Where("payment_intent_id = ?", paymentIntentID).First(&topUp).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ledger.NotFound(paymentIntentID)
		}
		return nil, fmt.Errorf("failed to get top-up: %w", err)
	}
	return &topUp, nil
}

func (s *FundingService) response(ctx context.Context, topUp *models.TopUp) (*TopUpResponse, error) {
	resp := &TopUpResponse{
		PaymentIntentID: topUp.PaymentIntentID,
		Amount:          topUp.Amount,
		Currency:        topUp.Currency,
		Status:          topUp.Status,
	}
	if topUp.Status == models.TopUpStatusCredited {
		wallet, err := s.transfers.Wallet(ctx, topUp.Identity)
		if err != nil {
			return nil, err
		}
		resp.Wallet = wallet
	}
	return resp, nil
}
