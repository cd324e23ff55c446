// internal/services/transfer_service.go
package services

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/javajoker/farmdirect-backend/internal/ledger"
	"github.com/javajoker/farmdirect-backend/internal/models"
)

// TransferService moves value between accounts. Wallets are debited only by
// their owning identity; custody accounts are only ever credited.
type TransferService struct {
	store   *ledger.Store
	clock   ledger.Clock
	journal *JournalService
}

type WalletCreditRequest struct {
	Amount uint64 `json:"amount" validate:"required,min=1,amount"`
}

func NewTransferService(store *ledger.Store, clock ledger.Clock, journal *JournalService) *TransferService {
	return &TransferService{
		store:   store,
		clock:   clock,
		journal: journal,
	}
}

// OpenCustody creates the zero-balance custody account of a campaign.
func (s *TransferService) OpenCustody(tx *ledger.Store, custodyAddress, campaignAddress string, now int64) error {
	account := &models.Account{
		Address:    custodyAddress,
		Kind:       models.AccountKindCustody,
		Owner:      campaignAddress,
		Timestamps: models.Timestamps{CreatedAt: now, UpdatedAt: now},
	}
	return tx.CreateIfAbsent(account)
}

// Transfer debits the identity's wallet and credits a custody account. Any
// failure is TRANSFER_FAILED and leaves both balances untouched once the
// surrounding transaction rolls back.
func (s *TransferService) Transfer(tx *ledger.Store, identity, custodyAddress string, amount uint64, now int64) error {
	if amount > ledger.MaxAmount {
		return ledger.TransferFailed(custodyAddress, "amount exceeds ledger range")
	}

	walletAddress := ledger.WalletAddress(identity)
	var wallet models.Account
	if err := tx.Load(&wallet, walletAddress); err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			return ledger.TransferFailed(walletAddress, "caller has no wallet")
		}
		return err
	}
	if wallet.Kind != models.AccountKindWallet || wallet.Owner != identity {
		return ledger.TransferFailed(walletAddress, "source is not the caller's wallet")
	}
	if wallet.Balance < amount {
		return ledger.TransferFailed(walletAddress, "insufficient balance")
	}

	var custody models.Account
	if err := tx.Load(&custody, custodyAddress); err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			return ledger.TransferFailed(custodyAddress, "custody account missing")
		}
		return err
	}
	if custody.Kind != models.AccountKindCustody {
		return ledger.TransferFailed(custodyAddress, "destination is not a custody account")
	}
	if custody.Balance > ledger.MaxAmount-amount {
		return ledger.TransferFailed(custodyAddress, "custody balance overflow")
	}

	wallet.Balance -= amount
	wallet.UpdatedAt = now
	custody.Balance += amount
	custody.UpdatedAt = now

	if err := tx.Save(&wallet); err != nil {
		return err
	}
	return tx.Save(&custody)
}

// CreditWallet adds amount to the identity's wallet, opening it on first use.
func (s *TransferService) CreditWallet(tx *ledger.Store, identity string, amount uint64, now int64) (*models.Account, error) {
	walletAddress := ledger.WalletAddress(identity)

	var wallet models.Account
	err := tx.Load(&wallet, walletAddress)
	switch {
	case errors.Is(err, ledger.ErrNotFound):
		wallet = models.Account{
			Address:    walletAddress,
			Kind:       models.AccountKindWallet,
			Owner:      identity,
			Timestamps: models.Timestamps{CreatedAt: now, UpdatedAt: now},
		}
		if err := tx.CreateIfAbsent(&wallet); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	}

	if amount > ledger.MaxAmount || wallet.Balance > ledger.MaxAmount-amount {
		return nil, ledger.TransferFailed(walletAddress, "wallet balance overflow")
	}

	wallet.Balance += amount
	wallet.UpdatedAt = now
	if err := tx.Save(&wallet); err != nil {
		return nil, err
	}
	return &wallet, nil
}

// Credit funds a wallet outside of card payments, e.g. by an operator.
func (s *TransferService) Credit(ctx context.Context, operator, identity string, req *WalletCreditRequest) (*models.Account, error) {
	if err := requireIdentity(identity); err != nil {
		return nil, err
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	var wallet *models.Account
	err := s.store.Atomic(ctx, func(tx *ledger.Store) error {
		now := s.clock.Now()

		var err error
		wallet, err = s.CreditWallet(tx, identity, req.Amount, now)
		if err != nil {
			return err
		}

		_, err = s.journal.Append(tx, OpCreditWallet, operator, wallet.Address, wallet, now)
		return err
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"operator": operator,
		"wallet":   wallet.Address,
		"amount":   req.Amount,
	}).Info("Wallet credited")

	return wallet, nil
}

// Wallet returns the identity's wallet. An identity that was never funded has
// an empty wallet.
func (s *TransferService) Wallet(ctx context.Context, identity string) (*models.Account, error) {
	address := ledger.WalletAddress(identity)

	var wallet models.Account
	err := s.store.Get(ctx, &wallet, address)
	if errors.Is(err, ledger.ErrNotFound) {
		return &models.Account{Address: address, Kind: models.AccountKindWallet, Owner: identity}, nil
	}
	if err != nil {
		return nil, err
	}
	return &wallet, nil
}

// Balance returns any account by address.
func (s *TransferService) Balance(ctx context.Context, address string) (*models.Account, error) {
	var account models.Account
	if err := s.store.Get(ctx, &account, address); err != nil {
		return nil, err
	}
	return &account, nil
}
