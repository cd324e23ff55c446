package services

import (
	"context"

	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/javajoker/farmdirect-backend/internal/config"
	"github.com/javajoker/farmdirect-backend/internal/ledger"
	"github.com/javajoker/farmdirect-backend/internal/models"
	"github.com/javajoker/farmdirect-backend/internal/testutil"
)

const startTime int64 = 1_700_000_000

// ledgerSuite gives every test a fresh database, a manual clock and the
// services wired the way the router wires them.
type ledgerSuite struct {
	suite.Suite
	ctx        context.Context
	db         *gorm.DB
	clock      *ledger.ManualClock
	store      *ledger.Store
	journal    *JournalService
	transfers  *TransferService
	identities *IdentityService
	products   *ProductService
	campaigns  *CampaignService
}

func (s *ledgerSuite) SetupTest() {
	s.ctx = context.Background()
	s.db = testutil.NewDB(s.T())
	s.clock = ledger.NewManualClock(startTime)
	s.store = ledger.NewStore(s.db)
	s.journal = NewJournalService(s.store)
	s.transfers = NewTransferService(s.store, s.clock, s.journal)
	s.withPolicy(config.LedgerConfig{})
}

// withPolicy rebuilds the policy-dependent services.
func (s *ledgerSuite) withPolicy(policy config.LedgerConfig) {
	s.identities = NewIdentityService(s.store, s.clock, s.journal)
	s.products = NewProductService(s.store, s.clock, s.journal, policy)
	s.campaigns = NewCampaignService(s.store, s.clock, s.journal, s.transfers, policy)
}

func (s *ledgerSuite) register(identity, name, region string) *models.FarmerProfile {
	profile, err := s.identities.Register(s.ctx, identity, &RegisterFarmerRequest{
		PublicName: name,
		Region:     region,
	})
	s.Require().NoError(err)
	return profile
}

func (s *ledgerSuite) createProduct(identity string) *models.ProductCycle {
	product, err := s.products.CreateProduct(s.ctx, identity, &CreateProductRequest{
		ProductName:       "Tomatoes",
		Category:          "vegetables",
		EstimatedQuantity: 100,
	})
	s.Require().NoError(err)
	return product
}

func (s *ledgerSuite) createCampaign(identity string, goal uint64) *models.CrowdfundingCampaign {
	campaign, err := s.campaigns.CreateCampaign(s.ctx, identity, &CreateCampaignRequest{
		Title:        "New greenhouse",
		GoalAmount:   goal,
		Deadline:     startTime + 30*24*3600,
		CampaignType: models.CampaignTypeInfrastructure,
		Milestones:   []string{"frame", "glazing"},
	})
	s.Require().NoError(err)
	return campaign
}

func (s *ledgerSuite) fund(identity string, amount uint64) {
	_, err := s.transfers.Credit(s.ctx, "operator", identity, &WalletCreditRequest{Amount: amount})
	s.Require().NoError(err)
}

func (s *ledgerSuite) walletBalance(identity string) uint64 {
	wallet, err := s.transfers.Wallet(s.ctx, identity)
	s.Require().NoError(err)
	return wallet.Balance
}

func (s *ledgerSuite) assertKind(err error, kind ledger.Kind) {
	s.Require().Error(err)
	s.Equal(kind, ledger.KindOf(err), "unexpected error: %v", err)
}
