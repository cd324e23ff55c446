package services

import (
	"math"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/javajoker/farmdirect-backend/internal/config"
	"github.com/javajoker/farmdirect-backend/internal/ledger"
	"github.com/javajoker/farmdirect-backend/internal/models"
	"github.com/javajoker/farmdirect-backend/internal/utils"
)

type CampaignServiceTestSuite struct {
	ledgerSuite
}

func TestCampaignServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CampaignServiceTestSuite))
}

func (s *CampaignServiceTestSuite) custodyBalance(campaign *models.CrowdfundingCampaign) uint64 {
	account, err := s.transfers.Balance(s.ctx, campaign.CustodyAddress)
	s.Require().NoError(err)
	return account.Balance
}

func (s *CampaignServiceTestSuite) TestCreateCampaignOpensCustody() {
	campaign := s.createCampaign("farmer-a", 1000)

	s.Equal(ledger.CampaignAddress("farmer-a", campaign.CampaignID), campaign.Address)
	s.Equal(ledger.CustodyAddress(campaign.Address), campaign.CustodyAddress)
	s.True(campaign.IsActive)
	s.Zero(campaign.CurrentAmount)
	s.Zero(campaign.ContributorCount)
	s.Equal([]string{"frame", "glazing"}, []string(campaign.Milestones))

	custody, err := s.transfers.Balance(s.ctx, campaign.CustodyAddress)
	s.Require().NoError(err)
	s.Equal(models.AccountKindCustody, custody.Kind)
	s.Equal(campaign.Address, custody.Owner)
	s.Zero(custody.Balance)
}

func (s *CampaignServiceTestSuite) TestCreateCampaignAcceptsZeroGoalAndPastDeadline() {
	campaign, err := s.campaigns.CreateCampaign(s.ctx, "farmer-a", &CreateCampaignRequest{
		GoalAmount:   0,
		Deadline:     startTime - 3600,
		CampaignType: models.CampaignTypeEmergency,
	})
	s.Require().NoError(err)
	s.True(campaign.IsActive)
}

func (s *CampaignServiceTestSuite) TestCreateCampaignRejectsUnknownType() {
	_, err := s.campaigns.CreateCampaign(s.ctx, "farmer-a", &CreateCampaignRequest{
		GoalAmount:   10,
		CampaignType: "yacht",
	})
	s.assertKind(err, ledger.KindInvalidArgument)
}

func (s *CampaignServiceTestSuite) TestCreateCampaignBoundsGoalByMaxAmount() {
	_, err := s.campaigns.CreateCampaign(s.ctx, "farmer-a", &CreateCampaignRequest{
		GoalAmount:   math.MaxUint64,
		CampaignType: models.CampaignTypeSeeds,
	})
	s.assertKind(err, ledger.KindInvalidArgument)

	campaign, err := s.campaigns.CreateCampaign(s.ctx, "farmer-a", &CreateCampaignRequest{
		GoalAmount:   ledger.MaxAmount,
		CampaignType: models.CampaignTypeSeeds,
	})
	s.Require().NoError(err)
	s.Equal(ledger.MaxAmount, campaign.GoalAmount)
}

func (s *CampaignServiceTestSuite) TestMilestonesAreCapped() {
	milestones := make([]string, ledger.MaxMilestones+1)
	for i := range milestones {
		milestones[i] = "step"
	}

	_, err := s.campaigns.CreateCampaign(s.ctx, "farmer-a", &CreateCampaignRequest{
		CampaignType: models.CampaignTypeEquipment,
		Milestones:   milestones,
	})
	s.assertKind(err, ledger.KindInvalidArgument)

	campaign, err := s.campaigns.CreateCampaign(s.ctx, "farmer-a", &CreateCampaignRequest{
		CampaignType: models.CampaignTypeEquipment,
		Milestones:   milestones[:ledger.MaxMilestones],
	})
	s.Require().NoError(err)
	s.Len(campaign.Milestones, ledger.MaxMilestones)
}

func (s *CampaignServiceTestSuite) TestCampaignIDsAreDistinctWithinOneTick() {
	first := s.createCampaign("farmer-a", 10)
	second := s.createCampaign("farmer-a", 10)

	s.NotEqual(first.CampaignID, second.CampaignID)
	s.NotEqual(first.CustodyAddress, second.CustodyAddress)
}

func (s *CampaignServiceTestSuite) TestContributionScenario() {
	campaign := s.createCampaign("farmer-a", 1000)
	s.fund("backer-b", 600)
	s.fund("backer-c", 500)

	s.clock.Advance(5)
	result, err := s.campaigns.Contribute(s.ctx, "backer-b", campaign.Address, &ContributeRequest{Amount: 600})
	s.Require().NoError(err)
	s.True(result.Campaign.IsActive)
	s.Equal(uint64(600), result.Campaign.CurrentAmount)

	s.clock.Advance(5)
	result, err = s.campaigns.Contribute(s.ctx, "backer-c", campaign.Address, &ContributeRequest{Amount: 500})
	s.Require().NoError(err)
	s.False(result.Campaign.IsActive)
	s.Equal(uint64(1100), result.Campaign.CurrentAmount)

	stored, err := s.campaigns.GetCampaign(s.ctx, campaign.Address)
	s.Require().NoError(err)
	s.Require().Len(stored.Contributors, 2)
	s.Equal("backer-b", stored.Contributors[0].Wallet)
	s.Equal(uint64(600), stored.Contributors[0].Amount)
	s.Equal(startTime+5, stored.Contributors[0].Timestamp)
	s.Equal("backer-c", stored.Contributors[1].Wallet)
	s.Equal(uint64(500), stored.Contributors[1].Amount)
	s.Equal(uint64(2), stored.ContributorCount)
	s.Equal(startTime+10, stored.UpdatedAt)

	s.Equal(uint64(1100), s.custodyBalance(campaign))
	s.Zero(s.walletBalance("backer-b"))
	s.Zero(s.walletBalance("backer-c"))
}

func (s *CampaignServiceTestSuite) TestClosedCampaignStillAcceptsContributions() {
	campaign := s.createCampaign("farmer-a", 100)
	s.fund("backer-b", 300)

	_, err := s.campaigns.Contribute(s.ctx, "backer-b", campaign.Address, &ContributeRequest{Amount: 100})
	s.Require().NoError(err)

	result, err := s.campaigns.Contribute(s.ctx, "backer-b", campaign.Address, &ContributeRequest{Amount: 50})
	s.Require().NoError(err)
	s.False(result.Campaign.IsActive)
	s.Equal(uint64(150), result.Campaign.CurrentAmount)
	s.Equal(uint64(150), s.custodyBalance(campaign))
}

func (s *CampaignServiceTestSuite) TestExpiredCampaignStillAcceptsContributions() {
	campaign := s.createCampaign("farmer-a", 1000)
	s.fund("backer-b", 100)
	s.clock.Set(campaign.Deadline + 1)

	_, err := s.campaigns.Contribute(s.ctx, "backer-b", campaign.Address, &ContributeRequest{Amount: 100})
	s.Require().NoError(err)
}

func (s *CampaignServiceTestSuite) TestActivePolicyBlocksClosedCampaign() {
	s.withPolicy(config.LedgerConfig{EnforceCampaignActive: true})
	campaign := s.createCampaign("farmer-a", 100)
	s.fund("backer-b", 300)

	_, err := s.campaigns.Contribute(s.ctx, "backer-b", campaign.Address, &ContributeRequest{Amount: 100})
	s.Require().NoError(err)

	_, err = s.campaigns.Contribute(s.ctx, "backer-b", campaign.Address, &ContributeRequest{Amount: 50})
	s.assertKind(err, ledger.KindCampaignNotActive)
	s.Equal(uint64(200), s.walletBalance("backer-b"))
	s.Equal(uint64(100), s.custodyBalance(campaign))
}

func (s *CampaignServiceTestSuite) TestDeadlinePolicyBlocksExpiredCampaign() {
	s.withPolicy(config.LedgerConfig{EnforceCampaignDeadline: true})
	campaign := s.createCampaign("farmer-a", 1000)
	s.fund("backer-b", 100)

	s.clock.Set(campaign.Deadline)
	_, err := s.campaigns.Contribute(s.ctx, "backer-b", campaign.Address, &ContributeRequest{Amount: 40})
	s.Require().NoError(err)

	s.clock.Advance(1)
	_, err = s.campaigns.Contribute(s.ctx, "backer-b", campaign.Address, &ContributeRequest{Amount: 40})
	s.assertKind(err, ledger.KindCampaignDeadlineExceeded)
	s.Equal(uint64(60), s.walletBalance("backer-b"))
}

func (s *CampaignServiceTestSuite) TestInsufficientBalanceLeavesNoTrace() {
	campaign := s.createCampaign("farmer-a", 1000)
	s.fund("backer-b", 100)

	_, err := s.campaigns.Contribute(s.ctx, "backer-b", campaign.Address, &ContributeRequest{Amount: 101})
	s.assertKind(err, ledger.KindTransferFailed)

	stored, err := s.campaigns.GetCampaign(s.ctx, campaign.Address)
	s.Require().NoError(err)
	s.Zero(stored.CurrentAmount)
	s.Empty(stored.Contributors)
	s.Equal(campaign.UpdatedAt, stored.UpdatedAt)
	s.Equal(uint64(100), s.walletBalance("backer-b"))
	s.Zero(s.custodyBalance(campaign))
}

func (s *CampaignServiceTestSuite) TestContributeWithoutWallet() {
	campaign := s.createCampaign("farmer-a", 1000)

	_, err := s.campaigns.Contribute(s.ctx, "backer-b", campaign.Address, &ContributeRequest{Amount: 1})
	s.assertKind(err, ledger.KindTransferFailed)
}

func (s *CampaignServiceTestSuite) TestContributeToMissingCampaign() {
	s.fund("backer-b", 100)

	_, err := s.campaigns.Contribute(s.ctx, "backer-b", "missing", &ContributeRequest{Amount: 1})
	s.assertKind(err, ledger.KindNotFound)
	s.Equal(uint64(100), s.walletBalance("backer-b"))
}

func (s *CampaignServiceTestSuite) TestZeroContributionIsRecorded() {
	campaign := s.createCampaign("farmer-a", 1000)
	s.fund("backer-b", 1)

	result, err := s.campaigns.Contribute(s.ctx, "backer-b", campaign.Address, &ContributeRequest{Amount: 0})
	s.Require().NoError(err)
	s.Equal(uint64(1), result.Campaign.ContributorCount)
	s.Zero(result.Campaign.CurrentAmount)
	s.True(result.Campaign.IsActive)
}

func (s *CampaignServiceTestSuite) TestRepeatedContributorsAreNotMerged() {
	campaign := s.createCampaign("farmer-a", 1_000_000)
	s.fund("backer-b", 1000)
	s.fund("backer-c", 1000)

	amounts := []struct {
		wallet string
		amount uint64
	}{
		{"backer-b", 10}, {"backer-c", 20}, {"backer-b", 30}, {"backer-b", 40}, {"backer-c", 50},
	}
	var sum uint64
	for _, a := range amounts {
		_, err := s.campaigns.Contribute(s.ctx, a.wallet, campaign.Address, &ContributeRequest{Amount: a.amount})
		s.Require().NoError(err)
		sum += a.amount
	}

	contributors, total, err := s.campaigns.ListContributions(s.ctx, campaign.Address, utils.DefaultPaginationParams())
	s.Require().NoError(err)
	s.Equal(int64(len(amounts)), total)
	s.Require().Len(contributors, len(amounts))
	for i, a := range amounts {
		s.Equal(uint64(i), contributors[i].Seq)
		s.Equal(a.wallet, contributors[i].Wallet)
		s.Equal(a.amount, contributors[i].Amount)
	}

	report, err := s.campaigns.Reconcile(s.ctx, campaign.Address)
	s.Require().NoError(err)
	s.True(report.Balanced)
	s.Equal(sum, report.CurrentAmount)
	s.Equal(sum, report.ContributionsSum)
	s.Equal(sum, report.CustodyBalance)
	s.Equal(uint64(len(amounts)), report.ContributorCount)
}

func (s *CampaignServiceTestSuite) TestReconcileDetectsOutsideMovement() {
	campaign := s.createCampaign("farmer-a", 1000)
	s.fund("backer-b", 100)
	_, err := s.campaigns.Contribute(s.ctx, "backer-b", campaign.Address, &ContributeRequest{Amount: 100})
	s.Require().NoError(err)

	s.Require().NoError(s.db.Model(&models.Account{}).
		Where("address = ?", campaign.CustodyAddress).
		Update("balance", 90).Error)

	report, err := s.campaigns.Reconcile(s.ctx, campaign.Address)
	s.Require().NoError(err)
	s.False(report.Balanced)
	s.Equal(uint64(100), report.CurrentAmount)
	s.Equal(uint64(100), report.ContributionsSum)
	s.Equal(uint64(90), report.CustodyBalance)
}

func (s *CampaignServiceTestSuite) TestListCampaignsFiltersByActive() {
	open := s.createCampaign("farmer-a", 1000)
	closed := s.createCampaign("farmer-a", 10)
	s.fund("backer-b", 10)
	_, err := s.campaigns.Contribute(s.ctx, "backer-b", closed.Address, &ContributeRequest{Amount: 10})
	s.Require().NoError(err)

	active := true
	campaigns, total, err := s.campaigns.ListCampaigns(s.ctx, CampaignSearchParams{
		PaginationParams: utils.DefaultPaginationParams(),
		Active:           &active,
	})
	s.Require().NoError(err)
	s.Equal(int64(1), total)
	s.Require().Len(campaigns, 1)
	s.Equal(open.Address, campaigns[0].Address)
}

func (s *CampaignServiceTestSuite) TestListContributionsForMissingCampaign() {
	_, _, err := s.campaigns.ListContributions(s.ctx, "missing", utils.DefaultPaginationParams())
	s.assertKind(err, ledger.KindNotFound)
}
