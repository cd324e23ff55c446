package services

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/javajoker/farmdirect-backend/internal/ledger"
	"github.com/javajoker/farmdirect-backend/internal/models"
	"github.com/javajoker/farmdirect-backend/internal/utils"
)

type JournalServiceTestSuite struct {
	ledgerSuite
}

func TestJournalServiceTestSuite(t *testing.T) {
	suite.Run(t, new(JournalServiceTestSuite))
}

func (s *JournalServiceTestSuite) TestEmptyJournalVerifies() {
	report, err := s.journal.Verify(s.ctx)
	s.Require().NoError(err)
	s.True(report.Valid)
	s.Zero(report.Entries)
	s.Empty(report.Head)
}

func (s *JournalServiceTestSuite) TestEveryTransitionIsJournaled() {
	profile := s.register("farmer-a", "Farm A", "North")
	product := s.createProduct("farmer-a")
	_, err := s.products.SetActualQuantity(s.ctx, "farmer-a", product.Address, &ActualQuantityRequest{Quantity: 5})
	s.Require().NoError(err)
	campaign := s.createCampaign("farmer-a", 100)
	s.fund("backer-b", 10)
	_, err = s.campaigns.Contribute(s.ctx, "backer-b", campaign.Address, &ContributeRequest{Amount: 10})
	s.Require().NoError(err)

	report, err := s.journal.Verify(s.ctx)
	s.Require().NoError(err)
	s.True(report.Valid)
	s.Equal(uint64(6), report.Entries)

	entries, total, err := s.journal.ListForRecord(s.ctx, product.Address, utils.DefaultPaginationParams())
	s.Require().NoError(err)
	s.Equal(int64(2), total)
	s.Equal(OpCreateProduct, entries[0].Operation)
	s.Equal(OpUpdateActualQuantity, entries[1].Operation)
	s.Equal("farmer-a", entries[1].Caller)

	entries, _, err = s.journal.ListForRecord(s.ctx, profile.Address, utils.DefaultPaginationParams())
	s.Require().NoError(err)
	s.Require().Len(entries, 1)
	s.Equal(OpRegisterFarmer, entries[0].Operation)
	s.Empty(entries[0].PreviousHash)
}

func (s *JournalServiceTestSuite) TestRejectedTransitionLeavesNoEntry() {
	s.register("farmer-a", "Farm A", "North")
	_, err := s.identities.Register(s.ctx, "farmer-a", &RegisterFarmerRequest{PublicName: "Again"})
	s.Require().Error(err)

	report, err := s.journal.Verify(s.ctx)
	s.Require().NoError(err)
	s.Equal(uint64(1), report.Entries)
}

func (s *JournalServiceTestSuite) TestTamperingBreaksTheChain() {
	s.register("farmer-a", "Farm A", "North")
	s.register("farmer-b", "Farm B", "South")
	s.register("farmer-c", "Farm C", "East")

	s.Require().NoError(s.db.Model(&models.JournalEntry{}).
		Where("entry_index = ?", 1).
		Update("caller", "mallory").Error)

	report, err := s.journal.Verify(s.ctx)
	s.Require().NoError(err)
	s.False(report.Valid)
	s.Require().NotNil(report.BrokenAt)
	s.Equal(uint64(1), *report.BrokenAt)
	s.Equal(uint64(1), report.Entries)
}

func (s *JournalServiceTestSuite) head() models.JournalHead {
	var head models.JournalHead
	s.Require().NoError(s.store.Get(s.ctx, &head, models.JournalHeadAddress))
	return head
}

func (s *JournalServiceTestSuite) TestHeadTracksLastEntry() {
	s.Equal(uint64(0), s.head().Entries)

	s.register("farmer-a", "Farm A", "North")
	s.createProduct("farmer-a")

	report, err := s.journal.Verify(s.ctx)
	s.Require().NoError(err)
	head := s.head()
	s.Equal(uint64(2), head.Entries)
	s.Equal(report.Head, head.Hash)
}

func (s *JournalServiceTestSuite) TestTruncationBreaksTheChain() {
	s.register("farmer-a", "Farm A", "North")
	s.register("farmer-b", "Farm B", "South")
	s.register("farmer-c", "Farm C", "East")

	s.Require().NoError(s.db.Where("entry_index = ?", 2).Delete(&models.JournalEntry{}).Error)

	report, err := s.journal.Verify(s.ctx)
	s.Require().NoError(err)
	s.False(report.Valid)
	s.Require().NotNil(report.BrokenAt)
	s.Equal(uint64(2), *report.BrokenAt)
}

func (s *JournalServiceTestSuite) TestAppendWithoutHeadFails() {
	s.Require().NoError(s.db.Where("address = ?", models.JournalHeadAddress).Delete(&models.JournalHead{}).Error)

	_, err := s.identities.Register(s.ctx, "farmer-a", &RegisterFarmerRequest{PublicName: "Farm A"})
	s.Require().Error(err)
	s.Empty(ledger.KindOf(err))

	_, err = s.identities.GetProfileByIdentity(s.ctx, "farmer-a")
	s.assertKind(err, ledger.KindNotFound)
}

func (s *JournalServiceTestSuite) TestConcurrentTransitionsGetConsecutiveIndexes() {
	const farmers = 8

	var wg sync.WaitGroup
	errs := make(chan error, farmers)
	for i := 0; i < farmers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := s.identities.Register(s.ctx, fmt.Sprintf("farmer-%d", i), &RegisterFarmerRequest{PublicName: "Farm"})
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		s.Require().NoError(err)
	}

	report, err := s.journal.Verify(s.ctx)
	s.Require().NoError(err)
	s.True(report.Valid)
	s.Equal(uint64(farmers), report.Entries)
	s.Equal(uint64(farmers), s.head().Entries)
}
