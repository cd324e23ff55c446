package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveIsDeterministic(t *testing.T) {
	a := Derive(TagProduct, "farmer-a", []byte("p1"))
	b := Derive(TagProduct, "farmer-a", []byte("p1"))

	assert.Equal(t, a, b)
	assert.Len(t, a, 64)
}

func TestDeriveSeparatesTagsOwnersAndIDs(t *testing.T) {
	base := Derive(TagProduct, "farmer-a", []byte("p1"))

	assert.NotEqual(t, base, Derive(TagCampaign, "farmer-a", []byte("p1")))
	assert.NotEqual(t, base, Derive(TagProduct, "farmer-b", []byte("p1")))
	assert.NotEqual(t, base, Derive(TagProduct, "farmer-a", []byte("p2")))

	// The separator keeps owner and disambiguator from sliding into each other.
	assert.NotEqual(t, Derive(TagProduct, "ab", []byte("c")), Derive(TagProduct, "a", []byte("bc")))
}

func TestProfileAddressIsOnePerIdentity(t *testing.T) {
	assert.Equal(t, ProfileAddress("farmer-a"), ProfileAddress("farmer-a"))
	assert.NotEqual(t, ProfileAddress("farmer-a"), ProfileAddress("farmer-b"))
	assert.NotEqual(t, ProfileAddress("farmer-a"), WalletAddress("farmer-a"))
}

func TestRecordIDVariesWithTimestampAndNonce(t *testing.T) {
	id := RecordID("farmer-a", 1700000000, 0)

	assert.Len(t, id, 64)
	assert.Equal(t, id, RecordID("farmer-a", 1700000000, 0))
	assert.NotEqual(t, id, RecordID("farmer-a", 1700000001, 0))
	assert.NotEqual(t, id, RecordID("farmer-a", 1700000000, 1))
	assert.NotEqual(t, id, RecordID("farmer-b", 1700000000, 0))
}

func TestCustodyAddressFollowsCampaign(t *testing.T) {
	campaign := CampaignAddress("farmer-a", RecordID("farmer-a", 1700000000, 0))

	assert.Equal(t, CustodyAddress(campaign), CustodyAddress(campaign))
	assert.NotEqual(t, campaign, CustodyAddress(campaign))
}
