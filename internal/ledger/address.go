// internal/ledger/address.go
package ledger

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
)

// Tag is the record kind mixed into every derived address.
type Tag string

const (
	TagFarmerProfile Tag = "farmer_profile"
	TagProduct       Tag = "product"
	TagCampaign      Tag = "campaign"
	TagCampaignVault Tag = "campaign_vault"
	TagWallet        Tag = "wallet"
)

// Derive computes the deterministic address of a record. Two calls with the
// same inputs always land on the same address, which is what makes creation
// unique: the store refuses a second record there.
func Derive(tag Tag, owner string, disambiguator []byte) string {
	h := sha256.New()
	h.Write([]byte(tag))
	h.Write([]byte{0})
	h.Write([]byte(owner))
	h.Write([]byte{0})
	h.Write(disambiguator)
	return hex.EncodeToString(h.Sum(nil))
}

// RecordID hashes identity ++ timestamp ++ nonce. The nonce is a per-identity
// sequence, so ids stay distinct even within one clock tick.
func RecordID(identity string, timestamp int64, nonce uint64) string {
	buf := make([]byte, 0, len(identity)+16)
	buf = append(buf, identity...)
	buf = binary.LittleEndian.AppendUint64(buf, uint64(timestamp))
	buf = binary.LittleEndian.AppendUint64(buf, nonce)
	sum := sha256.Sum256(buf)
	return hex.EncodeToString(sum[:])
}

func ProfileAddress(identity string) string {
	return Derive(TagFarmerProfile, identity, nil)
}

func ProductAddress(owner, productID string) string {
	return Derive(TagProduct, owner, []byte(productID))
}

func CampaignAddress(owner, campaignID string) string {
	return Derive(TagCampaign, owner, []byte(campaignID))
}

// CustodyAddress is derived from the campaign's own address, not its owner, so
// no identity can claim it.
func CustodyAddress(campaignAddress string) string {
	return Derive(TagCampaignVault, campaignAddress, nil)
}

func WalletAddress(identity string) string {
	return Derive(TagWallet, identity, nil)
}
