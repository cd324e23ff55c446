// internal/models/campaign.go
package models

import "gorm.io/datatypes"

type CrowdfundingCampaign struct {
	Address          string                      `json:"address" gorm:"primaryKey;size:64"`
	CampaignID       string                      `json:"campaign_id" gorm:"size:64;not null;uniqueIndex"`
	Farmer           string                      `json:"farmer" gorm:"size:128;not null;index"`
	Title            string                      `json:"title" gorm:"size:128;not null"`
	Description      string                      `json:"description" gorm:"type:text"`
	GoalAmount       uint64                      `json:"goal_amount" gorm:"not null"`
	CurrentAmount    uint64                      `json:"current_amount" gorm:"not null"`
	Deadline         int64                       `json:"deadline"`
	CampaignType     CampaignType                `json:"campaign_type" gorm:"type:varchar(20);not null;index"`
	Milestones       datatypes.JSONSlice[string] `json:"milestones"`
	ContributorCount uint64                      `json:"contributor_count" gorm:"not null"`
	IsActive         bool                        `json:"is_active" gorm:"not null;index"`
	CustodyAddress   string                      `json:"custody_address" gorm:"size:64;not null;uniqueIndex"`
	Timestamps

	// Relationships
	Contributors []Contributor `json:"contributors,omitempty" gorm:"foreignKey:CampaignAddress;references:Address"`
}

func (c *CrowdfundingCampaign) RecordAddress() string {
	return c.Address
}

// Contributor is one contribution. Seq is the position in the campaign's
// append-only contributor sequence.
type Contributor struct {
	CampaignAddress string `json:"campaign_address" gorm:"primaryKey;size:64"`
	Seq             uint64 `json:"seq" gorm:"primaryKey;autoIncrement:false"`
	Wallet          string `json:"wallet" gorm:"size:128;not null;index"`
	Amount          uint64 `json:"amount" gorm:"not null"`
	Timestamp       int64  `json:"timestamp" gorm:"not null"`
}

func (Contributor) TableName() string {
	return "campaign_contributors"
}
