// internal/models/common.go
package models

// Timestamps are unix seconds taken from the ledger clock, never from gorm's
// own autoCreateTime/autoUpdateTime.
type Timestamps struct {
	CreatedAt int64 `json:"created_at" gorm:"not null;autoCreateTime:false"`
	UpdatedAt int64 `json:"updated_at" gorm:"not null;autoUpdateTime:false"`
}

// Enums
type GrowthStage string

const (
	GrowthStageSeeding     GrowthStage = "seeding"
	GrowthStageGermination GrowthStage = "germination"
	GrowthStageGrowing     GrowthStage = "growing"
	GrowthStageFlowering   GrowthStage = "flowering"
	GrowthStageFruiting    GrowthStage = "fruiting"
	GrowthStageHarvest     GrowthStage = "harvest"
	GrowthStagePostHarvest GrowthStage = "post_harvest"
)

var growthStageOrder = map[GrowthStage]int{
	GrowthStageSeeding:     0,
	GrowthStageGermination: 1,
	GrowthStageGrowing:     2,
	GrowthStageFlowering:   3,
	GrowthStageFruiting:    4,
	GrowthStageHarvest:     5,
	GrowthStagePostHarvest: 6,
}

func (s GrowthStage) Valid() bool {
	_, ok := growthStageOrder[s]
	return ok
}

// Rank is the stage's position in the declared progression, -1 if unknown.
func (s GrowthStage) Rank() int {
	if r, ok := growthStageOrder[s]; ok {
		return r
	}
	return -1
}

type DeliveryStatus string

const (
	DeliveryStatusPreparing DeliveryStatus = "preparing"
	DeliveryStatusPacked    DeliveryStatus = "packed"
	DeliveryStatusInTransit DeliveryStatus = "in_transit"
	DeliveryStatusDelivered DeliveryStatus = "delivered"
	DeliveryStatusCompleted DeliveryStatus = "completed"
)

func (s DeliveryStatus) Valid() bool {
	switch s {
	case DeliveryStatusPreparing, DeliveryStatusPacked, DeliveryStatusInTransit,
		DeliveryStatusDelivered, DeliveryStatusCompleted:
		return true
	}
	return false
}

type CampaignType string

const (
	CampaignTypeEquipment      CampaignType = "equipment"
	CampaignTypeSeeds          CampaignType = "seeds"
	CampaignTypeInfrastructure CampaignType = "infrastructure"
	CampaignTypeExpansion      CampaignType = "expansion"
	CampaignTypeEmergency      CampaignType = "emergency"
)

func (t CampaignType) Valid() bool {
	switch t {
	case CampaignTypeEquipment, CampaignTypeSeeds, CampaignTypeInfrastructure,
		CampaignTypeExpansion, CampaignTypeEmergency:
		return true
	}
	return false
}

type AccountKind string

const (
	AccountKindWallet  AccountKind = "wallet"
	AccountKindCustody AccountKind = "custody"
)

type TopUpStatus string

const (
	TopUpStatusPending  TopUpStatus = "pending"
	TopUpStatusCredited TopUpStatus = "credited"
	TopUpStatusFailed   TopUpStatus = "failed"
)
