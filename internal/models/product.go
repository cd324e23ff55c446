// internal/models/product.go
package models

import "gorm.io/datatypes"

type ProductCycle struct {
	Address              string                              `json:"address" gorm:"primaryKey;size:64"`
	ProductID            string                              `json:"product_id" gorm:"size:64;not null;uniqueIndex"`
	Farmer               string                              `json:"farmer" gorm:"size:128;not null;index"`
	ProductName          string                              `json:"product_name" gorm:"size:64;not null"`
	Category             string                              `json:"category" gorm:"size:64;index"`
	Description          string                              `json:"description" gorm:"type:text"`
	EstimatedHarvestDate int64                               `json:"estimated_harvest_date"`
	EstimatedQuantity    uint64                              `json:"estimated_quantity"`
	ActualQuantity       uint64                              `json:"actual_quantity" gorm:"not null"`
	MediaRefs            datatypes.JSONSlice[string]         `json:"media_refs"`
	GrowthUpdates        datatypes.JSONSlice[GrowthUpdate]   `json:"growth_updates"`
	DeliveryUpdates      datatypes.JSONSlice[DeliveryUpdate] `json:"delivery_updates"`
	Timestamps
}

func (p *ProductCycle) RecordAddress() string {
	return p.Address
}

type GrowthUpdate struct {
	Stage     GrowthStage `json:"stage"`
	Timestamp int64       `json:"timestamp"`
	Notes     string      `json:"notes"`
	MediaRefs []string    `json:"media_refs"`
}

type DeliveryUpdate struct {
	Status    DeliveryStatus `json:"status"`
	Timestamp int64          `json:"timestamp"`
	Notes     string         `json:"notes"`
	Location  *string        `json:"location,omitempty"`
}
