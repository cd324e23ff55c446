// internal/models/farmer.go
package models

import "gorm.io/datatypes"

type FarmerProfile struct {
	Address            string                      `json:"address" gorm:"primaryKey;size:64"`
	FarmerIdentity     string                      `json:"farmer_identity" gorm:"size:128;not null;uniqueIndex"`
	EncryptedData      string                      `json:"encrypted_data" gorm:"type:text"`
	PublicName         string                      `json:"public_name" gorm:"size:64;not null"`
	Region             string                      `json:"region" gorm:"size:64;index"`
	Certifications     datatypes.JSONSlice[string] `json:"certifications"`
	VerificationStatus bool                        `json:"verification_status" gorm:"not null"`
	ReputationScore    uint64                      `json:"reputation_score" gorm:"not null"`
	TotalProducts      uint64                      `json:"total_products" gorm:"not null"`
	Timestamps
}

func (p *FarmerProfile) RecordAddress() string {
	return p.Address
}
