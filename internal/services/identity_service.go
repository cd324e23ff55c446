// internal/services/identity_service.go
package services

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/javajoker/farmdirect-backend/internal/ledger"
	"github.com/javajoker/farmdirect-backend/internal/models"
)

type IdentityService struct {
	store   *ledger.Store
	clock   ledger.Clock
	journal *JournalService
}

type RegisterFarmerRequest struct {
	EncryptedData  string   `json:"encrypted_data" validate:"blob_len"`
	PublicName     string   `json:"public_name" validate:"name_len"`
	Region         string   `json:"region" validate:"region_len"`
	Certifications []string `json:"certifications" validate:"certifications,dive,label_len"`
}

// UpdateFarmerRequest replaces every non-nil field wholesale.
type UpdateFarmerRequest struct {
	EncryptedData  *string   `json:"encrypted_data,omitempty" validate:"omitempty,blob_len"`
	PublicName     *string   `json:"public_name,omitempty" validate:"omitempty,name_len"`
	Region         *string   `json:"region,omitempty" validate:"omitempty,region_len"`
	Certifications *[]string `json:"certifications,omitempty" validate:"omitempty,certifications,dive,label_len"`
}

func NewIdentityService(store *ledger.Store, clock ledger.Clock, journal *JournalService) *IdentityService {
	return &IdentityService{
		store:   store,
		clock:   clock,
		journal: journal,
	}
}

// Register creates the caller's profile at its derived address.
func (s *IdentityService) Register(ctx context.Context, identity string, req *RegisterFarmerRequest) (*models.FarmerProfile, error) {
	if err := requireIdentity(identity); err != nil {
		return nil, err
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	var profile *models.FarmerProfile
	err := s.store.Atomic(ctx, func(tx *ledger.Store) error {
		now := s.clock.Now()
		profile = &models.FarmerProfile{
			Address:        ledger.ProfileAddress(identity),
			FarmerIdentity: identity,
			EncryptedData:  req.EncryptedData,
			PublicName:     req.PublicName,
			Region:         req.Region,
			Certifications: stringList(req.Certifications),
			Timestamps:     models.Timestamps{CreatedAt: now, UpdatedAt: now},
		}

		if err := tx.CreateIfAbsent(profile); err != nil {
			return err
		}

		_, err := s.journal.Append(tx, OpRegisterFarmer, identity, profile.Address, profile, now)
		return err
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"identity": identity,
		"profile":  profile.Address,
	}).Info("Farmer registered")

	return profile, nil
}

// Update rewrites the present fields of a profile the caller owns. The
// updated timestamp moves even when nothing else does.
func (s *IdentityService) Update(ctx context.Context, identity, profileAddress string, req *UpdateFarmerRequest) (*models.FarmerProfile, error) {
	if err := requireIdentity(identity); err != nil {
		return nil, err
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	var profile models.FarmerProfile
	err := s.store.Atomic(ctx, func(tx *ledger.Store) error {
		if err := tx.Load(&profile, profileAddress); err != nil {
			return err
		}
		if profile.FarmerIdentity != identity {
			return ledger.Unauthorized(profileAddress)
		}

		if req.EncryptedData != nil {
			profile.EncryptedData = *req.EncryptedData
		}
		if req.PublicName != nil {
			profile.PublicName = *req.PublicName
		}
		if req.Region != nil {
			profile.Region = *req.Region
		}
		if req.Certifications != nil {
			profile.Certifications = stringList(*req.Certifications)
		}
		profile.UpdatedAt = s.clock.Now()

		if err := tx.Save(&profile); err != nil {
			return err
		}

		_, err := s.journal.Append(tx, OpUpdateFarmer, identity, profile.Address, &profile, profile.UpdatedAt)
		return err
	})
	if err != nil {
		return nil, err
	}

	return &profile, nil
}

func (s *IdentityService) GetProfile(ctx context.Context, address string) (*models.FarmerProfile, error) {
	var profile models.FarmerProfile
	if err := s.store.Get(ctx, &profile, address); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (s *IdentityService) GetProfileByIdentity(ctx context.Context, identity string) (*models.FarmerProfile, error) {
	return s.GetProfile(ctx, ledger.ProfileAddress(identity))
}
