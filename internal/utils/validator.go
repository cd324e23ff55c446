// internal/utils/validator.go
package utils

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/javajoker/farmdirect-backend/internal/ledger"
	"github.com/javajoker/farmdirect-backend/internal/models"
)

// limitAliases expose the ledger ceilings as validation tags.
var limitAliases = map[string]uint64{
	"amount":          ledger.MaxAmount,
	"name_len":        ledger.MaxNameLen,
	"region_len":      ledger.MaxRegionLen,
	"category_len":    ledger.MaxCategoryLen,
	"title_len":       ledger.MaxTitleLen,
	"description_len": ledger.MaxDescriptionLen,
	"notes_len":       ledger.MaxNotesLen,
	"blob_len":        ledger.MaxBlobLen,
	"url_len":         ledger.MaxURLLen,
	"location_len":    ledger.MaxLocationLen,
	"label_len":       ledger.MaxLabelLen,
	"certifications":  ledger.MaxCertifications,
	"milestones":      ledger.MaxMilestones,
	"media_refs":      ledger.MaxMediaRefs,
}

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterValidation("growth_stage", validateGrowthStage)
	validate.RegisterValidation("delivery_status", validateDeliveryStatus)
	validate.RegisterValidation("campaign_type", validateCampaignType)
	validate.RegisterValidation("record_address", validateRecordAddress)

	for alias, limit := range limitAliases {
		validate.RegisterAlias(alias, fmt.Sprintf("max=%d", limit))
	}
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

func validateGrowthStage(fl validator.FieldLevel) bool {
	return models.GrowthStage(fl.Field().String()).Valid()
}

func validateDeliveryStatus(fl validator.FieldLevel) bool {
	return models.DeliveryStatus(fl.Field().String()).Valid()
}

func validateCampaignType(fl validator.FieldLevel) bool {
	return models.CampaignType(fl.Field().String()).Valid()
}

// Record addresses are lowercase hex sha256 digests.
func validateRecordAddress(fl validator.FieldLevel) bool {
	address := fl.Field().String()
	if len(address) != 64 {
		return false
	}
	for _, r := range address {
		if !(r >= '0' && r <= '9' || r >= 'a' && r <= 'f') {
			return false
		}
	}
	return true
}

// Validation tags for common fields
type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

func GetValidationErrors(err error) []ValidationError {
	var validationErrors []ValidationError

	if validationErrs, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrs {
			validationErrors = append(validationErrors, ValidationError{
				Field:   strings.ToLower(e.Field()),
				Tag:     e.ActualTag(),
				Message: getValidationMessage(e),
			})
		}
	}

	return validationErrors
}

func getValidationMessage(e validator.FieldError) string {
	switch e.ActualTag() {
	case "required":
		return e.Field() + " is required"
	case "min":
		return e.Field() + " must be at least " + e.Param()
	case "max":
		return e.Field() + " must be at most " + e.Param()
	case "url":
		return e.Field() + " must be a URL"
	case "growth_stage":
		return "Stage must be one of seeding, germination, growing, flowering, fruiting, harvest, post_harvest"
	case "delivery_status":
		return "Status must be one of preparing, packed, in_transit, delivered, completed"
	case "campaign_type":
		return "Campaign type must be one of equipment, seeds, infrastructure, expansion, emergency"
	case "record_address":
		return e.Field() + " must be a 64 character hex address"
	default:
		return e.Field() + " is invalid"
	}
}
