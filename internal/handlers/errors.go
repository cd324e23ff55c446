// internal/handlers/errors.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/farmdirect-backend/internal/i18n"
	"github.com/javajoker/farmdirect-backend/internal/ledger"
	"github.com/javajoker/farmdirect-backend/internal/services"
	"github.com/javajoker/farmdirect-backend/internal/utils"
)

var kindStatus = map[ledger.Kind]int{
	ledger.KindUnauthorized:             http.StatusForbidden,
	ledger.KindAlreadyExists:            http.StatusConflict,
	ledger.KindTransferFailed:           http.StatusPaymentRequired,
	ledger.KindNotFound:                 http.StatusNotFound,
	ledger.KindCampaignNotActive:        http.StatusConflict,
	ledger.KindCampaignDeadlineExceeded: http.StatusConflict,
	ledger.KindInvalidAmount:            http.StatusBadRequest,
	ledger.KindRecordFull:               http.StatusUnprocessableEntity,
	ledger.KindInvalidArgument:          http.StatusBadRequest,
}

var kindMessage = map[ledger.Kind]string{
	ledger.KindUnauthorized:             i18n.KeyLedgerUnauthorized,
	ledger.KindAlreadyExists:            i18n.KeyLedgerAlreadyExists,
	ledger.KindTransferFailed:           i18n.KeyLedgerTransferFailed,
	ledger.KindNotFound:                 i18n.KeyLedgerNotFound,
	ledger.KindCampaignNotActive:        i18n.KeyLedgerCampaignNotActive,
	ledger.KindCampaignDeadlineExceeded: i18n.KeyLedgerCampaignDeadlineExceeded,
	ledger.KindInvalidAmount:            i18n.KeyLedgerInvalidAmount,
	ledger.KindRecordFull:               i18n.KeyLedgerRecordFull,
	ledger.KindInvalidArgument:          i18n.KeyLedgerInvalidArgument,
}

// respondError renders a rejected transition as its kind plus the violated
// reference. Anything else is logged and reported without detail.
func respondError(c *gin.Context, err error) {
	lang := utils.GetLangFromContext(c)

	var ledgerErr *ledger.Error
	if errors.As(err, &ledgerErr) {
		status, ok := kindStatus[ledgerErr.Kind]
		if !ok {
			status = http.StatusBadRequest
		}
		message := i18n.T(lang, kindMessage[ledgerErr.Kind])
		if ledgerErr.Kind == ledger.KindInvalidArgument {
			message = i18n.T(lang, kindMessage[ledgerErr.Kind], ledgerErr.Ref)
		}
		utils.ErrorResponse(c, status, string(ledgerErr.Kind), message, gin.H{"ref": ledgerErr.Ref})
		return
	}

	switch {
	case errors.Is(err, services.ErrPaymentsDisabled):
		utils.ErrorResponse(c, http.StatusServiceUnavailable, "PAYMENTS_UNAVAILABLE", i18n.T(lang, i18n.KeyPaymentsUnavailable), nil)
		return
	case errors.Is(err, services.ErrMediaDisabled):
		utils.ErrorResponse(c, http.StatusServiceUnavailable, "MEDIA_UNAVAILABLE", i18n.T(lang, i18n.KeyMediaUnavailable), nil)
		return
	}

	logrus.WithError(err).WithFields(logrus.Fields{
		"method": c.Request.Method,
		"path":   c.FullPath(),
	}).Error("Request failed")
	utils.InternalErrorResponse(c, "")
}

// bindJSON decodes and validates the body, rendering the failure itself.
func bindJSON(c *gin.Context, req interface{}) bool {
	lang := utils.GetLangFromContext(c)
	if err := c.ShouldBindJSON(req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return false
	}

	// Validate request
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return false
	}
	return true
}

func callerIdentity(c *gin.Context) (string, bool) {
	identity, exists := utils.GetIdentityFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return "", false
	}
	return identity, true
}
