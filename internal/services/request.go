// internal/services/request.go
package services

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/javajoker/farmdirect-backend/internal/ledger"
	"github.com/javajoker/farmdirect-backend/internal/utils"
)

// validateRequest runs the struct tags and reports the first failing field as
// an INVALID_ARGUMENT rejection.
func validateRequest(req interface{}) error {
	err := utils.ValidateStruct(req)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		field := strings.ToLower(fieldErrs[0].Field())
		return ledger.InvalidArgument(field, "failed "+fieldErrs[0].ActualTag()+" validation")
	}
	return ledger.InvalidArgument("request", err.Error())
}

func requireIdentity(identity string) error {
	if identity == "" {
		return ledger.InvalidArgument("identity", "caller identity is required")
	}
	return nil
}

// stringList returns a non-nil copy so empty lists encode as [] rather than null.
func stringList(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
