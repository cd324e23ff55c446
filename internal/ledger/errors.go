// internal/ledger/errors.go
package ledger

import (
	"errors"
	"fmt"
)

// Kind is the machine-readable class of a rejected transition.
type Kind string

const (
	KindUnauthorized   Kind = "UNAUTHORIZED"
	KindAlreadyExists  Kind = "ALREADY_EXISTS"
	KindTransferFailed Kind = "TRANSFER_FAILED"
	KindNotFound       Kind = "NOT_FOUND"

	// Declared for contribute; only raised when the matching policy flag is on.
	KindCampaignNotActive        Kind = "CAMPAIGN_NOT_ACTIVE"
	KindCampaignDeadlineExceeded Kind = "CAMPAIGN_DEADLINE_EXCEEDED"

	// Declared, never raised.
	KindInvalidAmount Kind = "INVALID_AMOUNT"

	KindRecordFull      Kind = "RECORD_FULL"
	KindInvalidArgument Kind = "INVALID_ARGUMENT"
)

// Error is a rejected transition. Ref names the record address or field that
// was violated and is the only detail exposed to callers.
type Error struct {
	Kind    Kind
	Ref     string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Ref != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Kind, e.Message, e.Ref)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches any *Error of the same kind, so callers can write
// errors.Is(err, ledger.ErrNotFound).
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Kind == t.Kind
	}
	return false
}

// Sentinels for errors.Is comparisons.
var (
	ErrUnauthorized             = &Error{Kind: KindUnauthorized, Message: "caller does not own the record"}
	ErrAlreadyExists            = &Error{Kind: KindAlreadyExists, Message: "record already exists at derived address"}
	ErrTransferFailed           = &Error{Kind: KindTransferFailed, Message: "value transfer rejected"}
	ErrNotFound                 = &Error{Kind: KindNotFound, Message: "record not found"}
	ErrCampaignNotActive        = &Error{Kind: KindCampaignNotActive, Message: "campaign is not active"}
	ErrCampaignDeadlineExceeded = &Error{Kind: KindCampaignDeadlineExceeded, Message: "campaign deadline exceeded"}
	ErrInvalidAmount            = &Error{Kind: KindInvalidAmount, Message: "invalid amount"}
	ErrRecordFull               = &Error{Kind: KindRecordFull, Message: "record sequence is full"}
	ErrInvalidArgument          = &Error{Kind: KindInvalidArgument, Message: "invalid argument"}
)

func newError(kind Kind, ref, message string) *Error {
	return &Error{Kind: kind, Ref: ref, Message: message}
}

func Unauthorized(ref string) *Error {
	return newError(KindUnauthorized, ref, "caller does not own the record")
}

func AlreadyExists(ref string) *Error {
	return newError(KindAlreadyExists, ref, "record already exists at derived address")
}

func NotFound(ref string) *Error {
	return newError(KindNotFound, ref, "record not found")
}

func TransferFailed(ref, reason string) *Error {
	return newError(KindTransferFailed, ref, reason)
}

func CampaignNotActive(ref string) *Error {
	return newError(KindCampaignNotActive, ref, "campaign is not active")
}

func CampaignDeadlineExceeded(ref string) *Error {
	return newError(KindCampaignDeadlineExceeded, ref, "campaign deadline exceeded")
}

func RecordFull(ref string, limit int) *Error {
	return newError(KindRecordFull, ref, fmt.Sprintf("sequence limit of %d entries reached", limit))
}

func InvalidArgument(ref, message string) *Error {
	return newError(KindInvalidArgument, ref, message)
}

// KindOf returns the kind of a ledger error, or "" for anything else.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
