// internal/ledger/limits.go
package ledger

// Per-record ceilings. Profiles, products and campaigns are single rows whose
// embedded sequences would otherwise grow without bound.
const (
	MaxCertifications  = 16
	MaxMilestones      = 16
	MaxMediaRefs       = 10
	MaxGrowthUpdates   = 64
	MaxDeliveryUpdates = 64

	MaxNameLen        = 64
	MaxRegionLen      = 64
	MaxCategoryLen    = 64
	MaxTitleLen       = 128
	MaxDescriptionLen = 1000
	MaxNotesLen       = 500
	MaxBlobLen        = 512
	MaxURLLen         = 256
	MaxLocationLen    = 128
	MaxLabelLen       = 64
)

// MaxAmount is the largest balance a signed 64-bit column can hold.
const MaxAmount uint64 = 1<<63 - 1
