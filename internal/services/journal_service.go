// internal/services/journal_service.go
package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/javajoker/farmdirect-backend/internal/ledger"
	"github.com/javajoker/farmdirect-backend/internal/models"
	"github.com/javajoker/farmdirect-backend/internal/utils"
)

// Journal operations
const (
	OpRegisterFarmer       = "register_farmer"
	OpUpdateFarmer         = "update_farmer_profile"
	OpCreateProduct        = "create_product"
	OpAddGrowthUpdate      = "add_growth_update"
	OpUpdateActualQuantity = "update_actual_quantity"
	OpAddDeliveryUpdate    = "add_delivery_update"
	OpCreateCampaign       = "create_campaign"
	OpContribute           = "contribute"
	OpCreditWallet         = "credit_wallet"
)

// JournalService keeps the provenance log. Every committed transition appends
// one entry whose hash covers the previous entry's hash, so rewriting history
// breaks the chain from that point on.
type JournalService struct {
	store *ledger.Store
}

type JournalVerification struct {
	Entries  uint64  `json:"entries"`
	Valid    bool    `json:"valid"`
	Head     string  `json:"head"`
	BrokenAt *uint64 `json:"broken_at,omitempty"`
}

func NewJournalService(store *ledger.Store) *JournalService {
	return &JournalService{store: store}
}

// Append records a transition inside the caller's transaction. payload is the
// record state after the transition.
func (s *JournalService) Append(tx *ledger.Store, operation, caller, recordAddress string, payload interface{}, ts int64) (*models.JournalEntry, error) {
	payloadHash, err := hashPayload(payload)
	if err != nil {
		return nil, err
	}

	head, err := s.lockHead(tx)
	if err != nil {
		return nil, err
	}

	entry := models.JournalEntry{
		Index:         head.Entries,
		EntryID:       uuid.New(),
		Operation:     operation,
		Caller:        caller,
		RecordAddress: recordAddress,
		PayloadHash:   payloadHash,
		PreviousHash:  head.Hash,
		Timestamp:     ts,
	}
	entry.EntryHash = entryHash(&entry)

	if err := tx.DB().Create(&entry).Error; err != nil {
		return nil, fmt.Errorf("failed to append journal entry: %w", err)
	}

	head.Entries++
	head.Hash = entry.EntryHash
	if err := tx.Save(head); err != nil {
		return nil, fmt.Errorf("failed to advance journal head: %w", err)
	}
	return &entry, nil
}

// Verify walks the whole journal and reports the first entry whose link or
// hash does not hold.
func (s *JournalService) Verify(ctx context.Context) (*JournalVerification, error) {
	report := &JournalVerification{Valid: true}
	var entries []models.JournalEntry

	// FindInBatches pages by primary key, which is the entry index.
	err := s.store.DB().WithContext(ctx).
		FindInBatches(&entries, 500, func(tx *gorm.DB, batch int) error {
			for i := range entries {
				e := &entries[i]
				if e.Index != report.Entries || e.PreviousHash != report.Head || entryHash(e) != e.EntryHash {
					at := e.Index
					report.Valid = false
					report.BrokenAt = &at
					return errChainBroken
				}
				report.Head = e.EntryHash
				report.Entries++
			}
			return nil
		}).Error
	if err != nil && !errors.Is(err, errChainBroken) {
		return nil, fmt.Errorf("failed to verify journal: %w", err)
	}
	if !report.Valid {
		return report, nil
	}

	// A chain cut short still links; the head remembers where it ended.
	var head models.JournalHead
	if err := s.store.Get(ctx, &head, models.JournalHeadAddress); err != nil {
		if ledger.KindOf(err) != ledger.KindNotFound {
			return nil, err
		}
	}
	if head.Entries != report.Entries || head.Hash != report.Head {
		at := report.Entries
		report.Valid = false
		report.BrokenAt = &at
	}

	return report, nil
}

// lockHead loads the journal head for update. The row is created by the
// migrations.
func (s *JournalService) lockHead(tx *ledger.Store) (*models.JournalHead, error) {
	var head models.JournalHead
	if err := tx.Load(&head, models.JournalHeadAddress); err != nil {
		if ledger.KindOf(err) == ledger.KindNotFound {
			return nil, errJournalHeadMissing
		}
		return nil, err
	}
	return &head, nil
}

// ListForRecord returns the journal entries that touched one record, oldest
// first.
func (s *JournalService) ListForRecord(ctx context.Context, recordAddress string, params utils.PaginationParams) ([]models.JournalEntry, int64, error) {
	query := s.store.DB().WithContext(ctx).Model(&models.JournalEntry{}).
		Where("record_address = ?", recordAddress)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count journal entries: %w", err)
	}

	var entries []models.JournalEntry
	if err := utils.ApplyPagination(query.Order("entry_index ASC"), params).Find(&entries).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list journal entries: %w", err)
	}

	return entries, total, nil
}

var (
	errChainBroken        = errors.New("journal chain broken")
	errJournalHeadMissing = errors.New("journal head missing, run migrations")
)

func hashPayload(payload interface{}) (string, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode journal payload: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

func entryHash(e *models.JournalEntry) string {
	material := fmt.Sprintf("%d|%s|%s|%s|%s|%s|%s|%d",
		e.Index, e.EntryID, e.Operation, e.Caller, e.RecordAddress,
		e.PayloadHash, e.PreviousHash, e.Timestamp)
	sum := sha256.Sum256([]byte(material))
	return hex.EncodeToString(sum[:])
}
