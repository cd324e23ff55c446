// internal/ledger/store.go
package ledger

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Addressable is any record stored under a derived address.
type Addressable interface {
	RecordAddress() string
}

// Nonce is the per-identity sequence mixed into derived record ids.
type Nonce struct {
	Identity string `gorm:"primaryKey;size:128"`
	Next     uint64 `gorm:"not null;default:0"`
}

func (Nonce) TableName() string {
	return "identity_nonces"
}

// Store is the record storage collaborator: create-if-absent, load by address
// and one atomic commit per operation.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// DB exposes the underlying handle, scoped to the current transaction when the
// store was handed out by Atomic.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Atomic runs fn inside one transaction. Any error rolls back every write fn
// made, including writes by collaborators that were given tx.
func (s *Store) Atomic(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

// CreateIfAbsent inserts record unless its address is already occupied.
func (s *Store) CreateIfAbsent(record Addressable) error {
	address := record.RecordAddress()

	var count int64
	if err := s.db.Model(record).Where("address = ?", address).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to probe address: %w", err)
	}
	if count > 0 {
		return AlreadyExists(address)
	}

	if err := s.db.Omit(clause.Associations).Create(record).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return AlreadyExists(address)
		}
		return fmt.Errorf("failed to create record: %w", err)
	}
	return nil
}

// Load reads the record at address into dst. On postgres the row stays locked
// until the surrounding transaction ends.
func (s *Store) Load(dst Addressable, address string) error {
	if err := s.locked().Where("address = ?", address).First(dst).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NotFound(address)
		}
		return fmt.Errorf("failed to load record: %w", err)
	}
	return nil
}

// Get reads the record at address outside of any transition.
func (s *Store) Get(ctx context.Context, dst Addressable, address string) error {
	if err := s.db.WithContext(ctx).Where("address = ?", address).First(dst).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NotFound(address)
		}
		return fmt.Errorf("failed to read record: %w", err)
	}
	return nil
}

func (s *Store) Save(record Addressable) error {
	if err := s.db.Omit(clause.Associations).Save(record).Error; err != nil {
		return fmt.Errorf("failed to save record: %w", err)
	}
	return nil
}

// NextNonce returns the identity's current sequence value and advances it.
func (s *Store) NextNonce(identity string) (uint64, error) {
	n := Nonce{Identity: identity}
	if err := s.locked().Where(Nonce{Identity: identity}).FirstOrCreate(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to read nonce: %w", err)
	}

	current := n.Next
	if err := s.db.Model(&Nonce{}).Where("identity = ?", identity).
		Update("next", current+1).Error; err != nil {
		return 0, fmt.Errorf("failed to advance nonce: %w", err)
	}
	return current, nil
}

// locked adds SELECT ... FOR UPDATE where the dialect has it. SQLite serializes
// writers on its own.
func (s *Store) locked() *gorm.DB {
	if s.db.Dialector != nil && s.db.Dialector.Name() == "postgres" {
		return s.db.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return s.db
}
