// internal/models/account.go
package models

import "github.com/google/uuid"

// Account holds transferable value. Wallets belong to an identity; custody
// accounts belong to a campaign and no identity can sign for them.
type Account struct {
	Address string      `json:"address" gorm:"primaryKey;size:64"`
	Kind    AccountKind `json:"kind" gorm:"type:varchar(10);not null;index"`
	Owner   string      `json:"owner" gorm:"size:128;not null;index"`
	Balance uint64      `json:"balance" gorm:"not null"`
	Timestamps
}

func (a *Account) RecordAddress() string {
	return a.Address
}

// TopUp is a card payment that funds a wallet. Credited at most once.
type TopUp struct {
	PaymentIntentID string      `json:"payment_intent_id" gorm:"primaryKey;size:255"`
	Identity        string      `json:"identity" gorm:"size:128;not null;index"`
	Amount          uint64      `json:"amount" gorm:"not null"`
	Currency        string      `json:"currency" gorm:"size:10;not null"`
	Status          TopUpStatus `json:"status" gorm:"type:varchar(20);not null;index"`
	Timestamps
}

// JournalEntry is one committed transition in the hash-chained provenance log.
type JournalEntry struct {
	Index         uint64    `json:"index" gorm:"column:entry_index;primaryKey;autoIncrement:false"`
	EntryID       uuid.UUID `json:"entry_id" gorm:"type:uuid;not null;uniqueIndex"`
	Operation     string    `json:"operation" gorm:"size:50;not null;index"`
	Caller        string    `json:"caller" gorm:"size:128;not null;index"`
	RecordAddress string    `json:"record_address" gorm:"size:64;not null;index"`
	PayloadHash   string    `json:"payload_hash" gorm:"size:64;not null"`
	PreviousHash  string    `json:"previous_hash" gorm:"size:64"`
	EntryHash     string    `json:"entry_hash" gorm:"size:64;not null"`
	Timestamp     int64     `json:"timestamp" gorm:"not null;index"`
}

// JournalHeadAddress is the key of the single JournalHead row.
const JournalHeadAddress = "journal"

// JournalHead is the tip of the journal. Appends lock this row, so entries get
// consecutive indexes even when unrelated transitions commit concurrently.
type JournalHead struct {
	Address string `json:"address" gorm:"primaryKey;size:64"`
	Entries uint64 `json:"entries" gorm:"not null"`
	Hash    string `json:"hash" gorm:"size:64"`
}

func (h *JournalHead) RecordAddress() string {
	return h.Address
}
