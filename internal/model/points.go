package model

import "time"

type PointsEntryType string

const (
	PointsEntryEarned   PointsEntryType = "earned"
	PointsEntryRedeemed PointsEntryType = "redeemed"
)

// PointsLedgerEntry is one append-only row in the loyalty ledger. Points is
// always a positive magnitude; the sign is implied by Type. Expired earned
// entries stop counting toward the balance but are never deleted.
type PointsLedgerEntry struct {
	ID        uint            `gorm:"primaryKey"`
	UserID    string          `gorm:"size:64;index;not null"`
	OrderID   *string         `gorm:"size:64;index"` // nil for manual grants
	Type      PointsEntryType `gorm:"size:16;not null"`
	Points    int64           `gorm:"not null"`
	ExpiresAt *time.Time      `gorm:"index"`
	CreatedAt time.Time
}
