package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentType string

const (
	PaymentTypeCard   PaymentType = "card"
	PaymentTypePaypal PaymentType = "paypal"
	PaymentTypeCash   PaymentType = "cash"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
)

// PaymentTransaction records one capture attempt against an order. An order
// is paid iff at least one of its rows is completed; the unique index on
// external_transaction_id rejects the same capture applied twice.
type PaymentTransaction struct {
	ID                    uint            `gorm:"primaryKey"`
	OrderID               string          `gorm:"size:64;index;not null"`
	PaymentType           PaymentType     `gorm:"size:16;not null"`
	Status                PaymentStatus   `gorm:"size:16;index;not null"`
	ExternalTransactionID string          `gorm:"size:128;uniqueIndex;not null"`
	Amount                decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Currency              string          `gorm:"size:8;not null"`
	CreatedAt             time.Time
}
