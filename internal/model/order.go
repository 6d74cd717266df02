package model

import (
	"time"

	"github.com/shopspring/decimal"

	"gelato-storefront/internal/domain"
)

// Order is the frozen projection of a cart plus fulfillment state. Status is
// a cache of the latest OrderStatusHistory row and must never diverge from it.
type Order struct {
	ID            string                `gorm:"primaryKey;size:64;not null"`
	UserID        string                `gorm:"size:64;index;not null"`
	Address       string                `gorm:"size:256"`
	PaymentMethod PaymentType           `gorm:"size:16;not null"`
	// GatewayOrderID links a paypal order to the approval flow; the success
	// callback resolves the internal order through it.
	GatewayOrderID *string               `gorm:"size:64;uniqueIndex"`
	Status         domain.DeliveryStatus `gorm:"size:32;index;not null"`
	Total          decimal.Decimal       `gorm:"type:decimal(10,2);not null"`
	Currency       string                `gorm:"size:8;not null"`
	Lines          []OrderLine           `gorm:"foreignKey:OrderID"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// OrderLine snapshots name and price at checkout so later catalog edits do
// not rewrite history.
type OrderLine struct {
	ID          uint            `gorm:"primaryKey"`
	OrderID     string          `gorm:"size:64;index;not null"`
	Kind        LineKind        `gorm:"size:16;not null"`
	ProductID   *string         `gorm:"size:64"`
	ProductName string          `gorm:"size:256;not null"`
	Quantity    int             `gorm:"not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Subtotal    decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	CreatedAt   time.Time
}

// OrderStatusHistory is append-only: one row per transition, never mutated or
// deleted. It is the source of truth for when an order reached a status.
type OrderStatusHistory struct {
	ID        uint                  `gorm:"primaryKey"`
	OrderID   string                `gorm:"size:64;index;not null"`
	Status    domain.DeliveryStatus `gorm:"size:32;not null"`
	ChangedBy string                `gorm:"size:64;not null"`
	Notes     string                `gorm:"type:text"`
	CreatedAt time.Time             `gorm:"index"`
}
