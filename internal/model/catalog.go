package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Flavor struct {
	ID        string `gorm:"primaryKey;size:64;not null"`
	Name      string `gorm:"size:128;not null"`
	Available bool   `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Size struct {
	ID        string `gorm:"primaryKey;size:64;not null"`
	Name      string `gorm:"size:128;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// PriceEntry maps a (flavor, size) pair to its base unit price. The pair is
// unique; rows are edited by catalog management but prices already captured
// into cart/order lines are never touched.
type PriceEntry struct {
	ID        uint            `gorm:"primaryKey"`
	FlavorID  string          `gorm:"size:64;not null;uniqueIndex:idx_flavor_size"`
	SizeID    string          `gorm:"size:64;not null;uniqueIndex:idx_flavor_size"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Filling struct {
	ID         string          `gorm:"primaryKey;size:64;not null"`
	Name       string          `gorm:"size:128;not null"`
	ExtraPrice decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Available  bool            `gorm:"not null;default:true"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type Topping struct {
	ID         string          `gorm:"primaryKey;size:64;not null"`
	Name       string          `gorm:"size:128;not null"`
	ExtraPrice decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Available  bool            `gorm:"not null;default:true"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Product is a ready-made catalog item with its own price and stock counter.
type Product struct {
	ID        string          `gorm:"primaryKey;size:64;not null"` // product sku
	Name      string          `gorm:"size:128;not null"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Currency  string          `gorm:"size:8;not null"`
	Stock     int             `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
