package model

import (
	"time"

	"github.com/shopspring/decimal"

	"gelato-storefront/internal/domain"
)

type LineKind string

const (
	LineKindCatalog LineKind = "catalog"
	LineKindCustom  LineKind = "custom"
)

// Cart is one user's (or POS session's) open cart. Total is a cached sum of
// line subtotals and is rewritten in the same transaction as any line change.
type Cart struct {
	ID        uint            `gorm:"primaryKey"`
	UserID    string          `gorm:"size:64;uniqueIndex;not null"`
	Total     decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Lines     []CartLine      `gorm:"foreignKey:CartID"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CartLine is one priced, quantified entry. UnitPrice is captured when the
// line is added and never follows later catalog edits.
type CartLine struct {
	ID     uint     `gorm:"primaryKey"`
	CartID uint     `gorm:"index;not null"`
	Kind   LineKind `gorm:"size:16;not null"`

	// catalog kind
	ProductID *string `gorm:"size:64;index"`

	// custom kind
	FlavorID  *string           `gorm:"size:64"`
	SizeID    *string           `gorm:"size:64"`
	FillingID *string           `gorm:"size:64"`
	Toppings  []CartLineTopping `gorm:"foreignKey:CartLineID"`

	Quantity  int             `gorm:"not null"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Subtotal  decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type CartLineTopping struct {
	ID         uint   `gorm:"primaryKey"`
	CartLineID uint   `gorm:"index;not null"`
	ToppingID  string `gorm:"size:64;not null"`
}

// Selection rebuilds the tagged variant this line was added with.
func (l *CartLine) Selection() domain.Selection {
	switch l.Kind {
	case LineKindCatalog:
		return domain.CatalogSelection{ProductID: *l.ProductID}
	case LineKindCustom:
		ids := make([]string, len(l.Toppings))
		for i, t := range l.Toppings {
			ids[i] = t.ToppingID
		}
		return domain.CustomSelection{
			FlavorID:   *l.FlavorID,
			SizeID:     *l.SizeID,
			FillingID:  l.FillingID,
			ToppingIDs: ids,
		}
	}
	return nil
}
