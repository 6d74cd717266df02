package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"gelato-storefront/internal/client"
	"gelato-storefront/internal/model"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	// One in-memory sqlite database per connection; keep a single one.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, client.Migrate(db))
	return db
}

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

// seedTestCatalog installs the fixtures the scenario tests are written
// against: Chocolate/Mediano at 250.00, toppings at 15.00 and 10.00, and a
// catalog product at 120.00.
func seedTestCatalog(t *testing.T, db *gorm.DB) {
	t.Helper()

	require.NoError(t, db.Create(&[]model.Flavor{
		{ID: "chocolate", Name: "Chocolate", Available: true},
		{ID: "vanilla", Name: "Vanilla", Available: true},
	}).Error)

	require.NoError(t, db.Create(&[]model.Size{
		{ID: "mediano", Name: "Mediano"},
		{ID: "grande", Name: "Grande"},
	}).Error)

	require.NoError(t, db.Create(&[]model.PriceEntry{
		{FlavorID: "chocolate", SizeID: "mediano", UnitPrice: dec(t, "250.00")},
		{FlavorID: "vanilla", SizeID: "mediano", UnitPrice: dec(t, "240.00")},
	}).Error)

	require.NoError(t, db.Create(&[]model.Filling{
		{ID: "dulce-de-leche", Name: "Dulce de Leche", ExtraPrice: dec(t, "35.00"), Available: true},
		{ID: "discontinued-filling", Name: "Discontinued", ExtraPrice: dec(t, "20.00"), Available: false},
	}).Error)

	require.NoError(t, db.Create(&[]model.Topping{
		{ID: "almonds", Name: "Almonds", ExtraPrice: dec(t, "15.00"), Available: true},
		{ID: "sprinkles", Name: "Sprinkles", ExtraPrice: dec(t, "10.00"), Available: true},
		{ID: "gold-leaf", Name: "Gold Leaf", ExtraPrice: dec(t, "90.00"), Available: false},
	}).Error)

	require.NoError(t, db.Create(&[]model.Product{
		{ID: "brownie-box", Name: "Brownie Box", UnitPrice: dec(t, "120.00"), Currency: "MXN", Stock: 10},
		{ID: "cookie-dozen", Name: "Cookie Dozen", UnitPrice: dec(t, "95.00"), Currency: "MXN", Stock: 3},
	}).Error)
}
