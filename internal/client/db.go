package client

import (
	"log"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"gelato-storefront/internal/model"
)

func InitSqliteClient(dsn string) *gorm.DB {
	// TranslateError surfaces unique-index violations as gorm.ErrDuplicatedKey
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal(err)
	}

	// Connection pool (important for payment callbacks)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := Migrate(db); err != nil {
		log.Fatal(err)
	}

	return db
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Flavor{},
		&model.Size{},
		&model.PriceEntry{},
		&model.Filling{},
		&model.Topping{},
		&model.Product{},
		&model.Cart{},
		&model.CartLine{},
		&model.CartLineTopping{},
		&model.Order{},
		&model.OrderLine{},
		&model.OrderStatusHistory{},
		&model.PaymentTransaction{},
		&model.PointsLedgerEntry{},
	)
}
