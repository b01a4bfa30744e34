package repository

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormLogger "gorm.io/gorm/logger"

	"github.com/solsins/aurum/internal/models"
	"github.com/solsins/aurum/pkg/logger"
)

type PostgresDB struct {
	logger *logger.Logger

	Conn *gorm.DB
}

func NewPostgresDB(user, password, dbname, host string, port int, logger *logger.Logger) (models.Repository, error) {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable",
		host, user, password, dbname, port)

	// Configure GORM logger to suppress "record not found" messages
	gormLogger := gormLogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormLogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormLogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: gormLogger})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %s", err)
	}

	if err := db.AutoMigrate(
		&models.Order{},
		&models.WalletDeposit{},
		&models.WalletAccount{},
		&models.Balance{},
		&models.Media{},
		&models.MediaPurchase{},
	); err != nil {
		return nil, fmt.Errorf("failed to auto-migrate models: %s", err)
	}
	logger.Info("Successfully connected to PostgreSQL!")
	return &PostgresDB{Conn: db, logger: logger}, nil
}

func (db *PostgresDB) Close() error {
	sqlDB, err := db.Conn.DB()
	if err != nil {
		return fmt.Errorf("failed to get database connection: %s", err)
	}
	return sqlDB.Close()
}

func (db *PostgresDB) CreateOrder(order *models.Order) error {
	if err := db.Conn.Create(order).Error; err != nil {
		return fmt.Errorf("failed to create order: %s", err)
	}

	return nil
}

func (db *PostgresDB) GetOrderByReference(reference string) (*models.Order, error) {
	var order models.Order
	if err := db.Conn.Where("reference = ?", reference).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get order by reference: %s", err)
	}

	return &order, nil
}

func (db *PostgresDB) OrderReferenceExists(reference string) (bool, error) {
	var count int64
	if err := db.Conn.Model(&models.Order{}).Where("reference = ?", reference).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check order reference: %s", err)
	}

	return count > 0, nil
}

// ConfirmOrder flips the order to CONFIRMED and applies all downstream effects
// in one transaction. The status flip is conditional on status=PENDING, so
// when several pollers race for the same reference the database lets exactly
// one of them through; the rest see zero rows updated and skip the effects.
func (db *PostgresDB) ConfirmOrder(reference, signature string) (*models.Order, bool, error) {
	var order models.Order
	confirmedNow := false

	err := db.Conn.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Order{}).
			Where("reference = ? AND status = ?", reference, models.OrderStatusPending).
			Updates(map[string]interface{}{
				"status":       models.OrderStatusConfirmed,
				"signature":    signature,
				"confirmed_at": time.Now().Unix(),
			})
		if res.Error != nil {
			return res.Error
		}

		if err := tx.Where("reference = ?", reference).First(&order).Error; err != nil {
			return err
		}

		if res.RowsAffected == 0 {
			// Lost the race or already confirmed earlier. No side effects.
			return nil
		}
		confirmedNow = true

		if order.MediaID != "" {
			purchase := models.MediaPurchase{
				ID:             uuid.NewString(),
				UserID:         order.BuyerID,
				MediaID:        order.MediaID,
				OrderID:        order.ID,
				AmountLamports: order.AmountLamports,
				CreatedAt:      time.Now().Unix(),
			}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&purchase).Error; err != nil {
				return err
			}
		}

		return creditBalance(tx, order.CreatorID, order.AmountUsdCents)
	})
	if err != nil {
		return nil, false, fmt.Errorf("failed to confirm order: %s", err)
	}

	return &order, confirmedNow, nil
}

// creditBalance upserts the creator balance row with an SQL-side increment.
// The delta is applied in the database, not read-modify-write in memory, so
// concurrent confirmations crediting the same creator cannot lose updates.
func creditBalance(tx *gorm.DB, userID string, usdCents int64) error {
	balance := models.Balance{UserID: userID, UsdCents: usdCents}
	return tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"usd_cents": gorm.Expr("balances.usd_cents + excluded.usd_cents"),
		}),
	}).Create(&balance).Error
}

func (db *PostgresDB) GetMedia(id string) (*models.Media, error) {
	var media models.Media
	if err := db.Conn.Where("id = ?", id).First(&media).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get media: %s", err)
	}

	return &media, nil
}

func (db *PostgresDB) CreateDeposit(deposit *models.WalletDeposit) error {
	if err := db.Conn.Create(deposit).Error; err != nil {
		return fmt.Errorf("failed to create deposit: %s", err)
	}

	return nil
}

func (db *PostgresDB) GetPendingDeposits() ([]*models.WalletDeposit, error) {
	var deposits []*models.WalletDeposit
	if err := db.Conn.Where("status = ?", models.DepositStatusPending).Find(&deposits).Error; err != nil {
		return nil, fmt.Errorf("failed to get pending deposits: %s", err)
	}

	return deposits, nil
}

// ConfirmDeposit marks the deposit CONFIRMED and credits the wallet in one
// transaction. Conditional on status=PENDING for the same at-most-once
// guarantee as order confirmation.
func (db *PostgresDB) ConfirmDeposit(id string, amountLamports int64, signature string, confirmedAt int64) (bool, error) {
	confirmedNow := false

	err := db.Conn.Transaction(func(tx *gorm.DB) error {
		var deposit models.WalletDeposit
		if err := tx.Where("id = ?", id).First(&deposit).Error; err != nil {
			return err
		}

		res := tx.Model(&models.WalletDeposit{}).
			Where("id = ? AND status = ?", id, models.DepositStatusPending).
			Updates(map[string]interface{}{
				"status":          models.DepositStatusConfirmed,
				"amount_lamports": amountLamports,
				"tx_signature":    signature,
				"confirmed_at":    confirmedAt,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		confirmedNow = true

		account := models.WalletAccount{UserID: deposit.UserID, BalanceLamports: amountLamports}
		return tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"balance_lamports": gorm.Expr("wallet_accounts.balance_lamports + excluded.balance_lamports"),
			}),
		}).Create(&account).Error
	})
	if err != nil {
		return false, fmt.Errorf("failed to confirm deposit: %s", err)
	}

	return confirmedNow, nil
}

func (db *PostgresDB) GetOrCreateWalletAccount(userID string) (*models.WalletAccount, error) {
	var account models.WalletAccount
	err := db.Conn.Where("user_id = ?", userID).First(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		account = models.WalletAccount{UserID: userID}
		if err := db.Conn.Clauses(clause.OnConflict{DoNothing: true}).Create(&account).Error; err != nil {
			return nil, fmt.Errorf("failed to create wallet account: %s", err)
		}
		return &account, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get wallet account: %s", err)
	}

	return &account, nil
}

func (db *PostgresDB) GetCreditedDeposits(userID string, limit int) ([]*models.WalletDeposit, error) {
	var deposits []*models.WalletDeposit
	if err := db.Conn.
		Where("user_id = ? AND amount_lamports > 0", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&deposits).Error; err != nil {
		return nil, fmt.Errorf("failed to get credited deposits: %s", err)
	}

	return deposits, nil
}

// PurchaseWithWallet debits the buyer's wallet and grants access in one
// transaction. The debit is conditional on the balance covering the price, so
// the balance can never go negative even under concurrent purchases.
func (db *PostgresDB) PurchaseWithWallet(userID, mediaID string, amountLamports int64) (*models.MediaPurchase, int64, error) {
	var purchase models.MediaPurchase
	var newBalance int64

	err := db.Conn.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.WalletAccount{}).
			Where("user_id = ? AND balance_lamports >= ?", userID, amountLamports).
			Update("balance_lamports", gorm.Expr("balance_lamports - ?", amountLamports))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.ErrInsufficientFunds
		}

		var account models.WalletAccount
		if err := tx.Where("user_id = ?", userID).First(&account).Error; err != nil {
			return err
		}
		newBalance = account.BalanceLamports

		purchase = models.MediaPurchase{
			ID:             uuid.NewString(),
			UserID:         userID,
			MediaID:        mediaID,
			AmountLamports: amountLamports,
			CreatedAt:      time.Now().Unix(),
		}
		return tx.Create(&purchase).Error
	})
	if err != nil {
		if errors.Is(err, models.ErrInsufficientFunds) {
			return nil, 0, models.ErrInsufficientFunds
		}
		return nil, 0, fmt.Errorf("failed to purchase with wallet: %s", err)
	}

	return &purchase, newBalance, nil
}

func (db *PostgresDB) GetBalance(userID string) (*models.Balance, error) {
	var balance models.Balance
	err := db.Conn.Where("user_id = ?", userID).First(&balance).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &models.Balance{UserID: userID}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get balance: %s", err)
	}

	return &balance, nil
}
