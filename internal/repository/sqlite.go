package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/eaglebank/statement-service/internal/models"
)

const sqliteBackend = "sqlite"

// transactionRow is the gorm model behind SQLiteStore.
type transactionRow struct {
	ID          int64     `gorm:"primaryKey;autoIncrement"`
	AccountType string    `gorm:"not null"`
	PaymentDate time.Time `gorm:"not null"`
	Amount      float64
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (transactionRow) TableName() string {
	return "transactions"
}

func (r transactionRow) toModel() models.Transaction {
	return models.Transaction{
		ID:          strconv.FormatInt(r.ID, 10),
		AccountType: r.AccountType,
		PaymentDate: r.PaymentDate,
		Amount:      r.Amount,
		Description: r.Description,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

// SQLiteStore is a relational backend on a local SQLite file, for single-host
// runs where no Postgres server is available.
type SQLiteStore struct {
	path string
	db   *gorm.DB
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

func (s *SQLiteStore) Connected() bool {
	return s.db != nil
}

func (s *SQLiteStore) Connect(ctx context.Context) error {
	if s.db != nil {
		return nil
	}

	db, err := gorm.Open(sqlite.Open(s.path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return newError(sqliteBackend, KindConnection, fmt.Errorf("failed to connect to database: %w", err))
	}
	if err := db.WithContext(ctx).AutoMigrate(&transactionRow{}); err != nil {
		closeGorm(db)
		return newError(sqliteBackend, KindConnection, fmt.Errorf("failed to migrate schema: %w", err))
	}

	s.db = db
	return nil
}

func (s *SQLiteStore) Disconnect(ctx context.Context) error {
	if s.db == nil {
		return nil
	}
	db := s.db
	s.db = nil
	if err := closeGorm(db); err != nil {
		return newError(sqliteBackend, KindConnection, err)
	}
	return nil
}

func (s *SQLiteStore) Create(ctx context.Context, tx models.CreateTransaction) (string, error) {
	if err := s.Connect(ctx); err != nil {
		return "", err
	}

	now := time.Now().UTC()
	row := transactionRow{
		AccountType: tx.AccountType,
		PaymentDate: tx.PaymentDate.UTC(),
		Amount:      tx.Amount,
		Description: tx.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return "", newError(sqliteBackend, KindSave, fmt.Errorf("failed to save transaction: %w", err))
	}
	return strconv.FormatInt(row.ID, 10), nil
}

func (s *SQLiteStore) Get(ctx context.Context, id string) (*models.Transaction, error) {
	key, err := parseSerialID(id)
	if err != nil {
		return nil, newError(sqliteBackend, KindInvalidID, err)
	}
	if err := s.Connect(ctx); err != nil {
		return nil, err
	}

	var row transactionRow
	err = s.db.WithContext(ctx).First(&row, key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, newError(sqliteBackend, KindGet, fmt.Errorf("failed to get transaction: %w", err))
	}
	tx := row.toModel()
	return &tx, nil
}

func (s *SQLiteStore) GetAll(ctx context.Context) ([]models.Transaction, error) {
	if err := s.Connect(ctx); err != nil {
		return nil, err
	}

	var rows []transactionRow
	if err := s.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, newError(sqliteBackend, KindGet, fmt.Errorf("failed to list transactions: %w", err))
	}
	transactions := make([]models.Transaction, 0, len(rows))
	for _, row := range rows {
		transactions = append(transactions, row.toModel())
	}
	return transactions, nil
}

func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	key, err := parseSerialID(id)
	if err != nil {
		return newError(sqliteBackend, KindInvalidID, err)
	}
	if err := s.Connect(ctx); err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Delete(&transactionRow{}, key).Error; err != nil {
		return newError(sqliteBackend, KindDelete, fmt.Errorf("failed to delete transaction: %w", err))
	}
	return nil
}

func closeGorm(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

var _ Backend = (*SQLiteStore)(nil)
