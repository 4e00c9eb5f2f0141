package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	_ "github.com/lib/pq"

	"github.com/eaglebank/statement-service/internal/models"
)

const postgresBackend = "postgres"

const postgresSchema = `
	CREATE TABLE IF NOT EXISTS transactions (
		id           BIGSERIAL PRIMARY KEY,
		account_type TEXT NOT NULL,
		payment_date TIMESTAMP NOT NULL,
		amount       DOUBLE PRECISION NOT NULL,
		description  TEXT NOT NULL DEFAULT '',
		created_at   TIMESTAMP NOT NULL,
		updated_at   TIMESTAMP NOT NULL
	)
`

// PostgresStore keeps one row per transaction in the transactions table. Ids
// are the generated BIGSERIAL keys rendered in decimal.
type PostgresStore struct {
	dsn          string
	createSchema bool
	open         func(driverName, dsn string) (*sql.DB, error)
	db           *sql.DB
}

func NewPostgresStore(dsn string, createSchema bool) *PostgresStore {
	return &PostgresStore{
		dsn:          dsn,
		createSchema: createSchema,
		open:         sql.Open,
	}
}

func (s *PostgresStore) Connected() bool {
	return s.db != nil
}

func (s *PostgresStore) Connect(ctx context.Context) error {
	if s.db != nil {
		return nil
	}

	db, err := s.open("postgres", s.dsn)
	if err != nil {
		return newError(postgresBackend, KindClient, err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return newError(postgresBackend, KindConnection, fmt.Errorf("failed to ping database: %w", err))
	}
	if s.createSchema {
		if _, err := db.ExecContext(ctx, postgresSchema); err != nil {
			db.Close()
			return newError(postgresBackend, KindConnection, fmt.Errorf("failed to create schema: %w", err))
		}
	}

	s.db = db
	return nil
}

func (s *PostgresStore) Disconnect(ctx context.Context) error {
	if s.db == nil {
		return nil
	}
	db := s.db
	s.db = nil
	if err := db.Close(); err != nil {
		return newError(postgresBackend, KindConnection, err)
	}
	return nil
}

func (s *PostgresStore) Create(ctx context.Context, tx models.CreateTransaction) (string, error) {
	if err := s.Connect(ctx); err != nil {
		return "", err
	}

	query := `
		INSERT INTO transactions (account_type, payment_date, amount, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	now := time.Now().UTC()
	var id int64
	err := s.db.QueryRowContext(ctx, query,
		tx.AccountType, tx.PaymentDate.UTC(), tx.Amount, tx.Description, now, now,
	).Scan(&id)
	if err != nil {
		return "", newError(postgresBackend, KindSave, fmt.Errorf("failed to create transaction: %w", err))
	}
	return strconv.FormatInt(id, 10), nil
}

func (s *PostgresStore) Get(ctx context.Context, id string) (*models.Transaction, error) {
	key, err := parseSerialID(id)
	if err != nil {
		return nil, newError(postgresBackend, KindInvalidID, err)
	}
	if err := s.Connect(ctx); err != nil {
		return nil, err
	}

	query := `
		SELECT id, account_type, payment_date, amount, description, created_at, updated_at
		FROM transactions
		WHERE id = $1
	`
	tx, err := scanTransaction(s.db.QueryRowContext(ctx, query, key))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, newError(postgresBackend, KindGet, fmt.Errorf("failed to get transaction: %w", err))
	}
	return tx, nil
}

func (s *PostgresStore) GetAll(ctx context.Context) ([]models.Transaction, error) {
	if err := s.Connect(ctx); err != nil {
		return nil, err
	}

	query := `
		SELECT id, account_type, payment_date, amount, description, created_at, updated_at
		FROM transactions
		ORDER BY id
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, newError(postgresBackend, KindGet, fmt.Errorf("failed to list transactions: %w", err))
	}
	defer rows.Close()

	transactions := []models.Transaction{}
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, newError(postgresBackend, KindGet, fmt.Errorf("failed to scan transaction: %w", err))
		}
		transactions = append(transactions, *tx)
	}
	if err := rows.Err(); err != nil {
		return nil, newError(postgresBackend, KindGet, err)
	}
	return transactions, nil
}

func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	key, err := parseSerialID(id)
	if err != nil {
		return newError(postgresBackend, KindInvalidID, err)
	}
	if err := s.Connect(ctx); err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = $1`, key); err != nil {
		return newError(postgresBackend, KindDelete, fmt.Errorf("failed to delete transaction: %w", err))
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (*models.Transaction, error) {
	var (
		tx  models.Transaction
		key int64
	)
	if err := row.Scan(
		&key, &tx.AccountType, &tx.PaymentDate,
		&tx.Amount, &tx.Description, &tx.CreatedAt, &tx.UpdatedAt,
	); err != nil {
		return nil, err
	}
	tx.ID = strconv.FormatInt(key, 10)
	return &tx, nil
}

func parseSerialID(id string) (int64, error) {
	key, err := strconv.ParseInt(id, 10, 64)
	if err != nil || key <= 0 {
		return 0, fmt.Errorf("invalid transaction id %q", id)
	}
	return key, nil
}

var _ Backend = (*PostgresStore)(nil)
