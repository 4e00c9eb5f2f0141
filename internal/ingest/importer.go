// Package ingest turns bank statement CSV exports into transactions.
package ingest

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/eaglebank/statement-service/internal/models"
)

// Creator persists one transaction and returns its id.
type Creator interface {
	CreateTransaction(ctx context.Context, tx models.CreateTransaction) (string, error)
}

// Result lists the ids created by an ingestion, in row order. It is filled
// even when the ingestion fails part way.
type Result struct {
	IDs []string
}

type Importer struct {
	creator Creator
	log     zerolog.Logger
}

func NewImporter(creator Creator, log zerolog.Logger) *Importer {
	return &Importer{
		creator: creator,
		log:     log.With().Str("component", "importer").Logger(),
	}
}

// Ingest parses data and creates one transaction per row.
func (i *Importer) Ingest(ctx context.Context, cfg Config, data string) (Result, error) {
	return i.IngestReader(ctx, cfg, strings.NewReader(data))
}

// IngestReader reads records in order and creates each one before reading
// the next. The first bad row stops the run; rows created before it are kept.
func (i *Importer) IngestReader(ctx context.Context, cfg Config, r io.Reader) (Result, error) {
	var result Result
	if err := cfg.Validate(); err != nil {
		return result, &Error{Kind: KindConfig, Err: err}
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	for row := 1; ; row++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return result, i.abort(cfg, result, &Error{Kind: KindRecord, Row: row, Err: err})
		}
		if row == 1 && cfg.SkipHeader {
			continue
		}

		tx, parseErr := parseRecord(cfg, record, row)
		if parseErr != nil {
			return result, i.abort(cfg, result, parseErr)
		}

		id, err := i.creator.CreateTransaction(ctx, tx)
		if err != nil {
			return result, i.abort(cfg, result, &Error{Kind: KindSave, Row: row, Err: err})
		}
		result.IDs = append(result.IDs, id)
	}

	i.log.Info().
		Str("institution", cfg.Institution).
		Int("created", len(result.IDs)).
		Msg("Statement ingested")
	return result, nil
}

func parseRecord(cfg Config, record []string, row int) (models.CreateTransaction, *Error) {
	date := field(record, cfg.DatePosition)
	description := field(record, cfg.DescriptionPosition)

	parsedAmount, err := parseAmount(cfg, record)
	if err != nil {
		return models.CreateTransaction{}, &Error{Kind: KindAmountConversion, Row: row, Err: err}
	}

	paymentDate, err := time.Parse(cfg.dateLayout(), date)
	if err != nil {
		return models.CreateTransaction{}, &Error{Kind: KindDateConversion, Row: row, Err: err}
	}

	return models.CreateTransaction{
		AccountType: cfg.Institution,
		PaymentDate: paymentDate,
		Amount:      parsedAmount,
		Description: description,
	}, nil
}

// parseAmount reads the amount column as is; cells are not trimmed. With a
// debit column the two cells are optional and netted.
func parseAmount(cfg Config, record []string) (float64, error) {
	amount := field(record, cfg.AmountPosition)
	if cfg.DebitPosition == nil {
		return strconv.ParseFloat(amount, 64)
	}

	credit, err := optionalAmount(amount)
	if err != nil {
		return 0, err
	}
	debit, err := optionalAmount(field(record, *cfg.DebitPosition))
	if err != nil {
		return 0, err
	}
	return credit - debit, nil
}

func optionalAmount(cell string) (float64, error) {
	if cell == "" {
		return 0, nil
	}
	return strconv.ParseFloat(cell, 64)
}

// field returns the column at pos, or "" when the row is shorter.
func field(record []string, pos int) string {
	if pos < 0 || pos >= len(record) {
		return ""
	}
	return record[pos]
}

func (i *Importer) abort(cfg Config, result Result, err *Error) error {
	i.log.Warn().
		Err(err.Err).
		Str("institution", cfg.Institution).
		Int("row", err.Row).
		Int("created", len(result.IDs)).
		Str("kind", err.Kind.String()).
		Msg("Statement ingestion aborted")
	return err
}
