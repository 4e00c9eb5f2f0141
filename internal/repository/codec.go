package repository

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/eaglebank/statement-service/internal/models"
)

// encodeRecord renders a transaction in the shape stored by the textual
// backends.
func encodeRecord(tx models.Transaction) ([]byte, error) {
	data, err := json.Marshal(tx)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal transaction %s: %w", tx.ID, err)
	}
	return data, nil
}

func decodeRecord(data []byte) (models.Transaction, error) {
	var tx models.Transaction
	if err := json.Unmarshal(data, &tx); err != nil {
		return models.Transaction{}, fmt.Errorf("failed to unmarshal transaction: %w", err)
	}
	return tx, nil
}

func newRecordID() string {
	return uuid.NewString()
}

// validRecordID reports whether id has the shape produced by newRecordID.
func validRecordID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
