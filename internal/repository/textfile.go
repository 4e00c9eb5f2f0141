package repository

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/eaglebank/statement-service/internal/models"
)

const textFileBackend = "textfile"

// TextFileStore appends one JSON record per line to a single file. Reads and
// deletes scan the whole file; there is no index.
type TextFileStore struct {
	path string
	file *os.File
}

func NewTextFileStore(path string) *TextFileStore {
	return &TextFileStore{path: path}
}

func (s *TextFileStore) Connected() bool {
	return s.file != nil
}

func (s *TextFileStore) Connect(ctx context.Context) error {
	if s.file != nil {
		return nil
	}

	file, err := os.OpenFile(s.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return newError(textFileBackend, KindConnection, err)
	}
	s.file = file
	return nil
}

func (s *TextFileStore) Disconnect(ctx context.Context) error {
	if s.file == nil {
		return nil
	}
	file := s.file
	s.file = nil
	if err := file.Close(); err != nil {
		return newError(textFileBackend, KindConnection, err)
	}
	return nil
}

// Reset disconnects and removes the file, dropping every record.
func (s *TextFileStore) Reset(ctx context.Context) error {
	if err := s.Disconnect(ctx); err != nil {
		return err
	}
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return newError(textFileBackend, KindConnection, err)
	}
	return nil
}

func (s *TextFileStore) Create(ctx context.Context, tx models.CreateTransaction) (string, error) {
	if err := s.Connect(ctx); err != nil {
		return "", err
	}

	record := tx.ToTransaction(newRecordID(), time.Now().UTC())
	line, err := encodeRecord(record)
	if err != nil {
		return "", newError(textFileBackend, KindSerialization, err)
	}
	if _, err := s.file.Write(append(line, '\n')); err != nil {
		return "", newError(textFileBackend, KindSave, fmt.Errorf("failed to append transaction: %w", err))
	}
	return record.ID, nil
}

func (s *TextFileStore) Get(ctx context.Context, id string) (*models.Transaction, error) {
	if !validRecordID(id) {
		return nil, newError(textFileBackend, KindInvalidID, fmt.Errorf("invalid transaction id %q", id))
	}
	if err := s.Connect(ctx); err != nil {
		return nil, err
	}

	var found *models.Transaction
	err := s.scan(func(tx models.Transaction) {
		if tx.ID == id {
			found = &tx
		}
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

func (s *TextFileStore) GetAll(ctx context.Context) ([]models.Transaction, error) {
	if err := s.Connect(ctx); err != nil {
		return nil, err
	}

	transactions := []models.Transaction{}
	err := s.scan(func(tx models.Transaction) {
		transactions = append(transactions, tx)
	})
	if err != nil {
		return nil, err
	}
	return transactions, nil
}

// Delete rewrites the file without the record. Unknown ids leave the file
// untouched.
func (s *TextFileStore) Delete(ctx context.Context, id string) error {
	if !validRecordID(id) {
		return newError(textFileBackend, KindInvalidID, fmt.Errorf("invalid transaction id %q", id))
	}
	if err := s.Connect(ctx); err != nil {
		return err
	}

	var (
		kept    bytes.Buffer
		removed bool
	)
	err := s.scanLines(func(line []byte) error {
		tx, err := decodeRecord(line)
		if err != nil {
			return newError(textFileBackend, KindSerialization, err)
		}
		if tx.ID == id {
			removed = true
			return nil
		}
		kept.Write(line)
		kept.WriteByte('\n')
		return nil
	})
	if err != nil {
		return err
	}
	if !removed {
		return nil
	}

	if err := s.replace(kept.Bytes()); err != nil {
		return newError(textFileBackend, KindDelete, err)
	}
	return nil
}

// replace swaps the file content for data and reopens the append handle.
func (s *TextFileStore) replace(data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}

	if err := s.file.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	s.file = nil
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace %s: %w", s.path, err)
	}

	file, err := os.OpenFile(s.path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	s.file = file
	return nil
}

func (s *TextFileStore) scan(fn func(models.Transaction)) error {
	return s.scanLines(func(line []byte) error {
		tx, err := decodeRecord(line)
		if err != nil {
			return newError(textFileBackend, KindSerialization, err)
		}
		fn(tx)
		return nil
	})
}

func (s *TextFileStore) scanLines(fn func([]byte) error) error {
	file, err := os.Open(s.path)
	if err != nil {
		return newError(textFileBackend, KindGet, err)
	}
	defer file.Close()

	reader := bufio.NewReader(file)
	for {
		line, err := reader.ReadBytes('\n')
		line = bytes.TrimSpace(line)
		if len(line) > 0 {
			if ferr := fn(line); ferr != nil {
				return ferr
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return newError(textFileBackend, KindGet, err)
		}
	}
}

var _ Backend = (*TextFileStore)(nil)
