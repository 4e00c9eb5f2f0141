package ingest

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindConfig Kind = iota + 1
	KindRecord
	KindAmountConversion
	KindDateConversion
	KindSave
)

func (k Kind) String() string {
	switch k {
	case KindConfig:
		return "ConfigError"
	case KindRecord:
		return "RecordError"
	case KindAmountConversion:
		return "AmountConversionError"
	case KindDateConversion:
		return "DateConversionError"
	case KindSave:
		return "SaveError"
	default:
		return "UnknownError"
	}
}

// Error reports why an ingestion stopped. Row is the one-based record number
// in the input, header included; it is 0 for config errors.
type Error struct {
	Kind Kind
	Row  int
	Err  error
}

func (e *Error) Error() string {
	if e.Row == 0 {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s at row %d: %v", e.Kind, e.Row, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf reports the Kind of err, or 0 when err is not an ingest error.
func KindOf(err error) Kind {
	var ingestErr *Error
	if errors.As(err, &ingestErr) {
		return ingestErr.Kind
	}
	return 0
}
