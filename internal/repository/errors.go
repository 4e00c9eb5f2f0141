package repository

import (
	"errors"
	"fmt"
)

// Kind classifies a backend failure independently of the backend that
// produced it.
type Kind int

const (
	KindConnection Kind = iota + 1
	KindClient
	KindSave
	KindGet
	KindDelete
	KindSerialization
	KindStringConversion
	KindUnknownValue
	KindInvalidID
)

func (k Kind) String() string {
	switch k {
	case KindConnection:
		return "ConnectionError"
	case KindClient:
		return "ClientError"
	case KindSave:
		return "SaveError"
	case KindGet:
		return "GetError"
	case KindDelete:
		return "DeleteError"
	case KindSerialization:
		return "SerializationError"
	case KindStringConversion:
		return "StringConversionError"
	case KindUnknownValue:
		return "UnknownValueError"
	case KindInvalidID:
		return "InvalidIDError"
	default:
		return "UnknownError"
	}
}

// DatabaseError is the error every adapter returns. Err keeps the native
// failure for logging.
type DatabaseError struct {
	Kind    Kind
	Backend string
	Err     error
}

func (e *DatabaseError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Backend, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Backend, e.Kind, e.Err)
}

func (e *DatabaseError) Unwrap() error {
	return e.Err
}

func newError(backend string, kind Kind, err error) *DatabaseError {
	return &DatabaseError{Kind: kind, Backend: backend, Err: err}
}

// KindOf reports the Kind of err, or 0 when err is not a DatabaseError.
func KindOf(err error) Kind {
	var dbErr *DatabaseError
	if errors.As(err, &dbErr) {
		return dbErr.Kind
	}
	return 0
}
