package service

import (
	"errors"
	"fmt"

	"github.com/eaglebank/statement-service/internal/repository"
)

// Kind names the facade operation that failed.
type Kind int

const (
	KindSave Kind = iota + 1
	KindFind
	KindDelete
	KindClose
)

func (k Kind) String() string {
	switch k {
	case KindSave:
		return "SaveError"
	case KindFind:
		return "FindError"
	case KindDelete:
		return "DeleteError"
	case KindClose:
		return "CloseError"
	default:
		return "UnknownError"
	}
}

// Reason re-expresses the backend failure class without exposing backend
// types to transports.
type Reason int

const (
	ReasonBackend Reason = iota
	ReasonConnection
	ReasonClient
	ReasonSerialization
	ReasonStringConversion
	ReasonUnknownValue
	ReasonInvalidID
)

func (r Reason) String() string {
	switch r {
	case ReasonConnection:
		return "connection"
	case ReasonClient:
		return "client"
	case ReasonSerialization:
		return "serialization"
	case ReasonStringConversion:
		return "string conversion"
	case ReasonUnknownValue:
		return "unknown value"
	case ReasonInvalidID:
		return "invalid id"
	default:
		return "backend"
	}
}

type TransactionError struct {
	Kind    Kind
	Reason  Reason
	Message string
}

func (e *TransactionError) Error() string {
	return fmt.Sprintf("TransactionError -> %s (%s): %s", e.Kind, e.Reason, e.Message)
}

// fromDatabaseError maps an adapter failure onto the facade taxonomy. Only the
// message of the backend error survives.
func fromDatabaseError(kind Kind, err error) *TransactionError {
	reason := ReasonBackend
	var dbErr *repository.DatabaseError
	if errors.As(err, &dbErr) {
		switch dbErr.Kind {
		case repository.KindConnection:
			reason = ReasonConnection
		case repository.KindClient:
			reason = ReasonClient
		case repository.KindSerialization:
			reason = ReasonSerialization
		case repository.KindStringConversion:
			reason = ReasonStringConversion
		case repository.KindUnknownValue:
			reason = ReasonUnknownValue
		case repository.KindInvalidID:
			reason = ReasonInvalidID
		}
	}
	return &TransactionError{Kind: kind, Reason: reason, Message: err.Error()}
}

// IsInvalidID reports whether err was caused by a malformed transaction id.
func IsInvalidID(err error) bool {
	var txErr *TransactionError
	return errors.As(err, &txErr) && txErr.Reason == ReasonInvalidID
}
