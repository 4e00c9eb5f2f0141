package repository

import (
	"context"
	"testing"
	"time"

	"github.com/eaglebank/statement-service/internal/models"
)

// runBackendContract checks the behaviour every Backend must share. absentID
// must be well formed for the backend but never created.
func runBackendContract(t *testing.T, newBackend func(t *testing.T) Backend, absentID, malformedID string) {
	ctx := context.Background()
	sample := models.CreateTransaction{
		AccountType: "Amex",
		PaymentDate: time.Date(2024, 1, 1, 9, 30, 0, 0, time.UTC),
		Amount:      12.34,
		Description: "coffee",
	}

	t.Run("round trip", func(t *testing.T) {
		backend := newBackend(t)
		id, err := backend.Create(ctx, sample)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		got, err := backend.Get(ctx, id)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got == nil {
			t.Fatal("expected a transaction")
		}
		if got.ID != id || got.AccountType != sample.AccountType || got.Amount != sample.Amount ||
			got.Description != sample.Description || !got.PaymentDate.Equal(sample.PaymentDate) {
			t.Errorf("round trip mismatch: %+v", got)
		}
		if got.CreatedAt.IsZero() || got.UpdatedAt.IsZero() {
			t.Errorf("expected persistence timestamps, got %+v", got)
		}
	})

	t.Run("ids are unique", func(t *testing.T) {
		backend := newBackend(t)
		seen := map[string]bool{}
		for i := 0; i < 5; i++ {
			id, err := backend.Create(ctx, sample)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if seen[id] {
				t.Fatalf("duplicate id %s", id)
			}
			seen[id] = true
		}
	})

	t.Run("absent id", func(t *testing.T) {
		backend := newBackend(t)
		got, err := backend.Get(ctx, absentID)
		if err != nil || got != nil {
			t.Errorf("expected (nil, nil), got (%v, %v)", got, err)
		}
	})

	t.Run("malformed id", func(t *testing.T) {
		backend := newBackend(t)
		_, err := backend.Get(ctx, malformedID)
		requireKind(t, err, KindInvalidID)
	})

	t.Run("delete", func(t *testing.T) {
		backend := newBackend(t)
		keep, err := backend.Create(ctx, sample)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		drop, err := backend.Create(ctx, sample)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if err := backend.Delete(ctx, drop); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got, err := backend.Get(ctx, drop); err != nil || got != nil {
			t.Errorf("expected deleted record to be gone, got (%v, %v)", got, err)
		}
		if got, err := backend.Get(ctx, keep); err != nil || got == nil {
			t.Errorf("expected other record to survive, got (%v, %v)", got, err)
		}
		if err := backend.Delete(ctx, absentID); err != nil {
			t.Errorf("expected deleting an absent id to succeed, got %v", err)
		}
	})

	t.Run("get all", func(t *testing.T) {
		backend := newBackend(t)
		all, err := backend.GetAll(ctx)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(all) != 0 {
			t.Fatalf("expected empty store, got %d records", len(all))
		}

		ids := map[string]bool{}
		for i := 0; i < 3; i++ {
			id, err := backend.Create(ctx, sample)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			ids[id] = true
		}
		all, err = backend.GetAll(ctx)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(all) != 3 {
			t.Fatalf("expected 3 records, got %d", len(all))
		}
		for _, tx := range all {
			if !ids[tx.ID] {
				t.Errorf("unexpected id %s", tx.ID)
			}
		}
	})

	t.Run("lifecycle is idempotent", func(t *testing.T) {
		backend := newBackend(t)
		if err := backend.Disconnect(ctx); err != nil {
			t.Fatalf("expected disconnect before connect to be a no-op, got %v", err)
		}
		if err := backend.Connect(ctx); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if err := backend.Connect(ctx); err != nil {
			t.Fatalf("expected second connect to be a no-op, got %v", err)
		}
		if !backend.Connected() {
			t.Fatal("expected backend to be connected")
		}
		if err := backend.Disconnect(ctx); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if err := backend.Disconnect(ctx); err != nil {
			t.Fatalf("expected second disconnect to be a no-op, got %v", err)
		}
		if backend.Connected() {
			t.Fatal("expected backend to be disconnected")
		}
	})

	t.Run("operations reconnect", func(t *testing.T) {
		backend := newBackend(t)
		id, err := backend.Create(ctx, sample)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if err := backend.Disconnect(ctx); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		got, err := backend.Get(ctx, id)
		if err != nil || got == nil {
			t.Fatalf("expected record after reconnect, got (%v, %v)", got, err)
		}
		if !backend.Connected() {
			t.Error("expected get to reconnect")
		}
	})
}
