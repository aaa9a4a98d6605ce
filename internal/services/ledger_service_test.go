package services

import (
	"context"
	"errors"
	"testing"

	"github.com/SharathHarish/KExpenseTracker/internal/core"
)

type fakeWriter struct {
	insertID  int64
	insertErr error
	deleteErr error
	deleted   []int64
	closed    bool
}

func (f *fakeWriter) Insert(_ context.Context, tx core.Transaction) (int64, error) {
	return f.insertID, f.insertErr
}

func (f *fakeWriter) Delete(_ context.Context, id int64) error {
	f.deleted = append(f.deleted, id)
	return f.deleteErr
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

type fakePublisher struct {
	created    []int64
	deleted    []int64
	publishErr error
	closed     bool
}

func (f *fakePublisher) PublishTransactionCreated(_ context.Context, id int64) error {
	f.created = append(f.created, id)
	return f.publishErr
}

func (f *fakePublisher) PublishTransactionDeleted(_ context.Context, id int64) error {
	f.deleted = append(f.deleted, id)
	return f.publishErr
}

func (f *fakePublisher) Close() error {
	f.closed = true
	return nil
}

func validTx() core.Transaction {
	return core.Transaction{
		Date:     core.NewDate(2024, 1, 5),
		Amount:   core.Money{Cents: 500000},
		Type:     core.Income,
		Category: "Salary",
	}
}

func TestAddTransactionPublishesCreatedEvent(t *testing.T) {
	writer := &fakeWriter{insertID: 42}
	pub := &fakePublisher{}
	svc := NewLedgerService(writer, pub)

	id, err := svc.AddTransaction(context.Background(), validTx())
	if err != nil {
		t.Fatalf("AddTransaction: %v", err)
	}
	if id != 42 {
		t.Fatalf("expected id 42, got %d", id)
	}
	if len(pub.created) != 1 || pub.created[0] != 42 {
		t.Fatalf("expected created event for id 42, got %v", pub.created)
	}
}

func TestAddTransactionStorageErrorFails(t *testing.T) {
	writer := &fakeWriter{insertErr: errors.New("disk gone")}
	pub := &fakePublisher{}
	svc := NewLedgerService(writer, pub)

	if _, err := svc.AddTransaction(context.Background(), validTx()); err == nil {
		t.Fatal("expected error when storage fails")
	}
	if len(pub.created) != 0 {
		t.Fatal("no event should be published when storage fails")
	}
}

func TestAddTransactionPublishErrorIsSwallowed(t *testing.T) {
	writer := &fakeWriter{insertID: 7}
	pub := &fakePublisher{publishErr: errors.New("broker down")}
	svc := NewLedgerService(writer, pub)

	id, err := svc.AddTransaction(context.Background(), validTx())
	if err != nil {
		t.Fatalf("publish failure must not fail the save: %v", err)
	}
	if id != 7 {
		t.Fatalf("expected id 7, got %d", id)
	}
}

func TestAddTransactionWithoutPublisher(t *testing.T) {
	writer := &fakeWriter{insertID: 3}
	svc := NewLedgerService(writer, nil)

	if _, err := svc.AddTransaction(context.Background(), validTx()); err != nil {
		t.Fatalf("AddTransaction without publisher: %v", err)
	}
}

func TestRemoveTransactionPublishesDeletedEvent(t *testing.T) {
	writer := &fakeWriter{}
	pub := &fakePublisher{}
	svc := NewLedgerService(writer, pub)

	if err := svc.RemoveTransaction(context.Background(), 9); err != nil {
		t.Fatalf("RemoveTransaction: %v", err)
	}
	if len(writer.deleted) != 1 || writer.deleted[0] != 9 {
		t.Fatalf("expected delete of id 9, got %v", writer.deleted)
	}
	if len(pub.deleted) != 1 || pub.deleted[0] != 9 {
		t.Fatalf("expected deleted event for id 9, got %v", pub.deleted)
	}
}

func TestCloseClosesBoth(t *testing.T) {
	writer := &fakeWriter{}
	pub := &fakePublisher{}
	svc := NewLedgerService(writer, pub)

	if err := svc.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !writer.closed || !pub.closed {
		t.Fatal("expected both storage and publisher to be closed")
	}
}

func TestCloseWithNilComponents(t *testing.T) {
	svc := &LedgerService{}
	if err := svc.Close(); err != nil {
		t.Fatalf("Close should not return error with nil components: %v", err)
	}
}
