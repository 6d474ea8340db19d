package gormstore

import (
	"context"
	"errors"
	"testing"

	"github.com/EvergreenMarketLab/ecorewards/pkg/docstore"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func mustOpenStore(test *testing.T) *Store {
	test.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		test.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&Document{}); err != nil {
		test.Fatalf("migrate: %v", err)
	}
	return New(db)
}

func TestLoadMissingDocument(test *testing.T) {
	test.Parallel()
	store := mustOpenStore(test)

	document, found, err := store.Load(context.Background(), "user-rewards")
	if err != nil {
		test.Fatalf("load: %v", err)
	}
	if found || document != nil {
		test.Fatalf("expected not found, got found=%v document=%s", found, document)
	}
}

func TestSaveThenLoadRoundTrip(test *testing.T) {
	test.Parallel()
	store := mustOpenStore(test)
	payload := []byte(`{"totalPoints":305}`)

	if err := store.Save(context.Background(), "user-rewards", payload); err != nil {
		test.Fatalf("save: %v", err)
	}
	document, found, err := store.Load(context.Background(), "user-rewards")
	if err != nil {
		test.Fatalf("load: %v", err)
	}
	if !found || string(document) != string(payload) {
		test.Fatalf("round trip mismatch: found=%v document=%s", found, document)
	}
}

func TestSaveUpsertsExistingKey(test *testing.T) {
	test.Parallel()
	store := mustOpenStore(test)

	if err := store.Save(context.Background(), "cart-items", []byte(`[]`)); err != nil {
		test.Fatalf("save: %v", err)
	}
	if err := store.Save(context.Background(), "cart-items", []byte(`[{"id":"p1","quantity":1}]`)); err != nil {
		test.Fatalf("second save: %v", err)
	}
	document, _, err := store.Load(context.Background(), "cart-items")
	if err != nil {
		test.Fatalf("load: %v", err)
	}
	if string(document) != `[{"id":"p1","quantity":1}]` {
		test.Fatalf("expected second save to win, got %s", document)
	}
}

func TestSaveRejectsInvalidJSON(test *testing.T) {
	test.Parallel()
	store := mustOpenStore(test)

	err := store.Save(context.Background(), "user-rewards", []byte("{broken"))
	if !errors.Is(err, docstore.ErrInvalidDocument) {
		test.Fatalf("expected ErrInvalidDocument, got %v", err)
	}
	var operationErr docstore.OperationError
	if !errors.As(err, &operationErr) {
		test.Fatalf("expected OperationError wrapping, got %T", err)
	}
	if operationErr.Code() != "invalid" {
		test.Fatalf("expected code invalid, got %s", operationErr.Code())
	}
}

func TestEmptyKeyRejected(test *testing.T) {
	test.Parallel()
	store := mustOpenStore(test)

	if _, _, err := store.Load(context.Background(), "  "); !errors.Is(err, docstore.ErrInvalidKey) {
		test.Fatalf("expected ErrInvalidKey on load, got %v", err)
	}
	if err := store.Save(context.Background(), "", []byte(`{}`)); !errors.Is(err, docstore.ErrInvalidKey) {
		test.Fatalf("expected ErrInvalidKey on save, got %v", err)
	}
}

func TestKeysAreTrimmed(test *testing.T) {
	test.Parallel()
	store := mustOpenStore(test)

	if err := store.Save(context.Background(), " ecocoin-balance ", []byte(`{"total":0}`)); err != nil {
		test.Fatalf("save: %v", err)
	}
	_, found, err := store.Load(context.Background(), "ecocoin-balance")
	if err != nil {
		test.Fatalf("load: %v", err)
	}
	if !found {
		test.Fatalf("expected trimmed key to resolve the same document")
	}
}
