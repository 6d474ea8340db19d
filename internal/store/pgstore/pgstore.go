// Package pgstore implements the document store over raw pgx for postgres
// deployments that bypass GORM.
package pgstore

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/EvergreenMarketLab/ecorewards/pkg/docstore"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	errorOperationStore  = "store"
	errorSubjectDocument = "document"
	errorSubjectSchema   = "schema"
	errorCodeEnsure      = "ensure"
	errorCodeInvalid     = "invalid"
	errorCodeLoad        = "load"
	errorCodeSave        = "save"

	sqlEnsureSchema = `
		create table if not exists documents(
			key text primary key,
			value jsonb not null,
			updated_at timestamptz not null default now()
		)
	`
	sqlLoadDocument = `select value from documents where key = $1`
	sqlSaveDocument = `
		insert into documents(key, value, updated_at) values($1, $2, now())
		on conflict (key) do update set value = excluded.value, updated_at = now()
	`
)

// Store implements the engines' document-store contract over a pgx pool.
type Store struct {
	pool *pgxpool.Pool
}

// New returns a Store backed by a pgx connection pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// EnsureSchema creates the documents table when it does not exist.
func (store *Store) EnsureSchema(ctx context.Context) error {
	if _, err := store.pool.Exec(ctx, sqlEnsureSchema); err != nil {
		return docstore.WrapError(errorOperationStore, errorSubjectSchema, errorCodeEnsure, err)
	}
	return nil
}

// Load reads the document stored under key; found is false when no document
// exists yet.
func (store *Store) Load(ctx context.Context, key string) ([]byte, bool, error) {
	normalizedKey, err := normalizeKey(key)
	if err != nil {
		return nil, false, err
	}
	var value []byte
	err = store.pool.QueryRow(ctx, sqlLoadDocument, normalizedKey).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, wrapStoreError(errorCodeLoad, err)
	}
	return value, true, nil
}

// Save upserts the whole document under key.
func (store *Store) Save(ctx context.Context, key string, document []byte) error {
	normalizedKey, err := normalizeKey(key)
	if err != nil {
		return err
	}
	if !json.Valid(document) {
		return wrapStoreError(errorCodeInvalid, docstore.ErrInvalidDocument)
	}
	if _, err := store.pool.Exec(ctx, sqlSaveDocument, normalizedKey, document); err != nil {
		return wrapStoreError(errorCodeSave, err)
	}
	return nil
}

func normalizeKey(key string) (string, error) {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return "", wrapStoreError(errorCodeInvalid, docstore.ErrInvalidKey)
	}
	return trimmed, nil
}

func wrapStoreError(code string, err error) error {
	return docstore.WrapError(errorOperationStore, errorSubjectDocument, code, err)
}
