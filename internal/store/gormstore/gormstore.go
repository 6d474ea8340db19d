package gormstore

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/EvergreenMarketLab/ecorewards/pkg/docstore"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	errorOperationStore  = "store"
	errorSubjectDocument = "document"
	errorCodeInvalid     = "invalid"
	errorCodeLoad        = "load"
	errorCodeSave        = "save"
)

// Store implements the engines' document-store contract using GORM.
type Store struct {
	db *gorm.DB
}

// New returns a Store backed by gorm.DB.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Load reads the document stored under key; found is false when no document
// exists yet.
func (store *Store) Load(ctx context.Context, key string) ([]byte, bool, error) {
	normalizedKey, err := normalizeKey(key)
	if err != nil {
		return nil, false, err
	}
	var document Document
	err = store.db.WithContext(ctx).
		Where("key = ?", normalizedKey).
		Take(&document).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}
		return nil, false, wrapStoreError(errorCodeLoad, err)
	}
	return []byte(document.Value), true, nil
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
	row := Document{
		Key:       normalizedKey,
		Value:     datatypes.JSON(document),
		UpdatedAt: time.Now().UTC(),
	}
	err = store.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&row).Error
	if err != nil {
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
