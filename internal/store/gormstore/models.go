package gormstore

import (
	"time"

	"gorm.io/datatypes"
)

// Document mirrors the documents table: one whole JSON blob per key.
type Document struct {
	Key       string         `gorm:"primaryKey;column:key"`
	Value     datatypes.JSON `gorm:"type:jsonb;not null"`
	UpdatedAt time.Time      `gorm:"not null"`
}

func (Document) TableName() string { return "documents" }
