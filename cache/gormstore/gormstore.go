// Package gormstore provides a gorm backed cache store.
//
// Any gorm dialector works; entries live in the cache_entries table which
// is created on New when missing.
package gormstore

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// GORMStore is a gorm backed key-value store.
type GORMStore struct {
	db *gorm.DB
}

// entry is one cached body.
type entry struct {
	Key       string `gorm:"primaryKey;size:255"`
	Data      []byte
	UpdatedAt time.Time
}

func (entry) TableName() string { return "cache_entries" }

// New creates and returns a new GORMStore instance.
func New(db *gorm.DB) (*GORMStore, error) {
	s := &GORMStore{db: db}
	if err := db.AutoMigrate(&entry{}); err != nil {
		return nil, fmt.Errorf("migrate cache_entries: %w", err)
	}
	return s, nil
}

// Get retrieves the data stored under key.
func (s *GORMStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	e := &entry{}
	tx := s.db.WithContext(ctx).Where(&entry{Key: key}).Limit(1).Find(e)
	if tx.Error != nil || tx.RowsAffected == 0 {
		return nil, false, tx.Error
	}
	return e.Data, true, nil
}

// Set stores data under key, overwriting an existing row.
func (s *GORMStore) Set(ctx context.Context, key string, data []byte) error {
	e := &entry{}
	tx := s.db.WithContext(ctx).
		Where(entry{Key: key}).
		Assign(entry{Data: data, UpdatedAt: time.Now()}).
		FirstOrCreate(e)
	return tx.Error
}

// Delete removes key.
func (s *GORMStore) Delete(ctx context.Context, key string) error {
	return s.db.WithContext(ctx).Where(&entry{Key: key}).Delete(&entry{}).Error
}

// DeleteAll truncates the cache table.
func (s *GORMStore) DeleteAll(ctx context.Context) error {
	return s.db.WithContext(ctx).Where("1 = 1").Delete(&entry{}).Error
}
