// Package repo implements the persistence layer, backed by GORM. This file
// provides the application-state store: a small key/value table of JSON
// documents used for the daily rate-limit counter and the saved-trip
// collection.
//
// All methods are context-aware. A missing key is reported through the
// found flag, never as an error; errors mean the database itself failed.
package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tebi-travel/go-trip-backend/internal/domain"
)

// StateStore reads and writes StateEntry rows.
type StateStore struct {
	db *gorm.DB
}

// NewStateStore constructs a StateStore over db.
func NewStateStore(db *gorm.DB) *StateStore {
	return &StateStore{db: db}
}

// Get returns the value stored under key. found is false when the key has
// never been written.
func (s *StateStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var entry domain.StateEntry
	err := s.db.WithContext(ctx).
		Where("key = ?", key).
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return []byte(entry.Value), true, nil
}

// Put upserts value under key, replacing any previous value.
func (s *StateStore) Put(ctx context.Context, key string, value []byte) error {
	entry := domain.StateEntry{
		Key:       key,
		Value:     string(value),
		UpdatedAt: time.Now().UTC(),
	}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&entry).Error
}
