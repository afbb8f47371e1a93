package repository

import (
	"context"
	"errors"
	"fmt"

	"golang-quant-dashboard/internal/entity"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type postgresKVStore struct {
	db *gorm.DB
}

// NewPostgresKVStore stores values in the dashboard_kv table.
func NewPostgresKVStore(db *gorm.DB) KeyValueStore {
	return &postgresKVStore{db: db}
}

func (s *postgresKVStore) Get(ctx context.Context, key string) ([]byte, error) {
	var entry entity.KeyValueEntry
	if err := s.db.WithContext(ctx).Where("key = ?", key).First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrKeyNotFound
		}
		return nil, fmt.Errorf("failed to get key %s: %w", key, err)
	}
	return []byte(entry.Value), nil
}

func (s *postgresKVStore) Put(ctx context.Context, key string, value []byte) error {
	entry := entity.KeyValueEntry{Key: key, Value: datatypes.JSON(value)}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
	if err != nil {
		return fmt.Errorf("failed to put key %s: %w", key, err)
	}
	return nil
}
