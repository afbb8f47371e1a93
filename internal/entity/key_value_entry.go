package entity

import (
	"time"

	"gorm.io/datatypes"
)

// KeyValueEntry is a row of the durable key-value table.
type KeyValueEntry struct {
	Key       string         `gorm:"primaryKey;type:varchar(255)" json:"key"`
	Value     datatypes.JSON `gorm:"type:jsonb;not null" json:"value"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for the KeyValueEntry model.
func (KeyValueEntry) TableName() string {
	return "dashboard_kv"
}
