package models

import "time"

// OrderSequence is the per-day counter behind order numbers. One row per
// calendar date, incremented atomically, never decremented or reused.
type OrderSequence struct {
	DateKey   string    `gorm:"column:date_key;primaryKey"`
	Counter   int64     `gorm:"column:counter;not null;default:0"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
