package model

import "time"

// TimeRange is a configured interview window. Slots are generated from it.
type TimeRange struct {
	StartTime time.Time `gorm:"primaryKey"`
	EndTime   time.Time `gorm:"not null;check:chk_time_ranges_order,end_time > start_time"`
	CreatedAt time.Time `gorm:"not null"`
}
