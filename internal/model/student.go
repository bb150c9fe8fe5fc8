package model

import "time"

// Student is a row of the interview roster.
type Student struct {
	ID             int64       `gorm:"primaryKey;autoIncrement:false"`
	Name           string      `gorm:"size:128;not null"`
	CurrentSlot    *time.Time  `gorm:"uniqueIndex"` // NULL while the student is pending
	HasSibling     bool        `gorm:"not null"`
	SiblingSlots   []time.Time `gorm:"type:text;serializer:json"`
	RequestedSlots []time.Time `gorm:"type:text;serializer:json;not null"`
	CreatedAt      time.Time   `gorm:"not null"`
	UpdatedAt      time.Time   `gorm:"not null"`
}
