package models

import (
	"time"
)

// Notification is an entry in the admin console's notification panel.
type Notification struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Title         string    `gorm:"type:varchar(100);not null" json:"title"`
	Message       string    `gorm:"type:text;not null" json:"message"`
	ReservationID *string   `gorm:"type:varchar(36);index" json:"reservation_id,omitempty"`
	Read          bool      `gorm:"column:is_read;not null;default:false" json:"read"`
	CreatedAt     time.Time `gorm:"not null" json:"created_at"`
}
