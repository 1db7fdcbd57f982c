package models

import "time"

// GuestUserID is the user context recorded for bookings made without logging in.
const GuestUserID = "guest"

type TableType string

const (
	TableRegular    TableType = "regular"
	TableWindow     TableType = "window"
	TableBooth      TableType = "booth"
	TableLargeGroup TableType = "large-group"
	TablePrivate    TableType = "private"
)

var TableTypes = []TableType{TableRegular, TableWindow, TableBooth, TableLargeGroup, TablePrivate}

func (t TableType) Valid() bool {
	for _, known := range TableTypes {
		if t == known {
			return true
		}
	}
	return false
}

type Reservation struct {
	Base
	UserID          string            `gorm:"type:varchar(36);not null;index" json:"user_id"`
	CustomerID      string            `gorm:"type:varchar(36);not null;index" json:"customer_id"`
	Customer        *Customer         `gorm:"foreignKey:CustomerID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"customer,omitempty"`
	DateTime        time.Time         `gorm:"not null;index" json:"date_time"`
	PartySize       int               `gorm:"not null" json:"party_size"`
	TableType       TableType         `gorm:"type:varchar(20);not null" json:"table_type"`
	SpecialRequests string            `gorm:"type:text" json:"special_requests,omitempty"`
	Status          ReservationStatus `gorm:"type:varchar(15);not null;default:'pending';index" json:"status"`
	Version         string            `gorm:"type:varchar(36);not null" json:"version"`
	Items           []ReservationItem `gorm:"foreignKey:ReservationID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"items"`
	ReminderSentAt  *time.Time        `json:"reminder_sent_at,omitempty"`
}

// IsGuest reports whether the booking was made without an account.
func (r *Reservation) IsGuest() bool { return r.UserID == GuestUserID }

type ReservationItem struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	ReservationID string    `gorm:"type:varchar(36);not null;index" json:"-"`
	MenuItemID    string    `gorm:"type:varchar(36);not null" json:"menu_item_id"`
	MenuItem      *MenuItem `gorm:"foreignKey:MenuItemID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"menu_item,omitempty"`
	Quantity      int       `gorm:"not null" json:"quantity"`
}

// Total sums the ordered items at their current menu price. Items without a loaded
// MenuItem contribute nothing.
func (r *Reservation) Total() float64 {
	var total float64
	for _, item := range r.Items {
		if item.MenuItem != nil {
			total += item.MenuItem.Price * float64(item.Quantity)
		}
	}
	return total
}
