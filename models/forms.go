package models

import "time"

// Request payloads shared by the HTTP handlers and the Go client. Partial updates use
// pointer fields; nil means "leave unchanged".

type LoginForm struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RegisterForm struct {
	Name     string `json:"name" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Phone    string `json:"phone,omitempty" validate:"omitempty,max=50"`
}

type UserForm struct {
	Name     string `json:"name" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Role     Role   `json:"role" validate:"required,enum"`
	Phone    string `json:"phone,omitempty" validate:"omitempty,max=50"`
}

type UserUpdate struct {
	Name     *string `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email,max=255"`
	Password *string `json:"password,omitempty" validate:"omitempty,min=8,max=72"`
	Role     *Role   `json:"role,omitempty" validate:"omitempty,enum"`
	Phone    *string `json:"phone,omitempty" validate:"omitempty,max=50"`
}

type CustomerForm struct {
	UserID  *string        `json:"user_id,omitempty" validate:"omitempty,uuid"`
	Name    string         `json:"name" validate:"required,max=255"`
	Email   string         `json:"email" validate:"required,email,max=255"`
	Phone   string         `json:"phone" validate:"required,max=50"`
	Address string         `json:"address,omitempty" validate:"omitempty,max=255"`
	Status  CustomerStatus `json:"status,omitempty" validate:"omitempty,enum"`
}

type CustomerUpdate struct {
	UserID  *string         `json:"user_id,omitempty" validate:"omitempty,uuid"`
	Name    *string         `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Email   *string         `json:"email,omitempty" validate:"omitempty,email,max=255"`
	Phone   *string         `json:"phone,omitempty" validate:"omitempty,min=1,max=50"`
	Address *string         `json:"address,omitempty" validate:"omitempty,max=255"`
	Visits  *int            `json:"visits,omitempty" validate:"omitempty,min=0"`
	Status  *CustomerStatus `json:"status,omitempty" validate:"omitempty,enum"`
}

type MenuItemForm struct {
	Name        string       `json:"name" validate:"required,max=255"`
	Description string       `json:"description" validate:"max=2000"`
	Price       float64      `json:"price" validate:"gte=0,cents"`
	Image       string       `json:"image,omitempty" validate:"omitempty,max=255"`
	Category    MenuCategory `json:"category" validate:"required,enum"`
	// Available defaults to true when omitted.
	Available *bool `json:"available,omitempty"`
}

type MenuItemUpdate struct {
	Name        *string       `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Description *string       `json:"description,omitempty" validate:"omitempty,max=2000"`
	Price       *float64      `json:"price,omitempty" validate:"omitempty,gte=0,cents"`
	Image       *string       `json:"image,omitempty" validate:"omitempty,max=255"`
	Category    *MenuCategory `json:"category,omitempty" validate:"omitempty,enum"`
	Available   *bool         `json:"available,omitempty"`
}

type ItemForm struct {
	MenuItemID string `json:"menu_item_id" validate:"required"`
	Quantity   int    `json:"quantity" validate:"required,min=1,max=50"`
}

// BookingForm is what the public booking page submits.
type BookingForm struct {
	Name            string     `json:"name" validate:"required,max=255"`
	Email           string     `json:"email" validate:"required,email,max=255"`
	Phone           string     `json:"phone" validate:"required,max=50"`
	DateTime        time.Time  `json:"date_time" validate:"required"`
	PartySize       int        `json:"party_size" validate:"required,min=1,max=20"`
	TableType       TableType  `json:"table_type" validate:"required,enum"`
	SpecialRequests string     `json:"special_requests,omitempty" validate:"max=1000"`
	Items           []ItemForm `json:"items,omitempty" validate:"omitempty,max=50,dive"`
}

type ReservationUpdate struct {
	DateTime        *time.Time         `json:"date_time,omitempty"`
	PartySize       *int               `json:"party_size,omitempty" validate:"omitempty,min=1,max=20"`
	TableType       *TableType         `json:"table_type,omitempty" validate:"omitempty,enum"`
	SpecialRequests *string            `json:"special_requests,omitempty" validate:"omitempty,max=1000"`
	Status          *ReservationStatus `json:"status,omitempty" validate:"omitempty,enum"`
	Items           *[]ItemForm        `json:"items,omitempty" validate:"omitempty,max=50,dive"`
	// Version is the token read with the reservation; a stale value is rejected.
	Version *string `json:"version,omitempty"`
}
