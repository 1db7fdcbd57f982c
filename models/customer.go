package models

type CustomerStatus string

const (
	CustomerActive   CustomerStatus = "active"
	CustomerInactive CustomerStatus = "inactive"
)

func (s CustomerStatus) Valid() bool {
	return s == CustomerActive || s == CustomerInactive
}

type Customer struct {
	Base
	UserID  *string        `gorm:"type:varchar(36);index" json:"user_id,omitempty"`
	Name    string         `gorm:"type:varchar(255);not null" json:"name"`
	Email   string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Phone   string         `gorm:"type:varchar(50)" json:"phone"`
	Address string         `gorm:"type:varchar(255)" json:"address,omitempty"`
	Visits  int            `gorm:"not null;default:0" json:"visits"`
	Status  CustomerStatus `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
}
