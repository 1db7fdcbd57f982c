package models

type MenuCategory string

const (
	CategoryStarter  MenuCategory = "starter"
	CategoryMain     MenuCategory = "main"
	CategoryDessert  MenuCategory = "dessert"
	CategoryBeverage MenuCategory = "beverage"
	CategoryPopular  MenuCategory = "popular"
)

// MenuCategories is the display order used by the menu listing.
var MenuCategories = []MenuCategory{CategoryPopular, CategoryStarter, CategoryMain, CategoryDessert, CategoryBeverage}

func (c MenuCategory) Valid() bool {
	for _, known := range MenuCategories {
		if c == known {
			return true
		}
	}
	return false
}

type MenuItem struct {
	Base
	Name        string       `gorm:"type:varchar(255);not null" json:"name"`
	Description string       `gorm:"type:text" json:"description"`
	Price       float64      `gorm:"type:decimal(10,2);not null" json:"price"`
	Image       string       `gorm:"type:varchar(255)" json:"image,omitempty"`
	Category    MenuCategory `gorm:"type:varchar(20);not null;index" json:"category"`
	Available   bool         `gorm:"not null" json:"available"`
}
