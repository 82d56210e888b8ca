package models

import "time"

type Dish struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	CategoryID  uint         `gorm:"not null;index" json:"category_id"`
	Category    MenuCategory `gorm:"foreignKey:CategoryID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	Name        string       `gorm:"type:varchar(255);not null" json:"name"`
	Description string       `gorm:"type:text" json:"description"`
	SellPrice   float64      `gorm:"type:decimal(10,2);not null" json:"sell_price"`
	// Allergens is a comma-separated list shown on the menu, e.g.
	// "gluten,shellfish". Informational only, never validated.
	Allergens string `gorm:"type:varchar(255)" json:"allergens,omitempty"`
	// ProductionCost is kept alongside the sell price for margin
	// reporting; it is never snapshotted into orders.
	ProductionCost float64   `gorm:"type:decimal(10,2);not null;default:0.00" json:"production_cost"`
	Active         bool      `gorm:"not null;default:true" json:"active"`
	CreatedAt      time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time `gorm:"not null" json:"updated_at"`
}
