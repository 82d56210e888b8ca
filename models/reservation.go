package models

import "time"

type Reservation struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	RestaurantID uint       `gorm:"not null;index" json:"restaurant_id"`
	Restaurant   Restaurant `gorm:"foreignKey:RestaurantID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	CustomerID   uint       `gorm:"not null;index" json:"customer_id"`
	Customer     Customer   `gorm:"foreignKey:CustomerID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"customer"`
	RequestedAt  time.Time  `gorm:"not null;index" json:"requested_at"`
	PartySize    int        `gorm:"not null" json:"party_size"`
	Status       string     `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	Notes        *string    `gorm:"type:text" json:"notes,omitempty"`
	Tables       []Table    `gorm:"many2many:reservation_tables;" json:"tables,omitempty"`
	CreatedAt    time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"not null" json:"updated_at"`
}
