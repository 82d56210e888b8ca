package models

import "time"

type Order struct {
	ID            uint         `gorm:"primaryKey" json:"id"`
	RestaurantID  uint         `gorm:"not null;index" json:"restaurant_id"`
	Restaurant    Restaurant   `gorm:"foreignKey:RestaurantID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	CustomerID    *uint        `gorm:"index" json:"customer_id,omitempty"`
	Customer      *Customer    `gorm:"foreignKey:CustomerID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"customer,omitempty"`
	ReservationID *uint        `gorm:"index" json:"reservation_id,omitempty"`
	Reservation   *Reservation `gorm:"foreignKey:ReservationID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"reservation,omitempty"`
	Status        string       `gorm:"type:varchar(20);not null;default:'open'" json:"status"`
	// TotalAmount is derived from the line items and recomputed inside
	// the same transaction as every line-item mutation.
	TotalAmount float64     `gorm:"type:decimal(10,2);not null;default:0.00" json:"total_amount"`
	PlacedAt    time.Time   `gorm:"not null" json:"placed_at"`
	Items       []OrderItem `gorm:"foreignKey:OrderID" json:"items"`
	Tables      []Table     `gorm:"many2many:order_tables" json:"tables,omitempty"`
	CreatedAt   time.Time   `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time   `gorm:"not null" json:"updated_at"`
}
