package models

import "time"

type Customer struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	RestaurantID uint       `gorm:"not null;uniqueIndex:uniq_customer_phone" json:"restaurant_id"`
	Restaurant   Restaurant `gorm:"foreignKey:RestaurantID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Name         string     `gorm:"type:varchar(255);not null" json:"name"`
	// Phone is the natural dedup key: one customer record per phone
	// number per restaurant.
	Phone     string    `gorm:"type:varchar(50);not null;uniqueIndex:uniq_customer_phone" json:"phone"`
	Email     *string   `gorm:"type:varchar(255)" json:"email,omitempty"`
	Notes     *string   `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}
