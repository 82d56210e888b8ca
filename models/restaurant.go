package models

import "time"

type Restaurant struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	OwnerID     uint   `gorm:"not null;index" json:"owner_id"`
	Owner       User   `gorm:"foreignKey:OwnerID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	Name        string `gorm:"type:varchar(255);not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	Address     string `gorm:"type:varchar(255)" json:"address"`
	Phone       string `gorm:"type:varchar(50)" json:"phone"`
	// BusinessHours holds the opening schedule as a JSON document,
	// e.g. {"mon": ["12:00-16:00", "19:00-23:00"], ...}
	BusinessHours string `gorm:"type:text" json:"business_hours"`
	// ReservationMinutes is the service duration used to derive the
	// occupancy window of a reservation around its requested time.
	ReservationMinutes int       `gorm:"not null;default:120" json:"reservation_minutes"`
	CreatedAt          time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt          time.Time `gorm:"not null" json:"updated_at"`
}
