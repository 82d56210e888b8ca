package models

import "time"

// ReservationTable links a reservation to a physical table. The pair is
// the primary key, so a table can be bound to a reservation at most once.
type ReservationTable struct {
	ReservationID uint        `gorm:"primaryKey;autoIncrement:false" json:"reservation_id"`
	Reservation   Reservation `gorm:"foreignKey:ReservationID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	TableID       uint        `gorm:"primaryKey;autoIncrement:false" json:"table_id"`
	Table         Table       `gorm:"foreignKey:TableID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	CreatedAt     time.Time   `json:"created_at"`
}
