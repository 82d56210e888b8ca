package models

import "time"

// OrderTable links an open order to the table(s) it is served on.
type OrderTable struct {
	OrderID   uint      `gorm:"primaryKey;autoIncrement:false" json:"order_id"`
	Order     Order     `gorm:"foreignKey:OrderID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	TableID   uint      `gorm:"primaryKey;autoIncrement:false" json:"table_id"`
	Table     Table     `gorm:"foreignKey:TableID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}
