package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Table status values
const (
	TableFree     = "FREE"
	TableOccupied = "OCCUPIED"
	TableReserved = "RESERVED"
	TableCleaning = "CLEANING"
)

type Table struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	BusinessID uuid.UUID `gorm:"type:uuid;index;not null" json:"businessId"`

	Number   int    `gorm:"not null;uniqueIndex:idx_business_table_number,priority:2" json:"number"`
	Capacity int    `gorm:"default:4" json:"capacity"`
	Status   string `gorm:"type:varchar(20);default:'FREE'" json:"status"`
	PIN      string `gorm:"column:pin;type:varchar(4)" json:"-"`

	ReservedByID *uuid.UUID `gorm:"type:uuid" json:"reservedById"`

	// Floor-plan placement, consumed by the UI only
	PosX        float64 `gorm:"default:0" json:"posX"`
	PosY        float64 `gorm:"default:0" json:"posY"`
	Orientation int     `gorm:"default:0" json:"orientation"`

	gorm.Model
}

func (t *Table) BeforeCreate(tx *gorm.DB) (err error) {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return
}
