package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderLog actions
const (
	LogCreated           = "CREATED"
	LogItemsUpdated      = "ITEMS_UPDATED"
	LogOrderSent         = "ORDER_SENT"
	LogItemStatusChanged = "ITEM_STATUS_CHANGED"
	LogStatusChanged     = "STATUS_CHANGED"
	LogOrderCancelled    = "ORDER_CANCELLED"
	LogPaid              = "PAID"
)

// OrderLog is an append-only audit record. Rows are never updated or
// deleted; one row is written per significant order transition.
type OrderLog struct {
	ID      uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	OrderID uuid.UUID `gorm:"type:uuid;index;not null" json:"orderId"`
	UserID  uuid.UUID `gorm:"type:uuid;index;not null" json:"userId"`

	Action  string `gorm:"type:varchar(30);not null" json:"action"`
	Details JSONB  `gorm:"type:jsonb;default:'{}'" json:"details"`

	gorm.Model
}

func (l *OrderLog) BeforeCreate(tx *gorm.DB) (err error) {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return
}
