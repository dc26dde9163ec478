package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Payment methods
const (
	PayCash     = "CASH"
	PayCard     = "CARD"
	PayTransfer = "TRANSFER"
	PayMixed    = "MIXED"
)

type Payment struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	BusinessID uuid.UUID `gorm:"type:uuid;index;not null" json:"businessId"`
	OrderID    uuid.UUID `gorm:"type:uuid;index;not null" json:"orderId"`
	UserID     uuid.UUID `gorm:"type:uuid;index;not null" json:"userId"` // cashier

	Amount    float64   `gorm:"type:decimal(10,2);not null" json:"amount"`
	Method    string    `gorm:"type:varchar(20);not null" json:"method"`
	Reference string    `json:"reference"`
	PaidAt    time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"paidAt"`

	gorm.Model
}

func (p *Payment) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return
}

type CashShift struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	BusinessID uuid.UUID `gorm:"type:uuid;index;not null" json:"businessId"`
	UserID     uuid.UUID `gorm:"type:uuid;index;not null" json:"userId"`

	OpeningBalance float64 `gorm:"type:decimal(10,2);not null" json:"openingBalance"`
	TotalSales     float64 `gorm:"type:decimal(10,2);default:0.0" json:"totalSales"`
	TotalExpenses  float64 `gorm:"type:decimal(10,2);default:0.0" json:"totalExpenses"`
	ExpectedCash   float64 `gorm:"type:decimal(10,2);default:0.0" json:"expectedCash"`

	IsOpen   bool       `gorm:"default:true" json:"isOpen"`
	OpenedAt time.Time  `gorm:"not null" json:"openedAt"`
	ClosedAt *time.Time `json:"closedAt"`

	gorm.Model
}

func (s *CashShift) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return
}
