package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Order status values
const (
	OrderPending   = "PENDING"
	OrderPreparing = "PREPARING"
	OrderReady     = "READY"
	OrderServed    = "SERVED"
	OrderPaid      = "PAID"
	OrderCancelled = "CANCELLED"
)

// OrderItem status values
const (
	ItemPending   = "PENDING"
	ItemPreparing = "PREPARING"
	ItemReady     = "READY"
	ItemServed    = "SERVED"
)

type Order struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	BusinessID uuid.UUID `gorm:"type:uuid;index;not null" json:"businessId"`
	TableID    uuid.UUID `gorm:"type:uuid;index;not null" json:"tableId"`
	UserID     uuid.UUID `gorm:"type:uuid;index;not null" json:"userId"` // creating waiter

	Number string `gorm:"uniqueIndex;not null" json:"number"`
	Status string `gorm:"type:varchar(20);default:'PENDING'" json:"status"`

	Subtotal float64 `gorm:"type:decimal(10,2);not null" json:"subtotal"`
	Tax      float64 `gorm:"type:decimal(10,2);default:0.0" json:"tax"`
	Tip      float64 `gorm:"type:decimal(10,2);default:0.0" json:"tip"`
	Total    float64 `gorm:"type:decimal(10,2);not null" json:"total"`

	SentAt   *time.Time `json:"sentAt"`
	ServedAt *time.Time `json:"servedAt"`
	PaidAt   *time.Time `json:"paidAt"`

	Items    []OrderItem `gorm:"foreignKey:OrderID" json:"items"`
	Logs     []OrderLog  `gorm:"foreignKey:OrderID" json:"-"`
	Payments []Payment   `gorm:"foreignKey:OrderID" json:"-"`

	Table *Table `gorm:"foreignKey:TableID" json:"table,omitempty"`
	User  *User  `gorm:"foreignKey:UserID" json:"user,omitempty"`

	gorm.Model
}

func (o *Order) BeforeCreate(tx *gorm.DB) (err error) {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return
}

// Open reports whether the order can still be modified at all.
func (o *Order) Open() bool {
	return o.Status != OrderPaid && o.Status != OrderCancelled
}

type OrderItem struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	OrderID   uuid.UUID `gorm:"type:uuid;index;not null" json:"orderId"`
	ProductID uuid.UUID `gorm:"type:uuid;index;not null" json:"productId"`

	Quantity int     `gorm:"not null" json:"quantity"`
	Price    float64 `gorm:"type:decimal(10,2);not null" json:"price"` // snapshot at order time
	Subtotal float64 `gorm:"type:decimal(10,2);not null" json:"subtotal"`
	Notes    string  `gorm:"type:text" json:"notes"`

	Status        string `gorm:"type:varchar(20);default:'PENDING'" json:"status"`
	SentToKitchen bool   `gorm:"default:false" json:"sentToKitchen"`
	SentToBar     bool   `gorm:"default:false" json:"sentToBar"`

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`

	gorm.Model
}

func (i *OrderItem) BeforeCreate(tx *gorm.DB) (err error) {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return
}

// Dispatched reports whether the item has been sent to either station.
func (i *OrderItem) Dispatched() bool {
	return i.SentToKitchen || i.SentToBar
}
