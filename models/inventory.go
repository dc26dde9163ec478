package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Inventory struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	BusinessID uuid.UUID `gorm:"type:uuid;index;not null" json:"businessId"`

	Name     string  `gorm:"not null" json:"name"`
	Unit     string  `gorm:"type:varchar(20);default:'unit'" json:"unit"`
	Quantity float64 `gorm:"type:decimal(10,2);default:0.0" json:"quantity"`
	MinStock float64 `gorm:"type:decimal(10,2);default:0.0" json:"minStock"`

	gorm.Model
}

func (i *Inventory) BeforeCreate(tx *gorm.DB) (err error) {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return
}

// Low reports whether the ingredient is at or below its minimum stock.
func (i *Inventory) Low() bool {
	return i.Quantity <= i.MinStock
}

// Recipe maps a finished product to the ingredients consumed when one
// unit is sold (bill of materials).
type Recipe struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	BusinessID uuid.UUID `gorm:"type:uuid;index;not null" json:"businessId"`
	ProductID  uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"productId"`

	Items []RecipeItem `gorm:"foreignKey:RecipeID" json:"items"`

	gorm.Model
}

func (r *Recipe) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return
}

type RecipeItem struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	RecipeID    uuid.UUID `gorm:"type:uuid;index;not null" json:"recipeId"`
	InventoryID uuid.UUID `gorm:"type:uuid;index;not null" json:"inventoryId"`

	Quantity float64 `gorm:"type:decimal(10,2);not null" json:"quantity"` // per unit sold

	Inventory *Inventory `gorm:"foreignKey:InventoryID" json:"inventory,omitempty"`

	gorm.Model
}

func (ri *RecipeItem) BeforeCreate(tx *gorm.DB) (err error) {
	if ri.ID == uuid.Nil {
		ri.ID = uuid.New()
	}
	return
}

// StockAlert records one low-stock notification attempt.
type StockAlert struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	BusinessID  uuid.UUID `gorm:"type:uuid;index;not null" json:"businessId"`
	InventoryID uuid.UUID `gorm:"type:uuid;index;not null" json:"inventoryId"`

	Quantity     float64   `gorm:"type:decimal(10,2)" json:"quantity"`
	MinStock     float64   `gorm:"type:decimal(10,2)" json:"minStock"`
	Channel      string    `gorm:"type:varchar(20)" json:"channel"` // sms, event
	Status       string    `gorm:"type:varchar(20)" json:"status"`  // sent, failed
	ErrorMessage string    `gorm:"type:text" json:"errorMessage"`
	SentAt       time.Time `json:"sentAt"`

	gorm.Model
}

func (a *StockAlert) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return
}
