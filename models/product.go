package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Product types route items to the kitchen or the bar
const (
	ProductFood  = "FOOD"
	ProductDrink = "DRINK"
)

type Category struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	BusinessID uuid.UUID `gorm:"type:uuid;index;not null" json:"businessId"`

	Name     string `gorm:"not null" json:"name"`
	IsActive bool   `gorm:"default:true" json:"isActive"`

	Products []Product `gorm:"foreignKey:CategoryID" json:"-"`

	gorm.Model
}

func (c *Category) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return
}

type Product struct {
	ID         uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	BusinessID uuid.UUID  `gorm:"type:uuid;index;not null" json:"businessId"`
	CategoryID *uuid.UUID `gorm:"type:uuid;index" json:"categoryId"`

	Name        string  `gorm:"not null" json:"name"`
	Description string  `json:"description"`
	Price       float64 `gorm:"type:decimal(10,2);not null" json:"price"`
	Type        string  `gorm:"type:varchar(10);not null" json:"type"` // FOOD or DRINK
	IsActive    bool    `gorm:"default:true" json:"isActive"`
	TrackStock  bool    `gorm:"default:false" json:"trackStock"`

	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`

	gorm.Model
}

func (p *Product) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return
}
