package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// License status values
const (
	LicenseActive  = "ACTIVE"
	LicenseExpired = "EXPIRED"
)

type Business struct {
	ID      uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name    string    `gorm:"not null" json:"name"`
	Address string    `json:"address"`
	Phone   string    `json:"phone"` // contact number for SMS alerts

	TaxRate float64 `gorm:"type:decimal(5,2);default:0.0" json:"taxRate"` // percent
	TipRate float64 `gorm:"type:decimal(5,2);default:0.0" json:"tipRate"` // percent

	BankName    string `json:"bankName"`
	BankAccount string `json:"bankAccount"`
	Theming     JSONB  `gorm:"type:jsonb;default:'{}'" json:"theming"`
	StockAlerts bool   `gorm:"default:true" json:"stockAlerts"`
	SMSAlerts   bool   `gorm:"default:false" json:"smsAlerts"`

	Users    []User    `gorm:"foreignKey:BusinessID" json:"-"`
	Tables   []Table   `gorm:"foreignKey:BusinessID" json:"-"`
	Products []Product `gorm:"foreignKey:BusinessID" json:"-"`
	Orders   []Order   `gorm:"foreignKey:BusinessID" json:"-"`
	Licenses []License `gorm:"foreignKey:BusinessID" json:"-"`

	gorm.Model
}

func (b *Business) BeforeCreate(tx *gorm.DB) (err error) {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return
}

type License struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	BusinessID uuid.UUID `gorm:"type:uuid;index;not null" json:"businessId"`

	Type      string    `gorm:"type:varchar(20);default:'STANDARD'" json:"type"`
	Status    string    `gorm:"type:varchar(20);default:'ACTIVE'" json:"status"`
	StartDate time.Time `gorm:"not null" json:"startDate"`
	EndDate   time.Time `gorm:"not null" json:"endDate"`

	gorm.Model
}

func (l *License) BeforeCreate(tx *gorm.DB) (err error) {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return
}

// Custom JSONB type for business theming
type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, &j)
	case string:
		return json.Unmarshal([]byte(v), &j)
	default:
		return errors.New("type assertion to []byte failed")
	}
}
