package models

import (
	"restopos-backend/utils"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User roles
const (
	RoleAdmin      = "ADMIN"
	RoleWaiter     = "CAMARERO"
	RoleCook       = "COCINERO"
	RoleBartender  = "BARTENDER"
	RoleCashier    = "CAJERO"
	RoleSupervisor = "SUPERVISOR"
	RoleOwner      = "OWNER"
)

type User struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	BusinessID uuid.UUID `gorm:"type:uuid;index;not null" json:"businessId"`

	Email    string `gorm:"uniqueIndex;not null" json:"email"`
	Password string `gorm:"not null" json:"-"`
	Name     string `gorm:"not null" json:"name"`
	Role     string `gorm:"type:varchar(20);not null" json:"role"`
	PIN      string `gorm:"column:pin;type:varchar(4)" json:"-"` // 4-digit terminal PIN

	LastLogin *time.Time `json:"lastLogin"`
	IsActive  bool       `gorm:"default:true" json:"isActive"`

	gorm.Model
}

// Initialize UUID and hash password before creating
func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	hashed, err := utils.HashPassword(u.Password)
	if err != nil {
		return err
	}
	u.Password = hashed
	return
}

// CanOverride reports whether the user may authorize supervisor-gated
// edits, i.e. modifying an order after it was dispatched.
func (u *User) CanOverride() bool {
	return u.Role == RoleAdmin || u.Role == RoleSupervisor
}
