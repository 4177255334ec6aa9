package models

import "time"

const (
	RoleOwner  = "owner"
	RoleWorker = "worker"
)

// User is a company member. Members with CanServe take bookings.
type User struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	CompanyID uint    `gorm:"index" json:"company_id"`
	Company   Company `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`

	Name         string `gorm:"size:100;not null" json:"name"`
	Email        string `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"size:255" json:"-"`
	Phone        string `gorm:"size:20" json:"phone"`
	Role         string `gorm:"size:20;default:'worker'" json:"role"`

	Active    bool `gorm:"default:true" json:"active"`
	CanServe  bool `gorm:"default:true" json:"can_serve"`
	IsTrainee bool `gorm:"default:false" json:"is_trainee"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
