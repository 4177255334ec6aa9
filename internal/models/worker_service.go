package models

import "time"

// WorkerService grants a worker the capability to perform a service.
type WorkerService struct {
	WorkerID   uint `gorm:"primaryKey" json:"worker_id"`
	ServiceID  uint `gorm:"primaryKey;index" json:"service_id"`
	CanPerform bool `gorm:"not null;default:true" json:"can_perform"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
