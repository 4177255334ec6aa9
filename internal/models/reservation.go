package models

import "time"

// ActiveSlotIndex is the partial unique index over (worker_id, date,
// start_time) of active bound reservations.
const ActiveSlotIndex = "idx_reservation_active_slot"

type Reservation struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Code string `gorm:"size:36;uniqueIndex" json:"code"`

	CompanyID uint `gorm:"index:idx_reservation_company_date" json:"company_id"`

	ServiceID uint    `json:"service_id"`
	Service   Service `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"service"`

	// Nil until a worker claims the reservation.
	WorkerID *uint `gorm:"index" json:"worker_id"`
	Worker   *User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"worker,omitempty"`

	CustomerID uint     `json:"customer_id"`
	Customer   Customer `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"customer"`

	Date      string `gorm:"size:10;not null;index:idx_reservation_company_date" json:"date"`
	StartTime string `gorm:"size:5;not null" json:"start_time"`
	// EndTime is the occupied end at write time (start + effective duration).
	EndTime string `gorm:"size:5" json:"end_time"`

	Status string `gorm:"size:20;default:'PENDING'" json:"status"`
	Notes  string `gorm:"size:255" json:"notes"`

	AcceptedAt  *time.Time `json:"accepted_at"`
	StartedAt   *time.Time `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at"`
	CancelledAt *time.Time `json:"cancelled_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
