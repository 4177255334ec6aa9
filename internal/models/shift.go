package models

import "time"

// Shift is a worker's concrete availability window on one calendar date.
// A worker has at most one shift per date (idx_shift_worker_date).
type Shift struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	CompanyID uint `gorm:"index" json:"company_id"`
	WorkerID  uint `gorm:"uniqueIndex:idx_shift_worker_date" json:"worker_id"`

	Date      string `gorm:"size:10;not null;uniqueIndex:idx_shift_worker_date" json:"date"`
	StartTime string `gorm:"size:5;not null" json:"start_time"`
	EndTime   string `gorm:"size:5;not null" json:"end_time"`

	Breaks []Break `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"breaks"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Break struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	ShiftID uint `gorm:"index" json:"shift_id"`

	StartTime string `gorm:"size:5;not null" json:"start_time"`
	EndTime   string `gorm:"size:5;not null" json:"end_time"`

	CreatedAt time.Time `json:"created_at"`
}
