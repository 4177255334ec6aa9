package models

import "time"

// WorkingHours is the company-level opening template for one weekday.
type WorkingHours struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	CompanyID uint `gorm:"uniqueIndex:idx_working_hours_company_weekday" json:"company_id"`

	Weekday int `gorm:"uniqueIndex:idx_working_hours_company_weekday" json:"weekday"`

	StartTime string `gorm:"size:5" json:"start_time"`
	EndTime   string `gorm:"size:5" json:"end_time"`
	Active    bool   `json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
