package models

import "time"

type Company struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Name     string `gorm:"size:100;not null" json:"name"`
	Slug     string `gorm:"size:100;uniqueIndex;not null" json:"slug"`
	Phone    string `gorm:"size:20" json:"phone"`
	Address  string `gorm:"size:255" json:"address"`
	Timezone string `gorm:"size:64" json:"timezone"`

	// Scheduling settings
	SlotAnchorIntervalMinutes int `gorm:"default:30" json:"slot_anchor_interval_minutes"`
	TraineeExtraMinutes       int `gorm:"default:0" json:"trainee_extra_minutes"`
	MinAdvanceMinutes         int `gorm:"default:120" json:"min_advance_minutes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
