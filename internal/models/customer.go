package models

import "time"

// CustomerPhoneIndex makes a phone number identify one customer per company.
const CustomerPhoneIndex = "idx_customer_company_phone"

// Customer without login, scoped to a company.
type Customer struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	CompanyID uint `gorm:"uniqueIndex:idx_customer_company_phone" json:"company_id"`

	Name  string `gorm:"size:100;not null" json:"name"`
	Phone string `gorm:"size:20;not null;uniqueIndex:idx_customer_company_phone" json:"phone"`
	Email string `gorm:"size:100" json:"email"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
