package models

import (
	"time"

	"gorm.io/gorm"
)

// Order is a vehicle purchase. Status walks the payment workflow:
// PENDING -> PAID (wallet rail) or
// PENDING -> AWAITING_RECEIPT/AWAITING_AGENT -> VERIFYING -> CONFIRMED.
type Order struct {
	ID                uint           `gorm:"primaryKey" json:"id"`
	Reference         string         `gorm:"size:64;uniqueIndex;not null" json:"reference"`
	UserID            uint           `gorm:"not null;index" json:"user_id"`
	VehicleID         uint           `gorm:"not null;index" json:"vehicle_id"`
	PayerName         string         `gorm:"size:128;not null" json:"payer_name"`
	PayerEmail        string         `gorm:"size:255;not null" json:"payer_email"`
	AmountCents       int64          `gorm:"not null" json:"amount_cents"`
	Currency          string         `gorm:"size:3;default:'JPY'" json:"currency"`
	Rail              string         `gorm:"size:20" json:"rail"`                  // WALLET, BANK, CRYPTO, AGENT
	Status            string         `gorm:"size:20;not null;index" json:"status"` // PENDING ... CONFIRMED, FAILED
	ReceiptURL        string         `gorm:"size:512" json:"receipt_url"`
	InstallmentMonths int            `gorm:"default:0" json:"installment_months"` // 0 = full payment
	FulfilledAt       *time.Time     `json:"fulfilled_at"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`

	User    User    `gorm:"foreignKey:UserID" json:"-"`
	Vehicle Vehicle `gorm:"foreignKey:VehicleID" json:"vehicle,omitempty"`
}

func (Order) TableName() string {
	return "orders"
}
