package models

import (
	"time"

	"gorm.io/gorm"
)

// Deposit is a wallet top-up request. The wallet is credited only when an
// administrator confirms the submitted receipt.
type Deposit struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Reference   string         `gorm:"size:64;uniqueIndex;not null" json:"reference"`
	UserID      uint           `gorm:"not null;index" json:"user_id"`
	PayerName   string         `gorm:"size:128;not null" json:"payer_name"`
	PayerEmail  string         `gorm:"size:255;not null" json:"payer_email"`
	AmountCents int64          `gorm:"not null" json:"amount_cents"`
	Currency    string         `gorm:"size:3;default:'JPY'" json:"currency"`
	Rail        string         `gorm:"size:20" json:"rail"` // BANK, CRYPTO, AGENT
	Status      string         `gorm:"size:20;not null;index" json:"status"`
	ReceiptURL  string         `gorm:"size:512" json:"receipt_url"`
	ConfirmedAt *time.Time     `json:"confirmed_at"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (Deposit) TableName() string {
	return "deposits"
}
