package models

import (
	"time"

	"gorm.io/gorm"
)

// Giveaway is an admin-managed raffle campaign for a prize vehicle.
type Giveaway struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	Title         string         `gorm:"size:255;not null" json:"title"`
	VehicleID     uint           `gorm:"not null;index" json:"vehicle_id"`
	EntryFeeCents int64          `gorm:"not null" json:"entry_fee_cents"`
	Currency      string         `gorm:"size:3;default:'JPY'" json:"currency"`
	ClosesAt      time.Time      `json:"closes_at"`
	Active        bool           `gorm:"default:true;index" json:"active"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	Vehicle Vehicle `gorm:"foreignKey:VehicleID" json:"vehicle,omitempty"`
}

func (Giveaway) TableName() string {
	return "giveaways"
}

// GiveawayEntry is a paid raffle entry. UserID is nil for guest entries,
// which rules out the wallet rail for them.
type GiveawayEntry struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Reference    string         `gorm:"size:64;uniqueIndex;not null" json:"reference"`
	GiveawayID   uint           `gorm:"not null;index" json:"giveaway_id"`
	UserID       *uint          `gorm:"index" json:"user_id"`
	PayerName    string         `gorm:"size:128;not null" json:"payer_name"`
	PayerEmail   string         `gorm:"size:255;not null" json:"payer_email"`
	AmountCents  int64          `gorm:"not null" json:"amount_cents"`
	Currency     string         `gorm:"size:3;default:'JPY'" json:"currency"`
	Rail         string         `gorm:"size:20" json:"rail"`
	Status       string         `gorm:"size:20;not null;index" json:"status"`
	ReceiptURL   string         `gorm:"size:512" json:"receipt_url"`
	WinnerStatus string         `gorm:"size:20;default:'NONE'" json:"winner_status"` // NONE | WINNER, set by admin
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	Giveaway Giveaway `gorm:"foreignKey:GiveawayID" json:"giveaway,omitempty"`
}

func (GiveawayEntry) TableName() string {
	return "giveaway_entries"
}
