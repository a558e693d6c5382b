package models

import (
	"time"

	"gorm.io/gorm"
)

// InvestmentPlan is an admin-managed fixed-return plan shown on the wallet
// dashboard.
type InvestmentPlan struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	Name            string         `gorm:"size:128;not null" json:"name"`
	MinAmountCents  int64          `gorm:"not null" json:"min_amount_cents"`
	MonthlyRateBps  int            `gorm:"not null" json:"monthly_rate_bps"` // basis points, e.g. 150 = 1.5%/month
	DurationMonths  int            `gorm:"not null" json:"duration_months"`
	Active          bool           `gorm:"default:true;index" json:"active"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

func (InvestmentPlan) TableName() string { return "investment_plans" }

// Investment is a wallet-funded holding in a plan.
type Investment struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	UserID      uint           `gorm:"not null;index" json:"user_id"`
	PlanID      uint           `gorm:"not null;index" json:"plan_id"`
	AmountCents int64          `gorm:"not null" json:"amount_cents"`
	Status      string         `gorm:"size:20;not null;index" json:"status"` // ACTIVE | CLOSED
	StartedAt   time.Time      `json:"started_at"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	User User           `gorm:"foreignKey:UserID" json:"-"`
	Plan InvestmentPlan `gorm:"foreignKey:PlanID" json:"plan,omitempty"`
}

func (Investment) TableName() string { return "investments" }
