package models

import (
	"time"

	"gorm.io/gorm"
)

type Vehicle struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"size:255;not null" json:"name"`
	Type        string         `gorm:"size:30;not null;index" json:"type"` // SEDAN, SUV, ...
	PriceCents  int64          `gorm:"not null" json:"price_cents"`
	Currency    string         `gorm:"size:3;default:'JPY'" json:"currency"`
	Description string         `gorm:"type:text" json:"description"`
	Specs       string         `gorm:"type:text" json:"specs"` // JSON: engine, transmission, mileage, year, ...
	ImageURL    string         `gorm:"size:512" json:"image_url"`
	Published   bool           `gorm:"default:true;index" json:"published"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Vehicle) TableName() string {
	return "vehicles"
}
