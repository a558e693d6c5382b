package repository

import (
	"kuruma/internal/models"

	"gorm.io/gorm"
)

type InvestmentRepository struct {
	db *gorm.DB
}

func NewInvestmentRepository(db *gorm.DB) *InvestmentRepository {
	return &InvestmentRepository{db: db}
}

func (r *InvestmentRepository) CreatePlan(p *models.InvestmentPlan) error {
	return r.db.Create(p).Error
}

func (r *InvestmentRepository) GetPlanByID(id uint) (*models.InvestmentPlan, error) {
	var p models.InvestmentPlan
	err := r.db.First(&p, id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *InvestmentRepository) ListActivePlans() ([]models.InvestmentPlan, error) {
	var list []models.InvestmentPlan
	err := r.db.Where("active = ?", true).Order("min_amount_cents ASC").Find(&list).Error
	return list, err
}

func (r *InvestmentRepository) UpdatePlan(p *models.InvestmentPlan) error {
	return r.db.Save(p).Error
}

func (r *InvestmentRepository) Create(inv *models.Investment) error {
	return r.db.Create(inv).Error
}

func (r *InvestmentRepository) ListByUser(userID uint) ([]models.Investment, error) {
	var list []models.Investment
	err := r.db.Preload("Plan").Where("user_id = ?", userID).Order("created_at DESC").Find(&list).Error
	return list, err
}
