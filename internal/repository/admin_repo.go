package repository

import (
	"kuruma/internal/domain"
	"kuruma/internal/models"

	"gorm.io/gorm"
)

type DashboardStats struct {
	TotalUsers        int64 `json:"total_users"`
	TotalVehicles     int64 `json:"total_vehicles"`
	TotalOrders       int64 `json:"total_orders"`
	PendingOrders     int64 `json:"pending_orders"`
	VerifyingOrders   int64 `json:"verifying_orders"`
	VerifyingDeposits int64 `json:"verifying_deposits"`
	VerifyingEntries  int64 `json:"verifying_entries"`
	TotalRevenue      int64 `json:"total_revenue"`
	TotalDeposits     int64 `json:"total_deposits"`
	ActiveGiveaways   int64 `json:"active_giveaways"`
	ActiveInvestments int64 `json:"active_investments"`
}

type AdminRepository struct {
	db *gorm.DB
}

func NewAdminRepository(db *gorm.DB) *AdminRepository {
	return &AdminRepository{db: db}
}

func (r *AdminRepository) GetDashboardStats() (*DashboardStats, error) {
	var s DashboardStats
	settled := []string{domain.PaymentPaid, domain.PaymentConfirmed}

	r.db.Model(&models.User{}).Count(&s.TotalUsers)
	r.db.Model(&models.Vehicle{}).Count(&s.TotalVehicles)
	r.db.Model(&models.Order{}).Count(&s.TotalOrders)
	r.db.Model(&models.Order{}).Where("status = ?", domain.PaymentPending).Count(&s.PendingOrders)
	r.db.Model(&models.Order{}).Where("status = ?", domain.PaymentVerifying).Count(&s.VerifyingOrders)
	r.db.Model(&models.Deposit{}).Where("status = ?", domain.PaymentVerifying).Count(&s.VerifyingDeposits)
	r.db.Model(&models.GiveawayEntry{}).Where("status = ?", domain.PaymentVerifying).Count(&s.VerifyingEntries)
	r.db.Model(&models.Giveaway{}).Where("active = ?", true).Count(&s.ActiveGiveaways)
	r.db.Model(&models.Investment{}).Where("status = ?", domain.InvestmentActive).Count(&s.ActiveInvestments)

	var rev struct{ Total int64 }
	r.db.Model(&models.Order{}).Select("COALESCE(SUM(amount_cents), 0) as total").
		Where("status IN ?", settled).Scan(&rev)
	s.TotalRevenue = rev.Total

	var dep struct{ Total int64 }
	r.db.Model(&models.Deposit{}).Select("COALESCE(SUM(amount_cents), 0) as total").
		Where("status = ?", domain.PaymentConfirmed).Scan(&dep)
	s.TotalDeposits = dep.Total

	return &s, nil
}

// ListUsers returns users with search, role filter, and pagination.
func (r *AdminRepository) ListUsers(search, role string, page, limit int) ([]models.User, int64, error) {
	q := r.db.Model(&models.User{})
	if search != "" {
		q = q.Where("name LIKE ? OR email LIKE ?", "%"+search+"%", "%"+search+"%")
	}
	if role != "" {
		q = q.Where("role = ?", role)
	}
	var total int64
	q.Count(&total)
	var users []models.User
	err := q.Preload("Wallet").Order("created_at DESC").Limit(limit).Offset((page - 1) * limit).Find(&users).Error
	return users, total, err
}

func (r *AdminRepository) GetUserByID(id uint) (*models.User, error) {
	var u models.User
	err := r.db.Preload("Wallet").First(&u, id).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *AdminRepository) UpdateUser(id uint, fields map[string]interface{}) error {
	return r.db.Model(&models.User{}).Where("id = ?", id).Updates(fields).Error
}

// ListTransactions returns wallet transactions with optional type filter.
func (r *AdminRepository) ListTransactions(txType string, page, limit int) ([]models.WalletTransaction, int64, error) {
	q := r.db.Model(&models.WalletTransaction{})
	if txType != "" {
		q = q.Where("type = ?", txType)
	}
	var total int64
	q.Count(&total)
	var list []models.WalletTransaction
	err := q.Preload("User").Order("created_at DESC").Limit(limit).Offset((page - 1) * limit).Find(&list).Error
	return list, total, err
}
