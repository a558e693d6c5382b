package repository

import (
	"kuruma/internal/models"

	"gorm.io/gorm"
)

type VehicleRepository struct {
	db *gorm.DB
}

func NewVehicleRepository(db *gorm.DB) *VehicleRepository {
	return &VehicleRepository{db: db}
}

func (r *VehicleRepository) Create(v *models.Vehicle) error {
	return r.db.Create(v).Error
}

func (r *VehicleRepository) GetByID(id uint) (*models.Vehicle, error) {
	var v models.Vehicle
	err := r.db.First(&v, id).Error
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// ListPublished returns catalog vehicles with optional type filter.
func (r *VehicleRepository) ListPublished(vehicleType string, page, limit int) ([]models.Vehicle, int64, error) {
	q := r.db.Model(&models.Vehicle{}).Where("published = ?", true)
	if vehicleType != "" {
		q = q.Where("type = ?", vehicleType)
	}
	var total int64
	q.Count(&total)
	var list []models.Vehicle
	err := q.Order("created_at DESC").Limit(limit).Offset((page - 1) * limit).Find(&list).Error
	return list, total, err
}

// ListAll returns every vehicle including unpublished, for the back office.
func (r *VehicleRepository) ListAll(search string, page, limit int) ([]models.Vehicle, int64, error) {
	q := r.db.Model(&models.Vehicle{})
	if search != "" {
		q = q.Where("name LIKE ?", "%"+search+"%")
	}
	var total int64
	q.Count(&total)
	var list []models.Vehicle
	err := q.Order("created_at DESC").Limit(limit).Offset((page - 1) * limit).Find(&list).Error
	return list, total, err
}

func (r *VehicleRepository) Update(v *models.Vehicle) error {
	return r.db.Save(v).Error
}

func (r *VehicleRepository) UpdateFields(id uint, fields map[string]interface{}) error {
	return r.db.Model(&models.Vehicle{}).Where("id = ?", id).Updates(fields).Error
}

func (r *VehicleRepository) Delete(id uint) error {
	return r.db.Delete(&models.Vehicle{}, id).Error
}
