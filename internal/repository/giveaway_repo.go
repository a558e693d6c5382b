package repository

import (
	"errors"

	"kuruma/internal/domain"
	"kuruma/internal/models"

	"gorm.io/gorm"
)

var ErrEntryNotSettled = errors.New("entry is not in a settled state")

type GiveawayRepository struct {
	db *gorm.DB
}

func NewGiveawayRepository(db *gorm.DB) *GiveawayRepository {
	return &GiveawayRepository{db: db}
}

func (r *GiveawayRepository) Create(g *models.Giveaway) error {
	return r.db.Create(g).Error
}

func (r *GiveawayRepository) GetByID(id uint) (*models.Giveaway, error) {
	var g models.Giveaway
	err := r.db.Preload("Vehicle").First(&g, id).Error
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *GiveawayRepository) ListActive() ([]models.Giveaway, error) {
	var list []models.Giveaway
	err := r.db.Preload("Vehicle").Where("active = ?", true).Order("closes_at ASC").Find(&list).Error
	return list, err
}

func (r *GiveawayRepository) Update(g *models.Giveaway) error {
	return r.db.Save(g).Error
}

func (r *GiveawayRepository) CreateEntry(e *models.GiveawayEntry) error {
	return r.db.Create(e).Error
}

func (r *GiveawayRepository) GetEntryByReference(ref string) (*models.GiveawayEntry, error) {
	var e models.GiveawayEntry
	err := r.db.Preload("Giveaway").Where("reference = ?", ref).First(&e).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *GiveawayRepository) GetEntryByID(id uint) (*models.GiveawayEntry, error) {
	var e models.GiveawayEntry
	err := r.db.Preload("Giveaway").First(&e, id).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *GiveawayRepository) ListEntries(giveawayID uint, status string, page, limit int) ([]models.GiveawayEntry, int64, error) {
	q := r.db.Model(&models.GiveawayEntry{}).Where("giveaway_id = ?", giveawayID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var total int64
	q.Count(&total)
	var list []models.GiveawayEntry
	err := q.Order("created_at DESC").Limit(limit).Offset((page - 1) * limit).Find(&list).Error
	return list, total, err
}

func (r *GiveawayRepository) ListEntriesByUser(userID uint, limit, offset int) ([]models.GiveawayEntry, error) {
	var list []models.GiveawayEntry
	err := r.db.Preload("Giveaway").Where("user_id = ?", userID).
		Order("created_at DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}

// MarkWinner flags a settled (paid or confirmed) entry as the giveaway
// winner. Unsettled entries are rejected.
func (r *GiveawayRepository) MarkWinner(entryID uint) error {
	res := r.db.Model(&models.GiveawayEntry{}).
		Where("id = ? AND status IN ?", entryID, []string{domain.PaymentPaid, domain.PaymentConfirmed}).
		Update("winner_status", domain.WinnerSelected)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrEntryNotSettled
	}
	return nil
}
