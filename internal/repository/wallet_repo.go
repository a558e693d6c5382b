package repository

import (
	"context"
	"errors"

	"kuruma/internal/models"

	"gorm.io/gorm"
)

var ErrInsufficientBalance = errors.New("insufficient wallet balance")

type WalletRepository struct {
	db *gorm.DB
}

func NewWalletRepository(db *gorm.DB) *WalletRepository {
	return &WalletRepository{db: db}
}

func (r *WalletRepository) GetByUserID(userID uint) (*models.Wallet, error) {
	var w models.Wallet
	err := r.db.Where("user_id = ?", userID).First(&w).Error
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *WalletRepository) GetOrCreate(userID uint) (*models.Wallet, error) {
	w, err := r.GetByUserID(userID)
	if err == nil {
		return w, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	w = &models.Wallet{UserID: userID, BalanceCents: 0, Currency: "JPY"}
	if err := r.db.Create(w).Error; err != nil {
		return nil, err
	}
	return w, nil
}

// Debit deducts amountCents with a conditional update: the balance check and
// the subtraction happen in one statement, so two concurrent debits cannot
// both succeed against the same pre-debit balance.
func (r *WalletRepository) Debit(ctx context.Context, userID uint, amountCents int64, txType, reference string) error {
	res := r.db.WithContext(ctx).Model(&models.Wallet{}).
		Where("user_id = ? AND balance_cents >= ?", userID, amountCents).
		Update("balance_cents", gorm.Expr("balance_cents - ?", amountCents))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrInsufficientBalance
	}
	return r.db.WithContext(ctx).Create(&models.WalletTransaction{
		UserID:      userID,
		AmountCents: -amountCents,
		Type:        txType,
		Reference:   reference,
	}).Error
}

// Credit adds amountCents, creating the wallet row if the user has none yet.
func (r *WalletRepository) Credit(ctx context.Context, userID uint, amountCents int64, txType, reference string) error {
	res := r.db.WithContext(ctx).Model(&models.Wallet{}).
		Where("user_id = ?", userID).
		Update("balance_cents", gorm.Expr("balance_cents + ?", amountCents))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		w := &models.Wallet{UserID: userID, BalanceCents: amountCents, Currency: "JPY"}
		if err := r.db.WithContext(ctx).Create(w).Error; err != nil {
			return err
		}
	}
	return r.db.WithContext(ctx).Create(&models.WalletTransaction{
		UserID:      userID,
		AmountCents: amountCents,
		Type:        txType,
		Reference:   reference,
	}).Error
}

func (r *WalletRepository) ListTransactions(userID uint, limit, offset int) ([]models.WalletTransaction, error) {
	var list []models.WalletTransaction
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}
