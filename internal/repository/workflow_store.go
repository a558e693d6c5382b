package repository

import (
	"context"
	"time"

	"kuruma/internal/models"
	"kuruma/internal/workflow"

	"gorm.io/gorm"
)

// Guarded status stores for the three workflow entity tables. Every Move is
// a single conditional UPDATE keyed on the snapshot's current status, so a
// row that already transitioned rejects the write instead of silently
// re-applying it.

type orderStore struct{ db *gorm.DB }

func (s orderStore) Move(ctx context.Context, t *workflow.Transaction, to workflow.Status, fields map[string]interface{}) error {
	fields["status"] = string(to)
	return guardedUpdate(s.db.WithContext(ctx).Model(&models.Order{}), t, fields)
}

type depositStore struct{ db *gorm.DB }

func (s depositStore) Move(ctx context.Context, t *workflow.Transaction, to workflow.Status, fields map[string]interface{}) error {
	fields["status"] = string(to)
	if to == workflow.StatusConfirmed {
		fields["confirmed_at"] = time.Now()
	}
	return guardedUpdate(s.db.WithContext(ctx).Model(&models.Deposit{}), t, fields)
}

type entryStore struct{ db *gorm.DB }

func (s entryStore) Move(ctx context.Context, t *workflow.Transaction, to workflow.Status, fields map[string]interface{}) error {
	fields["status"] = string(to)
	return guardedUpdate(s.db.WithContext(ctx).Model(&models.GiveawayEntry{}), t, fields)
}

func guardedUpdate(q *gorm.DB, t *workflow.Transaction, fields map[string]interface{}) error {
	res := q.Where("id = ? AND status = ?", t.ID, string(t.Status)).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return workflow.ErrStateConflict
	}
	return nil
}

// UnitOfWork implementations binding a store and the wallet ledger to one
// gorm transaction.

type gormUnitOfWork struct {
	db    *gorm.DB
	store func(*gorm.DB) workflow.Store
}

func (u gormUnitOfWork) Run(ctx context.Context, fn func(workflow.Store, workflow.Ledger) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(u.store(tx), NewWalletRepository(tx))
	})
}

func NewOrderUnitOfWork(db *gorm.DB) workflow.UnitOfWork {
	return gormUnitOfWork{db: db, store: func(tx *gorm.DB) workflow.Store { return orderStore{db: tx} }}
}

func NewDepositUnitOfWork(db *gorm.DB) workflow.UnitOfWork {
	return gormUnitOfWork{db: db, store: func(tx *gorm.DB) workflow.Store { return depositStore{db: tx} }}
}

func NewEntryUnitOfWork(db *gorm.DB) workflow.UnitOfWork {
	return gormUnitOfWork{db: db, store: func(tx *gorm.DB) workflow.Store { return entryStore{db: tx} }}
}

// Snapshot converters from entity rows to workflow transactions.

func OrderSnapshot(o *models.Order) *workflow.Transaction {
	uid := o.UserID
	return &workflow.Transaction{
		ID:          o.ID,
		Kind:        workflow.KindOrder,
		Reference:   o.Reference,
		UserID:      &uid,
		PayerName:   o.PayerName,
		PayerEmail:  o.PayerEmail,
		AmountCents: o.AmountCents,
		Status:      workflow.Status(o.Status),
		ReceiptURL:  o.ReceiptURL,
	}
}

func DepositSnapshot(d *models.Deposit) *workflow.Transaction {
	uid := d.UserID
	return &workflow.Transaction{
		ID:          d.ID,
		Kind:        workflow.KindDeposit,
		Reference:   d.Reference,
		UserID:      &uid,
		PayerName:   d.PayerName,
		PayerEmail:  d.PayerEmail,
		AmountCents: d.AmountCents,
		Status:      workflow.Status(d.Status),
		ReceiptURL:  d.ReceiptURL,
	}
}

func EntrySnapshot(e *models.GiveawayEntry) *workflow.Transaction {
	return &workflow.Transaction{
		ID:          e.ID,
		Kind:        workflow.KindGiveaway,
		Reference:   e.Reference,
		UserID:      e.UserID,
		PayerName:   e.PayerName,
		PayerEmail:  e.PayerEmail,
		AmountCents: e.AmountCents,
		Status:      workflow.Status(e.Status),
		ReceiptURL:  e.ReceiptURL,
	}
}
