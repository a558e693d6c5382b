package workflow

import (
	"context"
	"errors"
	"time"

	"kuruma/internal/domain"
)

// Transaction is the workflow-facing snapshot of an order, deposit or
// giveaway entry. UserID is nil for guest giveaway entries.
type Transaction struct {
	ID          uint
	Kind        Kind
	Reference   string
	UserID      *uint
	PayerName   string
	PayerEmail  string
	AmountCents int64
	Status      Status
	ReceiptURL  string
}

var (
	// ErrStateConflict means the entity moved past the expected pre-state
	// between read and write (double click, double confirm). The caller gets
	// a rejection, never a silent no-op.
	ErrStateConflict = errors.New("transaction already transitioned")
	// ErrNoWallet is returned for wallet-rail events on guest transactions.
	ErrNoWallet = errors.New("transaction has no wallet owner")
)

// Store persists guarded status transitions for one entity table.
type Store interface {
	// Move updates the status guarded on the snapshot's current status and
	// writes fields in the same UPDATE. Returns ErrStateConflict when the
	// row has already moved.
	Move(ctx context.Context, t *Transaction, to Status, fields map[string]interface{}) error
}

// Ledger mutates wallet balances. Debit must be a conditional update that
// fails without mutating anything when the balance is short.
type Ledger interface {
	Debit(ctx context.Context, userID uint, amountCents int64, txType, reference string) error
	Credit(ctx context.Context, userID uint, amountCents int64, txType, reference string) error
}

// Notifier dispatches one mail template for a transaction, best-effort.
type Notifier interface {
	Send(template string, t *Transaction)
}

// UnitOfWork runs the store write and any ledger writes of a single
// transition inside one database transaction.
type UnitOfWork interface {
	Run(ctx context.Context, fn func(Store, Ledger) error) error
}

// Engine executes transitions: it derives the effect list from the pure
// transition table, applies state and ledger effects atomically, then fans
// out mail outside the transaction boundary.
type Engine struct {
	uow    UnitOfWork
	notify Notifier
}

func NewEngine(uow UnitOfWork, notify Notifier) *Engine {
	return &Engine{uow: uow, notify: notify}
}

// Result reports the committed status and the templates dispatched.
type Result struct {
	Status Status
	Mailed []string
}

// Fire applies one event to a transaction snapshot. On success the snapshot
// is updated in place. Mail dispatch failures never roll back the committed
// transition; the Notifier logs them.
func (e *Engine) Fire(ctx context.Context, opts Options, t *Transaction, ev Event) (*Result, error) {
	next, effects, err := Transition(opts, t, ev)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	switch ev := ev.(type) {
	case PayWithWallet:
		fields["rail"] = domain.RailWallet
	case ChooseAgentPay:
		fields["rail"] = ev.Rail
	case SubmitReceipt:
		fields["receipt_url"] = ev.ReceiptURL
	}

	err = e.uow.Run(ctx, func(store Store, ledger Ledger) error {
		for _, effect := range effects {
			switch effect := effect.(type) {
			case DebitWallet:
				if t.UserID == nil {
					return ErrNoWallet
				}
				if err := ledger.Debit(ctx, *t.UserID, effect.AmountCents, effect.TxType, t.Reference); err != nil {
					return err
				}
			case CreditWallet:
				if t.UserID == nil {
					return ErrNoWallet
				}
				if err := ledger.Credit(ctx, *t.UserID, effect.AmountCents, effect.TxType, t.Reference); err != nil {
					return err
				}
			case MarkFulfilled:
				fields["fulfilled_at"] = time.Now()
			}
		}
		return store.Move(ctx, t, next, fields)
	})
	if err != nil {
		return nil, err
	}

	t.Status = next
	if v, ok := fields["receipt_url"].(string); ok {
		t.ReceiptURL = v
	}

	res := &Result{Status: next}
	for _, effect := range effects {
		if m, ok := effect.(SendMail); ok {
			e.notify.Send(m.Template, t)
			res.Mailed = append(res.Mailed, m.Template)
		}
	}
	return res, nil
}
