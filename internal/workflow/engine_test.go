package workflow

import (
	"context"
	"testing"

	"kuruma/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockStore struct{ mock.Mock }

func (m *MockStore) Move(ctx context.Context, t *Transaction, to Status, fields map[string]interface{}) error {
	args := m.Called(ctx, t, to, fields)
	return args.Error(0)
}

type MockNotifier struct{ mock.Mock }

func (m *MockNotifier) Send(template string, t *Transaction) {
	m.Called(template, t)
}

// fakeLedger simulates a wallet with the conditional-debit semantics of the
// real repository: a short balance rejects without mutating anything.
type fakeLedger struct {
	balanceCents int64
	debits       []int64
	credits      []int64
	debitErr     error
}

var errShortBalance = assert.AnError

func (l *fakeLedger) Debit(ctx context.Context, userID uint, amountCents int64, txType, reference string) error {
	if l.debitErr != nil {
		return l.debitErr
	}
	if l.balanceCents < amountCents {
		return errShortBalance
	}
	l.balanceCents -= amountCents
	l.debits = append(l.debits, amountCents)
	return nil
}

func (l *fakeLedger) Credit(ctx context.Context, userID uint, amountCents int64, txType, reference string) error {
	l.balanceCents += amountCents
	l.credits = append(l.credits, amountCents)
	return nil
}

// fakeUOW binds the mock store and fake ledger without a real database.
type fakeUOW struct {
	store  Store
	ledger Ledger
}

func (u fakeUOW) Run(ctx context.Context, fn func(Store, Ledger) error) error {
	return fn(u.store, u.ledger)
}

// A ¥300,000 wallet paying a ¥212,800 order must end at exactly ¥87,200.
func TestEngineWalletPayExactDelta(t *testing.T) {
	store := new(MockStore)
	notifier := new(MockNotifier)
	ledger := &fakeLedger{balanceCents: 30000000}
	engine := NewEngine(fakeUOW{store: store, ledger: ledger}, notifier)

	txn := orderTxn(StatusPending)
	store.On("Move", mock.Anything, txn, StatusPaid, mock.Anything).Return(nil)
	notifier.On("Send", TplOrderPaid, txn).Return()

	res, err := engine.Fire(context.Background(), allEnabled(), txn, PayWithWallet{})
	require.NoError(t, err)
	assert.Equal(t, StatusPaid, res.Status)
	assert.Equal(t, StatusPaid, txn.Status)
	assert.Equal(t, int64(8720000), ledger.balanceCents) // ¥87,200
	assert.Equal(t, []int64{21280000}, ledger.debits)
	store.AssertExpectations(t)
	notifier.AssertExpectations(t)

	// fields carry the rail and the fulfillment stamp
	fields := store.Calls[0].Arguments.Get(3).(map[string]interface{})
	assert.Equal(t, domain.RailWallet, fields["rail"])
	assert.Contains(t, fields, "fulfilled_at")
}

// A short balance must reject the event without any mutation or mail.
func TestEngineInsufficientFundsNoMutation(t *testing.T) {
	store := new(MockStore)
	notifier := new(MockNotifier)
	ledger := &fakeLedger{balanceCents: 1000000} // ¥10,000, order is ¥212,800
	engine := NewEngine(fakeUOW{store: store, ledger: ledger}, notifier)

	txn := orderTxn(StatusPending)
	_, err := engine.Fire(context.Background(), allEnabled(), txn, PayWithWallet{})
	require.Error(t, err)
	assert.Equal(t, StatusPending, txn.Status)
	assert.Equal(t, int64(1000000), ledger.balanceCents)
	assert.Empty(t, ledger.debits)
	store.AssertNotCalled(t, "Move", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	notifier.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

// A row that moved between read and write surfaces ErrStateConflict and no
// mail goes out for the losing writer.
func TestEngineStateConflictRejected(t *testing.T) {
	store := new(MockStore)
	notifier := new(MockNotifier)
	engine := NewEngine(fakeUOW{store: store, ledger: &fakeLedger{}}, notifier)

	txn := orderTxn(StatusVerifying)
	store.On("Move", mock.Anything, txn, StatusConfirmed, mock.Anything).Return(ErrStateConflict)

	_, err := engine.Fire(context.Background(), allEnabled(), txn, AdminConfirm{})
	assert.ErrorIs(t, err, ErrStateConflict)
	assert.Equal(t, StatusVerifying, txn.Status)
	notifier.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

// Full deposit walk: PENDING -> AWAITING_RECEIPT -> VERIFYING -> CONFIRMED,
// with the wallet credited exactly once at the end.
func TestEngineDepositWalk(t *testing.T) {
	store := new(MockStore)
	notifier := new(MockNotifier)
	ledger := &fakeLedger{balanceCents: 0}
	engine := NewEngine(fakeUOW{store: store, ledger: ledger}, notifier)

	txn := &Transaction{
		ID:          9,
		Kind:        KindDeposit,
		Reference:   "DEP-WALK",
		UserID:      uintPtr(7),
		PayerName:   "Aiko Tanaka",
		PayerEmail:  "aiko@example.com",
		AmountCents: 5000000, // ¥50,000
		Status:      StatusPending,
	}
	opts := Options{AgentEnabled: true}
	store.On("Move", mock.Anything, txn, mock.Anything, mock.Anything).Return(nil)
	notifier.On("Send", mock.Anything, txn).Return()

	res, err := engine.Fire(context.Background(), opts, txn, ChooseAgentPay{Rail: domain.RailBank})
	require.NoError(t, err)
	assert.Equal(t, StatusAwaitingReceipt, res.Status)
	assert.Equal(t, []string{TplDepositAgentRequest}, res.Mailed)

	res, err = engine.Fire(context.Background(), opts, txn, SubmitReceipt{ReceiptURL: "https://img.example.com/dep.png"})
	require.NoError(t, err)
	assert.Equal(t, StatusVerifying, res.Status)
	assert.Equal(t, "https://img.example.com/dep.png", txn.ReceiptURL)
	assert.Equal(t, []string{TplDepositReceipt}, res.Mailed)
	assert.Zero(t, ledger.balanceCents) // nothing credited before confirmation

	res, err = engine.Fire(context.Background(), opts, txn, AdminConfirm{})
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, res.Status)
	assert.Equal(t, []string{TplDepositConfirmed}, res.Mailed)
	assert.Equal(t, int64(5000000), ledger.balanceCents)
	assert.Equal(t, []int64{5000000}, ledger.credits)
}

// Guest entries have no wallet owner, so the wallet rail cannot settle them.
func TestEngineGuestEntryNoWallet(t *testing.T) {
	store := new(MockStore)
	notifier := new(MockNotifier)
	engine := NewEngine(fakeUOW{store: store, ledger: &fakeLedger{balanceCents: 10000000}}, notifier)

	txn := &Transaction{
		ID:          11,
		Kind:        KindGiveaway,
		Reference:   "GWE-GUEST",
		UserID:      nil,
		PayerName:   "Guest",
		PayerEmail:  "guest@example.com",
		AmountCents: 500000,
		Status:      StatusPending,
	}
	_, err := engine.Fire(context.Background(), Options{WalletEnabled: true, AgentEnabled: true}, txn, PayWithWallet{})
	assert.ErrorIs(t, err, ErrNoWallet)
	assert.Equal(t, StatusPending, txn.Status)
	notifier.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

// Receipt submission from the agent rail carries the URL into the fields map.
func TestEngineReceiptFields(t *testing.T) {
	store := new(MockStore)
	notifier := new(MockNotifier)
	engine := NewEngine(fakeUOW{store: store, ledger: &fakeLedger{}}, notifier)

	txn := orderTxn(StatusAwaitingAgent)
	store.On("Move", mock.Anything, txn, StatusVerifying, mock.Anything).Return(nil)
	notifier.On("Send", TplOrderReceipt, txn).Return()

	_, err := engine.Fire(context.Background(), allEnabled(), txn, SubmitReceipt{ReceiptURL: "https://img.example.com/o.png"})
	require.NoError(t, err)
	fields := store.Calls[0].Arguments.Get(3).(map[string]interface{})
	assert.Equal(t, "https://img.example.com/o.png", fields["receipt_url"])
}
