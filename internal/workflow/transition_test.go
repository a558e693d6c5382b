package workflow

import (
	"testing"

	"kuruma/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uintPtr(v uint) *uint { return &v }

func orderTxn(status Status) *Transaction {
	return &Transaction{
		ID:          1,
		Kind:        KindOrder,
		Reference:   "ORD-TEST",
		UserID:      uintPtr(7),
		PayerName:   "Aiko Tanaka",
		PayerEmail:  "aiko@example.com",
		AmountCents: 21280000, // ¥212,800
		Status:      status,
	}
}

func allEnabled() Options {
	return Options{WalletEnabled: true, AgentEnabled: true}
}

func TestPayWithWalletFromPending(t *testing.T) {
	txn := orderTxn(StatusPending)
	next, effects, err := Transition(allEnabled(), txn, PayWithWallet{})
	require.NoError(t, err)
	assert.Equal(t, StatusPaid, next)

	require.Len(t, effects, 3)
	debit, ok := effects[0].(DebitWallet)
	require.True(t, ok)
	assert.Equal(t, int64(21280000), debit.AmountCents)
	assert.Equal(t, domain.TxTypePurchase, debit.TxType)
	_, ok = effects[1].(MarkFulfilled)
	assert.True(t, ok)
	mail, ok := effects[2].(SendMail)
	require.True(t, ok)
	assert.Equal(t, TplOrderPaid, mail.Template)
}

func TestPayWithWalletRejectedWhenDisabled(t *testing.T) {
	txn := orderTxn(StatusPending)
	opts := Options{WalletEnabled: false, AgentEnabled: true}
	next, effects, err := Transition(opts, txn, PayWithWallet{})
	assert.ErrorIs(t, err, ErrRailDisabled)
	assert.Equal(t, StatusPending, next)
	assert.Empty(t, effects)
}

func TestPayWithWalletRejectedOutsidePending(t *testing.T) {
	for _, status := range []Status{StatusPaid, StatusAwaitingAgent, StatusAwaitingReceipt, StatusVerifying, StatusConfirmed, StatusFailed} {
		txn := orderTxn(status)
		_, effects, err := Transition(allEnabled(), txn, PayWithWallet{})
		assert.ErrorIs(t, err, ErrInvalidTransition, "status %s", status)
		assert.Empty(t, effects)
	}
}

func TestChooseAgentPayRails(t *testing.T) {
	cases := []struct {
		rail string
		want Status
	}{
		{domain.RailBank, StatusAwaitingReceipt},
		{domain.RailCrypto, StatusAwaitingReceipt},
		{domain.RailAgent, StatusAwaitingAgent},
	}
	for _, tc := range cases {
		txn := orderTxn(StatusPending)
		next, effects, err := Transition(allEnabled(), txn, ChooseAgentPay{Rail: tc.rail})
		require.NoError(t, err, "rail %s", tc.rail)
		assert.Equal(t, tc.want, next)
		require.Len(t, effects, 1)
		mail, ok := effects[0].(SendMail)
		require.True(t, ok)
		assert.Equal(t, TplOrderAgentRequest, mail.Template)
	}
}

func TestChooseAgentPayUnknownRail(t *testing.T) {
	txn := orderTxn(StatusPending)
	_, _, err := Transition(allEnabled(), txn, ChooseAgentPay{Rail: "CASH"})
	assert.ErrorIs(t, err, ErrUnknownRail)
}

func TestChooseAgentPayRejectedWhenDisabled(t *testing.T) {
	txn := orderTxn(StatusPending)
	opts := Options{WalletEnabled: true, AgentEnabled: false}
	_, _, err := Transition(opts, txn, ChooseAgentPay{Rail: domain.RailBank})
	assert.ErrorIs(t, err, ErrRailDisabled)
}

func TestSubmitReceiptRequiresReceipt(t *testing.T) {
	txn := orderTxn(StatusAwaitingReceipt)
	_, _, err := Transition(allEnabled(), txn, SubmitReceipt{})
	assert.ErrorIs(t, err, ErrReceiptRequired)
}

func TestSubmitReceiptFromEitherAwaitingState(t *testing.T) {
	for _, status := range []Status{StatusAwaitingReceipt, StatusAwaitingAgent} {
		txn := orderTxn(status)
		next, effects, err := Transition(allEnabled(), txn, SubmitReceipt{ReceiptURL: "https://img.example.com/r.png"})
		require.NoError(t, err, "status %s", status)
		assert.Equal(t, StatusVerifying, next)
		require.Len(t, effects, 1)
		mail := effects[0].(SendMail)
		assert.Equal(t, TplOrderReceipt, mail.Template)
	}
}

func TestSubmitReceiptRejectedFromPending(t *testing.T) {
	txn := orderTxn(StatusPending)
	_, _, err := Transition(allEnabled(), txn, SubmitReceipt{ReceiptURL: "https://img.example.com/r.png"})
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestAdminConfirmOrder(t *testing.T) {
	txn := orderTxn(StatusVerifying)
	next, effects, err := Transition(allEnabled(), txn, AdminConfirm{})
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, next)
	require.Len(t, effects, 2)
	_, ok := effects[0].(MarkFulfilled)
	assert.True(t, ok)
	mail := effects[1].(SendMail)
	assert.Equal(t, TplOrderConfirmed, mail.Template)
}

func TestAdminConfirmOnlyFromVerifying(t *testing.T) {
	for _, status := range []Status{StatusPending, StatusPaid, StatusAwaitingAgent, StatusAwaitingReceipt, StatusConfirmed} {
		txn := orderTxn(status)
		_, _, err := Transition(allEnabled(), txn, AdminConfirm{})
		assert.ErrorIs(t, err, ErrInvalidTransition, "status %s", status)
	}
}

func TestAdminConfirmDepositCreditsWallet(t *testing.T) {
	txn := &Transaction{
		ID:          3,
		Kind:        KindDeposit,
		Reference:   "DEP-TEST",
		UserID:      uintPtr(7),
		PayerName:   "Aiko Tanaka",
		PayerEmail:  "aiko@example.com",
		AmountCents: 5000000, // ¥50,000
		Status:      StatusVerifying,
	}
	next, effects, err := Transition(Options{AgentEnabled: true}, txn, AdminConfirm{})
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, next)
	require.Len(t, effects, 2)
	credit, ok := effects[0].(CreditWallet)
	require.True(t, ok)
	assert.Equal(t, int64(5000000), credit.AmountCents)
	assert.Equal(t, domain.TxTypeDeposit, credit.TxType)
	mail := effects[1].(SendMail)
	assert.Equal(t, TplDepositConfirmed, mail.Template)
}

func TestGiveawayWalletPayUsesFeeType(t *testing.T) {
	txn := &Transaction{
		ID:          4,
		Kind:        KindGiveaway,
		Reference:   "GWE-TEST",
		UserID:      uintPtr(7),
		PayerName:   "Aiko Tanaka",
		PayerEmail:  "aiko@example.com",
		AmountCents: 500000, // ¥5,000
		Status:      StatusPending,
	}
	next, effects, err := Transition(Options{WalletEnabled: true, AgentEnabled: true, FeeCents: 500000}, txn, PayWithWallet{})
	require.NoError(t, err)
	assert.Equal(t, StatusPaid, next)
	require.Len(t, effects, 2) // no fulfillment mark for entries
	debit := effects[0].(DebitWallet)
	assert.Equal(t, domain.TxTypeGiveawayFee, debit.TxType)
	mail := effects[1].(SendMail)
	assert.Equal(t, TplGiveawayPaid, mail.Template)
}

// A giveaway configured wallet-off must push every entry down the agent
// path, even for signed-in entrants with funded wallets.
func TestGiveawayWalletDisabledConfig(t *testing.T) {
	opts := Options{WalletEnabled: false, AgentEnabled: true, FeeCents: 500000}
	txn := &Transaction{
		ID:          5,
		Kind:        KindGiveaway,
		Reference:   "GWE-TEST2",
		UserID:      uintPtr(7),
		AmountCents: 500000,
		Status:      StatusPending,
	}
	_, _, err := Transition(opts, txn, PayWithWallet{})
	assert.ErrorIs(t, err, ErrRailDisabled)

	next, _, err := Transition(opts, txn, ChooseAgentPay{Rail: domain.RailAgent})
	require.NoError(t, err)
	assert.Equal(t, StatusAwaitingAgent, next)
}

func TestTerminalStatuses(t *testing.T) {
	assert.True(t, StatusPaid.Terminal())
	assert.True(t, StatusConfirmed.Terminal())
	assert.True(t, StatusFailed.Terminal())
	assert.False(t, StatusPending.Terminal())
	assert.False(t, StatusVerifying.Terminal())
}
