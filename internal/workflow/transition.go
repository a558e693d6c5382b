// Package workflow implements the payment state machine shared by vehicle
// orders, wallet deposits and giveaway entries. Transition is pure: it maps
// (status, event) to the next status plus a list of side-effect descriptors,
// which the Engine executes against the store, the wallet ledger and the
// mail dispatcher.
package workflow

import (
	"errors"

	"kuruma/internal/domain"
)

// Kind selects the workflow variant. The three variants share the same
// transition shape and differ only in ledger entry types and mail copy.
type Kind string

const (
	KindOrder    Kind = "ORDER"
	KindDeposit  Kind = "DEPOSIT"
	KindGiveaway Kind = "GIVEAWAY_ENTRY"
)

type Status string

const (
	StatusPending         Status = domain.PaymentPending
	StatusPaid            Status = domain.PaymentPaid
	StatusAwaitingAgent   Status = domain.PaymentAwaitingAgent
	StatusAwaitingReceipt Status = domain.PaymentAwaitingReceipt
	StatusVerifying       Status = domain.PaymentVerifying
	StatusConfirmed       Status = domain.PaymentConfirmed
	StatusFailed          Status = domain.PaymentFailed
)

// Terminal reports whether no further transition can leave the status.
func (s Status) Terminal() bool {
	return s == StatusPaid || s == StatusConfirmed || s == StatusFailed
}

// Options carries the admin-configurable rail toggles for one variant.
type Options struct {
	WalletEnabled bool
	AgentEnabled  bool
	FeeCents      int64 // giveaway entry fee; 0 for order/deposit (amount comes from the entity)
}

// Event is a user or admin action fired against a transaction.
type Event interface{ eventName() string }

// PayWithWallet settles the full amount from the payer's wallet balance.
type PayWithWallet struct{}

// ChooseAgentPay picks a rail the system cannot settle itself (bank
// transfer, crypto, or a human agent relaying instructions).
type ChooseAgentPay struct {
	Rail string // BANK, CRYPTO or AGENT
}

// SubmitReceipt attaches payer-uploaded proof of payment.
type SubmitReceipt struct {
	ReceiptURL string
}

// AdminConfirm is the human verification gate for agent-rail payments.
type AdminConfirm struct{}

func (PayWithWallet) eventName() string  { return "pay_with_wallet" }
func (ChooseAgentPay) eventName() string { return "choose_agent_pay" }
func (SubmitReceipt) eventName() string  { return "submit_receipt" }
func (AdminConfirm) eventName() string   { return "admin_confirm" }

// Effect is a side-effect descriptor produced by Transition and executed by
// the Engine. Keeping effects as data makes the transition table testable
// without I/O.
type Effect interface{ effectName() string }

type DebitWallet struct {
	AmountCents int64
	TxType      string
}

type CreditWallet struct {
	AmountCents int64
	TxType      string
}

// MarkFulfilled stamps the order as fulfilled on confirmation.
type MarkFulfilled struct{}

// SendMail dispatches one template from the mail table, best-effort, after
// the transition has committed.
type SendMail struct {
	Template string
}

func (DebitWallet) effectName() string   { return "debit_wallet" }
func (CreditWallet) effectName() string  { return "credit_wallet" }
func (MarkFulfilled) effectName() string { return "mark_fulfilled" }
func (SendMail) effectName() string      { return "send_mail" }

var (
	ErrInvalidTransition = errors.New("invalid transition for current status")
	ErrRailDisabled      = errors.New("payment rail disabled")
	ErrUnknownRail       = errors.New("unknown payment rail")
	ErrReceiptRequired   = errors.New("receipt reference required")
)

// Transition computes the next status and effect list for an event fired
// against a transaction snapshot. It never touches I/O; guards that depend
// on live data (balance check, current-status check) are enforced by the
// Engine's conditional writes.
func Transition(opts Options, t *Transaction, ev Event) (Status, []Effect, error) {
	switch ev := ev.(type) {
	case PayWithWallet:
		if t.Status != StatusPending {
			return t.Status, nil, ErrInvalidTransition
		}
		if !opts.WalletEnabled {
			return t.Status, nil, ErrRailDisabled
		}
		return StatusPaid, append(
			[]Effect{DebitWallet{AmountCents: t.AmountCents, TxType: debitType(t.Kind)}},
			confirmEffects(t.Kind, true)...,
		), nil

	case ChooseAgentPay:
		if t.Status != StatusPending {
			return t.Status, nil, ErrInvalidTransition
		}
		if !opts.AgentEnabled {
			return t.Status, nil, ErrRailDisabled
		}
		next, ok := agentRailStatus(ev.Rail)
		if !ok {
			return t.Status, nil, ErrUnknownRail
		}
		return next, []Effect{SendMail{Template: agentRequestTemplate(t.Kind)}}, nil

	case SubmitReceipt:
		if t.Status != StatusAwaitingReceipt && t.Status != StatusAwaitingAgent {
			return t.Status, nil, ErrInvalidTransition
		}
		if ev.ReceiptURL == "" {
			return t.Status, nil, ErrReceiptRequired
		}
		return StatusVerifying, []Effect{SendMail{Template: receiptTemplate(t.Kind)}}, nil

	case AdminConfirm:
		if t.Status != StatusVerifying {
			return t.Status, nil, ErrInvalidTransition
		}
		effects := confirmEffects(t.Kind, false)
		if t.Kind == KindDeposit {
			effects = append([]Effect{CreditWallet{AmountCents: t.AmountCents, TxType: domain.TxTypeDeposit}}, effects...)
		}
		return StatusConfirmed, effects, nil
	}
	return t.Status, nil, ErrInvalidTransition
}

func agentRailStatus(rail string) (Status, bool) {
	switch rail {
	case domain.RailBank, domain.RailCrypto:
		return StatusAwaitingReceipt, true
	case domain.RailAgent:
		return StatusAwaitingAgent, true
	}
	return "", false
}

func debitType(kind Kind) string {
	if kind == KindGiveaway {
		return domain.TxTypeGiveawayFee
	}
	return domain.TxTypePurchase
}

// confirmEffects is the terminal fan-out: fulfillment mark for orders plus
// the payer confirmation mail for every variant.
func confirmEffects(kind Kind, walletRail bool) []Effect {
	var effects []Effect
	if kind == KindOrder {
		effects = append(effects, MarkFulfilled{})
	}
	effects = append(effects, SendMail{Template: confirmedTemplate(kind, walletRail)})
	return effects
}
