package domain

const (
	RoleCustomer = "CUSTOMER"
	RoleAdmin    = "ADMIN"
)

// Payment statuses shared by orders, deposits and giveaway entries.
const (
	PaymentPending         = "PENDING"
	PaymentPaid            = "PAID"
	PaymentAwaitingAgent   = "AWAITING_AGENT"
	PaymentAwaitingReceipt = "AWAITING_RECEIPT"
	PaymentVerifying       = "VERIFYING"
	PaymentConfirmed       = "CONFIRMED"
	PaymentFailed          = "FAILED" // no code path sets this; reachable only by direct admin edit
)

// Payment rails.
const (
	RailWallet = "WALLET"
	RailBank   = "BANK"
	RailCrypto = "CRYPTO"
	RailAgent  = "AGENT"
)

// Wallet transaction types.
const (
	TxTypePurchase    = "PURCHASE"
	TxTypeDeposit     = "DEPOSIT"
	TxTypeGiveawayFee = "GIVEAWAY_FEE"
	TxTypeInvestment  = "INVESTMENT"
)

// Vehicle body types offered in the catalog.
var VehicleTypes = []string{"SEDAN", "SUV", "TRUCK", "VAN", "SPORTS", "MOTORBIKE"}

// Giveaway entry winner states.
const (
	WinnerNone     = "NONE"
	WinnerSelected = "WINNER"
)

const (
	InvestmentActive = "ACTIVE"
	InvestmentClosed = "CLOSED"
)

// System setting keys for checkout configuration.
const (
	SettingOrderWalletEnabled    = "order_wallet_enabled"
	SettingOrderAgentEnabled     = "order_agent_enabled"
	SettingDepositAgentEnabled   = "deposit_agent_enabled"
	SettingGiveawayWalletEnabled = "giveaway_wallet_enabled"
	SettingGiveawayAgentEnabled  = "giveaway_agent_enabled"
	SettingGiveawayFeeCents      = "giveaway_fee_cents"
)

// KnownSettingKey guards admin setting writes against typos.
func KnownSettingKey(key string) bool {
	switch key {
	case SettingOrderWalletEnabled, SettingOrderAgentEnabled,
		SettingDepositAgentEnabled, SettingGiveawayWalletEnabled,
		SettingGiveawayAgentEnabled, SettingGiveawayFeeCents:
		return true
	}
	return false
}
