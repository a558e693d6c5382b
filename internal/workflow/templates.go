package workflow

// Mail template identifiers produced by transitions. The dispatch table in
// the mail service maps each to a recipient rule plus subject/body copy;
// nothing else in the system is allowed to invent template IDs.
const (
	TplOrderPaid            = "ORDER_PAID"
	TplOrderConfirmed       = "ORDER_CONFIRMED"
	TplOrderAgentRequest    = "ORDER_AGENT_REQUEST"
	TplOrderReceipt         = "ORDER_RECEIPT_SUBMITTED"
	TplDepositAgentRequest  = "DEPOSIT_AGENT_REQUEST"
	TplDepositReceipt       = "DEPOSIT_RECEIPT_SUBMITTED"
	TplDepositConfirmed     = "DEPOSIT_CONFIRMED"
	TplGiveawayPaid         = "GIVEAWAY_ENTRY_PAID"
	TplGiveawayAgentRequest = "GIVEAWAY_AGENT_REQUEST"
	TplGiveawayReceipt      = "GIVEAWAY_RECEIPT_SUBMITTED"
	TplGiveawayConfirmed    = "GIVEAWAY_ENTRY_CONFIRMED"
)

func agentRequestTemplate(kind Kind) string {
	switch kind {
	case KindDeposit:
		return TplDepositAgentRequest
	case KindGiveaway:
		return TplGiveawayAgentRequest
	}
	return TplOrderAgentRequest
}

func receiptTemplate(kind Kind) string {
	switch kind {
	case KindDeposit:
		return TplDepositReceipt
	case KindGiveaway:
		return TplGiveawayReceipt
	}
	return TplOrderReceipt
}

func confirmedTemplate(kind Kind, walletRail bool) string {
	switch kind {
	case KindDeposit:
		return TplDepositConfirmed
	case KindGiveaway:
		if walletRail {
			return TplGiveawayPaid
		}
		return TplGiveawayConfirmed
	}
	if walletRail {
		return TplOrderPaid
	}
	return TplOrderConfirmed
}
