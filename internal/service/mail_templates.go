package service

import (
	"fmt"
	"strconv"

	"kuruma/internal/workflow"
)

// The dispatch table: one row per template ID, mapping to a recipient rule
// and subject/body copy. Payer confirmations go to the transaction's stored
// email; agent requests go to the fixed operations mailbox.

type recipientRule int

const (
	toPayer recipientRule = iota
	toOps
)

type mailTemplate struct {
	recipient recipientRule
	subject   func(t *workflow.Transaction) string
	body      func(t *workflow.Transaction) string
}

var mailTemplates = map[string]mailTemplate{
	workflow.TplOrderPaid: {
		recipient: toPayer,
		subject:   func(t *workflow.Transaction) string { return "Your order is paid - " + t.Reference },
		body: func(t *workflow.Transaction) string {
			return payerBody(t, "Thank you for your purchase!",
				"We received your wallet payment of "+yen(t.AmountCents)+". Our team will contact you shortly to arrange delivery.")
		},
	},
	workflow.TplOrderConfirmed: {
		recipient: toPayer,
		subject:   func(t *workflow.Transaction) string { return "Payment confirmed - " + t.Reference },
		body: func(t *workflow.Transaction) string {
			return payerBody(t, "Your payment is confirmed!",
				"We verified your payment of "+yen(t.AmountCents)+" and your order is now being fulfilled.")
		},
	},
	workflow.TplOrderAgentRequest: {
		recipient: toOps,
		subject:   func(t *workflow.Transaction) string { return "New order awaiting payment - " + t.Reference },
		body: func(t *workflow.Transaction) string {
			return opsBody(t, "A customer chose an agent payment rail for a vehicle order. Please send payment instructions.")
		},
	},
	workflow.TplOrderReceipt: {
		recipient: toOps,
		subject:   func(t *workflow.Transaction) string { return "Receipt submitted for order " + t.Reference },
		body: func(t *workflow.Transaction) string {
			return opsBody(t, "The payer uploaded proof of payment. Review and confirm in the back office.<br>Receipt: "+link(t.ReceiptURL))
		},
	},
	workflow.TplDepositAgentRequest: {
		recipient: toOps,
		subject:   func(t *workflow.Transaction) string { return "New deposit request - " + t.Reference },
		body: func(t *workflow.Transaction) string {
			return opsBody(t, "A customer requested a wallet deposit. Please send payment instructions.")
		},
	},
	workflow.TplDepositReceipt: {
		recipient: toOps,
		subject:   func(t *workflow.Transaction) string { return "Receipt submitted for deposit " + t.Reference },
		body: func(t *workflow.Transaction) string {
			return opsBody(t, "The payer uploaded proof of payment for a deposit. Review and confirm in the back office.<br>Receipt: "+link(t.ReceiptURL))
		},
	},
	workflow.TplDepositConfirmed: {
		recipient: toPayer,
		subject:   func(t *workflow.Transaction) string { return "Deposit completed - " + t.Reference },
		body: func(t *workflow.Transaction) string {
			return payerBody(t, "Your deposit is complete!",
				"Your wallet has been credited with "+yen(t.AmountCents)+".")
		},
	},
	workflow.TplGiveawayPaid: {
		recipient: toPayer,
		subject:   func(t *workflow.Transaction) string { return "Giveaway entry received - " + t.Reference },
		body: func(t *workflow.Transaction) string {
			return payerBody(t, "You're in the draw!",
				"We received your entry fee of "+yen(t.AmountCents)+". Good luck!")
		},
	},
	workflow.TplGiveawayAgentRequest: {
		recipient: toOps,
		subject:   func(t *workflow.Transaction) string { return "New giveaway entry awaiting payment - " + t.Reference },
		body: func(t *workflow.Transaction) string {
			return opsBody(t, "A giveaway entrant chose an agent payment rail. Please send payment instructions.")
		},
	},
	workflow.TplGiveawayReceipt: {
		recipient: toOps,
		subject:   func(t *workflow.Transaction) string { return "Receipt submitted for giveaway entry " + t.Reference },
		body: func(t *workflow.Transaction) string {
			return opsBody(t, "The entrant uploaded proof of payment. Review and confirm in the back office.<br>Receipt: "+link(t.ReceiptURL))
		},
	},
	workflow.TplGiveawayConfirmed: {
		recipient: toPayer,
		subject:   func(t *workflow.Transaction) string { return "Giveaway entry confirmed - " + t.Reference },
		body: func(t *workflow.Transaction) string {
			return payerBody(t, "You're in the draw!",
				"Your entry fee of "+yen(t.AmountCents)+" has been verified. Good luck!")
		},
	},
}

func payerBody(t *workflow.Transaction, headline, detail string) string {
	return fmt.Sprintf("<h2>%s</h2><p>Dear %s,</p><p>%s</p><p>Reference: %s</p>",
		headline, t.PayerName, detail, t.Reference)
}

func opsBody(t *workflow.Transaction, detail string) string {
	return fmt.Sprintf("<p>%s</p><ul><li>Reference: %s</li><li>Payer: %s (%s)</li><li>Amount: %s</li></ul>",
		detail, t.Reference, t.PayerName, t.PayerEmail, yen(t.AmountCents))
}

func link(url string) string {
	if url == "" {
		return "(missing)"
	}
	return fmt.Sprintf(`<a href="%s">%s</a>`, url, url)
}

// yen formats a cent amount as a yen string with thousands separators,
// e.g. 21280000 -> "¥212,800".
func yen(cents int64) string {
	whole := strconv.FormatInt(cents/100, 10)
	neg := false
	if whole[0] == '-' {
		neg = true
		whole = whole[1:]
	}
	var out []byte
	for i, d := range []byte(whole) {
		if i > 0 && (len(whole)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, d)
	}
	s := "¥" + string(out)
	if neg {
		s = "-" + s
	}
	return s
}
