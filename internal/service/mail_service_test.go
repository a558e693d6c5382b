package service

import (
	"context"
	"testing"

	"kuruma/config"
	"kuruma/internal/workflow"
	"kuruma/pkg/mailer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureSender struct {
	sent []mailer.Message
	err  error
}

func (s *captureSender) Send(ctx context.Context, msg mailer.Message) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, msg)
	return nil
}

func mailTestConfig() *config.MailConfig {
	return &config.MailConfig{
		OpsMailbox: "sales@kuruma.example.com",
		FromName:   "Kuruma Motors",
	}
}

func sampleTxn() *workflow.Transaction {
	uid := uint(7)
	return &workflow.Transaction{
		ID:          1,
		Kind:        workflow.KindOrder,
		Reference:   "ORD-ABC123",
		UserID:      &uid,
		PayerName:   "Aiko Tanaka",
		PayerEmail:  "aiko@example.com",
		AmountCents: 21280000,
		ReceiptURL:  "https://img.example.com/r.png",
	}
}

func TestPayerTemplatesGoToPayer(t *testing.T) {
	sender := &captureSender{}
	svc := NewMailService(mailTestConfig(), sender)

	for _, tpl := range []string{workflow.TplOrderPaid, workflow.TplOrderConfirmed, workflow.TplDepositConfirmed, workflow.TplGiveawayPaid, workflow.TplGiveawayConfirmed} {
		svc.Send(tpl, sampleTxn())
	}
	require.Len(t, sender.sent, 5)
	for _, msg := range sender.sent {
		assert.Equal(t, "aiko@example.com", msg.Recipient, msg.TemplateID)
	}
}

func TestOpsTemplatesGoToOpsMailbox(t *testing.T) {
	sender := &captureSender{}
	svc := NewMailService(mailTestConfig(), sender)

	for _, tpl := range []string{workflow.TplOrderAgentRequest, workflow.TplOrderReceipt, workflow.TplDepositAgentRequest, workflow.TplDepositReceipt, workflow.TplGiveawayAgentRequest, workflow.TplGiveawayReceipt} {
		svc.Send(tpl, sampleTxn())
	}
	require.Len(t, sender.sent, 6)
	for _, msg := range sender.sent {
		assert.Equal(t, "sales@kuruma.example.com", msg.Recipient, msg.TemplateID)
	}
}

func TestUnknownTemplateDropsSilently(t *testing.T) {
	sender := &captureSender{}
	svc := NewMailService(mailTestConfig(), sender)
	svc.Send("NOT_A_TEMPLATE", sampleTxn())
	assert.Empty(t, sender.sent)
}

func TestSendFailureIsSwallowed(t *testing.T) {
	sender := &captureSender{err: assert.AnError}
	svc := NewMailService(mailTestConfig(), sender)
	// Must not panic or propagate; workflow mail is best-effort.
	svc.Send(workflow.TplOrderPaid, sampleTxn())
	assert.Empty(t, sender.sent)
}

func TestOrderPaidBodyCarriesAmount(t *testing.T) {
	sender := &captureSender{}
	svc := NewMailService(mailTestConfig(), sender)
	svc.Send(workflow.TplOrderPaid, sampleTxn())
	require.Len(t, sender.sent, 1)
	assert.Contains(t, sender.sent[0].Body, "¥212,800")
	assert.Contains(t, sender.sent[0].Body, "Aiko Tanaka")
	assert.Contains(t, sender.sent[0].Subject, "ORD-ABC123")
}

func TestReceiptBodyLinksReceipt(t *testing.T) {
	sender := &captureSender{}
	svc := NewMailService(mailTestConfig(), sender)
	svc.Send(workflow.TplOrderReceipt, sampleTxn())
	require.Len(t, sender.sent, 1)
	assert.Contains(t, sender.sent[0].Body, "https://img.example.com/r.png")
}

func TestYenFormatting(t *testing.T) {
	cases := []struct {
		cents int64
		want  string
	}{
		{0, "¥0"},
		{100, "¥1"},
		{500000, "¥5,000"},
		{5000000, "¥50,000"},
		{21280000, "¥212,800"},
		{30000000, "¥300,000"},
		{8720000, "¥87,200"},
		{123456789000, "¥1,234,567,890"},
		{-500000, "-¥5,000"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, yen(tc.cents), "cents=%d", tc.cents)
	}
}
