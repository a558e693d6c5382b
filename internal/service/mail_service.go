package service

import (
	"context"
	"log"
	"time"

	"kuruma/config"
	"kuruma/internal/workflow"
	"kuruma/pkg/mailer"
)

// MailService is the workflow Notifier: it resolves the recipient from the
// dispatch table, renders the copy, and posts to the mail relay. Sends are
// best-effort; a failed mail never rolls back the transition that caused it.
type MailService struct {
	cfg    *config.MailConfig
	sender mailer.Sender
}

func NewMailService(cfg *config.MailConfig, sender mailer.Sender) *MailService {
	return &MailService{cfg: cfg, sender: sender}
}

func (s *MailService) Send(template string, t *workflow.Transaction) {
	tpl, ok := mailTemplates[template]
	if !ok {
		log.Printf("[MAIL] unknown template %q (ref=%s)", template, t.Reference)
		return
	}
	recipient := t.PayerEmail
	if tpl.recipient == toOps {
		recipient = s.cfg.OpsMailbox
	}
	if recipient == "" {
		log.Printf("[MAIL] no recipient for %s (ref=%s)", template, t.Reference)
		return
	}
	msg := mailer.Message{
		TemplateID: template,
		Recipient:  recipient,
		Subject:    tpl.subject(t),
		Body:       tpl.body(t),
	}
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := s.sender.Send(ctx, msg); err != nil {
		log.Printf("[MAIL] send %s to %s failed: %v", template, recipient, err)
		return
	}
	log.Printf("[MAIL] sent %s to %s (ref=%s)", template, recipient, t.Reference)
}
