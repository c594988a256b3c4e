// Package mailer sends transactional email through the send-email function.
package mailer

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"kambafy/internal/pkg/functions"
	"kambafy/internal/pkg/sitelinks"

	"github.com/rs/zerolog"
)

const sendEmailFunction = "send-email"

type Template string

const (
	TemplatePasswordReset Template = "password_reset"
	TemplateBanNotice     Template = "ban_notice"
	TemplateTestRecovery  Template = "test_recovery"
)

var ErrNoRecipient = errors.New("email recipient is required")

// Message is the payload of the send-email function.
type Message struct {
	To       string         `json:"to"`
	Template Template       `json:"template"`
	Subject  string         `json:"subject"`
	Data     map[string]any `json:"data,omitempty"`
}

type sendResult struct {
	ID string `json:"id"`
}

// BulkResult reports per-recipient outcomes of a bulk send.
type BulkResult struct {
	Sent   []string          `json:"sent"`
	Failed map[string]string `json:"failed"`
}

type Mailer struct {
	fn    functions.Invoker
	links *sitelinks.Resolver
	log   zerolog.Logger
}

func New(fn functions.Invoker, links *sitelinks.Resolver, log zerolog.Logger) *Mailer {
	return &Mailer{fn: fn, links: links, log: log.With().Str("component", "mailer").Logger()}
}

func (m *Mailer) SendPasswordReset(ctx context.Context, email, name string) error {
	return m.send(ctx, Message{
		To:       email,
		Template: TemplatePasswordReset,
		Subject:  "Redefinir a sua palavra-passe Kambafy",
		Data: map[string]any{
			"name": name,
			"link": m.links.URL("/reset-password?email=" + url.QueryEscape(email)),
		},
	})
}

func (m *Mailer) SendBanNotice(ctx context.Context, email, name, reason string) error {
	return m.send(ctx, Message{
		To:       email,
		Template: TemplateBanNotice,
		Subject:  "A sua conta Kambafy foi suspensa",
		Data: map[string]any{
			"name":        name,
			"reason":      reason,
			"support_url": m.links.URL("/suporte"),
		},
	})
}

func (m *Mailer) SendTestRecovery(ctx context.Context, email string) error {
	return m.send(ctx, Message{
		To:       email,
		Template: TemplateTestRecovery,
		Subject:  "Teste de recuperação de conta",
		Data:     map[string]any{"link": m.links.URL("/auth")},
	})
}

// SendBulkReset sends a password reset to each recipient; one failure does not stop the rest.
func (m *Mailer) SendBulkReset(ctx context.Context, recipients map[string]string) BulkResult {
	res := BulkResult{Sent: []string{}, Failed: map[string]string{}}
	for email, name := range recipients {
		if err := ctx.Err(); err != nil {
			res.Failed[email] = err.Error()
			continue
		}
		if err := m.SendPasswordReset(ctx, email, name); err != nil {
			res.Failed[email] = err.Error()
			continue
		}
		res.Sent = append(res.Sent, email)
	}
	return res
}

func (m *Mailer) send(ctx context.Context, msg Message) error {
	msg.To = strings.TrimSpace(msg.To)
	if msg.To == "" {
		return ErrNoRecipient
	}
	var out sendResult
	if err := m.fn.Invoke(ctx, sendEmailFunction, msg, &out); err != nil {
		m.log.Error().Err(err).Str("template", string(msg.Template)).Str("to", msg.To).Msg("send email failed")
		return fmt.Errorf("send %s email: %w", msg.Template, err)
	}
	m.log.Info().Str("template", string(msg.Template)).Str("to", msg.To).Str("id", out.ID).Msg("email sent")
	return nil
}
