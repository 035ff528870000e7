// Copyright (c) 2026 ABCScribe. All rights reserved.
// Author: dev@abcscribe.app

/*
Package mail implements outbound email delivery for ABCScribe.

Two backends exist: an SMTP sender for real environments and a log-only
sender for development, where clicking a logged link beats configuring a
relay. Both satisfy the consumer-side Mailer interfaces defined in the
domains that send mail.
*/
package mail

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"
)

// SMTPMailer delivers mail through a plain SMTP relay.
type SMTPMailer struct {
	addr string // host:port of the relay
	from string
	auth smtp.Auth
}

// NewSMTPMailer constructs an [SMTPMailer].
//
// username may be empty for relays that accept unauthenticated submission
// (e.g. a local postfix).
func NewSMTPMailer(addr, from, username, password string) *SMTPMailer {
	var auth smtp.Auth
	if username != "" {
		host := addr
		if i := strings.IndexByte(addr, ':'); i >= 0 {
			host = addr[:i]
		}
		auth = smtp.PlainAuth("", username, password, host)
	}

	return &SMTPMailer{addr: addr, from: from, auth: auth}
}

/*
SendMagicLink emails a passwordless sign-in link.

Parameters:
  - context: context.Context (reserved; net/smtp has no context support)
  - to: string
  - name: string (recipient display name)
  - link: string (absolute verification URL)

Returns:
  - error: Relay connection or submission failures
*/
func (mailer *SMTPMailer) SendMagicLink(_ context.Context, to, name, link string) error {
	subject := "Your ABCScribe sign-in link"
	body := fmt.Sprintf(
		"Hi %s,\r\n\r\n"+
			"Use the link below to sign in to ABCScribe. It expires in 15 minutes\r\n"+
			"and works exactly once.\r\n\r\n"+
			"%s\r\n\r\n"+
			"If you didn't request this, you can ignore this email.\r\n",
		name, link)

	message := strings.Join([]string{
		"From: " + mailer.from,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=UTF-8",
		"",
		body,
	}, "\r\n")

	if err := smtp.SendMail(mailer.addr, mailer.auth, mailer.from, []string{to}, []byte(message)); err != nil {
		return fmt.Errorf("smtp_send_failed: %w", err)
	}

	return nil
}

// LogMailer writes outbound mail to the log instead of delivering it.
//
// Used in development so the magic-link flow is testable without a relay.
type LogMailer struct {
	logger *slog.Logger
}

// NewLogMailer constructs a [LogMailer].
func NewLogMailer(logger *slog.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

// SendMagicLink logs the link at INFO level.
func (mailer *LogMailer) SendMagicLink(_ context.Context, to, name, link string) error {
	mailer.logger.Info("magic link issued",
		"to", to,
		"name", name,
		"link", link,
	)
	return nil
}
