// Copyright (c) 2026 GymFusion. All rights reserved.
// Author: dev@gymfusion.app

/*
Package mailer delivers transactional email over SMTP.

It covers the two messages the auth flow sends: the email-verification link
after registration, and the password-reset link. Delivery is best-effort by
contract: callers log failures and carry on, an unreachable mail server must
never fail a registration.

Core Responsibilities:

  - Transport: STARTTLS-secured SMTP with PLAIN authentication.
  - Content: Plaintext bodies rendered from templates in this package.
  - Isolation: Exposes a narrow [Sender] interface so services can be tested
    with an in-memory fake.
*/
package mailer

import (
	"crypto/tls"
	"fmt"
	"log/slog"
	"net"
	"net/smtp"
	"strings"
)

// Message is a single outbound email.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Sender delivers a message. Implementations must be safe for concurrent use.
type Sender interface {
	Send(message Message) error
}

// # SMTP Transport

// Transport sends mail through an external SMTP relay.
type Transport struct {
	host   string
	port   string
	user   string
	pass   string
	sender string
}

// NewTransport configures an SMTP transport.
//
// # Parameters
//   - host, port: The SMTP relay address.
//   - user, pass: PLAIN auth credentials.
//   - sender: The From address stamped on every message.
func NewTransport(host, port, user, pass, sender string) *Transport {
	return &Transport{
		host:   host,
		port:   port,
		user:   user,
		pass:   pass,
		sender: sender,
	}
}

// Send connects, authenticates, and delivers a single message.
//
// A fresh connection per message keeps the transport stateless; send volume
// here is a handful of messages per minute, not a campaign.
func (transport *Transport) Send(message Message) error {
	client, err := transport.connect()
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	if err := client.Mail(transport.sender); err != nil {
		return fmt.Errorf("mailer: MAIL FROM rejected: %w", err)
	}
	if err := client.Rcpt(message.To); err != nil {
		return fmt.Errorf("mailer: RCPT TO rejected: %w", err)
	}

	writer, err := client.Data()
	if err != nil {
		return fmt.Errorf("mailer: DATA failed: %w", err)
	}

	if _, err := writer.Write([]byte(transport.envelope(message))); err != nil {
		_ = writer.Close()
		return fmt.Errorf("mailer: body write failed: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("mailer: body close failed: %w", err)
	}

	return client.Quit()
}

// connect dials the relay and upgrades the connection with STARTTLS.
func (transport *Transport) connect() (*smtp.Client, error) {
	addr := net.JoinHostPort(transport.host, transport.port)

	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("mailer: failed to dial SMTP server: %w", err)
	}

	client, err := smtp.NewClient(conn, transport.host)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("mailer: failed to create SMTP client: %w", err)
	}

	// Refuse plaintext sessions outright.
	if ok, _ := client.Extension("STARTTLS"); !ok {
		_ = client.Close()
		return nil, fmt.Errorf("mailer: SMTP server does not support STARTTLS")
	}

	tlsConfig := &tls.Config{
		ServerName: transport.host,
		MinVersion: tls.VersionTLS12,
	}
	if err := client.StartTLS(tlsConfig); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("mailer: failed to start TLS: %w", err)
	}

	auth := smtp.PlainAuth("", transport.user, transport.pass, transport.host)
	if err := client.Auth(auth); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("mailer: SMTP auth failed: %w", err)
	}

	return client, nil
}

// # Development Sender

// LogSender is a [Sender] that writes messages to the log instead of a
// relay. Used in development when no SMTP host is configured.
type LogSender struct {
	Logger *slog.Logger
}

// Send logs the message and reports success.
func (sender *LogSender) Send(message Message) error {
	sender.Logger.Info("mail_logged_instead_of_sent",
		slog.String("to", message.To),
		slog.String("subject", message.Subject),
	)
	return nil
}

// envelope assembles RFC 5322 headers plus the plaintext body.
func (transport *Transport) envelope(message Message) string {
	var builder strings.Builder

	builder.WriteString("From: " + transport.sender + "\r\n")
	builder.WriteString("To: " + message.To + "\r\n")
	builder.WriteString("Subject: " + message.Subject + "\r\n")
	builder.WriteString("MIME-Version: 1.0\r\n")
	builder.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	builder.WriteString("\r\n")
	builder.WriteString(message.Body)
	builder.WriteString("\r\n")

	return builder.String()
}
