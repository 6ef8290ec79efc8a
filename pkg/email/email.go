package email

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"time"
)

var (
	// ErrNotConfigured is returned when host or credentials are missing.
	ErrNotConfigured = errors.New("email service is not configured")
	// ErrNoRecipients is returned when a message has no To address.
	ErrNoRecipients = errors.New("no recipients provided")
	// ErrNoSender is returned when a message has no From address.
	ErrNoSender = errors.New("no sender provided")
	// ErrAuthUnsupported is returned when the relay does not offer AUTH.
	ErrAuthUnsupported = errors.New("auth: relay does not advertise AUTH")
)

// Transport opens mail relay sessions. Each request opens its own session so
// a failure on one request never touches another request's connection.
type Transport interface {
	IsConfigured() bool
	Open(ctx context.Context) (Session, error)
}

// Session is one authenticated connection to the relay.
type Session interface {
	// Verify probes the relay without sending anything.
	Verify(ctx context.Context) error
	Send(ctx context.Context, msg *Message) error
	Close() error
}

// SMTPConfig holds the relay settings
type SMTPConfig struct {
	Host       string
	Port       int
	Secure     bool   // implicit TLS (465) when true, opportunistic STARTTLS otherwise
	ServerName string // TLS server name; defaults to Host
	HeloName   string
	Username   string
	Password   string
	Timeout    time.Duration
}

// EmailService handles sending emails via SMTP
type EmailService struct {
	cfg    SMTPConfig
	signer *Signer
}

// NewEmailService creates a new email service. signer may be nil.
func NewEmailService(cfg SMTPConfig, signer *Signer) *EmailService {
	if cfg.ServerName == "" {
		cfg.ServerName = cfg.Host
	}
	if cfg.HeloName == "" {
		cfg.HeloName = "localhost"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &EmailService{cfg: cfg, signer: signer}
}

// IsConfigured checks if the email service has valid SMTP configuration
func (s *EmailService) IsConfigured() bool {
	return s.cfg.Host != "" && s.cfg.Username != "" && s.cfg.Password != ""
}

// Open dials the relay, negotiates TLS and authenticates.
func (s *EmailService) Open(ctx context.Context) (Session, error) {
	if !s.IsConfigured() {
		return nil, ErrNotConfigured
	}

	addr := net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port))
	dialer := &net.Dialer{Timeout: s.cfg.Timeout}

	var conn net.Conn
	var err error
	if s.cfg.Secure {
		tlsDialer := &tls.Dialer{NetDialer: dialer, Config: s.tlsConfig()}
		conn, err = tlsDialer.DialContext(ctx, "tcp", addr)
	} else {
		conn, err = dialer.DialContext(ctx, "tcp", addr)
	}
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}

	if deadline, ok := ctx.Deadline(); ok {
		if err := conn.SetDeadline(deadline); err != nil {
			conn.Close()
			return nil, fmt.Errorf("set deadline: %w", err)
		}
	}

	client, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("new client: %w", err)
	}

	if err := s.handshake(client); err != nil {
		client.Close()
		return nil, err
	}

	return &smtpSession{client: client, signer: s.signer}, nil
}

func (s *EmailService) handshake(client *smtp.Client) error {
	if err := client.Hello(s.cfg.HeloName); err != nil {
		return fmt.Errorf("helo: %w", err)
	}

	if !s.cfg.Secure {
		if ok, _ := client.Extension("STARTTLS"); ok {
			if err := client.StartTLS(s.tlsConfig()); err != nil {
				return fmt.Errorf("starttls: %w", err)
			}
		}
	}

	// Credentials are mandatory, so a relay that cannot take them is an error
	if ok, _ := client.Extension("AUTH"); !ok {
		return ErrAuthUnsupported
	}
	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("auth: %w", err)
	}
	return nil
}

func (s *EmailService) tlsConfig() *tls.Config {
	return &tls.Config{
		ServerName: s.cfg.ServerName,
		MinVersion: tls.VersionTLS12,
	}
}

type smtpSession struct {
	client *smtp.Client
	signer *Signer
}

func (s *smtpSession) Verify(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.client.Noop(); err != nil {
		return fmt.Errorf("verify: %w", err)
	}
	return nil
}

func (s *smtpSession) Send(ctx context.Context, msg *Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	raw, err := msg.Bytes()
	if err != nil {
		return err
	}

	if s.signer != nil {
		raw, err = s.signer.Sign(raw, msg.From.Address)
		if err != nil {
			return err
		}
	}

	if err := s.transmit(msg, raw); err != nil {
		// Leave the session usable for the caller's Close
		_ = s.client.Reset()
		return err
	}
	return nil
}

func (s *smtpSession) transmit(msg *Message, raw []byte) error {
	if err := s.client.Mail(msg.From.Address); err != nil {
		return fmt.Errorf("mail from: %w", err)
	}
	for _, rcpt := range msg.To {
		if err := s.client.Rcpt(rcpt); err != nil {
			return fmt.Errorf("rcpt to: %w", err)
		}
	}
	w, err := s.client.Data()
	if err != nil {
		return fmt.Errorf("data start: %w", err)
	}
	if _, err := w.Write(raw); err != nil {
		return fmt.Errorf("data write: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("data close: %w", err)
	}
	return nil
}

func (s *smtpSession) Close() error {
	if err := s.client.Quit(); err != nil {
		return s.client.Close()
	}
	return nil
}
