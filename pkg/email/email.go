package email

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
	"golang.org/x/time/rate"

	"contact-relay-backend/internal/domain"
	"contact-relay-backend/pkg/logger"
)

var (
	// ErrNotConfigured is returned when SMTP host or credentials are missing
	ErrNotConfigured = errors.New("email service is not configured")
	// ErrInsecureAuth is returned instead of sending credentials in cleartext
	// to a remote relay that offers neither implicit TLS nor STARTTLS
	ErrInsecureAuth = errors.New("smtp auth: refusing plaintext credentials to a remote relay")
)

// SMTPConfig holds the relay settings
type SMTPConfig struct {
	Host     string
	Port     string
	Secure   bool // implicit TLS; otherwise STARTTLS when offered
	Username string
	Password string
	Timeout  time.Duration
	// Outbound throttle shared by all requests. MaxPerSecond 0 disables it.
	MaxPerSecond float64
	Burst        int
}

// EmailService submits messages to an SMTP relay
type EmailService struct {
	cfg       SMTPConfig
	throttle  *rate.Limiter
	tlsConfig *tls.Config
	now       func() time.Time
	log       *slog.Logger
}

// NewEmailService creates a new email service for the given relay
func NewEmailService(cfg SMTPConfig) *EmailService {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}

	limit := rate.Inf
	if cfg.MaxPerSecond > 0 {
		limit = rate.Limit(cfg.MaxPerSecond)
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}

	return &EmailService{
		cfg:      cfg,
		throttle: rate.NewLimiter(limit, burst),
		tlsConfig: &tls.Config{
			ServerName: cfg.Host,
			MinVersion: tls.VersionTLS12,
		},
		now: time.Now,
		log: logger.Log,
	}
}

// IsConfigured checks if the email service has valid SMTP configuration
func (s *EmailService) IsConfigured() bool {
	return s.cfg.Host != "" && s.cfg.Port != "" && s.cfg.Username != ""
}

// Send submits msg once. There are no retries; every failure is returned wrapped.
func (s *EmailService) Send(ctx context.Context, msg *domain.MailMessage) error {
	if !s.IsConfigured() {
		return ErrNotConfigured
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	if err := s.throttle.Wait(ctx); err != nil {
		return fmt.Errorf("relay throttle: %w", err)
	}

	body, err := Render(msg, s.now())
	if err != nil {
		return err
	}

	c, stop, err := s.open(ctx)
	if err != nil {
		return err
	}
	defer stop()
	defer c.Close()

	if deadline, ok := ctx.Deadline(); ok {
		remaining := time.Until(deadline)
		c.CommandTimeout = remaining
		c.SubmissionTimeout = remaining
	}

	if ok, _ := c.Extension("AUTH"); ok {
		if _, isTLS := c.TLSConnectionState(); !isTLS && !isLoopbackHost(s.cfg.Host) {
			return ErrInsecureAuth
		}
		auth := sasl.NewPlainClient("", s.cfg.Username, s.cfg.Password)
		if err := c.Auth(auth); err != nil {
			return fmt.Errorf("smtp auth: %w", err)
		}
	}

	if err := c.SendMail(msg.FromAddress, []string{msg.To}, bytes.NewReader(body)); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	// Delivery is complete once DATA is accepted
	if err := c.Quit(); err != nil {
		s.log.Warn("SMTP QUIT failed after delivery", "host", s.cfg.Host, "error", err)
	}
	return nil
}

// open connects to the relay and returns a client whose connection is closed
// as soon as ctx ends. Without implicit TLS the connection is upgraded with
// STARTTLS when the relay offers it. go-smtp only upgrades while constructing
// a client, so an offering relay is greeted once and then redialled.
func (s *EmailService) open(ctx context.Context) (*smtp.Client, func() bool, error) {
	conn, err := s.dial(ctx)
	if err != nil {
		return nil, nil, err
	}
	stop := closeOnDone(ctx, conn)

	c := smtp.NewClient(conn)
	if s.cfg.Secure {
		return c, stop, nil
	}
	if ok, _ := c.Extension("STARTTLS"); !ok {
		// A failed greeting surfaces from the next command
		return c, stop, nil
	}
	_ = c.Close()
	stop()

	conn, err = s.dial(ctx)
	if err != nil {
		return nil, nil, err
	}
	stop = closeOnDone(ctx, conn)

	c, err = smtp.NewClientStartTLS(conn, s.tlsConfig)
	if err != nil {
		stop()
		return nil, nil, fmt.Errorf("smtp starttls: %w", err)
	}
	return c, stop, nil
}

// closeOnDone unblocks any pending read or write on conn once ctx ends
func closeOnDone(ctx context.Context, conn net.Conn) func() bool {
	return context.AfterFunc(ctx, func() { _ = conn.Close() })
}

// isLoopbackHost reports whether credentials to host never leave the machine
func isLoopbackHost(host string) bool {
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

func (s *EmailService) dial(ctx context.Context) (net.Conn, error) {
	addr := net.JoinHostPort(s.cfg.Host, s.cfg.Port)

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("smtp dial %s: %w", addr, err)
	}
	if !s.cfg.Secure {
		return conn, nil
	}

	tlsConn := tls.Client(conn, s.tlsConfig)
	if err := tlsConn.HandshakeContext(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("smtp tls handshake: %w", err)
	}
	return tlsConn, nil
}
