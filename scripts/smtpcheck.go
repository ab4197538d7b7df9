// smtpcheck sends one synthetic contact submission through the configured
// relay using the same settings as the API.
//
//	go run ./scripts "Jane" jane@example.com "hello from smtpcheck"
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"contact-relay-backend/config"
	"contact-relay-backend/internal/domain"
	"contact-relay-backend/pkg/email"
)

func main() {
	if len(os.Args) < 4 {
		fmt.Println("Usage: go run ./scripts <name> <reply-to-email> <message>")
		os.Exit(1)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	svc := email.NewEmailService(email.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Secure:   cfg.SMTPSecure,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		Timeout:  cfg.SMTPTimeout(),
	})
	if !svc.IsConfigured() {
		log.Fatal("SMTP_HOST, SMTP_PORT and SMTP_USER must be set")
	}

	msg, err := email.BuildContactMessage(&domain.ContactRequest{
		Name:    os.Args[1],
		Email:   os.Args[2],
		Message: os.Args[3],
	}, email.Identity{SMTPUser: cfg.SMTPUsername, To: cfg.ContactEmailTo})
	if err != nil {
		log.Fatalf("Failed to build message: %v", err)
	}

	fmt.Printf("Relaying via %s:%s to %s...\n", cfg.SMTPHost, cfg.SMTPPort, msg.To)
	if err := svc.Send(context.Background(), msg); err != nil {
		log.Fatalf("Send failed: %v", err)
	}
	fmt.Println("Message sent.")
}
