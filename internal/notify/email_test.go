package notify

import (
	"context"
	"strings"
	"testing"
)

type testSMTPConfig struct {
	enabled  bool
	host     string
	username string
	password string
	from     string
}

func (c testSMTPConfig) GetSMTPHost() string         { return c.host }
func (c testSMTPConfig) GetSMTPPort() int            { return 587 }
func (c testSMTPConfig) GetSMTPUsername() string     { return c.username }
func (c testSMTPConfig) GetSMTPPassword() string     { return c.password }
func (c testSMTPConfig) GetEmailFromName() string    { return "Test" }
func (c testSMTPConfig) GetEmailFromAddress() string { return c.from }
func (c testSMTPConfig) IsEmailEnabled() bool        { return c.enabled }

func TestSMTPSenderDisabledFailsSoft(t *testing.T) {
	sender := NewSMTPSender(testSMTPConfig{enabled: false}, nil)

	result := sender.Send(context.Background(), EmailMessage{
		To:      "someone@example.com",
		Subject: "Hi",
		Body:    "Hello",
	})

	if result.Success {
		t.Fatal("disabled sender must not report success")
	}
	if !strings.Contains(result.Message, "disabled") {
		t.Errorf("expected disabled message, got %q", result.Message)
	}
}

func TestSMTPSenderMissingCredentialsFailsSoft(t *testing.T) {
	sender := NewSMTPSender(testSMTPConfig{enabled: true, from: "noreply@example.com"}, nil)

	result := sender.Send(context.Background(), EmailMessage{
		To:      "someone@example.com",
		Subject: "Hi",
		Body:    "Hello",
	})

	if result.Success {
		t.Fatal("sender without credentials must not report success")
	}
	if !strings.Contains(result.Message, "credentials") {
		t.Errorf("expected credentials message, got %q", result.Message)
	}
}

func TestSMTPSenderMissingRecipientFailsSoft(t *testing.T) {
	sender := NewSMTPSender(testSMTPConfig{
		enabled:  true,
		host:     "smtp.example.com",
		username: "user",
		password: "pass",
		from:     "noreply@example.com",
	}, nil)

	result := sender.Send(context.Background(), EmailMessage{Subject: "Hi", Body: "Hello"})

	if result.Success {
		t.Fatal("missing recipient must not report success")
	}
	if !strings.Contains(result.Message, "recipient") {
		t.Errorf("expected recipient message, got %q", result.Message)
	}
}
