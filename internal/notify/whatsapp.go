package notify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"bizgenie_backend/platform/config"
	"bizgenie_backend/platform/logger"
	"bizgenie_backend/platform/phone"
)

// WhatsAppSender delivers WhatsApp text messages.
type WhatsAppSender interface {
	Send(ctx context.Context, to, body string) Result
}

// UltraMsgSender implements WhatsAppSender against the UltraMsg gateway.
type UltraMsgSender struct {
	cfg  config.WhatsAppConfig
	http *http.Client
	log  *logger.Logger
}

// NewUltraMsgSender creates an UltraMsg WhatsApp sender.
func NewUltraMsgSender(cfg config.WhatsAppConfig, log *logger.Logger) *UltraMsgSender {
	return &UltraMsgSender{
		cfg:  cfg,
		http: &http.Client{Timeout: 15 * time.Second},
		log:  log,
	}
}

// Send posts the message to the UltraMsg chat endpoint. A disabled gateway
// or missing destination yields a failed Result, never an error.
func (s *UltraMsgSender) Send(ctx context.Context, to, body string) Result {
	if !s.cfg.IsWhatsAppEnabled() {
		return Failed("whatsapp sending is disabled")
	}
	if strings.TrimSpace(to) == "" {
		return Failed("missing recipient phone number")
	}

	normalized := strings.TrimPrefix(phone.NormalizeE164(to), "+")

	form := url.Values{}
	form.Set("token", s.cfg.GetWhatsAppToken())
	form.Set("to", normalized)
	form.Set("body", body)
	if from := s.cfg.GetWhatsAppSenderPhone(); from != "" {
		form.Set("from", from)
	}

	endpoint := fmt.Sprintf("%s/%s/messages/chat",
		strings.TrimRight(s.cfg.GetWhatsAppBaseURL(), "/"),
		s.cfg.GetWhatsAppInstanceID(),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return Failed("whatsapp request: " + err.Error())
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.http.Do(req)
	if err != nil {
		return Failed("whatsapp request failed: " + err.Error())
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= http.StatusBadRequest {
		data, _ := io.ReadAll(resp.Body)
		if s.log != nil {
			s.log.Warn("whatsapp delivery failed", "to", normalized, "status", resp.StatusCode)
		}
		return Failed(fmt.Sprintf("whatsapp gateway returned %d: %s", resp.StatusCode, strings.TrimSpace(string(data))))
	}

	return Ok("whatsapp message sent").WithDetail("to", normalized)
}
