package notify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

type testWhatsAppConfig struct {
	enabled bool
	baseURL string
}

func (c testWhatsAppConfig) GetWhatsAppBaseURL() string     { return c.baseURL }
func (c testWhatsAppConfig) GetWhatsAppInstanceID() string  { return "instance42" }
func (c testWhatsAppConfig) GetWhatsAppToken() string       { return "secret-token" }
func (c testWhatsAppConfig) GetWhatsAppSenderPhone() string { return "15550001111" }
func (c testWhatsAppConfig) IsWhatsAppEnabled() bool        { return c.enabled }

func TestUltraMsgSenderDisabledFailsSoft(t *testing.T) {
	sender := NewUltraMsgSender(testWhatsAppConfig{enabled: false}, nil)

	result := sender.Send(context.Background(), "+15551234567", "hello")
	if result.Success {
		t.Fatal("disabled sender must not report success")
	}
}

func TestUltraMsgSenderMissingRecipientFailsSoft(t *testing.T) {
	sender := NewUltraMsgSender(testWhatsAppConfig{enabled: true, baseURL: "http://localhost:1"}, nil)

	result := sender.Send(context.Background(), "  ", "hello")
	if result.Success {
		t.Fatal("missing recipient must not report success")
	}
}

func TestUltraMsgSenderPostsForm(t *testing.T) {
	var gotPath, gotToken, gotTo, gotBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		gotPath = r.URL.Path
		gotToken = r.PostFormValue("token")
		gotTo = r.PostFormValue("to")
		gotBody = r.PostFormValue("body")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	sender := NewUltraMsgSender(testWhatsAppConfig{enabled: true, baseURL: server.URL}, nil)

	result := sender.Send(context.Background(), "+1 555 123 4567", "your appointment is confirmed")
	if !result.Success {
		t.Fatalf("expected success, got %+v", result)
	}

	if gotPath != "/instance42/messages/chat" {
		t.Errorf("unexpected path %q", gotPath)
	}
	if gotToken != "secret-token" {
		t.Errorf("unexpected token %q", gotToken)
	}
	if gotTo != "15551234567" {
		t.Errorf("expected E.164 without plus, got %q", gotTo)
	}
	if gotBody != "your appointment is confirmed" {
		t.Errorf("unexpected body %q", gotBody)
	}
}

func TestUltraMsgSenderGatewayErrorFailsSoft(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid token", http.StatusUnauthorized)
	}))
	defer server.Close()

	sender := NewUltraMsgSender(testWhatsAppConfig{enabled: true, baseURL: server.URL}, nil)

	result := sender.Send(context.Background(), "+15551234567", "hello")
	if result.Success {
		t.Fatal("gateway error must not report success")
	}
}
