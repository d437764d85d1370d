package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestTelegramSendPostsMarkdown(t *testing.T) {
	var got telegramMessage
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/bottest-token/sendMessage" {
			t.Errorf("path = %q, want the token-scoped sendMessage path", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("request decoding failed: %v", err)
		}
		w.Write([]byte(`{"ok": true}`))
	}))
	defer server.Close()

	sink := NewTelegramSink("test-token")
	sink.baseURL = server.URL

	if err := sink.Send(context.Background(), "12345", "*Quarterly Results*"); err != nil {
		t.Fatalf("Send returned error: %v", err)
	}
	if got.ChatID != "12345" {
		t.Errorf("chat_id = %q, want 12345", got.ChatID)
	}
	if got.Text != "*Quarterly Results*" {
		t.Errorf("text = %q", got.Text)
	}
	if got.ParseMode != "Markdown" {
		t.Errorf("parse_mode = %q, want Markdown", got.ParseMode)
	}
}

func TestTelegramAPIRejectionIsAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ok": false, "description": "chat not found"}`))
	}))
	defer server.Close()

	sink := NewTelegramSink("test-token")
	sink.baseURL = server.URL

	if err := sink.Send(context.Background(), "12345", "hello"); err == nil {
		t.Fatal("expected an error when the API rejects the message")
	}
}

func TestTelegramDisabledSinkIsANoOp(t *testing.T) {
	sink := NewTelegramSink("")
	if sink.Enabled() {
		t.Error("sink without a token must report disabled")
	}
	if err := sink.Send(context.Background(), "12345", "hello"); err != nil {
		t.Errorf("disabled sink must be a no-op, got %v", err)
	}
}
