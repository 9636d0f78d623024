package telegram

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func testClient(url string) *Client {
	return &Client{
		baseURL:    url + "/bot",
		botToken:   "test-token",
		chatID:     "12345",
		httpClient: &http.Client{},
	}
}

func TestNewClient(t *testing.T) {
	if _, err := NewClient("", "123"); err == nil {
		t.Error("NewClient() expected error for missing token")
	}
	if _, err := NewClient("token", ""); err == nil {
		t.Error("NewClient() expected error for missing chat ID")
	}

	client, err := NewClient("token", "123")
	if err != nil {
		t.Fatalf("NewClient() unexpected error: %v", err)
	}
	if client.baseURL != APIBaseURL {
		t.Errorf("baseURL = %q, want %q", client.baseURL, APIBaseURL)
	}
}

// TestSendMessage_Success tests successful message sending
func TestSendMessage_Success(t *testing.T) {
	var payload map[string]interface{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" {
			t.Errorf("Expected POST request, got %s", r.Method)
		}
		if r.URL.Path != "/bottest-token/sendMessage" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("Expected Content-Type application/json, got %s", r.Header.Get("Content-Type"))
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("Decoding payload: %v", err)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"ok":     true,
			"result": map[string]interface{}{"message_id": 123},
		})
	}))
	defer server.Close()

	if err := testClient(server.URL).SendMessage("Test message"); err != nil {
		t.Errorf("SendMessage() unexpected error: %v", err)
	}

	if payload["chat_id"] != "12345" || payload["text"] != "Test message" || payload["parse_mode"] != "HTML" {
		t.Errorf("Unexpected payload: %v", payload)
	}
}

// TestSendMessage_APIError tests API error handling
func TestSendMessage_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"ok":          false,
			"description": "Bad Request: chat not found",
		})
	}))
	defer server.Close()

	err := testClient(server.URL).SendMessage("Test message")
	if err == nil || !strings.Contains(err.Error(), "Bad Request") {
		t.Errorf("SendMessage() error = %v, want error containing 'Bad Request'", err)
	}
}

// TestSendMessage_HTTPError tests HTTP error handling
func TestSendMessage_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("Internal Server Error"))
	}))
	defer server.Close()

	err := testClient(server.URL).SendMessage("Test message")
	if err == nil || !strings.Contains(err.Error(), "status 500") {
		t.Errorf("SendMessage() error = %v, want error containing 'status 500'", err)
	}
}

func TestSendMessage_EmptyText(t *testing.T) {
	if err := testClient("http://127.0.0.1:0").SendMessage(""); err == nil {
		t.Error("SendMessage() expected error for empty text")
	}
}
