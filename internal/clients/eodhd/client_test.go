package eodhd

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGetQuote(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/real-time/SAP.DE" {
			t.Errorf("path = %s, want /real-time/SAP.DE", r.URL.Path)
		}
		if r.URL.Query().Get("api_token") != "test-key" {
			t.Errorf("api_token = %q, want test-key", r.URL.Query().Get("api_token"))
		}
		if r.URL.Query().Get("fmt") != "json" {
			t.Errorf("fmt = %q, want json", r.URL.Query().Get("fmt"))
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"code":          "SAP.DE",
			"close":         120.50,
			"previousClose": 119.00,
			"timestamp":     1756900000,
			"currency":      "EUR",
		})
	}))
	defer server.Close()

	client := NewClient("test-key", WithBaseURL(server.URL))

	quote, err := client.GetQuote(context.Background(), "SAP.DE")
	if err != nil {
		t.Fatalf("GetQuote: %v", err)
	}
	if quote.Price != 120.50 || quote.PreviousClose != 119.00 {
		t.Errorf("quote = %v/%v, want 120.50/119.00", quote.Price, quote.PreviousClose)
	}
	if quote.Currency != "EUR" {
		t.Errorf("Currency = %q, want EUR", quote.Currency)
	}
	if quote.Timestamp.IsZero() {
		t.Error("Timestamp not set")
	}
}

func TestGetQuote_StringQuotedNumbers(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code":"VOD.L","close":"72.5","previousClose":"N/A","timestamp":0}`))
	}))
	defer server.Close()

	client := NewClient("test-key", WithBaseURL(server.URL))

	quote, err := client.GetQuote(context.Background(), "VOD.L")
	if err != nil {
		t.Fatalf("GetQuote: %v", err)
	}
	if quote.Price != 72.5 {
		t.Errorf("Price = %v, want 72.5 from string payload", quote.Price)
	}
	if quote.PreviousClose != 0 {
		t.Errorf("PreviousClose = %v, want 0 for N/A", quote.PreviousClose)
	}
}

func TestGetQuote_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid token", http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewClient("bad-key", WithBaseURL(server.URL))

	_, err := client.GetQuote(context.Background(), "SAP.DE")
	if err == nil {
		t.Fatal("expected error for 401 response")
	}
	apiErr, ok := err.(*APIError)
	if !ok {
		t.Fatalf("error type = %T, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("StatusCode = %d, want 401", apiErr.StatusCode)
	}
}

func TestGetQuotes_BatchSkipsUnknown(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query()["s"]; len(got) != 2 {
			t.Errorf("s params = %v, want 2 extra symbols", got)
		}
		w.Write([]byte(`[
			{"code":"SAP.DE","close":120.5,"previousClose":119.0,"timestamp":1756900000},
			{"code":"MISSING.DE","close":0,"previousClose":0,"timestamp":0},
			{"code":"VOD.L","close":72.5,"previousClose":71.0,"timestamp":1756900000}
		]`))
	}))
	defer server.Close()

	client := NewClient("test-key", WithBaseURL(server.URL))

	quotes, err := client.GetQuotes(context.Background(), []string{"SAP.DE", "MISSING.DE", "VOD.L"})
	if err != nil {
		t.Fatalf("GetQuotes: %v", err)
	}
	if len(quotes) != 2 {
		t.Fatalf("got %d quotes, want 2 (zero-close entry skipped)", len(quotes))
	}
	if quotes[0].Symbol != "SAP.DE" || quotes[1].Symbol != "VOD.L" {
		t.Errorf("symbols = %s, %s", quotes[0].Symbol, quotes[1].Symbol)
	}
}

func TestGetQuotes_Empty(t *testing.T) {
	client := NewClient("test-key")
	quotes, err := client.GetQuotes(context.Background(), nil)
	if err != nil {
		t.Fatalf("GetQuotes: %v", err)
	}
	if quotes != nil {
		t.Errorf("got %v, want nil for no symbols", quotes)
	}
}
