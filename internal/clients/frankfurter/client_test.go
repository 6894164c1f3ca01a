package frankfurter

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGetRates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/latest" {
			t.Errorf("path = %s, want /latest", r.URL.Path)
		}
		if r.URL.Query().Get("base") != "EUR" {
			t.Errorf("base = %q, want EUR", r.URL.Query().Get("base"))
		}
		if r.URL.Query().Get("symbols") != "USD,GBP" {
			t.Errorf("symbols = %q, want USD,GBP", r.URL.Query().Get("symbols"))
		}
		w.Write([]byte(`{"base":"EUR","date":"2026-09-01","rates":{"USD":1.08,"GBP":0.85}}`))
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL))

	table, err := client.GetRates(context.Background(), "eur", []string{"usd", "gbp"})
	if err != nil {
		t.Fatalf("GetRates: %v", err)
	}

	if table.Rate("USD") != 1.08 {
		t.Errorf("Rate(USD) = %v, want 1.08", table.Rate("USD"))
	}
	if table.Rate("GBP") != 0.85 {
		t.Errorf("Rate(GBP) = %v, want 0.85", table.Rate("GBP"))
	}
	// The identity entry for the base is always present.
	if !table.Has("EUR") || table.Rate("EUR") != 1 {
		t.Errorf("Rate(EUR) = %v, want identity 1", table.Rate("EUR"))
	}
}

func TestGetRates_NoSymbolsFilter(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Has("symbols") {
			t.Error("symbols param sent for an unfiltered request")
		}
		w.Write([]byte(`{"base":"EUR","date":"2026-09-01","rates":{"USD":1.08}}`))
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL))

	if _, err := client.GetRates(context.Background(), "EUR", nil); err != nil {
		t.Fatalf("GetRates: %v", err)
	}
}

func TestGetRates_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL))

	_, err := client.GetRates(context.Background(), "XXX", nil)
	if err == nil {
		t.Fatal("expected error for 404 response")
	}
	if _, ok := err.(*APIError); !ok {
		t.Errorf("error type = %T, want *APIError", err)
	}
}
