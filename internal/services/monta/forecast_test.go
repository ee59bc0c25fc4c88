package monta

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/devhassan17/montabridge/internal/config"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, func()) {
	t.Helper()
	srv := httptest.NewServer(handler)
	client := NewClient(config.MontaConfig{
		BaseURL:  srv.URL,
		Username: "test",
		Password: "test",
		Timeout:  5,
	})
	return client, srv.Close
}

func TestSyncForecastGroup_CreatesMissingGroupWithLines(t *testing.T) {
	var calls []string
	client, done := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.Method+" "+r.URL.Path)
		switch {
		case r.Method == "GET":
			w.WriteHeader(http.StatusNotFound)
		case r.Method == "POST" && r.URL.Path == "/inboundforecast/group":
			var body map[string]interface{}
			json.NewDecoder(r.Body).Decode(&body)
			lines, _ := body["InboundForecasts"].([]interface{})
			if len(lines) != 2 {
				t.Errorf("expected 2 lines in the create payload, got %d", len(lines))
			}
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]string{"UniqueId": "IF-001"})
		default:
			t.Errorf("unexpected call %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusBadRequest)
		}
	})
	defer done()

	header := ForecastGroup{
		Reference:            "PO0007",
		SupplierCode:         "SUP-42",
		ExpectedDeliveryDate: "2026-09-10T10:00:00+02:00",
	}
	lines := []ForecastLine{
		{Sku: "COFFEE-1KG", Quantity: 100, DeliveryDate: header.ExpectedDeliveryDate},
		{Sku: "COFFEE-250G", Quantity: 400, DeliveryDate: header.ExpectedDeliveryDate},
	}

	uid, err := client.SyncForecastGroup(context.Background(), header, lines)
	if err != nil {
		t.Fatalf("SyncForecastGroup failed: %v", err)
	}
	if uid != "IF-001" {
		t.Errorf("expected UniqueId IF-001, got %q", uid)
	}
	if len(calls) != 2 {
		t.Errorf("expected GET + POST, got %v", calls)
	}
}

func TestSyncForecastGroup_UpsertsLinesOnExistingGroup(t *testing.T) {
	var linePuts, linePosts []string
	client, done := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == "GET":
			json.NewEncoder(w).Encode(map[string]interface{}{
				"UniqueId": "IF-002",
				"InboundForecasts": []map[string]interface{}{
					{"Sku": "COFFEE-1KG"},
				},
			})
		case r.Method == "PUT" && r.URL.Path == "/inboundforecast/group/PO0008":
			json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
		case r.Method == "PUT":
			linePuts = append(linePuts, r.URL.Path)
			json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
		case r.Method == "POST":
			linePosts = append(linePosts, r.URL.Path)
			json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
		default:
			w.WriteHeader(http.StatusBadRequest)
		}
	})
	defer done()

	header := ForecastGroup{
		Reference:            "PO0008",
		SupplierCode:         "SUP-42",
		ExpectedDeliveryDate: "2026-09-10T10:00:00+02:00",
	}
	lines := []ForecastLine{
		{Sku: "COFFEE-1KG", Quantity: 50},
		{Sku: "COFFEE-NEW", Quantity: 10},
	}

	uid, err := client.SyncForecastGroup(context.Background(), header, lines)
	if err != nil {
		t.Fatalf("SyncForecastGroup failed: %v", err)
	}
	if uid != "IF-002" {
		t.Errorf("expected UniqueId IF-002, got %q", uid)
	}
	if len(linePuts) != 1 || !strings.HasSuffix(linePuts[0], "/COFFEE-1KG") {
		t.Errorf("expected one PUT for the existing SKU, got %v", linePuts)
	}
	if len(linePosts) != 1 {
		t.Errorf("expected one POST for the new SKU, got %v", linePosts)
	}
}

func TestSyncForecastGroup_RejectsShortSupplierCode(t *testing.T) {
	client, done := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("no API call expected, got %s %s", r.Method, r.URL.Path)
	})
	defer done()

	_, err := client.SyncForecastGroup(context.Background(), ForecastGroup{
		Reference:    "PO0009",
		SupplierCode: "AB",
	}, nil)
	if err == nil {
		t.Fatal("expected an error for a too-short supplier code")
	}
}

func TestResolveSupplierCode_Ladder(t *testing.T) {
	cfg := config.MontaConfig{
		SupplierCodeMap:     map[string]string{"ACME BEANS": "MAP-1", "V123": "MAP-2"},
		DefaultSupplierCode: "DEFAULT-9",
	}

	if got := ResolveSupplierCode(cfg, SupplierRef{ExplicitCode: "EXP-1", Name: "Acme Beans"}); got != "EXP-1" {
		t.Errorf("explicit code should win, got %q", got)
	}
	if got := ResolveSupplierCode(cfg, SupplierRef{Name: "acme beans"}); got != "MAP-1" {
		t.Errorf("name map lookup should be case-insensitive, got %q", got)
	}
	if got := ResolveSupplierCode(cfg, SupplierRef{Name: "Unknown", Ref: "v123"}); got != "MAP-2" {
		t.Errorf("ref map lookup should work, got %q", got)
	}
	if got := ResolveSupplierCode(cfg, SupplierRef{Name: "Unknown", Ref: "R-77"}); got != "R-77" {
		t.Errorf("partner ref fallback should apply, got %q", got)
	}
	if got := ResolveSupplierCode(cfg, SupplierRef{Name: "Unknown", VAT: "NL001"}); got != "NL001" {
		t.Errorf("VAT fallback should apply, got %q", got)
	}
	if got := ResolveSupplierCode(cfg, SupplierRef{Name: "Unknown"}); got != "DEFAULT-9" {
		t.Errorf("configured default should be last, got %q", got)
	}

	override := cfg
	override.SupplierCodeOverride = "OVR-1"
	if got := ResolveSupplierCode(override, SupplierRef{ExplicitCode: "EXP-1"}); got != "OVR-1" {
		t.Errorf("global override should beat everything, got %q", got)
	}
}

func TestFormatDeliveryDate_PushesPastDatesForward(t *testing.T) {
	past := time.Now().Add(-48 * time.Hour)
	got := FormatDeliveryDate(past, "Europe/Amsterdam")

	parsed, err := time.Parse("2006-01-02T15:04:05-07:00", got)
	if err != nil {
		t.Fatalf("unparseable delivery date %q: %v", got, err)
	}
	if !parsed.After(time.Now()) {
		t.Errorf("past planned date should be pushed into the future, got %s", got)
	}
}

func TestFormatDeliveryDate_UsesWarehouseTimezone(t *testing.T) {
	future := time.Date(2026, 12, 24, 12, 0, 0, 0, time.UTC)
	got := FormatDeliveryDate(future, "Europe/Amsterdam")
	// Amsterdam is UTC+1 in winter
	if !strings.HasSuffix(got, "+01:00") {
		t.Errorf("expected a +01:00 offset, got %s", got)
	}
	if !strings.HasPrefix(got, "2026-12-24T13:00:00") {
		t.Errorf("expected the local wall time, got %s", got)
	}
}
