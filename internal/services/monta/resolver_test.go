package monta

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/devhassan17/montabridge/internal/config"
)

// fakeMonta serves canned JSON per endpoint, mimicking the real API's
// path layout.
type fakeMonta struct {
	order      map[string]interface{}   // GET /order/{ref} and /orders/{id}
	shipments  []map[string]interface{} // GET /shipments
	events     []map[string]interface{} // GET /orderevents
	searchHits []map[string]interface{} // GET /orders with params
}

func (f *fakeMonta) handler() http.HandlerFunc {
	writeJSON := func(w http.ResponseWriter, v interface{}) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(v)
	}
	return func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/order/"):
			if f.order == nil {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			writeJSON(w, f.order)
		case strings.HasPrefix(r.URL.Path, "/orders/"):
			if f.order == nil {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			writeJSON(w, f.order)
		case r.URL.Path == "/orders":
			writeJSON(w, map[string]interface{}{"Items": f.searchHits})
		case r.URL.Path == "/shipments":
			writeJSON(w, f.shipments)
		case r.URL.Path == "/orderevents":
			writeJSON(w, f.events)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}
}

func newTestResolver(t *testing.T, f *fakeMonta) (*Resolver, func()) {
	t.Helper()
	srv := httptest.NewServer(f.handler())
	client := NewClient(config.MontaConfig{
		BaseURL:  srv.URL,
		Username: "test",
		Password: "test",
		Timeout:  5,
	})
	return NewResolver(client, DefaultMatchPolicy()), srv.Close
}

func TestResolve_NotFoundIsNotAnError(t *testing.T) {
	r, done := newTestResolver(t, &fakeMonta{})
	defer done()

	status, meta := r.Resolve(context.Background(), "SO9999")
	if status != "" {
		t.Errorf("expected empty status for unknown order, got %q", status)
	}
	if meta == nil || meta.Reason == "" {
		t.Fatal("expected a not-found reason in meta")
	}
	if len(meta.Tried) == 0 {
		t.Error("expected the tried strategies to be reported")
	}
}

func TestResolve_ShipmentStatusWins(t *testing.T) {
	f := &fakeMonta{
		order: map[string]interface{}{
			"Id":          float64(42),
			"OrderNumber": "SO2001",
			"Status":      "Processing",
		},
		shipments: []map[string]interface{}{{
			"ShipmentStatus":    "Shipped",
			"TrackAndTraceLink": "https://track.example/SO2001",
			"ShippedDate":       "2026-08-20",
		}},
	}
	r, done := newTestResolver(t, f)
	defer done()

	status, meta := r.Resolve(context.Background(), "SO2001")
	if status != "Shipped" {
		t.Errorf("expected shipment status to win, got %q", status)
	}
	if meta.Source != "shipments" {
		t.Errorf("expected source shipments, got %q", meta.Source)
	}
	if meta.TrackTrace != "https://track.example/SO2001" {
		t.Errorf("unexpected track&trace: %q", meta.TrackTrace)
	}
	if meta.MontaOrderRef != "SO2001" {
		t.Errorf("expected the order number as stable ref, got %q", meta.MontaOrderRef)
	}
}

func TestResolve_EventSourceWhenNoShipments(t *testing.T) {
	f := &fakeMonta{
		order: map[string]interface{}{
			"Id":          float64(7),
			"OrderNumber": "SO2002",
		},
		events: []map[string]interface{}{{
			"DeliveryStatusDescription": "Picking in progress",
		}},
	}
	r, done := newTestResolver(t, f)
	defer done()

	status, meta := r.Resolve(context.Background(), "SO2002")
	if status != "Picking in progress" {
		t.Errorf("expected event status, got %q", status)
	}
	if meta.Source != "orderevents" {
		t.Errorf("expected source orderevents, got %q", meta.Source)
	}
}

func TestResolve_BlockedHeaderAlwaysOverrides(t *testing.T) {
	f := &fakeMonta{
		order: map[string]interface{}{
			"Id":             float64(9),
			"OrderNumber":    "SO2003",
			"IsBlocked":      true,
			"BlockedMessage": "address invalid",
		},
		shipments: []map[string]interface{}{{
			"ShipmentStatus": "Shipped",
		}},
	}
	r, done := newTestResolver(t, f)
	defer done()

	status, _ := r.Resolve(context.Background(), "SO2003")
	if !strings.HasPrefix(status, "Blocked") {
		t.Errorf("blocked header must override shipment status, got %q", status)
	}
	if !strings.Contains(status, "address invalid") {
		t.Errorf("blocked message should be carried, got %q", status)
	}
}

func TestResolve_BackorderDoesNotOverrideAdvancedStatus(t *testing.T) {
	f := &fakeMonta{
		order: map[string]interface{}{
			"Id":          float64(11),
			"OrderNumber": "SO2004",
			"IsBackorder": true,
		},
		shipments: []map[string]interface{}{{
			"ShipmentStatus": "Shipped",
		}},
	}
	r, done := newTestResolver(t, f)
	defer done()

	status, _ := r.Resolve(context.Background(), "SO2004")
	if status != "Shipped" {
		t.Errorf("backorder header must not override a shipped order, got %q", status)
	}
}

func TestResolve_BackorderOverridesEarlyStatus(t *testing.T) {
	f := &fakeMonta{
		order: map[string]interface{}{
			"Id":          float64(12),
			"OrderNumber": "SO2005",
			"IsBackorder": true,
		},
		events: []map[string]interface{}{{
			"Status": "Received",
		}},
	}
	r, done := newTestResolver(t, f)
	defer done()

	status, _ := r.Resolve(context.Background(), "SO2005")
	if status != "Backorder" {
		t.Errorf("backorder header should override a received order, got %q", status)
	}
}

func TestIsAdvancedStatus(t *testing.T) {
	for _, s := range []string{"Shipped", "Picked", "Ready to pick", "Delivered", "In progress - ETA x", "picking in progress"} {
		if !isAdvancedStatus(s) {
			t.Errorf("expected %q to count as advanced", s)
		}
	}
	for _, s := range []string{"Received / Pending workflow", "Blocked", ""} {
		if isAdvancedStatus(s) {
			t.Errorf("expected %q to not count as advanced", s)
		}
	}
}
