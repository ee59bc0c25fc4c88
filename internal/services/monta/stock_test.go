package monta

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
)

func TestGetProductStock_TopLevelCandidates(t *testing.T) {
	client, done := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("channel") != "TestChannel" {
			t.Errorf("expected the channel parameter, got %q", r.URL.Query().Get("channel"))
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"Sku":          "COFFEE-1KG",
			"FreeToSell":   17,
			"MinimumStock": 5,
		})
	})
	defer done()

	stock, found := client.GetProductStock(context.Background(), "COFFEE-1KG", "TestChannel")
	if !found {
		t.Fatal("expected a stock answer")
	}
	if stock.StockAvailable == nil || *stock.StockAvailable != 17 {
		t.Errorf("expected FreeToSell to be picked up, got %v", stock.StockAvailable)
	}
	if stock.MinimumStock == nil || *stock.MinimumStock != 5 {
		t.Errorf("expected MinimumStock 5, got %v", stock.MinimumStock)
	}
}

func TestGetProductStock_NestedStockObject(t *testing.T) {
	client, done := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"Stock": map[string]interface{}{"Available": 3},
		})
	})
	defer done()

	stock, found := client.GetProductStock(context.Background(), "COFFEE-250G", "")
	if !found {
		t.Fatal("expected a stock answer")
	}
	if stock.StockAvailable == nil || *stock.StockAvailable != 3 {
		t.Errorf("expected the nested Available value, got %v", stock.StockAvailable)
	}
	if stock.Sku != "COFFEE-250G" {
		t.Errorf("missing Sku in answer should fall back to the input, got %q", stock.Sku)
	}
}

func TestGetProductStock_NoUsableQuantity(t *testing.T) {
	client, done := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{"Sku": "GHOST"})
	})
	defer done()

	stock, found := client.GetProductStock(context.Background(), "GHOST", "")
	if !found {
		t.Fatal("a 200 answer should count as found")
	}
	if stock.StockAvailable != nil {
		t.Errorf("expected nil StockAvailable, got %v", *stock.StockAvailable)
	}
}

func TestGetProductStock_UnknownSKU(t *testing.T) {
	client, done := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	defer done()

	if _, found := client.GetProductStock(context.Background(), "MISSING", ""); found {
		t.Error("a 404 should not count as found")
	}
}
