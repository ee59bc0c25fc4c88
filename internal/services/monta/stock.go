package monta

import (
	"context"
	"net/url"
	"strconv"
	"strings"
)

// ProductStock is the usable part of GET /product/{sku}/stock
type ProductStock struct {
	Sku            string
	StockAvailable *float64
	MinimumStock   *float64
}

var stockCandidateKeys = []string{"StockAvailable", "Available", "FreeToSell", "Stock"}

func asFloat(v interface{}) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// GetProductStock fetches the available stock of a SKU on a sales
// channel. Monta tenants differ in where the number lives, so the
// usual candidates are probed top-level first and then inside a
// nested Stock object. A nil StockAvailable means the answer held no
// usable quantity.
func (c *Client) GetProductStock(ctx context.Context, sku, channel string) (*ProductStock, bool) {
	params := url.Values{}
	if channel != "" {
		params.Set("channel", channel)
	}
	path := "product/" + url.PathEscape(strings.TrimSpace(sku)) + "/stock"
	st, payload := c.GetJSON(ctx, path, params)
	if !ok(st) {
		return nil, false
	}
	data, okm := payload.(map[string]interface{})
	if !okm {
		return nil, false
	}

	out := &ProductStock{Sku: asString(data["Sku"])}
	if out.Sku == "" {
		out.Sku = sku
	}

	for _, key := range stockCandidateKeys {
		if f, okf := asFloat(data[key]); okf {
			out.StockAvailable = &f
			break
		}
	}
	if out.StockAvailable == nil {
		if nested, okn := data["Stock"].(map[string]interface{}); okn {
			for _, key := range []string{"StockAvailable", "Available", "FreeToSell"} {
				if f, okf := asFloat(nested[key]); okf {
					out.StockAvailable = &f
					break
				}
			}
		}
	}
	if f, okf := asFloat(data["MinimumStock"]); okf {
		out.MinimumStock = &f
	}
	return out, true
}
