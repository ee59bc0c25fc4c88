package monta

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/devhassan17/montabridge/internal/config"
)

// ForecastLine is one SKU row of an inbound forecast group
type ForecastLine struct {
	Sku          string `json:"Sku"`
	Quantity     int    `json:"Quantity"`
	DeliveryDate string `json:"DeliveryDate"`
	Reference    string `json:"Reference,omitempty"`
	Approved     bool   `json:"Approved"`
	Comment      string `json:"Comment"`
}

// ForecastGroup is the header of an inbound forecast group. The group
// reference is the purchase order name.
type ForecastGroup struct {
	Reference               string         `json:"Reference"`
	SupplierCode            string         `json:"SupplierCode"`
	ExpectedDeliveryDate    string         `json:"ExpectedDeliveryDate"`
	AllocateStockOnDelivery bool           `json:"AllocateStockOnDelivery"`
	WarehouseDisplayName    string         `json:"WarehouseDisplayName,omitempty"`
	Comment                 string         `json:"Comment"`
	InboundForecasts        []ForecastLine `json:"InboundForecasts,omitempty"`
}

// SupplierRef is the vendor data the supplier-code ladder works from
type SupplierRef struct {
	Name         string
	Ref          string
	VAT          string
	ExplicitCode string
}

// ResolveSupplierCode walks the supplier-code ladder: global override,
// explicit code on the vendor, configured name/ref map, then the
// vendor's ref or VAT, then the configured default.
func ResolveSupplierCode(cfg config.MontaConfig, s SupplierRef) string {
	if v := strings.TrimSpace(cfg.SupplierCodeOverride); v != "" {
		return v
	}
	if v := strings.TrimSpace(s.ExplicitCode); v != "" {
		return v
	}
	nameU := strings.ToUpper(strings.TrimSpace(s.Name))
	refU := strings.ToUpper(strings.TrimSpace(s.Ref))
	if v := cfg.SupplierCodeMap[nameU]; v != "" {
		return v
	}
	if refU != "" {
		if v := cfg.SupplierCodeMap[refU]; v != "" {
			return v
		}
	}
	if v := strings.TrimSpace(s.Ref); v != "" {
		return v
	}
	if v := strings.TrimSpace(s.VAT); v != "" {
		return v
	}
	return strings.TrimSpace(cfg.DefaultSupplierCode)
}

// FormatDeliveryDate renders a planned date in the warehouse timezone
// with a colon offset. Dates already in the past are pushed a day
// ahead so Monta does not reject the group.
func FormatDeliveryDate(planned time.Time, tzName string) string {
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		loc = time.FixedZone("CET", 3600)
	}
	now := time.Now()
	if planned.IsZero() {
		planned = now
	}
	if planned.Before(now.Add(-time.Minute)) {
		planned = now.Add(25 * time.Hour)
	}
	return planned.In(loc).Format("2006-01-02T15:04:05-07:00")
}

// existingForecastSKUs collects the SKUs already present on a group
// body, tolerating bracket-wrapped variants some tenants return.
func existingForecastSKUs(body map[string]interface{}) map[string]bool {
	out := map[string]bool{}
	list, _ := body["InboundForecasts"].([]interface{})
	for _, item := range list {
		m, okm := item.(map[string]interface{})
		if !okm {
			continue
		}
		s := strings.TrimSpace(asString(m["Sku"]))
		if s == "" {
			continue
		}
		out[s] = true
		if strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]") {
			out[strings.Trim(s, "[]")] = true
		}
	}
	return out
}

// SyncForecastGroup creates or updates an inbound forecast group
// idempotently: a missing group is created with all lines in one POST,
// an existing one gets a header PUT followed by per-SKU line upserts.
// Returns the group's UniqueId when Monta reports one.
func (c *Client) SyncForecastGroup(ctx context.Context, header ForecastGroup, lines []ForecastLine) (string, error) {
	groupPath := "/inboundforecast/group/" + url.PathEscape(header.Reference)

	if sc := strings.TrimSpace(header.SupplierCode); len(sc) < 3 {
		return "", fmt.Errorf("supplier code %q is missing or too short for %s", sc, header.Reference)
	}

	st, body := c.Request(ctx, header.Reference, "GET", groupPath, nil, nil)
	if st == 404 {
		create := header
		create.InboundForecasts = lines
		st2, body2 := c.Request(ctx, header.Reference, "POST", "/inboundforecast/group", create, nil)
		if ok(st2) {
			log.Printf("✅ [Monta IF] created group %s (%d lines)", header.Reference, len(lines))
			return asString(body2["UniqueId"]), nil
		}
		return "", fmt.Errorf("create group %s failed: HTTP %d", header.Reference, st2)
	}
	if !ok(st) {
		return "", fmt.Errorf("get group %s failed: HTTP %d", header.Reference, st)
	}

	st3, body3 := c.Request(ctx, header.Reference, "PUT", groupPath, header, nil)
	if !ok(st3) {
		return "", fmt.Errorf("put group header %s failed: HTTP %d", header.Reference, st3)
	}

	existing := existingForecastSKUs(body)
	if len(existing) == 0 {
		existing = existingForecastSKUs(body3)
	}

	for _, line := range lines {
		if line.Sku == "" || line.Quantity <= 0 {
			continue
		}
		linePath := groupPath + "/" + url.PathEscape(line.Sku)
		if existing[line.Sku] {
			c.Request(ctx, header.Reference, "PUT", linePath, line, nil)
			continue
		}
		stL, bodyL := c.Request(ctx, header.Reference, "POST", groupPath, line, nil)
		if !ok(stL) {
			// Race with a line created since the GET: retry as update
			raw, _ := json.Marshal(bodyL)
			txt := strings.ToLower(string(raw))
			if strings.Contains(txt, "already") || strings.Contains(txt, "exist") {
				c.Request(ctx, header.Reference, "PUT", linePath, line, nil)
			}
		}
	}

	log.Printf("✅ [Monta IF] header synced and lines upserted for %s", header.Reference)
	return asString(body["UniqueId"]), nil
}

// DeleteForecastGroup removes a forecast group with a cancellation note
func (c *Client) DeleteForecastGroup(ctx context.Context, reference, note string) error {
	if note == "" {
		note = "Cancelled"
	}
	headers := map[string]string{
		"Content-Type": "application/json-patch+json",
		"Accept":       "application/json",
	}
	path := "/inboundforecast/group/" + url.PathEscape(reference)
	st, _ := c.Request(ctx, reference, "DELETE", path, map[string]string{"Note": note}, headers)
	if st == 200 || st == 204 {
		log.Printf("✅ [Monta IF] deleted group %s", reference)
		return nil
	}
	return fmt.Errorf("delete group %s failed: HTTP %d", reference, st)
}
