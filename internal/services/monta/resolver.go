package monta

import (
	"context"
	"encoding/json"
	"log"
	"net/url"
	"strconv"
	"strings"
)

// ResolveMeta carries the provenance and enrichment data of a resolved
// status. MontaOrderRef is the WMS's own stable reference for the order.
type ResolveMeta struct {
	Source          string          `json:"source"` // orders | shipments | orderevents
	StatusCode      string          `json:"status_code,omitempty"`
	TrackTrace      string          `json:"track_trace,omitempty"`
	DeliveryDate    string          `json:"delivery_date,omitempty"`
	DeliveryMessage string          `json:"delivery_message,omitempty"`
	MontaOrderRef   string          `json:"monta_order_ref,omitempty"`
	OrderID         string          `json:"order_id,omitempty"`
	Reason          string          `json:"reason,omitempty"` // populated on not-found
	Tried           []string        `json:"tried,omitempty"`
	StatusRaw       json.RawMessage `json:"status_raw,omitempty"`
}

// Resolver locates a single order on Monta and derives its delivery
// status. Data priority is freshest-first (shipments, then order
// events, then the order header), but the header stays authoritative
// for Blocked and Backorder.
type Resolver struct {
	client *Client
	policy MatchPolicy
}

// NewResolver creates a resolver bound to a client and match policy
func NewResolver(client *Client, policy MatchPolicy) *Resolver {
	return &Resolver{client: client, policy: policy}
}

// recentScanLimit bounds the last-resort scan over recent orders
const recentScanLimit = 250

// orderLookupParams are the search query variants tried in order when
// the direct endpoint misses.
var orderLookupParams = []string{
	"orderNumber",
	"reference",
	"clientReference",
	"webshopOrderId",
	"internalWebshopOrderId",
	"eorderGuid",
	"search",
}

// findOrder walks the lookup strategies until the matcher accepts a
// candidate. Every failed call degrades to the next strategy.
func (r *Resolver) findOrder(ctx context.Context, ref string, tried *[]string) map[string]interface{} {
	// 1) Direct exact endpoint
	*tried = append(*tried, "order/"+ref)
	if sc, direct := r.client.GetJSON(ctx, "order/"+url.PathEscape(ref), nil); ok(sc) && direct != nil {
		items := asList(direct)
		if len(items) > 0 {
			if match := r.policy.PickBest(ref, direct); match != nil {
				log.Printf("[Monta] direct order hit for %s", ref)
				return match
			}
			// A direct hit with a single record is trusted as-is
			if len(items) == 1 {
				return items[0]
			}
		}
	}

	// 2) Parameterized searches
	for _, key := range orderLookupParams {
		*tried = append(*tried, "orders?"+key)
		params := url.Values{key: []string{ref}}
		sc, payload := r.client.GetJSON(ctx, "orders", params)
		if !ok(sc) {
			continue
		}
		if match := r.policy.PickBest(ref, payload); match != nil {
			log.Printf("[Monta] matched %s via %s", ref, key)
			return match
		}
	}

	// 3) Bounded recent-orders fallback scan
	*tried = append(*tried, "orders?recent")
	sc, recent := r.client.GetJSON(ctx, "orders", url.Values{
		"limit": []string{strconv.Itoa(recentScanLimit)},
		"sort":  []string{"desc"},
	})
	if ok(sc) {
		if match := r.policy.PickBest(ref, recent); match != nil {
			log.Printf("[Monta] matched %s via recent scan", ref)
			return match
		}
	}

	log.Printf("[Monta] No order found for %s (tried=%v)", ref, *tried)
	return nil
}

// referenceSet collects every identifier variant the candidate exposes,
// falling back to the original reference for the textual ones.
func referenceSet(cand map[string]interface{}, ref string) map[string]string {
	refs := map[string]string{
		"orderId":         asString(cand["Id"]),
		"orderNumber":     asString(cand["OrderNumber"]),
		"orderReference":  asString(cand["Reference"]),
		"clientReference": asString(cand["ClientReference"]),
		"orderGuid":       pick(cand, "EorderGUID", "EorderGuid"),
		"webshopOrderId":  pick(cand, "WebshopOrderId", "InternalWebshopOrderId"),
	}
	for _, k := range []string{"orderNumber", "orderReference", "clientReference"} {
		if refs[k] == "" {
			refs[k] = ref
		}
	}
	return refs
}

// shipmentLookups yields the (param, value) pairs used against the
// shipments and orderevents endpoints, skipping empty identifiers.
func shipmentLookups(refs map[string]string) [][2]string {
	var out [][2]string
	for _, key := range []string{"orderId", "orderNumber", "orderReference", "clientReference", "orderGuid", "webshopOrderId"} {
		if v := refs[key]; v != "" {
			out = append(out, [2]string{key, v})
		}
	}
	return out
}

// Resolve returns (status, meta). An unlocatable reference yields an
// empty status with meta.Reason populated; that outcome is expected
// and is not an error.
func (r *Resolver) Resolve(ctx context.Context, ref string) (string, *ResolveMeta) {
	if strings.TrimSpace(ref) == "" {
		return "", &ResolveMeta{Reason: "empty reference"}
	}

	var tried []string
	cand := r.findOrder(ctx, ref, &tried)
	if cand == nil {
		return "", &ResolveMeta{
			Source: "orders",
			Reason: "Order not found or not matching searched reference",
			Tried:  tried,
		}
	}

	// Hydrate the canonical record when an internal id is known
	if id := asString(cand["Id"]); id != "" {
		if sc, full := r.client.GetJSON(ctx, "orders/"+url.PathEscape(id), nil); ok(sc) {
			if m, okm := full.(map[string]interface{}); okm && len(m) > 0 {
				cand = m
			}
		}
	}

	refs := referenceSet(cand, ref)

	// Shipments: freshest signal when available
	var shipStatus, shipTT, shipDate, shipMsg, shipCode string
	for _, kv := range shipmentLookups(refs) {
		sc, ships := r.client.GetJSON(ctx, "shipments", url.Values{kv[0]: []string{kv[1]}})
		if !ok(sc) {
			continue
		}
		for _, sh := range asList(ships) {
			st := pick(sh, shipmentStatusKeys...)
			if st == "" && (truthy(sh["IsShipped"]) || asString(sh["ShippedDate"]) != "") {
				st = "Shipped"
			}
			if st == "" {
				continue
			}
			shipStatus = st
			shipTT = pick(sh, trackTraceKeys...)
			shipDate = pick(sh, deliveryDateKeys...)
			shipMsg = pick(sh, messageKeys...)
			shipCode = asString(sh["ShipmentStatus"])
			break
		}
		if shipStatus != "" {
			log.Printf("[Monta] %s using shipment status %q", ref, shipStatus)
			break
		}
	}

	// Order events: latest event when shipments were silent
	var eventStatus, eventTT, eventDate, eventMsg, eventCode string
	if shipStatus == "" {
		for _, kv := range shipmentLookups(refs) {
			sc, ev := r.client.GetJSON(ctx, "orderevents", url.Values{
				kv[0]:   []string{kv[1]},
				"limit": []string{"1"},
				"sort":  []string{"desc"},
			})
			if !ok(sc) {
				continue
			}
			list := asList(ev)
			if len(list) == 0 {
				continue
			}
			e := list[0]
			eventStatus = pick(e, eventStatusKeys...)
			if eventStatus == "" {
				eventStatus = pick(subMap(e, "Order"), "Status", "CurrentStatus")
			}
			if eventStatus == "" {
				eventStatus = pick(subMap(e, "Shipment"), "ShipmentStatus", "Status", "CurrentStatus")
			}
			eventMsg = pick(e, messageKeys...)
			eventTT = pick(subMap(e, "Shipment"), trackTraceKeys...)
			eventDate = pick(subMap(e, "Shipment"), deliveryDateKeys...)
			eventCode = asString(e["Status"])
			if eventStatus != "" {
				log.Printf("[Monta] %s using event status %q", ref, eventStatus)
				break
			}
		}
	}

	// Order header: flag-derived first, then text mapping
	headerStatus := statusFromFlags(cand)
	if headerStatus == "" {
		headerStatus = statusFromText(cand)
	}
	if headerStatus == "" {
		headerStatus = "Received / Pending workflow"
	}
	headerTT := pick(cand, trackTraceKeys...)
	headerDate := pick(cand, deliveryDateKeys...)
	headerMsg := pick(cand, messageKeys...)

	// Freshest-first selection
	source := "orders"
	status := headerStatus
	switch {
	case shipStatus != "":
		source, status = "shipments", shipStatus
	case eventStatus != "":
		source, status = "orderevents", eventStatus
	}
	tt := firstNonEmpty(shipTT, eventTT, headerTT)
	date := firstNonEmpty(shipDate, eventDate, headerDate)
	msg := firstNonEmpty(shipMsg, eventMsg, headerMsg)

	// Header override: Blocked always wins; Backorder wins unless the
	// chosen status is already further along the fulfilment chain.
	headerBlocked := isBlockedHeader(cand)
	headerBackorder := isBackorderHeader(cand)
	if headerBlocked {
		prev := status
		status = "Blocked"
		if headerMsg != "" {
			status += " - " + headerMsg
		}
		log.Printf("[Monta] %s status override: Blocked (header authoritative, was: %s)", ref, prev)
	} else if headerBackorder && !isAdvancedStatus(status) {
		prev := status
		status = "Backorder"
		log.Printf("[Monta] %s status override: Backorder (header authoritative, was: %s)", ref, prev)
	}

	statusCode := firstNonEmpty(shipCode, eventCode, pick(cand, statusCodeKeys...))
	stableRef := firstNonEmpty(
		asString(cand["OrderNumber"]),
		refs["webshopOrderId"],
		refs["orderGuid"],
		asString(cand["ClientReference"]),
		asString(cand["Reference"]),
		ref,
	)

	raw, _ := json.Marshal(map[string]interface{}{
		"order":            cand,
		"used_source":      source,
		"ship_status":      shipStatus,
		"event_status":     eventStatus,
		"header_blocked":   headerBlocked,
		"header_backorder": headerBackorder,
		"final_status":     status,
	})

	meta := &ResolveMeta{
		Source:          source,
		StatusCode:      statusCode,
		TrackTrace:      tt,
		DeliveryDate:    date,
		DeliveryMessage: msg,
		MontaOrderRef:   stableRef,
		OrderID:         refs["orderId"],
		StatusRaw:       raw,
	}

	log.Printf("[Monta] resolved %s -> %s (blocked=%v, backorder=%v, src=%s)",
		ref, status, headerBlocked, headerBackorder, source)
	return status, meta
}

// isAdvancedStatus reports whether a status is further along than a
// backorder, in which case the backorder override is skipped.
func isAdvancedStatus(status string) bool {
	low := strings.ToLower(status)
	for _, adv := range []string{"shipped", "picked", "picking", "ready to pick", "delivered", "in progress"} {
		if strings.Contains(low, adv) {
			return true
		}
	}
	return false
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
