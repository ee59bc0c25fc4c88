package monta

import (
	"fmt"
	"strconv"
	"strings"
)

// Ordered extraction rules for the fields the API spreads across many
// possible key names. Each list is tried front to back; the first
// non-empty value wins. Documented here once instead of inline guesses.
var (
	shipmentStatusKeys = []string{"DeliveryStatusDescription", "ShipmentStatus", "Status", "CurrentStatus"}
	eventStatusKeys    = []string{"DeliveryStatusDescription", "Status", "CurrentStatus", "ActionCode"}
	headerStatusKeys   = []string{"DeliveryStatusDescription", "Status", "CurrentStatus"}
	trackTraceKeys     = []string{"TrackAndTraceLink", "TrackAndTraceUrl", "TrackAndTrace", "TrackingUrl"}
	deliveryDateKeys   = []string{"DeliveryDate", "ShippedDate", "EstimatedDeliveryTo", "LatestDeliveryDate"}
	messageKeys        = []string{"BlockedMessage", "DeliveryMessage", "Message", "Reason"}
	statusCodeKeys     = []string{"StatusID", "DeliveryStatusId", "DeliveryStatusCode"}
)

// pick returns the first non-empty value among keys, as a string
func pick(d map[string]interface{}, keys ...string) string {
	if d == nil {
		return ""
	}
	for _, k := range keys {
		if s := asString(d[k]); s != "" {
			return s
		}
	}
	return ""
}

// asString renders a JSON value as text. Empty strings, nulls, false
// booleans and empty lists all count as absent.
func asString(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		if t {
			return "true"
		}
		return ""
	case float64:
		// JSON numbers decode as float64; keep integers clean
		if t == float64(int64(t)) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case []interface{}:
		return ""
	default:
		return fmt.Sprintf("%v", t)
	}
}

// truthy interprets the API's mixed flag encodings (bool, "1", "true")
func truthy(v interface{}) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "1", "true", "yes":
			return true
		}
		return false
	case float64:
		return t != 0
	}
	return false
}

// statusFromFlags derives a status from the order header booleans, in
// priority order. Returns "" when no flag is conclusive.
func statusFromFlags(o map[string]interface{}) string {
	if o == nil {
		return ""
	}
	if truthy(o["IsBlocked"]) {
		if msg := asString(o["BlockedMessage"]); msg != "" {
			return "Blocked - " + msg
		}
		return "Blocked"
	}
	if truthy(o["IsBackorder"]) || truthy(o["IsBackOrder"]) || truthy(o["Backorder"]) {
		return "Backorder"
	}
	if truthy(o["IsShipped"]) || asString(o["ShippedDate"]) != "" {
		st := "Shipped"
		if tt := asString(o["TrackAndTraceCode"]); tt != "" {
			st += " (T&T: " + tt + ")"
		}
		if d := asString(o["ShippedDate"]); d != "" {
			st += " on " + d
		}
		return st
	}
	if truthy(o["Picked"]) {
		return "Picked"
	}
	if truthy(o["IsPicking"]) {
		return "Picking in progress"
	}
	if r := asString(o["ReadyToPick"]); r != "" && r != "NotReady" {
		return "Ready to pick"
	}
	for _, k := range []string{"EstimatedDeliveryTo", "EstimatedDeliveryFrom", "LatestDeliveryDate"} {
		if d := asString(o[k]); d != "" {
			return "In progress - ETA " + d
		}
	}
	return ""
}

// statusFromText maps header status text when the flags are absent
func statusFromText(o map[string]interface{}) string {
	txt := pick(o, headerStatusKeys...)
	low := strings.ToLower(txt)
	if strings.Contains(low, "blocked") {
		return "Blocked"
	}
	if strings.Contains(low, "backorder") || strings.Contains(low, "back order") {
		return "Backorder"
	}
	return txt
}

// isBlockedHeader checks every signal the header may carry for Blocked.
// The header is authoritative for this state.
func isBlockedHeader(o map[string]interface{}) bool {
	if o == nil {
		return false
	}
	if truthy(o["IsBlocked"]) {
		return true
	}
	if strings.Contains(strings.ToLower(asString(o["BlockedMessage"])), "blocked") {
		return true
	}
	return strings.Contains(strings.ToLower(pick(o, headerStatusKeys...)), "blocked")
}

// isBackorderHeader checks every signal the header may carry for Backorder
func isBackorderHeader(o map[string]interface{}) bool {
	if o == nil {
		return false
	}
	if truthy(o["IsBackorder"]) || truthy(o["IsBackOrder"]) || truthy(o["Backorder"]) {
		return true
	}
	low := strings.ToLower(pick(o, headerStatusKeys...))
	return strings.Contains(low, "backorder") || strings.Contains(low, "back order")
}

// subMap returns a nested object field or nil
func subMap(d map[string]interface{}, key string) map[string]interface{} {
	if d == nil {
		return nil
	}
	if m, ok := d[key].(map[string]interface{}); ok {
		return m
	}
	return nil
}
