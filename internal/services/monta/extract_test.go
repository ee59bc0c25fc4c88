package monta

import "testing"

func TestAsString_MixedJSONValues(t *testing.T) {
	cases := []struct {
		in   interface{}
		want string
	}{
		{"abc", "abc"},
		{nil, ""},
		{false, ""},
		{true, "true"},
		{float64(42), "42"},
		{float64(42.5), "42.5"},
		{[]interface{}{}, ""},
	}
	for _, c := range cases {
		if got := asString(c.in); got != c.want {
			t.Errorf("asString(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestPick_FirstNonEmptyWins(t *testing.T) {
	d := map[string]interface{}{
		"TrackAndTraceLink": "",
		"TrackAndTraceUrl":  "https://track.example/1",
		"TrackAndTrace":     "https://track.example/2",
	}
	if got := pick(d, trackTraceKeys...); got != "https://track.example/1" {
		t.Errorf("expected the first populated key to win, got %q", got)
	}
	if got := pick(nil, trackTraceKeys...); got != "" {
		t.Errorf("nil map should yield empty, got %q", got)
	}
}

func TestStatusFromFlags_PriorityOrder(t *testing.T) {
	blocked := map[string]interface{}{
		"IsBlocked":      true,
		"BlockedMessage": "address invalid",
		"IsShipped":      true,
	}
	if got := statusFromFlags(blocked); got != "Blocked - address invalid" {
		t.Errorf("blocked flag should outrank shipped, got %q", got)
	}

	backorder := map[string]interface{}{"IsBackorder": true, "Picked": true}
	if got := statusFromFlags(backorder); got != "Backorder" {
		t.Errorf("backorder flag should outrank picked, got %q", got)
	}

	shipped := map[string]interface{}{
		"IsShipped":         true,
		"TrackAndTraceCode": "3STEST123",
	}
	if got := statusFromFlags(shipped); got != "Shipped (T&T: 3STEST123)" {
		t.Errorf("unexpected shipped status: %q", got)
	}

	eta := map[string]interface{}{"EstimatedDeliveryTo": "2026-09-03"}
	if got := statusFromFlags(eta); got != "In progress - ETA 2026-09-03" {
		t.Errorf("unexpected ETA status: %q", got)
	}

	if got := statusFromFlags(map[string]interface{}{}); got != "" {
		t.Errorf("no flags should yield empty, got %q", got)
	}
}

func TestTruthy_MixedEncodings(t *testing.T) {
	for _, v := range []interface{}{true, "1", "true", "YES", float64(1)} {
		if !truthy(v) {
			t.Errorf("expected truthy(%v) = true", v)
		}
	}
	for _, v := range []interface{}{false, "0", "no", "", float64(0), nil} {
		if truthy(v) {
			t.Errorf("expected truthy(%v) = false", v)
		}
	}
}

func TestIsBackorderHeader_TextFallback(t *testing.T) {
	byFlag := map[string]interface{}{"Backorder": "1"}
	if !isBackorderHeader(byFlag) {
		t.Error("string-encoded flag should count")
	}
	byText := map[string]interface{}{"Status": "In Back Order since monday"}
	if !isBackorderHeader(byText) {
		t.Error("status text should count")
	}
	if isBackorderHeader(map[string]interface{}{"Status": "Shipped"}) {
		t.Error("shipped header is not a backorder")
	}
}
