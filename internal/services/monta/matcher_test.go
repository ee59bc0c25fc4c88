package monta

import "testing"

func rec(field, value string) map[string]interface{} {
	return map[string]interface{}{field: value}
}

func TestScore_ExactBeatsPrefixBeatsSubstring(t *testing.T) {
	p := DefaultMatchPolicy()

	sc, _ := p.Score("SO1042", rec("OrderNumber", "SO1042"))
	if sc != 100 {
		t.Errorf("exact match: expected 100, got %d", sc)
	}

	sc, _ = p.Score("SO1042", rec("OrderNumber", "SO10420"))
	if sc != 85 {
		t.Errorf("prefix match: expected 85, got %d", sc)
	}

	sc, _ = p.Score("1042", rec("OrderNumber", "XSO1042B"))
	if sc != 70 {
		t.Errorf("substring match: expected 70, got %d", sc)
	}

	sc, _ = p.Score("SO9999", rec("OrderNumber", "SO1042"))
	if sc != 0 {
		t.Errorf("no match: expected 0, got %d", sc)
	}
}

func TestScore_CaseInsensitive(t *testing.T) {
	p := DefaultMatchPolicy()
	sc, _ := p.Score("so1042", rec("Reference", "SO1042"))
	if sc != 100 {
		t.Errorf("expected case-insensitive exact match, got %d", sc)
	}
}

func TestScore_Deterministic(t *testing.T) {
	p := DefaultMatchPolicy()
	candidate := map[string]interface{}{
		"OrderNumber":    "SO1042-B",
		"Reference":      "SO1042",
		"WebshopOrderId": "WEB-SO1042",
	}
	first, firstVal := p.Score("SO1042", candidate)
	for i := 0; i < 20; i++ {
		sc, val := p.Score("SO1042", candidate)
		if sc != first || val != firstVal {
			t.Fatalf("run %d: score changed from (%d,%q) to (%d,%q)", i, first, firstVal, sc, val)
		}
	}
	if first != 100 {
		t.Errorf("expected the exact Reference hit to win, got %d (%s)", first, firstVal)
	}
}

func TestPickBest_StrictModeRejectsCloseMatches(t *testing.T) {
	strict := MatchPolicy{Loose: false}
	payload := []interface{}{
		map[string]interface{}{"OrderNumber": "SO10420"},
	}
	if got := strict.PickBest("SO1042", payload); got != nil {
		t.Errorf("strict policy accepted a prefix-only candidate: %v", got)
	}

	payload = append(payload, map[string]interface{}{"OrderNumber": "SO1042"})
	got := strict.PickBest("SO1042", payload)
	if got == nil || got["OrderNumber"] != "SO1042" {
		t.Errorf("strict policy should accept the exact candidate, got %v", got)
	}
}

func TestPickBest_ThresholdFiltersWeakCandidates(t *testing.T) {
	p := MatchPolicy{Loose: true, Threshold: 90}
	payload := []interface{}{
		map[string]interface{}{"OrderNumber": "SO10420"}, // prefix, 85
	}
	if got := p.PickBest("SO1042", payload); got != nil {
		t.Errorf("threshold 90 should reject a score-85 candidate, got %v", got)
	}
}

func TestPickBest_FirstSeenWinsOnTie(t *testing.T) {
	p := DefaultMatchPolicy()
	payload := []interface{}{
		map[string]interface{}{"OrderNumber": "SO10421", "Id": float64(1)},
		map[string]interface{}{"OrderNumber": "SO10422", "Id": float64(2)},
	}
	got := p.PickBest("SO1042", payload)
	if got == nil || got["Id"].(float64) != 1 {
		t.Errorf("tie should go to the first-seen candidate, got %v", got)
	}
}

func TestAsList_EnvelopeShapes(t *testing.T) {
	inner := []interface{}{map[string]interface{}{"Id": float64(1)}}

	if got := asList(inner); len(got) != 1 {
		t.Errorf("bare list: expected 1 item, got %d", len(got))
	}

	for _, key := range []string{"Items", "items", "Data", "data", "results", "Results", "value"} {
		wrapped := map[string]interface{}{key: inner}
		if got := asList(wrapped); len(got) != 1 {
			t.Errorf("envelope %q: expected 1 item, got %d", key, len(got))
		}
	}

	single := map[string]interface{}{"Id": float64(7)}
	got := asList(single)
	if len(got) != 1 || got[0]["Id"].(float64) != 7 {
		t.Errorf("single object: expected itself back, got %v", got)
	}

	if got := asList(nil); got != nil {
		t.Errorf("nil payload: expected nil, got %v", got)
	}
}
