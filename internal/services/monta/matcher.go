package monta

import (
	"strings"
)

// Identifier fields probed when matching a target reference against a
// WMS order record, in fixed order. Tenants populate these unevenly.
var matchFields = []string{
	"OrderNumber",
	"Reference",
	"ClientReference",
	"WebshopOrderId",
	"InternalWebshopOrderId",
	"EorderGUID",
	"EorderGuid",
}

// Match score levels
const (
	scoreExact     = 100
	scorePrefix    = 85
	scoreSubstring = 70
)

// MatchPolicy controls candidate scoring. The thresholds come from
// observed tenant behavior and stay configurable.
type MatchPolicy struct {
	// Loose permits prefix and substring matches; when false only an
	// exact (case-insensitive) hit is accepted.
	Loose bool
	// Threshold is the minimum acceptable score in loose mode.
	Threshold int
}

// DefaultMatchPolicy mirrors the production configuration
func DefaultMatchPolicy() MatchPolicy {
	return MatchPolicy{Loose: true, Threshold: 60}
}

func lower(v interface{}) string {
	return strings.ToLower(strings.TrimSpace(asString(v)))
}

// Score rates one candidate record against the target reference.
// Exact case-insensitive match outranks prefix, which outranks
// substring containment. Returns the best score and the matched value.
// Deterministic and side-effect free.
func (p MatchPolicy) Score(target string, rec map[string]interface{}) (int, string) {
	t := strings.ToLower(strings.TrimSpace(target))
	if t == "" || rec == nil {
		return 0, ""
	}
	best, bestVal := 0, ""
	for _, f := range matchFields {
		s := lower(rec[f])
		if s == "" {
			continue
		}
		sc := 0
		switch {
		case s == t:
			sc = scoreExact
		case p.Loose && strings.HasPrefix(s, t):
			sc = scorePrefix
		case p.Loose && strings.Contains(s, t):
			sc = scoreSubstring
		}
		if sc > best {
			best, bestVal = sc, asString(rec[f])
			if sc >= scoreExact {
				break
			}
		}
	}
	return best, bestVal
}

// PickBest selects the best-scoring candidate from a payload of any
// envelope shape, or nil when no candidate reaches the acceptance
// threshold. Ties are broken by first-seen order.
func (p MatchPolicy) PickBest(target string, payload interface{}) map[string]interface{} {
	list := asList(payload)
	if len(list) == 0 {
		return nil
	}
	threshold := scoreExact
	if p.Loose {
		threshold = p.Threshold
		if threshold <= 0 {
			threshold = 60
		}
	}
	bestSc := 0
	var best map[string]interface{}
	for _, rec := range list {
		sc, _ := p.Score(target, rec)
		if sc > bestSc {
			bestSc, best = sc, rec
			if sc >= scoreExact {
				break
			}
		}
	}
	if bestSc >= threshold {
		return best
	}
	return nil
}

// asList unwraps the various envelope shapes the API returns: a bare
// list, an object with a well-known list key, or a single object.
func asList(payload interface{}) []map[string]interface{} {
	switch v := payload.(type) {
	case nil:
		return nil
	case []interface{}:
		out := make([]map[string]interface{}, 0, len(v))
		for _, item := range v {
			if m, ok := item.(map[string]interface{}); ok {
				out = append(out, m)
			}
		}
		return out
	case map[string]interface{}:
		for _, k := range []string{"Items", "items", "Data", "data", "results", "Results", "value"} {
			if inner, ok := v[k].([]interface{}); ok {
				return asList(inner)
			}
		}
		return []map[string]interface{}{v}
	}
	return nil
}
