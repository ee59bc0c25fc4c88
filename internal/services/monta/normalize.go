package monta

import (
	"regexp"
	"strings"
)

// Normalized status buckets. Raw Monta statuses are free-form text, so
// downstream code keys on these instead.
const (
	StatusProcessing = "processing"
	StatusReceived   = "received"
	StatusPicked     = "picked"
	StatusShipped    = "shipped"
	StatusDelivered  = "delivered"
	StatusBackorder  = "backorder"
	StatusCancelled  = "cancelled"
	StatusError      = "error"
	StatusUnknown    = "unknown"
)

var nonLetters = regexp.MustCompile(`[^a-z]+`)

// statusBuckets are checked with an exact pass over the squashed input
// first, then a substring fallback in the same order. Buckets whose
// terms can shadow each other in the fallback (error vs backorder,
// shipped vs received) come earlier so the more specific phrase wins.
var statusBuckets = []struct {
	name  string
	terms []string
}{
	{StatusDelivered, []string{"delivered", "complete", "completed"}},
	{StatusShipped, []string{"shipped", "sent", "despatched", "dispatch", "track"}},
	{StatusPicked, []string{"picked", "picking done", "ready to pick"}},
	{StatusError, []string{"error", "failed", "rejected", "blocked", "not found"}},
	{StatusBackorder, []string{"backorder", "bo", "awaiting stock"}},
	{StatusCancelled, []string{"cancelled", "canceled", "cancel", "deleted"}},
	{StatusReceived, []string{"received", "inbound received", "pending workflow", "forecast", "new"}},
	{StatusProcessing, []string{"processing", "in progress", "verified", "queued", "open", "picking"}},
}

// Normalize maps a raw Monta status string onto one of the fixed
// buckets. Non-letter runs are squashed to single spaces before
// matching; an exact hit always wins over the substring fallback.
// Empty and unrecognized input map to StatusUnknown.
func Normalize(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return StatusUnknown
	}
	s = strings.TrimSpace(nonLetters.ReplaceAllString(s, " "))

	for _, b := range statusBuckets {
		for _, term := range b.terms {
			if s == term {
				return b.name
			}
		}
	}
	for _, b := range statusBuckets {
		for _, term := range b.terms {
			if strings.Contains(s, term) {
				return b.name
			}
		}
	}
	return StatusUnknown
}
