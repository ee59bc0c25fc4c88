package monta

import "testing"

func TestNormalize_Buckets(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"Shipped (T&T: 3STEST123) on 2026-08-20", StatusShipped},
		{"Track & Trace received", StatusShipped},
		{"Delivered", StatusDelivered},
		{"Ready to pick", StatusPicked},
		{"Picked", StatusPicked},
		{"Picking in progress", StatusProcessing},
		{"In progress - ETA 2026-09-01", StatusProcessing},
		{"Backorder", StatusBackorder},
		{"Blocked - address invalid", StatusError},
		{"Cancelled", StatusCancelled},
		{"Deleted", StatusCancelled},
		{"Received / Pending workflow", StatusReceived},
		{"Inbound forecast", StatusReceived},
		{"Order not found", StatusError},
		{"Open", StatusProcessing},
		{"In-Progress!!", StatusProcessing},
		{"queued", StatusProcessing},
		{"Verified", StatusProcessing},
		{"BO", StatusBackorder},
		{"Awaiting stock", StatusBackorder},
		{"SENT", StatusShipped},
		{"Complete", StatusDelivered},
		{"failed", StatusError},
		{"", StatusUnknown},
		{"some tenant-specific phrase", StatusUnknown},
	}
	for _, c := range cases {
		if got := Normalize(c.raw); got != c.want {
			t.Errorf("Normalize(%q) = %q, want %q", c.raw, got, c.want)
		}
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	for _, bucket := range []string{
		StatusProcessing, StatusReceived, StatusPicked, StatusShipped,
		StatusDelivered, StatusBackorder, StatusCancelled, StatusError,
	} {
		if got := Normalize(bucket); got != bucket {
			t.Errorf("Normalize(%q) = %q, expected buckets to map to themselves", bucket, got)
		}
	}
}
