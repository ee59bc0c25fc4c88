package config

import "testing"

func TestParseSupplierCodeMap(t *testing.T) {
	m := parseSupplierCodeMap(`{"Acme Beans": "SUP-1", " v123 ": "SUP-2", "empty": ""}`)
	if m["ACME BEANS"] != "SUP-1" {
		t.Errorf("keys should be upper-cased, got %v", m)
	}
	if m["V123"] != "SUP-2" {
		t.Errorf("keys should be trimmed, got %v", m)
	}
	if _, present := m["EMPTY"]; present {
		t.Errorf("empty values should be dropped, got %v", m)
	}

	if got := parseSupplierCodeMap(""); len(got) != 0 {
		t.Errorf("empty input should yield an empty map, got %v", got)
	}
	if got := parseSupplierCodeMap("not json"); len(got) != 0 {
		t.Errorf("broken JSON should yield an empty map, got %v", got)
	}
}

func TestPushAllowed(t *testing.T) {
	cfg := &Config{NodeEnv: "staging"}
	if !cfg.PushAllowed() {
		t.Error("an empty allow-list should permit every environment")
	}

	cfg.Monta.EnvAllowlist = []string{"production"}
	if cfg.PushAllowed() {
		t.Error("staging should be blocked when only production is allowed")
	}

	cfg.NodeEnv = "Production"
	if !cfg.PushAllowed() {
		t.Error("allow-list comparison should be case-insensitive")
	}
}

func TestIsTruthy(t *testing.T) {
	for _, v := range []string{"1", "true", "YES", " on "} {
		if !isTruthy(v) {
			t.Errorf("expected %q to be truthy", v)
		}
	}
	for _, v := range []string{"", "0", "false", "off"} {
		if isTruthy(v) {
			t.Errorf("expected %q to be falsy", v)
		}
	}
}
