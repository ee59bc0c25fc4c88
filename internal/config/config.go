package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	NodeEnv  string
	Port     string
	Database DatabaseConfig
	Monta    MontaConfig
	Odoo     OdooConfig
	Sync     SyncConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	Database string
	Alter    bool
}

// MontaConfig holds the WMS API settings. Base URL plus username
// identify one Monta account/environment; snapshots are scoped by a
// key derived from them so two environments never collide.
type MontaConfig struct {
	BaseURL  string
	Username string
	Password string
	Timeout  int // seconds
	Channel  string
	Origin   string

	// Matching policy for order reference lookups
	MatchLoose     bool
	MatchThreshold int

	WebhookSecret string

	InboundEnable        bool
	InboundWarehouse     string
	WarehouseTZ          string
	SupplierCodeOverride string
	SupplierCodeMap      map[string]string
	DefaultSupplierCode  string

	AllowSyntheticSKU  bool
	SyntheticSKUPrefix string

	EnvAllowlist []string
	MinPushGap   int // seconds between pushes per order
}

// OdooConfig holds the optional ERP feed settings
type OdooConfig struct {
	URL          string
	Database     string
	Username     string
	Password     string
	SyncInterval int // in minutes
}

// SyncConfig holds batch sync scheduling
type SyncConfig struct {
	IntervalMinutes int
	BatchLimit      int
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		NodeEnv: getEnv("NODE_ENV", "development"),
		Port:    getEnv("PORT", "3310"),
		Database: DatabaseConfig{
			Host:     getEnv("PG_HOST", "localhost"),
			Port:     getEnv("PG_PORT", "5432"),
			Username: getEnv("PG_USERNAME", "postgres"),
			Password: os.Getenv("PG_PASSWORD"),
			Database: getEnv("PG_DATABASE", "montabridge"),
			Alter:    getEnv("DB_ALTER", "false") == "true",
		},
		Monta: MontaConfig{
			BaseURL:              strings.TrimRight(getEnv("MONTA_BASE_URL", "https://api-v6.monta.nl"), "/"),
			Username:             os.Getenv("MONTA_USERNAME"),
			Password:             os.Getenv("MONTA_PASSWORD"),
			Timeout:              getEnvInt("MONTA_TIMEOUT", 20),
			Channel:              getEnv("MONTA_CHANNEL", "Moyee_Odoo"),
			Origin:               getEnv("MONTA_ORIGIN", "Moyee_Odoo"),
			MatchLoose:           getEnv("MONTA_MATCH_LOOSE", "1") != "0",
			MatchThreshold:       getEnvInt("MONTA_MATCH_THRESHOLD", 60),
			WebhookSecret:        os.Getenv("MONTA_WEBHOOK_SECRET"),
			InboundEnable:        isTruthy(os.Getenv("MONTA_INBOUND_ENABLE")),
			InboundWarehouse:     strings.TrimSpace(os.Getenv("MONTA_INBOUND_WAREHOUSE")),
			WarehouseTZ:          getEnv("MONTA_WAREHOUSE_TZ", "Europe/Amsterdam"),
			SupplierCodeOverride: strings.TrimSpace(os.Getenv("MONTA_SUPPLIER_CODE_OVERRIDE")),
			SupplierCodeMap:      parseSupplierCodeMap(os.Getenv("MONTA_SUPPLIER_CODE_MAP")),
			DefaultSupplierCode:  strings.TrimSpace(os.Getenv("MONTA_DEFAULT_SUPPLIER_CODE")),
			AllowSyntheticSKU:    getEnv("MONTA_ALLOW_SYNTHETIC_SKU", "1") != "0",
			SyntheticSKUPrefix:   getEnv("MONTA_SYNTHETIC_SKU_PREFIX", "SYN-"),
			EnvAllowlist:         splitList(os.Getenv("MONTA_ENV_ALLOWLIST")),
			MinPushGap:           getEnvInt("MONTA_MIN_PUSH_GAP", 2),
		},
		Odoo: OdooConfig{
			URL:          os.Getenv("ODOO_URL"),
			Database:     os.Getenv("ODOO_DB"),
			Username:     os.Getenv("ODOO_USERNAME"),
			Password:     os.Getenv("ODOO_PASSWORD"),
			SyncInterval: getEnvInt("ODOO_SYNC_INTERVAL", 15),
		},
		Sync: SyncConfig{
			IntervalMinutes: getEnvInt("MONTA_SYNC_INTERVAL", 15),
			BatchLimit:      getEnvInt("MONTA_BATCH_LIMIT", 200),
		},
	}

	if cfg.Monta.MatchThreshold <= 0 || cfg.Monta.MatchThreshold > 100 {
		return nil, fmt.Errorf("MONTA_MATCH_THRESHOLD must be in 1..100, got %d", cfg.Monta.MatchThreshold)
	}

	return cfg, nil
}

// PushAllowed reports whether the current environment may push writes
// to Monta. An empty allow-list means every environment may push.
func (c *Config) PushAllowed() bool {
	if len(c.Monta.EnvAllowlist) == 0 {
		return true
	}
	for _, env := range c.Monta.EnvAllowlist {
		if strings.EqualFold(env, c.NodeEnv) {
			return true
		}
	}
	return false
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func isTruthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// parseSupplierCodeMap reads a JSON object of partner name/ref -> code.
// Keys are upper-cased for case-insensitive lookup.
func parseSupplierCodeMap(raw string) map[string]string {
	out := map[string]string{}
	if strings.TrimSpace(raw) == "" {
		return out
	}
	var m map[string]string
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return out
	}
	for k, v := range m {
		k = strings.ToUpper(strings.TrimSpace(k))
		v = strings.TrimSpace(v)
		if k != "" && v != "" {
			out[k] = v
		}
	}
	return out
}
