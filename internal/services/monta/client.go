package monta

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/devhassan17/montabridge/internal/config"
	"github.com/google/uuid"
)

// LogFunc receives a compact audit record for every API call so the
// caller can persist it (see bridge.Service).
type LogFunc func(orderName, tag, level string, data map[string]interface{})

// Client is a thin HTTP client for the Monta REST API with basic auth.
// Every request is independent; a transport failure is reported as
// status 0 with a nil body and is never fatal to the caller's batch.
type Client struct {
	BaseURL    string
	Username   string
	Password   string
	HTTPClient *http.Client

	// Optional audit hook
	Log LogFunc
}

// NewClient creates a Monta API client from configuration
func NewClient(cfg config.MontaConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 20
	}
	return &Client{
		BaseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		Username:   cfg.Username,
		Password:   cfg.Password,
		HTTPClient: &http.Client{Timeout: time.Duration(timeout) * time.Second},
	}
}

// Configured reports whether credentials are present
func (c *Client) Configured() bool {
	return c.BaseURL != "" && c.Username != "" && c.Password != ""
}

// AccountKey scopes stored snapshots per Monta account/environment so
// that two configurations pointing at different tenants never collide.
func (c *Client) AccountKey() string {
	return AccountKey(c.BaseURL, c.Username)
}

// AccountKey derives a short stable key from endpoint + credentials
func AccountKey(baseURL, username string) string {
	sum := sha256.Sum256([]byte(strings.TrimRight(baseURL, "/") + "|" + username))
	return hex.EncodeToString(sum[:])[:12]
}

// GetJSON performs a GET and decodes the JSON body. A cache-busting
// timestamp is appended to defeat intermediary caches. Returns the
// HTTP status (0 on transport error) and the decoded payload (nil when
// the body is absent or not JSON).
func (c *Client) GetJSON(ctx context.Context, path string, params url.Values) (int, interface{}) {
	if params == nil {
		params = url.Values{}
	}
	params.Set("_ts", strconv.FormatInt(time.Now().Unix(), 10))

	endpoint := c.BaseURL + "/" + strings.TrimLeft(path, "/")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		log.Printf("[Monta API] GET %s -> bad request: %v", endpoint, err)
		return 0, nil
	}
	req.SetBasicAuth(c.Username, c.Password)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		log.Printf("[Monta API] HTTP ERR GET %s -> %v", endpoint, err)
		return 0, nil
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	var data interface{}
	if len(body) > 0 {
		if err := json.Unmarshal(body, &data); err != nil {
			data = nil
		}
	}
	return resp.StatusCode, data
}

// Request executes a write call (POST/PUT/DELETE) with a JSON payload
// and records a request/response audit pair via the Log hook.
func (c *Client) Request(ctx context.Context, orderName, method, path string, payload interface{}, headers map[string]string) (int, map[string]interface{}) {
	endpoint := c.BaseURL + "/" + strings.TrimLeft(path, "/")

	var bodyReader io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			log.Printf("[Monta API] %s %s | payload marshal failed: %v", method, endpoint, err)
			return 0, map[string]interface{}{"error": err.Error()}
		}
		bodyReader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, bodyReader)
	if err != nil {
		return 0, map[string]interface{}{"error": err.Error()}
	}
	req.SetBasicAuth(c.Username, c.Password)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	// Correlation id ties the request and response audit rows together
	requestID := uuid.NewString()
	req.Header.Set("X-Request-Id", requestID)

	start := time.Now()
	log.Printf("[Monta API] %s %s | User: %s", method, endpoint, c.Username)
	c.log(orderName, "Monta API", "info", map[string]interface{}{
		"request_id": requestID,
		"request":    map[string]interface{}{"method": method, "url": endpoint, "payload": payload},
	})

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		elapsed := time.Since(start).Seconds()
		log.Printf("[Monta API] %s %s | Request failed after %.2fs | %v", method, endpoint, elapsed, err)
		c.log(orderName, "Monta API", "error", map[string]interface{}{"request_id": requestID, "exception": err.Error()})
		return 0, map[string]interface{}{"error": err.Error()}
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	var body map[string]interface{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &body); err != nil {
			body = map[string]interface{}{"raw": truncate(string(raw), 1000)}
		}
	}

	elapsed := time.Since(start).Seconds()
	line := fmt.Sprintf("[Monta API] %s %s | Status: %d | Time: %.2fs", method, endpoint, resp.StatusCode, elapsed)
	level := "info"
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		level = "error"
		log.Print("❌ " + line)
	} else {
		log.Print(line)
	}
	c.log(orderName, "Monta API", level, map[string]interface{}{
		"request_id": requestID,
		"response":   map[string]interface{}{"status": resp.StatusCode, "time_seconds": elapsed, "body": body},
	})
	return resp.StatusCode, body
}

func (c *Client) log(orderName, tag, level string, data map[string]interface{}) {
	if c.Log != nil {
		c.Log(orderName, tag, level, data)
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// ok reports whether an HTTP status code is a success
func ok(status int) bool {
	return status >= 200 && status < 300
}
