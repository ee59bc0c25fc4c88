package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/devhassan17/montabridge/internal/config"
	"github.com/gorilla/mux"
)

func newWebhookRouter(secret string) *Router {
	cfg := &config.Config{}
	cfg.Monta.WebhookSecret = secret
	return &Router{Router: mux.NewRouter(), cfg: cfg}
}

func postWebhook(r *Router, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", "/monta/webhook", strings.NewReader(body))
	w := httptest.NewRecorder()
	r.handleWebhook(w, req)
	return w
}

func TestHandleWebhook_RejectsWrongSecret(t *testing.T) {
	r := newWebhookRouter("topsecret")

	w := postWebhook(r, `{"secret":"wrong","event":"order.updated","data":{}}`)
	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403 for a wrong secret, got %d", w.Code)
	}

	w = postWebhook(r, `{"event":"order.updated","data":{}}`)
	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403 for a missing secret, got %d", w.Code)
	}
}

func TestHandleWebhook_RejectsInvalidJSON(t *testing.T) {
	r := newWebhookRouter("topsecret")
	w := postWebhook(r, `{"secret": "topsecret", "event":`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for broken JSON, got %d", w.Code)
	}
}

func TestHandleWebhook_AcknowledgesUnknownEvent(t *testing.T) {
	r := newWebhookRouter("topsecret")
	w := postWebhook(r, `{"secret":"topsecret","event":"something.new","data":{}}`)
	if w.Code != http.StatusOK {
		t.Errorf("unknown events should be acknowledged with 200, got %d", w.Code)
	}
}

func TestHandleWebhook_NoSecretConfiguredAcceptsAll(t *testing.T) {
	r := newWebhookRouter("")
	w := postWebhook(r, `{"event":"something.new","data":{}}`)
	if w.Code != http.StatusOK {
		t.Errorf("without a configured secret the gate is open, got %d", w.Code)
	}
}
