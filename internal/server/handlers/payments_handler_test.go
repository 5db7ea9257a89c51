package handlers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

const webhookTestSecret = "whsec_test"

func signPayload(secret, payload string, at time.Time) string {
	ts := fmt.Sprintf("%d", at.Unix())
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(ts + "." + payload))
	return fmt.Sprintf("t=%s,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))
}

func postWebhook(h *PaymentsHandler, payload, signature string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/payments/webhook", h.Webhook)

	req := httptest.NewRequest(http.MethodPost, "/api/payments/webhook", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if signature != "" {
		req.Header.Set("Stripe-Signature", signature)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

// Events other than checkout.session.completed are acknowledged without
// touching the booking service, which lets these tests focus on the
// signature check.
const ignoredEvent = `{"id": "evt_1", "type": "payment_intent.succeeded", "data": {"object": {"id": "pi_1"}}}`

func TestWebhook_ValidSignature(t *testing.T) {
	h := NewPaymentsHandler(nil, webhookTestSecret, nil)
	now := time.Now()
	h.now = func() time.Time { return now }

	rec := postWebhook(h, ignoredEvent, signPayload(webhookTestSecret, ignoredEvent, now))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestWebhook_MissingSignature(t *testing.T) {
	h := NewPaymentsHandler(nil, webhookTestSecret, nil)

	rec := postWebhook(h, ignoredEvent, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestWebhook_WrongSecret(t *testing.T) {
	h := NewPaymentsHandler(nil, webhookTestSecret, nil)
	now := time.Now()
	h.now = func() time.Time { return now }

	rec := postWebhook(h, ignoredEvent, signPayload("whsec_other", ignoredEvent, now))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestWebhook_StaleTimestamp(t *testing.T) {
	h := NewPaymentsHandler(nil, webhookTestSecret, nil)
	now := time.Now()
	h.now = func() time.Time { return now }

	rec := postWebhook(h, ignoredEvent, signPayload(webhookTestSecret, ignoredEvent, now.Add(-10*time.Minute)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestWebhook_TamperedPayload(t *testing.T) {
	h := NewPaymentsHandler(nil, webhookTestSecret, nil)
	now := time.Now()
	h.now = func() time.Time { return now }

	signature := signPayload(webhookTestSecret, ignoredEvent, now)
	tampered := strings.Replace(ignoredEvent, "pi_1", "pi_2", 1)
	rec := postWebhook(h, tampered, signature)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestWebhook_SkipsVerificationWithoutSecret(t *testing.T) {
	h := NewPaymentsHandler(nil, "", nil)

	rec := postWebhook(h, ignoredEvent, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}
