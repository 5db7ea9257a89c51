package handlers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	bookingsvc "github.com/cocopets/boarding/internal/service/booking"
)

const webhookTolerance = 5 * time.Minute

// PaymentsHandler ingests Stripe webhook events.
type PaymentsHandler struct {
	svc           *bookingsvc.Service
	webhookSecret string
	logger        *zap.Logger
	now           func() time.Time
}

// NewPaymentsHandler constructs the payments HTTP adapter.
func NewPaymentsHandler(svc *bookingsvc.Service, webhookSecret string, logger *zap.Logger) *PaymentsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PaymentsHandler{svc: svc, webhookSecret: webhookSecret, logger: logger, now: time.Now}
}

type webhookEvent struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object struct {
			ID string `json:"id"`
		} `json:"object"`
	} `json:"data"`
}

// Webhook handles checkout.session.completed events. Other event types are
// acknowledged and dropped. Stripe retries on non-2xx, so processing errors
// return 500 to trigger redelivery.
func (h *PaymentsHandler) Webhook(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, 1<<20))
	if err != nil {
		badRequest(c, "unreadable payload")
		return
	}

	if h.webhookSecret != "" {
		if err := h.verifySignature(payload, c.GetHeader("Stripe-Signature")); err != nil {
			h.logger.Warn("webhook signature rejected", zap.Error(err))
			writeError(c, http.StatusUnauthorized, "AUTHORIZATION_ERROR", "invalid signature")
			return
		}
	}

	var event webhookEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		badRequest(c, "invalid event payload")
		return
	}

	if event.Type != "checkout.session.completed" {
		c.Status(http.StatusOK)
		return
	}

	if err := h.svc.ConfirmPayment(c.Request.Context(), event.Data.Object.ID); err != nil {
		h.logger.Error("failed confirming payment",
			zap.String("event_id", event.ID), zap.Error(err))
		writeError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to process event")
		return
	}

	c.Status(http.StatusOK)
}

// verifySignature checks the Stripe-Signature header: a unix timestamp and an
// HMAC-SHA256 of "<timestamp>.<payload>" keyed by the webhook secret.
func (h *PaymentsHandler) verifySignature(payload []byte, header string) error {
	if header == "" {
		return fmt.Errorf("missing Stripe-Signature header")
	}

	var timestamp string
	var signatures []string
	for _, part := range strings.Split(header, ",") {
		kv := strings.SplitN(part, "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch kv[0] {
		case "t":
			timestamp = kv[1]
		case "v1":
			signatures = append(signatures, kv[1])
		}
	}
	if timestamp == "" || len(signatures) == 0 {
		return fmt.Errorf("malformed Stripe-Signature header")
	}

	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid signature timestamp: %w", err)
	}
	if h.now().Sub(time.Unix(ts, 0)) > webhookTolerance {
		return fmt.Errorf("signature timestamp outside tolerance")
	}

	mac := hmac.New(sha256.New, []byte(h.webhookSecret))
	mac.Write([]byte(timestamp))
	mac.Write([]byte("."))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))

	for _, sig := range signatures {
		if hmac.Equal([]byte(expected), []byte(sig)) {
			return nil
		}
	}
	return fmt.Errorf("no matching signature")
}
