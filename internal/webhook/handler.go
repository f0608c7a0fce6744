// Package webhook provides the Messenger webhook endpoints: the GET
// subscription handshake and the POST event callback that drives the help
// menu.
package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/snapframe/helpbot-go/internal/logger"
	"github.com/snapframe/helpbot-go/internal/menu"
	"github.com/snapframe/helpbot-go/internal/messenger"
	"github.com/snapframe/helpbot-go/internal/metrics"
	"github.com/snapframe/helpbot-go/internal/ratelimit"
	"github.com/snapframe/helpbot-go/internal/signature"
)

// maxBodyBytes caps the webhook body we are willing to read. Messenger
// batches at most a few hundred events per callback; 1 MiB is generous.
const maxBodyBytes = 1 << 20

// Handler handles Messenger webhook callbacks.
type Handler struct {
	appSecret   []byte
	verifyToken string
	client      *messenger.Client
	machine     *menu.Machine
	limiter     *ratelimit.SenderLimiter // nil disables flood control
	metrics     *metrics.Metrics
	logger      *logger.Logger
	wg          sync.WaitGroup // async event processing
}

// HandlerConfig holds configuration for creating a Handler.
type HandlerConfig struct {
	AppSecret   string
	VerifyToken string
	Client      *messenger.Client
	Machine     *menu.Machine
	Limiter     *ratelimit.SenderLimiter
	Metrics     *metrics.Metrics
	Logger      *logger.Logger
}

// NewHandler creates a webhook handler.
func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{
		appSecret:   []byte(cfg.AppSecret),
		verifyToken: cfg.VerifyToken,
		client:      cfg.Client,
		machine:     cfg.Machine,
		limiter:     cfg.Limiter,
		metrics:     cfg.Metrics,
		logger:      cfg.Logger.WithModule("webhook"),
	}
}

// HandleVerify is the Gin handler for the GET subscription handshake.
// Facebook sends hub.mode=subscribe with the configured verify token and a
// challenge to echo back.
func (h *Handler) HandleVerify(c *gin.Context) {
	mode := c.Query("hub.mode")
	token := c.Query("hub.verify_token")
	challenge := c.Query("hub.challenge")

	if mode == "subscribe" && token == h.verifyToken {
		h.logger.Info("Webhook subscription verified")
		c.String(http.StatusOK, challenge)
		return
	}

	h.logger.WithField("mode", mode).Warn("Webhook verification rejected")
	c.Status(http.StatusForbidden)
}

// HandleEvents is the Gin handler for the POST event callback.
//
// The request is rejected before any classification when the signature is
// missing or wrong. Otherwise the batch is acknowledged with 200 as soon as
// its events are accepted for processing; replies go out asynchronously so
// the acknowledgment never waits on the Send API.
func (h *Handler) HandleEvents(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBodyBytes))
	if err != nil {
		h.logger.WithError(err).Error("Failed to read webhook body")
		c.Status(http.StatusInternalServerError)
		return
	}

	if err := signature.Verify(h.appSecret, body, c.GetHeader(signature.Header)); err != nil {
		reason := "mismatch"
		if errors.Is(err, signature.ErrMissingSignature) {
			reason = "missing"
		}
		h.metrics.RecordSignatureFailure(reason)
		h.logger.WithError(err).WithField("reason", reason).Warn("Rejected webhook delivery")
		c.Status(http.StatusForbidden)
		return
	}

	var env messenger.Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		h.logger.WithError(err).Error("Failed to decode webhook envelope")
		c.Status(http.StatusBadRequest)
		return
	}

	events := messenger.Classify(&env)

	// Acknowledge now; the platform requires a prompt 200 and the reply
	// dispatch must not delay it.
	c.Status(http.StatusOK)

	if len(events) == 0 {
		if env.Object != "page" {
			h.logger.WithField("object", env.Object).Debug("Ignoring non-page envelope")
		}
		return
	}

	start := time.Now()
	log := h.logger.WithBatchID(uuid.NewString())

	h.wg.Go(func() {
		defer func() {
			if r := recover(); r != nil {
				log.WithField("panic", r).Error("Panic in async event processing")
			}
		}()

		ctx := context.Background()
		for _, event := range events {
			h.processEvent(ctx, event, log, start)
		}
	})
}

// processEvent handles one classified event. Only messages and postbacks
// produce replies; confirmations and link/optin events are observed only.
func (h *Handler) processEvent(ctx context.Context, ev messenger.ClassifiedEvent, log *logger.Logger, batchStart time.Time) {
	eventStart := time.Now()
	eventType := ev.Type.String()
	senderID := ev.Event.Sender.ID
	log = log.WithField("event_type", eventType).WithField("sender_id", senderID)

	var replies []messenger.Reply

	switch ev.Type {
	case messenger.EventMessage:
		msg := ev.Event.Message
		if msg.IsEcho {
			log.WithField("mid", msg.MID).Debug("Skipping echo message")
			h.metrics.RecordWebhook(eventType, "skipped", time.Since(eventStart).Seconds())
			return
		}
		if h.floodLimited(senderID, eventType, eventStart, log) {
			return
		}
		h.acknowledgeReceipt(ctx, senderID, log)
		switch {
		case msg.QuickReply != nil:
			replies = h.machine.ReplyToPayload(msg.QuickReply.Payload)
		case msg.Text != "":
			replies = h.machine.ReplyToText(msg.Text)
		default:
			// Attachment-only message: nudge back to the menu.
			replies = h.machine.ReplyToText("")
		}

	case messenger.EventPostback:
		if h.floodLimited(senderID, eventType, eventStart, log) {
			return
		}
		h.acknowledgeReceipt(ctx, senderID, log)
		replies = h.machine.ReplyToPayload(ev.Event.Postback.Payload)

	case messenger.EventDelivery:
		log.WithField("watermark", ev.Event.Delivery.Watermark).
			WithField("mids", len(ev.Event.Delivery.MIDs)).
			Info("Delivery confirmed")

	case messenger.EventRead:
		log.WithField("watermark", ev.Event.Read.Watermark).Info("Messages read")

	case messenger.EventAccountLinking:
		log.WithField("status", ev.Event.AccountLinking.Status).Info("Account linking event")

	case messenger.EventOptin:
		log.WithField("ref", ev.Event.Optin.Ref).Info("Optin event")

	default:
		log.Warn("Unknown event shape, ignoring")
	}

	status := "success"
	for _, reply := range replies {
		req, err := messenger.Build(senderID, reply)
		if err != nil {
			log.WithError(err).Error("Failed to build reply")
			status = "error"
			continue
		}
		if _, err := h.client.Send(ctx, reply.Kind(), req); err != nil {
			// Already logged by the client; never retried, never surfaced
			// to the webhook caller.
			status = "error"
		}
	}

	h.metrics.RecordWebhook(eventType, status, time.Since(eventStart).Seconds())
	log.WithField("event_duration_ms", time.Since(eventStart).Milliseconds()).
		WithField("batch_duration_ms", time.Since(batchStart).Milliseconds()).
		WithField("replies", len(replies)).
		Info("Event processed")
}

// floodLimited drops the event when its sender is over the flood limit.
func (h *Handler) floodLimited(senderID, eventType string, eventStart time.Time, log *logger.Logger) bool {
	if h.limiter == nil || h.limiter.Allow(senderID) {
		return false
	}
	log.Warn("Sender over flood limit, dropping event")
	h.metrics.RecordWebhook(eventType, "rate_limited", time.Since(eventStart).Seconds())
	return true
}

// acknowledgeReceipt marks the conversation seen and shows a typing
// indicator. Both are best effort.
func (h *Handler) acknowledgeReceipt(ctx context.Context, recipientID string, log *logger.Logger) {
	if err := h.client.SendAction(ctx, recipientID, messenger.ActionMarkSeen); err != nil {
		log.WithError(err).Warn("Failed to send mark_seen")
	}
	if err := h.client.SendAction(ctx, recipientID, messenger.ActionTypingOn); err != nil {
		log.WithError(err).Warn("Failed to send typing_on")
	}
}

// Shutdown waits for all async event processing to complete. It returns an
// error if the context is canceled before completion.
func (h *Handler) Shutdown(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		defer close(done)
		h.wg.Wait()
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
