package config

import "time"

// HTTP server timeouts.
//
// Facebook retries a webhook delivery when the 200 acknowledgment takes more
// than ~20 seconds, so the write timeout stays well under that. Event
// processing itself is asynchronous and never holds the response open.
const (
	// WebhookHTTPRead bounds reading a webhook callback body.
	WebhookHTTPRead = 10 * time.Second

	// WebhookHTTPWrite bounds writing the acknowledgment.
	WebhookHTTPWrite = 15 * time.Second

	// WebhookHTTPIdle is the keep-alive idle timeout.
	WebhookHTTPIdle = 120 * time.Second
)
