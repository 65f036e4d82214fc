// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package webhook

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"
)

// Delivery configuration constants
const (
	MaxAttempts    = 5                // Maximum number of delivery attempts
	InitialBackoff = 5 * time.Second  // Initial backoff delay
	MaxBackoff     = 5 * time.Minute  // Maximum backoff delay
	RequestTimeout = 30 * time.Second // HTTP request timeout
	MaxResponseLen = 10 * 1024        // Maximum response body kept for logging (10KB)
	UserAgent      = "contentdesk/1.0"
)

// DeliveryResult represents the result of a delivery attempt.
type DeliveryResult struct {
	Success      bool
	StatusCode   int
	ResponseBody string
	Error        error
	ShouldRetry  bool
}

// httpClient is the shared HTTP client with appropriate timeouts.
var httpClient = &http.Client{
	Timeout: RequestTimeout,
	Transport: &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	},
}

// processDelivery attempts one delivery and schedules a retry when the
// failure is transient.
func (d *Dispatcher) processDelivery(ctx context.Context, delivery *QueuedDelivery) {
	result := d.attemptDelivery(ctx, delivery)
	delivery.Attempts++

	if result.Success {
		d.logger.Info("webhook delivered successfully",
			"delivery_id", delivery.ID,
			"url", delivery.Target.URL,
			"status_code", result.StatusCode,
			"attempts", delivery.Attempts)
		return
	}

	errMsg := ""
	if result.Error != nil {
		errMsg = result.Error.Error()
	}

	if !result.ShouldRetry || delivery.Attempts >= d.maxAttempts {
		d.logger.Warn("webhook delivery abandoned",
			"delivery_id", delivery.ID,
			"url", delivery.Target.URL,
			"attempts", delivery.Attempts,
			"status_code", result.StatusCode,
			"reason", errMsg)
		return
	}

	backoff := calculateBackoff(d.initialBackoff, d.maxBackoff, delivery.Attempts)
	d.logger.Info("webhook delivery scheduled for retry",
		"delivery_id", delivery.ID,
		"url", delivery.Target.URL,
		"attempt", delivery.Attempts,
		"backoff", backoff.String(),
		"reason", errMsg)
	time.AfterFunc(backoff, func() { d.enqueue(delivery) })
}

// attemptDelivery performs the actual HTTP POST request.
func (d *Dispatcher) attemptDelivery(ctx context.Context, delivery *QueuedDelivery) DeliveryResult {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, delivery.Target.URL, bytes.NewReader(delivery.Payload))
	if err != nil {
		return DeliveryResult{
			Error:       fmt.Errorf("failed to create request: %w", err),
			ShouldRetry: false, // Bad URL, don't retry
		}
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", UserAgent)
	if delivery.Target.Secret != "" {
		req.Header.Set("X-Webhook-Signature", GenerateSignature(delivery.Payload, delivery.Target.Secret))
	}
	req.Header.Set("X-Webhook-Event", delivery.Event)
	req.Header.Set("X-Webhook-Delivery-ID", delivery.ID)

	for key, value := range delivery.Target.Headers {
		req.Header.Set(key, value)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return DeliveryResult{
			Error:       fmt.Errorf("request failed: %w", err),
			ShouldRetry: !errors.Is(err, context.Canceled),
		}
	}
	defer func() { _ = resp.Body.Close() }()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, MaxResponseLen))
	responseBody := string(body)

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return DeliveryResult{
			Success:      true,
			StatusCode:   resp.StatusCode,
			ResponseBody: responseBody,
		}
	}

	httpErr := fmt.Errorf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		// Client error - don't retry (except for 408 Request Timeout and 429 Too Many Requests)
		return DeliveryResult{
			StatusCode:   resp.StatusCode,
			ResponseBody: responseBody,
			Error:        httpErr,
			ShouldRetry:  resp.StatusCode == http.StatusRequestTimeout || resp.StatusCode == http.StatusTooManyRequests,
		}
	}

	// Server error (5xx) - retry
	return DeliveryResult{
		StatusCode:   resp.StatusCode,
		ResponseBody: responseBody,
		Error:        httpErr,
		ShouldRetry:  true,
	}
}

// calculateBackoff returns initial * 2^(attempt-1), capped at max.
func calculateBackoff(initial, max time.Duration, attempt int) time.Duration {
	if attempt <= 0 {
		attempt = 1
	}

	backoff := time.Duration(float64(initial) * math.Pow(2, float64(attempt-1)))
	if backoff > max || backoff <= 0 {
		backoff = max
	}
	return backoff
}
