// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package webhook

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Target is one receiver of webhook deliveries.
type Target struct {
	URL     string
	Secret  string
	Headers map[string]string
}

// Dispatcher handles webhook event dispatching and queuing.
type Dispatcher struct {
	targets []Target
	logger  *slog.Logger
	client  *http.Client
	queue   chan *QueuedDelivery
	workers int

	maxAttempts    int
	initialBackoff time.Duration
	maxBackoff     time.Duration

	wg      sync.WaitGroup
	done    chan struct{}
	mu      sync.RWMutex
	running bool
}

// QueuedDelivery represents a delivery queued for processing.
type QueuedDelivery struct {
	ID       string
	Event    string
	Payload  []byte
	Target   Target
	Attempts int
}

// Config holds dispatcher configuration.
type Config struct {
	Workers        int           // Number of concurrent delivery workers
	QueueSize      int           // Deliveries buffered before new ones are dropped
	MaxAttempts    int           // Attempts before a delivery is abandoned
	InitialBackoff time.Duration // Delay before the first retry, doubled per attempt
	MaxBackoff     time.Duration
	Client         *http.Client // Defaults to a client with RequestTimeout
}

// DefaultConfig returns default dispatcher configuration.
func DefaultConfig() Config {
	return Config{
		Workers:        3,
		QueueSize:      100,
		MaxAttempts:    MaxAttempts,
		InitialBackoff: InitialBackoff,
		MaxBackoff:     MaxBackoff,
	}
}

// NewDispatcher creates a new webhook dispatcher for targets.
func NewDispatcher(targets []Target, logger *slog.Logger, cfg Config) *Dispatcher {
	def := DefaultConfig()
	if cfg.Workers <= 0 {
		cfg.Workers = def.Workers
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = def.QueueSize
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = def.MaxAttempts
	}
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = def.InitialBackoff
	}
	if cfg.MaxBackoff <= 0 {
		cfg.MaxBackoff = def.MaxBackoff
	}
	if cfg.Client == nil {
		cfg.Client = httpClient
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Dispatcher{
		targets:        targets,
		logger:         logger,
		client:         cfg.Client,
		queue:          make(chan *QueuedDelivery, cfg.QueueSize),
		workers:        cfg.Workers,
		maxAttempts:    cfg.MaxAttempts,
		initialBackoff: cfg.InitialBackoff,
		maxBackoff:     cfg.MaxBackoff,
		done:           make(chan struct{}),
	}
}

// Start starts the dispatcher workers.
func (d *Dispatcher) Start(ctx context.Context) {
	d.mu.Lock()
	if d.running {
		d.mu.Unlock()
		return
	}
	d.running = true
	d.mu.Unlock()

	d.logger.Info("starting webhook dispatcher", "workers", d.workers, "targets", len(d.targets))

	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.worker(ctx, i)
	}
}

// Stop stops the dispatcher and waits for workers to finish. Pending
// retries are abandoned.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if !d.running {
		d.mu.Unlock()
		return
	}
	d.running = false
	d.mu.Unlock()

	d.logger.Info("stopping webhook dispatcher")
	close(d.done)
	d.wg.Wait()
	d.logger.Info("webhook dispatcher stopped")
}

// worker processes queued deliveries.
func (d *Dispatcher) worker(ctx context.Context, id int) {
	defer d.wg.Done()
	d.logger.Debug("webhook worker started", "worker_id", id)

	for {
		select {
		case <-d.done:
			d.logger.Debug("webhook worker stopping", "worker_id", id)
			return
		case <-ctx.Done():
			d.logger.Debug("webhook worker context cancelled", "worker_id", id)
			return
		case delivery := <-d.queue:
			d.processDelivery(ctx, delivery)
		}
	}
}

// Dispatch queues one delivery of event per target.
func (d *Dispatcher) Dispatch(_ context.Context, event *Event) error {
	if !d.isRunning() {
		d.logger.Warn("dispatcher not running, cannot dispatch event", "event_type", event.Type)
		return nil
	}
	if len(d.targets) == 0 {
		return nil
	}

	payload, err := json.Marshal(event)
	if err != nil {
		d.logger.Error("failed to marshal event payload", "error", err, "event_type", event.Type)
		return err
	}

	for _, target := range d.targets {
		d.enqueue(&QueuedDelivery{
			ID:      uuid.NewString(),
			Event:   event.Type,
			Payload: payload,
			Target:  target,
		})
	}
	return nil
}

// DispatchEvent is a convenience method to dispatch an event with the given type and data.
func (d *Dispatcher) DispatchEvent(ctx context.Context, eventType string, data any) error {
	return d.Dispatch(ctx, NewEvent(eventType, data))
}

func (d *Dispatcher) enqueue(qd *QueuedDelivery) {
	if !d.isRunning() {
		return
	}
	select {
	case d.queue <- qd:
		d.logger.Debug("delivery queued", "delivery_id", qd.ID, "url", qd.Target.URL)
	default:
		d.logger.Warn("delivery queue full, dropping delivery", "delivery_id", qd.ID, "event", qd.Event)
	}
}

func (d *Dispatcher) isRunning() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.running
}

// GenerateSignature generates an HMAC-SHA256 signature for the payload.
func GenerateSignature(payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature verifies an HMAC-SHA256 signature.
func VerifySignature(payload []byte, signature, secret string) bool {
	expectedSig := GenerateSignature(payload, secret)
	return hmac.Equal([]byte(signature), []byte(expectedSig))
}
