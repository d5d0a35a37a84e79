package email

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/giftcircle/backend/internal/application/adapter"
	"github.com/giftcircle/backend/internal/domain/entity"
	domainerror "github.com/giftcircle/backend/internal/domain/error"
	"github.com/giftcircle/backend/internal/integration/email/templates"
)

// DeliveryRecorder observes delivery outcomes.
type DeliveryRecorder interface {
	EmailSent(template, status string)
}

// WorkerConfig holds configuration for the email worker.
type WorkerConfig struct {
	PollInterval time.Duration
	BatchSize    int
	// Lease is how long a claimed email stays hidden from other pollers.
	Lease time.Duration
	// Retention is how long delivered emails are kept before purging.
	Retention time.Duration
}

func (c WorkerConfig) withDefaults() WorkerConfig {
	if c.PollInterval <= 0 {
		c.PollInterval = 5 * time.Second
	}
	if c.BatchSize <= 0 {
		c.BatchSize = 10
	}
	if c.Lease <= 0 {
		c.Lease = 2 * time.Minute
	}
	if c.Retention <= 0 {
		c.Retention = 7 * 24 * time.Hour
	}
	return c
}

// Worker drains the email outbox.
type Worker struct {
	outbox   adapter.EmailOutbox
	sender   adapter.EmailSender
	renderer *templates.Renderer
	recorder DeliveryRecorder
	cfg      WorkerConfig
	now      func() time.Time

	lastPurge time.Time
}

// NewWorker creates a new email worker. recorder may be nil.
func NewWorker(outbox adapter.EmailOutbox, sender adapter.EmailSender, renderer *templates.Renderer, recorder DeliveryRecorder, cfg WorkerConfig) *Worker {
	return &Worker{
		outbox:   outbox,
		sender:   sender,
		renderer: renderer,
		recorder: recorder,
		cfg:      cfg.withDefaults(),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Start polls until ctx is cancelled.
func (w *Worker) Start(ctx context.Context) {
	slog.Info("Email worker started",
		"poll_interval", w.cfg.PollInterval,
		"batch_size", w.cfg.BatchSize,
	)

	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	for {
		w.ProcessNow(ctx)

		select {
		case <-ctx.Done():
			slog.Info("Email worker shutting down")
			return
		case <-ticker.C:
		}
	}
}

// ProcessNow drains one batch, then purges old deliveries at most once a day.
func (w *Worker) ProcessNow(ctx context.Context) {
	now := w.now()
	batch, err := w.outbox.ClaimDue(ctx, now, w.cfg.Lease, w.cfg.BatchSize)
	if err != nil {
		slog.Error("Failed to claim outbound emails", "error", err)
	}

	for _, msg := range batch {
		if ctx.Err() != nil {
			return
		}
		w.deliver(ctx, msg)
	}

	if now.Sub(w.lastPurge) >= 24*time.Hour {
		w.lastPurge = now
		n, err := w.outbox.PurgeDelivered(ctx, now.Add(-w.cfg.Retention))
		if err != nil {
			slog.Warn("Failed to purge delivered emails", "error", err)
		} else if n > 0 {
			slog.Info("Purged delivered emails", "count", n)
		}
	}
}

func (w *Worker) deliver(ctx context.Context, msg *entity.OutboundEmail) {
	logger := slog.With(
		"email_id", msg.ID,
		"template", msg.Template,
		"attempt", msg.Attempts+1,
	)

	body, err := w.render(msg)
	if err != nil {
		w.settle(ctx, logger, msg, domainerror.NewDeliveryError(string(msg.Template), true, err))
		return
	}

	providerID, err := w.sender.Send(ctx, adapter.RenderedEmail{
		To:      msg.To,
		ToName:  msg.ToName,
		Subject: msg.Subject,
		HTML:    body.HTML,
		Text:    body.Text,
	})
	if err != nil {
		w.settle(ctx, logger, msg, err)
		return
	}

	msg.Delivered(providerID, w.now())
	w.settle(ctx, logger, msg, nil)
}

func (w *Worker) render(msg *entity.OutboundEmail) (templates.Body, error) {
	data, ok := templates.Decode(string(msg.Template), msg.Data)
	if !ok {
		return templates.Body{}, domainerror.ErrUnknownTemplate
	}
	return w.renderer.Render(string(msg.Template), data)
}

// settle records the outcome of one attempt. sendErr is nil on success.
func (w *Worker) settle(ctx context.Context, logger *slog.Logger, msg *entity.OutboundEmail, sendErr error) {
	if sendErr != nil {
		msg.Failed(sendErr, domainerror.IsPermanentDelivery(sendErr) || errors.Is(sendErr, domainerror.ErrEmailRejected), w.now())
	}
	if w.recorder != nil {
		w.recorder.EmailSent(string(msg.Template), string(msg.State))
	}

	if err := w.outbox.Settle(ctx, msg); err != nil {
		logger.Error("Failed to store delivery outcome", "state", msg.State, "error", err)
		return
	}

	switch msg.State {
	case entity.OutboxDelivered:
		logger.Info("Email delivered", "provider_id", msg.ProviderID)
	case entity.OutboxDead:
		logger.Warn("Email abandoned", "error", msg.LastError)
	default:
		logger.Info("Email will be retried", "error", msg.LastError, "not_before", msg.NotBefore)
	}
}
