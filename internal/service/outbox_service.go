package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"Club_Hub/internal/model"
	"Club_Hub/internal/pkg"
	"Club_Hub/internal/repository/mysql"

	"go.uber.org/zap"
)

// Sender delivers one outbox record downstream.
type Sender func(ctx context.Context, ob *model.ClubOutbox) error

// Sink is a named Sender. The name is stored on the record once the sink
// accepts it, so a retry only goes to the sinks that failed.
type Sink struct {
	Name string
	Send Sender
}

// OutboxRelayer drains club_outbox and hands every record to its sinks.
type OutboxRelayer struct {
	repo      mysql.OutboxStore
	batchSize int
	interval  time.Duration
	sinks     []Sink
	metrics   *pkg.Metrics
	log       *zap.Logger
}

func NewOutboxRelayer(repo mysql.OutboxStore, sinks []Sink, batchSize int, interval time.Duration, metrics *pkg.Metrics, log *zap.Logger) *OutboxRelayer {
	if batchSize <= 0 {
		batchSize = 200
	}
	if interval <= 0 {
		interval = time.Second
	}
	return &OutboxRelayer{
		repo:      repo,
		batchSize: batchSize,
		interval:  interval,
		sinks:     sinks,
		metrics:   metrics,
		log:       log,
	}
}

// Run blocks until ctx is cancelled.
func (r *OutboxRelayer) Run(ctx context.Context) {
	t := time.NewTicker(r.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			r.drainOnce(ctx)
		}
	}
}

// drainOnce returns the number of records delivered to every sink.
func (r *OutboxRelayer) drainOnce(ctx context.Context) int {
	rows, err := r.repo.List(ctx, r.batchSize)
	if err != nil {
		r.log.Error("outbox query failed", zap.Error(err))
		return 0
	}
	sent := 0
	for i := range rows {
		ob := rows[i]
		if err := r.deliver(ctx, &ob); err != nil {
			r.log.Warn("outbox send failed",
				zap.Uint64("outbox_id", ob.ID),
				zap.String("event_type", ob.EventType),
				zap.Int("retry", ob.Retry),
				zap.String("delivered", ob.Delivered),
				zap.Error(err))
			r.count("failed")
			if err := r.repo.RetryUpdate(ctx, ob.ID, ob.Delivered); err != nil {
				r.log.Error("outbox retry update failed", zap.Uint64("outbox_id", ob.ID), zap.Error(err))
			}
			continue
		}
		r.count("sent")
		sent++
		if err := r.repo.SuccessUpdate(ctx, ob.ID); err != nil {
			r.log.Error("outbox success update failed", zap.Uint64("outbox_id", ob.ID), zap.Error(err))
		}
	}
	return sent
}

// deliver sends ob to every sink that has not taken it yet and records the
// ones that succeed on ob.Delivered.
func (r *OutboxRelayer) deliver(ctx context.Context, ob *model.ClubOutbox) error {
	var errs []error
	for _, sink := range r.sinks {
		if ob.DeliveredTo(sink.Name) {
			continue
		}
		if err := sink.Send(ctx, ob); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", sink.Name, err))
			continue
		}
		ob.MarkDelivered(sink.Name)
	}
	return errors.Join(errs...)
}

func (r *OutboxRelayer) count(outcome string) {
	if r.metrics != nil {
		r.metrics.OutboxMessages.WithLabelValues(outcome).Inc()
	}
}

// MessagePublisher is satisfied by *pkg.KafkaProducer.
type MessagePublisher interface {
	Send(ctx context.Context, key string, value []byte, headers map[string]string) error
}

// KafkaSender publishes records keyed by club id so one club's events stay
// ordered within a partition.
func KafkaSender(p MessagePublisher) Sender {
	return func(ctx context.Context, ob *model.ClubOutbox) error {
		return p.Send(ctx, pkg.MakeKeyFromID(ob.ClubID), []byte(ob.Payload), map[string]string{
			"event_type": ob.EventType,
			"outbox_id":  pkg.MakeKeyFromID(ob.ID),
		})
	}
}

// LogSender is used when no broker is configured.
func LogSender(log *zap.Logger) Sender {
	return func(_ context.Context, ob *model.ClubOutbox) error {
		log.Info("outbox event",
			zap.String("event_type", ob.EventType),
			zap.Uint64("club_id", ob.ClubID),
			zap.Uint64("user_id", ob.UserID),
			zap.String("payload", ob.Payload))
		return nil
	}
}

// BccMailer is satisfied by *pkg.Mailer.
type BccMailer interface {
	SendBcc(to []string, subject, htmlBody string) error
}

// AnnouncementMailer notifies club members of new announcements.
type AnnouncementMailer struct {
	clubs  mysql.ClubStore
	mailer BccMailer
}

func NewAnnouncementMailer(clubs mysql.ClubStore, mailer BccMailer) *AnnouncementMailer {
	return &AnnouncementMailer{clubs: clubs, mailer: mailer}
}

func (m *AnnouncementMailer) Send(ctx context.Context, ob *model.ClubOutbox) error {
	if ob.EventType != model.OutboxAnnouncementPosted {
		return nil
	}
	var payload model.OutboxPayload
	if err := json.Unmarshal([]byte(ob.Payload), &payload); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}

	club, err := m.clubs.FindByID(ctx, ob.ClubID)
	if errors.Is(err, mysql.ErrNotFound) {
		// club deleted since the announcement was posted
		return nil
	}
	if err != nil {
		return err
	}
	emails, err := m.clubs.MemberEmails(ctx, ob.ClubID)
	if err != nil {
		return err
	}
	if len(emails) == 0 {
		return nil
	}
	subject := fmt.Sprintf("[%s] %s", club.Name, payload.Title)
	return m.mailer.SendBcc(emails, subject, pkg.AnnouncementHTML(club.Name, payload.Title))
}
