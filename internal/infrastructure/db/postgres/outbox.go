package postgres

import (
	"context"
	"database/sql"
	"math"
	"math/rand"
	"time"

	"github.com/baechuer/trip-service/internal/application/trip"
	zlog "github.com/rs/zerolog/log"
)

const insertOutboxSQL = `
INSERT INTO trip_outbox (
  message_id, routing_key, body, created_at, status, next_retry_at
) VALUES ($1, $2, $3::jsonb, $4, 'pending', $4)
`

// InsertOutbox stores the message in the caller's transaction. The body goes
// in as text cast to jsonb because lib/pq has no native jsonb binding.
func (r *txRepo) InsertOutbox(ctx context.Context, msg trip.OutboxMessage) error {
	_, err := r.tx.ExecContext(ctx, insertOutboxSQL,
		msg.MessageID,
		msg.RoutingKey,
		string(msg.Body),
		msg.CreatedAt.UTC(),
	)
	return err
}

type outboxRow struct {
	ID         int64
	MessageID  string
	RoutingKey string
	Body       []byte
	Attempts   int
}

const selectOutboxClaimsSQL = `
SELECT id, message_id, routing_key, body, attempts
FROM trip_outbox
WHERE status = 'pending'
  AND (next_retry_at IS NULL OR next_retry_at <= NOW())
ORDER BY next_retry_at ASC, created_at ASC
LIMIT $1
FOR UPDATE SKIP LOCKED
`

const claimOutboxSQL = `
UPDATE trip_outbox
SET status = 'processing',
    next_retry_at = $2
WHERE id = $1
`

const markOutboxSentSQL = `
UPDATE trip_outbox
SET status = 'sent',
    sent_at = $2,
    last_error = NULL
WHERE id = $1
`

const markOutboxRetrySQL = `
UPDATE trip_outbox
SET status = 'pending',
    attempts = attempts + 1,
    next_retry_at = $2,
    last_error = $3
WHERE id = $1
`

const markOutboxDeadSQL = `
UPDATE trip_outbox
SET status = 'dead',
    attempts = attempts + 1,
    last_error = $2
WHERE id = $1
`

// Rows stuck in 'processing' (worker died mid-batch) become pending again once
// their reservation expires.
const releaseStaleClaimsSQL = `
UPDATE trip_outbox
SET status = 'pending'
WHERE status = 'processing'
  AND next_retry_at <= NOW()
`

const (
	maxOutboxAttempts = 10
	claimReservation  = 30 * time.Second
	maxRetryDelay     = 10 * time.Minute
)

// StartOutboxWorker polls trip_outbox and ships due rows through pub until ctx
// is cancelled. Several instances may run; SKIP LOCKED keeps claims disjoint.
// The returned channel is closed once the worker has stopped.
func (r *Repo) StartOutboxWorker(ctx context.Context, pub trip.EventPublisher, interval time.Duration, batch int) <-chan struct{} {
	if interval <= 0 {
		interval = 500 * time.Millisecond
	}
	done := make(chan struct{})
	go func() {
		defer close(done)

		// Jitter so instances started together do not poll in lockstep.
		jitter := time.NewTimer(time.Duration(rand.Intn(1000)) * time.Millisecond)
		select {
		case <-ctx.Done():
			jitter.Stop()
			return
		case <-jitter.C:
		}

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				n, err := r.processOutboxBatch(ctx, pub, batch)
				if err != nil && ctx.Err() == nil {
					zlog.Error().Err(err).Msg("outbox batch failed")
					continue
				}
				if n > 0 {
					zlog.Debug().Int("count", n).Msg("outbox batch processed")
				}
			}
		}
	}()
	return done
}

// processOutboxBatch claims up to limit rows in a short transaction, then
// publishes each one outside of it and records the outcome.
func (r *Repo) processOutboxBatch(ctx context.Context, pub trip.EventPublisher, limit int) (int, error) {
	if limit <= 0 {
		limit = 20
	}

	batch, err := r.claimOutbox(ctx, limit)
	if err != nil || len(batch) == 0 {
		return 0, err
	}
	for _, item := range batch {
		r.deliver(ctx, pub, item)
	}
	return len(batch), nil
}

func (r *Repo) claimOutbox(ctx context.Context, limit int) ([]outboxRow, error) {
	claimCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.db.ExecContext(claimCtx, releaseStaleClaimsSQL); err != nil {
		return nil, err
	}

	tx, err := r.db.BeginTx(claimCtx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	rows, err := tx.QueryContext(claimCtx, selectOutboxClaimsSQL, limit)
	if err != nil {
		return nil, err
	}
	var batch []outboxRow
	for rows.Next() {
		var item outboxRow
		if err := rows.Scan(&item.ID, &item.MessageID, &item.RoutingKey, &item.Body, &item.Attempts); err != nil {
			rows.Close()
			return nil, err
		}
		batch = append(batch, item)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(batch) == 0 {
		return nil, tx.Commit()
	}

	reservedUntil := time.Now().UTC().Add(claimReservation)
	for _, item := range batch {
		if _, err := tx.ExecContext(claimCtx, claimOutboxSQL, item.ID, reservedUntil); err != nil {
			return nil, err
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return batch, nil
}

func (r *Repo) deliver(ctx context.Context, pub trip.EventPublisher, item outboxRow) {
	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	err := pub.PublishEvent(pubCtx, item.RoutingKey, item.MessageID, item.Body)
	cancel()

	resCtx, cancelRes := context.WithTimeout(ctx, 3*time.Second)
	defer cancelRes()

	log := zlog.With().Str("message_id", item.MessageID).Str("routing_key", item.RoutingKey).Logger()

	if err == nil {
		if _, dbErr := r.db.ExecContext(resCtx, markOutboxSentSQL, item.ID, time.Now().UTC()); dbErr != nil {
			log.Error().Err(dbErr).Msg("outbox mark sent failed")
		}
		return
	}

	if item.Attempts+1 >= maxOutboxAttempts {
		log.Error().Err(err).Int("attempts", item.Attempts+1).Msg("outbox message dead-lettered")
		if _, dbErr := r.db.ExecContext(resCtx, markOutboxDeadSQL, item.ID, err.Error()); dbErr != nil {
			log.Error().Err(dbErr).Msg("outbox mark dead failed")
		}
		return
	}

	next := time.Now().UTC().Add(retryDelay(item.Attempts) + time.Duration(rand.Intn(1000))*time.Millisecond)
	log.Warn().Err(err).Int("attempts", item.Attempts+1).Time("next_retry_at", next).Msg("outbox publish failed")
	if _, dbErr := r.db.ExecContext(resCtx, markOutboxRetrySQL, item.ID, next, err.Error()); dbErr != nil {
		log.Error().Err(dbErr).Msg("outbox mark retry failed")
	}
}

// retryDelay is 2^attempts seconds, capped.
func retryDelay(attempts int) time.Duration {
	d := time.Duration(math.Pow(2, float64(attempts))) * time.Second
	if d > maxRetryDelay || d <= 0 {
		return maxRetryDelay
	}
	return d
}
