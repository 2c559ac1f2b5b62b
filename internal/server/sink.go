package server

import (
	"context"
	"log/slog"
	"time"
)

// Sink records emitted results off the request path. Results are persisted
// first, then forwarded to the outbox when one is configured.
type Sink struct {
	logger  *slog.Logger
	results ResultStore
	outbox  Outbox
	queue   chan ResultRecord
}

func NewSink(logger *slog.Logger, results ResultStore, outbox Outbox) *Sink {
	return &Sink{
		logger:  logger,
		results: results,
		outbox:  outbox,
		queue:   make(chan ResultRecord, 256),
	}
}

// Emit queues rec. It never blocks; a full queue drops the record.
func (s *Sink) Emit(rec ResultRecord) {
	if rec.ID == "" {
		rec.ID = newID()
	}
	if rec.CreatedAt == "" {
		rec.CreatedAt = nowUTC()
	}
	select {
	case s.queue <- rec:
	default:
		s.logger.Error("result queue full, dropping result", "play_id", rec.PlayID, "result_id", rec.ID)
	}
}

// Run drains the queue until ctx is cancelled, then flushes what is left.
// Writes already dequeued are not cut short by the cancellation.
func (s *Sink) Run(ctx context.Context) error {
	wctx := context.WithoutCancel(ctx)
	for {
		select {
		case rec := <-s.queue:
			s.record(wctx, rec)
		case <-ctx.Done():
			s.drain()
			return nil
		}
	}
}

func (s *Sink) drain() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for {
		select {
		case rec := <-s.queue:
			s.record(ctx, rec)
		default:
			return
		}
	}
}

func (s *Sink) record(ctx context.Context, rec ResultRecord) {
	if err := s.results.SaveResult(ctx, rec); err != nil {
		s.logger.Error("saving result", "play_id", rec.PlayID, "error", err)
		return
	}
	s.logger.Info("result recorded",
		"play_id", rec.PlayID,
		"game_type", rec.GameType,
		"mode", rec.Mode,
		"success", rec.Result.Success,
		"earned", rec.Result.Earned(),
	)
	if s.outbox == nil {
		return
	}
	if err := s.outbox.Publish(ctx, rec); err != nil {
		s.logger.Error("publishing result", "play_id", rec.PlayID, "error", err)
	}
}
