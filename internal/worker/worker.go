package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"pulse-server/services/advisor-api/internal/domain/interaction"
	"pulse-server/services/advisor-api/internal/infrastructure/metrics"
)

// Writer drains interaction logs from the shared queue into the repository.
type Writer struct {
	id           int
	logs         interaction.Repository
	writeTimeout time.Duration
	log          zerolog.Logger
}

// NewWriter creates a new log writer.
func NewWriter(id int, logs interaction.Repository, writeTimeout time.Duration, log zerolog.Logger) *Writer {
	return &Writer{
		id:           id,
		logs:         logs,
		writeTimeout: writeTimeout,
		log:          log.With().Int("writer_id", id).Str("component", "log-writer").Logger(),
	}
}

// Run consumes logs until the queue is closed. Pending entries are still
// written after the context is cancelled so a shutdown does not lose logs
// already accepted.
func (w *Writer) Run(ctx context.Context, tasks <-chan *interaction.Log) {
	w.log.Info().Msg("log writer started")

	for entry := range tasks {
		metrics.LogQueueDepth.Set(float64(len(tasks)))
		w.persist(ctx, entry)
	}

	w.log.Info().Msg("log writer stopped")
}

func (w *Writer) persist(ctx context.Context, entry *interaction.Log) {
	// Use a detached timeout so cancellation of the request context does
	// not abort a write already in flight.
	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), w.writeTimeout)
	defer cancel()

	if err := w.logs.Create(writeCtx, entry); err != nil {
		w.log.Error().Err(err).Str("public_id", entry.PublicID).Msg("failed to persist interaction log")
		return
	}

	w.log.Debug().Str("public_id", entry.PublicID).Msg("interaction log persisted")
}
