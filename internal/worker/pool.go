package worker

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"pulse-server/services/advisor-api/internal/domain/interaction"
	"pulse-server/services/advisor-api/internal/infrastructure/metrics"
)

// Pool persists interaction logs off the request path. The orchestrator
// submits completed logs and the pool's writers drain them into the
// repository.
type Pool struct {
	workers []*Writer
	tasks   chan *interaction.Log
	logs    interaction.Repository
	log     zerolog.Logger
	wg      sync.WaitGroup

	closeOnce sync.Once
}

// Config contains log writer pool configuration.
type Config struct {
	WriterCount  int
	QueueSize    int
	WriteTimeout time.Duration
}

// NewPool creates a new log writer pool.
func NewPool(logs interaction.Repository, cfg Config, log zerolog.Logger) *Pool {
	return &Pool{
		tasks: make(chan *interaction.Log, cfg.QueueSize),
		logs:  logs,
		log:   log.With().Str("component", "log-writer-pool").Logger(),
		workers: func() []*Writer {
			workers := make([]*Writer, cfg.WriterCount)
			for i := range workers {
				workers[i] = NewWriter(i+1, logs, cfg.WriteTimeout, log)
			}
			return workers
		}(),
	}
}

// Start launches all writers.
func (p *Pool) Start(ctx context.Context) error {
	p.log.Info().Int("writer_count", len(p.workers)).Msg("starting log writer pool")

	for _, writer := range p.workers {
		p.wg.Add(1)
		go func(w *Writer) {
			defer p.wg.Done()
			w.Run(ctx, p.tasks)
		}(writer)
	}

	return nil
}

// Submit enqueues one interaction log for persistence. When the queue is
// full the log is dropped rather than blocking the caller; the advisory
// response has already been delivered by then.
func (p *Pool) Submit(entry *interaction.Log) {
	select {
	case p.tasks <- entry:
		metrics.LogQueueDepth.Set(float64(len(p.tasks)))
	default:
		p.log.Warn().Str("public_id", entry.PublicID).Msg("log queue full, dropping interaction log")
	}
}

// Stop closes the queue and waits for writers to drain it.
func (p *Pool) Stop() {
	p.log.Info().Msg("stopping log writer pool")

	p.closeOnce.Do(func() {
		close(p.tasks)
	})

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.log.Info().Msg("all log writers stopped gracefully")
	case <-time.After(30 * time.Second):
		p.log.Warn().Msg("log writer pool shutdown timed out")
	}
}
