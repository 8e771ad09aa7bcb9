package worker_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"pulse-server/services/advisor-api/internal/domain/interaction"
	"pulse-server/services/advisor-api/internal/worker"
)

type recordingRepository struct {
	mu      sync.Mutex
	created []*interaction.Log
}

func (r *recordingRepository) Create(_ context.Context, log *interaction.Log) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.created = append(r.created, log)
	return nil
}

func (r *recordingRepository) FindByPublicID(context.Context, string) (*interaction.Log, error) {
	return nil, nil
}

func (r *recordingRepository) AttachFeedback(context.Context, string, interaction.Feedback) error {
	return nil
}

func (r *recordingRepository) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.created)
}

func TestPool_SubmitAndDrain(t *testing.T) {
	repo := &recordingRepository{}
	pool := worker.NewPool(repo, worker.Config{
		WriterCount:  2,
		QueueSize:    8,
		WriteTimeout: time.Second,
	}, zerolog.Nop())

	if err := pool.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	for i := 0; i < 5; i++ {
		pool.Submit(&interaction.Log{PublicID: "log_" + string(rune('a'+i))})
	}

	// Stop closes the queue and waits for the writers to drain it.
	pool.Stop()

	if got := repo.count(); got != 5 {
		t.Errorf("persisted %d logs, want 5", got)
	}
}

func TestPool_FullQueueDropsInsteadOfBlocking(t *testing.T) {
	repo := &recordingRepository{}
	pool := worker.NewPool(repo, worker.Config{
		WriterCount:  1,
		QueueSize:    1,
		WriteTimeout: time.Second,
	}, zerolog.Nop())

	// Not started: nothing consumes, so the second submit must drop rather
	// than block the caller.
	done := make(chan struct{})
	go func() {
		pool.Submit(&interaction.Log{PublicID: "log_1"})
		pool.Submit(&interaction.Log{PublicID: "log_2"})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Submit blocked on a full queue")
	}
}
