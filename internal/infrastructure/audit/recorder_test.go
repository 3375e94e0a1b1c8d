package audit

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/visioncare/clinic-system/internal/core/domain"
)

type stubAuditRepo struct {
	mu       sync.Mutex
	inserted []domain.AuditEvent
	err      error
}

func (r *stubAuditRepo) Insert(_ context.Context, event *domain.AuditEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.inserted = append(r.inserted, *event)
	return nil
}

func (r *stubAuditRepo) all() []domain.AuditEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.AuditEvent, len(r.inserted))
	copy(out, r.inserted)
	return out
}

func event(i int) domain.AuditEvent {
	return domain.AuditEvent{
		ID:         fmt.Sprintf("ev_%d", i),
		Timestamp:  time.Now().UTC(),
		ActorEmail: "ana@x.com",
		Action:     domain.ActionLogin,
		Module:     domain.AuditModuleAuth,
		Success:    true,
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met within deadline")
}

func TestRecorder_PersistsEvents(t *testing.T) {
	repo := &stubAuditRepo{}
	r := NewRecorder(repo, 8, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	r.Start(ctx)

	r.Record(event(1))
	r.Record(event(2))
	waitFor(t, func() bool { return len(repo.all()) == 2 })

	cancel()
	r.Close()
}

func TestRecorder_DropOldestWhenFull(t *testing.T) {
	repo := &stubAuditRepo{}
	// No worker running: the queue fills up and eviction kicks in.
	r := NewRecorder(repo, 2, zerolog.Nop())

	r.Record(event(1))
	r.Record(event(2))
	r.Record(event(3)) // evicts ev_1

	ctx, cancel := context.WithCancel(context.Background())
	r.Start(ctx)
	waitFor(t, func() bool { return len(repo.all()) == 2 })
	cancel()
	r.Close()

	got := repo.all()
	if got[0].ID != "ev_2" || got[1].ID != "ev_3" {
		t.Fatalf("expected oldest event evicted, got %q then %q", got[0].ID, got[1].ID)
	}
}

func TestRecorder_RecordNeverBlocksOrFails(t *testing.T) {
	repo := &stubAuditRepo{err: errors.New("mongo down")}
	r := NewRecorder(repo, 2, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	r.Start(ctx)

	// Persistence is failing throughout; Record must still return promptly
	// for every call.
	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			r.Record(event(i))
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("Record blocked under persistence failure")
	}

	cancel()
	r.Close()
	if len(repo.all()) != 0 {
		t.Fatalf("no event should persist when the repository fails")
	}
}

func TestRecorder_DrainsOnShutdown(t *testing.T) {
	repo := &stubAuditRepo{}
	r := NewRecorder(repo, 16, zerolog.Nop())

	// Queue events before the worker ever runs, then start and stop at
	// once: the drain pass must flush them.
	for i := 0; i < 5; i++ {
		r.Record(event(i))
	}

	ctx, cancel := context.WithCancel(context.Background())
	r.Start(ctx)
	cancel()
	r.Close()

	if got := len(repo.all()); got != 5 {
		t.Fatalf("expected 5 drained events, got %d", got)
	}
}
