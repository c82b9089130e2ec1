package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/csemotors/dealership/internal/core/domain"
)

type recordingService struct {
	mu     sync.Mutex
	events []domain.AuthEvent
	fail   bool
}

func (s *recordingService) Record(_ context.Context, e domain.AuthEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
	if s.fail {
		return errors.New("store down")
	}
	return nil
}

func (s *recordingService) recorded() []domain.AuthEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.AuthEvent(nil), s.events...)
}

func TestDispatcher_CloseDrainsQueue(t *testing.T) {
	svc := &recordingService{}
	d := NewDispatcher(3, svc, zerolog.Nop())
	d.Start(context.Background())

	for i := 0; i < 20; i++ {
		d.Enqueue(domain.AuthEvent{Kind: domain.EventLoginFailed, Email: "a@b.com", OccurredAt: time.Now()})
	}
	d.Close()

	if got := len(svc.recorded()); got != 20 {
		t.Fatalf("recorded %d events, want 20", got)
	}
}

func TestDispatcher_PreservesPerActorOrder(t *testing.T) {
	svc := &recordingService{}
	d := NewDispatcher(4, svc, zerolog.Nop())
	d.Start(context.Background())

	kinds := []domain.AuthEventKind{
		domain.EventLoginSucceeded,
		domain.EventProfileUpdated,
		domain.EventPasswordChanged,
		domain.EventLoggedOut,
	}
	for _, k := range kinds {
		d.Enqueue(domain.AuthEvent{Kind: k, AccountID: 7})
	}
	d.Close()

	got := svc.recorded()
	if len(got) != len(kinds) {
		t.Fatalf("recorded %d events, want %d", len(got), len(kinds))
	}
	for i, k := range kinds {
		if got[i].Kind != k {
			t.Fatalf("event %d = %s, want %s", i, got[i].Kind, k)
		}
	}
}

func TestDispatcher_ShardIsStable(t *testing.T) {
	d := NewDispatcher(8, &recordingService{}, zerolog.Nop())

	byAccount := domain.AuthEvent{AccountID: 42, Email: "x@b.com"}
	sameAccount := domain.AuthEvent{AccountID: 42, Email: "other@b.com"}
	if d.shardIndex(byAccount) != d.shardIndex(sameAccount) {
		t.Error("same account routed to different workers")
	}

	anon := domain.AuthEvent{Email: "a@b.com"}
	if a, b := d.shardIndex(anon), d.shardIndex(anon); a != b {
		t.Errorf("shard changed between calls: %d vs %d", a, b)
	}
}

func TestDispatcher_FailuresDoNotStopWorker(t *testing.T) {
	svc := &recordingService{fail: true}
	d := NewDispatcher(1, svc, zerolog.Nop())
	d.Start(context.Background())

	d.Enqueue(domain.AuthEvent{Kind: domain.EventLoginFailed, Email: "a@b.com"})
	d.Enqueue(domain.AuthEvent{Kind: domain.EventLoginFailed, Email: "a@b.com"})
	d.Close()

	if got := len(svc.recorded()); got != 2 {
		t.Fatalf("worker stopped after failure: %d attempts", got)
	}
}

func TestDispatcher_EnqueueAfterCloseIsDropped(t *testing.T) {
	svc := &recordingService{}
	d := NewDispatcher(1, svc, zerolog.Nop())
	d.Start(context.Background())
	d.Close()
	d.Close()

	d.Enqueue(domain.AuthEvent{Kind: domain.EventLoggedOut, AccountID: 1})

	if got := len(svc.recorded()); got != 0 {
		t.Fatalf("recorded %d events after close", got)
	}
}
