package queue

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/99minutos/accounts-service/internal/core/domain"
)

type recordingProcessor struct {
	mu     sync.Mutex
	byUser map[string][]domain.AccountEventType
	total  int
}

func (p *recordingProcessor) Process(_ context.Context, e domain.AccountEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.byUser == nil {
		p.byUser = make(map[string][]domain.AccountEventType)
	}
	p.byUser[e.Email] = append(p.byUser[e.Email], e.Type)
	p.total++
	return nil
}

func TestDispatcher_ShardIndexDeterministic(t *testing.T) {
	d := NewDispatcher(4, &recordingProcessor{}, zerolog.Nop())
	a := d.shardIndex("ana@example.com")
	for i := 0; i < 10; i++ {
		if got := d.shardIndex("ana@example.com"); got != a {
			t.Fatalf("shard index changed: %d != %d", got, a)
		}
	}
	if a < 0 || a >= 4 {
		t.Fatalf("shard index out of range: %d", a)
	}
}

func TestDispatcher_DefaultWorkers(t *testing.T) {
	d := NewDispatcher(0, &recordingProcessor{}, zerolog.Nop())
	if len(d.workers) != defaultWorkers {
		t.Fatalf("expected %d workers, got %d", defaultWorkers, len(d.workers))
	}
}

func TestDispatcher_PreservesPerAccountOrder(t *testing.T) {
	proc := &recordingProcessor{}
	d := NewDispatcher(3, proc, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)

	order := []domain.AccountEventType{
		domain.EventRegistered, domain.EventLoggedIn, domain.EventProfileUpdated, domain.EventTokenRefreshed,
	}
	for u := 0; u < 5; u++ {
		for _, typ := range order {
			d.Record(domain.AccountEvent{Type: typ, Email: fmt.Sprintf("user%d@example.com", u)})
		}
	}

	cancel()
	d.Wait()

	if proc.total != 20 {
		t.Fatalf("expected 20 processed events, got %d", proc.total)
	}
	for email, got := range proc.byUser {
		for i := range order {
			if got[i] != order[i] {
				t.Fatalf("%s: events out of order: %v", email, got)
			}
		}
	}
}

func TestDispatcher_DropsWhenFull(t *testing.T) {
	proc := &recordingProcessor{}
	d := NewDispatcher(1, proc, zerolog.Nop())

	// Workers not started: the single buffer fills and the rest is dropped.
	for i := 0; i < channelBuffer+10; i++ {
		d.Record(domain.AccountEvent{Type: domain.EventLoggedIn, Email: "ana@example.com"})
	}
	if got := len(d.workers[0]); got != channelBuffer {
		t.Fatalf("expected full buffer of %d, got %d", channelBuffer, got)
	}
}
