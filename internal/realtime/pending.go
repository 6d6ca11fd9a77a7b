package realtime

import (
	"context"
	"sync"
)

type pendingKey struct{}

// Pending collects messages produced inside a transaction so they can be published
// only after it commits.
type Pending struct {
	mu   sync.Mutex
	msgs []Message
}

func WithPending(ctx context.Context) (context.Context, *Pending) {
	p := &Pending{}
	return context.WithValue(ctx, pendingKey{}, p), p
}

func PendingFrom(ctx context.Context) *Pending {
	if ctx == nil {
		return nil
	}
	p, _ := ctx.Value(pendingKey{}).(*Pending)
	return p
}

func (p *Pending) Append(msgs ...Message) {
	if p == nil {
		return
	}
	p.mu.Lock()
	p.msgs = append(p.msgs, msgs...)
	p.mu.Unlock()
}

// Reset drops what a rolled-back attempt buffered.
func (p *Pending) Reset() {
	if p == nil {
		return
	}
	p.mu.Lock()
	p.msgs = nil
	p.mu.Unlock()
}

func (p *Pending) Drain() []Message {
	if p == nil {
		return nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	out := p.msgs
	p.msgs = nil
	return out
}
