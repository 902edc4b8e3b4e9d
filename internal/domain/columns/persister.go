package columns

import (
	"context"
	"sync"

	"bankreco/pkg/logger"
)

// persister writes registry snapshots in the background. Pending snapshots
// are coalesced: only the newest one is ever written, and writes are
// serialized so an older snapshot can never overwrite a newer one.
type persister struct {
	store Store
	key   string
	log   *logger.Logger

	saveMu sync.Mutex // held for the duration of a store write

	mu      sync.Mutex
	pending []byte

	kick chan struct{}
	stop chan struct{}
	wg   sync.WaitGroup
}

func newPersister(store Store, key string, log *logger.Logger) *persister {
	p := &persister{
		store: store,
		key:   key,
		log:   log,
		kick:  make(chan struct{}, 1),
		stop:  make(chan struct{}),
	}
	p.wg.Add(1)
	go p.run()
	return p
}

func (p *persister) submit(snapshot []byte) {
	p.mu.Lock()
	p.pending = snapshot
	p.mu.Unlock()

	select {
	case p.kick <- struct{}{}:
	default:
	}
}

func (p *persister) run() {
	defer p.wg.Done()
	for {
		select {
		case <-p.stop:
			return
		case <-p.kick:
			if err := p.flush(context.Background()); err != nil {
				p.log.Warnw("failed to persist column settings", "key", p.key, "error", err)
			}
		}
	}
}

// flush writes the newest pending snapshot, if any. On failure the
// snapshot is kept pending unless a newer one arrived meanwhile.
func (p *persister) flush(ctx context.Context) error {
	p.saveMu.Lock()
	defer p.saveMu.Unlock()

	p.mu.Lock()
	snapshot := p.pending
	p.pending = nil
	p.mu.Unlock()

	if snapshot == nil {
		return nil
	}

	if err := p.store.Save(ctx, p.key, snapshot); err != nil {
		p.mu.Lock()
		if p.pending == nil {
			p.pending = snapshot
		}
		p.mu.Unlock()
		return err
	}
	return nil
}

func (p *persister) close(ctx context.Context) error {
	close(p.stop)
	p.wg.Wait()
	return p.flush(ctx)
}
