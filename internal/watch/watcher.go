// Package watch invalidates cached LP burn status when watched pool
// accounts change on chain.
package watch

import (
	"context"
	"fmt"
	"log"
	"sync"

	"x1-token-scanner/internal/solana"
	"x1-token-scanner/internal/storage"
)

// poolWatch is one live subscription: its drain cancel func and the
// notification channel, kept so the subscription can be torn down.
type poolWatch struct {
	cancel context.CancelFunc
	ch     <-chan solana.AccountNotification
}

// Watcher subscribes to pool account state changes over WebSocket and
// drops the cached LP status of the affected mint, so the next scan
// re-analyzes the pool instead of serving a stale entry.
type Watcher struct {
	ws    solana.WSClient
	cache storage.LPStatusStore

	mu      sync.Mutex
	watches map[string]*poolWatch // keyed by mint
	wg      sync.WaitGroup
	verbose bool

	// onInvalidate, when set, is called after each cache invalidation.
	onInvalidate func(mint string)
}

// NewWatcher creates a watcher over the given WebSocket client and
// LP status cache.
func NewWatcher(ws solana.WSClient, cache storage.LPStatusStore) *Watcher {
	return &Watcher{
		ws:      ws,
		cache:   cache,
		watches: make(map[string]*poolWatch),
	}
}

// SetVerbose enables per-notification logging.
func (w *Watcher) SetVerbose(v bool) { w.verbose = v }

// Watch subscribes to the pool account and invalidates the mint's
// cached LP status on every state change. The watch lives until
// Unwatch or Close, so ctx must outlive the request that triggered
// it. Watching a mint that is already watched replaces the previous
// subscription.
func (w *Watcher) Watch(ctx context.Context, mint, poolAddress string) error {
	if mint == "" || poolAddress == "" {
		return fmt.Errorf("watch: mint and pool address required")
	}

	ch, err := w.ws.SubscribeAccount(ctx, poolAddress)
	if err != nil {
		return fmt.Errorf("subscribe pool %s: %w", poolAddress, err)
	}

	watchCtx, cancel := context.WithCancel(ctx)

	w.mu.Lock()
	prev := w.watches[mint]
	w.watches[mint] = &poolWatch{cancel: cancel, ch: ch}
	w.mu.Unlock()

	if prev != nil {
		w.teardown(prev)
	}

	w.wg.Add(1)
	go w.drain(watchCtx, mint, poolAddress, ch)

	log.Printf("[watch] watching pool %s for mint %s", poolAddress, mint)
	return nil
}

// Unwatch stops watching the mint's pool. Unwatching a mint that is
// not watched is a no-op.
func (w *Watcher) Unwatch(mint string) {
	w.mu.Lock()
	pw, ok := w.watches[mint]
	if ok {
		delete(w.watches, mint)
	}
	w.mu.Unlock()

	if ok {
		w.teardown(pw)
	}
}

// Close stops all watches and waits for their goroutines to finish.
func (w *Watcher) Close() {
	w.mu.Lock()
	pending := make([]*poolWatch, 0, len(w.watches))
	for mint, pw := range w.watches {
		pending = append(pending, pw)
		delete(w.watches, mint)
	}
	w.mu.Unlock()

	for _, pw := range pending {
		w.teardown(pw)
	}
	w.wg.Wait()
}

// teardown cancels a watch's drain and releases its subscription.
func (w *Watcher) teardown(pw *poolWatch) {
	pw.cancel()
	if err := w.ws.UnsubscribeAccount(pw.ch); err != nil {
		log.Printf("[watch] unsubscribe: %v", err)
	}
}

// drain consumes notifications for one pool and invalidates the cache
// entry of its mint on each change.
func (w *Watcher) drain(ctx context.Context, mint, poolAddress string, ch <-chan solana.AccountNotification) {
	defer w.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case notif, ok := <-ch:
			if !ok {
				return
			}
			// A notification can be ready in the same select round the
			// context is cancelled; an invalidation must never land
			// after Unwatch returns.
			if ctx.Err() != nil {
				return
			}

			if w.verbose {
				log.Printf("[watch] pool %s changed at slot %d, invalidating %s", poolAddress, notif.Slot, mint)
			}

			if err := w.cache.Delete(ctx, mint); err != nil {
				log.Printf("[watch] invalidate %s: %v", mint, err)
				continue
			}

			if w.onInvalidate != nil {
				w.onInvalidate(mint)
			}
		}
	}
}
