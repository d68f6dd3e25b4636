package contextualmocker

import (
	"context"
	"time"

	"github.com/joeycumines/go-catrate"
	"github.com/joeycumines/go-microbatch"

	"github.com/dallenpyrah/contextualmocker/internal/identity"
)

func newCleanupLimiter(rates map[time.Duration]int) *catrate.Limiter {
	return catrate.NewLimiter(rates)
}

// CleanupStats summarizes one cleanup sweep's findings.
type CleanupStats struct {
	MocksReclaimed     int
	RulesExpired       int
	InvocationsAged    int
	InvocationsEvicted int
}

// PerformCleanup runs one cleanup sweep, unless the registry's cleanup
// rate limiter has been exhausted by recent manual calls, in which case
// it is a no-op returning a zero CleanupStats: a caller hammering
// PerformCleanup cannot starve the background ticker.
func (reg *Registry) PerformCleanup() CleanupStats {
	if _, ok := reg.cleanupLimiter.Allow("perform_cleanup"); !ok {
		return CleanupStats{}
	}
	return reg.sweep()
}

func (reg *Registry) sweep() CleanupStats {
	reg.cleanupMu.Lock()
	defer reg.cleanupMu.Unlock()

	cfg := reg.GetCleanupConfig()
	now := time.Now()
	var stats CleanupStats

	reg.mocks.Range(func(k, v any) bool {
		key := k.(identity.Key)
		me := v.(*mockEntry)
		if !key.Alive() {
			reg.mocks.Delete(k)
			stats.MocksReclaimed++
			return true
		}

		me.slots.Range(func(_, sv any) bool {
			s := sv.(*slot)

			s.rulesMu.Lock()
			before := len(s.rules)
			kept := s.rules[:0]
			for _, r := range s.rules {
				if !r.expired(now) {
					kept = append(kept, r)
				}
			}
			s.rules = kept
			stats.RulesExpired += before - len(kept)
			s.rulesMu.Unlock()

			s.invMu.Lock()
			if cfg.MaxAge > 0 {
				cutoff := now.Add(-cfg.MaxAge)
				i := 0
				for i < len(s.invocations) && s.invocations[i].Timestamp.Before(cutoff) {
					i++
				}
				stats.InvocationsAged += i
				s.invocations = s.invocations[i:]
			}
			if cfg.MaxInvocationsPerContext > 0 && len(s.invocations) > cfg.MaxInvocationsPerContext {
				over := len(s.invocations) - cfg.MaxInvocationsPerContext
				stats.InvocationsEvicted += over
				s.invocations = append([]*Invocation(nil), s.invocations[over:]...)
			}
			s.invMu.Unlock()

			return true
		})
		return true
	})

	return stats
}

// EnableAutoCleanup starts the background ticker if it isn't already
// running, using the currently configured CleanupInterval.
func (reg *Registry) EnableAutoCleanup() {
	reg.tickerMu.Lock()
	defer reg.tickerMu.Unlock()

	cfg := reg.GetCleanupConfig()
	cfg.AutoEnabled = true
	reg.cfg.Store(&cfg)

	if reg.tickerStop != nil {
		return
	}
	interval := cfg.CleanupInterval
	if interval <= 0 {
		interval = time.Minute
	}
	stop := make(chan struct{})
	reg.tickerStop = stop
	go reg.tickerLoop(stop, interval)
}

// DisableAutoCleanup stops the background ticker, if running. Pending
// sweeps in flight complete; PerformCleanup remains usable manually.
func (reg *Registry) DisableAutoCleanup() {
	reg.tickerMu.Lock()
	defer reg.tickerMu.Unlock()

	cfg := reg.GetCleanupConfig()
	cfg.AutoEnabled = false
	reg.cfg.Store(&cfg)

	if reg.tickerStop != nil {
		close(reg.tickerStop)
		reg.tickerStop = nil
	}
}

func (reg *Registry) tickerLoop(stop chan struct{}, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-t.C:
			reg.sweep()
			log().Debug().Str(`registry`, `cleanup`).Log(`background sweep completed`)
		case <-stop:
			return
		}
	}
}

// evictionJob is one size-based eviction request, submitted whenever a
// (mock, context) invocation log crosses its configured cap.
type evictionJob struct {
	slot *slot
	cap  int
}

// evictionBatcher coalesces concurrent size-based eviction requests into
// microbatch.Batcher batches, so many callers exceeding their cap at once
// produce one eviction pass per slot rather than one per caller.
type evictionBatcher struct {
	b *microbatch.Batcher[evictionJob]
}

func newEvictionBatcher() *evictionBatcher {
	eb := &evictionBatcher{}
	eb.b = microbatch.NewBatcher[evictionJob](&microbatch.BatcherConfig{
		MaxSize:       64,
		FlushInterval: 50 * time.Millisecond,
	}, eb.process)
	return eb
}

func (eb *evictionBatcher) process(_ context.Context, jobs []evictionJob) error {
	seen := make(map[*slot]bool, len(jobs))
	for _, j := range jobs {
		if seen[j.slot] {
			continue
		}
		seen[j.slot] = true
		j.slot.evictToCap(j.cap)
	}
	return nil
}

// submit fires an eviction request for s without blocking the caller: the
// engine's invocation path must stay synchronous, so the batch ping-pong
// happens on a spawned goroutine.
func (eb *evictionBatcher) submit(s *slot, cap int) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		jr, err := eb.b.Submit(ctx, evictionJob{slot: s, cap: cap})
		if err != nil {
			return
		}
		_ = jr.Wait(ctx)
	}()
}

func (reg *Registry) evictionBatcher() *evictionBatcher {
	reg.evictOnce.Do(func() {
		reg.evictor = newEvictionBatcher()
	})
	return reg.evictor
}

// Close stops the background cleanup ticker and, if the lazily-created
// eviction batcher was ever used, shuts down its worker goroutine. Callers
// that create a Registry and discard it without ever calling Close leak
// that goroutine for as long as the process runs; Close makes teardown
// explicit instead.
func (reg *Registry) Close() error {
	reg.DisableAutoCleanup()
	if reg.evictor != nil {
		return reg.evictor.b.Close()
	}
	return nil
}
