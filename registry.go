package contextualmocker

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/joeycumines/go-catrate"

	"github.com/dallenpyrah/contextualmocker/internal/identity"
)

// slot is the per-(mock,context) unit of storage: its own rule sequence,
// invocation log, and state cell. Mutating one slot never requires
// locking another.
type slot struct {
	rulesMu sync.Mutex
	rules   []*Rule

	invMu       sync.Mutex
	invocations []*Invocation

	state atomic.Pointer[any]
}

func newSlot() *slot {
	s := &slot{}
	var u any = Unset
	s.state.Store(&u)
	return s
}

// currentState returns the live state box (for a later CompareAndSwap) and
// its dereferenced value.
func (s *slot) currentState() (*any, any) {
	p := s.state.Load()
	if p == nil {
		var u any = Unset
		return &u, Unset
	}
	return p, *p
}

// transition attempts to move the state cell from old to next, publishing
// a fresh box; it fails if another call already transitioned it.
func (s *slot) transition(old *any, next any) bool {
	n := new(any)
	*n = next
	return s.state.CompareAndSwap(old, n)
}

// selectRule walks the rule sequence most-recently-inserted first,
// returning the first rule whose method, state guard, and arguments all
// match, while pruning any TTL-expired rules encountered along the way.
func (s *slot) selectRule(method string, args []any, state any, now time.Time) *Rule {
	s.rulesMu.Lock()
	defer s.rulesMu.Unlock()

	var selected *Rule
	for i := len(s.rules) - 1; i >= 0; i-- {
		r := s.rules[i]
		if r.expired(now) {
			continue
		}
		if selected == nil && r.Method == method && r.matchesState(state) && r.matchesArgs(args) {
			selected = r
		}
	}

	if len(s.rules) > 0 {
		kept := s.rules[:0]
		for _, r := range s.rules {
			if !r.expired(now) {
				kept = append(kept, r)
			}
		}
		s.rules = kept
	}

	return selected
}

func (s *slot) appendRule(r *Rule) {
	r.Freeze()
	s.rulesMu.Lock()
	s.rules = append(s.rules, r)
	s.rulesMu.Unlock()
}

func (s *slot) appendInvocation(inv *Invocation) int {
	s.invMu.Lock()
	s.invocations = append(s.invocations, inv)
	n := len(s.invocations)
	s.invMu.Unlock()
	return n
}

func (s *slot) snapshotInvocations() []*Invocation {
	s.invMu.Lock()
	defer s.invMu.Unlock()
	out := make([]*Invocation, len(s.invocations))
	copy(out, s.invocations)
	return out
}

// removeLastByGoroutine drops the most recently appended record left by
// goroutine gid, so that the tentative record a when(...)/that(...)
// lambda just produced can be removed from the invocation log it was
// recorded into. Scoping the search to gid rather than a method name is
// what makes this safe under concurrency: a sibling goroutine may append
// its own record to the same slot in the instant between capture and
// removal, but it can never own this goroutine's id.
func (s *slot) removeLastByGoroutine(gid int64) *Invocation {
	s.invMu.Lock()
	defer s.invMu.Unlock()
	for i := len(s.invocations) - 1; i >= 0; i-- {
		if s.invocations[i].GoroutineID == gid {
			removed := s.invocations[i]
			s.invocations = append(s.invocations[:i:i], s.invocations[i+1:]...)
			return removed
		}
	}
	return nil
}

// matchAndMarkVerified scans the invocation log for records matching
// method and specs, marking each match as verified, and returns them for
// reporting.
func (s *slot) matchAndMarkVerified(method string, specs []ArgSpec) []*Invocation {
	s.invMu.Lock()
	defer s.invMu.Unlock()
	var matched []*Invocation
	for _, inv := range s.invocations {
		if inv.Method != method {
			continue
		}
		if matchArgSpecs(specs, inv.Args) {
			matched = append(matched, inv)
		}
	}
	for _, inv := range matched {
		inv.Verified.Store(true)
	}
	return matched
}

func (s *slot) evictToCap(max int) {
	if max <= 0 {
		return
	}
	s.invMu.Lock()
	if n := len(s.invocations); n > max {
		s.invocations = append([]*Invocation(nil), s.invocations[n-max:]...)
	}
	s.invMu.Unlock()
}

func (s *slot) purge() {
	s.invMu.Lock()
	s.invocations = nil
	s.invMu.Unlock()
}

// mockEntry groups every context slot registered for one mock identity.
type mockEntry struct {
	key   identity.Key
	slots sync.Map // Context -> *slot
}

// Registry is the concurrent mock-state store: stubbing rules, invocation
// logs, and per-context state, indexed by mock identity then by context,
// plus the background cleanup engine.
//
// The zero value is not usable; construct with NewRegistry.
type Registry struct {
	mocks sync.Map // identity.Key -> *mockEntry

	// cleanupMu separates the sweep pass from concurrent top-level index
	// mutation, the same rw-mutex pattern a rate limiter worker would use
	// to keep its cleanup pass from racing category inserts.
	cleanupMu sync.RWMutex

	cfg atomic.Pointer[CleanupConfig]

	// cleanupLimiter rate-limits PerformCleanup so a caller hammering it
	// cannot starve the background ticker's own cadence.
	cleanupLimiter *catrate.Limiter

	tickerMu   sync.Mutex
	tickerStop chan struct{}

	evictOnce sync.Once
	evictor   *evictionBatcher
}

// NewRegistry constructs a Registry, applying opts in order. Auto cleanup
// starts immediately if the resolved configuration has AutoEnabled set
// (the default).
func NewRegistry(opts ...Option) *Registry {
	reg := &Registry{
		cleanupLimiter: catrate.NewLimiter(map[time.Duration]int{time.Second: 5}),
	}
	cfg := DefaultCleanupConfig()
	reg.cfg.Store(&cfg)

	for _, o := range opts {
		o(reg)
	}

	if reg.GetCleanupConfig().AutoEnabled {
		reg.EnableAutoCleanup()
	}

	return reg
}

func (reg *Registry) slotFor(key identity.Key, ctx Context) *slot {
	reg.cleanupMu.RLock()
	defer reg.cleanupMu.RUnlock()

	v, _ := reg.mocks.LoadOrStore(key, &mockEntry{key: key})
	me := v.(*mockEntry)
	sv, _ := me.slots.LoadOrStore(ctx, newSlot())
	return sv.(*slot)
}

func (reg *Registry) lookupSlot(key identity.Key, ctx Context) (*slot, bool) {
	v, ok := reg.mocks.Load(key)
	if !ok {
		return nil, false
	}
	me := v.(*mockEntry)
	sv, ok := me.slots.Load(ctx)
	if !ok {
		return nil, false
	}
	return sv.(*slot), true
}

// purgeInvocations drops the invocation log for (key, ctx): releasing a
// context scope purges the invocation log recorded under it.
func (reg *Registry) purgeInvocations(key identity.Key, ctx Context) {
	if s, ok := reg.lookupSlot(key, ctx); ok {
		s.purge()
	}
}

// recordInvocation appends inv to s, and if the context's invocation count
// now exceeds the configured cap, asynchronously submits a batched
// eviction job rather than evicting synchronously on the caller's path.
func (reg *Registry) recordInvocation(s *slot, inv *Invocation) {
	n := s.appendInvocation(inv)
	cap := reg.GetCleanupConfig().MaxInvocationsPerContext
	if cap > 0 && n > cap {
		reg.evictionBatcher().submit(s, cap)
	}
}

// ClearMock removes every context slot registered for m, regardless of
// whether its referent is still reachable.
func (reg *Registry) ClearMock(m *Mock) bool {
	if m == nil {
		return false
	}
	reg.cleanupMu.Lock()
	defer reg.cleanupMu.Unlock()
	_, existed := reg.mocks.LoadAndDelete(m.key)
	return existed
}

// ClearAll removes every mock, context, rule, invocation, and state cell
// from the registry.
func (reg *Registry) ClearAll() {
	reg.cleanupMu.Lock()
	defer reg.cleanupMu.Unlock()
	reg.mocks.Range(func(k, _ any) bool {
		reg.mocks.Delete(k)
		return true
	})
}

// MemoryStats reports the registry's current footprint.
type MemoryStats struct {
	Mocks       int
	Contexts    int
	Invocations int
	Rules       int
	States      int
}

// MemoryUsage reports the current size of the registry.
func (reg *Registry) MemoryUsage() MemoryStats {
	reg.cleanupMu.RLock()
	defer reg.cleanupMu.RUnlock()

	var stats MemoryStats
	reg.mocks.Range(func(_, v any) bool {
		stats.Mocks++
		me := v.(*mockEntry)
		me.slots.Range(func(_, sv any) bool {
			stats.Contexts++
			s := sv.(*slot)

			s.rulesMu.Lock()
			stats.Rules += len(s.rules)
			s.rulesMu.Unlock()

			s.invMu.Lock()
			stats.Invocations += len(s.invocations)
			s.invMu.Unlock()

			if _, val := s.currentState(); val != Unset {
				stats.States++
			}
			return true
		})
		return true
	})
	return stats
}
