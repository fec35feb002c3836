package solver

import (
	"fmt"
	"sync"

	"github.com/lox/spingosolver/game"
)

// InfoSetKey uniquely identifies the decision a seat faces: which round,
// which seat, its abstracted hole/board bucket, the action history so far
// this round, and enough pot context (total pot, current bet, how many
// seats remain active) to distinguish otherwise-identical buckets that
// differ only in stack pressure. It must correspond exactly to the
// abstraction used while training; otherwise averaging becomes meaningless.
type InfoSetKey struct {
	Round         int
	Seat          int
	Bucket        string
	ActionHistory string
	PotTotal      int
	CurrentBet    int
	ActiveCount   int
}

func (k InfoSetKey) String() string {
	return fmt.Sprintf("%d|%d|%s|%s|%d|%d|%d",
		k.Round, k.Seat, k.Bucket, k.ActionHistory, k.PotTotal, k.CurrentBet, k.ActiveCount)
}

// RegretEntry accumulates regrets and strategy sums for one information
// set. Actions records the legal game.Action menu this node was first
// created with so the stored strategy can be replayed back onto concrete
// actions later (CSV export, in-process play). UpdateCount is the number of
// times this node has been touched, exposed to downstream aggregation.
type RegretEntry struct {
	Key         InfoSetKey
	Actions     []game.Action
	RegretSum   []float64
	StrategySum []float64
	UpdateCount int

	mutex sync.Mutex
}

// newRegretEntry seeds an entry for a freshly-seen information set with its
// legal action menu.
func newRegretEntry(key InfoSetKey, actions []game.Action) *RegretEntry {
	n := len(actions)
	return &RegretEntry{
		Key:         key,
		Actions:     append([]game.Action(nil), actions...),
		RegretSum:   make([]float64, n),
		StrategySum: make([]float64, n),
	}
}

// Strategy returns the current regret-matching distribution for the node:
// regrets clipped to non-negative, normalised to sum to one, or uniform if
// every regret is non-positive.
func (e *RegretEntry) Strategy() []float64 {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	return e.strategyLocked()
}

func (e *RegretEntry) strategyLocked() []float64 {
	total := 0.0
	strat := make([]float64, len(e.RegretSum))
	for i, r := range e.RegretSum {
		if r > 0 {
			strat[i] = r
			total += r
		}
	}
	if total <= 0 {
		v := 1.0 / float64(len(strat))
		for i := range strat {
			strat[i] = v
		}
		return strat
	}
	for i := range strat {
		strat[i] /= total
	}
	return strat
}

// UpdateRegret accumulates one sample of per-action counterfactual regret
// at a node the traverser acted at: regret[a] is the sampled value of
// taking a minus the node's sampled expected value, weighted by the
// product of the other seats' reach probabilities to this node.
func (e *RegretEntry) UpdateRegret(regret []float64, oppReach float64) {
	e.mutex.Lock()
	for i := range regret {
		e.RegretSum[i] += oppReach * regret[i]
	}
	e.UpdateCount++
	e.mutex.Unlock()
}

// AddStrategySum accumulates one sample of the current strategy, weighted
// by the other seats' reach probability to this node, which is how
// external sampling builds up the time-averaged strategy every seat
// converges to.
func (e *RegretEntry) AddStrategySum(strategy []float64, oppReach float64) {
	e.mutex.Lock()
	for i := range strategy {
		e.StrategySum[i] += oppReach * strategy[i]
	}
	e.UpdateCount++
	e.mutex.Unlock()
}

// AverageStrategy returns the time-averaged strategy for the node, which is
// what MCCFR actually converges towards (the current regret-matching
// strategy does not, by itself).
func (e *RegretEntry) AverageStrategy() []float64 {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	strat := make([]float64, len(e.StrategySum))
	total := 0.0
	for _, v := range e.StrategySum {
		total += v
	}
	if total <= 0 {
		v := 1.0 / float64(len(strat))
		for i := range strat {
			strat[i] = v
		}
		return strat
	}
	for i := range strat {
		strat[i] = e.StrategySum[i] / total
	}
	return strat
}

// regretTableShardCount shards the table across goroutines so concurrent
// MCCFR workers rarely contend on the same lock.
const regretTableShardCount = 64
const regretTableShardMask = regretTableShardCount - 1

type regretShard struct {
	mu      sync.RWMutex
	entries map[string]*RegretEntry
}

// RegretTable is the shared information-set store every training worker
// reads from and writes into concurrently.
type RegretTable struct {
	shards [regretTableShardCount]regretShard
}

// NewRegretTable returns an empty regret table ready for use.
func NewRegretTable() *RegretTable {
	table := &RegretTable{}
	for i := 0; i < regretTableShardCount; i++ {
		table.shards[i].entries = make(map[string]*RegretEntry)
	}
	return table
}

// Get returns the entry for key, creating it (seeded with actions) on first
// access.
func (t *RegretTable) Get(key InfoSetKey, actions []game.Action) *RegretEntry {
	k := key.String()
	shard := t.shardFor(k)

	shard.mu.RLock()
	entry, ok := shard.entries[k]
	shard.mu.RUnlock()
	if ok {
		return entry
	}

	shard.mu.Lock()
	defer shard.mu.Unlock()
	if entry, ok = shard.entries[k]; ok {
		return entry
	}
	entry = newRegretEntry(key, actions)
	shard.entries[k] = entry
	return entry
}

// Entries returns a snapshot of every tracked information set, keyed by its
// serialised InfoSetKey.
func (t *RegretTable) Entries() map[string]*RegretEntry {
	out := make(map[string]*RegretEntry)
	for i := 0; i < regretTableShardCount; i++ {
		shard := &t.shards[i]
		shard.mu.RLock()
		for k, v := range shard.entries {
			out[k] = v
		}
		shard.mu.RUnlock()
	}
	return out
}

// Size returns the number of information sets tracked.
func (t *RegretTable) Size() int {
	total := 0
	for i := 0; i < regretTableShardCount; i++ {
		shard := &t.shards[i]
		shard.mu.RLock()
		total += len(shard.entries)
		shard.mu.RUnlock()
	}
	return total
}

// Put inserts a fully-formed entry directly, used when reconstructing a
// table from a checkpoint.
func (t *RegretTable) Put(key string, entry *RegretEntry) {
	shard := t.shardFor(key)
	shard.mu.Lock()
	shard.entries[key] = entry
	shard.mu.Unlock()
}

func (t *RegretTable) shardFor(key string) *regretShard {
	h := hashKey(key)
	return &t.shards[h&regretTableShardMask]
}

func hashKey(key string) uint32 {
	const offset32 = 2166136261
	const prime32 = 16777619
	var hash uint32 = offset32
	for i := 0; i < len(key); i++ {
		hash ^= uint32(key[i])
		hash *= prime32
	}
	return hash
}
