package solver

import (
	"context"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/coder/quartz"

	"github.com/lox/spingosolver/abstraction"
	"github.com/lox/spingosolver/game"
	"github.com/lox/spingosolver/internal/randutil"
)

// TraversalStats captures instrumentation metrics for one completed
// iteration (one traversal per seat, each on its own fresh deal).
type TraversalStats struct {
	IterationTime time.Duration
}

// Progress is reported periodically while Run is in flight.
type Progress struct {
	Iteration       int
	RegretTableSize int
	Stats           TraversalStats
}

// Trainer orchestrates external-sampling MCCFR iterations against the
// three-seat Spin & Go abstraction.
type Trainer struct {
	cfg     TrainingConfig
	buckets *abstraction.BucketTable
	regrets *RegretTable

	iteration atomic.Int64
	rng       *rand.Rand
	rngSeed   int64

	statsMu sync.Mutex
	stats   TraversalStats

	clock            quartz.Clock
	checkpointMu     sync.Mutex
	lastCheckpointAt time.Time
}

// NewTrainer constructs a trainer from cfg. If cfg.BucketTablePath is set,
// the postflop bucket table is loaded eagerly; a missing file is an error
// since a trainer silently running without abstraction would produce a
// blueprint keyed on raw textures rather than the clustered buckets it was
// configured to use.
func NewTrainer(cfg TrainingConfig) (*Trainer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var buckets *abstraction.BucketTable
	if cfg.BucketTablePath != "" {
		loaded, err := abstraction.LoadBucketTable(cfg.BucketTablePath)
		if err != nil {
			return nil, err
		}
		buckets = loaded
	}

	seed := cfg.Seed
	if seed == 0 {
		// Mix the wall clock through randutil's decorrelating hash rather
		// than handing time.Now().UnixNano() straight to rand.NewSource, so
		// nearby clock readings give unrelated seeds. The hash is
		// deterministic: two constructions that read the same nanosecond
		// still share a seed.
		seed = int64(randutil.New(time.Now().UnixNano()).Uint64())
	}

	return &Trainer{
		cfg:     cfg,
		buckets: buckets,
		regrets: NewRegretTable(),
		rng:     rand.New(rand.NewSource(seed)),
		rngSeed: seed,
		clock:   quartz.NewReal(),
	}, nil
}

// SetClock overrides the trainer's clock, used by tests to exercise
// time-based checkpointing deterministically with a quartz.Mock.
func (t *Trainer) SetClock(clock quartz.Clock) {
	t.clock = clock
}

// Run executes iterations until cfg.Iterations completes or ctx is
// cancelled. Each iteration traverses once per seat (seat 0, then 1, then
// 2), dealing a fresh hand for each seat's traversal.
func (t *Trainer) Run(ctx context.Context, progress func(Progress)) error {
	workers := t.cfg.Workers
	if workers < 1 {
		workers = 1
	}
	t.lastCheckpointAt = t.clock.Now()

	jobs := make(chan int)
	var wg sync.WaitGroup
	var errOnce sync.Once
	var firstErr error

	worker := func(workerSeed int64) {
		defer wg.Done()
		// Each worker seeds its own thread-local PRNG once from the shared
		// source, then never touches it again: the shared rng mutex from
		// spec.md §5 is eliminated entirely rather than held per-draw.
		rng := NewFastRand(workerSeed)
		w := &walker{regrets: t.regrets, buckets: t.buckets, rng: rng}
		for range jobs {
			start := time.Now()
			for seat := 0; seat < 3; seat++ {
				s := game.NewInitialState(rng)
				w.walk(s, seat, [3]float64{1, 1, 1})
			}
			elapsed := time.Since(start)
			t.setStats(TraversalStats{IterationTime: elapsed})

			iter := int(t.iteration.Add(1))
			t.maybeCheckpoint(iter)
			t.maybeReport(iter, progress)
		}
	}

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go worker(t.rng.Int63())
	}

	go func() {
		defer close(jobs)
		for i := int(t.iteration.Load()); i < t.cfg.Iterations; i++ {
			select {
			case <-ctx.Done():
				return
			case jobs <- i:
			}
		}
	}()

	wg.Wait()

	select {
	case <-ctx.Done():
		errOnce.Do(func() { firstErr = ctx.Err() })
	default:
	}

	if t.cfg.CheckpointPath != "" {
		if err := t.SaveCheckpoint(t.cfg.CheckpointPath); err != nil {
			return err
		}
	}
	if progress != nil {
		progress(Progress{Iteration: int(t.iteration.Load()), RegretTableSize: t.regrets.Size(), Stats: t.Stats()})
	}
	return firstErr
}

func (t *Trainer) maybeCheckpoint(iter int) {
	if t.cfg.CheckpointPath == "" {
		return
	}

	t.checkpointMu.Lock()
	byCount := t.cfg.CheckpointEvery > 0 && iter%t.cfg.CheckpointEvery == 0
	byTime := t.cfg.CheckpointInterval > 0 && t.clock.Now().Sub(t.lastCheckpointAt) >= t.cfg.CheckpointInterval
	if !byCount && !byTime {
		t.checkpointMu.Unlock()
		return
	}
	t.lastCheckpointAt = t.clock.Now()
	t.checkpointMu.Unlock()

	_ = t.SaveCheckpoint(t.cfg.CheckpointPath)
}

func (t *Trainer) maybeReport(iter int, progress func(Progress)) {
	if progress == nil || t.cfg.ProgressEvery <= 0 || iter%t.cfg.ProgressEvery != 0 {
		return
	}
	progress(Progress{Iteration: iter, RegretTableSize: t.regrets.Size(), Stats: t.Stats()})
}

func (t *Trainer) setStats(stats TraversalStats) {
	t.statsMu.Lock()
	defer t.statsMu.Unlock()
	t.stats = stats
}

// Stats returns the most recently completed iteration's timing.
func (t *Trainer) Stats() TraversalStats {
	t.statsMu.Lock()
	defer t.statsMu.Unlock()
	return t.stats
}

// Iteration returns the number of completed iterations.
func (t *Trainer) Iteration() int64 {
	return t.iteration.Load()
}

// RegretTableSize returns the number of information sets seen so far.
func (t *Trainer) RegretTableSize() int {
	return t.regrets.Size()
}

// TrainingConfig returns the configuration this trainer was built from.
func (t *Trainer) TrainingConfig() TrainingConfig {
	return t.cfg
}

// Strategies materialises the average strategy for every information set
// seen so far, keyed by its serialised InfoSetKey.
func (t *Trainer) Strategies() map[string]*RegretEntry {
	return t.regrets.Entries()
}
