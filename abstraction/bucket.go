// Package abstraction maps hole cards and community-card textures onto the
// coarse buckets the MCCFR trainer operates over: 169 canonical preflop
// classes, and a persisted, minimal-perfect-hash-indexed table of postflop
// rank/suit pattern buckets.
package abstraction

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"sync"

	"github.com/opencoff/go-chd"

	"github.com/lox/spingosolver/internal/fileutil"
)

// MissingBucket is returned by Lookup when a (round, rank pattern, suit
// pattern) triple was never observed during clustering.
const MissingBucket = -1

// ErrMissingBucket is logged once (not returned) by callers that choose to
// warn on abstraction misses rather than fail the traversal.
var ErrMissingBucket = errors.New("abstraction: bucket not found for key")

var warnOnce sync.Once

// WarnMissingOnce logs a single warning the first time a lookup misses,
// matching the "logged once" error-handling design for non-fatal misses.
func WarnMissingOnce(log func(error)) {
	warnOnce.Do(func() { log(ErrMissingBucket) })
}

// BucketTable is a persisted map from (round, rank_pattern, suit_pattern) to
// bucket id. Before Build is called it behaves as a plain map for
// incremental population by the clustering pipeline; after Build it answers
// Lookup via an O(1) opencoff/go-chd minimal perfect hash index.
type BucketTable struct {
	pending map[string]int

	keys    []string
	buckets []int
	index   *chd.CHD
}

// NewBucketTable returns an empty, writable table.
func NewBucketTable() *BucketTable {
	return &BucketTable{pending: make(map[string]int)}
}

// Set records the bucket id for a (round, rankPattern, suitPattern) triple.
// Only valid before Build is called.
func (t *BucketTable) Set(round, rankPattern, suitPattern string, bucket int) {
	t.pending[tableKey(round, rankPattern, suitPattern)] = bucket
}

// Build freezes the table into its minimal-perfect-hash-indexed form. Keys
// are sorted first so the resulting index is reproducible across runs with
// identical input.
func (t *BucketTable) Build() error {
	keys := make([]string, 0, len(t.pending))
	for k := range t.pending {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	b := chd.NewBuilder()
	for _, k := range keys {
		b.Add([]byte(k))
	}
	h, err := b.Freeze(chd.DefaultLoadFactor)
	if err != nil {
		return fmt.Errorf("abstraction: freeze bucket index: %w", err)
	}

	buckets := make([]int, len(keys))
	for i, k := range keys {
		buckets[i] = t.pending[k]
	}

	t.keys = keys
	t.buckets = buckets
	t.index = h
	return nil
}

// Lookup resolves a (round, rankPattern, suitPattern) triple to its bucket
// id, returning MissingBucket when the key was never observed.
func (t *BucketTable) Lookup(round, rankPattern, suitPattern string) int {
	key := tableKey(round, rankPattern, suitPattern)

	if t.index == nil {
		if b, ok := t.pending[key]; ok {
			return b
		}
		return MissingBucket
	}

	idx := t.index.Find([]byte(key))
	if idx >= uint64(len(t.keys)) || t.keys[idx] != key {
		return MissingBucket
	}
	return t.buckets[idx]
}

// Size returns the number of distinct keys held by the table.
func (t *BucketTable) Size() int {
	if t.index != nil {
		return len(t.keys)
	}
	return len(t.pending)
}

func tableKey(round, rankPattern, suitPattern string) string {
	return round + "|" + rankPattern + "|" + suitPattern
}

// Save persists the table as CSV with fixed columns
// (round,rank_pattern,suit_pattern,bucket), matching the teacher's
// checkpoint style of atomic temp-file-then-rename writes.
func (t *BucketTable) Save(path string) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"round", "rank_pattern", "suit_pattern", "bucket"}); err != nil {
		return fmt.Errorf("abstraction: write header: %w", err)
	}

	keys := t.keys
	buckets := t.buckets
	if t.index == nil {
		keys = make([]string, 0, len(t.pending))
		for k := range t.pending {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		buckets = make([]int, len(keys))
		for i, k := range keys {
			buckets[i] = t.pending[k]
		}
	}

	for i, k := range keys {
		round, rankPattern, suitPattern, ok := splitTableKey(k)
		if !ok {
			continue
		}
		row := []string{round, rankPattern, suitPattern, strconv.Itoa(buckets[i])}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("abstraction: write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("abstraction: flush csv: %w", err)
	}

	return fileutil.WriteFileAtomic(path, buf.Bytes(), 0o644)
}

// LoadBucketTable reads a CSV file written by Save and builds the
// perfect-hash index eagerly so the returned table is ready for concurrent
// Lookup calls.
func LoadBucketTable(path string) (*BucketTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("abstraction: open bucket table: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("abstraction: read bucket table: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("abstraction: empty bucket table %s", path)
	}

	t := NewBucketTable()
	for _, row := range rows[1:] {
		if len(row) != 4 {
			continue
		}
		bucket, err := strconv.Atoi(row[3])
		if err != nil {
			return nil, fmt.Errorf("abstraction: invalid bucket id %q: %w", row[3], err)
		}
		t.Set(row[0], row[1], row[2], bucket)
	}

	if err := t.Build(); err != nil {
		return nil, err
	}
	return t, nil
}

func splitTableKey(key string) (round, rankPattern, suitPattern string, ok bool) {
	first := indexOf(key, '|')
	if first < 0 {
		return "", "", "", false
	}
	rest := key[first+1:]
	second := indexOf(rest, '|')
	if second < 0 {
		return "", "", "", false
	}
	return key[:first], rest[:second], rest[second+1:], true
}

func indexOf(s string, b byte) int {
	for i := 0; i < len(s); i++ {
		if s[i] == b {
			return i
		}
	}
	return -1
}
