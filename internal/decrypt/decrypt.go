// Package decrypt implements ciphertext-only cryptanalysis of M3 Enigma
// traffic: a three-phase hill-climbing search (wheel order & position by
// Index of Coincidence, then ring settings, then a greedy plugboard) after
// James Gillogly's scheme as refined by Heidi Williams.
package decrypt

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sort"

	"github.com/google/uuid"

	"enigmacrack/internal/fitness"
	"enigmacrack/internal/key"
)

// SurvivorStrategy selects how phase 1 reduces the 1,054,560-candidate
// wheel/position sweep down to the set handed to phase 2.
type SurvivorStrategy int

const (
	// TopN keeps the N highest-IoC candidates across the entire sweep,
	// regardless of which wheel order they came from.
	TopN SurvivorStrategy = iota
	// BestPerWheelOrder keeps exactly one survivor per wheel order (60
	// total): the single best-scoring position triple for each.
	BestPerWheelOrder
)

// Default tuning values; see DESIGN.md for how these were chosen.
const (
	DefaultSurvivorCount     = 100
	DefaultMaxPlugboardPairs = 10
)

// Decryptor is the search driver: constructed with a raw ciphertext which
// it immediately cleans, it exposes one operation, Decrypt, which returns
// the highest-scoring key found.
type Decryptor struct {
	ciphertext        string
	plugboardFitness  fitness.Func
	survivorCount     int
	strategy          SurvivorStrategy
	workers           int
	maxPlugboardPairs int
	logger            *slog.Logger
}

// Option configures a Decryptor built by New.
type Option func(*Decryptor)

// WithWorkers sets the number of goroutines used to parallelize phase 1's
// wheel-combination scan and phases 2/3's per-survivor refinement. n<1 is
// ignored.
func WithWorkers(n int) Option {
	return func(d *Decryptor) {
		if n > 0 {
			d.workers = n
		}
	}
}

// WithSurvivorCount sets how many phase-1 candidates are promoted to
// phase 2 when using the TopN strategy. n<1 is ignored.
func WithSurvivorCount(n int) Option {
	return func(d *Decryptor) {
		if n > 0 {
			d.survivorCount = n
		}
	}
}

// WithSurvivorStrategy selects TopN or BestPerWheelOrder.
func WithSurvivorStrategy(s SurvivorStrategy) Option {
	return func(d *Decryptor) { d.strategy = s }
}

// WithMaxPlugboardPairs caps how many pairs phase 3's greedy hill-climb may
// add. n<1 is ignored.
func WithMaxPlugboardPairs(n int) Option {
	return func(d *Decryptor) {
		if n > 0 {
			d.maxPlugboardPairs = n
		}
	}
}

// WithLogger overrides the default slog logger used to report phase
// progress.
func WithLogger(l *slog.Logger) Option {
	return func(d *Decryptor) {
		if l != nil {
			d.logger = l
		}
	}
}

// New builds a Decryptor for ciphertext, cleaning it immediately (upper
// case, A-Z only). plugboardFitness scores phase 3's candidate plaintexts;
// a bigram table is recommended, but trigram or quadgram are acceptable.
func New(ciphertext string, plugboardFitness fitness.Func, opts ...Option) *Decryptor {
	d := &Decryptor{
		ciphertext:        clean(ciphertext),
		plugboardFitness:  plugboardFitness,
		survivorCount:     DefaultSurvivorCount,
		strategy:          TopN,
		workers:           runtime.NumCPU(),
		maxPlugboardPairs: DefaultMaxPlugboardPairs,
		logger:            slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// clean upper-cases text and discards every character outside A-Z.
func clean(text string) string {
	out := make([]byte, 0, len(text))
	for i := 0; i < len(text); i++ {
		c := text[i]
		if c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		if c >= 'A' && c <= 'Z' {
			out = append(out, c)
		}
	}
	return string(out)
}

// Ciphertext returns the cleaned ciphertext this Decryptor searches
// against.
func (d *Decryptor) Ciphertext() string { return d.ciphertext }

// Decrypt runs the three-phase search to completion and returns the
// highest-scoring key found. There is no "decryption failure": a
// ScoredKey is always returned (its score indicates quality, and callers
// decide whether that is convincing) — the only errors are programmer
// errors surfaced from malformed configuration.
//
// ctx is checked between phase-1 wheel-order jobs and between phase-2/3
// per-survivor jobs; canceling it makes Decrypt return the best key found
// up to that point rather than aborting outright.
func (d *Decryptor) Decrypt(ctx context.Context) (key.ScoredKey, error) {
	if d.plugboardFitness == nil {
		return key.ScoredKey{}, fmt.Errorf("decrypt: no phase-3 fitness function configured")
	}

	runID := uuid.New().String()
	log := d.logger.With("run", runID)

	log.Info("phase 1 starting: wheel order and position search by IoC",
		"ciphertext_len", len(d.ciphertext), "strategy", d.strategyName())
	survivors, err := d.phase1(ctx)
	if err != nil {
		return key.ScoredKey{}, fmt.Errorf("decrypt: phase 1: %w", err)
	}
	if len(survivors) == 0 {
		return key.ScoredKey{}, fmt.Errorf("decrypt: phase 1 produced no survivors")
	}
	log.Info("phase 1 complete", "survivors", len(survivors), "best_score", survivors[0].Score)

	log.Info("phase 2 starting: ring setting search by IoC", "candidates", len(survivors))
	refined := d.phase2(ctx, survivors)
	sort.Sort(sort.Reverse(key.ByScore(refined)))
	log.Info("phase 2 complete", "best_score", refined[0].Score)

	log.Info("phase 3 starting: greedy plugboard search", "candidates", len(refined))
	final := d.phase3(ctx, refined)
	sort.Sort(sort.Reverse(key.ByScore(final)))
	best := final[0]
	log.Info("phase 3 complete", "best_score", best.Score, "pairs", best.Pairs)

	log.Info("decrypt complete", "key", best.Key.String(), "score", best.Score)
	return best, nil
}

func (d *Decryptor) strategyName() string {
	if d.strategy == BestPerWheelOrder {
		return "best-per-wheel-order"
	}
	return "top-n"
}
