package decrypt

import (
	"container/heap"
	"context"
	"sort"
	"sync"

	"enigmacrack/internal/enigma"
	"enigmacrack/internal/fitness"
	"enigmacrack/internal/key"
	"enigmacrack/internal/rotor"
)

// wheelCombinations enumerates every ordered triple of distinct wheels
// drawn from the five M3 types: 5*4*3 = 60 combinations.
func wheelCombinations() [][3]rotor.Wheel {
	var combos [][3]rotor.Wheel
	for _, w0 := range rotor.Wheels {
		for _, w1 := range rotor.Wheels {
			if w1 == w0 {
				continue
			}
			for _, w2 := range rotor.Wheels {
				if w2 == w0 || w2 == w1 {
					continue
				}
				combos = append(combos, [3]rotor.Wheel{w0, w1, w2})
			}
		}
	}
	return combos
}

// bestPositionForWheels scans all 26^3 starting positions for one wheel
// order, rings held at zero and the plugboard empty, and returns the
// single highest-IoC-scoring ScoredKey.
func bestPositionForWheels(wheels [3]rotor.Wheel, ciphertext string, ioc fitness.Func) (key.ScoredKey, error) {
	machine, err := enigma.New(wheels, [3]int{0, 0, 0}, [3]int{0, 0, 0}, "B", nil)
	if err != nil {
		return key.ScoredKey{}, err
	}

	best := key.NewScored(machine.Key(), negInf)
	for p0 := 0; p0 < 26; p0++ {
		for p1 := 0; p1 < 26; p1++ {
			for p2 := 0; p2 < 26; p2++ {
				if err := machine.SetPositions([3]int{p0, p1, p2}); err != nil {
					return key.ScoredKey{}, err
				}
				score := ioc(machine.Encrypt(ciphertext))
				if score > best.Score {
					machine.ResetPositions()
					best = key.NewScored(machine.Key(), score)
				}
			}
		}
	}
	return best, nil
}

// phase1 runs the position-cracking phase: wheel order and initial position
// search by Index of Coincidence, parallelized across the 60 wheel
// combinations, reduced to the configured number of survivors.
func (d *Decryptor) phase1(ctx context.Context) ([]key.ScoredKey, error) {
	combos := wheelCombinations()
	jobs := make(chan [3]rotor.Wheel)

	var (
		mu      sync.Mutex
		errOnce error
		collect topKCollector
	)
	if d.strategy == BestPerWheelOrder {
		collect = newUnboundedCollector()
	} else {
		collect = newBoundedCollector(d.survivorCount)
	}

	var wg sync.WaitGroup
	workers := d.workers
	if workers < 1 {
		workers = 1
	}
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for wheels := range jobs {
				if ctxDone(ctx) {
					continue
				}
				switch d.strategy {
				case BestPerWheelOrder:
					best, err := bestPositionForWheels(wheels, d.ciphertext, fitness.IoC)
					mu.Lock()
					if err != nil {
						if errOnce == nil {
							errOnce = err
						}
					} else {
						collect.push(best)
					}
					mu.Unlock()
				default:
					err := scanPositionsInto(wheels, d.ciphertext, fitness.IoC, &mu, collect, ctx)
					if err != nil {
						mu.Lock()
						if errOnce == nil {
							errOnce = err
						}
						mu.Unlock()
					}
				}
			}
		}()
	}

	go func() {
		for _, c := range combos {
			jobs <- c
		}
		close(jobs)
	}()
	wg.Wait()

	if errOnce != nil {
		return nil, errOnce
	}

	survivors := collect.drain()
	sort.Sort(sort.Reverse(key.ByScore(survivors)))
	return survivors, nil
}

// scanPositionsInto scans every position for wheels and pushes every trial
// into collect, under mu (collect is shared across workers). Cancellation
// is checked once per leftmost-rotor position (every 676 trials), not
// between individual trials.
func scanPositionsInto(wheels [3]rotor.Wheel, ciphertext string, ioc fitness.Func, mu *sync.Mutex, collect topKCollector, ctx context.Context) error {
	machine, err := enigma.New(wheels, [3]int{0, 0, 0}, [3]int{0, 0, 0}, "B", nil)
	if err != nil {
		return err
	}
	for p0 := 0; p0 < 26; p0++ {
		if ctxDone(ctx) {
			return nil
		}
		for p1 := 0; p1 < 26; p1++ {
			for p2 := 0; p2 < 26; p2++ {
				if err := machine.SetPositions([3]int{p0, p1, p2}); err != nil {
					return err
				}
				score := ioc(machine.Encrypt(ciphertext))
				machine.ResetPositions()
				sk := key.NewScored(machine.Key(), score)
				mu.Lock()
				collect.push(sk)
				mu.Unlock()
			}
		}
	}
	return nil
}

func ctxDone(ctx context.Context) bool {
	if ctx == nil {
		return false
	}
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}

const negInf = -1e308

// topKCollector accumulates ScoredKeys from many goroutines into a single
// ranked set.
type topKCollector interface {
	push(key.ScoredKey)
	drain() []key.ScoredKey
}

// boundedCollector keeps only the top n scores seen, via a min-heap: the
// root is always the weakest kept candidate, so a worse newcomer is
// dropped in O(1) and a better one evicts the root in O(log n). This keeps
// phase 1's memory bounded to the survivor count instead of all 1,054,560
// trial results.
type boundedCollector struct {
	n int
	h scoredKeyHeap
}

func newBoundedCollector(n int) *boundedCollector {
	if n < 1 {
		n = 1
	}
	return &boundedCollector{n: n}
}

func (c *boundedCollector) push(sk key.ScoredKey) {
	if len(c.h) < c.n {
		heap.Push(&c.h, sk)
		return
	}
	if len(c.h) > 0 && key.Less(c.h[0], sk) {
		heap.Pop(&c.h)
		heap.Push(&c.h, sk)
	}
}

func (c *boundedCollector) drain() []key.ScoredKey {
	out := make([]key.ScoredKey, len(c.h))
	copy(out, c.h)
	return out
}

// unboundedCollector keeps every pushed key, used for the BestPerWheelOrder
// strategy where only 60 keys are ever pushed.
type unboundedCollector struct {
	keys []key.ScoredKey
}

func newUnboundedCollector() *unboundedCollector { return &unboundedCollector{} }

func (c *unboundedCollector) push(sk key.ScoredKey) { c.keys = append(c.keys, sk) }
func (c *unboundedCollector) drain() []key.ScoredKey {
	out := make([]key.ScoredKey, len(c.keys))
	copy(out, c.keys)
	return out
}

// scoredKeyHeap is a min-heap of ScoredKey ordered by key.Less (ascending
// score), so the weakest candidate is always at the root.
type scoredKeyHeap []key.ScoredKey

func (h scoredKeyHeap) Len() int            { return len(h) }
func (h scoredKeyHeap) Less(i, j int) bool  { return key.Less(h[i], h[j]) }
func (h scoredKeyHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *scoredKeyHeap) Push(x interface{}) { *h = append(*h, x.(key.ScoredKey)) }
func (h *scoredKeyHeap) Pop() interface{} {
	old := *h
	n := len(old)
	v := old[n-1]
	*h = old[:n-1]
	return v
}
