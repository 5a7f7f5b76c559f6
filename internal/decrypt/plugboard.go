package decrypt

import (
	"context"
	"sync"

	"enigmacrack/internal/enigma"
	"enigmacrack/internal/fitness"
	"enigmacrack/internal/key"
)

// phase3 greedily grows the plugboard for each phase-2 survivor,
// parallelizing across survivors.
func (d *Decryptor) phase3(ctx context.Context, survivors []key.ScoredKey) []key.ScoredKey {
	out := make([]key.ScoredKey, len(survivors))
	jobs := make(chan int)

	var wg sync.WaitGroup
	workers := d.workers
	if workers < 1 {
		workers = 1
	}
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				if ctxDone(ctx) {
					out[i] = survivors[i]
					continue
				}
				out[i] = bestPlugboardKey(survivors[i], d.ciphertext, d.plugboardFitness, d.maxPlugboardPairs)
			}
		}()
	}
	go func() {
		for i := range survivors {
			jobs <- i
		}
		close(jobs)
	}()
	wg.Wait()
	return out
}

// bestPlugboardKey greedily grows key's plugboard. Starting from key's
// existing pairs (usually none), the incumbent score is recomputed with fit
// on key's own decryption (k.Score is not used, since it may come from a
// different fitness function). Each outer round tries every unordered pair
// of unplugged letters,
// rebuilding the plugboard from the current best pair list plus the
// candidate pair each time (never incrementally adding/removing on a
// reused machine, which would leave stale state behind). The round's best
// candidate is committed only if it strictly improves the incumbent;
// otherwise the climb stops. At most maxPairs rounds run, so at most
// maxPairs pairs are added to the existing ones.
func bestPlugboardKey(k key.ScoredKey, ciphertext string, fit fitness.Func, maxPairs int) key.ScoredKey {
	bestPairs := append([]string(nil), k.Pairs...)

	plugged := [26]bool{}
	for _, p := range bestPairs {
		plugged[p[0]-'A'] = true
		plugged[p[1]-'A'] = true
	}

	incumbentScore, err := scorePairs(k.Key, ciphertext, bestPairs, fit)
	if err != nil {
		return k
	}
	best := key.NewScored(k.WithPairs(bestPairs), incumbentScore)

	for round := 0; round < maxPairs; round++ {
		bestPair := ""
		roundScore := incumbentScore

		for p1 := byte('A'); p1 <= 'Z'; p1++ {
			if plugged[p1-'A'] {
				continue
			}
			for p2 := p1 + 1; p2 <= 'Z'; p2++ {
				if plugged[p2-'A'] {
					continue
				}
				trialPairs := append(append([]string(nil), bestPairs...), string([]byte{p1, p2}))
				score, err := scorePairs(k.Key, ciphertext, trialPairs, fit)
				if err != nil {
					continue
				}
				if score > roundScore {
					roundScore = score
					bestPair = string([]byte{p1, p2})
				}
			}
		}

		if bestPair == "" || roundScore <= incumbentScore {
			break
		}

		bestPairs = append(bestPairs, bestPair)
		plugged[bestPair[0]-'A'] = true
		plugged[bestPair[1]-'A'] = true
		incumbentScore = roundScore
		best = key.NewScored(k.WithPairs(bestPairs), incumbentScore)
	}

	return best
}

// scorePairs builds a fresh Enigma from k with pairs installed, so every
// trial starts from k's initial positions with no residual state from a
// previous candidate's plugboard.
func scorePairs(k key.Key, ciphertext string, pairs []string, fit fitness.Func) (float64, error) {
	machine, err := enigma.FromKey(k.WithPairs(pairs))
	if err != nil {
		return 0, err
	}
	return fit(machine.Encrypt(ciphertext)), nil
}
