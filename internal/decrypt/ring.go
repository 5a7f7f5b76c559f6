package decrypt

import (
	"context"
	"sync"

	"enigmacrack/internal/enigma"
	"enigmacrack/internal/fitness"
	"enigmacrack/internal/key"
)

// phase2 optimizes ring settings for the phase-1 survivors, parallelizing
// across survivors (cracking a single key's rings is inherently serial:
// rotor 0 must be cracked before rotor 1, since rotor 1's search happens
// against the ring-0 value already chosen).
func (d *Decryptor) phase2(ctx context.Context, survivors []key.ScoredKey) []key.ScoredKey {
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
				out[i] = bestRingSettingKey(survivors[i], d.ciphertext, fitness.IoC)
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

// bestRingSettingKey cracks rotor 0's (leftmost) ring setting first, then
// rotor 1's (middle). Rotor 2 (rightmost) turns on every letter, so its
// ring setting has no discernible effect on the IoC of the decryption and
// is never searched.
func bestRingSettingKey(k key.ScoredKey, ciphertext string, ioc fitness.Func) key.ScoredKey {
	withRing0 := crackRingSetting(k.Key, ciphertext, 0, ioc)
	withRing1 := crackRingSetting(withRing0.Key, ciphertext, 1, ioc)
	return withRing1
}

// crackRingSetting tries all 26 ring values for rotor rotorIndex. Each
// trial couples the ring increment with an equal increment of that rotor's
// initial position, preserving the rotor's phase against the message
// while visiting all 26 distinct absolute wiring offsets.
func crackRingSetting(k key.Key, ciphertext string, rotorIndex int, ioc fitness.Func) key.ScoredKey {
	machine, err := enigma.FromKey(k)
	if err != nil {
		return key.NewScored(k, negInf)
	}

	ring := k.Rings
	position := k.Positions

	best := key.NewScored(k, negInf)
	for i := 0; i < 26; i++ {
		if err := machine.SetRings(ring); err != nil {
			return key.NewScored(k, negInf)
		}
		if err := machine.SetPositions(position); err != nil {
			return key.NewScored(k, negInf)
		}

		score := ioc(machine.Encrypt(ciphertext))
		if score > best.Score {
			machine.ResetPositions()
			best = key.NewScored(machine.Key(), score)
		}

		ring[rotorIndex] = (ring[rotorIndex] + 1) % 26
		position[rotorIndex] = (position[rotorIndex] + 1) % 26
	}
	return best
}
