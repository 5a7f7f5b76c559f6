// Package key holds the immutable value types exchanged between search
// phases: a machine configuration (Key) and a configuration plus a fitness
// score (ScoredKey).
package key

import "fmt"

// Key is an immutable snapshot of an Enigma configuration: wheel order,
// ring settings, initial positions, and plugboard pairs. The reflector is
// always B; the search never varies it.
type Key struct {
	Wheels    [3]string
	Rings     [3]int
	Positions [3]int
	Pairs     []string
}

// New builds a Key, deep-copying pairs so the returned Key can never be
// mutated by later changes to the caller's slice (or vice versa). Search
// phases snapshot a machine's state into a Key and must not see that Key
// change under them as later phases reuse and mutate the same arrays.
func New(wheels [3]string, rings [3]int, positions [3]int, pairs []string) Key {
	return Key{
		Wheels:    wheels,
		Rings:     rings,
		Positions: positions,
		Pairs:     append([]string(nil), pairs...),
	}
}

// Clone returns a deep copy of k.
func (k Key) Clone() Key {
	return New(k.Wheels, k.Rings, k.Positions, k.Pairs)
}

// WithPairs returns a copy of k with its plugboard pairs replaced.
func (k Key) WithPairs(pairs []string) Key {
	return New(k.Wheels, k.Rings, k.Positions, pairs)
}

// Equal reports whether k and o have identical structural content.
func (k Key) Equal(o Key) bool {
	if k.Wheels != o.Wheels || k.Rings != o.Rings || k.Positions != o.Positions {
		return false
	}
	if len(k.Pairs) != len(o.Pairs) {
		return false
	}
	for i := range k.Pairs {
		if k.Pairs[i] != o.Pairs[i] {
			return false
		}
	}
	return true
}

func (k Key) String() string {
	return fmt.Sprintf("wheels=%v rings=%v positions=%v pairs=%v", k.Wheels, k.Rings, k.Positions, k.Pairs)
}

// ScoredKey is a Key augmented with a fitness score. Ordering is strictly
// by score; ties are broken by a canonical lexicographic comparison on the
// key fields so sorts stay deterministic across runs.
type ScoredKey struct {
	Key
	Score float64
}

// NewScored builds a ScoredKey from a Key plus a score, deep-copying the
// key's pairs.
func NewScored(k Key, score float64) ScoredKey {
	return ScoredKey{Key: k.Clone(), Score: score}
}

// Less reports whether a sorts before b: lower score first, and on a score
// tie, a canonical lexicographic comparison of wheels, then rings, then
// positions, then pairs.
func Less(a, b ScoredKey) bool {
	if a.Score != b.Score {
		return a.Score < b.Score
	}
	return a.Key.tieBreakLess(b.Key)
}

func (k Key) tieBreakLess(o Key) bool {
	if k.Wheels != o.Wheels {
		return lessArray3String(k.Wheels, o.Wheels)
	}
	if k.Rings != o.Rings {
		return lessArray3Int(k.Rings, o.Rings)
	}
	if k.Positions != o.Positions {
		return lessArray3Int(k.Positions, o.Positions)
	}
	return lessStringSlice(k.Pairs, o.Pairs)
}

func lessArray3String(a, b [3]string) bool {
	for i := 0; i < 3; i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}

func lessArray3Int(a, b [3]int) bool {
	for i := 0; i < 3; i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}

func lessStringSlice(a, b []string) bool {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}

func (sk ScoredKey) String() string {
	return fmt.Sprintf("%s score=%f", sk.Key.String(), sk.Score)
}

// ByScore implements sort.Interface for ascending order, with the
// deterministic tie-break from Less.
type ByScore []ScoredKey

func (s ByScore) Len() int           { return len(s) }
func (s ByScore) Swap(i, j int)      { s[i], s[j] = s[j], s[i] }
func (s ByScore) Less(i, j int) bool { return Less(s[i], s[j]) }
