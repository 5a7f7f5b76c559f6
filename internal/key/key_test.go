package key

import (
	"sort"
	"testing"
)

func TestNewDeepCopiesPairs(t *testing.T) {
	pairs := []string{"AB", "CD"}
	k := New([3]string{"I", "II", "III"}, [3]int{0, 0, 0}, [3]int{0, 0, 0}, pairs)
	pairs[0] = "ZZ"
	if k.Pairs[0] != "AB" {
		t.Fatalf("Key.Pairs mutated by caller's slice: got %q", k.Pairs[0])
	}
}

func TestCloneIsIndependent(t *testing.T) {
	k := New([3]string{"I", "II", "III"}, [3]int{1, 2, 3}, [3]int{4, 5, 6}, []string{"AB"})
	c := k.Clone()
	c.Pairs[0] = "ZZ"
	if k.Pairs[0] != "AB" {
		t.Fatalf("mutating clone's pairs affected original: %q", k.Pairs[0])
	}
}

func TestEqual(t *testing.T) {
	a := New([3]string{"I", "II", "III"}, [3]int{0, 0, 0}, [3]int{0, 0, 0}, []string{"AB"})
	b := a.Clone()
	if !a.Equal(b) {
		t.Fatal("expected clone to equal original")
	}
	b.Pairs[0] = "ZZ"
	if a.Equal(b) {
		t.Fatal("expected mutated clone to differ")
	}
}

func TestByScoreSortsAscendingWithDeterministicTiebreak(t *testing.T) {
	base := New([3]string{"I", "II", "III"}, [3]int{0, 0, 0}, [3]int{0, 0, 0}, nil)
	keys := []ScoredKey{
		NewScored(New([3]string{"V", "IV", "I"}, [3]int{0, 0, 0}, [3]int{0, 0, 0}, nil), 0.05),
		NewScored(base, 0.07),
		NewScored(New([3]string{"I", "II", "III"}, [3]int{1, 0, 0}, [3]int{0, 0, 0}, nil), 0.05),
	}
	sort.Sort(ByScore(keys))
	if keys[0].Score != 0.05 || keys[1].Score != 0.05 || keys[2].Score != 0.07 {
		t.Fatalf("expected ascending score order, got %v", keys)
	}
	// Among the two 0.05 entries, the tie-break is lexicographic on wheels
	// first: "I" < "V", so the all-I-II-III key sorts first.
	if keys[0].Wheels[0] != "I" {
		t.Fatalf("expected tie broken by wheels, got %v then %v", keys[0], keys[1])
	}
}

func TestWithPairs(t *testing.T) {
	k := New([3]string{"I", "II", "III"}, [3]int{0, 0, 0}, [3]int{0, 0, 0}, []string{"AB"})
	k2 := k.WithPairs([]string{"CD", "EF"})
	if len(k.Pairs) != 1 || k.Pairs[0] != "AB" {
		t.Fatal("WithPairs mutated the receiver")
	}
	if len(k2.Pairs) != 2 {
		t.Fatal("WithPairs did not install the new pairs")
	}
}
