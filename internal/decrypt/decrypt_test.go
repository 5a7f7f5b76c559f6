package decrypt

import (
	"context"
	"testing"

	"enigmacrack/internal/enigma"
	"enigmacrack/internal/fitness"
	"enigmacrack/internal/key"
	"enigmacrack/internal/rotor"
)

func TestWheelCombinationsCountAndDistinctness(t *testing.T) {
	combos := wheelCombinations()
	if len(combos) != 60 {
		t.Fatalf("len(wheelCombinations()) = %d, want 60", len(combos))
	}
	seen := map[[3]rotor.Wheel]bool{}
	for _, c := range combos {
		if c[0] == c[1] || c[1] == c[2] || c[0] == c[2] {
			t.Fatalf("combination %v has a repeated wheel", c)
		}
		if seen[c] {
			t.Fatalf("combination %v listed twice", c)
		}
		seen[c] = true
	}
}

func TestBestPositionForWheelsFindsKnownPositions(t *testing.T) {
	machine, err := enigma.New([3]rotor.Wheel{rotor.V, rotor.IV, rotor.I}, [3]int{0, 0, 0}, [3]int{22, 22, 1}, "B", nil)
	if err != nil {
		t.Fatal(err)
	}
	ciphertext := machine.Encrypt(imitationGameNoPlugsPlaintextForTest)

	best, err := bestPositionForWheels([3]rotor.Wheel{rotor.V, rotor.IV, rotor.I}, ciphertext, fitness.IoC)
	if err != nil {
		t.Fatal(err)
	}
	if best.Positions != [3]int{22, 22, 1} {
		t.Errorf("recovered positions = %v, want [22 22 1]", best.Positions)
	}
}

// imitationGameNoPlugsPlaintextForTest is plain English prose (IoC about
// 0.073), so the decrypt at the true positions stands well above the
// ~0.04-0.05 that wrong positions reach by chance. The ciphertext is made
// with rings at zero, the same rings the phase-1 scan holds.
const imitationGameNoPlugsPlaintextForTest = "THEWEATHERSTATIONREPORTSHEAVYRAINANDSTRONGWINDSALONGTHENORTHERNCOASTSHIPSINTHEAREASHOULDREMAININHARBOURUNTILTHESTORMHASPASSEDANDTHESEAISCALMAGAIN"

func TestCrackRingSettingReturnsRingInRange(t *testing.T) {
	machine, err := enigma.New([3]rotor.Wheel{rotor.I, rotor.II, rotor.III}, [3]int{0, 0, 0}, [3]int{0, 0, 0}, "B", nil)
	if err != nil {
		t.Fatal(err)
	}
	ciphertext := machine.Encrypt("THISISATESTOFTHERINGSETTINGSEARCHANDITSBEHAVIOR")

	k := key.New([3]string{"I", "II", "III"}, [3]int{0, 0, 0}, [3]int{0, 0, 0}, nil)
	best := crackRingSetting(k, ciphertext, 0, fitness.IoC)
	if best.Rings[0] < 0 || best.Rings[0] > 25 {
		t.Errorf("cracked ring[0] = %d, out of range", best.Rings[0])
	}
}

func TestBestPlugboardKeyNeverWorsensTheIncumbent(t *testing.T) {
	machine, err := enigma.New([3]rotor.Wheel{rotor.I, rotor.II, rotor.III}, [3]int{0, 0, 0}, [3]int{0, 0, 0}, "B", []string{"AB", "CD"})
	if err != nil {
		t.Fatal(err)
	}
	ciphertext := machine.Encrypt("THEQUICKBROWNFOXJUMPSOVERTHELAZYDOGPACKMYBOXWITHFIVEDOZENLIQUORJUGS")

	k := key.NewScored(key.New([3]string{"I", "II", "III"}, [3]int{0, 0, 0}, [3]int{0, 0, 0}, nil), fitness.IoC(enigma.Default().Encrypt(ciphertext)))
	got := bestPlugboardKey(k, ciphertext, fitness.IoC, 10)
	if got.Score < k.Score {
		t.Errorf("plugboard search worsened the score: %v < %v", got.Score, k.Score)
	}
}

func TestBestPlugboardKeyRespectsMaxPairsCap(t *testing.T) {
	machine := enigma.Default()
	ciphertext := machine.Encrypt("THEQUICKBROWNFOXJUMPSOVERTHELAZYDOGPACKMYBOXWITHFIVEDOZENLIQUORJUGS")
	k := key.NewScored(key.New([3]string{"I", "II", "III"}, [3]int{0, 0, 0}, [3]int{0, 0, 0}, nil), fitness.IoC(ciphertext))

	// A pathological "fitness" that always prefers more plugs keeps adding
	// pairs every round, so the cap is the only thing that can stop it.
	calls := 0
	alwaysImprove := func(text string) float64 { calls++; return float64(calls) }
	got := bestPlugboardKey(k, ciphertext, alwaysImprove, 3)
	if len(got.Pairs) > 3 {
		t.Errorf("len(Pairs) = %d, want <= 3", len(got.Pairs))
	}
}

func TestDecryptRecoversPositionAndWheelsForShortSearch(t *testing.T) {
	// Exercise the full pipeline end to end on a small, fast configuration
	// (plugboard fitness is IoC-in-disguise here and phase 3 runs a single
	// round, so the test stays cheap and deterministic without needing real
	// n-gram tables).
	machine, err := enigma.New([3]rotor.Wheel{rotor.III, rotor.II, rotor.I}, [3]int{0, 0, 0}, [3]int{5, 10, 3}, "B", nil)
	if err != nil {
		t.Fatal(err)
	}
	plaintext := imitationGameNoPlugsPlaintextForTest
	ciphertext := machine.Encrypt(plaintext)

	d := New(ciphertext, fitness.IoC,
		WithWorkers(2),
		WithSurvivorStrategy(BestPerWheelOrder),
		WithMaxPlugboardPairs(1),
	)
	best, err := d.Decrypt(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if best.Wheels != [3]string{"III", "II", "I"} {
		t.Errorf("recovered wheels = %v, want [III II I]", best.Wheels)
	}
	if best.Positions != [3]int{5, 10, 3} {
		t.Errorf("recovered positions = %v, want [5 10 3]", best.Positions)
	}
}

func TestDecryptRejectsNilPlugboardFitness(t *testing.T) {
	d := New("ANYTHING", nil)
	if _, err := d.Decrypt(context.Background()); err == nil {
		t.Fatal("expected error for nil plugboard fitness function")
	}
}

func TestCleanUppercasesAndFiltersNonLetters(t *testing.T) {
	d := New("Hello, World! 123", fitness.IoC)
	if d.Ciphertext() != "HELLOWORLD" {
		t.Errorf("Ciphertext() = %q, want %q", d.Ciphertext(), "HELLOWORLD")
	}
}

func TestBoundedCollectorKeepsOnlyTopN(t *testing.T) {
	c := newBoundedCollector(2)
	base := key.New([3]string{"I", "II", "III"}, [3]int{0, 0, 0}, [3]int{0, 0, 0}, nil)
	scores := []float64{0.01, 0.05, 0.03, 0.09, 0.02}
	for _, s := range scores {
		c.push(key.NewScored(base, s))
	}
	got := c.drain()
	if len(got) != 2 {
		t.Fatalf("len(drain()) = %d, want 2", len(got))
	}
	var best, second float64
	if got[0].Score > got[1].Score {
		best, second = got[0].Score, got[1].Score
	} else {
		best, second = got[1].Score, got[0].Score
	}
	if best != 0.09 || second != 0.05 {
		t.Errorf("kept scores = [%v %v], want [0.09 0.05]", best, second)
	}
}
