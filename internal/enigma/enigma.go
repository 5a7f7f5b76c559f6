// Package enigma composes three rotors, a reflector, and a plugboard into a
// reciprocal cipher with the M3's stepping behavior, including the
// double-step anomaly.
package enigma

import (
	"fmt"
	"strings"

	"enigmacrack/internal/key"
	"enigmacrack/internal/rotor"
)

// reflectors holds the two supported reflector wirings. Both are fixed
// involutions with no fixed points.
var reflectors = map[string]string{
	"B": "YRUHQSLDPXNGOKMIEBFZCWVJAT",
	"C": "RDOBJNTKVEHMLFCWZAXGYIPSUQ",
}

// Enigma is a three-rotor M3 machine: mutable, reused across many trials
// within a search phase.
type Enigma struct {
	rotors    [3]*rotor.Rotor
	reflector [26]int
	refName   string

	plugboard [26]int
	pairs     []string // ordered, for observability; mirrors plugboard
}

// New builds an Enigma from explicit arrays. wheels[0] is the leftmost
// (slowest) rotor, wheels[2] the rightmost (fastest). reflectorName is "B"
// or "C". pairs may be nil or empty.
func New(wheels [3]rotor.Wheel, rings [3]int, positions [3]int, reflectorName string, pairs []string) (*Enigma, error) {
	e := &Enigma{}
	for i := 0; i < 3; i++ {
		r, err := rotor.New(wheels[i], rings[i], positions[i])
		if err != nil {
			return nil, fmt.Errorf("enigma: rotor %d: %w", i, err)
		}
		e.rotors[i] = r
	}
	if err := e.SetReflector(reflectorName); err != nil {
		return nil, err
	}
	if err := e.SetPlugboard(pairs); err != nil {
		return nil, err
	}
	return e, nil
}

// FromKey builds an Enigma whose wheels, rings, positions, and plugboard
// match k. The reflector defaults to B, as the Key type never records a
// reflector choice (spec: "The reflector is always B").
func FromKey(k key.Key) (*Enigma, error) {
	var wheels [3]rotor.Wheel
	for i, w := range k.Wheels {
		wheels[i] = rotor.Wheel(w)
	}
	return New(wheels, k.Rings, k.Positions, "B", k.Pairs)
}

// Default returns the canonical starting configuration: wheels I, II, III,
// all rings and positions zero, no plugboard, reflector B.
func Default() *Enigma {
	e, err := New([3]rotor.Wheel{rotor.I, rotor.II, rotor.III}, [3]int{0, 0, 0}, [3]int{0, 0, 0}, "B", nil)
	if err != nil {
		// unreachable: the canonical configuration is always valid.
		panic(err)
	}
	return e
}

// SetReflector installs the named reflector ("B" or "C").
func (e *Enigma) SetReflector(name string) error {
	wiring, ok := reflectors[name]
	if !ok {
		return fmt.Errorf("enigma: invalid reflector %q", name)
	}
	var table [26]int
	for i := 0; i < 26; i++ {
		table[i] = int(wiring[i] - 'A')
	}
	e.refName = name
	e.reflector = table
	return nil
}

// SetWheels swaps in new wheel types for all three rotors, leaving ring and
// position state untouched.
func (e *Enigma) SetWheels(wheels [3]rotor.Wheel) error {
	for i := 0; i < 3; i++ {
		if err := e.rotors[i].SetWheel(wheels[i]); err != nil {
			return fmt.Errorf("enigma: rotor %d: %w", i, err)
		}
	}
	return nil
}

// SetRings sets the ring setting of each rotor. Positions are not disturbed.
func (e *Enigma) SetRings(rings [3]int) error {
	for i := 0; i < 3; i++ {
		if err := e.rotors[i].SetRing(rings[i]); err != nil {
			return fmt.Errorf("enigma: rotor %d: %w", i, err)
		}
	}
	return nil
}

// SetPositions sets the current (and remembered-initial) position of each
// rotor, so a later ResetPositions returns here.
func (e *Enigma) SetPositions(positions [3]int) error {
	for i := 0; i < 3; i++ {
		if err := e.rotors[i].SetPosition(positions[i]); err != nil {
			return fmt.Errorf("enigma: rotor %d: %w", i, err)
		}
	}
	return nil
}

// ResetPositions restores every rotor to the position most recently passed
// to SetPositions. Trial isolation between search candidates depends on
// calling this before every encipherment.
func (e *Enigma) ResetPositions() {
	for _, r := range e.rotors {
		r.ResetPosition()
	}
}

// Rotors exposes the rotor slots directly, mainly for inspection/tests.
func (e *Enigma) Rotors() [3]*rotor.Rotor { return e.rotors }

// Positions returns the current position of each rotor.
func (e *Enigma) Positions() [3]int {
	var p [3]int
	for i, r := range e.rotors {
		p[i] = r.Position()
	}
	return p
}

// Rings returns the current ring setting of each rotor.
func (e *Enigma) Rings() [3]int {
	var rs [3]int
	for i, r := range e.rotors {
		rs[i] = r.Ring()
	}
	return rs
}

// Wheels returns the current wheel type of each rotor.
func (e *Enigma) Wheels() [3]rotor.Wheel {
	var ws [3]rotor.Wheel
	for i, r := range e.rotors {
		ws[i] = r.Wheel()
	}
	return ws
}

// SetPlugboard clears the plugboard and installs pairs from scratch. A pair
// is a two-letter string of distinct letters; a letter already plugged by
// an earlier pair in the list is an error.
func (e *Enigma) SetPlugboard(pairs []string) error {
	for i := range e.plugboard {
		e.plugboard[i] = i
	}
	e.pairs = nil
	for _, p := range pairs {
		if err := e.AddPair(p); err != nil {
			return err
		}
	}
	return nil
}

// AddPair installs one additional plugboard pair on top of whatever is
// already configured. Either letter already being paired is an error.
func (e *Enigma) AddPair(pair string) error {
	pair = strings.ToUpper(pair)
	if len(pair) != 2 {
		return fmt.Errorf("enigma: plugboard pair %q must be exactly two letters", pair)
	}
	a, b := int(pair[0]-'A'), int(pair[1]-'A')
	if a < 0 || a > 25 || b < 0 || b > 25 {
		return fmt.Errorf("enigma: plugboard pair %q must be letters A-Z", pair)
	}
	if a == b {
		return fmt.Errorf("enigma: plugboard pair %q pairs a letter with itself", pair)
	}
	if e.plugboard[a] != a {
		return fmt.Errorf("enigma: letter %c is already plugged", pair[0])
	}
	if e.plugboard[b] != b {
		return fmt.Errorf("enigma: letter %c is already plugged", pair[1])
	}
	e.plugboard[a] = b
	e.plugboard[b] = a
	e.pairs = append(e.pairs, pair)
	return nil
}

// Pairs returns the ordered list of plugboard pair strings currently
// installed.
func (e *Enigma) Pairs() []string {
	out := make([]string, len(e.pairs))
	copy(out, e.pairs)
	return out
}

// step advances the rotors by one position, applying the double-step
// anomaly. All three checks read positions as observed before any
// advancement in this call.
func (e *Enigma) step() {
	middleAtNotch := e.rotors[1].AtTurnover()
	rightAtNotch := e.rotors[2].AtTurnover()

	if middleAtNotch {
		e.rotors[0].Turn()
		e.rotors[1].Turn()
	} else if rightAtNotch {
		e.rotors[1].Turn()
	}
	e.rotors[2].Turn()
}

// cipher enciphers a single letter (0-25): step, plugboard, rotors 2->1->0
// forward, reflector, rotors 0->1->2 inverse, plugboard again.
func (e *Enigma) cipher(letter int) int {
	e.step()

	c := e.plugboard[letter]
	for i := 2; i >= 0; i-- {
		c = e.rotors[i].Forward(c)
	}
	c = e.reflector[c]
	for i := 0; i < 3; i++ {
		c = e.rotors[i].Inverse(c)
	}
	return e.plugboard[c]
}

// Encrypt upper-cases text, discards every character outside A-Z, and
// enciphers what remains into a contiguous upper-case block. Because the
// cipher is reciprocal, encrypting a ciphertext with the same configuration
// (positions reset to their initial values first) reproduces the plaintext.
func (e *Enigma) Encrypt(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range strings.ToUpper(text) {
		if r < 'A' || r > 'Z' {
			continue
		}
		out := e.cipher(int(r - 'A'))
		b.WriteByte(byte('A' + out))
	}
	return b.String()
}

// Key snapshots the current wheels, rings, positions, and plugboard pairs
// into an immutable Key.
func (e *Enigma) Key() key.Key {
	wheels := e.Wheels()
	var wheelStrs [3]string
	for i, w := range wheels {
		wheelStrs[i] = string(w)
	}
	return key.New(wheelStrs, e.Rings(), e.Positions(), e.Pairs())
}
