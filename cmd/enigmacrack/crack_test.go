package main

import (
	"testing"

	"enigmacrack/internal/rotor"
)

func TestWheelsFromStrings(t *testing.T) {
	got := wheelsFromStrings([3]string{"V", "IV", "I"})
	want := [3]rotor.Wheel{rotor.V, rotor.IV, rotor.I}
	if got != want {
		t.Errorf("wheelsFromStrings = %v, want %v", got, want)
	}
}
