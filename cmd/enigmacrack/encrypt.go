package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"enigmacrack/internal/enigma"
	"enigmacrack/internal/rotor"
)

var (
	encryptWheels   string
	encryptRings    string
	encryptPosition string
	encryptPlugs    string
)

// encryptCmd builds an Enigma from explicit key material and enciphers
// stdin line by line, for manual round-trip testing of a key found by
// crack (or of any key the caller already knows).
var encryptCmd = &cobra.Command{
	Use:   "encrypt",
	Short: "Encipher stdin through an explicit Enigma key.",
	Long: `encrypt reads lines from stdin, enciphers each through an Enigma
machine built from the given wheels, rings, positions, plugboard, and
reflector, and writes the result to stdout. Because the cipher is
reciprocal, running the output back through the same key recovers the
original text.`,
	RunE: runEncrypt,
}

func init() {
	encryptCmd.Flags().StringVar(&encryptWheels, "wheels", "I,II,III", "wheel order, left to right (e.g. V,IV,I)")
	encryptCmd.Flags().StringVar(&encryptRings, "rings", "1,1,1", "ring settings 1-26, left to right")
	encryptCmd.Flags().StringVar(&encryptPosition, "positions", "1,1,1", "starting positions 1-26, left to right")
	encryptCmd.Flags().StringVar(&encryptPlugs, "plugboard", "", "space-separated plugboard pairs (e.g. \"AB CD\")")
	rootCmd.AddCommand(encryptCmd)
}

func runEncrypt(cmd *cobra.Command, args []string) error {
	reflectorName := cfg.Reflector
	if reflectorName == "" {
		reflectorName = "B"
	}

	wheels, err := parseWheels(encryptWheels)
	if err != nil {
		return err
	}
	rings, err := parseTriple(encryptRings)
	if err != nil {
		return fmt.Errorf("rings: %w", err)
	}
	positions, err := parseTriple(encryptPosition)
	if err != nil {
		return fmt.Errorf("positions: %w", err)
	}
	var pairs []string
	if encryptPlugs != "" {
		pairs = strings.Fields(encryptPlugs)
	}

	machine, err := enigma.New(wheels, oneIndexed(rings), oneIndexed(positions), reflectorName, pairs)
	if err != nil {
		return err
	}

	return encipherLines(machine, cmd.InOrStdin(), cmd.OutOrStdout())
}

func encipherLines(machine *enigma.Enigma, r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if _, err := fmt.Fprintln(w, machine.Encrypt(scanner.Text())); err != nil {
			return err
		}
	}
	return scanner.Err()
}

func parseWheels(s string) ([3]rotor.Wheel, error) {
	var out [3]rotor.Wheel
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return out, fmt.Errorf("wheels: want exactly three comma-separated names, got %q", s)
	}
	for i, p := range parts {
		out[i] = rotor.Wheel(strings.TrimSpace(p))
	}
	return out, nil
}

func parseTriple(s string) ([3]int, error) {
	var out [3]int
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return out, fmt.Errorf("want exactly three comma-separated integers, got %q", s)
	}
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return out, fmt.Errorf("%q is not an integer", p)
		}
		out[i] = n
	}
	return out, nil
}

// oneIndexed converts the CLI's 1-26 convention (the historically
// standard way M3 wheel/ring settings are written down) to the library's
// 0-25 convention.
func oneIndexed(v [3]int) [3]int {
	return [3]int{v[0] - 1, v[1] - 1, v[2] - 1}
}
