package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"enigmacrack/internal/decrypt"
	"enigmacrack/internal/enigma"
	"enigmacrack/internal/fitness"
	"enigmacrack/internal/rotor"
)

var crackInputFile string

// crackCmd runs the three-phase search over a ciphertext and prints the
// winning key and its decryption.
var crackCmd = &cobra.Command{
	Use:   "crack",
	Short: "Recover the wheel order, rings, positions, and plugboard for a ciphertext.",
	Long: `crack reads a ciphertext (from --input, or stdin if --input is
omitted), runs the phase-1/phase-2/phase-3 hill-climbing search described
by Gillogly and refined by Williams, and prints the best-scoring key found
along with the text it decrypts to.`,
	RunE: runCrack,
}

func init() {
	crackCmd.Flags().StringVar(&crackInputFile, "input", "", "file containing the ciphertext (default: stdin)")
	rootCmd.AddCommand(crackCmd)
}

func runCrack(cmd *cobra.Command, args []string) error {
	ciphertext, err := readCiphertext(cmd)
	if err != nil {
		return err
	}

	gramPath := cfg.GramPath()
	gram, err := fitness.LoadNgram(cfg.GramSize(), gramPath)
	if err != nil {
		return fmt.Errorf("crack: loading %s: %w", gramPath, err)
	}

	opts := []decrypt.Option{
		decrypt.WithSurvivorCount(cfg.SurvivorCount),
		decrypt.WithMaxPlugboardPairs(cfg.MaxPlugboardPairs),
		decrypt.WithLogger(newCrackLogger(cmd.ErrOrStderr())),
	}
	if cfg.Workers > 0 {
		opts = append(opts, decrypt.WithWorkers(cfg.Workers))
	}
	if cfg.SurvivorStrategy == "best-per-wheel-order" {
		opts = append(opts, decrypt.WithSurvivorStrategy(decrypt.BestPerWheelOrder))
	}
	d := decrypt.New(ciphertext, gram.Score, opts...)

	best, err := d.Decrypt(context.Background())
	if err != nil {
		return err
	}

	machine, err := enigma.New(wheelsFromStrings(best.Wheels), best.Rings, best.Positions, "B", best.Pairs)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "key:   %s\n", best.Key.String())
	fmt.Fprintf(cmd.OutOrStdout(), "score: %g\n", best.Score)
	fmt.Fprintf(cmd.OutOrStdout(), "text:  %s\n", machine.Encrypt(ciphertext))
	return nil
}

func readCiphertext(cmd *cobra.Command) (string, error) {
	var r io.Reader = cmd.InOrStdin()
	if crackInputFile != "" {
		f, err := os.Open(crackInputFile)
		if err != nil {
			return "", fmt.Errorf("crack: %w", err)
		}
		defer f.Close()
		r = f
	}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(nil, 1<<20)
	var b []byte
	for scanner.Scan() {
		b = append(b, scanner.Bytes()...)
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("crack: reading ciphertext: %w", err)
	}
	return string(b), nil
}

func wheelsFromStrings(ws [3]string) [3]rotor.Wheel {
	return [3]rotor.Wheel{rotor.Wheel(ws[0]), rotor.Wheel(ws[1]), rotor.Wheel(ws[2])}
}

// newCrackLogger builds the slog.Logger the Decryptor reports phase
// progress through: a human-readable text handler for an interactive
// terminal, or a JSON handler when output is redirected to a file or pipe
// (the common case for a long-running search whose log gets collected
// instead of watched).
func newCrackLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}
