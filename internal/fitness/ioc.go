// Package fitness scores candidate plaintexts for how English-like they
// are: Index of Coincidence and n-gram log-probability.
package fitness

// Func is a pure mapping from an upper-cased A-Z string to a score, higher
// meaning more English-like. Both IoC and an *Ngram's Score method satisfy
// this signature.
type Func func(text string) float64

// IoC computes the Index of Coincidence of text: the probability that two
// letters drawn at random (without replacement) from text are identical.
// English text scores around 0.067; random letters score around 0.038.
// Non-letter characters are ignored. A text with fewer than two letters
// scores zero.
func IoC(text string) float64 {
	var histogram [26]int
	for _, r := range text {
		if r >= 'a' && r <= 'z' {
			r -= 'a' - 'A'
		}
		if r >= 'A' && r <= 'Z' {
			histogram[r-'A']++
		}
	}

	var pairs, total float64
	for _, f := range histogram {
		pairs += float64(f) * float64(f-1)
		total += float64(f)
	}
	if total <= 1 {
		return 0
	}
	return pairs / (total * (total - 1))
}
