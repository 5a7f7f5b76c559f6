package config

import "testing"

func TestDefaultsMatchSpecDefaults(t *testing.T) {
	d := Defaults()
	if d.SurvivorCount != 100 {
		t.Errorf("SurvivorCount = %d, want 100", d.SurvivorCount)
	}
	if d.MaxPlugboardPairs != 10 {
		t.Errorf("MaxPlugboardPairs = %d, want 10", d.MaxPlugboardPairs)
	}
	if d.Reflector != "B" {
		t.Errorf("Reflector = %q, want %q", d.Reflector, "B")
	}
	if d.DataDir != "data" {
		t.Errorf("DataDir = %q, want %q", d.DataDir, "data")
	}
}

func TestLoadWithMissingExplicitConfigFileFails(t *testing.T) {
	cfg, _, err := Load("/nonexistent/path/that/does/not/exist.yaml")
	if err == nil {
		t.Fatalf("expected an error for an explicit, missing config file path")
	}
	_ = cfg
}

func TestGramPathAndSize(t *testing.T) {
	cases := []struct {
		gram     string
		wantPath string
		wantSize int
	}{
		{"bigram", "data/bigrams.txt", 2},
		{"trigram", "data/trigrams.txt", 3},
		{"quadgram", "data/quadgrams.txt", 4},
		{"unknown", "data/bigrams.txt", 2},
	}
	for _, c := range cases {
		cfg := Config{DataDir: "data", PlugboardGram: c.gram}
		if got := cfg.GramPath(); got != c.wantPath {
			t.Errorf("GramPath() for %q = %q, want %q", c.gram, got, c.wantPath)
		}
		if got := cfg.GramSize(); got != c.wantSize {
			t.Errorf("GramSize() for %q = %d, want %d", c.gram, got, c.wantSize)
		}
	}
}
