package keyword

import (
	"testing"
)

func TestExtractBasic(t *testing.T) {
	kws := Extract("A neon cyberpunk city at night")
	want := map[string]bool{"neon": true, "cyberpunk": true, "city": true, "night": true}

	if len(kws) != len(want) {
		t.Fatalf("Expected %d keywords, got %d: %v", len(want), len(kws), kws)
	}
	for _, kw := range kws {
		if !want[kw] {
			t.Errorf("Unexpected keyword: %q", kw)
		}
	}
}

func TestExtractLowercasesAndDedupes(t *testing.T) {
	kws := Extract("Neon NEON neon")
	if len(kws) != 1 || kws[0] != "neon" {
		t.Fatalf("Expected [neon], got %v", kws)
	}
}

func TestExtractStripsPunctuationKeepsHyphens(t *testing.T) {
	kws := Extract("ultra-detailed, cinematic! (masterpiece)")
	want := map[string]bool{"ultra-detailed": true, "cinematic": true, "masterpiece": true}

	for _, kw := range kws {
		if !want[kw] {
			t.Errorf("Unexpected keyword: %q", kw)
		}
		delete(want, kw)
	}
	if len(want) != 0 {
		t.Errorf("Missing keywords: %v", want)
	}
}

func TestExtractDropsShortAndStopWords(t *testing.T) {
	kws := Extract("the cat is on a mat with it")
	// "the"/"with" are stop words, "cat"/"mat" pass, "is"/"on"/"a"/"it" too short
	want := map[string]bool{"cat": true, "mat": true}
	if len(kws) != 2 {
		t.Fatalf("Expected 2 keywords, got %v", kws)
	}
	for _, kw := range kws {
		if !want[kw] {
			t.Errorf("Unexpected keyword: %q", kw)
		}
	}
}

func TestExtractEmpty(t *testing.T) {
	if kws := Extract(""); kws != nil {
		t.Errorf("Expected nil for empty input, got %v", kws)
	}
	if kws := Extract("   \t\n  "); kws != nil {
		t.Errorf("Expected nil for whitespace input, got %v", kws)
	}
	if kws := Extract("!!! ... ---"); len(kws) != 0 {
		t.Errorf("Expected no keywords for punctuation-only input, got %v", kws)
	}
}

func TestSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{"identical", "neon cyberpunk city", "neon cyberpunk city", 1.0},
		{"disjoint", "neon cyberpunk city", "pastel watercolor landscape", 0.0},
		{"both empty", "", "", 0.0},
		{"one empty", "neon city", "", 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Similarity(tt.a, tt.b)
			if got != tt.want {
				t.Errorf("Similarity(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestSimilarityPartialOverlap(t *testing.T) {
	// {neon, city} vs {neon, forest}: intersection 1, union 3
	got := Similarity("neon city", "neon forest")
	want := 1.0 / 3.0
	if got != want {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestSimilaritySymmetric(t *testing.T) {
	a, b := "dark moody forest ambient", "bright cheerful city pop"
	if Similarity(a, b) != Similarity(b, a) {
		t.Error("Similarity should be symmetric")
	}
}
