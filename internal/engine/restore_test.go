package engine

import "testing"

func TestIsDefinitelyEnglish(t *testing.T) {
	tests := []struct {
		word string
		want bool
	}{
		{"viet", false},
		{"chao", false},
		{"nghia", false},
		{"string", true},  // englishStartClusters "str"
		{"think", true},   // ends in englishEndingConsonant k / "nk" ending cluster
		{"was", true},     // bare trailing s, len > 2
		{"school", true},  // "sch" start cluster
		{"knight", true},  // "kn" start anchored pattern
		{"toan", false},
	}
	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			got := IsDefinitelyEnglish(tt.word)
			if got != tt.want {
				t.Errorf("IsDefinitelyEnglish(%q) = %v, want %v", tt.word, got, tt.want)
			}
		})
	}
}

func TestIsDefinitelyEnglishStartOnly(t *testing.T) {
	tests := []struct {
		word string
		want bool
	}{
		{"str", true},
		{"thr", true},
		{"kn", true},
		{"viet", false},
		{"think", false}, // ending-anchored rule ("nk") must NOT fire mid-typing
	}
	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			got := isDefinitelyEnglishStartOnly(tt.word)
			if got != tt.want {
				t.Errorf("isDefinitelyEnglishStartOnly(%q) = %v, want %v", tt.word, got, tt.want)
			}
		})
	}
}

func TestRestoreController_Decide(t *testing.T) {
	c := NewRestoreController()

	t.Run("valid vietnamese word never restores", func(t *testing.T) {
		w := NewWordState()
		w.SetConsonant1("ch")
		w.AddVowel('a')
		w.AddVowel('o')
		w.SetTone(MarkGrave, 0)
		got := c.Decide(w, "chaof", 5, true)
		if got.ShouldRestore {
			t.Errorf("Decide(chào) = %+v, want ShouldRestore=false", got)
		}
	})

	t.Run("single entry never restores", func(t *testing.T) {
		w := NewWordState()
		w.SetConsonant1("x")
		got := c.Decide(w, "x", 1, true)
		if got.ShouldRestore {
			t.Errorf("Decide(single entry) = %+v, want ShouldRestore=false", got)
		}
	})

	t.Run("invalid cluster plus english ending restores at word break", func(t *testing.T) {
		w := NewWordState()
		w.SetConsonant1("th")
		w.AddVowel('i')
		w.SetConsonant2("nk")
		got := c.Decide(w, "think", 5, true)
		if !got.ShouldRestore || !got.NewSession {
			t.Errorf("Decide(think) = %+v, want ShouldRestore=true, NewSession=true", got)
		}
	})

	t.Run("mid-typing uses start-only heuristic", func(t *testing.T) {
		w := NewWordState()
		w.SetConsonant1("th")
		w.AddVowel('i')
		w.SetConsonant2("nk")
		got := c.Decide(w, "think", 5, false)
		if got.ShouldRestore {
			t.Errorf("Decide(think, mid-typing) = %+v, want ShouldRestore=false (ending rules excluded)", got)
		}
	})
}
