package engine

import "strings"

// WordState is the phonological decomposition derived from the buffer
// (spec §3): initial consonant, vowel cluster, final consonant, and tone.
type WordState struct {
	Consonant1   string // phụ âm đầu
	VowelSeq     []rune // nguyên âm, in typed order, with diacritics/case applied
	Consonant2   string // phụ âm cuối
	Tone         Mark
	TonePosition int // index into VowelSeq; meaningful only if Tone != MarkNone
}

// NewWordState returns an empty Word State.
func NewWordState() *WordState { return &WordState{TonePosition: -1} }

// SetConsonant1 sets the initial consonant.
func (w *WordState) SetConsonant1(c string) { w.Consonant1 = c }

// SetConsonant2 sets the final consonant.
func (w *WordState) SetConsonant2(c string) { w.Consonant2 = c }

// AddVowel appends a vowel to the cluster.
func (w *WordState) AddVowel(r rune) { w.VowelSeq = append(w.VowelSeq, r) }

// SetVowelAt replaces the vowel at index i (e.g. applying a diacritic).
func (w *WordState) SetVowelAt(i int, r rune) {
	if i >= 0 && i < len(w.VowelSeq) {
		w.VowelSeq[i] = r
	}
}

// SetTone sets the tone mark and the vowel index it is placed on.
func (w *WordState) SetTone(m Mark, at int) {
	w.Tone = m
	w.TonePosition = at
}

// RemoveTone clears any tone.
func (w *WordState) RemoveTone() {
	w.Tone = MarkNone
	w.TonePosition = -1
}

// VowelClusterBase returns the base-letter (untoned, lowercase) form of the
// vowel cluster, for cluster-table lookups.
func (w *WordState) VowelClusterBase() string { return clusterBaseForm(w.VowelSeq) }

// IsValidVietnameseWord implements spec §4.4's validity rule: empty, or a
// single consonant with no vowels yet (mid-typing "đ" before its vowel), or
// a valid (or strict-prefix) vowel cluster with a legal final consonant.
func (w *WordState) IsValidVietnameseWord() bool {
	if len(w.VowelSeq) == 0 {
		return w.Consonant2 == "" && (w.Consonant1 == "" || isSingleConsonant(w.Consonant1))
	}

	base := w.VowelClusterBase()
	if !IsValidVowelCluster(base) && !IsValidVowelClusterPrefix(base) {
		return false
	}
	if w.Consonant2 != "" && !validFinalConsonants[strings.ToLower(w.Consonant2)] {
		return false
	}
	return true
}

func isSingleConsonant(c string) bool {
	lower := strings.ToLower(c)
	lower = strings.ReplaceAll(lower, "đ", "d")
	return len([]rune(lower)) <= 1 && isVietnameseConsonantLetter([]rune(lower + "a")[0])
}

// RebuildFromKeystrokes reconstructs Word State from scratch by replaying
// every keystroke in keystrokes through the classifier/transform logic
// (spec §4.4: "the only way to mutate Word State after any non-trivial
// edit", per design note in §9). engine owns the actual replay so that
// RebuildFromKeystrokes and normal typing share one code path.
func RebuildFromKeystrokes(e *Engine, keystrokes []RawKeystroke) *WordState {
	saved := e.buffer
	savedWord := e.word
	savedHistory := e.history

	e.buffer = NewTypingBuffer()
	e.history = NewTypingHistory(0)
	// resetWordTracking also replaces e.word; the per-word tracking fields
	// (dbl, vowelEntryIdx, passThrough, ...) index into the buffer by entry
	// position, so replaying into the fresh buffer above with tracking
	// left over from the pre-rebuild word would point them at entries that
	// no longer exist.
	e.resetWordTracking()
	e.rebuilding = true

	for _, ks := range keystrokes {
		e.applyKeystroke(ks.Keycode, ks.Caps)
	}

	rebuilt := e.word
	rebuiltBuffer := e.buffer

	e.buffer = saved
	e.word = savedWord
	e.history = savedHistory
	e.rebuilding = false

	e.buffer = rebuiltBuffer
	return rebuilt
}
