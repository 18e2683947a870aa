package engine

import "unicode"

// telexToneKeys maps the four unambiguous Telex tone keys to their marks.
// 'r' (hỏi) is deliberately absent: spec §4.3 calls out 'r' as ambiguous
// between the hỏi tone and the consonant 'r', resolved later by the
// Transformation Engine rather than here.
var telexToneKeys = map[rune]Mark{
	's': MarkAcute,
	'f': MarkGrave,
	'x': MarkTilde,
	'j': MarkDotBelow,
	'z': MarkNone, // not in spec.md's core four, a conventional Telex extra for tone removal
}

// TelexFeatures toggles the handful of shortcuts that SimpleTelex1/2 strip
// out of plain Telex (spec §4.3: "SimpleTelex1/2 reuse Telex with specific
// shortcuts disabled").
type TelexFeatures struct {
	// AllowStandaloneW lets a bare 'w' (not following a vowel) stand for 'ư'.
	AllowStandaloneW bool
	// AllowZTone lets 'z' clear the current tone. SimpleTelex2 disables this
	// since 'z' is a plain consonant in some simplified layouts.
	AllowZTone bool
	// AllowCircumflexKey recognizes a literal '^' keystroke as AddCircumflex.
	AllowCircumflexKey bool

	QuickTelex          bool // cc/gg/kk/nn/pp/qq/tt -> compound consonant
	QuickStartConsonant bool // f/j/w as first letter -> ph/gi/qu
	QuickEndConsonant   bool // g/h/k after a vowel -> ng/nh/ch
}

// TelexProcessor implements Telex and its SimpleTelex1/2 variants.
type TelexProcessor struct {
	name     string
	features TelexFeatures
}

// NewTelexMethod returns the full Telex processor.
func NewTelexMethod() *TelexProcessor {
	return &TelexProcessor{name: "Telex", features: TelexFeatures{
		AllowStandaloneW:   true,
		AllowZTone:         true,
		AllowCircumflexKey: true,
	}}
}

// NewSimpleTelex1 returns Telex with standalone-w disabled: 'w' only acts
// as a horn/breve modifier when it follows a vowel.
func NewSimpleTelex1() *TelexProcessor {
	return &TelexProcessor{name: "SimpleTelex1", features: TelexFeatures{
		AllowStandaloneW:   false,
		AllowZTone:         true,
		AllowCircumflexKey: true,
	}}
}

// NewSimpleTelex2 further disables 'z'-as-tone-removal and the '^'
// circumflex shortcut, matching layouts where those keys are reserved.
func NewSimpleTelex2() *TelexProcessor {
	return &TelexProcessor{name: "SimpleTelex2", features: TelexFeatures{
		AllowStandaloneW:   false,
		AllowZTone:         false,
		AllowCircumflexKey: false,
	}}
}

func (t *TelexProcessor) Name() string { return t.name }

func (t *TelexProcessor) Features() TelexFeatures { return t.features }

func (t *TelexProcessor) IsWordBreak(char rune) bool { return isWordBreakChar(char) }

// Classify implements InputProcessor.Classify for Telex. It is buffer-free:
// ambiguity that needs buffer context (Telex 'r', standalone 'w') is
// flagged via Intent and resolved by the Transformation Engine.
func (t *TelexProcessor) Classify(char rune) Intent {
	if t.IsWordBreak(char) {
		return Intent{Kind: IntentWordBreak, Char: char}
	}

	lower := unicode.ToLower(char)

	if tone, ok := telexToneKeys[lower]; ok {
		if lower == 'z' && !t.features.AllowZTone {
			return Intent{Kind: IntentAppendConsonant, Char: lower}
		}
		return Intent{Kind: IntentAddTone, Char: lower, Tone: tone}
	}

	if lower == 'r' {
		// Ambiguous: consonant 'r' or hỏi tone. Resolved by the
		// Transformation Engine based on whether a vowel precedes it.
		return Intent{Kind: IntentNormal, Char: 'r'}
	}

	if lower == 'w' {
		return Intent{Kind: IntentAddHorn, Char: 'w'}
	}

	if lower == '^' && t.features.AllowCircumflexKey {
		return Intent{Kind: IntentAddCircumflex, Char: '^'}
	}

	switch lower {
	case 'a', 'e', 'o':
		return Intent{Kind: IntentDoubleLetter, Char: lower}
	case 'd':
		return Intent{Kind: IntentDoubleLetter, Char: 'd'}
	}

	if isVietnameseVowelLetter(lower) {
		return Intent{Kind: IntentAppendVowel, Char: lower}
	}
	if isVietnameseConsonantLetter(lower) {
		return Intent{Kind: IntentAppendConsonant, Char: lower}
	}

	return Intent{Kind: IntentNormal, Char: char}
}

func isVietnameseVowelLetter(lower rune) bool {
	switch lower {
	case 'a', 'ă', 'â', 'e', 'ê', 'i', 'o', 'ô', 'ơ', 'u', 'ư', 'y':
		return true
	}
	return false
}

func isVietnameseConsonantLetter(lower rune) bool {
	switch lower {
	case 'b', 'c', 'd', 'đ', 'g', 'h', 'k', 'l', 'm', 'n', 'p', 'q', 'r', 's', 't', 'v', 'x':
		return true
	}
	return false
}
