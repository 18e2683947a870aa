package engine

import "unicode"

// vniToneKeys maps VNI's digit tone keys to marks (spec §4.3).
var vniToneKeys = map[rune]Mark{
	'1': MarkAcute,
	'2': MarkGrave,
	'3': MarkHook,
	'4': MarkTilde,
	'5': MarkDotBelow,
}

// VNIProcessor implements the VNI input method: digits 1-5 for tones, 6-9
// for diacritics.
type VNIProcessor struct{}

// NewVNIMethod returns a VNI processor.
func NewVNIMethod() *VNIProcessor { return &VNIProcessor{} }

func (v *VNIProcessor) Name() string { return "VNI" }

func (v *VNIProcessor) IsWordBreak(char rune) bool { return isWordBreakChar(char) }

func (v *VNIProcessor) Classify(char rune) Intent {
	if v.IsWordBreak(char) {
		return Intent{Kind: IntentWordBreak, Char: char}
	}

	if tone, ok := vniToneKeys[char]; ok {
		return Intent{Kind: IntentAddTone, Char: char, Tone: tone}
	}

	switch char {
	case '6':
		return Intent{Kind: IntentAddCircumflex, Char: char}
	case '7':
		return Intent{Kind: IntentAddHorn, Char: char}
	case '8':
		return Intent{Kind: IntentAddBreve, Char: char}
	case '9':
		return Intent{Kind: IntentDoubleLetter, Char: 'd'} // đ, reuses the same "merge with prior d" path as Telex's dd
	}

	lower := unicode.ToLower(char)
	if isVietnameseVowelLetter(lower) {
		return Intent{Kind: IntentAppendVowel, Char: lower}
	}
	if isVietnameseConsonantLetter(lower) {
		return Intent{Kind: IntentAppendConsonant, Char: lower}
	}

	return Intent{Kind: IntentNormal, Char: char}
}
