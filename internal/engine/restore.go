package engine

import "strings"

// digraphPlaceholder collapses a Vietnamese consonant digraph/trigraph to a
// single placeholder rune so "3+ consecutive consonants" counts the way an
// English speaker would perceive consonant clusters, not the way Vietnamese
// spelling happens to tokenize them.
var digraphPlaceholder = []string{"ngh", "ng", "nh", "ch", "th", "kh", "ph", "tr", "gi", "qu"}

var englishEndingConsonants = map[byte]bool{
	'b': true, 'd': true, 'g': true, 'k': true,
	'l': true, 'r': true, 'v': true, 'x': true,
}

var englishEndingClusters = []string{
	"ck", "sk", "nk", "lk", "rk", "ct", "ft", "pt", "xt", "lt", "st",
	"lp", "mp", "sp", "nd", "ld", "rd", "nt", "lf", "lm", "lb", "rb", "rm",
}

var englishStartClusters = []string{
	"str", "spr", "scr", "spl", "shr", "thr", "sch", "squ",
	"bl", "cl", "fl", "gl", "pl", "sl",
	"br", "cr", "dr", "fr", "gr", "pr",
	"sc", "sk", "sm", "sn", "sp", "st", "sw", "dw", "tw", "gn",
}

var englishSubstrings = []string{"ough", "eigh", "augh", "oo", "ee", "eau", "iew", "ow", "aw", "ies"}

// IsDefinitelyEnglish implements the full English-word heuristic (spec
// §4.7), used once a word is complete (at word-break). It is deliberately
// over-inclusive: RestoreController only consults it for words Word State
// already judged invalid, so a false positive restores such a word to its
// raw keystrokes, which the user can always retype.
func IsDefinitelyEnglish(word string) bool {
	w := strings.ToLower(word)
	if w == "" {
		return false
	}
	return containsNonFinalFJWZ(w) ||
		endsWithBareS(w) ||
		endsWithEnglishConsonant(w) ||
		hasSuffixAny(w, englishEndingClusters) ||
		isDefinitelyEnglishStartOnly(w) ||
		hasDoubledConsonant(w) ||
		hasTripleConsonantRun(w) ||
		hasStartAnchoredPattern(w) ||
		hasSuffixAny(w, []string{"mb", "lm", "gn", "bt"}) ||
		containsAny(w, englishSubstrings) ||
		hasInteriorX(w) ||
		hasQWithoutU(w) ||
		hasBareIO(w)
}

// isDefinitelyEnglishStartOnly is the restricted variant (spec §4.7) used
// while the user is still typing: it omits every ending-anchored rule,
// since a mid-word Telex tone key (e.g. trailing 's', 'f', 'j') would
// otherwise misfire as an English ending.
func isDefinitelyEnglishStartOnly(w string) bool {
	return hasPrefixAny(w, englishStartClusters) || hasPrefixAny(w, []string{"kn", "wr", "ps", "pn"})
}

func containsNonFinalFJWZ(w string) bool {
	runes := []rune(w)
	for i, r := range runes {
		if (r == 'f' || r == 'j' || r == 'w' || r == 'z') && i != len(runes)-1 {
			return true
		}
	}
	return false
}

func endsWithBareS(w string) bool {
	return len(w) > 2 && strings.HasSuffix(w, "s")
}

func endsWithEnglishConsonant(w string) bool {
	return englishEndingConsonants[w[len(w)-1]]
}

func hasSuffixAny(w string, suffixes []string) bool {
	for _, s := range suffixes {
		if strings.HasSuffix(w, s) {
			return true
		}
	}
	return false
}

func hasPrefixAny(w string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(w, p) {
			return true
		}
	}
	return false
}

func containsAny(w string, substrings []string) bool {
	for _, s := range substrings {
		if strings.Contains(w, s) {
			return true
		}
	}
	return false
}

func hasDoubledConsonant(w string) bool {
	runes := []rune(w)
	for i := 1; i < len(runes); i++ {
		if runes[i] == runes[i-1] && isVietnameseConsonantLetter(runes[i]) {
			return true
		}
	}
	return false
}

// hasTripleConsonantRun collapses Vietnamese digraphs/trigraphs to a single
// placeholder, then reports whether 3 or more consonant letters remain
// consecutive — a run no Vietnamese syllable produces.
func hasTripleConsonantRun(w string) bool {
	collapsed := w
	for _, d := range digraphPlaceholder {
		collapsed = strings.ReplaceAll(collapsed, d, "#")
	}
	run := 0
	for _, r := range collapsed {
		if r != '#' && isVietnameseConsonantLetter(r) {
			run++
			if run >= 3 {
				return true
			}
		} else {
			run = 0
		}
	}
	return false
}

func hasStartAnchoredPattern(w string) bool {
	return hasPrefixAny(w, []string{"kn", "wr", "ps", "pn"})
}

func hasInteriorX(w string) bool {
	idx := strings.IndexByte(w, 'x')
	return idx > 0 && idx < len(w)-1
}

func hasQWithoutU(w string) bool {
	for i := 0; i < len(w); i++ {
		if w[i] == 'q' && (i == len(w)-1 || w[i+1] != 'u') {
			return true
		}
	}
	return false
}

// hasBareIO reports whether w contains the ASCII digraph "io". It looks at
// the text alone: an "io" whose o was later marked as iô/iơ still counts.
func hasBareIO(w string) bool {
	return strings.Contains(w, "io")
}

// RestoreDecision is what the Restore Controller concluded about the
// current word.
type RestoreDecision struct {
	ShouldRestore bool
	NewSession    bool // true selects RESTORE_AND_NEW_SESSION over RESTORE
}

// RestoreController implements spec §4.7: given the current Word State and
// the buffer's raw keystrokes, decides whether to veto the Vietnamese
// transformation and hand the user back their raw ASCII.
type RestoreController struct{}

// NewRestoreController returns a RestoreController.
func NewRestoreController() *RestoreController { return &RestoreController{} }

// Decide evaluates one word. raw is the ASCII projection of the buffer's
// entries (via RawFromEntriesOnly); atWordBreak distinguishes the
// word-complete check (full heuristic) from the real-time, mid-typing
// check (start-only heuristic).
func (c *RestoreController) Decide(word *WordState, raw string, entryCount int, atWordBreak bool) RestoreDecision {
	if word.IsValidVietnameseWord() {
		return RestoreDecision{}
	}
	if entryCount <= 1 {
		return RestoreDecision{}
	}
	runes := []rune(raw)
	if len(runes) > 0 && !isVietnameseConsonantLetter(unicodeToLowerRune(runes[0])) && !isVietnameseVowelLetter(unicodeToLowerRune(runes[0])) {
		return RestoreDecision{}
	}

	english := false
	if atWordBreak {
		english = IsDefinitelyEnglish(raw)
	} else {
		english = isDefinitelyEnglishStartOnly(strings.ToLower(raw))
	}
	if !english {
		return RestoreDecision{}
	}
	return RestoreDecision{ShouldRestore: true, NewSession: atWordBreak}
}

func unicodeToLowerRune(r rune) rune {
	if r >= 'A' && r <= 'Z' {
		return r + ('a' - 'A')
	}
	return r
}
