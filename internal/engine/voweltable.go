package engine

import "strings"

// validVowelClusters is every recognized Vietnamese vowel cluster (spec
// §4.4), written in base (unmarked) form. Word State validates both full
// membership and strict-prefix membership against this set, since the
// engine must accept a word mid-typing.
var validVowelClusters = buildVowelClusterSet([]string{
	"a", "ai", "ao", "au", "ay", "âu", "ây",
	"e", "eo", "ê", "êu",
	"i", "ia", "iê", "iêu", "iu",
	"o", "oa", "oă", "oai", "oao", "oay", "oe", "oeo", "oi",
	"ô", "ôi",
	"ơ", "ơi",
	"u", "ua", "uâ", "uê", "ui", "uô", "uôi", "uy", "uya", "uyê", "uyu",
	"ư", "ưa", "ưi", "ươ", "ươi", "ươu",
	"y", "yê", "yêu",
})

func buildVowelClusterSet(clusters []string) map[string]bool {
	set := make(map[string]bool, len(clusters))
	for _, c := range clusters {
		set[c] = true
	}
	return set
}

// toneRuneToBase maps any toned vowel rune (either case) to the same
// lowercase letter without its tone mark, keeping any circumflex, breve or
// horn, e.g. 'ắ' -> 'ă', 'Ấ' -> 'â', 'Ỵ' -> 'y'.
var toneRuneToBase = buildToneRuneToBase()

func buildToneRuneToBase() map[rune]rune {
	lowerOfBase := make(map[rune]rune, len(uppercaseMap))
	for low, up := range uppercaseMap {
		lowerOfBase[up] = low
	}
	m := make(map[rune]rune)
	for base, tones := range toneTable {
		target := base
		if low, ok := lowerOfBase[base]; ok {
			target = low
		}
		for _, t := range tones {
			m[t] = target
		}
	}
	return m
}

// baseVowelRune strips a vowel's tone mark and CAPS, returning the base
// letter used to key validVowelClusters (e.g. 'ắ' -> 'ă', 'Ấ' -> 'â').
func baseVowelRune(r rune) rune {
	if base, ok := toneRuneToBase[r]; ok {
		return base
	}
	return r
}

// clusterBaseForm reduces a vowel sequence (runes, possibly toned/capped)
// to its base-letter string form for cluster-table lookup.
func clusterBaseForm(vowels []rune) string {
	var sb strings.Builder
	for _, r := range vowels {
		sb.WriteRune(baseVowelRune(r))
	}
	return sb.String()
}

// IsValidVowelCluster reports whether base is a recognized full cluster.
func IsValidVowelCluster(base string) bool { return validVowelClusters[base] }

// IsValidVowelClusterPrefix reports whether base is a prefix of any
// recognized cluster (i.e. the user might still complete a longer one); a
// whole cluster counts as its own prefix.
func IsValidVowelClusterPrefix(base string) bool {
	if base == "" {
		return true
	}
	for c := range validVowelClusters {
		if strings.HasPrefix(c, base) {
			return true
		}
	}
	return false
}

// validFinalConsonants are the only consonants (or consonant clusters)
// Vietnamese allows to close a syllable (spec §3).
var validFinalConsonants = map[string]bool{
	"c": true, "ch": true, "m": true, "n": true,
	"ng": true, "nh": true, "p": true, "t": true,
}

// compoundConsonants are exactly the Vietnamese compound initial/medial
// consonant clusters (spec §4.4).
var compoundConsonants = map[string]bool{
	"ch": true, "gh": true, "gi": true, "kh": true, "ng": true,
	"ngh": true, "nh": true, "ph": true, "qu": true, "th": true, "tr": true,
}

// TryFormCompound returns the compound consonant formed by appending c2 to
// c1, if that pair forms exactly one of the recognized compounds.
func TryFormCompound(c1, c2 string) (string, bool) {
	joined := strings.ToLower(c1 + c2)
	if compoundConsonants[joined] {
		return joined, true
	}
	// ng + h -> ngh
	if strings.ToLower(c1) == "ng" && strings.ToLower(c2) == "h" {
		return "ngh", true
	}
	return "", false
}
