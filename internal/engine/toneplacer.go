package engine

// PlaceTone implements the tone-placement algorithm of spec §4.5. Given the
// vowel cluster (in typed order, diacritics already applied) and context,
// it returns the index within vowels that should carry the tone mark.
//
// terminatedByPassthrough is true iff some keystroke after the last vowel
// keystroke in the current word was a PassThroughTerminator (the user has
// clearly moved past the vowel cluster, e.g. typed a consonant that didn't
// merge) — distinguishing a closed syllable from one the user might still
// be extending.
func PlaceTone(vowels []rune, hasFinalConsonant bool, modernStyle bool, firstConsonant string, terminatedByPassthrough bool) int {
	n := len(vowels)
	if n <= 1 {
		return 0
	}

	base := clusterBaseForm(vowels)
	closed := hasFinalConsonant || terminatedByPassthrough

	// ư…ơ (ươ, ươi, ươu): ư is a glide onto the ơ nucleus, in both styles
	// and regardless of open/closed — người, hươu, tưới, cưới, rượu all
	// place tone on ơ. Checked before the generic diacritic-wins loop
	// below, which would otherwise stop at the first horn vowel (ư).
	if idx := hornPairIndex(vowels); idx >= 0 {
		return idx
	}

	// iê/yê/uô: the first letter is a glide onto the true nucleus (the
	// diacritic-bearing second vowel), in both styles and whether or not a
	// final consonant has been typed yet — "việt" needs its tone on ệ the
	// moment the tone key arrives, even though 't' hasn't been typed yet.
	switch base {
	case "uô", "iê", "yê":
		return 1
	}

	// Step 1: a vowel bearing circumflex, breve or horn wins outright.
	for i, r := range vowels {
		if hasToneCapableDiacritic(r) {
			return i
		}
	}

	// Triphthongs: the middle vowel (xoài, xoáy, nghiêng's iê handled above).
	if n >= 3 {
		return n - 2
	}

	// Two-vowel clusters: the nucleus is the first vowel (của, lừa, chào,
	// mía, nói...) except the glide-onset clusters oa/oe/uy, where old
	// style keeps the historical first-vowel placement (hòa) and modern
	// style moves it to the true nucleus (hoà) — but once the syllable is
	// closed both styles agree on the second vowel (hoạch, toán). oă never
	// gets here: step 1 already places its tone on ă.
	if glideOnsetPairs[base] {
		if closed || modernStyle {
			return 1
		}
		return 0
	}
	return 0
}

// glideOnsetPairs are the two-vowel clusters where the first vowel is a
// glide onset rather than the nucleus, the only clusters old/new style
// placement actually disagrees on (spec §4.5 step 4/5).
var glideOnsetPairs = map[string]bool{"oa": true, "oă": true, "oe": true, "uy": true}

func hasToneCapableDiacritic(r rune) bool {
	switch r {
	case 'â', 'Â', 'ê', 'Ê', 'ô', 'Ô', 'ơ', 'Ơ', 'ư', 'Ư', 'ă', 'Ă':
		return true
	}
	return false
}

// hornPairIndex returns the index of ơ when vowels also contains an
// earlier ư, or -1 otherwise.
func hornPairIndex(vowels []rune) int {
	wIdx, oIdx := -1, -1
	for i, r := range vowels {
		switch r {
		case 'ư', 'Ư':
			wIdx = i
		case 'ơ', 'Ơ':
			oIdx = i
		}
	}
	if wIdx >= 0 && oIdx >= 0 && wIdx < oIdx {
		return oIdx
	}
	return -1
}
