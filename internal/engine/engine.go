package engine

import "unicode"

// quickStartConsonantMap implements the opt-in Quick-Start-Consonant
// shortcut (spec §4.6): these letters, typed as the very first key of a
// word, stand for a compound consonant instead of their own Telex meaning.
var quickStartConsonantMap = map[rune]string{'f': "ph", 'j': "gi", 'w': "qu"}

// quickEndConsonantMap implements Quick-End-Consonant: typed as the first
// key of a final consonant, these letters stand for a compound.
var quickEndConsonantMap = map[rune]string{'g': "ng", 'h': "nh", 'k': "ch"}

// quickTelexMap implements Quick-Telex: doubling one of these consonants
// produces the compound instead of two plain letters.
var quickTelexMap = map[rune]string{
	'c': "ch", 'g': "gi", 'k': "kh", 'n': "ng", 'p': "ph", 'q': "qu", 't': "th",
}

// doubleLetterState tracks the aa/ee/oo merge-then-possibly-undo cycle
// (spec §4.6) across consecutive DoubleLetter keystrokes.
type doubleLetterState struct {
	active   bool
	ch       rune
	entryIdx int
	vowelPos int
	merged   bool
}

// Engine is the Transformation Engine (spec §4.6): it owns the Typing
// Buffer, Word State and History for the word currently being typed and
// turns each keystroke into a HookState for the host to apply.
type Engine struct {
	settings  EngineSettings
	processor InputProcessor

	buffer  *TypingBuffer
	word    *WordState
	history *TypingHistory

	macros      *MacroStore
	smartSwitch *SmartSwitchMemory
	restoreCtl  *RestoreController

	language     Language
	currentAppID string
	rebuilding   bool

	vowelEntryIdx             []int
	passThrough               []PassThroughKind
	passThroughSinceLastVowel bool
	upperCaseFirstApplied     bool
	dbl                       doubleLetterState
}

// NewEngine wires an Engine from its collaborators, per spec §9's note that
// the macro/smart-switch singletons are passed in rather than reached via
// module globals.
func NewEngine(settings EngineSettings, macros *MacroStore, smartSwitch *SmartSwitchMemory) *Engine {
	e := &Engine{
		settings:    settings,
		buffer:      NewTypingBuffer(),
		word:        NewWordState(),
		history:     NewTypingHistory(DefaultHistoryCapacity),
		macros:      macros,
		smartSwitch: smartSwitch,
		restoreCtl:  NewRestoreController(),
		language:    LanguageVietnamese,
	}
	e.processor = newProcessorFor(settings.InputMethod)
	if e.macros != nil {
		e.macros.AutoCaps = settings.AutoCapsMacro
	}
	return e
}

func newProcessorFor(m InputMethodKind) InputProcessor {
	switch m {
	case MethodVNI:
		return NewVNIMethod()
	case MethodSimpleTelex1:
		return NewSimpleTelex1()
	case MethodSimpleTelex2:
		return NewSimpleTelex2()
	default:
		return NewTelexMethod()
	}
}

// SetSettings replaces the engine's configuration, re-deriving the input
// processor if the method changed.
func (e *Engine) SetSettings(s EngineSettings) {
	e.settings = s
	e.processor = newProcessorFor(s.InputMethod)
	if e.macros != nil {
		e.macros.AutoCaps = s.AutoCapsMacro
	}
}

// GetSettings returns the engine's current configuration.
func (e *Engine) GetSettings() EngineSettings { return e.settings }

// SetLanguage forces the engine's current interpretation mode.
func (e *Engine) SetLanguage(lang Language) { e.language = lang }

// Language returns the engine's current interpretation mode.
func (e *Engine) Language() Language { return e.language }

// HandleAppSwitch implements Smart-Switch Memory's foreground-change hook
// (spec §4.9): returns non-nil only when the app's remembered language
// differs from the engine's current one, in which case the engine has
// already adopted it.
func (e *Engine) HandleAppSwitch(appID string) *Language {
	e.currentAppID = appID
	if !e.settings.SmartSwitchEnabled || e.smartSwitch == nil {
		return nil
	}
	lang, known := e.smartSwitch.GetAppLanguage(appID, e.language)
	if !known || lang == e.language {
		return nil
	}
	e.language = lang
	return &lang
}

// Reset drops the in-progress word without touching history (spec §5:
// "reset() drops the buffer, word state, macro buffer, and pushes no
// history").
func (e *Engine) Reset() {
	e.buffer.Clear()
	e.resetWordTracking()
}

func (e *Engine) resetWordTracking() {
	e.word = NewWordState()
	e.vowelEntryIdx = nil
	e.passThrough = nil
	e.passThroughSinceLastVowel = false
	e.upperCaseFirstApplied = false
	e.dbl = doubleLetterState{}
}

// HandleKey is the engine's main entry point (spec §6, §4.6).
func (e *Engine) HandleKey(keycode uint16, caps bool) HookState {
	ks := RawKeystroke{Keycode: keycode, Caps: caps}

	if e.settings.TempOffEngine {
		return doNothingState()
	}
	if keycode == KeyBackspace {
		return e.handleBackspace()
	}
	if e.language == LanguageEnglish {
		return e.handleEnglishMode(ks)
	}

	lower := unicode.ToLower(DefaultKeymap(ks))
	if e.processor.IsWordBreak(lower) {
		return e.commitWordBreak(ks)
	}

	e.applyKeystroke(keycode, caps)
	return e.finishKeystroke()
}

func (e *Engine) handleEnglishMode(ks RawKeystroke) HookState {
	if !e.settings.MacroEnabled || !e.settings.MacroInEnglishMode {
		return ignoreState()
	}
	lower := unicode.ToLower(DefaultKeymap(ks))
	if isWordBreakChar(lower) {
		return e.commitWordBreak(ks)
	}
	e.appendEntry(ks)
	return ignoreState()
}

// handleBackspace drops the last visible Character Entry together with every
// modifier keystroke folded into it (or, if the buffer is already empty,
// restores the previous word from History) and resynchronizes Word State by
// replaying the remaining entries' keystrokes in per-entry order — the one
// privileged path for mutating Word State after a destructive edit (spec
// §9).
func (e *Engine) handleBackspace() HookState {
	if e.buffer.Len() == 0 {
		snap, ok := e.history.Pop()
		if !ok {
			return doNothingState()
		}
		e.buffer.Restore(snap)
		e.word = RebuildFromKeystrokes(e, e.buffer.KeystrokeSequence())
		return e.serialize(OpWillProcess)
	}

	var keystrokes []RawKeystroke
	for _, en := range e.buffer.overflow {
		keystrokes = append(keystrokes, en.AllKeystrokes()...)
	}
	entries := e.buffer.Entries()
	for _, en := range entries[:len(entries)-1] {
		keystrokes = append(keystrokes, en.AllKeystrokes()...)
	}
	e.word = RebuildFromKeystrokes(e, keystrokes)
	return e.serialize(OpWillProcess)
}

// applyKeystroke mutates Buffer and Word State for one keystroke,
// classifying it via the current Input Processor and dispatching on the
// resulting intent (spec §4.6 step 4). It is the single code path shared by
// normal typing and RebuildFromKeystrokes's replay.
func (e *Engine) applyKeystroke(keycode uint16, caps bool) {
	ks := RawKeystroke{Keycode: keycode, Caps: caps}
	lower := unicode.ToLower(DefaultKeymap(ks))

	if e.settings.QuickStartConsonant && e.buffer.Len() == 0 {
		if compound, ok := quickStartConsonantMap[lower]; ok {
			e.appendEntry(ks)
			e.word.SetConsonant1(compound)
			return
		}
	}

	intent := e.processor.Classify(lower)
	if intent.Kind == IntentWordBreak {
		// RebuildFromKeystrokes only ever replays one word's keystrokes; a
		// stray word-break here is a caller error. Degrade to plain text
		// rather than recursing into commitWordBreak.
		e.appendEntry(ks)
		return
	}
	e.dispatchIntent(ks, intent)

	if e.settings.UpperCaseFirstChar && !e.upperCaseFirstApplied && e.buffer.Len() == 1 {
		e.applyUpperCaseFirst()
	}
}

func (e *Engine) applyUpperCaseFirst() {
	p := e.buffer.Entry(0).Processed.WithCaps(true)
	e.buffer.SetProcessed(0, p)
	if len(e.word.VowelSeq) == 1 {
		if r, err := ToUnicode(p); err == nil {
			e.word.SetVowelAt(0, r)
		}
	}
	e.upperCaseFirstApplied = true
}

func (e *Engine) dispatchIntent(ks RawKeystroke, intent Intent) {
	switch intent.Kind {
	case IntentAppendVowel:
		e.applyAppendVowel(ks, intent.Char)
	case IntentAppendConsonant:
		e.applyAppendConsonant(ks, intent.Char)
	case IntentAddCircumflex:
		e.applyAddCircumflex(ks)
	case IntentAddBreve, IntentAddHorn:
		e.applyAddBreveOrHorn(ks)
	case IntentAddTone:
		e.applyAddTone(ks, intent.Tone)
	case IntentDoubleLetter:
		e.applyDoubleLetter(ks, intent.Char)
	case IntentNormal:
		e.applyNormal(ks, intent.Char)
	}
}

// finishKeystroke runs the real-time restore gate (spec §4.7's start-only
// heuristic) and serializes the result.
func (e *Engine) finishKeystroke() HookState {
	if e.spellCheckActive() {
		raw := e.buffer.RawFromEntriesOnly(DefaultKeymap)
		decision := e.restoreCtl.Decide(e.word, raw, e.buffer.Len(), false)
		if decision.ShouldRestore {
			return e.buildRestoreHookState(raw, nil, decision.NewSession)
		}
	}
	return e.serialize(OpWillProcess)
}

func (e *Engine) spellCheckActive() bool {
	return e.settings.SpellCheckEnabled && e.settings.RestoreIfWrongSpelling && !e.settings.TempOffSpelling
}

// commitWordBreak implements spec §4.6 step 3: macro lookup, then the
// word-break restore gate (full heuristic), then the ordinary serialize —
// in all three cases the word-break character itself rides along as the
// last element of the replacement (first element of the reversed
// char_data), so an otherwise-empty buffer still yields "replacement = the
// break character" per spec §8's boundary case.
func (e *Engine) commitWordBreak(ks RawKeystroke) HookState {
	raw := e.buffer.RawFromEntriesOnly(DefaultKeymap)
	entryCount := e.buffer.Len()
	breakChar := NewPackedChar(ks.Keycode, ks.Caps)

	if entryCount > 0 && e.settings.MacroEnabled {
		if expansion, ok := e.macros.Lookup(raw); ok {
			n := len([]rune(raw))
			e.pushSnapshotAndClear()
			breakRune, err := ToUnicode(breakChar)
			if err != nil {
				breakRune = rune(ks.Keycode)
			}
			return HookState{Op: OpReplaceMacro, BackspaceCount: n, MacroData: expansion + string(breakRune), MacroKey: raw}
		}
	}

	if entryCount > 0 && e.spellCheckActive() {
		decision := e.restoreCtl.Decide(e.word, raw, entryCount, true)
		if decision.ShouldRestore {
			result := e.buildRestoreHookState(raw, &breakChar, decision.NewSession)
			e.pushSnapshotAndClear()
			return result
		}
	}

	data := make([]PackedChar, 0, entryCount+1)
	data = append(data, breakChar)
	for i := 0; i < entryCount; i++ {
		data = append(data, e.buffer.Entry(entryCount-1-i).Processed)
	}
	hook := HookState{Op: OpWillProcess, BackspaceCount: entryCount, CharData: data}
	e.pushSnapshotAndClear()
	return hook
}

func (e *Engine) pushSnapshotAndClear() {
	e.history.Push(e.buffer.Snapshot())
	e.buffer.Clear()
	e.resetWordTracking()
}

// serialize implements spec §4.6 step 7: backspace count = current visible
// length, replacement characters in reverse order.
func (e *Engine) serialize(op Op) HookState {
	n := e.buffer.Len()
	data := make([]PackedChar, n)
	for i := 0; i < n; i++ {
		data[i] = e.buffer.Entry(n - 1 - i).Processed
	}
	return HookState{Op: op, BackspaceCount: n, CharData: data}
}

// buildRestoreHookState implements spec §4.7's RESTORE replacement:
// backspace_count = visible length, replacement chars = the ASCII of each
// raw keystroke, trailing with the word-break character when one is
// provided.
func (e *Engine) buildRestoreHookState(raw string, trailing *PackedChar, newSession bool) HookState {
	runes := []rune(raw)
	capacity := len(runes)
	if trailing != nil {
		capacity++
	}
	data := make([]PackedChar, 0, capacity)
	if trailing != nil {
		data = append(data, *trailing)
	}
	for i := len(runes) - 1; i >= 0; i-- {
		data = append(data, NewPackedCharCode(runes[i]))
	}
	op := OpRestore
	if newSession {
		op = OpRestoreAndNewSession
	}
	return HookState{Op: op, BackspaceCount: e.buffer.Len(), CharData: data}
}

// appendEntry appends a keystroke verbatim (its own keycode resolves its
// own glyph) and extends the pass-through tracking slice in lockstep.
func (e *Engine) appendEntry(ks RawKeystroke) int {
	idx := e.buffer.Append(ks.Keycode, ks.Caps)
	e.passThrough = append(e.passThrough, Consumed)
	return idx
}

func (e *Engine) markPassThrough(idx int, kind PassThroughKind) {
	if idx >= 0 && idx < len(e.passThrough) {
		e.passThrough[idx] = kind
	}
}

// vowelCharDecomposition reduces a (lowercase) Vietnamese vowel rune to the
// plain base letter plus the TONE/TONEW bits that reconstruct it, so the
// buffer entry's Processed form stays a real bit-packed character even when
// the physical key typed for it wasn't that base letter (e.g. Telex's
// standalone 'w' for ư).
func vowelCharDecomposition(ch rune) (base rune, tone bool, tonew bool) {
	switch ch {
	case 'ă':
		return 'a', false, true
	case 'â':
		return 'a', true, false
	case 'ê':
		return 'e', true, false
	case 'ô':
		return 'o', true, false
	case 'ơ':
		return 'o', false, true
	case 'ư':
		return 'u', false, true
	}
	return ch, false, false
}

// appendVowelEntry appends a new Character Entry representing vowel ch,
// reconstructing Processed from ch's decomposition rather than from the
// physical keystroke, so later diacritic/tone edits compose correctly.
func (e *Engine) appendVowelEntry(ks RawKeystroke, ch rune) int {
	idx := e.buffer.Append(ks.Keycode, ks.Caps)
	e.passThrough = append(e.passThrough, Consumed)
	base, tone, tonew := vowelCharDecomposition(ch)
	p := PackedChar(uint32(base)).WithTone(tone).WithToneW(tonew)
	if ks.Caps {
		p = p.WithCaps(true)
	}
	e.buffer.SetProcessed(idx, p)
	return idx
}

func (e *Engine) appendVowelRune(ks RawKeystroke, ch rune) {
	idx := e.appendVowelEntry(ks, ch)
	e.vowelEntryIdx = append(e.vowelEntryIdx, idx)
	e.word.AddVowel(applyCase(ch, ks.Caps))
	e.passThroughSinceLastVowel = false
	e.relocateToneIfNeeded()
}

// applyCase re-cases a lowercase Vietnamese letter, consulting the
// canonical uppercase table before falling back to plain ASCII shifting.
func applyCase(r rune, caps bool) rune {
	if !caps {
		return r
	}
	if up, ok := uppercaseMap[r]; ok {
		return up
	}
	if r >= 'a' && r <= 'z' {
		return r - ('a' - 'A')
	}
	return r
}

func (e *Engine) applyAppendVowel(ks RawKeystroke, ch rune) {
	candidate := append(append([]rune{}, e.word.VowelSeq...), applyCase(ch, ks.Caps))
	base := clusterBaseForm(candidate)
	if !IsValidVowelCluster(base) && !IsValidVowelClusterPrefix(base) {
		idx := e.appendEntry(ks)
		e.markPassThrough(idx, PassThroughTerminator)
		e.passThroughSinceLastVowel = true
		return
	}
	e.appendVowelRune(ks, ch)
}

func (e *Engine) applyAppendConsonant(ks RawKeystroke, ch rune) {
	idx := e.appendEntry(ks)
	c := string(ch)

	if len(e.word.VowelSeq) == 0 {
		switch {
		case e.word.Consonant1 == "":
			e.word.SetConsonant1(c)
		case e.settings.QuickTelex && e.word.Consonant1 == c && quickTelexMap[ch] != "":
			compound := quickTelexMap[ch]
			e.buffer.SetProcessed(idx, NewPackedChar(uint16(compound[len(compound)-1]), ks.Caps))
			e.word.SetConsonant1(compound)
		default:
			if compound, ok := TryFormCompound(e.word.Consonant1, c); ok {
				e.word.SetConsonant1(compound)
			} else {
				e.markPassThrough(idx, PassThroughInline)
			}
		}
	} else {
		switch {
		case e.word.Consonant2 == "" && e.settings.QuickEndConsonant && quickEndConsonantMap[ch] != "":
			e.word.SetConsonant2(quickEndConsonantMap[ch])
		case e.word.Consonant2 == "":
			e.word.SetConsonant2(c)
		default:
			if compound, ok := TryFormCompound(e.word.Consonant2, c); ok {
				e.word.SetConsonant2(compound)
			} else {
				e.markPassThrough(idx, PassThroughTerminator)
			}
		}
	}
	e.passThroughSinceLastVowel = true
	e.relocateToneIfNeeded()
}

// relocateToneIfNeeded implements free-marking (spec glossary, §6): when a
// tone has already been placed and a vowel or consonant is subsequently
// appended, recompute its correct position and move it there. Adding a
// diacritic to a vowel already in the cluster does not move the tone.
func (e *Engine) relocateToneIfNeeded() {
	if !e.settings.FreeMarking || e.word.Tone == MarkNone || len(e.word.VowelSeq) == 0 {
		return
	}
	newPos := PlaceTone(e.word.VowelSeq, e.word.Consonant2 != "", e.settings.ModernStyle, e.word.Consonant1, e.passThroughSinceLastVowel)
	if newPos == e.word.TonePosition || newPos >= len(e.vowelEntryIdx) {
		return
	}
	oldIdx := e.vowelEntryIdx[e.word.TonePosition]
	newIdx := e.vowelEntryIdx[newPos]
	tone := e.word.Tone
	e.buffer.SetProcessed(oldIdx, e.buffer.Entry(oldIdx).Processed.WithMark(MarkNone))
	e.buffer.SetProcessed(newIdx, e.buffer.Entry(newIdx).Processed.WithMark(tone))
	e.word.SetTone(tone, newPos)
}

func (e *Engine) setToneWBit(pos int) {
	idx := e.vowelEntryIdx[pos]
	p := e.buffer.Entry(idx).Processed.WithToneW(true)
	e.buffer.SetProcessed(idx, p)
	if r, err := ToUnicode(p); err == nil {
		e.word.SetVowelAt(pos, r)
	}
}

func (e *Engine) setToneBit(pos int, on bool) {
	idx := e.vowelEntryIdx[pos]
	p := e.buffer.Entry(idx).Processed.WithTone(on)
	e.buffer.SetProcessed(idx, p)
	if r, err := ToUnicode(p); err == nil {
		e.word.SetVowelAt(pos, r)
	}
}

func (e *Engine) applyAddCircumflex(ks RawKeystroke) {
	pos, ok := e.findVowelIndexWithBase("aeo", true)
	if !ok {
		idx := e.appendEntry(ks)
		e.markPassThrough(idx, PassThroughInline)
		return
	}
	idx := e.vowelEntryIdx[pos]
	e.buffer.AddModifier(idx, ks)
	e.buffer.RecordKeystroke(ks)
	e.setToneBit(pos, true)
}

// applyAddBreveOrHorn handles both AddBreve and AddHorn intents: both set
// the same TONEW bit (spec §3's bit layout shares it between breve and
// horn), distinguished only by which base vowel they land on. Telex's 'w'
// key emits AddHorn for all three of ă/ơ/ư; ươ is formed by one 'w' per
// vowel (ruwowuj -> rượu), so each press only ever has one un-horned a/o/u
// left to land on and findVowelIndexWithBase below handles it alone.
func (e *Engine) applyAddBreveOrHorn(ks RawKeystroke) {
	pos, ok := e.findVowelIndexWithBase("aou", false)
	if !ok {
		if tp, isTelex := e.processor.(*TelexProcessor); isTelex && tp.Features().AllowStandaloneW {
			e.appendVowelRune(ks, 'ư')
			return
		}
		idx := e.appendEntry(ks)
		e.markPassThrough(idx, PassThroughInline)
		return
	}
	idx := e.vowelEntryIdx[pos]
	e.buffer.AddModifier(idx, ks)
	e.buffer.RecordKeystroke(ks)
	e.setToneWBit(pos)
}

// findVowelIndexWithBase returns the most recent vowel whose base letter is
// one of bases and which doesn't already carry the diacritic being applied.
func (e *Engine) findVowelIndexWithBase(bases string, wantTone bool) (int, bool) {
	for i := len(e.word.VowelSeq) - 1; i >= 0; i-- {
		base := baseVowelRune(e.word.VowelSeq[i])
		for _, b := range bases {
			if base != b {
				continue
			}
			idx := e.vowelEntryIdx[i]
			already := e.buffer.Entry(idx).Processed.HasToneW()
			if wantTone {
				already = e.buffer.Entry(idx).Processed.HasTone()
			}
			if !already {
				return i, true
			}
		}
	}
	return 0, false
}

func (e *Engine) applyAddTone(ks RawKeystroke, tone Mark) {
	if tone == MarkNone {
		e.applyClearTone(ks)
		return
	}
	if len(e.word.VowelSeq) == 0 {
		idx := e.appendEntry(ks)
		e.markPassThrough(idx, PassThroughInline)
		return
	}

	e.autoCorrectUOPair()
	pos := PlaceTone(e.word.VowelSeq, e.word.Consonant2 != "", e.settings.ModernStyle, e.word.Consonant1, e.passThroughSinceLastVowel)
	idx := e.vowelEntryIdx[pos]
	e.buffer.AddModifier(idx, ks)
	e.buffer.RecordKeystroke(ks)
	p := e.buffer.Entry(idx).Processed.WithMark(tone)
	e.buffer.SetProcessed(idx, p)
	e.word.SetTone(tone, pos)
}

func (e *Engine) applyClearTone(ks RawKeystroke) {
	if e.word.Tone == MarkNone || len(e.word.VowelSeq) == 0 {
		idx := e.appendEntry(ks)
		e.markPassThrough(idx, PassThroughInline)
		return
	}
	idx := e.vowelEntryIdx[e.word.TonePosition]
	e.buffer.AddModifier(idx, ks)
	e.buffer.RecordKeystroke(ks)
	p := e.buffer.Entry(idx).Processed.WithMark(MarkNone)
	e.buffer.SetProcessed(idx, p)
	e.word.RemoveTone()
}

// autoCorrectUOPair implements spec §4.6's "auto-correct [ư, o] -> [ư, ơ]"
// rule: if the cluster is ư+o (horn already applied to the first vowel but
// not the second) and a tone key arrives, finish the horn on the second
// vowel first so the tone lands on a properly-formed ươ.
func (e *Engine) autoCorrectUOPair() {
	if len(e.word.VowelSeq) != 2 {
		return
	}
	if baseVowelRune(e.word.VowelSeq[0]) != 'u' || !e.buffer.Entry(e.vowelEntryIdx[0]).Processed.HasToneW() {
		return
	}
	if baseVowelRune(e.word.VowelSeq[1]) != 'o' || e.buffer.Entry(e.vowelEntryIdx[1]).Processed.HasToneW() {
		return
	}
	e.setToneWBit(1)
}

func (e *Engine) applyDoubleLetter(ks RawKeystroke, ch rune) {
	if ch == 'd' {
		e.applyDoubleD(ks)
		return
	}
	e.applyDoubleVowel(ks, ch)
}

// applyDoubleD merges a second 'd' into the first, setting TONE to denote đ
// (spec §4.6); if the letters can't merge (already đ, or a vowel already
// started) it degrades to a plain consonant append.
func (e *Engine) applyDoubleD(ks RawKeystroke) {
	n := e.buffer.Len()
	if n == 0 || len(e.word.VowelSeq) != 0 {
		e.applyAppendConsonant(ks, 'd')
		return
	}
	last := e.buffer.Entry(n - 1)
	if (last.Processed.Keycode() != 'd' && last.Processed.Keycode() != 'D') || last.Processed.HasTone() {
		e.applyAppendConsonant(ks, 'd')
		return
	}
	e.buffer.AddModifier(n-1, ks)
	e.buffer.RecordKeystroke(ks)
	e.buffer.SetProcessed(n-1, last.Processed.WithTone(true))
	e.word.SetConsonant1("đ")
}

// applyDoubleVowel implements the aa/ee/oo merge and its free-undo (spec
// §4.6, end-to-end scenario #8): first occurrence appends a plain vowel,
// second occurrence merges into a circumflex, a third identical occurrence
// un-merges back to plain and starts a fresh pending pair.
func (e *Engine) applyDoubleVowel(ks RawKeystroke, ch rune) {
	switch {
	case e.dbl.active && e.dbl.ch == ch && !e.dbl.merged:
		e.buffer.AddModifier(e.dbl.entryIdx, ks)
		e.buffer.RecordKeystroke(ks)
		e.setToneBit(e.dbl.vowelPos, true)
		e.dbl.merged = true

	case e.dbl.active && e.dbl.ch == ch && e.dbl.merged:
		e.setToneBit(e.dbl.vowelPos, false)
		e.appendVowelRune(ks, ch)
		e.dbl = doubleLetterState{active: true, ch: ch, entryIdx: e.buffer.Len() - 1, vowelPos: len(e.word.VowelSeq) - 1}

	default:
		e.appendVowelRune(ks, ch)
		e.dbl = doubleLetterState{active: true, ch: ch, entryIdx: e.buffer.Len() - 1, vowelPos: len(e.word.VowelSeq) - 1}
	}
}

// applyNormal resolves Telex's ambiguous 'r' (consonant vs. hỏi tone) using
// buffer context, per spec §4.3/§9; everything else is a plain pass-through
// character (punctuation the processor didn't otherwise classify).
func (e *Engine) applyNormal(ks RawKeystroke, ch rune) {
	if ch == 'r' {
		if len(e.word.VowelSeq) > 0 {
			e.applyAddTone(ks, MarkHook)
			return
		}
		e.applyAppendConsonant(ks, 'r')
		return
	}
	idx := e.appendEntry(ks)
	e.markPassThrough(idx, PassThroughInline)
}
