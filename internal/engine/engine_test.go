package engine

import "testing"

// typeWord drives eng through a sequence of ASCII keystrokes (lowercase
// only) and returns the string the host would end up displaying, by
// replaying each HookState's backspace/replacement against a simple rune
// buffer the way a real frontend would.
func typeWord(t *testing.T, eng *Engine, keys string) string {
	t.Helper()
	var shown []rune
	for _, k := range keys {
		hook := eng.HandleKey(uint16(k), false)
		shown = applyHook(t, shown, hook)
	}
	return string(shown)
}

func applyHook(t *testing.T, shown []rune, hook HookState) []rune {
	t.Helper()
	switch hook.Op {
	case OpIgnore, OpDoNothing:
		return shown
	case OpReplaceMacro:
		n := hook.BackspaceCount
		if n > len(shown) {
			n = len(shown)
		}
		shown = shown[:len(shown)-n]
		return append(shown, []rune(hook.MacroData)...)
	default:
		n := hook.BackspaceCount
		if n > len(shown) {
			n = len(shown)
		}
		shown = shown[:len(shown)-n]
		replacement := make([]rune, len(hook.CharData))
		for i, pc := range hook.CharData {
			r, err := ToUnicode(pc)
			if err != nil {
				t.Fatalf("ToUnicode(%v): %v", pc, err)
			}
			replacement[len(replacement)-1-i] = r
		}
		return append(shown, replacement...)
	}
}

func newTestEngine() *Engine {
	settings := DefaultSettings()
	settings.SpellCheckEnabled = false // these fixtures are Vietnamese by construction
	return NewEngine(settings, NewMacroStore(), NewSmartSwitchMemory())
}

func TestEngine_TonePlacement(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"chao with huyen -> chào", "chaof", "chào"},
		{"xoa with sac -> xoá", "xoas", "xoá"},
		{"hoa with huyen -> hoà", "hoaf", "hoà"},
		{"nghia with nga -> nghĩa", "nghiax", "nghĩa"},
		{"thoa with hoi -> thoả", "thoar", "thoả"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eng := newTestEngine()
			got := typeWord(t, eng, tt.input)
			if got != tt.want {
				t.Errorf("typeWord(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestEngine_DoubleVowelMerge(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"tooi -> tôi", "tooi", "tôi"},
		{"muwa -> mưa", "muwa", "mưa"},
		{"bowi -> bơi", "bowi", "bơi"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eng := newTestEngine()
			got := typeWord(t, eng, tt.input)
			if got != tt.want {
				t.Errorf("typeWord(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestEngine_CompleteWords(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"vieejt -> việt", "vieejt", "việt"},
		{"tieesng -> tiếng", "tieesng", "tiếng"},
		{"cacs -> các", "cacs", "các"},
		{"banj -> bạn", "banj", "bạn"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eng := newTestEngine()
			got := typeWord(t, eng, tt.input)
			if got != tt.want {
				t.Errorf("typeWord(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestEngine_ToneAfterCoda(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"ban then j -> bạn", "banj", "bạn"},
		{"cac then s -> các", "cacs", "các"},
		{"mat then s -> mát", "mats", "mát"},
		{"toan then s -> toán (closed glide cluster)", "toans", "toán"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eng := newTestEngine()
			got := typeWord(t, eng, tt.input)
			if got != tt.want {
				t.Errorf("typeWord(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestEngine_DoubleDMergesIntoDJ(t *testing.T) {
	eng := newTestEngine()
	got := typeWord(t, eng, "ddoong")
	want := "đông"
	if got != want {
		t.Errorf("typeWord(ddoong) = %q, want %q", got, want)
	}
}

func TestEngine_WordBreakCommitsAndResetsState(t *testing.T) {
	eng := newTestEngine()
	typeWord(t, eng, "xinf")
	hook := eng.HandleKey(uint16(' '), false)
	if hook.Op != OpWillProcess {
		t.Fatalf("word break op = %v, want OpWillProcess", hook.Op)
	}
	if eng.buffer.Len() != 0 {
		t.Errorf("buffer should be empty after word break, has %d entries", eng.buffer.Len())
	}
}

func TestEngine_EmptyBufferWordBreakReplaysBreakCharacter(t *testing.T) {
	eng := newTestEngine()
	hook := eng.HandleKey(uint16(' '), false)
	if hook.Op != OpWillProcess {
		t.Fatalf("op = %v, want OpWillProcess", hook.Op)
	}
	if hook.BackspaceCount != 0 {
		t.Errorf("backspace count = %d, want 0", hook.BackspaceCount)
	}
	if len(hook.CharData) != 1 {
		t.Fatalf("char data len = %d, want 1", len(hook.CharData))
	}
	r, err := ToUnicode(hook.CharData[0])
	if err != nil || r != ' ' {
		t.Errorf("replacement = %q, err %v, want ' '", r, err)
	}
}

// One backspace removes one composed Character Entry (spec §4.2) —
// including any tone/diacritic modifiers folded into it — not just the
// most recent physical keystroke: deleting "á" (typed as a+s, one entry)
// clears the whole entry in a single Backspace, consistent with how a
// host actually deletes one displayed glyph per key.
func TestEngine_BackspaceRemovesWholeComposedEntry(t *testing.T) {
	eng := newTestEngine()
	typeWord(t, eng, "as") // á, a single Character Entry with 's' as a modifier
	hook := eng.HandleKey(KeyBackspace, false)
	if hook.Op != OpWillProcess {
		t.Fatalf("backspace op = %v, want OpWillProcess", hook.Op)
	}
	if eng.buffer.Len() != 0 {
		t.Errorf("buffer len after backspace = %d, want 0", eng.buffer.Len())
	}
	if eng.word.Tone != MarkNone || len(eng.word.VowelSeq) != 0 {
		t.Errorf("word state after backspace = %+v, want fresh", eng.word)
	}
}

// Backspacing the trailing plain consonant of a closed, untoned syllable
// only drops that one entry, leaving the vowel cluster intact.
func TestEngine_BackspaceRemovesLastPlainEntry(t *testing.T) {
	eng := newTestEngine()
	typeWord(t, eng, "toan") // t,o,a,n -- no tone yet
	hook := eng.HandleKey(KeyBackspace, false)
	if hook.Op != OpWillProcess {
		t.Fatalf("backspace op = %v, want OpWillProcess", hook.Op)
	}
	if eng.buffer.Len() != 3 {
		t.Fatalf("buffer len after backspace = %d, want 3", eng.buffer.Len())
	}
	if eng.word.Consonant2 != "" {
		t.Errorf("consonant2 after backspace = %q, want empty", eng.word.Consonant2)
	}
	if len(eng.word.VowelSeq) != 2 {
		t.Errorf("vowel sequence after backspace = %v, want 2 vowels", eng.word.VowelSeq)
	}
}

func TestEngine_BackspaceAtEmptyBufferRestoresHistory(t *testing.T) {
	eng := newTestEngine()
	typeWord(t, eng, "chaof")
	eng.HandleKey(uint16(' '), false) // commits "chào", pushes history
	if eng.history.Len() != 1 {
		t.Fatalf("history len = %d, want 1", eng.history.Len())
	}
	hook := eng.HandleKey(KeyBackspace, false)
	if hook.Op != OpWillProcess {
		t.Fatalf("restore-backspace op = %v, want OpWillProcess", hook.Op)
	}
	if eng.buffer.Len() == 0 {
		t.Error("buffer should be repopulated from history after backspace-at-empty")
	}
}

func TestEngine_MacroExpansionOnWordBreak(t *testing.T) {
	eng := newTestEngine()
	eng.macros.Set("btw", "by the way")
	eng.settings.MacroEnabled = true

	typeWord(t, eng, "btw")
	hook := eng.HandleKey(uint16(' '), false)
	if hook.Op != OpReplaceMacro {
		t.Fatalf("op = %v, want OpReplaceMacro", hook.Op)
	}
	if hook.MacroData != "by the way " {
		t.Errorf("macro data = %q, want %q", hook.MacroData, "by the way ")
	}
}

func TestEngine_TempOffEngineDisablesTransformation(t *testing.T) {
	eng := newTestEngine()
	eng.settings.TempOffEngine = true
	hook := eng.HandleKey(uint16('a'), false)
	if hook.Op != OpDoNothing {
		t.Errorf("op = %v, want OpDoNothing while engine disabled", hook.Op)
	}
}

func TestEngine_QuickTelexDoublesIntoCompound(t *testing.T) {
	eng := newTestEngine()
	eng.settings.QuickTelex = true
	got := typeWord(t, eng, "ccee") // cc -> ch (QuickTelex), ee -> ê
	want := "chê"
	if got != want {
		t.Errorf("typeWord(ccee) with QuickTelex = %q, want %q", got, want)
	}
}

func TestEngine_ResetDropsBufferKeepsHistory(t *testing.T) {
	eng := newTestEngine()
	typeWord(t, eng, "choo")
	eng.history.Push(Snapshot{})
	before := eng.history.Len()
	eng.Reset()
	if eng.buffer.Len() != 0 {
		t.Error("Reset should clear the buffer")
	}
	if eng.history.Len() != before {
		t.Error("Reset must not touch history")
	}
}

func TestEngine_SmartSwitchRemembersPerApp(t *testing.T) {
	eng := newTestEngine()
	eng.settings.SmartSwitchEnabled = true

	if lang := eng.HandleAppSwitch("terminal"); lang != nil {
		t.Fatalf("first visit to an app should not force a switch, got %v", *lang)
	}
	eng.smartSwitch.Set("terminal", LanguageEnglish)

	eng.SetLanguage(LanguageVietnamese)
	lang := eng.HandleAppSwitch("terminal")
	if lang == nil || *lang != LanguageEnglish {
		t.Fatalf("HandleAppSwitch(terminal) = %v, want English", lang)
	}
	if eng.Language() != LanguageEnglish {
		t.Errorf("engine language = %v, want English", eng.Language())
	}
}
