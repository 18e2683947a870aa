package engine

// Op is a HookState operation code. Values are part of the wire contract
// with the host (spec §6) and must not be renumbered.
type Op int

const (
	OpIgnore                 Op = 0
	OpDoNothing              Op = 1
	OpWillProcess             Op = 2
	OpRestore                Op = 3
	OpRestoreAndNewSession    Op = 4
	OpReplaceMacro            Op = 5
)

// HookState is the engine's per-keystroke output contract (spec §3, §6).
// CharData is emitted in reverse index order (last character first) to
// mirror how the host injects text.
type HookState struct {
	Op             Op
	BackspaceCount int
	// CharData's length is the spec's new_char_count; no separate field is
	// kept since it would only ever duplicate len(CharData).
	CharData  []PackedChar
	MacroData string
	MacroKey  string
}

// doNothingState is the zero-cost result for keystrokes the engine declines
// to touch (e.g. while the engine is switched off).
func doNothingState() HookState { return HookState{Op: OpDoNothing} }

func ignoreState() HookState { return HookState{Op: OpIgnore} }
