// Package engine implements the keystroke-processing core of a Vietnamese
// input method editor: it turns a stream of raw keystrokes into editing
// operations (backspaces plus replacement characters) that reshape what the
// user typed into Vietnamese orthography.
package engine

// Mark represents a Vietnamese tone mark (dấu thanh), bits 19-23 of a
// packed character.
type Mark int

const (
	MarkNone     Mark = iota // thanh ngang
	MarkAcute                // sắc (á)
	MarkGrave                // huyền (à)
	MarkHook                 // hỏi (ả)
	MarkTilde                // ngã (ã)
	MarkDotBelow             // nặng (ạ)
)

// InputMethodKind identifies one of the four supported typing conventions.
type InputMethodKind int

const (
	MethodTelex InputMethodKind = iota
	MethodVNI
	MethodSimpleTelex1
	MethodSimpleTelex2
)

// CodeTableKind identifies the output character encoding.
type CodeTableKind int

const (
	CodeTableUnicode CodeTableKind = iota
	CodeTableTCVN3
	CodeTableVNIWindows
)

// Language is the engine's current interpretation mode for keystrokes.
type Language int

const (
	LanguageEnglish    Language = 0
	LanguageVietnamese Language = 1
)

// Modifier flags mirror common host-side keyboard modifier bits; the engine
// itself only inspects caps/shift, the rest is forwarded for the host to
// decide whether to bypass the engine entirely (see Engine.HandleKey).
const (
	ModNone    uint32 = 0
	ModShift   uint32 = 1 << 0
	ModLock    uint32 = 1 << 1
	ModControl uint32 = 1 << 2
	ModMod1    uint32 = 1 << 3
	ModMod4    uint32 = 1 << 6
)

// Common non-printable keycodes the engine and its host agree on. The
// engine's own keycode space for printable ASCII is the literal byte value
// of the key (e.g. 'a' = 0x61); these are the handful of control keys the
// transformation engine treats specially (see Engine.HandleKey and
// WordBreak classification in the input processors).
const (
	KeyBackspace uint16 = 0xff08
	KeyReturn    uint16 = 0xff0d
	KeyEscape    uint16 = 0xff1b
	KeySpace     uint16 = 0x0020
	KeyTab       uint16 = 0xff09
	KeyDelete    uint16 = 0xffff
)
