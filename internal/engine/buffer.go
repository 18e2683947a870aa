package engine

// MaxBufferSize is the maximum number of visible Character Entries the
// TypingBuffer holds before evicting the oldest into overflow (spec §3).
const MaxBufferSize = 32

// DefaultHistoryCapacity is the default number of snapshots TypingHistory
// retains, oldest trimmed first (spec §3).
const DefaultHistoryCapacity = 10

// RawKeystroke is one physical key press; immutable once recorded.
type RawKeystroke struct {
	Keycode uint16
	Caps    bool
}

// CharacterEntry is one visible character in the buffer together with every
// raw keystroke that produced it (spec §3).
type CharacterEntry struct {
	Primary   RawKeystroke
	Modifiers []RawKeystroke
	Processed PackedChar
}

// KeystrokeCount returns 1 + len(Modifiers).
func (e CharacterEntry) KeystrokeCount() int { return 1 + len(e.Modifiers) }

// AllKeystrokes returns Primary followed by every modifier, in attachment
// order.
func (e CharacterEntry) AllKeystrokes() []RawKeystroke {
	all := make([]RawKeystroke, 0, e.KeystrokeCount())
	all = append(all, e.Primary)
	all = append(all, e.Modifiers...)
	return all
}

func cloneEntry(e CharacterEntry) CharacterEntry {
	mods := make([]RawKeystroke, len(e.Modifiers))
	copy(mods, e.Modifiers)
	return CharacterEntry{Primary: e.Primary, Modifiers: mods, Processed: e.Processed}
}

// Snapshot is an immutable copy of a TypingBuffer's state, owned exclusively
// by a TypingHistory stack.
type Snapshot struct {
	entries      []CharacterEntry
	overflow     []CharacterEntry
	keystrokeSeq []RawKeystroke
}

// TypingBuffer is the dual-view buffer described in spec §3: an ordered
// window of visible Character Entries, an overflow tail for characters
// pushed out of the window, and a keystroke-sequence log in strict typing
// order (entries' own order diverges from typing order once modifiers
// attach to earlier entries).
type TypingBuffer struct {
	entries      []CharacterEntry
	overflow     []CharacterEntry
	keystrokeSeq []RawKeystroke
}

// NewTypingBuffer returns an empty buffer.
func NewTypingBuffer() *TypingBuffer {
	return &TypingBuffer{}
}

// Len returns the number of visible entries (excludes overflow).
func (b *TypingBuffer) Len() int { return len(b.entries) }

// Entries returns the visible entries in buffer order.
func (b *TypingBuffer) Entries() []CharacterEntry { return b.entries }

// Entry returns the visible entry at index i.
func (b *TypingBuffer) Entry(i int) CharacterEntry { return b.entries[i] }

// Append records a new keystroke as a new Character Entry, evicting the
// oldest visible entry into overflow when the buffer is full (spec §4.2,
// §7 BufferFull). Returns the index of the new entry.
func (b *TypingBuffer) Append(keycode uint16, caps bool) int {
	entry := CharacterEntry{Primary: RawKeystroke{Keycode: keycode, Caps: caps}, Processed: NewPackedChar(keycode, caps)}
	if len(b.entries) >= MaxBufferSize {
		b.overflow = append(b.overflow, b.entries[0])
		b.entries = b.entries[1:]
	}
	b.entries = append(b.entries, entry)
	b.RecordKeystroke(RawKeystroke{Keycode: keycode, Caps: caps})
	return len(b.entries) - 1
}

// SetProcessed overwrites the processed form of the entry at index i, e.g.
// after the Transformation Engine applies a diacritic or tone.
func (b *TypingBuffer) SetProcessed(i int, p PackedChar) {
	b.entries[i].Processed = p
}

// AddModifier attaches a modifier keystroke to an existing entry (e.g. the
// second 'a' in "aa"->â modifies the first entry rather than creating a
// new one). The caller must separately call RecordKeystroke to log the
// keystroke in typing order; the two are deliberately independent because
// the same physical key sometimes modifies an entry and sometimes creates
// one.
func (b *TypingBuffer) AddModifier(at int, ks RawKeystroke) {
	b.entries[at].Modifiers = append(b.entries[at].Modifiers, ks)
}

// RecordKeystroke appends to the typing-order keystroke-sequence log
// without touching any Character Entry.
func (b *TypingBuffer) RecordKeystroke(ks RawKeystroke) {
	b.keystrokeSeq = append(b.keystrokeSeq, ks)
}

// KeystrokeSequence returns a copy of the typing-order keystroke log.
func (b *TypingBuffer) KeystrokeSequence() []RawKeystroke {
	seq := make([]RawKeystroke, len(b.keystrokeSeq))
	copy(seq, b.keystrokeSeq)
	return seq
}

// RemoveLast pops the tail entry and the keystrokes it accounted for from
// the sequence log, restoring one entry from overflow to the front if any
// is available. Returns false if the buffer was already empty.
//
// The sequence-log pop is only correct when the tail entry is the
// most-recently-typed one; other removal paths (e.g. mid-word edits via
// rebuild) degrade sequence-log fidelity, a documented limitation carried
// from spec §4.2.
func (b *TypingBuffer) RemoveLast() bool {
	if len(b.entries) == 0 {
		return false
	}
	last := b.entries[len(b.entries)-1]
	b.entries = b.entries[:len(b.entries)-1]
	n := last.KeystrokeCount()
	if n > len(b.keystrokeSeq) {
		n = len(b.keystrokeSeq)
	}
	b.keystrokeSeq = b.keystrokeSeq[:len(b.keystrokeSeq)-n]

	if len(b.overflow) > 0 {
		restored := b.overflow[len(b.overflow)-1]
		b.overflow = b.overflow[:len(b.overflow)-1]
		b.entries = append([]CharacterEntry{restored}, b.entries...)
	}
	return true
}

// Clear empties the buffer, overflow, and keystroke log. Used on
// word-break, restore, and explicit reset.
func (b *TypingBuffer) Clear() {
	b.entries = nil
	b.overflow = nil
	b.keystrokeSeq = nil
}

// Snapshot makes an immutable deep copy of the current state.
func (b *TypingBuffer) Snapshot() Snapshot {
	entries := make([]CharacterEntry, len(b.entries))
	for i, e := range b.entries {
		entries[i] = cloneEntry(e)
	}
	overflow := make([]CharacterEntry, len(b.overflow))
	for i, e := range b.overflow {
		overflow[i] = cloneEntry(e)
	}
	seq := make([]RawKeystroke, len(b.keystrokeSeq))
	copy(seq, b.keystrokeSeq)
	return Snapshot{entries: entries, overflow: overflow, keystrokeSeq: seq}
}

// Restore replaces the buffer's state with a snapshot's. The
// keystroke-sequence log is rebuilt from entries in per-entry order,
// deliberately losing the original typing order: restore followed by
// further edits needs a log consistent with entry order, not history.
func (b *TypingBuffer) Restore(s Snapshot) {
	entries := make([]CharacterEntry, len(s.entries))
	for i, e := range s.entries {
		entries[i] = cloneEntry(e)
	}
	overflow := make([]CharacterEntry, len(s.overflow))
	for i, e := range s.overflow {
		overflow[i] = cloneEntry(e)
	}
	b.entries = entries
	b.overflow = overflow

	var seq []RawKeystroke
	for _, e := range overflow {
		seq = append(seq, e.AllKeystrokes()...)
	}
	for _, e := range entries {
		seq = append(seq, e.AllKeystrokes()...)
	}
	b.keystrokeSeq = seq
}

// RawKeystrokesAsString projects every keystroke in typing order to ASCII
// using keymap, preserving case. Used by the English-word heuristic (§4.7).
func (b *TypingBuffer) RawKeystrokesAsString(keymap func(RawKeystroke) rune) string {
	runes := make([]rune, 0, len(b.keystrokeSeq))
	for _, ks := range b.keystrokeSeq {
		runes = append(runes, keymap(ks))
	}
	return string(runes)
}

// RawFromEntriesOnly is like RawKeystrokesAsString but excludes overflow,
// avoiding false English-pattern hits on stale overflow entries after a
// restore.
func (b *TypingBuffer) RawFromEntriesOnly(keymap func(RawKeystroke) rune) string {
	var runes []rune
	for _, e := range b.entries {
		for _, ks := range e.AllKeystrokes() {
			runes = append(runes, keymap(ks))
		}
	}
	return string(runes)
}

// DefaultKeymap maps a raw keystroke to its plain ASCII letter, applying
// case from the keystroke itself (used for the English heuristic and for
// RESTORE's replacement characters).
func DefaultKeymap(ks RawKeystroke) rune {
	r := rune(ks.Keycode)
	if r < 0x20 || r > 0x7e {
		return '?'
	}
	if ks.Caps {
		return upperOf(r)
	}
	return r
}

// TypingHistory is a bounded LIFO stack of Snapshots, auto-trimming the
// oldest entry on push once it exceeds capacity. Snapshots are pushed at
// word-break and popped on backspace-after-space (restore, spec §3).
type TypingHistory struct {
	capacity int
	stack    []Snapshot
}

// NewTypingHistory returns a history with the given capacity (<=0 uses the
// package default).
func NewTypingHistory(capacity int) *TypingHistory {
	if capacity <= 0 {
		capacity = DefaultHistoryCapacity
	}
	return &TypingHistory{capacity: capacity}
}

// Push adds a snapshot, discarding the oldest if over capacity.
func (h *TypingHistory) Push(s Snapshot) {
	h.stack = append(h.stack, s)
	if len(h.stack) > h.capacity {
		h.stack = h.stack[len(h.stack)-h.capacity:]
	}
}

// Pop removes and returns the most recent snapshot.
func (h *TypingHistory) Pop() (Snapshot, bool) {
	if len(h.stack) == 0 {
		return Snapshot{}, false
	}
	s := h.stack[len(h.stack)-1]
	h.stack = h.stack[:len(h.stack)-1]
	return s, true
}

// Len reports how many snapshots are currently retained.
func (h *TypingHistory) Len() int { return len(h.stack) }
