package puyo_formats

import (
	"fmt"
	"strings"
)

// Character identifies a table entry. The width takes part in identity,
// the graphic does not.
type Character struct {
	Rune  rune
	Width uint8
}

// Entry is a concrete character table entry. The graphic is optional and
// only carried by formats that embed glyphs.
type Entry struct {
	Character
	Graphic Graphic
}

// A slot either holds a concrete entry (alias < 0) or redirects to an
// earlier index. Repeated characters keep their positional index in the
// file but share one entry through the alias.
type slot struct {
	entry *Entry
	alias int
}

// CharTable is an ordered, index addressable character table with an
// inverse map from character identity to first index. It is built up
// front during a decode and queried immutably afterwards; AttachGraphics
// is the one post construction mutation and is not safe to run
// concurrently with reads.
type CharTable struct {
	slots   []slot
	inverse map[Character]int
}

func NewCharTable() *CharTable {
	return &CharTable{inverse: make(map[Character]int)}
}

// Add appends a concrete entry, or an alias to the first occurrence when
// an entry with the same identity is already in the table.
func (t *CharTable) Add(e *Entry) {
	if first, ok := t.inverse[e.Character]; ok {
		t.slots = append(t.slots, slot{alias: first})
		return
	}

	t.inverse[e.Character] = len(t.slots)
	t.slots = append(t.slots, slot{entry: e, alias: -1})
}

// AddAlias appends an alias to an index created earlier. Aliases never
// point forward, which is what bounds Resolve.
func (t *CharTable) AddAlias(index int) error {
	if index < 0 || index >= len(t.slots) {
		return fmt.Errorf("alias to index %d in a table of %d entries: %w", index, len(t.slots), ErrIndexNotFound)
	}

	t.slots = append(t.slots, slot{alias: index})
	return nil
}

func (t *CharTable) Len() int {
	return len(t.slots)
}

// Resolve follows alias links until a concrete entry is found. Every hop
// moves to a strictly earlier index, so the walk always terminates.
func (t *CharTable) Resolve(index int) (*Entry, error) {
	if index < 0 || index >= len(t.slots) {
		return nil, fmt.Errorf("index %d in a table of %d entries: %w", index, len(t.slots), ErrIndexNotFound)
	}

	s := t.slots[index]
	for s.alias >= 0 {
		s = t.slots[s.alias]
	}

	return s.entry, nil
}

// IndexOf returns the first index that resolves to the given character.
func (t *CharTable) IndexOf(c Character) (int, error) {
	index, ok := t.inverse[c]
	if !ok {
		return 0, fmt.Errorf("character %q: %w", c.Rune, ErrCharacterNotFound)
	}

	return index, nil
}

// CharacterAt resolves an index to its character. This is the lookup the
// mtx string bank renders against.
func (t *CharTable) CharacterAt(index int) (rune, error) {
	e, err := t.Resolve(index)
	if err != nil {
		return 0, err
	}

	return e.Rune, nil
}

// String resolves every index in order and concatenates the characters,
// aliases included.
func (t *CharTable) String() string {
	var b strings.Builder
	for i := range t.slots {
		e, err := t.Resolve(i)
		if err != nil {
			continue
		}

		b.WriteRune(e.Rune)
	}

	return b.String()
}

// DirectEntries returns the concrete entries in first seen order,
// skipping aliases.
func (t *CharTable) DirectEntries() []*Entry {
	entries := make([]*Entry, 0, len(t.inverse))
	for _, s := range t.slots {
		if s.alias < 0 {
			entries = append(entries, s.entry)
		}
	}

	return entries
}

// HasGraphics reports whether any entry carries a graphic.
func (t *CharTable) HasGraphics() bool {
	for _, s := range t.slots {
		if s.alias < 0 && s.entry.Graphic != nil {
			return true
		}
	}

	return false
}

// AttachGraphics fills in the graphic of every concrete entry
// positionally, in first seen order. Supplying fewer graphics than
// concrete entries is an error; extra graphics are ignored.
func (t *CharTable) AttachGraphics(graphics []Graphic) error {
	direct := t.DirectEntries()
	if len(graphics) < len(direct) {
		return fmt.Errorf("%d graphics for %d characters: %w", len(graphics), len(direct), ErrFormat)
	}

	for i, e := range direct {
		e.Graphic = graphics[i]
	}

	return nil
}
