package puyo_formats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCharTableAliasesDuplicates(t *testing.T) {
	table := NewCharTable()
	table.Add(&Entry{Character: Character{Rune: 'A', Width: 1}})
	table.Add(&Entry{Character: Character{Rune: 'B', Width: 2}})
	table.Add(&Entry{Character: Character{Rune: 'A', Width: 1}})

	assert.Equal(t, 3, table.Len())
	assert.Len(t, table.DirectEntries(), 2)

	first, err := table.Resolve(0)
	require.NoError(t, err)
	repeat, err := table.Resolve(2)
	require.NoError(t, err)
	assert.Same(t, first, repeat)
}

func TestCharTableWidthIsPartOfIdentity(t *testing.T) {
	table := NewCharTable()
	table.Add(&Entry{Character: Character{Rune: 'A', Width: 1}})
	table.Add(&Entry{Character: Character{Rune: 'A', Width: 2}})

	assert.Len(t, table.DirectEntries(), 2)
}

func TestCharTableResolveChain(t *testing.T) {
	table := NewCharTable()
	table.Add(&Entry{Character: Character{Rune: 'A'}})
	require.NoError(t, table.AddAlias(0))
	require.NoError(t, table.AddAlias(1))

	e, err := table.Resolve(2)
	require.NoError(t, err)
	assert.Equal(t, 'A', e.Rune)
}

func TestCharTableResolveOutOfRange(t *testing.T) {
	table := NewCharTable()
	table.Add(&Entry{Character: Character{Rune: 'A'}})

	_, err := table.Resolve(1)
	assert.ErrorIs(t, err, ErrIndexNotFound)

	_, err = table.Resolve(-1)
	assert.ErrorIs(t, err, ErrIndexNotFound)
}

func TestCharTableAddAliasOutOfRange(t *testing.T) {
	table := NewCharTable()
	assert.ErrorIs(t, table.AddAlias(0), ErrIndexNotFound)
}

func TestCharTableIndexOf(t *testing.T) {
	table := NewCharTable()
	table.Add(&Entry{Character: Character{Rune: 'A', Width: 1}})
	table.Add(&Entry{Character: Character{Rune: 'B', Width: 2}})
	table.Add(&Entry{Character: Character{Rune: 'A', Width: 1}})

	index, err := table.IndexOf(Character{Rune: 'A', Width: 1})
	require.NoError(t, err)
	assert.Equal(t, 0, index)

	_, err = table.IndexOf(Character{Rune: 'C'})
	assert.ErrorIs(t, err, ErrCharacterNotFound)
}

func TestCharTableString(t *testing.T) {
	table := NewCharTable()
	table.Add(&Entry{Character: Character{Rune: 'A'}})
	table.Add(&Entry{Character: Character{Rune: 'B'}})
	table.Add(&Entry{Character: Character{Rune: 'A'}})

	assert.Equal(t, "ABA", table.String())
}

func TestCharTableAttachGraphics(t *testing.T) {
	table := NewCharTable()
	table.Add(&Entry{Character: Character{Rune: 'A'}})
	table.Add(&Entry{Character: Character{Rune: 'A'}})
	table.Add(&Entry{Character: Character{Rune: 'B'}})

	graphic := Graphic{{true, true}}
	require.NoError(t, table.AttachGraphics([]Graphic{graphic, nil}))

	e, err := table.Resolve(1)
	require.NoError(t, err)
	assert.Equal(t, graphic, e.Graphic)
	assert.True(t, table.HasGraphics())
}

func TestCharTableAttachGraphicsTooFew(t *testing.T) {
	table := NewCharTable()
	table.Add(&Entry{Character: Character{Rune: 'A'}})
	table.Add(&Entry{Character: Character{Rune: 'B'}})

	err := table.AttachGraphics([]Graphic{{{true}}})
	assert.ErrorIs(t, err, ErrFormat)
}
