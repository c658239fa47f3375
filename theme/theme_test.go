package theme

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const gpl = `GIMP Palette
Name: Mono
Columns: 2
# comment
  0   0   0	black
255 255 255	white
300 0 0	out of range
`

func TestLoadGPL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mono.gpl")
	require.NoError(t, os.WriteFile(path, []byte(gpl), 0644))

	p, err := LoadGPL(path)
	require.NoError(t, err)
	assert.Equal(t, "Mono", p.Name)
	assert.Equal(t, []RGB{{0, 0, 0}, {255, 255, 255}}, p.Colors)
}

func TestLoadGPLEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.gpl")
	require.NoError(t, os.WriteFile(path, []byte("GIMP Palette\nName: Empty\n"), 0644))

	_, err := LoadGPL(path)
	assert.ErrorContains(t, err, "no colors")
}

func TestLoadOrDefault(t *testing.T) {
	p, err := LoadOrDefault("")
	require.NoError(t, err)
	assert.Equal(t, "plasma", p.Name)

	_, err = LoadOrDefault(filepath.Join(t.TempDir(), "missing.gpl"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLookup(t *testing.T) {
	p := &Palette{Colors: []RGB{{0, 0, 0}, {255, 255, 255}}}

	assert.Equal(t, RGB{0, 0, 0}, p.Lookup(-1))
	assert.Equal(t, RGB{0, 0, 0}, p.Lookup(0))
	assert.Equal(t, RGB{255, 255, 255}, p.Lookup(1))
	assert.Equal(t, RGB{255, 255, 255}, p.Lookup(2))

	// halfway in Lab lightness lands between the ends
	mid := p.Lookup(0.5)
	for _, ch := range mid {
		assert.Greater(t, ch, uint8(80))
		assert.Less(t, ch, uint8(160))
	}

	single := &Palette{Colors: []RGB{{1, 2, 3}}}
	assert.Equal(t, RGB{1, 2, 3}, single.Lookup(0.7))
}

func TestIndex(t *testing.T) {
	p := Plasma()
	assert.Equal(t, p.Colors[0], p.Index(-3))
	assert.Equal(t, p.Colors[2], p.Index(2))
	assert.Equal(t, p.Colors[len(p.Colors)-1], p.Index(99))
}

func TestThemeColors(t *testing.T) {
	th := New(Plasma())
	assert.Equal(t, lipgloss.Color("#0d0887"), th.Color(0))
	assert.Equal(t, lipgloss.Color("#f0f921"), th.Success())
	assert.Equal(t, "#ff0000", RGB{255, 0, 0}.Hex())
}
