package theme

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatppuccinMochaPalette(t *testing.T) {
	th := NewCatppuccinMocha()

	assert.Equal(t, "catppuccin-mocha", th.Name)
	assert.True(t, th.IsDark)

	// Every palette field the renderer depends on must be populated.
	hexFields := map[string]string{
		"Primary":    th.Primary,
		"Secondary":  th.Secondary,
		"Tertiary":   th.Tertiary,
		"BgCrust":    th.BgCrust,
		"BgMantle":   th.BgMantle,
		"BgBase":     th.BgBase,
		"BgSurface0": th.BgSurface0,
		"BgSurface1": th.BgSurface1,
		"BgSurface2": th.BgSurface2,
		"BgOverlay":  th.BgOverlay,
		"FgMuted":    th.FgMuted,
		"FgSubtle":   th.FgSubtle,
		"FgBase":     th.FgBase,
		"FgBright":   th.FgBright,
		"Success":    th.Success,
		"Warning":    th.Warning,
		"Error":      th.Error,
		"Info":       th.Info,
	}
	for name, hex := range hexFields {
		require.Len(t, hex, 7, "%s should be a #RRGGBB hex string, got %q", name, hex)
		assert.Equal(t, byte('#'), hex[0], "%s should start with #", name)
	}
}

func TestCurrentReturnsStableTheme(t *testing.T) {
	a := Current()
	b := Current()
	require.NotNil(t, a)
	assert.Same(t, a, b)
}

func TestStylesLazyInit(t *testing.T) {
	th := NewCatppuccinMocha()

	s1 := th.S()
	s2 := th.S()
	require.NotNil(t, s1)
	assert.Same(t, s1, s2, "S() should build styles once and reuse them")
}

func TestInterpolateColorEndpoints(t *testing.T) {
	assert.Equal(t, "#000000", InterpolateColor("#000000", "#ffffff", 0.0))
	assert.Equal(t, "#ffffff", InterpolateColor("#000000", "#ffffff", 1.0))

	// Midpoint lands between the endpoints on every channel.
	mid := InterpolateColor("#000000", "#ffffff", 0.5)
	r, g, b := ParseHexColor(mid)
	assert.InDelta(t, 127, int(r), 1)
	assert.InDelta(t, 127, int(g), 1)
	assert.InDelta(t, 127, int(b), 1)
}

func TestParseHexColor(t *testing.T) {
	r, g, b := ParseHexColor("#cba6f7")
	assert.Equal(t, uint8(0xcb), r)
	assert.Equal(t, uint8(0xa6), g)
	assert.Equal(t, uint8(0xf7), b)

	// Prefix-less and malformed inputs.
	r, g, b = ParseHexColor("a6e3a1")
	assert.Equal(t, uint8(0xa6), r)
	assert.Equal(t, uint8(0xe3), g)
	assert.Equal(t, uint8(0xa1), b)

	r, g, b = ParseHexColor("xyz")
	assert.Zero(t, r)
	assert.Zero(t, g)
	assert.Zero(t, b)
}

func TestFormatHexColor(t *testing.T) {
	assert.Equal(t, "#cba6f7", FormatHexColor(0xcb, 0xa6, 0xf7))
	assert.Equal(t, "#000000", FormatHexColor(0, 0, 0))
}
