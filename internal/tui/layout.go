package tui

import uv "github.com/charmbracelet/ultraviolet"

// Layout breakpoints and dimensions
const (
	// CompactWidthBreakpoint is the minimum width for desktop mode
	CompactWidthBreakpoint = 100
	// CompactHeightBreakpoint is the minimum height for desktop mode
	CompactHeightBreakpoint = 25
	// HeaderHeight is the height of the header in rows
	HeaderHeight = 1
	// StatusHeight is the height of the status bar in rows
	StatusHeight = 1
	// FooterHeight is the height of the footer in rows
	FooterHeight = 1
)

// LayoutMode represents the layout mode based on terminal size
type LayoutMode int

const (
	// LayoutDesktop is the full layout with all chrome detail
	LayoutDesktop LayoutMode = iota
	// LayoutCompact is the condensed layout for small terminals
	LayoutCompact
)

// Layout defines the rectangular regions for all UI components
type Layout struct {
	Mode   LayoutMode
	Area   uv.Rectangle
	Header uv.Rectangle
	Main   uv.Rectangle
	Status uv.Rectangle
	Footer uv.Rectangle
}

// IsCompact returns true if the layout is in compact mode
func (l Layout) IsCompact() bool {
	return l.Mode == LayoutCompact
}

// CalculateLayout computes the layout rectangles based on terminal dimensions
func CalculateLayout(width, height int) Layout {
	// Determine layout mode based on breakpoints
	mode := LayoutDesktop
	if width < CompactWidthBreakpoint || height < CompactHeightBreakpoint {
		mode = LayoutCompact
	}

	// Create the full area
	area := uv.Rectangle{
		Max: uv.Position{X: width, Y: height},
	}

	// Split vertically: header | rest
	headerRect, rest := uv.SplitVertical(area, uv.Fixed(HeaderHeight))

	// Split the rest: main | status+footer
	mainRect, chrome := uv.SplitVertical(rest, uv.Fixed(rest.Dy()-StatusHeight-FooterHeight))

	// Split chrome rows: status | footer (footer takes the bottom row)
	statusRect, footerRect := uv.SplitVertical(chrome, uv.Fixed(StatusHeight))

	return Layout{
		Mode:   mode,
		Area:   area,
		Header: headerRect,
		Main:   mainRect,
		Status: statusRect,
		Footer: footerRect,
	}
}
