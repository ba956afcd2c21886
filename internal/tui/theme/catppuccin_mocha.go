package theme

// NewCatppuccinMocha creates the default Catppuccin Mocha theme.
func NewCatppuccinMocha() *Theme {
	return &Theme{
		Name:   "catppuccin-mocha",
		IsDark: true,

		// Semantic colors
		Primary:   "#cba6f7", // Mauve
		Secondary: "#89b4fa", // Blue
		Tertiary:  "#b4befe", // Lavender

		// Background hierarchy
		BgCrust:    "#11111b", // Darkest, terminal backdrop
		BgMantle:   "#181825", // Slightly raised surfaces
		BgBase:     "#1e1e2e", // Base background
		BgSurface0: "#313244", // Panels and badges
		BgSurface1: "#45475a", // Hovered or selected rows
		BgSurface2: "#585b70", // Emphasized surfaces
		BgOverlay:  "#6c7086", // Rules and separators

		// Foreground hierarchy
		FgMuted:  "#7f849c", // De-emphasized text
		FgSubtle: "#a6adc8", // Secondary text
		FgBase:   "#cdd6f4", // Main text color
		FgBright: "#f5e0dc", // Highlighted text

		// Status colors
		Success: "#a6e3a1", // Green
		Warning: "#f9e2af", // Yellow
		Error:   "#f38ba8", // Red
		Info:    "#89dceb", // Sky

		// Accent colors
		Peach: "#fab387",
		Teal:  "#94e2d5",
		Pink:  "#f5c2e7",

		// Diff colors
		DiffInsertBg:  "#303a30", // Green-tinted background for insertions
		DiffDeleteBg:  "#3a3030", // Red-tinted background for deletions
		DiffEqualBg:   "#1e1e2e", // Neutral background for context lines
		DiffMissingBg: "#181825", // Dim background for empty sides
	}
}
