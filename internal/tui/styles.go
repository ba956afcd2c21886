package tui

import (
	"charm.land/lipgloss/v2"

	"github.com/mark3labs/pathway/internal/tui/theme"
)

// ============================================================================
// COLOR PALETTE - Catppuccin Mocha
// ============================================================================
//
// Colors are sourced from the active theme so the palette stays in one place.
// The hex values also feed chroma style transforms, which is why the theme
// stores strings rather than color values.
//
// COLOR USAGE GUIDELINES:
//
// BACKGROUNDS (darkest to lightest):
//
//	colorCrust   - Terminal backdrop behind the whole app
//	colorMantle  - Status bar and footer backgrounds
//	colorBase    - Main application background
//	colorSurface0/1/2 - Badges, selected rows, emphasized surfaces
//
// TEXT (dimmest to brightest):
//
//	colorMuted  - Very muted text (timestamps, separators)
//	colorSubtle - Muted text (secondary info, hints)
//	colorText   - Primary text content
//	colorBright - Emphasized text, titles
//
// ACCENTS:
//
//	colorPrimary   - Brand color, active stage, focused elements
//	colorSecondary - Record names, interactive elements
//	colorTertiary  - Key hints, subtle highlights
//
// SEMANTIC:
//
//	colorSuccess - Won outcomes, completed stages, connected state
//	colorWarning - In-flight commits, attention needed
//	colorError   - Lost outcomes, failures, disconnected state
//	colorInfo    - Informational feed entries
//
// ============================================================================
var (
	thm = theme.Current()

	// === BASE LAYER (backgrounds) ===
	colorCrust    = lipgloss.Color(thm.BgCrust)
	colorMantle   = lipgloss.Color(thm.BgMantle)
	colorBase     = lipgloss.Color(thm.BgBase)
	colorSurface0 = lipgloss.Color(thm.BgSurface0)
	colorSurface1 = lipgloss.Color(thm.BgSurface1)
	colorSurface2 = lipgloss.Color(thm.BgSurface2)
	colorOverlay  = lipgloss.Color(thm.BgOverlay)

	// === TEXT LAYER ===
	colorMuted  = lipgloss.Color(thm.FgMuted)
	colorSubtle = lipgloss.Color(thm.FgSubtle)
	colorText   = lipgloss.Color(thm.FgBase)
	colorBright = lipgloss.Color(thm.FgBright)

	// === ACCENTS ===
	colorPrimary   = lipgloss.Color(thm.Primary)
	colorSecondary = lipgloss.Color(thm.Secondary)
	colorTertiary  = lipgloss.Color(thm.Tertiary)

	// === SEMANTIC ===
	colorSuccess = lipgloss.Color(thm.Success)
	colorWarning = lipgloss.Color(thm.Warning)
	colorError   = lipgloss.Color(thm.Error)
	colorInfo    = lipgloss.Color(thm.Info)
	colorPeach   = lipgloss.Color(thm.Peach)
	colorTeal    = lipgloss.Color(thm.Teal)
	colorPink    = lipgloss.Color(thm.Pink)
)

// === CHROME (header, footer, status bar) ===
var (
	styleHeaderApp = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true)

	styleHeaderSeparator = lipgloss.NewStyle().
				Foreground(colorOverlay)

	styleHeaderObject = lipgloss.NewStyle().
				Foreground(colorSubtle)

	styleHeaderRecord = lipgloss.NewStyle().
				Foreground(colorText).
				Bold(true)

	styleHeaderInfo = lipgloss.NewStyle().
			Foreground(colorMuted)

	styleFooterBar = lipgloss.NewStyle().
			Background(colorMantle).
			Padding(0, 1)

	styleFooterKey = lipgloss.NewStyle().
			Foreground(colorTertiary).
			Background(colorMantle).
			Bold(true)

	styleFooterLabel = lipgloss.NewStyle().
				Foreground(colorSubtle).
				Background(colorMantle)

	styleFooterActive = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Background(colorMantle).
				Bold(true)

	styleStatusBar = lipgloss.NewStyle().
			Background(colorMantle)

	styleStatusBusy = lipgloss.NewStyle().
			Foreground(colorWarning).
			Background(colorMantle)

	styleStatusConnected = lipgloss.NewStyle().
				Foreground(colorSuccess).
				Background(colorMantle)

	styleStatusDisconnected = lipgloss.NewStyle().
				Foreground(colorError).
				Background(colorMantle)
)

// === PANELS (shared by DrawPanel and DrawScrollIndicator) ===
var (
	stylePanelTitle = lipgloss.NewStyle().
			Foreground(colorSubtle).
			Bold(true)

	stylePanelTitleFocused = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true)

	stylePanelRule = lipgloss.NewStyle().
			Foreground(colorSurface1)

	stylePanelRuleFocused = lipgloss.NewStyle().
				Foreground(colorPrimary)

	styleScrollIndicator = lipgloss.NewStyle().
				Foreground(colorMuted).
				Background(colorSurface0)

	styleDivider = lipgloss.NewStyle().
			Foreground(colorSurface1)
)

// === STAGE BAR (chevron rendering per stage state) ===
var (
	styleStageComplete = lipgloss.NewStyle().
				Foreground(colorSuccess)

	styleStageCurrent = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true)

	styleStageActive = lipgloss.NewStyle().
				Foreground(colorCrust).
				Background(colorPrimary).
				Bold(true)

	styleStageSelected = lipgloss.NewStyle().
				Foreground(colorCrust).
				Background(colorSecondary).
				Bold(true)

	styleStageIncomplete = lipgloss.NewStyle().
				Foreground(colorMuted)

	styleStageWon = lipgloss.NewStyle().
			Foreground(colorCrust).
			Background(colorSuccess).
			Bold(true)

	styleStageLost = lipgloss.NewStyle().
			Foreground(colorCrust).
			Background(colorError).
			Bold(true)

	styleStageChevron = lipgloss.NewStyle().
				Foreground(colorOverlay)

	styleActionButton = lipgloss.NewStyle().
				Foreground(colorCrust).
				Background(colorPrimary).
				Bold(true).
				Padding(0, 2)

	stylePathField = lipgloss.NewStyle().
			Foreground(colorTeal)

	stylePathValue = lipgloss.NewStyle().
			Foreground(colorText).
			Bold(true)

	stylePathMeta = lipgloss.NewStyle().
			Foreground(colorSubtle)

	styleErrorTitle = lipgloss.NewStyle().
			Foreground(colorError).
			Bold(true)

	styleErrorBody = lipgloss.NewStyle().
			Foreground(colorError)
)

// === RECORD LIST ===
var (
	styleRecordCursor = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true)

	styleRecordName = lipgloss.NewStyle().
			Foreground(colorText)

	styleRecordNameSelected = lipgloss.NewStyle().
				Foreground(colorBright).
				Bold(true)

	styleRecordStage = lipgloss.NewStyle().
				Foreground(colorSubtle).
				Background(colorSurface0).
				Padding(0, 1)

	styleRecordStageWon = lipgloss.NewStyle().
				Foreground(colorSuccess).
				Background(colorSurface0).
				Padding(0, 1)

	styleRecordStageLost = lipgloss.NewStyle().
				Foreground(colorError).
				Background(colorSurface0).
				Padding(0, 1)

	styleRecordBound = lipgloss.NewStyle().
				Foreground(colorSuccess)

	styleFilterPrompt = lipgloss.NewStyle().
				Foreground(colorTertiary)
)

// === ACTIVITY FEED ===
var (
	styleEventTime = lipgloss.NewStyle().
			Foreground(colorMuted)

	styleEventRecord = lipgloss.NewStyle().
				Foreground(colorSecondary)

	styleEventField = lipgloss.NewStyle().
			Foreground(colorTeal)

	styleEventNote = lipgloss.NewStyle().
			Foreground(colorPeach)

	styleEventDescription = lipgloss.NewStyle().
				Foreground(colorPink)

	styleEventCreate = lipgloss.NewStyle().
				Foreground(colorSuccess)

	styleEventDelete = lipgloss.NewStyle().
				Foreground(colorError)

	styleEventSelected = lipgloss.NewStyle().
				Foreground(colorBright).
				Background(colorSurface1)

	styleTransitionArrow = lipgloss.NewStyle().
				Foreground(colorMuted)

	styleDiffAdd = lipgloss.NewStyle().
			Foreground(colorSuccess).
			Background(lipgloss.Color(thm.DiffInsertBg))

	styleDiffDel = lipgloss.NewStyle().
			Foreground(colorError).
			Background(lipgloss.Color(thm.DiffDeleteBg))

	styleDiffHunk = lipgloss.NewStyle().
			Foreground(colorInfo)
)

// === MODALS ===
var (
	styleModalContainer = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorSurface2).
				Background(colorBase).
				Padding(1, 2)

	styleModalTitle = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true)

	styleModalLabel = lipgloss.NewStyle().
			Foreground(colorSubtle)

	styleModalValue = lipgloss.NewStyle().
			Foreground(colorText)

	styleModalSeparator = lipgloss.NewStyle().
				Foreground(colorSurface1)

	styleChooserCursor = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true)

	styleChooserWon = lipgloss.NewStyle().
			Foreground(colorSuccess).
			Bold(true)

	styleChooserLost = lipgloss.NewStyle().
				Foreground(colorError).
				Bold(true)

	styleInputLabel = lipgloss.NewStyle().
			Foreground(colorSubtle)

	styleInputLabelFocused = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true)

	styleModalButton = lipgloss.NewStyle().
				Foreground(colorCrust).
				Background(colorPrimary).
				Bold(true)

	styleModalButtonIdle = lipgloss.NewStyle().
				Foreground(colorSubtle).
				Background(colorSurface1)

	styleModalButtonDisabled = lipgloss.NewStyle().
					Foreground(colorMuted).
					Background(colorSurface0)
)

// === GENERAL ===
var (
	styleEmptyState = lipgloss.NewStyle().
			Foreground(colorMuted).
			Italic(true)

	styleDim = lipgloss.NewStyle().
			Foreground(colorMuted)

	styleHighlight = lipgloss.NewStyle().
			Foreground(colorBright).
			Bold(true)
)
