package tui

import (
	tea "charm.land/bubbletea/v2"
	uv "github.com/charmbracelet/ultraviolet"
)

// Drawable components render to a screen rectangle
type Drawable interface {
	Draw(scr uv.Screen, area uv.Rectangle) *tea.Cursor
}

// Updateable components handle messages
type Updateable interface {
	Update(tea.Msg) tea.Cmd
}

// Component combines Drawable and Updateable
type Component interface {
	Drawable
	Updateable
}

// Sizable components track their dimensions
type Sizable interface {
	SetSize(width, height int)
}

// Focusable components track focus state
type Focusable interface {
	SetFocus(focused bool)
	IsFocused() bool
}

// FullComponent combines Drawable, Updateable, and Sizable
type FullComponent interface {
	Component
	Sizable
}

// FocusableComponent adds focus to FullComponent
type FocusableComponent interface {
	FullComponent
	Focusable
}
