package workspace

import "github.com/1broseidon/dockwm/internal/platform"

// Window is a managed top-level window. Identity is the native handle.
type Window interface {
	Handle() platform.WindowID

	IsFloating() bool
	SetFloating(floating bool)
	IsMinimized() bool
	SetMinimized(minimized bool)

	// WorkspacesCount is the number of workspaces the window belongs to.
	WorkspacesCount() int
	HideFromAltTabWhenInactive() bool

	// Initialize applies the window's managed state (decorations, taskbar
	// visibility) to the host window.
	Initialize()
	SavePosition()
	RestorePosition(doNotShow bool)

	ToggleTitlebar()
	ToggleBorder()
	ToggleMenu()
	ToggleTaskbarVisibility()
}

// Bar is an externally rendered dock bar.
type Bar interface {
	Handle() platform.WindowID
	Height() int
	// MonitorIndex is the logical monitor the bar is drawn on.
	MonitorIndex() int
	// OnClientWidthChanging tells the bar its next client width.
	OnClientWidthChanging(width int)
	Show()
	Hide()
}

// Monitor is the part of a logical monitor a workspace and its layout need.
type Monitor interface {
	Index() int
	Bounds() platform.Rect
	WorkingArea() platform.Rect
	Primary() bool
	// ShowHideTaskbar shows or auto-hides the host taskbar.
	ShowHideTaskbar(show bool)
}

// Layout arranges the windows of one workspace.
type Layout interface {
	LayoutSymbol() string
	// LayoutName identifies the layout; changing to a layout with the same
	// name is a no-op.
	LayoutName() string
	Initialize(ws *Workspace)
	ShouldSaveAndRestoreSharedWindowsPosition() bool
	Reposition()
	WindowMinimized(w Window)
	WindowRestored(w Window)
	WindowCreated(w Window)
	WindowDestroyed(w Window)
	// Close drops any subscriptions made in Initialize.
	Close()
}
