package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// LayoutMode defines how tiled windows are arranged.
type LayoutMode string

const (
	LayoutModeAuto        LayoutMode = "auto"         // Dynamic grid based on count.
	LayoutModeFixed       LayoutMode = "fixed"        // Specific rows × cols.
	LayoutModeVertical    LayoutMode = "vertical"     // Single column stack.
	LayoutModeHorizontal  LayoutMode = "horizontal"   // Single row side-by-side.
	LayoutModeMasterStack LayoutMode = "master-stack" // Master pane left, stack grid right.
)

// RegionType defines tile region presets.
type RegionType string

const (
	RegionFull       RegionType = "full"
	RegionLeftHalf   RegionType = "left-half"
	RegionRightHalf  RegionType = "right-half"
	RegionTopHalf    RegionType = "top-half"
	RegionBottomHalf RegionType = "bottom-half"
	RegionCustom     RegionType = "custom"
)

// TileRegion defines where inside the working area windows are tiled.
type TileRegion struct {
	Type          RegionType `yaml:"type"`
	XPercent      int        `yaml:"x_percent"`      // 0-100
	YPercent      int        `yaml:"y_percent"`      // 0-100
	WidthPercent  int        `yaml:"width_percent"`  // 0-100
	HeightPercent int        `yaml:"height_percent"` // 0-100
}

// FixedGrid defines specific grid dimensions.
type FixedGrid struct {
	Rows int `yaml:"rows"`
	Cols int `yaml:"cols"`
}

// MasterStack defines the master-stack layout parameters.
type MasterStack struct {
	MasterWidthPercent int `yaml:"master_width_percent"` // Width of master pane as percentage (10-90)
	MaxStackRows       int `yaml:"max_stack_rows"`       // Maximum rows in the stack grid (>= 1)
	MaxStackCols       int `yaml:"max_stack_cols"`       // Maximum columns in the stack grid (>= 1)
}

// Layout defines a tiling configuration.
type Layout struct {
	Mode            LayoutMode  `yaml:"mode"`
	TileRegion      TileRegion  `yaml:"tile_region"`
	FixedGrid       FixedGrid   `yaml:"fixed_grid,omitempty"`
	MasterStack     MasterStack `yaml:"master_stack,omitempty"`
	MaxWindowWidth  int         `yaml:"max_window_width"`  // 0 = unlimited
	MaxWindowHeight int         `yaml:"max_window_height"` // 0 = unlimited
	FlexibleLastRow bool        `yaml:"flexible_last_row"` // Last row windows expand to fill width (auto mode only)
}

// FullScreenLayout names the maximize-everything layout. It is always
// available and cannot be redefined under layouts.
const FullScreenLayout = "full-screen"

// Span is the axis a composite monitor merges along, or a split monitor
// divides along.
type Span string

const (
	SpanHorizontal Span = "horizontal"
	SpanVertical   Span = "vertical"
)

// SplitSide picks the half of a split monitor.
type SplitSide string

const (
	SplitFirst  SplitSide = "first"
	SplitSecond SplitSide = "second"
)

// MonitorDef declares one logical monitor: a single display, several
// displays merged into a composite, or half of a display.
type MonitorDef struct {
	Displays []int     `yaml:"displays,omitempty"`
	Span     Span      `yaml:"span,omitempty"`
	SplitOf  *int      `yaml:"split_of,omitempty"`
	Side     SplitSide `yaml:"side,omitempty"`
	Axis     Span      `yaml:"axis,omitempty"`
}

func (m MonitorDef) IsSplit() bool     { return m.SplitOf != nil }
func (m MonitorDef) IsComposite() bool { return len(m.Displays) > 1 }

// SpanAxis returns the merge axis, horizontal when unset.
func (m MonitorDef) SpanAxis() Span {
	if m.Span == "" {
		return SpanHorizontal
	}
	return m.Span
}

// SplitAxis returns the split axis, horizontal when unset.
func (m MonitorDef) SplitAxis() Span {
	if m.Axis == "" {
		return SpanHorizontal
	}
	return m.Axis
}

// Bar is an externally rendered dock window reserved space for by dockwm.
type Bar struct {
	Name    string `yaml:"name"`
	Class   string `yaml:"class"`
	Height  int    `yaml:"height"`
	Monitor int    `yaml:"monitor"`
}

// Workspace declares one switchable workspace.
type Workspace struct {
	Name               string   `yaml:"name"`
	Monitor            int      `yaml:"monitor"`
	Layout             string   `yaml:"layout"`
	BarsTop            []string `yaml:"bars_top,omitempty"`
	BarsBottom         []string `yaml:"bars_bottom,omitempty"`
	ShowTaskbar        bool     `yaml:"show_taskbar"`
	RepositionOnSwitch bool     `yaml:"reposition_on_switch"`
}

// Decoration is the initial state a rule imposes on a window decoration.
type Decoration string

const (
	DecorationUnchanged Decoration = ""
	DecorationShown     Decoration = "shown"
	DecorationHidden    Decoration = "hidden"
)

// CreatedAction is what happens to a matched window when it first appears.
type CreatedAction string

const (
	// CreatedActionNone switches to the window's workspace.
	CreatedActionNone            CreatedAction = ""
	CreatedActionHide            CreatedAction = "hide"
	CreatedActionTemporarilyShow CreatedAction = "temporarily_show"
)

// Rule matches new windows by class and title and decides where they go.
// Rules are evaluated in order; the first match wins.
type Rule struct {
	Class string `yaml:"class,omitempty"`
	Title string `yaml:"title,omitempty"`
	// Workspaces are 1-based; 0 means the current workspace. A window
	// matched to several workspaces is shared between them.
	Workspaces []int         `yaml:"workspaces,omitempty"`
	Floating   bool          `yaml:"floating,omitempty"`
	Titlebar   Decoration    `yaml:"titlebar,omitempty"`
	Border     Decoration    `yaml:"border,omitempty"`
	Managed    *bool         `yaml:"managed,omitempty"`
	OnCreated  CreatedAction `yaml:"on_created,omitempty"`
	// HideFromTaskbar drops the window's taskbar entry while it is managed.
	HideFromTaskbar bool `yaml:"hide_from_taskbar,omitempty"`
	// HideFromAltTab keeps the window out of window switchers while its
	// workspace is hidden.
	HideFromAltTab bool `yaml:"hide_from_alt_tab,omitempty"`
}

// IsManaged returns the effective value, defaulting to true.
func (r Rule) IsManaged() bool {
	return r.Managed == nil || *r.Managed
}

// Config holds the application configuration.
type Config struct {
	// Include lists files or directories merged before this file.
	Include yaml.Node `yaml:"include,omitempty"`

	LogLevel          string            `yaml:"log_level"`
	GapSize           int               `yaml:"gap_size"`
	SplitCacheTTL     time.Duration     `yaml:"split_cache_ttl"`
	RestoreDelay      time.Duration     `yaml:"restore_delay"`
	ReconcileInterval time.Duration     `yaml:"reconcile_interval"`
	TaskbarClass      string            `yaml:"taskbar_class"`
	Monitors          []MonitorDef      `yaml:"monitors,omitempty"`
	Layouts           map[string]Layout `yaml:"layouts"`
	Bars              []Bar             `yaml:"bars,omitempty"`
	Workspaces        []Workspace       `yaml:"workspaces"`
	Rules             []Rule            `yaml:"rules,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		LogLevel:          "info",
		GapSize:           8,
		SplitCacheTTL:     10 * time.Second,
		RestoreDelay:      50 * time.Millisecond,
		ReconcileInterval: 10 * time.Second,
		TaskbarClass:      "xfce4-panel",
		Layouts:           BuiltinLayouts(),
		Workspaces: []Workspace{
			{Name: "main", Layout: DefaultBuiltinLayout},
			{Name: "web", Layout: FullScreenLayout},
			{Name: "misc", Layout: DefaultBuiltinLayout},
		},
	}
}

// Save writes the configuration to path.
//
// Note: this marshals the effective config and will not preserve comments or
// include structure from the original YAML.
func (c *Config) Save(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := c.Marshal()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Marshal renders the effective configuration as YAML, leaving out builtin
// layouts that were not overridden.
func (c *Config) Marshal() ([]byte, error) {
	save := *c
	save.Include = yaml.Node{}
	save.Layouts = layoutsForSave(c.Layouts)
	data, err := yaml.Marshal(&save)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

func layoutsForSave(layouts map[string]Layout) map[string]Layout {
	builtin := BuiltinLayouts()
	out := make(map[string]Layout)
	for name, layout := range layouts {
		if base, ok := builtin[name]; ok && base == layout {
			continue
		}
		out[name] = layout
	}
	return out
}

// GetLayout retrieves a tiling layout by name with validation.
func (c *Config) GetLayout(name string) (*Layout, error) {
	layout, ok := c.Layouts[name]
	if !ok {
		return nil, fmt.Errorf("layout %q not found", name)
	}

	if err := validateLayout(&layout); err != nil {
		return nil, fmt.Errorf("invalid layout %q: %w", name, err)
	}

	return &layout, nil
}

// HasLayout reports whether name is the full-screen layout or a configured
// tiling layout.
func (c *Config) HasLayout(name string) bool {
	if name == FullScreenLayout {
		return true
	}
	_, ok := c.Layouts[name]
	return ok
}

// LayoutNames returns full-screen followed by the tiling layouts in sorted
// order.
func (c *Config) LayoutNames() []string {
	names := sortedKeys(c.Layouts)
	return append([]string{FullScreenLayout}, names...)
}

// BarByName returns the declared bar with the given name.
func (c *Config) BarByName(name string) (Bar, bool) {
	for _, b := range c.Bars {
		if b.Name == name {
			return b, true
		}
	}
	return Bar{}, false
}

// SlogLevel maps log_level to a slog level. Unknown values map to info.
func SlogLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warning", "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Validate performs strict validation of the effective configuration.
func (c *Config) Validate() error {
	if c.LogLevel != "debug" && c.LogLevel != "info" && c.LogLevel != "warning" && c.LogLevel != "error" {
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: debug, info, warning, error")}
	}
	if c.GapSize < 0 {
		return &ValidationError{Path: "gap_size", Err: fmt.Errorf("gap_size must be >= 0")}
	}
	if c.SplitCacheTTL < 0 {
		return &ValidationError{Path: "split_cache_ttl", Err: fmt.Errorf("split_cache_ttl must be >= 0")}
	}
	if c.RestoreDelay < 0 {
		return &ValidationError{Path: "restore_delay", Err: fmt.Errorf("restore_delay must be >= 0")}
	}
	if c.ReconcileInterval < 0 {
		return &ValidationError{Path: "reconcile_interval", Err: fmt.Errorf("reconcile_interval must be >= 0")}
	}

	for i, m := range c.Monitors {
		if err := validateMonitor(m); err != nil {
			return &ValidationError{Path: fmt.Sprintf("monitors[%d]", i), Err: err}
		}
	}

	if _, ok := c.Layouts[FullScreenLayout]; ok {
		return &ValidationError{Path: "layouts." + FullScreenLayout, Err: fmt.Errorf("%q is reserved", FullScreenLayout)}
	}
	for name, layout := range c.Layouts {
		layout := layout
		if err := validateLayout(&layout); err != nil {
			return &ValidationError{Path: "layouts." + name, Err: err}
		}
	}

	bars := make(map[string]struct{}, len(c.Bars))
	for i, b := range c.Bars {
		path := fmt.Sprintf("bars[%d]", i)
		if strings.TrimSpace(b.Name) == "" {
			return &ValidationError{Path: path + ".name", Err: fmt.Errorf("name is required")}
		}
		if _, dup := bars[b.Name]; dup {
			return &ValidationError{Path: path + ".name", Err: fmt.Errorf("duplicate bar %q", b.Name)}
		}
		bars[b.Name] = struct{}{}
		if strings.TrimSpace(b.Class) == "" {
			return &ValidationError{Path: path + ".class", Err: fmt.Errorf("class is required")}
		}
		if b.Height <= 0 {
			return &ValidationError{Path: path + ".height", Err: fmt.Errorf("height must be > 0")}
		}
		if err := c.validateMonitorIndex(b.Monitor); err != nil {
			return &ValidationError{Path: path + ".monitor", Err: err}
		}
	}

	if len(c.Workspaces) == 0 {
		return &ValidationError{Path: "workspaces", Err: fmt.Errorf("at least one workspace is required")}
	}
	names := make(map[string]struct{}, len(c.Workspaces))
	for i, ws := range c.Workspaces {
		path := fmt.Sprintf("workspaces[%d]", i)
		if strings.TrimSpace(ws.Name) == "" {
			return &ValidationError{Path: path + ".name", Err: fmt.Errorf("name is required")}
		}
		if _, dup := names[ws.Name]; dup {
			return &ValidationError{Path: path + ".name", Err: fmt.Errorf("duplicate workspace %q", ws.Name)}
		}
		names[ws.Name] = struct{}{}
		if err := c.validateMonitorIndex(ws.Monitor); err != nil {
			return &ValidationError{Path: path + ".monitor", Err: err}
		}
		if !c.HasLayout(ws.Layout) {
			return &ValidationError{Path: path + ".layout", Err: fmt.Errorf("layout %q not found", ws.Layout)}
		}
		for _, name := range append(append([]string{}, ws.BarsTop...), ws.BarsBottom...) {
			if _, ok := bars[name]; !ok {
				return &ValidationError{Path: path, Err: fmt.Errorf("bar %q not declared under bars", name)}
			}
		}
	}

	for i, r := range c.Rules {
		if err := c.validateRule(r); err != nil {
			return &ValidationError{Path: fmt.Sprintf("rules[%d]", i), Err: err}
		}
	}

	return nil
}

func (c *Config) validateMonitorIndex(idx int) error {
	if idx < 0 {
		return fmt.Errorf("monitor index must be >= 0")
	}
	if len(c.Monitors) > 0 && idx >= len(c.Monitors) {
		return fmt.Errorf("monitor index %d out of range (%d monitors defined)", idx, len(c.Monitors))
	}
	return nil
}

func validateMonitor(m MonitorDef) error {
	switch {
	case m.IsSplit() && len(m.Displays) > 0:
		return fmt.Errorf("displays and split_of are mutually exclusive")
	case m.IsSplit():
		if *m.SplitOf < 0 {
			return fmt.Errorf("split_of must be >= 0")
		}
		if m.Side != SplitFirst && m.Side != SplitSecond {
			return fmt.Errorf("side must be one of: first, second")
		}
		if err := validateSpan(m.Axis, "axis"); err != nil {
			return err
		}
	case len(m.Displays) == 0:
		return fmt.Errorf("displays or split_of is required")
	default:
		for _, d := range m.Displays {
			if d < 0 {
				return fmt.Errorf("display index must be >= 0")
			}
		}
		if err := validateSpan(m.Span, "span"); err != nil {
			return err
		}
	}
	return nil
}

func validateSpan(s Span, field string) error {
	switch s {
	case "", SpanHorizontal, SpanVertical:
		return nil
	default:
		return fmt.Errorf("%s must be one of: horizontal, vertical", field)
	}
}

func (c *Config) validateRule(r Rule) error {
	if _, err := regexp.Compile(r.Class); err != nil {
		return fmt.Errorf("class: %w", err)
	}
	if _, err := regexp.Compile(r.Title); err != nil {
		return fmt.Errorf("title: %w", err)
	}
	for _, n := range r.Workspaces {
		if n < 0 || n > len(c.Workspaces) {
			return fmt.Errorf("workspace %d out of range (0 = current, 1-%d)", n, len(c.Workspaces))
		}
	}
	for _, d := range []Decoration{r.Titlebar, r.Border} {
		switch d {
		case DecorationUnchanged, DecorationShown, DecorationHidden:
		default:
			return fmt.Errorf("decoration state %q must be one of: shown, hidden", d)
		}
	}
	switch r.OnCreated {
	case CreatedActionNone, CreatedActionHide, CreatedActionTemporarilyShow:
	default:
		return fmt.Errorf("on_created %q must be one of: hide, temporarily_show", r.OnCreated)
	}
	return nil
}

// validateLayout checks if a layout configuration is valid.
func validateLayout(layout *Layout) error {
	switch layout.Mode {
	case LayoutModeAuto, LayoutModeFixed, LayoutModeVertical, LayoutModeHorizontal, LayoutModeMasterStack:
	default:
		return fmt.Errorf("invalid mode %q", layout.Mode)
	}

	if layout.Mode == LayoutModeFixed {
		if layout.FixedGrid.Rows <= 0 || layout.FixedGrid.Cols <= 0 {
			return fmt.Errorf("fixed mode requires rows and cols to be positive")
		}
	}

	if layout.Mode == LayoutModeMasterStack {
		if layout.MasterStack.MasterWidthPercent < 10 || layout.MasterStack.MasterWidthPercent > 90 {
			return fmt.Errorf("master_stack.master_width_percent must be between 10 and 90")
		}
		if layout.MasterStack.MaxStackRows < 1 {
			return fmt.Errorf("master_stack.max_stack_rows must be >= 1")
		}
		if layout.MasterStack.MaxStackCols < 1 {
			return fmt.Errorf("master_stack.max_stack_cols must be >= 1")
		}
	}

	if layout.MaxWindowWidth < 0 || layout.MaxWindowHeight < 0 {
		return fmt.Errorf("max_window_width/height must be >= 0")
	}

	switch layout.TileRegion.Type {
	case RegionFull, RegionLeftHalf, RegionRightHalf, RegionTopHalf, RegionBottomHalf:
		// ok
	case RegionCustom:
		r := layout.TileRegion
		if r.XPercent < 0 || r.XPercent > 100 {
			return fmt.Errorf("x_percent must be between 0 and 100")
		}
		if r.YPercent < 0 || r.YPercent > 100 {
			return fmt.Errorf("y_percent must be between 0 and 100")
		}
		if r.WidthPercent <= 0 || r.WidthPercent > 100 {
			return fmt.Errorf("width_percent must be between 1 and 100")
		}
		if r.HeightPercent <= 0 || r.HeightPercent > 100 {
			return fmt.Errorf("height_percent must be between 1 and 100")
		}
		if r.XPercent+r.WidthPercent > 100 {
			return fmt.Errorf("x_percent + width_percent must be <= 100")
		}
		if r.YPercent+r.HeightPercent > 100 {
			return fmt.Errorf("y_percent + height_percent must be <= 100")
		}
	default:
		return fmt.Errorf("invalid region type %q", layout.TileRegion.Type)
	}

	return nil
}
