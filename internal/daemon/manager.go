// Package daemon runs the window manager: it builds monitors, workspaces and
// bars from the configuration, routes host events to them on the host's
// message loop, and keeps them consistent with the host.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime/debug"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/1broseidon/dockwm/internal/bar"
	"github.com/1broseidon/dockwm/internal/config"
	"github.com/1broseidon/dockwm/internal/layout"
	"github.com/1broseidon/dockwm/internal/monitor"
	"github.com/1broseidon/dockwm/internal/platform"
	"github.com/1broseidon/dockwm/internal/tiling"
	"github.com/1broseidon/dockwm/internal/window"
	"github.com/1broseidon/dockwm/internal/workspace"
)

// ErrStopped is returned by Do once the message loop has exited.
var ErrStopped = errors.New("window manager stopped")

// Options configures a Manager.
type Options struct {
	Config *config.Config
	Host   platform.Host
	Logger *slog.Logger
	// State picks the workspaces shown at start. Nil shows each monitor's
	// first workspace.
	State *State
	// Now and Sleep replace the clock used by the split-monitor cache and the
	// full-screen layout.
	Now   func() time.Time
	Sleep func(time.Duration)
}

// placed is one workspace's copy of a managed window.
type placed struct {
	ws  *workspace.Workspace
	win *window.Window
}

// Manager owns the monitors, workspaces and windows of the window manager.
// Apart from Run and Do, its methods must be called on the message loop:
// from host events, from a function passed to Do, or before Run.
type Manager struct {
	host   platform.Host
	logger *slog.Logger
	now    func() time.Time
	sleep  func(time.Duration)
	state  *State

	cfg        *config.Config
	hub        *workspace.Hub
	shell      *monitor.Shell
	monitors   []*monitor.Monitor
	workspaces []*workspace.Workspace
	monitorOf  map[*workspace.Workspace]*monitor.Monitor
	bars       []*bar.Bar
	rules      []rule
	windows    map[platform.WindowID][]placed
	current    *workspace.Workspace

	tasks chan func()
	done  chan struct{}

	mu     sync.Mutex
	cancel context.CancelFunc
	fatal  error
}

var _ platform.EventSink = (*Manager)(nil)

// New builds the monitors, bars and workspaces described by the
// configuration. Nothing is shown until Start.
func New(opts Options) (*Manager, error) {
	if opts.Host == nil {
		return nil, errors.New("daemon: host is required")
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	m := &Manager{
		host:   opts.Host,
		logger: opts.Logger,
		now:    opts.Now,
		sleep:  opts.Sleep,
		state:  opts.State,
		tasks:  make(chan func()),
		done:   make(chan struct{}),
	}
	if m.logger == nil {
		m.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if m.now == nil {
		m.now = time.Now
	}
	if m.sleep == nil {
		m.sleep = time.Sleep
	}
	if err := m.build(cfg); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Manager) build(cfg *config.Config) error {
	rules, err := compileRules(cfg.Rules)
	if err != nil {
		return err
	}

	shell := monitor.NewShell(m.host, monitor.ShellOptions{
		Logger:        m.logger,
		SplitCacheTTL: cfg.SplitCacheTTL,
		Now:           m.now,
	})
	monitors, err := monitor.NewFactory(shell).CreateFromDefinitions(cfg.Monitors)
	if err != nil {
		return fmt.Errorf("create monitors: %w", err)
	}

	bars := make(map[string]*bar.Bar, len(cfg.Bars))
	barList := make([]*bar.Bar, 0, len(cfg.Bars))
	for _, b := range cfg.Bars {
		bb := bar.New(m.host, b, m.logger)
		bars[b.Name] = bb
		barList = append(barList, bb)
	}
	pick := func(names []string) []workspace.Bar {
		out := make([]workspace.Bar, 0, len(names))
		for _, name := range names {
			if b, ok := bars[name]; ok {
				out = append(out, b)
			}
		}
		return out
	}

	m.cfg = cfg
	m.hub = workspace.NewHub()
	m.shell = shell
	m.monitors = monitors
	m.workspaces = nil
	m.monitorOf = make(map[*workspace.Workspace]*monitor.Monitor)
	m.bars = barList
	m.rules = rules
	m.windows = make(map[platform.WindowID][]placed)
	m.current = nil

	for _, wc := range cfg.Workspaces {
		mon := monitors[0]
		if wc.Monitor < len(monitors) {
			mon = monitors[wc.Monitor]
		} else {
			m.logger.Warn("workspace monitor out of range, using the first monitor",
				"workspace", wc.Name, "monitor", wc.Monitor, "monitors", len(monitors))
		}
		l, err := m.newLayout(wc.Layout)
		if err != nil {
			m.discard()
			return fmt.Errorf("workspace %q: %w", wc.Name, err)
		}
		m.addWorkspace(mon, workspace.Options{
			Name:                   wc.Name,
			Layout:                 l,
			BarsAtTop:              pick(wc.BarsTop),
			BarsAtBottom:           pick(wc.BarsBottom),
			ShowTaskbar:            wc.ShowTaskbar,
			RepositionOnSwitchedTo: wc.RepositionOnSwitch,
		})
	}
	// Every monitor shows something; monitors no workspace names get their
	// own full-screen workspace.
	for _, mon := range monitors {
		if len(mon.Workspaces()) > 0 {
			continue
		}
		l, _ := m.newLayout(config.FullScreenLayout)
		m.addWorkspace(mon, workspace.Options{
			Name:        fmt.Sprintf("monitor-%d", mon.Index()),
			Layout:      l,
			ShowTaskbar: true,
		})
	}

	m.hub.Shown.Subscribe(func(ws *workspace.Workspace) {
		m.logger.Debug("workspace shown", "workspace", ws.Name())
	})
	m.hub.MonitorChanged.Subscribe(func(c workspace.MonitorChange) {
		if mon, ok := c.New.(*monitor.Monitor); ok {
			m.monitorOf[c.Workspace] = mon
		}
		m.logger.Info("workspace moved", "workspace", c.Workspace.Name(), "monitor", c.New.Index())
	})
	m.hub.LayoutChanged.Subscribe(func(c workspace.LayoutChange) {
		m.logger.Info("layout changed", "workspace", c.Workspace.Name(),
			"from", c.Old.LayoutName(), "to", c.Workspace.Layout().LayoutName())
	})
	return nil
}

// discard drops what a failed build already registered with the host.
func (m *Manager) discard() {
	for _, ws := range m.workspaces {
		ws.Layout().Close()
	}
	for _, mon := range m.monitors {
		mon.Close()
	}
	m.workspaces = nil
}

func (m *Manager) addWorkspace(mon *monitor.Monitor, opts workspace.Options) {
	opts.MonitorCount = len(m.monitors)
	ws := workspace.New(m.hub, mon, opts)
	mon.AddWorkspace(ws)
	m.workspaces = append(m.workspaces, ws)
	m.monitorOf[ws] = mon
}

func (m *Manager) newLayout(name string) (workspace.Layout, error) {
	if name == config.FullScreenLayout {
		return layout.NewFullScreen(m.host, layout.FullScreenOptions{
			RestoreDelay: m.cfg.RestoreDelay,
			Logger:       m.logger,
			Sleep:        m.sleep,
		}), nil
	}
	def, err := m.cfg.GetLayout(name)
	if err != nil {
		return nil, err
	}
	return tiling.New(name, *def, m.cfg.GapSize, m.host, m.logger), nil
}

// Start shows the starting workspaces and takes over the host's existing
// windows.
func (m *Manager) Start() error {
	if err := m.shell.Start(); err != nil {
		return fmt.Errorf("start shell: %w", err)
	}

	for _, mon := range m.monitors {
		ws := m.startingWorkspace(mon)
		mon.SetStartingWorkspace(ws)
		if mon.Primary() && ws.ShowTaskbar() != m.shell.TaskbarShown() {
			mon.ShowHideTaskbar(ws.ShowTaskbar())
		}
		mon.Initialize()
	}
	m.current = m.monitors[0].CurrentVisibleWorkspace()
	if m.state != nil {
		if ws := m.Workspace(m.state.Current); ws != nil && ws.IsVisible() {
			m.current = ws
		}
	}
	m.current.SetCurrent(true)
	m.hideUnusedBars()

	windows, err := m.host.Windows()
	if err != nil {
		m.logger.Warn("list windows", "error", err)
	}
	for _, w := range windows {
		m.manage(w, true)
	}
	for _, ws := range m.workspaces {
		ws.Initialize()
	}

	m.logger.Info("window manager started",
		"monitors", len(m.monitors),
		"workspaces", len(m.workspaces),
		"windows", len(m.windows),
		"current", m.current.Name())
	return nil
}

func (m *Manager) startingWorkspace(mon *monitor.Monitor) *workspace.Workspace {
	if m.state != nil {
		if ws := m.Workspace(m.state.Shown[mon.Index()]); ws != nil && m.monitorOf[ws] == mon {
			return ws
		}
	}
	return mon.Workspaces()[0]
}

// hideUnusedBars hides bars no shown workspace declares.
func (m *Manager) hideUnusedBars() {
	used := make(map[workspace.Bar]bool)
	for _, mon := range m.monitors {
		if ws := mon.CurrentVisibleWorkspace(); ws != nil {
			for _, b := range ws.BarsForMonitor(mon.Index()) {
				used[b] = true
			}
		}
	}
	for _, b := range m.bars {
		if !used[b] {
			b.Hide()
		}
	}
}

// Run pumps host events and posted tasks until ctx is cancelled or event
// handling fails. A panic while handling an event stops the loop and is
// returned.
func (m *Manager) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	m.mu.Lock()
	m.cancel = cancel
	m.mu.Unlock()

	err := m.host.Run(ctx, m, m.tasks)
	close(m.done)

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fatal != nil {
		return m.fatal
	}
	return err
}

// Do runs fn on the message loop and waits for its result.
func (m *Manager) Do(ctx context.Context, fn func() error) error {
	result := make(chan error, 1)
	task := func() { result <- m.protect("task", fn) }
	select {
	case m.tasks <- task:
	case <-m.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// protect runs fn, turning a panic into a fatal error that stops Run.
func (m *Manager) protect(op string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s: panic: %v", op, r)
			m.logger.Error("unrecoverable error in event handling",
				"op", op, "panic", r, "stack", string(debug.Stack()))
			m.fail(err)
		}
	}()
	return fn()
}

func (m *Manager) fail(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fatal == nil {
		m.fatal = err
	}
	if m.cancel != nil {
		m.cancel()
	}
}

// Close gives every window back its original decorations, shows what was
// hidden and drops the dock registrations.
func (m *Manager) Close() {
	ids := make([]platform.WindowID, 0, len(m.windows))
	for id := range m.windows {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		w := m.windows[id][0].win
		w.Revert()
		if !w.IsMinimized() {
			w.Show()
		}
	}
	for _, ws := range m.workspaces {
		ws.Layout().Close()
	}
	for _, mon := range m.monitors {
		mon.Close()
	}
	for _, b := range m.bars {
		b.Show()
	}
	m.shell.Close()
}

// Reload replaces the configuration, keeping the shown workspaces where the
// new configuration still has them. On failure the previous configuration is
// restored.
func (m *Manager) Reload(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if _, err := compileRules(cfg.Rules); err != nil {
		return err
	}
	old := m.cfg
	m.state = m.State()
	m.Close()

	err := m.build(cfg)
	if err != nil {
		m.logger.Error("reload failed, restoring previous configuration", "error", err)
		if rerr := m.build(old); rerr != nil {
			return fmt.Errorf("reload: %w (restore: %v)", err, rerr)
		}
	}
	if serr := m.Start(); serr != nil {
		return serr
	}
	if err != nil {
		return fmt.Errorf("reload: %w", err)
	}
	m.logger.Info("configuration reloaded")
	return nil
}

// State snapshots the shown workspaces.
func (m *Manager) State() *State {
	st := &State{Shown: make(map[int]string), SavedAt: m.now()}
	for _, mon := range m.monitors {
		if ws := mon.CurrentVisibleWorkspace(); ws != nil {
			st.Shown[mon.Index()] = ws.Name()
		}
	}
	if m.current != nil {
		st.Current = m.current.Name()
	}
	return st
}

// Workspace returns the workspace with the given name, or nil.
func (m *Manager) Workspace(name string) *workspace.Workspace {
	for _, ws := range m.workspaces {
		if ws.Name() == name {
			return ws
		}
	}
	return nil
}

// CurrentWorkspace is the shown workspace of the focused monitor.
func (m *Manager) CurrentWorkspace() *workspace.Workspace { return m.current }

// WindowCreated manages a new window according to the first matching rule.
func (m *Manager) WindowCreated(w platform.Window) {
	_ = m.protect("window created", func() error {
		m.manage(w, false)
		return nil
	})
}

func (m *Manager) manage(w platform.Window, discovered bool) {
	if _, ok := m.windows[w.ID]; ok {
		return
	}
	for _, b := range m.bars {
		if strings.EqualFold(b.Class(), w.Class) {
			if b.Resolve() {
				m.refreshBars()
			}
			return
		}
	}

	r := matchRule(m.rules, w)
	if !r.IsManaged() {
		m.logger.Debug("window left unmanaged", "window", w.ID, "class", w.Class)
		return
	}
	targets := m.targets(r.Workspaces)

	titlebar := true
	if style, err := m.host.WindowStyle(w.ID); err == nil {
		titlebar = style.Caption
	}
	opts := window.Options{
		Floating:        r.Floating,
		Titlebar:        decoration(r.Titlebar, titlebar),
		Border:          decoration(r.Border, true),
		HideFromTaskbar: r.HideFromTaskbar,
		Workspaces:      len(targets),
		Logger:          m.logger,

		HideFromAltTabWhenInactive: r.HideFromAltTab,
	}
	first := window.New(m.host, w, opts)
	entries := make([]placed, 0, len(targets))
	for i, ws := range targets {
		win := first
		if i > 0 {
			win = first.Copy(opts)
		}
		entries = append(entries, placed{ws: ws, win: win})
	}
	m.windows[w.ID] = entries
	for _, p := range entries {
		p.ws.WindowCreated(p.win)
	}
	m.logger.Debug("window managed", "window", w.ID, "class", w.Class, "workspaces", len(entries))

	for _, ws := range targets {
		if ws.IsVisible() {
			return
		}
	}
	switch {
	case discovered || r.OnCreated == config.CreatedActionHide:
		if !first.IsMinimized() {
			first.Hide()
		}
	case r.OnCreated == config.CreatedActionTemporarilyShow:
		m.monitorOf[m.current].TemporarilyShow(w.ID)
	default:
		m.switchTo(targets[0], false)
	}
}

// targets resolves rule workspace numbers: 1-based, 0 is the current
// workspace.
func (m *Manager) targets(nums []int) []*workspace.Workspace {
	var out []*workspace.Workspace
	for _, n := range nums {
		ws := m.current
		if n > 0 {
			if n > len(m.workspaces) {
				continue
			}
			ws = m.workspaces[n-1]
		}
		if !slices.Contains(out, ws) {
			out = append(out, ws)
		}
	}
	if len(out) == 0 {
		out = append(out, m.current)
	}
	return out
}

func (m *Manager) WindowDestroyed(id platform.WindowID) {
	_ = m.protect("window destroyed", func() error {
		m.forget(id)
		return nil
	})
}

func (m *Manager) forget(id platform.WindowID) {
	for _, b := range m.bars {
		if b.Resolved() && b.Handle() == id {
			b.Forget()
		}
	}
	entries, ok := m.windows[id]
	if !ok {
		return
	}
	delete(m.windows, id)
	for _, p := range entries {
		p.ws.WindowDestroyed(p.win)
	}
	m.logger.Debug("window forgotten", "window", id)
}

func (m *Manager) WindowMinimized(id platform.WindowID) {
	_ = m.protect("window minimized", func() error {
		for _, p := range m.windows[id] {
			p.ws.WindowMinimized(id)
		}
		return nil
	})
}

func (m *Manager) WindowRestored(id platform.WindowID) {
	_ = m.protect("window restored", func() error {
		for _, p := range m.windows[id] {
			p.ws.WindowRestored(id)
		}
		return nil
	})
}

// WindowActivated follows focus: activating a window of a hidden workspace
// switches to it, and activating one on another monitor makes that
// monitor's workspace current.
func (m *Manager) WindowActivated(id platform.WindowID) {
	_ = m.protect("window activated", func() error {
		entries := m.windows[id]
		if len(entries) == 0 {
			m.current.WindowActivated(id)
			return nil
		}
		for _, p := range entries {
			p.ws.WindowActivated(id)
		}
		if m.monitorOf[m.current].IsTemporarilyShown(id) {
			return nil
		}
		for _, p := range entries {
			if p.ws.IsVisible() {
				m.makeCurrent(p.ws)
				return nil
			}
		}
		m.switchTo(entries[0].ws, false)
		return nil
	})
}

// DisplaysChanged re-reads every monitor and lays out the shown workspaces.
func (m *Manager) DisplaysChanged() {
	_ = m.protect("displays changed", func() error {
		for _, mon := range m.monitors {
			mon.SetBoundsAndWorkingArea()
		}
		for _, mon := range m.monitors {
			if ws := mon.CurrentVisibleWorkspace(); ws != nil {
				ws.Reposition()
			}
		}
		return nil
	})
}

// SweepDestroyed forgets managed windows missing from alive and returns how
// many there were.
func (m *Manager) SweepDestroyed(alive []platform.WindowID) int {
	set := make(map[platform.WindowID]struct{}, len(alive))
	for _, id := range alive {
		set[id] = struct{}{}
	}
	var gone []platform.WindowID
	for id := range m.windows {
		if _, ok := set[id]; !ok {
			gone = append(gone, id)
		}
	}
	slices.Sort(gone)
	for _, id := range gone {
		m.forget(id)
	}
	return len(gone)
}

// RefreshBars looks every bar window up again and re-places the shown bars
// when one appeared, restarted or went away. It reports whether anything
// changed.
func (m *Manager) RefreshBars() bool {
	changed := false
	for _, b := range m.bars {
		if b.Resolve() {
			m.logger.Info("bar window changed", "bar", b.Name(), "window", b.Handle())
			changed = true
		}
	}
	if changed {
		m.refreshBars()
	}
	return changed
}

func (m *Manager) refreshBars() {
	for _, mon := range m.monitors {
		mon.RefreshBars()
	}
	m.hideUnusedBars()
}

// SwitchWorkspace shows the named workspace on its monitor and makes it
// current.
func (m *Manager) SwitchWorkspace(name string) error {
	ws := m.Workspace(name)
	if ws == nil {
		return fmt.Errorf("workspace %q not found", name)
	}
	m.switchTo(ws, true)
	return nil
}

func (m *Manager) switchTo(ws *workspace.Workspace, activate bool) {
	mon := m.monitorOf[ws]
	old := mon.CurrentVisibleWorkspace()
	if old != ws {
		for _, id := range mon.ClearTemporarilyShown() {
			if !ws.ContainsWindow(id) && !m.shownElsewhere(id, old) {
				m.setVisible(id, false)
			}
		}
		for _, w := range old.ZOrder() {
			if !ws.ContainsWindow(w.Handle()) && !w.IsMinimized() && !m.shownElsewhere(w.Handle(), old) {
				m.setVisible(w.Handle(), false)
			}
		}

		mon.SwitchToWorkspace(ws)

		// Bottom first, so the topmost window is mapped last.
		z := ws.ZOrder()
		for i := len(z) - 1; i >= 0; i-- {
			if w := z[i]; !old.ContainsWindow(w.Handle()) && !w.IsMinimized() {
				m.setVisible(w.Handle(), true)
			}
		}
		m.logger.Debug("switched workspace", "monitor", mon.Index(), "from", old.Name(), "to", ws.Name())
	}
	m.makeCurrent(ws)

	if activate {
		if w := ws.GetTopmostZOrderWindow(); w != nil {
			if err := m.host.Activate(w.Handle()); err != nil {
				m.logger.Debug("activate window", "window", w.Handle(), "error", err)
			}
		}
	}
}

// shownElsewhere reports whether a shown workspace other than except holds
// the window.
func (m *Manager) shownElsewhere(id platform.WindowID, except *workspace.Workspace) bool {
	for _, p := range m.windows[id] {
		if p.ws != except && p.ws.IsVisible() {
			return true
		}
	}
	return false
}

func (m *Manager) setVisible(id platform.WindowID, visible bool) {
	entries := m.windows[id]
	if len(entries) == 0 {
		return
	}
	if visible {
		entries[0].win.Show()
	} else {
		entries[0].win.Hide()
	}
}

func (m *Manager) makeCurrent(ws *workspace.Workspace) {
	if m.current == ws {
		return
	}
	m.current.SetCurrent(false)
	m.current = ws
	ws.SetCurrent(true)
}
