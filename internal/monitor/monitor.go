// Package monitor implements logical monitors: their geometry, the dock
// registrations that reserve space for bars, and switching the workspace a
// monitor shows.
package monitor

import (
	"slices"

	"github.com/1broseidon/dockwm/internal/config"
	"github.com/1broseidon/dockwm/internal/platform"
	"github.com/1broseidon/dockwm/internal/workspace"
)

// barClass is a workspace's dock footprint on a monitor. Workspaces with the
// same class share the top and bottom registrations.
type barClass struct {
	id     int
	top    *appBar
	bottom *appBar
}

// Monitor is a logical display region showing one workspace at a time.
type Monitor struct {
	index int
	shell *Shell
	geom  geometry

	bounds      platform.Rect
	workingArea platform.Rect
	primary     bool

	current    *workspace.Workspace
	workspaces map[*workspace.Workspace]*barClass
	order      []*workspace.Workspace

	temporarilyShown map[platform.WindowID]struct{}
}

var _ workspace.Monitor = (*Monitor)(nil)

func newMonitor(index int, shell *Shell, geom geometry) *Monitor {
	return &Monitor{
		index:            index,
		shell:            shell,
		geom:             geom,
		workspaces:       make(map[*workspace.Workspace]*barClass),
		temporarilyShown: make(map[platform.WindowID]struct{}),
	}
}

// NewPhysical creates a monitor covering one host display.
func NewPhysical(index int, shell *Shell, displayID int) *Monitor {
	return newMonitor(index, shell, &physical{displayID: displayID})
}

// NewComposite creates a monitor merging parts along span.
func NewComposite(index int, shell *Shell, parts []*Monitor, span config.Span) *Monitor {
	return newMonitor(index, shell, &composite{parts: parts, span: span})
}

// NewSplit creates a monitor covering one half of parent.
func NewSplit(index int, shell *Shell, parent *Monitor, side config.SplitSide, axis config.Span) *Monitor {
	return newMonitor(index, shell, &split{parent: parent, side: side, axis: axis})
}

func (m *Monitor) Index() int                 { return m.index }
func (m *Monitor) Bounds() platform.Rect      { return m.bounds }
func (m *Monitor) WorkingArea() platform.Rect { return m.workingArea }
func (m *Monitor) Primary() bool              { return m.primary }

// PhysicalMonitorCount is the number of host displays behind the monitor.
func (m *Monitor) PhysicalMonitorCount() int { return m.geom.physicalCount() }

// CurrentVisibleWorkspace is the workspace the monitor shows.
func (m *Monitor) CurrentVisibleWorkspace() *workspace.Workspace { return m.current }

// Workspaces returns the workspaces assigned to the monitor in the order
// they were added.
func (m *Monitor) Workspaces() []*workspace.Workspace {
	return slices.Clone(m.order)
}

// ShowHideTaskbar forwards to the shell so all monitors share one taskbar
// state.
func (m *Monitor) ShowHideTaskbar(show bool) { m.shell.ShowHideTaskbar(show) }

// SetBoundsAndWorkingArea re-reads the monitor's rectangles from its
// displays.
func (m *Monitor) SetBoundsAndWorkingArea() { m.geom.refresh(m) }

// SetStartingWorkspace picks the workspace Initialize shows.
func (m *Monitor) SetStartingWorkspace(ws *workspace.Workspace) { m.current = ws }

// Initialize reserves the starting workspace's bar space and shows it.
func (m *Monitor) Initialize() {
	m.SetBoundsAndWorkingArea()
	if m.current == nil {
		return
	}
	m.ensureAdded(m.current)
	m.showHideAppBars(nil, m.current)
	m.ShowBars(m.current)
	m.current.SwitchTo()
}

// Close drops every dock registration the monitor made.
func (m *Monitor) Close() {
	seen := make(map[*appBar]struct{})
	for _, ws := range m.order {
		c := m.workspaces[ws]
		for _, ab := range []*appBar{c.top, c.bottom} {
			if ab == nil {
				continue
			}
			if _, ok := seen[ab]; ok {
				continue
			}
			seen[ab] = struct{}{}
			ab.destroy()
		}
	}
}

// AddWorkspace assigns ws to the monitor, reusing dock registrations with the
// same thickness and the bar class of a workspace with identical bars.
func (m *Monitor) AddWorkspace(ws *workspace.Workspace) {
	if _, ok := m.workspaces[ws]; ok {
		return
	}
	top := ws.BarsAtTop(m.index)
	bottom := ws.BarsAtBottom(m.index)

	for _, other := range m.order {
		if slices.Equal(top, other.BarsAtTop(m.index)) && slices.Equal(bottom, other.BarsAtBottom(m.index)) {
			c := m.workspaces[other]
			m.insert(ws, &barClass{id: c.id, top: c.top, bottom: c.bottom})
			return
		}
	}

	id := 1
	for _, c := range m.workspaces {
		id = max(id, c.id+1)
	}
	m.insert(ws, &barClass{
		id:     id,
		top:    m.appBarFor(thickness(top), platform.EdgeTop),
		bottom: m.appBarFor(thickness(bottom), platform.EdgeBottom),
	})
}

func (m *Monitor) insert(ws *workspace.Workspace, c *barClass) {
	m.workspaces[ws] = c
	m.order = append(m.order, ws)
}

func (m *Monitor) ensureAdded(ws *workspace.Workspace) {
	if _, ok := m.workspaces[ws]; !ok {
		m.AddWorkspace(ws)
	}
}

// appBarFor returns an existing registration on edge with exactly height,
// or a new one. Zero height needs no registration.
func (m *Monitor) appBarFor(height int, edge platform.Edge) *appBar {
	if height == 0 {
		return nil
	}
	for _, ws := range m.order {
		c := m.workspaces[ws]
		ab := c.top
		if edge == platform.EdgeBottom {
			ab = c.bottom
		}
		if ab != nil && ab.height == height {
			return ab
		}
	}
	return newAppBar(m, height, edge)
}

func thickness(bars []workspace.Bar) int {
	total := 0
	for _, b := range bars {
		total += b.Height()
	}
	return total
}

// RemoveWorkspace unassigns ws and drops registrations no other workspace on
// the monitor uses.
func (m *Monitor) RemoveWorkspace(ws *workspace.Workspace) {
	c, ok := m.workspaces[ws]
	if !ok {
		return
	}
	delete(m.workspaces, ws)
	m.order = slices.DeleteFunc(m.order, func(o *workspace.Workspace) bool { return o == ws })

	for _, ab := range []*appBar{c.top, c.bottom} {
		if ab != nil && !m.references(ab) {
			ab.destroy()
		}
	}
}

func (m *Monitor) references(ab *appBar) bool {
	for _, c := range m.workspaces {
		if c.top == ab || c.bottom == ab {
			return true
		}
	}
	return false
}

// EquivalenceClass returns the bar class id of ws on this monitor.
func (m *Monitor) EquivalenceClass(ws *workspace.Workspace) (int, bool) {
	c, ok := m.workspaces[ws]
	if !ok {
		return 0, false
	}
	return c.id, true
}

// SwitchToWorkspace hides the current workspace and shows ws, touching the
// dock registrations only when the bar class changes.
func (m *Monitor) SwitchToWorkspace(ws *workspace.Workspace) {
	m.ensureAdded(ws)
	old := m.current

	if old != nil {
		old.Unswitch()
		m.HideBars(ws, old)
	}

	if m.Primary() && ws.ShowTaskbar() != m.shell.TaskbarShown() {
		m.shell.ShowHideTaskbar(ws.ShowTaskbar())
	}

	m.showHideAppBars(old, ws)

	m.current = ws
	m.ShowBars(ws)
	ws.SwitchTo()
}

// HideBars hides the bars of oldWs on this monitor that newWs does not show.
func (m *Monitor) HideBars(newWs, oldWs *workspace.Workspace) {
	keep := make(map[workspace.Bar]struct{})
	for _, b := range newWs.BarsForMonitor(m.index) {
		keep[b] = struct{}{}
	}
	for _, b := range oldWs.BarsForMonitor(m.index) {
		if _, ok := keep[b]; !ok {
			b.Hide()
		}
	}
}

// ShowBars shows every bar ws declares for this monitor.
func (m *Monitor) ShowBars(ws *workspace.Workspace) {
	for _, b := range ws.BarsForMonitor(m.index) {
		b.Show()
	}
}

func (m *Monitor) showHideAppBars(oldWs, newWs *workspace.Workspace) {
	next := m.workspaces[newWs]
	var prev *barClass
	if oldWs != nil {
		prev = m.workspaces[oldWs]
	}
	if prev != nil && prev.id == next.id {
		return
	}

	var oldTop, oldBottom *appBar
	if prev != nil {
		oldTop, oldBottom = prev.top, prev.bottom
	}
	m.swapAppBar(oldTop, next.top)
	m.swapAppBar(oldBottom, next.bottom)
	// Reserving or releasing dock space moves the working area the layouts
	// are about to read.
	m.SetBoundsAndWorkingArea()
	m.placeBars(newWs)
}

// RefreshBars places and shows the bars of the shown workspace again, for bar
// windows that appeared after it was shown.
func (m *Monitor) RefreshBars() {
	if m.current == nil {
		return
	}
	m.ensureAdded(m.current)
	m.placeBars(m.current)
	m.ShowBars(m.current)
}

func (m *Monitor) placeBars(ws *workspace.Workspace) {
	next := m.workspaces[ws]
	var placements []platform.Placement
	if next.top != nil {
		placements = append(placements, next.top.positionBars(ws.BarsAtTop(m.index))...)
	}
	if next.bottom != nil {
		placements = append(placements, next.bottom.positionBars(ws.BarsAtBottom(m.index))...)
	}
	if len(placements) == 0 {
		return
	}
	if err := m.shell.host.DeferPositions(placements); err != nil {
		m.shell.logger.Debug("position bars", "monitor", m.index, "error", err)
	}
}

// swapAppBar releases hide and reserves show unless they are the same
// registration, in which case the host is not called at all.
func (m *Monitor) swapAppBar(hide, show *appBar) {
	if hide == show {
		return
	}
	if hide != nil {
		hide.hide()
	}
	if show != nil {
		show.setPosition()
	}
}

// TemporarilyShow marks a window from another workspace as shown here until
// the next switch.
func (m *Monitor) TemporarilyShow(id platform.WindowID) {
	m.temporarilyShown[id] = struct{}{}
}

func (m *Monitor) IsTemporarilyShown(id platform.WindowID) bool {
	_, ok := m.temporarilyShown[id]
	return ok
}

// ClearTemporarilyShown forgets and returns the temporarily shown windows.
func (m *Monitor) ClearTemporarilyShown() []platform.WindowID {
	ids := make([]platform.WindowID, 0, len(m.temporarilyShown))
	for id := range m.temporarilyShown {
		ids = append(ids, id)
	}
	clear(m.temporarilyShown)
	slices.Sort(ids)
	return ids
}
