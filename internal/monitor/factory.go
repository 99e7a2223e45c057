package monitor

import (
	"fmt"

	"github.com/1broseidon/dockwm/internal/config"
)

// Factory builds logical monitors from the host's displays.
type Factory struct {
	shell *Shell
}

// NewFactory returns a factory whose monitors share shell.
func NewFactory(shell *Shell) *Factory {
	return &Factory{shell: shell}
}

// CreateMonitors returns one monitor per host display, in host order.
func (f *Factory) CreateMonitors() ([]*Monitor, error) {
	displays, err := f.shell.host.Displays()
	if err != nil {
		return nil, fmt.Errorf("enumerate displays: %w", err)
	}
	if len(displays) == 0 {
		return nil, fmt.Errorf("no displays found")
	}
	monitors := make([]*Monitor, len(displays))
	for i, d := range displays {
		monitors[i] = NewPhysical(i, f.shell, d.ID)
		monitors[i].SetBoundsAndWorkingArea()
	}
	return monitors, nil
}

// CreateFromDefinitions builds monitors from configured definitions. Display
// numbers index the host's display list. With no definitions it falls back
// to CreateMonitors.
func (f *Factory) CreateFromDefinitions(defs []config.MonitorDef) ([]*Monitor, error) {
	if len(defs) == 0 {
		return f.CreateMonitors()
	}
	displays, err := f.shell.host.Displays()
	if err != nil {
		return nil, fmt.Errorf("enumerate displays: %w", err)
	}

	displayID := func(i, def int) (int, error) {
		if i < 0 || i >= len(displays) {
			return 0, fmt.Errorf("monitors[%d]: display %d out of range (have %d)", def, i, len(displays))
		}
		return displays[i].ID, nil
	}

	// Split halves of one display share a parent so they share its cache.
	parents := make(map[int]*Monitor)
	monitors := make([]*Monitor, 0, len(defs))
	for i, def := range defs {
		var m *Monitor
		switch {
		case def.IsSplit():
			id, err := displayID(*def.SplitOf, i)
			if err != nil {
				return nil, err
			}
			parent, ok := parents[id]
			if !ok {
				parent = NewPhysical(-1, f.shell, id)
				parents[id] = parent
			}
			m = NewSplit(i, f.shell, parent, def.Side, def.SplitAxis())
		case def.IsComposite():
			parts := make([]*Monitor, 0, len(def.Displays))
			for _, d := range def.Displays {
				id, err := displayID(d, i)
				if err != nil {
					return nil, err
				}
				parts = append(parts, NewPhysical(-1, f.shell, id))
			}
			m = NewComposite(i, f.shell, parts, def.SpanAxis())
		case len(def.Displays) == 1:
			id, err := displayID(def.Displays[0], i)
			if err != nil {
				return nil, err
			}
			m = NewPhysical(i, f.shell, id)
		default:
			return nil, fmt.Errorf("monitors[%d]: no displays", i)
		}
		m.SetBoundsAndWorkingArea()
		monitors = append(monitors, m)
	}
	return monitors, nil
}
