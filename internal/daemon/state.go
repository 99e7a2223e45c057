package daemon

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// State records which workspace each monitor showed, so a restarted daemon
// comes back where it left off.
type State struct {
	// Shown maps a monitor index to the name of its visible workspace.
	Shown   map[int]string `json:"shown"`
	Current string         `json:"current,omitempty"`
	SavedAt time.Time      `json:"saved_at"`
}

// LoadState reads the state file. A missing file is an empty state.
func LoadState(path string) (*State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &State{Shown: make(map[int]string)}, nil
		}
		return nil, fmt.Errorf("failed to read daemon state: %w", err)
	}

	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("failed to parse daemon state: %w", err)
	}
	if st.Shown == nil {
		st.Shown = make(map[int]string)
	}
	return &st, nil
}

// Save writes the state file, replacing it atomically.
func (s *State) Save(path string) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode daemon state: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".dockwm-state-*")
	if err != nil {
		return fmt.Errorf("failed to write daemon state: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write daemon state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write daemon state: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to write daemon state: %w", err)
	}
	return nil
}
