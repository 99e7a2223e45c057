package monitor

import (
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/1broseidon/dockwm/internal/platform"
)

// DefaultSplitCacheTTL is how long a split monitor's parent geometry is
// reused before it is read again.
const DefaultSplitCacheTTL = 10 * time.Second

// Host is the part of the host surface the monitor subsystem drives.
type Host interface {
	platform.Displays
	platform.Placer
	platform.Docker
	platform.Taskbar
}

// ShellOptions configures a Shell.
type ShellOptions struct {
	Logger        *slog.Logger
	SplitCacheTTL time.Duration
	// Now replaces time.Now for the split cache.
	Now func() time.Time
}

// Shell is the process-wide state shared by every Monitor: the desired host
// taskbar state, the taskbar shown hook and the split-monitor parent caches.
type Shell struct {
	host   Host
	logger *slog.Logger
	now    func() time.Time
	ttl    time.Duration

	taskbarShown bool
	unwatch      func()

	mu     sync.Mutex
	splits map[*Monitor]*splitCache
}

type splitCache struct {
	mu        sync.Mutex
	refreshed time.Time
	valid     bool
	bounds    platform.Rect
	work      platform.Rect
	primary   bool
}

// NewShell creates a Shell. Call Start before switching workspaces and Close
// on shutdown.
func NewShell(host Host, opts ShellOptions) *Shell {
	s := &Shell{
		host:   host,
		logger: opts.Logger,
		now:    opts.Now,
		ttl:    opts.SplitCacheTTL,
		splits: make(map[*Monitor]*splitCache),
	}
	if s.logger == nil {
		s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.ttl == 0 {
		s.ttl = DefaultSplitCacheTTL
	}
	return s
}

// Start records the host taskbar's current visibility and hooks its shown
// notification.
func (s *Shell) Start() error {
	s.taskbarShown = s.host.TaskbarVisible()
	if !s.host.TaskbarPresent() {
		return nil
	}
	unwatch, err := s.host.WatchTaskbarShown(s.taskbarShownByHost)
	if err != nil {
		return err
	}
	s.unwatch = unwatch
	return nil
}

// Close unhooks the taskbar and shows it again if it was hidden.
func (s *Shell) Close() {
	if s.unwatch != nil {
		s.unwatch()
		s.unwatch = nil
	}
	if !s.taskbarShown && s.host.TaskbarPresent() {
		s.ShowHideTaskbar(true)
	}
}

// TaskbarShown is the taskbar state last requested.
func (s *Shell) TaskbarShown() bool { return s.taskbarShown }

// ShowHideTaskbar sets the host taskbar's auto-hide and visibility.
func (s *Shell) ShowHideTaskbar(show bool) {
	if err := s.host.SetTaskbarAutoHide(!show); err != nil {
		s.logger.Debug("set taskbar auto-hide", "error", err)
	}
	if err := s.host.SetTaskbarVisible(show); err != nil {
		s.logger.Debug("set taskbar visibility", "error", err)
	}
	s.taskbarShown = show
}

// taskbarShownByHost re-asserts the requested state when the host shows an
// auto-hidden taskbar on its own.
func (s *Shell) taskbarShownByHost() {
	if s.host.TaskbarVisible() != s.taskbarShown {
		s.logger.Debug("host changed taskbar visibility, restoring", "shown", s.taskbarShown)
		s.ShowHideTaskbar(s.taskbarShown)
	}
}

// parentGeometry returns the cached rectangles of a split monitor's parent,
// refreshing them once the cache is older than the TTL.
func (s *Shell) parentGeometry(parent *Monitor) (bounds, work platform.Rect, primary bool) {
	s.mu.Lock()
	c, ok := s.splits[parent]
	if !ok {
		c = &splitCache{}
		s.splits[parent] = c
	}
	s.mu.Unlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if now := s.now(); !c.valid || now.Sub(c.refreshed) >= s.ttl {
		parent.SetBoundsAndWorkingArea()
		c.bounds, c.work, c.primary = parent.bounds, parent.workingArea, parent.primary
		c.refreshed = now
		c.valid = true
	}
	return c.bounds, c.work, c.primary
}
