package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/1broseidon/dockwm/internal/config"
	"github.com/1broseidon/dockwm/internal/daemon"
	"github.com/1broseidon/dockwm/internal/ipc"
	"github.com/1broseidon/dockwm/internal/platform"
	"github.com/1broseidon/dockwm/internal/runtimepath"
)

func main() {
	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "daemon":
		if len(os.Args) > 2 && (os.Args[2] == "help" || os.Args[2] == "-h" || os.Args[2] == "--help") {
			fmt.Fprintln(os.Stdout, "Usage: dockwm daemon")
			os.Exit(0)
		}
		if len(os.Args) > 2 {
			fmt.Fprintln(os.Stderr, "daemon takes no arguments")
			fmt.Fprintln(os.Stderr, "")
			fmt.Fprintln(os.Stderr, "Usage: dockwm daemon")
			os.Exit(2)
		}
		runDaemon()
	case "status":
		os.Exit(runStatus(os.Args[2:]))
	case "monitors":
		os.Exit(runMonitors(os.Args[2:]))
	case "reload":
		os.Exit(runReload(os.Args[2:]))
	case "workspace":
		os.Exit(runWorkspace(os.Args[2:]))
	case "window":
		os.Exit(runWindow(os.Args[2:]))
	case "config":
		os.Exit(runConfig(os.Args[2:]))
	case "mcp":
		os.Exit(runMCP(os.Args[2:]))
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printMainUsage(os.Stderr)
		os.Exit(2)
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: dockwm <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  daemon              Start the dockwm daemon (foreground)")
	fmt.Fprintln(w, "  status              Show daemon status")
	fmt.Fprintln(w, "  monitors            List logical monitors")
	fmt.Fprintln(w, "  reload              Reload configuration in the running daemon")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  workspace list      List workspaces")
	fmt.Fprintln(w, "  workspace switch    Show a workspace and make it current")
	fmt.Fprintln(w, "  workspace layout    Change a workspace's layout")
	fmt.Fprintln(w, "  workspace taskbar   Toggle the taskbar for a workspace")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  window shift        Move a window in its workspace's tab order")
	fmt.Fprintln(w, "  window float        Toggle whether a window floats")
	fmt.Fprintln(w, "  window titlebar     Toggle a window's titlebar")
	fmt.Fprintln(w, "  window border       Toggle a window's border")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config validate     Validate configuration")
	fmt.Fprintln(w, "  config print        Print configuration")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  mcp serve           Start MCP server (stdio transport)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'dockwm <command> --help' for command-specific options.")
}

func runDaemon() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	log.Printf("Configuration loaded (%d monitors, %d workspaces)", max(len(cfg.Monitors), 1), len(cfg.Workspaces))

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: config.SlogLevel(cfg.LogLevel),
	}))

	backend, err := platform.NewLinuxBackend(cfg.TaskbarClass)
	if err != nil {
		log.Fatalf("Failed to connect to display: %v", err)
	}
	defer backend.Disconnect()

	statePath, err := runtimepath.StatePath()
	if err != nil {
		log.Fatalf("Failed to resolve state path: %v", err)
	}
	state, err := daemon.LoadState(statePath)
	if err != nil {
		log.Printf("Warning: ignoring daemon state: %v", err)
		state = nil
	}

	m, err := daemon.New(daemon.Options{
		Config: cfg,
		Host:   backend,
		Logger: logger,
		State:  state,
	})
	if err != nil {
		log.Fatalf("Failed to create window manager: %v", err)
	}
	if err := m.Start(); err != nil {
		log.Fatalf("Failed to start window manager: %v", err)
	}
	defer func() {
		if err := m.State().Save(statePath); err != nil {
			log.Printf("Warning: failed to save daemon state: %v", err)
		}
		m.Close()
	}()
	log.Println("dockwm daemon started successfully")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Start IPC server
	reloadChan := make(chan *config.Config, 1)
	ipcServer, err := ipc.NewServer(cfg, m.Remote(), reloadChan)
	if err != nil {
		log.Fatalf("Failed to create IPC server: %v", err)
	}
	if err := ipcServer.Start(); err != nil {
		log.Fatalf("Failed to start IPC server: %v", err)
	}
	defer ipcServer.Stop()

	reconciler := daemon.NewReconciler(daemon.ReconcilerConfig{
		Interval: cfg.ReconcileInterval,
		Logger:   logger,
	}, m, daemon.WindowListerFromHost(backend))
	go reconciler.Run(ctx)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigCh)

	reload := func(newCfg *config.Config) {
		if err := m.Do(ctx, func() error { return m.Reload(newCfg) }); err != nil {
			log.Printf("Config reload failed: %v", err)
			return
		}
		ipcServer.UpdateConfig(newCfg)
		log.Println("Config reloaded successfully")
	}

	go func() {
		for {
			select {
			case sig := <-sigCh:
				switch sig {
				case syscall.SIGHUP:
					log.Println("Received SIGHUP, reloading config...")
					newCfg, err := config.Load()
					if err != nil {
						log.Printf("Config reload failed: %v", err)
						continue
					}
					reload(newCfg)

				case os.Interrupt, syscall.SIGTERM:
					log.Println("Shutting down dockwm daemon...")
					cancel()
					return
				}

			case newCfg := <-reloadChan:
				reload(newCfg)

			case <-ctx.Done():
				return
			}
		}
	}()

	log.Println("Entering event loop...")
	if err := m.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("Event loop stopped: %v", err)
	}
}
