package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/1broseidon/dockwm/internal/config"
	"github.com/1broseidon/dockwm/internal/ipc"
)

func TestParseWindowID(t *testing.T) {
	tests := []struct {
		in      string
		want    uint32
		wantErr bool
	}{
		{"", 0, false},
		{"42", 42, false},
		{"0x1e00007", 0x1e00007, false},
		{" 7 ", 7, false},
		{"window", 0, true},
		{"0x1ffffffff", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseWindowID(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseWindowID(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Fatalf("parseWindowID(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"main", 0, "main"},
		{"main", 4, "main"},
		{"communication", 5, "comm…"},
		{"écrans", 3, "éc…"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}

func TestWriteWorkspaces(t *testing.T) {
	workspaces := []ipc.WorkspaceInfo{
		{Name: "main", Layout: "Grid", Symbol: "[G]", Windows: 3, Visible: true, Current: true, ShowTaskbar: true},
		{Name: "web", Layout: "Full Screen", Symbol: "[F]"},
		{Name: "chat", Monitor: 1, Layout: "Grid", Symbol: "[G]", Visible: true},
	}

	var buf bytes.Buffer
	writeWorkspaces(&buf, workspaces, false, 0)
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want header plus 3:\n%s", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[1], "*") || !strings.Contains(lines[1], "shown") {
		t.Fatalf("current workspace line = %q", lines[1])
	}
	if !strings.HasPrefix(lines[3], "+") {
		t.Fatalf("visible workspace line = %q", lines[3])
	}

	buf.Reset()
	writeWorkspaces(&buf, workspaces, true, 0)
	if strings.Contains(buf.String(), "web") {
		t.Fatalf("hidden workspace listed with visibleOnly:\n%s", buf.String())
	}
}

func TestWriteMonitors(t *testing.T) {
	var buf bytes.Buffer
	writeMonitors(&buf, []ipc.MonitorInfo{{
		Index: 0, Width: 1920, Height: 1080,
		WorkY: 24, WorkWidth: 1920, WorkHeight: 1056,
		Primary: true, Displays: 1, Workspace: "main",
	}})
	out := buf.String()
	for _, want := range []string{"0*", "1920x1080+0+0", "1920x1056+0+24", "main"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestFormatSource(t *testing.T) {
	tests := []struct {
		src  config.Source
		want string
	}{
		{config.Source{Kind: config.SourceDefault}, "default"},
		{config.Source{Kind: config.SourceFile, File: "/etc/dockwm.yaml"}, "/etc/dockwm.yaml"},
		{config.Source{Kind: config.SourceFile, File: "a.yaml", Line: 3, Column: 5}, "a.yaml:3:5"},
	}
	for _, tt := range tests {
		if got := formatSource(tt.src); got != tt.want {
			t.Errorf("formatSource(%+v) = %q, want %q", tt.src, got, tt.want)
		}
	}
}
