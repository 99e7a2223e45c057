package tiling

import (
	"testing"

	"github.com/1broseidon/dockwm/internal/config"
)

func TestGridShape(t *testing.T) {
	tests := []struct {
		n, rows, cols int
	}{
		{0, 0, 0},
		{1, 1, 1},
		{2, 1, 2},
		{3, 2, 2},
		{5, 2, 3},
		{10, 3, 4},
	}
	for _, tt := range tests {
		rows, cols := GridShape(tt.n)
		if rows != tt.rows || cols != tt.cols {
			t.Errorf("GridShape(%d) = %dx%d, want %dx%d", tt.n, rows, cols, tt.rows, tt.cols)
		}
	}
}

func TestTiles_MaxWindowWidthCentresInSlot(t *testing.T) {
	spec := &config.Layout{
		Mode:           config.LayoutModeFixed,
		FixedGrid:      config.FixedGrid{Rows: 1, Cols: 2},
		TileRegion:     config.TileRegion{Type: config.RegionFull},
		MaxWindowWidth: 50,
	}
	area := Rect{X: 0, Y: 0, Width: 210, Height: 100}

	tiles, err := Tiles(2, area, spec, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// slot width (210-30)/2 = 90, window 50, offset 20
	want := []Rect{
		{X: 30, Y: 10, Width: 50, Height: 80},
		{X: 130, Y: 10, Width: 50, Height: 80},
	}
	if len(tiles) != len(want) {
		t.Fatalf("got %d tiles, want %d", len(tiles), len(want))
	}
	for i := range want {
		if tiles[i] != want[i] {
			t.Fatalf("tile %d = %+v, want %+v", i, tiles[i], want[i])
		}
	}
}

func TestTiles_FlexibleLastRowStretches(t *testing.T) {
	spec := &config.Layout{Mode: config.LayoutModeAuto, FlexibleLastRow: true}
	area := Rect{Width: 300, Height: 200}

	tiles, err := Tiles(3, area, spec, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tiles[0].Width != 150 || tiles[1].X != 150 {
		t.Fatalf("first row = %+v %+v", tiles[0], tiles[1])
	}
	if tiles[2] != (Rect{X: 0, Y: 100, Width: 300, Height: 100}) {
		t.Fatalf("last row tile = %+v, want full width", tiles[2])
	}
}

func TestTiles_FixedGridCapsCount(t *testing.T) {
	spec := &config.Layout{Mode: config.LayoutModeFixed, FixedGrid: config.FixedGrid{Rows: 1, Cols: 2}}
	tiles, err := Tiles(5, Rect{Width: 200, Height: 100}, spec, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tiles) != 2 {
		t.Fatalf("got %d tiles, want 2", len(tiles))
	}
}

func TestTiles_MasterStack(t *testing.T) {
	spec := &config.Layout{
		Mode:        config.LayoutModeMasterStack,
		MasterStack: config.MasterStack{MasterWidthPercent: 50, MaxStackRows: 2, MaxStackCols: 1},
	}
	area := Rect{Width: 200, Height: 100}

	tiles, err := Tiles(4, area, spec, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []Rect{
		{X: 0, Y: 0, Width: 100, Height: 100},
		{X: 100, Y: 0, Width: 100, Height: 50},
		{X: 100, Y: 50, Width: 100, Height: 50},
	}
	if len(tiles) != len(want) {
		t.Fatalf("got %d tiles, want %d (stack capacity)", len(tiles), len(want))
	}
	for i := range want {
		if tiles[i] != want[i] {
			t.Fatalf("tile %d = %+v, want %+v", i, tiles[i], want[i])
		}
	}
}

func TestTiles_ErrorsWhenInsufficientSpace(t *testing.T) {
	spec := &config.Layout{
		Mode:      config.LayoutModeFixed,
		FixedGrid: config.FixedGrid{Rows: 1, Cols: 2},
	}
	if _, err := Tiles(2, Rect{Width: 20, Height: 10}, spec, 20); err == nil {
		t.Fatalf("expected error for insufficient space")
	}
}

func TestRegion(t *testing.T) {
	area := Rect{X: 100, Y: 20, Width: 1000, Height: 600}
	tests := []struct {
		name   string
		region config.TileRegion
		want   Rect
	}{
		{"full", config.TileRegion{Type: config.RegionFull}, area},
		{"left", config.TileRegion{Type: config.RegionLeftHalf}, Rect{X: 100, Y: 20, Width: 500, Height: 600}},
		{"right", config.TileRegion{Type: config.RegionRightHalf}, Rect{X: 600, Y: 20, Width: 500, Height: 600}},
		{"bottom", config.TileRegion{Type: config.RegionBottomHalf}, Rect{X: 100, Y: 320, Width: 1000, Height: 300}},
		{"custom clamps", config.TileRegion{Type: config.RegionCustom, WidthPercent: 0, HeightPercent: 0}, Rect{X: 100, Y: 20, Width: 1, Height: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Region(area, tt.region); got != tt.want {
				t.Fatalf("Region = %+v, want %+v", got, tt.want)
			}
		})
	}
}
