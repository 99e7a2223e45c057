package tiling

import (
	"fmt"
	"math"

	"github.com/1broseidon/dockwm/internal/config"
	"github.com/1broseidon/dockwm/internal/platform"
)

// Rect is a window position and size in root coordinates.
type Rect = platform.Rect

// GridShape returns the rows and columns of the most square grid holding n
// tiles. Columns are chosen first, so wide grids win ties.
func GridShape(n int) (rows, cols int) {
	if n <= 0 {
		return 0, 0
	}
	cols = int(math.Ceil(math.Sqrt(float64(n))))
	rows = (n + cols - 1) / cols
	return rows, cols
}

// Tiles computes n tiles inside area for layout, in tab order. Fixed grids and
// master-stack may return fewer than n; the remaining windows are not tiled.
func Tiles(n int, area Rect, layout *config.Layout, gap int) ([]Rect, error) {
	if n <= 0 {
		return nil, nil
	}

	g := grid{gap: gap, maxW: layout.MaxWindowWidth, maxH: layout.MaxWindowHeight}
	switch layout.Mode {
	case config.LayoutModeAuto:
		g.rows, g.cols = GridShape(n)
		g.flexible = layout.FlexibleLastRow
	case config.LayoutModeFixed:
		g.rows, g.cols = layout.FixedGrid.Rows, layout.FixedGrid.Cols
		n = min(n, g.rows*g.cols)
	case config.LayoutModeVertical:
		g.rows, g.cols = n, 1
	case config.LayoutModeHorizontal:
		g.rows, g.cols = 1, n
	case config.LayoutModeMasterStack:
		return masterStack(n, area, layout.MasterStack, gap)
	default:
		return nil, fmt.Errorf("unsupported layout mode: %q", layout.Mode)
	}
	return g.tiles(n, area)
}

type grid struct {
	rows, cols int
	gap        int
	maxW, maxH int
	// flexible lets a short last row stretch across the full width.
	flexible bool
}

// span splits length into count slots separated and bordered by gap.
func span(length, count, gap int) int {
	return (length - (count+1)*gap) / count
}

func (g grid) tiles(n int, area Rect) ([]Rect, error) {
	if g.rows <= 0 || g.cols <= 0 {
		return nil, fmt.Errorf("invalid grid dimensions: rows=%d cols=%d", g.rows, g.cols)
	}

	slotW := span(area.Width, g.cols, g.gap)
	slotH := span(area.Height, g.rows, g.gap)
	if slotW <= 0 || slotH <= 0 {
		return nil, fmt.Errorf(
			"insufficient space for layout: monitor=%dx%d rows=%d cols=%d gap=%d (slot=%dx%d)",
			area.Width, area.Height, g.rows, g.cols, g.gap, slotW, slotH,
		)
	}

	last := g.rows - 1
	inLast := n - last*g.cols
	if inLast <= 0 {
		inLast = g.cols
	}
	stretch := g.flexible && inLast < g.cols
	lastSlotW := slotW
	if stretch {
		lastSlotW = span(area.Width, inLast, g.gap)
	}

	tiles := make([]Rect, n)
	for i := range tiles {
		row, col, w := i/g.cols, i%g.cols, slotW
		if stretch && row == last {
			col, w = i-last*g.cols, lastSlotW
		}
		cell := Rect{
			X:      area.X + g.gap + col*(w+g.gap),
			Y:      area.Y + g.gap + row*(slotH+g.gap),
			Width:  w,
			Height: slotH,
		}
		tiles[i] = g.fit(cell)
	}
	return tiles, nil
}

// fit shrinks cell to the maximum window size, keeping it centred.
func (g grid) fit(cell Rect) Rect {
	if g.maxW > 0 && cell.Width > g.maxW {
		cell.X += (cell.Width - g.maxW) / 2
		cell.Width = g.maxW
	}
	if g.maxH > 0 && cell.Height > g.maxH {
		cell.Y += (cell.Height - g.maxH) / 2
		cell.Height = g.maxH
	}
	return cell
}

// masterStack gives the first window MasterWidthPercent of the width and
// stacks the rest in a grid on the right, capped at MaxStackRows by
// MaxStackCols.
func masterStack(n int, area Rect, ms config.MasterStack, gap int) ([]Rect, error) {
	masterW := area.Width*ms.MasterWidthPercent/100 - gap
	height := area.Height - 2*gap
	master := Rect{X: area.X + gap, Y: area.Y + gap, Width: masterW, Height: height}
	if n == 1 {
		return []Rect{master}, nil
	}

	stacked := n - 1
	cols := max(min((stacked+ms.MaxStackRows-1)/ms.MaxStackRows, ms.MaxStackCols), 1)
	rows := min((stacked+cols-1)/cols, ms.MaxStackRows)
	stacked = min(stacked, rows*cols)

	stackX := area.X + masterW + 2*gap
	cellW := (area.Width - masterW - 3*gap - (cols-1)*gap) / cols
	cellH := (height - (rows-1)*gap) / rows
	if masterW <= 0 || cellW <= 0 || cellH <= 0 {
		return nil, fmt.Errorf(
			"insufficient space for master-stack layout: monitor=%dx%d masterWidth=%d cellWidth=%d cellHeight=%d gap=%d",
			area.Width, area.Height, masterW, cellW, cellH, gap,
		)
	}

	tiles := make([]Rect, 0, stacked+1)
	tiles = append(tiles, master)
	for i := range stacked {
		tiles = append(tiles, Rect{
			X:      stackX + (i%cols)*(cellW+gap),
			Y:      area.Y + gap + (i/cols)*(cellH+gap),
			Width:  cellW,
			Height: cellH,
		})
	}
	return tiles, nil
}

// Region narrows a working area to a layout's tile region. The result is at
// least 1x1.
func Region(area Rect, region config.TileRegion) Rect {
	r := area
	switch region.Type {
	case config.RegionLeftHalf:
		r.Width = area.Width / 2
	case config.RegionRightHalf:
		r.X += area.Width / 2
		r.Width = area.Width / 2
	case config.RegionTopHalf:
		r.Height = area.Height / 2
	case config.RegionBottomHalf:
		r.Y += area.Height / 2
		r.Height = area.Height / 2
	case config.RegionCustom:
		r = Rect{
			X:      area.X + area.Width*region.XPercent/100,
			Y:      area.Y + area.Height*region.YPercent/100,
			Width:  area.Width * region.WidthPercent / 100,
			Height: area.Height * region.HeightPercent / 100,
		}
	}
	r.Width = max(r.Width, 1)
	r.Height = max(r.Height, 1)
	return r
}
