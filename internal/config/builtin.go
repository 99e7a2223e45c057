package config

import "sort"

// DefaultBuiltinLayout is the tiling layout new workspaces get.
const DefaultBuiltinLayout = "grid"

// BuiltinLayouts returns the built-in tiling layout library.
//
// These are always available to users without needing to define them in YAML.
// Users can define additional custom layouts in their config file.
func BuiltinLayouts() map[string]Layout {
	return map[string]Layout{
		"grid": {
			Mode:            LayoutModeAuto,
			TileRegion:      TileRegion{Type: RegionFull},
			FlexibleLastRow: true,
		},
		"columns": {
			Mode:       LayoutModeHorizontal,
			TileRegion: TileRegion{Type: RegionFull},
		},
		"rows": {
			Mode:       LayoutModeVertical,
			TileRegion: TileRegion{Type: RegionFull},
		},
		"half-left": {
			Mode:            LayoutModeAuto,
			TileRegion:      TileRegion{Type: RegionLeftHalf},
			FlexibleLastRow: true,
		},
		"half-right": {
			Mode:            LayoutModeAuto,
			TileRegion:      TileRegion{Type: RegionRightHalf},
			FlexibleLastRow: true,
		},
		"master-stack": {
			Mode:       LayoutModeMasterStack,
			TileRegion: TileRegion{Type: RegionFull},
			MasterStack: MasterStack{
				MasterWidthPercent: 60,
				MaxStackRows:       4,
				MaxStackCols:       1,
			},
		},
	}
}

func sortedKeys(layouts map[string]Layout) []string {
	names := make([]string, 0, len(layouts))
	for name := range layouts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
