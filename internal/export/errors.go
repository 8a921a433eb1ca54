package export

import "errors"

var (
	// ErrNoSheets is returned when a result holds no packed sheets.
	ErrNoSheets = errors.New("export: no sheets to export")

	// ErrNoPlacements is returned when there is nothing to label.
	ErrNoPlacements = errors.New("export: no placements to export")

	// ErrNotAtlasMap is returned when a JSON document is not an atlas map.
	ErrNotAtlasMap = errors.New("export: not an atlas map")
)
