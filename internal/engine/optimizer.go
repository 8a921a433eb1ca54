package engine

import (
	"fmt"
	"io"
	"sort"

	"github.com/charmbracelet/log"

	"github.com/piwi3910/atlaspack/internal/geom"
	"github.com/piwi3910/atlaspack/internal/model"
)

// Optimizer packs items onto as few sheets as it can.
type Optimizer struct {
	Settings model.PackSettings
	logger   *log.Logger
}

// Option configures an Optimizer.
type Option func(*Optimizer)

// WithLogger routes optimizer diagnostics to l.
func WithLogger(l *log.Logger) Option {
	return func(o *Optimizer) {
		if l != nil {
			o.logger = l
		}
	}
}

func New(settings model.PackSettings, opts ...Option) *Optimizer {
	o := &Optimizer{
		Settings: settings,
		logger:   log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Optimize takes items and sheets, returns a packed layout.
// When items and sheets carry a group, packing is performed per group:
// grouped items only land on sheets of the same group. Items or sheets with
// an empty group are universal. Universal sheets are shared, so sheets used
// by one group are no longer available to the next.
func (o *Optimizer) Optimize(items []model.Item, sheets []model.Sheet) model.PackResult {
	groups := groupItems(items, sheets)

	left := make(map[string]int)
	for _, s := range sheets {
		left[sheetKey(s)] += s.Quantity
	}

	combined := model.PackResult{}
	for _, g := range groups {
		available := availableSheets(g.sheets, left)

		var groupResult model.PackResult
		if o.Settings.Algorithm == model.AlgorithmGenetic {
			groupResult = OptimizeGenetic(o.Settings, g.items, available)
		} else {
			groupResult = o.optimizeGreedy(g.items, available)
		}
		for _, sr := range groupResult.Sheets {
			left[sheetKey(sr.Sheet)]--
		}

		o.logger.Debug("packed group",
			"group", g.name,
			"sheets", len(groupResult.Sheets),
			"unplaced", len(groupResult.Unplaced))
		combined.Sheets = append(combined.Sheets, groupResult.Sheets...)
		combined.Unplaced = append(combined.Unplaced, groupResult.Unplaced...)
	}
	return combined
}

// sheetKey identifies a sheet entry across groups.
func sheetKey(s model.Sheet) string {
	if s.ID != "" {
		return s.ID
	}
	return fmt.Sprintf("%s|%dx%d|%s", s.Label, s.Width, s.Height, s.Group)
}

// availableSheets caps each sheet's quantity at what is left in the shared
// budget. Entries with nothing left are dropped.
func availableSheets(sheets []model.Sheet, left map[string]int) []model.Sheet {
	budget := make(map[string]int, len(left))
	for k, v := range left {
		budget[k] = v
	}

	out := make([]model.Sheet, 0, len(sheets))
	for _, s := range sheets {
		k := sheetKey(s)
		s.Quantity = min(s.Quantity, budget[k])
		if s.Quantity <= 0 {
			continue
		}
		budget[k] -= s.Quantity
		out = append(out, s)
	}
	return out
}

// itemGroup holds items and sheets for a single group.
type itemGroup struct {
	name   string
	items  []model.Item
	sheets []model.Sheet
}

// groupItems splits items and sheets by group. Items without a group may go
// on any sheet and sheets without a group accept any item. If nothing is
// grouped, everything goes into one group.
func groupItems(items []model.Item, sheets []model.Sheet) []itemGroup {
	names := make(map[string]bool)
	for _, it := range items {
		if it.Group != "" {
			names[it.Group] = true
		}
	}
	for _, s := range sheets {
		if s.Group != "" {
			names[s.Group] = true
		}
	}

	if len(names) == 0 {
		return []itemGroup{{items: items, sheets: sheets}}
	}

	sorted := make([]string, 0, len(names))
	for n := range names {
		sorted = append(sorted, n)
	}
	sort.Strings(sorted)

	var universalItems []model.Item
	var universalSheets []model.Sheet
	for _, it := range items {
		if it.Group == "" {
			universalItems = append(universalItems, it)
		}
	}
	for _, s := range sheets {
		if s.Group == "" {
			universalSheets = append(universalSheets, s)
		}
	}

	groups := make([]itemGroup, 0, len(sorted)+1)
	for _, name := range sorted {
		g := itemGroup{name: name}
		for _, it := range items {
			if it.Group == name {
				g.items = append(g.items, it)
			}
		}
		for _, s := range sheets {
			if s.Group == name {
				g.sheets = append(g.sheets, s)
			}
		}
		g.sheets = append(g.sheets, universalSheets...)
		groups = append(groups, g)
	}

	if len(universalItems) > 0 {
		groups = append(groups, itemGroup{items: universalItems, sheets: sheets})
	}

	return groups
}

// expandItems turns every item of quantity n into n items of quantity 1.
func expandItems(items []model.Item) []model.Item {
	var expanded []model.Item
	for _, it := range items {
		for i := 0; i < it.Quantity; i++ {
			cp := it
			cp.Quantity = 1
			expanded = append(expanded, cp)
		}
	}
	return expanded
}

// expandSheets turns the sheet list into a pool of single sheets.
func expandSheets(sheets []model.Sheet) []model.Sheet {
	var pool []model.Sheet
	for _, s := range sheets {
		for i := 0; i < s.Quantity; i++ {
			cp := s
			cp.Quantity = 1
			pool = append(pool, cp)
		}
	}
	return pool
}

// itemLess returns the "comes first" ordering for key, largest first.
// SortNone yields nil.
func itemLess(key model.SortKey) func(a, b model.Item) bool {
	switch key {
	case model.SortNone:
		return nil
	case model.SortMaxSide:
		return func(a, b model.Item) bool { return max(a.Width, a.Height) > max(b.Width, b.Height) }
	case model.SortHeight:
		return func(a, b model.Item) bool { return a.Height > b.Height }
	case model.SortWidth:
		return func(a, b model.Item) bool { return a.Width > b.Width }
	default:
		return func(a, b model.Item) bool { return a.Size().Area() > b.Size().Area() }
	}
}

// sortItems orders items for greedy packing, largest first by key.
// The sort is stable so equal items keep their input order.
func sortItems(items []model.Item, key model.SortKey) {
	less := itemLess(key)
	if less == nil {
		return
	}
	sort.SliceStable(items, func(i, j int) bool { return less(items[i], items[j]) })
}

// optimizeGreedy feeds the sorted items to one sheet at a time.
func (o *Optimizer) optimizeGreedy(items []model.Item, sheets []model.Sheet) model.PackResult {
	expanded := expandItems(items)
	sortItems(expanded, o.Settings.Sort)
	pool := expandSheets(sheets)

	result := model.PackResult{}
	remaining := expanded

	for len(remaining) > 0 && len(pool) > 0 {
		bestIdx := o.selectBestSheet(pool, remaining)
		if bestIdx < 0 {
			break
		}

		sheet := pool[bestIdx]
		pool = append(pool[:bestIdx], pool[bestIdx+1:]...)

		bestSheet, bestUnplaced := o.packSheetBestStrategy(sheet, remaining)
		o.logger.Debug("packed sheet",
			"sheet", sheet.Label,
			"size", sheet.Size(),
			"placed", len(bestSheet.Placements),
			"efficiency", bestSheet.Efficiency())

		if len(bestSheet.Placements) > 0 {
			result.Sheets = append(result.Sheets, bestSheet)
		}
		remaining = bestUnplaced
	}

	result.Unplaced = remaining
	return result
}

// rotationStrategy controls how items are rotated during packing.
type rotationStrategy int

const (
	rotBestFit    rotationStrategy = iota // Compare both orientations, pick the tighter leaf
	rotAllNormal                          // Prefer normal orientation, fall back to rotated
	rotAllRotated                         // Prefer rotated orientation, fall back to normal
)

// packSheetBestStrategy tries every rotation strategy on a fresh sheet and
// keeps the one that places the most items, then the most area.
func (o *Optimizer) packSheetBestStrategy(sheet model.Sheet, items []model.Item) (model.SheetResult, []model.Item) {
	strategies := []rotationStrategy{rotBestFit, rotAllNormal, rotAllRotated}

	var bestSheet model.SheetResult
	var bestUnplaced []model.Item
	bestPlaced := -1

	for _, strat := range strategies {
		res, unplaced := o.packSheet(sheet, items, strat)
		placed := len(res.Placements)
		if placed > bestPlaced {
			bestPlaced = placed
			bestSheet = res
			bestUnplaced = unplaced
		} else if placed == bestPlaced && placed > 0 {
			if res.Efficiency() > bestSheet.Efficiency() {
				bestSheet = res
				bestUnplaced = unplaced
			}
		}
	}
	return bestSheet, bestUnplaced
}

// packSheet packs items into a single sheet using the given rotation strategy.
func (o *Optimizer) packSheet(sheet model.Sheet, items []model.Item, strategy rotationStrategy) (model.SheetResult, []model.Item) {
	res := model.SheetResult{Sheet: sheet}
	var unplaced []model.Item

	p := newSheetPacker(sheet.Size(), o.Settings.Margin, o.Settings.Padding)

	for _, it := range items {
		canRotate := o.Settings.CanRotate(it)
		normal, rotated := it.Size(), it.Size().Rotate()

		var order []bool // rotated flags, tried in order
		switch {
		case !canRotate:
			order = []bool{false}
		case strategy == rotAllRotated:
			order = []bool{true, false}
		case strategy == rotBestFit:
			order = []bool{false, true}
			nw, nok := p.waste(normal)
			rw, rok := p.waste(rotated)
			if rok && (!nok || rw < nw) {
				order = []bool{true, false}
			}
		default:
			order = []bool{false, true}
		}

		placed := false
		for _, rot := range order {
			size := normal
			if rot {
				size = rotated
			}
			if r, ok := p.insert(size); ok {
				res.Placements = append(res.Placements, model.Placement{Item: it, Rect: r, Rotated: rot})
				placed = true
				break
			}
		}

		if !placed {
			unplaced = append(unplaced, it)
		}
	}

	res.Free = p.freeRects()
	return res, unplaced
}

// selectBestSheet finds the best sheet for the remaining items.
// For every distinct sheet size that can hold the largest placeable item it
// runs a quick trial pack and picks the one with the highest utilisation.
// Items too large for every sheet are ignored so they cannot block the rest.
// This keeps small items off large sheets when a smaller sheet will do.
func (o *Optimizer) selectBestSheet(sheets []model.Sheet, items []model.Item) int {
	if len(sheets) == 0 || len(items) == 0 {
		return -1
	}

	fits := func(s model.Sheet, it model.Item) bool {
		p := newSheetPacker(s.Size(), o.Settings.Margin, o.Settings.Padding)
		return p.fits(it.Size()) || (o.Settings.CanRotate(it) && p.fits(it.Size().Rotate()))
	}

	largest := -1
	for i, it := range items {
		if largest >= 0 && it.Size().Area() <= items[largest].Size().Area() {
			continue
		}
		for _, s := range sheets {
			if fits(s, it) {
				largest = i
				break
			}
		}
	}
	if largest < 0 {
		return -1
	}

	var candidates []int
	for i, s := range sheets {
		if fits(s, items[largest]) {
			candidates = append(candidates, i)
		}
	}

	if len(candidates) == 0 {
		return -1
	}
	if len(candidates) == 1 {
		return candidates[0]
	}

	// Sheets of the same size produce identical trial results.
	seen := make(map[geom.Size]bool)
	var unique []int
	for _, idx := range candidates {
		key := sheets[idx].Size()
		if !seen[key] {
			seen[key] = true
			unique = append(unique, idx)
		}
	}

	bestIdx := -1
	bestScore := -1.0
	for _, idx := range unique {
		p := newSheetPacker(sheets[idx].Size(), o.Settings.Margin, o.Settings.Padding)
		placedArea := 0
		for _, it := range items {
			if _, ok := p.insert(it.Size()); ok {
				placedArea += it.Size().Area()
				continue
			}
			if o.Settings.CanRotate(it) {
				if _, ok := p.insert(it.Size().Rotate()); ok {
					placedArea += it.Size().Area()
				}
			}
		}

		total := sheets[idx].Size().Area()
		if total == 0 {
			continue
		}
		score := float64(placedArea) / float64(total)
		if score > bestScore {
			bestScore = score
			bestIdx = idx
		}
	}

	if bestIdx < 0 {
		return candidates[0]
	}
	return bestIdx
}

// sheetPacker wraps a Space with the sheet's margin and the per-item padding.
// The space covers the sheet minus its margins; every request grows by the
// padding and every placement is reported in sheet coordinates without it.
type sheetPacker struct {
	space   *Space
	offset  geom.Point
	padding int
}

func newSheetPacker(sheet geom.Size, margin, padding int) *sheetPacker {
	inner := geom.Sz(max(sheet.Width-2*margin, 0), max(sheet.Height-2*margin, 0))
	return &sheetPacker{
		space:   NewSpace(inner),
		offset:  geom.Point{X: margin, Y: margin},
		padding: padding,
	}
}

func (p *sheetPacker) insert(size geom.Size) (geom.Rect, bool) {
	r, ok := p.space.Insert(size.Grow(p.padding))
	if !ok {
		return geom.Rect{}, false
	}
	return geom.Rect{Origin: r.Origin.Add(p.offset), Size: size}, true
}

func (p *sheetPacker) fits(size geom.Size) bool {
	return p.space.Fits(size.Grow(p.padding))
}

// waste returns the unused area of the leaf an insert of size would use.
func (p *sheetPacker) waste(size geom.Size) (int, bool) {
	padded := size.Grow(p.padding)
	leaf, ok := p.space.Probe(padded)
	if !ok {
		return 0, false
	}
	return leaf.Size.Area() - padded.Area(), true
}

func (p *sheetPacker) freeRects() []geom.Rect {
	free := p.space.FreeRects()
	for i := range free {
		free[i] = free[i].Translate(p.offset)
	}
	return free
}
