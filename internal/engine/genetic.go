package engine

import (
	"math/rand"
	"sort"

	"github.com/piwi3910/atlaspack/internal/model"
)

// GeneticConfig holds parameters for the genetic algorithm optimizer.
type GeneticConfig struct {
	PopulationSize int
	Generations    int
	MutationRate   float64
	TournamentSize int
	EliteCount     int
}

func DefaultGeneticConfig() GeneticConfig {
	return GeneticConfig{
		PopulationSize: 50,
		Generations:    100,
		MutationRate:   0.15,
		TournamentSize: 3,
		EliteCount:     2,
	}
}

// gene is one insertion decision: which item goes next and in which orientation.
type gene struct {
	item    int
	rotated bool
}

type chromosome struct {
	genes   []gene
	fitness float64
}

type geneticOptimizer struct {
	opt    *Optimizer
	config GeneticConfig
	items  []model.Item
	sheets []model.Sheet
	rng    *rand.Rand
}

func newGeneticOptimizer(settings model.PackSettings, config GeneticConfig, items []model.Item, sheets []model.Sheet) *geneticOptimizer {
	return &geneticOptimizer{
		opt:    New(settings),
		config: config,
		items:  items,
		sheets: sheets,
		rng:    rand.New(rand.NewSource(settings.Seed)),
	}
}

func (g *geneticOptimizer) optimize() model.PackResult {
	if len(g.items) == 0 || len(g.sheets) == 0 {
		return model.PackResult{}
	}

	population := g.initPopulation()
	for i := range population {
		population[i].fitness = g.evaluate(population[i])
	}

	for gen := 0; gen < g.config.Generations; gen++ {
		sortByFitness(population)

		next := make([]chromosome, 0, g.config.PopulationSize)

		elite := min(g.config.EliteCount, len(population))
		for i := 0; i < elite; i++ {
			next = append(next, g.copyChromosome(population[i]))
		}

		for len(next) < g.config.PopulationSize {
			p1 := g.tournamentSelect(population)
			p2 := g.tournamentSelect(population)

			child := g.orderCrossover(p1, p2)
			g.mutate(&child)

			child.fitness = g.evaluate(child)
			next = append(next, child)
		}

		population = next
	}

	sortByFitness(population)
	return g.decode(population[0])
}

func sortByFitness(population []chromosome) {
	sort.SliceStable(population, func(i, j int) bool {
		return population[i].fitness > population[j].fitness
	})
}

func (g *geneticOptimizer) canRotate(idx int) bool {
	return g.opt.Settings.CanRotate(g.items[idx])
}

// initPopulation creates random orderings plus one chromosome that follows
// the greedy packer's feed order for the configured sort key.
func (g *geneticOptimizer) initPopulation() []chromosome {
	n := len(g.items)
	population := make([]chromosome, g.config.PopulationSize)

	for i := range population {
		genes := make([]gene, n)
		perm := g.rng.Perm(n)
		for j := 0; j < n; j++ {
			genes[j] = gene{
				item:    perm[j],
				rotated: g.canRotate(perm[j]) && g.rng.Float64() < 0.5,
			}
		}
		population[i] = chromosome{genes: genes}
	}

	if g.config.PopulationSize > 0 {
		population[0] = g.greedyChromosome()
	}

	return population
}

func (g *geneticOptimizer) greedyChromosome() chromosome {
	ordered := make([]int, len(g.items))
	for i := range ordered {
		ordered[i] = i
	}
	if less := itemLess(g.opt.Settings.Sort); less != nil {
		sort.SliceStable(ordered, func(i, j int) bool {
			return less(g.items[ordered[i]], g.items[ordered[j]])
		})
	}

	genes := make([]gene, len(ordered))
	for i, idx := range ordered {
		genes[i] = gene{item: idx}
	}
	return chromosome{genes: genes}
}

// evaluate scores a chromosome by decoding it and measuring sheet usage.
// Unplaced items and every extra sheet are penalised.
func (g *geneticOptimizer) evaluate(c chromosome) float64 {
	result := g.decode(c)
	if len(result.Sheets) == 0 {
		return 0
	}

	efficiency := result.TotalEfficiency() / 100.0
	unplacedPenalty := float64(len(result.Unplaced)) * 0.1
	sheetPenalty := float64(len(result.Sheets)-1) * 0.05

	return max(efficiency-unplacedPenalty-sheetPenalty, 0)
}

// decode packs the chromosome's items in gene order, one sheet at a time.
func (g *geneticOptimizer) decode(c chromosome) model.PackResult {
	pool := expandSheets(g.sheets)
	result := model.PackResult{}

	remaining := c.genes
	for len(remaining) > 0 && len(pool) > 0 {
		items := make([]model.Item, len(remaining))
		for i, gn := range remaining {
			items[i] = g.items[gn.item]
		}

		idx := g.opt.selectBestSheet(pool, items)
		if idx < 0 {
			break
		}
		sheet := pool[idx]
		pool = append(pool[:idx], pool[idx+1:]...)

		res := model.SheetResult{Sheet: sheet}
		p := newSheetPacker(sheet.Size(), g.opt.Settings.Margin, g.opt.Settings.Padding)
		var unplaced []gene

		for _, gn := range remaining {
			it := g.items[gn.item]
			order := []bool{false}
			if g.canRotate(gn.item) {
				order = []bool{gn.rotated, !gn.rotated}
			}

			placed := false
			for _, rot := range order {
				size := it.Size()
				if rot {
					size = size.Rotate()
				}
				if r, ok := p.insert(size); ok {
					res.Placements = append(res.Placements, model.Placement{Item: it, Rect: r, Rotated: rot})
					placed = true
					break
				}
			}
			if !placed {
				unplaced = append(unplaced, gn)
			}
		}

		if len(res.Placements) > 0 {
			res.Free = p.freeRects()
			result.Sheets = append(result.Sheets, res)
		}
		remaining = unplaced
	}

	for _, gn := range remaining {
		result.Unplaced = append(result.Unplaced, g.items[gn.item])
	}
	return result
}

func (g *geneticOptimizer) tournamentSelect(population []chromosome) chromosome {
	best := population[g.rng.Intn(len(population))]
	for i := 1; i < g.config.TournamentSize; i++ {
		candidate := population[g.rng.Intn(len(population))]
		if candidate.fitness > best.fitness {
			best = candidate
		}
	}
	return g.copyChromosome(best)
}

// orderCrossover implements Order Crossover (OX1) for permutation chromosomes.
// It preserves the relative order of genes from both parents.
func (g *geneticOptimizer) orderCrossover(p1, p2 chromosome) chromosome {
	n := len(p1.genes)
	if n <= 2 {
		return g.copyChromosome(p1)
	}

	a := g.rng.Intn(n)
	b := g.rng.Intn(n)
	if a > b {
		a, b = b, a
	}

	child := chromosome{genes: make([]gene, n)}
	inSegment := make(map[int]bool, b-a+1)
	for i := a; i <= b; i++ {
		child.genes[i] = p1.genes[i]
		inSegment[p1.genes[i].item] = true
	}

	pos := (b + 1) % n
	for _, gn := range p2.genes {
		if !inSegment[gn.item] {
			child.genes[pos] = gn
			pos = (pos + 1) % n
		}
	}
	return child
}

// mutate applies swap, rotation and inversion mutations.
func (g *geneticOptimizer) mutate(c *chromosome) {
	n := len(c.genes)
	if n < 2 {
		return
	}

	if g.rng.Float64() < g.config.MutationRate {
		i, j := g.rng.Intn(n), g.rng.Intn(n)
		c.genes[i], c.genes[j] = c.genes[j], c.genes[i]
	}

	if g.rng.Float64() < g.config.MutationRate {
		i := g.rng.Intn(n)
		if g.canRotate(c.genes[i].item) {
			c.genes[i].rotated = !c.genes[i].rotated
		}
	}

	// Inversion is rarer.
	if g.rng.Float64() < g.config.MutationRate*0.5 {
		i, j := g.rng.Intn(n), g.rng.Intn(n)
		if i > j {
			i, j = j, i
		}
		for i < j {
			c.genes[i], c.genes[j] = c.genes[j], c.genes[i]
			i++
			j--
		}
	}
}

func (g *geneticOptimizer) copyChromosome(c chromosome) chromosome {
	genes := make([]gene, len(c.genes))
	copy(genes, c.genes)
	return chromosome{genes: genes, fitness: c.fitness}
}

// OptimizeGenetic searches insertion orders and orientations with a genetic
// algorithm. Results are reproducible for a fixed settings.Seed.
func OptimizeGenetic(settings model.PackSettings, items []model.Item, sheets []model.Sheet) model.PackResult {
	expanded := expandItems(items)
	if len(expanded) == 0 || len(sheets) == 0 {
		return model.PackResult{Unplaced: expanded}
	}

	config := DefaultGeneticConfig()
	if len(expanded) > 20 {
		config.Generations = 150
	}
	if len(expanded) > 50 {
		config.Generations = 200
		config.PopulationSize = 80
	}
	if settings.Generations > 0 {
		config.Generations = settings.Generations
	}

	return newGeneticOptimizer(settings, config, expanded, sheets).optimize()
}
