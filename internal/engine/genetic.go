package engine

import (
	"math/rand"
	"sort"

	"github.com/digitalworkshop/cutlist/internal/model"
)

// GeneticConfig holds parameters for the search strategy.
type GeneticConfig struct {
	PopulationSize int
	Generations    int
	MutationRate   float64
	TournamentSize int
	EliteCount     int
}

// DefaultGeneticConfig returns sensible default parameters.
func DefaultGeneticConfig() GeneticConfig {
	return GeneticConfig{
		PopulationSize: 50,
		Generations:    100,
		MutationRate:   0.15,
		TournamentSize: 3,
		EliteCount:     2,
	}
}

// geneticSeed makes search runs reproducible: the same inputs always
// produce the same layout.
const geneticSeed = 42

// gene represents a single placement decision in the chromosome.
type gene struct {
	pieceIndex int  // Index into the expanded piece slice
	rotated    bool // Whether this piece should be rotated 90 degrees
}

// chromosome represents a candidate solution: an ordering of pieces with
// rotation flags.
type chromosome struct {
	genes   []gene
	fitness float64
}

// geneticOptimizer implements the genetic search over piece orderings.
type geneticOptimizer struct {
	settings model.Settings
	config   GeneticConfig
	pieces   []model.Piece
	stocks   []model.StockUnit
	rng      *rand.Rand
}

func newGeneticOptimizer(settings model.Settings, config GeneticConfig, pieces []model.Piece, stocks []model.StockUnit, seed int64) *geneticOptimizer {
	return &geneticOptimizer{
		settings: settings,
		config:   config,
		pieces:   pieces,
		stocks:   stocks,
		rng:      rand.New(rand.NewSource(seed)),
	}
}

// optimizeGenetic runs the search strategy over already-expanded pieces and
// sheet stock. It returns the best layouts found plus unplaced pieces.
func optimizeGenetic(settings model.Settings, expanded []model.Piece, sheets []model.StockUnit) ([]model.StockLayout, []model.Piece) {
	if len(expanded) == 0 || len(sheets) == 0 {
		return nil, expanded
	}

	config := DefaultGeneticConfig()

	// Scale effort for larger problems
	if len(expanded) > 20 {
		config.Generations = 150
	}
	if len(expanded) > 50 {
		config.Generations = 200
		config.PopulationSize = 80
	}

	ga := newGeneticOptimizer(settings, config, expanded, sheets, geneticSeed)
	return ga.optimize()
}

// optimize runs the evolution loop and decodes the best individual.
func (g *geneticOptimizer) optimize() ([]model.StockLayout, []model.Piece) {
	population := g.initPopulation()
	for i := range population {
		population[i].fitness = g.evaluate(population[i])
	}

	for gen := 0; gen < g.config.Generations; gen++ {
		sort.Slice(population, func(i, j int) bool {
			return population[i].fitness > population[j].fitness
		})

		newPop := make([]chromosome, 0, g.config.PopulationSize)

		// Elitism: carry over the best individuals unchanged
		eliteCount := g.config.EliteCount
		if eliteCount > len(population) {
			eliteCount = len(population)
		}
		for i := 0; i < eliteCount; i++ {
			newPop = append(newPop, g.copyChromosome(population[i]))
		}

		for len(newPop) < g.config.PopulationSize {
			parent1 := g.tournamentSelect(population)
			parent2 := g.tournamentSelect(population)

			child := g.orderCrossover(parent1, parent2)
			g.mutate(&child)
			child.fitness = g.evaluate(child)
			newPop = append(newPop, child)
		}

		population = newPop
	}

	sort.Slice(population, func(i, j int) bool {
		return population[i].fitness > population[j].fitness
	})

	return g.decode(population[0])
}

// initPopulation creates the initial random population, seeded with one
// greedy (largest-area-first) chromosome as a good starting point.
func (g *geneticOptimizer) initPopulation() []chromosome {
	n := len(g.pieces)
	population := make([]chromosome, g.config.PopulationSize)

	for i := range population {
		genes := make([]gene, n)
		perm := g.rng.Perm(n)
		for j := 0; j < n; j++ {
			canRotate := g.pieces[perm[j]].Grain == model.GrainNone
			genes[j] = gene{
				pieceIndex: perm[j],
				rotated:    canRotate && g.rng.Float64() < 0.5,
			}
		}
		population[i] = chromosome{genes: genes}
	}

	if g.config.PopulationSize > 0 {
		population[0] = g.createGreedyChromosome()
	}

	return population
}

// createGreedyChromosome orders pieces by area descending, mimicking the
// greedy heuristic.
func (g *geneticOptimizer) createGreedyChromosome() chromosome {
	n := len(g.pieces)
	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}
	sort.Slice(indices, func(i, j int) bool {
		return g.pieces[indices[i]].Area() > g.pieces[indices[j]].Area()
	})

	genes := make([]gene, n)
	for i, idx := range indices {
		genes[i] = gene{pieceIndex: idx}
	}
	return chromosome{genes: genes}
}

// evaluate computes fitness by decoding the chromosome into a packing and
// measuring utilization, penalized for unplaced pieces and extra stock.
func (g *geneticOptimizer) evaluate(c chromosome) float64 {
	layouts, unplaced := g.decode(c)
	if len(layouts) == 0 {
		return 0
	}

	var usedArea, totalArea float64
	for _, l := range layouts {
		usedArea += l.UsedArea()
		totalArea += l.TotalArea()
	}
	if totalArea == 0 {
		return 0
	}

	efficiency := usedArea / totalArea
	unplacedPenalty := float64(len(unplaced)) * 0.1
	stockPenalty := float64(len(layouts)-1) * 0.05

	fitness := efficiency - unplacedPenalty - stockPenalty
	if fitness < 0 {
		fitness = 0
	}
	return fitness
}

// decode converts a chromosome into an actual packing using the same
// maximal-rectangles packer as the greedy strategy.
func (g *geneticOptimizer) decode(c chromosome) ([]model.StockLayout, []model.Piece) {
	var stockPool []model.StockUnit
	for _, s := range g.stocks {
		for i := 0; i < s.Quantity; i++ {
			cp := s
			cp.Quantity = 1
			stockPool = append(stockPool, cp)
		}
	}

	type orderedPiece struct {
		piece   model.Piece
		rotated bool
	}
	ordered := make([]orderedPiece, len(c.genes))
	for i, gn := range c.genes {
		ordered[i] = orderedPiece{
			piece:   g.pieces[gn.pieceIndex],
			rotated: gn.rotated,
		}
	}

	var layouts []model.StockLayout
	remaining := ordered
	opt := &Optimizer{Settings: g.settings}

	for len(remaining) > 0 && len(stockPool) > 0 {
		remainingPieces := make([]model.Piece, len(remaining))
		for i, r := range remaining {
			remainingPieces[i] = r.piece
		}

		bestStockIdx := opt.selectBestStock(stockPool, remainingPieces)
		if bestStockIdx < 0 {
			break
		}

		stock := stockPool[bestStockIdx]
		stockPool = append(stockPool[:bestStockIdx], stockPool[bestStockIdx+1:]...)

		layout := model.StockLayout{Stock: stock}
		var unplaced []orderedPiece

		packer := newRectPacker(opt.usableRects(stock), g.settings.KerfWidth)

		for _, op := range remaining {
			placed := false
			canNormal, canRotated := model.CanPlaceWithGrain(op.piece.Grain, stock.Grain)

			if op.rotated && canRotated {
				// Chromosome says rotate; fall back to normal if it fails
				placed = tryInsert(packer, &layout, op.piece, true)
				if !placed && canNormal {
					placed = tryInsert(packer, &layout, op.piece, false)
				}
			} else {
				if canNormal {
					placed = tryInsert(packer, &layout, op.piece, false)
				}
				if !placed && canRotated {
					placed = tryInsert(packer, &layout, op.piece, true)
				}
			}

			if !placed {
				unplaced = append(unplaced, op)
			}
		}

		if len(layout.Placements) > 0 {
			layouts = append(layouts, layout)
		}
		remaining = unplaced
	}

	leftover := make([]model.Piece, 0, len(remaining))
	for _, op := range remaining {
		leftover = append(leftover, op.piece)
	}
	return layouts, leftover
}

// tournamentSelect picks the best individual from a random tournament.
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

// orderCrossover implements Order Crossover (OX1) for permutation
// chromosomes, preserving relative gene order from both parents.
func (g *geneticOptimizer) orderCrossover(parent1, parent2 chromosome) chromosome {
	n := len(parent1.genes)
	if n <= 2 {
		return g.copyChromosome(parent1)
	}

	point1 := g.rng.Intn(n)
	point2 := g.rng.Intn(n)
	if point1 > point2 {
		point1, point2 = point2, point1
	}

	child := chromosome{genes: make([]gene, n)}

	inSegment := make(map[int]bool)
	for i := point1; i <= point2; i++ {
		child.genes[i] = parent1.genes[i]
		inSegment[parent1.genes[i].pieceIndex] = true
	}

	childIdx := (point2 + 1) % n
	for _, pg := range parent2.genes {
		if !inSegment[pg.pieceIndex] {
			child.genes[childIdx] = pg
			childIdx = (childIdx + 1) % n
		}
	}

	return child
}

// mutate applies swap, rotation, and inversion mutations.
func (g *geneticOptimizer) mutate(c *chromosome) {
	n := len(c.genes)
	if n < 2 {
		return
	}

	// Swap mutation: exchange two random gene positions
	if g.rng.Float64() < g.config.MutationRate {
		i := g.rng.Intn(n)
		j := g.rng.Intn(n)
		c.genes[i], c.genes[j] = c.genes[j], c.genes[i]
	}

	// Rotation mutation: toggle rotation of a random gene (if grain allows)
	if g.rng.Float64() < g.config.MutationRate {
		i := g.rng.Intn(n)
		if g.pieces[c.genes[i].pieceIndex].Grain == model.GrainNone {
			c.genes[i].rotated = !c.genes[i].rotated
		}
	}

	// Inversion mutation: reverse a segment (less frequent)
	if g.rng.Float64() < g.config.MutationRate*0.5 {
		i := g.rng.Intn(n)
		j := g.rng.Intn(n)
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

// copyChromosome creates a deep copy of a chromosome.
func (g *geneticOptimizer) copyChromosome(c chromosome) chromosome {
	genes := make([]gene, len(c.genes))
	copy(genes, c.genes)
	return chromosome{genes: genes, fitness: c.fitness}
}
