package neat

import (
	"math"
	"math/rand"
	"sort"
)

// Reproduction handles culling and the creation of the next generation.
type Reproduction struct {
	Neat        *NeatConfig
	Crossover   *CrossoverConfig
	Innovations *Innovations
}

// NewReproduction creates a new reproduction manager.
func NewReproduction(neat *NeatConfig, crossover *CrossoverConfig, inv *Innovations) *Reproduction {
	return &Reproduction{
		Neat:        neat,
		Crossover:   crossover,
		Innovations: inv,
	}
}

// killCount returns how many of n genomes Cull removes by rank. At least one
// genome always survives.
func (r *Reproduction) killCount(n int) int {
	k := int(math.Floor(float64(n) * r.Neat.KillPercent))
	return min(k, n-1)
}

// Cull drops the worst ranked genomes by AdjustedFitness and returns the
// survivors, best first. Members of species in stagnant are dropped as well
// unless that would leave no survivor.
func (r *Reproduction) Cull(genomes []*Genome, stagnant map[int]bool) []*Genome {
	if len(genomes) == 0 {
		return nil
	}
	ranked := make([]*Genome, len(genomes))
	copy(ranked, genomes)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].AdjustedFitness > ranked[j].AdjustedFitness
	})
	survivors := ranked[:len(ranked)-r.killCount(len(ranked))]

	if len(stagnant) == 0 {
		return survivors
	}
	kept := make([]*Genome, 0, len(survivors))
	for _, g := range survivors {
		if !stagnant[g.Species] {
			kept = append(kept, g)
		}
	}
	if len(kept) == 0 {
		return survivors
	}
	return kept
}

// Repopulate breeds exactly size children from survivors. Each child comes
// from a parent picked uniformly and a mate from the parent's species, or from
// all survivors when the parent is alone in its species. Children with a
// cyclic enabled graph are discarded; after Crossover.Tries failures the
// parent is cloned under a fresh id instead. The number of such clone
// fallbacks is returned alongside the children.
func (r *Reproduction) Repopulate(survivors []*Genome, size int, rng *rand.Rand) ([]*Genome, int) {
	if len(survivors) == 0 {
		panic("repopulate called without survivors")
	}

	bySpecies := make(map[int][]*Genome)
	for _, g := range survivors {
		bySpecies[g.Species] = append(bySpecies[g.Species], g)
	}

	children := make([]*Genome, 0, size)
	fallbacks := 0
	for len(children) < size {
		parent := survivors[rng.Intn(len(survivors))]

		var child *Genome
		for try := 0; try < r.Crossover.Tries; try++ {
			mate := pickMate(parent, bySpecies, survivors, rng)
			c := parent.Crossover(mate, parent.AdjustedFitness, mate.AdjustedFitness, r.Crossover, r.Innovations, rng)
			if c.IsAcyclic() {
				child = c
				break
			}
		}
		if child == nil {
			child = parent.Clone()
			child.ID = r.Innovations.NewGenome()
			fallbacks++
		}
		children = append(children, child)
	}
	return children, fallbacks
}

func pickMate(parent *Genome, bySpecies map[int][]*Genome, survivors []*Genome, rng *rand.Rand) *Genome {
	pool := bySpecies[parent.Species]
	if len(pool) <= 1 {
		pool = survivors
	}
	return pool[rng.Intn(len(pool))]
}
