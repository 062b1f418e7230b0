package neat

import (
	"fmt"
	"math/rand"
)

// Crossover recombines g with other and returns a child with a fresh ID, no
// species and no fitness. fitness and otherFitness score g and other.
//
// Genes sharing an innovation id are inherited from either parent at random;
// a disabled inherited copy is re-enabled with probability
// 1 - cfg.KeepDisabledRate. Excess and disjoint genes all come from the
// fitter parent, or from one parent picked at random on a tie.
//
// The child may contain a cycle when a re-enabled gene closes one; callers
// check IsAcyclic.
func (g *Genome) Crossover(other *Genome, fitness, otherFitness float64, cfg *CrossoverConfig, inv *Innovations, rng *rand.Rand) *Genome {
	if g.Inputs != other.Inputs || g.Outputs != other.Outputs {
		panic(fmt.Sprintf("crossover between genomes %d and %d with different sensor/output layouts", g.ID, other.ID))
	}

	primary, secondary := g, other
	switch {
	case fitness < otherFitness:
		primary, secondary = other, g
	case fitness == otherFitness && rng.Intn(2) == 1:
		primary, secondary = other, g
	}

	matching := make(map[int]Gene, len(secondary.Genes))
	for _, gene := range secondary.Genes {
		matching[gene.Innovation] = gene
	}

	child := &Genome{
		ID:        inv.NewGenome(),
		Inputs:    g.Inputs,
		Outputs:   g.Outputs,
		NodeCount: max(g.NodeCount, other.NodeCount),
		Genes:     make([]Gene, 0, len(primary.Genes)),
		Species:   NoSpecies,
	}

	for _, gene := range primary.Genes {
		mate, ok := matching[gene.Innovation]
		if !ok {
			child.Genes = append(child.Genes, gene)
			continue
		}
		inherited := gene
		if rng.Intn(2) == 1 {
			inherited = mate
		}
		if !inherited.Enabled && rng.Float64() >= cfg.KeepDisabledRate {
			inherited.Enabled = true
		}
		child.Genes = append(child.Genes, inherited)
	}
	return child
}
