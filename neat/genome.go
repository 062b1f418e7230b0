package neat

import (
	"fmt"
	"math/rand"
)

// NoSpecies marks a genome that has not been classified yet.
const NoSpecies = -1

// Genome is one candidate network: a node count plus an ordered list of genes.
// Gene order is insertion history; alignment between genomes always goes
// through Gene.Innovation.
//
// Mutate and Crossover never change their receiver. The only fields the
// population writes on a live genome are Species and the fitness fields.
type Genome struct {
	ID        int
	Inputs    int // sensor nodes occupy [0, Inputs)
	Outputs   int // output nodes occupy [Inputs, Inputs+Outputs)
	NodeCount int // hidden nodes occupy [Inputs+Outputs, NodeCount)
	Genes     []Gene

	Species         int     // NoSpecies until categorized
	Fitness         float64 // raw score from the fitness function
	AdjustedFitness float64 // Fitness shared across the genome's species
	Evaluated       bool
}

// NewGenome creates a genome with only sensor and output nodes and no genes.
func NewGenome(inputs, outputs int, inv *Innovations) *Genome {
	if inputs <= 0 || outputs <= 0 {
		panic(fmt.Sprintf("genome needs sensors and outputs, got %d inputs and %d outputs", inputs, outputs))
	}
	return &Genome{
		ID:        inv.NewGenome(),
		Inputs:    inputs,
		Outputs:   outputs,
		NodeCount: inputs + outputs,
		Species:   NoSpecies,
	}
}

// NewConnectedGenome creates a genome with every sensor wired to every output
// using fresh uniform weights. Innovation ids come from inv, so all genomes
// built against the same registry share them.
func NewConnectedGenome(inputs, outputs int, inv *Innovations, rng *rand.Rand) *Genome {
	g := NewGenome(inputs, outputs, inv)
	g.Genes = make([]Gene, 0, inputs*outputs)
	for s := 0; s < inputs; s++ {
		for o := inputs; o < inputs+outputs; o++ {
			g.Genes = append(g.Genes, Gene{
				In:         s,
				Out:        o,
				Weight:     randomWeight(rng),
				Enabled:    true,
				Innovation: inv.NewEdge(s, o),
			})
		}
	}
	return g
}

// Kind classifies a node index. It panics on an index outside the genome.
func (g *Genome) Kind(node int) NodeKind {
	if node < 0 || node >= g.NodeCount {
		panic(fmt.Sprintf("node index %d out of range for genome %d with %d nodes", node, g.ID, g.NodeCount))
	}
	switch {
	case node < g.Inputs:
		return Sensor
	case node < g.Inputs+g.Outputs:
		return Output
	default:
		return Hidden
	}
}

// HiddenCount returns the number of hidden nodes.
func (g *Genome) HiddenCount() int {
	return g.NodeCount - g.Inputs - g.Outputs
}

// EnabledCount returns the number of enabled genes.
func (g *Genome) EnabledCount() int {
	n := 0
	for _, gene := range g.Genes {
		if gene.Enabled {
			n++
		}
	}
	return n
}

// Connected reports whether any gene, enabled or not, joins a and b in
// either direction.
func (g *Genome) Connected(a, b int) bool {
	for _, gene := range g.Genes {
		if (gene.In == a && gene.Out == b) || (gene.In == b && gene.Out == a) {
			return true
		}
	}
	return false
}

// MaxInnovation returns the highest innovation id in the genome, or -1 when
// it has no genes.
func (g *Genome) MaxInnovation() int {
	m := -1
	for _, gene := range g.Genes {
		if gene.Innovation > m {
			m = gene.Innovation
		}
	}
	return m
}

// Clone returns a deep copy that keeps the ID but drops species and fitness.
func (g *Genome) Clone() *Genome {
	genes := make([]Gene, len(g.Genes))
	copy(genes, g.Genes)
	return &Genome{
		ID:        g.ID,
		Inputs:    g.Inputs,
		Outputs:   g.Outputs,
		NodeCount: g.NodeCount,
		Genes:     genes,
		Species:   NoSpecies,
	}
}

// snapshot is Clone that also keeps species and fitness; used for records
// such as the best genome of a run.
func (g *Genome) snapshot() *Genome {
	c := g.Clone()
	c.Species = g.Species
	c.Fitness = g.Fitness
	c.AdjustedFitness = g.AdjustedFitness
	c.Evaluated = g.Evaluated
	return c
}

// String returns a short description of the Genome.
func (g *Genome) String() string {
	return fmt.Sprintf("Genome(ID: %d, Nodes: %d, Genes: %d/%d enabled, Species: %d, Fitness: %.4f)",
		g.ID, g.NodeCount, g.EnabledCount(), len(g.Genes), g.Species, g.Fitness)
}
