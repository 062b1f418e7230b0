package neat

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRand() *rand.Rand {
	return rand.New(rand.NewSource(42))
}

// genomeWith builds a genome with explicit node count and genes, bypassing
// the innovation registry.
func genomeWith(inputs, outputs, nodes int, genes ...Gene) *Genome {
	return &Genome{
		ID:        -1,
		Inputs:    inputs,
		Outputs:   outputs,
		NodeCount: nodes,
		Genes:     genes,
		Species:   NoSpecies,
	}
}

// hasCycle is a plain DFS over enabled genes, kept independent of the gonum
// based IsAcyclic so the two can check each other.
func hasCycle(g *Genome) bool {
	adj := make([][]int, g.NodeCount)
	for _, gene := range g.Genes {
		if gene.Enabled {
			adj[gene.In] = append(adj[gene.In], gene.Out)
		}
	}
	color := make([]int, g.NodeCount)
	var visit func(n int) bool
	visit = func(n int) bool {
		color[n] = 1
		for _, m := range adj[n] {
			if color[m] == 1 {
				return true
			}
			if color[m] == 0 && visit(m) {
				return true
			}
		}
		color[n] = 2
		return false
	}
	for n := range adj {
		if color[n] == 0 && visit(n) {
			return true
		}
	}
	return false
}

// requireWellFormed checks the structural invariants every genome produced
// by mutation, crossover or reproduction must hold.
func requireWellFormed(t *testing.T, g *Genome, inputs, outputs int) {
	t.Helper()
	require.Equal(t, inputs, g.Inputs, "genome %d sensors", g.ID)
	require.Equal(t, outputs, g.Outputs, "genome %d outputs", g.ID)
	require.GreaterOrEqual(t, g.NodeCount, inputs+outputs)

	pairs := make(map[EdgeKey]bool, len(g.Genes))
	for _, gene := range g.Genes {
		require.True(t, gene.In >= 0 && gene.In < g.NodeCount, "gene %s source out of range", gene)
		require.True(t, gene.Out >= 0 && gene.Out < g.NodeCount, "gene %s target out of range", gene)
		assert.NotEqual(t, Output, g.Kind(gene.In), "gene %s leaves an output", gene)
		assert.NotEqual(t, Sensor, g.Kind(gene.Out), "gene %s enters a sensor", gene)
		assert.False(t, pairs[gene.Key()], "duplicate edge %v in genome %d", gene.Key(), g.ID)
		pairs[gene.Key()] = true
	}
	require.False(t, hasCycle(g), "genome %d has a cycle", g.ID)
	require.True(t, g.IsAcyclic())
}
