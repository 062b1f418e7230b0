package neat

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMutateKeepsInvariants(t *testing.T) {
	inv := NewInnovations()
	rng := testRand()
	cfg := &MutationConfig{
		WeightRate:      0.8,
		WeightResetRate: 0.1,
		AddNodeRate:     0.5,
		AddEdgeRate:     0.5,
		AddEdgeTries:    20,
		DisableEdgeRate: 0.01,
	}

	g := NewConnectedGenome(3, 2, inv, rng)
	for i := 0; i < 300; i++ {
		g = g.Mutate(cfg, inv, rng)
		requireWellFormed(t, g, 3, 2)
	}
	assert.Greater(t, g.HiddenCount(), 0, "structure should have grown")
}

func TestMutateDoesNotTouchReceiver(t *testing.T) {
	inv := NewInnovations()
	rng := testRand()
	cfg := &MutationConfig{WeightRate: 1, AddNodeRate: 1, AddEdgeRate: 1, AddEdgeTries: 20}

	g := NewConnectedGenome(2, 1, inv, rng)
	before := g.Clone()

	child := g.Mutate(cfg, inv, rng)
	assert.Equal(t, before.Genes, g.Genes)
	assert.Equal(t, before.NodeCount, g.NodeCount)
	assert.Equal(t, g.ID, child.ID, "mutation keeps the genome id")
	assert.Equal(t, NoSpecies, child.Species)
}

func TestMutateWeights(t *testing.T) {
	inv := NewInnovations()
	rng := testRand()
	g := NewConnectedGenome(4, 3, inv, rng)

	t.Run("NoRates", func(t *testing.T) {
		child := g.Mutate(&MutationConfig{AddEdgeTries: 1}, inv, rng)
		assert.Equal(t, g.Genes, child.Genes)
	})

	t.Run("Scale", func(t *testing.T) {
		child := g.Mutate(&MutationConfig{WeightRate: 1, AddEdgeTries: 1}, inv, rng)
		for i, gene := range child.Genes {
			assert.LessOrEqual(t, math.Abs(gene.Weight), math.Abs(g.Genes[i].Weight)+1e-12,
				"scaling by U[-1,1] cannot grow a weight")
		}
	})

	t.Run("Disable", func(t *testing.T) {
		child := g.Mutate(&MutationConfig{DisableEdgeRate: 1, AddEdgeTries: 1}, inv, rng)
		assert.Equal(t, 0, child.EnabledCount())
	})
}

func TestMutateAddEdge(t *testing.T) {
	inv := NewInnovations()
	g := NewGenome(2, 1, inv)

	require.True(t, g.mutateAddEdge(100, inv, testRand()))
	require.Len(t, g.Genes, 1)
	gene := g.Genes[0]
	assert.True(t, gene.Enabled)
	assert.Equal(t, Sensor, g.Kind(gene.In))
	assert.Equal(t, Output, g.Kind(gene.Out))
	assert.Equal(t, gene.Innovation, inv.NewEdge(gene.In, gene.Out))
}

func TestMutateAddEdgeFullyConnected(t *testing.T) {
	inv := NewInnovations()
	g := NewConnectedGenome(2, 1, inv, testRand())
	genes := append([]Gene(nil), g.Genes...)

	assert.False(t, g.mutateAddEdge(50, inv, testRand()))
	assert.Equal(t, genes, g.Genes)
}

func TestMutateAddEdgeAvoidsCycles(t *testing.T) {
	// 0 -> 2 -> 3 -> 4 -> 1 with hidden nodes 2, 3 and 4.
	base := genomeWith(1, 1, 5,
		Gene{In: 0, Out: 2, Weight: 1, Enabled: true, Innovation: 0},
		Gene{In: 2, Out: 3, Weight: 1, Enabled: true, Innovation: 1},
		Gene{In: 3, Out: 4, Weight: 1, Enabled: true, Innovation: 2},
		Gene{In: 4, Out: 1, Weight: 1, Enabled: true, Innovation: 3},
	)
	dg := base.enabledGraph()
	assert.True(t, createsCycle(dg, 4, 2))
	assert.True(t, createsCycle(dg, 3, 3))
	assert.False(t, createsCycle(dg, 2, 4))
	assert.False(t, createsCycle(dg, 0, 1))

	inv := NewInnovations()
	rng := testRand()
	for i := 0; i < 200; i++ {
		g := base.Clone()
		g.mutateAddEdge(20, inv, rng)
		requireWellFormed(t, g, 1, 1)
	}
}

func TestMutateAddNode(t *testing.T) {
	inv := NewInnovations()
	g := NewConnectedGenome(2, 1, inv, testRand())
	original := append([]Gene(nil), g.Genes...)

	require.True(t, g.mutateAddNode(inv, testRand()))
	require.Len(t, g.Genes, len(original)+2)
	assert.Equal(t, 4, g.NodeCount)
	assert.Equal(t, Hidden, g.Kind(3))

	var split *Gene
	for i := range original {
		if !g.Genes[i].Enabled {
			require.Nil(t, split, "only one gene is split")
			split = &g.Genes[i]
		}
	}
	require.NotNil(t, split)

	in, out := g.Genes[2], g.Genes[3]
	assert.Equal(t, split.In, in.In)
	assert.Equal(t, 3, in.Out)
	assert.Equal(t, 1.0, in.Weight)
	assert.Equal(t, 3, out.In)
	assert.Equal(t, split.Out, out.Out)
	assert.True(t, in.Enabled)
	assert.True(t, out.Enabled)
	assert.Equal(t, len(original)+1, g.EnabledCount())
	requireWellFormed(t, g, 2, 1)
}

func TestMutateAddNodeNoCandidates(t *testing.T) {
	inv := NewInnovations()
	g := NewGenome(2, 1, inv)
	assert.False(t, g.mutateAddNode(inv, testRand()))

	g = NewConnectedGenome(2, 1, inv, testRand())
	for i := range g.Genes {
		g.Genes[i].Enabled = false
	}
	assert.False(t, g.mutateAddNode(inv, testRand()))
	assert.Equal(t, 3, g.NodeCount)
}

func TestMutateAddNodeSameSplitSharesInnovations(t *testing.T) {
	inv := NewInnovations()
	a := genomeWith(1, 1, 2, Gene{In: 0, Out: 1, Weight: 0.5, Enabled: true, Innovation: inv.NewEdge(0, 1)})
	b := a.Clone()

	require.True(t, a.mutateAddNode(inv, testRand()))
	require.True(t, b.mutateAddNode(inv, testRand()))
	assert.Equal(t, a.Genes[1].Innovation, b.Genes[1].Innovation)
	assert.Equal(t, a.Genes[2].Innovation, b.Genes[2].Innovation)
}
