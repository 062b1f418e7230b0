package neat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestReproduction(kill float64, inv *Innovations) *Reproduction {
	cfg := DefaultConfig(2, 1)
	cfg.Neat.KillPercent = kill
	return NewReproduction(&cfg.Neat, &cfg.Crossover, inv)
}

func TestKillCount(t *testing.T) {
	tests := []struct {
		kill float64
		n    int
		want int
	}{
		{0.2, 10, 2},
		{0.2, 150, 30},
		{0.2, 4, 0},
		{0.2, 1, 0},
		{0.9, 2, 1},
		{0.0, 10, 0},
	}
	for _, tt := range tests {
		r := newTestReproduction(tt.kill, NewInnovations())
		assert.Equal(t, tt.want, r.killCount(tt.n), "kill %.1f of %d", tt.kill, tt.n)
	}
}

func TestCull(t *testing.T) {
	r := newTestReproduction(0.2, NewInnovations())
	genomes := make([]*Genome, 10)
	for i := range genomes {
		genomes[i] = scored(i%2, float64(i))
		genomes[i].AdjustedFitness = float64(i)
	}

	survivors := r.Cull(genomes, nil)
	require.Len(t, survivors, 8)
	assert.Equal(t, 9.0, survivors[0].AdjustedFitness)
	assert.Equal(t, 2.0, survivors[7].AdjustedFitness)
	assert.Equal(t, 0.0, genomes[0].AdjustedFitness, "input order is left alone")
}

func TestCullStagnantSpecies(t *testing.T) {
	r := newTestReproduction(0.2, NewInnovations())
	genomes := make([]*Genome, 10)
	for i := range genomes {
		genomes[i] = scored(i%2, float64(i))
		genomes[i].AdjustedFitness = float64(i)
	}

	survivors := r.Cull(genomes, map[int]bool{1: true})
	require.NotEmpty(t, survivors)
	for _, g := range survivors {
		assert.Equal(t, 0, g.Species)
	}

	survivors = r.Cull(genomes, map[int]bool{0: true, 1: true})
	assert.Len(t, survivors, 8, "never cull everything")
}

func TestRepopulate(t *testing.T) {
	inv := NewInnovations()
	rng := testRand()
	r := newTestReproduction(0.2, inv)

	survivors := make([]*Genome, 5)
	for i := range survivors {
		survivors[i] = NewConnectedGenome(2, 1, inv, rng)
		survivors[i].Species = i % 2
		survivors[i].AdjustedFitness = float64(i)
	}

	children, fallbacks := r.Repopulate(survivors, 20, rng)
	require.Len(t, children, 20)
	assert.Zero(t, fallbacks)

	ids := make(map[int]bool)
	for _, s := range survivors {
		ids[s.ID] = true
	}
	for _, c := range children {
		assert.False(t, ids[c.ID], "child id %d reused", c.ID)
		ids[c.ID] = true
		assert.Equal(t, NoSpecies, c.Species)
		requireWellFormed(t, c, 2, 1)
	}
}

func TestRepopulateFallsBackToClone(t *testing.T) {
	inv := NewInnovations()
	r := newTestReproduction(0.2, inv)

	// Any crossover of this genome with itself keeps the cycle.
	cyclic := genomeWith(1, 1, 4,
		Gene{In: 2, Out: 3, Weight: 1, Enabled: true, Innovation: 0},
		Gene{In: 3, Out: 2, Weight: 1, Enabled: true, Innovation: 1},
	)
	cyclic.ID = inv.NewGenome()

	children, fallbacks := r.Repopulate([]*Genome{cyclic}, 4, testRand())
	require.Len(t, children, 4)
	assert.Equal(t, 4, fallbacks)
	for _, c := range children {
		assert.NotEqual(t, cyclic.ID, c.ID)
		assert.Equal(t, cyclic.Genes, c.Genes)
	}
}

func TestRepopulateWithoutSurvivors(t *testing.T) {
	r := newTestReproduction(0.2, NewInnovations())
	assert.Panics(t, func() { r.Repopulate(nil, 10, testRand()) })
}
