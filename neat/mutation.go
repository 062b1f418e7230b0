package neat

import "math/rand"

const (
	// While a genome has fewer genes than this, add-node prefers its oldest genes.
	addNodeBiasThreshold = 15
	// Chance of stopping at each candidate during the biased walk.
	addNodeBiasStop = 0.3
)

// Mutate returns a mutated copy of g. The copy keeps g's ID and loses its
// species and fitness. Three operators run in order: weight mutation,
// add-edge and add-node, each with the probabilities in cfg.
//
// Sensor and output nodes are never added or removed; only hidden nodes
// are appended. The enabled-gene graph stays acyclic.
func (g *Genome) Mutate(cfg *MutationConfig, inv *Innovations, rng *rand.Rand) *Genome {
	child := g.Clone()
	child.mutateWeights(cfg, rng)
	if rng.Float64() < cfg.AddEdgeRate {
		child.mutateAddEdge(cfg.AddEdgeTries, inv, rng)
	}
	if rng.Float64() < cfg.AddNodeRate {
		child.mutateAddNode(inv, rng)
	}
	return child
}

// mutateWeights perturbs or resets the weight of enabled genes and may
// disable them.
func (g *Genome) mutateWeights(cfg *MutationConfig, rng *rand.Rand) {
	for i := range g.Genes {
		gene := &g.Genes[i]
		if !gene.Enabled {
			continue
		}
		if rng.Float64() < cfg.WeightRate {
			if rng.Float64() < cfg.WeightResetRate {
				gene.Weight = randomWeight(rng)
			} else {
				gene.Weight *= randomWeight(rng)
			}
		}
		if rng.Float64() < cfg.DisableEdgeRate {
			gene.Enabled = false
		}
	}
}

// mutateAddEdge tries to connect two unconnected nodes without creating a
// cycle. It reports whether an edge was added; running out of tries is not
// an error.
func (g *Genome) mutateAddEdge(tries int, inv *Innovations, rng *rand.Rand) bool {
	dg := g.enabledGraph()
	for i := 0; i < tries; i++ {
		a := rng.Intn(g.NodeCount)
		b := rng.Intn(g.NodeCount)

		if a == b || g.Kind(a) == Output || g.Kind(b) == Sensor {
			continue
		}
		if g.Connected(a, b) {
			continue
		}
		if createsCycle(dg, a, b) {
			continue
		}

		g.Genes = append(g.Genes, Gene{
			In:         a,
			Out:        b,
			Weight:     randomWeight(rng),
			Enabled:    true,
			Innovation: inv.NewEdge(a, b),
		})
		return true
	}
	return false
}

// mutateAddNode splits an enabled gene in two around a new hidden node. The
// incoming half gets weight 1.0 and the outgoing half a fresh weight. It
// reports whether a node was added.
func (g *Genome) mutateAddNode(inv *Innovations, rng *rand.Rand) bool {
	candidates := make([]int, 0, len(g.Genes))
	for i, gene := range g.Genes {
		if gene.Enabled {
			candidates = append(candidates, i)
		}
	}
	if len(candidates) == 0 {
		return false
	}

	var pick int
	if len(g.Genes) < addNodeBiasThreshold {
		j := 0
		for j < len(candidates)-1 && rng.Float64() >= addNodeBiasStop {
			j++
		}
		pick = candidates[j]
	} else {
		pick = candidates[rng.Intn(len(candidates))]
	}

	split := &g.Genes[pick]
	split.Enabled = false
	in, out := split.In, split.Out

	node := g.NodeCount
	g.NodeCount++

	g.Genes = append(g.Genes,
		Gene{
			In:         in,
			Out:        node,
			Weight:     1.0,
			Enabled:    true,
			Innovation: inv.NewEdge(in, node),
		},
		Gene{
			In:         node,
			Out:        out,
			Weight:     randomWeight(rng),
			Enabled:    true,
			Innovation: inv.NewEdge(node, out),
		},
	)
	return true
}
