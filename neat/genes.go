package neat

import (
	"fmt"
	"math/rand"
)

// NodeKind classifies a node index within a genome.
type NodeKind int

const (
	Sensor NodeKind = iota
	Output
	Hidden
)

func (k NodeKind) String() string {
	switch k {
	case Sensor:
		return "sensor"
	case Output:
		return "output"
	case Hidden:
		return "hidden"
	default:
		return fmt.Sprintf("NodeKind(%d)", int(k))
	}
}

// Gene is one directed, weighted edge of a genome. Nodes are not stored as
// objects; In and Out are node indices.
type Gene struct {
	In         int
	Out        int
	Weight     float64
	Enabled    bool
	Innovation int // historical id, see Innovations.NewEdge
}

// String returns a string representation of the Gene.
func (g Gene) String() string {
	return fmt.Sprintf("Gene(#%d: %d->%d, Weight: %.3f, Enabled: %t)",
		g.Innovation, g.In, g.Out, g.Weight, g.Enabled)
}

// Key returns the ordered endpoint pair of the gene.
func (g Gene) Key() EdgeKey {
	return EdgeKey{In: g.In, Out: g.Out}
}

// randomWeight draws a fresh weight uniformly from [-1, 1].
func randomWeight(rng *rand.Rand) float64 {
	return rng.Float64()*2 - 1
}
