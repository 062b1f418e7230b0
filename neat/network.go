package neat

import (
	"errors"
	"fmt"
)

// ErrInputSize is returned when Simulate receives the wrong number of sensor values.
var ErrInputSize = errors.New("sensor value count does not match genome inputs")

const (
	unvisited = iota
	visiting
	done
)

// evaluator holds the per-call state of one Simulate run.
type evaluator struct {
	genome   *Genome
	inputs   []float64
	incoming [][]int // node -> indices of enabled genes ending at it
	values   []float64
	state    []uint8
}

// Simulate feeds inputs through the network and returns one value per output
// node, in node order. Sensor values pass through unsquashed; hidden and
// output nodes apply Sigmoid to the weighted sum of their enabled inputs.
//
// The enabled-gene graph must be acyclic. A cycle means mutation or crossover
// broke an invariant and Simulate panics.
func (g *Genome) Simulate(inputs []float64) ([]float64, error) {
	if len(inputs) != g.Inputs {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrInputSize, len(inputs), g.Inputs)
	}

	ev := &evaluator{
		genome:   g,
		inputs:   inputs,
		incoming: make([][]int, g.NodeCount),
		values:   make([]float64, g.NodeCount),
		state:    make([]uint8, g.NodeCount),
	}
	for i, gene := range g.Genes {
		if !gene.Enabled {
			continue
		}
		// Kind panics on out-of-range endpoints.
		g.Kind(gene.In)
		g.Kind(gene.Out)
		ev.incoming[gene.Out] = append(ev.incoming[gene.Out], i)
	}

	outputs := make([]float64, g.Outputs)
	for i := range outputs {
		outputs[i] = ev.value(g.Inputs + i)
	}
	return outputs, nil
}

func (ev *evaluator) value(node int) float64 {
	if node < ev.genome.Inputs {
		return ev.inputs[node]
	}
	switch ev.state[node] {
	case done:
		return ev.values[node]
	case visiting:
		panic(fmt.Sprintf("cycle through node %d in genome %d", node, ev.genome.ID))
	}

	ev.state[node] = visiting
	sum := 0.0
	for _, gi := range ev.incoming[node] {
		gene := ev.genome.Genes[gi]
		sum += ev.value(gene.In) * gene.Weight
	}
	ev.values[node] = Sigmoid(sum)
	ev.state[node] = done
	return ev.values[node]
}
