// Package nn exposes evolved genomes at the application boundary: networks
// addressed by caller-defined sensor and output labels, and a Graphviz view
// for debugging.
package nn

import (
	"errors"
	"fmt"

	"github.com/baldhumanity/neat-evolve/neat"
)

// ErrMissingLabel is returned when Activate lacks a value for a sensor label.
var ErrMissingLabel = errors.New("missing sensor value")

// FeedForward wraps a genome so that sensors and outputs are addressed by
// label instead of index. Sensor label i maps to sensor node i and output
// label j to output node j.
type FeedForward[S, O comparable] struct {
	Genome  *neat.Genome
	Sensors []S
	Outputs []O
}

// New binds labels to the sensor and output nodes of g. The label counts must
// match the genome and labels must be unique.
func New[S, O comparable](g *neat.Genome, sensors []S, outputs []O) (*FeedForward[S, O], error) {
	if len(sensors) != g.Inputs {
		return nil, fmt.Errorf("genome %d has %d sensors, got %d labels", g.ID, g.Inputs, len(sensors))
	}
	if len(outputs) != g.Outputs {
		return nil, fmt.Errorf("genome %d has %d outputs, got %d labels", g.ID, g.Outputs, len(outputs))
	}
	if err := unique(sensors); err != nil {
		return nil, fmt.Errorf("sensor labels: %w", err)
	}
	if err := unique(outputs); err != nil {
		return nil, fmt.Errorf("output labels: %w", err)
	}
	return &FeedForward[S, O]{Genome: g, Sensors: sensors, Outputs: outputs}, nil
}

// Activate evaluates the network. Every sensor label needs an entry in
// inputs; extra entries are ignored.
func (net *FeedForward[S, O]) Activate(inputs map[S]float64) (map[O]float64, error) {
	values := make([]float64, len(net.Sensors))
	for i, label := range net.Sensors {
		v, ok := inputs[label]
		if !ok {
			return nil, fmt.Errorf("%w for label %v", ErrMissingLabel, label)
		}
		values[i] = v
	}

	raw, err := net.Genome.Simulate(values)
	if err != nil {
		return nil, err
	}

	outputs := make(map[O]float64, len(net.Outputs))
	for i, label := range net.Outputs {
		outputs[label] = raw[i]
	}
	return outputs, nil
}

func unique[T comparable](labels []T) error {
	seen := make(map[T]struct{}, len(labels))
	for _, l := range labels {
		if _, ok := seen[l]; ok {
			return fmt.Errorf("duplicate label %v", l)
		}
		seen[l] = struct{}{}
	}
	return nil
}
