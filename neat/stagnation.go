package neat

import (
	"fmt"
	"math"
	"sort"
)

// Stagnation tracks species fitness over generations and flags species that
// stopped improving.
type Stagnation struct {
	Config             *StagnationConfig
	SpeciesFitnessFunc func([]float64) float64
}

// NewStagnation creates a new stagnation manager.
func NewStagnation(config *StagnationConfig) (*Stagnation, error) {
	fn, ok := StatFunctions[config.SpeciesFitnessFunc]
	if !ok {
		return nil, fmt.Errorf("%w: invalid species_fitness_func '%s'", ErrInvalidConfig, config.SpeciesFitnessFunc)
	}
	return &Stagnation{
		Config:             config,
		SpeciesFitnessFunc: fn,
	}, nil
}

// StagnationInfo holds the results of the stagnation update for a single species.
type StagnationInfo struct {
	SpeciesID  int
	Species    *Species
	IsStagnant bool
}

// Update aggregates the raw fitness of each species' members, appends it to
// the species history and advances or resets the stagnation counter. A
// species improves when its fitness beats every earlier value in its history.
// The result is sorted from least to most fit species.
func (s *Stagnation) Update(speciesSet *SpeciesSet, genomes []*Genome) []StagnationInfo {
	fitnesses := make(map[int][]float64, speciesSet.Len())
	for _, g := range genomes {
		fitnesses[g.Species] = append(fitnesses[g.Species], g.Fitness)
	}

	result := make([]StagnationInfo, 0, speciesSet.Len())
	for _, id := range speciesSet.IDs() {
		sp := speciesSet.Species[id]

		previousMax := math.Inf(-1)
		if len(sp.FitnessHistory) > 0 {
			previousMax = MaxFloat(sp.FitnessHistory)
		}

		if members := fitnesses[id]; len(members) > 0 {
			sp.Fitness = s.SpeciesFitnessFunc(members)
		} else {
			sp.Fitness = math.Inf(-1)
		}
		sp.FitnessHistory = append(sp.FitnessHistory, sp.Fitness)

		if sp.Fitness > previousMax {
			sp.Stagnant = 0
		} else {
			sp.Stagnant++
		}

		result = append(result, StagnationInfo{
			SpeciesID:  id,
			Species:    sp,
			IsStagnant: s.Config.MaxStagnation > 0 && sp.Stagnant >= s.Config.MaxStagnation,
		})
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Species.Fitness < result[j].Species.Fitness
	})
	return result
}
