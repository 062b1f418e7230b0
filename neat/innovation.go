package neat

import (
	"sync"
	"sync/atomic"
)

// EdgeKey identifies a structural edge mutation by its ordered endpoints.
// (a, b) and (b, a) are different keys.
type EdgeKey struct {
	In  int
	Out int
}

// Innovations issues the historical ids shared by every genome of a training
// run. Genes descending from the same structural mutation carry the same
// innovation number, which is what crossover and Distance align on.
//
// An Innovations value is safe for concurrent use. It must not be copied.
type Innovations struct {
	edgeCount    atomic.Int64
	speciesCount atomic.Int64
	genomeCount  atomic.Int64

	mu    sync.Mutex
	edges map[EdgeKey]int
}

// NewInnovations creates an empty registry.
func NewInnovations() *Innovations {
	return &Innovations{edges: make(map[EdgeKey]int)}
}

// NewEdge returns the innovation id for the edge from -> to, allocating a new
// one the first time the pair is seen.
func (in *Innovations) NewEdge(from, to int) int {
	key := EdgeKey{In: from, Out: to}

	in.mu.Lock()
	defer in.mu.Unlock()
	if id, ok := in.edges[key]; ok {
		return id
	}
	id := int(in.edgeCount.Add(1) - 1)
	in.edges[key] = id
	return id
}

// NewSpecies returns the next species id.
func (in *Innovations) NewSpecies() int {
	return int(in.speciesCount.Add(1) - 1)
}

// NewGenome returns the next genome id.
func (in *Innovations) NewGenome() int {
	return int(in.genomeCount.Add(1) - 1)
}

// EdgeCount reports how many distinct edge innovations have been issued.
func (in *Innovations) EdgeCount() int {
	return int(in.edgeCount.Load())
}
