package neat

import (
	"math"
	"math/rand"
	"sort"
)

// Genomes smaller than this are compared without size normalization.
const smallGenomeGenes = 20

// Species represents a group of genetically similar genomes.
type Species struct {
	ID             int       // Unique identifier for the species.
	Created        int       // Generation number when the species was created.
	Representative *Genome   // Clone of the first genome that joined this generation.
	Members        int       // Genomes assigned in the latest Categorize pass.
	Fitness        float64   // Aggregate member fitness, see Stagnation.
	Stagnant       int       // Generations without a fitness improvement.
	FitnessHistory []float64 // Fitness of every generation the species lived through.
}

// Distance computes the compatibility distance between two genomes:
//
//	c1*E/N + c2*D/N + c3*W
//
// E counts excess genes (innovation above the smaller of the two maximum
// innovations), D counts disjoint genes (below it, present in only one
// genome), N is the larger gene count (1 for genomes under 20 genes) and W is
// the mean absolute weight difference of matching genes, 0 when none match.
func Distance(a, b *Genome, cfg *CompatibilityConfig) float64 {
	shared := min(a.MaxInnovation(), b.MaxInnovation())

	bGenes := make(map[int]Gene, len(b.Genes))
	for _, gene := range b.Genes {
		bGenes[gene.Innovation] = gene
	}

	excess, disjoint, matching := 0, 0, 0
	weightDiff := 0.0
	seen := make(map[int]struct{}, len(a.Genes))
	for _, gene := range a.Genes {
		seen[gene.Innovation] = struct{}{}
		if other, ok := bGenes[gene.Innovation]; ok {
			matching++
			weightDiff += math.Abs(gene.Weight - other.Weight)
			continue
		}
		if gene.Innovation > shared {
			excess++
		} else {
			disjoint++
		}
	}
	for _, gene := range b.Genes {
		if _, ok := seen[gene.Innovation]; ok {
			continue
		}
		if gene.Innovation > shared {
			excess++
		} else {
			disjoint++
		}
	}

	n := float64(max(len(a.Genes), len(b.Genes)))
	if n < smallGenomeGenes {
		n = 1
	}
	meanWeightDiff := 0.0
	if matching > 0 {
		meanWeightDiff = weightDiff / float64(matching)
	}

	return cfg.ExcessCoefficient*float64(excess)/n +
		cfg.DisjointCoefficient*float64(disjoint)/n +
		cfg.WeightCoefficient*meanWeightDiff
}

// SpeciesSet manages the collection of species across generations.
type SpeciesSet struct {
	Species map[int]*Species // species id -> species
	Config  *CompatibilityConfig

	innovations *Innovations
}

// NewSpeciesSet creates an empty species set. Species ids come from inv.
func NewSpeciesSet(config *CompatibilityConfig, inv *Innovations) *SpeciesSet {
	return &SpeciesSet{
		Species:     make(map[int]*Species),
		Config:      config,
		innovations: inv,
	}
}

// Categorize assigns every genome to a species and returns the species id
// for each index of genomes. It does not modify the genomes.
//
// Genomes are visited in random order. Each joins the first species whose
// representative lies within the compatibility threshold, or founds a new
// species. Afterwards every species is represented by the first genome that
// joined it in this pass, and species left without members are removed.
func (ss *SpeciesSet) Categorize(genomes []*Genome, generation int, rng *rand.Rand) []int {
	assignments := make([]int, len(genomes))

	order := make([]int, 0, len(ss.Species))
	for id := range ss.Species {
		order = append(order, id)
	}
	// Map iteration order is random; compare against older species first.
	sort.Ints(order)

	representatives := make(map[int]*Genome, len(ss.Species))
	for id, s := range ss.Species {
		representatives[id] = s.Representative
	}
	firstMember := make(map[int]*Genome, len(ss.Species))
	members := make(map[int]int, len(ss.Species))

	for _, idx := range rng.Perm(len(genomes)) {
		g := genomes[idx]

		found := NoSpecies
		for _, id := range order {
			if Distance(representatives[id], g, ss.Config) < ss.Config.Threshold {
				found = id
				break
			}
		}
		if found == NoSpecies {
			found = ss.innovations.NewSpecies()
			ss.Species[found] = &Species{ID: found, Created: generation}
			representatives[found] = g
			order = append(order, found)
		}

		if _, ok := firstMember[found]; !ok {
			firstMember[found] = g
		}
		members[found]++
		assignments[idx] = found
	}

	for id, s := range ss.Species {
		if members[id] == 0 {
			delete(ss.Species, id)
			continue
		}
		s.Members = members[id]
		s.Representative = firstMember[id].Clone()
	}
	return assignments
}

// Len returns the number of live species.
func (ss *SpeciesSet) Len() int {
	return len(ss.Species)
}

// Get returns the species with the given id.
func (ss *SpeciesSet) Get(id int) (*Species, bool) {
	s, ok := ss.Species[id]
	return s, ok
}

// IDs returns the live species ids in ascending order.
func (ss *SpeciesSet) IDs() []int {
	ids := make([]int, 0, len(ss.Species))
	for id := range ss.Species {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Sizes returns the member count of every live species.
func (ss *SpeciesSet) Sizes() map[int]int {
	sizes := make(map[int]int, len(ss.Species))
	for id, s := range ss.Species {
		sizes[id] = s.Members
	}
	return sizes
}
