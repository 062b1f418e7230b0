package neat

import (
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/sourcegraph/conc/pool"
)

// ErrInvalidFitness is returned when the fitness function yields NaN or an
// infinite value.
var ErrInvalidFitness = errors.New("fitness function returned a non-finite value")

// FitnessFunc scores one genome; higher is better. It is called exactly once
// per genome per generation, possibly from several goroutines at once when
// NeatConfig.Workers > 1, and must not modify the genome.
type FitnessFunc func(index int, g *Genome) float64

// State is the step of the generational cycle a population is in.
type State int32

const (
	Idle State = iota
	Speciating
	Scoring
	Normalizing
	Culling
	Repopulating
	Mutating
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Speciating:
		return "speciate"
	case Scoring:
		return "score"
	case Normalizing:
		return "normalize"
	case Culling:
		return "cull"
	case Repopulating:
		return "repopulate"
	case Mutating:
		return "mutate"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// GenerationStats summarizes one completed generation.
type GenerationStats struct {
	Generation     int
	Species        int
	BestFitness    float64
	MeanFitness    float64
	StdevFitness   float64
	Best           *Genome // copy of the generation's highest scoring genome
	Culled         int
	CloneFallbacks int
	Duration       time.Duration
}

// Population holds the state of the evolutionary process.
//
// RunGeneration calls are serialized; a second call blocks until the first
// returns. Generation and Best are written by RunGeneration and are only
// stable between calls.
type Population struct {
	Config       *Config
	Innovations  *Innovations
	SpeciesSet   *SpeciesSet
	Stagnation   *Stagnation
	Reproduction *Reproduction
	Generation   int     // completed generations
	Best         *Genome // best genome found so far
	RunID        string
	Logger       *log.Logger
	Metrics      *Metrics

	runMu sync.Mutex // held for a whole generation
	rng   *rand.Rand
	state atomic.Int32

	mu      sync.RWMutex
	genomes []*Genome
}

type options struct {
	rng         *rand.Rand
	logger      *log.Logger
	metrics     *Metrics
	innovations *Innovations
}

// Option configures a Population.
type Option func(*options)

// WithRand sets the generator used by every stochastic step. The population
// only calls it from the goroutine driving RunGeneration.
func WithRand(rng *rand.Rand) Option {
	return func(o *options) { o.rng = rng }
}

// WithSeed seeds a fresh generator for reproducible runs.
func WithSeed(seed int64) Option {
	return WithRand(rand.New(rand.NewSource(seed)))
}

// WithLogger sets the logger. By default nothing is logged.
func WithLogger(logger *log.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithMetrics reports every generation to m.
func WithMetrics(m *Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithInnovations shares an existing registry instead of creating one.
func WithInnovations(inv *Innovations) Option {
	return func(o *options) { o.innovations = inv }
}

// NewPopulation validates config and creates the initial generation.
func NewPopulation(config *Config, opts ...Option) (*Population, error) {
	if config == nil {
		return nil, fmt.Errorf("%w: nil config", ErrInvalidConfig)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.rng == nil {
		o.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if o.logger == nil {
		o.logger = log.New(io.Discard)
	}
	if o.innovations == nil {
		o.innovations = NewInnovations()
	}

	stagnation, err := NewStagnation(&config.Stagnation)
	if err != nil {
		return nil, fmt.Errorf("failed to create stagnation manager: %w", err)
	}

	runID := uuid.NewString()
	p := &Population{
		Config:       config,
		Innovations:  o.innovations,
		SpeciesSet:   NewSpeciesSet(&config.Compatibility, o.innovations),
		Stagnation:   stagnation,
		Reproduction: NewReproduction(&config.Neat, &config.Crossover, o.innovations),
		RunID:        runID,
		Logger:       o.logger.With("run", runID),
		Metrics:      o.metrics,
		rng:          o.rng,
	}

	n := config.Neat
	p.genomes = make([]*Genome, 0, n.PopSize)
	for i := 0; i < n.PopSize; i++ {
		if n.InitialConnection == ConnectionFull {
			p.genomes = append(p.genomes, NewConnectedGenome(n.NumInputs, n.NumOutputs, p.Innovations, p.rng))
		} else {
			p.genomes = append(p.genomes, NewGenome(n.NumInputs, n.NumOutputs, p.Innovations))
		}
	}
	p.Logger.Debug("population created", "size", n.PopSize, "connection", n.InitialConnection)
	return p, nil
}

// State reports the step currently executing.
func (p *Population) State() State {
	return State(p.state.Load())
}

func (p *Population) setState(s State) {
	p.state.Store(int32(s))
}

// Genomes returns the current genomes. The slice is a copy; the genomes are
// shared and must be treated as read-only.
func (p *Population) Genomes() []*Genome {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]*Genome, len(p.genomes))
	copy(out, p.genomes)
	return out
}

// Size returns the number of genomes currently in the population.
func (p *Population) Size() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.genomes)
}

// RunGeneration executes one full generation: speciate, score, normalize,
// cull, repopulate and mutate. Afterwards the population again holds exactly
// Neat.PopSize genomes. A non-finite fitness aborts the generation before
// anything but species assignments has changed.
func (p *Population) RunGeneration(fitness FitnessFunc) (*GenerationStats, error) {
	if fitness == nil {
		return nil, errors.New("nil fitness function")
	}
	p.runMu.Lock()
	defer p.runMu.Unlock()
	defer p.setState(Idle)

	start := time.Now()
	generation := p.Generation + 1
	logger := p.Logger.With("gen", generation)

	// 1. Speciate
	p.setState(Speciating)
	p.speciate(generation)
	logger.Debug("speciated", "species", p.SpeciesSet.Len())

	// 2. Score
	p.setState(Scoring)
	scores, err := p.score(fitness)
	if err != nil {
		return nil, fmt.Errorf("scoring failed in generation %d: %w", generation, err)
	}

	// 3. Normalize
	p.setState(Normalizing)
	stats, stagnant := p.normalize(scores)
	stats.Generation = generation
	logger.Debug("normalized", "best", stats.BestFitness, "mean", stats.MeanFitness, "stagnant_species", len(stagnant))

	// 4. Cull
	p.setState(Culling)
	p.mu.Lock()
	before := len(p.genomes)
	p.genomes = p.Reproduction.Cull(p.genomes, stagnant)
	stats.Culled = before - len(p.genomes)
	survivors := make([]*Genome, len(p.genomes))
	copy(survivors, p.genomes)
	p.mu.Unlock()

	// 5. Repopulate. Children are bred outside the population lock since
	// breeding takes the innovation registry lock.
	p.setState(Repopulating)
	children, fallbacks := p.Reproduction.Repopulate(survivors, p.Config.Neat.PopSize, p.rng)
	stats.CloneFallbacks = fallbacks
	if fallbacks > 0 {
		logger.Warn("crossover fell back to cloning", "count", fallbacks)
	}
	p.mu.Lock()
	p.genomes = children
	p.mu.Unlock()

	// 6. Mutate
	p.setState(Mutating)
	mutated := make([]*Genome, len(children))
	for i, g := range children {
		mutated[i] = g.Mutate(&p.Config.Mutation, p.Innovations, p.rng)
	}
	p.mu.Lock()
	p.genomes = mutated
	p.mu.Unlock()

	p.Generation = generation
	stats.Duration = time.Since(start)
	p.Metrics.Observe(stats)
	logger.Info("generation complete",
		"species", stats.Species,
		"best", fmt.Sprintf("%.4f", stats.BestFitness),
		"mean", fmt.Sprintf("%.4f", stats.MeanFitness),
		"stdev", fmt.Sprintf("%.4f", stats.StdevFitness),
		"culled", stats.Culled,
		"innovations", p.Innovations.EdgeCount(),
		"elapsed", stats.Duration)
	return stats, nil
}

func (p *Population) speciate(generation int) {
	p.mu.RLock()
	assignments := p.SpeciesSet.Categorize(p.genomes, generation, p.rng)
	p.mu.RUnlock()

	p.mu.Lock()
	for i, g := range p.genomes {
		g.Species = assignments[i]
	}
	p.mu.Unlock()
}

func (p *Population) score(fitness FitnessFunc) ([]float64, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	scores := make([]float64, len(p.genomes))
	if workers := p.Config.Neat.Workers; workers > 1 {
		wp := pool.New().WithMaxGoroutines(workers)
		for i, g := range p.genomes {
			i, g := i, g
			wp.Go(func() {
				scores[i] = fitness(i, g)
			})
		}
		wp.Wait()
	} else {
		for i, g := range p.genomes {
			scores[i] = fitness(i, g)
		}
	}

	for i, s := range scores {
		if math.IsNaN(s) || math.IsInf(s, 0) {
			return nil, fmt.Errorf("%w: genome %d scored %v", ErrInvalidFitness, p.genomes[i].ID, s)
		}
	}
	return scores, nil
}

// normalize stores raw and shared fitness on every genome, updates species
// stagnation and returns the generation statistics together with the set of
// species to cull for stagnation.
func (p *Population) normalize(scores []float64) (*GenerationStats, map[int]bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	sizes := p.SpeciesSet.Sizes()
	var best *Genome
	for i, g := range p.genomes {
		size := sizes[g.Species]
		if size == 0 {
			panic(fmt.Sprintf("genome %d has no live species", g.ID))
		}
		g.Fitness = scores[i]
		g.AdjustedFitness = g.Fitness / float64(size)
		g.Evaluated = true
		if best == nil || g.Fitness > best.Fitness {
			best = g
		}
	}

	stats := &GenerationStats{
		Species:      p.SpeciesSet.Len(),
		BestFitness:  best.Fitness,
		MeanFitness:  Mean(scores),
		StdevFitness: Stdev(scores),
		Best:         best.snapshot(),
	}
	if p.Best == nil || best.Fitness > p.Best.Fitness {
		p.Best = stats.Best
	}

	stagnant := make(map[int]bool)
	for _, info := range p.Stagnation.Update(p.SpeciesSet, p.genomes) {
		if info.IsStagnant && info.SpeciesID != best.Species {
			stagnant[info.SpeciesID] = true
		}
	}
	return stats, stagnant
}
