package neat

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exports per-generation training progress to Prometheus.
type Metrics struct {
	generation     prometheus.Gauge
	species        prometheus.Gauge
	bestFitness    prometheus.Gauge
	meanFitness    prometheus.Gauge
	stdevFitness   prometheus.Gauge
	culled         prometheus.Counter
	cloneFallbacks prometheus.Counter
}

// NewMetrics creates the training metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		generation: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "neat",
			Name:      "generation",
			Help:      "Number of completed generations.",
		}),
		species: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "neat",
			Name:      "species",
			Help:      "Number of live species after the latest speciation.",
		}),
		bestFitness: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "neat",
			Name:      "best_fitness",
			Help:      "Highest raw fitness of the latest generation.",
		}),
		meanFitness: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "neat",
			Name:      "mean_fitness",
			Help:      "Mean raw fitness of the latest generation.",
		}),
		stdevFitness: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "neat",
			Name:      "fitness_stdev",
			Help:      "Sample standard deviation of raw fitness in the latest generation.",
		}),
		culled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "neat",
			Name:      "genomes_culled_total",
			Help:      "Genomes removed before repopulation.",
		}),
		cloneFallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "neat",
			Name:      "crossover_clone_fallbacks_total",
			Help:      "Children cloned from a parent after every crossover attempt produced a cycle.",
		}),
	}

	collectors := []prometheus.Collector{
		m.generation, m.species, m.bestFitness, m.meanFitness, m.stdevFitness, m.culled, m.cloneFallbacks,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register metric: %w", err)
		}
	}
	return m, nil
}

// Observe records the outcome of one generation. A nil Metrics is a no-op.
func (m *Metrics) Observe(stats *GenerationStats) {
	if m == nil || stats == nil {
		return
	}
	m.generation.Set(float64(stats.Generation))
	m.species.Set(float64(stats.Species))
	m.bestFitness.Set(stats.BestFitness)
	m.meanFitness.Set(stats.MeanFitness)
	m.stdevFitness.Set(stats.StdevFitness)
	m.culled.Add(float64(stats.Culled))
	m.cloneFallbacks.Add(float64(stats.CloneFallbacks))
}
