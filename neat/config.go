package neat

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/ini.v1"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is wrapped by every configuration validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Initial connection schemes for freshly created genomes.
const (
	ConnectionFull        = "full"        // every sensor wired to every output
	ConnectionUnconnected = "unconnected" // no genes; structure must be grown by mutation
)

// Config stores the configuration parameters for a training run.
// It is read-only once handed to NewPopulation.
type Config struct {
	Neat          NeatConfig          `yaml:"neat"`
	Compatibility CompatibilityConfig `yaml:"compatibility"`
	Mutation      MutationConfig      `yaml:"mutation"`
	Crossover     CrossoverConfig     `yaml:"crossover"`
	Stagnation    StagnationConfig    `yaml:"stagnation"`
}

// NeatConfig holds the population-level parameters.
type NeatConfig struct {
	NumInputs         int     `ini:"num_inputs" yaml:"num_inputs"`
	NumOutputs        int     `ini:"num_outputs" yaml:"num_outputs"`
	PopSize           int     `ini:"pop_size" yaml:"pop_size"`
	KillPercent       float64 `ini:"kill_percent" yaml:"kill_percent"`             // fraction removed by Cull each generation
	InitialConnection string  `ini:"initial_connection" yaml:"initial_connection"` // "full" or "unconnected"
	Workers           int     `ini:"workers" yaml:"workers"`                       // fitness scoring goroutines, <=1 is sequential
}

// CompatibilityConfig holds the speciation distance coefficients.
type CompatibilityConfig struct {
	ExcessCoefficient   float64 `ini:"excess_coefficient" yaml:"excess_coefficient"`
	DisjointCoefficient float64 `ini:"disjoint_coefficient" yaml:"disjoint_coefficient"`
	WeightCoefficient   float64 `ini:"weight_coefficient" yaml:"weight_coefficient"`
	Threshold           float64 `ini:"threshold" yaml:"threshold"`
}

// MutationConfig holds the mutation operator rates.
type MutationConfig struct {
	WeightRate      float64 `ini:"weight_rate" yaml:"weight_rate"`
	WeightResetRate float64 `ini:"weight_reset_rate" yaml:"weight_reset_rate"` // chance a mutated weight is replaced rather than scaled
	AddNodeRate     float64 `ini:"add_node_rate" yaml:"add_node_rate"`
	AddEdgeRate     float64 `ini:"add_edge_rate" yaml:"add_edge_rate"`
	AddEdgeTries    int     `ini:"add_edge_tries" yaml:"add_edge_tries"`
	DisableEdgeRate float64 `ini:"disable_edge_rate" yaml:"disable_edge_rate"`
}

// CrossoverConfig holds the recombination parameters.
type CrossoverConfig struct {
	KeepDisabledRate float64 `ini:"keep_disabled_rate" yaml:"keep_disabled_rate"`
	Tries            int     `ini:"tries" yaml:"tries"` // attempts at an acyclic child before cloning
}

// StagnationConfig holds parameters related to species stagnation.
type StagnationConfig struct {
	SpeciesFitnessFunc string `ini:"species_fitness_func" yaml:"species_fitness_func"`
	MaxStagnation      int    `ini:"max_stagnation" yaml:"max_stagnation"` // 0 disables stagnation culling
}

// DefaultConfig returns the parameter set from the NEAT paper for a network
// with the given number of sensors and outputs.
func DefaultConfig(inputs, outputs int) *Config {
	return &Config{
		Neat: NeatConfig{
			NumInputs:         inputs,
			NumOutputs:        outputs,
			PopSize:           150,
			KillPercent:       0.2,
			InitialConnection: ConnectionFull,
			Workers:           1,
		},
		Compatibility: CompatibilityConfig{
			ExcessCoefficient:   1.0,
			DisjointCoefficient: 1.0,
			WeightCoefficient:   0.4,
			Threshold:           3.0,
		},
		Mutation: MutationConfig{
			WeightRate:      0.8,
			WeightResetRate: 0.1,
			AddNodeRate:     0.03,
			AddEdgeRate:     0.05,
			AddEdgeTries:    20,
			DisableEdgeRate: 0.0,
		},
		Crossover: CrossoverConfig{
			KeepDisabledRate: 0.4,
			Tries:            3,
		},
		Stagnation: StagnationConfig{
			SpeciesFitnessFunc: "mean",
		},
	}
}

// LoadConfig loads a configuration file. Files ending in .yaml or .yml are
// decoded as YAML, anything else as INI. Keys missing from the file keep
// their DefaultConfig values.
func LoadConfig(filePath string) (*Config, error) {
	config := DefaultConfig(0, 0)

	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".yaml", ".yml":
		data, err := os.ReadFile(filePath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file '%s': %w", filePath, err)
		}
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to decode config file '%s': %w", filePath, err)
		}
	default:
		if err := loadINI(filePath, config); err != nil {
			return nil, err
		}
	}

	config.Neat.InitialConnection = strings.ToLower(strings.TrimSpace(config.Neat.InitialConnection))
	config.Stagnation.SpeciesFitnessFunc = strings.ToLower(strings.TrimSpace(config.Stagnation.SpeciesFitnessFunc))

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func loadINI(filePath string, config *Config) error {
	cfg, err := ini.LoadSources(ini.LoadOptions{
		IgnoreInlineComment:         true,
		UnescapeValueCommentSymbols: true,
	}, filePath)
	if err != nil {
		return fmt.Errorf("failed to load config file '%s': %w", filePath, err)
	}

	sections := []struct {
		name   string
		target interface{}
	}{
		{"NEAT", &config.Neat},
		{"Compatibility", &config.Compatibility},
		{"Mutation", &config.Mutation},
		{"Crossover", &config.Crossover},
		{"Stagnation", &config.Stagnation},
	}
	for _, s := range sections {
		if !cfg.HasSection(s.name) {
			continue
		}
		if err := cfg.Section(s.name).MapTo(s.target); err != nil {
			return fmt.Errorf("failed to map [%s] section: %w", s.name, err)
		}
	}
	return nil
}

// Validate checks every parameter and reports the first problem found.
func (c *Config) Validate() error {
	if c.Neat.NumInputs <= 0 {
		return fmt.Errorf("%w: num_inputs must be positive", ErrInvalidConfig)
	}
	if c.Neat.NumOutputs <= 0 {
		return fmt.Errorf("%w: num_outputs must be positive", ErrInvalidConfig)
	}
	if c.Neat.PopSize <= 0 {
		return fmt.Errorf("%w: pop_size must be positive", ErrInvalidConfig)
	}
	if c.Neat.KillPercent < 0 || c.Neat.KillPercent >= 1 {
		return fmt.Errorf("%w: kill_percent must be in [0, 1)", ErrInvalidConfig)
	}
	switch c.Neat.InitialConnection {
	case ConnectionFull, ConnectionUnconnected:
	default:
		return fmt.Errorf("%w: invalid initial_connection '%s'", ErrInvalidConfig, c.Neat.InitialConnection)
	}

	coefficients := map[string]float64{
		"excess_coefficient":   c.Compatibility.ExcessCoefficient,
		"disjoint_coefficient": c.Compatibility.DisjointCoefficient,
		"weight_coefficient":   c.Compatibility.WeightCoefficient,
		"threshold":            c.Compatibility.Threshold,
	}
	for name, v := range coefficients {
		if v < 0 {
			return fmt.Errorf("%w: %s cannot be negative", ErrInvalidConfig, name)
		}
	}

	rates := []struct {
		name string
		v    float64
	}{
		{"weight_rate", c.Mutation.WeightRate},
		{"weight_reset_rate", c.Mutation.WeightResetRate},
		{"add_node_rate", c.Mutation.AddNodeRate},
		{"add_edge_rate", c.Mutation.AddEdgeRate},
		{"disable_edge_rate", c.Mutation.DisableEdgeRate},
		{"keep_disabled_rate", c.Crossover.KeepDisabledRate},
	}
	for _, r := range rates {
		if r.v < 0 || r.v > 1 {
			return fmt.Errorf("%w: %s must be between 0 and 1", ErrInvalidConfig, r.name)
		}
	}
	if c.Mutation.AddEdgeTries < 1 {
		return fmt.Errorf("%w: add_edge_tries must be at least 1", ErrInvalidConfig)
	}
	if c.Crossover.Tries < 1 {
		return fmt.Errorf("%w: crossover tries must be at least 1", ErrInvalidConfig)
	}

	if _, ok := StatFunctions[c.Stagnation.SpeciesFitnessFunc]; !ok {
		return fmt.Errorf("%w: invalid species_fitness_func '%s'", ErrInvalidConfig, c.Stagnation.SpeciesFitnessFunc)
	}
	if c.Stagnation.MaxStagnation < 0 {
		return fmt.Errorf("%w: max_stagnation cannot be negative", ErrInvalidConfig)
	}
	return nil
}
