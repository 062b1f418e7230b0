// Package neat provides a Go implementation of the NeuroEvolution of Augmenting Topologies (NEAT) algorithm.
//
// NEAT is a genetic algorithm for the generation of evolving artificial neural networks.
// It alters both the weighting parameters and structures of networks, attempting to find
// a balance between the fitness of evolved solutions and their diversity.
//
// Genomes are acyclic: structural mutation and crossover never produce a
// recurrent connection, so every network is evaluated in a single pass.
// Structural changes are keyed by an innovation registry shared by the whole
// population, which lets crossover align genes by historical origin.
//
// Basic usage:
//
//	// Load configuration, or start from neat.DefaultConfig(2, 1)
//	config, err := neat.LoadConfig("configs/xor.ini")
//	if err != nil {
//		log.Fatalf("Error loading config: %v", err)
//	}
//
//	// Create a new population
//	pop, err := neat.NewPopulation(config, neat.WithSeed(42))
//	if err != nil {
//		log.Fatalf("Error creating population: %v", err)
//	}
//
//	// Run for 100 generations with your fitness function
//	for i := 0; i < 100; i++ {
//		stats, err := pop.RunGeneration(func(_ int, g *neat.Genome) float64 {
//			out, _ := g.Simulate([]float64{1, 0})
//			return out[0]
//		})
//		if err != nil {
//			log.Fatalf("Error running generation: %v", err)
//		}
//		if stats.BestFitness > 0.95 {
//			fmt.Println("Solution found:", pop.Best)
//			break
//		}
//	}
//
// The implementation lives in the neat subpackage; neat/nn adds labelled
// networks and a Graphviz export, and examples/xor is a runnable driver.
package neat
