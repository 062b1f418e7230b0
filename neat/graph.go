package neat

import (
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// enabledGraph projects the enabled genes of g onto a directed graph holding
// one node per node index.
func (g *Genome) enabledGraph() *simple.DirectedGraph {
	dg := simple.NewDirectedGraph()
	for i := 0; i < g.NodeCount; i++ {
		dg.AddNode(simple.Node(i))
	}
	for _, gene := range g.Genes {
		if gene.Enabled {
			dg.SetEdge(dg.NewEdge(simple.Node(gene.In), simple.Node(gene.Out)))
		}
	}
	return dg
}

// createsCycle reports whether adding the edge from -> to to dg would close a
// cycle, i.e. whether from is already reachable from to.
func createsCycle(dg *simple.DirectedGraph, from, to int) bool {
	if from == to {
		return true
	}
	return topo.PathExistsIn(dg, simple.Node(to), simple.Node(from))
}

// IsAcyclic reports whether the enabled-gene subgraph has no directed cycle.
func (g *Genome) IsAcyclic() bool {
	_, err := topo.Sort(g.enabledGraph())
	return err == nil
}
