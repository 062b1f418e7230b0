package nn

import (
	"fmt"
	"strconv"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/encoding"
	"gonum.org/v1/gonum/graph/encoding/dot"
	"gonum.org/v1/gonum/graph/simple"

	"github.com/baldhumanity/neat-evolve/neat"
)

type attributes []encoding.Attribute

func (a attributes) Attributes() []encoding.Attribute { return a }

type dotNode struct {
	id   int64
	kind neat.NodeKind
}

func (n dotNode) ID() int64 { return n.id }

func (n dotNode) DOTID() string {
	switch n.kind {
	case neat.Sensor:
		return fmt.Sprintf("s%d", n.id)
	case neat.Output:
		return fmt.Sprintf("o%d", n.id)
	default:
		return fmt.Sprintf("h%d", n.id)
	}
}

func (n dotNode) Attributes() []encoding.Attribute {
	shape := "circle"
	switch n.kind {
	case neat.Sensor:
		shape = "box"
	case neat.Output:
		shape = "doublecircle"
	}
	return []encoding.Attribute{
		{Key: "shape", Value: shape},
		{Key: "label", Value: strconv.FormatInt(n.id, 10)},
	}
}

type dotEdge struct {
	from, to dotNode
	gene     neat.Gene
}

func (e dotEdge) From() graph.Node         { return e.from }
func (e dotEdge) To() graph.Node           { return e.to }
func (e dotEdge) ReversedEdge() graph.Edge { return dotEdge{from: e.to, to: e.from, gene: e.gene} }

func (e dotEdge) Attributes() []encoding.Attribute {
	attrs := []encoding.Attribute{
		{Key: "label", Value: signed(e.gene.Weight)},
	}
	if e.gene.Enabled {
		color := "darkgreen"
		if e.gene.Weight < 0 {
			color = "red"
		}
		return append(attrs, encoding.Attribute{Key: "color", Value: color})
	}
	return append(attrs,
		encoding.Attribute{Key: "style", Value: "dashed"},
		encoding.Attribute{Key: "color", Value: "grey"},
	)
}

type dotGraph struct {
	*simple.DirectedGraph
}

func (dotGraph) DOTAttributers() (g, n, e encoding.Attributer) {
	return attributes{{Key: "rankdir", Value: "LR"}}, attributes{}, attributes{}
}

// Dot renders g in Graphviz DOT format. Sensors are boxes, outputs double
// circles and hidden nodes circles. Edges are labelled with their signed
// weight; disabled genes are drawn dashed and grey.
//
// The output is meant for humans and may change between versions.
func Dot(g *neat.Genome, name string) ([]byte, error) {
	dg := dotGraph{simple.NewDirectedGraph()}
	nodes := make([]dotNode, g.NodeCount)
	for i := range nodes {
		nodes[i] = dotNode{id: int64(i), kind: g.Kind(i)}
		dg.AddNode(nodes[i])
	}
	for _, gene := range g.Genes {
		dg.SetEdge(dotEdge{from: nodes[gene.In], to: nodes[gene.Out], gene: gene})
	}

	out, err := dot.Marshal(dg, name, "", "\t")
	if err != nil {
		return nil, fmt.Errorf("failed to render genome %d: %w", g.ID, err)
	}
	return out, nil
}

func signed(w float64) string {
	s := strconv.FormatFloat(w, 'f', 3, 64)
	if w >= 0 {
		return "+" + s
	}
	return s
}
