package dashboard

import (
	"math"
	"slices"

	"github.com/Behrad-Mahdavi/NexusOs/internal/models"
)

// NodeWeight sizes a node by how connected it is
func NodeWeight(connections int) int {
	return 10 + 2*connections
}

// Connections counts links per node id
func Connections(links []models.Link) map[string]int {
	counts := make(map[string]int)
	for _, l := range links {
		counts[l.Source]++
		if l.Target != l.Source {
			counts[l.Target]++
		}
	}
	return counts
}

// WithWeights returns copies of nodes with Val recomputed from links
func WithWeights(nodes []models.Node, links []models.Link) []models.Node {
	counts := Connections(links)
	out := make([]models.Node, len(nodes))
	for i, n := range nodes {
		n.Val = NodeWeight(counts[n.ID])
		out[i] = n
	}
	return out
}

// WithoutNode removes a node and every link touching it
func WithoutNode(g models.Graph, nodeID string) models.Graph {
	nodes := slices.DeleteFunc(slices.Clone(g.Nodes), func(n models.Node) bool {
		return n.ID == nodeID
	})
	links := slices.DeleteFunc(slices.Clone(g.Links), func(l models.Link) bool {
		return l.Touches(nodeID)
	})
	return models.Graph{Nodes: nodes, Links: links}
}

// Position places a node on a 2D canvas
type Position struct {
	ID string  `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

// Layout positions graph nodes. Any force-directed implementation fits.
type Layout interface {
	Layout(nodes []models.Node, links []models.Link) []Position
}

// CircleLayout spreads nodes evenly on a circle, grouped by category so
// related insights sit together. It ignores links.
type CircleLayout struct {
	Radius float64
}

// Layout implements Layout
func (c CircleLayout) Layout(nodes []models.Node, _ []models.Link) []Position {
	radius := c.Radius
	if radius <= 0 {
		radius = 300
	}

	ordered := slices.Clone(nodes)
	slices.SortStableFunc(ordered, func(a, b models.Node) int {
		return a.Group - b.Group
	})

	out := make([]Position, len(ordered))
	step := 2 * math.Pi / float64(max(1, len(ordered)))
	for i, n := range ordered {
		angle := step * float64(i)
		out[i] = Position{
			ID: n.ID,
			X:  math.Round(radius*math.Cos(angle)*100) / 100,
			Y:  math.Round(radius*math.Sin(angle)*100) / 100,
		}
	}
	return out
}
