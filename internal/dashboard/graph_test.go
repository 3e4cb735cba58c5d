package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Behrad-Mahdavi/NexusOs/internal/models"
)

func sampleGraph() models.Graph {
	return models.Graph{
		Nodes: []models.Node{
			{ID: "a", Label: "Deep work", Group: 1},
			{ID: "b", Label: "Spaced repetition", Group: 2},
			{ID: "c", Label: "Zettelkasten", Group: 1},
			{ID: "d", Label: "Loner", Group: 3},
		},
		Links: []models.Link{
			{Source: "a", Target: "b"},
			{Source: "a", Target: "c"},
			{Source: "b", Target: "c"},
		},
	}
}

func TestNodeWeight(t *testing.T) {
	assert.Equal(t, 10, NodeWeight(0))
	assert.Equal(t, 16, NodeWeight(3))
}

func TestWithWeights(t *testing.T) {
	g := sampleGraph()
	weighted := WithWeights(g.Nodes, g.Links)

	vals := map[string]int{}
	for _, n := range weighted {
		vals[n.ID] = n.Val
	}
	assert.Equal(t, map[string]int{"a": 14, "b": 14, "c": 14, "d": 10}, vals)
	assert.Zero(t, g.Nodes[0].Val)
}

func TestWithoutNode_CascadesLinks(t *testing.T) {
	g := sampleGraph()
	out := WithoutNode(g, "a")

	require.Len(t, out.Nodes, 3)
	assert.Equal(t, []models.Link{{Source: "b", Target: "c"}}, out.Links)

	// the input graph is untouched
	assert.Len(t, g.Nodes, 4)
	assert.Len(t, g.Links, 3)
}

func TestCircleLayout(t *testing.T) {
	var layout Layout = CircleLayout{Radius: 100}
	g := sampleGraph()

	positions := layout.Layout(g.Nodes, g.Links)

	require.Len(t, positions, 4)
	// group 1 nodes come first
	assert.Equal(t, "a", positions[0].ID)
	assert.Equal(t, "c", positions[1].ID)
	assert.Equal(t, Position{ID: "a", X: 100, Y: 0}, positions[0])
	assert.Equal(t, positions, layout.Layout(g.Nodes, g.Links))

	assert.Empty(t, layout.Layout(nil, nil))
}
