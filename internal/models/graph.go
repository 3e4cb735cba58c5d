package models

// Node is an insight in the knowledge graph
type Node struct {
	ID     string `json:"id"`
	UserID string `json:"-"`
	Label  string `json:"label"`
	Group  int    `json:"group"` // 1..3
	Val    int    `json:"val"`
}

// Link is an undirected edge between two nodes
type Link struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// Touches reports whether the link references nodeID at either end
func (l Link) Touches(nodeID string) bool {
	return l.Source == nodeID || l.Target == nodeID
}

// Graph is the full node/link set of a user
type Graph struct {
	Nodes []Node `json:"nodes"`
	Links []Link `json:"links"`
}

// SaveNodeRequest creates or updates a node and connects it to existing nodes
type SaveNodeRequest struct {
	Node         Node     `json:"node"`
	ConnectedIDs []string `json:"connected_ids,omitempty"`
}
