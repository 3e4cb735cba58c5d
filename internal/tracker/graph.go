package tracker

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/Behrad-Mahdavi/NexusOs/internal/dashboard"
	"github.com/Behrad-Mahdavi/NexusOs/internal/events"
	"github.com/Behrad-Mahdavi/NexusOs/internal/models"
)

// Graph returns the user's knowledge graph with weights derived from links
func (s *Service) Graph(ctx context.Context, userID string) (models.Graph, error) {
	if err := requireUser(userID); err != nil {
		return models.Graph{}, err
	}

	nodes, err := s.repo.ListNodes(ctx, userID)
	if err != nil {
		return models.Graph{}, err
	}
	links, err := s.repo.ListLinks(ctx, userID)
	if err != nil {
		return models.Graph{}, err
	}

	return models.Graph{Nodes: dashboard.WithWeights(nodes, links), Links: links}, nil
}

// Layout positions the user's nodes with the given layout
func (s *Service) Layout(ctx context.Context, userID string, layout dashboard.Layout) ([]dashboard.Position, error) {
	g, err := s.Graph(ctx, userID)
	if err != nil {
		return nil, err
	}
	return layout.Layout(g.Nodes, g.Links), nil
}

// SaveNode inserts or updates a node and links it to each connected id.
// Self links and links that already exist are skipped.
func (s *Service) SaveNode(ctx context.Context, userID string, req models.SaveNodeRequest) (*models.Node, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}

	n := req.Node
	clientID := n.ID
	n.Label = strings.TrimSpace(n.Label)

	v := &ValidationError{}
	if n.Label == "" {
		v.Add("label", "is required")
	}
	if n.Group < 1 || n.Group > 3 {
		v.Add("group", fmt.Sprintf("must be between 1 and 3; got %d", n.Group))
	}
	if err := v.errOrNil(); err != nil {
		return nil, err
	}
	n.UserID = userID

	exists := false
	if isPersistedID(n.ID) {
		existing, err := s.repo.GetNode(ctx, userID, n.ID)
		if err != nil {
			return nil, err
		}
		exists = existing != nil
	} else {
		n.ID = uuid.NewString()
	}

	links, err := s.newLinks(ctx, userID, n.ID, clientID, req.ConnectedIDs)
	if err != nil {
		return nil, err
	}

	if exists {
		err = s.repo.UpdateNode(ctx, &n)
	} else {
		n.Val = dashboard.NodeWeight(0)
		err = s.repo.CreateNode(ctx, &n)
	}
	if err != nil {
		return nil, storeError(err)
	}

	if err := s.repo.CreateLinks(ctx, userID, links); err != nil {
		return nil, storeError(err)
	}

	s.publish(userID, events.NodeSaved, "node", n.ID, n)
	return &n, nil
}

// newLinks resolves connected ids into links from nodeID, dropping self
// references (by either id the node was known under) as well as repeated
// links. Unknown targets are rejected.
func (s *Service) newLinks(ctx context.Context, userID, nodeID, clientID string, connected []string) ([]models.Link, error) {
	if len(connected) == 0 {
		return nil, nil
	}

	existing, err := s.repo.ListLinks(ctx, userID)
	if err != nil {
		return nil, err
	}

	var links []models.Link
	for _, target := range connected {
		if target == "" || target == nodeID || target == clientID {
			continue
		}
		l := models.Link{Source: nodeID, Target: target}
		reverse := models.Link{Source: target, Target: nodeID}
		if slices.Contains(links, l) || slices.Contains(existing, l) || slices.Contains(existing, reverse) {
			continue
		}

		node, err := s.repo.GetNode(ctx, userID, target)
		if err != nil {
			return nil, err
		}
		if node == nil {
			return nil, fieldError("connected_ids", fmt.Sprintf("unknown node %s", target))
		}
		links = append(links, l)
	}
	return links, nil
}

// DeleteNode removes a node and every link touching it
func (s *Service) DeleteNode(ctx context.Context, userID, id string) error {
	if err := requireUser(userID); err != nil {
		return err
	}

	if err := s.repo.DeleteNode(ctx, userID, id); err != nil {
		return storeError(err)
	}

	s.publish(userID, events.NodeDeleted, "node", id, nil)
	return nil
}
