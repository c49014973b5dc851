package graph

import (
	"sort"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/graph/community"
	"gonum.org/v1/gonum/graph/simple"
)

// CommunityDetector partitions an adjacency structure into densely-linked
// page groups. Implementations must be deterministic for a fixed input.
type CommunityDetector interface {
	Detect(adjacency Adjacency) [][]string
}

// communitySeed fixes the random source so repeated builds over identical
// input produce identical partitions.
const communitySeed = 1

// ModularityDetector finds communities by modularity maximization using
// gonum's Louvain implementation.
type ModularityDetector struct {
	// Resolution is the gamma parameter of the modularity function; 1 is the
	// classical definition.
	Resolution float64
}

// NewModularityDetector returns a detector at the classical resolution.
func NewModularityDetector() *ModularityDetector {
	return &ModularityDetector{Resolution: 1}
}

// Detect returns the communities of the graph as page-id groups. An empty
// adjacency yields no communities. Group members are sorted and groups are
// ordered by their smallest member for reproducibility.
func (d *ModularityDetector) Detect(adjacency Adjacency) [][]string {
	if len(adjacency) == 0 {
		return nil
	}

	// Stable page-id <-> node-id mapping, independent of map iteration order.
	ids := make([]string, 0, len(adjacency))
	for id := range adjacency {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	index := make(map[string]int64, len(ids))
	for i, id := range ids {
		index[id] = int64(i)
	}

	g := simple.NewUndirectedGraph()
	for _, id := range ids {
		g.AddNode(simple.Node(index[id]))
	}
	for _, id := range ids {
		neighbors := make([]string, 0, len(adjacency[id]))
		for neighbor := range adjacency[id] {
			neighbors = append(neighbors, neighbor)
		}
		sort.Strings(neighbors)
		for _, neighbor := range neighbors {
			to, ok := index[neighbor]
			if !ok || to == index[id] {
				continue
			}
			g.SetEdge(simple.Edge{F: simple.Node(index[id]), T: simple.Node(to)})
		}
	}

	reduced := community.Modularize(g, d.Resolution, rand.NewSource(communitySeed))
	var groups [][]string
	for _, nodes := range reduced.Communities() {
		group := make([]string, 0, len(nodes))
		for _, node := range nodes {
			group = append(group, ids[node.ID()])
		}
		sort.Strings(group)
		groups = append(groups, group)
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i][0] < groups[j][0]
	})
	return groups
}
