package domain

import "strings"

// CallEdge is a static call from one fixture function to another.
type CallEdge struct {
	From      string `json:"from"`
	To        string `json:"to"`
	Condition string `json:"condition,omitempty"`
	Signal    string `json:"signal,omitempty"` // delivered through a signal rather than a direct call
}

// CallNode is a fixture function. Marker is the prefix of the line it
// prints on entry, if any.
type CallNode struct {
	ID     string `json:"id"`
	Marker string `json:"marker,omitempty"`
}

// CallGraph is the static call structure of a fixture.
type CallGraph struct {
	Nodes []CallNode `json:"nodes"`
	Edges []CallEdge `json:"edges"`
}

// Visited returns the IDs of the nodes whose marker appears in lines,
// in node order.
func (g CallGraph) Visited(lines []string) []string {
	var out []string
	for _, n := range g.Nodes {
		if n.Marker == "" {
			continue
		}
		for _, l := range lines {
			if strings.HasPrefix(l, n.Marker) {
				out = append(out, n.ID)
				break
			}
		}
	}
	return out
}
