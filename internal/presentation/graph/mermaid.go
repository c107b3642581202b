package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/tracebench/pkg/domain"
)

// GraphOverlay contains run data to visualize on the graph.
type GraphOverlay struct {
	VisitedNodes []string
	CurrentNode  string
}

// GenerateMermaid produces a Mermaid flowchart of a fixture call graph.
// It applies semantic styling:
// - main: ((Circle))
// - Nodes with a marker line: [/Parallelogram/] (they print)
// - Default: [Rectangle]
// Signal deliveries are drawn as dotted edges. Overlay styles (Visited/Current)
// are applied if provided.
func GenerateMermaid(g domain.CallGraph, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for _, node := range g.Nodes {
		safeID := sanitizeMermaidID(node.ID)

		opener, closer := "[", "]"
		switch {
		case node.ID == "main":
			opener, closer = "((", "))"
		case node.Marker != "":
			opener, closer = "[/", "/]"
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", safeID, opener, node.ID, closer))
	}

	for _, e := range g.Edges {
		from, to := sanitizeMermaidID(e.From), sanitizeMermaidID(e.To)

		label := e.Condition
		if e.Signal != "" {
			label = strings.TrimSpace("⚡ " + e.Signal + " " + e.Condition)
		}
		// Escape double quotes for the Mermaid label
		label = strings.ReplaceAll(label, "\"", "'")

		var arrow string
		switch {
		case e.Signal != "":
			arrow = fmt.Sprintf("-. \"%s\" .->", label)
		case label != "":
			arrow = fmt.Sprintf("-- \"%s\" -->", label)
		default:
			arrow = "-->"
		}
		sb.WriteString(fmt.Sprintf("    %s %s %s\n", from, arrow, to))
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for contrast on both themes
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		seen := make(map[string]bool)
		for _, id := range overlay.VisitedNodes {
			safeID := sanitizeMermaidID(id)
			if !seen[safeID] && safeID != "" {
				seen[safeID] = true
				sb.WriteString(fmt.Sprintf("    class %s visited;\n", safeID))
			}
		}

		if overlay.CurrentNode != "" {
			sb.WriteString(fmt.Sprintf("    class %s current;\n", sanitizeMermaidID(overlay.CurrentNode)))
		}
	}

	return sb.String()
}

// OverlayFor marks the nodes a transcript went through. When the transcript
// diverged, the node owning the expected line becomes the current node.
func OverlayFor(g domain.CallGraph, tr *domain.Transcript) *GraphOverlay {
	overlay := &GraphOverlay{VisitedNodes: g.Visited(tr.Lines)}
	if tr.Diff != nil {
		if ids := g.Visited([]string{tr.Diff.Want}); len(ids) > 0 {
			overlay.CurrentNode = ids[0]
		}
	}
	return overlay
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	return s
}
