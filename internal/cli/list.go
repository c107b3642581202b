package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/aretw0/tracebench/internal/presentation/graph"
	"github.com/aretw0/tracebench/pkg/domain"
)

// List prints the registered fixtures.
func List(w io.Writer, opts GlobalOptions, asJSON bool) error {
	h, _, err := newHarness(opts)
	if err != nil {
		return err
	}
	defer h.Close()

	fixtures := h.Fixtures()
	if asJSON {
		return json.NewEncoder(w).Encode(fixtures)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tPROGRAM\tDESCRIPTION")
	for _, f := range fixtures {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", f.Name, f.Program, f.Description)
	}
	return tw.Flush()
}

// ListTranscripts prints the stored transcript IDs, one per line.
func ListTranscripts(ctx context.Context, w io.Writer, opts GlobalOptions) error {
	h, _, err := newHarness(opts)
	if err != nil {
		return err
	}
	defer h.Close()

	ids, err := h.Transcripts(ctx)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		printSystemMessage(w, "No transcripts stored (store: %s).", h.Config.Store)
		return nil
	}
	for _, id := range ids {
		fmt.Fprintln(w, id)
	}
	return nil
}

// ShowTranscript prints one stored transcript.
func ShowTranscript(ctx context.Context, w io.Writer, opts GlobalOptions, id string, asJSON, styled bool) error {
	h, _, err := newHarness(opts)
	if err != nil {
		return err
	}
	defer h.Close()

	tr, err := h.Transcript(ctx, id)
	if err != nil {
		return fmt.Errorf("transcript %s: %w", id, err)
	}
	return writeTranscript(w, tr, asJSON, styled)
}

// Graph prints the Mermaid call graph of a fixture, overlaying a stored
// transcript when transcriptID is set.
func Graph(ctx context.Context, w io.Writer, opts GlobalOptions, fixture, transcriptID string) error {
	h, _, err := newHarness(opts)
	if err != nil {
		return err
	}
	defer h.Close()

	g, err := h.Graph(fixture)
	if err != nil {
		return err
	}

	var overlay *graph.GraphOverlay
	if transcriptID != "" {
		var tr *domain.Transcript
		tr, err = h.Transcript(ctx, transcriptID)
		if err != nil {
			return fmt.Errorf("transcript %s: %w", transcriptID, err)
		}
		overlay = graph.OverlayFor(g, tr)
	}

	_, err = io.WriteString(w, graph.GenerateMermaid(g, overlay))
	return err
}
