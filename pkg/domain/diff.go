package domain

import "fmt"

// LineDiff describes the first line where two transcripts diverge.
// Index is zero-based. A missing line is reported as an empty string with
// the corresponding Missing/Extra flag set.
type LineDiff struct {
	Index   int    `json:"index"`
	Want    string `json:"want"`
	Got     string `json:"got"`
	Missing bool   `json:"missing,omitempty"` // got ended before want
	Extra   bool   `json:"extra,omitempty"`   // got has lines past the end of want
}

// DiffLines compares expected and actual lines.
// It returns nil when they are identical.
func DiffLines(want, got []string) *LineDiff {
	n := min(len(want), len(got))
	for i := 0; i < n; i++ {
		if want[i] != got[i] {
			return &LineDiff{Index: i, Want: want[i], Got: got[i]}
		}
	}

	switch {
	case len(got) < len(want):
		return &LineDiff{Index: n, Want: want[n], Missing: true}
	case len(got) > len(want):
		return &LineDiff{Index: n, Got: got[n], Extra: true}
	}
	return nil
}

func (d *LineDiff) String() string {
	switch {
	case d.Missing:
		return fmt.Sprintf("line %d: missing, want %q", d.Index+1, d.Want)
	case d.Extra:
		return fmt.Sprintf("line %d: unexpected %q", d.Index+1, d.Got)
	}
	return fmt.Sprintf("line %d: want %q, got %q", d.Index+1, d.Want, d.Got)
}
