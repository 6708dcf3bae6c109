// Package fix applies the machine-applicable fixes attached to diagnostics.
package fix

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"vela/internal/diag"
	"vela/internal/source"
)

// ErrNoFixes is returned when no fixes were applied.
var ErrNoFixes = errors.New("no applicable fixes found")

// Mode determines which fixes are selected.
type Mode uint8

const (
	// ModeOnce applies the first fix in source order.
	ModeOnce Mode = iota
	ModeAll
	// ModeID applies only the fix whose ID is Options.TargetID.
	ModeID
)

type Options struct {
	Mode     Mode
	TargetID string
	// DryRun computes the new contents without writing them.
	DryRun bool
}

// Applied records one applied fix.
type Applied struct {
	ID        string
	Title     string
	Code      diag.Code
	Path      string
	EditCount int
}

// Skipped records a fix that was not applied and why.
type Skipped struct {
	ID     string
	Title  string
	Reason string
}

// FileChange holds the rewritten content of one file.
type FileChange struct {
	Path      string
	EditCount int
	Content   []byte
}

type Result struct {
	Applied     []Applied
	Skipped     []Skipped
	FileChanges []FileChange
}

type candidate struct {
	id   string
	diag diag.Diagnostic
	fix  diag.Fix
}

// ID names fix idx of d; stable for a given diagnostic position.
func ID(d diag.Diagnostic, idx int) string {
	return fmt.Sprintf("%s-%d-%d-%d", d.Code.ID(), d.Primary.File, d.Primary.Start, idx)
}

// Apply selects fixes from diagnostics according to opts, applies them to
// the contents in fs and, unless DryRun, writes the changed files.
// Virtual files are never written.
func Apply(fs *source.FileSet, diagnostics []diag.Diagnostic, opts Options) (*Result, error) {
	res := &Result{}
	if fs == nil {
		return res, errors.New("fix: FileSet is nil")
	}
	cands := gather(diagnostics, &res.Skipped)
	selected := selectCandidates(cands, opts, &res.Skipped)
	if len(selected) == 0 {
		return res, ErrNoFixes
	}

	accepted := make(map[source.FileID][]diag.FixEdit)
	for _, c := range selected {
		if reason := check(fs, accepted, c.fix.Edits, opts.DryRun); reason != "" {
			res.Skipped = append(res.Skipped, Skipped{ID: c.id, Title: c.fix.Title, Reason: reason})
			continue
		}
		for _, e := range c.fix.Edits {
			accepted[e.Span.File] = append(accepted[e.Span.File], e)
		}
		res.Applied = append(res.Applied, Applied{
			ID:        c.id,
			Title:     c.fix.Title,
			Code:      c.diag.Code,
			Path:      fs.Get(c.diag.Primary.File).Path,
			EditCount: len(c.fix.Edits),
		})
	}
	if len(res.Applied) == 0 {
		return res, ErrNoFixes
	}

	ids := make([]source.FileID, 0, len(accepted))
	for id := range accepted {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		file := fs.Get(id)
		content := rewrite(file.Content, accepted[id])
		if !opts.DryRun {
			mode := os.FileMode(0o644)
			if info, err := os.Stat(file.Path); err == nil {
				mode = info.Mode()
			}
			if err := os.WriteFile(file.Path, content, mode); err != nil {
				return res, fmt.Errorf("write %s: %w", file.Path, err)
			}
		}
		res.FileChanges = append(res.FileChanges, FileChange{Path: file.Path, EditCount: len(accepted[id]), Content: content})
	}
	return res, nil
}

func gather(diagnostics []diag.Diagnostic, skipped *[]Skipped) []candidate {
	var cands []candidate
	for _, d := range diagnostics {
		for idx, f := range d.Fixes {
			id := ID(d, idx)
			if len(f.Edits) == 0 {
				*skipped = append(*skipped, Skipped{ID: id, Title: f.Title, Reason: "fix has no edits"})
				continue
			}
			cands = append(cands, candidate{id: id, diag: d, fix: f})
		}
	}
	sort.SliceStable(cands, func(i, j int) bool {
		a, b := cands[i].diag.Primary, cands[j].diag.Primary
		if a.File != b.File {
			return a.File < b.File
		}
		return a.Start < b.Start
	})
	return cands
}

func selectCandidates(cands []candidate, opts Options, skipped *[]Skipped) []candidate {
	switch opts.Mode {
	case ModeAll:
		return cands
	case ModeID:
		for _, c := range cands {
			if c.id == opts.TargetID {
				return []candidate{c}
			}
		}
		*skipped = append(*skipped, Skipped{ID: opts.TargetID, Reason: "fix id not found"})
		return nil
	}
	if len(cands) == 0 {
		return nil
	}
	return cands[:1]
}

// check returns why edits cannot be applied on top of accepted, or "".
func check(fs *source.FileSet, accepted map[source.FileID][]diag.FixEdit, edits []diag.FixEdit, dryRun bool) string {
	for i, e := range edits {
		if !fs.HasFile(e.Span.File) {
			return "edit targets an unknown file"
		}
		file := fs.Get(e.Span.File)
		if !dryRun && file.Flags&source.FileVirtual != 0 {
			return "target file is virtual"
		}
		if e.Span.Start > e.Span.End || int(e.Span.End) > len(file.Content) {
			return "edit span out of range"
		}
		for _, prev := range accepted[e.Span.File] {
			if conflict(prev.Span, e.Span) {
				return "conflicts with a previously applied edit in " + file.Path
			}
		}
		for _, other := range edits[:i] {
			if other.Span.File == e.Span.File && conflict(other.Span, e.Span) {
				return "fix has overlapping edits"
			}
		}
	}
	return ""
}

// conflict treats spans as half-open; two insertions never conflict.
func conflict(a, b source.Span) bool {
	switch {
	case a.Start == a.End && b.Start == b.End:
		return false
	case a.Start == a.End:
		return b.Start <= a.Start && a.Start < b.End
	case b.Start == b.End:
		return a.Start <= b.Start && b.Start < a.End
	}
	return a.Start < b.End && b.Start < a.End
}

// rewrite applies non-overlapping edits back to front.
func rewrite(content []byte, edits []diag.FixEdit) []byte {
	sorted := append([]diag.FixEdit(nil), edits...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Span.Start > sorted[j].Span.Start })
	out := append([]byte(nil), content...)
	for _, e := range sorted {
		tail := append([]byte(nil), out[e.Span.End:]...)
		out = append(append(out[:e.Span.Start], e.NewText...), tail...)
	}
	return out
}
