package fix

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"bsharp/internal/diag"
	"bsharp/internal/source"
)

// ErrNoFixes is returned when no fixes were applied.
var ErrNoFixes = errors.New("no applicable fixes found")

// ApplyMode determines selection strategy for fixes.
type ApplyMode uint8

const (
	// ApplyModeOnce применяет первый fix (по позиции в файле).
	ApplyModeOnce ApplyMode = iota
	// ApplyModeAll применяет все непересекающиеся fixes.
	ApplyModeAll
	// ApplyModeID применяет fix с заданным ID.
	ApplyModeID
)

// ApplyOptions configures how fixes are selected.
type ApplyOptions struct {
	Mode     ApplyMode
	TargetID string
	// DryRun: новое содержимое только возвращается в FileChange.Content.
	DryRun bool
}

// AppliedFix records a successfully applied fix.
type AppliedFix struct {
	ID          string
	Title       string
	Code        diag.Code
	Message     string
	PrimaryPath string
	EditCount   int
}

// SkippedFix captures a skipped or failed fix with a reason.
type SkippedFix struct {
	ID     string
	Title  string
	Reason string
}

// FileChange summarises modifications performed on a file.
type FileChange struct {
	Path      string
	FileID    source.FileID
	EditCount int
	Content   []byte
}

// ApplyResult aggregates applied fixes, skipped ones, and file changes.
type ApplyResult struct {
	Applied     []AppliedFix
	Skipped     []SkippedFix
	FileChanges []FileChange
}

type candidate struct {
	diag  diag.Diagnostic
	fix   diag.Fix
	id    string
	order int
}

// ID returns the stable identifier of the idx-th fix of d, as listed by
// `bsharp fix --list`.
func ID(d diag.Diagnostic, idx int) string {
	return fmt.Sprintf("%s-%d-%d-%d", d.Code.ID(), d.Primary.File, d.Primary.Start, idx)
}

// Apply collects fixes from diagnostics, selects a subset according to opts,
// and applies them. Правки всех fixes задаются в координатах исходного
// содержимого файла.
func Apply(fs *source.FileSet, diagnostics []diag.Diagnostic, opts ApplyOptions) (*ApplyResult, error) {
	result := &ApplyResult{}
	if fs == nil {
		return result, errors.New("fix: FileSet is nil")
	}

	candidates, buildSkips := gatherCandidates(diagnostics)
	result.Skipped = append(result.Skipped, buildSkips...)
	if len(candidates) == 0 {
		return result, ErrNoFixes
	}
	sortCandidates(candidates)

	selected, selectionSkips := selectCandidates(candidates, opts)
	result.Skipped = append(result.Skipped, selectionSkips...)
	if len(selected) == 0 {
		return result, ErrNoFixes
	}

	applied, skipped, changes, err := applyCandidates(fs, selected, opts.DryRun)
	result.Applied = append(result.Applied, applied...)
	result.Skipped = append(result.Skipped, skipped...)
	result.FileChanges = append(result.FileChanges, changes...)
	if err != nil {
		return result, err
	}
	if len(result.Applied) == 0 {
		return result, ErrNoFixes
	}
	return result, nil
}

// List returns every fix candidate in application order without applying anything.
func List(diagnostics []diag.Diagnostic) []AppliedFix {
	candidates, _ := gatherCandidates(diagnostics)
	sortCandidates(candidates)
	out := make([]AppliedFix, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, AppliedFix{
			ID:        c.id,
			Title:     c.fix.Title,
			Code:      c.diag.Code,
			Message:   c.diag.Message,
			EditCount: len(c.fix.Edits),
		})
	}
	return out
}

func gatherCandidates(diagnostics []diag.Diagnostic) ([]candidate, []SkippedFix) {
	var (
		cands []candidate
		skips []SkippedFix
	)
	order := 0
	for _, d := range diagnostics {
		for idx, f := range d.Fixes {
			id := ID(d, idx)
			if len(f.Edits) == 0 {
				skips = append(skips, SkippedFix{ID: id, Title: f.Title, Reason: "fix has no edits"})
				continue
			}
			cands = append(cands, candidate{diag: d, fix: f, id: id, order: order})
			order++
		}
	}
	return cands, skips
}

// sortCandidates: файл, начало и конец primary span'а, порядок появления.
func sortCandidates(candidates []candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		di, dj := candidates[i].diag, candidates[j].diag
		if di.Primary.File != dj.Primary.File {
			return di.Primary.File < dj.Primary.File
		}
		if di.Primary.Start != dj.Primary.Start {
			return di.Primary.Start < dj.Primary.Start
		}
		if di.Primary.End != dj.Primary.End {
			return di.Primary.End < dj.Primary.End
		}
		return candidates[i].order < candidates[j].order
	})
}

func selectCandidates(candidates []candidate, opts ApplyOptions) ([]candidate, []SkippedFix) {
	switch opts.Mode {
	case ApplyModeID:
		for _, cand := range candidates {
			if cand.id == opts.TargetID {
				return []candidate{cand}, nil
			}
		}
		return nil, []SkippedFix{{ID: opts.TargetID, Reason: "fix id not found"}}
	case ApplyModeAll:
		return candidates, nil
	case ApplyModeOnce:
		return candidates[:1], nil
	default:
		return nil, nil
	}
}

type stagedEdit struct {
	edit  diag.FixEdit
	order int
}

func applyCandidates(fs *source.FileSet, selected []candidate, dryRun bool) ([]AppliedFix, []SkippedFix, []FileChange, error) {
	accepted := make(map[source.FileID][]stagedEdit)
	var (
		applied []AppliedFix
		skipped []SkippedFix
		order   int
	)
	baseDir := fs.BaseDir()

	for _, cand := range selected {
		reason := ""
		for _, edit := range cand.fix.Edits {
			file := fs.Get(edit.Span.File)
			switch {
			case file == nil:
				reason = "target file is unknown"
			case file.Flags&source.FileVirtual != 0:
				reason = "target file is virtual"
			case int(edit.Span.End) > len(file.Content) || edit.Span.End < edit.Span.Start:
				reason = "edit span out of range"
			case conflicts(accepted[edit.Span.File], edit):
				reason = fmt.Sprintf("conflicts with previously applied edits in %s", file.FormatPath("auto", baseDir))
			}
			if reason != "" {
				break
			}
		}
		if reason != "" {
			skipped = append(skipped, SkippedFix{ID: cand.id, Title: cand.fix.Title, Reason: reason})
			continue
		}

		for _, edit := range cand.fix.Edits {
			accepted[edit.Span.File] = append(accepted[edit.Span.File], stagedEdit{edit: edit, order: order})
			order++
		}
		applied = append(applied, AppliedFix{
			ID:          cand.id,
			Title:       cand.fix.Title,
			Code:        cand.diag.Code,
			Message:     cand.diag.Message,
			PrimaryPath: formatFilePath(fs, cand.diag.Primary.File),
			EditCount:   len(cand.fix.Edits),
		})
	}

	if len(applied) == 0 {
		return applied, skipped, nil, nil
	}

	ids := make([]source.FileID, 0, len(accepted))
	for id := range accepted {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	changes := make([]FileChange, 0, len(ids))
	for _, id := range ids {
		file := fs.Get(id)
		content := rewrite(file.Content, accepted[id])
		if !dryRun {
			mode := os.FileMode(0o644)
			if info, err := os.Stat(file.Path); err == nil {
				mode = info.Mode()
			}
			if err := os.WriteFile(file.Path, content, mode); err != nil {
				return applied, skipped, changes, fmt.Errorf("write %s: %w", file.Path, err)
			}
		}
		changes = append(changes, FileChange{
			Path:      file.FormatPath("relative", baseDir),
			FileID:    id,
			EditCount: len(accepted[id]),
			Content:   content,
		})
	}
	return applied, skipped, changes, nil
}

// rewrite применяет правки с конца файла, чтобы смещения оставались верными.
// Вставки в одну позицию сохраняют порядок, в котором были приняты.
func rewrite(content []byte, edits []stagedEdit) []byte {
	sorted := append([]stagedEdit(nil), edits...)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].edit.Span, sorted[j].edit.Span
		if a.Start != b.Start {
			return a.Start > b.Start
		}
		return sorted[i].order > sorted[j].order
	})
	out := append([]byte(nil), content...)
	for _, s := range sorted {
		start, end := int(s.edit.Span.Start), int(s.edit.Span.End)
		suffix := append([]byte(nil), out[end:]...)
		out = append(append(out[:start], s.edit.NewText...), suffix...)
	}
	return out
}

func conflicts(existing []stagedEdit, edit diag.FixEdit) bool {
	for _, prev := range existing {
		if spansConflict(prev.edit.Span, edit.Span) {
			return true
		}
	}
	return false
}

// spansConflict reports whether two edit spans overlap. Spans are half-open;
// two insertions never conflict, an insertion conflicts with a replacement
// strictly containing its position.
func spansConflict(a, b source.Span) bool {
	if a.Start == a.End && b.Start == b.End {
		return false
	}
	if a.Start == a.End {
		return b.Start < a.Start && a.Start < b.End
	}
	if b.Start == b.End {
		return a.Start < b.Start && b.Start < a.End
	}
	return a.Start < b.End && b.Start < a.End
}

func formatFilePath(fs *source.FileSet, fileID source.FileID) string {
	file := fs.Get(fileID)
	if file == nil {
		return ""
	}
	return file.FormatPath("auto", fs.BaseDir())
}
