// Package diff computes before/after previews for parsed changes. It
// owns the per-action content transform so that previews and applied
// results agree byte for byte.
package diff

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/mohilcode/proprompter/model"
)

// PlaceholderMissing stands in for the original text of a path whose
// current content is unavailable.
const PlaceholderMissing = "[file not found]"

// Transform computes the post-change content of a file. Modify
// operations replace the first occurrence of their search fragment, in
// order; a fragment that is absent is a no-op so that a stale hunk
// skips instead of aborting the file.
func Transform(fc model.FileChange, current string) string {
	switch fc.Action {
	case model.ActionCreate, model.ActionRewrite:
		if len(fc.Operations) == 0 {
			return current
		}
		return fc.Operations[0].Content
	case model.ActionModify:
		out := current
		for _, op := range fc.Operations {
			if op.Search == "" {
				continue
			}
			if i := strings.Index(out, op.Search); i >= 0 {
				out = out[:i] + op.Content + out[i+len(op.Search):]
			}
		}
		return out
	case model.ActionDelete:
		return ""
	}
	return current
}

// Preview computes one DiffPreview per change, in input order. current
// maps path to content and may be partial; missing entries render as
// PlaceholderMissing. Preview never mutates its inputs and is
// idempotent.
func Preview(changes []model.FileChange, current map[string]string) []model.DiffPreview {
	previews := make([]model.DiffPreview, 0, len(changes))
	for _, fc := range changes {
		previews = append(previews, previewOne(fc, current))
	}
	return previews
}

func previewOne(fc model.FileChange, current map[string]string) model.DiffPreview {
	cur, ok := current[fc.Path]

	p := model.DiffPreview{Path: fc.Path}
	switch fc.Action {
	case model.ActionCreate:
		p.Original = ""
		p.Modified = Transform(fc, "")
		p.HasChanges = true
	case model.ActionDelete:
		if ok {
			p.Original = cur
		} else {
			p.Original = PlaceholderMissing
		}
		p.Modified = ""
		p.HasChanges = true
	case model.ActionRewrite:
		if ok {
			p.Original = cur
		} else {
			p.Original = PlaceholderMissing
		}
		p.Modified = Transform(fc, cur)
		p.HasChanges = p.Original != p.Modified
	case model.ActionModify:
		if !ok {
			// No content to patch; searches cannot match.
			p.Original = PlaceholderMissing
			p.Modified = PlaceholderMissing
			p.HasChanges = false
			break
		}
		p.Original = cur
		p.Modified = Transform(fc, cur)
		p.HasChanges = p.Original != p.Modified
	}
	return p
}

// Unified renders a preview as a unified diff for display.
func Unified(p model.DiffPreview) (string, error) {
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(p.Original),
		B:        difflib.SplitLines(p.Modified),
		FromFile: p.Path + " (current)",
		ToFile:   p.Path + " (proposed)",
		Context:  3,
	})
}
