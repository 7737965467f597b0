// Package parser turns a raw assistant reply into an ordered sequence
// of typed file changes. It performs no I/O.
//
// The wire format is a sequence of file blocks:
//
//	<file path="src/a.py" action="modify">
//	  <change>
//	    <description>why</description>
//	    <search>
//	===
//	old text
//	===
//	    </search>
//	    <content>
//	===
//	new text
//	===
//	    </content>
//	  </change>
//	</file>
//
// The === marker lines fence payloads so that the payload itself may
// contain tag-like text; they are optional and stripped when present.
package parser

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/mohilcode/proprompter/model"
)

// ParseError reports a structurally invalid change document. A parse
// error aborts the whole parse; no changes from a malformed document
// are ever returned.
type ParseError struct {
	Path   string
	Reason string
}

func (e *ParseError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("invalid change document: %s", e.Reason)
	}
	return fmt.Sprintf("invalid change document (%s): %s", e.Path, e.Reason)
}

// Document is the result of a successful parse. Warnings record
// tolerated malformations (see Parse).
type Document struct {
	Changes  []model.FileChange
	Warnings []string
}

var (
	fileBlockRe = regexp.MustCompile(`(?s)<file\s+([^>]*?)>(.*?)</file>`)
	changeRe    = regexp.MustCompile(`(?s)<change>(.*?)</change>`)
	descRe      = regexp.MustCompile(`(?s)<description>(.*?)</description>`)
	searchRe    = regexp.MustCompile(`(?s)<search>(.*?)</search>`)
	contentRe   = regexp.MustCompile(`(?s)<content>(.*?)</content>`)
	attrRe      = regexp.MustCompile(`(\w+)="([^"]*)"`)
)

// Parse extracts all file blocks from text, in document order.
// Duplicate paths stay separate entries; the applier processes them
// sequentially.
//
// A create or rewrite block carrying more than one operation keeps only
// the first and records a warning, matching the forgiving stance the
// diff engine takes on stale search fragments. Every other structural
// violation fails the whole parse.
func Parse(text string) (*Document, error) {
	doc := &Document{}

	for _, match := range fileBlockRe.FindAllStringSubmatch(unwrapMarkdown(text), -1) {
		attrs := parseAttrs(match[1])

		path := attrs["path"]
		if path == "" {
			return nil, &ParseError{Reason: "file block missing path attribute"}
		}

		// A missing action attribute defaults to modify.
		action := model.ActionModify
		if raw, ok := attrs["action"]; ok {
			parsed, valid := model.ParseAction(raw)
			if !valid {
				return nil, &ParseError{Path: path, Reason: fmt.Sprintf("invalid action %q", raw)}
			}
			action = parsed
		}

		ops := parseOperations(match[2])

		fc := model.FileChange{Path: path, Action: action, Operations: ops}
		if err := validate(&fc, doc); err != nil {
			return nil, err
		}
		doc.Changes = append(doc.Changes, fc)
	}

	return doc, nil
}

func validate(fc *model.FileChange, doc *Document) error {
	switch fc.Action {
	case model.ActionCreate, model.ActionRewrite:
		if len(fc.Operations) == 0 {
			return &ParseError{Path: fc.Path, Reason: fmt.Sprintf("%s block has no content", fc.Action)}
		}
		if len(fc.Operations) > 1 {
			doc.Warnings = append(doc.Warnings, fmt.Sprintf(
				"%s: %s block has %d operations, keeping the first", fc.Path, fc.Action, len(fc.Operations)))
			fc.Operations = fc.Operations[:1]
		}
	case model.ActionModify:
		if len(fc.Operations) == 0 {
			return &ParseError{Path: fc.Path, Reason: "modify block has no operations"}
		}
		for _, op := range fc.Operations {
			if op.Search == "" {
				return &ParseError{Path: fc.Path, Reason: "modify operation missing search"}
			}
		}
	case model.ActionDelete:
		// Operations are ignored for deletes.
		fc.Operations = nil
	}
	return nil
}

func parseOperations(body string) []model.ChangeOperation {
	var ops []model.ChangeOperation
	for _, m := range changeRe.FindAllStringSubmatch(body, -1) {
		op := model.ChangeOperation{}
		if d := descRe.FindStringSubmatch(m[1]); d != nil {
			op.Description = strings.TrimSpace(d[1])
		}
		if s := searchRe.FindStringSubmatch(m[1]); s != nil {
			op.Search = unfence(s[1])
		}
		if c := contentRe.FindStringSubmatch(m[1]); c != nil {
			op.Content = unfence(c[1])
		}
		ops = append(ops, op)
	}
	return ops
}

func parseAttrs(s string) map[string]string {
	attrs := make(map[string]string)
	for _, m := range attrRe.FindAllStringSubmatch(s, -1) {
		attrs[m[1]] = m[2]
	}
	return attrs
}

// unfence returns the lines between the first two === marker lines,
// exactly as written. Text without a marker pair is returned trimmed.
func unfence(text string) string {
	lines := strings.Split(text, "\n")

	start, end := -1, -1
	for i, line := range lines {
		if strings.TrimSpace(line) != "===" {
			continue
		}
		if start == -1 {
			start = i
		} else {
			end = i
			break
		}
	}

	if start != -1 && end != -1 && start+1 <= end {
		return strings.Join(lines[start+1:end], "\n")
	}
	return strings.TrimSpace(text)
}
