package parser

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// unwrapMarkdown extracts a change document that arrived wrapped in
// markdown. Assistants often fence the document in a code block; when
// any fenced block contains a file tag, the concatenation of such
// blocks is the document. Otherwise the text is returned as-is.
func unwrapMarkdown(source string) string {
	blocks := fencedBlocks([]byte(source))

	var parts []string
	for _, b := range blocks {
		if strings.Contains(b, "<file ") {
			parts = append(parts, b)
		}
	}
	if len(parts) == 0 {
		return source
	}
	return strings.Join(parts, "\n")
}

// fencedBlocks walks the markdown AST and returns the raw contents of
// every fenced code block.
func fencedBlocks(source []byte) []string {
	var blocks []string
	root := goldmark.DefaultParser().Parse(text.NewReader(source))

	walker := func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		fenced, ok := node.(*ast.FencedCodeBlock)
		if !ok {
			return ast.WalkContinue, nil
		}

		var content bytes.Buffer
		lines := fenced.Lines()
		for i := 0; i < lines.Len(); i++ {
			line := lines.At(i)
			content.Write(line.Value(source))
		}
		blocks = append(blocks, content.String())
		return ast.WalkSkipChildren, nil
	}

	if err := ast.Walk(root, walker); err != nil {
		return nil
	}
	return blocks
}
