// Package codeblocks pulls fenced code blocks out of model replies so they
// can be copied to the clipboard or pulled back into the prompt.
package codeblocks

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"porridge/internal/models"
)

// Block is one fenced or indented code block.
type Block struct {
	Language string
	Code     string
}

var parser = goldmark.New().Parser()

// Extract returns the code blocks of a markdown document in order.
func Extract(markdown string) []Block {
	src := []byte(markdown)
	doc := parser.Parse(text.NewReader(src))
	var out []Block
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch b := n.(type) {
		case *ast.FencedCodeBlock:
			out = append(out, Block{Language: string(b.Language(src)), Code: lines(b, src)})
			return ast.WalkSkipChildren, nil
		case *ast.CodeBlock:
			out = append(out, Block{Code: lines(b, src)})
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return out
}

func lines(n ast.Node, src []byte) string {
	var b strings.Builder
	segs := n.Lines()
	for i := 0; i < segs.Len(); i++ {
		seg := segs.At(i)
		b.Write(seg.Value(src))
	}
	return strings.TrimRight(b.String(), "\n")
}

// FromMessages returns the code blocks of every non-user, non-error message,
// oldest first.
func FromMessages(msgs []models.Message) []Block {
	var out []Block
	for _, m := range msgs {
		if m.IsUser() || m.Type == models.MessageError {
			continue
		}
		out = append(out, Extract(m.Text)...)
	}
	return out
}

// Pick resolves a 1-based block number; n <= 0 selects the last block.
func Pick(blocks []Block, n int) (Block, error) {
	if len(blocks) == 0 {
		return Block{}, fmt.Errorf("no code blocks in conversation")
	}
	if n <= 0 {
		return blocks[len(blocks)-1], nil
	}
	if n > len(blocks) {
		return Block{}, fmt.Errorf("code block %d out of range (have %d)", n, len(blocks))
	}
	return blocks[n-1], nil
}

// Copy places the block's code on the system clipboard.
func Copy(b Block) error {
	if clipboard.Unsupported {
		return fmt.Errorf("clipboard unsupported on this system")
	}
	return clipboard.WriteAll(b.Code)
}
