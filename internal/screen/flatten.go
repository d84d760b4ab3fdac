// Package screen turns accessibility snapshots of other apps into text the
// bill parsers understand, and delivers raw screen events to the pipeline.
package screen

import (
	"strings"

	"github.com/Veraticus/autobill/internal/model"
)

// Flatten concatenates the text and label of every node in pre-order, each
// followed by a single space. The walk is iterative and visits each node once,
// so cyclic or very deep trees are safe.
func Flatten(root *model.ScreenNode) string {
	if root == nil {
		return ""
	}

	var b strings.Builder
	seen := make(map[*model.ScreenNode]struct{})
	stack := []*model.ScreenNode{root}

	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if node == nil {
			continue
		}
		if _, ok := seen[node]; ok {
			continue
		}
		seen[node] = struct{}{}

		if node.Text != "" {
			b.WriteString(node.Text)
			b.WriteByte(' ')
		}
		if node.Label != "" {
			b.WriteString(node.Label)
			b.WriteByte(' ')
		}

		// Push children in reverse so the first child is popped first.
		for i := len(node.Children) - 1; i >= 0; i-- {
			stack = append(stack, node.Children[i])
		}
	}

	return b.String()
}

// EventText returns the text a parser should see for ev.
func EventText(ev model.RawScreenEvent) string {
	if ev.ScreenText != "" {
		return ev.ScreenText
	}
	return Flatten(ev.Root)
}
