// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package visualizer

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/tree"
)

// Styles controls how Render draws a tree.
type Styles struct {
	Root       lipgloss.Style
	Dir        lipgloss.Style
	File       lipgloss.Style
	Enumerator lipgloss.Style

	// ShowSizes appends file sizes.
	ShowSizes bool
}

// Render draws n and its descendants.
func Render(n *Node, st Styles) string {
	if n == nil {
		return ""
	}
	t := tree.Root(st.Root.Render(n.Name)).
		Enumerator(tree.RoundedEnumerator).
		EnumeratorStyle(st.Enumerator)
	addChildren(t, n, st)
	return t.String()
}

func addChildren(t *tree.Tree, n *Node, st Styles) {
	for _, c := range n.Children {
		if c.IsDir {
			sub := tree.Root(st.Dir.Render(c.Name + "/")).
				Enumerator(tree.RoundedEnumerator).
				EnumeratorStyle(st.Enumerator)
			addChildren(sub, c, st)
			t.Child(sub)
			continue
		}
		label := c.Name
		if st.ShowSizes {
			label = fmt.Sprintf("%s (%s)", c.Name, HumanSize(c.Size))
		}
		t.Child(st.File.Render(label))
	}
}

// HumanSize formats n bytes with binary units, e.g. "1.5 MiB".
func HumanSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
