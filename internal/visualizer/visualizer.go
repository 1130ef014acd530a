// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package visualizer walks the sandbox in the background and renders it as
// a tree for the 3d overlay.
//
// The Worker shares no state with the dispatcher. Callers send one-shot
// requests ("read" for a snapshot, "init" to seed demo content) and get back
// either a tree or a status message.
package visualizer

import (
	"errors"
	"io/fs"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"

	"github.com/jeranaias/webterm/internal/vfs"
)

// Request commands.
const (
	CmdRead = "read"
	CmdInit = "init"
)

// Request asks the worker for a snapshot or for demo content. Type and Size
// describe the filesystem the caller believes it is talking to.
type Request struct {
	Cmd  string
	Type vfs.Type
	Size int64
}

// Response carries either a tree or a status message.
type Response struct {
	Entries *Node
	Msg     string
}

// Node is one entry of a tree snapshot.
type Node struct {
	Name     string
	Path     string
	IsDir    bool
	Size     int64
	Children []*Node
}

// Count returns the number of nodes below n, excluding n itself.
func (n *Node) Count() int {
	if n == nil {
		return 0
	}
	total := 0
	for _, c := range n.Children {
		total += 1 + c.Count()
	}
	return total
}

// Find returns the node at p, or nil.
func (n *Node) Find(p string) *Node {
	if n == nil {
		return nil
	}
	if n.Path == p {
		return n
	}
	for _, c := range n.Children {
		if c.Path == p || (c.IsDir && strings.HasPrefix(p, c.Path+"/")) {
			return c.Find(p)
		}
	}
	return nil
}

// Walk snapshots the tree rooted at "/" of fsys. Children are sorted with
// directories first, then by name.
func Walk(fsys afero.Fs) (*Node, error) {
	root := &Node{Name: "/", Path: "/", IsDir: true}
	nodes := map[string]*Node{"/": root}

	err := afero.Walk(fsys, "/", func(p string, info fs.FileInfo, err error) error {
		if err != nil {
			// Removed by a command while the walk was under way.
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		p = path.Clean("/" + strings.TrimPrefix(filepath.ToSlash(p), "/"))
		if p == "/" {
			return nil
		}
		parent := nodes[path.Dir(p)]
		if parent == nil {
			// afero.Walk is lexical, so a missing parent was skipped.
			return nil
		}
		n := &Node{Name: info.Name(), Path: p, IsDir: info.IsDir()}
		if !n.IsDir {
			n.Size = info.Size()
		}
		parent.Children = append(parent.Children, n)
		if n.IsDir {
			nodes[p] = n
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sortTree(root)
	return root, nil
}

func sortTree(n *Node) {
	sort.Slice(n.Children, func(i, j int) bool {
		a, b := n.Children[i], n.Children[j]
		if a.IsDir != b.IsDir {
			return a.IsDir
		}
		return a.Name < b.Name
	})
	for _, c := range n.Children {
		if c.IsDir {
			sortTree(c)
		}
	}
}
