// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package visualizer

import (
	"context"
	"fmt"
	"path"

	"github.com/jeranaias/webterm/internal/vfs"
)

// DemoDir is the directory Seed populates.
const DemoDir = "demo"

var demoDirs = []string{
	"docs",
	"images",
	"music",
	"src",
}

var demoFiles = []struct {
	path    string
	content string
}{
	{"README.txt", "This folder was created by init.\nTry: cd demo, ls, cat README.txt, 3d\n"},
	{"docs/notes.md", "# Notes\n\n- `help` lists every command\n- `theme cream` changes colors\n"},
	{"src/hello.go", "package main\n\nimport \"fmt\"\n\nfunc main() {\n\tfmt.Println(\"hello from the sandbox\")\n}\n"},
	{"src/config.json", "{\n  \"theme\": \"default\",\n  \"visualizer\": true\n}\n"},
}

// Seed creates demo content under /demo. Existing demo content is left
// untouched.
func Seed(ctx context.Context, fsys *vfs.FileSystem) (string, error) {
	root := fsys.Root()
	if _, err := root.GetDirectory(ctx, DemoDir, vfs.Flags{}); err == nil {
		return fmt.Sprintf("Demo content already exists in /%s", DemoDir), nil
	}

	demo, err := root.GetDirectory(ctx, DemoDir, vfs.Flags{Create: true})
	if err != nil {
		return "", err
	}
	for _, d := range demoDirs {
		if _, err := demo.GetDirectory(ctx, d, vfs.Flags{Create: true}); err != nil {
			return "", err
		}
	}
	for _, f := range demoFiles {
		file, err := demo.GetFile(ctx, f.path, vfs.Flags{Create: true})
		if err != nil {
			return "", err
		}
		if err := file.Write(ctx, []byte(f.content)); err != nil {
			return "", err
		}
	}
	return fmt.Sprintf("Created %d folders and %d files in %s",
		len(demoDirs)+1, len(demoFiles), path.Join("/", DemoDir)), nil
}
