// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
)

// SystemOpener opens files with the desktop's default application.
type SystemOpener struct{}

// Open starts the platform opener for target without waiting for it.
func (SystemOpener) Open(_ context.Context, target string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "windows":
		// Quoted empty string is the window title; the path must come last.
		cmd = exec.Command("cmd", "/c", "start", `""`, target)
	case "darwin":
		cmd = exec.Command("open", target)
	case "linux", "freebsd", "openbsd", "netbsd":
		cmd = exec.Command("xdg-open", target)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	return cmd.Start()
}
