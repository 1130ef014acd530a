// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import "time"

// =============================================================================
// SPINNER ANIMATIONS
// =============================================================================

// SpinnerConfig holds the configuration for a spinner animation.
type SpinnerConfig struct {
	Frames []string
	FPS    int
}

// Duration returns the duration for each frame.
func (s SpinnerConfig) Duration() time.Duration {
	if s.FPS <= 0 {
		return time.Second
	}
	return time.Second / time.Duration(s.FPS)
}

// Frame returns the frame for tick n.
func (s SpinnerConfig) Frame(n int) string {
	if len(s.Frames) == 0 {
		return ""
	}
	if n < 0 {
		n = -n
	}
	return s.Frames[n%len(s.Frames)]
}

// LineSpinner is shown in the status bar while commands are running.
var LineSpinner = SpinnerConfig{
	Frames: []string{"|", "/", "-", "\\"},
	FPS:    10,
}

// =============================================================================
// SCREEN EFFECTS
// =============================================================================

// FlickerInterval is the frame time of the screen flicker effect.
const FlickerInterval = 120 * time.Millisecond

// FlickerPattern marks the dim frames of one flicker cycle.
var FlickerPattern = []bool{false, false, true, false, false, false, true, true, false, false, false, false}

// FlickerDim reports whether frame n of the flicker cycle is dim.
func FlickerDim(n int) bool {
	if n < 0 {
		n = -n
	}
	return FlickerPattern[n%len(FlickerPattern)]
}

// MagicWordInterval is the delay between magic word lines.
const MagicWordInterval = 100 * time.Millisecond

// CursorBlinkRate is the prompt cursor blink period.
var CursorBlinkRate = 530 * time.Millisecond
