// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package canvas holds the shared inking board of a session and the
// per-participant viewport that zooms and pans over it.
//
// Strokes live in the LIVE-CANVAS container and are shared by everyone.
// Tool, scale and offset belong to each participant's Surface. The
// Viewport applies pointer and toolbar input:
//
//   - middle-button drag pans by the pointer delta
//   - ctrl/meta + wheel zooms by 0.1, never below 0.1
//   - zoom in/out buttons step by 0.1; zoom out stops at 0.1
//   - reset restores scale 1 and offset (0, 0)
package canvas
