// Package perf measures frame timing and produces a smoothed FPS estimate.
package perf

import "math"

// WindowSize is the number of frames in the rolling average window.
// At 60 FPS the window spans half a second, so the estimate converges
// within the 0.5-1s budget after a sustained rate change while a single
// stall only contributes 1/WindowSize of its weight.
const WindowSize = 30

// minFrameMs guards against zero or negative durations.
const minFrameMs = 0.001

// Metrics is a read-only snapshot of the sampler state. Presentation
// layers read it; nothing outside the sampler writes it.
type Metrics struct {
	SmoothedFPS float64
	FrameMs     float64 // last recorded frame duration
	Frames      uint64  // total frames recorded since the last reset
}

// Sampler maintains a rolling window of frame durations. It is created
// once at startup and updated every frame.
type Sampler struct {
	window [WindowSize]float64
	filled int
	next   int
	sumMs  float64

	lastMs   float64
	smoothed float64
	frames   uint64
}

// NewSampler creates an empty sampler.
func NewSampler() *Sampler {
	return &Sampler{}
}

// RecordFrame records one frame duration in milliseconds and returns the
// updated smoothed FPS. NaN, zero, and negative durations are clamped.
func (s *Sampler) RecordFrame(durationMs float64) float64 {
	if math.IsNaN(durationMs) || durationMs < minFrameMs {
		durationMs = minFrameMs
	}

	if s.filled == WindowSize {
		s.sumMs -= s.window[s.next]
	} else {
		s.filled++
	}
	s.window[s.next] = durationMs
	s.sumMs += durationMs
	s.next = (s.next + 1) % WindowSize

	s.lastMs = durationMs
	s.frames++
	s.smoothed = 1000.0 * float64(s.filled) / s.sumMs
	return s.smoothed
}

// SmoothedFPS returns the current windowed-average FPS.
func (s *Sampler) SmoothedFPS() float64 {
	return s.smoothed
}

// LastFrameMs returns the most recently recorded frame duration.
func (s *Sampler) LastFrameMs() float64 {
	return s.lastMs
}

// Snapshot returns the current metrics value.
func (s *Sampler) Snapshot() Metrics {
	return Metrics{
		SmoothedFPS: s.smoothed,
		FrameMs:     s.lastMs,
		Frames:      s.frames,
	}
}

// Reset clears the window. Used when the surrounding application reloads
// scene content and starts a fresh session.
func (s *Sampler) Reset() {
	*s = Sampler{}
}
