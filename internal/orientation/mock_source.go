// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package orientation

import (
	"math"
	"time"
)

type mockSource struct {
	start time.Time
}

// NewMockSource creates a mock tilt source that generates smooth
// changing values, for running the pipeline without hardware.
func NewMockSource() Source {
	return &mockSource{start: time.Now()}
}

func (m *mockSource) Next() (Tilt, error) {
	elapsed := time.Since(m.start).Seconds()

	return Tilt{
		Roll:  float32(0.35 * math.Sin(elapsed)),
		Pitch: float32(0.25 * math.Cos(elapsed*0.7)),
	}, nil
}
