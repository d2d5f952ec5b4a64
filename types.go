// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2025 The pynn authors.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package pynn

import "time"

// Annotations carries arbitrary key/value metadata attached to a recording
// container (label, channel range, recording-run identifiers and so on).
type Annotations map[string]any

// Segment groups the analog signals and/or spike trains recorded in one
// session. Files handled by this package contain exactly one kind of data,
// so at most one of AnalogSignals and SpikeTrains is non-empty.
type Segment struct {
	AnalogSignals []*AnalogSignal
	SpikeTrains   []*SpikeTrain
	Annotations   Annotations
}

// AnalogSignal is a multi-channel sampled waveform.
type AnalogSignal struct {
	Channels       [][]float64   // Channels[i] holds the successive samples of channel i
	Units          Unit          // Physical unit of the samples
	SamplingPeriod time.Duration // Time between successive samples
	Annotations    Annotations
}

// ChannelCount returns the number of channels in the signal.
func (s *AnalogSignal) ChannelCount() int {
	return len(s.Channels)
}

// Len returns the number of samples per channel, 0 for an empty signal.
func (s *AnalogSignal) Len() int {
	if len(s.Channels) == 0 {
		return 0
	}
	return len(s.Channels[0])
}

// SpikeTrain is an ordered sequence of event times for one channel.
type SpikeTrain struct {
	Times       []float64 // Event times, expressed in Units
	Units       Unit      // Physical unit of the event times
	TStop       float64   // Upper time bound, expressed in Units
	Annotations Annotations
}
