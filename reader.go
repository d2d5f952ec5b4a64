// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2025 The pynn authors.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package pynn

import (
	"time"

	"github.com/pkg/errors"
)

// ReadSegment reconstructs a Segment from the file. Spike files yield one
// SpikeTrain per channel that has at least one event; continuous files yield
// a single multi-channel AnalogSignal.
func (f *IO) ReadSegment(opts ...ReadOption) (*Segment, error) {
	if err := applyReadOptions(opts); err != nil {
		return nil, err
	}
	data, md, err := f.driver.Read(f.filename)
	if err != nil {
		return nil, err
	}

	seg := &Segment{Annotations: Annotations{}}
	for _, key := range []string{KeyLabel, KeyVariable, KeyFirstID, KeyLastID} {
		if v, ok := md[key]; ok {
			seg.Annotations[key] = v
		} else {
			seg.Annotations[key] = "unknown"
		}
	}

	if md.text(KeyVariable) == VariableSpikes {
		first, last, err := channelBounds(md)
		if err != nil {
			return nil, err
		}
		for i := first; i <= last; i++ {
			if st := extractSpikes(data, md, i); st != nil {
				seg.SpikeTrains = append(seg.SpikeTrains, st)
			}
		}
		// Continuous signals carry their own sampling period; spike trains
		// do not, so the segment keeps dt for them.
		seg.Annotations[KeyDT] = md[KeyDT]
		return seg, nil
	}

	signal, err := f.extractSignal(data, md)
	if err != nil {
		return nil, err
	}
	if signal != nil {
		seg.AnalogSignals = append(seg.AnalogSignals, signal)
	}
	return seg, nil
}

// ReadAnalogSignal reads the file's multi-channel analog signal. It fails
// with ErrFormatMismatch when the file holds spike data and with ErrNotFound
// when no samples are present.
func (f *IO) ReadAnalogSignal(opts ...ReadOption) (*AnalogSignal, error) {
	if err := applyReadOptions(opts); err != nil {
		return nil, err
	}
	data, md, err := f.driver.Read(f.filename)
	if err != nil {
		return nil, err
	}
	if md.text(KeyVariable) == VariableSpikes {
		return nil, errors.Wrap(ErrFormatMismatch, "file contains spike data, not analog signals")
	}
	signal, err := f.extractSignal(data, md)
	if err != nil {
		return nil, err
	}
	if signal == nil {
		return nil, errors.Wrap(ErrNotFound, "file does not contain a signal")
	}
	return signal, nil
}

// ReadSpikeTrain reads the spike train for one channel. It fails with
// ErrFormatMismatch when the file holds continuous data and with ErrNotFound
// when the channel has no spikes.
func (f *IO) ReadSpikeTrain(channelIndex int, opts ...ReadOption) (*SpikeTrain, error) {
	if err := applyReadOptions(opts); err != nil {
		return nil, err
	}
	data, md, err := f.driver.Read(f.filename)
	if err != nil {
		return nil, err
	}
	if md.text(KeyVariable) != VariableSpikes {
		return nil, errors.Wrap(ErrFormatMismatch, "file contains analog signals, not spike data")
	}
	st := extractSpikes(data, md, channelIndex)
	if st == nil {
		return nil, errors.Wrapf(ErrNotFound, "no spikes with channel index %d", channelIndex)
	}
	return st, nil
}

// channelBounds returns the inclusive channel-index range of the file.
func channelBounds(md Metadata) (first, last int, err error) {
	if first, err = md.Int(KeyFirstIndex); err != nil {
		return 0, 0, err
	}
	if last, err = md.Int(KeyLastIndex); err != nil {
		return 0, 0, err
	}
	if first > last {
		return 0, 0, errors.Wrapf(ErrMetadataParse, "first_index %d exceeds last_index %d", first, last)
	}
	return first, last, nil
}

// extractSignal unpacks every channel in the metadata's index range and
// stacks them into one analog signal. It returns nil when the file contains
// no samples at all.
func (f *IO) extractSignal(data [][2]float64, md Metadata) (*AnalogSignal, error) {
	first, last, err := channelBounds(md)
	if err != nil {
		return nil, err
	}
	dt, err := md.Float(KeyDT)
	if err != nil {
		return nil, err
	}
	units, err := f.resolver.Resolve(md)
	if err != nil {
		return nil, err
	}

	channels := make([][]float64, 0, last-first+1)
	total := 0
	for i := first; i <= last; i++ {
		values := extractChannel(data, i)
		total += len(values)
		channels = append(channels, values)
	}
	if total == 0 {
		return nil, nil
	}
	for i, ch := range channels {
		if len(ch) != len(channels[0]) {
			return nil, errors.Errorf("channel %d has %d samples, want %d", first+i, len(ch), len(channels[0]))
		}
	}

	return &AnalogSignal{
		Channels:       channels,
		Units:          units,
		SamplingPeriod: durationFromMillis(dt),
		Annotations: Annotations{
			KeyLabel:    md[KeyLabel],
			KeyVariable: md[KeyVariable],
		},
	}, nil
}

// extractSpikes unpacks one channel's spike times, or nil when the channel
// has none. Spike times are always expressed in milliseconds.
func extractSpikes(data [][2]float64, md Metadata, channelIndex int) *SpikeTrain {
	times := extractChannel(data, channelIndex)
	if len(times) == 0 {
		return nil
	}
	tstop := times[0]
	for _, t := range times[1:] {
		if t > tstop {
			tstop = t
		}
	}
	return &SpikeTrain{
		Times: times,
		Units: Millisecond,
		TStop: tstop,
		Annotations: Annotations{
			KeyLabel:   md[KeyLabel],
			KeyChannel: channelIndex,
			KeyDT:      md[KeyDT],
		},
	}
}

// durationFromMillis converts a sampling interval in milliseconds to a
// Duration.
func durationFromMillis(ms float64) time.Duration {
	return time.Duration(ms * float64(time.Millisecond))
}

// millisFromDuration converts a Duration to milliseconds.
func millisFromDuration(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
