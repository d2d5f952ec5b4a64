// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2025 The pynn authors.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package pynn

import "github.com/pkg/errors"

// WriteSegment encodes the segment and writes it to the file. Analog signals
// take precedence over spike trains; when the segment carries more than one
// analog signal only the first is written and a warning is logged. The
// segment is never mutated, and nothing is written to disk unless encoding
// succeeds entirely.
func (f *IO) WriteSegment(seg *Segment) error {
	md := Metadata{}
	for k, v := range seg.Annotations {
		md[k] = v
	}

	var channels []channel
	var sourceUnits Unit
	var size, n int
	switch {
	case len(seg.AnalogSignals) > 0:
		if len(seg.AnalogSignals) > 1 {
			f.log.Warnf("cannot handle multiple analog signals; writing only the first")
		}
		s0 := seg.AnalogSignals[0]
		for _, values := range s0.Channels {
			channels = append(channels, channel{values: values, units: s0.Units})
		}
		sourceUnits = s0.Units
		size = s0.ChannelCount()
		n = size * s0.Len()
		if _, ok := md[KeyDT]; !ok {
			md[KeyDT] = millisFromDuration(s0.SamplingPeriod)
		}

	case len(seg.SpikeTrains) > 0:
		for _, st := range seg.SpikeTrains {
			channels = append(channels, channel{values: st.Times, units: st.Units})
			n += len(st.Times)
		}
		sourceUnits = seg.SpikeTrains[0].Units
		size = len(seg.SpikeTrains)
		if _, ok := md[KeyDT]; !ok {
			// Spike trains have no sampling period to derive dt from.
			return errors.Errorf("segment annotations carry no %q entry", KeyDT)
		}

	default:
		return errors.WithStack(ErrEmptySegment)
	}

	if _, ok := md[KeyLabel]; !ok {
		md[KeyLabel] = "unknown"
	}
	md[KeySize] = size
	md[KeyFirstIndex] = 0
	md[KeyLastIndex] = size - 1
	md[KeyN] = n

	// A well-known variable kind forces its canonical unit on every channel;
	// otherwise the first channel's unit is used as-is.
	units := sourceUnits
	if v, ok := md[KeyVariable]; ok {
		if u, known := f.resolver.ForVariable(formatValue(v)); known {
			units = u
		}
	} else {
		md[KeyVariable] = "unknown"
	}
	md[KeyUnits] = units.Symbol

	data, err := packChannels(channels, units)
	if err != nil {
		return err
	}
	return f.driver.Write(f.filename, data, md)
}
