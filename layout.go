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

// Both formats store their data as one flat n-by-2 table: column 0 is the
// sample value or spike time, column 1 the channel index the row belongs to.

// channel is one ordered run of values together with the unit they are
// expressed in.
type channel struct {
	values []float64
	units  Unit
}

// packChannels concatenates the channels into the flat two-column layout,
// rescaling every channel to the target unit first. Column 1 carries each
// channel's 0-based position among the packed channels, not any external
// identifier.
func packChannels(channels []channel, to Unit) ([][2]float64, error) {
	n := 0
	for _, ch := range channels {
		n += len(ch.values)
	}
	data := make([][2]float64, 0, n)
	for i, ch := range channels {
		values, err := ch.units.Rescale(ch.values, to)
		if err != nil {
			return nil, errors.Wrapf(err, "channel %d", i)
		}
		for _, v := range values {
			data = append(data, [2]float64{v, float64(i)})
		}
	}
	return data, nil
}

// extractChannel returns column 0 of the rows whose channel index matches,
// in file order. An empty result is not an error at this layer; callers
// decide whether a missing channel matters.
func extractChannel(data [][2]float64, channelIndex int) []float64 {
	var values []float64
	for _, row := range data {
		if row[1] == float64(channelIndex) {
			values = append(values, row[0])
		}
	}
	return values
}
