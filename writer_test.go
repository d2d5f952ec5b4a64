// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2025 The pynn authors.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package pynn_test

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/neurofile/pynn"
	"github.com/stretchr/testify/require"
)

// recordingLogger captures warnings for inspection.
type recordingLogger struct {
	warnings []string
}

func (l *recordingLogger) Errorf(format string, args ...any) {}
func (l *recordingLogger) Warnf(format string, args ...any) {
	l.warnings = append(l.warnings, fmt.Sprintf(format, args...))
}
func (l *recordingLogger) Infof(format string, args ...any)  {}
func (l *recordingLogger) Debugf(format string, args ...any) {}

func TestWriteSegmentEmpty(t *testing.T) {
	formats(t, func(t *testing.T, path string) {
		f, err := pynn.Open(path)
		require.NoError(t, err)

		err = f.WriteSegment(&pynn.Segment{})
		require.ErrorIs(t, err, pynn.ErrEmptySegment)

		// Rejection happens before any output state is touched.
		_, err = os.Stat(path)
		require.True(t, os.IsNotExist(err))
	})
}

func TestWriteSegmentMultipleAnalogSignals(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.npz")
	logger := &recordingLogger{}
	f := pynn.NewNumpyIO(path, pynn.WithLogger(logger))

	seg := analogSegment()
	second := &pynn.AnalogSignal{
		Channels:       [][]float64{{100, 200}},
		Units:          pynn.Millivolt,
		SamplingPeriod: time.Millisecond,
	}
	seg.AnalogSignals = append(seg.AnalogSignals, second)
	require.NoError(t, f.WriteSegment(seg))

	var warned bool
	for _, w := range logger.warnings {
		if strings.Contains(w, "writing only the first") {
			warned = true
		}
	}
	require.True(t, warned, "expected a dropped-signal warning, got %q", logger.warnings)

	// Only the first signal's channels survive.
	got, err := f.ReadSegment()
	require.NoError(t, err)
	require.Len(t, got.AnalogSignals, 1)
	require.Equal(t, 3, got.AnalogSignals[0].ChannelCount())
}

func TestDeprecationWarning(t *testing.T) {
	logger := &recordingLogger{}
	pynn.NewTextIO(filepath.Join(t.TempDir(), "test.v"), pynn.WithLogger(logger))

	require.NotEmpty(t, logger.warnings)
	require.Contains(t, logger.warnings[0], "deprecated")
}

func TestWriteSpikesWithoutDT(t *testing.T) {
	f := pynn.NewTextIO(filepath.Join(t.TempDir(), "test.ras"))

	seg := spikeSegment()
	delete(seg.Annotations, "dt")
	err := f.WriteSegment(seg)
	require.Error(t, err)
	require.Contains(t, err.Error(), "dt")
}

func TestWriteSegmentUnknownVariable(t *testing.T) {
	formats(t, func(t *testing.T, path string) {
		seg := analogSegment()
		delete(seg.Annotations, "variable")

		f, err := pynn.Open(path)
		require.NoError(t, err)
		require.NoError(t, f.WriteSegment(seg))

		// Without a well-known variable the first channel's unit is kept
		// as-is and the variable is recorded as unknown.
		got, err := f.ReadSegment()
		require.NoError(t, err)
		require.Equal(t, "unknown", got.Annotations["variable"])
		require.Len(t, got.AnalogSignals, 1)
		require.Equal(t, pynn.Millivolt, got.AnalogSignals[0].Units)
	})
}

func TestWriteSegmentDefaultLabel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.v")
	seg := analogSegment()
	delete(seg.Annotations, "label")

	f := pynn.NewTextIO(path)
	require.NoError(t, f.WriteSegment(seg))

	got, err := f.ReadSegment()
	require.NoError(t, err)
	require.Equal(t, "unknown", got.Annotations["label"])
}

func TestTextMetadataOrdering(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.v")
	require.NoError(t, pynn.NewTextIO(path).WriteSegment(analogSegment()))

	contents, err := os.ReadFile(path)
	require.NoError(t, err)

	var keys []string
	for _, line := range strings.Split(string(contents), "\n") {
		if !strings.HasPrefix(line, "#") {
			break
		}
		name, _, ok := strings.Cut(line[1:], "=")
		require.True(t, ok, "line %q", line)
		keys = append(keys, strings.TrimSpace(name))
	}
	require.Equal(t, []string{"dt", "first_index", "label", "last_index", "n", "size", "units", "variable"}, keys)
	require.True(t, sort.StringsAreSorted(keys))
}

func TestTextRowFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.v")
	require.NoError(t, pynn.NewTextIO(path).WriteSegment(analogSegment()))

	contents, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(string(contents), "\n"), "\n")
	// 8 metadata lines, then 12 rows of two columns.
	require.Len(t, lines, 20)
	require.Equal(t, "1.000000000000000000e+00 0.000000000000000000e+00", lines[8])
}

func TestWriteSegmentDTFromSamplingPeriod(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.v")
	require.NoError(t, pynn.NewTextIO(path).WriteSegment(analogSegment()))

	contents, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(contents), "# dt = 0.1\n")
}

func TestWriteSegmentAnnotationsRoundTrip(t *testing.T) {
	formats(t, func(t *testing.T, path string) {
		seg := analogSegment()
		seg.Annotations["first_id"] = 0
		seg.Annotations["last_id"] = 2

		f, err := pynn.Open(path)
		require.NoError(t, err)
		require.NoError(t, f.WriteSegment(seg))

		got, err := f.ReadSegment()
		require.NoError(t, err)
		require.Equal(t, 0, got.Annotations["first_id"])
		require.Equal(t, 2, got.Annotations["last_id"])
	})
}
