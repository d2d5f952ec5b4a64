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

// Error kinds surfaced by the package API. Failures are wrapped with context
// but keep one of these as their cause, so callers can classify them with
// errors.Is.
var (
	// ErrUnitResolution means the physical units could not be determined
	// from a file's metadata.
	ErrUnitResolution = errors.New("cannot determine units")

	// ErrFormatMismatch means the caller asked for one kind of recording
	// (analog or spikes) but the file contains the other.
	ErrFormatMismatch = errors.New("file contains a different kind of recording")

	// ErrNotFound means the requested signal or channel is not present in
	// the decoded data.
	ErrNotFound = errors.New("not present in file")

	// ErrEmptySegment means a segment with neither analog signals nor spike
	// trains was given to WriteSegment.
	ErrEmptySegment = errors.New("segment contains neither analog signals nor spike trains")

	// ErrUnsupportedMode means a partial (lazy) read was requested; the
	// legacy formats cannot be read incrementally.
	ErrUnsupportedMode = errors.New("lazy loading is not supported")

	// ErrMetadataParse means a metadata value's textual form could not be
	// safely decoded.
	ErrMetadataParse = errors.New("cannot decode metadata value")
)
