// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2025 The pynn authors.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

// Package pynn reads and writes the legacy PyNN recording formats: the
// NumpyBinaryFile archive (.npz) and the StandardTextFile text format
// (.v, .ras, .gsyn). Both encode a segment of analog signals or spike
// trains as a flat (value, channel-index) table plus key/value metadata.
package pynn

import (
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// Driver encodes and decodes the flat (data, metadata) pair for one on-disk
// format. Implementations read and write whole files in a single call; file
// handles never outlive the call, even on error.
type Driver interface {
	// Read loads the data table and the metadata mapping from the file.
	Read(filename string) ([][2]float64, Metadata, error)
	// Write persists the data table and the metadata mapping to the file.
	Write(filename string, data [][2]float64, md Metadata) error
	// Extensions lists the file extensions conventionally used by the
	// format, without the leading dot.
	Extensions() []string
}

// drivers holds the known formats, in selection order.
var drivers = []Driver{&NumpyDriver{}, &TextDriver{}}

// DriverForPath selects the format driver matching a filename's extension.
func DriverForPath(path string) (Driver, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	for _, d := range drivers {
		for _, e := range d.Extensions() {
			if e == ext {
				return d, nil
			}
		}
	}
	return nil, errors.Errorf("no format driver for extension %q", ext)
}

// IO reads and writes one PyNN-format file. Every call opens and closes the
// file itself, so an IO holds no state between calls and is safe to use
// repeatedly.
type IO struct {
	filename string
	driver   Driver
	resolver *UnitResolver
	log      L
}

// Option configures an IO.
type Option func(*IO)

// WithLogger directs warnings and diagnostics to l.
func WithLogger(l L) Option {
	return func(f *IO) { f.log = Must(l) }
}

// WithUnits replaces the well-known variable-to-unit table used for unit
// resolution.
func WithUnits(table map[string]Unit) Option {
	return func(f *IO) { f.resolver = NewUnitResolver(table) }
}

func newIO(filename string, driver Driver, opts []Option) *IO {
	f := &IO{
		filename: filename,
		driver:   driver,
		resolver: NewUnitResolver(nil),
		log:      Nop,
	}
	for _, opt := range opts {
		opt(f)
	}
	f.log.Warnf("the PyNN NumpyBinaryFile and StandardTextFile formats are deprecated")
	return f
}

// NewNumpyIO returns an IO for the NumpyBinaryFile (.npz) format.
func NewNumpyIO(filename string, opts ...Option) *IO {
	return newIO(filename, &NumpyDriver{}, opts)
}

// NewTextIO returns an IO for the StandardTextFile (.v, .ras, .gsyn) format.
func NewTextIO(filename string, opts ...Option) *IO {
	return newIO(filename, &TextDriver{}, opts)
}

// Open returns an IO whose format is selected by the filename's extension.
func Open(filename string, opts ...Option) (*IO, error) {
	driver, err := DriverForPath(filename)
	if err != nil {
		return nil, err
	}
	return newIO(filename, driver, opts), nil
}

// Filename returns the path the IO reads from and writes to.
func (f *IO) Filename() string {
	return f.filename
}

type readOptions struct {
	lazy bool
}

// ReadOption configures a single read call.
type ReadOption func(*readOptions)

// Lazy requests a partial, on-demand read. Neither format supports it; any
// read with this option fails with ErrUnsupportedMode.
func Lazy() ReadOption {
	return func(o *readOptions) { o.lazy = true }
}

func applyReadOptions(opts []ReadOption) error {
	var o readOptions
	for _, opt := range opts {
		opt(&o)
	}
	if o.lazy {
		return errors.WithStack(ErrUnsupportedMode)
	}
	return nil
}
