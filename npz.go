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
	"archive/zip"
	"bytes"
	"os"

	"github.com/pkg/errors"
)

// NumpyDriver reads and writes the PyNN NumpyBinaryFile format: a NumPy
// .npz archive containing a "data" table and a "metadata" string array.
type NumpyDriver struct{}

// Extensions implements Driver.
func (*NumpyDriver) Extensions() []string {
	return []string{"npz"}
}

// Write implements Driver. The whole archive is assembled in memory and
// committed with a single write, so a failure never leaves a partial file.
func (*NumpyDriver) Write(filename string, data [][2]float64, md Metadata) error {
	pairs := make([][2]string, 0, len(md))
	for _, k := range sortedKeys(md) {
		pairs = append(pairs, [2]string{k, formatValue(md[k])})
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	entry, err := zw.Create("data.npy")
	if err != nil {
		return errors.Wrap(err, "could not create data entry")
	}
	if err := writeFloat64NPY(entry, data); err != nil {
		return errors.Wrap(err, "could not encode data entry")
	}
	entry, err = zw.Create("metadata.npy")
	if err != nil {
		return errors.Wrap(err, "could not create metadata entry")
	}
	if err := writeStringNPY(entry, pairs); err != nil {
		return errors.Wrap(err, "could not encode metadata entry")
	}
	if err := zw.Close(); err != nil {
		return errors.Wrap(err, "could not finalize archive")
	}
	return os.WriteFile(filename, buf.Bytes(), 0o644)
}

// Read implements Driver.
func (*NumpyDriver) Read(filename string) ([][2]float64, Metadata, error) {
	zr, err := zip.OpenReader(filename)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "could not open archive %s", filename)
	}
	defer zr.Close()

	var data [][2]float64
	if err := readEntry(&zr.Reader, "data.npy", func(f *zip.File) error {
		r, err := f.Open()
		if err != nil {
			return err
		}
		defer r.Close()
		data, err = readFloat64NPY(r)
		return err
	}); err != nil {
		return nil, nil, err
	}

	md := Metadata{}
	if err := readEntry(&zr.Reader, "metadata.npy", func(f *zip.File) error {
		r, err := f.Open()
		if err != nil {
			return err
		}
		defer r.Close()
		pairs, err := readStringNPY(r)
		if err != nil {
			return err
		}
		for _, pair := range pairs {
			md[pair[0]] = parseLiteral(pair[1])
		}
		return nil
	}); err != nil {
		return nil, nil, err
	}

	return data, md, nil
}

// readEntry locates the named archive entry and hands it to fn.
func readEntry(zr *zip.Reader, name string, fn func(*zip.File) error) error {
	for _, f := range zr.File {
		if f.Name == name {
			return errors.Wrapf(fn(f), "entry %q", name)
		}
	}
	return errors.Errorf("archive has no %q entry", name)
}
