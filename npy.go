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
	"encoding/binary"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/lunixbochs/struc"
	"github.com/pkg/errors"
)

// Encoding and decoding of NumPy .npy entries, byte-compatible with what
// numpy.save produces for version 1.0 files.

var npyMagic = [6]byte{0x93, 'N', 'U', 'M', 'P', 'Y'}

// npyPreamble is the fixed-size block preceding the header dictionary.
type npyPreamble struct {
	Magic     [6]byte
	Major     uint8
	Minor     uint8
	HeaderLen uint16 `struc:",little"`
}

const npyPreambleSize = 10

// writeNPYHeader writes the preamble and the header dictionary for an array
// of the given dtype and shape. The dictionary is space-padded so the whole
// header block is a multiple of 64 bytes and ends in a newline, as numpy
// writes it.
func writeNPYHeader(w io.Writer, descr string, shape []int) error {
	dims := make([]string, len(shape))
	for i, d := range shape {
		dims[i] = strconv.Itoa(d)
	}
	shapeStr := strings.Join(dims, ", ")
	if len(shape) == 1 {
		shapeStr += ","
	}
	header := fmt.Sprintf("{'descr': '%s', 'fortran_order': False, 'shape': (%s), }", descr, shapeStr)
	if rem := (npyPreambleSize + len(header) + 1) % 64; rem != 0 {
		header += strings.Repeat(" ", 64-rem)
	}
	header += "\n"

	preamble := npyPreamble{Magic: npyMagic, Major: 1, Minor: 0, HeaderLen: uint16(len(header))}
	if err := struc.Pack(w, &preamble); err != nil {
		return errors.Wrap(err, "could not pack npy preamble")
	}
	if _, err := io.WriteString(w, header); err != nil {
		return errors.Wrap(err, "could not write npy header")
	}
	return nil
}

var npyHeaderRe = regexp.MustCompile(`'descr':\s*'([^']+)'\s*,\s*'fortran_order':\s*(True|False)\s*,\s*'shape':\s*\(([^)]*)\)`)

// readNPYHeader parses the preamble and header dictionary, returning the
// array's dtype string and shape.
func readNPYHeader(r io.Reader) (descr string, shape []int, err error) {
	var preamble npyPreamble
	if err := struc.Unpack(r, &preamble); err != nil {
		return "", nil, errors.Wrap(err, "could not unpack npy preamble")
	}
	if preamble.Magic != npyMagic {
		return "", nil, errors.New("not an npy entry")
	}
	if preamble.Major != 1 {
		return "", nil, errors.Errorf("unsupported npy version %d.%d", preamble.Major, preamble.Minor)
	}

	header := make([]byte, preamble.HeaderLen)
	if _, err := io.ReadFull(r, header); err != nil {
		return "", nil, errors.Wrap(err, "could not read npy header")
	}
	m := npyHeaderRe.FindStringSubmatch(string(header))
	if m == nil {
		return "", nil, errors.Errorf("malformed npy header %q", string(header))
	}
	if m[2] == "True" {
		return "", nil, errors.New("fortran-order arrays are not supported")
	}
	for _, tok := range strings.Split(m[3], ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		d, err := strconv.Atoi(tok)
		if err != nil {
			return "", nil, errors.Errorf("malformed npy shape %q", m[3])
		}
		shape = append(shape, d)
	}
	return m[1], shape, nil
}

// writeFloat64NPY writes an n-by-2 table as a little-endian float64 array.
func writeFloat64NPY(w io.Writer, data [][2]float64) error {
	if err := writeNPYHeader(w, "<f8", []int{len(data), 2}); err != nil {
		return err
	}
	for _, row := range data {
		if err := binary.Write(w, binary.LittleEndian, row[:]); err != nil {
			return err
		}
	}
	return nil
}

// readFloat64NPY reads an n-by-2 little-endian float64 array.
func readFloat64NPY(r io.Reader) ([][2]float64, error) {
	descr, shape, err := readNPYHeader(r)
	if err != nil {
		return nil, err
	}
	if descr != "<f8" {
		return nil, errors.Errorf("data entry has dtype %q, want \"<f8\"", descr)
	}
	if len(shape) != 2 || shape[1] != 2 {
		return nil, errors.Errorf("data entry has shape %v, want (n, 2)", shape)
	}
	data := make([][2]float64, shape[0])
	for i := range data {
		if err := binary.Read(r, binary.LittleEndian, data[i][:]); err != nil {
			return nil, errors.Wrap(err, "could not read data rows")
		}
	}
	return data, nil
}

// writeStringNPY writes a k-by-2 array of fixed-width unicode strings. The
// cell width is sized to the longest string present so every character of
// every key and value survives the round trip.
func writeStringNPY(w io.Writer, pairs [][2]string) error {
	width := 1
	for _, pair := range pairs {
		for _, cell := range pair {
			if n := len([]rune(cell)); n > width {
				width = n
			}
		}
	}
	if err := writeNPYHeader(w, fmt.Sprintf("<U%d", width), []int{len(pairs), 2}); err != nil {
		return err
	}
	cell := make([]uint32, width)
	for _, pair := range pairs {
		for _, s := range pair {
			for i := range cell {
				cell[i] = 0
			}
			for i, r := range []rune(s) {
				cell[i] = uint32(r)
			}
			if err := binary.Write(w, binary.LittleEndian, cell); err != nil {
				return err
			}
		}
	}
	return nil
}

var npyStringDescrRe = regexp.MustCompile(`^[<=|]U(\d+)$`)

// readStringNPY reads a k-by-2 fixed-width unicode string array.
func readStringNPY(r io.Reader) ([][2]string, error) {
	descr, shape, err := readNPYHeader(r)
	if err != nil {
		return nil, err
	}
	m := npyStringDescrRe.FindStringSubmatch(descr)
	if m == nil {
		return nil, errors.Errorf("metadata entry has dtype %q, want a unicode string dtype", descr)
	}
	width, err := strconv.Atoi(m[1])
	if err != nil || width <= 0 {
		return nil, errors.Errorf("metadata entry has invalid string width %q", m[1])
	}
	if len(shape) != 2 || shape[1] != 2 {
		return nil, errors.Errorf("metadata entry has shape %v, want (k, 2)", shape)
	}

	cell := make([]uint32, width)
	pairs := make([][2]string, shape[0])
	for i := range pairs {
		for j := 0; j < 2; j++ {
			if err := binary.Read(r, binary.LittleEndian, cell); err != nil {
				return nil, errors.Wrap(err, "could not read metadata strings")
			}
			runes := make([]rune, 0, width)
			for _, c := range cell {
				if c == 0 {
					break
				}
				runes = append(runes, rune(c))
			}
			pairs[i][j] = string(runes)
		}
	}
	return pairs, nil
}
