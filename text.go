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
	"bufio"
	"bytes"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// TextDriver reads and writes the PyNN StandardTextFile format: "# key =
// value" metadata lines sorted by key, followed by whitespace-delimited
// numeric rows.
type TextDriver struct{}

// Extensions implements Driver.
func (*TextDriver) Extensions() []string {
	return []string{"v", "ras", "gsyn"}
}

// Write implements Driver. The file is built in memory first and committed
// with a single write, so a failure never leaves a truncated file.
func (*TextDriver) Write(filename string, data [][2]float64, md Metadata) error {
	var buf bytes.Buffer
	for _, k := range sortedKeys(md) {
		fmt.Fprintf(&buf, "# %s = %s\n", k, formatValue(md[k]))
	}
	// Rows use numpy.savetxt's default format for interoperability with the
	// legacy tool.
	for _, row := range data {
		fmt.Fprintf(&buf, "%.18e %.18e\n", row[0], row[1])
	}
	return os.WriteFile(filename, buf.Bytes(), 0o644)
}

// Read implements Driver. Leading "#" lines form the metadata block, which
// ends at the first line not starting with "#"; later "#" lines are treated
// as comments and skipped.
func (*TextDriver) Read(filename string) ([][2]float64, Metadata, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "could not open %s", filename)
	}
	defer f.Close()

	md := Metadata{}
	var data [][2]float64
	inHeader := true

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := sc.Text()
		if strings.HasPrefix(line, "#") {
			if !inHeader {
				continue
			}
			name, value, ok := strings.Cut(line[1:], "=")
			if !ok {
				return nil, nil, errors.Wrapf(ErrMetadataParse, "malformed metadata line %q", line)
			}
			md[strings.TrimSpace(name)] = parseLiteral(value)
			continue
		}
		inHeader = false
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 2 {
			return nil, nil, errors.Errorf("data row %d has %d columns, want 2", len(data), len(fields))
		}
		var row [2]float64
		for i, field := range fields {
			if row[i], err = strconv.ParseFloat(field, 64); err != nil {
				return nil, nil, errors.Wrapf(err, "data row %d", len(data))
			}
		}
		data = append(data, row)
	}
	if err := sc.Err(); err != nil {
		return nil, nil, errors.Wrapf(err, "could not read %s", filename)
	}
	return data, md, nil
}
