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
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Metadata keys shared by both on-disk formats.
const (
	KeyLabel      = "label"
	KeyVariable   = "variable"
	KeyDT         = "dt"          // sampling interval in milliseconds
	KeyFirstIndex = "first_index" // inclusive lower channel-index bound
	KeyLastIndex  = "last_index"  // inclusive upper channel-index bound
	KeySize       = "size"        // channel count
	KeyN          = "n"           // total row count
	KeyUnits      = "units"
	KeyFirstID    = "first_id"
	KeyLastID     = "last_id"
	KeyChannel    = "channel_index"
)

// VariableSpikes tags a file whose rows are spike times rather than samples.
const VariableSpikes = "spikes"

// Metadata is the key/value side channel describing a file's flat data table.
// Values are ints, floats, bools or strings as produced by parseLiteral.
type Metadata map[string]any

// Int returns the named entry as an integer.
func (m Metadata) Int(key string) (int, error) {
	v, ok := m[key]
	if !ok {
		return 0, errors.Wrapf(ErrMetadataParse, "metadata has no %q entry", key)
	}
	switch v := v.(type) {
	case int:
		return v, nil
	case float64:
		return int(v), nil
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, errors.Wrapf(ErrMetadataParse, "%q is not an integer: %q", key, v)
		}
		return i, nil
	default:
		return 0, errors.Wrapf(ErrMetadataParse, "%q is not an integer: %v", key, v)
	}
}

// Float returns the named entry as a float.
func (m Metadata) Float(key string) (float64, error) {
	v, ok := m[key]
	if !ok {
		return 0, errors.Wrapf(ErrMetadataParse, "metadata has no %q entry", key)
	}
	switch v := v.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, errors.Wrapf(ErrMetadataParse, "%q is not a number: %q", key, v)
		}
		return f, nil
	default:
		return 0, errors.Wrapf(ErrMetadataParse, "%q is not a number: %v", key, v)
	}
}

// text returns the named entry's textual form, or "" when absent.
func (m Metadata) text(key string) string {
	v, ok := m[key]
	if !ok {
		return ""
	}
	return formatValue(v)
}

// sortedKeys returns the metadata keys in lexicographic order, the order in
// which both formats serialize their entries.
func sortedKeys(m Metadata) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// parseLiteral decodes the textual form of a metadata value: integer, float,
// True/False, or a quoted string; anything else is kept as a plain string.
// This is the deliberately tiny grammar that replaces the legacy tool's
// arbitrary-expression evaluation of metadata values.
func parseLiteral(s string) any {
	s = strings.TrimSpace(s)
	if i, err := strconv.Atoi(s); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	switch s {
	case "True":
		return true
	case "False":
		return false
	}
	if len(s) >= 2 && (s[0] == '\'' || s[0] == '"') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}

// formatValue renders a metadata value in the textual form the legacy tool
// writes, so that parseLiteral recovers the same value on read.
func formatValue(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case bool:
		if v {
			return "True"
		}
		return "False"
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'g', -1, 32)
	case Unit:
		return v.Symbol
	default:
		return fmt.Sprint(v)
	}
}
