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
	"strings"

	"github.com/pkg/errors"
)

// Dimension identifies the physical quantity a Unit measures.
type Dimension int

const (
	DimNone Dimension = iota // Opaque unit, only rescalable to itself
	DimTime
	DimVoltage
	DimConductance
)

// Unit is a physical unit: a symbol plus its scale relative to the SI base
// unit of its dimension.
type Unit struct {
	Symbol    string
	Dimension Dimension
	Scale     float64
}

var (
	Second      = Unit{"s", DimTime, 1}
	Millisecond = Unit{"ms", DimTime, 1e-3}
	Microsecond = Unit{"us", DimTime, 1e-6}

	Volt      = Unit{"V", DimVoltage, 1}
	Millivolt = Unit{"mV", DimVoltage, 1e-3}
	Microvolt = Unit{"uV", DimVoltage, 1e-6}

	Siemens      = Unit{"S", DimConductance, 1}
	Millisiemens = Unit{"mS", DimConductance, 1e-3}
	Microsiemens = Unit{"uS", DimConductance, 1e-6}
)

// knownUnits indexes the units ParseUnit can resolve by symbol. The legacy
// tool writes "uS" but some of its files carry the micro sign instead.
var knownUnits = map[string]Unit{
	"s":  Second,
	"ms": Millisecond,
	"us": Microsecond,
	"µs": Microsecond,
	"V":  Volt,
	"mV": Millivolt,
	"uV": Microvolt,
	"µV": Microvolt,
	"S":  Siemens,
	"mS": Millisiemens,
	"uS": Microsiemens,
	"µS": Microsiemens,
}

// ParseUnit resolves a unit symbol. An unrecognized symbol yields an opaque
// unit that round-trips unchanged but only rescales to itself.
func ParseUnit(symbol string) Unit {
	symbol = strings.TrimSpace(symbol)
	if u, ok := knownUnits[symbol]; ok {
		return u
	}
	return Unit{Symbol: symbol, Dimension: DimNone, Scale: 1}
}

// Rescale converts values expressed in u into values expressed in to. The
// result is always a fresh slice. Converting between different dimensions,
// or between distinct opaque units, is an error.
func (u Unit) Rescale(values []float64, to Unit) ([]float64, error) {
	out := make([]float64, len(values))
	if u.Symbol == to.Symbol {
		copy(out, values)
		return out, nil
	}
	if u.Dimension == DimNone || to.Dimension == DimNone || u.Dimension != to.Dimension {
		return nil, errors.Errorf("cannot rescale %q to %q", u.Symbol, to.Symbol)
	}
	factor := u.Scale / to.Scale
	for i, v := range values {
		out[i] = v * factor
	}
	return out, nil
}

// DefaultUnits maps the well-known PyNN variable names to their canonical
// units: spike times in milliseconds, membrane voltage in millivolts and
// synaptic conductance in microsiemens.
var DefaultUnits = map[string]Unit{
	VariableSpikes: Millisecond,
	"v":            Millivolt,
	"gsyn":         Microsiemens,
}

// UnitResolver determines the physical unit of a signal from its metadata.
// The variable-to-unit table is per-resolver state so tests can inject their
// own mapping and resolvers never interfere with each other.
type UnitResolver struct {
	units map[string]Unit
}

// NewUnitResolver returns a resolver using the given variable-to-unit table,
// or DefaultUnits when table is nil.
func NewUnitResolver(table map[string]Unit) *UnitResolver {
	if table == nil {
		table = DefaultUnits
	}
	return &UnitResolver{units: table}
}

// Resolve determines the unit for the given metadata. An explicit "units"
// entry always wins; otherwise a well-known "variable" entry supplies the
// canonical unit; otherwise resolution fails with ErrUnitResolution.
func (r *UnitResolver) Resolve(md Metadata) (Unit, error) {
	if v, ok := md[KeyUnits]; ok {
		return ParseUnit(formatValue(v)), nil
	}
	if v, ok := md[KeyVariable]; ok {
		if u, ok := r.units[formatValue(v)]; ok {
			return u, nil
		}
	}
	return Unit{}, errors.WithStack(ErrUnitResolution)
}

// ForVariable looks up the canonical unit for a variable name, reporting
// whether the variable is a well-known kind.
func (r *UnitResolver) ForVariable(variable string) (Unit, bool) {
	u, ok := r.units[variable]
	return u, ok
}
