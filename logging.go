// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2025 The pynn authors.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package pynn

// L accepts logging data.
//
// L is designed to automatically conform to zap's zap.SugaredLogger, but is
// generic enough that any logger should be able to match it. Warnings
// (deprecated format, dropped extra signals) are reported through it and
// never interrupt the operation in progress.
type L interface {
	// Errorf emits an error-level log.
	Errorf(format string, args ...any)
	// Warnf emits a warning-level log.
	Warnf(format string, args ...any)
	// Infof emits an info-level log.
	Infof(format string, args ...any)
	// Debugf emits a debug-level log.
	Debugf(format string, args ...any)
}

// Nop is an L instance that does nothing.
var Nop L = nopLogger{}

// Must ensures that a valid L is available. If l is not nil, it will be
// returned; otherwise, Must will return Nop.
func Must(l L) L {
	if l != nil {
		return l
	}
	return Nop
}

type nopLogger struct{}

func (nopLogger) Errorf(format string, args ...any) {}
func (nopLogger) Warnf(format string, args ...any)  {}
func (nopLogger) Infof(format string, args ...any)  {}
func (nopLogger) Debugf(format string, args ...any) {}
