// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nutrition

import "fmt"

// A DataLoadError reports that a dataset source could not be loaded.
// A process must not serve requests after a DataLoadError.
type DataLoadError struct {
	Source string

	// Row is the 1-based data row (not counting the header), or
	// 0 if the error is not about a particular row.
	Row int

	// Column is the column at fault, if any.
	Column Column

	Reason string
	Err    error
}

func (e *DataLoadError) Error() string {
	msg := e.Source
	if e.Row > 0 {
		msg += fmt.Sprintf(": row %d", e.Row)
	}
	if e.Column != "" {
		msg += fmt.Sprintf(": column %q", e.Column)
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *DataLoadError) Unwrap() error {
	return e.Err
}

// An InvalidSelectionError reports a Selection that violates its
// invariants. Selections are rejected, never clamped.
type InvalidSelectionError struct {
	Nova   Range
	Reason string
}

func (e *InvalidSelectionError) Error() string {
	return fmt.Sprintf("invalid selection: nova range [%d, %d]: %s", e.Nova.Low, e.Nova.High, e.Reason)
}
