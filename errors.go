package calllog

import (
	"errors"
	"fmt"
)

var (
	// ErrNoInput is returned when no matching input files were found.
	ErrNoInput = errors.New("no matching input files")

	// ErrNoData is returned when none of the located sources hold rows.
	ErrNoData = errors.New("no call data found")

	// ErrOutputLocked is returned when the destination workbook cannot be
	// written, typically because it is open in a spreadsheet program.
	ErrOutputLocked = errors.New("output file is locked; close it and run again")
)

// SheetError reports a failure tied to one sheet of one file.
type SheetError struct {
	File  string
	Sheet string
	Err   error
}

func (e *SheetError) Error() string {
	if e.Sheet == "" {
		return fmt.Sprintf("%s: %v", e.File, e.Err)
	}
	return fmt.Sprintf("%s [%s]: %v", e.File, e.Sheet, e.Err)
}

func (e *SheetError) Unwrap() error {
	return e.Err
}
