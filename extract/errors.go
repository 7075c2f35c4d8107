package extract

import "fmt"

// UsageError reports a command invocation of the wrong shape.
type UsageError struct {
	Reason string
}

func (e *UsageError) Error() string {
	return "usage: " + e.Reason
}

// UnknownModeError reports an option that names no extraction mode.
type UnknownModeError struct {
	Option string
}

func (e *UnknownModeError) Error() string {
	return "unknown option: " + e.Option
}

// NoMatchError reports a document without a single match for the active mode.
// It ends the run; documents after it are not processed.
type NoMatchError struct {
	Mode     Mode
	Document string
}

func (e *NoMatchError) Error() string {
	return fmt.Sprintf("%s: %s", e.Document, e.Mode.NotFound())
}

// IOError wraps a failure to list, read or write files.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}
