// Package gram holds the scanning and error-collection plumbing shared by
// the wire-grammar parsers. The IMAP command grammar and the rfc5322
// address-list grammar build on Scanner and report the first grammar
// violation they hit through a FirstError. The rfc5322 date-time parser
// uses Scanner but returns its first error directly, and the rfc2047
// decoder uses neither.
package gram

import "fmt"

// FirstError records the first syntax error a parser encounters and
// discards everything after it, mirroring the ANTLR error-listener
// pattern the original parser runtime used: one diagnostic string per
// parse, polled after the fact instead of delivered through a callback.
type FirstError struct {
	msg string
	set bool
}

// Report records msg if this is the first error seen this parse.
// Subsequent calls are no-ops.
func (e *FirstError) Report(msg string) {
	if e.set {
		return
	}
	e.msg = msg
	e.set = true
}

// Reportf is the formatted form of Report.
func (e *FirstError) Reportf(format string, args ...any) {
	if e.set {
		return
	}
	e.Report(fmt.Sprintf(format, args...))
}

// Did returns true if any error was recorded.
func (e *FirstError) Did() bool {
	return e.set
}

// Message returns the recorded diagnostic, or "" if none was recorded.
func (e *FirstError) Message() string {
	return e.msg
}
