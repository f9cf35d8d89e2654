package imap

import (
	"github.com/rotisserie/eris"

	"github.com/meszmate/imapgram/wire"
)

// Sentinel semantic errors raised by the visitor layer (§7 of the design:
// these are distinct from grammar/syntax errors, which are reported through
// ParseResult.Error as plain diagnostic strings produced by the parser's
// FirstError listener).
var (
	// ErrInvalidLiteralCount aliases wire.ErrInvalidLiteralCount so
	// callers can eris.Is against one name regardless of which package
	// surfaced the error.
	ErrInvalidLiteralCount = wire.ErrInvalidLiteralCount
	ErrUnknownMonth        = eris.New("imap: unknown month")
	ErrUnknownZone         = eris.New("imap: unknown time zone")
	ErrInvalidPort         = eris.New("imap: invalid port specification")
	ErrTooManyIDParams     = eris.New("imap: too many ID parameters")
	ErrCommandTooLarge     = eris.New("imap: command too large to serialize")
	ErrUnsupportedCharset  = eris.New("imap: invalid or unsupported charset")
	ErrMalformedQEscape    = eris.New("imap: malformed encoded-word escape")
)
