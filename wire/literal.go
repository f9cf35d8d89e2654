package wire

import "github.com/rotisserie/eris"

// ErrInvalidLiteralCount is returned when a "{N}" literal header names a
// non-positive byte count.
var ErrInvalidLiteralCount = eris.New("imap: invalid literal count")

// LiteralSource resolves an IMAP literal's byte count to the literal's
// bytes. It is the Go shape of the "skip N tokens" extension point the
// grammar-generator runtime exposed: rather than coupling the lexer to a
// network reader, the lexer hands control back to the caller at the
// point it has parsed "{N}" and needs N more bytes.
//
// Literal is called with buf (the full command-line buffer), offset
// (the position immediately after the literal header's CRLF) and n (the
// declared byte count). It returns the literal's bytes as a string and
// the number of input bytes consumed. If n exceeds the bytes remaining
// in buf past offset, the implementation must consume the remainder and
// return the empty string with no error — the caller recovers with a
// syntax error at the next grammar production, per the literal
// protocol's documented recovery behavior.
type LiteralSource interface {
	Literal(buf []byte, offset int, n int64) (data string, consumed int, err error)
}

// BufferLiterals is the default LiteralSource: it reads the literal's
// bytes directly out of buf, since the surrounding session layer is
// expected to have assembled the complete command line, literals
// inlined, before calling Parse.
type BufferLiterals struct{}

// Literal implements LiteralSource.
func (BufferLiterals) Literal(buf []byte, offset int, n int64) (string, int, error) {
	remaining := int64(len(buf) - offset)
	if n > remaining {
		return "", len(buf) - offset, nil
	}
	return string(buf[offset : offset+int(n)]), int(n), nil
}
