package imap

// ParseResult is the outcome of one call to Parse (§3 "ParseResult").
// Exactly one of Command or Error is non-empty; Tag is populated
// whenever the tag production matched, independent of whether the rest
// of the command parsed successfully.
type ParseResult struct {
	Tag     string
	Command []byte
	Error   string
}

// Parser holds the reusable state behind one parsing session. A value
// is safe to use for many calls to Parse; each call is independent and
// Parser carries no state across calls other than its ParserLimits —
// the reusable-handle shape mirrors
// the new/free lifecycle of the C ABI in §6 without requiring an
// explicit free in Go.
type Parser struct {
	Limits ParserLimits
}

// ParserLimits holds the resource guards the grammar's normalization
// rules enforce (§4.1, §7): the ID parameter cap and the maximum
// serialized command size. Both default to the spec's documented
// values; a session layer with different resource constraints may
// override them.
type ParserLimits struct {
	MaxIDParams int
	MaxCommandSize int
}

// DefaultParserLimits are the limits a zero-value Parser uses.
var DefaultParserLimits = ParserLimits{
	MaxIDParams:    MaxIDParams,
	MaxCommandSize: maxCommandSize,
}

// New creates a Parser with the default limits.
func New() *Parser {
	return &Parser{Limits: DefaultParserLimits}
}

// Parse turns one complete client command line into a ParseResult.
// input must already have any "{N}" literals substituted by the caller
// per the literal protocol; delimiter is the mailbox-hierarchy
// delimiter character used for INBOX-prefix detection (§4.1).
func (p *Parser) Parse(input []byte, delimiter byte) ParseResult {
	if p.Limits.MaxIDParams == 0 && p.Limits.MaxCommandSize == 0 {
		p.Limits = DefaultParserLimits
	}
	g := newGrammar(input, delimiter, p.Limits)
	tag, cmd := g.parseCommandLine()
	if g.errs.Did() {
		return ParseResult{Tag: tag, Error: g.errs.Message()}
	}
	if cmd == nil {
		return ParseResult{Tag: tag, Error: "imap: empty command"}
	}
	maxSize := p.Limits.MaxCommandSize
	if maxSize <= 0 {
		maxSize = maxCommandSize
	}
	data, err := EncodeCommand(cmd, maxSize)
	if err != nil {
		return ParseResult{Tag: tag, Error: err.Error()}
	}
	return ParseResult{Tag: tag, Command: data}
}

// Parse is a package-level convenience wrapping New().Parse, for callers
// that don't need to share limits across calls.
func Parse(input []byte, delimiter byte) ParseResult {
	return New().Parse(input, delimiter)
}
