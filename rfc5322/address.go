package rfc5322

import (
	"strings"

	imap "github.com/meszmate/imapgram"
	"github.com/meszmate/imapgram/internal/gram"
	"github.com/meszmate/imapgram/rfc2047"
)

// Address is one parsed mailbox: a display name (possibly empty) and an
// address of the form "local@domain" with an optional ":port" suffix
// (§3 "Address").
type Address struct {
	DisplayName string
	Addr        string
}

// ParseAddressList parses s as an RFC 5322 mailbox-list or address-list
// header value, flattening group membership into the returned order
// (§4.2). On any grammar violation the returned slice is empty and err
// is non-nil. As an extension beyond RFC 5322, an addr-spec may carry a
// trailing ":port" of decimal digits, kept in Address.Addr; a ":" with
// no digits after it fails with imap.ErrInvalidPort.
func ParseAddressList(s string) ([]Address, error) {
	g := &addrGrammar{sc: gram.NewScanner([]byte(s))}
	addrs := g.parseList(0)
	if g.sem != nil {
		return nil, g.sem
	}
	if g.errs.Did() {
		return nil, addrErr(g.errs.Message())
	}
	return addrs, nil
}

type addrErr string

func (e addrErr) Error() string { return string(e) }

type addrGrammar struct {
	sc   *gram.Scanner
	errs gram.FirstError
	sem  error // set instead of a plain addrErr for violations with a named sentinel, e.g. imap.ErrInvalidPort
}

func (g *addrGrammar) fail(msg string) {
	g.errs.Report(msg)
}

// failSentinel reports sem's message through the usual FirstError
// channel and additionally records sem itself, the sentinel
// ParseAddressList returns instead of a plain addrErr so callers can
// eris.Is against it.
func (g *addrGrammar) failSentinel(sem error) {
	g.fail(sem.Error())
	if g.sem == nil {
		g.sem = sem
	}
}

// parseList parses a comma/semicolon-separated run of mailboxes and
// groups, stopping at depth-closing ';' when inside a group (depth > 0)
// or at EOF at the top level.
func (g *addrGrammar) parseList(depth int) []Address {
	var out []Address
	for {
		g.skipCFWS()
		if g.sc.Eof() {
			return out
		}
		if depth > 0 {
			if b, _ := g.sc.Peek(); b == ';' {
				g.sc.Pos++
				return out
			}
		}
		entries, ok := g.parseOneEntry()
		if !ok {
			if g.errs.Did() {
				return nil
			}
			return out
		}
		out = append(out, entries...)
		g.skipCFWS()
		if g.sc.Match(',') {
			continue
		}
		if depth == 0 && g.sc.Match(';') {
			continue
		}
		if depth > 0 {
			if b, _ := g.sc.Peek(); b == ';' {
				g.sc.Pos++
				return out
			}
		}
		if g.sc.Eof() {
			return out
		}
		// Inside a group, the unexpected byte is handed back to the
		// top-level list, which reports it.
		if depth > 0 {
			return out
		}
		g.fail("rfc5322: expected ',' or ';' between addresses")
		return nil
	}
}

// parseOneEntry parses one list element: a bare addr-spec, a
// "display-name <addr-spec>" mailbox, or a "display-name : list ;"
// group (returned flattened, with no Address for the group name
// itself).
func (g *addrGrammar) parseOneEntry() ([]Address, bool) {
	save := g.sc.Pos
	if addr, ok := g.tryBareAddrSpec(); ok {
		return []Address{addr}, true
	}
	g.sc.Pos = save

	words, stop := g.collectPhrase()
	switch stop {
	case ':':
		g.sc.Pos++ // consume ':'
		members := g.parseList(1)
		return members, true
	case '<':
		addr, ok := g.parseAngleAddr()
		if !ok {
			return nil, false
		}
		addr.DisplayName = joinWords(words)
		return []Address{addr}, true
	default:
		g.fail("rfc5322: expected address or group")
		return nil, false
	}
}

// collectPhrase reads display-name words until it hits '<', ':', ',',
// ';', or EOF, and reports which (0 for EOF).
func (g *addrGrammar) collectPhrase() ([]displayWord, byte) {
	var words []displayWord
	for {
		g.skipCFWS()
		b, ok := g.sc.Peek()
		if !ok {
			return words, 0
		}
		switch b {
		case '<', ':', ',', ';':
			return words, b
		case '"':
			text, err := readQuoted(g.sc)
			if err != nil {
				g.fail("rfc5322: unterminated quoted string")
				return words, 0
			}
			words = append(words, displayWord{text: text, spaceBefore: true})
		default:
			if looksLikeEncodedWord(g.sc) {
				raw, ok := consumeEncodedWord(g.sc)
				if !ok {
					g.fail("rfc5322: malformed encoded-word")
					return words, 0
				}
				decoded, err := rfc2047.Decode(raw)
				if err != nil {
					g.fail(err.Error())
					return words, 0
				}
				words = append(words, displayWord{text: decoded, spaceBefore: false, encoded: true})
				continue
			}
			start := g.sc.Pos
			g.sc.TakeWhile(isWordChar)
			if g.sc.Pos == start {
				g.fail("rfc5322: unexpected character in phrase")
				return words, 0
			}
			words = append(words, displayWord{text: string(g.sc.Slice(start)), spaceBefore: true})
		}
	}
}

type displayWord struct {
	text        string
	spaceBefore bool
	encoded     bool
}

// joinWords applies the display-word join rule (§4.2): insert one space
// between consecutive words A,B iff A.spaceBefore && B.spaceBefore.
func joinWords(words []displayWord) string {
	var sb strings.Builder
	for i, w := range words {
		if i > 0 && words[i-1].spaceBefore && w.spaceBefore {
			sb.WriteByte(' ')
		}
		sb.WriteString(w.text)
	}
	return sb.String()
}

// parseAngleAddr parses "<" [addr-spec] ["," CFWS] ">" (the trailing
// comma/whitespace and empty-"<>" tolerances are explicit spec
// allowances, §4.2).
func (g *addrGrammar) parseAngleAddr() (Address, bool) {
	if !g.sc.Match('<') {
		g.fail("rfc5322: expected '<'")
		return Address{}, false
	}
	g.skipCFWS()
	if g.sc.Match('>') {
		return Address{}, true
	}
	addr, ok := g.parseAddrSpec()
	if !ok {
		return Address{}, false
	}
	g.skipCFWS()
	g.sc.Match(',')
	g.skipCFWS()
	if !g.sc.Match('>') {
		g.fail("rfc5322: expected '>'")
		return Address{}, false
	}
	return Address{Addr: addr}, true
}

// tryBareAddrSpec speculatively parses a standalone "local@domain
// [:port]" with no display name and no angle brackets, restoring the
// cursor and reporting no error on failure (ambiguity with the
// phrase-then-angle-addr form is resolved by the caller backtracking).
// An invalid-port error is the exception and is kept: it is only raised
// after "local@domain", which no other entry shape can match.
func (g *addrGrammar) tryBareAddrSpec() (Address, bool) {
	save := g.sc.Pos
	saveErr := g.errs
	saveSem := g.sem
	addr, ok := g.parseAddrSpec()
	if !ok {
		if g.sem != saveSem {
			return Address{}, false
		}
		g.sc.Pos = save
		g.errs = saveErr
		g.sem = saveSem
		return Address{}, false
	}
	g.skipCFWS()
	if b, hasByte := g.sc.Peek(); hasByte && b != ',' && b != ';' {
		g.sc.Pos = save
		g.errs = saveErr
		g.sem = saveSem
		return Address{}, false
	}
	return Address{Addr: addr}, true
}

// parseAddrSpec parses "local-part @ domain [:port]" and reports real
// syntax errors (used once the caller has committed to this shape).
func (g *addrGrammar) parseAddrSpec() (string, bool) {
	local, ok := g.readLocalPart()
	if !ok {
		return "", false
	}
	if local == "" {
		if !g.sc.Match('@') {
			return "", true
		}
		domain, ok := g.readDomain()
		if !ok {
			return "", false
		}
		return g.withPort("@" + domain)
	}
	if !g.sc.Match('@') {
		g.fail("rfc5322: expected '@' in address")
		return "", false
	}
	domain, ok := g.readDomain()
	if !ok {
		return "", false
	}
	return g.withPort(local + "@" + domain)
}

func (g *addrGrammar) withPort(addr string) (string, bool) {
	if !g.sc.Match(':') {
		return addr, true
	}
	start := g.sc.Pos
	g.sc.TakeWhile(gram.IsDigit)
	if g.sc.Pos == start {
		g.failSentinel(imap.ErrInvalidPort)
		return "", false
	}
	return addr + ":" + string(g.sc.Slice(start)), true
}

// readLocalPart reads a dot-atom or obs-local-part ("word (CFWS? "."
// CFWS? word)*"), flattening to single dots between parts.
func (g *addrGrammar) readLocalPart() (string, bool) {
	var parts []string
	for {
		g.skipCFWS()
		b, ok := g.sc.Peek()
		if !ok {
			break
		}
		if b == '"' {
			s, err := readQuoted(g.sc)
			if err != nil {
				g.fail("rfc5322: unterminated quoted string in local-part")
				return "", false
			}
			parts = append(parts, s)
		} else {
			start := g.sc.Pos
			g.sc.TakeWhile(isAtext)
			if g.sc.Pos == start {
				break
			}
			parts = append(parts, string(g.sc.Slice(start)))
		}
		save := g.sc.Pos
		g.skipCFWS()
		if g.sc.Match('.') {
			continue
		}
		g.sc.Pos = save
		break
	}
	return strings.Join(parts, "."), true
}

// readDomain reads a dot-atom domain or a bracketed domain-literal, kept
// verbatim brackets included.
func (g *addrGrammar) readDomain() (string, bool) {
	g.skipCFWS()
	b, ok := g.sc.Peek()
	if !ok {
		g.fail("rfc5322: expected domain")
		return "", false
	}
	if b == '[' {
		start := g.sc.Pos
		g.sc.Pos++
		for {
			c, ok := g.sc.Advance()
			if !ok {
				g.fail("rfc5322: unterminated domain-literal")
				return "", false
			}
			if c == ']' {
				break
			}
		}
		return string(g.sc.Slice(start)), true
	}
	var parts []string
	for {
		start := g.sc.Pos
		g.sc.TakeWhile(isAtext)
		if g.sc.Pos == start {
			break
		}
		parts = append(parts, string(g.sc.Slice(start)))
		if g.sc.Match('.') {
			continue
		}
		break
	}
	if len(parts) == 0 {
		g.fail("rfc5322: expected domain")
		return "", false
	}
	return strings.Join(parts, "."), true
}

// skipCFWS consumes runs of folding whitespace and "(...)" comments.
func (g *addrGrammar) skipCFWS() {
	skipCFWS(g.sc)
}

// isAtext reports whether b may appear in a dot-atom/atext token. Bytes
// above ASCII are accepted to tolerate unencoded international display
// names and local-parts, per §4.2's input contract.
func isAtext(b byte) bool {
	if b >= 0x80 {
		return true
	}
	switch b {
	case '!', '#', '$', '%', '&', '\'', '*', '+', '-', '/', '=', '?', '^', '_', '`', '{', '|', '}', '~':
		return true
	}
	return gram.IsAlpha(b) || gram.IsDigit(b)
}

// isWordChar is isAtext widened to include "." so a phrase's dot-atom
// words (e.g. an unencoded "joe.bloggs") read as one token, matching
// the "dot-atom" display-word row.
func isWordChar(b byte) bool {
	return b == '.' || isAtext(b)
}

// readQuoted reads a double-quoted string, unescaping "\x" pairs, and
// returns its content without the surrounding quotes.
func readQuoted(sc *gram.Scanner) (string, error) {
	if !sc.Match('"') {
		return "", addrErr("rfc5322: expected '\"'")
	}
	var sb strings.Builder
	for {
		ch, ok := sc.Advance()
		if !ok {
			return "", addrErr("rfc5322: unterminated quoted string")
		}
		if ch == '"' {
			return sb.String(), nil
		}
		if ch == '\\' {
			escaped, ok := sc.Advance()
			if !ok {
				return "", addrErr("rfc5322: unterminated quoted string")
			}
			sb.WriteByte(escaped)
			continue
		}
		sb.WriteByte(ch)
	}
}

// looksLikeEncodedWord reports whether the scanner is positioned at an
// RFC 2047 "=?" probe sequence.
func looksLikeEncodedWord(sc *gram.Scanner) bool {
	return sc.LookingAtFold("=?")
}

// consumeEncodedWord consumes one or more adjacent "=?...?=" tokens (no
// intervening whitespace) and returns the raw (still-encoded) text.
func consumeEncodedWord(sc *gram.Scanner) (string, bool) {
	start := sc.Pos
	for sc.LookingAtFold("=?") {
		sc.Pos += 2
		for i := 0; i < 2; i++ {
			idx := indexByteFrom(sc, '?')
			if idx < 0 {
				sc.Pos = start
				return "", false
			}
			sc.Pos = idx + 1
		}
		end := indexStringFrom(sc, "?=")
		if end < 0 {
			sc.Pos = start
			return "", false
		}
		sc.Pos = end + 2
	}
	return string(sc.Slice(start)), true
}

func indexByteFrom(sc *gram.Scanner, b byte) int {
	for i := sc.Pos; i < len(sc.Buf); i++ {
		if sc.Buf[i] == b {
			return i
		}
	}
	return -1
}

func indexStringFrom(sc *gram.Scanner, s string) int {
	idx := strings.Index(string(sc.Buf[sc.Pos:]), s)
	if idx < 0 {
		return -1
	}
	return sc.Pos + idx
}
