package imap

import (
	"strconv"
	"strings"

	"github.com/meszmate/imapgram/internal/gram"
	"github.com/meszmate/imapgram/wire"
)

// grammar drives one parse of one command line. It bundles the lexer,
// the error listener, and the limits the normalization rules enforce,
// mirroring the shape every parser in this module shares: a lexer, a
// recursive-descent parser built on top of it, and a FirstError
// listener the parser reports into as it goes.
type grammar struct {
	lex       *wire.Lexer
	errs      gram.FirstError
	delimiter byte
	limits    ParserLimits
}

func newGrammar(input []byte, delimiter byte, limits ParserLimits) *grammar {
	return &grammar{lex: wire.NewLexer(input), delimiter: delimiter, limits: limits}
}

func (g *grammar) fail(msg string) {
	g.errs.Report(msg)
}

func (g *grammar) failf(format string, args ...any) {
	g.errs.Reportf(format, args...)
}

// parseCommandLine parses "tag SP command-args [CRLF]", or the untagged
// "DONE [CRLF]" line that ends IDLE. It always returns whatever tag text
// it managed to lex, even when the rest of the line fails to parse
// (§4.1 "Tag recovery").
func (g *grammar) parseCommandLine() (string, Command) {
	if g.lex.S.ConsumeFold(CommandDone) {
		g.lex.S.TakeWhile(func(b byte) bool { return b == '\r' || b == '\n' })
		if g.lex.S.Eof() {
			return "", Done{}
		}
		g.lex.S.Pos = 0
	}
	tag, ok := g.parseTag()
	if !ok {
		g.fail("imap: missing or invalid tag")
		return tag, nil
	}
	if err := g.lex.ReadSP(); err != nil {
		g.fail("imap: expected SP after tag")
		return tag, nil
	}
	name, err := g.lex.ReadAtom()
	if err != nil {
		g.fail("imap: expected command name")
		return tag, nil
	}
	cmd := g.dispatch(strings.ToUpper(name))
	if g.errs.Did() {
		return tag, nil
	}
	g.lex.S.TakeWhile(func(b byte) bool { return b == '\r' || b == '\n' })
	if !g.lex.S.Eof() {
		g.fail("imap: unexpected trailing data")
		return tag, nil
	}
	return tag, cmd
}

// parseTag reads the tag production: one or more ASTRING-CHARs that are
// not "+" or atom-specials.
func (g *grammar) parseTag() (string, bool) {
	start := g.lex.S.Pos
	g.lex.S.TakeWhile(func(b byte) bool {
		return b != ' ' && b != '+' && b > 0x1f && b < 0x7f &&
			b != '(' && b != ')' && b != '{' && b != '%' && b != '*' && b != '"' && b != '\\' && b != ']'
	})
	if g.lex.S.Pos == start {
		return "", false
	}
	return string(g.lex.S.Slice(start)), true
}

func (g *grammar) dispatch(name string) Command {
	switch name {
	case CommandCapability:
		return Capability{}
	case CommandNoop:
		return Noop{}
	case CommandLogout:
		return Logout{}
	case CommandID:
		return g.parseID()
	case CommandStartTLS:
		return StartTLS{}
	case CommandAuthenticate:
		return g.parseAuth()
	case CommandLogin:
		return g.parseLogin()
	case CommandSelect:
		return Select{Mailbox: g.parseMailboxArg()}
	case CommandExamine:
		return Examine{Mailbox: g.parseMailboxArg()}
	case CommandCreate:
		return Create{Mailbox: g.parseMailboxArg()}
	case CommandDelete:
		return Delete{Mailbox: g.parseMailboxArg()}
	case CommandRename:
		return g.parseRename()
	case CommandSubscribe:
		return Subscribe{Mailbox: g.parseMailboxArg()}
	case CommandUnsubscribe:
		return Unsubscribe{Mailbox: g.parseMailboxArg()}
	case CommandList:
		ref, mbox := g.parseListArgs()
		return List{Reference: ref, Mailbox: mbox}
	case CommandLsub:
		ref, mbox := g.parseListArgs()
		return Lsub{Reference: ref, Mailbox: mbox}
	case CommandStatus:
		return g.parseStatus()
	case CommandAppend:
		return g.parseAppend()
	case CommandIdle:
		return Idle{}
	case CommandDone:
		return Done{}
	case CommandCheck:
		return Check{}
	case CommandClose:
		return Close{}
	case CommandUnselect:
		return Unselect{}
	case CommandExpunge:
		return Expunge{}
	case CommandSearch:
		return g.parseSearch()
	case CommandFetch:
		return g.parseFetch()
	case CommandStore:
		return g.parseStore()
	case CommandCopy:
		set, mbox := g.parseSetAndMailbox()
		return Copy{Set: set, Mailbox: mbox}
	case CommandMove:
		set, mbox := g.parseSetAndMailbox()
		return Move{Set: set, Mailbox: mbox}
	case CommandUID:
		return g.parseUID()
	default:
		g.failf("imap: unknown command %q", name)
		return nil
	}
}

func (g *grammar) expectSP() bool {
	if err := g.lex.ReadSP(); err != nil {
		g.fail("imap: expected SP")
		return false
	}
	return true
}

// parseMailboxArg parses "SP mailbox" and applies INBOX case-folding.
func (g *grammar) parseMailboxArg() string {
	if !g.expectSP() {
		return ""
	}
	name, err := g.lex.ReadAString()
	if err != nil {
		g.fail("imap: expected mailbox name")
		return ""
	}
	return normalizeMailbox(name, g.delimiter)
}

// normalizeMailbox applies the INBOX case-folding rule (§4.1).
func normalizeMailbox(name string, delimiter byte) string {
	if len(name) < 5 || !strings.EqualFold(name[:5], "INBOX") {
		return name
	}
	if len(name) == 5 || name[5] == delimiter {
		return "INBOX" + name[5:]
	}
	return name
}

func (g *grammar) parseRename() Command {
	if !g.expectSP() {
		return nil
	}
	from, err := g.lex.ReadAString()
	if err != nil {
		g.fail("imap: expected mailbox name")
		return nil
	}
	if !g.expectSP() {
		return nil
	}
	to, err := g.lex.ReadAString()
	if err != nil {
		g.fail("imap: expected new mailbox name")
		return nil
	}
	return Rename{Mailbox: normalizeMailbox(from, g.delimiter), NewName: normalizeMailbox(to, g.delimiter)}
}

func (g *grammar) parseListArgs() (string, string) {
	if !g.expectSP() {
		return "", ""
	}
	ref, err := g.lex.ReadAString()
	if err != nil {
		g.fail("imap: expected reference name")
		return "", ""
	}
	if !g.expectSP() {
		return "", ""
	}
	mbox, err := g.lex.ReadAString()
	if err != nil {
		g.fail("imap: expected mailbox pattern")
		return "", ""
	}
	return ref, normalizeMailbox(mbox, g.delimiter)
}

func (g *grammar) parseAuth() Command {
	if !g.expectSP() {
		return nil
	}
	mech, err := g.lex.ReadAtom()
	if err != nil {
		g.fail("imap: expected SASL mechanism name")
		return nil
	}
	var data []string
	for {
		b, ok := g.lex.PeekByte()
		if !ok || b == '\r' || b == '\n' {
			break
		}
		if !g.expectSP() {
			return nil
		}
		chunk, err := g.lex.ReadAtom()
		if err != nil {
			g.fail("imap: expected base64 response")
			return nil
		}
		data = append(data, chunk)
	}
	return Auth{Mechanism: strings.ToUpper(mech), Data: data}
}

func (g *grammar) parseLogin() Command {
	if !g.expectSP() {
		return nil
	}
	user, err := g.lex.ReadAString()
	if err != nil {
		g.fail("imap: expected username")
		return nil
	}
	if !g.expectSP() {
		return nil
	}
	pass, err := g.lex.ReadAString()
	if err != nil {
		g.fail("imap: expected password")
		return nil
	}
	return Login{Username: user, Password: pass}
}

func (g *grammar) parseStatus() Command {
	mbox := g.parseMailboxArg()
	if g.errs.Did() {
		return nil
	}
	if !g.expectSP() {
		return nil
	}
	var attrs []StatusAttr
	err := g.lex.ReadList(func() error {
		a, err := g.lex.ReadAtom()
		if err != nil {
			return err
		}
		attr, ok := parseStatusAttr(strings.ToUpper(a))
		if !ok {
			g.failf("imap: unknown status attribute %q", a)
			return nil
		}
		attrs = append(attrs, attr)
		return nil
	})
	if err != nil {
		g.fail("imap: expected status attribute list")
		return nil
	}
	return Status{Mailbox: mbox, Attrs: attrs}
}

func (g *grammar) parseAppend() Command {
	mbox := g.parseMailboxArg()
	if g.errs.Did() {
		return nil
	}
	var flags []string
	b, _ := g.lex.PeekByte()
	if b == ' ' {
		save := g.lex.S.Pos
		g.lex.S.Pos++
		if nb, ok := g.lex.PeekByte(); ok && nb == '(' {
			_ = g.lex.ReadList(func() error {
				f, err := g.lex.ReadAtom()
				if err != nil {
					return err
				}
				flags = append(flags, f)
				return nil
			})
		} else {
			g.lex.S.Pos = save
		}
	}
	var dt *DateTime
	if !g.lex.S.Eof() {
		save := g.lex.S.Pos
		if g.lex.S.Match(' ') {
			if nb, ok := g.lex.PeekByte(); ok && nb == '"' {
				s, err := g.lex.ReadQuotedString()
				if err != nil {
					g.fail("imap: invalid date-time argument")
					return nil
				}
				parsed, ok := parseIMAPDateTime(s)
				if !ok {
					g.fail("imap: invalid date-time argument")
					return nil
				}
				dt = &parsed
			} else {
				g.lex.S.Pos = save
			}
		}
	}
	if !g.expectSP() {
		return nil
	}
	lit, err := g.lex.ReadString()
	if err != nil {
		g.fail("imap: expected message literal")
		return nil
	}
	return Append{Mailbox: mbox, Flags: flags, DateTime: dt, Literal: lit}
}

func (g *grammar) parseID() Command {
	if !g.expectSP() {
		return nil
	}
	if g.lex.S.LookingAtFold("NIL") {
		g.lex.S.Pos += 3
		return IdGet{}
	}
	var params []IDParam
	err := g.lex.ReadList(func() error {
		key, err := g.lex.ReadString()
		if err != nil {
			return err
		}
		if err := g.lex.ReadSP(); err != nil {
			return err
		}
		val, ok, err := g.lex.ReadNString()
		if err != nil {
			return err
		}
		if !ok {
			val = ""
		}
		params = append(params, IDParam{Key: strings.ToLower(key), Value: val})
		if len(params) > g.limits.MaxIDParams {
			g.fail(ErrTooManyIDParams.Error())
		}
		return nil
	})
	if err != nil {
		g.fail("imap: expected NIL or parameter list")
		return nil
	}
	return IdSet{Params: params}
}

func (g *grammar) parseSetAndMailbox() (SequenceSet, string) {
	set := g.parseSequenceSetArg()
	mbox := g.parseMailboxArg()
	return set, mbox
}

func (g *grammar) parseSequenceSetArg() SequenceSet {
	if !g.expectSP() {
		return SequenceSet{}
	}
	return g.parseSequenceSet()
}

// parseSequenceSet reads the sequence-set token directly off the
// scanner: it is built from a tighter alphabet (digits, ",", ":", "*")
// than a general atom, and the caller needs the raw text preserved.
func (g *grammar) parseSequenceSet() SequenceSet {
	start := g.lex.S.Pos
	g.lex.S.TakeWhile(func(b byte) bool {
		return gram.IsDigit(b) || b == ',' || b == ':' || b == '*'
	})
	text := string(g.lex.S.Slice(start))
	if text == "" {
		g.fail("imap: expected sequence set")
		return SequenceSet{}
	}
	var items []SequenceItem
	for _, part := range strings.Split(text, ",") {
		if part == "" {
			g.fail("imap: empty sequence-set item")
			return SequenceSet{}
		}
		if idx := strings.IndexByte(part, ':'); idx >= 0 {
			begin, end := part[:idx], part[idx+1:]
			if !validSeqToken(begin) || !validSeqToken(end) {
				g.fail("imap: invalid sequence-set range")
				return SequenceSet{}
			}
			items = append(items, rangeItem(begin, end))
		} else {
			if !validSeqToken(part) {
				g.fail("imap: invalid sequence-set number")
				return SequenceSet{}
			}
			items = append(items, singleItem(part))
		}
	}
	return SequenceSet{Items: items}
}

func validSeqToken(s string) bool {
	if s == "*" {
		return true
	}
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !gram.IsDigit(s[i]) {
			return false
		}
	}
	return true
}

func (g *grammar) parseSearch() Command {
	if !g.expectSP() {
		return nil
	}
	var charset string
	save := g.lex.S.Pos
	if g.lex.S.ConsumeFold("CHARSET") {
		if g.lex.ReadSP() == nil {
			cs, err := g.lex.ReadAString()
			if err == nil {
				charset = cs
				g.lex.ReadSP()
			} else {
				g.lex.S.Pos = save
			}
		} else {
			g.lex.S.Pos = save
		}
	}
	var keys []SearchKey
	for {
		key, ok := g.parseSearchKey()
		if !ok {
			return nil
		}
		keys = append(keys, key)
		if !g.lex.S.Match(' ') {
			break
		}
	}
	return Search{Charset: charset, Keys: keys}
}

func strPtr(s string) *string { return &s }

func (g *grammar) parseSearchKey() (SearchKey, bool) {
	b, ok := g.lex.PeekByte()
	if !ok {
		g.fail("imap: expected search key")
		return SearchKey{}, false
	}
	if b == '(' {
		var children []SearchKey
		err := g.lex.ReadList(func() error {
			child, ok := g.parseSearchKey()
			if !ok {
				return eitherErr
			}
			children = append(children, child)
			return nil
		})
		if err != nil {
			g.fail("imap: invalid search key list")
			return SearchKey{}, false
		}
		return SearchKey{Keyword: SearchList, Children: children}, true
	}
	if gram.IsDigit(b) || b == '*' {
		set := g.parseSequenceSet()
		if g.errs.Did() {
			return SearchKey{}, false
		}
		return SearchKey{Keyword: SearchSeqSet, Set: &set}, true
	}
	word, err := g.lex.ReadAtom()
	if err != nil {
		g.fail("imap: expected search key")
		return SearchKey{}, false
	}
	kw, known := searchKeywordNames[strings.ToUpper(word)]
	if !known {
		g.failf("imap: unknown search key %q", word)
		return SearchKey{}, false
	}
	switch kw {
	case SearchBcc, SearchBody, SearchCc, SearchFrom, SearchSubject, SearchText, SearchTo:
		if !g.expectSP() {
			return SearchKey{}, false
		}
		s, err := g.lex.ReadAString()
		if err != nil {
			g.fail("imap: expected search text")
			return SearchKey{}, false
		}
		return SearchKey{Keyword: kw, Text: strPtr(s)}, true
	case SearchHasKeyword, SearchUnkeyword:
		if !g.expectSP() {
			return SearchKey{}, false
		}
		s, err := g.lex.ReadAtom()
		if err != nil {
			g.fail("imap: expected flag name")
			return SearchKey{}, false
		}
		return SearchKey{Keyword: kw, Flag: strPtr(s)}, true
	case SearchBefore, SearchOn, SearchSince, SearchSentBefore, SearchSentOn, SearchSentSince:
		if !g.expectSP() {
			return SearchKey{}, false
		}
		d, ok := g.parseDateArg()
		if !ok {
			return SearchKey{}, false
		}
		return SearchKey{Keyword: kw, Date: &d}, true
	case SearchHeader:
		if !g.expectSP() {
			return SearchKey{}, false
		}
		field, err := g.lex.ReadAString()
		if err != nil {
			g.fail("imap: expected header field name")
			return SearchKey{}, false
		}
		if !g.expectSP() {
			return SearchKey{}, false
		}
		val, err := g.lex.ReadAString()
		if err != nil {
			g.fail("imap: expected header field value")
			return SearchKey{}, false
		}
		return SearchKey{Keyword: kw, Field: strPtr(field), Text: strPtr(val)}, true
	case SearchLarger, SearchSmaller:
		if !g.expectSP() {
			return SearchKey{}, false
		}
		n, err := g.lex.ReadAtom()
		if err != nil {
			g.fail("imap: expected size")
			return SearchKey{}, false
		}
		size, perr := strconv.ParseInt(n, 10, 64)
		if perr != nil {
			g.failf("imap: invalid size %q", n)
			return SearchKey{}, false
		}
		return SearchKey{Keyword: kw, Size: &size}, true
	case SearchNot:
		if !g.expectSP() {
			return SearchKey{}, false
		}
		child, ok := g.parseSearchKey()
		if !ok {
			return SearchKey{}, false
		}
		return SearchKey{Keyword: kw, Children: []SearchKey{child}}, true
	case SearchOr:
		if !g.expectSP() {
			return SearchKey{}, false
		}
		left, ok := g.parseSearchKey()
		if !ok {
			return SearchKey{}, false
		}
		if !g.expectSP() {
			return SearchKey{}, false
		}
		right, ok := g.parseSearchKey()
		if !ok {
			return SearchKey{}, false
		}
		return SearchKey{Keyword: kw, LeftOp: &left, RightOp: &right}, true
	case SearchUID:
		if !g.expectSP() {
			return SearchKey{}, false
		}
		set := g.parseSequenceSet()
		if g.errs.Did() {
			return SearchKey{}, false
		}
		return SearchKey{Keyword: kw, Set: &set}, true
	default:
		return SearchKey{Keyword: kw}, true
	}
}

var eitherErr = errSentinel{}

type errSentinel struct{}

func (errSentinel) Error() string { return "imap: search key list error" }

func (g *grammar) parseDateArg() (Date, bool) {
	b, _ := g.lex.PeekByte()
	var text string
	var err error
	if b == '"' {
		text, err = g.lex.ReadQuotedString()
	} else {
		text, err = g.lex.ReadAtom()
	}
	if err != nil {
		g.fail("imap: expected date")
		return Date{}, false
	}
	d, ok := parseIMAPDate(text)
	if !ok {
		g.failf("imap: invalid date %q", text)
		return Date{}, false
	}
	return d, true
}

func (g *grammar) parseFetch() Command {
	set := g.parseSequenceSetArg()
	if g.errs.Did() {
		return nil
	}
	if !g.expectSP() {
		return nil
	}
	attrs := g.parseFetchAttributes()
	if g.errs.Did() {
		return nil
	}
	return Fetch{Set: set, Attrs: attrs}
}

func (g *grammar) parseFetchAttributes() []FetchAttribute {
	b, ok := g.lex.PeekByte()
	if !ok {
		g.fail("imap: expected fetch attributes")
		return nil
	}
	if b == '(' {
		var attrs []FetchAttribute
		err := g.lex.ReadList(func() error {
			a, ok := g.parseFetchAttribute()
			if !ok {
				return eitherErr
			}
			attrs = append(attrs, a)
			return nil
		})
		if err != nil {
			g.fail("imap: invalid fetch attribute list")
			return nil
		}
		return attrs
	}
	save := g.lex.S.Pos
	word, err := g.lex.ReadAtom()
	if err == nil {
		switch strings.ToUpper(word) {
		case "ALL":
			return append([]FetchAttribute(nil), fetchMacroAll...)
		case "FAST":
			return append([]FetchAttribute(nil), fetchMacroFast...)
		case "FULL":
			return fetchMacroFull()
		}
	}
	g.lex.S.Pos = save
	a, ok := g.parseFetchAttribute()
	if !ok {
		return nil
	}
	return []FetchAttribute{a}
}

var fetchAttrNames = map[string]FetchAttributeKeyword{
	"ENVELOPE":      FetchEnvelope,
	"FLAGS":         FetchFlags,
	"INTERNALDATE":  FetchInternalDate,
	"RFC822":        FetchRFC822,
	"RFC822.HEADER": FetchRFC822Header,
	"RFC822.SIZE":   FetchRFC822Size,
	"RFC822.TEXT":   FetchRFC822Text,
	"BODYSTRUCTURE": FetchBodyStructure,
	"UID":           FetchUID,
}

func (g *grammar) parseFetchAttribute() (FetchAttribute, bool) {
	start := g.lex.S.Pos
	word, err := g.lex.ReadAtom()
	if err != nil {
		g.fail("imap: expected fetch attribute")
		return FetchAttribute{}, false
	}
	// '[' is an atom character, so the atom runs on into a BODY[...]
	// section; cut the keyword there and leave the cursor on the '['.
	if i := strings.IndexByte(word, '['); i >= 0 {
		g.lex.S.Pos = start + i
		word = word[:i]
	}
	upper := strings.ToUpper(word)
	if kw, ok := fetchAttrNames[upper]; ok {
		return FetchAttribute{Keyword: kw}, true
	}
	if upper == "BODY" || upper == "BODY.PEEK" {
		peek := upper == "BODY.PEEK"
		if b, ok := g.lex.PeekByte(); !ok || b != '[' {
			if peek {
				g.fail("imap: BODY.PEEK requires a section")
				return FetchAttribute{}, false
			}
			return FetchAttribute{Keyword: FetchBody}, true
		}
		section, ok := g.parseBodySection(peek)
		if !ok {
			return FetchAttribute{}, false
		}
		return FetchAttribute{Keyword: FetchBodySection, Section: &section}, true
	}
	g.lex.S.Pos = start
	g.failf("imap: unknown fetch attribute %q", word)
	return FetchAttribute{}, false
}

func (g *grammar) parseBodySection(peek bool) (BodySection, bool) {
	if !g.lex.S.Match('[') {
		g.fail("imap: expected '['")
		return BodySection{}, false
	}
	var part []int
	for {
		b, ok := g.lex.PeekByte()
		if !ok || !gram.IsDigit(b) {
			break
		}
		start := g.lex.S.Pos
		g.lex.S.TakeWhile(gram.IsDigit)
		n, err := strconv.ParseUint(string(g.lex.S.Slice(start)), 10, 32)
		if err != nil {
			g.fail("imap: invalid MIME part number")
			return BodySection{}, false
		}
		part = append(part, int(n))
		if !g.lex.S.Match('.') {
			break
		}
	}
	section := BodySection{Part: part, Peek: peek, Keyword: BodySectionWhole}
	if b, ok := g.lex.PeekByte(); ok && b != ']' {
		word, err := g.lex.ReadAtom()
		if err != nil {
			g.fail("imap: expected section specifier")
			return BodySection{}, false
		}
		switch strings.ToUpper(word) {
		case "HEADER":
			section.Keyword = BodySectionHeader
		case "TEXT":
			section.Keyword = BodySectionText
		case "MIME":
			section.Keyword = BodySectionMIME
		case "HEADER.FIELDS", "HEADER.FIELDS.NOT":
			if strings.ToUpper(word) == "HEADER.FIELDS.NOT" {
				section.Keyword = BodySectionHeaderFieldsNot
			} else {
				section.Keyword = BodySectionHeaderFields
			}
			if !g.expectSP() {
				return BodySection{}, false
			}
			err := g.lex.ReadList(func() error {
				f, err := g.lex.ReadAString()
				if err != nil {
					return err
				}
				section.Fields = append(section.Fields, f)
				return nil
			})
			if err != nil {
				g.fail("imap: expected header field list")
				return BodySection{}, false
			}
		default:
			g.failf("imap: unknown section specifier %q", word)
			return BodySection{}, false
		}
	}
	if !g.lex.S.Match(']') {
		g.fail("imap: expected ']'")
		return BodySection{}, false
	}
	if g.lex.S.Match('<') {
		start := g.lex.S.Pos
		g.lex.S.TakeWhile(gram.IsDigit)
		begin, err := strconv.ParseInt(string(g.lex.S.Slice(start)), 10, 64)
		if err != nil {
			g.fail("imap: invalid partial range begin")
			return BodySection{}, false
		}
		if !g.lex.S.Match('.') {
			g.fail("imap: expected '.' in partial range")
			return BodySection{}, false
		}
		start = g.lex.S.Pos
		g.lex.S.TakeWhile(gram.IsDigit)
		count, err := strconv.ParseInt(string(g.lex.S.Slice(start)), 10, 64)
		if err != nil {
			g.fail("imap: invalid partial range count")
			return BodySection{}, false
		}
		if !g.lex.S.Match('>') {
			g.fail("imap: expected '>'")
			return BodySection{}, false
		}
		section.Partial = &BodyPartial{Begin: begin, Count: count}
	}
	return section, true
}

func (g *grammar) parseStore() Command {
	set := g.parseSequenceSetArg()
	if g.errs.Did() {
		return nil
	}
	if !g.expectSP() {
		return nil
	}
	action := StoreFlagsSet
	if g.lex.S.Match('+') {
		action = StoreFlagsAdd
	} else if g.lex.S.Match('-') {
		action = StoreFlagsDel
	}
	word, err := g.lex.ReadAtom()
	if err != nil || !strings.EqualFold(word, "FLAGS") {
		g.fail("imap: expected FLAGS")
		return nil
	}
	silent := false
	if g.lex.S.Match('.') {
		suffix, err := g.lex.ReadAtom()
		if err != nil || !strings.EqualFold(suffix, "SILENT") {
			g.fail("imap: expected .SILENT")
			return nil
		}
		silent = true
	}
	if !g.expectSP() {
		return nil
	}
	var flags []string
	if b, _ := g.lex.PeekByte(); b == '(' {
		err := g.lex.ReadList(func() error {
			f, err := g.lex.ReadAtom()
			if err != nil {
				return err
			}
			flags = append(flags, f)
			return nil
		})
		if err != nil {
			g.fail("imap: invalid flag list")
			return nil
		}
	} else {
		for {
			f, err := g.lex.ReadAtom()
			if err != nil {
				g.fail("imap: expected flag")
				return nil
			}
			flags = append(flags, f)
			if !g.lex.S.Match(' ') {
				break
			}
		}
	}
	return Store{Set: set, Action: action, Silent: silent, Flags: flags}
}

func (g *grammar) parseUID() Command {
	if !g.expectSP() {
		return nil
	}
	name, err := g.lex.ReadAtom()
	if err != nil {
		g.fail("imap: expected command name after UID")
		return nil
	}
	switch strings.ToUpper(name) {
	case CommandCopy:
		set, mbox := g.parseSetAndMailbox()
		if g.errs.Did() {
			return nil
		}
		return Uid{Inner: Copy{Set: set, Mailbox: mbox}}
	case CommandMove:
		set, mbox := g.parseSetAndMailbox()
		if g.errs.Did() {
			return nil
		}
		return Uid{Inner: Move{Set: set, Mailbox: mbox}}
	case CommandFetch:
		set := g.parseSequenceSetArg()
		if g.errs.Did() {
			return nil
		}
		if !g.expectSP() {
			return nil
		}
		attrs := g.parseFetchAttributes()
		if g.errs.Did() {
			return nil
		}
		return Uid{Inner: Fetch{Set: set, Attrs: attrs}}
	case CommandStore:
		inner := g.parseStore()
		if g.errs.Did() || inner == nil {
			return nil
		}
		return Uid{Inner: inner}
	case CommandSearch:
		inner := g.parseSearch()
		if g.errs.Did() || inner == nil {
			return nil
		}
		return Uid{Inner: inner}
	case CommandExpunge:
		set := g.parseSequenceSetArg()
		if g.errs.Did() {
			return nil
		}
		return UidExpunge{Set: set}
	default:
		g.failf("imap: unknown UID subcommand %q", name)
		return nil
	}
}
