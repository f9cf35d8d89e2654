package imap

import (
	"testing"

	"github.com/meszmate/imapgram/wire"
)

func TestParseNoop(t *testing.T) {
	result := Parse([]byte("a002 NOOP\r\n"), '/')
	if result.Tag != "a002" {
		t.Errorf("tag = %q, want %q", result.Tag, "a002")
	}
	if result.Error != "" {
		t.Fatalf("unexpected error: %s", result.Error)
	}
	if len(result.Command) == 0 {
		t.Error("expected non-empty encoded command")
	}
}

func TestParseSelectFoldsInbox(t *testing.T) {
	g := newGrammar([]byte("A142 SELECT inbox\r\n"), '/', DefaultParserLimits)
	tag, cmd := g.parseCommandLine()
	if tag != "A142" {
		t.Errorf("tag = %q, want %q", tag, "A142")
	}
	sel, ok := cmd.(Select)
	if !ok {
		t.Fatalf("command = %#v, want Select", cmd)
	}
	if sel.Mailbox != "INBOX" {
		t.Errorf("mailbox = %q, want %q (case-folded)", sel.Mailbox, "INBOX")
	}
}

func TestParseCreateDoesNotFoldInboxx(t *testing.T) {
	// "inboxx" has "INBOX" as its first 5 characters, but the 6th
	// character is "x", not the mailbox delimiter, so it is left alone.
	g := newGrammar([]byte("A003 CREATE inboxx\r\n"), '/', DefaultParserLimits)
	tag, cmd := g.parseCommandLine()
	if tag != "A003" {
		t.Errorf("tag = %q, want %q", tag, "A003")
	}
	create, ok := cmd.(Create)
	if !ok {
		t.Fatalf("command = %#v, want Create", cmd)
	}
	if create.Mailbox != "inboxx" {
		t.Errorf("mailbox = %q, want %q (not folded)", create.Mailbox, "inboxx")
	}
}

func TestParseLoginWithLiterals(t *testing.T) {
	input := "a001 login {5}\r\nSMITH {6}\r\nSESAME\r\n"
	g := newGrammar([]byte(input), '/', DefaultParserLimits)
	tag, cmd := g.parseCommandLine()
	if tag != "a001" {
		t.Errorf("tag = %q, want %q", tag, "a001")
	}
	login, ok := cmd.(Login)
	if !ok {
		t.Fatalf("command = %#v, want Login", cmd)
	}
	if login.Username != "SMITH" || login.Password != "SESAME" {
		t.Errorf("got %+v, want {SMITH SESAME}", login)
	}
}

func TestParseFetchAllMacroExpands(t *testing.T) {
	g := newGrammar([]byte("A654 FETCH 2:4 ALL\r\n"), '/', DefaultParserLimits)
	tag, cmd := g.parseCommandLine()
	if tag != "A654" {
		t.Errorf("tag = %q, want %q", tag, "A654")
	}
	fetch, ok := cmd.(Fetch)
	if !ok {
		t.Fatalf("command = %#v, want Fetch", cmd)
	}
	want := []FetchAttributeKeyword{FetchFlags, FetchInternalDate, FetchRFC822Size, FetchEnvelope}
	if len(fetch.Attrs) != len(want) {
		t.Fatalf("got %d attrs, want %d: %+v", len(fetch.Attrs), len(want), fetch.Attrs)
	}
	for i, kw := range want {
		if fetch.Attrs[i].Keyword != kw {
			t.Errorf("attrs[%d] = %v, want %v", i, fetch.Attrs[i].Keyword, kw)
		}
	}
}

func TestParseGarbageLeadingByteYieldsEmptyTagAndError(t *testing.T) {
	// A byte the tag production itself rejects (here, a raw NUL) breaks
	// tag recovery at position zero: the universal invariant
	// ("parse(I).tag == T for whatever T the tag production matched")
	// then requires an empty tag, since T is empty. This is distinct
	// from a tag-looking prefix followed by unrelated garbage, which
	// would have to report the prefix as the tag instead.
	result := Parse([]byte("\x00garbage after A006\r\n"), '/')
	if result.Tag != "" {
		t.Errorf("tag = %q, want empty", result.Tag)
	}
	if len(result.Command) != 0 {
		t.Errorf("command = %v, want empty", result.Command)
	}
	if result.Error == "" {
		t.Error("expected non-empty error")
	}
}

func TestParseTagPreservedWhenRestOfLineFails(t *testing.T) {
	// The tag production succeeds ("A006") even though the command name
	// that follows is garbage; tag recovery must still report it.
	result := Parse([]byte("A006 \x01\x02\x03\r\n"), '/')
	if result.Tag != "A006" {
		t.Errorf("tag = %q, want %q", result.Tag, "A006")
	}
	if result.Error == "" {
		t.Error("expected non-empty error")
	}
	if len(result.Command) != 0 {
		t.Errorf("command = %v, want empty", result.Command)
	}
}

func TestParseSequenceSetPreservesStar(t *testing.T) {
	g := newGrammar([]byte("a1 FETCH 1:* FLAGS\r\n"), '/', DefaultParserLimits)
	_, cmd := g.parseCommandLine()
	fetch, ok := cmd.(Fetch)
	if !ok {
		t.Fatalf("command = %#v, want Fetch", cmd)
	}
	if fetch.Set.String() != "1:*" {
		t.Errorf("sequence set = %q, want %q", fetch.Set.String(), "1:*")
	}
}

func TestParseArbitraryBytesDoesNotCrash(t *testing.T) {
	inputs := [][]byte{
		nil,
		{},
		{0x00, 0x00, 0x00},
		[]byte("\r\n"),
		[]byte("a"),
		append([]byte("a1 FETCH 1 BODY["), 0x00, 0x00, ']', '\r', '\n'),
		[]byte("a1 SEARCH (OR (NOT"),
	}
	for i, in := range inputs {
		result := Parse(in, '/')
		_ = result // must not panic
		t.Logf("input %d: tag=%q error=%q", i, result.Tag, result.Error)
	}
}

func TestParseUidExpungeIsNotWrapped(t *testing.T) {
	g := newGrammar([]byte("a1 UID EXPUNGE 1:5\r\n"), '/', DefaultParserLimits)
	_, cmd := g.parseCommandLine()
	expunge, ok := cmd.(UidExpunge)
	if !ok {
		t.Fatalf("command = %#v, want UidExpunge (not wrapped in Uid)", cmd)
	}
	if expunge.Set.String() != "1:5" {
		t.Errorf("set = %q, want %q", expunge.Set.String(), "1:5")
	}
}

func TestParseUidWrapsFetch(t *testing.T) {
	g := newGrammar([]byte("a1 UID FETCH 1 FLAGS\r\n"), '/', DefaultParserLimits)
	_, cmd := g.parseCommandLine()
	uid, ok := cmd.(Uid)
	if !ok {
		t.Fatalf("command = %#v, want Uid", cmd)
	}
	if _, ok := uid.Inner.(Fetch); !ok {
		t.Errorf("inner = %#v, want Fetch", uid.Inner)
	}
}

func TestParseIDNilValueIsEmptyString(t *testing.T) {
	g := newGrammar([]byte(`a1 ID ("name" NIL)` + "\r\n"), '/', DefaultParserLimits)
	_, cmd := g.parseCommandLine()
	idSet, ok := cmd.(IdSet)
	if !ok {
		t.Fatalf("command = %#v, want IdSet", cmd)
	}
	if len(idSet.Params) != 1 || idSet.Params[0].Key != "name" || idSet.Params[0].Value != "" {
		t.Errorf("got %+v, want one param {name \"\"}", idSet.Params)
	}
}

func TestParseRespectsConfiguredMaxCommandSize(t *testing.T) {
	// NOOP encodes to 2 bytes (one tag byte, one zero length byte), so a
	// 1-byte limit is exceeded.
	p := &Parser{Limits: ParserLimits{MaxIDParams: DefaultParserLimits.MaxIDParams, MaxCommandSize: 1}}
	result := p.Parse([]byte("a1 NOOP\r\n"), '/')
	if result.Error == "" {
		t.Fatal("expected a command-too-large error under a 1-byte limit")
	}
	if len(result.Command) != 0 {
		t.Errorf("command = %v, want empty", result.Command)
	}
}

func TestParseIDTooManyParamsFails(t *testing.T) {
	limits := ParserLimits{MaxIDParams: 1, MaxCommandSize: DefaultParserLimits.MaxCommandSize}
	g := newGrammar([]byte(`a1 ID ("a" "1" "b" "2")`+"\r\n"), '/', limits)
	_, cmd := g.parseCommandLine()
	if cmd != nil {
		t.Errorf("command = %#v, want nil", cmd)
	}
	if !g.errs.Did() {
		t.Error("expected an error for exceeding MaxIDParams")
	}
	if g.errs.Message() != ErrTooManyIDParams.Error() {
		t.Errorf("message = %q, want it to match ErrTooManyIDParams.Error() %q", g.errs.Message(), ErrTooManyIDParams.Error())
	}
}

func TestErrInvalidLiteralCountAliasesWirePackage(t *testing.T) {
	// errors.go declares this as an alias of wire.ErrInvalidLiteralCount
	// rather than a second, independent sentinel, so the two names refer
	// to the exact same error value.
	if ErrInvalidLiteralCount != wire.ErrInvalidLiteralCount {
		t.Error("imap.ErrInvalidLiteralCount is not the same value as wire.ErrInvalidLiteralCount")
	}
}
