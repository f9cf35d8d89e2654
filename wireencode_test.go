package imap

import (
	"testing"

	"google.golang.org/protobuf/encoding/protowire"
)

// decodeTopField reads exactly one field's tag and bytes-payload off buf,
// failing the test if buf holds anything else. Every Command variant
// encodes to a single top-level field, so this is the common shape all
// these tests check against.
func decodeTopField(t *testing.T, buf []byte) (protowire.Number, []byte) {
	t.Helper()
	num, typ, n := protowire.ConsumeTag(buf)
	if n < 0 {
		t.Fatalf("malformed tag: %v", protowire.ParseError(n))
	}
	if typ != protowire.BytesType {
		t.Fatalf("wire type = %v, want BytesType", typ)
	}
	body, m := protowire.ConsumeBytes(buf[n:])
	if m < 0 {
		t.Fatalf("malformed length-delimited value: %v", protowire.ParseError(m))
	}
	if n+m != len(buf) {
		t.Fatalf("trailing bytes after single field: got %d, consumed %d", len(buf), n+m)
	}
	return num, body
}

func decodeStringField(t *testing.T, buf []byte, want protowire.Number) string {
	t.Helper()
	for len(buf) > 0 {
		num, typ, n := protowire.ConsumeTag(buf)
		if n < 0 {
			t.Fatalf("malformed tag: %v", protowire.ParseError(n))
		}
		buf = buf[n:]
		if typ != protowire.BytesType {
			t.Fatalf("wire type = %v, want BytesType", typ)
		}
		val, m := protowire.ConsumeBytes(buf)
		if m < 0 {
			t.Fatalf("malformed bytes: %v", protowire.ParseError(m))
		}
		buf = buf[m:]
		if num == want {
			return string(val)
		}
	}
	t.Fatalf("field %d not found", want)
	return ""
}

func TestEncodeCommandEmptyVariants(t *testing.T) {
	cases := []struct {
		name string
		cmd  Command
		want protowire.Number
	}{
		{"Capability", Capability{}, fieldCapability},
		{"Noop", Noop{}, fieldNoop},
		{"Logout", Logout{}, fieldLogout},
		{"StartTLS", StartTLS{}, fieldStartTLS},
		{"Idle", Idle{}, fieldIdle},
		{"Check", Check{}, fieldCheck},
		{"Close", Close{}, fieldClose},
		{"Expunge", Expunge{}, fieldExpunge},
		{"Unselect", Unselect{}, fieldUnselect},
		{"Done", Done{}, fieldDone},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			buf, err := EncodeCommand(c.cmd, maxCommandSize)
			if err != nil {
				t.Fatalf("EncodeCommand: %v", err)
			}
			num, body := decodeTopField(t, buf)
			if num != c.want {
				t.Errorf("field number = %d, want %d", num, c.want)
			}
			if len(body) != 0 {
				t.Errorf("body = %v, want empty", body)
			}
		})
	}
}

func TestEncodeCommandSelectCarriesMailbox(t *testing.T) {
	buf, err := EncodeCommand(Select{Mailbox: "INBOX"}, maxCommandSize)
	if err != nil {
		t.Fatalf("EncodeCommand: %v", err)
	}
	num, body := decodeTopField(t, buf)
	if num != fieldSelect {
		t.Fatalf("field number = %d, want %d", num, fieldSelect)
	}
	if got := decodeStringField(t, body, 1); got != "INBOX" {
		t.Errorf("mailbox = %q, want %q", got, "INBOX")
	}
}

func TestEncodeCommandLoginCarriesBothFields(t *testing.T) {
	buf, err := EncodeCommand(Login{Username: "SMITH", Password: "SESAME"}, maxCommandSize)
	if err != nil {
		t.Fatalf("EncodeCommand: %v", err)
	}
	_, body := decodeTopField(t, buf)
	if got := decodeStringField(t, body, 1); got != "SMITH" {
		t.Errorf("username = %q, want %q", got, "SMITH")
	}
	if got := decodeStringField(t, body, 2); got != "SESAME" {
		t.Errorf("password = %q, want %q", got, "SESAME")
	}
}

func TestEncodeCommandUidWrapsInnerCommand(t *testing.T) {
	set := SequenceSet{Items: []SequenceItem{singleItem("1")}}
	buf, err := EncodeCommand(Uid{Inner: Fetch{Set: set, Attrs: []FetchAttribute{{Keyword: FetchFlags}}}}, maxCommandSize)
	if err != nil {
		t.Fatalf("EncodeCommand: %v", err)
	}
	num, inner := decodeTopField(t, buf)
	if num != fieldUid {
		t.Fatalf("field number = %d, want %d (UID)", num, fieldUid)
	}
	// The UID wrapper's payload is itself a full Command encoding, the
	// same shape EncodeCommand produces for a top-level command.
	innerNum, _ := decodeTopField(t, inner)
	if innerNum != fieldFetch {
		t.Errorf("inner field number = %d, want %d (FETCH)", innerNum, fieldFetch)
	}
}

func TestEncodeCommandUidExpungeNotDoubleWrapped(t *testing.T) {
	set := SequenceSet{Items: []SequenceItem{rangeItem("1", "5")}}
	buf, err := EncodeCommand(UidExpunge{Set: set}, maxCommandSize)
	if err != nil {
		t.Fatalf("EncodeCommand: %v", err)
	}
	num, _ := decodeTopField(t, buf)
	if num != fieldUidExpunge {
		t.Errorf("field number = %d, want %d (UidExpunge, not wrapped in UID)", num, fieldUidExpunge)
	}
}

func TestEncodeCommandAppendOmitsAbsentDateTime(t *testing.T) {
	buf, err := EncodeCommand(Append{Mailbox: "Drafts", Flags: []string{"\\Seen"}, Literal: "hi"}, maxCommandSize)
	if err != nil {
		t.Fatalf("EncodeCommand: %v", err)
	}
	_, body := decodeTopField(t, buf)
	for len(body) > 0 {
		num, typ, n := protowire.ConsumeTag(body)
		if n < 0 {
			t.Fatalf("malformed tag: %v", protowire.ParseError(n))
		}
		body = body[n:]
		if typ != protowire.BytesType {
			t.Fatalf("wire type = %v, want BytesType", typ)
		}
		_, m := protowire.ConsumeBytes(body)
		if m < 0 {
			t.Fatalf("malformed bytes: %v", protowire.ParseError(m))
		}
		body = body[m:]
		if num == 3 {
			t.Errorf("field 3 (DateTime) present though DateTime was nil")
		}
	}
}

// unsupportedCommand is a stand-in Command variant unknown to
// EncodeCommand's type switch, used only to exercise its default case.
type unsupportedCommand struct{}

func (unsupportedCommand) isCommand() {}

func TestEncodeCommandUnknownVariantErrors(t *testing.T) {
	_, err := EncodeCommand(unsupportedCommand{}, maxCommandSize)
	if err == nil {
		t.Error("expected an error for an unrecognized Command variant")
	}
}
