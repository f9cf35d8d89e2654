package rfc5322

import (
	"testing"

	"github.com/rotisserie/eris"

	imap "github.com/meszmate/imapgram"
)

func TestParseAddressListSimple(t *testing.T) {
	addrs, err := ParseAddressList("joe@example.com")
	if err != nil {
		t.Fatal(err)
	}
	if len(addrs) != 1 || addrs[0].Addr != "joe@example.com" {
		t.Fatalf("got %+v", addrs)
	}
}

func TestParseAddressListDisplayName(t *testing.T) {
	addrs, err := ParseAddressList(`John Smith <john@example.com>`)
	if err != nil {
		t.Fatal(err)
	}
	if len(addrs) != 1 {
		t.Fatalf("got %+v", addrs)
	}
	if addrs[0].DisplayName != "John Smith" || addrs[0].Addr != "john@example.com" {
		t.Errorf("got %+v", addrs[0])
	}
}

func TestParseAddressListQuotedDisplayName(t *testing.T) {
	addrs, err := ParseAddressList(`"Mail Robot" <>`)
	if err != nil {
		t.Fatal(err)
	}
	if len(addrs) != 1 || addrs[0].DisplayName != "Mail Robot" || addrs[0].Addr != "" {
		t.Fatalf("got %+v", addrs)
	}
}

func TestParseAddressListMultiple(t *testing.T) {
	addrs, err := ParseAddressList("a@example.com, b@example.com ; c@example.com")
	if err != nil {
		t.Fatal(err)
	}
	if len(addrs) != 3 {
		t.Fatalf("got %d addresses, want 3: %+v", len(addrs), addrs)
	}
}

func TestParseAddressListGroup(t *testing.T) {
	addrs, err := ParseAddressList("Engineering: alice@example.com, bob@example.com;")
	if err != nil {
		t.Fatal(err)
	}
	if len(addrs) != 2 {
		t.Fatalf("got %d addresses, want 2: %+v", len(addrs), addrs)
	}
	for _, a := range addrs {
		if a.DisplayName != "" {
			t.Errorf("group member %+v has a display name, want none", a)
		}
	}
}

func TestParseAddressListEmptyGroup(t *testing.T) {
	addrs, err := ParseAddressList("undisclosed-recipients:;")
	if err != nil {
		t.Fatal(err)
	}
	if len(addrs) != 0 {
		t.Fatalf("got %+v, want empty", addrs)
	}
}

func TestParseAddressListPort(t *testing.T) {
	addrs, err := ParseAddressList("relay@example.com:2525")
	if err != nil {
		t.Fatal(err)
	}
	if addrs[0].Addr != "relay@example.com:2525" {
		t.Errorf("got %q", addrs[0].Addr)
	}
}

func TestParseAddressListInvalidPort(t *testing.T) {
	if _, err := ParseAddressList("<relay@example.com:abc>"); err == nil {
		t.Error("expected error for non-digit port")
	}
}

func TestParseAddressListDomainLiteral(t *testing.T) {
	addrs, err := ParseAddressList("joe@[10.0.0.1]")
	if err != nil {
		t.Fatal(err)
	}
	if addrs[0].Addr != "joe@[10.0.0.1]" {
		t.Errorf("got %q", addrs[0].Addr)
	}
}

func TestParseAddressListEncodedWord(t *testing.T) {
	addrs, err := ParseAddressList("=?utf-8?Q?Caf=C3=A9?= <cafe@example.com>")
	if err != nil {
		t.Fatal(err)
	}
	if addrs[0].DisplayName != "Café" {
		t.Errorf("got %q", addrs[0].DisplayName)
	}
}

func TestParseAddressListUnspacedQuotedAtom(t *testing.T) {
	// An atom immediately following a quoted-string with no source space
	// still gets a space on reconstruction: quoted-string and atom are
	// both inherently space_before=true word kinds.
	addrs, err := ParseAddressList(`First "Middle"Last <joe@example.com>`)
	if err != nil {
		t.Fatal(err)
	}
	if addrs[0].DisplayName != "First Middle Last" {
		t.Errorf("got %q, want %q", addrs[0].DisplayName, "First Middle Last")
	}
}

func TestParseAddressListGluedEncodedWord(t *testing.T) {
	// An encoded-word glued directly onto a preceding atom with no space
	// is not recognized as an encoded-word at all: the whole run scans as
	// one literal atom and is left undecoded.
	addrs, err := ParseAddressList(`First Middle=?utf-8?Q?Last?= <joe@example.com>`)
	if err != nil {
		t.Fatal(err)
	}
	want := "First Middle=?utf-8?Q?Last?="
	if addrs[0].DisplayName != want {
		t.Errorf("got %q, want %q", addrs[0].DisplayName, want)
	}
}

func TestParseAddressListComment(t *testing.T) {
	addrs, err := ParseAddressList("joe@example.com (this is a comment)")
	if err != nil {
		t.Fatal(err)
	}
	if len(addrs) != 1 || addrs[0].Addr != "joe@example.com" {
		t.Fatalf("got %+v", addrs)
	}
}

func TestParseAddressListTrailingCommaInAngleAddr(t *testing.T) {
	addrs, err := ParseAddressList("<joe@example.com, >")
	if err != nil {
		t.Fatal(err)
	}
	if len(addrs) != 1 || addrs[0].Addr != "joe@example.com" {
		t.Fatalf("got %+v", addrs)
	}
}

func TestParseAddressListInvalidPortReturnsSentinel(t *testing.T) {
	_, err := ParseAddressList("joe@example.com:")
	if err == nil {
		t.Fatal("expected an error for an empty port")
	}
	if !eris.Is(err, imap.ErrInvalidPort) {
		t.Errorf("err = %v, want eris.Is match against imap.ErrInvalidPort", err)
	}
}
