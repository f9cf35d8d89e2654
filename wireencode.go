package imap

import (
	"github.com/rotisserie/eris"
	"google.golang.org/protobuf/encoding/protowire"
)

// Field numbers for the top-level Command message's one-of-like variant
// fields (§6 "Command wire format"). Field-name (here, number) stability
// across versions is the compatibility commitment the design calls for;
// never renumber an existing entry, only append.
const (
	fieldCapability FieldNumber = 1
	fieldNoop       FieldNumber = 2
	fieldLogout     FieldNumber = 3
	fieldIdGet      FieldNumber = 4
	fieldIdSet      FieldNumber = 5
	fieldStartTLS   FieldNumber = 6
	fieldAuth       FieldNumber = 7
	fieldLogin      FieldNumber = 8
	fieldSelect     FieldNumber = 9
	fieldExamine    FieldNumber = 10
	fieldCreate     FieldNumber = 11
	fieldDelete     FieldNumber = 12
	fieldRename     FieldNumber = 13
	fieldSubscribe  FieldNumber = 14
	fieldUnsub      FieldNumber = 15
	fieldList       FieldNumber = 16
	fieldLsub       FieldNumber = 17
	fieldStatus     FieldNumber = 18
	fieldAppend     FieldNumber = 19
	fieldIdle       FieldNumber = 20
	fieldCheck      FieldNumber = 21
	fieldClose      FieldNumber = 22
	fieldExpunge    FieldNumber = 23
	fieldUidExpunge FieldNumber = 24
	fieldUnselect   FieldNumber = 25
	fieldSearch     FieldNumber = 26
	fieldFetch      FieldNumber = 27
	fieldStore      FieldNumber = 28
	fieldCopy       FieldNumber = 29
	fieldMove       FieldNumber = 30
	fieldUid        FieldNumber = 31
	fieldDone       FieldNumber = 32
)

// FieldNumber is an alias for protowire.Number, so the numeric
// constants above read as a schema rather than magic numbers.
type FieldNumber = protowire.Number

// EncodeCommand serializes cmd to the protobuf-compatible wire format
// described in §6. It hand-assembles the bytes with protowire rather
// than generating code from a .proto file — the design fixes the wire
// format, not how it gets produced. maxSize is the configured
// ParserLimits.MaxCommandSize ceiling; pass maxCommandSize (the
// spec-documented default) for callers with no limit of their own.
func EncodeCommand(cmd Command, maxSize int) ([]byte, error) {
	var buf []byte
	switch c := cmd.(type) {
	case Capability:
		buf = appendEmpty(buf, fieldCapability)
	case Noop:
		buf = appendEmpty(buf, fieldNoop)
	case Logout:
		buf = appendEmpty(buf, fieldLogout)
	case IdGet:
		buf = appendEmpty(buf, fieldIdGet)
	case IdSet:
		buf = appendSubmessageBytes(buf, fieldIdSet, encodeIdSet(c))
	case StartTLS:
		buf = appendEmpty(buf, fieldStartTLS)
	case Auth:
		buf = appendSubmessageBytes(buf, fieldAuth, encodeAuth(c))
	case Login:
		buf = appendSubmessageBytes(buf, fieldLogin, encodeLogin(c))
	case Select:
		buf = appendSubmessageBytes(buf, fieldSelect, encodeMailboxOnly(c.Mailbox))
	case Examine:
		buf = appendSubmessageBytes(buf, fieldExamine, encodeMailboxOnly(c.Mailbox))
	case Create:
		buf = appendSubmessageBytes(buf, fieldCreate, encodeMailboxOnly(c.Mailbox))
	case Delete:
		buf = appendSubmessageBytes(buf, fieldDelete, encodeMailboxOnly(c.Mailbox))
	case Rename:
		buf = appendSubmessageBytes(buf, fieldRename, encodeRename(c))
	case Subscribe:
		buf = appendSubmessageBytes(buf, fieldSubscribe, encodeMailboxOnly(c.Mailbox))
	case Unsubscribe:
		buf = appendSubmessageBytes(buf, fieldUnsub, encodeMailboxOnly(c.Mailbox))
	case List:
		buf = appendSubmessageBytes(buf, fieldList, encodeListLike(c.Reference, c.Mailbox))
	case Lsub:
		buf = appendSubmessageBytes(buf, fieldLsub, encodeListLike(c.Reference, c.Mailbox))
	case Status:
		buf = appendSubmessageBytes(buf, fieldStatus, encodeStatus(c))
	case Append:
		buf = appendSubmessageBytes(buf, fieldAppend, encodeAppend(c))
	case Idle:
		buf = appendEmpty(buf, fieldIdle)
	case Check:
		buf = appendEmpty(buf, fieldCheck)
	case Close:
		buf = appendEmpty(buf, fieldClose)
	case Expunge:
		buf = appendEmpty(buf, fieldExpunge)
	case UidExpunge:
		buf = appendSubmessageBytes(buf, fieldUidExpunge, encodeSequenceSet(c.Set))
	case Unselect:
		buf = appendEmpty(buf, fieldUnselect)
	case Search:
		buf = appendSubmessageBytes(buf, fieldSearch, encodeSearch(c))
	case Fetch:
		buf = appendSubmessageBytes(buf, fieldFetch, encodeFetch(c))
	case Store:
		buf = appendSubmessageBytes(buf, fieldStore, encodeStore(c))
	case Copy:
		buf = appendSubmessageBytes(buf, fieldCopy, encodeCopyMove(c.Set, c.Mailbox))
	case Move:
		buf = appendSubmessageBytes(buf, fieldMove, encodeCopyMove(c.Set, c.Mailbox))
	case Uid:
		inner, err := EncodeCommand(c.Inner, maxSize)
		if err != nil {
			return nil, err
		}
		buf = appendSubmessageBytes(buf, fieldUid, inner)
	case Done:
		buf = appendEmpty(buf, fieldDone)
	default:
		return nil, eris.New("imap: unknown command variant")
	}
	if len(buf) > maxSize {
		return nil, ErrCommandTooLarge
	}
	return buf, nil
}

// maxCommandSize is the ~2 GiB serialized-command ceiling named in §4.1
// and §7 ("command size overflow when serializing a command larger than
// ≈2 GiB") — the default ParserLimits.MaxCommandSize value.
const maxCommandSize = 1<<31 - 1

func appendEmpty(buf []byte, num FieldNumber) []byte {
	buf = protowire.AppendTag(buf, num, protowire.BytesType)
	return protowire.AppendBytes(buf, nil)
}

func appendSubmessageBytes(buf []byte, num FieldNumber, body []byte) []byte {
	buf = protowire.AppendTag(buf, num, protowire.BytesType)
	return protowire.AppendBytes(buf, body)
}

func appendStringField(buf []byte, num FieldNumber, s string) []byte {
	if s == "" {
		return buf
	}
	buf = protowire.AppendTag(buf, num, protowire.BytesType)
	return protowire.AppendBytes(buf, []byte(s))
}

func appendVarintField(buf []byte, num FieldNumber, v uint64) []byte {
	buf = protowire.AppendTag(buf, num, protowire.VarintType)
	return protowire.AppendVarint(buf, v)
}

func encodeMailboxOnly(mailbox string) []byte {
	return appendStringField(nil, 1, mailbox)
}

func encodeListLike(reference, mailbox string) []byte {
	var buf []byte
	buf = appendStringField(buf, 1, reference)
	buf = appendStringField(buf, 2, mailbox)
	return buf
}

func encodeRename(c Rename) []byte {
	var buf []byte
	buf = appendStringField(buf, 1, c.Mailbox)
	buf = appendStringField(buf, 2, c.NewName)
	return buf
}

func encodeIdSet(c IdSet) []byte {
	var buf []byte
	for _, p := range c.Params {
		var entry []byte
		entry = appendStringField(entry, 1, p.Key)
		entry = appendStringField(entry, 2, p.Value)
		buf = appendSubmessageBytes(buf, 1, entry)
	}
	return buf
}

func encodeAuth(c Auth) []byte {
	var buf []byte
	buf = appendStringField(buf, 1, c.Mechanism)
	for _, d := range c.Data {
		buf = appendStringField(buf, 2, d)
	}
	return buf
}

func encodeLogin(c Login) []byte {
	var buf []byte
	buf = appendStringField(buf, 1, c.Username)
	buf = appendStringField(buf, 2, c.Password)
	return buf
}

func encodeStatus(c Status) []byte {
	var buf []byte
	buf = appendStringField(buf, 1, c.Mailbox)
	for _, a := range c.Attrs {
		buf = appendVarintField(buf, 2, uint64(a))
	}
	return buf
}

func encodeAppend(c Append) []byte {
	var buf []byte
	buf = appendStringField(buf, 1, c.Mailbox)
	for _, f := range c.Flags {
		buf = appendStringField(buf, 2, f)
	}
	if c.DateTime != nil {
		buf = appendSubmessageBytes(buf, 3, encodeDateTime(*c.DateTime))
	}
	buf = appendStringField(buf, 4, c.Literal)
	return buf
}

func encodeDateTime(dt DateTime) []byte {
	var buf []byte
	buf = appendVarintField(buf, 1, uint64(dt.Day))
	buf = appendVarintField(buf, 2, uint64(dt.Month))
	buf = appendVarintField(buf, 3, uint64(dt.Year))
	buf = appendVarintField(buf, 4, uint64(dt.Time.Hour))
	buf = appendVarintField(buf, 5, uint64(dt.Time.Min))
	buf = appendVarintField(buf, 6, uint64(dt.Sec))
	buf = appendVarintField(buf, 7, uint64(dt.Zone.Hour))
	buf = appendVarintField(buf, 8, uint64(dt.Zone.Min))
	if dt.Zone.Positive {
		buf = appendVarintField(buf, 9, 1)
	}
	return buf
}

func encodeSequenceSet(set SequenceSet) []byte {
	var buf []byte
	for _, item := range set.Items {
		buf = appendSubmessageBytes(buf, 1, encodeSequenceItem(item))
	}
	return buf
}

func encodeSequenceItem(item SequenceItem) []byte {
	var buf []byte
	if item.Number != nil {
		buf = appendStringField(buf, 1, *item.Number)
	}
	if item.Range != nil {
		var r []byte
		r = appendStringField(r, 1, item.Range.Begin)
		r = appendStringField(r, 2, item.Range.End)
		buf = appendSubmessageBytes(buf, 2, r)
	}
	return buf
}

func encodeSearch(c Search) []byte {
	var buf []byte
	buf = appendStringField(buf, 1, c.Charset)
	for _, k := range c.Keys {
		buf = appendSubmessageBytes(buf, 2, encodeSearchKey(k))
	}
	return buf
}

func encodeSearchKey(k SearchKey) []byte {
	var buf []byte
	buf = appendVarintField(buf, 1, uint64(k.Keyword))
	if k.Text != nil {
		buf = appendStringField(buf, 2, *k.Text)
	}
	if k.Date != nil {
		buf = appendSubmessageBytes(buf, 3, encodeDate(*k.Date))
	}
	if k.Flag != nil {
		buf = appendStringField(buf, 4, *k.Flag)
	}
	if k.Field != nil {
		buf = appendStringField(buf, 5, *k.Field)
	}
	if k.Size != nil {
		buf = appendVarintField(buf, 6, uint64(*k.Size))
	}
	if k.Set != nil {
		buf = appendSubmessageBytes(buf, 7, encodeSequenceSet(*k.Set))
	}
	if k.LeftOp != nil {
		buf = appendSubmessageBytes(buf, 8, encodeSearchKey(*k.LeftOp))
	}
	if k.RightOp != nil {
		buf = appendSubmessageBytes(buf, 9, encodeSearchKey(*k.RightOp))
	}
	for _, child := range k.Children {
		buf = appendSubmessageBytes(buf, 10, encodeSearchKey(child))
	}
	return buf
}

func encodeDate(d Date) []byte {
	var buf []byte
	buf = appendVarintField(buf, 1, uint64(d.Day))
	buf = appendVarintField(buf, 2, uint64(d.Month))
	buf = appendVarintField(buf, 3, uint64(d.Year))
	return buf
}

func encodeFetch(c Fetch) []byte {
	var buf []byte
	buf = appendSubmessageBytes(buf, 1, encodeSequenceSet(c.Set))
	for _, a := range c.Attrs {
		buf = appendSubmessageBytes(buf, 2, encodeFetchAttribute(a))
	}
	return buf
}

func encodeFetchAttribute(a FetchAttribute) []byte {
	var buf []byte
	buf = appendVarintField(buf, 1, uint64(a.Keyword))
	if a.Section != nil {
		buf = appendSubmessageBytes(buf, 2, encodeBodySection(*a.Section))
	}
	return buf
}

func encodeBodySection(s BodySection) []byte {
	var buf []byte
	buf = appendVarintField(buf, 1, uint64(s.Keyword))
	for _, p := range s.Part {
		buf = appendVarintField(buf, 2, uint64(p))
	}
	for _, f := range s.Fields {
		buf = appendStringField(buf, 3, f)
	}
	if s.Peek {
		buf = appendVarintField(buf, 4, 1)
	}
	if s.Partial != nil {
		var p []byte
		p = appendVarintField(p, 1, uint64(s.Partial.Begin))
		p = appendVarintField(p, 2, uint64(s.Partial.Count))
		buf = appendSubmessageBytes(buf, 5, p)
	}
	return buf
}

func encodeStore(c Store) []byte {
	var buf []byte
	buf = appendSubmessageBytes(buf, 1, encodeSequenceSet(c.Set))
	buf = appendVarintField(buf, 2, uint64(c.Action))
	if c.Silent {
		buf = appendVarintField(buf, 3, 1)
	}
	for _, f := range c.Flags {
		buf = appendStringField(buf, 4, f)
	}
	return buf
}

func encodeCopyMove(set SequenceSet, mailbox string) []byte {
	var buf []byte
	buf = appendSubmessageBytes(buf, 1, encodeSequenceSet(set))
	buf = appendStringField(buf, 2, mailbox)
	return buf
}
