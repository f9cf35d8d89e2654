package imap

// FetchAttributeKeyword identifies a single FETCH data item (§3
// "FetchAttribute"). BodySection is the only keyword that carries a
// payload; it is recognized by Section being non-nil.
type FetchAttributeKeyword int

const (
	FetchEnvelope FetchAttributeKeyword = iota
	FetchFlags
	FetchInternalDate
	FetchRFC822
	FetchRFC822Header
	FetchRFC822Size
	FetchRFC822Text
	FetchBody
	FetchBodyStructure
	FetchUID
	FetchBodySection
)

// FetchAttribute is one element of a FETCH command's attribute list, or
// one element of the expansion of the ALL/FAST/FULL macros (§4.1 "FETCH
// macros" — expansion happens here, in the semantic layer, not in the
// grammar).
type FetchAttribute struct {
	Keyword FetchAttributeKeyword
	Section *BodySection // only set when Keyword == FetchBodySection
}

// fetchMacroAll is the expansion of "FETCH ... ALL".
var fetchMacroAll = []FetchAttribute{
	{Keyword: FetchFlags},
	{Keyword: FetchInternalDate},
	{Keyword: FetchRFC822Size},
	{Keyword: FetchEnvelope},
}

// fetchMacroFast is the expansion of "FETCH ... FAST".
var fetchMacroFast = fetchMacroAll[:3]

// fetchMacroFull is the expansion of "FETCH ... FULL": ALL plus BODY.
func fetchMacroFull() []FetchAttribute {
	full := make([]FetchAttribute, 0, len(fetchMacroAll)+1)
	full = append(full, fetchMacroAll...)
	full = append(full, FetchAttribute{Keyword: FetchBody})
	return full
}

// BodySectionKeyword identifies the shape of a BODY[...] / BODY.PEEK[...]
// section specifier.
type BodySectionKeyword int

const (
	// BodySectionWhole is the section specifier for a bare "BODY[]".
	BodySectionWhole BodySectionKeyword = iota
	BodySectionHeader
	BodySectionHeaderFields
	BodySectionHeaderFieldsNot
	BodySectionText
	BodySectionMIME
)

// BodySection is the parsed payload of one BODY[...] / BODY.PEEK[...]
// fetch attribute.
type BodySection struct {
	Keyword BodySectionKeyword
	// Part is the dotted MIME part number prefix (e.g. []int{1, 2} for
	// "1.2.HEADER"); empty for a top-level section.
	Part []int
	// Fields names the header fields for HeaderFields/HeaderFieldsNot.
	Fields []string
	// Peek is true for BODY.PEEK[...], which does not set \Seen.
	Peek bool
	// Partial is the optional "<begin.count>" byte range.
	Partial *BodyPartial
}

// BodyPartial is the "<begin.count>" partial-fetch byte range.
type BodyPartial struct {
	Begin int64
	Count int64
}
