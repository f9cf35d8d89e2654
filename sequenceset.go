package imap

import "strings"

// SequenceSet is an ordered list of sequence-set items as written on the
// wire (§3 "Sub-records"). Unlike a numeric range model, items keep their
// original text so that "*" (and any other source quirk) round-trips
// exactly instead of collapsing into a sentinel value.
type SequenceSet struct {
	Items []SequenceItem
}

// SequenceItem is either a single number-or-"*" token or a Range.
// Exactly one of Number or Range is non-nil.
type SequenceItem struct {
	Number *string
	Range  *SequenceRange
}

// SequenceRange is the "begin:end" form of a sequence-set item. Begin and
// End are each either a decimal number or "*", kept as written.
type SequenceRange struct {
	Begin string
	End   string
}

// String renders the sequence set back to its wire form.
func (s SequenceSet) String() string {
	parts := make([]string, len(s.Items))
	for i, item := range s.Items {
		parts[i] = item.String()
	}
	return strings.Join(parts, ",")
}

// String renders one sequence-set item back to its wire form.
func (it SequenceItem) String() string {
	if it.Number != nil {
		return *it.Number
	}
	if it.Range != nil {
		return it.Range.Begin + ":" + it.Range.End
	}
	return ""
}

func singleItem(tok string) SequenceItem {
	t := tok
	return SequenceItem{Number: &t}
}

func rangeItem(begin, end string) SequenceItem {
	return SequenceItem{Range: &SequenceRange{Begin: begin, End: end}}
}
