// Package rfc5322 parses the RFC 5322 date-time and address-list header
// grammars.
package rfc5322

import (
	"strconv"
	"strings"

	imap "github.com/meszmate/imapgram"
	"github.com/meszmate/imapgram/internal/gram"
)

// TZKind distinguishes a date-time's two mutually exclusive timezone
// representations (§3 "DateTime (RFC 5322)").
type TZKind int

const (
	// TZOffset is a signed numeric "+HHMM"/"-HHMM" zone.
	TZOffset TZKind = iota
	// TZCode is an obsolete alphabetic zone code (UT, EST, ...).
	TZCode
)

// DateTime is the RFC 5322 date-time production's parsed value.
// Exactly one of Offset (when TZ == TZOffset) or Code (when TZ ==
// TZCode) is meaningful; the other is zeroed, matching the wire
// invariant that only one tz variant round-trips through the boundary.
type DateTime struct {
	Day   int
	Month int // 1-12
	Year  int
	Hour  int
	Min   int
	Sec   int

	TZ     TZKind
	Offset int32 // packed sign/hour/minute; meaningful iff TZ == TZOffset
	Code   string // meaningful iff TZ == TZCode
}

var months = map[string]int{
	"JAN": 1, "FEB": 2, "MAR": 3, "APR": 4, "MAY": 5, "JUN": 6,
	"JUL": 7, "AUG": 8, "SEP": 9, "OCT": 10, "NOV": 11, "DEC": 12,
}

// obsZones is the set of RFC 5322 obs-zone alphabetic codes ParseDateTime
// accepts. It only validates the code; the Code field keeps the original
// token, so tz-kind Code round-trips the alphabetic form itself.
var obsZones = map[string]struct{}{
	"UT": {}, "UTC": {}, "GMT": {},
	"EST": {}, "EDT": {}, "CST": {}, "CDT": {},
	"MST": {}, "MDT": {}, "PST": {}, "PDT": {},
}

// EncodeOffset packs a signed zone offset into the 32-bit word §3
// describes: bit 31 is the sign (1 = positive), bits 15-8 are the hour,
// bits 7-0 are the minute.
func EncodeOffset(positive bool, hour, min int) int32 {
	var v uint32
	if positive {
		v |= 1 << 31
	}
	v |= uint32(hour&0xff) << 8
	v |= uint32(min & 0xff)
	return int32(v)
}

// DecodeOffset reverses EncodeOffset.
func DecodeOffset(v int32) (positive bool, hour, min int) {
	u := uint32(v)
	positive = u&(1<<31) != 0
	hour = int((u >> 8) & 0xff)
	min = int(u & 0xff)
	return
}

// ParseDateTime parses s as an RFC 5322 date-time production. nowYear is
// the current local year, used to resolve 2-digit years (§4.4); tests
// pass a fixed value so the pivot is deterministic.
func ParseDateTime(s string, nowYear int) (DateTime, error) {
	sc := gram.NewScanner([]byte(strings.TrimSpace(s)))
	skipCFWS(sc)
	skipDayName(sc)

	day, ok := readDigits(sc, 1, 2)
	if !ok {
		return DateTime{}, imap.ErrUnknownMonth
	}
	skipCFWS(sc)
	monthTok := readToken(sc)
	month, ok := months[strings.ToUpper(monthTok)]
	if !ok {
		return DateTime{}, imap.ErrUnknownMonth
	}
	skipCFWS(sc)
	yearTok := readDigitRun(sc)
	if len(yearTok) < 2 || len(yearTok) > 4 {
		return DateTime{}, imap.ErrUnknownMonth
	}
	year, err := strconv.Atoi(yearTok)
	if err != nil {
		return DateTime{}, imap.ErrUnknownMonth
	}
	if len(yearTok) <= 2 {
		pivot := nowYear % 100
		if year <= pivot {
			year += 2000
		} else {
			year += 1900
		}
	}
	skipCFWS(sc)

	hour, ok := readDigits(sc, 2, 2)
	if !ok || !sc.Match(':') {
		return DateTime{}, imap.ErrUnknownMonth
	}
	min, ok := readDigits(sc, 2, 2)
	if !ok {
		return DateTime{}, imap.ErrUnknownMonth
	}
	sec := 0
	if sc.Match(':') {
		sec, ok = readDigits(sc, 2, 2)
		if !ok {
			return DateTime{}, imap.ErrUnknownMonth
		}
	}
	skipCFWS(sc)

	dt := DateTime{Day: day, Month: month, Year: year, Hour: hour, Min: min, Sec: sec}

	b, hasByte := sc.Peek()
	switch {
	case hasByte && (b == '+' || b == '-'):
		sign := b == '+'
		sc.Pos++
		zh, ok1 := readDigits(sc, 2, 2)
		zm, ok2 := readDigits(sc, 2, 2)
		if !ok1 || !ok2 {
			return DateTime{}, imap.ErrUnknownZone
		}
		dt.TZ = TZOffset
		dt.Offset = EncodeOffset(sign, zh, zm)
	case hasByte && gram.IsDigit(b):
		// A bare "0000" zone is lenient-mode shorthand for "+0000".
		zoneTok := readDigitRun(sc)
		if zoneTok != "0000" {
			return DateTime{}, imap.ErrUnknownZone
		}
		dt.TZ = TZOffset
		dt.Offset = EncodeOffset(true, 0, 0)
	default:
		code := strings.ToUpper(readToken(sc))
		if _, ok := obsZones[code]; !ok {
			return DateTime{}, imap.ErrUnknownZone
		}
		dt.TZ = TZCode
		dt.Code = code
	}
	return dt, nil
}

func skipCFWS(sc *gram.Scanner) {
	for {
		b, ok := sc.Peek()
		if !ok {
			return
		}
		if b == ' ' || b == '\t' {
			sc.Pos++
			continue
		}
		if b == '(' {
			depth := 0
			for {
				c, ok := sc.Advance()
				if !ok {
					return
				}
				if c == '(' {
					depth++
				} else if c == ')' {
					depth--
					if depth == 0 {
						break
					}
				}
			}
			continue
		}
		return
	}
}

// skipDayName consumes an optional "Mon, " prefix.
func skipDayName(sc *gram.Scanner) {
	start := sc.Pos
	sc.TakeWhile(gram.IsAlpha)
	skipCFWS(sc)
	if sc.Match(',') {
		skipCFWS(sc)
		return
	}
	sc.Pos = start
}

func readToken(sc *gram.Scanner) string {
	start := sc.Pos
	sc.TakeWhile(func(b byte) bool { return gram.IsAlpha(b) })
	return string(sc.Slice(start))
}

func readDigitRun(sc *gram.Scanner) string {
	start := sc.Pos
	sc.TakeWhile(gram.IsDigit)
	return string(sc.Slice(start))
}

// readDigits reads between min and max digits and parses them as an int.
func readDigits(sc *gram.Scanner, min, max int) (int, bool) {
	start := sc.Pos
	for sc.Pos-start < max {
		b, ok := sc.Peek()
		if !ok || !gram.IsDigit(b) {
			break
		}
		sc.Pos++
	}
	text := string(sc.Slice(start))
	if len(text) < min {
		return 0, false
	}
	n, err := strconv.Atoi(text)
	if err != nil {
		return 0, false
	}
	return n, true
}
