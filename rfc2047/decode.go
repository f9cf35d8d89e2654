// Package rfc2047 decodes MIME encoded-words ("=?charset?enc?text?=")
// as they appear inside RFC 5322 display names, per RFC 2047.
package rfc2047

import (
	"encoding/base64"
	"strconv"
	"strings"

	imap "github.com/meszmate/imapgram"
)

// IsEncoded reports whether s begins with the "=?" probe sequence an
// encoded-word starts with.
func IsEncoded(s string) bool {
	return len(s) >= 2 && s[0] == '=' && s[1] == '?'
}

// Decode decodes a run of one or more adjacent encoded-words in s,
// concatenating their decoded text with no separator (§4.3). s must
// begin with "=?"; callers check IsEncoded first.
func Decode(s string) (string, error) {
	var out strings.Builder
	for len(s) > 0 {
		if !IsEncoded(s) {
			return "", imap.ErrMalformedQEscape
		}
		word, rest, err := decodeOne(s)
		if err != nil {
			return "", err
		}
		out.WriteString(word)
		s = rest
	}
	return out.String(), nil
}

// decodeOne decodes the single encoded-word prefix of s and returns the
// decoded text and the unconsumed remainder.
func decodeOne(s string) (string, string, error) {
	// s[0:2] == "=?"
	rest := s[2:]
	charset, rest, ok := cutField(rest)
	if !ok {
		return "", "", imap.ErrMalformedQEscape
	}
	encField, rest, ok := cutField(rest)
	if !ok || len(encField) != 1 {
		return "", "", imap.ErrMalformedQEscape
	}
	end := strings.Index(rest, "?=")
	if end < 0 {
		return "", "", imap.ErrMalformedQEscape
	}
	text := rest[:end]
	remainder := rest[end+2:]

	var raw []byte
	var err error
	switch encField[0] {
	case 'Q', 'q':
		raw, err = decodeQ(text)
	case 'B', 'b':
		raw, err = base64.StdEncoding.DecodeString(text)
		if err != nil {
			err = imap.ErrMalformedQEscape
		}
	default:
		return "", "", imap.ErrMalformedQEscape
	}
	if err != nil {
		return "", "", err
	}
	decoded, err := transcodeToUTF8(raw, charset)
	if err != nil {
		return "", "", err
	}
	return decoded, remainder, nil
}

// cutField splits off the text up to the next "?", per the
// "=?charset?enc?text?=" token shape.
func cutField(s string) (field, rest string, ok bool) {
	i := strings.IndexByte(s, '?')
	if i < 0 {
		return "", "", false
	}
	return s[:i], s[i+1:], true
}

// decodeQ decodes the "Q" transfer encoding: "_" is space, "=HH" is a
// hex-escaped byte, and other printable-ASCII/CR/LF/TAB bytes pass
// through unchanged (§4.3).
func decodeQ(s string) ([]byte, error) {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '_':
			out = append(out, ' ')
		case '=':
			if i+2 >= len(s) {
				return nil, imap.ErrMalformedQEscape
			}
			n, err := strconv.ParseUint(s[i+1:i+3], 16, 8)
			if err != nil {
				return nil, imap.ErrMalformedQEscape
			}
			out = append(out, byte(n))
			i += 2
		default:
			if c == '\r' || c == '\n' || c == '\t' || (c >= 0x20 && c < 0x7f) {
				out = append(out, c)
			} else {
				return nil, imap.ErrMalformedQEscape
			}
		}
	}
	return out, nil
}
