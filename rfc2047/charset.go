package rfc2047

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"

	imap "github.com/meszmate/imapgram"
)

// transcodeToUTF8 converts raw bytes in charset to UTF-8, emulating
// "iconv(UTF-8//TRANSLIT//IGNORE, charset)" (§4.3): bytes the target
// encoding cannot represent are replaced with the Unicode replacement
// character when the encoding's own decoder supports that (TRANSLIT),
// or skipped outright when it doesn't (IGNORE). Unknown charsets fail
// with ErrUnsupportedCharset.
func transcodeToUTF8(raw []byte, charset string) (string, error) {
	if strings.EqualFold(charset, "utf-8") || strings.EqualFold(charset, "us-ascii") || strings.EqualFold(charset, "ascii") {
		return sanitizeUTF8(raw), nil
	}
	enc, err := htmlindex.Get(charset)
	if err != nil || enc == nil {
		return "", imap.ErrUnsupportedCharset
	}
	decoder := enc.NewDecoder()
	out, _, terr := transform.Bytes(decoder, raw)
	if terr == nil {
		return string(out), nil
	}
	// IGNORE: fall back to decoding byte-by-byte, dropping whatever the
	// decoder rejects, so one bad run doesn't fail the whole word.
	var sb strings.Builder
	for i := 0; i < len(raw); {
		chunk, n, cerr := transform.Bytes(decoder, raw[i:i+1])
		if cerr != nil || n == 0 {
			i++
			continue
		}
		sb.Write(chunk)
		i++
	}
	return sb.String(), nil
}

// sanitizeUTF8 drops any byte sequence that is not valid UTF-8, matching
// the IGNORE half of TRANSLIT//IGNORE for a charset that is already
// UTF-8 or a subset of it.
func sanitizeUTF8(raw []byte) string {
	if utf8.Valid(raw) {
		return string(raw)
	}
	var sb strings.Builder
	for len(raw) > 0 {
		r, size := utf8.DecodeRune(raw)
		if r != utf8.RuneError || size > 1 {
			sb.WriteRune(r)
		}
		raw = raw[size:]
	}
	return sb.String()
}
