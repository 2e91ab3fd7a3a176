package lexer

import (
	"strings"
	"unicode/utf8"
)

// Cook decodes the escape sequences of a string literal body or a template
// element's raw text into the string value the program sees. ok is false
// when the text contains a malformed escape.
func Cook(raw string) (string, bool) {
	if !strings.Contains(raw, "\\") {
		return raw, true
	}
	var b strings.Builder
	b.Grow(len(raw))
	var pendingHigh rune = -1

	flushHigh := func() {
		if pendingHigh >= 0 {
			b.WriteRune(utf8.RuneError)
			pendingHigh = -1
		}
	}
	writeUnit := func(r rune) {
		switch {
		case r >= 0xD800 && r <= 0xDBFF:
			flushHigh()
			pendingHigh = r
		case r >= 0xDC00 && r <= 0xDFFF:
			if pendingHigh >= 0 {
				b.WriteRune(0x10000 + (pendingHigh-0xD800)<<10 + (r - 0xDC00))
				pendingHigh = -1
				return
			}
			b.WriteRune(utf8.RuneError)
		default:
			flushHigh()
			b.WriteRune(r)
		}
	}

	for i := 0; i < len(raw); {
		c := raw[i]
		if c != '\\' {
			flushHigh()
			r, size := utf8.DecodeRuneInString(raw[i:])
			b.WriteRune(r)
			i += size
			continue
		}
		i++
		if i >= len(raw) {
			return "", false
		}
		c = raw[i]
		switch c {
		case 'n':
			writeUnit('\n')
			i++
		case 'r':
			writeUnit('\r')
			i++
		case 't':
			writeUnit('\t')
			i++
		case 'b':
			writeUnit('\b')
			i++
		case 'f':
			writeUnit('\f')
			i++
		case 'v':
			writeUnit('\v')
			i++
		case '\r':
			// продолжение строки: \ + перевод строки ничего не даёт
			i++
			if i < len(raw) && raw[i] == '\n' {
				i++
			}
		case '\n':
			i++
		case 'x':
			if i+3 > len(raw) {
				return "", false
			}
			v, ok := parseHex(raw[i+1 : i+3])
			if !ok {
				return "", false
			}
			writeUnit(v)
			i += 3
		case 'u':
			v, n, ok := parseUnicodeEscape(raw[i+1:])
			if !ok {
				return "", false
			}
			writeUnit(v)
			i += 1 + n
		case '0', '1', '2', '3', '4', '5', '6', '7':
			// \0 без следующей цифры даёт NUL; иначе legacy octal (до \377)
			v := rune(c - '0')
			i++
			limit := 2
			if c > '3' {
				limit = 1
			}
			for k := 0; k < limit && i < len(raw) && raw[i] >= '0' && raw[i] <= '7'; k++ {
				v = v*8 + rune(raw[i]-'0')
				i++
			}
			writeUnit(v)
		default:
			r, size := utf8.DecodeRuneInString(raw[i:])
			i += size
			if r == '\u2028' || r == '\u2029' {
				continue
			}
			writeUnit(r)
		}
	}
	flushHigh()
	return b.String(), true
}

func parseHex(s string) (rune, bool) {
	if s == "" {
		return 0, false
	}
	var v rune
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
			v = v*16 + rune(c-'0')
		case c >= 'a' && c <= 'f':
			v = v*16 + rune(c-'a'+10)
		case c >= 'A' && c <= 'F':
			v = v*16 + rune(c-'A'+10)
		default:
			return 0, false
		}
		if v > utf8.MaxRune {
			return 0, false
		}
	}
	return v, true
}

// parseUnicodeEscape разбирает хвост после "\u": XXXX или {X...}.
// Возвращает значение и число прочитанных байт.
func parseUnicodeEscape(s string) (rune, int, bool) {
	if strings.HasPrefix(s, "{") {
		end := strings.IndexByte(s, '}')
		if end < 2 {
			return 0, 0, false
		}
		v, ok := parseHex(s[1:end])
		return v, end + 1, ok
	}
	if len(s) < 4 {
		return 0, 0, false
	}
	v, ok := parseHex(s[:4])
	return v, 4, ok
}
