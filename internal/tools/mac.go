package tools

import "strings"

// NormalizeMac returns a MAC address lower-cased and colon separated, e.g.
// "02-00-5E-10-00-AA" and "02005e1000aa" both give "02:00:5e:10:00:aa".
// Input that is not 12 hex digits is returned trimmed and lower-cased.
func NormalizeMac(in string) string {
	m := strings.ToLower(strings.TrimSpace(in))
	hex := make([]byte, 0, 12)
	for i := 0; i < len(m); i++ {
		switch c := m[i]; {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'f':
			hex = append(hex, c)
		case c == ':', c == '-', c == '.':
		default:
			return m
		}
	}
	if len(hex) != 12 {
		return m
	}
	var b strings.Builder
	for i := 0; i < 12; i += 2 {
		if i > 0 {
			b.WriteByte(':')
		}
		b.Write(hex[i : i+2])
	}
	return b.String()
}

// SameMac reports whether a and b are the same non-empty MAC address.
func SameMac(a, b string) bool {
	return a != "" && b != "" && NormalizeMac(a) == NormalizeMac(b)
}
