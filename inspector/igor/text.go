package igor

import (
	"golang.org/x/text/encoding/charmap"
	"strings"
	"unicode/utf8"
)

// splitLines decodes procedure text and splits it on LF, CRLF or CR
func splitLines(data []byte) []string {
	text := decode(data)
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return strings.Split(text, "\n")
}

// decode returns UTF-8 text, legacy procedure files are Windows-1252
func decode(data []byte) string {
	if utf8.Valid(data) {
		return strings.TrimPrefix(string(data), "\ufeff")
	}
	decoded, err := charmap.Windows1252.NewDecoder().Bytes(data)
	if err != nil {
		return string(data)
	}
	return string(decoded)
}
