// Package address converts spreadsheet cell addresses between the "A1" and
// "R1C1" notations and zero-based (column, row) coordinates.
//
// All functions are pure and safe for concurrent use. Malformed input never
// panics; decoders report it through their boolean result.
package address

import (
	"math"
	"strconv"
	"strings"
)

// Notation selects the textual form of a cell address.
type Notation int

const (
	// A1 is the column-letters + one-based row form, e.g. "C5".
	A1 Notation = iota
	// R1C1 is the "R<row>C<column>" form with one-based numerals, e.g. "R5C3".
	R1C1
)

// String returns the canonical lower-case name of the notation.
func (n Notation) String() string {
	switch n {
	case R1C1:
		return "r1c1"
	default:
		return "a1"
	}
}

// ParseNotation maps "a1" or "r1c1" (any case) to a Notation. Anything else
// maps to A1, matching the fallback of Decode.
func ParseNotation(s string) Notation {
	if strings.EqualFold(strings.TrimSpace(s), "r1c1") {
		return R1C1
	}
	return A1
}

// Coordinate is a zero-based cell position.
type Coordinate struct {
	Column int `json:"column" yaml:"column"`
	Row    int `json:"row" yaml:"row"`
}

// Decode decodes text in the given notation. Unknown notations fall back to A1.
func Decode(text string, n Notation) (Coordinate, bool) {
	if n == R1C1 {
		return DecodeR1C1(text)
	}
	return DecodeA1(text)
}

// DecodeA1 decodes an address such as "B3" into (1, 2). Column letters are
// case-insensitive; the row must be a plain run of decimal digits.
func DecodeA1(text string) (Coordinate, bool) {
	split := 0
	for split < len(text) && isLetter(text[split]) {
		split++
	}

	col, ok := decodeColumn(text[:split])
	if !ok {
		return Coordinate{}, false
	}
	row, ok := parseDigits(text[split:])
	if !ok || row < 1 {
		return Coordinate{}, false
	}
	return Coordinate{Column: col - 1, Row: row - 1}, true
}

// DecodeR1C1 decodes an address such as "R5C3" into (2, 4). The R and C
// markers are case-insensitive.
//
// Row and column numerals of 1 are rejected along with 0, so "R1C1" does not
// decode; the smallest accepted address is "R2C2".
//
// The whole text must match: "R5C3x" is rejected rather than read as "R5C3"
// with the trailing text ignored.
func DecodeR1C1(text string) (Coordinate, bool) {
	if len(text) == 0 || (text[0] != 'R' && text[0] != 'r') {
		return Coordinate{}, false
	}
	rest := text[1:]

	i := 0
	for i < len(rest) && isDigit(rest[i]) {
		i++
	}
	rowText := rest[:i]
	rest = rest[i:]

	if len(rest) == 0 || (rest[0] != 'C' && rest[0] != 'c') {
		return Coordinate{}, false
	}
	colText := rest[1:]

	row, ok := parseDigits(rowText)
	if !ok {
		return Coordinate{}, false
	}
	col, ok := parseDigits(colText)
	if !ok {
		return Coordinate{}, false
	}
	if row <= 1 || col <= 1 {
		return Coordinate{}, false
	}
	return Coordinate{Column: col - 1, Row: row - 1}, true
}

// EncodeColumnName returns the letters for a zero-based column index:
// 0 is "A", 25 is "Z", 26 is "AA". Negative indexes yield "".
func EncodeColumnName(col int) string {
	if col < 0 {
		return ""
	}
	var buf [16]byte
	i := len(buf)
	for n := col; n >= 0; n = n/26 - 1 {
		i--
		buf[i] = byte('A' + n%26)
	}
	return string(buf[i:])
}

// EncodeA1 formats c as an A1 address.
func EncodeA1(c Coordinate) string {
	return EncodeColumnName(c.Column) + strconv.Itoa(c.Row+1)
}

// EncodeR1C1 formats c as an R1C1 address.
func EncodeR1C1(c Coordinate) string {
	return "R" + strconv.Itoa(c.Row+1) + "C" + strconv.Itoa(c.Column+1)
}

// decodeColumn reads letters as a bijective base-26 numeral (A=1 ... Z=26).
func decodeColumn(letters string) (int, bool) {
	if letters == "" {
		return 0, false
	}
	n := 0
	for i := 0; i < len(letters); i++ {
		v := int(upper(letters[i])-'A') + 1
		if v < 1 || v > 26 {
			return 0, false
		}
		if n > (math.MaxInt-v)/26 {
			return 0, false
		}
		n = n*26 + v
	}
	return n, true
}

// parseDigits parses a non-empty run of ASCII digits. Signs, spaces and
// values that overflow int are rejected.
func parseDigits(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

func isLetter(b byte) bool {
	return ('A' <= b && b <= 'Z') || ('a' <= b && b <= 'z')
}

func isDigit(b byte) bool {
	return '0' <= b && b <= '9'
}

func upper(b byte) byte {
	if 'a' <= b && b <= 'z' {
		return b - ('a' - 'A')
	}
	return b
}
