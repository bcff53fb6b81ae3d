package dataset

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

const (
	labelPrefix = "data"
	labelSuffix = 'm'
	rssiMarker  = "RSSI:"
)

var (
	// ErrInvalidLabel is returned when a file name has a data<number>m
	// capture that is not a number, e.g. data1.2.3m.txt
	ErrInvalidLabel = errors.New("invalid distance label")
	// ErrInvalidRSSI is returned when an RSSI: capture is not a number
	ErrInvalidRSSI = errors.New("invalid rssi value")
)

// ParseError ties a parse failure to the file (and line) it came from
type ParseError struct {
	Source string
	Line   int // 0 for file name errors
	Text   string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %v %q", e.Source, e.Line, e.Err, e.Text)
	}
	return fmt.Sprintf("%s: %v %q", e.Source, e.Err, e.Text)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ParseDistanceLabel extracts the distance encoded as data<number>m in a
// file name. ok is false when the name carries no label at all; err is set
// when a label is present but is not a valid number.
func ParseDistanceLabel(name string) (distance float64, ok bool, err error) {
	rest := name
	for {
		i := strings.Index(rest, labelPrefix)
		if i < 0 {
			return 0, false, nil
		}
		rest = rest[i+len(labelPrefix):]

		n := spanFunc(rest, isLabelByte)
		if n > 0 && n < len(rest) && rest[n] == labelSuffix {
			text := rest[:n]
			v, perr := parseFloat(text)
			if perr != nil {
				return 0, true, &ParseError{Source: name, Text: text, Err: ErrInvalidLabel}
			}
			return v, true, nil
		}
	}
}

// ParseRSSI extracts the number following the first usable "RSSI:" marker
// in line. Any Unicode whitespace between the marker and the number is
// skipped.
func ParseRSSI(line string) (rssi float64, ok bool, err error) {
	rest := line
	for {
		i := strings.Index(rest, rssiMarker)
		if i < 0 {
			return 0, false, nil
		}
		rest = rest[i+len(rssiMarker):]

		j := len(rest) - len(strings.TrimLeftFunc(rest, isSpace))
		n := spanFunc(rest[j:], isRSSIByte)
		if n == 0 {
			continue
		}
		text := rest[j : j+n]
		v, perr := parseFloat(text)
		if perr != nil {
			return 0, true, &ParseError{Text: text, Err: ErrInvalidRSSI}
		}
		return v, true, nil
	}
}

// parseFloat accepts out-of-range values as ±Inf
func parseFloat(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil && errors.Is(err, strconv.ErrRange) {
		return v, nil
	}
	return v, err
}

func spanFunc(s string, f func(byte) bool) int {
	n := 0
	for n < len(s) && f(s[n]) {
		n++
	}
	return n
}

func isLabelByte(c byte) bool {
	return c == '.' || ('0' <= c && c <= '9')
}

func isRSSIByte(c byte) bool {
	return c == '-' || isLabelByte(c)
}

// isSpace is unicode.IsSpace plus the ASCII information separators
// U+001C..U+001F
func isSpace(r rune) bool {
	return unicode.IsSpace(r) || ('\x1c' <= r && r <= '\x1f')
}
