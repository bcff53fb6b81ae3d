package dataset

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/RMahshie/rssifit/pkg/models"
)

// ErrNotText is returned for content that is not valid UTF-8
var ErrNotText = errors.New("file is not valid UTF-8 text")

// ReadMeasurements scans r line by line and returns one measurement per line
// carrying an RSSI: reading, all labeled with distance. Lines end at "\n",
// "\r\n" or a lone "\r". Lines without a reading are skipped. There is no
// limit on line length.
func ReadMeasurements(r io.Reader, source string, distance float64) (models.Dataset, error) {
	br := bufio.NewReader(r)
	var out models.Dataset
	lineNo := 0

	for {
		chunk, err := br.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, fmt.Errorf("read %s: %w", source, err)
		}
		if len(chunk) == 0 && err == io.EOF {
			break
		}

		for _, line := range splitLines(chunk) {
			lineNo++
			if !utf8.ValidString(line) {
				return nil, &ParseError{Source: source, Line: lineNo, Err: ErrNotText}
			}

			rssi, ok, perr := ParseRSSI(line)
			if perr != nil {
				var pe *ParseError
				if errors.As(perr, &pe) {
					pe.Source = source
					pe.Line = lineNo
				}
				return nil, perr
			}
			if ok {
				out = append(out, models.Measurement{
					Distance: distance,
					RSSI:     rssi,
					Source:   source,
					Line:     lineNo,
				})
			}
		}

		if err == io.EOF {
			break
		}
	}

	return out, nil
}

// splitLines breaks a chunk read up to '\n' into lines without their
// terminators. A "\r\n" pair never straddles two chunks.
func splitLines(chunk string) []string {
	chunk = strings.TrimSuffix(chunk, "\n")
	chunk = strings.TrimSuffix(chunk, "\r")
	return strings.Split(chunk, "\r")
}
