package dataset

import (
	"strings"
	"testing"
	"testing/iotest"

	"github.com/RMahshie/rssifit/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadMeasurements(t *testing.T) {
	input := strings.Join([]string{
		"# capture started",
		"RSSI: -55.2",
		"",
		"device=beacon-a RSSI: -57",
		"RSSI: -56.5", // no trailing newline on the last line
	}, "\n")

	got, err := ReadMeasurements(strings.NewReader(input), "data1.5m.txt", 1.5)
	require.NoError(t, err)

	assert.Equal(t, models.Dataset{
		{Distance: 1.5, RSSI: -55.2, Source: "data1.5m.txt", Line: 2},
		{Distance: 1.5, RSSI: -57, Source: "data1.5m.txt", Line: 4},
		{Distance: 1.5, RSSI: -56.5, Source: "data1.5m.txt", Line: 5},
	}, got)
}

func TestReadMeasurements_LineEndings(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantRSSI  []float64
		wantLines []int
	}{
		{name: "carriage return", input: "RSSI: -50\rRSSI: -51\rRSSI: -52\r", wantRSSI: []float64{-50, -51, -52}, wantLines: []int{1, 2, 3}},
		{name: "crlf", input: "RSSI: -50\r\nRSSI: -51\r\n", wantRSSI: []float64{-50, -51}, wantLines: []int{1, 2}},
		{name: "mixed", input: "RSSI: -50\r\r\nRSSI: -51\nRSSI: -52\rRSSI: -53", wantRSSI: []float64{-50, -51, -52, -53}, wantLines: []int{1, 3, 4, 5}},
		{name: "blank carriage return lines", input: "\r\rRSSI: -60", wantRSSI: []float64{-60}, wantLines: []int{3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReadMeasurements(strings.NewReader(tt.input), "data1m.txt", 1)
			require.NoError(t, err)

			assert.Equal(t, tt.wantRSSI, got.RSSIs())
			lines := make([]int, 0, len(got))
			for _, m := range got {
				lines = append(lines, m.Line)
			}
			assert.Equal(t, tt.wantLines, lines)
		})
	}
}

func TestReadMeasurements_ErrorLineAfterCarriageReturn(t *testing.T) {
	_, err := ReadMeasurements(strings.NewReader("RSSI: -50\rRSSI: -5-0\r"), "data1m.txt", 1)

	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 2, pe.Line)
}

func TestReadMeasurements_NoReadings(t *testing.T) {
	got, err := ReadMeasurements(strings.NewReader("scan started\nscan stopped\n"), "data2m.txt", 2)
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = ReadMeasurements(strings.NewReader(""), "data2m.txt", 2)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestReadMeasurements_LongLine(t *testing.T) {
	line := strings.Repeat("x", 1<<20) + " RSSI: -72\n"

	got, err := ReadMeasurements(strings.NewReader(line), "data4m.txt", 4)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, -72.0, got[0].RSSI)
}

func TestReadMeasurements_Errors(t *testing.T) {
	t.Run("malformed number names file and line", func(t *testing.T) {
		_, err := ReadMeasurements(strings.NewReader("RSSI: -50\nRSSI: -5-0\n"), "data1m.txt", 1)
		assert.ErrorIs(t, err, ErrInvalidRSSI)

		var pe *ParseError
		require.ErrorAs(t, err, &pe)
		assert.Equal(t, "data1m.txt", pe.Source)
		assert.Equal(t, 2, pe.Line)
		assert.Contains(t, err.Error(), "data1m.txt:2")
	})

	t.Run("binary content", func(t *testing.T) {
		_, err := ReadMeasurements(strings.NewReader("RSSI: -50\n\xff\xfe\x00\n"), "data1m.txt", 1)
		assert.ErrorIs(t, err, ErrNotText)
	})

	t.Run("read error", func(t *testing.T) {
		_, err := ReadMeasurements(iotest.ErrReader(assert.AnError), "data1m.txt", 1)
		assert.ErrorIs(t, err, assert.AnError)
	})
}
