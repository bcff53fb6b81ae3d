package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDistanceLabel(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		want    float64
		wantOK  bool
		wantErr error
	}{
		{name: "decimal", file: "data1.5m.txt", want: 1.5, wantOK: true},
		{name: "integer", file: "data3m.txt", want: 3, wantOK: true},
		{name: "trailing text", file: "data0.75m_hallway.txt", want: 0.75, wantOK: true},
		{name: "leading dot", file: "data.5m.txt", want: 0.5, wantOK: true},
		{name: "second occurrence", file: "data_old_data2.0m.txt", want: 2, wantOK: true},
		{name: "no suffix", file: "data1.5.txt", wantOK: false},
		{name: "no number", file: "datam.txt", wantOK: false},
		{name: "unrelated", file: "readings.txt", wantOK: false},
		{name: "unit is not meters", file: "data12cm.txt", wantOK: false},
		{name: "two dots", file: "data1.2.3m.txt", wantOK: true, wantErr: ErrInvalidLabel},
		{name: "lone dot", file: "data.m.txt", wantOK: true, wantErr: ErrInvalidLabel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok, err := ParseDistanceLabel(tt.file)
			assert.Equal(t, tt.wantOK, ok)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				var pe *ParseError
				require.ErrorAs(t, err, &pe)
				assert.Equal(t, tt.file, pe.Source)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseRSSI(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		want    float64
		wantOK  bool
		wantErr error
	}{
		{name: "decimal", line: "RSSI: -55.2", want: -55.2, wantOK: true},
		{name: "no space", line: "RSSI:-61", want: -61, wantOK: true},
		{name: "tab and newline", line: "RSSI:\t -70.5\n", want: -70.5, wantOK: true},
		{name: "embedded", line: "12:00:01 addr=2D:7E:1A:02:3D:21 RSSI: -48 dBm", want: -48, wantOK: true},
		{name: "positive", line: "RSSI: 3", want: 3, wantOK: true},
		{name: "second marker", line: "RSSI: n/a RSSI: -66", want: -66, wantOK: true},
		{name: "no-break space", line: "RSSI:\u00a0-55.2", want: -55.2, wantOK: true},
		{name: "em space", line: "RSSI:\u2003\u2003-61", want: -61, wantOK: true},
		{name: "unit separator", line: "RSSI:\x1f-40", want: -40, wantOK: true},
		{name: "no marker", line: "Distance: 1.5", wantOK: false},
		{name: "lower case marker", line: "rssi: -50", wantOK: false},
		{name: "marker without number", line: "RSSI: unknown", wantOK: false},
		{name: "empty", line: "", wantOK: false},
		{name: "lone minus", line: "RSSI: -", wantOK: true, wantErr: ErrInvalidRSSI},
		{name: "range", line: "RSSI: 5-3", wantOK: true, wantErr: ErrInvalidRSSI},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok, err := ParseRSSI(tt.line)
			assert.Equal(t, tt.wantOK, ok)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
