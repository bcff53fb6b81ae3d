package models

// Measurement is a single labeled RSSI sample
type Measurement struct {
	Distance float64 `json:"distance" doc:"Ground-truth distance in meters, taken from the file name"`
	RSSI     float64 `json:"rssi" doc:"Received signal strength in dBm"`

	// Where the sample came from, for diagnostics only
	Source string `json:"source,omitempty"`
	Line   int    `json:"line,omitempty"`
}

// Dataset is the collection of measurements fed to the fit. Order is irrelevant.
type Dataset []Measurement

// Len returns the number of measurements
func (d Dataset) Len() int {
	return len(d)
}

// Distances returns the distance column
func (d Dataset) Distances() []float64 {
	out := make([]float64, len(d))
	for i, m := range d {
		out[i] = m.Distance
	}
	return out
}

// RSSIs returns the rssi column
func (d Dataset) RSSIs() []float64 {
	out := make([]float64, len(d))
	for i, m := range d {
		out[i] = m.RSSI
	}
	return out
}

// DistinctRSSI counts the distinct rssi values in the dataset
func (d Dataset) DistinctRSSI() int {
	seen := make(map[float64]struct{}, len(d))
	for _, m := range d {
		seen[m.RSSI] = struct{}{}
	}
	return len(seen)
}

// ByDistance groups measurements by their distance label
func (d Dataset) ByDistance() map[float64]Dataset {
	out := make(map[float64]Dataset)
	for _, m := range d {
		out[m.Distance] = append(out[m.Distance], m)
	}
	return out
}
